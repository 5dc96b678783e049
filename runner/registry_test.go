package runner

import (
    "sort"
    "testing"
)

func TestRegistryRecognizesVocabulary(t *testing.T) {
    registry := NewExperimentRegistry(nil)

    for _, name := range []string{"succ-kinetic", "look-for-add",
        "entropy-series", "one-sample-with-dist"} {
        if !registry.Recognized(name) {
            t.Errorf("built-in experiment %s not recognized", name)
        }
    }
    if registry.Recognized("look-for-nand") {
        t.Errorf("unknown experiment recognized")
    }
}

func TestRegistryValidateName(t *testing.T) {
    registry := NewExperimentRegistry(nil)

    if err := registry.ValidateName("simulate-sample"); err != nil {
        t.Errorf("valid name rejected: %s", err.Error())
    }
    if err := registry.ValidateName(""); err == nil {
        t.Errorf("empty name accepted")
    }
    if err := registry.ValidateName("frobnicate"); err == nil {
        t.Errorf("unknown name accepted")
    }
}

func TestRegistryExtensions(t *testing.T) {
    registry := NewExperimentRegistry([]string{"look-for-nand"})
    if !registry.Recognized("look-for-nand") {
        t.Errorf("configured extension not recognized")
    }

    registry.Register("fresh-experiment")
    if !registry.Recognized("fresh-experiment") {
        t.Errorf("registered experiment not recognized")
    }
}

func TestRegistryNamesSorted(t *testing.T) {
    registry := NewExperimentRegistry([]string{"aaa-first"})
    names := registry.Names()
    if !sort.StringsAreSorted(names) {
        t.Errorf("names not sorted: %v", names)
    }
    if names[0] != "aaa-first" {
        t.Errorf("extension missing from names: %v", names)
    }
}
