/*
 Copyright (c) 2024-2025 The functional-supercollider authors
 All rights reserved.

 Redistribution and use in source and binary forms, with or without
 modification, are permitted provided that the following conditions
 are met:
  1. Redistributions of source code must retain the above copyright
     notice, this list of conditions and the following disclaimer.
  2. Redistributions in binary form must reproduce the above copyright
     notice, this list of conditions and the following disclaimer in the
     documentation and/or other materials provided with the distribution.

  THIS SOFTWARE IS PROVIDED BY THE AUTHOR AND CONTRIBUTORS ``AS IS'' AND
  ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
  IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
  ARE DISCLAIMED.  IN NO EVENT SHALL THE AUTHOR OR CONTRIBUTORS BE LIABLE
  FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
  DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS
  OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION)
  HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT
  LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY
  OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF
  SUCH DAMAGE.
*/

package runner

import (
    "fmt"
    "sort"
    "sync"
    "errors"
)

/*
 * The experiment vocabulary mirrors the experiments built into
 * the supercollider binary. The binary is the source of truth,
 * this registry only exists so a typo fails at submission time
 * instead of as a dead invocation hours into a reservation.
 * Deployments running a newer binary extend the vocabulary
 * through RunnerConfig.Experiments.
 */
var defaultVocabulary = []string{
    "measure-initial-population",
    "add-scc-population-from-ski-inputs",
    "add-scc-population-from-random-inputs",
    "succ-kinetic",
    "add-search-with-test",
    "look-for-add",
    "look-for-xorset",
    "entropy-series",
    "entropy-test",
    "sync-entropy-test",
    "simulate-sample",
    "one-sample-with-dist",
}

type ExperimentRegistry struct {
    lock sync.RWMutex
    vocabulary map[string]bool
}

func NewExperimentRegistry(extensions []string) *ExperimentRegistry {
    registry := &ExperimentRegistry{
        vocabulary: make(map[string]bool),
    }
    for _, name := range defaultVocabulary {
        registry.vocabulary[name] = true
    }
    for _, name := range extensions {
        registry.vocabulary[name] = true
    }
    return registry
}

func (registry *ExperimentRegistry) Recognized(name string) bool {
    registry.lock.RLock()
    defer registry.lock.RUnlock()
    return registry.vocabulary[name]
}

func (registry *ExperimentRegistry) ValidateName(name string) error {
    if name == "" {
        return errors.New("Experiment name can't be empty")
    }
    if !registry.Recognized(name) {
        errMsg := fmt.Sprintf("Experiment %s not in the vocabulary of the supercollider binary",
            name)
        return errors.New(errMsg)
    }
    return nil
}

func (registry *ExperimentRegistry) Register(name string) {
    if name == "" {
        return
    }
    registry.lock.Lock()
    registry.vocabulary[name] = true
    registry.lock.Unlock()
}

func (registry *ExperimentRegistry) Names() []string {
    registry.lock.RLock()
    names := make([]string, 0, len(registry.vocabulary))
    for name, _ := range registry.vocabulary {
        names = append(names, name)
    }
    registry.lock.RUnlock()

    sort.Strings(names)
    return names
}
