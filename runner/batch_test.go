package runner

import (
    "testing"

    . "github.com/AgentElement/functional-supercollider/message"
)

func validBatchData() *BatchJSONData {
    return &BatchJSONData{
        Name: "entropy-sweep",
        WorkDir: "/scratch/entropy-sweep",
        Resource: ResourceJSONData{
            Nodes: 1,
            Cores: 4,
            WallTime: "01:00:00",
            Stdout: "/scratch/out-%j.log",
            Stderr: "/scratch/err-%j.log",
        },
        Experiments: []ExperimentJSONData{
            {Name: "entropy-series"},
            {Name: "entropy-test", Flags: []string{"sync"}},
        },
    }
}

func TestParseBatchMessage(t *testing.T) {
    registry := NewExperimentRegistry(nil)

    err, batch := ParseBatchMessage(validBatchData(), registry, "")
    if err != nil {
        t.Fatalf("valid batch rejected: %s", err.Error())
    }
    if batch.Name != "entropy-sweep" {
        t.Errorf("name: got %s", batch.Name)
    }
    if batch.Workspace.Dir() != "/scratch/entropy-sweep" {
        t.Errorf("workspace: got %s", batch.Workspace.Dir())
    }
    if batch.Policy != CONTINUE_ON_FAILURE {
        t.Errorf("default policy: got %d", batch.Policy)
    }
    if len(batch.Experiments) != 2 {
        t.Fatalf("experiments: got %d", len(batch.Experiments))
    }
    if batch.Experiments[0].Name != "entropy-series" ||
        batch.Experiments[1].Name != "entropy-test" {
        t.Errorf("experiment order changed: %v", batch.Experiments)
    }
}

func TestParseBatchMessageRejections(t *testing.T) {
    registry := NewExperimentRegistry(nil)

    cases := []struct {
        name string
        mutate func(*BatchJSONData)
    }{
        {"empty name", func(d *BatchJSONData) { d.Name = "" }},
        {"empty workdir", func(d *BatchJSONData) { d.WorkDir = "" }},
        {"no experiments",
            func(d *BatchJSONData) { d.Experiments = nil }},
        {"unknown experiment", func(d *BatchJSONData) {
            d.Experiments[0].Name = "frobnicate"
        }},
        {"duplicate experiment", func(d *BatchJSONData) {
            d.Experiments[1].Name = d.Experiments[0].Name
        }},
        {"bad policy", func(d *BatchJSONData) { d.OnFailure = "retry" }},
    }
    for _, c := range cases {
        data := validBatchData()
        c.mutate(data)
        if err, _ := ParseBatchMessage(data, registry, ""); err == nil {
            t.Errorf("%s: should be rejected", c.name)
        }
    }
}

func TestParseBatchMessagePolicies(t *testing.T) {
    registry := NewExperimentRegistry(nil)

    data := validBatchData()
    data.OnFailure = "stop"
    err, batch := ParseBatchMessage(data, registry, "")
    if err != nil {
        t.Fatalf("stop policy rejected: %s", err.Error())
    }
    if batch.Policy != STOP_ON_FAILURE {
        t.Errorf("stop policy: got %d", batch.Policy)
    }

    /*service default applies when the batch is silent*/
    err, batch = ParseBatchMessage(validBatchData(), registry, "stop")
    if err != nil {
        t.Fatalf("default stop policy rejected: %s", err.Error())
    }
    if batch.Policy != STOP_ON_FAILURE {
        t.Errorf("configured default policy: got %d", batch.Policy)
    }
}

func TestExperimentDescriptorArgv(t *testing.T) {
    descriptor := ExperimentDescriptor{Name: "entropy-test"}
    argv := descriptor.Argv()
    expect := []string{"run", "--", "--experiment", "entropy-test"}
    if len(argv) != len(expect) {
        t.Fatalf("argv: got %v", argv)
    }
    for i := range expect {
        if argv[i] != expect[i] {
            t.Fatalf("argv: got %v", argv)
        }
    }

    flagged := ExperimentDescriptor{
        Name: "entropy-test",
        Flags: []string{"sync", "fast"},
    }
    if flagged.Token() != "entropy-test,sync,fast" {
        t.Errorf("token: got %s", flagged.Token())
    }
}
