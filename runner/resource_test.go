package runner

import (
    "strings"
    "testing"
    "time"

    . "github.com/AgentElement/functional-supercollider/message"
)

func validResourceData() *ResourceJSONData {
    return &ResourceJSONData{
        Nodes: 1,
        Cores: 8,
        WallTime: "02:00:00",
        Partition: "batch",
        Stdout: "/tmp/out-%j.log",
        Stderr: "/tmp/err-%j.log",
    }
}

func TestResourceRequestFromMessage(t *testing.T) {
    err, request := ResourceRequestFromMessage(validResourceData())
    if err != nil {
        t.Fatalf("valid resource rejected: %s", err.Error())
    }
    if request.WallTime != 2*time.Hour {
        t.Errorf("wall time: got %v", request.WallTime)
    }
    if request.ExportEnv != EXPORT_ENV_INHERIT {
        t.Errorf("default export policy: got %s", request.ExportEnv)
    }
    if request.NotifyEvents != 0 {
        t.Errorf("notify mask without events: got %d",
            request.NotifyEvents)
    }
}

func TestResourceRequestValidation(t *testing.T) {
    cases := []struct {
        name string
        mutate func(*ResourceJSONData)
    }{
        {"zero nodes", func(d *ResourceJSONData) { d.Nodes = 0 }},
        {"zero cores", func(d *ResourceJSONData) { d.Cores = 0 }},
        {"bad walltime", func(d *ResourceJSONData) { d.WallTime = "soon" }},
        {"stdout without placeholder",
            func(d *ResourceJSONData) { d.Stdout = "/tmp/out.log" }},
        {"stderr with two placeholders",
            func(d *ResourceJSONData) { d.Stderr = "/tmp/%j-%j.log" }},
        {"bad export policy",
            func(d *ResourceJSONData) { d.ExportEnv = "SOME" }},
        {"bad notify event",
            func(d *ResourceJSONData) { d.NotifyEvents = []string{"MAYBE"} }},
    }
    for _, c := range cases {
        data := validResourceData()
        c.mutate(data)
        if err, _ := ResourceRequestFromMessage(data); err == nil {
            t.Errorf("%s: should be rejected", c.name)
        }
    }
}

func TestParseNotifyEvents(t *testing.T) {
    err, mask := ParseNotifyEvents([]string{"BEGIN", "fail"})
    if err != nil {
        t.Fatalf("parse notify events: %s", err.Error())
    }
    if mask != NOTIFY_EVENT_BEGIN|NOTIFY_EVENT_FAIL {
        t.Errorf("mask: got %d", mask)
    }

    err, mask = ParseNotifyEvents([]string{"ALL"})
    if err != nil || mask != NOTIFY_EVENT_ALL {
        t.Errorf("ALL mask: got %d, err %v", mask, err)
    }
}

func TestDirectives(t *testing.T) {
    data := validResourceData()
    data.Qos = "long"
    data.NotifyEvents = []string{"END", "FAIL"}
    data.NotifyUser = "user@example.org"
    err, request := ResourceRequestFromMessage(data)
    if err != nil {
        t.Fatalf("valid resource rejected: %s", err.Error())
    }

    block := strings.Join(request.Directives(), "\n")
    for _, directive := range []string{
        "#SBATCH --nodes=1",
        "#SBATCH --ntasks=1",
        "#SBATCH --cpus-per-task=8",
        "#SBATCH --time=02:00:00",
        "#SBATCH --partition=batch",
        "#SBATCH --qos=long",
        "#SBATCH --mail-type=END,FAIL",
        "#SBATCH --mail-user=user@example.org",
        "#SBATCH --output=/tmp/out-%j.log",
        "#SBATCH --error=/tmp/err-%j.log",
        "#SBATCH --export=ALL",
    } {
        if !strings.Contains(block, directive) {
            t.Errorf("directive block misses %q:\n%s", directive, block)
        }
    }
}

func TestDirectivesExportNone(t *testing.T) {
    data := validResourceData()
    data.ExportEnv = EXPORT_ENV_NONE
    err, request := ResourceRequestFromMessage(data)
    if err != nil {
        t.Fatalf("valid resource rejected: %s", err.Error())
    }

    block := strings.Join(request.Directives(), "\n")
    if !strings.Contains(block, "#SBATCH --export=NONE") {
        t.Errorf("export NONE missing:\n%s", block)
    }
    if strings.Contains(block, "--mail-type") {
        t.Errorf("mail directives present without notify user:\n%s",
            block)
    }
}
