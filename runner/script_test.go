package runner

import (
    "strings"
    "testing"
)

func TestBuildSubmissionScript(t *testing.T) {
    registry := NewExperimentRegistry(nil)
    data := validBatchData()
    data.Toolchain = "v0.3.1"
    err, batch := ParseBatchMessage(data, registry, "")
    if err != nil {
        t.Fatalf("valid batch rejected: %s", err.Error())
    }

    script := BuildSubmissionScript(batch, "soup", "/opt/toolchains")

    if !strings.HasPrefix(script, "#!/bin/bash\n") {
        t.Errorf("script misses shebang:\n%s", script)
    }
    for _, want := range []string{
        "#SBATCH --cpus-per-task=4",
        "#SBATCH --time=01:00:00",
        "if [ ! -d \"/opt/toolchains/v0.3.1\" ]; then",
        "export PATH=\"/opt/toolchains/v0.3.1/bin:$PATH\"",
        "cd \"/scratch/entropy-sweep\" || exit 1",
        "soup run -- --experiment entropy-series",
        "soup run -- --experiment entropy-test,sync",
    } {
        if !strings.Contains(script, want) {
            t.Errorf("script misses %q:\n%s", want, script)
        }
    }

    /*default policy keeps going after a failure*/
    if strings.Contains(script, "set -e") {
        t.Errorf("continue policy script has set -e:\n%s", script)
    }

    /*invocations appear in declaration order*/
    first := strings.Index(script, "entropy-series")
    second := strings.Index(script, "entropy-test,sync")
    if first < 0 || second < 0 || first > second {
        t.Errorf("invocation order wrong:\n%s", script)
    }
}

func TestBuildSubmissionScriptStopPolicy(t *testing.T) {
    registry := NewExperimentRegistry(nil)
    data := validBatchData()
    data.OnFailure = "stop"
    err, batch := ParseBatchMessage(data, registry, "")
    if err != nil {
        t.Fatalf("valid batch rejected: %s", err.Error())
    }

    script := BuildSubmissionScript(batch, "soup", "")
    if !strings.Contains(script, "set -e\n") {
        t.Errorf("stop policy script misses set -e:\n%s", script)
    }
    if strings.Contains(script, "export PATH=") {
        t.Errorf("script exports toolchain PATH without toolchain:\n%s",
            script)
    }
}
