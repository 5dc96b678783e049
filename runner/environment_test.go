package runner

import (
    "os"
    "path/filepath"
    "strings"
    "testing"
    "errors"
)

func TestPrepareWithToolchain(t *testing.T) {
    root := t.TempDir()
    workDir := t.TempDir()
    binDir := filepath.Join(root, "v0.3.1", "bin")
    if err := os.MkdirAll(binDir, 0755); err != nil {
        t.Fatal(err)
    }

    preparer := NewEnvPreparer(root)
    err, environment := preparer.Prepare("v0.3.1",
        NewWorkspaceHandle(workDir))
    if err != nil {
        t.Fatalf("prepare failed: %s", err.Error())
    }
    if environment.ToolchainDir != filepath.Join(root, "v0.3.1") {
        t.Errorf("toolchain dir: got %s", environment.ToolchainDir)
    }

    found := false
    for _, entry := range environment.Environ() {
        if strings.HasPrefix(entry, "PATH="+binDir+":") {
            found = true
        }
    }
    if !found {
        t.Errorf("toolchain bin dir not prepended to PATH")
    }
}

func TestPrepareMissingToolchain(t *testing.T) {
    preparer := NewEnvPreparer(t.TempDir())
    err, _ := preparer.Prepare("v9.9.9",
        NewWorkspaceHandle(t.TempDir()))
    if !errors.Is(err, ERR_TOOLCHAIN_NOT_FOUND) {
        t.Errorf("missing toolchain: got %v", err)
    }
}

func TestPrepareMissingWorkspace(t *testing.T) {
    preparer := NewEnvPreparer("")
    err, _ := preparer.Prepare("",
        NewWorkspaceHandle("/nonexistent/workspace"))
    if err == nil {
        t.Errorf("missing workspace accepted")
    }
}

func TestPrepareWithoutToolchainPin(t *testing.T) {
    preparer := NewEnvPreparer("")
    err, environment := preparer.Prepare("",
        NewWorkspaceHandle(t.TempDir()))
    if err != nil {
        t.Fatalf("prepare failed: %s", err.Error())
    }
    if environment.ToolchainDir != "" {
        t.Errorf("toolchain dir set without pin: %s",
            environment.ToolchainDir)
    }
}
