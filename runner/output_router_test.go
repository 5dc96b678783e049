package runner

import (
    "io/ioutil"
    "path/filepath"
    "testing"
)

func testRequest(dir string) *ResourceRequest {
    return &ResourceRequest{
        Nodes: 1,
        Cores: 1,
        StdoutTemplate: filepath.Join(dir, "out-%j.log"),
        StderrTemplate: filepath.Join(dir, "err-%j.log"),
        ExportEnv: EXPORT_ENV_INHERIT,
    }
}

func TestOutputRouterExpandsJobId(t *testing.T) {
    dir := t.TempDir()
    err, router := NewOutputRouter(testRequest(dir), "1234")
    if err != nil {
        t.Fatalf("router: %s", err.Error())
    }
    defer router.Close()

    if router.StdoutPath() != filepath.Join(dir, "out-1234.log") {
        t.Errorf("stdout path: got %s", router.StdoutPath())
    }
    if router.StderrPath() != filepath.Join(dir, "err-1234.log") {
        t.Errorf("stderr path: got %s", router.StderrPath())
    }

    router.Stdout().Write([]byte("to stdout\n"))
    router.Stderr().Write([]byte("to stderr\n"))
    router.Close()

    out, err2 := ioutil.ReadFile(router.StdoutPath())
    if err2 != nil || string(out) != "to stdout\n" {
        t.Errorf("stdout file: %q, err %v", string(out), err2)
    }
    errOut, err2 := ioutil.ReadFile(router.StderrPath())
    if err2 != nil || string(errOut) != "to stderr\n" {
        t.Errorf("stderr file: %q, err %v", string(errOut), err2)
    }
}

func TestOutputRouterDistinctJobIds(t *testing.T) {
    dir := t.TempDir()

    err, first := NewOutputRouter(testRequest(dir), "1")
    if err != nil {
        t.Fatalf("router: %s", err.Error())
    }
    defer first.Close()
    err, second := NewOutputRouter(testRequest(dir), "2")
    if err != nil {
        t.Fatalf("router: %s", err.Error())
    }
    defer second.Close()

    if first.StdoutPath() == second.StdoutPath() {
        t.Errorf("two jobs share a stdout file: %s",
            first.StdoutPath())
    }
}
