package runner

import (
    "io/ioutil"
    "path/filepath"
    "strings"
    "testing"
    "time"

    . "github.com/AgentElement/functional-supercollider/common"
    . "github.com/AgentElement/functional-supercollider/message"
    "github.com/AgentElement/functional-supercollider/runner/backend"
)

func newManagerFixture(t *testing.T, binary string) (*BatchMgr, string) {
    t.Helper()
    config := &ColliderConfig{
        RunnerConfig: RunnerConfig{
            Binary: binary,
        },
    }
    return NewBatchMgr(config, backend.NewLocalBackend()), t.TempDir()
}

func managerBatchData(workDir string, outDir string) *BatchJSONData {
    return &BatchJSONData{
        Name: "entropy-sweep",
        WorkDir: workDir,
        Resource: ResourceJSONData{
            Nodes: 1,
            Cores: 1,
            WallTime: "00:01:00",
            Stdout: filepath.Join(outDir, "out-%j.log"),
            Stderr: filepath.Join(outDir, "err-%j.log"),
        },
        Experiments: []ExperimentJSONData{
            {Name: "entropy-series"},
            {Name: "entropy-test"},
        },
    }
}

func waitForBatchState(t *testing.T, mgr *BatchMgr, jobId string,
    state string) *ColliderBatchStatus {
    t.Helper()
    deadline := time.Now().Add(5 * time.Second)
    for time.Now().Before(deadline) {
        err, status := mgr.GetBatchStatus(jobId)
        if err != nil {
            t.Fatalf("status: %s", err.Error())
        }
        if status.State == state {
            return status
        }
        time.Sleep(10 * time.Millisecond)
    }
    err, status := mgr.GetBatchStatus(jobId)
    if err != nil {
        t.Fatalf("status: %s", err.Error())
    }
    t.Fatalf("job %s: wanted %s, got %s", jobId, state, status.State)
    return nil
}

func TestBatchMgrRunsSubmittedBatch(t *testing.T) {
    binary := writeStubBinary(t,
        "#!/bin/bash\necho \"$4\" >> invocations.log\necho \"ran $4\"\n")
    mgr, outDir := newManagerFixture(t, binary)
    workDir := t.TempDir()

    err, jobId := mgr.SubmitBatch(managerBatchData(workDir, outDir))
    if err != nil {
        t.Fatalf("submit: %s", err.Error())
    }

    status := waitForBatchState(t, mgr, jobId,
        BatchStateToStr(BATCH_FINISHED))
    if len(status.Experiments) != 2 {
        t.Fatalf("experiments: got %d", len(status.Experiments))
    }
    for _, experiment := range status.Experiments {
        if experiment.State != ExperimentStateToStr(EXPERIMENT_FINISHED) {
            t.Errorf("experiment %s: %s", experiment.Name,
                experiment.State)
        }
    }
    if status.Perf == nil || status.Perf.TotalSeconds <= 0 {
        t.Errorf("perf stats missing: %+v", status.Perf)
    }

    /*the stub's stdout has to land in the expanded template*/
    if !strings.Contains(status.StdoutFile, jobId) {
        t.Errorf("stdout path: got %s", status.StdoutFile)
    }
    out, readErr := ioutil.ReadFile(status.StdoutFile)
    if readErr != nil {
        t.Fatal(readErr)
    }
    if !strings.Contains(string(out), "ran entropy-series") {
        t.Errorf("routed stdout: got %q", string(out))
    }
}

func TestBatchMgrRejectsUnknownExperiment(t *testing.T) {
    mgr, outDir := newManagerFixture(t, "/bin/true")
    data := managerBatchData(t.TempDir(), outDir)
    data.Experiments[0].Name = "summon-demons"

    if err, _ := mgr.SubmitBatch(data); err == nil {
        t.Fatal("unknown experiment accepted")
    }
}

func TestBatchMgrEnvironmentFailureRunsNothing(t *testing.T) {
    binary := writeStubBinary(t,
        "#!/bin/bash\necho \"$4\" >> invocations.log\n")
    mgr, outDir := newManagerFixture(t, binary)
    workDir := t.TempDir()

    data := managerBatchData(workDir, outDir)
    data.Toolchain = "ghc-9.8"

    err, jobId := mgr.SubmitBatch(data)
    if err != nil {
        t.Fatalf("submit: %s", err.Error())
    }
    waitForBatchState(t, mgr, jobId, BatchStateToStr(BATCH_ABORTED))

    if _, statErr := ioutil.ReadFile(filepath.Join(workDir,
        "invocations.log")); statErr == nil {
        t.Error("aborted batch still invoked experiments")
    }
}

func TestBatchMgrCancelStaysCancelled(t *testing.T) {
    binary := writeStubBinary(t, "#!/bin/bash\nsleep 30\n")
    mgr, outDir := newManagerFixture(t, binary)

    err, jobId := mgr.SubmitBatch(managerBatchData(t.TempDir(), outDir))
    if err != nil {
        t.Fatalf("submit: %s", err.Error())
    }
    waitForBatchState(t, mgr, jobId, BatchStateToStr(BATCH_RUNNING))

    if err := mgr.CancelBatch(jobId); err != nil {
        t.Fatalf("cancel: %s", err.Error())
    }
    waitForBatchState(t, mgr, jobId, BatchStateToStr(BATCH_CANCELLED))

    /*the killed sequencer unwinds through the timeout path,
      which must not overwrite the cancelled state*/
    time.Sleep(300 * time.Millisecond)
    stErr, status := mgr.GetBatchStatus(jobId)
    if stErr != nil {
        t.Fatalf("status: %s", stErr.Error())
    }
    if status.State != BatchStateToStr(BATCH_CANCELLED) {
        t.Errorf("cancelled batch settled at %s", status.State)
    }
}

func TestBatchMgrResubmissionGetsFreshOutputs(t *testing.T) {
    binary := writeStubBinary(t, "#!/bin/bash\nexit 0\n")
    mgr, outDir := newManagerFixture(t, binary)
    workDir := t.TempDir()

    err, firstId := mgr.SubmitBatch(managerBatchData(workDir, outDir))
    if err != nil {
        t.Fatalf("first submit: %s", err.Error())
    }
    first := waitForBatchState(t, mgr, firstId,
        BatchStateToStr(BATCH_FINISHED))

    err, secondId := mgr.SubmitBatch(managerBatchData(workDir, outDir))
    if err != nil {
        t.Fatalf("second submit: %s", err.Error())
    }
    second := waitForBatchState(t, mgr, secondId,
        BatchStateToStr(BATCH_FINISHED))

    if firstId == secondId {
        t.Fatalf("job ids collide: %s", firstId)
    }
    if first.StdoutFile == second.StdoutFile {
        t.Errorf("output files collide: %s", first.StdoutFile)
    }

    err, live, _ := mgr.ListBatches()
    if err != nil {
        t.Fatalf("list: %s", err.Error())
    }
    if len(live) != 2 {
        t.Errorf("live batches: got %d", len(live))
    }
}
