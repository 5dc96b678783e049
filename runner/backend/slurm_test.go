package backend

import (
    "io/ioutil"
    "path/filepath"
    "testing"

    . "github.com/AgentElement/functional-supercollider/common"
)

func writeStubTool(t *testing.T, dir string, name string,
    script string) string {
    t.Helper()
    path := filepath.Join(dir, name)
    if err := ioutil.WriteFile(path, []byte(script), 0755); err != nil {
        t.Fatal(err)
    }
    return path
}

func TestSlurmSubmitParsesJobId(t *testing.T) {
    dir := t.TempDir()
    sbatch := writeStubTool(t, dir, "sbatch",
        "#!/bin/bash\ncp \"$1\" submitted.sbatch\n"+
            "echo \"Submitted batch job 4242\"\n")
    be := NewSlurmBackend(&BackendConfig{SbatchPath: sbatch})

    err, jobId := be.SubmitBatch(&BatchJob{
        Name: "entropy-sweep",
        WorkDir: dir,
        Script: "#!/bin/bash\necho hi\n",
    })
    if err != nil {
        t.Fatalf("submit: %s", err.Error())
    }
    if jobId != "4242" {
        t.Errorf("job id: got %s", jobId)
    }

    /*sbatch must receive the rendered script, not a path stub*/
    script, err := ioutil.ReadFile(filepath.Join(dir, "submitted.sbatch"))
    if err != nil {
        t.Fatal(err)
    }
    if string(script) != "#!/bin/bash\necho hi\n" {
        t.Errorf("submitted script: got %q", string(script))
    }
}

func TestSlurmSubmitRejection(t *testing.T) {
    dir := t.TempDir()
    sbatch := writeStubTool(t, dir, "sbatch",
        "#!/bin/bash\necho \"sbatch: error: invalid partition\" >&2\n"+
            "exit 1\n")
    be := NewSlurmBackend(&BackendConfig{SbatchPath: sbatch})

    err, _ := be.SubmitBatch(&BatchJob{Name: "bad", WorkDir: dir})
    if err == nil {
        t.Fatal("failing sbatch accepted")
    }
}

func TestSlurmSubmitGarbledAcknowledgement(t *testing.T) {
    dir := t.TempDir()
    sbatch := writeStubTool(t, dir, "sbatch",
        "#!/bin/bash\necho \"something unexpected\"\n")
    be := NewSlurmBackend(&BackendConfig{SbatchPath: sbatch})

    err, _ := be.SubmitBatch(&BatchJob{Name: "odd", WorkDir: dir})
    if err != BE_INTERNAL_ERR {
        t.Fatalf("garbled acknowledgement: got %v", err)
    }
}

func TestSlurmCheckBatchStates(t *testing.T) {
    cases := []struct {
        squeueState string
        state int
    }{
        {"PENDING", JOB_QUEUED},
        {"RUNNING", JOB_RUNNING},
        {"COMPLETING", JOB_RUNNING},
        {"TIMEOUT", JOB_TIMEOUT},
        {"FAILED", JOB_FAIL},
        {"CANCELLED", JOB_CANCELLED},
        {"COMPLETED", JOB_FINISHED},
        {"REVOKED", JOB_UNKNOWN},
    }

    dir := t.TempDir()
    for _, c := range cases {
        squeue := writeStubTool(t, dir, "squeue",
            "#!/bin/bash\necho \""+c.squeueState+"\"\n")
        be := NewSlurmBackend(&BackendConfig{SqueuePath: squeue})

        err, status := be.CheckBatch("4242")
        if err != nil {
            t.Fatalf("%s: check: %s", c.squeueState, err.Error())
        }
        if status.State != c.state {
            t.Errorf("%s: got %s", c.squeueState,
                BackendJobStateToStr(status.State))
        }
    }
}

func TestSlurmCheckBatchDequeuedJob(t *testing.T) {
    dir := t.TempDir()
    /*squeue exits nonzero once the job has left the queue*/
    squeue := writeStubTool(t, dir, "squeue",
        "#!/bin/bash\necho \"slurm_load_jobs error\" >&2\nexit 1\n")
    be := NewSlurmBackend(&BackendConfig{SqueuePath: squeue})

    err, status := be.CheckBatch("4242")
    if err != nil {
        t.Fatalf("check: %s", err.Error())
    }
    if status.State != JOB_FINISHED {
        t.Errorf("dequeued job: got %s",
            BackendJobStateToStr(status.State))
    }
}

func TestSlurmCancelBatch(t *testing.T) {
    dir := t.TempDir()
    scancel := writeStubTool(t, dir, "scancel",
        "#!/bin/bash\necho \"scancel $1\"\n")
    be := NewSlurmBackend(&BackendConfig{ScancelPath: scancel})

    if err := be.CancelBatch("4242"); err != nil {
        t.Fatalf("cancel: %s", err.Error())
    }
}
