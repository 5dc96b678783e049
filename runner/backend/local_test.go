package backend

import (
    "context"
    "errors"
    "strings"
    "testing"
    "time"
)

func waitForJobState(t *testing.T, be BatchBackend, jobId string,
    state int) {
    t.Helper()
    deadline := time.Now().Add(5 * time.Second)
    for time.Now().Before(deadline) {
        err, status := be.CheckBatch(jobId)
        if err != nil {
            t.Fatalf("check: %s", err.Error())
        }
        if status.State == state {
            return
        }
        time.Sleep(10 * time.Millisecond)
    }
    err, status := be.CheckBatch(jobId)
    if err != nil {
        t.Fatalf("check: %s", err.Error())
    }
    t.Fatalf("job %s: wanted %s, got %s", jobId,
        BackendJobStateToStr(state), BackendJobStateToStr(status.State))
}

func TestLocalBackendRunsEntryPoint(t *testing.T) {
    be := NewLocalBackend()

    invoked := make(chan string, 1)
    job := &BatchJob{
        Name: "entropy-sweep",
        WallTime: time.Minute,
        EntryPoint: func(ctx context.Context, jobId string) error {
            invoked <- jobId
            return nil
        },
    }

    err, jobId := be.SubmitBatch(job)
    if err != nil {
        t.Fatalf("submit: %s", err.Error())
    }
    if !strings.HasPrefix(jobId, "local-") {
        t.Errorf("job id: got %s", jobId)
    }

    select {
    case got := <-invoked:
        if got != jobId {
            t.Errorf("entry point job id: got %s, want %s", got, jobId)
        }
    case <-time.After(5 * time.Second):
        t.Fatal("entry point never invoked")
    }
    waitForJobState(t, be, jobId, JOB_FINISHED)
}

func TestLocalBackendRejectsMissingEntryPoint(t *testing.T) {
    be := NewLocalBackend()
    if err, _ := be.SubmitBatch(&BatchJob{WallTime: time.Minute}); err == nil {
        t.Fatal("submit without entry point accepted")
    }
}

func TestLocalBackendMapsEntryPointErrors(t *testing.T) {
    cases := []struct {
        name string
        result error
        state int
    }{
        {"timeout", BE_JOB_TIMEOUT, JOB_TIMEOUT},
        {"failure", BE_JOB_FAILED, JOB_FAIL},
    }

    be := NewLocalBackend()
    for _, c := range cases {
        result := c.result
        err, jobId := be.SubmitBatch(&BatchJob{
            WallTime: time.Minute,
            EntryPoint: func(ctx context.Context, jobId string) error {
                return result
            },
        })
        if err != nil {
            t.Fatalf("%s: submit: %s", c.name, err.Error())
        }
        waitForJobState(t, be, jobId, c.state)
    }
}

func TestLocalBackendCancelIsSticky(t *testing.T) {
    be := NewLocalBackend()

    err, jobId := be.SubmitBatch(&BatchJob{
        WallTime: time.Minute,
        EntryPoint: func(ctx context.Context, jobId string) error {
            <-ctx.Done()
            return ctx.Err()
        },
    })
    if err != nil {
        t.Fatalf("submit: %s", err.Error())
    }
    waitForJobState(t, be, jobId, JOB_RUNNING)

    if err := be.CancelBatch(jobId); err != nil {
        t.Fatalf("cancel: %s", err.Error())
    }
    if err := be.(*localBackend).WaitBatch(jobId); err != nil {
        t.Fatalf("wait: %s", err.Error())
    }

    /*the entry point's own error must not overwrite cancellation*/
    err, status := be.CheckBatch(jobId)
    if err != nil {
        t.Fatalf("check: %s", err.Error())
    }
    if status.State != JOB_CANCELLED {
        t.Errorf("cancelled job state: got %s",
            BackendJobStateToStr(status.State))
    }
}

func TestLocalBackendUnknownJob(t *testing.T) {
    be := NewLocalBackend()
    if err, _ := be.CheckBatch("local-nope"); !errors.Is(err, BE_JOB_NOT_FOUND) {
        t.Errorf("check unknown: got %v", err)
    }
    if err := be.CancelBatch("local-nope"); !errors.Is(err, BE_JOB_NOT_FOUND) {
        t.Errorf("cancel unknown: got %v", err)
    }
}
