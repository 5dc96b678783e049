package runner

import (
    "context"
    "io/ioutil"
    "os"
    "path/filepath"
    "strings"
    "testing"
    "time"
    "errors"
)

/*
 * The stub binary stands in for the real search binary: it
 * records the experiment token it was invoked with into a file
 * in the working directory, so the tests can check invocation
 * order without a real population search.
 */
func writeStubBinary(t *testing.T, script string) string {
    t.Helper()
    path := filepath.Join(t.TempDir(), "soup")
    if err := ioutil.WriteFile(path, []byte(script), 0755); err != nil {
        t.Fatal(err)
    }
    return path
}

func newSequencerFixture(t *testing.T, binary string,
    policy ContinuationPolicy, names ...string) (*BatchSequencer, *Batch) {
    t.Helper()
    workDir := t.TempDir()

    experiments := make([]ExperimentDescriptor, 0, len(names))
    for _, name := range names {
        experiments = append(experiments,
            ExperimentDescriptor{Name: name})
    }
    batch := &Batch{
        Name: "fixture",
        Workspace: NewWorkspaceHandle(workDir),
        Request: testRequest(t.TempDir()),
        Policy: policy,
        Experiments: experiments,
    }

    preparer := NewEnvPreparer("")
    err, environment := preparer.Prepare("", batch.Workspace)
    if err != nil {
        t.Fatalf("prepare: %s", err.Error())
    }
    err, router := NewOutputRouter(batch.Request, "t1")
    if err != nil {
        t.Fatalf("router: %s", err.Error())
    }
    t.Cleanup(router.Close)

    return NewBatchSequencer(binary, batch, environment, router), batch
}

func readInvocations(t *testing.T, batch *Batch) []string {
    t.Helper()
    raw, err := ioutil.ReadFile(batch.Workspace.Join("invocations.log"))
    if err != nil {
        if os.IsNotExist(err) {
            return nil
        }
        t.Fatal(err)
    }
    return strings.Fields(string(raw))
}

func TestSequencerRunsInOrder(t *testing.T) {
    binary := writeStubBinary(t,
        "#!/bin/bash\necho \"$4\" >> invocations.log\n")
    sequencer, batch := newSequencerFixture(t, binary,
        CONTINUE_ON_FAILURE,
        "entropy-series", "entropy-test", "simulate-sample")

    runErr, results := sequencer.Run(context.Background())
    if runErr != nil {
        t.Fatalf("run: %s", runErr.Error())
    }
    if len(results) != 3 {
        t.Fatalf("results: got %d", len(results))
    }
    for _, result := range results {
        if result.State != EXPERIMENT_FINISHED || result.ExitCode != 0 {
            t.Errorf("experiment %s: state %s, exit %d",
                result.Name, ExperimentStateToStr(result.State),
                result.ExitCode)
        }
    }

    invocations := readInvocations(t, batch)
    expect := []string{"entropy-series", "entropy-test",
        "simulate-sample"}
    if len(invocations) != len(expect) {
        t.Fatalf("invocations: got %v", invocations)
    }
    for i := range expect {
        if invocations[i] != expect[i] {
            t.Fatalf("invocation order: got %v", invocations)
        }
    }
}

func TestSequencerContinuesOnFailure(t *testing.T) {
    binary := writeStubBinary(t,
        "#!/bin/bash\necho \"$4\" >> invocations.log\n"+
            "if [ \"$4\" = \"entropy-test\" ]; then exit 3; fi\n")
    sequencer, batch := newSequencerFixture(t, binary,
        CONTINUE_ON_FAILURE,
        "entropy-series", "entropy-test", "simulate-sample")

    runErr, results := sequencer.Run(context.Background())
    if runErr != nil {
        t.Fatalf("continue policy returned error: %s", runErr.Error())
    }

    if results[0].State != EXPERIMENT_FINISHED {
        t.Errorf("first: %s", ExperimentStateToStr(results[0].State))
    }
    if results[1].State != EXPERIMENT_FAIL || results[1].ExitCode != 3 {
        t.Errorf("second: state %s, exit %d",
            ExperimentStateToStr(results[1].State), results[1].ExitCode)
    }
    if results[2].State != EXPERIMENT_FINISHED {
        t.Errorf("third: %s", ExperimentStateToStr(results[2].State))
    }

    if len(readInvocations(t, batch)) != 3 {
        t.Errorf("failure stopped later invocations")
    }
}

func TestSequencerStopsOnFailure(t *testing.T) {
    binary := writeStubBinary(t,
        "#!/bin/bash\necho \"$4\" >> invocations.log\n"+
            "if [ \"$4\" = \"entropy-test\" ]; then exit 1; fi\n")
    sequencer, batch := newSequencerFixture(t, binary,
        STOP_ON_FAILURE,
        "entropy-series", "entropy-test", "simulate-sample")

    runErr, results := sequencer.Run(context.Background())
    if !errors.Is(runErr, ERR_BATCH_STOPPED) {
        t.Fatalf("stop policy: got %v", runErr)
    }

    if results[1].State != EXPERIMENT_FAIL {
        t.Errorf("second: %s", ExperimentStateToStr(results[1].State))
    }
    if results[2].State != EXPERIMENT_SKIPPED {
        t.Errorf("third: %s", ExperimentStateToStr(results[2].State))
    }

    if len(readInvocations(t, batch)) != 2 {
        t.Errorf("skipped experiment still invoked")
    }
}

func TestSequencerKillsOnDeadline(t *testing.T) {
    binary := writeStubBinary(t,
        "#!/bin/bash\necho \"$4\" >> invocations.log\n"+
            "if [ \"$4\" != \"entropy-series\" ]; then sleep 30; fi\n")
    sequencer, batch := newSequencerFixture(t, binary,
        CONTINUE_ON_FAILURE,
        "entropy-series", "entropy-test", "simulate-sample")

    ctx, cancel := context.WithTimeout(context.Background(),
        500*time.Millisecond)
    defer cancel()

    start := time.Now()
    runErr, results := sequencer.Run(ctx)
    if time.Since(start) > 10*time.Second {
        t.Fatalf("deadline did not kill the running invocation")
    }

    if !errors.Is(runErr, ERR_BATCH_TIMEOUT) {
        t.Fatalf("timeout: got %v", runErr)
    }
    if results[0].State != EXPERIMENT_FINISHED {
        t.Errorf("first: %s", ExperimentStateToStr(results[0].State))
    }
    if results[1].State != EXPERIMENT_KILLED {
        t.Errorf("second: %s", ExperimentStateToStr(results[1].State))
    }
    if results[2].State != EXPERIMENT_SKIPPED {
        t.Errorf("third: %s", ExperimentStateToStr(results[2].State))
    }

    if len(readInvocations(t, batch)) != 2 {
        t.Errorf("killed batch kept invoking experiments")
    }
}
