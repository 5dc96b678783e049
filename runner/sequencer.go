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
    "context"
    "os/exec"
    "time"
    "errors"

    . "github.com/AgentElement/functional-supercollider/common"
)

var (
    ERR_BATCH_TIMEOUT error = errors.New("wall clock limit exceeded")
    ERR_BATCH_STOPPED error = errors.New("batch stopped on experiment failure")
)

/*experiment invocation state*/
const (
    EXPERIMENT_FINISHED int = 1
    EXPERIMENT_FAIL int = 2
    EXPERIMENT_KILLED int = 3
    EXPERIMENT_SKIPPED int = 4
)

func ExperimentStateToStr(state int) string {
    switch state {
        case EXPERIMENT_FINISHED:
            return "FINISHED"
        case EXPERIMENT_FAIL:
            return "FAIL"
        case EXPERIMENT_KILLED:
            return "KILLED"
        case EXPERIMENT_SKIPPED:
            return "SKIPPED"
        default:
            return "UNKNOWN"
    }
}

type ExperimentResult struct {
    Name string
    State int
    ExitCode int
    StartTime time.Time
    EndTime time.Time
    Duration time.Duration
    Err string
}

/*
 * BatchSequencer drives the experiments of one batch strictly in
 * declaration order, one blocking invocation at a time. The
 * reserved cores feed a single invocation's internal
 * parallelism, never two descriptors at once. A nonzero exit is
 * only fatal under STOP_ON_FAILURE; the context deadline is the
 * wall clock limit and kills whatever currently runs.
 */
type BatchSequencer struct {
    binary string
    batch *Batch
    environment *PreparedEnvironment
    router *OutputRouter
}

func NewBatchSequencer(binary string, batch *Batch,
    environment *PreparedEnvironment, router *OutputRouter) *BatchSequencer {
    sequencer := &BatchSequencer{
        binary: binary,
        batch: batch,
        environment: environment,
        router: router,
    }
    return sequencer
}

func (sequencer *BatchSequencer) Run(ctx context.Context) (error, []ExperimentResult) {
    batch := sequencer.batch
    results := make([]ExperimentResult, 0, len(batch.Experiments))

    var runErr error = nil
    for i := 0; i < len(batch.Experiments); i ++ {
        descriptor := &batch.Experiments[i]

        if runErr != nil {
            results = append(results, ExperimentResult{
                Name: descriptor.Name,
                State: EXPERIMENT_SKIPPED,
                ExitCode: -1,
            })
            continue
        }

        result := sequencer.runInvocation(ctx, descriptor)
        results = append(results, result)

        if result.State == EXPERIMENT_KILLED {
            runErr = ERR_BATCH_TIMEOUT
            continue
        }
        if result.State == EXPERIMENT_FAIL {
            RunnerLogger.Errorf("Experiment %s exited with code %d\n",
                descriptor.Name, result.ExitCode)
            if batch.Policy == STOP_ON_FAILURE {
                runErr = ERR_BATCH_STOPPED
            }
            /*CONTINUE_ON_FAILURE: move on to the next descriptor*/
        }
    }

    return runErr, results
}

func (sequencer *BatchSequencer) runInvocation(ctx context.Context,
    descriptor *ExperimentDescriptor) ExperimentResult {
    result := ExperimentResult{
        Name: descriptor.Name,
        StartTime: time.Now(),
    }

    /*the wall clock limit may already be gone*/
    select {
        case <- ctx.Done():
            result.State = EXPERIMENT_KILLED
            result.ExitCode = -1
            result.Err = ERR_BATCH_TIMEOUT.Error()
            result.EndTime = result.StartTime
            return result
        default:
    }

    cmd := exec.Command(sequencer.binary, descriptor.Argv()...)
    cmd.Dir = sequencer.batch.Workspace.Dir()
    cmd.Env = sequencer.environment.Environ()
    cmd.Stdout = sequencer.router.Stdout()
    cmd.Stderr = sequencer.router.Stderr()

    RunnerLogger.Infof("Run experiment %s in %s\n",
        descriptor.Token(), cmd.Dir)

    if err := cmd.Start(); err != nil {
        RunnerLogger.Errorf("Fail to start experiment %s: %s\n",
            descriptor.Name, err.Error())
        result.State = EXPERIMENT_FAIL
        result.ExitCode = -1
        result.Err = err.Error()
        result.EndTime = time.Now()
        return result
    }

    waitChan := make(chan error, 1)
    go func() {
        waitChan <- cmd.Wait()
    }()

    select {
        case <- ctx.Done():
            cmd.Process.Kill()
            <- waitChan
            result.State = EXPERIMENT_KILLED
            result.ExitCode = -1
            result.Err = ERR_BATCH_TIMEOUT.Error()
        case err := <- waitChan:
            if err == nil {
                result.State = EXPERIMENT_FINISHED
                result.ExitCode = 0
            } else if exitErr, ok := err.(*exec.ExitError); ok {
                result.State = EXPERIMENT_FAIL
                result.ExitCode = exitErr.ExitCode()
                result.Err = err.Error()
            } else {
                result.State = EXPERIMENT_FAIL
                result.ExitCode = -1
                result.Err = err.Error()
            }
    }

    result.EndTime = time.Now()
    result.Duration = result.EndTime.Sub(result.StartTime)
    return result
}
