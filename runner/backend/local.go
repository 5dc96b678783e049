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
package backend

import (
    "context"
    "fmt"
    "sync"
    "errors"

    "github.com/google/uuid"

    . "github.com/AgentElement/functional-supercollider/common"
)

type localJob struct {
    state int
    cancel context.CancelFunc
    done chan struct{}
}

/*
 * localBackend plays the external scheduler without a cluster:
 * it assigns a job id and runs the job's entry point in-process,
 * enforcing the wall clock limit through the context deadline.
 * One job at a time per id, nothing queues behind anything.
 */
type localBackend struct {
    lock sync.Mutex
    jobs map[string]*localJob
}

func NewLocalBackend() BatchBackend {
    backend := &localBackend{
        jobs: make(map[string]*localJob),
    }
    return backend
}

func (backend *localBackend) Start() int {
    return 0
}

func (backend *localBackend) SubmitBatch(job *BatchJob) (error, string) {
    if job.EntryPoint == nil {
        return errors.New("local backend needs an entry point"), ""
    }

    jobId := fmt.Sprintf("local-%s", uuid.New().String())
    ctx, cancel := context.WithTimeout(context.Background(),
        job.WallTime)

    tracked := &localJob{
        state: JOB_QUEUED,
        cancel: cancel,
        done: make(chan struct{}),
    }
    backend.lock.Lock()
    backend.jobs[jobId] = tracked
    backend.lock.Unlock()

    go func() {
        defer cancel()
        defer close(tracked.done)

        backend.setState(jobId, JOB_RUNNING)
        err := job.EntryPoint(ctx, jobId)
        switch {
            case err == nil:
                backend.setState(jobId, JOB_FINISHED)
            case errors.Is(err, BE_JOB_TIMEOUT):
                backend.setState(jobId, JOB_TIMEOUT)
            case errors.Is(err, context.Canceled):
                backend.setState(jobId, JOB_CANCELLED)
            default:
                backend.setState(jobId, JOB_FAIL)
        }
        BackendLogger.Infof("Local job %s done\n", jobId)
    }()

    return nil, jobId
}

func (backend *localBackend) setState(jobId string, state int) {
    backend.lock.Lock()
    if job, ok := backend.jobs[jobId]; ok {
        /*a cancelled job stays cancelled*/
        if job.state != JOB_CANCELLED || state == JOB_CANCELLED {
            job.state = state
        }
    }
    backend.lock.Unlock()
}

func (backend *localBackend) CheckBatch(jobId string) (error, *JobStatus) {
    backend.lock.Lock()
    defer backend.lock.Unlock()

    job, ok := backend.jobs[jobId]
    if !ok {
        return BE_JOB_NOT_FOUND, nil
    }
    return nil, &JobStatus{
                    State: job.state,
    }
}

func (backend *localBackend) CancelBatch(jobId string) error {
    backend.lock.Lock()
    job, ok := backend.jobs[jobId]
    if ok {
        job.state = JOB_CANCELLED
    }
    backend.lock.Unlock()

    if !ok {
        return BE_JOB_NOT_FOUND
    }
    job.cancel()
    return nil
}

/*WaitBatch blocks until the job's entry point returns*/
func (backend *localBackend) WaitBatch(jobId string) error {
    backend.lock.Lock()
    job, ok := backend.jobs[jobId]
    backend.lock.Unlock()
    if !ok {
        return BE_JOB_NOT_FOUND
    }
    <- job.done
    return nil
}

func (backend *localBackend) GetType() string {
    return BACKEND_TYPE_LOCAL
}

func (backend *localBackend) Ping() error {
    return nil
}
