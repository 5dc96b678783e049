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
    "time"
    "errors"
)

/*
 * The entry point a backend runs when it decides to execute the
 * job in-process. Backends that hand the job to an external
 * scheduler ignore it and submit the rendered script instead.
 * The context carries the wall clock deadline; its expiry must
 * abort whatever the entry point currently runs.
 */
type EntryPoint func(ctx context.Context, jobId string) error

type BatchJob struct {
    Name string
    WorkDir string
    Script string
    WallTime time.Duration
    EntryPoint EntryPoint
}

/*Job state definition*/
const (
    JOB_QUEUED int = 1
    JOB_RUNNING int = 2
    JOB_FINISHED int = 3
    JOB_FAIL int = 4
    JOB_TIMEOUT int = 5
    JOB_CANCELLED int = 6
    JOB_UNKNOWN int = 7
)

func BackendJobStateToStr(state int) string {
    switch state {
        case JOB_QUEUED:
            return "JOB_QUEUED"
        case JOB_RUNNING:
            return "JOB_RUNNING"
        case JOB_FINISHED:
            return "JOB_FINISHED"
        case JOB_FAIL:
            return "JOB_FAIL"
        case JOB_TIMEOUT:
            return "JOB_TIMEOUT"
        case JOB_CANCELLED:
            return "JOB_CANCELLED"
        default:
            return "UNKNOWN"
    }
}

var (
    BE_SUBMIT_ERR error = errors.New("backend rejected the resource request")
    BE_INTERNAL_ERR error = errors.New("backend internal error")
    BE_JOB_NOT_FOUND error = errors.New("job not found")
    BE_JOB_TIMEOUT error = errors.New("job exceeded wall clock limit")
    BE_JOB_FAILED error = errors.New("job failed")
)

type JobStatus struct {
    State int
    Info string
}

/*
 * BatchBackend is the external scheduler capability: it accepts
 * one resource reservation plus entry point and eventually runs
 * the job, reporting back nothing but a job id and a state. The
 * local implementation exists so everything above this line can
 * be exercised without a real cluster.
 */
type BatchBackend interface {
    Start() int
    SubmitBatch(*BatchJob) (error, string)
    CheckBatch(string) (error, *JobStatus)
    CancelBatch(string) error
    GetType() string
    Ping() error
}
