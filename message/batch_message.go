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

package message

const (
    COLLIDER_API_RET_OK string = "OK"
    COLLIDER_API_RET_FAIL string = "FAIL"
)

type ColliderSubmitBatchResult struct {
    Status string
    Msg string
    JobId string
}

type ColliderBatchInfo struct {
    JobId string
    Name string
    Backend string
    Created string
    Finished string
    State string
    WorkDir string
    ExperimentCount int
}

type ColliderListBatchResult struct {
    Status string
    Msg string
    Count int
    Batches []ColliderBatchInfo
    HistBatches []ColliderBatchInfo
}

type ColliderExperimentStatus struct {
    Name string
    State string
    ExitCode int
    StartTime string
    EndTime string
    DurationSeconds float64
}

type ColliderPerfStats struct {
    MeanSeconds float64
    StdDevSeconds float64
    MaxSeconds float64
    TotalSeconds float64
}

type ColliderBatchStatus struct {
    JobId string
    Name string
    State string
    Backend string
    WorkDir string
    StdoutFile string
    StderrFile string
    Experiments []ColliderExperimentStatus
    Perf *ColliderPerfStats
}

type ColliderGetBatchStatusResult struct {
    Status string
    Msg string
    BatchStatus *ColliderBatchStatus
}

type ColliderCancelBatchResult struct {
    Status string
    Msg string
}

type ColliderListExperimentResult struct {
    Status string
    Msg string
    Count int
    Experiments []string
}
