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
    "fmt"
    "strings"
    "errors"

    . "github.com/AgentElement/functional-supercollider/message"
)

/*what the sequencer does after an invocation exits nonzero*/
type ContinuationPolicy int

const (
    CONTINUE_ON_FAILURE ContinuationPolicy = 0
    STOP_ON_FAILURE ContinuationPolicy = 1
)

func ParseContinuationPolicy(policy string) (error, ContinuationPolicy) {
    switch strings.ToLower(policy) {
        case "", "continue":
            return nil, CONTINUE_ON_FAILURE
        case "stop":
            return nil, STOP_ON_FAILURE
        default:
            errMsg := fmt.Sprintf("Unknown failure policy %s, must be continue or stop",
                policy)
            return errors.New(errMsg), CONTINUE_ON_FAILURE
    }
}

/*Batch state definition*/
const (
    BATCH_QUEUED int = 1
    BATCH_PREPARING int = 2
    BATCH_RUNNING int = 3
    BATCH_FINISHED int = 4
    BATCH_FINISHED_ERRORS int = 5
    BATCH_ABORTED int = 6
    BATCH_TIMEOUT int = 7
    BATCH_CANCELLED int = 8
)

func BatchStateToStr(state int) string {
    switch state {
        case BATCH_QUEUED:
            return "BATCH_QUEUED"
        case BATCH_PREPARING:
            return "BATCH_PREPARING"
        case BATCH_RUNNING:
            return "BATCH_RUNNING"
        case BATCH_FINISHED:
            return "BATCH_FINISHED"
        case BATCH_FINISHED_ERRORS:
            return "BATCH_FINISHED_WITH_ERRORS"
        case BATCH_ABORTED:
            return "BATCH_ABORTED"
        case BATCH_TIMEOUT:
            return "BATCH_TIMEOUT"
        case BATCH_CANCELLED:
            return "BATCH_CANCELLED"
        default:
            return "UNKNOWN"
    }
}

/*
 * ExperimentDescriptor names one invocation of the supercollider
 * binary. The name and optional flags travel as a single token
 * of the --experiment argument.
 */
type ExperimentDescriptor struct {
    Name string
    Flags []string
}

func (descriptor *ExperimentDescriptor) Token() string {
    if len(descriptor.Flags) == 0 {
        return descriptor.Name
    }
    items := append([]string{descriptor.Name}, descriptor.Flags...)
    return strings.Join(items, ",")
}

/*the command line contract of the external binary*/
func (descriptor *ExperimentDescriptor) Argv() []string {
    return []string{"run", "--", "--experiment", descriptor.Token()}
}

/*
 * Batch binds an ordered experiment list to one resource request
 * and one workspace. The declaration order is the execution
 * order, nothing here reorders or overlaps invocations.
 */
type Batch struct {
    Name string
    Workspace *WorkspaceHandle
    Toolchain string
    Request *ResourceRequest
    Policy ContinuationPolicy
    Experiments []ExperimentDescriptor
}

func ParseBatchMessage(data *BatchJSONData, registry *ExperimentRegistry,
    defaultPolicy string) (error, *Batch) {
    if data.Name == "" {
        return errors.New("Batch name can't be empty"), nil
    }
    if data.WorkDir == "" {
        return errors.New("Batch working directory can't be empty"), nil
    }
    if len(data.Experiments) == 0 {
        return errors.New("Batch has no experiments"), nil
    }

    err, request := ResourceRequestFromMessage(&data.Resource)
    if err != nil {
        return err, nil
    }

    policyStr := data.OnFailure
    if policyStr == "" {
        policyStr = defaultPolicy
    }
    err, policy := ParseContinuationPolicy(policyStr)
    if err != nil {
        return err, nil
    }

    seen := make(map[string]bool)
    experiments := make([]ExperimentDescriptor, 0, len(data.Experiments))
    for _, item := range data.Experiments {
        if err := registry.ValidateName(item.Name); err != nil {
            return err, nil
        }
        if seen[item.Name] {
            errMsg := fmt.Sprintf("Experiment %s appears twice in the batch",
                item.Name)
            return errors.New(errMsg), nil
        }
        seen[item.Name] = true
        experiments = append(experiments, ExperimentDescriptor{
            Name: item.Name,
            Flags: item.Flags,
        })
    }

    batch := &Batch{
        Name: data.Name,
        Workspace: NewWorkspaceHandle(data.WorkDir),
        Toolchain: data.Toolchain,
        Request: request,
        Policy: policy,
        Experiments: experiments,
    }

    return nil, batch
}
