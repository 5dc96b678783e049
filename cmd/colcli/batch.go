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
package main

import (
    "fmt"
    "strings"

    . "github.com/AgentElement/functional-supercollider/client"
    . "github.com/AgentElement/functional-supercollider/common"
    . "github.com/AgentElement/functional-supercollider/message"
)

type batchCommand struct {
    client *ColliderClient
}

func newBatchCommand(c *ColliderClient) *batchCommand {
    return &batchCommand{
        client: c,
    }
}

func (cmd *batchCommand) Submit(file string, isYaml bool) {
    if isYaml && !strings.HasSuffix(file, ".yaml") &&
        !strings.HasSuffix(file, ".yml") {
        fmt.Printf("Yaml batch file should end in .yaml or .yml\n")
        return
    }

    err, jobId := cmd.client.SubmitBatchFile(file)
    if err != nil {
        fmt.Printf("Fail to submit batch: %s\n", err.Error())
        return
    }
    fmt.Printf("Batch submitted, job id %s\n", jobId)
}

func (cmd *batchCommand) List() {
    err, result := cmd.client.ListBatches()
    if err != nil {
        fmt.Printf("Fail to list batches: %s\n", err.Error())
        return
    }
    ShowBatches(result.Batches, result.HistBatches)
}

func ShowBatches(batchList []ColliderBatchInfo, histBatches []ColliderBatchInfo) {
    if len(batchList) == 0 && len(histBatches) == 0 {
        fmt.Printf("No batches found\n")
        return
    }

    if len(batchList) > 0 {
        fmt.Printf("%d tracked batches: \n", len(batchList))
        for i, batchInfo := range batchList {
            showBatchInfo(false, i + 1, &batchInfo)
        }
    }

    if len(histBatches) > 0 {
        fmt.Printf("%d history batches: \n", len(histBatches))
        for i, batchInfo := range histBatches {
            showBatchInfo(true, i + 1, &batchInfo)
        }
    }
}

func showBatchInfo(indent bool, seq int, batchInfo *ColliderBatchInfo) {
    IndentPrint(indent, " Batch %d: \n", seq)
    IndentPrint(indent, "    ID: %s\n", batchInfo.JobId)
    IndentPrint(indent, "    Name: %s\n", batchInfo.Name)
    IndentPrint(indent, "    Backend: %s\n", batchInfo.Backend)
    IndentPrint(indent, "    Created: %s\n", batchInfo.Created)
    if batchInfo.Finished == "" {
        IndentPrint(indent, "    Finished: N/A\n")
    } else {
        IndentPrint(indent, "    Finished: %s\n", batchInfo.Finished)
    }
    IndentPrint(indent, "    State: %s\n", batchInfo.State)
    IndentPrint(indent, "    WorkDir: %s\n", batchInfo.WorkDir)
    IndentPrint(indent, "    Experiments: %d\n", batchInfo.ExperimentCount)
}

func (cmd *batchCommand) Status(batchId string, showPerf bool) {
    err, batchStatus := cmd.client.GetBatchStatus(batchId)
    if err != nil {
        fmt.Printf("Fail to get batch status: %s\n", err.Error())
        return
    }
    ShowBatchStatus(showPerf, batchStatus)
}

func ShowBatchStatus(showPerf bool, batchStatus *ColliderBatchStatus) {
    if batchStatus == nil {
        fmt.Printf("Error, can't parse the batch status\n")
        return
    }

    fmt.Printf("Status of Batch %s: \n", batchStatus.JobId)
    fmt.Printf(" Name: %s\n", batchStatus.Name)
    fmt.Printf(" State: %s\n", batchStatus.State)
    fmt.Printf(" Backend: %s\n", batchStatus.Backend)
    fmt.Printf(" WorkDir: %s\n", batchStatus.WorkDir)
    if batchStatus.StdoutFile != "" {
        fmt.Printf(" Stdout: %s\n", batchStatus.StdoutFile)
    }
    if batchStatus.StderrFile != "" {
        fmt.Printf(" Stderr: %s\n", batchStatus.StderrFile)
    }

    if len(batchStatus.Experiments) == 0 {
        fmt.Printf(" Experiments: no results yet\n")
    } else {
        fmt.Printf(" Experiments: %d\n", len(batchStatus.Experiments))
        for i, expStatus := range batchStatus.Experiments {
            fmt.Printf("    Experiment %d: \n", i + 1)
            fmt.Printf("        Name: %s\n", expStatus.Name)
            fmt.Printf("        State: %s\n", expStatus.State)
            fmt.Printf("        ExitCode: %d\n", expStatus.ExitCode)
            if expStatus.StartTime != "" {
                fmt.Printf("        Started: %s\n", expStatus.StartTime)
            }
            if expStatus.EndTime != "" {
                fmt.Printf("        Finished: %s\n", expStatus.EndTime)
            }
            if expStatus.DurationSeconds > 0 {
                fmt.Printf("        Duration: %fs\n",
                    expStatus.DurationSeconds)
            } else {
                fmt.Printf("        Duration: N/A\n")
            }
        }
    }

    if showPerf {
        if batchStatus.Perf == nil {
            fmt.Printf(" Perf: N/A\n")
        } else {
            fmt.Printf(" Perf: \n")
            fmt.Printf("    MeanSeconds: %f\n", batchStatus.Perf.MeanSeconds)
            fmt.Printf("    StdDevSeconds: %f\n", batchStatus.Perf.StdDevSeconds)
            fmt.Printf("    MaxSeconds: %f\n", batchStatus.Perf.MaxSeconds)
            fmt.Printf("    TotalSeconds: %f\n", batchStatus.Perf.TotalSeconds)
        }
    }
}

func (cmd *batchCommand) Cancel(batchId string) {
    err := cmd.client.CancelBatch(batchId)
    if err != nil {
        fmt.Printf("Fail to cancel batch %s: %s\n",
            batchId, err.Error())
        return
    }
    fmt.Printf("Batch %s cancelled\n", batchId)
}

func ShowExperiments(client *ColliderClient) {
    err, experiments := client.ListExperiments()
    if err != nil {
        fmt.Printf("Fail to list experiments: %s\n", err.Error())
        return
    }

    if len(experiments) == 0 {
        fmt.Printf("No experiments known to the service\n")
        return
    }
    fmt.Printf("%d experiments: \n", len(experiments))
    for _, name := range experiments {
        fmt.Printf("    %s\n", name)
    }
}
