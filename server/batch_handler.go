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
package server

import (
    "net/http"

    "encoding/json"
    "github.com/gorilla/mux"
    "github.com/AgentElement/functional-supercollider/runner"
    . "github.com/AgentElement/functional-supercollider/common"
    . "github.com/AgentElement/functional-supercollider/message"
    )

func SubmitBatch(w http.ResponseWriter, req *http.Request) {
    decoder := json.NewDecoder(req.Body)
    defer req.Body.Close()

    var result ColliderSubmitBatchResult

    var batchData BatchJSONData
    err := decoder.Decode(&batchData)
    if err != nil {
        ServerLogger.Errorf("Can't parse the request: %s\n",
            err.Error())
        result.Status = COLLIDER_API_RET_FAIL
        result.Msg = err.Error()
        writeJSON(500, result, w)
        return
    }

    batchMgr := runner.GetBatchMgr()

    err, jobId := batchMgr.SubmitBatch(&batchData)
    if err != nil {
        ServerLogger.Infof("Can't submit batch %s: %s\n",
            batchData.Name, err.Error())
        result.Status = COLLIDER_API_RET_FAIL
        result.Msg = err.Error()
        writeJSON(500, result, w)
    } else {
        ServerLogger.Debugf("Successfully submitted batch %s\n",
            batchData.Name)
        result.Status = COLLIDER_API_RET_OK
        result.Msg = "successfully submitted batch"
        result.JobId = jobId
        writeJSON(http.StatusAccepted, result, w)
    }
}

func ListBatch(w http.ResponseWriter, req *http.Request) {
    defer req.Body.Close()

    var result ColliderListBatchResult
    batchMgr := runner.GetBatchMgr()

    err, batches, histBatches := batchMgr.ListBatches()
    if err != nil {
        ServerLogger.Infof("Can't list batches: %s\n",
            err.Error())
        result.Status = COLLIDER_API_RET_FAIL
        result.Msg = err.Error()
        writeJSON(500, result, w)
    } else {
        ServerLogger.Debugf("Successfully list batches\n")
        result.Status = COLLIDER_API_RET_OK
        result.Msg = "successfully list batches"
        result.Batches = batches
        result.HistBatches = histBatches
        result.Count = len(batches)
        writeJSON(http.StatusAccepted, result, w)
    }
}

func GetBatchStatus(w http.ResponseWriter, req *http.Request) {
    defer req.Body.Close()
    vars := mux.Vars(req)
    id := vars["batchId"]

    var result ColliderGetBatchStatusResult
    batchMgr := runner.GetBatchMgr()

    err, batchStatus := batchMgr.GetBatchStatus(id)
    if err != nil {
        ServerLogger.Infof("Can't get status of batch %s: %s\n",
            id, err.Error())
        result.Status = COLLIDER_API_RET_FAIL
        result.Msg = err.Error()
        writeJSON(500, result, w)
    } else {
        result.Status = COLLIDER_API_RET_OK
        result.Msg = "successfully get batch status"
        result.BatchStatus = batchStatus
        writeJSON(http.StatusAccepted, result, w)
    }
}

func CancelBatch(w http.ResponseWriter, req *http.Request) {
    defer req.Body.Close()
    vars := mux.Vars(req)
    id := vars["batchId"]

    var result ColliderCancelBatchResult
    batchMgr := runner.GetBatchMgr()

    err := batchMgr.CancelBatch(id)
    if err != nil {
        ServerLogger.Infof("Can't cancel batch %s: %s\n",
            id, err.Error())
        result.Status = COLLIDER_API_RET_FAIL
        result.Msg = err.Error()
        writeJSON(500, result, w)
    } else {
        ServerLogger.Infof("Batch %s cancelled\n", id)
        result.Status = COLLIDER_API_RET_OK
        result.Msg = "successfully cancelled batch"
        writeJSON(http.StatusAccepted, result, w)
    }
}

func ListExperiment(w http.ResponseWriter, req *http.Request) {
    defer req.Body.Close()

    var result ColliderListExperimentResult
    batchMgr := runner.GetBatchMgr()

    experiments := batchMgr.ListExperiments()
    result.Status = COLLIDER_API_RET_OK
    result.Msg = "successfully list experiments"
    result.Experiments = experiments
    result.Count = len(experiments)
    writeJSON(http.StatusAccepted, result, w)
}
