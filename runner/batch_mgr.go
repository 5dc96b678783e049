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
    "fmt"
    "sync"
    "time"
    "errors"

    . "github.com/AgentElement/functional-supercollider/common"
    . "github.com/AgentElement/functional-supercollider/message"
    "github.com/AgentElement/functional-supercollider/dbservice"
    "github.com/AgentElement/functional-supercollider/runner/backend"
    "github.com/AgentElement/functional-supercollider/storage"
)

type trackedBatch struct {
    jobId string
    batch *Batch
    backendType string
    state int
    created time.Time
    finished time.Time
    results []ExperimentResult
    recorded bool
    stdoutFile string
    stderrFile string
}

/*
 * BatchMgr owns the orchestration flow: it validates submitted
 * batch descriptions, renders the submission entry for the
 * backend, tracks live state, records history and republishes
 * lifecycle notifications. One manager per service instance.
 */
type BatchMgr struct {
    lock sync.RWMutex
    config *ColliderConfig
    registry *ExperimentRegistry
    preparer *EnvPreparer
    scheduleBackend backend.BatchBackend
    batches map[string]*trackedBatch
}

var globalBatchMgr *BatchMgr = nil

func GetBatchMgr() *BatchMgr {
    return globalBatchMgr
}

func NewBatchMgr(config *ColliderConfig,
    scheduleBackend backend.BatchBackend) *BatchMgr {
    mgr := &BatchMgr{
        config: config,
        registry: NewExperimentRegistry(config.RunnerConfig.Experiments),
        preparer: NewEnvPreparer(config.RunnerConfig.ToolchainRoot),
        scheduleBackend: scheduleBackend,
        batches: make(map[string]*trackedBatch),
    }
    globalBatchMgr = mgr
    return mgr
}

func (mgr *BatchMgr) Registry() *ExperimentRegistry {
    return mgr.registry
}

func (mgr *BatchMgr) SubmitBatch(data *BatchJSONData) (error, string) {
    runnerConfig := &mgr.config.RunnerConfig

    err, batch := ParseBatchMessage(data, mgr.registry,
        runnerConfig.OnFailure)
    if err != nil {
        RunnerLogger.Errorf("Reject batch %s: %s\n",
            data.Name, err.Error())
        return err, ""
    }

    job := &backend.BatchJob{
        Name: batch.Name,
        WorkDir: batch.Workspace.Dir(),
        Script: BuildSubmissionScript(batch, runnerConfig.Binary,
            runnerConfig.ToolchainRoot),
        WallTime: batch.Request.WallTime,
        EntryPoint: func(ctx context.Context, jobId string) error {
            return mgr.runBatch(ctx, batch, jobId)
        },
    }

    err, jobId := mgr.scheduleBackend.SubmitBatch(job)
    if err != nil {
        RunnerLogger.Errorf("Backend refused batch %s: %s\n",
            batch.Name, err.Error())
        return err, ""
    }

    tracked := mgr.getOrCreateTracked(jobId, batch)
    RunnerLogger.Infof("Batch %s submitted as job %s\n",
        batch.Name, jobId)

    if db := dbservice.GetDBService(); db != nil {
        db.AddBatch(&dbservice.BatchDBInfo{
            JobId: jobId,
            Name: batch.Name,
            Backend: mgr.scheduleBackend.GetType(),
            WorkDir: batch.Workspace.Dir(),
            State: BatchStateToStr(tracked.state),
            Created: tracked.created.Format(COLLIDER_TIME_LAYOUT),
            ExperimentCount: len(batch.Experiments),
        })
    }

    return nil, jobId
}

func (mgr *BatchMgr) getOrCreateTracked(jobId string, batch *Batch) *trackedBatch {
    mgr.lock.Lock()
    defer mgr.lock.Unlock()

    if tracked, ok := mgr.batches[jobId]; ok {
        return tracked
    }
    tracked := &trackedBatch{
        jobId: jobId,
        batch: batch,
        backendType: mgr.scheduleBackend.GetType(),
        state: BATCH_QUEUED,
        created: time.Now(),
    }
    mgr.batches[jobId] = tracked
    return tracked
}

func (mgr *BatchMgr) setBatchState(tracked *trackedBatch, state int) {
    mgr.lock.Lock()
    tracked.state = state
    mgr.lock.Unlock()
}

/*
 * runBatch is the job body executed inside the reservation: it
 * routes outputs, prepares the environment once, then drives the
 * sequencer. It only ever runs through the local backend; a
 * slurm reservation executes the rendered script instead, which
 * performs the same steps on the compute node.
 */
func (mgr *BatchMgr) runBatch(ctx context.Context, batch *Batch,
    jobId string) error {
    tracked := mgr.getOrCreateTracked(jobId, batch)
    mgr.setBatchState(tracked, BATCH_PREPARING)

    err, router := NewOutputRouter(batch.Request, jobId)
    if err != nil {
        mgr.finishBatch(tracked, BATCH_ABORTED)
        return backend.BE_JOB_FAILED
    }
    defer router.Close()

    mgr.lock.Lock()
    tracked.stdoutFile = router.StdoutPath()
    tracked.stderrFile = router.StderrPath()
    mgr.lock.Unlock()

    router.NotifyBegin(batch.Request, batch.Name)

    err, environment := mgr.preparer.Prepare(batch.Toolchain,
        batch.Workspace)
    if err != nil {
        fmt.Fprintf(router.Stderr(),
            "environment preparation failed: %s\n", err.Error())
        mgr.finishBatch(tracked, BATCH_ABORTED)
        router.NotifyFail(batch.Request, batch.Name, BATCH_ABORTED,
            err.Error())
        return backend.BE_JOB_FAILED
    }

    mgr.setBatchState(tracked, BATCH_RUNNING)
    sequencer := NewBatchSequencer(mgr.config.RunnerConfig.Binary,
        batch, environment, router)
    runErr, results := sequencer.Run(ctx)

    mgr.lock.Lock()
    tracked.results = results
    mgr.lock.Unlock()

    failCount := 0
    for _, result := range results {
        if result.State == EXPERIMENT_FAIL {
            failCount ++
        }
    }

    var retErr error = nil
    var state int
    var detail string
    switch {
        case errors.Is(runErr, ERR_BATCH_TIMEOUT):
            state = BATCH_TIMEOUT
            detail = "wall clock limit exceeded"
            retErr = backend.BE_JOB_TIMEOUT
        case errors.Is(runErr, ERR_BATCH_STOPPED):
            state = BATCH_ABORTED
            detail = "stopped on first experiment failure"
            retErr = backend.BE_JOB_FAILED
        case failCount > 0:
            state = BATCH_FINISHED_ERRORS
            detail = fmt.Sprintf("completed with %d failed experiments",
                failCount)
        default:
            state = BATCH_FINISHED
            detail = "all experiments completed"
    }

    mgr.finishBatch(tracked, state)
    mgr.lock.RLock()
    state = tracked.state
    mgr.lock.RUnlock()

    switch state {
        case BATCH_CANCELLED:
            /*cancellation was requested, nothing to announce*/
        case BATCH_TIMEOUT, BATCH_ABORTED:
            router.NotifyFail(batch.Request, batch.Name, state, detail)
        default:
            router.NotifyEnd(batch.Request, batch.Name, state, detail)
    }

    mgr.archiveOutputs(tracked)

    return retErr
}

func (mgr *BatchMgr) finishBatch(tracked *trackedBatch, state int) {
    mgr.lock.Lock()
    /*a cancelled batch stays cancelled; the killed sequencer
      reports a timeout afterwards and must not overwrite it*/
    if tracked.state == BATCH_CANCELLED {
        state = BATCH_CANCELLED
    }
    tracked.state = state
    if tracked.finished.IsZero() {
        tracked.finished = time.Now()
    }
    results := tracked.results
    recordResults := len(results) > 0 && !tracked.recorded
    if recordResults {
        tracked.recorded = true
    }
    mgr.lock.Unlock()

    db := dbservice.GetDBService()
    if db == nil {
        return
    }
    db.UpdateBatchState(tracked.jobId, BatchStateToStr(state),
        tracked.finished.Format(COLLIDER_TIME_LAYOUT))
    if !recordResults {
        return
    }
    for i, result := range results {
        db.AddExperiment(&dbservice.ExperimentDBInfo{
            JobId: tracked.jobId,
            Seq: i,
            Name: result.Name,
            State: ExperimentStateToStr(result.State),
            ExitCode: result.ExitCode,
            DurationSeconds: result.Duration.Seconds(),
        })
    }
}

func (mgr *BatchMgr) archiveOutputs(tracked *trackedBatch) {
    archiver := storage.GetOutputArchiver()
    if archiver == nil {
        return
    }
    err := archiver.ArchiveJobOutput(tracked.jobId,
        []string{tracked.stdoutFile, tracked.stderrFile})
    if err != nil {
        RunnerLogger.Errorf("Fail to archive outputs of job %s: %s\n",
            tracked.jobId, err.Error())
    }
}

func backendStateToBatchState(state int) int {
    switch state {
        case backend.JOB_QUEUED:
            return BATCH_QUEUED
        case backend.JOB_RUNNING:
            return BATCH_RUNNING
        case backend.JOB_FINISHED:
            return BATCH_FINISHED
        case backend.JOB_FAIL:
            return BATCH_ABORTED
        case backend.JOB_TIMEOUT:
            return BATCH_TIMEOUT
        case backend.JOB_CANCELLED:
            return BATCH_CANCELLED
        default:
            return BATCH_QUEUED
    }
}

func (mgr *BatchMgr) GetBatchStatus(jobId string) (error, *ColliderBatchStatus) {
    mgr.lock.RLock()
    tracked, ok := mgr.batches[jobId]
    mgr.lock.RUnlock()

    if !ok {
        return mgr.getBatchStatusFromHistory(jobId)
    }

    mgr.lock.RLock()
    status := &ColliderBatchStatus{
        JobId: tracked.jobId,
        Name: tracked.batch.Name,
        State: BatchStateToStr(tracked.state),
        Backend: tracked.backendType,
        WorkDir: tracked.batch.Workspace.Dir(),
        StdoutFile: tracked.stdoutFile,
        StderrFile: tracked.stderrFile,
    }
    results := tracked.results
    state := tracked.state
    mgr.lock.RUnlock()

    /*
     * A slurm job's progress lives in the scheduler, the tracked
     * state only knows the submission. Refresh it on demand.
     */
    if tracked.backendType == BACKEND_TYPE_SLURM &&
        state == BATCH_QUEUED {
        err, jobStatus := mgr.scheduleBackend.CheckBatch(jobId)
        if err == nil && jobStatus != nil {
            status.State = BatchStateToStr(
                backendStateToBatchState(jobStatus.State))
        }
    }

    for _, result := range results {
        status.Experiments = append(status.Experiments,
            ColliderExperimentStatus{
                Name: result.Name,
                State: ExperimentStateToStr(result.State),
                ExitCode: result.ExitCode,
                StartTime: result.StartTime.Format(COLLIDER_TIME_LAYOUT),
                EndTime: result.EndTime.Format(COLLIDER_TIME_LAYOUT),
                DurationSeconds: result.Duration.Seconds(),
            })
    }
    status.Perf = BuildPerfStats(results)

    return nil, status
}

func (mgr *BatchMgr) getBatchStatusFromHistory(jobId string) (error, *ColliderBatchStatus) {
    db := dbservice.GetDBService()
    if db == nil {
        return errors.New("batch not found"), nil
    }

    err, batchInfo := db.GetBatchById(jobId)
    if err != nil {
        return err, nil
    }
    if batchInfo == nil {
        return errors.New("batch not found"), nil
    }

    status := &ColliderBatchStatus{
        JobId: batchInfo.JobId,
        Name: batchInfo.Name,
        State: batchInfo.State,
        Backend: batchInfo.Backend,
        WorkDir: batchInfo.WorkDir,
    }

    err, experiments := db.GetExperimentsByBatch(jobId)
    if err != nil {
        return nil, status
    }
    for _, expInfo := range experiments {
        status.Experiments = append(status.Experiments,
            ColliderExperimentStatus{
                Name: expInfo.Name,
                State: expInfo.State,
                ExitCode: expInfo.ExitCode,
                DurationSeconds: expInfo.DurationSeconds,
            })
    }

    return nil, status
}

func (mgr *BatchMgr) ListBatches() (error, []ColliderBatchInfo, []ColliderBatchInfo) {
    liveBatches := make([]ColliderBatchInfo, 0)
    mgr.lock.RLock()
    for _, tracked := range mgr.batches {
        info := ColliderBatchInfo{
            JobId: tracked.jobId,
            Name: tracked.batch.Name,
            Backend: tracked.backendType,
            Created: tracked.created.Format(COLLIDER_TIME_LAYOUT),
            State: BatchStateToStr(tracked.state),
            WorkDir: tracked.batch.Workspace.Dir(),
            ExperimentCount: len(tracked.batch.Experiments),
        }
        if !tracked.finished.IsZero() {
            info.Finished = tracked.finished.Format(COLLIDER_TIME_LAYOUT)
        }
        liveBatches = append(liveBatches, info)
    }
    mgr.lock.RUnlock()

    histBatches := make([]ColliderBatchInfo, 0)
    if db := dbservice.GetDBService(); db != nil {
        err, records := db.GetBatchHistory(0)
        if err == nil {
            for _, record := range records {
                histBatches = append(histBatches, ColliderBatchInfo{
                    JobId: record.JobId,
                    Name: record.Name,
                    Backend: record.Backend,
                    Created: record.Created,
                    Finished: record.Finished,
                    State: record.State,
                    WorkDir: record.WorkDir,
                    ExperimentCount: record.ExperimentCount,
                })
            }
        }
    }

    return nil, liveBatches, histBatches
}

func (mgr *BatchMgr) CancelBatch(jobId string) error {
    mgr.lock.RLock()
    tracked, ok := mgr.batches[jobId]
    mgr.lock.RUnlock()

    err := mgr.scheduleBackend.CancelBatch(jobId)
    if err != nil {
        RunnerLogger.Errorf("Fail to cancel job %s: %s\n",
            jobId, err.Error())
        return err
    }

    if ok {
        mgr.finishBatch(tracked, BATCH_CANCELLED)
    }
    return nil
}

func (mgr *BatchMgr) ListExperiments() []string {
    return mgr.registry.Names()
}
