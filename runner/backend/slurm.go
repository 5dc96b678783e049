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
    "fmt"
    "io/ioutil"
    "os"
    "os/exec"
    "regexp"
    "strings"
    "sync"
    "errors"

    . "github.com/AgentElement/functional-supercollider/common"
)

var submitIdPattern = regexp.MustCompile(`Submitted batch job (\d+)`)

type slurmBackend struct {
    sbatchPath string
    squeuePath string
    scancelPath string
    lock sync.Mutex
    jobs map[string]string
}

func NewSlurmBackend(config *BackendConfig) BatchBackend {
    backend := &slurmBackend{
        sbatchPath: config.SbatchPath,
        squeuePath: config.SqueuePath,
        scancelPath: config.ScancelPath,
        jobs: make(map[string]string),
    }
    if backend.sbatchPath == "" {
        backend.sbatchPath = "sbatch"
    }
    if backend.squeuePath == "" {
        backend.squeuePath = "squeue"
    }
    if backend.scancelPath == "" {
        backend.scancelPath = "scancel"
    }
    return backend
}

func (backend *slurmBackend) Start() int {
    return 0
}

/*
 * Hand the rendered submission script to sbatch. The returned
 * job id comes out of sbatch's one-line acknowledgement; the
 * scheduler substitutes it into the output templates itself.
 */
func (backend *slurmBackend) SubmitBatch(job *BatchJob) (error, string) {
    scriptFile, err := ioutil.TempFile("", "collider-*.sbatch")
    if err != nil {
        return err, ""
    }
    defer os.Remove(scriptFile.Name())

    if _, err := scriptFile.WriteString(job.Script); err != nil {
        scriptFile.Close()
        return err, ""
    }
    scriptFile.Close()

    cmd := exec.Command(backend.sbatchPath, scriptFile.Name())
    cmd.Dir = job.WorkDir
    output, err := cmd.CombinedOutput()
    if err != nil {
        BackendLogger.Errorf("sbatch rejected batch %s: %s %s\n",
            job.Name, err.Error(), string(output))
        errMsg := fmt.Sprintf("%s: %s", BE_SUBMIT_ERR.Error(),
            strings.TrimSpace(string(output)))
        return errors.New(errMsg), ""
    }

    matches := submitIdPattern.FindStringSubmatch(string(output))
    if matches == nil {
        BackendLogger.Errorf("Can't parse sbatch output: %s\n",
            string(output))
        return BE_INTERNAL_ERR, ""
    }
    jobId := matches[1]

    backend.lock.Lock()
    backend.jobs[jobId] = job.Name
    backend.lock.Unlock()

    BackendLogger.Infof("Submitted batch %s as job %s\n",
        job.Name, jobId)
    return nil, jobId
}

func (backend *slurmBackend) CheckBatch(jobId string) (error, *JobStatus) {
    if jobId == "" {
        return errors.New("Empty job id"), nil
    }

    cmd := exec.Command(backend.squeuePath, "-h", "-j", jobId,
        "-o", "%T")
    output, err := cmd.Output()
    state := strings.TrimSpace(string(output))
    if err != nil || state == "" {
        /*
         * squeue only knows queued and running jobs; a job it
         * no longer reports has left the queue one way or the
         * other. The exit status trace lives in the output
         * files, not here.
         */
        return nil, &JobStatus{
                        State: JOB_FINISHED,
                        Info: "job left the scheduler queue",
        }
    }

    switch state {
        case "PENDING", "CONFIGURING", "SUSPENDED":
            return nil, &JobStatus{State: JOB_QUEUED, Info: state}
        case "RUNNING", "COMPLETING":
            return nil, &JobStatus{State: JOB_RUNNING, Info: state}
        case "TIMEOUT", "DEADLINE":
            return nil, &JobStatus{State: JOB_TIMEOUT, Info: state}
        case "FAILED", "NODE_FAIL", "OUT_OF_MEMORY":
            return nil, &JobStatus{State: JOB_FAIL, Info: state}
        case "CANCELLED":
            return nil, &JobStatus{State: JOB_CANCELLED, Info: state}
        case "COMPLETED":
            return nil, &JobStatus{State: JOB_FINISHED, Info: state}
        default:
            return nil, &JobStatus{State: JOB_UNKNOWN, Info: state}
    }
}

func (backend *slurmBackend) CancelBatch(jobId string) error {
    cmd := exec.Command(backend.scancelPath, jobId)
    output, err := cmd.CombinedOutput()
    if err != nil {
        BackendLogger.Errorf("scancel %s failed: %s %s\n",
            jobId, err.Error(), string(output))
        return err
    }
    return nil
}

func (backend *slurmBackend) GetType() string {
    return BACKEND_TYPE_SLURM
}

func (backend *slurmBackend) Ping() error {
    _, err := exec.LookPath(backend.sbatchPath)
    return err
}
