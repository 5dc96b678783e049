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
    "io"
    "os"

    . "github.com/AgentElement/functional-supercollider/common"
)

/*
 * OutputRouter binds the combined stdout/stderr of the whole job
 * to the two files named by expanding the job id into the output
 * templates. Every descriptor of a batch interleaves into the
 * same pair of files in execution order; the only record of
 * which experiment wrote what is whatever the binary itself
 * prints.
 */
type OutputRouter struct {
    jobId string
    stdoutPath string
    stderrPath string
    stdout *os.File
    stderr *os.File
}

func NewOutputRouter(request *ResourceRequest, jobId string) (error, *OutputRouter) {
    router := &OutputRouter{
        jobId: jobId,
        stdoutPath: PathUtilsExpandTemplate(request.StdoutTemplate, jobId),
        stderrPath: PathUtilsExpandTemplate(request.StderrTemplate, jobId),
    }

    stdout, err := os.OpenFile(router.stdoutPath,
        os.O_WRONLY | os.O_CREATE | os.O_APPEND, 0644)
    if err != nil {
        RunnerLogger.Errorf("Can't open stdout file %s: %s\n",
            router.stdoutPath, err.Error())
        return err, nil
    }
    stderr, err := os.OpenFile(router.stderrPath,
        os.O_WRONLY | os.O_CREATE | os.O_APPEND, 0644)
    if err != nil {
        stdout.Close()
        RunnerLogger.Errorf("Can't open stderr file %s: %s\n",
            router.stderrPath, err.Error())
        return err, nil
    }

    router.stdout = stdout
    router.stderr = stderr

    return nil, router
}

func (router *OutputRouter) Stdout() io.Writer {
    return router.stdout
}

func (router *OutputRouter) Stderr() io.Writer {
    return router.stderr
}

func (router *OutputRouter) StdoutPath() string {
    return router.stdoutPath
}

func (router *OutputRouter) StderrPath() string {
    return router.stderrPath
}

func (router *OutputRouter) Close() {
    if router.stdout != nil {
        router.stdout.Close()
    }
    if router.stderr != nil {
        router.stderr.Close()
    }
}
