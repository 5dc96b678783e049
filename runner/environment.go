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
    "os"
    "path/filepath"
    "strings"
    "errors"

    . "github.com/AgentElement/functional-supercollider/common"
)

var ERR_TOOLCHAIN_NOT_FOUND error = errors.New("pinned toolchain not installed")

/*
 * EnvPreparer establishes the reproducible execution context
 * before any experiment runs: it resolves the pinned toolchain
 * under the configured toolchain root and checks the workspace.
 * It runs exactly once per job, and there is no fallback: a
 * missing toolchain or workspace aborts the whole batch with
 * zero descriptors executed.
 */
type EnvPreparer struct {
    toolchainRoot string
}

type PreparedEnvironment struct {
    Workspace *WorkspaceHandle
    ToolchainDir string
    environ []string
}

func NewEnvPreparer(toolchainRoot string) *EnvPreparer {
    return &EnvPreparer{
        toolchainRoot: toolchainRoot,
    }
}

func (preparer *EnvPreparer) Prepare(toolchain string,
    workspace *WorkspaceHandle) (error, *PreparedEnvironment) {
    prepared := &PreparedEnvironment{
        Workspace: workspace,
    }

    if toolchain != "" {
        if preparer.toolchainRoot == "" {
            return errors.New("No toolchain root configured"), nil
        }
        toolchainDir := filepath.Join(preparer.toolchainRoot, toolchain)
        if !FSUtilsDirExist(toolchainDir) {
            RunnerLogger.Errorf("Toolchain %s not found under %s\n",
                toolchain, preparer.toolchainRoot)
            return ERR_TOOLCHAIN_NOT_FOUND, nil
        }
        prepared.ToolchainDir = toolchainDir
    }

    if err := workspace.Validate(); err != nil {
        RunnerLogger.Errorf("Workspace check failed: %s\n",
            err.Error())
        return err, nil
    }

    prepared.environ = buildEnviron(prepared.ToolchainDir)

    return nil, prepared
}

func buildEnviron(toolchainDir string) []string {
    environ := os.Environ()
    if toolchainDir == "" {
        return environ
    }

    binDir := filepath.Join(toolchainDir, "bin")
    for i, entry := range environ {
        if strings.HasPrefix(entry, "PATH=") {
            environ[i] = fmt.Sprintf("PATH=%s:%s", binDir,
                strings.TrimPrefix(entry, "PATH="))
            return environ
        }
    }
    return append(environ, fmt.Sprintf("PATH=%s", binDir))
}

func (environment *PreparedEnvironment) Environ() []string {
    return environment.environ
}
