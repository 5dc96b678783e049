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
    "path/filepath"
    "errors"

    . "github.com/AgentElement/functional-supercollider/common"
)

var ERR_WORKSPACE_NOT_FOUND error = errors.New("workspace directory not found")

/*
 * WorkspaceHandle names the single working directory every
 * invocation of a batch executes in. The directory is shared
 * state: files one experiment leaves behind are visible to the
 * experiments after it, and resubmission does not reset it.
 */
type WorkspaceHandle struct {
    dir string
}

func NewWorkspaceHandle(dir string) *WorkspaceHandle {
    return &WorkspaceHandle{
        dir: dir,
    }
}

func (workspace *WorkspaceHandle) Dir() string {
    return workspace.dir
}

func (workspace *WorkspaceHandle) Join(name string) string {
    return filepath.Join(workspace.dir, name)
}

func (workspace *WorkspaceHandle) Validate() error {
    if workspace.dir == "" {
        return errors.New("workspace directory can't be empty")
    }
    if !FSUtilsDirExist(workspace.dir) {
        errMsg := fmt.Sprintf("workspace directory %s not found",
            workspace.dir)
        return errors.New(errMsg)
    }
    return nil
}
