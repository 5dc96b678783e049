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

/*
 * The batch description file submitted by the client. The
 * WallTime field uses the scheduler's d-hh:mm:ss notation,
 * output templates carry a %j job id placeholder.
 */
type ResourceJSONData struct {
    Nodes int                   `json:"Nodes"`
    Cores int                   `json:"Cores"`
    WallTime string             `json:"WallTime"`
    Partition string            `json:"Partition"`
    Qos string                  `json:"Qos"`
    NotifyEvents []string       `json:"NotifyEvents"`
    NotifyUser string           `json:"NotifyUser"`
    Stdout string               `json:"Stdout"`
    Stderr string               `json:"Stderr"`
    ExportEnv string            `json:"ExportEnv"`
}

type ExperimentJSONData struct {
    Name string                 `json:"Name"`
    Flags []string              `json:"Flags,omitempty"`
}

type BatchJSONData struct {
    Name string                 `json:"Name"`
    WorkDir string              `json:"WorkDir"`
    Toolchain string            `json:"Toolchain"`
    OnFailure string            `json:"OnFailure,omitempty"`
    Resource ResourceJSONData   `json:"Resource"`
    Experiments []ExperimentJSONData `json:"Experiments"`
}
