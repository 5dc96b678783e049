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
    "time"
    "errors"

    . "github.com/AgentElement/functional-supercollider/common"
    . "github.com/AgentElement/functional-supercollider/message"
)

/*notification event mask*/
const (
    NOTIFY_EVENT_BEGIN int = 1
    NOTIFY_EVENT_END int = 1 << 1
    NOTIFY_EVENT_FAIL int = 1 << 2
    NOTIFY_EVENT_ALL int = NOTIFY_EVENT_BEGIN | NOTIFY_EVENT_END |
        NOTIFY_EVENT_FAIL
)

/*environment export policy*/
const (
    EXPORT_ENV_NONE string = "NONE"
    EXPORT_ENV_INHERIT string = "INHERIT"
)

var (
    ERR_REQ_INVALID_NODES error = errors.New("node count must be at least 1")
    ERR_REQ_INVALID_CORES error = errors.New("core count must be at least 1")
    ERR_REQ_INVALID_WALLTIME error = errors.New("wall clock limit must be positive")
    ERR_REQ_INVALID_EXPORT error = errors.New("export policy must be NONE or INHERIT")
)

/*
 * ResourceRequest is the declarative resource reservation handed
 * to the external scheduler. It never allocates anything itself,
 * the scheduler may still queue, delay or reject it.
 */
type ResourceRequest struct {
    Nodes int
    Cores int
    WallTime time.Duration
    Partition string
    Qos string
    NotifyEvents int
    NotifyUser string
    StdoutTemplate string
    StderrTemplate string
    ExportEnv string
}

func ParseNotifyEvents(events []string) (error, int) {
    mask := 0
    for _, event := range events {
        switch strings.ToUpper(event) {
            case "BEGIN":
                mask |= NOTIFY_EVENT_BEGIN
            case "END":
                mask |= NOTIFY_EVENT_END
            case "FAIL":
                mask |= NOTIFY_EVENT_FAIL
            case "ALL":
                mask |= NOTIFY_EVENT_ALL
            default:
                errMsg := fmt.Sprintf("Unknown notify event %s",
                    event)
                return errors.New(errMsg), 0
        }
    }
    return nil, mask
}

func NotifyEventsToStr(mask int) string {
    if mask == NOTIFY_EVENT_ALL {
        return "ALL"
    }
    events := make([]string, 0)
    if mask & NOTIFY_EVENT_BEGIN != 0 {
        events = append(events, "BEGIN")
    }
    if mask & NOTIFY_EVENT_END != 0 {
        events = append(events, "END")
    }
    if mask & NOTIFY_EVENT_FAIL != 0 {
        events = append(events, "FAIL")
    }
    return strings.Join(events, ",")
}

func ResourceRequestFromMessage(data *ResourceJSONData) (error, *ResourceRequest) {
    wallTime, err := TimeUtilsParseWallTime(data.WallTime)
    if err != nil {
        return err, nil
    }

    err, mask := ParseNotifyEvents(data.NotifyEvents)
    if err != nil {
        return err, nil
    }

    exportEnv := data.ExportEnv
    if exportEnv == "" {
        exportEnv = EXPORT_ENV_INHERIT
    }

    request := &ResourceRequest{
        Nodes: data.Nodes,
        Cores: data.Cores,
        WallTime: wallTime,
        Partition: data.Partition,
        Qos: data.Qos,
        NotifyEvents: mask,
        NotifyUser: data.NotifyUser,
        StdoutTemplate: data.Stdout,
        StderrTemplate: data.Stderr,
        ExportEnv: exportEnv,
    }

    if err := request.Validate(); err != nil {
        return err, nil
    }

    return nil, request
}

/*
 * Validation here is deliberately minimal and local. Whether the
 * partition or QOS exist is the scheduler's business, not ours.
 */
func (request *ResourceRequest) Validate() error {
    if request.Nodes < 1 {
        return ERR_REQ_INVALID_NODES
    }
    if request.Cores < 1 {
        return ERR_REQ_INVALID_CORES
    }
    if request.WallTime <= 0 {
        return ERR_REQ_INVALID_WALLTIME
    }
    if err := PathUtilsValidateTemplate(request.StdoutTemplate); err != nil {
        return err
    }
    if err := PathUtilsValidateTemplate(request.StderrTemplate); err != nil {
        return err
    }
    if request.ExportEnv != EXPORT_ENV_NONE &&
        request.ExportEnv != EXPORT_ENV_INHERIT {
        return ERR_REQ_INVALID_EXPORT
    }
    return nil
}

func (request *ResourceRequest) NotifyOn(event int) bool {
    return request.NotifyEvents & event != 0
}

/*
 * Directives renders the scheduler directive block consumed at
 * submission time.
 */
func (request *ResourceRequest) Directives() []string {
    directives := []string{
        fmt.Sprintf("#SBATCH --nodes=%d", request.Nodes),
        "#SBATCH --ntasks=1",
        fmt.Sprintf("#SBATCH --cpus-per-task=%d", request.Cores),
        fmt.Sprintf("#SBATCH --time=%s",
            TimeUtilsFormatWallTime(request.WallTime)),
    }
    if request.Partition != "" {
        directives = append(directives,
            fmt.Sprintf("#SBATCH --partition=%s", request.Partition))
    }
    if request.Qos != "" {
        directives = append(directives,
            fmt.Sprintf("#SBATCH --qos=%s", request.Qos))
    }
    if request.NotifyEvents != 0 && request.NotifyUser != "" {
        directives = append(directives,
            fmt.Sprintf("#SBATCH --mail-type=%s",
                NotifyEventsToStr(request.NotifyEvents)),
            fmt.Sprintf("#SBATCH --mail-user=%s", request.NotifyUser))
    }
    directives = append(directives,
        fmt.Sprintf("#SBATCH --output=%s", request.StdoutTemplate),
        fmt.Sprintf("#SBATCH --error=%s", request.StderrTemplate))
    if request.ExportEnv == EXPORT_ENV_NONE {
        directives = append(directives, "#SBATCH --export=NONE")
    } else {
        directives = append(directives, "#SBATCH --export=ALL")
    }

    return directives
}
