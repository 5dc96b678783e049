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

package common

import (
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"
    "errors"
)

const (
    COLLIDER_TIME_LAYOUT = time.RFC3339
)

/*the job id placeholder in output path templates*/
const JOBID_PLACEHOLDER string = "%j"

func IndentPrint (indent bool, format string, a ...interface{}) {
    if indent == true {
        fmt.Printf("    ")
    }
    fmt.Printf(format, a ...)
}

/*
 * The scheduler directive block expects wall clock limits in
 * the d-hh:mm:ss format. The day part is omitted when zero.
 */
func TimeUtilsFormatWallTime(walltime time.Duration) string {
    total := int64(walltime.Seconds())
    days := total / 86400
    hours := (total % 86400) / 3600
    mins := (total % 3600) / 60
    secs := total % 60

    if days > 0 {
        return fmt.Sprintf("%d-%02d:%02d:%02d", days, hours,
            mins, secs)
    }
    return fmt.Sprintf("%02d:%02d:%02d", hours, mins, secs)
}

func TimeUtilsParseWallTime(walltime string) (time.Duration, error) {
    var days int64 = 0
    clock := walltime

    if strings.Contains(walltime, "-") {
        items := strings.SplitN(walltime, "-", 2)
        d, err := strconv.ParseInt(items[0], 10, 64)
        if err != nil {
            errMsg := fmt.Sprintf("Wall time day part not correct: %s",
                err.Error())
            return 0, errors.New(errMsg)
        }
        days = d
        clock = items[1]
    }

    items := strings.Split(clock, ":")
    if len(items) != 3 {
        return 0, errors.New("Wall time must be in d-hh:mm:ss format")
    }

    var clockSecs int64 = 0
    for i := 0; i < 3; i ++ {
        v, err := strconv.ParseInt(items[i], 10, 64)
        if err != nil || v < 0 {
            errMsg := fmt.Sprintf("Wall time clock part %s not correct",
                items[i])
            return 0, errors.New(errMsg)
        }
        /*minutes and seconds roll over at 60*/
        if i > 0 && v > 59 {
            errMsg := fmt.Sprintf("Wall time clock part %s out of range",
                items[i])
            return 0, errors.New(errMsg)
        }
        clockSecs = clockSecs * 60 + v
    }

    total := days * 86400 + clockSecs
    return time.Duration(total) * time.Second, nil
}

/*
 * Each output path template must carry the job id placeholder
 * exactly once, otherwise concurrently queued jobs would write
 * to the same file.
 */
func PathUtilsValidateTemplate(template string) error {
    count := strings.Count(template, JOBID_PLACEHOLDER)
    if count == 0 {
        errMsg := fmt.Sprintf("Output template %s misses the %s placeholder",
            template, JOBID_PLACEHOLDER)
        return errors.New(errMsg)
    }
    if count > 1 {
        errMsg := fmt.Sprintf("Output template %s has more than one %s placeholder",
            template, JOBID_PLACEHOLDER)
        return errors.New(errMsg)
    }
    return nil
}

func PathUtilsExpandTemplate(template string, jobId string) string {
    return strings.Replace(template, JOBID_PLACEHOLDER, jobId, 1)
}

func FSUtilsDirExist(dir string) bool {
    info, err := os.Stat(dir)
    if err != nil {
        return false
    }
    return info.IsDir()
}

func FSUtilsFileExist(file string) bool {
    info, err := os.Stat(file)
    if err != nil {
        return false
    }
    return !info.IsDir()
}
