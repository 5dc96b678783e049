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
    "math"

    "gonum.org/v1/gonum/stat"

    . "github.com/AgentElement/functional-supercollider/message"
)

/*
 * Duration statistics over the invocations that actually ran.
 * Skipped descriptors carry no duration and are left out.
 */
func BuildPerfStats(results []ExperimentResult) *ColliderPerfStats {
    var durations []float64
    total := 0.0
    for _, result := range results {
        if result.State == EXPERIMENT_SKIPPED {
            continue
        }
        secs := result.Duration.Seconds()
        durations = append(durations, secs)
        total += secs
    }

    if len(durations) == 0 {
        return nil
    }

    max := durations[0]
    for _, d := range durations {
        if d > max {
            max = d
        }
    }

    /*the sample variance of a single invocation is undefined*/
    stddev := 0.0
    if len(durations) > 1 {
        stddev = math.Sqrt(stat.Variance(durations, nil))
    }

    return &ColliderPerfStats{
        MeanSeconds: stat.Mean(durations, nil),
        StdDevSeconds: stddev,
        MaxSeconds: max,
        TotalSeconds: total,
    }
}
