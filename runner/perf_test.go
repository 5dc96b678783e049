package runner

import (
    "encoding/json"
    "math"
    "testing"
    "time"
)

func TestBuildPerfStatsSingleInvocation(t *testing.T) {
    perf := BuildPerfStats([]ExperimentResult{
        {Name: "entropy-series", State: EXPERIMENT_FINISHED,
            Duration: 3 * time.Second},
    })
    if perf == nil {
        t.Fatal("no stats for an executed invocation")
    }
    if perf.MeanSeconds != 3 || perf.TotalSeconds != 3 ||
        perf.MaxSeconds != 3 {
        t.Errorf("stats: %+v", perf)
    }
    if perf.StdDevSeconds != 0 {
        t.Errorf("single-sample stddev: got %v", perf.StdDevSeconds)
    }

    /*a NaN here would make the status response unencodable*/
    if _, err := json.Marshal(perf); err != nil {
        t.Fatalf("marshal: %s", err.Error())
    }
}

func TestBuildPerfStatsSpread(t *testing.T) {
    perf := BuildPerfStats([]ExperimentResult{
        {Name: "entropy-series", State: EXPERIMENT_FINISHED,
            Duration: 2 * time.Second},
        {Name: "entropy-test", State: EXPERIMENT_FAIL,
            Duration: 4 * time.Second},
        {Name: "simulate-sample", State: EXPERIMENT_SKIPPED},
    })
    if perf == nil {
        t.Fatal("no stats")
    }
    if perf.MeanSeconds != 3 || perf.TotalSeconds != 6 ||
        perf.MaxSeconds != 4 {
        t.Errorf("skipped invocation counted: %+v", perf)
    }
    /*sample stddev of {2, 4}*/
    if math.Abs(perf.StdDevSeconds-math.Sqrt(2)) > 1e-9 {
        t.Errorf("stddev: got %v", perf.StdDevSeconds)
    }
}

func TestBuildPerfStatsAllSkipped(t *testing.T) {
    perf := BuildPerfStats([]ExperimentResult{
        {Name: "entropy-series", State: EXPERIMENT_SKIPPED},
    })
    if perf != nil {
        t.Errorf("stats over zero invocations: %+v", perf)
    }
}
