package common

import (
    "testing"
    "time"
)

func TestFormatWallTime(t *testing.T) {
    cases := []struct {
        walltime time.Duration
        expect string
    }{
        {90 * time.Second, "00:01:30"},
        {2 * time.Hour, "02:00:00"},
        {26 * time.Hour, "1-02:00:00"},
        {49*time.Hour + 30*time.Minute + 5*time.Second, "2-01:30:05"},
    }
    for _, c := range cases {
        got := TimeUtilsFormatWallTime(c.walltime)
        if got != c.expect {
            t.Errorf("format %v: got %s, expect %s",
                c.walltime, got, c.expect)
        }
    }
}

func TestParseWallTime(t *testing.T) {
    cases := []struct {
        walltime string
        expect time.Duration
    }{
        {"00:01:30", 90 * time.Second},
        {"02:00:00", 2 * time.Hour},
        {"1-02:00:00", 26 * time.Hour},
        {"2-01:30:05", 49*time.Hour + 30*time.Minute + 5*time.Second},
        /*the hour field has no upper bound without a day part*/
        {"48:00:00", 48 * time.Hour},
    }
    for _, c := range cases {
        got, err := TimeUtilsParseWallTime(c.walltime)
        if err != nil {
            t.Fatalf("parse %s: %s", c.walltime, err.Error())
        }
        if got != c.expect {
            t.Errorf("parse %s: got %v, expect %v",
                c.walltime, got, c.expect)
        }
    }
}

func TestParseWallTimeRejectsMalformed(t *testing.T) {
    bad := []string{"", "90", "02:00", "x-02:00:00", "02:xx:00",
        "00:99:00", "00:00:60", "1-00:60:00"}
    for _, walltime := range bad {
        if _, err := TimeUtilsParseWallTime(walltime); err == nil {
            t.Errorf("parse %q should fail", walltime)
        }
    }
}

func TestWallTimeRoundTrip(t *testing.T) {
    for _, walltime := range []string{"00:30:00", "3-12:15:45"} {
        parsed, err := TimeUtilsParseWallTime(walltime)
        if err != nil {
            t.Fatalf("parse %s: %s", walltime, err.Error())
        }
        if got := TimeUtilsFormatWallTime(parsed); got != walltime {
            t.Errorf("round trip %s: got %s", walltime, got)
        }
    }
}

func TestValidateTemplate(t *testing.T) {
    if err := PathUtilsValidateTemplate("/tmp/out-%j.log"); err != nil {
        t.Errorf("valid template rejected: %s", err.Error())
    }
    if err := PathUtilsValidateTemplate("/tmp/out.log"); err == nil {
        t.Errorf("template without placeholder accepted")
    }
    if err := PathUtilsValidateTemplate("/tmp/%j-out-%j.log"); err == nil {
        t.Errorf("template with two placeholders accepted")
    }
}

func TestExpandTemplate(t *testing.T) {
    got := PathUtilsExpandTemplate("/tmp/out-%j.log", "1234")
    if got != "/tmp/out-1234.log" {
        t.Errorf("expand: got %s", got)
    }
}
