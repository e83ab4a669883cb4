package pdm_test

import (
	"testing"
	"time"

	"github.com/fleetpdm/pdm"
)

func TestParseTimeAlignment(t *testing.T) {
	ts, err := pdm.ParseTime("2015-01-01 06:59:30", pdm.AlignHourly)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	want := time.Date(2015, 1, 1, 7, 0, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("should round to nearest hour: got %v, want %v", ts, want)
	}

	ts, err = pdm.ParseTime("2015-01-01 06:29:59", pdm.AlignHourly)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	want = time.Date(2015, 1, 1, 6, 0, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("should round down: got %v, want %v", ts, want)
	}

	ts, err = pdm.ParseTime("2015-01-01 06:59:30", pdm.AlignNone)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	if ts.Minute() != 59 {
		t.Fatalf("unaligned parse should not round: %v", ts)
	}
	if pdm.HourAligned(ts) {
		t.Fatalf("06:59:30 is not hour aligned")
	}
}

func TestParseTimeLayouts(t *testing.T) {
	for _, field := range []string{
		"2015-01-01 06:00:00",
		"2015-01-01T06:00:00Z",
		"1/1/2015 6:00:00 AM",
	} {
		ts, err := pdm.ParseTime(field, pdm.AlignHourly)
		if err != nil {
			t.Fatalf("parsing %q: %v", field, err)
		}
		want := time.Date(2015, 1, 1, 6, 0, 0, 0, time.UTC)
		if !ts.Equal(want) {
			t.Fatalf("parsing %q: got %v, want %v", field, ts, want)
		}
	}
	if _, err := pdm.ParseTime("not-a-time", pdm.AlignHourly); err == nil {
		t.Fatalf("garbage timestamp should fail")
	}
}

func TestParseNumeric(t *testing.T) {
	if v, err := pdm.ParseInt("42"); err != nil || v != 42 {
		t.Fatalf("ParseInt: %v %v", v, err)
	}
	if _, err := pdm.ParseInt("4.2"); err == nil {
		t.Fatalf("float text should not parse as int")
	}
	if v, err := pdm.ParseFloat("176.21"); err != nil || v != 176.21 {
		t.Fatalf("ParseFloat: %v %v", v, err)
	}
	if _, err := pdm.ParseFloat("high"); err == nil {
		t.Fatalf("text should not parse as float")
	}
}
