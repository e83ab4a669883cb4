package s3_test

import (
	"testing"

	"github.com/fleetpdm/pdm/aws/s3"
)

func TestParseURL(t *testing.T) {
	bucket, key, err := s3.ParseURL("s3://fleet-raw/2015/telemetry.csv")
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	if bucket != "fleet-raw" || key != "2015/telemetry.csv" {
		t.Fatalf("wrong parse: bucket=%q key=%q", bucket, key)
	}

	for _, bad := range []string{
		"http://fleet-raw/telemetry.csv",
		"s3://fleet-raw",
		"s3://fleet-raw/",
		"s3:///telemetry.csv",
	} {
		if _, _, err := s3.ParseURL(bad); err == nil {
			t.Fatalf("%q should not parse", bad)
		}
	}
}
