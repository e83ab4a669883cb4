// Copyright 2017 Pilosa Corp.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its
// contributors may be used to endorse or promote products derived
// from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND
// CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES,
// INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR
// CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING,
// BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY,
// WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
// NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH
// DAMAGE.

package pdm

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// TimeLayouts are the accepted timestamp layouts, tried in order.
var TimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006 3:04:05 PM",
}

// ParseInt parses an integer field.
func ParseInt(field string) (int64, error) {
	v, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing int %q", field)
	}
	return v, nil
}

// ParseFloat parses a float field.
func ParseFloat(field string) (float64, error) {
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing float %q", field)
	}
	return v, nil
}

// ParseTime parses a timestamp field, trying each layout in TimeLayouts.
// Timestamps are interpreted as UTC. If align is AlignHourly the result is
// rounded to the nearest hour, matching the upstream collection convention.
func ParseTime(field string, align Granularity) (time.Time, error) {
	var ts time.Time
	var err error
	for _, layout := range TimeLayouts {
		ts, err = time.ParseInLocation(layout, field, time.UTC)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, errors.Errorf("parsing time %q: no layout matched", field)
	}
	if align == AlignHourly {
		ts = ts.Round(time.Hour)
	}
	return ts, nil
}

// HourAligned reports whether ts sits on an hour boundary.
func HourAligned(ts time.Time) bool {
	return ts.Equal(ts.Truncate(time.Hour))
}
