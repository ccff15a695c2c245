// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package calc

import (
	"strings"
	"time"

	"github.com/consensys/bedrock/pkg/value"
	"github.com/dustin/go-humanize"
)

// DateFormat enumerates the output templates available to a date conversion.
type DateFormat string

const (
	// FORMAT_DMY renders as day/month/year, e.g. 31/12/2024.
	FORMAT_DMY DateFormat = "DD/MM/YYYY"
	// FORMAT_MDY renders as month/day/year, e.g. 12/31/2024.
	FORMAT_MDY DateFormat = "MM/DD/YYYY"
	// FORMAT_YMD renders as year-month-day, e.g. 2024-12-31.
	FORMAT_YMD DateFormat = "YYYY-MM-DD"
	// FORMAT_LONG_DMY renders as e.g. "31 December 2024".
	FORMAT_LONG_DMY DateFormat = "DD MMMM YYYY"
	// FORMAT_LONG_MDY renders as e.g. "December 31, 2024".
	FORMAT_LONG_MDY DateFormat = "MMMM DD, YYYY"
	// FORMAT_RELATIVE renders human-relative to now, e.g. "3 days ago".
	FORMAT_RELATIVE DateFormat = "Relative"
	// FORMAT_ISO8601 renders as RFC3339, e.g. 2024-12-31T23:59:59Z.
	FORMAT_ISO8601 DateFormat = "ISO8601"
	// FORMAT_CUSTOM renders using an admin-supplied token pattern.
	FORMAT_CUSTOM DateFormat = "Custom"
)

// Translate admin-facing date tokens into a Go layout string.  Longer tokens
// are listed first so that e.g. MMMM is not consumed as two MMs.
var customTokens = strings.NewReplacer(
	"YYYY", "2006",
	"YY", "06",
	"MMMM", "January",
	"MMM", "Jan",
	"MM", "01",
	"DD", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
)

// DateFormatSpec converts a date (or parseable date string) into a display
// string under one of the enumerated output templates.  Formatting failures
// are always local: an unparseable source yields null with an INVALID_DATE
// diagnostic rather than aborting the row.
type DateFormatSpec struct {
	// Source column whose value is formatted.
	Source string
	// Format selects the output template.
	Format DateFormat
	// Custom holds the token pattern when Format is FORMAT_CUSTOM.
	Custom string
}

// Validate checks the output template is one of the enumerated formats, and
// that a custom pattern is supplied when (and only when) required.
func (d *DateFormatSpec) Validate() error {
	switch d.Format {
	case FORMAT_DMY, FORMAT_MDY, FORMAT_YMD, FORMAT_LONG_DMY, FORMAT_LONG_MDY, FORMAT_RELATIVE, FORMAT_ISO8601:
		return nil
	case FORMAT_CUSTOM:
		if d.Custom == "" {
			return Validationf(INVALID_SPEC, "custom date format requires a pattern")
		}
		//
		return nil
	default:
		return Validationf(INVALID_SPEC, "unknown date format %q", d.Format)
	}
}

// References returns the single source column this conversion reads.
func (d *DateFormatSpec) References() []string {
	return []string{d.Source}
}

// Eval formats the source value for the current row.
func (d *DateFormatSpec) Eval(env Env) (value.Value, *ComputationError) {
	v, ok := env.Lookup(d.Source)
	if !ok || v.IsNull() {
		return value.Null(), nil
	}
	//
	t, err := v.AsDate()
	if err != nil {
		return value.Null(), Computationf(INVALID_DATE, d.Source, "cannot parse %q as a date", v.AsText())
	}
	//
	switch d.Format {
	case FORMAT_DMY:
		return value.Text(t.Format("02/01/2006")), nil
	case FORMAT_MDY:
		return value.Text(t.Format("01/02/2006")), nil
	case FORMAT_YMD:
		return value.Text(t.Format("2006-01-02")), nil
	case FORMAT_LONG_DMY:
		return value.Text(t.Format("02 January 2006")), nil
	case FORMAT_LONG_MDY:
		return value.Text(t.Format("January 02, 2006")), nil
	case FORMAT_RELATIVE:
		return value.Text(humanize.Time(t)), nil
	case FORMAT_ISO8601:
		return value.Text(t.Format(time.RFC3339)), nil
	default:
		return value.Text(t.Format(customTokens.Replace(d.Custom))), nil
	}
}
