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
	"regexp"
	"strconv"
	"strings"

	"github.com/consensys/bedrock/pkg/value"
)

// backref matches a backreference token ($1, $2, ...) within a replacement
// template.
var backref = regexp.MustCompile(`\$(\d+)`)

// RegexSpec transforms the value of a source column through a regular
// expression.  It runs in one of two modes, selected by the shape of the
// replacement template:
//
// Extraction mode applies when the template consists only of backreference
// tokens, optionally interleaved with separator text (whitespace or
// punctuation).  A single match is executed and the result is the template
// with each $n substituted by the n-th captured group.  Characters of the
// source outside the captured groups are never included.
//
// Replacement mode applies otherwise: standard find-and-replace over the
// whole source string, honouring the global flag.
type RegexSpec struct {
	// Source column whose value is transformed.
	Source string
	// Pattern is the regular expression applied to the source value.
	Pattern string
	// Replacement template, which may include $n backreferences.
	Replacement string
	// Flags is a subset of "gim" (global, case-insensitive, multiline).
	Flags string
}

// Validate compiles the pattern and checks the flags, reporting
// INVALID_PATTERN on failure.  Patterns must be validated before save so
// that evaluation never encounters an uncompilable expression.
func (r *RegexSpec) Validate() error {
	for _, f := range r.Flags {
		if f != 'g' && f != 'i' && f != 'm' {
			return Validationf(INVALID_PATTERN, "unsupported flag %q", string(f))
		}
	}
	//
	if _, err := r.compile(); err != nil {
		return Validationf(INVALID_PATTERN, "%v", err)
	}
	//
	return nil
}

// References returns the single source column this transform reads.
func (r *RegexSpec) References() []string {
	return []string{r.Source}
}

// Eval applies this transform to the current row.  A null source value
// produces a null result.  Pattern compilation cannot fail here provided the
// spec was validated at configuration time.
func (r *RegexSpec) Eval(env Env) (value.Value, *ComputationError) {
	v, ok := env.Lookup(r.Source)
	if !ok || v.IsNull() {
		return value.Null(), nil
	}
	//
	re, err := r.compile()
	if err != nil {
		// Unreachable when the pattern was validated at configuration time.
		return value.Null(), nil
	}
	//
	src := v.AsText()
	//
	if r.isExtraction() {
		return value.Text(r.extract(re, src)), nil
	}
	//
	return value.Text(r.replace(re, src)), nil
}

// Compile the pattern, folding the case-insensitive and multiline flags into
// inline flag groups.
func (r *RegexSpec) compile() (*regexp.Regexp, error) {
	var prefix string
	//
	if strings.ContainsRune(r.Flags, 'i') {
		prefix += "(?i)"
	}
	//
	if strings.ContainsRune(r.Flags, 'm') {
		prefix += "(?m)"
	}
	//
	return regexp.Compile(prefix + r.Pattern)
}

// Determine whether the replacement template triggers extraction mode: it
// must contain at least one backreference, and stripping all backreferences
// must leave no letters or digits (i.e. only separator text).
func (r *RegexSpec) isExtraction() bool {
	if !backref.MatchString(r.Replacement) {
		return false
	}
	//
	rest := backref.ReplaceAllString(r.Replacement, "")
	//
	for _, c := range rest {
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			return false
		}
	}
	//
	return true
}

// Extraction mode: execute a single match and substitute each $n token with
// the corresponding captured group.  Groups which did not participate in the
// match substitute as the empty string, and an unmatched pattern yields the
// empty string outright.
func (r *RegexSpec) extract(re *regexp.Regexp, src string) string {
	groups := re.FindStringSubmatch(src)
	if groups == nil {
		return ""
	}
	//
	return backref.ReplaceAllStringFunc(r.Replacement, func(tok string) string {
		n, _ := strconv.Atoi(tok[1:])
		if n < len(groups) {
			return groups[n]
		}
		//
		return ""
	})
}

// Replacement mode: find-and-replace over the full source string.  Without
// the global flag only the first occurrence is replaced.  An unmatched
// pattern returns the source unchanged.
func (r *RegexSpec) replace(re *regexp.Regexp, src string) string {
	// Rewrite $n tokens as ${n} so that a backreference followed by a word
	// character is not misread as a longer group name.
	tmpl := backref.ReplaceAllStringFunc(r.Replacement, func(tok string) string {
		return "${" + tok[1:] + "}"
	})
	//
	if strings.ContainsRune(r.Flags, 'g') {
		return re.ReplaceAllString(src, tmpl)
	}
	//
	loc := re.FindStringIndex(src)
	if loc == nil {
		return src
	}
	//
	return src[:loc[0]] + re.ReplaceAllString(src[loc[0]:loc[1]], tmpl) + src[loc[1]:]
}
