// Package dimen implements font dimensions and their units.
//
/*
BSD License

Copyright (c) 2017–24, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/npillmayer/fontregions/core"
)

// Dimen is a dimension type.
// Values are in scaled big points (different from TeX).
type Dimen int32

// Some pre-defined dimensions
const (
	Zero Dimen = 0
	SP   Dimen = 1       // scaled point = BP / 65536
	BP   Dimen = 65536   // big point (PDF) = 1/72 inch
	PX   Dimen = 65536   // "pixels"
	PT   Dimen = 65291   // printers point 1/72.27 inch
	MM   Dimen = 185771  // millimeters
	IN   Dimen = 4718592 // inch
)

// Stringer implementation.
func (d Dimen) String() string {
	return strconv.FormatFloat(d.Points(), 'f', -1, 64) + "bp"
}

// Points returns a dimension in big (PDF) points, which content pipelines
// treat as pixels.
func (d Dimen) Points() float64 {
	return float64(d) / float64(BP)
}

// ---------------------------------------------------------------------------

var dimenPattern = regexp.MustCompile(`^([+\-]?[0-9]+(?:\.[0-9]+)?)([a-z]{2})?$`)

// ParseDimen parses a string to return a dimension, e.g. "16", "10.5pt" or
// "4mm". Numbers without a unit are big points.
func ParseDimen(s string) (Dimen, error) {
	d := dimenPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if len(d) < 2 {
		return 0, core.Error(core.EINVALID, "format error parsing dimension %q", s)
	}
	scale := BP
	switch d[2] {
	case "pt":
		scale = PT
	case "mm":
		scale = MM
	case "bp", "px", "":
		scale = BP
	case "in":
		scale = IN
	case "sp":
		scale = SP
	default:
		return 0, core.Error(core.EINVALID, "unknown unit %q in dimension %q", d[2], s)
	}
	n, err := strconv.ParseFloat(d[1], 64)
	if err != nil {
		return 0, core.WrapError(err, core.EINVALID, "format error parsing dimension %q", s)
	}
	v := math.Round(n * float64(scale))
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, core.Error(core.EINVALID, "dimension %q out of range", s)
	}
	return Dimen(v), nil
}

// Value is a flag.Value for dimensions.
type Value struct {
	D Dimen
}

func (v *Value) String() string {
	if v == nil {
		return ""
	}
	return v.D.String()
}

// Set parses a dimension, see ParseDimen.
func (v *Value) Set(s string) error {
	d, err := ParseDimen(s)
	if err != nil {
		return err
	}
	v.D = d
	return nil
}
