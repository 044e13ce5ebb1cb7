// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viewer

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/vec"
)

// HashKey is a short key of the URL fragment state.
type HashKey string

const (
	KeyFullscreen  HashKey = "f"
	KeyView        HashKey = "v"
	KeyZoom        HashKey = "z"
	KeyPagesPerRow HashKey = "n"
	KeyFilename    HashKey = "i"
	KeyPageNumber  HashKey = "p"
	KeyYOffset     HashKey = "y"
	KeyXOffset     HashKey = "x"
)

// hashKeys is the order keys are written in.
var hashKeys = [...]HashKey{KeyFullscreen, KeyView, KeyZoom, KeyPagesPerRow, KeyFilename, KeyPageNumber, KeyYOffset, KeyXOffset}

var numericKeys = [...]HashKey{KeyZoom, KeyPagesPerRow, KeyPageNumber, KeyXOffset, KeyYOffset}

type valueKind int

const (
	kindBool valueKind = iota
	kindNumber
	kindString
)

// HashValue is a primitive value of a HashState: a boolean, a number or a
// string. The boolean false doubles as "absent" and is never serialized.
type HashValue struct {
	kind valueKind
	b    bool
	n    float64
	s    string
}

func BoolValue(b bool) HashValue       { return HashValue{kind: kindBool, b: b} }
func NumberValue(n float64) HashValue  { return HashValue{kind: kindNumber, n: n} }
func StringValue(s string) HashValue   { return HashValue{kind: kindString, s: s} }
func (v HashValue) IsAbsent() bool     { return v.kind == kindBool && !v.b }
func (v HashValue) Bool() (bool, bool) { return v.b, v.kind == kindBool }

// Number returns the numeric value. Unparsable numeric fields hold NaN.
func (v HashValue) Number() (float64, bool) {
	return v.n, v.kind == kindNumber
}

func (v HashValue) Str() (string, bool) {
	return v.s, v.kind == kindString
}

func (v HashValue) String() string {
	switch v.kind {
	case kindBool:
		return strconv.FormatBool(v.b)
	case kindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	}
	return v.s
}

// truthy follows the loose truth rules of the fragment format: empty
// strings, zero and NaN are false.
func (v HashValue) truthy() bool {
	switch v.kind {
	case kindBool:
		return v.b
	case kindNumber:
		return v.n != 0 && !math.IsNaN(v.n)
	}
	return v.s != ""
}

// HashState is a point-in-time snapshot of a session as stored in a URL
// fragment.
type HashState map[HashKey]HashValue

// EncodeState captures s as a HashState. The current page is written as a
// filename (i) when EnableFilename is set and as a 1-based number (p)
// otherwise. centerOffset is the page's offset from the viewport center as
// reported by the renderer.
func EncodeState(s Settings, m *Manifest, centerOffset Option[vec.Vec2]) HashState {
	h := HashState{
		KeyFullscreen:  BoolValue(s.InFullscreen),
		KeyView:        StringValue(viewCode(s.ViewMode())),
		KeyZoom:        NumberValue(float64(s.ZoomLevel)),
		KeyPagesPerRow: NumberValue(float64(s.PagesPerRow)),
		KeyFilename:    BoolValue(false),
		KeyPageNumber:  BoolValue(false),
		KeyYOffset:     BoolValue(false),
		KeyXOffset:     BoolValue(false),
	}
	if s.EnableFilename {
		if m != nil {
			if name, err := m.FilenameOf(s.CurrentPageIndex); err == nil {
				h[KeyFilename] = StringValue(name)
			}
		}
	} else {
		h[KeyPageNumber] = NumberValue(float64(s.CurrentPageIndex + 1))
	}
	if off, ok := centerOffset.Get(); ok {
		h[KeyYOffset] = NumberValue(off.Y)
		h[KeyXOffset] = NumberValue(off.X)
	}
	return h
}

// Format serializes h as key=value pairs joined by '&'. suffix is appended
// to every key so several viewers can share one fragment. Absent values
// are skipped.
func (h HashState) Format(suffix string) string {
	var parts []string
	for _, k := range hashKeys {
		v, ok := h[k]
		if !ok || v.IsAbsent() {
			continue
		}
		parts = append(parts, string(k)+suffix+"="+encodeComponent(v.String()))
	}
	return strings.Join(parts, "&")
}

// ParseHash reads the state keys carrying suffix out of a URL fragment.
// The literal strings "true" and "false" in f become booleans; any other f
// is kept as a string. z, n, p, x and y are parsed as integers and hold NaN
// when they are not numeric.
func ParseHash(fragment, suffix string) HashState {
	params := splitFragment(fragment)
	h := HashState{}
	for _, k := range hashKeys {
		raw, ok := params[string(k)+suffix]
		if !ok {
			continue
		}
		h[k] = StringValue(raw)
	}

	if v, ok := h[KeyFullscreen]; ok {
		switch v.s {
		case "true":
			h[KeyFullscreen] = BoolValue(true)
		case "false":
			h[KeyFullscreen] = BoolValue(false)
		}
	}
	for _, k := range numericKeys {
		if v, ok := h[k]; ok {
			n, ok := parseLeadingInt(v.s)
			if !ok {
				h[k] = NumberValue(math.NaN())
				continue
			}
			h[k] = NumberValue(float64(n))
		}
	}
	return h
}

// DecodeState turns h into load options for m. Malformed or missing
// fields are left out; decoding never fails. The page is taken from the
// filename (i) first and the page number (p) second. When neither
// resolves, no page or scroll offset is set so the current page is kept.
func DecodeState(h HashState, m *Manifest) LoadOptions {
	var o LoadOptions

	if v, ok := h[KeyView]; ok {
		if code, ok := v.Str(); ok {
			if mode, ok := viewFromCode(code); ok {
				o = hashViewOptions(mode)
			}
		}
	}
	if v, ok := h[KeyFullscreen]; ok {
		o.InFullscreen = Some(v.truthy())
	}
	o.ZoomLevel = h.intField(KeyZoom)
	o.PagesPerRow = h.intField(KeyPagesPerRow)

	var filename Option[string]
	if v, ok := h[KeyFilename]; ok {
		if s, ok := v.Str(); ok {
			filename = Some(s)
		}
	}
	if idx := ResolveEither(m, filename, h.intField(KeyPageNumber)); idx >= 0 {
		o.GoDirectlyTo = Some(idx)
		o.HorizontalOffset = h.offsetField(KeyXOffset)
		o.VerticalOffset = h.offsetField(KeyYOffset)
	}
	return o
}

func (h HashState) intField(k HashKey) Option[int] {
	v, ok := h[k]
	if !ok {
		return None[int]()
	}
	switch v.kind {
	case kindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) || v.n != math.Trunc(v.n) {
			return None[int]()
		}
		return Some(int(v.n))
	case kindString:
		if n, ok := parseLeadingInt(v.s); ok {
			return Some(n)
		}
	}
	return None[int]()
}

// offsetField reads a scroll offset, dropping any fractional part.
func (h HashState) offsetField(k HashKey) Option[float64] {
	v, ok := h[k]
	if !ok {
		return None[float64]()
	}
	switch v.kind {
	case kindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return None[float64]()
		}
		return Some(math.Trunc(v.n))
	case kindString:
		if n, ok := parseLeadingInt(v.s); ok {
			return Some(float64(n))
		}
	}
	return None[float64]()
}

func viewCode(mode ViewMode) string {
	switch mode {
	case GridView:
		return "g"
	case BookView:
		return "b"
	}
	return "d"
}

func viewFromCode(code string) (ViewMode, bool) {
	switch code {
	case "d":
		return DocumentView, true
	case "b":
		return BookView, true
	case "g":
		return GridView, true
	}
	return 0, false
}

// hashViewOptions differs from ViewOptions for the grid: a fragment fully
// describes the layout, so the book flag is cleared too.
func hashViewOptions(mode ViewMode) LoadOptions {
	if mode == GridView {
		return LoadOptions{InGrid: Some(true), InBookLayout: Some(false)}
	}
	return ViewOptions(mode)
}

// splitFragment splits a fragment into its parameters. The first
// occurrence of a key wins.
func splitFragment(fragment string) map[string]string {
	fragment = strings.TrimPrefix(fragment, "#")
	params := make(map[string]string)
	if fragment == "" {
		return params
	}
	for _, part := range strings.Split(fragment, "&") {
		key, value, found := strings.Cut(part, "=")
		if !found || key == "" {
			continue
		}
		if _, seen := params[key]; seen {
			continue
		}
		if dec, err := url.PathUnescape(value); err == nil {
			value = dec
		}
		params[key] = value
	}
	return params
}

// componentUnescaper restores the characters QueryEscape encodes but that
// are left as is in fragment values.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent percent-encodes s for use in a fragment value. Spaces
// become %20, not '+', and !'()* stay literal.
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// parseLeadingInt parses the integer at the start of s, ignoring leading
// whitespace and anything after the digits ("12px" is 12).
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
