// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viewer

// LocatorKind says how a Locator addresses a page.
type LocatorKind int

const (
	LocateByFilename LocatorKind = iota
	LocateByNumber               // 1-based
	LocateByIndex                // 0-based
)

// Locator identifies a page by filename, page number or page index.
type Locator struct {
	Kind     LocatorKind
	Filename string
	N        int
}

func ByFilename(filename string) Locator { return Locator{Kind: LocateByFilename, Filename: filename} }
func ByNumber(number int) Locator        { return Locator{Kind: LocateByNumber, N: number} }
func ByIndex(index int) Locator          { return Locator{Kind: LocateByIndex, N: index} }

// Resolve returns the 0-based page index loc refers to in m, or -1 if it
// does not resolve. Callers must treat -1 as "no change", never as page 0.
func Resolve(m *Manifest, loc Locator) int {
	if m == nil {
		return -1
	}
	var index int
	switch loc.Kind {
	case LocateByFilename:
		return PageIndex(m, loc.Filename)
	case LocateByNumber:
		index = loc.N - 1
	case LocateByIndex:
		index = loc.N
	default:
		return -1
	}
	if !m.IsPageValid(index) {
		return -1
	}
	return index
}

// PageIndex returns the index of the first page named filename, or -1.
// Filenames are not required to be unique; the first match wins.
func PageIndex(m *Manifest, filename string) int {
	for i, p := range m.Pages {
		if p.Filename == filename {
			return i
		}
	}
	return -1
}

// ResolveEither resolves a page from a filename and a page number taken
// from the same record. The filename always takes priority; the number is
// only consulted when the filename is absent or does not match.
func ResolveEither(m *Manifest, filename Option[string], number Option[int]) int {
	if f, ok := filename.Get(); ok {
		if idx := Resolve(m, ByFilename(f)); idx >= 0 {
			return idx
		}
	}
	if n, ok := number.Get(); ok {
		return Resolve(m, ByNumber(n))
	}
	return -1
}
