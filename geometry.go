// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viewer

import (
	"github.com/bits-and-blooms/bitset"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Geometry in this package uses screen coordinates: y grows downwards, so
// a rect.Rect's LLx/LLy hold the left/top edge and URx/URy the right/bottom
// edge. All bounds are closed; touching edges count as overlapping.

// PageRect is the on-screen rectangle of a rendered page.
type PageRect struct {
	Index  int
	Bounds rect.Rect
}

// Region builds a rectangle from its top-left corner and size.
func Region(left, top, width, height float64) rect.Rect {
	return rect.Rect{LLx: left, LLy: top, URx: left + width, URy: top + height}
}

// Contains reports whether p lies inside r, edges included.
func Contains(r rect.Rect, p vec.Vec2) bool {
	return p.X >= r.LLx && p.X <= r.URx && p.Y >= r.LLy && p.Y <= r.URy
}

// Intersects reports whether a and b overlap, edges included.
func Intersects(a, b rect.Rect) bool {
	return a.LLx <= b.URx && b.LLx <= a.URx && a.LLy <= b.URy && b.LLy <= a.URy
}

// PageAtPoint returns the index of the page containing p. Points outside
// outer are rejected without looking at the pages. Pages are scanned from
// last to first so the page rendered on top wins where pages overlap.
func PageAtPoint(outer rect.Rect, pages []PageRect, p vec.Vec2) (int, bool) {
	if !Contains(outer, p) {
		return 0, false
	}
	for i := len(pages) - 1; i >= 0; i-- {
		if Contains(pages[i].Bounds, p) {
			return pages[i].Index, true
		}
	}
	return 0, false
}

// VisiblePages returns the set of page indices whose rectangle intersects
// viewport.
func VisiblePages(viewport rect.Rect, pages []PageRect) *bitset.BitSet {
	visible := bitset.New(uint(len(pages)))
	for _, pg := range pages {
		if pg.Index < 0 {
			continue
		}
		if Intersects(viewport, pg.Bounds) {
			visible.Set(uint(pg.Index))
		}
	}
	return visible
}
