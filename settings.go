// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viewer

import (
	"fmt"
	"time"
)

// ViewMode is the page layout of a session.
type ViewMode int

const (
	DocumentView ViewMode = iota
	BookView
	GridView
)

func (v ViewMode) String() string {
	switch v {
	case DocumentView:
		return "document"
	case BookView:
		return "book"
	case GridView:
		return "grid"
	}
	return fmt.Sprintf("ViewMode(%d)", int(v))
}

// ParseViewMode accepts "document", "book" or "grid".
func ParseViewMode(s string) (ViewMode, bool) {
	switch s {
	case "document":
		return DocumentView, true
	case "book":
		return BookView, true
	case "grid":
		return GridView, true
	}
	return 0, false
}

// Anchor selects which edge of a page is aligned with the same edge of the
// viewer when jumping to it.
type Anchor int

const (
	AnchorCenter Anchor = iota
	AnchorStart         // left or top
	AnchorEnd           // right or bottom
)

// Settings is the live state of a session. It is owned by the Session and
// only changes through a reload; callers get copies.
type Settings struct {
	ID string

	InGrid             bool
	InBookLayout       bool
	InFullscreen       bool
	VerticallyOriented bool
	EnableFilename     bool

	ZoomLevel    int
	MinZoomLevel int
	MaxZoomLevel int

	PagesPerRow    int
	MinPagesPerRow int
	MaxPagesPerRow int

	CurrentPageIndex int
	NumPages         int

	// Scroll offsets to restore on the next render. They only live for one
	// reload.
	HorizontalOffset Option[float64]
	VerticalOffset   Option[float64]

	HashParamSuffix string
	PageLoadTimeout time.Duration
}

// ViewMode derives the layout from the grid and book flags. Grid wins; the
// book flag is kept underneath so leaving the grid returns to book layout.
func (s Settings) ViewMode() ViewMode {
	switch {
	case s.InGrid:
		return GridView
	case s.InBookLayout:
		return BookView
	}
	return DocumentView
}

// LoadOptions is a sparse set of changes to apply to Settings.
type LoadOptions struct {
	InGrid             Option[bool]
	InBookLayout       Option[bool]
	InFullscreen       Option[bool]
	VerticallyOriented Option[bool]

	ZoomLevel    Option[int]
	PagesPerRow  Option[int]
	GoDirectlyTo Option[int]

	HorizontalOffset Option[float64]
	VerticalOffset   Option[float64]
}

// ViewOptions returns the changes needed to switch to mode. Entering the
// grid leaves the book flag alone.
func ViewOptions(mode ViewMode) LoadOptions {
	switch mode {
	case DocumentView:
		return LoadOptions{InGrid: Some(false), InBookLayout: Some(false)}
	case BookView:
		return LoadOptions{InGrid: Some(false), InBookLayout: Some(true)}
	default:
		return LoadOptions{InGrid: Some(true)}
	}
}

// ViewMode reports the layout o selects, if it selects one completely.
func (o LoadOptions) ViewMode() (ViewMode, bool) {
	grid, ok := o.InGrid.Get()
	if !ok {
		return 0, false
	}
	if grid {
		return GridView, true
	}
	book, ok := o.InBookLayout.Get()
	if !ok {
		return 0, false
	}
	if book {
		return BookView, true
	}
	return DocumentView, true
}

// Merge returns o with every field set in over replacing the one in o.
func (o LoadOptions) Merge(over LoadOptions) LoadOptions {
	return LoadOptions{
		InGrid:             o.InGrid.Merge(over.InGrid),
		InBookLayout:       o.InBookLayout.Merge(over.InBookLayout),
		InFullscreen:       o.InFullscreen.Merge(over.InFullscreen),
		VerticallyOriented: o.VerticallyOriented.Merge(over.VerticallyOriented),
		ZoomLevel:          o.ZoomLevel.Merge(over.ZoomLevel),
		PagesPerRow:        o.PagesPerRow.Merge(over.PagesPerRow),
		GoDirectlyTo:       o.GoDirectlyTo.Merge(over.GoDirectlyTo),
		HorizontalOffset:   o.HorizontalOffset.Merge(over.HorizontalOffset),
		VerticalOffset:     o.VerticalOffset.Merge(over.VerticalOffset),
	}
}

// Apply returns s with o merged in. A value outside its allowed range is
// dropped, leaving the current setting, and reported in rejected.
func (s Settings) Apply(o LoadOptions) (next Settings, rejected []string) {
	next = s
	next.HorizontalOffset = o.HorizontalOffset
	next.VerticalOffset = o.VerticalOffset

	if v, ok := o.InGrid.Get(); ok {
		next.InGrid = v
	}
	if v, ok := o.InBookLayout.Get(); ok {
		next.InBookLayout = v
	}
	if v, ok := o.InFullscreen.Get(); ok {
		next.InFullscreen = v
	}
	if v, ok := o.VerticallyOriented.Get(); ok {
		next.VerticallyOriented = v
	}
	if v, ok := o.ZoomLevel.Get(); ok {
		if s.IsValidZoomLevel(v) {
			next.ZoomLevel = v
		} else {
			rejected = append(rejected, fmt.Sprintf("zoomLevel=%d", v))
		}
	}
	if v, ok := o.PagesPerRow.Get(); ok {
		if s.IsValidPagesPerRow(v) {
			next.PagesPerRow = v
		} else {
			rejected = append(rejected, fmt.Sprintf("pagesPerRow=%d", v))
		}
	}
	if v, ok := o.GoDirectlyTo.Get(); ok {
		if v >= 0 && v < s.NumPages {
			next.CurrentPageIndex = v
		} else {
			rejected = append(rejected, fmt.Sprintf("goDirectlyTo=%d", v))
		}
	}
	return next, rejected
}

// IsValidZoomLevel reports whether z is within [MinZoomLevel, MaxZoomLevel].
func (s Settings) IsValidZoomLevel(z int) bool {
	return z >= s.MinZoomLevel && z <= s.MaxZoomLevel
}

// IsValidPagesPerRow reports whether n is within [MinPagesPerRow, MaxPagesPerRow].
func (s Settings) IsValidPagesPerRow(n int) bool {
	return n >= s.MinPagesPerRow && n <= s.MaxPagesPerRow
}
