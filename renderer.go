// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viewer

import (
	"net/url"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Renderer is the layout and drawing engine a Session drives. The Session
// calls it while holding its own lock, so implementations must not call
// back into the Session synchronously.
type Renderer interface {
	// Reload tears down the current rendering and lays the document out
	// again from s.
	Reload(s Settings)
	// Goto scrolls so that the page is shown at the given offsets.
	Goto(pageIndex int, xOffset, yOffset float64)
	// Offset returns the scroll offsets that align the page with the
	// viewer according to the anchors.
	Offset(pageIndex int, xAnchor, yAnchor Anchor) vec.Vec2
	// ScrollOffset returns the viewer's current horizontal and vertical
	// scroll position.
	ScrollOffset() vec.Vec2
	// PageToViewportCenterOffset returns the offset between a page and the
	// center of the viewport, if the page is laid out.
	PageToViewportCenterOffset(pageIndex int) (vec.Vec2, bool)
	// PageOffset returns the top-left corner of a page in document
	// coordinates.
	PageOffset(pageIndex int) (vec.Vec2, bool)
	// PageDimensions returns the laid-out size of a page in the grid.
	PageDimensions(pageIndex int) Dimensions
	IsPageLoaded(pageIndex int) bool
	Geometry() Snapshot

	ShowError(lines []string)
	ShowThrobber(visible bool)
	Clear()
}

// Snapshot is the renderer's geometry at one point in time.
type Snapshot struct {
	// Outer is the viewer's bounds on screen.
	Outer rect.Rect
	// Viewport is the visible part of the document, in document
	// coordinates.
	Viewport rect.Rect
	// Pages holds the on-screen rectangle of every rendered page, in
	// rendering order.
	Pages []PageRect
}

// Location supplies the URL the viewer is embedded in.
type Location interface {
	URL() *url.URL
}

// LocationFunc adapts a function to Location.
type LocationFunc func() *url.URL

func (f LocationFunc) URL() *url.URL { return f() }
