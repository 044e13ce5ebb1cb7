// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viewer

import "math"

// ZoomTransform maps pixel measurements between the document's maximum
// zoom level and ZoomLevel. Each zoom level doubles the image size, so the
// scale factor is 2^(MaxZoomLevel-ZoomLevel). Coordinates and sizes are
// translated the same way.
type ZoomTransform struct {
	MaxZoomLevel int
	ZoomLevel    int
}

// ToMaxZoom translates a measurement at ZoomLevel to the maximum zoom level.
//
// For example a box 125 pixels wide at zoom 2 of 5 is 1000 pixels wide at
// zoom 5.
func (t ZoomTransform) ToMaxZoom(value float64) float64 {
	diff := t.MaxZoomLevel - t.ZoomLevel
	// already on the max zoom level
	if diff == 0 {
		return value
	}
	return math.Ldexp(value, diff)
}

// FromMaxZoom translates a measurement at the maximum zoom level to ZoomLevel.
func (t ZoomTransform) FromMaxZoom(value float64) float64 {
	return math.Ldexp(value, -(t.MaxZoomLevel - t.ZoomLevel))
}
