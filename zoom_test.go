// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoomTransform(t *testing.T) {
	tests := []struct {
		name    string
		tr      ZoomTransform
		value   float64
		wantMax float64
	}{
		{name: "three levels below max", tr: ZoomTransform{MaxZoomLevel: 5, ZoomLevel: 2}, value: 125, wantMax: 1000},
		{name: "one level below max", tr: ZoomTransform{MaxZoomLevel: 3, ZoomLevel: 2}, value: 7.5, wantMax: 15},
		{name: "at max", tr: ZoomTransform{MaxZoomLevel: 4, ZoomLevel: 4}, value: 33, wantMax: 33},
		{name: "negative offset", tr: ZoomTransform{MaxZoomLevel: 2, ZoomLevel: 0}, value: -10, wantMax: -40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMax, tt.tr.ToMaxZoom(tt.value))
			assert.Equal(t, tt.value, tt.tr.FromMaxZoom(tt.wantMax))
		})
	}
}

func TestZoomTransform_RoundTrip(t *testing.T) {
	for mx := 0; mx <= 6; mx++ {
		for z := 0; z <= mx; z++ {
			tr := ZoomTransform{MaxZoomLevel: mx, ZoomLevel: z}
			for _, v := range []float64{0, 1, 3.25, 640, -17} {
				assert.Equal(t, v, tr.FromMaxZoom(tr.ToMaxZoom(v)), "max=%d zoom=%d v=%v", mx, z, v)
			}
		}
	}
}
