// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

func TestRegion(t *testing.T) {
	assert.Equal(t, rect.Rect{LLx: 10, LLy: 20, URx: 40, URy: 60}, Region(10, 20, 30, 40))
}

func TestContains(t *testing.T) {
	r := Region(0, 0, 100, 50)

	tests := []struct {
		name string
		p    vec.Vec2
		want bool
	}{
		{name: "inside", p: vec.Vec2{X: 10, Y: 10}, want: true},
		{name: "top-left corner", p: vec.Vec2{X: 0, Y: 0}, want: true},
		{name: "bottom-right corner", p: vec.Vec2{X: 100, Y: 50}, want: true},
		{name: "right of", p: vec.Vec2{X: 100.5, Y: 10}, want: false},
		{name: "above", p: vec.Vec2{X: 10, Y: -1}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contains(r, tt.p))
		})
	}
}

func TestIntersects(t *testing.T) {
	a := Region(0, 0, 100, 100)

	tests := []struct {
		name string
		b    rect.Rect
		want bool
	}{
		{name: "overlap", b: Region(50, 50, 100, 100), want: true},
		{name: "contained", b: Region(10, 10, 5, 5), want: true},
		{name: "containing", b: Region(-10, -10, 200, 200), want: true},
		{name: "touching edge", b: Region(100, 0, 10, 10), want: true},
		{name: "touching corner", b: Region(100, 100, 10, 10), want: true},
		{name: "left of", b: Region(-20, 0, 10, 10), want: false},
		{name: "below", b: Region(0, 101, 10, 10), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Intersects(a, tt.b))
			assert.Equal(t, tt.want, Intersects(tt.b, a), "symmetric")
		})
	}
}

func TestPageAtPoint(t *testing.T) {
	outer := Region(0, 0, 500, 500)
	pages := []PageRect{
		{Index: 0, Bounds: Region(0, 0, 200, 200)},
		{Index: 1, Bounds: Region(150, 150, 200, 200)},
		{Index: 2, Bounds: Region(600, 0, 100, 100)},
	}

	tests := []struct {
		name   string
		p      vec.Vec2
		want   int
		wantOK bool
	}{
		{name: "single page", p: vec.Vec2{X: 10, Y: 10}, want: 0, wantOK: true},
		{name: "overlap goes to later page", p: vec.Vec2{X: 175, Y: 175}, want: 1, wantOK: true},
		{name: "gap", p: vec.Vec2{X: 400, Y: 50}, wantOK: false},
		{name: "outside viewer", p: vec.Vec2{X: 650, Y: 50}, wantOK: false},
		{name: "edge of page", p: vec.Vec2{X: 200, Y: 100}, want: 0, wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PageAtPoint(outer, pages, tt.p)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestVisiblePages(t *testing.T) {
	viewport := Region(0, 1000, 800, 600)
	pages := []PageRect{
		{Index: 0, Bounds: Region(0, 0, 800, 500)},
		{Index: 1, Bounds: Region(0, 510, 800, 500)},
		{Index: 2, Bounds: Region(0, 1020, 800, 500)},
		{Index: 3, Bounds: Region(0, 1530, 800, 500)},
		{Index: 4, Bounds: Region(0, 2040, 800, 500)},
	}

	set := VisiblePages(viewport, pages)
	assert.Equal(t, uint(3), set.Count())
	assert.False(t, set.Test(0))
	assert.True(t, set.Test(1))
	assert.True(t, set.Test(2))
	assert.True(t, set.Test(3))
	assert.False(t, set.Test(4))

	assert.Equal(t, uint(0), VisiblePages(viewport, nil).Count())
}
