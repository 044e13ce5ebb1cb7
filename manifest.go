// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viewer

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Dimensions is the pixel size of a page image at one zoom level.
type Dimensions struct {
	Width  float64 `json:"w" validate:"gte=0"`
	Height float64 `json:"h" validate:"gte=0"`
}

// Page is a single image in a Manifest.
type Page struct {
	Filename string `validate:"required"`
	// DimensionsByZoom is indexed by zoom level; index 0 is the most zoomed out.
	DimensionsByZoom []Dimensions `validate:"min=1,dive"`
	MaxZoomLevel     int          `validate:"gte=0"`
}

// Manifest is an already-parsed description of a document's pages.
// The viewer treats it as read-only.
type Manifest struct {
	ItemTitle string
	Pages     []Page `validate:"min=1,dive"`
}

// Validate checks the page records and that every page's MaxZoomLevel
// indexes its last dimension entry.
func (m *Manifest) Validate() error {
	if err := validator.New().Struct(m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	for i, p := range m.Pages {
		if p.MaxZoomLevel != len(p.DimensionsByZoom)-1 {
			return fmt.Errorf("%w: page %d has max zoom %d but %d zoom levels",
				ErrInvalidManifest, i, p.MaxZoomLevel, len(p.DimensionsByZoom))
		}
	}
	return nil
}

// PageCount returns the number of pages.
func (m *Manifest) PageCount() int {
	return len(m.Pages)
}

// IsPageValid reports whether index addresses an existing page.
func (m *Manifest) IsPageValid(index int) bool {
	return index >= 0 && index < len(m.Pages)
}

// FilenameOf returns the filename of the page at index.
func (m *Manifest) FilenameOf(index int) (string, error) {
	if !m.IsPageValid(index) {
		return "", fmt.Errorf("page index %d: %w", index, ErrNotFound)
	}
	return m.Pages[index].Filename, nil
}

// Filenames returns the filenames of all pages in order.
func (m *Manifest) Filenames() []string {
	out := make([]string, len(m.Pages))
	for i, p := range m.Pages {
		out[i] = p.Filename
	}
	return out
}

// MaxZoomLevelOf returns the maximum zoom level of the page at index.
func (m *Manifest) MaxZoomLevelOf(index int) (int, error) {
	if !m.IsPageValid(index) {
		return 0, fmt.Errorf("page index %d: %w", index, ErrNotFound)
	}
	return m.Pages[index].MaxZoomLevel, nil
}

// MaxZoomLevel returns the largest MaxZoomLevel over all pages, or -1 for
// an empty manifest.
func (m *Manifest) MaxZoomLevel() int {
	maxZoom := -1
	for _, p := range m.Pages {
		if p.MaxZoomLevel > maxZoom {
			maxZoom = p.MaxZoomLevel
		}
	}
	return maxZoom
}

// DimensionsAt returns the dimensions of a page at zoomLevel. It does not
// clamp: a zoom level beyond the page's maximum is an error.
func (m *Manifest) DimensionsAt(index, zoomLevel int) (Dimensions, error) {
	if !m.IsPageValid(index) {
		return Dimensions{}, fmt.Errorf("page index %d: %w", index, ErrNotFound)
	}
	p := m.Pages[index]
	if zoomLevel < 0 || zoomLevel > p.MaxZoomLevel || zoomLevel >= len(p.DimensionsByZoom) {
		return Dimensions{}, fmt.Errorf("page %d zoom %d (max %d): %w", index, zoomLevel, p.MaxZoomLevel, ErrOutOfRange)
	}
	return p.DimensionsByZoom[zoomLevel], nil
}
