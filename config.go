// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viewer

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sassoftware/viya-doc-viewer/logger"
)

type Config struct {
	// ID names the session; the Registry assigns one when empty.
	ID string

	// Exactly one manifest source is needed: a URL to fetch or a manifest
	// that is already parsed.
	ManifestURL string    `validate:"required_without=Manifest,excluded_with=Manifest"`
	Manifest    *Manifest `validate:"required_without=ManifestURL"`

	EnableFilename     bool // address pages by filename (i=) rather than number (p=)
	InFullscreen       bool
	InBookLayout       bool
	InGrid             bool
	VerticallyOriented bool
	GoDirectlyTo       int `validate:"gte=0"`

	ZoomLevel    int `validate:"gtefield=MinZoomLevel"`
	MinZoomLevel int `validate:"gte=0"`
	MaxZoomLevel int `validate:"gte=-1"` // -1 uses the manifest's maximum

	PagesPerRow    int `validate:"gtefield=MinPagesPerRow,ltefield=MaxPagesPerRow"`
	MinPagesPerRow int `validate:"min=1"`
	MaxPagesPerRow int `validate:"gtefield=MinPagesPerRow"`

	ThrobberTimeout time.Duration `validate:"gte=0"`
	PageLoadTimeout time.Duration `validate:"gte=0"`
	HashParamSuffix string        `validate:"excludesall=&=#"`

	// OriginHost is the host the viewer is served from. It is compared with
	// the manifest host to detect cross-origin failures; when empty the
	// host of the session Location is used.
	OriginHost           string
	MaxConcurrentFetches int           `validate:"min=1,max=10"`
	FetchTimeout         time.Duration `validate:"required"`

	DebugOn bool
	Logger  logger.LogFunc
}

func NewDefaultConfig() *Config {
	return &Config{
		EnableFilename:       true,
		VerticallyOriented:   true,
		ZoomLevel:            2,
		MinZoomLevel:         0,
		MaxZoomLevel:         -1,
		PagesPerRow:          5,
		MinPagesPerRow:       2,
		MaxPagesPerRow:       8,
		ThrobberTimeout:      100 * time.Millisecond,
		PageLoadTimeout:      200 * time.Millisecond,
		MaxConcurrentFetches: 2,
		FetchTimeout:         30 * time.Second,
		DebugOn:              false,
	}
}

func (cfg *Config) Validate() error {
	logger.Debug("Validating Config Object")
	validate := validator.New()
	return validate.Struct(cfg)
}
