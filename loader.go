// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viewer

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// ManifestParser turns a fetched document into a Manifest.
type ManifestParser interface {
	ParseManifest(data []byte) (*Manifest, error)
}

// ManifestParserFunc adapts a function to ManifestParser.
type ManifestParserFunc func(data []byte) (*Manifest, error)

func (f ManifestParserFunc) ParseManifest(data []byte) (*Manifest, error) {
	return f(data)
}

// Source is where a session gets its manifest from: a URL to fetch or a
// manifest already in memory.
type Source struct {
	URL      string
	Manifest *Manifest
}

func FromURL(u string) Source         { return Source{URL: u} }
func FromManifest(m *Manifest) Source { return Source{Manifest: m} }

func (s Source) String() string {
	if s.Manifest != nil {
		return fmt.Sprintf("manifest(%d pages)", s.Manifest.PageCount())
	}
	return s.URL
}

// legacyManifest is the flat JSON format produced by the image processing
// scripts.
type legacyManifest struct {
	ItemTitle string `json:"item_title"`
	Pages     []struct {
		Filename     string       `json:"f"`
		MaxZoomLevel int          `json:"m"`
		Dimensions   []Dimensions `json:"d"`
	} `json:"pgs"`
}

// ParseManifest decodes a manifest document and reports whether it was a
// IIIF manifest. IIIF documents are recognised by their @context and
// handed to iiif; everything else is read as the legacy format.
func ParseManifest(data []byte, iiif ManifestParser) (*Manifest, bool, error) {
	var probe struct {
		Context json.RawMessage `json:"@context"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	if isIIIFContext(probe.Context) {
		if iiif == nil {
			return nil, true, fmt.Errorf("%w: no IIIF parser configured", ErrUnsupportedManifest)
		}
		m, err := iiif.ParseManifest(data)
		if err != nil {
			return nil, true, fmt.Errorf("parse IIIF manifest: %w", err)
		}
		if err := m.Validate(); err != nil {
			return nil, true, err
		}
		return m, true, nil
	}

	var legacy legacyManifest
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	m := &Manifest{ItemTitle: legacy.ItemTitle, Pages: make([]Page, len(legacy.Pages))}
	for i, p := range legacy.Pages {
		m.Pages[i] = Page{
			Filename:         p.Filename,
			DimensionsByZoom: p.Dimensions,
			MaxZoomLevel:     p.MaxZoomLevel,
		}
	}
	if err := m.Validate(); err != nil {
		return nil, false, err
	}
	return m, false, nil
}

func isIIIFContext(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var contexts []string
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		contexts = []string{single}
	} else if err := json.Unmarshal(raw, &contexts); err != nil {
		return false
	}
	for _, c := range contexts {
		if strings.Contains(c, "iiif") || strings.Contains(c, "shared-canvas") {
			return true
		}
	}
	return false
}

const corsHelpURL = "https://github.com/DDMAL/diva.js/wiki/Installation#a-note-about-cross-site-requests"

// loadFailureMessage builds the lines shown in the viewer when a manifest
// cannot be loaded. A fetch of an absolute URL on another host that never
// got a response most likely hit a missing CORS header, so a hint is added.
func loadFailureMessage(manifestURL, originHost string, err error) []string {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return []string{fmt.Sprintf("Invalid objectData setting. Error: %v", err)}
	}

	lines := []string{fmt.Sprintf("Invalid objectData setting. Error code: %d %s", fe.StatusCode, fe.StatusText)}
	if !strings.HasPrefix(manifestURL, "http") || fe.StatusCode != 0 {
		return lines
	}
	u, perr := url.Parse(manifestURL)
	if perr != nil || u.Host == "" {
		return lines
	}
	if !sameHost(originHost, u.Hostname()) {
		lines = append(lines,
			"Attempted to access cross-origin data without CORS.",
			"You may need to update your server configuration to support CORS. For help, see the cross-site request documentation: "+corsHelpURL,
		)
	}
	return lines
}

// sameHost compares host names after IDNA normalisation.
func sameHost(a, b string) bool {
	na, err := idna.Lookup.ToASCII(a)
	if err != nil {
		na = a
	}
	nb, err := idna.Lookup.ToASCII(b)
	if err != nil {
		nb = b
	}
	return strings.EqualFold(na, nb)
}
