// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viewer

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("page not found")
	ErrOutOfRange          = errors.New("zoom level out of range")
	ErrNotReady            = errors.New("viewer not ready")
	ErrInvalidViewState    = errors.New("invalid view state")
	ErrInvalidManifest     = errors.New("invalid manifest")
	ErrUnsupportedManifest = errors.New("unsupported manifest format")
)

// FetchError reports a failed manifest fetch. StatusCode is 0 when the
// request never produced a response.
type FetchError struct {
	URL        string
	StatusCode int
	StatusText string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: status %d %s: %v", e.URL, e.StatusCode, e.StatusText, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d %s", e.URL, e.StatusCode, e.StatusText)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
