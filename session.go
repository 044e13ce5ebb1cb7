// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viewer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sassoftware/viya-doc-viewer/logger"
	"seehuhn.de/go/geom/vec"
)

const notReadyMessage = "The viewer is not completely initialized. This is likely because it is still downloading data. To fix this, only call this function if IsReady returns true."

// Dependencies are the collaborators a Session works with.
type Dependencies struct {
	Renderer Renderer // required
	// Fetcher defaults to an HTTPFetcher bounded by Config.MaxConcurrentFetches.
	Fetcher Fetcher
	// Scheduler defaults to an EventLoop owned by the session.
	Scheduler Scheduler
	Location  Location
	// IIIFParser handles IIIF manifests; without it they fail to load.
	IIIFParser ManifestParser
	// OnManifestLoad is called each time a manifest is installed, after the
	// renderer has reloaded. It runs without the session lock held and may
	// call back into the Session.
	OnManifestLoad func(m *Manifest)
}

// Session is the control core of one document viewer. It owns the viewer
// settings and the active manifest; every state change is funnelled
// through a reload of the renderer.
type Session struct {
	mu sync.Mutex

	cfg      Config
	settings Settings
	manifest *Manifest
	isIIIF   bool
	loaded   bool
	closed   bool
	source   Source

	renderer       Renderer
	fetcher        Fetcher
	sched          Scheduler
	ownedLoop      *EventLoop
	location       Location
	iiif           ManifestParser
	onManifestLoad func(*Manifest)

	stopHashSync func() bool
	hashGen      int
}

// loadAttempt tracks one manifest load so a late throbber timer can tell
// that its load already finished.
type loadAttempt struct {
	source   Source
	finished bool
}

// New validates cfg and starts loading the manifest. The session is not
// ready until the manifest has been installed; state carried in the
// Location's fragment is applied at that point.
func New(cfg *Config, deps Dependencies) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Renderer == nil {
		return nil, errors.New("invalid dependencies: renderer is required")
	}
	if cfg.Logger != nil {
		logger.SetLogger(cfg.Logger)
	}

	s := &Session{
		cfg:            *cfg,
		renderer:       deps.Renderer,
		fetcher:        deps.Fetcher,
		sched:          deps.Scheduler,
		location:       deps.Location,
		iiif:           deps.IIIFParser,
		onManifestLoad: deps.OnManifestLoad,
		settings: Settings{
			ID:                 cfg.ID,
			InGrid:             cfg.InGrid,
			InBookLayout:       cfg.InBookLayout,
			InFullscreen:       cfg.InFullscreen,
			VerticallyOriented: cfg.VerticallyOriented,
			EnableFilename:     cfg.EnableFilename,
			ZoomLevel:          cfg.ZoomLevel,
			MinZoomLevel:       cfg.MinZoomLevel,
			MaxZoomLevel:       cfg.MaxZoomLevel,
			PagesPerRow:        cfg.PagesPerRow,
			MinPagesPerRow:     cfg.MinPagesPerRow,
			MaxPagesPerRow:     cfg.MaxPagesPerRow,
			CurrentPageIndex:   cfg.GoDirectlyTo,
			HashParamSuffix:    cfg.HashParamSuffix,
			PageLoadTimeout:    cfg.PageLoadTimeout,
		},
	}
	if s.fetcher == nil {
		s.fetcher = NewHTTPFetcher(nil, cfg.MaxConcurrentFetches)
	}
	if s.sched == nil {
		s.ownedLoop = NewEventLoop()
		s.sched = s.ownedLoop
	}

	logger.Debug(fmt.Sprintf("Session initialized: id=%s zoom=%d view=%s", cfg.ID, cfg.ZoomLevel, s.settings.ViewMode()), cfg.DebugOn)

	hash := ParseHash(s.fragment(), cfg.HashParamSuffix)
	src := Source{URL: cfg.ManifestURL, Manifest: cfg.Manifest}

	s.mu.Lock()
	s.startLoad(src, hash)
	s.mu.Unlock()
	return s, nil
}

// startLoad installs a manifest from src. An in-memory manifest is
// installed on the next scheduler turn; a URL is fetched in the background
// with the throbber shown if the fetch outlasts ThrobberTimeout. There is no
// cancellation: when loads overlap the last one to finish wins.
func (s *Session) startLoad(src Source, hash HashState) {
	s.source = src
	if src.Manifest != nil {
		m := src.Manifest
		s.sched.Defer(func() {
			s.mu.Lock()
			var notify func()
			if !s.closed {
				if err := m.Validate(); err != nil {
					s.loadFailed(src, err)
				} else {
					notify = s.install(m, false, hash)
				}
			}
			s.mu.Unlock()
			if notify != nil {
				notify()
			}
		})
		return
	}

	attempt := &loadAttempt{source: src}
	stopThrobber := s.sched.AfterFunc(s.cfg.ThrobberTimeout, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !attempt.finished && !s.closed {
			s.renderer.ShowThrobber(true)
		}
	})

	logger.Debug(fmt.Sprintf("Fetching manifest: url=%s", src.URL), s.cfg.DebugOn)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout)
		defer cancel()
		data, err := s.fetcher.Fetch(ctx, src.URL)

		s.sched.Defer(func() {
			stopThrobber()
			s.mu.Lock()
			attempt.finished = true
			notify := s.completeFetch(src, data, err, hash)
			s.mu.Unlock()
			if notify != nil {
				notify()
			}
		})
	}()
}

// completeFetch installs a fetched manifest document or reports why it
// could not be loaded. Like install, it returns the load hook to run once
// s.mu is released.
func (s *Session) completeFetch(src Source, data []byte, err error, hash HashState) func() {
	if s.closed {
		return nil
	}
	if err != nil {
		s.loadFailed(src, err)
		return nil
	}
	m, iiif, err := ParseManifest(data, s.iiif)
	if err != nil {
		s.loadFailed(src, err)
		return nil
	}
	return s.install(m, iiif, hash)
}

// install makes m the active manifest and reloads the renderer. It must be
// called with s.mu held and returns the OnManifestLoad call, which the
// caller runs after releasing the lock so the hook can use the Session.
func (s *Session) install(m *Manifest, iiif bool, hash HashState) func() {
	if s.closed {
		return nil
	}
	st := s.settings
	st.NumPages = m.PageCount()

	maxZoom := m.MaxZoomLevel()
	if s.cfg.MaxZoomLevel >= 0 && s.cfg.MaxZoomLevel < maxZoom {
		maxZoom = s.cfg.MaxZoomLevel
	}
	st.MaxZoomLevel = maxZoom
	st.MinZoomLevel = min(s.cfg.MinZoomLevel, maxZoom)
	st.ZoomLevel = max(st.MinZoomLevel, min(st.ZoomLevel, maxZoom))

	st.CurrentPageIndex = 0
	if m.IsPageValid(s.cfg.GoDirectlyTo) {
		st.CurrentPageIndex = s.cfg.GoDirectlyTo
	}

	var opts LoadOptions
	if hash != nil {
		opts = DecodeState(hash, m)
	}
	st, rejected := st.Apply(opts)
	for _, r := range rejected {
		logger.Warn("Ignoring invalid option from URL fragment", "option", r)
	}

	s.manifest = m
	s.isIIIF = iiif
	s.settings = st
	s.loaded = true

	logger.Debug(fmt.Sprintf("Manifest installed: pages=%d max_zoom=%d iiif=%v page=%d", st.NumPages, maxZoom, iiif, st.CurrentPageIndex), s.cfg.DebugOn)

	s.renderer.ShowThrobber(false)
	s.renderer.Reload(st)
	s.settings.HorizontalOffset = None[float64]()
	s.settings.VerticalOffset = None[float64]()

	if s.onManifestLoad == nil {
		return nil
	}
	hook := s.onManifestLoad
	return func() { hook(m) }
}

func (s *Session) loadFailed(src Source, err error) {
	logger.Error("Failed to load manifest", "source", src.String(), "err", err)
	s.renderer.ShowThrobber(false)
	s.renderer.ShowError(loadFailureMessage(src.URL, s.originHost(), err))
}

func (s *Session) originHost() string {
	if s.cfg.OriginHost != "" {
		return s.cfg.OriginHost
	}
	if s.location != nil {
		if u := s.location.URL(); u != nil {
			return u.Hostname()
		}
	}
	return ""
}

func (s *Session) fragment() string {
	if s.location == nil {
		return ""
	}
	u := s.location.URL()
	if u == nil {
		return ""
	}
	return u.EscapedFragment()
}

func (s *Session) checkLoaded() bool {
	if !s.loaded || s.closed {
		logger.Warn(notReadyMessage, "session", s.settings.ID)
		return false
	}
	return true
}

// reload merges opts into the settings and rebuilds the rendering. It is
// the only way settings change after a manifest is installed.
func (s *Session) reload(opts LoadOptions) bool {
	if !s.checkLoaded() {
		return false
	}
	next, rejected := s.settings.Apply(opts)
	for _, r := range rejected {
		logger.Debug("Ignoring invalid option", "option", r)
	}
	s.settings = next
	logger.Debug(fmt.Sprintf("Reloading: view=%s zoom=%d page=%d", next.ViewMode(), next.ZoomLevel, next.CurrentPageIndex), s.cfg.DebugOn)
	s.renderer.Reload(next)
	s.settings.HorizontalOffset = None[float64]()
	s.settings.VerticalOffset = None[float64]()
	return true
}

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.ID
}

// Settings returns a copy of the current settings.
func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// IsReady reports whether a manifest has been installed.
func (s *Session) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded && !s.closed
}

// IsIIIF reports whether the installed manifest came from a IIIF document.
func (s *Session) IsIIIF() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isIIIF
}

// ItemTitle returns the document title, or "" before the manifest loads.
func (s *Session) ItemTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.manifest == nil {
		return ""
	}
	return s.manifest.ItemTitle
}

// GotoPage scrolls to the page loc refers to and reports whether it
// resolved. The anchors pick which side of the page lines up with the
// viewer.
func (s *Session) GotoPage(loc Locator, xAnchor, yAnchor Anchor) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.checkLoaded() {
		return false
	}
	idx := Resolve(s.manifest, loc)
	if idx < 0 {
		return false
	}
	off := s.renderer.Offset(idx, xAnchor, yAnchor)
	s.renderer.Goto(idx, off.X, off.Y)
	s.settings.CurrentPageIndex = idx
	return true
}

// GotoPageByIndex goes to a 0-based page index.
func (s *Session) GotoPageByIndex(index int, xAnchor, yAnchor Anchor) bool {
	return s.GotoPage(ByIndex(index), xAnchor, yAnchor)
}

// GotoPageByNumber goes to a 1-based page number.
func (s *Session) GotoPageByNumber(number int, xAnchor, yAnchor Anchor) bool {
	return s.GotoPage(ByNumber(number), xAnchor, yAnchor)
}

// GotoPageByName goes to the first page with the given filename.
func (s *Session) GotoPageByName(filename string, xAnchor, yAnchor Anchor) bool {
	return s.GotoPage(ByFilename(filename), xAnchor, yAnchor)
}

// NotifyPageChanged records the page the renderer scrolled to. It is
// ignored for an invalid index.
func (s *Session) NotifyPageChanged(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.manifest != nil && s.manifest.IsPageValid(index) {
		s.settings.CurrentPageIndex = index
	}
}

// PageIndex returns the index of the page with filename, or -1.
func (s *Session) PageIndex(filename string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Resolve(s.manifest, ByFilename(filename))
}

// NumberOfPages returns the page count once the manifest is loaded.
func (s *Session) NumberOfPages() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.checkLoaded() {
		return 0, false
	}
	return s.settings.NumPages, true
}

// PageDimensionsAtZoomLevel returns a page's size at zoomLevel, clamped to
// the session's maximum zoom level.
func (s *Session) PageDimensionsAtZoomLevel(index, zoomLevel int) (Dimensions, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageDimensionsAt(index, zoomLevel)
}

func (s *Session) pageDimensionsAt(index, zoomLevel int) (Dimensions, bool) {
	if !s.checkLoaded() {
		return Dimensions{}, false
	}
	if zoomLevel > s.settings.MaxZoomLevel {
		zoomLevel = s.settings.MaxZoomLevel
	}
	d, err := s.manifest.DimensionsAt(index, zoomLevel)
	if err != nil {
		logger.Debug("Page dimensions unavailable", "page", index, "zoom", zoomLevel, "err", err)
		return Dimensions{}, false
	}
	return d, true
}

// CurrentPageDimensionsAtCurrentZoomLevel returns the current page's size
// at the current zoom level.
func (s *Session) CurrentPageDimensionsAtCurrentZoomLevel() (Dimensions, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageDimensionsAt(s.settings.CurrentPageIndex, s.settings.ZoomLevel)
}

func (s *Session) CurrentPageIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.CurrentPageIndex
}

func (s *Session) CurrentPageNumber() int {
	return s.CurrentPageIndex() + 1
}

func (s *Session) CurrentPageFilename() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.checkLoaded() {
		return "", false
	}
	name, err := s.manifest.FilenameOf(s.settings.CurrentPageIndex)
	return name, err == nil
}

// Filenames returns every page filename, or nil before the manifest loads.
func (s *Session) Filenames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.checkLoaded() {
		return nil
	}
	return s.manifest.Filenames()
}

func (s *Session) ZoomLevel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.ZoomLevel
}

func (s *Session) MinZoomLevel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.MinZoomLevel
}

// MaxZoomLevel returns the maximum zoom level for the whole document.
func (s *Session) MaxZoomLevel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.MaxZoomLevel
}

// MaxZoomLevelForPage returns the maximum zoom level of one page.
func (s *Session) MaxZoomLevelForPage(index int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.checkLoaded() {
		return 0, false
	}
	z, err := s.manifest.MaxZoomLevelOf(index)
	return z, err == nil
}

// SetZoomLevel zooms to z and reports whether z was valid. Zooming leaves
// the grid first.
func (s *Session) SetZoomLevel(z int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setZoomLevel(z)
}

func (s *Session) setZoomLevel(z int) bool {
	if !s.checkLoaded() {
		return false
	}
	if s.settings.InGrid {
		s.reload(LoadOptions{InGrid: Some(false)})
	}
	if !s.settings.IsValidZoomLevel(z) {
		return false
	}
	return s.reload(LoadOptions{ZoomLevel: Some(z), GoDirectlyTo: Some(s.settings.CurrentPageIndex)})
}

// ZoomIn zooms in one level; it returns false at the maximum.
func (s *Session) ZoomIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setZoomLevel(s.settings.ZoomLevel + 1)
}

// ZoomOut zooms out one level; it returns false at the minimum.
func (s *Session) ZoomOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setZoomLevel(s.settings.ZoomLevel - 1)
}

func (s *Session) GridPagesPerRow() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.PagesPerRow
}

// SetGridPagesPerRow switches to the grid with n pages per row. A value
// outside [MinPagesPerRow, MaxPagesPerRow] is rejected.
func (s *Session) SetGridPagesPerRow(n int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settings.IsValidPagesPerRow(n) {
		return false
	}
	return s.reload(LoadOptions{InGrid: Some(true), PagesPerRow: Some(n)})
}

// ChangeView switches the layout.
func (s *Session) ChangeView(mode ViewMode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch mode {
	case DocumentView, BookView, GridView:
		return s.reload(ViewOptions(mode))
	}
	return false
}

// EnterGridView switches to the grid; it returns false if already there.
func (s *Session) EnterGridView() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings.InGrid {
		return false
	}
	return s.reload(ViewOptions(GridView))
}

// LeaveGridView leaves the grid; it returns false if not in it.
func (s *Session) LeaveGridView() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settings.InGrid {
		return false
	}
	return s.reload(LoadOptions{InGrid: Some(false)})
}

// ToggleFullscreen flips fullscreen mode.
func (s *Session) ToggleFullscreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload(LoadOptions{InFullscreen: Some(!s.settings.InFullscreen)})
}

// EnterFullscreen enters fullscreen mode; it returns false if already there.
func (s *Session) EnterFullscreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings.InFullscreen {
		return false
	}
	return s.reload(LoadOptions{InFullscreen: Some(true)})
}

// LeaveFullscreen leaves fullscreen mode; it returns false if not in it.
func (s *Session) LeaveFullscreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settings.InFullscreen {
		return false
	}
	return s.reload(LoadOptions{InFullscreen: Some(false)})
}

func (s *Session) IsVerticallyOriented() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.VerticallyOriented
}

// ToggleOrientation switches between vertical and horizontal layout,
// leaving the grid, and returns the new orientation. The current page and
// the renderer's scroll position are carried over.
func (s *Session) ToggleOrientation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.checkLoaded() {
		return s.settings.VerticallyOriented
	}
	vertical := !s.settings.VerticallyOriented
	cur := s.settings.CurrentPageIndex
	off := s.renderer.ScrollOffset()
	s.reload(LoadOptions{
		InGrid:             Some(false),
		VerticallyOriented: Some(vertical),
		GoDirectlyTo:       Some(cur),
		VerticalOffset:     Some(off.Y),
		HorizontalOffset:   Some(off.X),
	})
	return vertical
}

// TranslateFromMaxZoomLevel converts a measurement at the maximum zoom
// level to the current zoom level.
func (s *Session) TranslateFromMaxZoomLevel(v float64) float64 {
	return s.zoomTransform().FromMaxZoom(v)
}

// TranslateToMaxZoomLevel converts a measurement at the current zoom level
// to the maximum zoom level.
func (s *Session) TranslateToMaxZoomLevel(v float64) float64 {
	return s.zoomTransform().ToMaxZoom(v)
}

func (s *Session) zoomTransform() ZoomTransform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ZoomTransform{MaxZoomLevel: s.settings.MaxZoomLevel, ZoomLevel: s.settings.ZoomLevel}
}

// InViewport reports whether a region of a page, given by its offset from
// the page's top-left corner and its size, is at least partly visible.
func (s *Session) InViewport(pageNumber int, left, top, width, height float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded || s.closed {
		return false
	}
	off, ok := s.renderer.PageOffset(pageNumber - 1)
	if !ok {
		return false
	}
	region := Region(off.X+left, off.Y+top, width, height)
	return Intersects(s.renderer.Geometry().Viewport, region)
}

// IsPageInViewport reports whether any part of a page is on screen.
func (s *Session) IsPageInViewport(index int) bool {
	if index < 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded || s.closed {
		return false
	}
	g := s.renderer.Geometry()
	return VisiblePages(g.Outer, g.Pages).Test(uint(index))
}

// VisiblePages returns the indices of the pages on screen, in ascending
// order.
func (s *Session) VisiblePages() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded || s.closed {
		return nil
	}
	g := s.renderer.Geometry()
	set := VisiblePages(g.Outer, g.Pages)
	out := make([]int, 0, set.Count())
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// IsPageLoaded reports whether the renderer currently has a page in its
// layout.
func (s *Session) IsPageLoaded(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded || s.closed {
		return false
	}
	return s.renderer.IsPageLoaded(index)
}

// PageOffset returns the distance from the document's top-left corner to
// a page's top-left corner.
func (s *Session) PageOffset(index int) (vec.Vec2, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded || s.closed {
		return vec.Vec2{}, false
	}
	return s.renderer.PageOffset(index)
}

func (s *Session) CurrentPageOffset() (vec.Vec2, bool) {
	return s.PageOffset(s.CurrentPageIndex())
}

// PageDimensionsAtCurrentGridLevel returns a page's size in the grid. An
// invalid index falls back to the current page. It panics with
// ErrInvalidViewState when the session is not in grid view.
func (s *Session) PageDimensionsAtCurrentGridLevel(index int) Dimensions {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settings.InGrid {
		panic(fmt.Errorf("cannot get grid-based dimensions when not in grid view: %w", ErrInvalidViewState))
	}
	if s.manifest == nil || !s.manifest.IsPageValid(index) {
		index = s.settings.CurrentPageIndex
	}
	return s.renderer.PageDimensions(index)
}

// PageIndexAtPoint returns the page under a screen position, if any.
func (s *Session) PageIndexAtPoint(x, y float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded || s.closed {
		return 0, false
	}
	g := s.renderer.Geometry()
	return PageAtPoint(g.Outer, g.Pages, vec.Vec2{X: x, Y: y})
}

// State captures the session as a HashState, or nil before the manifest
// loads.
func (s *Session) State() HashState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() HashState {
	if !s.checkLoaded() {
		return nil
	}
	var center Option[vec.Vec2]
	if off, ok := s.renderer.PageToViewportCenterOffset(s.settings.CurrentPageIndex); ok {
		center = Some(off)
	}
	return EncodeState(s.settings, s.manifest, center)
}

// SetState applies a state previously returned by State, or parsed from a
// fragment.
func (s *Session) SetState(h HashState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.checkLoaded() {
		return false
	}
	return s.reload(DecodeState(h, s.manifest))
}

// URLHash returns the fragment describing the current state, without the
// leading '#'.
func (s *Session) URLHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.state()
	if h == nil {
		return ""
	}
	return h.Format(s.settings.HashParamSuffix)
}

// CurrentURL returns the Location's URL with the fragment replaced by the
// current state.
func (s *Session) CurrentURL() string {
	hash := s.URLHash()
	if s.location == nil {
		return "#" + hash
	}
	u := s.location.URL()
	if u == nil {
		return "#" + hash
	}
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(u.Host)
	b.WriteString(u.EscapedPath())
	if u.RawQuery != "" {
		b.WriteString("?")
		b.WriteString(u.RawQuery)
	}
	b.WriteString("#")
	b.WriteString(hash)
	return b.String()
}

// SyncFromHash applies the state in a URL fragment after PageLoadTimeout.
// A call arriving before the previous one fired replaces it, so a burst of
// fragment updates produces a single reload.
func (s *Session) SyncFromHash(fragment string) {
	h := ParseHash(fragment, s.Settings().HashParamSuffix)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopHashSync != nil {
		s.stopHashSync()
	}
	s.hashGen++
	gen := s.hashGen
	s.stopHashSync = s.sched.AfterFunc(s.cfg.PageLoadTimeout, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// A newer sync or ChangeObject supersedes this one.
		if gen != s.hashGen || s.closed || !s.loaded {
			return
		}
		s.stopHashSync = nil
		s.reload(DecodeState(h, s.manifest))
	})
}

// ChangeObject replaces the manifest. The session is not ready again until
// the new manifest is installed.
func (s *Session) ChangeObject(src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.loaded = false
	s.manifest = nil
	s.isIIIF = false
	if s.stopHashSync != nil {
		s.stopHashSync()
		s.stopHashSync = nil
	}
	s.hashGen++
	s.renderer.Clear()
	logger.Debug(fmt.Sprintf("Changing object: source=%s", src), s.cfg.DebugOn)
	s.startLoad(src, nil)
}

// Source returns where the current manifest was requested from.
func (s *Session) Source() Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Destroy clears the rendering and stops the session. Pending loads are
// discarded.
func (s *Session) Destroy() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.loaded = false
	if s.stopHashSync != nil {
		s.stopHashSync()
		s.stopHashSync = nil
	}
	s.hashGen++
	s.renderer.Clear()
	loop := s.ownedLoop
	s.mu.Unlock()

	if loop != nil {
		loop.Close()
	}
}
