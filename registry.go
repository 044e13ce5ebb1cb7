// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viewer

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sassoftware/viya-doc-viewer/logger"
)

// Registry holds the open sessions of an embedding application and tracks
// which one is active, i.e. receives keyboard input.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	active   string
	next     int
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Open creates a session and adds it to the registry. A config without an
// ID is given one of the form "diva-N".
func (r *Registry) Open(cfg *Config, deps Dependencies) (*Session, error) {
	c := *cfg

	r.mu.Lock()
	if c.ID == "" {
		r.next++
		c.ID = fmt.Sprintf("diva-%d", r.next)
	}
	if _, exists := r.sessions[c.ID]; exists {
		r.mu.Unlock()
		return nil, fmt.Errorf("session %q already open", c.ID)
	}
	// Reserve the ID while the session is built.
	r.sessions[c.ID] = nil
	r.mu.Unlock()

	s, err := New(&c, deps)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		delete(r.sessions, c.ID)
		return nil, err
	}
	r.sessions[c.ID] = s
	logger.Debug(fmt.Sprintf("Session opened: id=%s", c.ID), c.DebugOn)
	return s, nil
}

// Get returns the session with id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok && s != nil
}

// Remove destroys the session with id and forgets it. It reports whether
// the session existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok || s == nil {
		r.mu.Unlock()
		return false
	}
	delete(r.sessions, id)
	if r.active == id {
		r.active = ""
	}
	r.mu.Unlock()

	s.Destroy()
	return true
}

// Activate makes the session with id the active one.
func (r *Registry) Activate(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; !ok || s == nil {
		return false
	}
	r.active = id
	return true
}

// Deactivate clears the active session if it is id.
func (r *Registry) Deactivate(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != id || id == "" {
		return false
	}
	r.active = ""
	return true
}

// Active returns the active session, if any.
func (r *Registry) Active() (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == "" {
		return nil, false
	}
	s, ok := r.sessions[r.active]
	return s, ok && s != nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sessions {
		if s != nil {
			n++
		}
	}
	return n
}

// IDs returns the IDs of the open sessions in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.sessions))
	for id, s := range r.sessions {
		if s != nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
