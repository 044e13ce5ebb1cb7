// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viewer

import (
	"sync"
	"time"
)

// Scheduler runs session work after the current synchronous phase.
type Scheduler interface {
	// Defer queues task to run on a later turn.
	Defer(task func())
	// AfterFunc queues task after d. stop cancels it if it has not been
	// queued yet and reports whether it did.
	AfterFunc(d time.Duration, task func()) (stop func() bool)
}

// EventLoop is a Scheduler that runs tasks one at a time, in submission
// order, on its own goroutine.
type EventLoop struct {
	mu      sync.Mutex
	queue   []func()
	closed  bool
	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
}

func NewEventLoop() *EventLoop {
	l := &EventLoop{
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *EventLoop) Defer(task func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *EventLoop) AfterFunc(d time.Duration, task func()) func() bool {
	t := time.AfterFunc(d, func() { l.Defer(task) })
	return t.Stop
}

// Close stops the loop after the running task; queued tasks are dropped.
// It must not be called from a task.
func (l *EventLoop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.queue = nil
	l.mu.Unlock()

	close(l.done)
	<-l.stopped
}

func (l *EventLoop) run() {
	defer close(l.stopped)
	for {
		select {
		case <-l.wake:
		case <-l.done:
			return
		}
		for {
			l.mu.Lock()
			if l.closed || len(l.queue) == 0 {
				l.mu.Unlock()
				break
			}
			task := l.queue[0]
			l.queue = l.queue[1:]
			l.mu.Unlock()

			task()
		}
	}
}
