// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package tracer

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// MaxMessages bounds the trace log; older entries are dropped first.
const MaxMessages = 1024

type entry struct {
	at  time.Time
	msg string
}

var (
	mu            sync.Mutex
	traceMessages []entry
)

// Log just adds a message to the trace log.
func Log(msg string) {
	mu.Lock()
	defer mu.Unlock()
	if len(traceMessages) == MaxMessages {
		traceMessages = traceMessages[1:]
	}
	traceMessages = append(traceMessages, entry{at: time.Now(), msg: msg})
}

// Messages returns a copy of the accumulated trace messages, oldest first.
func Messages() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(traceMessages))
	for i, e := range traceMessages {
		out[i] = e.msg
	}
	return out
}

// Flush writes the accumulated trace log to w and resets it.
func Flush(w io.Writer) error {
	mu.Lock()
	msgs := traceMessages
	// reset so the next session starts fresh
	traceMessages = nil
	mu.Unlock()

	for _, e := range msgs {
		if _, err := fmt.Fprintf(w, "%s %s\n", e.at.Format(time.RFC3339Nano), e.msg); err != nil {
			return err
		}
	}
	return nil
}
