// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package sms

import (
	"context"
	"fmt"
	"sync"
)

// SmsList owns the set of Sms objects belonging to one modem: it assigns
// export paths, allows lookup by path, and enumerates by storage/state so
// that orphaned incomplete multiparts can be found and pruned. Grounded on
// the bookkeeping MMSmsList performs around mm-sms.c in the system this
// spec distills.
type SmsList struct {
	mu     sync.Mutex
	prefix string
	next   int
	byPath map[string]*Sms
}

// NewSmsList creates an empty list whose exported objects are named
// "<prefix>/<n>" for a monotonically increasing n, starting at 0.
func NewSmsList(prefix string) *SmsList {
	return &SmsList{prefix: prefix, byPath: make(map[string]*Sms)}
}

// Export assigns s its external identity and adds it to the list. A no-op
// if s already has a path.
func (l *SmsList) Export(s *Sms) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s.Path() != "" {
		return s.Path()
	}
	path := fmt.Sprintf("%s/%d", l.prefix, l.next)
	l.next++
	s.SetPath(path)
	l.byPath[path] = s
	return path
}

// Lookup returns the Sms exported at path, if any.
func (l *SmsList) Lookup(path string) (*Sms, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.byPath[path]
	return s, ok
}

// List returns every Sms currently held, in no particular order.
func (l *SmsList) List() []*Sms {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Sms, 0, len(l.byPath))
	for _, s := range l.byPath {
		out = append(out, s)
	}
	return out
}

// Remove drops path from the list, e.g. after a successful Delete where the
// caller has decided the object should no longer be tracked.
func (l *SmsList) Remove(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.byPath, path)
}

// Prune deletes every Sms stuck in Receiving whose multipart assembly has
// stalled (a fragment set that will never complete, e.g. the modem ran out
// of memory before the final part arrived). Each is driven through its own
// Delete so stored fragments are also reclaimed from modem memory. Failures
// do not stop the sweep: a PartialDeleteFailure is not reported and the Sms
// is still removed from the list; any other error is collected and that Sms
// stays in the list.
func (l *SmsList) Prune(ctx context.Context) []error {
	var errs []error
	for _, s := range l.List() {
		if s.State() != StateReceiving {
			continue
		}
		if err := s.Delete(ctx); err != nil {
			if _, ok := err.(PartialDeleteFailure); !ok {
				errs = append(errs, err)
				continue
			}
		}
		l.Remove(s.Path())
	}
	return errs
}
