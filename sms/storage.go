// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package sms

import (
	"context"
	"fmt"
)

// Storage identifies a modem memory bank that an SMS, or its parts, may be
// stored in.
type Storage int

// Storage banks recognised by the modem command set.
const (
	// StorageUnknown indicates the SMS, or part, is not currently stored.
	StorageUnknown Storage = iota
	StorageSim
	StorageMe
	StorageMt
	StorageSr
	StorageBm
	StorageTa
)

func (s Storage) String() string {
	switch s {
	case StorageUnknown:
		return "unknown"
	case StorageSim:
		return "SM"
	case StorageMe:
		return "ME"
	case StorageMt:
		return "MT"
	case StorageSr:
		return "SR"
	case StorageBm:
		return "BM"
	case StorageTa:
		return "TA"
	default:
		return fmt.Sprintf("Storage(%d)", int(s))
	}
}

// InvalidIndex is the sentinel index of a part that is not currently
// persisted in modem memory.
const InvalidIndex = -1

// StorageLocker serialises access to the modem's memory banks.
//
// The two conventional banks are mem1 (read/delete source) and mem2 (write
// target). Lock is acquired before the first command of a batch and Unlock
// is released on every exit path of that batch, success or failure.
type StorageLocker interface {
	Lock(ctx context.Context, readBank, writeBank Storage) (Unlocker, error)
}

// Unlocker releases a previously acquired storage lock. Release must be
// safe to call more than once and is expected to be called on every exit
// path of the batch it guards.
type Unlocker interface {
	Release()
}

// StorageLock is a StorageLocker built the way at.AT serialises modem
// access: a single goroutine owns all lock state and every request to
// acquire or release a bank flows through a channel, so there is never any
// direct locking of shared fields.
type StorageLock struct {
	reqCh chan lockReq
	relCh chan Storage
}

type lockReq struct {
	readBank  Storage
	writeBank Storage
	done      chan *StorageGuard
}

// NewStorageLock creates a StorageLock and starts its serialising goroutine.
func NewStorageLock() *StorageLock {
	l := &StorageLock{
		reqCh: make(chan lockReq),
		relCh: make(chan Storage),
	}
	go l.loop()
	return l
}

// Lock acquires readBank and writeBank, skipping either set to
// StorageUnknown, and returns a guard that releases them exactly once. It
// blocks until both banks are free or ctx is done.
func (l *StorageLock) Lock(ctx context.Context, readBank, writeBank Storage) (Unlocker, error) {
	req := lockReq{readBank: readBank, writeBank: writeBank, done: make(chan *StorageGuard, 1)}
	select {
	case l.reqCh <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case g := <-req.done:
		return g, nil
	case <-ctx.Done():
		// The request may still be granted after ctx is done; when it is,
		// release it immediately rather than leaking the hold.
		go func() {
			if g := <-req.done; g != nil {
				g.Release()
			}
		}()
		return nil, ctx.Err()
	}
}

// loop is the sole owner of held and pending; every acquire/release is
// serialised through it.
func (l *StorageLock) loop() {
	held := make(map[Storage]bool)
	var pending []lockReq

	grant := func(req lockReq) {
		if req.readBank != StorageUnknown {
			held[req.readBank] = true
		}
		if req.writeBank != StorageUnknown {
			held[req.writeBank] = true
		}
		req.done <- &StorageGuard{lock: l, readBank: req.readBank, writeBank: req.writeBank}
	}
	fits := func(req lockReq) bool {
		if req.readBank != StorageUnknown && held[req.readBank] {
			return false
		}
		if req.writeBank != StorageUnknown && req.writeBank != req.readBank && held[req.writeBank] {
			return false
		}
		return true
	}
	tryPending := func() {
		var still []lockReq
		for _, p := range pending {
			if fits(p) {
				grant(p)
			} else {
				still = append(still, p)
			}
		}
		pending = still
	}

	for {
		select {
		case req := <-l.reqCh:
			if fits(req) {
				grant(req)
			} else {
				pending = append(pending, req)
			}
		case bank := <-l.relCh:
			delete(held, bank)
			tryPending()
		}
	}
}

// StorageGuard is a scoped guard over a locked pair of banks. Release is
// safe to call more than once and on every exit path (success, failure, or
// a panic recovered upstream), matching the "if we ever set need_unlock, we
// unlock" invariant of the storage lock model.
type StorageGuard struct {
	lock      *StorageLock
	readBank  Storage
	writeBank Storage
	released  bool
}

// Release unlocks the guarded banks. Safe to call multiple times.
func (g *StorageGuard) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	if g.readBank != StorageUnknown {
		g.lock.relCh <- g.readBank
	}
	if g.writeBank != StorageUnknown && g.writeBank != g.readBank {
		g.lock.relCh <- g.writeBank
	}
}
