// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package sms

import (
	"context"
	"fmt"
	"testing"

	"github.com/warthog618/sms/encoding/pdumode"
)

// mockCall is one expected command/response pair, consumed in order. This
// mirrors at_test.go's cmdSet map, but as an ordered sequence since
// Store/Send/Delete issue commands strictly sequentially.
type mockCall struct {
	cmd  string
	info []string
	err  error
}

// mockTransport is a CommandTransport that replays a scripted sequence of
// responses, failing the test if a command arrives out of order or
// unexpectedly.
type mockTransport struct {
	t     *testing.T
	calls []mockCall
	idx   int
}

func (m *mockTransport) next(cmd string) ([]string, error) {
	if m.idx >= len(m.calls) {
		m.t.Fatalf("unexpected command %q (no more calls scripted)", cmd)
		return nil, fmt.Errorf("unexpected command %q", cmd)
	}
	c := m.calls[m.idx]
	m.idx++
	if c.cmd != cmd {
		m.t.Fatalf("call %d: expected command %q, got %q", m.idx-1, c.cmd, cmd)
	}
	return c.info, c.err
}

func (m *mockTransport) Command(ctx context.Context, cmd string) ([]string, error) {
	return m.next(cmd)
}

func (m *mockTransport) SMSCommand(ctx context.Context, cmd string, sms string) ([]string, error) {
	return m.next(cmd)
}

func (m *mockTransport) done() bool {
	return m.idx == len(m.calls)
}

// mockLocker is a StorageLocker that always grants immediately, counting
// locks and releases so tests can assert the lock/unlock balance.
type mockLocker struct {
	locks    int
	releases int
}

type mockUnlocker struct{ l *mockLocker }

func (u mockUnlocker) Release() { u.l.releases++ }

func (l *mockLocker) Lock(ctx context.Context, readBank, writeBank Storage) (Unlocker, error) {
	l.locks++
	return mockUnlocker{l}, nil
}

// mockModem is a Modem backed by a mockTransport/mockLocker, for unit
// testing Sms operations without a real modem.
type mockModem struct {
	transport *mockTransport
	locker    *mockLocker
	defStore  Storage
	writable  map[Storage]bool
	canStore  bool
	canSend   bool
	pduMode   bool
	nextRef   uint8
}

func newMockModem(t *testing.T, calls []mockCall) *mockModem {
	return &mockModem{
		transport: &mockTransport{t: t, calls: calls},
		locker:    &mockLocker{},
		defStore:  StorageMe,
		writable:  map[Storage]bool{StorageMe: true, StorageSim: true},
		canStore:  true,
		canSend:   true,
		nextRef:   42,
	}
}

func (m *mockModem) Transport() CommandTransport     { return m.transport }
func (m *mockModem) Storage() StorageLocker          { return m.locker }
func (m *mockModem) DefaultWriteStorage() Storage    { return m.defStore }
func (m *mockModem) SupportsWrite(s Storage) bool    { return m.writable[s] }
func (m *mockModem) SupportsStore() bool             { return m.canStore }
func (m *mockModem) SupportsSend() bool              { return m.canSend }
func (m *mockModem) PDUMode() bool                   { return m.pduMode }
func (m *mockModem) SCA() pdumode.SMSCAddress        { return pdumode.SMSCAddress{} }
func (m *mockModem) NextConcatReference() uint8       { return m.nextRef }
