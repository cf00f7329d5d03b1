// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package sms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Store then delete, the basic round trip through modem memory.
func TestStoreThenDelete(t *testing.T) {
	part := newSinglePart()
	part.Text = "hello"
	part.Number = "+15551234"
	s, err := SinglepartNew(ModemHandle{}, StateUnknown, StorageUnknown, part)
	assert.Nil(t, err)

	m := newMockModem(t, []mockCall{
		{cmd: `+CMGW="+15551234"`, info: []string{"+CMGW: 7"}},
	})
	s.modem = StaticModemHandle(m)

	err = s.Store(context.Background(), StorageUnknown)
	assert.Nil(t, err)
	assert.Equal(t, StateStored, s.State())
	assert.Equal(t, StorageMe, s.Storage())
	assert.Equal(t, 7, s.Parts()[0].Index)
	assert.Equal(t, 1, m.locker.locks)
	assert.Equal(t, 1, m.locker.releases)

	m.transport.calls = append(m.transport.calls, mockCall{cmd: "+CMGD=7"})
	err = s.Delete(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, StateUnknown, s.State())
	assert.Equal(t, StorageUnknown, s.Storage())
	assert.Equal(t, InvalidIndex, s.Parts()[0].Index)
	assert.Equal(t, 2, m.locker.locks)
	assert.Equal(t, 2, m.locker.releases)
	assert.True(t, m.transport.done())
}

func TestStoreRejectsUnsupportedModem(t *testing.T) {
	part := newSinglePart()
	part.Text = "hi"
	part.Number = "123"
	s, _ := SinglepartNew(ModemHandle{}, StateUnknown, StorageUnknown, part)

	m := newMockModem(t, nil)
	m.canStore = false
	s.modem = StaticModemHandle(m)

	err := s.Store(context.Background(), StorageUnknown)
	assert.Equal(t, ErrUnsupported, err)
	assert.True(t, m.transport.done())
}

func TestStoreRejectsUnwritableStorage(t *testing.T) {
	part := newSinglePart()
	part.Text = "hi"
	part.Number = "123"
	s, _ := SinglepartNew(ModemHandle{}, StateUnknown, StorageUnknown, part)

	m := newMockModem(t, nil)
	s.modem = StaticModemHandle(m)

	err := s.Store(context.Background(), StorageTa)
	assert.Equal(t, ErrUnsupportedStorage, err)
}

func TestStoreAlreadyStoredElsewhereConflict(t *testing.T) {
	part := newSinglePart()
	part.Text = "hi"
	part.Number = "123"
	s, _ := SinglepartNew(ModemHandle{}, StateStored, StorageSim, part)

	m := newMockModem(t, nil)
	s.modem = StaticModemHandle(m)

	err := s.Store(context.Background(), StorageMe)
	assert.Equal(t, ErrAlreadyStoredElsewhere, err)
}

func TestStoreAlreadyStoredSameBankIsNoop(t *testing.T) {
	part := newSinglePart()
	part.Text = "hi"
	part.Number = "123"
	s, _ := SinglepartNew(ModemHandle{}, StateStored, StorageSim, part)

	m := newMockModem(t, nil)
	s.modem = StaticModemHandle(m)

	err := s.Store(context.Background(), StorageSim)
	assert.Nil(t, err)
	assert.Equal(t, 0, m.locker.locks)
}

func TestStoreIndexParseErrorOnMalformedResponse(t *testing.T) {
	part := newSinglePart()
	part.Text = "hi"
	part.Number = "123"
	s, _ := SinglepartNew(ModemHandle{}, StateUnknown, StorageUnknown, part)

	m := newMockModem(t, []mockCall{
		{cmd: `+CMGW="123"`, info: []string{"garbage"}},
	})
	s.modem = StaticModemHandle(m)

	err := s.Store(context.Background(), StorageUnknown)
	assert.Equal(t, ErrStoreIndexParseError, err)
	// the lock is still released even though the op failed.
	assert.Equal(t, m.locker.locks, m.locker.releases)
}
