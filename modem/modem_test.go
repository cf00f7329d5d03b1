// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package modem

import (
	"bytes"
	"testing"

	"github.com/cellmgr/modem-sms/gsm"
	"github.com/cellmgr/modem-sms/sms"
	"github.com/stretchr/testify/assert"
)

// newTestGSM builds a GSM driver over an inert buffer - enough to construct
// a Modem and exercise its own logic, without driving an AT exchange.
func newTestGSM() *gsm.GSM {
	return gsm.New(&bytes.Buffer{})
}

func TestNewDefaults(t *testing.T) {
	m := New(newTestGSM())
	assert.Equal(t, sms.StorageMe, m.DefaultWriteStorage())
	assert.True(t, m.SupportsWrite(sms.StorageMe))
	assert.False(t, m.SupportsWrite(sms.StorageSim))
	assert.True(t, m.SupportsStore())
	assert.True(t, m.SupportsSend())
	assert.False(t, m.PDUMode())
}

func TestWithWritableStorages(t *testing.T) {
	m := New(newTestGSM(), WithWritableStorages(sms.StorageSim, sms.StorageSim, sms.StorageMe))
	assert.Equal(t, sms.StorageSim, m.DefaultWriteStorage())
	assert.True(t, m.SupportsWrite(sms.StorageSim))
	assert.True(t, m.SupportsWrite(sms.StorageMe))
	assert.False(t, m.SupportsWrite(sms.StorageTa))
}

func TestWithoutStoreAndSend(t *testing.T) {
	m := New(newTestGSM(), WithoutStore, WithoutSend)
	assert.False(t, m.SupportsStore())
	assert.False(t, m.SupportsSend())
}

func TestWithPDUMode(t *testing.T) {
	m := New(newTestGSM(), WithPDUMode)
	assert.True(t, m.PDUMode())
}

// NextConcatReference never hands out a reference already pending, and
// ReleaseConcatReference frees it for reuse.
func TestConcatReferenceAvoidsCollisions(t *testing.T) {
	m := New(newTestGSM())
	seen := make(map[uint8]bool)
	for i := 0; i < 254; i++ {
		ref := m.NextConcatReference()
		assert.False(t, seen[ref], "reference %d handed out twice while still pending", ref)
		seen[ref] = true
	}
	// pool of 1..254 is exhausted; releasing one must make it available again.
	var released uint8
	for ref := range seen {
		released = ref
		break
	}
	m.ReleaseConcatReference(released)
	next := m.NextConcatReference()
	assert.Equal(t, released, next)
}

func TestTransportAndStorageAreWired(t *testing.T) {
	g := newTestGSM()
	m := New(g)
	assert.Same(t, g, m.Transport())
	assert.NotNil(t, m.Storage())
}
