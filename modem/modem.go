// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

// Package modem wires a gsm.GSM (itself backed by at.AT over a serial
// connection) and a sms.StorageLock together into a sms.Modem, the
// concrete collaborator the sms package's operations resolve via a
// sms.ModemHandle.
package modem

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/cellmgr/modem-sms/gsm"
	"github.com/cellmgr/modem-sms/sms"
	"github.com/warthog618/sms/encoding/pdumode"
)

// Modem adapts a gsm.GSM to sms.Modem, adding the storage-bank lock, write
// capability set, and concat-reference allocator the Sms entity needs but
// the lower-level GSM driver does not model.
type Modem struct {
	gsm   *gsm.GSM
	lock  *sms.StorageLock
	sca   pdumode.SMSCAddress
	pdu   bool

	defaultWriteStorage sms.Storage
	writable            map[sms.Storage]bool
	canStore            bool
	canSend             bool

	refMu   sync.Mutex
	rnd     *rand.Rand
	pending map[uint8]bool
}

// Option configures a Modem at construction time.
type Option func(*Modem)

// WithPDUMode configures the Modem (and the underlying GSM driver) to
// transmit SMSs as PDUs rather than text.
func WithPDUMode(m *Modem) {
	m.pdu = true
	m.gsm.SetPDUMode()
}

// WithSCA sets the service-center address used when encoding outgoing
// PDUs, overriding the default configured in the SIM.
func WithSCA(sca pdumode.SMSCAddress) Option {
	return func(m *Modem) {
		m.sca = sca
		m.gsm.SetSCA(sca)
	}
}

// WithWritableStorages sets the storage banks the modem advertises as
// supporting writes (the admission check in sms.Sms.Store).
func WithWritableStorages(defaultStorage sms.Storage, writable ...sms.Storage) Option {
	return func(m *Modem) {
		m.defaultWriteStorage = defaultStorage
		for _, s := range writable {
			m.writable[s] = true
		}
	}
}

// WithoutStore marks the modem as not implementing Store at all - a
// modem-variant override, for modems whose firmware lacks the command set.
func WithoutStore(m *Modem) { m.canStore = false }

// WithoutSend marks the modem as not implementing Send at all.
func WithoutSend(m *Modem) { m.canSend = false }

// New wraps g as a sms.Modem. g must already be initialised (gsm.GSM.Init).
func New(g *gsm.GSM, opts ...Option) *Modem {
	m := &Modem{
		gsm:      g,
		lock:     sms.NewStorageLock(),
		writable: make(map[sms.Storage]bool),
		canStore: true,
		canSend:  true,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		pending:  make(map[uint8]bool),
	}
	m.defaultWriteStorage = sms.StorageMe
	m.writable[sms.StorageMe] = true
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Modem) Transport() sms.CommandTransport { return m.gsm }
func (m *Modem) Storage() sms.StorageLocker      { return m.lock }

func (m *Modem) DefaultWriteStorage() sms.Storage { return m.defaultWriteStorage }

func (m *Modem) SupportsWrite(s sms.Storage) bool { return m.writable[s] }
func (m *Modem) SupportsStore() bool              { return m.canStore }
func (m *Modem) SupportsSend() bool               { return m.canSend }

func (m *Modem) PDUMode() bool                { return m.pdu }
func (m *Modem) SCA() pdumode.SMSCAddress     { return m.sca }

// NextConcatReference allocates a concat_reference for a new outgoing
// multipart message: a uniform random value in 1..254, retried on
// collision with a reference currently in use by another outgoing
// multipart. Collision avoidance is optional but cheap, so it is always on.
func (m *Modem) NextConcatReference() uint8 {
	m.refMu.Lock()
	defer m.refMu.Unlock()
	for {
		ref := uint8(m.rnd.Intn(254) + 1)
		if !m.pending[ref] {
			m.pending[ref] = true
			return ref
		}
	}
}

// ReleaseConcatReference returns ref to the pool once the multipart it was
// assigned to is no longer outgoing (sent, or deleted before being sent).
func (m *Modem) ReleaseConcatReference(ref uint8) {
	m.refMu.Lock()
	defer m.refMu.Unlock()
	delete(m.pending, ref)
}

// Init initialises the underlying GSM driver.
func (m *Modem) Init(ctx context.Context) error {
	return m.gsm.Init(ctx)
}
