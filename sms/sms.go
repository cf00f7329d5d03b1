// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

// Package sms implements the SMS object model of a cellular modem
// management service: long-lived, possibly multipart messages driven
// through store/send/delete operations over a modem command channel.
package sms

import (
	"context"
	"io"
	"log"
	"time"
)

// State is the SMS lifecycle state.
type State int

const (
	StateUnknown State = iota
	StateStored
	StateReceiving
	StateReceived
	StateSending
	StateSent
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateStored:
		return "stored"
	case StateReceiving:
		return "receiving"
	case StateReceived:
		return "received"
	case StateSending:
		return "sending"
	case StateSent:
		return "sent"
	default:
		return "invalid"
	}
}

// Sms is the long-lived aggregate owning a message's parts, lifecycle
// state, and storage attribution.
type Sms struct {
	path  string
	modem ModemHandle

	isMultipart        bool
	multipartReference uint8
	maxParts           int
	parts              []*SmsPart // sorted by ConcatSequence ascending

	storage Storage
	state   State

	isAssembled bool
	// Merged attributes, populated by assembly.
	text                  string
	data                  []byte
	smsc                  string
	class                 int
	number                string
	timestamp             time.Time
	validity              time.Duration
	deliveryReportRequest bool

	codec PDUCodec
	log   *log.Logger
}

var discardLogger = log.New(io.Discard, "", 0)

// newSms builds an Sms with its collaborator defaults in place; all
// constructors below route through it.
func newSms(modem ModemHandle) *Sms {
	return &Sms{
		modem:   modem,
		storage: StorageUnknown,
		codec:   DefaultPDUCodec,
		log:     discardLogger,
	}
}

// SetLogger installs a logger used for debug-level diagnostics (assembly
// failures absorbed by TakePart, per-part failures in Send fallback and
// Delete). Defaults to a discarding logger.
func (s *Sms) SetLogger(l *log.Logger) {
	if l != nil {
		s.log = l
	}
}

func (s *Sms) debugf(format string, args ...interface{}) {
	s.log.Printf("DEBUG: "+format, args...)
}

// Path returns the SMS's external identity, or "" if it has not yet been
// exported.
func (s *Sms) Path() string { return s.path }

// SetPath assigns the SMS's external identity. Called once, at export.
func (s *Sms) SetPath(path string) { s.path = path }

func (s *Sms) State() State     { return s.state }
func (s *Sms) Storage() Storage { return s.storage }
func (s *Sms) IsMultipart() bool { return s.isMultipart }
func (s *Sms) IsAssembled() bool { return s.isAssembled }

// Parts returns the SMS's parts, ordered by ConcatSequence. The returned
// slice is owned by the Sms; callers must not mutate it.
func (s *Sms) Parts() []*SmsPart { return s.parts }

// Merged accessors, valid once IsAssembled is true.
func (s *Sms) Text() string                  { return s.text }
func (s *Sms) Data() []byte                  { return s.data }
func (s *Sms) SMSC() string                  { return s.smsc }
func (s *Sms) Class() int                    { return s.class }
func (s *Sms) Number() string                { return s.number }
func (s *Sms) Timestamp() time.Time          { return s.timestamp }
func (s *Sms) Validity() time.Duration       { return s.validity }
func (s *Sms) DeliveryReportRequest() bool   { return s.deliveryReportRequest }

// ---- Factories ----

// SinglepartNew attaches the single part, assembles, then returns the Sms
// ready for export.
func SinglepartNew(modem ModemHandle, state State, storage Storage, part *SmsPart) (*Sms, error) {
	s := newSms(modem)
	s.isMultipart = false
	s.maxParts = 1
	s.storage = storage
	s.state = state
	part.ConcatSequence = 0
	part.ConcatMax = 1
	s.parts = []*SmsPart{part}
	s.tryAssemble()
	return s, nil
}

// MultipartNew creates a multipart Sms around the first part received (or
// composed). If state is Received, it is promoted to Receiving, since
// completion of a freshly-created multipart is necessarily asynchronous.
// The Sms is returned (and so can be exported) even when incomplete, so
// orphan multiparts can be enumerated and deleted.
func MultipartNew(modem ModemHandle, state State, storage Storage, reference uint8, maxParts int, first *SmsPart) (*Sms, error) {
	s := newSms(modem)
	s.isMultipart = true
	s.multipartReference = reference
	s.maxParts = maxParts
	s.storage = storage
	if state == StateReceived {
		state = StateReceiving
	}
	s.state = state
	if first != nil {
		first.ConcatReference = reference
		first.ConcatMax = maxParts
		s.parts = []*SmsPart{first}
	}
	s.tryAssemble()
	return s, nil
}

// Properties is the user-supplied input to from_properties: an outgoing
// message composed by a local client rather than received over the air.
type Properties struct {
	Number   string
	Text     string
	Data     []byte
	SMSC     string
	Validity time.Duration
	Class    int
	DeliveryReportRequest bool
}

// FromProperties builds an outgoing Sms from user input. If the text
// splits into n>1 parts it becomes a
// multipart message with a freshly allocated concat_reference; otherwise a
// singlepart message (text or, if text is absent, a single data part).
//
// Required fields are checked immediately: a missing number, or both text
// and data absent, fails fast rather than proceeding into splitting.
func FromProperties(modem ModemHandle, props Properties, splitter TextSplitter) (*Sms, error) {
	if props.Number == "" {
		return nil, ErrMissingRequired
	}
	if props.Text == "" && len(props.Data) == 0 {
		return nil, ErrMissingRequired
	}

	if splitter == nil {
		splitter = DefaultTextSplitter
	}

	if props.Text != "" {
		chunks, encoding := splitter.Split(props.Text)
		if len(chunks) <= 1 {
			part := newSinglePart()
			part.Text = props.Text
			applyHeaders(part, props, encoding)
			return SinglepartNew(modem, StateUnknown, StorageUnknown, part)
		}
		m, ok := modem.Resolve()
		if !ok {
			return nil, ErrModemGone
		}
		reference := m.NextConcatReference()
		n := len(chunks)
		first := &SmsPart{
			Index:           InvalidIndex,
			ConcatReference: reference,
			ConcatSequence:  1,
			ConcatMax:       n,
			Text:            chunks[0],
		}
		applyHeaders(first, props, encoding)
		s, err := MultipartNew(modem, StateUnknown, StorageUnknown, reference, n, first)
		if err != nil {
			return nil, err
		}
		for i := 1; i < n; i++ {
			p := &SmsPart{
				Index:           InvalidIndex,
				ConcatReference: reference,
				ConcatSequence:  i + 1,
				ConcatMax:       n,
				Text:            chunks[i],
			}
			applyHeaders(p, props, encoding)
			// Composed locally, so every chunk is already in hand; admission
			// failures here would indicate a splitter bug.
			if _, err := s.TakePart(p); err != nil {
				return nil, err
			}
		}
		return s, nil
	}

	part := newSinglePart()
	part.Data = props.Data
	applyHeaders(part, props, "")
	return SinglepartNew(modem, StateUnknown, StorageUnknown, part)
}

func applyHeaders(part *SmsPart, props Properties, encoding string) {
	part.Number = props.Number
	part.SMSC = props.SMSC
	part.Validity = props.Validity
	part.Class = props.Class
	part.DeliveryReportRequest = props.DeliveryReportRequest
	part.Encoding = encoding
}

// ---- Multipart acceptance ----

// TakePart admits part into a multipart Sms. On success it takes ownership
// of part and inserts it in sequence-sorted order. If this completes the
// set, assembly is attempted; an assembly failure is logged but does not
// revoke ownership of the part and is not reported to the caller - so that
// a malformed fragment set can still be purged via Delete.
func (s *Sms) TakePart(part *SmsPart) (bool, error) {
	if !s.isMultipart {
		return false, ErrNotMultipart
	}
	if len(s.parts) >= s.maxParts {
		return false, ErrSaturated
	}
	if part.ConcatSequence > s.maxParts || part.ConcatSequence < 1 {
		return false, ErrSequenceOutOfRange
	}
	for _, p := range s.parts {
		if p.ConcatSequence == part.ConcatSequence {
			return false, ErrDuplicateSequence
		}
	}
	part.ConcatReference = s.multipartReference
	part.ConcatMax = s.maxParts

	i := 0
	for ; i < len(s.parts); i++ {
		if s.parts[i].ConcatSequence > part.ConcatSequence {
			break
		}
	}
	s.parts = append(s.parts, nil)
	copy(s.parts[i+1:], s.parts[i:])
	s.parts[i] = part

	complete := len(s.parts) == s.maxParts
	if complete {
		if err := s.tryAssemble(); err != nil {
			s.debugf("assembly failed for multipart %s: %v", s.path, err)
		}
	}
	return complete, nil
}

// tryAssemble attempts to merge the held part set. It is a no-op, returning
// nil, if the set is not yet complete.
func (s *Sms) tryAssemble() error {
	if s.maxParts == 0 {
		return nil
	}
	if len(s.parts) != s.maxParts {
		return nil
	}
	a, err := assemble(s.parts, s.maxParts)
	if err != nil {
		return err
	}
	s.text = a.text
	s.data = a.data
	s.smsc = a.smsc
	s.class = a.class
	s.number = a.number
	s.timestamp = a.timestamp
	s.validity = a.validity
	s.deliveryReportRequest = a.deliveryReportRequest
	s.isAssembled = true
	if s.state == StateReceiving {
		s.state = StateReceived
	}
	return nil
}

// ---- Store ----

// Store writes every part of the SMS to modem memory. storage ==
// StorageUnknown means "use the modem's default write storage".
func (s *Sms) Store(ctx context.Context, storage Storage) error {
	if s.storage != StorageUnknown {
		if storage != StorageUnknown && storage != s.storage {
			return ErrAlreadyStoredElsewhere
		}
		return nil
	}

	m, ok := s.modem.Resolve()
	if !ok {
		return ErrModemGone
	}
	if !m.SupportsStore() {
		return ErrUnsupported
	}
	if storage == StorageUnknown {
		storage = m.DefaultWriteStorage()
	}
	if !m.SupportsWrite(storage) {
		return ErrUnsupportedStorage
	}

	if err := runStoreOperation(ctx, s, m, storage); err != nil {
		return err
	}

	s.storage = storage
	if s.state == StateUnknown {
		s.state = StateStored
	}
	return nil
}

// ---- Send ----

// Send transmits every part of the SMS over the air. If the SMS is
// currently stored, it first attempts send-from-storage; any part that
// fails that way falls through to generic inline send for the remainder.
func (s *Sms) Send(ctx context.Context) error {
	if s.state == StateReceived || s.state == StateReceiving {
		return ErrCannotSendReceived
	}
	m, ok := s.modem.Resolve()
	if !ok {
		return ErrModemGone
	}
	if !m.SupportsSend() {
		return ErrUnsupported
	}

	if err := runSendOperation(ctx, s, m); err != nil {
		return err
	}

	s.state = StateSent
	s.releaseConcatReference(m)
	return nil
}

// ---- Delete ----

// Delete removes every stored part from modem memory. Individual part
// failures are counted but do not abort the iteration.
func (s *Sms) Delete(ctx context.Context) error {
	m, ok := s.modem.Resolve()
	if !ok {
		return ErrModemGone
	}

	failed, err := runDeleteOperation(ctx, s, m)
	if err != nil {
		return err
	}

	for _, p := range s.parts {
		p.Index = InvalidIndex
	}
	if failed > 0 {
		return PartialDeleteFailure{NFailed: failed}
	}
	s.state = StateUnknown
	s.storage = StorageUnknown
	s.releaseConcatReference(m)
	return nil
}

// releaseConcatReference returns the SMS's concat_reference to the modem's
// pool, if both the SMS is multipart and the modem tracks reference use.
func (s *Sms) releaseConcatReference(m Modem) {
	if !s.isMultipart {
		return
	}
	if r, ok := m.(ConcatReferenceReleaser); ok {
		r.ReleaseConcatReference(s.multipartReference)
	}
}
