// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package sms

import (
	"context"

	"github.com/warthog618/sms/encoding/pdumode"
)

// CommandTransport issues AT commands to a modem and awaits the response.
// *at.AT and *gsm.GSM (which embeds *at.AT) satisfy this directly.
type CommandTransport interface {
	// Command issues cmd and returns the info lines preceding the status
	// line, or an error if the command did not complete successfully.
	Command(ctx context.Context, cmd string) ([]string, error)

	// SMSCommand issues a two-step SMS command: cmd, followed by the sms
	// payload once the modem prompts for it.
	SMSCommand(ctx context.Context, cmd string, sms string) ([]string, error)
}

// Modem is the set of modem-level collaborators an Sms needs to carry out
// Store/Send/Delete. An Sms never keeps a Modem alive directly; it only
// resolves one when it has work to do, via ModemHandle.
type Modem interface {
	Transport() CommandTransport
	Storage() StorageLocker

	// DefaultWriteStorage is the modem's configured default write
	// storage. Guaranteed non-Unknown.
	DefaultWriteStorage() Storage

	// SupportsWrite reports whether s is in the set of storages the modem
	// advertises as supporting writes.
	SupportsWrite(s Storage) bool

	SupportsStore() bool
	SupportsSend() bool

	// PDUMode reports whether the modem is configured for PDU mode (as
	// opposed to text mode).
	PDUMode() bool

	// SCA is the service-center address used when encoding outgoing PDUs.
	SCA() pdumode.SMSCAddress

	// NextConcatReference allocates a concat_reference for a new outgoing
	// multipart message.
	NextConcatReference() uint8
}

// ModemHandle is a weak reference to a Modem: it never keeps the modem
// alive by itself, and resolves to (nil, false) once the modem has gone
// away. Store, Send and Delete resolve it once, when the operation starts,
// and use that Modem for every step; it is not re-resolved between steps.
type ModemHandle struct {
	resolve func() (Modem, bool)
}

// NewModemHandle wraps a resolver function as a ModemHandle. The resolver is
// typically a closure over a registry keyed by modem identity, returning
// (nil, false) once the entry has been removed.
func NewModemHandle(resolve func() (Modem, bool)) ModemHandle {
	return ModemHandle{resolve: resolve}
}

// StaticModemHandle wraps a Modem that is known to outlive the Sms, for
// tests and simple single-modem deployments.
func StaticModemHandle(m Modem) ModemHandle {
	return ModemHandle{resolve: func() (Modem, bool) { return m, m != nil }}
}

// Resolve returns the live Modem, or (nil, false) if it has gone away.
func (h ModemHandle) Resolve() (Modem, bool) {
	if h.resolve == nil {
		return nil, false
	}
	return h.resolve()
}

// ConcatReferenceReleaser is implemented by Modems that track which
// concat_reference values are currently in use by outgoing multiparts
// Sms releases a reference through this interface once its multipart is
// no longer outgoing (sent, or deleted unsent).
type ConcatReferenceReleaser interface {
	ReleaseConcatReference(ref uint8)
}
