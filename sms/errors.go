// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package sms

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors. Mirrors the pattern used by at.ErrClosed and
// gsm.ErrNotGSMCapable: bare errors.New values for conditions that carry no
// extra data.
var (
	// ErrMissingRequired indicates a required field (number, and either
	// text or data) was absent when constructing an outgoing SMS.
	ErrMissingRequired = errors.New("missing required field")

	// ErrUnsupported indicates the modem does not implement the requested
	// operation at all.
	ErrUnsupported = errors.New("operation not supported by modem")

	// ErrUnsupportedStorage indicates the requested storage bank is not in
	// the modem's set of storages advertised as supporting writes.
	ErrUnsupportedStorage = errors.New("storage not supported for write")

	// ErrAlreadyStoredElsewhere indicates Store was called with a storage
	// that conflicts with the SMS's current storage.
	ErrAlreadyStoredElsewhere = errors.New("already stored in a different bank")

	// ErrCannotSendReceived indicates Send was called on an SMS whose state
	// is Received or Receiving.
	ErrCannotSendReceived = errors.New("cannot send a received sms")

	// ErrNotMultipart indicates take_part was called on a singlepart SMS.
	ErrNotMultipart = errors.New("sms is not multipart")

	// ErrSaturated indicates take_part was called after max_parts parts
	// have already been admitted.
	ErrSaturated = errors.New("sms part set is already complete")

	// ErrDuplicateSequence indicates take_part was called with a
	// concat_sequence that is already present.
	ErrDuplicateSequence = errors.New("duplicate concat sequence")

	// ErrSequenceOutOfRange indicates a part's concat_sequence exceeds
	// max_parts.
	ErrSequenceOutOfRange = errors.New("concat sequence out of range")

	// ErrEmptyPart indicates an assembly slot had neither text nor data.
	ErrEmptyPart = errors.New("part has neither text nor data")

	// ErrStoreIndexParseError indicates the modem's +CMGW response could
	// not be parsed as a non-negative integer index.
	ErrStoreIndexParseError = errors.New("could not parse store index")

	// ErrModemGone indicates the Sms's modem back-reference no longer
	// resolves; the modem has been torn down.
	ErrModemGone = errors.New("modem is no longer present")
)

// IncompletePartSet indicates assembly failed because a slot in
// 1..=max_parts was never filled.
type IncompletePartSet struct {
	Missing int // 1-based concat_sequence of the first missing slot
}

func (e IncompletePartSet) Error() string {
	return fmt.Sprintf("incomplete part set: missing sequence %d", e.Missing)
}

// InvalidPartIndex indicates a part presented to the assembler has a
// concat_sequence outside 1..=max_parts, or duplicates an already-filled
// slot. Admission (take_part) already rejects both cases, so this only
// fires as a defensive check inside the assembler itself.
type InvalidPartIndex struct {
	Sequence int
}

func (e InvalidPartIndex) Error() string {
	return fmt.Sprintf("invalid part index: sequence %d", e.Sequence)
}

// PartialDeleteFailure indicates some, but not all, stored parts could be
// removed from modem memory during a Delete.
type PartialDeleteFailure struct {
	NFailed int
}

func (e PartialDeleteFailure) Error() string {
	return fmt.Sprintf("partial delete failure: %d part(s) failed", e.NFailed)
}

// TransportFailure wraps an error returned by the modem command transport.
// Use errors.Cause (github.com/pkg/errors) to retrieve the original error.
type TransportFailure struct {
	cause error
}

func (e TransportFailure) Error() string {
	return fmt.Sprintf("transport failure: %v", e.cause)
}

// Cause implements the interface expected by errors.Cause.
func (e TransportFailure) Cause() error {
	return e.cause
}

func wrapTransport(err error) error {
	if err == nil {
		return nil
	}
	return TransportFailure{cause: err}
}
