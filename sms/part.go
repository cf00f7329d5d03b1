// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package sms

import "time"

// SmsPart is an individual fragment of an SMS. Singlepart messages have
// exactly one part.
type SmsPart struct {
	// Index is the slot number in modem memory, or InvalidIndex when the
	// part is not currently stored.
	Index int

	// ConcatReference is the 8-bit value shared by every part of one
	// multipart message.
	ConcatReference uint8

	// ConcatSequence is the 1-based position of this part within its
	// multipart; 0 for a singlepart message.
	ConcatSequence int

	// ConcatMax is the total number of parts in the multipart; 1 for a
	// singlepart message.
	ConcatMax int

	// Text and Data: exactly one is populated by the user; never both. A
	// received part may carry either.
	Text string
	Data []byte

	Number                 string
	SMSC                    string
	Timestamp               time.Time
	Validity                time.Duration
	Class                   int
	Encoding                string
	DeliveryReportRequest   bool
}

// HasContent reports whether the part carries at least one of text or data,
// as required by assembly.
func (p *SmsPart) HasContent() bool {
	return p.Text != "" || len(p.Data) > 0
}

// newSinglePart builds the lone part of a singlepart SMS.
func newSinglePart() *SmsPart {
	return &SmsPart{Index: InvalidIndex, ConcatSequence: 0, ConcatMax: 1}
}
