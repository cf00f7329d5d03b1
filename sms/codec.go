// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package sms

import (
	"github.com/warthog618/sms"
	"github.com/warthog618/sms/encoding/pdumode"
	"github.com/warthog618/sms/encoding/tpdu"
)

// PDUCodec produces the submit-PDU bytes for an outgoing part, as consumed
// by the Store and Send operations.
type PDUCodec interface {
	// SubmitPDU returns the hex-encoded PDU (SMSC header + TPDU), the
	// total PDU length in octets, and the length of the SMSC header
	// portion in octets, so the caller can compute the AT command's
	// length parameter as pduLength - smscHeaderLength.
	SubmitPDU(part *SmsPart, sca pdumode.SMSCAddress) (hexPDU string, pduLength, smscHeaderLength int)
}

// smsPDUCodec is the default PDUCodec, backed by github.com/warthog618/sms.
// Destination address, MTI and alphabet packing all come from sms.Encode,
// the same entry point cmd/sendsms uses; this codec only adds what
// sms.Encode cannot know on its own, the concatenation UDH for a part
// that is already one slice of a multipart message assembled by
// from_properties or take_part.
type smsPDUCodec struct{}

// DefaultPDUCodec is the PDUCodec used when none is supplied explicitly.
var DefaultPDUCodec PDUCodec = smsPDUCodec{}

// concatIEID is the information-element identifier for the 8-bit
// concatenated short message UDH, per 3GPP TS 23.040 9.2.3.24.1.
const concatIEID = 0

func (smsPDUCodec) SubmitPDU(part *SmsPart, sca pdumode.SMSCAddress) (string, int, int) {
	tpduBytes := submitTPDUBytes(part)

	pdu := pdumode.PDU{SMSC: sca, TPDU: tpduBytes}
	hexPDU, _ := pdu.MarshalHexString()

	scaOnly := pdumode.PDU{SMSC: sca}
	scaHex, _ := scaOnly.MarshalHexString()
	smscOctets := len(scaHex) / 2

	pduOctets := len(hexPDU) / 2
	return hexPDU, pduOctets, smscOctets
}

// submitTPDUBytes marshals a single part into raw SMS-SUBMIT TPDU bytes
// (no SMSC header). Text parts are routed through sms.Encode so the
// destination address, MTI and alphabet land the way every other caller
// in this codebase builds them; a part already carries its final
// concat metadata by the time it reaches here (from_properties or
// take_part assigned it), so that is stitched onto the resulting TPDU's
// UDH rather than re-derived from the text.
//
// A data part (binary, not text) has no text alphabet to pick, so it is
// framed directly rather than passed through sms.Encode, which only
// knows how to carry a text payload.
func submitTPDUBytes(part *SmsPart) []byte {
	if len(part.Data) > 0 {
		return submitTPDUBytesFromData(part)
	}
	return submitTPDUBytesFromText(part)
}

func submitTPDUBytesFromText(part *SmsPart) []byte {
	pdus, err := sms.Encode([]byte(part.Text), sms.To(part.Number), sms.WithAllCharsets)
	if err != nil || len(pdus) == 0 {
		return nil
	}
	tp := pdus[0]
	addConcatIE(&tp, part)
	b, _ := tp.MarshalBinary()
	return b
}

// submitTPDUBytesFromData frames a raw-data part directly: there is no
// sms.Encode option for an 8-bit-data payload with no source text, so the
// TPDU is built by hand and carries no concat IE (binary parts are not
// currently split).
func submitTPDUBytesFromData(part *SmsPart) []byte {
	var t tpdu.TPDU
	t.UD = part.Data
	b, _ := t.MarshalBinary()
	return b
}

// addConcatIE attaches a concatenated-short-message UDH to tp when part
// is one slice of a multipart message, carrying the reference/sequence
// already assigned by from_properties or take_part onto the wire rather
// than letting the encoder invent its own.
func addConcatIE(tp *tpdu.TPDU, part *SmsPart) {
	if part.ConcatMax <= 1 {
		return
	}
	tp.UDH = append(tp.UDH, tpdu.InformationElement{
		ID:   concatIEID,
		Data: []byte{part.ConcatReference, byte(part.ConcatMax), byte(part.ConcatSequence)},
	})
}
