// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package sms

import (
	"context"
	"fmt"
)

// runSendOperation drives the per-part send iterator.
//
// If the SMS is currently stored, Mode A (send-from-storage) is attempted
// first, under a lock on the stored bank; any part that fails that way
// falls through to Mode B (generic inline send) for the remainder,
// starting with the current part. The stored-bank lock, once acquired, is
// held until the operation returns, including across the fallback.
func runSendOperation(ctx context.Context, s *Sms, m Modem) error {
	fromStorage := s.storage != StorageUnknown
	var guard Unlocker
	if fromStorage {
		g, err := m.Storage().Lock(ctx, s.storage, StorageUnknown)
		if err != nil {
			return wrapTransport(err)
		}
		guard = g
		defer guard.Release()
	}

	fellBack := false
	for _, part := range s.parts {
		if fromStorage && !fellBack {
			cctx, cancel := context.WithTimeout(ctx, cmdTimeout)
			_, err := m.Transport().Command(cctx, fmt.Sprintf("+CMSS=%d", part.Index))
			cancel()
			if err == nil {
				continue
			}
			s.debugf("send-from-storage failed for part at index %d: %v", part.Index, err)
			fellBack = true
		}
		if err := sendOnePartGeneric(ctx, m, part, s.codec); err != nil {
			return err
		}
	}
	return nil
}

// sendOnePartGeneric issues the generic inline send command/payload
// sequence (+CMGS) for a single part. Identical in shape to storeOnePart,
// but the response is not parsed for an index.
func sendOnePartGeneric(ctx context.Context, m Modem, part *SmsPart, codec PDUCodec) error {
	cctx, cancel := context.WithTimeout(ctx, cmdTimeout)
	defer cancel()

	var cmd, payload string
	if m.PDUMode() {
		hex, pduLen, scaLen := codec.SubmitPDU(part, m.SCA())
		cmd = fmt.Sprintf("+CMGS=%d", pduLen-scaLen)
		payload = hex
	} else {
		cmd = fmt.Sprintf(`+CMGS="%s"`, part.Number)
		payload = part.Text
	}

	_, err := m.Transport().SMSCommand(cctx, cmd, payload)
	if err != nil {
		return wrapTransport(err)
	}
	return nil
}
