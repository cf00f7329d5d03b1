// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package sms

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cellmgr/modem-sms/info"
)

const cmdTimeout = 10 * time.Second

// runStoreOperation drives the per-part write iterator, under an
// exclusive lock on the modem's write storage bank (mem2). The lock is
// acquired before the first command and released on every exit path.
func runStoreOperation(ctx context.Context, s *Sms, m Modem, storage Storage) error {
	guard, err := m.Storage().Lock(ctx, StorageUnknown, storage)
	if err != nil {
		return wrapTransport(err)
	}
	defer guard.Release()

	for _, part := range s.parts {
		idx, err := storeOnePart(ctx, m, part, s.codec)
		if err != nil {
			return err
		}
		part.Index = idx
	}
	return nil
}

// storeOnePart issues the write command and payload for a single part and
// parses the resulting index from the modem's +CMGW response.
func storeOnePart(ctx context.Context, m Modem, part *SmsPart, codec PDUCodec) (int, error) {
	cctx, cancel := context.WithTimeout(ctx, cmdTimeout)
	defer cancel()

	var cmd, payload string
	if m.PDUMode() {
		hex, pduLen, scaLen := codec.SubmitPDU(part, m.SCA())
		cmd = fmt.Sprintf("+CMGW=%d", pduLen-scaLen)
		payload = hex
	} else {
		cmd = fmt.Sprintf(`+CMGW="%s"`, part.Number)
		payload = part.Text
	}

	lines, err := m.Transport().SMSCommand(cctx, cmd, payload)
	if err != nil {
		return InvalidIndex, wrapTransport(err)
	}
	return parseStoreIndex(lines)
}

func parseStoreIndex(lines []string) (int, error) {
	for _, l := range lines {
		if info.HasPrefix(l, "+CMGW") {
			v := strings.TrimSpace(info.TrimPrefix(l, "+CMGW"))
			idx, err := strconv.Atoi(v)
			if err != nil || idx < 0 {
				return InvalidIndex, ErrStoreIndexParseError
			}
			return idx, nil
		}
	}
	return InvalidIndex, ErrStoreIndexParseError
}
