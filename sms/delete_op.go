// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package sms

import (
	"context"
	"fmt"
)

// runDeleteOperation drives the per-part delete iterator, under an
// exclusive lock on the SMS's current storage bank. Parts whose index is
// already InvalidIndex are skipped; every other part's index is reset to
// InvalidIndex regardless of whether its delete command succeeded, so a
// later retry never re-attempts an already-cleared slot. The number of
// parts that failed to delete is returned for the caller to fold into
// PartialDeleteFailure.
func runDeleteOperation(ctx context.Context, s *Sms, m Modem) (int, error) {
	guard, err := m.Storage().Lock(ctx, s.storage, StorageUnknown)
	if err != nil {
		return 0, wrapTransport(err)
	}
	defer guard.Release()

	failed := 0
	for _, part := range s.parts {
		if part.Index == InvalidIndex {
			continue
		}
		cctx, cancel := context.WithTimeout(ctx, cmdTimeout)
		_, err := m.Transport().Command(cctx, fmt.Sprintf("+CMGD=%d", part.Index))
		cancel()
		if err != nil {
			s.debugf("delete failed for part at index %d: %v", part.Index, err)
			failed++
		}
		part.Index = InvalidIndex
	}
	return failed, nil
}
