// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package sms

import "time"

// assembled is the merged view produced once a complete part set is
// available.
type assembled struct {
	text                  string
	data                  []byte
	smsc                  string
	class                 int
	number                string
	timestamp             time.Time
	validity              time.Duration
	deliveryReportRequest bool
}

// assemble merges a complete part set into a single payload.
//
// parts need not be pre-sorted; assemble slots them by ConcatSequence
// itself. For a singlepart message (maxParts == 1) the lone part occupies
// slot 0 directly.
func assemble(parts []*SmsPart, maxParts int) (*assembled, error) {
	slots := make([]*SmsPart, maxParts)
	if maxParts == 1 {
		if len(parts) > 0 {
			slots[0] = parts[0]
		}
	} else {
		for _, p := range parts {
			if p.ConcatSequence < 1 || p.ConcatSequence > maxParts {
				// Admission already validated this; a defensive check only.
				return nil, InvalidPartIndex{Sequence: p.ConcatSequence}
			}
			idx := p.ConcatSequence - 1
			if slots[idx] != nil {
				return nil, InvalidPartIndex{Sequence: p.ConcatSequence}
			}
			slots[idx] = p
		}
	}

	for i, s := range slots {
		if s == nil {
			return nil, IncompletePartSet{Missing: i + 1}
		}
	}

	a := &assembled{}
	var data []byte
	for i, s := range slots {
		if !s.HasContent() {
			return nil, ErrEmptyPart
		}
		a.text += s.Text
		if len(s.Data) > 0 {
			data = append(data, s.Data...)
		}
		if i == 0 {
			a.smsc = s.SMSC
			a.class = s.Class
			a.number = s.Number
			a.timestamp = s.Timestamp
			a.validity = s.Validity
		}
		if i == len(slots)-1 {
			a.deliveryReportRequest = s.DeliveryReportRequest
		}
	}
	a.data = data
	return a, nil
}
