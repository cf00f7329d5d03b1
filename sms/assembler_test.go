// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package sms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembleSinglepart(t *testing.T) {
	part := &SmsPart{Text: "HELLO", Number: "123"}
	a, err := assemble([]*SmsPart{part}, 1)
	assert.Nil(t, err)
	assert.Equal(t, "HELLO", a.text)
	assert.Equal(t, "123", a.number)
}

func TestAssembleMultipartOutOfOrder(t *testing.T) {
	p1 := &SmsPart{ConcatSequence: 1, Text: "one "}
	p2 := &SmsPart{ConcatSequence: 2, Text: "two "}
	p3 := &SmsPart{ConcatSequence: 3, Text: "three"}
	a, err := assemble([]*SmsPart{p3, p1, p2}, 3)
	assert.Nil(t, err)
	assert.Equal(t, "one two three", a.text)
}

func TestAssembleIncomplete(t *testing.T) {
	p1 := &SmsPart{ConcatSequence: 1, Text: "one"}
	p3 := &SmsPart{ConcatSequence: 3, Text: "three"}
	_, err := assemble([]*SmsPart{p1, p3}, 3)
	if assert.Error(t, err) {
		ips, ok := err.(IncompletePartSet)
		if assert.True(t, ok) {
			assert.Equal(t, 2, ips.Missing)
		}
	}
}

func TestAssembleEmptyPart(t *testing.T) {
	p1 := &SmsPart{ConcatSequence: 1, Text: "one"}
	p2 := &SmsPart{ConcatSequence: 2}
	_, err := assemble([]*SmsPart{p1, p2}, 2)
	assert.Equal(t, ErrEmptyPart, err)
}

func TestAssembleDataConcatenation(t *testing.T) {
	p1 := &SmsPart{ConcatSequence: 1, Data: []byte{1, 2}}
	p2 := &SmsPart{ConcatSequence: 2, Data: []byte{3, 4}}
	a, err := assemble([]*SmsPart{p1, p2}, 2)
	assert.Nil(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, a.data)
}

func TestAssembleDeliveryReportFromLastSlot(t *testing.T) {
	p1 := &SmsPart{ConcatSequence: 1, Text: "a", DeliveryReportRequest: false}
	p2 := &SmsPart{ConcatSequence: 2, Text: "b", DeliveryReportRequest: true}
	a, err := assemble([]*SmsPart{p1, p2}, 2)
	assert.Nil(t, err)
	assert.True(t, a.deliveryReportRequest)
}

func TestAssembleHeadersFromFirstSlot(t *testing.T) {
	p1 := &SmsPart{ConcatSequence: 1, Text: "a", Number: "+1555", SMSC: "+1999", Class: 1}
	p2 := &SmsPart{ConcatSequence: 2, Text: "b", Number: "+1other"}
	a, err := assemble([]*SmsPart{p1, p2}, 2)
	assert.Nil(t, err)
	assert.Equal(t, "+1555", a.number)
	assert.Equal(t, "+1999", a.smsc)
	assert.Equal(t, 1, a.class)
}
