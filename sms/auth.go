// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package sms

import "context"

// Right identifies a permission gating an RPC-invoked operation.
type Right int

// Messaging is the right required by every SMS object method (Store,
// Send).
const Messaging Right = iota

// Authorizer gates an invocation against a right, returning an opaque
// yes/no result as a nil/non-nil error. The subsystem behind it is out of
// scope for this package; only its interface is specified here.
type Authorizer interface {
	Authorize(ctx context.Context, right Right) error
}

// AllowAll is a permissive Authorizer, useful for tests and for modes of
// operation where an external RPC layer has already authorized the caller.
type AllowAll struct{}

// Authorize always succeeds.
func (AllowAll) Authorize(ctx context.Context, right Right) error { return nil }
