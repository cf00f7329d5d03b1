// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

// Package export exposes a sms.Sms over D-Bus: object-path registration,
// method dispatch for Store/Send, and PropertiesChanged signals for State
// and Storage.
package export

import (
	"context"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"

	"github.com/cellmgr/modem-sms/sms"
)

// Interface is the D-Bus interface name under which Sms objects are
// exported.
const Interface = "org.cellmgr.Modem.Sms"

// Object adapts a *sms.Sms to the D-Bus Store/Send methods and State/
// Storage properties.
type Object struct {
	sms   *sms.Sms
	auth  sms.Authorizer
	conn  *dbus.Conn
	path  dbus.ObjectPath
	props *prop.Properties
}

// Export registers s at path on conn, gating Store/Send through auth.
func Export(conn *dbus.Conn, path dbus.ObjectPath, s *sms.Sms, auth sms.Authorizer) (*Object, error) {
	o := &Object{sms: s, auth: auth, conn: conn, path: path}

	spec := map[string]map[string]*prop.Prop{
		Interface: {
			"State":   {Value: s.State().String(), Writable: false, Emit: prop.EmitTrue},
			"Storage": {Value: s.Storage().String(), Writable: false, Emit: prop.EmitTrue},
			"Text":    {Value: s.Text(), Writable: false, Emit: prop.EmitTrue},
			"Number":  {Value: s.Number(), Writable: false, Emit: prop.EmitTrue},
		},
	}
	p, err := prop.Export(conn, path, spec)
	if err != nil {
		return nil, err
	}
	o.props = p

	if err := conn.Export(o, path, Interface); err != nil {
		return nil, err
	}
	s.SetPath(string(path))
	return o, nil
}

// Store implements the D-Bus Store(storage uint32) method. storage == 0
// (StorageUnknown) means "use the modem's default write storage".
func (o *Object) Store(storage uint32) *dbus.Error {
	ctx := context.Background()
	if err := o.auth.Authorize(ctx, sms.Messaging); err != nil {
		return dbus.MakeFailedError(err)
	}
	if err := o.sms.Store(ctx, sms.Storage(storage)); err != nil {
		return dbus.MakeFailedError(err)
	}
	o.refresh()
	return nil
}

// Send implements the D-Bus Send() method.
func (o *Object) Send() *dbus.Error {
	ctx := context.Background()
	if err := o.auth.Authorize(ctx, sms.Messaging); err != nil {
		return dbus.MakeFailedError(err)
	}
	if err := o.sms.Send(ctx); err != nil {
		return dbus.MakeFailedError(err)
	}
	o.refresh()
	return nil
}

// refresh pushes the current State/Storage onto the exported properties,
// which in turn emits PropertiesChanged. Properties only ever advance here,
// on success: a failed Store/Send never reaches this point.
func (o *Object) refresh() {
	o.props.SetMust(Interface, "State", o.sms.State().String())
	o.props.SetMust(Interface, "Storage", o.sms.Storage().String())
	o.props.SetMust(Interface, "Text", o.sms.Text())
	o.props.SetMust(Interface, "Number", o.sms.Number())
}
