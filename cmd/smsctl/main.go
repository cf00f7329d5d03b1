// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

// smsctl drives the sms package against a real modem: store, send and list
// SMS messages from the command line. There is no delete action.
//
// This provides an example of using the sms package end to end, as well as
// a test that the package works against real modem hardware.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/cellmgr/modem-sms/gsm"
	"github.com/cellmgr/modem-sms/modem"
	"github.com/cellmgr/modem-sms/serial"
	"github.com/cellmgr/modem-sms/sms"
	"github.com/cellmgr/modem-sms/trace"
)

func main() {
	dev := flag.String("d", "/dev/ttyUSB0", "path to modem device")
	baud := flag.Int("b", 115200, "baud rate")
	timeout := flag.Duration("t", 10*time.Second, "command timeout period")
	verbose := flag.Bool("v", false, "log modem interactions")
	number := flag.String("n", "", "destination number, for store/send")
	text := flag.String("m", "", "message text, for store/send")
	storageFlag := flag.String("s", "ME", "storage bank to store to (SM, ME, MT, SR, BM, TA)")
	action := flag.String("a", "send", "action: store, send, list")
	flag.Parse()

	m, err := serial.New(serial.WithPort(*dev), serial.WithBaud(*baud))
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()
	var mio io.ReadWriter = m
	if *verbose {
		mio = trace.New(m)
	}

	g := gsm.New(mio)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := g.Init(ctx); err != nil {
		log.Fatal(err)
	}

	storage, err := parseStorage(*storageFlag)
	if err != nil {
		log.Fatal(err)
	}
	mdm := modem.New(g, modem.WithWritableStorages(storage, storage, sms.StorageSim, sms.StorageMe))
	list := sms.NewSmsList("/org/cellmgr/Modem/SMS")
	handle := sms.StaticModemHandle(mdm)

	switch *action {
	case "store":
		runStore(ctx, list, handle, *number, *text, storage)
	case "send":
		runSend(ctx, list, handle, *number, *text)
	case "list":
		runList(list)
	default:
		log.Fatalf("unknown action %q", *action)
	}
}

func parseStorage(s string) (sms.Storage, error) {
	switch s {
	case "SM":
		return sms.StorageSim, nil
	case "ME":
		return sms.StorageMe, nil
	case "MT":
		return sms.StorageMt, nil
	case "SR":
		return sms.StorageSr, nil
	case "BM":
		return sms.StorageBm, nil
	case "TA":
		return sms.StorageTa, nil
	default:
		return sms.StorageUnknown, fmt.Errorf("unknown storage %q", s)
	}
}

func runStore(ctx context.Context, list *sms.SmsList, handle sms.ModemHandle, number, text string, storage sms.Storage) {
	s, err := sms.FromProperties(handle, sms.Properties{Number: number, Text: text}, nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := s.Store(ctx, storage); err != nil {
		log.Fatal(err)
	}
	path := list.Export(s)
	log.Printf("stored at %s, storage=%s, state=%s\n", path, s.Storage(), s.State())
}

func runSend(ctx context.Context, list *sms.SmsList, handle sms.ModemHandle, number, text string) {
	s, err := sms.FromProperties(handle, sms.Properties{Number: number, Text: text}, nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := s.Send(ctx); err != nil {
		log.Fatal(err)
	}
	path := list.Export(s)
	log.Printf("sent as %s, state=%s\n", path, s.State())
}

func runList(list *sms.SmsList) {
	for _, s := range list.List() {
		fmt.Printf("%s\t%s\t%s\t%s\n", s.Path(), s.State(), s.Storage(), s.Number())
	}
}
