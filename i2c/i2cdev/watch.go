// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux

package i2cdev

import (
	"errors"
	"strings"

	"github.com/pilebones/go-udev/netlink"
)

// AdapterEvent reports an i2c-dev adapter being added or removed.
type AdapterEvent struct {
	// Action is "add" or "remove".
	Action string

	// Name is the device name, e.g. "i2c-1".
	Name string

	// Path is the device path, e.g. "/dev/i2c-1".
	Path string
}

// AdapterEventHandler is a receiver for adapter events.
type AdapterEventHandler func(AdapterEvent)

// Watcher reports adapters being added or removed, e.g. USB I2C bridges
// being plugged in.
type Watcher struct {
	conn  *netlink.UEventConn
	queue chan netlink.UEvent
	quit  chan struct{}
	stop  chan struct{}
}

// Watch starts watching for i2c-dev adapter events.
//
// The handler is called from a goroutine owned by the Watcher, and errors
// from the event source are passed to errh if not nil.  The handler must
// return promptly, including after its receiver has stopped, or Close will
// block.
func Watch(eh AdapterEventHandler, errh func(error)) (*Watcher, error) {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return nil, errors.New("i2cdev: unable to connect to Netlink Kobject UEvent socket")
	}
	action := "add|remove"
	matcher := &netlink.RuleDefinition{Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "i2c-dev",
			"DEVNAME":   "i2c-\\d+",
		}}
	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	quit := conn.Monitor(queue, errs, matcher)
	w := &Watcher{
		conn:  conn,
		queue: queue,
		quit:  quit,
		stop:  make(chan struct{}),
	}
	go w.watch(eh, errs, errh)
	return w, nil
}

func (w *Watcher) watch(eh AdapterEventHandler, errs <-chan error, errh func(error)) {
	for {
		select {
		case evt := <-w.queue:
			eh(newAdapterEvent(evt))
		case err := <-errs:
			if errh != nil {
				errh(err)
			}
		case <-w.stop:
			return
		}
	}
}

func newAdapterEvent(evt netlink.UEvent) AdapterEvent {
	name := evt.Env["DEVNAME"]
	name = strings.TrimPrefix(name, "/dev/")
	return AdapterEvent{
		Action: string(evt.Action),
		Name:   name,
		Path:   nameToPath(name),
	}
}

// Close stops the watcher.
func (w *Watcher) Close() {
	w.quit <- struct{}{}
	w.conn.Close()
	close(w.stop)
}
