// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warthog618/mcp47feb22/i2c/i2cdev"
)

func TestForwardEvents(t *testing.T) {
	done := make(chan struct{})
	evtchan, eh := forwardEvents(done)
	evt := i2cdev.AdapterEvent{Action: "add", Name: "i2c-3", Path: "/dev/i2c-3"}
	eh(evt)
	select {
	case e := <-evtchan:
		assert.Equal(t, evt, e)
	case <-time.After(time.Second):
		t.Fatal("event not forwarded")
	}

	// events arriving after the monitor has stopped must not block the
	// watcher
	for i := 0; i < cap(evtchan); i++ {
		eh(evt)
	}
	close(done)
	returned := make(chan struct{})
	go func() {
		eh(evt)
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("handler blocked after done")
	}
}
