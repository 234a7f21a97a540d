// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux

package main

import (
	"fmt"
	"strconv"

	"github.com/warthog618/mcp47feb22"
	"github.com/warthog618/mcp47feb22/device/rpi"
	"github.com/warthog618/mcp47feb22/i2c/bitbang"
	"github.com/warthog618/mcp47feb22/i2c/i2cdev"
	"github.com/warthog618/mcp47feb22/i2c/mcp2221a"
	"github.com/warthog618/mcp47feb22/mockup"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var busOpts = struct {
	Transport string
	Bus       string
	ID        uint8
	VDD       string
	SCL       string
	SDA       string
	PullUp    bool
	Verbose   bool
}{}

func openBus() (i2c.BusCloser, error) {
	switch busOpts.Transport {
	case "i2cdev":
		name := busOpts.Bus
		if name == "" {
			name = "1"
		}
		return i2cdev.Open(name)
	case "periph":
		if _, err := host.Init(); err != nil {
			return nil, err
		}
		return i2creg.Open(busOpts.Bus)
	case "mcp2221a":
		idx := 0
		if busOpts.Bus != "" {
			var err error
			if idx, err = strconv.Atoi(busOpts.Bus); err != nil {
				return nil, fmt.Errorf("can't parse bridge index '%s'", busOpts.Bus)
			}
		}
		return mcp2221a.Open(idx)
	case "bitbang":
		scl, err := rpi.Pin(busOpts.SCL)
		if err != nil {
			return nil, fmt.Errorf("scl pin '%s': %w", busOpts.SCL, err)
		}
		sda, err := rpi.Pin(busOpts.SDA)
		if err != nil {
			return nil, fmt.Errorf("sda pin '%s': %w", busOpts.SDA, err)
		}
		chip := busOpts.Bus
		if chip == "" {
			chip = rpi.Chip
		}
		var opts []bitbang.Option
		if busOpts.PullUp {
			opts = append(opts, bitbang.WithPullUp())
		}
		return bitbang.Open(chip, scl, sda, opts...)
	case "sim":
		return mockup.New(busOpts.ID), nil
	}
	return nil, fmt.Errorf("unknown transport '%s'", busOpts.Transport)
}

// openDev opens the bus and loads the device registers.
//
// The returned bus must be closed by the caller.
func openDev() (*mcp47feb22.Dev, i2c.BusCloser, error) {
	vdd, err := parseVoltage(busOpts.VDD)
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(busOpts.Verbose)
	if err != nil {
		return nil, nil, err
	}
	b, err := openBus()
	if err != nil {
		return nil, nil, err
	}
	d, err := mcp47feb22.New(b, busOpts.ID,
		mcp47feb22.WithVDD(vdd),
		mcp47feb22.WithLogger(log.With(zap.String("bus", b.String()))),
	)
	if err != nil {
		b.Close()
		return nil, nil, err
	}
	if err = d.Begin(); err != nil {
		b.Close()
		return nil, nil, err
	}
	return d, b, nil
}
