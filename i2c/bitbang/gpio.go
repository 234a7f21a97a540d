// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux

package bitbang

import (
	"github.com/warthog618/go-gpiocdev"
)

// Consumer is the label applied to lines requested by Open.
const Consumer = "mcp47feb22-i2c"

// line is a Pin on a GPIO character device line.
type line struct {
	l   *gpiocdev.Line
	in  []gpiocdev.LineConfigOption
	out []gpiocdev.LineConfigOption
}

func (p *line) Release() error {
	return p.l.Reconfigure(p.in...)
}

func (p *line) Low() error {
	return p.l.Reconfigure(p.out...)
}

func (p *line) Value() (int, error) {
	return p.l.Value()
}

func (p *line) Close() error {
	return p.l.Close()
}

func requestPin(chip string, offset int, pullUp bool) (*line, error) {
	reqOpts := []gpiocdev.LineReqOption{gpiocdev.AsInput, gpiocdev.WithConsumer(Consumer)}
	p := &line{
		in:  []gpiocdev.LineConfigOption{gpiocdev.AsInput},
		out: []gpiocdev.LineConfigOption{gpiocdev.AsOutput(0)},
	}
	if pullUp {
		reqOpts = append(reqOpts, gpiocdev.WithPullUp)
		p.in = append(p.in, gpiocdev.WithPullUp)
	}
	l, err := gpiocdev.RequestLine(chip, offset, reqOpts...)
	if err != nil {
		return nil, err
	}
	p.l = l
	return p, nil
}

// Open creates a Bus on the scl and sda line offsets of the named GPIO chip.
func Open(chip string, scl, sda int, options ...Option) (*Bus, error) {
	var cfg Bus
	for _, option := range options {
		option(&cfg)
	}
	sclPin, err := requestPin(chip, scl, cfg.pullUp)
	if err != nil {
		return nil, err
	}
	sdaPin, err := requestPin(chip, sda, cfg.pullUp)
	if err != nil {
		sclPin.Close()
		return nil, err
	}
	b, err := New(sclPin, sdaPin, options...)
	if err != nil {
		sclPin.Close()
		sdaPin.Close()
		return nil, err
	}
	return b, nil
}
