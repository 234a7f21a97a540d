// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package rpi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warthog618/mcp47feb22/device/rpi"
)

var patterns = []struct {
	name string
	val  int
	err  error
}{
	{"gpio0", 0, nil},
	{"gpio1", 1, nil},
	{"gpio2", 2, nil},
	{"gpio02", 2, nil},
	{"GPIO3", 3, nil},
	{"Gpio27", 27, nil},
	{"gpio28", 0, rpi.ErrInvalid},
	{"gpio-1", 0, rpi.ErrInvalid},
	{"gpiox", 0, rpi.ErrInvalid},
	{"J8p1", 0, rpi.ErrInvalid},
	{"j8p3", 2, nil},
	{"J8P5", 3, nil},
	{"J8p27", 0, nil},
	{"J8p28", 1, nil},
	{"J8p40", 21, nil},
	{"J8p41", 0, rpi.ErrInvalid},
	{"J8px", 0, rpi.ErrInvalid},
	{"SDA1", rpi.GPIO2, nil},
	{"scl1", rpi.GPIO3, nil},
	{"sda0", rpi.GPIO0, nil},
	{"scl0", rpi.GPIO1, nil},
	{"scl2", 0, rpi.ErrInvalid},
	{"2", 2, nil},
	{"27", 27, nil},
	{"40", 0, rpi.ErrInvalid},
	{"", 0, rpi.ErrInvalid},
}

func TestPin(t *testing.T) {
	for _, p := range patterns {
		tf := func(t *testing.T) {
			val, err := rpi.Pin(p.name)
			assert.Equal(t, p.err, err)
			assert.Equal(t, p.val, val)
		}
		t.Run(p.name, tf)
	}
}

func TestMustPin(t *testing.T) {
	for _, p := range patterns {
		tf := func(t *testing.T) {
			if p.err != nil {
				assert.Panics(t, func() {
					rpi.MustPin(p.name)
				})
			} else {
				val := rpi.MustPin(p.name)
				assert.Equal(t, p.val, val)
			}
		}
		t.Run(p.name, tf)
	}
}

func TestI2C(t *testing.T) {
	pins, err := rpi.I2C(1)
	assert.Nil(t, err)
	assert.Equal(t, rpi.I2CPins{SCL: 3, SDA: 2}, pins)
	assert.Equal(t, rpi.MustPin("J8p5"), pins.SCL)
	assert.Equal(t, rpi.MustPin("J8p3"), pins.SDA)

	pins, err = rpi.I2C(0)
	assert.Nil(t, err)
	assert.Equal(t, rpi.I2CPins{SCL: 1, SDA: 0}, pins)

	_, err = rpi.I2C(2)
	assert.Equal(t, rpi.ErrInvalid, err)
}
