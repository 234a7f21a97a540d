// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package rpi provides convenience mappings from Raspberry Pi pin names to
// line offsets, and the pins of the Pi's I2C buses.
package rpi

import (
	"errors"
	"strconv"
	"strings"
)

// Chip is the GPIO chip carrying the header pins.
const Chip = "gpiochip0"

// BCM offsets of the I2C pins.
const (
	GPIO0 = 0 // ID_SD
	GPIO1 = 1 // ID_SC
	GPIO2 = 2 // SDA1
	GPIO3 = 3 // SCL1
)

// MaxGPIOPin is one more than the highest header GPIO.
const MaxGPIOPin = 28

// j8 maps J8 header pins to BCM offsets.
var j8 = map[int]int{
	3:  2,
	5:  3,
	7:  4,
	8:  14,
	10: 15,
	11: 17,
	12: 18,
	13: 27,
	15: 22,
	16: 23,
	18: 24,
	19: 10,
	21: 9,
	22: 25,
	23: 11,
	24: 8,
	26: 7,
	27: 0,
	28: 1,
	29: 5,
	31: 6,
	32: 12,
	33: 13,
	35: 19,
	36: 16,
	37: 26,
	38: 20,
	40: 21,
}

// I2CPins are the offsets of the lines of an I2C bus.
type I2CPins struct {
	SCL int
	SDA int
}

// I2C buses on the J8 header.
var (
	// I2C0 is the HAT EEPROM bus on J8p28 and J8p27.
	I2C0 = I2CPins{SCL: GPIO1, SDA: GPIO0}

	// I2C1 is the general purpose bus on J8p5 and J8p3.
	I2C1 = I2CPins{SCL: GPIO3, SDA: GPIO2}
)

var i2cNames = map[string]int{
	"sda0": GPIO0,
	"scl0": GPIO1,
	"sda1": GPIO2,
	"scl1": GPIO3,
}

// ErrInvalid indicates the pin name does not match a known pin.
var ErrInvalid = errors.New("invalid pin name")

// I2C returns the pins of the numbered I2C bus.
func I2C(n int) (I2CPins, error) {
	switch n {
	case 0:
		return I2C0, nil
	case 1:
		return I2C1, nil
	}
	return I2CPins{}, ErrInvalid
}

func rangeCheck(p int64) (int, error) {
	if p < 0 || p >= MaxGPIOPin {
		return 0, ErrInvalid
	}
	return int(p), nil
}

// Pin maps a pin string name to a line offset.
//
// Pin names are case insensitive and may be of the form J8pX, GPIOX, SDAX,
// SCLX or X.
func Pin(s string) (int, error) {
	s = strings.ToLower(s)
	if v, ok := i2cNames[s]; ok {
		return v, nil
	}
	switch {
	case strings.HasPrefix(s, "j8p"):
		n, err := strconv.Atoi(s[3:])
		if err != nil {
			return 0, ErrInvalid
		}
		v, ok := j8[n]
		if !ok {
			return 0, ErrInvalid
		}
		return v, nil
	case strings.HasPrefix(s, "gpio"):
		s = s[4:]
	}
	v, err := strconv.ParseInt(s, 10, 8)
	if err != nil {
		return 0, ErrInvalid
	}
	return rangeCheck(v)
}

// MustPin converts the string to the corresponding pin number or panics if that
// is not possible.
func MustPin(s string) int {
	v, err := Pin(s)
	if err != nil {
		panic(err)
	}
	return v
}
