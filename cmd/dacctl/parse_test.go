// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warthog618/mcp47feb22"
	"periph.io/x/conn/v3/physic"
)

func TestParseCode(t *testing.T) {
	patterns := []struct {
		in  string
		val uint16
		ok  bool
	}{
		{"0", 0, true},
		{"4095", 4095, true},
		{"0xfff", 4095, true},
		{"4096", 0, false},
		{"-1", 0, false},
		{"one", 0, false},
	}
	for _, p := range patterns {
		v, err := parseCode(p.in)
		assert.Equal(t, p.val, v, p.in)
		assert.Equal(t, p.ok, err == nil, p.in)
	}
}

func TestParseVoltage(t *testing.T) {
	v, err := parseVoltage("3.3V")
	assert.Nil(t, err)
	assert.Equal(t, 3300*physic.MilliVolt, v)

	v, err = parseVoltage("1250mV")
	assert.Nil(t, err)
	assert.Equal(t, 1250*physic.MilliVolt, v)

	_, err = parseVoltage("lots")
	assert.NotNil(t, err)
}

func TestParseChannel(t *testing.T) {
	ch, err := parseChannel("1")
	assert.Nil(t, err)
	assert.Equal(t, mcp47feb22.Channel1, ch)
	_, err = parseChannel("2")
	assert.NotNil(t, err)
}

func TestParseSettings(t *testing.T) {
	vr, err := parseVRef("Internal")
	assert.Nil(t, err)
	assert.Equal(t, mcp47feb22.VRefInternal, vr)
	vr, err = parseVRef("pin")
	assert.Nil(t, err)
	assert.Equal(t, mcp47feb22.VRefPinUnbuffered, vr)
	_, err = parseVRef("battery")
	assert.NotNil(t, err)

	g, err := parseGain("x2")
	assert.Nil(t, err)
	assert.Equal(t, mcp47feb22.GainX2, g)
	_, err = parseGain("3")
	assert.NotNil(t, err)

	pd, err := parsePowerDown("100K")
	assert.Nil(t, err)
	assert.Equal(t, mcp47feb22.PowerDown100K, pd)
	_, err = parsePowerDown("10k")
	assert.NotNil(t, err)
}

func TestParsePair(t *testing.T) {
	c0, c1, err := parsePair([]string{"100"}, parseCode)
	assert.Nil(t, err)
	assert.Equal(t, uint16(100), c0)
	assert.Equal(t, uint16(100), c1)

	c0, c1, err = parsePair([]string{"100", "0x200"}, parseCode)
	assert.Nil(t, err)
	assert.Equal(t, uint16(100), c0)
	assert.Equal(t, uint16(0x200), c1)

	_, _, err = parsePair([]string{"100", "x"}, parseCode)
	assert.NotNil(t, err)
}
