// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/warthog618/mcp47feb22"
	"periph.io/x/conn/v3/physic"
)

func parseCode(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil || v > mcp47feb22.MaxCode {
		return 0, fmt.Errorf("can't parse code '%s'", s)
	}
	return uint16(v), nil
}

func parseVoltage(s string) (physic.ElectricPotential, error) {
	var v physic.ElectricPotential
	if err := v.Set(s); err != nil {
		return 0, fmt.Errorf("can't parse voltage '%s'", s)
	}
	return v, nil
}

func parseChannel(s string) (mcp47feb22.Channel, error) {
	switch s {
	case "0":
		return mcp47feb22.Channel0, nil
	case "1":
		return mcp47feb22.Channel1, nil
	}
	return 0, fmt.Errorf("can't parse channel '%s'", s)
}

func parseVRef(s string) (mcp47feb22.VRef, error) {
	switch strings.ToLower(s) {
	case "vdd":
		return mcp47feb22.VRefVDD, nil
	case "internal":
		return mcp47feb22.VRefInternal, nil
	case "pin", "pin-unbuffered":
		return mcp47feb22.VRefPinUnbuffered, nil
	case "pin-buffered":
		return mcp47feb22.VRefPinBuffered, nil
	}
	return 0, fmt.Errorf("can't parse vref '%s'", s)
}

func parseGain(s string) (mcp47feb22.Gain, error) {
	switch strings.ToLower(s) {
	case "1", "x1":
		return mcp47feb22.GainX1, nil
	case "2", "x2":
		return mcp47feb22.GainX2, nil
	}
	return 0, fmt.Errorf("can't parse gain '%s'", s)
}

func parsePowerDown(s string) (mcp47feb22.PowerDown, error) {
	switch strings.ToLower(s) {
	case "normal", "0":
		return mcp47feb22.PowerDownNormal, nil
	case "1k":
		return mcp47feb22.PowerDown1K, nil
	case "100k":
		return mcp47feb22.PowerDown100K, nil
	case "500k":
		return mcp47feb22.PowerDown500K, nil
	}
	return 0, fmt.Errorf("can't parse powerdown '%s'", s)
}

// parsePair parses a value for each channel, or a single value applied to
// both.
func parsePair[T any](args []string, parse func(string) (T, error)) (T, T, error) {
	var v0, v1 T
	v0, err := parse(args[0])
	if err != nil {
		return v0, v1, err
	}
	if len(args) == 1 {
		return v0, v0, nil
	}
	v1, err = parse(args[1])
	return v0, v1, err
}
