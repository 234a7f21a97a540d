// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package mcp47feb22

import "fmt"

// Register is the memory address of a device register.
//
// Addresses 0x00-0x0F are volatile, 0x10-0x1F are the non-volatile (EEPROM)
// mirrors.
type Register uint8

// The registers used by the driver.
const (
	RegDAC0      Register = 0x00
	RegDAC1      Register = 0x01
	RegVRef      Register = 0x08
	RegPowerDown Register = 0x09
	RegGain      Register = 0x0A // gain and status
	RegWiperLock Register = 0x0B

	RegDAC0EEPROM      = RegDAC0 | eepromBank
	RegDAC1EEPROM      = RegDAC1 | eepromBank
	RegVRefEEPROM      = RegVRef | eepromBank
	RegPowerDownEEPROM = RegPowerDown | eepromBank
	RegGainEEPROM      = RegGain | eepromBank
)

const (
	eepromBank Register = 0x10
	regMask    Register = 0x1F
)

// EEPROM returns the non-volatile mirror of the register.
func (r Register) EEPROM() Register {
	return r | eepromBank
}

// IsEEPROM returns true if the register is in the non-volatile bank.
func (r Register) IsEEPROM() bool {
	return r&eepromBank != 0
}

var regNames = map[Register]string{
	RegDAC0:      "dac0",
	RegDAC1:      "dac1",
	RegVRef:      "vref",
	RegPowerDown: "powerdown",
	RegGain:      "gain",
	RegWiperLock: "wiperlock",
}

func (r Register) String() string {
	name, ok := regNames[r&^eepromBank]
	if !ok {
		name = fmt.Sprintf("0x%02x", uint8(r&^eepromBank))
	}
	if r.IsEEPROM() {
		return name + "(eeprom)"
	}
	return name
}

// command is the 2-bit command field of the command byte.
type command uint8

const (
	cmdWrite command = 0
	cmdRead  command = 3
)

// commandByte encodes the register address into bits 7-3 and the command
// into bits 2-1.  Bit 0 is unused.
func commandByte(r Register, c command) byte {
	return byte(r&regMask)<<3 | byte(c&0x03)<<1
}

// General call commands, sent to GeneralCallAddr.
const (
	gcReset byte = 0x06
	gcWake  byte = 0x0A
)

// Bus addressing.
const (
	// BaseAddress is the bus address of the device with device select 0.
	BaseAddress uint16 = 0x60

	// GeneralCallAddr is the broadcast address understood by all devices.
	GeneralCallAddr uint16 = 0x00

	// MaxID is the largest device select value.
	MaxID = 7
)

// Address returns the 7-bit bus address for the device select id.
//
// Only the low 3 bits of id are significant.
func Address(id uint8) uint16 {
	return BaseAddress | uint16(id&MaxID)
}

const (
	// MaxCode is the largest DAC code.
	MaxCode = 1<<12 - 1

	codeMask = MaxCode
	pairMask = 0x03
	gainMask = 0x01

	statusPOR  = 0x80
	statusEEWA = 0x40
)

// packCode returns the register bytes for a DAC code.
func packCode(code uint16) []byte {
	code &= codeMask
	return []byte{byte(code >> 8), byte(code)}
}

func unpackCode(b []byte) uint16 {
	return uint16(b[0]&0x0F)<<8 | uint16(b[1])
}

// packPair packs a pair of 2-bit channel fields into a register word.
//
// This is the layout of the VREF, power-down and wiper lock registers, with
// channel 0 in bits 1-0 and channel 1 in bits 3-2.
func packPair(v0, v1 uint8) uint16 {
	return uint16(v0&pairMask) | uint16(v1&pairMask)<<2
}

func unpackPair(b []byte) (uint8, uint8) {
	return b[1] & pairMask, (b[1] >> 2) & pairMask
}

// packGain packs the channel gains into bits 8 (channel 0) and 9 (channel 1).
func packGain(g0, g1 uint8) uint16 {
	return (uint16(g0&gainMask) | uint16(g1&gainMask)<<1) << 8
}

func unpackGain(b []byte) (uint8, uint8) {
	return b[0] & gainMask, (b[0] >> 1) & gainMask
}

func unpackStatus(b []byte) Status {
	return Status{
		POR:               b[1]&statusPOR != 0,
		EEPROMWriteActive: b[1]&statusEEWA != 0,
	}
}

func wordBytes(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}
