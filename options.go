// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package mcp47feb22

import (
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"
)

// Option defines the interface required to provide an option for a Dev.
type Option interface {
	applyOption(*Dev)
}

// VDDOption sets the supply voltage of the device.
type VDDOption physic.ElectricPotential

// WithVDD sets the supply voltage used to convert between codes and voltages
// when the reference is VDD.
//
// The default is 5V.
func WithVDD(v physic.ElectricPotential) VDDOption {
	return VDDOption(v)
}

func (o VDDOption) applyOption(d *Dev) {
	d.vdd = physic.ElectricPotential(o)
}

// LoggerOption provides the logger for bus transactions.
type LoggerOption struct {
	l *zap.Logger
}

// WithLogger sets the logger used to report bus transactions.
//
// Transactions are logged at debug level, and failed transactions at warn
// level.  By default nothing is logged.
func WithLogger(l *zap.Logger) LoggerOption {
	return LoggerOption{l}
}

func (o LoggerOption) applyOption(d *Dev) {
	if o.l != nil {
		d.log = o.l
	}
}

// EEPROMWriteDelayOption sets the wait after each EEPROM register write.
type EEPROMWriteDelayOption time.Duration

// WithEEPROMWriteDelay sets the time to wait after each EEPROM write for the
// device to complete the write cycle.
//
// The default is 100ms.  A device that receives a command during an EEPROM
// write cycle will reject it.
func WithEEPROMWriteDelay(period time.Duration) EEPROMWriteDelayOption {
	return EEPROMWriteDelayOption(period)
}

func (o EEPROMWriteDelayOption) applyOption(d *Dev) {
	d.eepromDelay = time.Duration(o)
}
