// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package mcp47feb22

import "periph.io/x/conn/v3/physic"

// InternalRef is the full scale output using the internal reference with
// GainX1.  GainX2 doubles it.
const InternalRef = 2048 * physic.MilliVolt

const steps = MaxCode + 1

// Reference returns the full scale voltage of the channel for its current
// reference and gain.
//
// The VREF pin is assumed to be tied to VDD.
func (d *Dev) Reference(ch Channel) (physic.ElectricPotential, error) {
	if err := ch.check(); err != nil {
		return 0, err
	}
	return d.reference(ch), nil
}

func (d *Dev) reference(ch Channel) physic.ElectricPotential {
	s := d.snap.Volatile
	gain := physic.ElectricPotential(s.Gain[ch]) + 1
	switch s.VRef[ch] {
	case VRefVDD:
		return d.vdd
	case VRefInternal:
		return InternalRef * gain
	default:
		return d.vdd * gain
	}
}

// Vout returns the output voltage of the channel for its current code,
// reference and gain.
func (d *Dev) Vout(ch Channel) (physic.ElectricPotential, error) {
	if err := ch.check(); err != nil {
		return 0, err
	}
	if d.snap.Volatile.PowerDown[ch] != PowerDownNormal {
		return 0, nil
	}
	return d.reference(ch) * physic.ElectricPotential(d.snap.Volatile.Code[ch]) / steps, nil
}

// PotentialToCode returns the code that produces the voltage closest to v on
// the channel with its current reference and gain.
func (d *Dev) PotentialToCode(ch Channel, v physic.ElectricPotential) (uint16, error) {
	if err := ch.check(); err != nil {
		return 0, err
	}
	ref := d.reference(ch)
	if v < 0 || ref <= 0 || v > ref {
		return 0, ErrVoltageRange
	}
	code := (v*steps + ref/2) / ref
	if code > MaxCode {
		return 0, ErrVoltageRange
	}
	return uint16(code), nil
}

// WriteVoltage sets the outputs of both channels to the given voltages.
//
// The voltages are converted to codes using the current reference and gain
// of each channel, and written using AnalogWrite.
func (d *Dev) WriteVoltage(v0, v1 physic.ElectricPotential) error {
	c0, err := d.PotentialToCode(Channel0, v0)
	if err != nil {
		return err
	}
	c1, err := d.PotentialToCode(Channel1, v1)
	if err != nil {
		return err
	}
	return d.AnalogWrite(c0, c1)
}
