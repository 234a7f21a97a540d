// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package mcp47feb22 provides a driver for the Microchip MCP47FEB22 dual
// channel 12-bit I2C DAC.
//
// The driver mirrors the volatile registers and their non-volatile (EEPROM)
// copies in a Snapshot, which is loaded from the device by Begin or Refresh
// and updated by the setters as they write to the device.
//
// Datasheet: http://ww1.microchip.com/downloads/en/DeviceDoc/20005375A.pdf
package mcp47feb22

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Channel identifies one of the two DAC outputs.
type Channel int

// The DAC channels.
const (
	Channel0 Channel = iota
	Channel1
)

func (c Channel) check() error {
	if c != Channel0 && c != Channel1 {
		return ErrInvalidChannel
	}
	return nil
}

// VRef selects the voltage reference of a channel.
type VRef uint8

const (
	// VRefVDD uses the supply as the reference.  Gain is ignored.
	VRefVDD VRef = iota

	// VRefInternal uses the internal 2.048V band gap reference.
	VRefInternal

	// VRefPinUnbuffered uses the VREF pin, unbuffered.
	VRefPinUnbuffered

	// VRefPinBuffered uses the VREF pin, buffered.
	VRefPinBuffered
)

func (v VRef) String() string {
	switch v {
	case VRefVDD:
		return "vdd"
	case VRefInternal:
		return "internal"
	case VRefPinUnbuffered:
		return "pin-unbuffered"
	case VRefPinBuffered:
		return "pin-buffered"
	}
	return fmt.Sprintf("vref(%d)", uint8(v))
}

// Gain selects the output amplifier gain of a channel.
type Gain uint8

// The gains.
const (
	GainX1 Gain = iota
	GainX2
)

func (g Gain) String() string {
	switch g {
	case GainX1:
		return "x1"
	case GainX2:
		return "x2"
	}
	return fmt.Sprintf("gain(%d)", uint8(g))
}

// PowerDown selects the power-down mode of a channel.
type PowerDown uint8

const (
	// PowerDownNormal is normal operation, with the output driven.
	PowerDownNormal PowerDown = iota

	// The remaining modes disconnect the output and tie it to ground through
	// the indicated resistance.
	PowerDown1K
	PowerDown100K
	PowerDown500K
)

func (p PowerDown) String() string {
	switch p {
	case PowerDownNormal:
		return "normal"
	case PowerDown1K:
		return "1k"
	case PowerDown100K:
		return "100k"
	case PowerDown500K:
		return "500k"
	}
	return fmt.Sprintf("powerdown(%d)", uint8(p))
}

// Settings are the configurable fields of one register bank, indexed by
// Channel.
type Settings struct {
	Code      [2]uint16
	VRef      [2]VRef
	Gain      [2]Gain
	PowerDown [2]PowerDown
}

func (s Settings) vrefWord() uint16 {
	return packPair(uint8(s.VRef[0]), uint8(s.VRef[1]))
}

func (s Settings) gainWord() uint16 {
	return packGain(uint8(s.Gain[0]), uint8(s.Gain[1]))
}

func (s Settings) powerDownWord() uint16 {
	return packPair(uint8(s.PowerDown[0]), uint8(s.PowerDown[1]))
}

// Status contains the status bits of the gain and status register.
type Status struct {
	// POR is set if the device has been reset since power up.
	POR bool

	// EEPROMWriteActive is set while an EEPROM write cycle is in progress.
	EEPROMWriteActive bool
}

// Snapshot is the driver's copy of the device registers.
type Snapshot struct {
	Volatile  Settings
	EEPROM    Settings
	WiperLock [2]uint8
	Status    Status
}

func (s *Snapshot) bank(r Register) *Settings {
	if r.IsEEPROM() {
		return &s.EEPROM
	}
	return &s.Volatile
}

func (s Snapshot) String() string {
	var b strings.Builder
	for ch := 0; ch < 2; ch++ {
		fmt.Fprintf(&b, "ch%d: code=%d vref=%s gain=%s powerdown=%s wiperlock=%d\n",
			ch, s.Volatile.Code[ch], s.Volatile.VRef[ch], s.Volatile.Gain[ch],
			s.Volatile.PowerDown[ch], s.WiperLock[ch])
		fmt.Fprintf(&b, "     eeprom code=%d vref=%s gain=%s powerdown=%s\n",
			s.EEPROM.Code[ch], s.EEPROM.VRef[ch], s.EEPROM.Gain[ch],
			s.EEPROM.PowerDown[ch])
	}
	fmt.Fprintf(&b, "por=%t eewa=%t", s.Status.POR, s.Status.EEPROMWriteActive)
	return b.String()
}

// Dev represents an MCP47FEB22 on an I2C bus.
//
// A Dev is not safe for concurrent use.
type Dev struct {
	bus         i2c.Bus
	d           i2c.Dev
	id          uint8
	vdd         physic.ElectricPotential
	eepromDelay time.Duration
	log         *zap.Logger
	snap        Snapshot
}

// DefaultVDD is the supply voltage assumed unless WithVDD is provided.
const DefaultVDD = 5000 * physic.MilliVolt

// DefaultEEPROMWriteDelay is the wait after each EEPROM write.
const DefaultEEPROMWriteDelay = 100 * time.Millisecond

// New creates a Dev for the device with device select id on the bus.
//
// No bus transactions are performed.  Call Begin to load the snapshot from the
// device.
func New(bus i2c.Bus, id uint8, options ...Option) (*Dev, error) {
	if id > MaxID {
		return nil, ErrInvalidID
	}
	d := &Dev{
		bus:         bus,
		d:           i2c.Dev{Bus: bus, Addr: Address(id)},
		id:          id,
		vdd:         DefaultVDD,
		eepromDelay: DefaultEEPROMWriteDelay,
		log:         zap.NewNop(),
	}
	for _, option := range options {
		option.applyOption(d)
	}
	d.log = d.log.With(zap.String("dev", d.String()))
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("mcp47feb22@0x%02x", d.d.Addr)
}

// ID returns the device select of the device.
func (d *Dev) ID() uint8 {
	return d.id
}

// Addr returns the bus address of the device.
func (d *Dev) Addr() uint16 {
	return d.d.Addr
}

// VDD returns the supply voltage used for voltage conversions.
func (d *Dev) VDD() physic.ElectricPotential {
	return d.vdd
}

// SetVDD sets the supply voltage used for voltage conversions.
//
// This has no effect on the device.
func (d *Dev) SetVDD(v physic.ElectricPotential) {
	d.vdd = v
}

// Begin loads the snapshot from the device.
//
// The bus must be open.  Begin should be called before any of the getters or
// voltage conversions are used.
func (d *Dev) Begin() error {
	d.log.Debug("begin")
	return d.Refresh()
}

type decoder func(s *Snapshot, r Register, b []byte)

func decodeDAC0(s *Snapshot, r Register, b []byte) {
	s.bank(r).Code[0] = unpackCode(b)
}

func decodeDAC1(s *Snapshot, r Register, b []byte) {
	s.bank(r).Code[1] = unpackCode(b)
}

func decodeVRef(s *Snapshot, r Register, b []byte) {
	v0, v1 := unpackPair(b)
	s.bank(r).VRef = [2]VRef{VRef(v0), VRef(v1)}
}

func decodePowerDown(s *Snapshot, r Register, b []byte) {
	p0, p1 := unpackPair(b)
	s.bank(r).PowerDown = [2]PowerDown{PowerDown(p0), PowerDown(p1)}
}

func decodeGain(s *Snapshot, r Register, b []byte) {
	g0, g1 := unpackGain(b)
	s.bank(r).Gain = [2]Gain{Gain(g0), Gain(g1)}
	if !r.IsEEPROM() {
		s.Status = unpackStatus(b)
	}
}

func decodeWiperLock(s *Snapshot, r Register, b []byte) {
	w0, w1 := unpackPair(b)
	s.WiperLock = [2]uint8{w0, w1}
}

// refreshOrder is the sequence of reads performed by Refresh.
//
// The wiper lock bits are themselves non-volatile, so have no EEPROM mirror.
var refreshOrder = []struct {
	reg    Register
	decode decoder
}{
	{RegDAC0, decodeDAC0},
	{RegDAC1, decodeDAC1},
	{RegVRef, decodeVRef},
	{RegPowerDown, decodePowerDown},
	{RegGain, decodeGain},
	{RegWiperLock, decodeWiperLock},
	{RegDAC0EEPROM, decodeDAC0},
	{RegDAC1EEPROM, decodeDAC1},
	{RegVRefEEPROM, decodeVRef},
	{RegPowerDownEEPROM, decodePowerDown},
	{RegGainEEPROM, decodeGain},
}

// Refresh reads all volatile and EEPROM registers from the device into the
// snapshot.
//
// The registers are read in sequence.  Fields of a register that cannot be
// read retain their previous value, and the failure is included in the
// returned error.
func (d *Dev) Refresh() error {
	var errs error
	for _, g := range refreshOrder {
		b, err := d.read(g.reg)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		g.decode(&d.snap, g.reg, b)
	}
	return errs
}

// Snapshot returns a copy of the current snapshot.
func (d *Dev) Snapshot() Snapshot {
	return d.snap
}

func (d *Dev) read(r Register) ([]byte, error) {
	b := make([]byte, 2)
	if err := d.d.Tx([]byte{commandByte(r, cmdRead)}, b); err != nil {
		d.log.Warn("read failed", zap.Stringer("reg", r), zap.Error(err))
		return nil, &RegisterError{Reg: r, Op: "read", Err: err}
	}
	d.log.Debug("read", zap.Stringer("reg", r), zap.Binary("data", b))
	return b, nil
}

// ReadRegister returns the current value of a register.
//
// The snapshot is not updated.
func (d *Dev) ReadRegister(r Register) (uint16, error) {
	b, err := d.read(r)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// WriteRegister writes a value to a register.
//
// This is the primitive used by all the setters.  The snapshot is not
// updated.
func (d *Dev) WriteRegister(r Register, v uint16) error {
	w := append([]byte{commandByte(r, cmdWrite)}, wordBytes(v)...)
	if err := d.d.Tx(w, nil); err != nil {
		d.log.Warn("write failed", zap.Stringer("reg", r), zap.Error(err))
		return &RegisterError{Reg: r, Op: "write", Err: err}
	}
	d.log.Debug("write", zap.Stringer("reg", r), zap.Uint16("value", v))
	return nil
}

// AnalogWrite sets the DAC codes of both channels.
//
// Codes are truncated to 12 bits.  Both channels are written even if the
// first write fails.
func (d *Dev) AnalogWrite(code0, code1 uint16) error {
	s := &d.snap.Volatile
	s.Code[0] = code0 & codeMask
	s.Code[1] = code1 & codeMask
	return multierr.Combine(
		d.WriteRegister(RegDAC0, s.Code[0]),
		d.WriteRegister(RegDAC1, s.Code[1]),
	)
}

// SetVRef sets the voltage reference of both channels.
func (d *Dev) SetVRef(v0, v1 VRef) error {
	if v0 > VRefPinBuffered || v1 > VRefPinBuffered {
		return ErrInvalidValue
	}
	s := &d.snap.Volatile
	s.VRef = [2]VRef{v0, v1}
	return d.WriteRegister(RegVRef, s.vrefWord())
}

// SetGain sets the gain of both channels.
func (d *Dev) SetGain(g0, g1 Gain) error {
	if g0 > GainX2 || g1 > GainX2 {
		return ErrInvalidValue
	}
	s := &d.snap.Volatile
	s.Gain = [2]Gain{g0, g1}
	return d.WriteRegister(RegGain, s.gainWord())
}

// SetPowerDown sets the power-down mode of both channels.
func (d *Dev) SetPowerDown(p0, p1 PowerDown) error {
	if p0 > PowerDown500K || p1 > PowerDown500K {
		return ErrInvalidValue
	}
	s := &d.snap.Volatile
	s.PowerDown = [2]PowerDown{p0, p1}
	return d.WriteRegister(RegPowerDown, s.powerDownWord())
}

// SaveEEPROM copies the volatile settings into the EEPROM.
//
// The registers are written in sequence with a delay after each to allow the
// device to complete the EEPROM write cycle.  All registers are written even
// if some fail.
func (d *Dev) SaveEEPROM() error {
	d.snap.EEPROM = d.snap.Volatile
	s := d.snap.EEPROM
	writes := []struct {
		reg Register
		val uint16
	}{
		{RegDAC0EEPROM, s.Code[0]},
		{RegDAC1EEPROM, s.Code[1]},
		{RegVRefEEPROM, s.vrefWord()},
		{RegGainEEPROM, s.gainWord()},
		{RegPowerDownEEPROM, s.powerDownWord()},
	}
	var errs error
	for _, w := range writes {
		errs = multierr.Append(errs, d.WriteRegister(w.reg, w.val))
		time.Sleep(d.eepromDelay)
	}
	return errs
}

// ResetEEPROM restores the factory defaults to the EEPROM.
//
// The volatile settings are zeroed and then saved to EEPROM.  The volatile
// registers on the device are not written, so call Reset to load the
// defaults into them.
func (d *Dev) ResetEEPROM() error {
	d.snap.Volatile = Settings{}
	return d.SaveEEPROM()
}

// Reset issues a general call reset, which causes all devices on the bus to
// load their volatile registers from EEPROM.
//
// The snapshot is not updated.  The error from the bus is returned as is.
func (d *Dev) Reset() error {
	return d.generalCall(gcReset)
}

// Wake issues a general call wake-up, which clears the power-down bits of all
// devices on the bus.
//
// The snapshot is not updated.  The error from the bus is returned as is.
func (d *Dev) Wake() error {
	return d.generalCall(gcWake)
}

func (d *Dev) generalCall(c byte) error {
	err := d.bus.Tx(GeneralCallAddr, []byte{c}, nil)
	d.log.Debug("general call", zap.Uint8("command", c), zap.Error(err))
	return err
}

// Value returns the DAC code of the channel.
func (d *Dev) Value(ch Channel) (uint16, error) {
	if err := ch.check(); err != nil {
		return 0, err
	}
	return d.snap.Volatile.Code[ch], nil
}

// VRef returns the voltage reference of the channel.
func (d *Dev) VRef(ch Channel) (VRef, error) {
	if err := ch.check(); err != nil {
		return 0, err
	}
	return d.snap.Volatile.VRef[ch], nil
}

// Gain returns the gain of the channel.
func (d *Dev) Gain(ch Channel) (Gain, error) {
	if err := ch.check(); err != nil {
		return 0, err
	}
	return d.snap.Volatile.Gain[ch], nil
}

// PowerDown returns the power-down mode of the channel.
func (d *Dev) PowerDown(ch Channel) (PowerDown, error) {
	if err := ch.check(); err != nil {
		return 0, err
	}
	return d.snap.Volatile.PowerDown[ch], nil
}

// EEPROMValue returns the DAC code of the channel stored in EEPROM.
func (d *Dev) EEPROMValue(ch Channel) (uint16, error) {
	if err := ch.check(); err != nil {
		return 0, err
	}
	return d.snap.EEPROM.Code[ch], nil
}

// EEPROMVRef returns the voltage reference of the channel stored in EEPROM.
func (d *Dev) EEPROMVRef(ch Channel) (VRef, error) {
	if err := ch.check(); err != nil {
		return 0, err
	}
	return d.snap.EEPROM.VRef[ch], nil
}

// EEPROMGain returns the gain of the channel stored in EEPROM.
func (d *Dev) EEPROMGain(ch Channel) (Gain, error) {
	if err := ch.check(); err != nil {
		return 0, err
	}
	return d.snap.EEPROM.Gain[ch], nil
}

// EEPROMPowerDown returns the power-down mode of the channel stored in EEPROM.
func (d *Dev) EEPROMPowerDown(ch Channel) (PowerDown, error) {
	if err := ch.check(); err != nil {
		return 0, err
	}
	return d.snap.EEPROM.PowerDown[ch], nil
}

// WiperLock returns the wiper lock bits of the channel.
func (d *Dev) WiperLock(ch Channel) (uint8, error) {
	if err := ch.check(); err != nil {
		return 0, err
	}
	return d.snap.WiperLock[ch], nil
}
