// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package mockup provides a simulated MCP47FEB22 on an I2C bus.
//
// This is intended for testing of mcp47feb22, but could also be used for
// testing by users of their own code that uses mcp47feb22.
package mockup

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/mcp47feb22"
	"periph.io/x/conn/v3/physic"
)

var (
	// ErrNACK indicates the transaction was not acknowledged.
	ErrNACK = errors.New("mockup: NACK")

	// ErrBusy indicates the transaction arrived during an EEPROM write cycle.
	ErrBusy = errors.New("mockup: EEPROM write in progress")
)

// Tx records a transaction received by the Sim.
type Tx struct {
	Addr uint16
	W    []byte
	R    []byte
}

// Sim represents a single simulated MCP47FEB22.
//
// Sim implements i2c.Bus, so the driver can be connected to it directly.
// Transactions to addresses other than the device and the general call
// address are not acknowledged.
type Sim struct {
	mu        sync.Mutex
	addr      uint16
	regs      [32]uint16
	writeTime time.Duration
	busyUntil time.Time
	faults    map[mcp47feb22.Register]error
	txs       []Tx
}

// Option specifies a construction option for the Sim.
type Option func(*Sim)

// WithEEPROMWriteTime sets the duration of the EEPROM write cycle.
//
// Transactions received during the write cycle fail with ErrBusy.
// The default is zero, i.e. EEPROM writes complete immediately.
func WithEEPROMWriteTime(period time.Duration) Option {
	return func(s *Sim) {
		s.writeTime = period
	}
}

// WithRegister sets the initial value of a register.
func WithRegister(r mcp47feb22.Register, v uint16) Option {
	return func(s *Sim) {
		s.regs[r&0x1f] = v
	}
}

const (
	porBit   = 0x0080
	gainBits = 0x0300
)

var writable = map[mcp47feb22.Register]uint16{
	mcp47feb22.RegDAC0:            mcp47feb22.MaxCode,
	mcp47feb22.RegDAC1:            mcp47feb22.MaxCode,
	mcp47feb22.RegVRef:            0x000f,
	mcp47feb22.RegPowerDown:       0x000f,
	mcp47feb22.RegGain:            gainBits,
	mcp47feb22.RegDAC0EEPROM:      mcp47feb22.MaxCode,
	mcp47feb22.RegDAC1EEPROM:      mcp47feb22.MaxCode,
	mcp47feb22.RegVRefEEPROM:      0x000f,
	mcp47feb22.RegPowerDownEEPROM: 0x000f,
	mcp47feb22.RegGainEEPROM:      gainBits,
}

// New creates a Sim for the device with device select id.
//
// The device powers up with all settings zero and the POR status bit set.
func New(id uint8, options ...Option) *Sim {
	s := &Sim{
		addr:   mcp47feb22.Address(id),
		faults: make(map[mcp47feb22.Register]error),
	}
	s.regs[mcp47feb22.RegGain] = porBit
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Sim) String() string {
	return fmt.Sprintf("mockup@0x%02x", s.addr)
}

// Addr returns the bus address of the simulated device.
func (s *Sim) Addr() uint16 {
	return s.addr
}

// SetSpeed implements i2c.Bus.
func (s *Sim) SetSpeed(f physic.Frequency) error {
	return nil
}

// Close implements i2c.BusCloser.
func (s *Sim) Close() error {
	return nil
}

// Register returns the current value of a device register.
func (s *Sim) Register(r mcp47feb22.Register) uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[r&0x1f]
}

// SetRegister sets the value of a device register, bypassing the bus.
func (s *Sim) SetRegister(r mcp47feb22.Register, v uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[r&0x1f] = v
}

// Fail causes subsequent transactions addressing the register to fail with
// err.  A nil err clears the fault.
func (s *Sim) Fail(r mcp47feb22.Register, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, r)
		return
	}
	s.faults[r] = err
}

// Txs returns the transactions received since the Sim was created or last
// cleared.
func (s *Sim) Txs() []Tx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Tx(nil), s.txs...)
}

// ClearTxs discards the recorded transactions.
func (s *Sim) ClearTxs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = nil
}

// Tx implements i2c.Bus.
func (s *Sim) Tx(addr uint16, w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, Tx{
		Addr: addr,
		W:    append([]byte(nil), w...),
	})
	err := s.tx(addr, w, r)
	s.txs[len(s.txs)-1].R = append([]byte(nil), r...)
	return err
}

func (s *Sim) tx(addr uint16, w, r []byte) error {
	switch addr {
	case mcp47feb22.GeneralCallAddr:
		return s.generalCall(w, r)
	case s.addr:
	default:
		return ErrNACK
	}
	if len(w) == 0 {
		return ErrNACK
	}
	if time.Now().Before(s.busyUntil) {
		return ErrBusy
	}
	reg := mcp47feb22.Register(w[0] >> 3)
	if err, ok := s.faults[reg]; ok {
		return err
	}
	switch (w[0] >> 1) & 0x03 {
	case 0:
		return s.write(reg, w[1:], r)
	case 3:
		return s.read(reg, w[1:], r)
	}
	return ErrNACK
}

func (s *Sim) generalCall(w, r []byte) error {
	if len(w) != 1 || len(r) != 0 {
		return ErrNACK
	}
	switch w[0] {
	case 0x06:
		// reset loads the volatile registers from EEPROM
		s.regs[mcp47feb22.RegDAC0] = s.regs[mcp47feb22.RegDAC0EEPROM]
		s.regs[mcp47feb22.RegDAC1] = s.regs[mcp47feb22.RegDAC1EEPROM]
		s.regs[mcp47feb22.RegVRef] = s.regs[mcp47feb22.RegVRefEEPROM]
		s.regs[mcp47feb22.RegPowerDown] = s.regs[mcp47feb22.RegPowerDownEEPROM]
		s.regs[mcp47feb22.RegGain] = s.regs[mcp47feb22.RegGainEEPROM]&gainBits | porBit
	case 0x0A:
		s.regs[mcp47feb22.RegPowerDown] = 0
	default:
		return ErrNACK
	}
	return nil
}

func (s *Sim) write(reg mcp47feb22.Register, data, r []byte) error {
	mask, ok := writable[reg]
	if !ok || len(data) != 2 || len(r) != 0 {
		return ErrNACK
	}
	v := uint16(data[0])<<8 | uint16(data[1])
	s.regs[reg] = s.regs[reg]&^mask | v&mask
	if reg.IsEEPROM() {
		s.busyUntil = time.Now().Add(s.writeTime)
	}
	return nil
}

func (s *Sim) read(reg mcp47feb22.Register, data, r []byte) error {
	_, ok := writable[reg]
	if (!ok && reg != mcp47feb22.RegWiperLock) || len(data) != 0 || len(r) != 2 {
		return ErrNACK
	}
	v := s.regs[reg]
	r[0] = byte(v >> 8)
	r[1] = byte(v)
	return nil
}
