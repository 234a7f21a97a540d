// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package bitbang provides a bit bashed I2C master using two GPIO lines.
//
// The lines are driven open-drain by switching them between output low and
// input, so both require pull-ups, either external or by WithPullUp.
//
// This is not related to the I2C adapters provided by Linux.
package bitbang

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/physic"
)

// Pin is one line of the bus.
type Pin interface {
	// Release stops driving the line, allowing it to be pulled high.
	Release() error

	// Low drives the line low.
	Low() error

	// Value returns the current level of the line.
	Value() (int, error)

	// Close releases the line.
	Close() error
}

var (
	// ErrNACK indicates a byte was not acknowledged by the target.
	ErrNACK = errors.New("bitbang: NACK")

	// ErrClockStretch indicates the target held SCL low for longer than the
	// stretch timeout.
	ErrClockStretch = errors.New("bitbang: clock stretch timeout")

	// ErrBusBusy indicates a line was held low when the bus was opened.
	ErrBusBusy = errors.New("bitbang: bus busy")

	// ErrClosed indicates the bus is closed.
	ErrClosed = errors.New("bitbang: closed")
)

// Bus is an I2C master on a pair of GPIO lines.
//
// Bus implements i2c.BusCloser.
type Bus struct {
	mu sync.Mutex
	// time between clock edges (i.e. half the cycle time)
	tclk    time.Duration
	stretch time.Duration
	pullUp  bool
	scl     Pin
	sda     Pin
}

// DefaultTclk is the half cycle period for a 100kHz clock.
const DefaultTclk = 5 * time.Microsecond

// DefaultStretchTimeout is the longest a target may hold SCL low.
const DefaultStretchTimeout = 10 * time.Millisecond

// New creates a Bus on the scl and sda pins.
//
// Both lines are released, and must then read high.
func New(scl, sda Pin, options ...Option) (*Bus, error) {
	b := &Bus{
		tclk:    DefaultTclk,
		stretch: DefaultStretchTimeout,
		scl:     scl,
		sda:     sda,
	}
	for _, option := range options {
		option(b)
	}
	if err := scl.Release(); err != nil {
		return nil, err
	}
	if err := sda.Release(); err != nil {
		return nil, err
	}
	for _, p := range []Pin{scl, sda} {
		v, err := p.Value()
		if err != nil {
			return nil, err
		}
		if v == 0 {
			return nil, ErrBusBusy
		}
	}
	return b, nil
}

func (b *Bus) String() string {
	return fmt.Sprintf("bitbang(%s)", b.tclk*2)
}

// Close releases the lines.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.scl == nil {
		return ErrClosed
	}
	err := b.scl.Close()
	if serr := b.sda.Close(); err == nil {
		err = serr
	}
	b.scl = nil
	b.sda = nil
	return err
}

// SetSpeed sets the clock frequency.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	if f <= 0 {
		return fmt.Errorf("bitbang: invalid speed %s", f)
	}
	b.mu.Lock()
	b.tclk = f.Period() / 2
	b.mu.Unlock()
	return nil
}

// Tx performs a transaction with the target at addr.
//
// If both w and r are provided the write is followed by a repeated start and
// the read.  Transactions are serialised.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.scl == nil {
		return ErrClosed
	}
	err := b.tx(addr, w, r)
	if serr := b.stop(); err == nil {
		err = serr
	}
	return err
}

func (b *Bus) tx(addr uint16, w, r []byte) error {
	if err := b.start(); err != nil {
		return err
	}
	if len(w) > 0 || len(r) == 0 {
		if err := b.writeByte(byte(addr << 1)); err != nil {
			return err
		}
		for _, v := range w {
			if err := b.writeByte(v); err != nil {
				return err
			}
		}
		if len(r) == 0 {
			return nil
		}
		if err := b.restart(); err != nil {
			return err
		}
	}
	if err := b.writeByte(byte(addr<<1) | 1); err != nil {
		return err
	}
	for i := range r {
		v, err := b.readByte(i < len(r)-1)
		if err != nil {
			return err
		}
		r[i] = v
	}
	return nil
}

// start issues a start condition from idle.
//
// Ends with SCL low.
func (b *Bus) start() error {
	if err := b.sda.Release(); err != nil {
		return err
	}
	if err := b.releaseSCL(); err != nil {
		return err
	}
	time.Sleep(b.tclk)
	if err := b.sda.Low(); err != nil {
		return err
	}
	time.Sleep(b.tclk)
	return b.scl.Low()
}

// restart issues a repeated start.
//
// Starts and ends with SCL low.
func (b *Bus) restart() error {
	if err := b.sda.Release(); err != nil {
		return err
	}
	time.Sleep(b.tclk)
	return b.start()
}

// stop issues a stop condition, leaving both lines released.
func (b *Bus) stop() error {
	if err := b.scl.Low(); err != nil {
		return err
	}
	if err := b.sda.Low(); err != nil {
		return err
	}
	time.Sleep(b.tclk)
	if err := b.releaseSCL(); err != nil {
		return err
	}
	time.Sleep(b.tclk)
	return b.sda.Release()
}

// releaseSCL releases SCL and waits for any clock stretching by the target.
func (b *Bus) releaseSCL() error {
	if err := b.scl.Release(); err != nil {
		return err
	}
	deadline := time.Now().Add(b.stretch)
	for {
		v, err := b.scl.Value()
		if err != nil {
			return err
		}
		if v == 1 {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrClockStretch
		}
		time.Sleep(b.tclk)
	}
}

// writeBit clocks out a bit on SDA.
//
// Starts and ends with SCL low.
func (b *Bus) writeBit(v int) error {
	var err error
	if v == 0 {
		err = b.sda.Low()
	} else {
		err = b.sda.Release()
	}
	if err != nil {
		return err
	}
	time.Sleep(b.tclk)
	if err = b.releaseSCL(); err != nil {
		return err
	}
	time.Sleep(b.tclk)
	return b.scl.Low()
}

// readBit clocks in a bit from SDA.
//
// Starts and ends with SCL low.
func (b *Bus) readBit() (int, error) {
	if err := b.sda.Release(); err != nil {
		return 0, err
	}
	time.Sleep(b.tclk)
	if err := b.releaseSCL(); err != nil {
		return 0, err
	}
	time.Sleep(b.tclk)
	v, err := b.sda.Value()
	if err != nil {
		return 0, err
	}
	return v, b.scl.Low()
}

func (b *Bus) writeByte(v byte) error {
	for i := 7; i >= 0; i-- {
		if err := b.writeBit(int(v>>uint(i)) & 1); err != nil {
			return err
		}
	}
	ack, err := b.readBit()
	if err != nil {
		return err
	}
	if ack != 0 {
		return ErrNACK
	}
	return nil
}

func (b *Bus) readByte(ack bool) (byte, error) {
	var v byte
	for i := 0; i < 8; i++ {
		d, err := b.readBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | byte(d)
	}
	nack := 1
	if ack {
		nack = 0
	}
	return v, b.writeBit(nack)
}

// Option specifies a construction option for the Bus.
type Option func(*Bus)

// WithTclk sets the clock period for the Bus.
//
// Note that this is the half-cycle period.
func WithTclk(tclk time.Duration) Option {
	return func(b *Bus) {
		b.tclk = tclk
	}
}

// WithStretchTimeout sets the longest period a target may hold SCL low.
func WithStretchTimeout(period time.Duration) Option {
	return func(b *Bus) {
		b.stretch = period
	}
}

// WithPullUp enables the internal pull-ups on lines requested by Open.
func WithPullUp() Option {
	return func(b *Bus) {
		b.pullUp = true
	}
}
