// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package mcp2221a provides an I2C bus on a Microchip MCP2221A USB to I2C
// bridge.
//
// The bridge is driven through its USB HID interface using 64 byte command
// reports.
//
// Datasheet: https://ww1.microchip.com/downloads/en/DeviceDoc/MCP2221A-Data-Sheet-20005565E.pdf
package mcp2221a

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/karalabe/hid"
	"periph.io/x/conn/v3/physic"
)

// USB identifiers of the MCP2221A.
const (
	VID = 0x04D8
	PID = 0x00DD
)

const (
	msgSize = 64
	clkHz   = 12000000

	// largest data payload of a single report
	chunkSize = 60

	maxTxLen = 0xffff
)

// command report identifiers
const (
	cmdStatus           byte = 0x10
	cmdI2CWrite         byte = 0x90
	cmdI2CWriteNoStop   byte = 0x94
	cmdI2CRead          byte = 0x91
	cmdI2CReadRepStart  byte = 0x93
	cmdI2CReadGetData   byte = 0x40
	subcmdCancel        byte = 0x10
	subcmdSetSpeed      byte = 0x20
	statusSpeedRejected byte = 0x21
)

// I2C engine states reported in status and read responses.
const (
	stateIdle         byte = 0x00
	stateAddrNACK     byte = 0x25
	statePartialData  byte = 0x41
	stateWritingNoSTP byte = 0x45
	stateReadPartial  byte = 0x54
	stateReadComplete byte = 0x55
	stateReadError    byte = 0x7F
)

var timeoutStates = map[byte]bool{
	0x12: true, // start
	0x17: true, // repeated start
	0x23: true, // address
	0x44: true, // write
	0x52: true, // read
	0x62: true, // stop
}

var (
	// ErrNACK indicates the target did not acknowledge its address.
	ErrNACK = errors.New("mcp2221a: NACK")

	// ErrTimeout indicates the bridge timed out waiting on the bus.
	ErrTimeout = errors.New("mcp2221a: bus timeout")

	// ErrBusy indicates the bridge did not accept a command.
	ErrBusy = errors.New("mcp2221a: bridge busy")

	// ErrResponse indicates a malformed response report.
	ErrResponse = errors.New("mcp2221a: unexpected response")

	// ErrTooLong indicates a buffer exceeds the largest transfer.
	ErrTooLong = errors.New("mcp2221a: transfer too long")

	// ErrClosed indicates the bus has already been closed.
	ErrClosed = errors.New("mcp2221a: already closed")

	// ErrNotSupported indicates HID is not available on this platform.
	ErrNotSupported = errors.New("mcp2221a: HID not supported on this platform")
)

// device is the HID interface of the bridge.
type device interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

// Bus is an I2C bus on an MCP2221A.
//
// Bus implements i2c.BusCloser.
type Bus struct {
	mu        sync.Mutex
	dev       device
	name      string
	pollDelay time.Duration
	retries   int
}

// Attached returns the MCP2221A bridges attached to the host.
func Attached() []hid.DeviceInfo {
	return hid.Enumerate(VID, PID)
}

// Open opens the bridge at the given index of those returned by Attached.
func Open(index int, options ...Option) (*Bus, error) {
	if !hid.Supported() {
		return nil, ErrNotSupported
	}
	info := Attached()
	if index < 0 || index >= len(info) {
		return nil, fmt.Errorf("mcp2221a: device index %d out of range, found %d", index, len(info))
	}
	d, err := info[index].Open()
	if err != nil {
		return nil, err
	}
	b := newBus(d, fmt.Sprintf("mcp2221a(%s)", info[index].Path), options...)
	if err := b.cancelIfBusy(); err != nil {
		d.Close()
		return nil, err
	}
	return b, nil
}

func newBus(d device, name string, options ...Option) *Bus {
	b := &Bus{
		dev:       d,
		name:      name,
		pollDelay: 300 * time.Microsecond,
		retries:   50,
	}
	for _, option := range options {
		option(b)
	}
	return b
}

func (b *Bus) String() string {
	return b.name
}

// Close releases the bridge.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dev == nil {
		return ErrClosed
	}
	err := b.dev.Close()
	b.dev = nil
	return err
}

// SetSpeed sets the I2C clock rate.
//
// The bridge supports rates from 46.5kHz to 4MHz.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	baud := int64(f / physic.Hertz)
	if baud > clkHz/3 || baud < clkHz/258 {
		return fmt.Errorf("mcp2221a: invalid speed %s", f)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dev == nil {
		return ErrClosed
	}
	cmd := newMsg(cmdStatus)
	cmd[3] = subcmdSetSpeed
	cmd[4] = byte(clkHz/baud - 3)
	rsp, err := b.send(cmd)
	if err != nil {
		return err
	}
	if rsp[3] == statusSpeedRejected {
		return ErrBusy
	}
	return nil
}

// Tx performs a transaction with the target at addr.
//
// If both w and r are provided the write is performed without a stop and is
// followed by a repeated start and the read.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if len(w) > maxTxLen || len(r) > maxTxLen {
		return ErrTooLong
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dev == nil {
		return ErrClosed
	}
	if err := b.cancelIfBusy(); err != nil {
		return err
	}
	if len(w) > 0 || len(r) == 0 {
		cmd := cmdI2CWrite
		if len(r) > 0 {
			cmd = cmdI2CWriteNoStop
		}
		if err := b.write(cmd, addr, w); err != nil {
			return err
		}
	}
	if len(r) > 0 {
		cmd := cmdI2CRead
		if len(w) > 0 {
			cmd = cmdI2CReadRepStart
		}
		return b.read(cmd, addr, r)
	}
	return nil
}

func newMsg(cmd byte) []byte {
	m := make([]byte, msgSize)
	m[0] = cmd
	return m
}

func newI2CMsg(cmd byte, addr uint16, n int) []byte {
	m := newMsg(cmd)
	m[1] = byte(n)
	m[2] = byte(n >> 8)
	m[3] = byte(addr << 1)
	return m
}

// send writes a command report and returns the response report.
func (b *Bus) send(cmd []byte) ([]byte, error) {
	if _, err := b.dev.Write(cmd); err != nil {
		return nil, fmt.Errorf("mcp2221a: write report 0x%02x: %w", cmd[0], err)
	}
	rsp := make([]byte, msgSize)
	n, err := b.dev.Read(rsp)
	if err != nil {
		return nil, fmt.Errorf("mcp2221a: read report 0x%02x: %w", cmd[0], err)
	}
	if n < msgSize || rsp[0] != cmd[0] {
		return nil, ErrResponse
	}
	return rsp, nil
}

func (b *Bus) state() (byte, error) {
	rsp, err := b.send(newMsg(cmdStatus))
	if err != nil {
		return 0, err
	}
	return rsp[8], nil
}

// cancelIfBusy cancels any transfer left incomplete by a previous
// transaction.
func (b *Bus) cancelIfBusy() error {
	s, err := b.state()
	if err != nil || s == stateIdle {
		return err
	}
	cmd := newMsg(cmdStatus)
	cmd[2] = subcmdCancel
	if _, err = b.send(cmd); err != nil {
		return err
	}
	time.Sleep(b.pollDelay)
	return nil
}

func stateErr(s byte) error {
	if s == stateAddrNACK {
		return ErrNACK
	}
	if timeoutStates[s] {
		return ErrTimeout
	}
	return nil
}

func (b *Bus) write(cmd byte, addr uint16, w []byte) error {
	pos := 0
	for {
		sz := len(w) - pos
		if sz > chunkSize {
			sz = chunkSize
		}
		m := newI2CMsg(cmd, addr, len(w))
		copy(m[4:], w[pos:pos+sz])
		if err := b.sendChunk(m); err != nil {
			return err
		}
		pos += sz
		if pos >= len(w) {
			break
		}
	}
	// wait for the engine to finish
	for i := 0; i < b.retries; i++ {
		s, err := b.state()
		if err != nil {
			return err
		}
		if s == stateIdle || (cmd == cmdI2CWriteNoStop && s == stateWritingNoSTP) {
			return nil
		}
		if err := stateErr(s); err != nil {
			return err
		}
		time.Sleep(b.pollDelay)
	}
	return ErrTimeout
}

// sendChunk sends one write report, retrying while the bridge is busy.
func (b *Bus) sendChunk(m []byte) error {
	for i := 0; i < b.retries; i++ {
		rsp, err := b.send(m)
		if err != nil {
			return err
		}
		if rsp[1] == 0 {
			return nil
		}
		if err := stateErr(rsp[2]); err != nil {
			return err
		}
		time.Sleep(b.pollDelay)
	}
	return ErrBusy
}

func (b *Bus) read(cmd byte, addr uint16, r []byte) error {
	m := newI2CMsg(cmd, addr, len(r))
	m[3] |= 1
	rsp, err := b.send(m)
	if err != nil {
		return err
	}
	if rsp[1] != 0 {
		if err := stateErr(rsp[2]); err != nil {
			return err
		}
		return ErrBusy
	}
	pos := 0
	for pos < len(r) {
		n, err := b.getData(r[pos:])
		if err != nil {
			return err
		}
		pos += n
	}
	return nil
}

// getData fetches the next chunk of read data into r.
func (b *Bus) getData(r []byte) (int, error) {
	for i := 0; i < b.retries; i++ {
		rsp, err := b.send(newMsg(cmdI2CReadGetData))
		if err != nil {
			return 0, err
		}
		if err := stateErr(rsp[2]); err != nil {
			return 0, err
		}
		if rsp[1] == statePartialData || rsp[3] == stateReadError || rsp[3] == 0 {
			time.Sleep(b.pollDelay)
			continue
		}
		n := int(rsp[3])
		if n > chunkSize {
			n = chunkSize
		}
		return copy(r, rsp[4:4+n]), nil
	}
	return 0, ErrTimeout
}

// Option specifies a construction option for the Bus.
type Option func(*Bus)

// WithPollDelay sets the delay between polls of the bridge while it is busy.
func WithPollDelay(period time.Duration) Option {
	return func(b *Bus) {
		b.pollDelay = period
	}
}

// WithRetries sets the number of polls before a busy bridge is considered
// timed out.
func WithRetries(n int) Option {
	return func(b *Bus) {
		b.retries = n
	}
}
