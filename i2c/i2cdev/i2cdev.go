// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux

// Package i2cdev provides an I2C bus on a Linux i2c-dev adapter, e.g.
// /dev/i2c-1.
package i2cdev

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
	"periph.io/x/conn/v3/physic"
)

var (
	// ErrClosed indicates the bus has already been closed.
	ErrClosed = errors.New("i2cdev: already closed")

	// ErrNotSupported indicates the adapter does not support plain I2C
	// transactions, e.g. it is SMBus only.
	ErrNotSupported = errors.New("i2cdev: adapter does not support I2C transactions")

	// ErrTooLong indicates a buffer exceeds the largest supported message.
	ErrTooLong = errors.New("i2cdev: message too long")

	// ErrSpeedNotSupported indicates the bus speed is fixed by the kernel
	// driver.
	ErrSpeedNotSupported = errors.New("i2cdev: speed is set by the kernel driver")
)

// Bus is an I2C adapter exposed by the i2c-dev driver.
//
// Bus implements i2c.BusCloser.
type Bus struct {
	mu    sync.Mutex
	f     *os.File
	path  string
	funcs uint64
}

// Adapters returns the names of the available i2c-dev adapters.
func Adapters() []string {
	ee, err := os.ReadDir("/dev")
	if err != nil {
		return nil
	}
	aa := []string(nil)
	for _, e := range ee {
		name := e.Name()
		if strings.HasPrefix(name, "i2c-") {
			aa = append(aa, name)
		}
	}
	sort.Slice(aa, func(i, j int) bool {
		return adapterNumber(aa[i]) < adapterNumber(aa[j])
	})
	return aa
}

func adapterNumber(name string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(name, "i2c-"))
	if err != nil {
		return -1
	}
	return n
}

// nameToPath maps an adapter name, number or path to its device path.
func nameToPath(name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	if _, err := strconv.Atoi(name); err == nil {
		return "/dev/i2c-" + name
	}
	return "/dev/" + name
}

// Open opens an i2c-dev adapter.
//
// The name may be a path, e.g. "/dev/i2c-1", a device name, e.g. "i2c-1", or
// an adapter number, e.g. "1".
func Open(name string) (*Bus, error) {
	path := nameToPath(name)
	f, err := os.OpenFile(path, unix.O_CLOEXEC|os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	funcs, err := getFuncs(f.Fd())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("i2cdev: %s: %w", path, err)
	}
	if funcs&funcI2C == 0 {
		f.Close()
		return nil, ErrNotSupported
	}
	return &Bus{f: f, path: path, funcs: funcs}, nil
}

// OpenBus opens the numbered i2c-dev adapter.
func OpenBus(n int) (*Bus, error) {
	return Open(strconv.Itoa(n))
}

func (b *Bus) String() string {
	return b.path
}

// Close releases the adapter.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f == nil {
		return ErrClosed
	}
	err := b.f.Close()
	b.f = nil
	return err
}

// SetSpeed is not supported, as the speed is configured in the device tree.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	return ErrSpeedNotSupported
}

// Tx performs a transaction with the device at addr.
//
// If both w and r are provided the write is followed by a repeated start and
// the read.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if len(w) > maxMsgLen || len(r) > maxMsgLen {
		return ErrTooLong
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f == nil {
		return ErrClosed
	}
	return rdwr(b.f.Fd(), buildMsgs(addr, w, r))
}
