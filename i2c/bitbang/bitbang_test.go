// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package bitbang_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/mcp47feb22/i2c/bitbang"
	"periph.io/x/conn/v3/physic"
)

// target is a wire level I2C target that records what it receives and
// returns tx on reads.
type target struct {
	addr   uint16
	tx     []byte
	rxs    [][]byte
	starts int
	stops  int
	nacks  int

	active    bool
	inAddr    bool
	read      bool
	masterAck bool
	bit       int
	shift     byte
	out       byte
	drive     bool
}

func (t *target) start() {
	t.starts++
	t.active = true
	t.inAddr = true
	t.read = false
	t.bit = -1
	t.shift = 0
	t.drive = false
	t.rxs = append(t.rxs, nil)
}

func (t *target) stop() {
	t.stops++
	t.active = false
	t.drive = false
}

func (t *target) rising(sda int) {
	if !t.active {
		return
	}
	if t.bit < 8 {
		if !t.read {
			t.shift = t.shift<<1 | byte(sda)
		}
		return
	}
	if t.read {
		t.masterAck = sda == 0
		if !t.masterAck {
			t.nacks++
		}
	}
}

func (t *target) falling() {
	if !t.active {
		return
	}
	t.bit++
	switch {
	case t.bit < 8:
		if t.read {
			t.drive = t.out&(0x80>>uint(t.bit)) == 0
		}
	case t.bit == 8:
		if t.read {
			t.drive = false
			return
		}
		v := t.shift
		t.rxs[len(t.rxs)-1] = append(t.rxs[len(t.rxs)-1], v)
		if t.inAddr {
			t.inAddr = false
			if v != 0 && uint16(v>>1) != t.addr {
				t.active = false
				return
			}
			t.read = v&1 == 1
		}
		t.drive = true
	default:
		t.bit = 0
		t.shift = 0
		t.drive = false
		if t.read {
			if !t.masterAck {
				t.active = false
				return
			}
			if len(t.tx) > 0 {
				t.out = t.tx[0]
				t.tx = t.tx[1:]
			} else {
				t.out = 0xff
			}
			t.drive = t.out&0x80 == 0
		}
	}
}

// wire connects the master pins to the target.
type wire struct {
	t         *target
	masterSCL bool
	masterSDA bool
	hold      bool
	scl       int
	sda       int
	closed    int
	fail      error
}

func newWire(t *target) *wire {
	return &wire{t: t, scl: 1, sda: 1}
}

func level(driven bool) int {
	if driven {
		return 0
	}
	return 1
}

func (w *wire) update() {
	scl := level(w.masterSCL || w.hold)
	sda := level(w.masterSDA || w.t.drive)
	if scl == 1 && w.scl == 1 && sda != w.sda {
		if sda == 0 {
			w.t.start()
		} else {
			w.t.stop()
		}
	}
	rising := scl == 1 && w.scl == 0
	falling := scl == 0 && w.scl == 1
	w.scl, w.sda = scl, sda
	if rising {
		w.t.rising(sda)
	}
	if falling {
		w.t.falling()
	}
	w.sda = level(w.masterSDA || w.t.drive)
}

type pin struct {
	w   *wire
	scl bool
}

func (p *pin) set(low bool) error {
	if p.w.fail != nil {
		return p.w.fail
	}
	if p.scl {
		p.w.masterSCL = low
	} else {
		p.w.masterSDA = low
	}
	p.w.update()
	return nil
}

func (p *pin) Release() error {
	return p.set(false)
}

func (p *pin) Low() error {
	return p.set(true)
}

func (p *pin) Value() (int, error) {
	if p.scl {
		return p.w.scl, nil
	}
	return p.w.sda, nil
}

func (p *pin) Close() error {
	p.w.closed++
	return nil
}

func newBus(t *testing.T, tgt *target, options ...bitbang.Option) (*bitbang.Bus, *wire) {
	t.Helper()
	w := newWire(tgt)
	options = append([]bitbang.Option{bitbang.WithTclk(0)}, options...)
	b, err := bitbang.New(&pin{w, true}, &pin{w, false}, options...)
	require.Nil(t, err)
	require.NotNil(t, b)
	return b, w
}

func TestNew(t *testing.T) {
	w := newWire(&target{})
	w.hold = true
	w.scl = 0
	b, err := bitbang.New(&pin{w, true}, &pin{w, false})
	assert.Equal(t, bitbang.ErrBusBusy, err)
	assert.Nil(t, b)

	w = newWire(&target{})
	w.fail = errors.New("line error")
	b, err = bitbang.New(&pin{w, true}, &pin{w, false})
	assert.Equal(t, w.fail, err)
	assert.Nil(t, b)

	b, w = newBus(t, &target{})
	assert.Equal(t, 1, w.scl)
	assert.Equal(t, 1, w.sda)
	assert.Equal(t, "bitbang(0s)", b.String())
}

func TestWrite(t *testing.T) {
	tgt := &target{addr: 0x60}
	b, w := newBus(t, tgt)
	err := b.Tx(0x60, []byte{0x00, 0x01, 0x23}, nil)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{{0xc0, 0x00, 0x01, 0x23}}, tgt.rxs)
	assert.Equal(t, 1, tgt.starts)
	assert.Equal(t, 1, tgt.stops)
	// bus is left idle
	assert.Equal(t, 1, w.scl)
	assert.Equal(t, 1, w.sda)
}

func TestWriteRead(t *testing.T) {
	tgt := &target{addr: 0x63, tx: []byte{0x0a, 0xbc, 0x55}}
	b, _ := newBus(t, tgt)
	r := make([]byte, 2)
	err := b.Tx(0x63, []byte{0x06}, r)
	assert.Nil(t, err)
	assert.Equal(t, []byte{0x0a, 0xbc}, r)
	assert.Equal(t, [][]byte{{0xc6, 0x06}, {0xc7}}, tgt.rxs)
	// repeated start between write and read
	assert.Equal(t, 2, tgt.starts)
	assert.Equal(t, 1, tgt.stops)
	// last byte is NACKed
	assert.Equal(t, 1, tgt.nacks)
}

func TestRead(t *testing.T) {
	tgt := &target{addr: 0x60, tx: []byte{0x81, 0x7e}}
	b, _ := newBus(t, tgt)
	r := make([]byte, 2)
	err := b.Tx(0x60, nil, r)
	assert.Nil(t, err)
	assert.Equal(t, []byte{0x81, 0x7e}, r)
	assert.Equal(t, [][]byte{{0xc1}}, tgt.rxs)
	assert.Equal(t, 1, tgt.starts)
}

func TestGeneralCall(t *testing.T) {
	tgt := &target{addr: 0x60}
	b, _ := newBus(t, tgt)
	err := b.Tx(0, []byte{0x06}, nil)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{{0x00, 0x06}}, tgt.rxs)
}

func TestNACK(t *testing.T) {
	tgt := &target{addr: 0x60}
	b, w := newBus(t, tgt)
	err := b.Tx(0x61, []byte{0x00, 0x01, 0x23}, nil)
	assert.Equal(t, bitbang.ErrNACK, err)
	// aborted after the address
	assert.Equal(t, [][]byte{{0xc2}}, tgt.rxs)
	assert.Equal(t, 1, tgt.stops)
	assert.Equal(t, 1, w.sda)

	// the bus is still usable
	err = b.Tx(0x60, []byte{0x00}, nil)
	assert.Nil(t, err)
}

func TestClockStretch(t *testing.T) {
	tgt := &target{addr: 0x60}
	b, w := newBus(t, tgt, bitbang.WithStretchTimeout(time.Millisecond))
	w.hold = true
	err := b.Tx(0x60, []byte{0x00}, nil)
	assert.Equal(t, bitbang.ErrClockStretch, err)
}

func TestSetSpeed(t *testing.T) {
	b, _ := newBus(t, &target{})
	err := b.SetSpeed(400 * physic.KiloHertz)
	assert.Nil(t, err)
	assert.Equal(t, "bitbang(2.5µs)", b.String())
	err = b.SetSpeed(0)
	assert.NotNil(t, err)
}

func TestClose(t *testing.T) {
	b, w := newBus(t, &target{})
	err := b.Close()
	assert.Nil(t, err)
	assert.Equal(t, 2, w.closed)
	err = b.Close()
	assert.Equal(t, bitbang.ErrClosed, err)
	err = b.Tx(0x60, []byte{0x00}, nil)
	assert.Equal(t, bitbang.ErrClosed, err)
}
