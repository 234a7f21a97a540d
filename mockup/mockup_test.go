// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package mockup_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/mcp47feb22"
	"github.com/warthog618/mcp47feb22/mockup"
)

func TestNew(t *testing.T) {
	s := mockup.New(5)
	assert.Equal(t, uint16(0x65), s.Addr())
	assert.Equal(t, "mockup@0x65", s.String())
	// powers up with POR set
	assert.Equal(t, uint16(0x0080), s.Register(mcp47feb22.RegGain))
	assert.Equal(t, uint16(0), s.Register(mcp47feb22.RegDAC0))
	assert.Nil(t, s.Close())

	s = mockup.New(0, mockup.WithRegister(mcp47feb22.RegDAC1EEPROM, 0x0123))
	assert.Equal(t, uint16(0x0123), s.Register(mcp47feb22.RegDAC1EEPROM))
}

func TestRead(t *testing.T) {
	s := mockup.New(1, mockup.WithRegister(mcp47feb22.RegDAC1, 0x0abc))
	patterns := []struct {
		name string
		addr uint16
		w    []byte
		rlen int
		val  []byte
		err  error
	}{
		{"dac1", 0x61, []byte{0x0e}, 2, []byte{0x0a, 0xbc}, nil},
		{"gain", 0x61, []byte{0x56}, 2, []byte{0x00, 0x80}, nil},
		{"wrong addr", 0x60, []byte{0x0e}, 2, []byte{0x00, 0x00}, mockup.ErrNACK},
		{"short read", 0x61, []byte{0x0e}, 1, []byte{0x00}, mockup.ErrNACK},
		{"unimplemented", 0x61, []byte{0x16}, 2, []byte{0x00, 0x00}, mockup.ErrNACK},
		{"no command", 0x61, nil, 2, []byte{0x00, 0x00}, mockup.ErrNACK},
		{"reserved command", 0x61, []byte{0x0a}, 2, []byte{0x00, 0x00}, mockup.ErrNACK},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			r := make([]byte, p.rlen)
			err := s.Tx(p.addr, p.w, r)
			assert.Equal(t, p.err, err)
			assert.Equal(t, p.val, r)
		}
		t.Run(p.name, tf)
	}
}

func TestWrite(t *testing.T) {
	s := mockup.New(0)
	err := s.Tx(0x60, []byte{0x00, 0xff, 0xff}, nil)
	assert.Nil(t, err)
	assert.Equal(t, uint16(0x0fff), s.Register(mcp47feb22.RegDAC0))

	// only the gain bits are writable
	err = s.Tx(0x60, []byte{0x50, 0xff, 0x00}, nil)
	assert.Nil(t, err)
	assert.Equal(t, uint16(0x0380), s.Register(mcp47feb22.RegGain))

	// wiper lock is read only
	err = s.Tx(0x60, []byte{0x58, 0x00, 0x0f}, nil)
	assert.Equal(t, mockup.ErrNACK, err)

	err = s.Tx(0x60, []byte{0x40, 0x00}, nil)
	assert.Equal(t, mockup.ErrNACK, err)

	assert.Len(t, s.Txs(), 4)
	assert.Equal(t, mockup.Tx{Addr: 0x60, W: []byte{0x00, 0xff, 0xff}}, s.Txs()[0])
	s.ClearTxs()
	assert.Empty(t, s.Txs())
}

func TestTxLog(t *testing.T) {
	s := mockup.New(0, mockup.WithRegister(mcp47feb22.RegDAC0, 0x0123))
	r := make([]byte, 2)
	w := []byte{0x06}
	err := s.Tx(0x60, w, r)
	assert.Nil(t, err)

	// the log holds what was on the bus, not the caller's buffers
	w[0] = 0x0e
	r[0], r[1] = 0xff, 0xff
	require.Len(t, s.Txs(), 1)
	assert.Equal(t, mockup.Tx{Addr: 0x60, W: []byte{0x06}, R: []byte{0x01, 0x23}}, s.Txs()[0])
}

func TestGeneralCall(t *testing.T) {
	s := mockup.New(0,
		mockup.WithRegister(mcp47feb22.RegDAC0EEPROM, 0x0321),
		mockup.WithRegister(mcp47feb22.RegVRefEEPROM, 0x0005),
		mockup.WithRegister(mcp47feb22.RegPowerDownEEPROM, 0x000a),
		mockup.WithRegister(mcp47feb22.RegGainEEPROM, 0x0200),
	)
	s.SetRegister(mcp47feb22.RegGain, 0x0100)

	err := s.Tx(0, []byte{0x06}, nil)
	assert.Nil(t, err)
	assert.Equal(t, uint16(0x0321), s.Register(mcp47feb22.RegDAC0))
	assert.Equal(t, uint16(0x0005), s.Register(mcp47feb22.RegVRef))
	assert.Equal(t, uint16(0x000a), s.Register(mcp47feb22.RegPowerDown))
	assert.Equal(t, uint16(0x0280), s.Register(mcp47feb22.RegGain))

	err = s.Tx(0, []byte{0x0a}, nil)
	assert.Nil(t, err)
	assert.Equal(t, uint16(0), s.Register(mcp47feb22.RegPowerDown))

	err = s.Tx(0, []byte{0x08}, nil)
	assert.Equal(t, mockup.ErrNACK, err)
	err = s.Tx(0, []byte{0x06, 0x00}, nil)
	assert.Equal(t, mockup.ErrNACK, err)
}

func TestEEPROMWriteCycle(t *testing.T) {
	s := mockup.New(0, mockup.WithEEPROMWriteTime(20*time.Millisecond))
	err := s.Tx(0x60, []byte{0x80, 0x01, 0x23}, nil)
	require.Nil(t, err)
	assert.Equal(t, uint16(0x0123), s.Register(mcp47feb22.RegDAC0EEPROM))

	err = s.Tx(0x60, []byte{0x06}, make([]byte, 2))
	assert.Equal(t, mockup.ErrBusy, err)

	time.Sleep(30 * time.Millisecond)
	err = s.Tx(0x60, []byte{0x06}, make([]byte, 2))
	assert.Nil(t, err)

	// volatile writes do not start a write cycle
	err = s.Tx(0x60, []byte{0x00, 0x01, 0x23}, nil)
	assert.Nil(t, err)
	err = s.Tx(0x60, []byte{0x08, 0x01, 0x23}, nil)
	assert.Nil(t, err)
}

func TestFail(t *testing.T) {
	s := mockup.New(0)
	errFault := errors.New("fault")
	s.Fail(mcp47feb22.RegDAC1, errFault)

	err := s.Tx(0x60, []byte{0x08, 0x01, 0x23}, nil)
	assert.Equal(t, errFault, err)
	assert.Equal(t, uint16(0), s.Register(mcp47feb22.RegDAC1))
	err = s.Tx(0x60, []byte{0x0e}, make([]byte, 2))
	assert.Equal(t, errFault, err)

	// other registers are unaffected
	err = s.Tx(0x60, []byte{0x00, 0x01, 0x23}, nil)
	assert.Nil(t, err)

	s.Fail(mcp47feb22.RegDAC1, nil)
	err = s.Tx(0x60, []byte{0x08, 0x01, 0x23}, nil)
	assert.Nil(t, err)
	assert.Equal(t, uint16(0x0123), s.Register(mcp47feb22.RegDAC1))
}
