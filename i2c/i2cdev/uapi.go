// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux

package i2cdev

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl requests from linux/i2c-dev.h
const (
	i2cFuncsIoctl = 0x0705
	i2cRdwrIoctl  = 0x0707
)

// flags from linux/i2c.h
const (
	msgRead = 0x0001

	funcI2C = 0x00000001
)

// maxMsgLen is the largest buffer a single message can carry.
const maxMsgLen = 0xffff

// msg mirrors struct i2c_msg.
type msg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   unsafe.Pointer
}

// rdwrData mirrors struct i2c_rdwr_ioctl_data.
type rdwrData struct {
	msgs  unsafe.Pointer
	nmsgs uint32
}

func bufPtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

// buildMsgs returns the messages for a combined transaction.
//
// A write followed by a read is issued as two messages so the kernel joins
// them with a repeated start.
func buildMsgs(addr uint16, w, r []byte) []msg {
	var mm []msg
	if len(w) > 0 || len(r) == 0 {
		mm = append(mm, msg{addr: addr, len: uint16(len(w)), buf: bufPtr(w)})
	}
	if len(r) > 0 {
		mm = append(mm, msg{addr: addr, flags: msgRead, len: uint16(len(r)), buf: bufPtr(r)})
	}
	return mm
}

// rdwr performs the messages as a single transaction.
//
// The fd is an open i2c-dev device.
func rdwr(fd uintptr, mm []msg) error {
	data := rdwrData{msgs: unsafe.Pointer(&mm[0]), nmsgs: uint32(len(mm))}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		fd,
		uintptr(i2cRdwrIoctl),
		uintptr(unsafe.Pointer(&data)))
	if errno != 0 {
		return errno
	}
	return nil
}

// getFuncs returns the functionality bitmap of the adapter.
//
// The fd is an open i2c-dev device.
func getFuncs(fd uintptr) (uint64, error) {
	var funcs uint64
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		fd,
		uintptr(i2cFuncsIoctl),
		uintptr(unsafe.Pointer(&funcs)))
	if errno != 0 {
		return 0, errno
	}
	return funcs, nil
}
