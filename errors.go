// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

package mcp47feb22

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	// ErrInvalidID indicates the device select is outside the range 0-7.
	ErrInvalidID = errors.New("mcp47feb22: invalid device select")

	// ErrInvalidChannel indicates a channel other than 0 or 1.
	ErrInvalidChannel = errors.New("mcp47feb22: invalid channel")

	// ErrInvalidValue indicates a setting does not fit its register field.
	ErrInvalidValue = errors.New("mcp47feb22: value out of range")

	// ErrVoltageRange indicates a voltage cannot be produced with the
	// current reference.
	ErrVoltageRange = errors.New("mcp47feb22: voltage out of range")
)

// RegisterError is returned when a bus transaction to a register fails.
//
// Operations that perform several transactions combine their RegisterErrors,
// so any failure is reported as a non-nil error, and FailedRegisters
// identifies which registers failed.
type RegisterError struct {
	Reg Register
	// Op is "read" or "write".
	Op  string
	Err error
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("mcp47feb22: %s %s: %s", e.Op, e.Reg, e.Err)
}

// Unwrap returns the error returned by the bus.
func (e *RegisterError) Unwrap() error {
	return e.Err
}

// FailedRegisters returns the registers whose transactions failed, in the
// order they were attempted.
func FailedRegisters(err error) []Register {
	var rr []Register
	for _, e := range multierr.Errors(err) {
		var re *RegisterError
		if errors.As(e, &re) {
			rr = append(rr, re.Reg)
		}
	}
	return rr
}
