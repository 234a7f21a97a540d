// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(voltageCmd)
}

var (
	writeCmd = &cobra.Command{
		Use:   "write <code0> [code1]",
		Short: "Write the output codes",
		Long: `Write the codes of the two DAC channels.

If only one code is provided it is written to both channels.
Codes may be decimal, or hex with a 0x prefix, and range from 0 to 4095.`,
		Args:                  cobra.RangeArgs(1, 2),
		RunE:                  write,
		DisableFlagsInUseLine: true,
	}
	voltageCmd = &cobra.Command{
		Use:   "voltage <volts0> [volts1]",
		Short: "Write the output voltages",
		Long: `Write the codes closest to the requested voltages, given the current
reference and gain of each channel.

If only one voltage is provided it is written to both channels.
Voltages require a unit, e.g. 1.2V or 800mV.`,
		Args:                  cobra.RangeArgs(1, 2),
		RunE:                  voltage,
		DisableFlagsInUseLine: true,
	}
)

func write(cmd *cobra.Command, args []string) error {
	c0, c1, err := parsePair(args, parseCode)
	if err != nil {
		return err
	}
	d, b, err := openDev()
	if err != nil {
		return err
	}
	defer b.Close()
	return d.AnalogWrite(c0, c1)
}

func voltage(cmd *cobra.Command, args []string) error {
	v0, v1, err := parsePair(args, parseVoltage)
	if err != nil {
		return err
	}
	d, b, err := openDev()
	if err != nil {
		return err
	}
	defer b.Close()
	if err = d.WriteVoltage(v0, v1); err != nil {
		return err
	}
	s := d.Snapshot()
	fmt.Printf("codes: %d %d\n", s.Volatile.Code[0], s.Volatile.Code[1])
	return nil
}
