// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux

package main

import (
	"github.com/spf13/cobra"
)

func init() {
	vrefCmd.SetHelpTemplate(vrefCmd.HelpTemplate() + extendedVRefHelp)
	powerDownCmd.SetHelpTemplate(powerDownCmd.HelpTemplate() + extendedPowerDownHelp)
	rootCmd.AddCommand(vrefCmd)
	rootCmd.AddCommand(gainCmd)
	rootCmd.AddCommand(powerDownCmd)
}

var extendedVRefHelp = `
References:
  vdd:            the supply, gain is ignored
  internal:       the internal 2.048V band gap
  pin:            the VREF pin, unbuffered
  pin-buffered:   the VREF pin, buffered
`

var extendedPowerDownHelp = `
Modes:
  normal:       the output is driven
  1k:           the output is pulled to ground through 1kΩ
  100k:         the output is pulled to ground through 100kΩ
  500k:         the output is pulled to ground through 500kΩ
`

var (
	vrefCmd = &cobra.Command{
		Use:                   "vref <vref0> [vref1]",
		Short:                 "Set the voltage reference",
		Long:                  `Set the voltage reference of the DAC channels.`,
		Args:                  cobra.RangeArgs(1, 2),
		RunE:                  vref,
		DisableFlagsInUseLine: true,
	}
	gainCmd = &cobra.Command{
		Use:                   "gain <gain0> [gain1]",
		Short:                 "Set the output gain",
		Long:                  `Set the output amplifier gain, 1 or 2, of the DAC channels.`,
		Args:                  cobra.RangeArgs(1, 2),
		RunE:                  gain,
		DisableFlagsInUseLine: true,
	}
	powerDownCmd = &cobra.Command{
		Use:                   "powerdown <mode0> [mode1]",
		Short:                 "Set the power-down mode",
		Long:                  `Set the power-down mode of the DAC channels.`,
		Args:                  cobra.RangeArgs(1, 2),
		RunE:                  powerDown,
		DisableFlagsInUseLine: true,
	}
)

func vref(cmd *cobra.Command, args []string) error {
	v0, v1, err := parsePair(args, parseVRef)
	if err != nil {
		return err
	}
	d, b, err := openDev()
	if err != nil {
		return err
	}
	defer b.Close()
	return d.SetVRef(v0, v1)
}

func gain(cmd *cobra.Command, args []string) error {
	g0, g1, err := parsePair(args, parseGain)
	if err != nil {
		return err
	}
	d, b, err := openDev()
	if err != nil {
		return err
	}
	defer b.Close()
	return d.SetGain(g0, g1)
}

func powerDown(cmd *cobra.Command, args []string) error {
	p0, p1, err := parsePair(args, parsePowerDown)
	if err != nil {
		return err
	}
	d, b, err := openDev()
	if err != nil {
		return err
	}
	defer b.Close()
	return d.SetPowerDown(p0, p1)
}
