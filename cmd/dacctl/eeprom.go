// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux

package main

import (
	"github.com/spf13/cobra"
	"github.com/warthog618/mcp47feb22"
)

func init() {
	eepromCmd.AddCommand(eepromSaveCmd)
	eepromCmd.AddCommand(eepromResetCmd)
	rootCmd.AddCommand(eepromCmd)
}

var (
	eepromCmd = &cobra.Command{
		Use:   "eeprom",
		Short: "Manage the power-up settings",
		Long:  `Manage the settings stored in EEPROM and loaded by the DAC at power-up.`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	eepromSaveCmd = &cobra.Command{
		Use:                   "save",
		Short:                 "Save the current settings to EEPROM",
		Long:                  `Copy the current codes, references, gains and power-down modes to EEPROM.`,
		Args:                  cobra.NoArgs,
		RunE:                  eepromSave,
		DisableFlagsInUseLine: true,
	}
	eepromResetCmd = &cobra.Command{
		Use:                   "reset",
		Short:                 "Restore the EEPROM defaults",
		Long:                  `Write the factory defaults to EEPROM.  The current outputs are not changed.`,
		Args:                  cobra.NoArgs,
		RunE:                  eepromReset,
		DisableFlagsInUseLine: true,
	}
)

func eepromSave(cmd *cobra.Command, args []string) error {
	return withDev((*mcp47feb22.Dev).SaveEEPROM)
}

func eepromReset(cmd *cobra.Command, args []string) error {
	return withDev((*mcp47feb22.Dev).ResetEEPROM)
}

// withDev opens the device and applies fn to it.
func withDev(fn func(*mcp47feb22.Dev) error) error {
	d, b, err := openDev()
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(d)
}
