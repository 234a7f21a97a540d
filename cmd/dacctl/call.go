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
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(wakeCmd)
}

var (
	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Reset the DACs on the bus",
		Long: `Issue a general call reset, reloading the EEPROM settings into every
MCP47FEB22 on the bus.`,
		Args:                  cobra.NoArgs,
		RunE:                  reset,
		DisableFlagsInUseLine: true,
	}
	wakeCmd = &cobra.Command{
		Use:   "wake",
		Short: "Wake the DACs on the bus",
		Long: `Issue a general call wake-up, returning every MCP47FEB22 on the bus to
normal operation.`,
		Args:                  cobra.NoArgs,
		RunE:                  wake,
		DisableFlagsInUseLine: true,
	}
)

func reset(cmd *cobra.Command, args []string) error {
	return withDev((*mcp47feb22.Dev).Reset)
}

func wake(cmd *cobra.Command, args []string) error {
	return withDev((*mcp47feb22.Dev).Wake)
}
