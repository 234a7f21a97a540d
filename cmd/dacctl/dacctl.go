// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux

// A utility to control MCP47FEB22 DACs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dacctl",
	Short: "dacctl is a utility to control MCP47FEB22 DACs",
	Long:  "dacctl is a utility to control MCP47FEB22 dual channel 12-bit DACs on an I2C bus",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&busOpts.Transport, "transport", "t", "i2cdev", "the bus transport.")
	pf.StringVarP(&busOpts.Bus, "bus", "b", "", "the bus name, adapter number, bridge index or GPIO chip.")
	pf.Uint8VarP(&busOpts.ID, "id", "i", 0, "the device select (0-7).")
	pf.StringVar(&busOpts.VDD, "vdd", "5V", "the supply voltage.")
	pf.StringVar(&busOpts.SCL, "scl", "SCL1", "the SCL pin for the bitbang transport.")
	pf.StringVar(&busOpts.SDA, "sda", "SDA1", "the SDA pin for the bitbang transport.")
	pf.BoolVar(&busOpts.PullUp, "pull-up", false, "enable pull-ups on the bitbang lines.")
	pf.BoolVarP(&busOpts.Verbose, "verbose", "v", false, "log bus transactions.")
	rootCmd.SetHelpTemplate(rootCmd.HelpTemplate() + extendedRootHelp)
}

var extendedRootHelp = `
Transports:
  i2cdev:       a Linux i2c-dev adapter, e.g. --bus 1 for /dev/i2c-1
  periph:       a bus registered with periph.io, e.g. --bus I2C1
  mcp2221a:     an MCP2221A USB bridge, --bus is the bridge index
  bitbang:      GPIO lines on the chip named by --bus, see --scl and --sda
  sim:          a simulated device, for trying out commands
`

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func logErr(cmd *cobra.Command, err error) {
	fmt.Fprintf(os.Stderr, "dacctl %s: %s\n", cmd.Name(), err)
}
