// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warthog618/mcp47feb22"
	"github.com/warthog618/mcp47feb22/i2c/i2cdev"
	"github.com/warthog618/mcp47feb22/i2c/mcp2221a"
	"periph.io/x/conn/v3/i2c"
)

func init() {
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect DACs on the available buses",
	Long: `List the i2c-dev adapters and MCP2221A bridges on the system, and any
MCP47FEB22 found on each.`,
	Args:                  cobra.NoArgs,
	RunE:                  detect,
	DisableFlagsInUseLine: true,
}

func detect(cmd *cobra.Command, args []string) error {
	for _, name := range i2cdev.Adapters() {
		b, err := i2cdev.Open(name)
		if err != nil {
			logErr(cmd, err)
			continue
		}
		fmt.Printf("%s %v\n", name, scan(b))
		b.Close()
	}
	for i, info := range mcp2221a.Attached() {
		b, err := mcp2221a.Open(i)
		if err != nil {
			logErr(cmd, err)
			continue
		}
		fmt.Printf("mcp2221a %d [%s %s] %v\n", i, info.Manufacturer, info.Serial, scan(b))
		b.Close()
	}
	return nil
}

// scan returns the device selects that respond on the bus.
func scan(b i2c.Bus) []uint8 {
	var ids []uint8
	for id := uint8(0); id <= mcp47feb22.MaxID; id++ {
		d, err := mcp47feb22.New(b, id)
		if err != nil {
			continue
		}
		if _, err = d.ReadRegister(mcp47feb22.RegGain); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
