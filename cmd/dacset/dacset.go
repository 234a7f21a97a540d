// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux

// A utility to set the outputs of an MCP47FEB22 DAC.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/warthog618/config"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/keys"
	"github.com/warthog618/config/pflag"
	"github.com/warthog618/mcp47feb22"
	"github.com/warthog618/mcp47feb22/i2c/i2cdev"
)

var version = "undefined"

func main() {
	cfg, flags := loadConfig()
	name := flags.Args()[0]
	c0 := parseCode(flags.Args()[1])
	c1 := c0
	if flags.NArg() > 2 {
		c1 = parseCode(flags.Args()[2])
	}
	b, err := i2cdev.Open(name)
	if err != nil {
		die(err.Error())
	}
	defer b.Close()
	d, err := mcp47feb22.New(b, uint8(cfg.MustGet("id").Int()))
	if err != nil {
		die(err.Error())
	}
	if err = d.Begin(); err != nil {
		die("error reading DAC registers: " + err.Error())
	}
	if err = configure(cfg, d); err != nil {
		die("error configuring DAC: " + err.Error())
	}
	if err = d.AnalogWrite(c0, c1); err != nil {
		die("error setting DAC values: " + err.Error())
	}
	if cfg.MustGet("save").Bool() {
		if err = d.SaveEEPROM(); err != nil {
			die("error saving to EEPROM: " + err.Error())
		}
	}
}

func configure(cfg *config.Config, d *mcp47feb22.Dev) error {
	s := d.Snapshot().Volatile
	switch cfg.MustGet("vref").String() {
	case "vdd":
		s.VRef[0], s.VRef[1] = mcp47feb22.VRefVDD, mcp47feb22.VRefVDD
	case "internal":
		s.VRef[0], s.VRef[1] = mcp47feb22.VRefInternal, mcp47feb22.VRefInternal
	case "pin":
		s.VRef[0], s.VRef[1] = mcp47feb22.VRefPinUnbuffered, mcp47feb22.VRefPinUnbuffered
	case "pin-buffered":
		s.VRef[0], s.VRef[1] = mcp47feb22.VRefPinBuffered, mcp47feb22.VRefPinBuffered
	case "as-is":
	}
	if err := d.SetVRef(s.VRef[0], s.VRef[1]); err != nil {
		return err
	}
	switch cfg.MustGet("gain").Int() {
	case 1:
		s.Gain[0], s.Gain[1] = mcp47feb22.GainX1, mcp47feb22.GainX1
	case 2:
		s.Gain[0], s.Gain[1] = mcp47feb22.GainX2, mcp47feb22.GainX2
	}
	if err := d.SetGain(s.Gain[0], s.Gain[1]); err != nil {
		return err
	}
	// outputs are being set, so they must be driven
	return d.SetPowerDown(mcp47feb22.PowerDownNormal, mcp47feb22.PowerDownNormal)
}

func parseCode(arg string) uint16 {
	v, err := strconv.ParseUint(arg, 0, 16)
	if err != nil || v > mcp47feb22.MaxCode {
		die(fmt.Sprintf("can't parse code '%s'", arg))
	}
	return uint16(v)
}

func loadConfig() (*config.Config, *pflag.Getter) {
	ff := []pflag.Flag{
		{Short: 'h', Name: "help", Options: pflag.IsBool},
		{Short: 'v', Name: "version", Options: pflag.IsBool},
		{Short: 's', Name: "save", Options: pflag.IsBool},
		{Short: 'i', Name: "id"},
		{Short: 'r', Name: "vref"},
		{Short: 'g', Name: "gain"},
	}
	defaults := dict.New(dict.WithMap(
		map[string]interface{}{
			"help":    false,
			"version": false,
			"save":    false,
			"id":      0,
			"vref":    "as-is",
			"gain":    0,
		}))
	flags := pflag.New(pflag.WithFlags(ff),
		pflag.WithKeyReplacer(keys.NullReplacer()),
	)
	cfg := config.New(flags, config.WithDefault(defaults))
	if cfg.MustGet("help").Bool() {
		printHelp()
		os.Exit(0)
	}
	if cfg.MustGet("version").Bool() {
		printVersion()
		os.Exit(0)
	}
	id := cfg.MustGet("id").Int()
	if id < 0 || id > mcp47feb22.MaxID {
		die(fmt.Sprintf("invalid id: %d", id))
	}
	vref := cfg.MustGet("vref").String()
	switch vref {
	case "as-is":
	case "vdd":
	case "internal":
	case "pin":
	case "pin-buffered":
	default:
		die(fmt.Sprintf("invalid vref: %s", vref))
	}
	gain := cfg.MustGet("gain").Int()
	if gain < 0 || gain > 2 {
		die(fmt.Sprintf("invalid gain: %d", gain))
	}
	switch flags.NArg() {
	case 0:
		die("i2c bus must be specified")
	case 1:
		die("at least one code must be specified")
	case 2, 3:
	default:
		die("at most two codes may be specified")
	}
	return cfg, flags
}

func die(reason string) {
	fmt.Fprintln(os.Stderr, "dacset: "+reason)
	os.Exit(1)
}

func printHelp() {
	fmt.Printf("Usage: %s [OPTIONS] <i2c bus> <code0> [code1]\n", os.Args[0])
	fmt.Println("Set the output codes of an MCP47FEB22 DAC.")
	fmt.Println("If only code0 is provided it is applied to both channels.")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -h, --help:\t\tdisplay this message and exit")
	fmt.Println("  -v, --version:\tdisplay the version and exit")
	fmt.Println("  -i, --id=ID:\t\tthe device select of the DAC, 0-7 (defaults to 0)")
	fmt.Println("  -r, --vref=[as-is|vdd|internal|pin|pin-buffered] (defaults to 'as-is'):")
	fmt.Println("		\tthe voltage reference of both channels")
	fmt.Println("  -g, --gain=[1|2]:\tthe output gain of both channels (defaults to as-is)")
	fmt.Println("  -s, --save:\t\tsave the settings to EEPROM so they are restored at power-up")
	fmt.Println("")
	fmt.Println("The bus may be an adapter number, such as 1, or a device path, such as /dev/i2c-1.")
	fmt.Println("Codes may be decimal, or hex with a 0x prefix, and range from 0 to 4095.")
	fmt.Println("")
	fmt.Println("Note: unlike GPIO lines, the DAC outputs persist after the program exits.")
}

func printVersion() {
	fmt.Printf("%s (dacset) %s\n", os.Args[0], version)
}
