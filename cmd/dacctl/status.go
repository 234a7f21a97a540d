// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warthog618/mcp47feb22"
)

func init() {
	statusCmd.Flags().BoolVarP(&statusOpts.Raw, "raw", "r", false, "display the raw register values.")
	rootCmd.AddCommand(statusCmd)
}

var (
	statusCmd = &cobra.Command{
		Use:   "status [channel]",
		Short: "Display the state of the DAC",
		Long: `Read and display the volatile and EEPROM registers of the DAC.

If a channel, 0 or 1, is provided only the settings of that channel are displayed.`,
		Args:                  cobra.MaximumNArgs(1),
		RunE:                  status,
		DisableFlagsInUseLine: true,
	}
	statusOpts = struct {
		Raw bool
	}{}
)

var rawRegisters = []mcp47feb22.Register{
	mcp47feb22.RegDAC0,
	mcp47feb22.RegDAC1,
	mcp47feb22.RegVRef,
	mcp47feb22.RegPowerDown,
	mcp47feb22.RegGain,
	mcp47feb22.RegWiperLock,
	mcp47feb22.RegDAC0EEPROM,
	mcp47feb22.RegDAC1EEPROM,
	mcp47feb22.RegVRefEEPROM,
	mcp47feb22.RegPowerDownEEPROM,
	mcp47feb22.RegGainEEPROM,
}

func status(cmd *cobra.Command, args []string) error {
	var chans []mcp47feb22.Channel
	if len(args) > 0 {
		ch, err := parseChannel(args[0])
		if err != nil {
			return err
		}
		chans = append(chans, ch)
	}
	d, b, err := openDev()
	if err != nil {
		return err
	}
	defer b.Close()
	fmt.Printf("%s on %s\n", d, b)
	if statusOpts.Raw {
		for _, r := range rawRegisters {
			v, err := d.ReadRegister(r)
			if err != nil {
				logErr(cmd, err)
				continue
			}
			fmt.Printf("%-16s 0x%04x\n", r, v)
		}
		return nil
	}
	if len(chans) == 0 {
		fmt.Println(d.Snapshot())
		chans = []mcp47feb22.Channel{mcp47feb22.Channel0, mcp47feb22.Channel1}
	} else {
		fmt.Print(channelStatus(d, chans[0]))
	}
	for _, ch := range chans {
		v, _ := d.Vout(ch)
		fmt.Printf("ch%d: vout=%s\n", ch, v)
	}
	return nil
}

// channelStatus returns the settings of a single channel.
func channelStatus(d *mcp47feb22.Dev, ch mcp47feb22.Channel) string {
	code, _ := d.Value(ch)
	vref, _ := d.VRef(ch)
	gain, _ := d.Gain(ch)
	pd, _ := d.PowerDown(ch)
	wl, _ := d.WiperLock(ch)
	ecode, _ := d.EEPROMValue(ch)
	evref, _ := d.EEPROMVRef(ch)
	egain, _ := d.EEPROMGain(ch)
	epd, _ := d.EEPROMPowerDown(ch)
	return fmt.Sprintf("ch%d: code=%d vref=%s gain=%s powerdown=%s wiperlock=%d\n"+
		"     eeprom code=%d vref=%s gain=%s powerdown=%s\n",
		ch, code, vref, gain, pd, wl, ecode, evref, egain, epd)
}
