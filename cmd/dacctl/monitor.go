// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/warthog618/mcp47feb22"
	"github.com/warthog618/mcp47feb22/i2c/i2cdev"
)

func init() {
	monCmd.Flags().BoolVarP(&monOpts.Probe, "probe", "p", false, "probe added adapters for the DAC")
	monCmd.Flags().UintVarP(&monOpts.NumEvents, "num-events", "n", 0, "exit after n events")
	rootCmd.AddCommand(monCmd)
}

var (
	monCmd = &cobra.Command{
		Use:   "mon",
		Short: "Monitor I2C adapters being added or removed",
		Long: `Wait for i2c-dev adapters, such as USB bridges, to be added or removed
and print the events to standard output.`,
		Args:                  cobra.NoArgs,
		RunE:                  mon,
		DisableFlagsInUseLine: true,
	}
	monOpts = struct {
		Probe     bool
		NumEvents uint
	}{}
)

func mon(cmd *cobra.Command, args []string) error {
	done := make(chan struct{})
	evtchan, eh := forwardEvents(done)
	errh := func(err error) {
		logErr(cmd, err)
	}
	w, err := i2cdev.Watch(eh, errh)
	if err != nil {
		return err
	}
	defer w.Close()
	defer close(done)
	monWait(cmd, evtchan)
	return nil
}

// forwardEvents returns a handler that forwards events to the returned
// channel, dropping them once done is closed.
func forwardEvents(done <-chan struct{}) (<-chan i2cdev.AdapterEvent, i2cdev.AdapterEventHandler) {
	evtchan := make(chan i2cdev.AdapterEvent, 4)
	eh := func(evt i2cdev.AdapterEvent) {
		select {
		case evtchan <- evt:
		case <-done:
		}
	}
	return evtchan, eh
}

func monWait(cmd *cobra.Command, evtchan <-chan i2cdev.AdapterEvent) {
	sigdone := make(chan os.Signal, 1)
	signal.Notify(sigdone, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigdone)
	count := uint(0)
	for {
		select {
		case evt := <-evtchan:
			fmt.Printf("event: %-6s %-8s %s\n",
				evt.Action,
				evt.Name,
				time.Now().Format(time.RFC3339Nano))
			if monOpts.Probe && evt.Action == "add" {
				if err := probe(evt.Path); err != nil {
					logErr(cmd, err)
				}
			}
			count++
			if monOpts.NumEvents > 0 && count >= monOpts.NumEvents {
				return
			}
		case <-sigdone:
			return
		}
	}
}

// probe reports the state of the DAC on a newly added adapter.
func probe(path string) error {
	b, err := i2cdev.Open(path)
	if err != nil {
		return err
	}
	defer b.Close()
	d, err := mcp47feb22.New(b, busOpts.ID)
	if err != nil {
		return err
	}
	if err = d.Begin(); err != nil {
		return fmt.Errorf("%s not found on %s: %w", d, b, err)
	}
	fmt.Printf("%s on %s\n%s\n", d, b, d.Snapshot())
	return nil
}
