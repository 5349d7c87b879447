package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"mystrix-remote/midi"
	"mystrix-remote/palette"
)

const defaultMatch = "mystrix"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	match := defaultMatch
	if len(os.Args) > 2 {
		match = os.Args[2]
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detect(match)
	case "leds":
		withDevice(match, walkLayout)
	case "palette":
		withDevice(match, sweepPalette)
	case "buttons":
		withDevice(match, echoButtons)
	case "poll":
		pollDevices(match)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Usage: miditest <command> [port-match]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list     - List all MIDI ports")
	fmt.Println("  detect   - Find the controller ports")
	fmt.Println("  leds     - Walk the pad layout row by row")
	fmt.Println("  palette  - Show every palette color on the grid")
	fmt.Println("  buttons  - Print presses with their row and column")
	fmt.Println("  poll     - Watch controllers connect and disconnect")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins, outs []string
	}
	ch := make(chan result, 1)
	go func() {
		var r result
		for _, p := range gomidi.GetInPorts() {
			r.ins = append(r.ins, p.String())
		}
		for _, p := range gomidi.GetOutPorts() {
			r.outs = append(r.outs, p.String())
		}
		ch <- r
	}()

	select {
	case r := <-ch:
		for i, name := range r.ins {
			fmt.Printf("  %d: %s\n", i, name)
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, name := range r.outs {
			fmt.Printf("  %d: %s\n", i, name)
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! The MIDI backend is hung.")
	}
}

func detect(match string) {
	fmt.Printf("Looking for %q...\n", match)
	in, out, err := midi.FindPorts(match, 3*time.Second)
	if err != nil {
		fmt.Printf("Not found: %v\n", err)
		return
	}
	fmt.Printf("Found input:  %s\n", in.String())
	if out != nil {
		fmt.Printf("Found output: %s\n", out.String())
	} else {
		fmt.Println("No paired output port; LEDs cannot be driven")
	}
}

func withDevice(match string, fn func(*midi.Mystrix)) {
	in, out, err := midi.FindPorts(match, 3*time.Second)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if out == nil {
		fmt.Println("Error: no output port")
		return
	}
	dev, err := midi.NewMystrix(in.String(), in, out, 0)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer dev.Close()
	fmt.Printf("Using %s\n", dev.ID())
	fn(dev)
}

func walkLayout(dev *midi.Mystrix) {
	fmt.Println("Lighting pads in layout order (white)...")
	for row := 0; row < midi.GridRows; row++ {
		for col := 0; col < midi.GridCols; col++ {
			note := midi.NoteFor(row, col)
			if err := dev.SendNote(note, midi.VelocityWhite); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			time.Sleep(40 * time.Millisecond)
		}
		fmt.Printf("  row %d: notes %d..%d\n", row, midi.NoteFor(row, 0), midi.NoteFor(row, midi.GridCols-1))
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()
}

func sweepPalette(dev *midi.Mystrix) {
	entries := palette.Entries()
	pads := midi.GridRows * midi.GridCols
	fmt.Printf("%d palette entries, %d per page\n", palette.Len(), pads)
	for start := 0; start < len(entries); start += pads {
		end := min(start+pads, len(entries))
		fmt.Printf("Palette entries %d..%d\n", start, end-1)
		dev.ClearLEDs()
		for i, e := range entries[start:end] {
			note := midi.NoteFor(i/midi.GridCols, i%midi.GridCols)
			dev.SendNote(note, e.ID)
			fmt.Printf("  %2d  #%06X  id %3d\n", start+i, e.RGB, e.ID)
		}
		fmt.Println("Press Enter to continue...")
		fmt.Scanln()
	}
}

func echoButtons(dev *midi.Mystrix) {
	fmt.Println("Press pads. Ctrl+C to exit.")
	for ev := range dev.Buttons() {
		state := "release"
		if ev.Pressed() {
			state = "press"
		}
		if row, col, ok := midi.RowColFor(ev.Note); ok {
			fmt.Printf("  %-7s note %3d  row %d col %d\n", state, ev.Note, row, col)
		} else {
			fmt.Printf("  %-7s note %3d  (outside grid)\n", state, ev.Note)
		}
	}
}

func pollDevices(match string) {
	fmt.Printf("Watching for controllers matching %q. Ctrl+C to exit.\n", match)
	fmt.Println("Connect/disconnect the controller to test.")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	dm := midi.NewDeviceManager(match, 0)
	go dm.Run(ctx)

	for ev := range dm.Events() {
		stamp := time.Now().Format("15:04:05")
		switch ev.Type {
		case midi.DeviceConnected:
			fmt.Printf("\n[%s] connected: %s\n", stamp, ev.ID)
		case midi.DeviceDisconnected:
			fmt.Printf("\n[%s] disconnected: %s\n", stamp, ev.ID)
		}

		open := dm.Controllers()
		ids := make([]string, 0, len(open))
		for id := range open {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Printf("  open controllers: %v\n", ids)
	}
}
