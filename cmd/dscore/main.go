// Command dscore is the reference command-line frontend: it loads a
// firmware image and a ROM, brings up a Console, and drives it through
// the SDL frontend at 59.8260 Hz until the window is closed. Exit codes
// follow the documented convention: 0 on a clean exit, 1 on
// initialization failure, 2 on ROM load failure.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kaedeo/dscore/cartridgeloader"
	"github.com/kaedeo/dscore/cheat"
	"github.com/kaedeo/dscore/debug/audiocapture"
	"github.com/kaedeo/dscore/debug/debugstats"
	"github.com/kaedeo/dscore/debug/hexconsole"
	"github.com/kaedeo/dscore/debug/schedgraph"
	"github.com/kaedeo/dscore/errors"
	"github.com/kaedeo/dscore/firmware"
	"github.com/kaedeo/dscore/frontend"
	"github.com/kaedeo/dscore/hardware"
	"github.com/kaedeo/dscore/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	romPath := flag.String("rom", "", "path to the NDS/DSi ROM image")
	fwPath := flag.String("firmware", "", "path to a firmware image (default: a generated one)")
	cheatPath := flag.String("cheats", "", "path to an Action-Replay-style cheat list")
	dsi := flag.Bool("dsi", false, "emulate a DSi console instead of a classic NDS")
	scale := flag.Int("scale", 2, "window scale, in pixels per NDS pixel")
	statsview := flag.Bool("statsview", false, "serve live Go runtime (CPU/heap/goroutine) stats over HTTP")
	schedDump := flag.String("schedgraph", "", "dump a dot graph of the scheduler's pending events to this path and exit")
	wavOut := flag.String("wav", "", "capture audio output to this .wav path")
	inspectCart := flag.Bool("inspect-cart", false, "drop into an interactive cartridge command console instead of running")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "dscore: -rom is required")
		return initFailureCode()
	}

	var fw *firmware.Container
	if *fwPath != "" {
		buf, err := os.ReadFile(*fwPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dscore: reading firmware: %v\n", err)
			return initFailureCode()
		}
		fw, err = firmware.Load(buf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dscore: parsing firmware: %v\n", err)
			return initFailureCode()
		}
	}

	console := hardware.NewConsole(*dsi, 1, fw)

	if *statsview {
		stats := debugstats.New(console)
		stats.Serve(":18080")
		logger.Log("dscore", "statsview listening on :18080")
	}

	ld, err := cartridgeloader.NewLoaderFromFilename(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dscore: opening rom: %v\n", err)
		return romLoadFailureCode()
	}
	state, err := cartridgeloader.Prepare(&ld)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dscore: preparing rom: %v\n", err)
		return romLoadFailureCode()
	}

	if err := console.LoadROM(state.ROM, nil); err != nil {
		fmt.Fprintf(os.Stderr, "dscore: loading rom: %v\n", err)
		return romLoadFailureCode()
	}
	console.SetSave(state.SaveKind, nil)

	if *cheatPath != "" {
		data, err := os.ReadFile(*cheatPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dscore: reading cheats: %v\n", err)
			return initFailureCode()
		}
		list, err := cheat.Parse(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dscore: parsing cheats: %v\n", err)
			return initFailureCode()
		}
		console.ApplyCheats(list)
	}

	if *schedDump != "" {
		if err := schedgraph.Dump(console.Sched, *schedDump); err != nil {
			fmt.Fprintf(os.Stderr, "dscore: dumping scheduler graph: %v\n", err)
			return initFailureCode()
		}
		return 0
	}

	if *inspectCart {
		if err := hexconsole.Run(console.Cart); err != nil {
			fmt.Fprintf(os.Stderr, "dscore: cartridge console: %v\n", err)
			return initFailureCode()
		}
		return 0
	}

	fe, err := frontend.New(console, *scale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dscore: opening frontend: %v\n", err)
		return initFailureCode()
	}
	defer fe.Close()

	var capture *audiocapture.Capture
	if *wavOut != "" {
		capture, err = audiocapture.New(*wavOut, console.Prefs.AudioSampleRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dscore: opening wav capture: %v\n", err)
			return initFailureCode()
		}
		defer capture.Close()
	}

	for fe.PollEvents() {
		if err := fe.Present(); err != nil {
			fmt.Fprintf(os.Stderr, "dscore: present: %v\n", err)
			return initFailureCode()
		}
		if capture != nil {
			capture.Write(fe.LastAudio())
		}
	}

	return 0
}

func initFailureCode() int {
	logger.Log("dscore", "%v", errors.New(errors.InitFailure))
	return 1
}

func romLoadFailureCode() int {
	logger.Log("dscore", "%v", errors.New(errors.RomLoadFailure))
	return 2
}
