package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/noriah/catscope"
	"github.com/noriah/catscope/graphic"
	"github.com/noriah/catscope/input"

	_ "github.com/noriah/catscope/input/all"

	"github.com/integrii/flaggy"
	"github.com/mattn/go-isatty"
)

// AppName is the app name
const AppName = "catscope"

// AppDesc is the app description
const AppDesc = "Continuous Automatic Terminal Strip Chart Oscilloscope"

// AppSite is the app website
const AppSite = "https://github.com/noriah/catscope"

var version = "unknown"

func main() {
	log.SetFlags(0)

	cfg := newZeroConfig()

	if doFlags(&cfg) {
		return
	}

	// a screen cannot be drawn into a pipe
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		cfg.rawOutput = true
	}

	chk(cfg.validate(), "invalid config")

	scopeCfg := catscope.Config{
		Backend:      cfg.backend,
		Device:       cfg.device,
		SampleRate:   cfg.sampleRate,
		ChannelCount: cfg.channelCount,
		Names:        cfg.names,
		Zoom:         cfg.zoom,
		Baud:         cfg.baud,
		PlotTime:     cfg.plotTime,
		Points:       cfg.points,
		FrameRate:    cfg.frameRate,
		AutoStart:    cfg.autoStart,
	}

	if cfg.rawOutput {
		scopeCfg.Output = NewRawOutput(os.Stdout)
	} else {
		display := graphic.NewDisplay()

		scopeCfg.Output = display
		scopeCfg.SetupFunc = display.Init
		scopeCfg.StartFunc = func(ctx context.Context) (context.Context, error) {
			return display.Start(ctx), nil
		}
		scopeCfg.CleanupFunc = func() error {
			display.Stop()
			return display.Close()
		}
	}

	// Root Context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	chk(catscope.Run(&scopeCfg, ctx), "failed to run catscope")
}

func doFlags(cfg *config) bool {

	parser := flaggy.NewParser(AppName)
	parser.Description = AppDesc
	parser.AdditionalHelpPrepend = AppSite
	parser.Version = version

	listBackendsCmd := flaggy.Subcommand{
		Name:                 "list-backends",
		ShortName:            "lb",
		Description:          "list all supported backends",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listBackendsCmd, 1)

	listDevicesCmd := flaggy.Subcommand{
		Name:                 "list-devices",
		ShortName:            "ld",
		Description:          "list all devices for a backend",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listDevicesCmd, 1)

	parser.String(&cfg.backend, "b", "backend", "backend name")
	parser.String(&cfg.device, "d", "device", "device name")
	parser.Float64(&cfg.sampleRate, "r", "rate", "sample rate per channel")
	parser.Int(&cfg.channelCount, "ch", "channels", "channel count (1 to 10)")
	parser.StringSlice(&cfg.names, "n", "name", "channel name, repeat for each channel")
	parser.Int(&cfg.frameRate, "f", "fps", "frame rate")
	parser.Float64(&cfg.plotTime, "t", "time", "seconds of history shown")
	parser.Int(&cfg.points, "p", "points", "points drawn per channel")
	parser.Float64(&cfg.zoom, "z", "zoom", "starting half height of every channel")
	parser.Int(&cfg.baud, "bd", "baud", "serial line speed (0 for the backend default)")
	parser.Bool(&cfg.autoStart, "s", "start", "start acquiring right away")
	parser.Bool(&cfg.rawOutput, "", "raw", "print frames as text instead of drawing")

	chk(parser.Parse(), "failed to parse arguments")

	switch {
	case listBackendsCmd.Used:
		for _, backend := range input.Backends {
			fmt.Printf("- %s\n", backend.Name)
		}

		return true

	case listDevicesCmd.Used:
		backend, err := input.InitBackend(cfg.backend)
		chk(err, "failed to init backend")

		devices, err := backend.Devices()
		chk(err, "failed to get devices")

		// We don't really need the default device to be indicated.
		defaultDevice, _ := backend.DefaultDevice()

		fmt.Printf("all devices for %q backend. '*' marks default\n", cfg.backend)

		for idx := range devices {
			star := ' '
			if defaultDevice != nil && devices[idx].String() == defaultDevice.String() {
				star = '*'
			}

			fmt.Printf("- %v %c\n", devices[idx], star)
		}

		return true
	}

	return false
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+": ", err)
	}
}
