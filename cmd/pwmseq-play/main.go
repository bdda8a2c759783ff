package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/vsariola/pwmseq"
	"github.com/vsariola/pwmseq/config"
	"github.com/vsariola/pwmseq/pwm"
	"github.com/vsariola/pwmseq/record"
	"github.com/vsariola/pwmseq/version"
	"github.com/vsariola/pwmseq/vm"
)

func main() {
	configPath := flag.String("c", config.DefaultPath(), "Config file. If the file does not exist, the defaults are used.")
	dryRun := flag.Bool("d", false, "Dry run: log the pwm writes instead of writing the devices. Nothing is logged unless -verbose is given.")
	midiOut := flag.String("m", "", "Record the composition to this .mid file instead of playing it. Renders as fast as possible; by default one pass of the composition.")
	port := flag.String("p", "", "Preview on the MIDI output whose name starts with this prefix instead of the pwm channels. Use \"-p ''\" for the first output.")
	maxTicks := flag.Uint64("n", 0, "Stop after this many ticks. By default, plays until interrupted.")
	loops := flag.Int("loops", 0, "Stop after playing the composition through this many times.")
	noSetup := flag.Bool("nosetup", false, "Do not run the setup command of the config.")
	verbose := flag.Bool("verbose", false, "Log every pwm write in dry runs and every rewind of the composition.")
	help := flag.Bool("h", false, "Show help.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.String("pwmseq-play"))
		os.Exit(0)
	}
	if flag.NArg() != 1 || *help {
		flag.Usage()
		os.Exit(0)
	}
	logger := log.New(os.Stderr, "pwmseq: ", log.LstdFlags)
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("could not load config: %v", err)
	}
	composition, err := pwmseq.LoadComposition(flag.Arg(0))
	if err != nil {
		logger.Fatal(err)
	}
	e, err := vm.NewEngine(composition, cfg.EngineOptions(&vm.LogDiagnostics{Logger: logger, Verbose: *verbose}))
	if err != nil {
		logger.Fatal(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()
	clock := vm.Clock{Period: cfg.Tick, MaxTicks: *maxTicks, MaxLoops: *loops}
	var outputContext pwmseq.OutputContext
	var recorder *record.Recorder
	warmup := false
	switch {
	case *midiOut != "":
		recorder = record.New(cfg.Tick)
		outputContext = recorder
		clock.Sleep = recorder.Sleep
		if clock.MaxTicks == 0 && clock.MaxLoops == 0 {
			clock.MaxLoops = 1
		}
	case isFlagSet("p"):
		live, err := record.OpenPort(*port)
		if err != nil {
			logger.Fatal(err)
		}
		outputContext = live
	case *dryRun:
		outputContext = &pwm.LogContext{Logger: logger, Quiet: !*verbose}
	default:
		if cfg.Setup != "" && !*noSetup {
			if err := runSetup(ctx, cfg.Setup); err != nil {
				logger.Fatalf("setup failed: %v", err)
			}
		}
		outputContext = pwm.NewContext(cfg.Devices)
		warmup = true
	}
	retval := 0
	if err := play(ctx, logger, cfg, clock, e, outputContext, warmup); err != nil {
		logger.Print(err)
		retval = 1
	}
	if recorder != nil {
		if err := recorder.WriteFile(*midiOut); err != nil {
			logger.Print(err)
			retval = 1
		} else {
			logger.Printf("recorded %v ticks to %v", recorder.Ticks(), *midiOut)
		}
	}
	stop()
	os.Exit(retval)
}

// play acquires the outputs, waits for the warmup of the devices if asked,
// and runs the clock. The outputs are always released, which silences them.
func play(ctx context.Context, logger *log.Logger, cfg config.Config, clock vm.Clock, e *vm.Engine, outputContext pwmseq.OutputContext, warmup bool) (err error) {
	outputs, err := outputContext.Outputs(len(e.Channels))
	defer func() {
		if closeErr := outputContext.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not release the outputs: %w", closeErr)
		}
	}()
	if err != nil {
		return fmt.Errorf("could not acquire the outputs: %w", err)
	}
	if warmup && cfg.Warmup > 0 {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(cfg.Warmup):
		}
	}
	logger.Printf("playing %v channels, one tick every %v", len(e.Channels), clock.Period)
	if err := clock.Run(ctx, e, outputs); err != nil {
		return fmt.Errorf("playback stopped after %v ticks: %w", e.Ticks, err)
	}
	return nil
}

// runSetup runs the setup command of the config with sh, e.g. to configure
// the pins as pwm outputs.
func runSetup(ctx context.Context, command string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func isFlagSet(name string) (set bool) {
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "pwmseq player. Plays a .yml or .json composition on the pwm channels.\nUsage: %s [flags] path\n", os.Args[0])
	flag.PrintDefaults()
}
