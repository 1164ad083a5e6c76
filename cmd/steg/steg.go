// Steg hides text messages in images, audio and video, bound to a passphrase.
//
// Usage:
//
//	steg hide -carrier <file> -key <key> (-message <text> | -message-file <path>) [-out <file>] [options]
//	steg dig -carrier <file> -key <key> [-out <file>] [options]
//	steg capacity -carrier <file> [options]
//	steg serve [-listen <addr>] [options]
//	steg version
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zedseven/steg/v2"
	"github.com/zedseven/steg/v2/internal/config"
	"github.com/zedseven/steg/v2/internal/server"
)

// Program entry point

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "hide":
		err = runHide(os.Args[2:])
	case "dig":
		err = runDig(os.Args[2:])
	case "capacity":
		err = runCapacity(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "version":
		fmt.Printf("steg v%v\n", steg.Version())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// commonFlags are the options every subcommand accepts. Flags that are set override the config file.
type commonFlags struct {
	configPath   string
	engine       string
	audioOffset  int
	dctDelta     float64
	dctBitBudget int
	workers      int
	verbosity    string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&c.engine, "engine", "lsb", "Embedding engine: lsb or dct")
	fs.IntVar(&c.audioOffset, "audio-offset", steg.DefaultAudioOffset, "Odd amplitude step used on audio samples")
	fs.Float64Var(&c.dctDelta, "dct-delta", steg.DefaultDCTDelta, "Coefficient push of the DCT engine (0-255 scale)")
	fs.IntVar(&c.dctBitBudget, "dct-budget", 0, "Stop DCT extraction after this many bits (0 = capacity)")
	fs.IntVar(&c.workers, "workers", 0, "DCT worker count (0 = one per CPU)")
	fs.StringVar(&c.verbosity, "v", "steps", "Output level: none, steps, info or debug")
}

// load reads the config file, if any, and overlays every flag that was set explicitly.
func (c *commonFlags) load(fs *flag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return cfg, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "engine":
			cfg.Engine = c.engine
		case "audio-offset":
			cfg.AudioOffset = c.audioOffset
		case "dct-delta":
			cfg.DCTDelta = c.dctDelta
		case "dct-budget":
			cfg.DCTBitBudget = c.dctBitBudget
		case "workers":
			cfg.Workers = c.workers
		case "v":
			cfg.Verbosity = c.verbosity
		}
	})
	return cfg, nil
}

func (c *commonFlags) options(fs *flag.FlagSet) (*steg.Options, error) {
	cfg, err := c.load(fs)
	if err != nil {
		return nil, err
	}
	return cfg.Options()
}

func runHide(args []string) error {
	fs := flag.NewFlagSet("hide", flag.ExitOnError)
	var (
		common  commonFlags
		hideCfg steg.HideConfig
	)
	common.register(fs)
	fs.StringVar(&hideCfg.CarrierPath, "carrier", "", "The filepath to the carrier image, audio or video file")
	fs.StringVar(&hideCfg.Message, "message", "", "The message to hide")
	fs.StringVar(&hideCfg.MessagePath, "message-file", "", "The filepath to a UTF-8 text file holding the message")
	fs.StringVar(&hideCfg.Key, "key", "", "The passphrase the message is bound to")
	fs.StringVar(&hideCfg.OutPath, "out", "", "The filepath to write the result to (default encoded_<name> next to the carrier)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if hideCfg.CarrierPath == "" || hideCfg.Key == "" || (hideCfg.Message == "" && hideCfg.MessagePath == "") {
		fs.PrintDefaults()
		return fmt.Errorf("-carrier, -key and one of -message or -message-file are required")
	}

	opts, err := common.options(fs)
	if err != nil {
		return err
	}
	hideCfg.Options = *opts
	if err = steg.HideFile(&hideCfg); err != nil {
		return err
	}
	fmt.Println(hideCfg.OutPath)
	return nil
}

func runDig(args []string) error {
	fs := flag.NewFlagSet("dig", flag.ExitOnError)
	var (
		common commonFlags
		digCfg steg.DigConfig
	)
	common.register(fs)
	fs.StringVar(&digCfg.CarrierPath, "carrier", "", "The filepath to the carrier holding the message")
	fs.StringVar(&digCfg.Key, "key", "", "The passphrase the message was bound to")
	fs.StringVar(&digCfg.OutPath, "out", "", "The filepath to also write the message to")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if digCfg.CarrierPath == "" || digCfg.Key == "" {
		fs.PrintDefaults()
		return fmt.Errorf("-carrier and -key are required")
	}

	opts, err := common.options(fs)
	if err != nil {
		return err
	}
	digCfg.Options = *opts
	message, err := steg.DigFile(&digCfg)
	if err != nil {
		return err
	}
	fmt.Println(message)
	return nil
}

func runCapacity(args []string) error {
	fs := flag.NewFlagSet("capacity", flag.ExitOnError)
	var (
		common      commonFlags
		carrierPath string
	)
	common.register(fs)
	fs.StringVar(&carrierPath, "carrier", "", "The filepath to the carrier")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if carrierPath == "" {
		fs.PrintDefaults()
		return fmt.Errorf("-carrier is required")
	}

	opts, err := common.options(fs)
	if err != nil {
		return err
	}
	file, err := steg.LoadFile(carrierPath)
	if err != nil {
		return err
	}
	bits, err := steg.Capacity(file, opts)
	if err != nil {
		return err
	}
	fmt.Printf("%v (%v): %d bits, messages up to %d bytes\n", file.Name, file.MediaType, bits, steg.MaxMessageBytes(bits))
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var (
		common commonFlags
		listen string
	)
	common.register(fs)
	fs.StringVar(&listen, "listen", "", "Address to listen on (default from config, localhost:8080)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.load(fs)
	if err != nil {
		return err
	}
	if listen != "" {
		cfg.Listen = listen
	}
	if _, err = cfg.Options(); err != nil {
		return err
	}
	log, err := cfg.Logger()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(cfg, log).ListenAndServe(ctx)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `steg - hide text in images, audio and video

Usage:
  steg hide -carrier <file> -key <key> (-message <text> | -message-file <path>) [-out <file>] [options]
  steg dig -carrier <file> -key <key> [-out <file>] [options]
  steg capacity -carrier <file> [options]
  steg serve [-listen <addr>] [options]
  steg version

Options:
  -config <path>       YAML config file
  -engine lsb|dct      Embedding engine (dct works on images and video only)
  -audio-offset <n>    Odd amplitude step used on audio samples
  -dct-delta <n>       Coefficient push of the DCT engine
  -dct-budget <n>      Stop DCT extraction after n bits
  -workers <n>         DCT worker count
  -v <level>           none, steps, info or debug
`)
}
