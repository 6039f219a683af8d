package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"qthmap/config"
	"qthmap/logging"
)

type Options struct {
	Config string `short:"c" long:"config" description:"Path to the TOML config file" default:"config.toml"`
}

func newParser(opts *Options) *flags.Parser {
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.SubcommandsOptional = true
	parser.LongDescription = "Show APRS stations on a Maidenhead map. Without a command the map UI starts."

	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		if err := logging.SetupConsole(config.DefaultLogLevel); err != nil {
			return err
		}
		return cmd.Execute(args)
	}

	parser.AddCommand("grid", "Encode a position", "Print the grid square containing a latitude and longitude.", &gridCommand{})
	parser.AddCommand("locate", "Decode a grid square", "Print the midpoint of a grid square.", &locateCommand{})
	parser.AddCommand("distance", "Path between squares", "Print the great-circle distance and initial bearing between two grid squares.", &distanceCommand{})
	return parser
}

func main() {
	var opts Options
	parser := newParser(&opts)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, flagsErr.Message)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if parser.Active != nil {
		return
	}

	conf, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", opts.Config, err)
		os.Exit(1)
	}

	logFile, err := logging.SetupFile(conf.Log.File, conf.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	if err := runTUI(conf); err != nil {
		log.Error().Err(err).Msg("qthmap exited")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logFile.Close()
		os.Exit(1)
	}
}
