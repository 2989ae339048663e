// Package main is the entry point that wires config loading and file
// seeding around internal/app.Core. Terminal rendering, raw input
// decoding, and file-save I/O are explicitly out of scope for the
// CORE (spec.md §1) and are not implemented here either; this binary
// only proves the wiring a real frontend would build on.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/nilsbok/alise/internal/app"
	"github.com/nilsbok/alise/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.Parse()

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "alise: %v\n", err)
		return 1
	}

	core := app.New(cfg)

	if files := flag.Args(); len(files) > 0 {
		for _, path := range files {
			if err := seedBuffer(core, path); err != nil {
				fmt.Fprintf(os.Stderr, "alise: %v\n", err)
				return 1
			}
		}
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "alise: core initialized; no terminal frontend is wired into this binary")
		return 0
	}

	fmt.Fprintln(os.Stderr, "alise: core initialized; reading piped input is not supported by this driver")
	return 0
}

func loadConfig(path string) (config.CoreConfig, error) {
	if path == "" {
		return config.Defaults(), nil
	}
	return config.LoadFrom(path)
}

func seedBuffer(core *app.Core, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	core.NewBuffer(path, string(data))
	return nil
}
