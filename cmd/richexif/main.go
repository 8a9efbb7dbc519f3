package main

import (
	"os"

	"github.com/bethropolis/richexif/internal/cli"
	"github.com/bethropolis/richexif/internal/logger"
	"github.com/mattn/go-isatty"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cmd := cli.NewRootCommand(cli.Options{Version: version})

	if err := cmd.Execute(); err != nil {
		log := logger.New(os.Stderr, false, isatty.IsTerminal(os.Stderr.Fd()))
		log.Error("%v", err)
		if cli.ExitCode(err) == cli.ExitUsage {
			log.Error("Run '%s --help' for usage.", cmd.Name())
		}
		os.Exit(cli.ExitCode(err))
	}
}
