// Command lak tracks a portfolio against its target asset allocation.
//
// See 'lak topic readme'.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"path"

	"github.com/etnz/allocation/cmd"
	"github.com/etnz/allocation/logger"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// a missing .env is fine, it is only a convenient place for LAK_PORTFOLIO.
	envErr := godotenv.Load()
	if errors.Is(envErr, fs.ErrNotExist) {
		envErr = nil
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	cmd.Completion(commander, flag.CommandLine).Complete("lak")

	flag.Parse()
	level := "warn"
	if *cmd.Verbose {
		level = "debug"
	}
	logger.SetGlobalLogger(logger.New(logger.Config{Level: level, Pretty: true}))
	if envErr != nil {
		log.Warn().Err(envErr).Msg("cannot load .env")
	}

	if name := flag.Arg(0); name != "" && !registered(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// registered returns true if name is a subcommand of c.
func registered(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, sub subcommands.Command) {
		found = found || sub.Name() == name
	})
	return found
}
