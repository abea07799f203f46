package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	EnvVerbose  = "LAK_VERBOSE"
	EnvQuoteURL = "LAK_QUOTE_URL"
)

// RunExtension attempts to find and execute an external lak-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
//
// The global flags are passed to the extension as environment variables: EnvPortfolio,
// EnvVerbose and EnvQuoteURL.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "lak-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Debug().Err(err).Str("command", externalCmdName).Msg("external command not found in PATH")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, EnvPortfolio+"="+PortfolioFile())
	cmd.Env = append(cmd.Env, EnvVerbose+"="+strconv.FormatBool(*Verbose))
	cmd.Env = append(cmd.Env, EnvQuoteURL+"="+*quoteURL)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
