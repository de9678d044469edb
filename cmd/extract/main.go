package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"serviceboard/app"
	"serviceboard/domain/core"
	"serviceboard/internal/logging"
)

const usage = "Usage: extract <input.xlsx> <output.json>"

var errUsage = errors.New(usage)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <input.xlsx> <output.json>",
		Short: "Convert a service employee rank export to dashboard JSON",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errUsage
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], args[1])
		},
	}
}

func run(cmd *cobra.Command, inPath, outPath string) error {
	logger, err := logging.New("warn", logging.FormatConsole)
	if err != nil {
		return err
	}
	defer logger.Sync()

	svc := app.NewExtractionService(logger, core.SystemClock)
	_, err = svc.ExtractTo(cmd.Context(), inPath, outPath)
	return err
}
