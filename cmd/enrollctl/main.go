// Command enrollctl performs administrative tasks against the configured database.
package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/yigit/enrollhub/internal/pkg/apperrors"
	"github.com/yigit/enrollhub/internal/pkg/logger"
)

func newApp(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:     "enrollctl",
		Usage:    "Administer the enrollhub database",
		Flags:    globalFlags(),
		Commands: runner.register(),
	}
}

func main() {
	runner := NewRunner(RunnerOpts{Connect: connectBackend})

	err := newApp(runner).Run(context.Background(), os.Args)
	runner.Close()
	if err != nil {
		logger.Error().Err(err).Msg(apperrors.Message(err, "command failed"))
		os.Exit(1)
	}
}
