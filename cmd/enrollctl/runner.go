package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/app/models/dto"
	"github.com/yigit/enrollhub/internal/app/services"
	"github.com/yigit/enrollhub/internal/pkg/auth"
)

// CoordinatorCreator adds coordinator accounts.
type CoordinatorCreator interface {
	Create(ctx context.Context, req dto.CreateCoordinatorRequest) (*models.Coordinator, error)
}

// PasswordResetter replaces account passwords.
type PasswordResetter interface {
	ResetPassword(ctx context.Context, role auth.Role, id, password string) error
}

// StudentImporter runs a roster import.
type StudentImporter interface {
	Import(ctx context.Context, r io.Reader) (*services.ImportResult, error)
}

// Backend is what the commands operate on.
type Backend struct {
	Migrate      func(ctx context.Context) (int, error)
	Coordinators CoordinatorCreator
	Passwords    PasswordResetter
	Importer     StudentImporter
}

// ConnectFunc opens a Backend from the config file at configPath. The returned
// func releases it.
type ConnectFunc func(ctx context.Context, configPath string) (*Backend, func(), error)

// Runner holds the dependencies of every command.
type Runner struct {
	connect ConnectFunc
	backend *Backend
	release func()
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Connect ConnectFunc
	// Backend skips Connect when set.
	Backend *Backend
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided options
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Runner{
		connect: opts.Connect,
		backend: opts.Backend,
		output:  opts.Output,
	}
}

// Close releases the backend if one was opened.
func (r *Runner) Close() {
	if r.release != nil {
		r.release()
		r.release = nil
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		migrateCommand, addCoordinatorCommand, resetPasswordCommand, importStudentsCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

// withBackend connects on first use and hands the backend to fn.
func (r *Runner) withBackend(fn func(ctx context.Context, cmd *cli.Command, b *Backend) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if r.backend == nil {
			if r.connect == nil {
				return fmt.Errorf("no database configured")
			}
			backend, release, err := r.connect(ctx, cmd.String("config"))
			if err != nil {
				return err
			}
			r.backend, r.release = backend, release
		}
		return fn(ctx, cmd, r.backend)
	}
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.output, format+"\n", args...)
}
