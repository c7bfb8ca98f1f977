package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v3"
	"github.com/yigit/enrollhub/internal/app/importer"
	"github.com/yigit/enrollhub/internal/app/models/dto"
	"github.com/yigit/enrollhub/internal/bootstrap"
	"github.com/yigit/enrollhub/internal/pkg/auth"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   bootstrap.DefaultConfigPath,
		},
	}
}

// requestValidator checks CLI input with the same rules the HTTP binding uses.
var requestValidator = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "Apply pending database migrations",
		Action: r.withBackend(r.Migrate),
	}
}

// Migrate applies pending migrations.
func (r *Runner) Migrate(ctx context.Context, _ *cli.Command, b *Backend) error {
	applied, err := b.Migrate(ctx)
	if err != nil {
		return err
	}
	r.printf("Applied %d migration(s)", applied)
	return nil
}

func addCoordinatorCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "add-coordinator",
		Usage: "Create a coordinator account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "Coordinator ID", Required: true},
			&cli.StringFlag{Name: "password", Usage: "Initial password (min 6 characters)", Required: true},
			&cli.StringFlag{Name: "lname", Usage: "Last name", Required: true},
			&cli.StringFlag{Name: "fname", Usage: "First name", Required: true},
			&cli.StringFlag{Name: "mname", Usage: "Middle name"},
			&cli.StringFlag{Name: "suffix", Usage: "Name suffix"},
			&cli.StringFlag{Name: "email", Usage: "Email address", Required: true},
			&cli.StringFlag{Name: "gender", Usage: "Gender", Value: "Male"},
		},
		Action: r.withBackend(r.AddCoordinator),
	}
}

func optional(cmd *cli.Command, name string) *string {
	if v := cmd.String(name); v != "" {
		return &v
	}
	return nil
}

// AddCoordinator creates a coordinator account from the command flags.
func (r *Runner) AddCoordinator(ctx context.Context, cmd *cli.Command, b *Backend) error {
	req := dto.CreateCoordinatorRequest{
		CoordinatorID: cmd.String("id"),
		Password:      cmd.String("password"),
		LastName:      cmd.String("lname"),
		FirstName:     cmd.String("fname"),
		MiddleName:    optional(cmd, "mname"),
		Suffix:        optional(cmd, "suffix"),
		Email:         cmd.String("email"),
		Gender:        cmd.String("gender"),
	}
	if err := requestValidator.Struct(req); err != nil {
		return fmt.Errorf("invalid coordinator: %s", dto.HandleValidationError(err).Message)
	}

	coordinator, err := b.Coordinators.Create(ctx, req)
	if err != nil {
		return err
	}
	r.printf("Coordinator %s created", coordinator.CoordinatorID)
	return nil
}

func resetPasswordCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "reset-password",
		Usage: "Replace the password of a student or coordinator",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "role", Usage: "student or coordinator", Value: string(auth.RoleStudent)},
			&cli.StringFlag{Name: "id", Usage: "Student or coordinator ID", Required: true},
			&cli.StringFlag{Name: "password", Usage: "New password (min 6 characters)", Required: true},
		},
		Action: r.withBackend(r.ResetPassword),
	}
}

// ResetPassword replaces an account password.
func (r *Runner) ResetPassword(ctx context.Context, cmd *cli.Command, b *Backend) error {
	role := auth.Role(cmd.String("role"))
	id := cmd.String("id")
	if err := b.Passwords.ResetPassword(ctx, role, id, cmd.String("password")); err != nil {
		return err
	}
	r.printf("Password of %s %s reset", role, id)
	return nil
}

func importStudentsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import-students",
		Usage: "Import a CSV roster of students",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Path to the CSV file", Required: true},
		},
		Action: r.withBackend(r.ImportStudents),
	}
}

// ImportStudents runs the roster import on a local file.
func (r *Runner) ImportStudents(ctx context.Context, cmd *cli.Command, b *Backend) error {
	path := cmd.String("file")
	if err := importer.CheckUpload(filepath.Base(path), ""); err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open roster: %w", err)
	}
	defer file.Close()

	result, err := b.Importer.Import(ctx, file)
	if result != nil {
		r.printf("Imported %d student(s)", result.Imported)
		for _, msg := range result.ErrorMessages() {
			r.printf("  %s", msg)
		}
	}
	if err != nil {
		return err
	}
	if result.Failed() {
		return fmt.Errorf("no students were imported")
	}
	return nil
}
