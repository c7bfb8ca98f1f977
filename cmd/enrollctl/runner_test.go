package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollhub/internal/app/importer"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/app/models/dto"
	"github.com/yigit/enrollhub/internal/app/services"
	"github.com/yigit/enrollhub/internal/pkg/auth"
)

type fakeCoordinators struct {
	created []dto.CreateCoordinatorRequest
	err     error
}

func (f *fakeCoordinators) Create(_ context.Context, req dto.CreateCoordinatorRequest) (*models.Coordinator, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return &models.Coordinator{CoordinatorID: req.CoordinatorID}, nil
}

type resetCall struct {
	role     auth.Role
	id       string
	password string
}

type fakePasswords struct {
	calls []resetCall
}

func (f *fakePasswords) ResetPassword(_ context.Context, role auth.Role, id, password string) error {
	f.calls = append(f.calls, resetCall{role, id, password})
	return nil
}

type fakeImporter struct {
	body   string
	result *services.ImportResult
	err    error
}

func (f *fakeImporter) Import(_ context.Context, r io.Reader) (*services.ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.body = string(data)
	return f.result, f.err
}

type testEnv struct {
	runner       *Runner
	out          *bytes.Buffer
	migrations   int
	coordinators *fakeCoordinators
	passwords    *fakePasswords
	importer     *fakeImporter
}

func newTestEnv() *testEnv {
	env := &testEnv{
		out:          &bytes.Buffer{},
		coordinators: &fakeCoordinators{},
		passwords:    &fakePasswords{},
		importer:     &fakeImporter{result: &services.ImportResult{}},
	}
	backend := &Backend{
		Migrate: func(context.Context) (int, error) {
			env.migrations++
			return 3, nil
		},
		Coordinators: env.coordinators,
		Passwords:    env.passwords,
		Importer:     env.importer,
	}
	env.runner = NewRunner(RunnerOpts{Backend: backend, Output: env.out})
	return env
}

func (e *testEnv) run(args ...string) error {
	return newApp(e.runner).Run(context.Background(), append([]string{"enrollctl"}, args...))
}

func TestMigrate(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.run("migrate"))
	assert.Equal(t, 1, env.migrations)
	assert.Equal(t, "Applied 3 migration(s)\n", env.out.String())
}

func TestAddCoordinator(t *testing.T) {
	env := newTestEnv()

	err := env.run("add-coordinator",
		"--id", "C-0002", "--password", "secret123",
		"--lname", "Santos", "--fname", "Ana", "--mname", "Reyes",
		"--email", "ana@school.edu", "--gender", "Female")
	require.NoError(t, err)

	require.Len(t, env.coordinators.created, 1)
	req := env.coordinators.created[0]
	assert.Equal(t, "C-0002", req.CoordinatorID)
	assert.Equal(t, "Female", req.Gender)
	require.NotNil(t, req.MiddleName)
	assert.Equal(t, "Reyes", *req.MiddleName)
	assert.Nil(t, req.Suffix)
	assert.Contains(t, env.out.String(), "Coordinator C-0002 created")
}

func TestAddCoordinatorValidatesInput(t *testing.T) {
	env := newTestEnv()

	err := env.run("add-coordinator",
		"--id", "C-0002", "--password", "123",
		"--lname", "Santos", "--fname", "Ana", "--email", "ana@school.edu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid coordinator")
	assert.Empty(t, env.coordinators.created)
}

func TestAddCoordinatorReportsServiceError(t *testing.T) {
	env := newTestEnv()
	env.coordinators.err = errors.New("duplicate")

	err := env.run("add-coordinator",
		"--id", "C-0002", "--password", "secret123",
		"--lname", "Santos", "--fname", "Ana", "--email", "ana@school.edu")
	require.Error(t, err)
	assert.Empty(t, env.out.String())
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.run("reset-password", "--id", "2021-0001", "--password", "newpass1"))
	require.NoError(t, env.run("reset-password", "--role", "coordinator", "--id", "C-1", "--password", "newpass2"))

	assert.Equal(t, []resetCall{
		{auth.RoleStudent, "2021-0001", "newpass1"},
		{auth.RoleCoordinator, "C-1", "newpass2"},
	}, env.passwords.calls)
}

func writeRoster(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestImportStudents(t *testing.T) {
	env := newTestEnv()
	env.importer.result = &services.ImportResult{
		Imported: 2,
		Errors:   []importer.RowError{{Row: 4, Message: "Invalid email format"}},
	}
	path := writeRoster(t, "roster.csv", "student_id,lname\n")

	require.NoError(t, env.run("import-students", "--file", path))
	assert.Equal(t, "student_id,lname\n", env.importer.body)
	assert.Equal(t, "Imported 2 student(s)\n  Row 4: Invalid email format\n", env.out.String())
}

func TestImportStudentsNothingImported(t *testing.T) {
	env := newTestEnv()
	env.importer.result = &services.ImportResult{
		Errors: []importer.RowError{{Row: 2, Message: "Invalid year level"}},
	}
	path := writeRoster(t, "roster.txt", "x")

	err := env.run("import-students", "-f", path)
	require.Error(t, err)
	assert.Equal(t, "no students were imported", err.Error())
	assert.Contains(t, env.out.String(), "Row 2: Invalid year level")
}

func TestImportStudentsRejectsUnsupportedFile(t *testing.T) {
	env := newTestEnv()
	path := writeRoster(t, "roster.xlsx", "x")

	err := env.run("import-students", "--file", path)
	require.ErrorIs(t, err, importer.ErrUnsupportedFile)
	assert.Empty(t, env.importer.body)
}

func TestConnectsLazilyAndReleases(t *testing.T) {
	var (
		connects   int
		configPath string
		released   bool
	)
	out := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Output: out,
		Connect: func(_ context.Context, path string) (*Backend, func(), error) {
			connects++
			configPath = path
			return &Backend{Migrate: func(context.Context) (int, error) { return 0, nil }}, func() { released = true }, nil
		},
	})
	app := newApp(runner)

	require.NoError(t, app.Run(context.Background(), []string{"enrollctl", "--config", "custom.yaml", "migrate"}))
	assert.Equal(t, 1, connects)
	assert.Equal(t, "custom.yaml", configPath)
	assert.False(t, released)

	runner.Close()
	assert.True(t, released)
}

func TestConnectFailure(t *testing.T) {
	runner := NewRunner(RunnerOpts{
		Output: io.Discard,
		Connect: func(context.Context, string) (*Backend, func(), error) {
			return nil, nil, errors.New("connection refused")
		},
	})

	err := newApp(runner).Run(context.Background(), []string{"enrollctl", "migrate"})
	require.EqualError(t, err, "connection refused")
}
