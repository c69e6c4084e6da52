package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schoolclass"
	"github.com/trezcool/ratiba/core/student"
	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/teacher"
	logsvc "github.com/trezcool/ratiba/services/logger"
	inmemdb "github.com/trezcool/ratiba/storage/database/inmem"
	"github.com/trezcool/ratiba/testutil"
)

var (
	subjRepo    subject.Repository
	teacherRepo teacher.Repository
	classRepo   schoolclass.Repository
	studentRepo student.Repository
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	// set up DB & repos
	db := inmemdb.Open()
	subjRepo = inmemdb.NewSubjectRepository(db)
	teacherRepo = inmemdb.NewTeacherRepository(db)
	classRepo = inmemdb.NewClassRepository(db)
	studentRepo = inmemdb.NewStudentRepository(db)

	// set up services
	conf := &core.Config{
		Env:    "TEST",
		Import: core.ImportConfig{TeachersSheet: "Teachers", StudentsSheet: "Students"},
	}
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	subjSvc := subject.NewService(subjRepo, validate)
	classSvc := schoolclass.NewService(classRepo, validate)

	// mock terminal
	isTerminalFunc = func(fd int) bool { return false }
	t.Cleanup(func() { readConfirmFunc = readLine })

	// start CLI
	out := new(bytes.Buffer)
	return &commandLine{
		conf:       conf,
		logger:     logger,
		translator: translator,
		subjects:   subjSvc,
		teachers:   teacher.NewService(teacherRepo, subjSvc, validate),
		classes:    classSvc,
		students:   student.NewService(studentRepo, classSvc, validate),
		out:        out,
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    string // substring of the output
	extra      interface{}
}

func runCLITests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err == nil || cli.errorText(err) != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			case err != nil:
				t.Errorf("cli.run() unexpected error = %v", err)
			}
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
		})
	}
}

func Test_commandLine_run(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, out, []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: "Usage:"},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "subject: no action", args: []string{"subject"}, wantErr: errHelp},
		{name: "subject: unknown action", args: []string{"subject", "lol"}, wantErr: errHelp},
		{name: "subject: help flag", args: []string{"subject", "add", "-h"}, wantErr: errHelp},
		{name: "teacher: no action", args: []string{"teacher"}, wantErr: errHelp},
		{name: "class: no action", args: []string{"class"}, wantErr: errHelp},
		{name: "student: no action", args: []string{"student"}, wantErr: errHelp},
		{name: "import: no file", args: []string{"import"}, wantErr: errHelp},
	})
}

func Test_commandLine_migrate(t *testing.T) {
	cli, out := setup(t)

	gooseRunFunc = func(ctx context.Context, db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, cli, out, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	})
}

func Test_commandLine_subject(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, out, []cliTest{
		{name: "add", args: []string{"subject", "add", "-name", "Maths", "-description", "Algebra & co"}, wantOut: "Maths"},
		{name: "add another", args: []string{"subject", "add", "-name", " Physics "}, wantOut: "Physics"},
		{name: "add: no name", args: []string{"subject", "add"}, wantErrStr: "name: this field is required"},
		{name: "add: duplicate", args: []string{"subject", "add", "-name", "Maths"}, wantErr: subject.ErrNameExists},
		{name: "add: too long", args: []string{"subject", "add", "-name", strings.Repeat("x", subject.NameMaxLen+1)}, wantErrStr: "name: name must be a maximum of 100 characters in length"},
		{name: "list", args: []string{"subject", "list"}, wantOut: "Maths"},
		{name: "list: search", args: []string{"subject", "list", "-search", "PHY"}, wantOut: "Physics"},
		{name: "list: bad ordering", args: []string{"subject", "list", "-ordering", "lol"}, wantErrStr: `ordering: cannot order by "lol"`},
		{name: "update: no id", args: []string{"subject", "update", "-name", "Chemistry"}, wantErr: errHelp},
		{name: "update: not found", args: []string{"subject", "update", "-id", "lol", "-name", "Chemistry"}, wantErr: subject.ErrNotFound},
		{name: "update: name taken", args: []string{"subject", "update", "-id", "Physics", "-name", "Maths"}, wantErr: subject.ErrNameExists},
		{name: "update by name", args: []string{"subject", "update", "-id", "Physics", "-name", "Chemistry"}, wantOut: "Chemistry"},
		{name: "delete: not found", args: []string{"subject", "delete", "-id", "Physics"}, wantErr: subject.ErrNotFound},
		{name: "delete", args: []string{"subject", "delete", "-id", "Chemistry"}, wantOut: `deleted subject "Chemistry" and 0 teacher(s)`},
	})

	subjects, err := subjRepo.QuerySubjects(context.Background(), nil, nil)
	require.NoError(t, err)
	if assert.Len(t, subjects, 1) {
		assert.Equal(t, "Maths", subjects[0].Name)
		assert.Equal(t, "Algebra & co", subjects[0].Description)
	}

	t.Run("list prints ID and name", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "subject", "list"}))
		assert.Equal(t, subjects[0].ID+"  Maths\n", out.String())
	})
}

func Test_commandLine_teacher(t *testing.T) {
	cli, out := setup(t)

	maths := testutil.CreateSubject(t, subjRepo, "Maths")
	physics := testutil.CreateSubject(t, subjRepo, "Physics")
	tchr := testutil.CreateTeacher(t, teacherRepo, "Marie Curie", maths.ID)

	runCLITests(t, cli, out, []cliTest{
		{name: "add with subject name", args: []string{"teacher", "add", "-name", "Ada Lovelace", "-subject", "Maths"}, wantOut: "Ada Lovelace (Maths)"},
		{name: "add with subject id", args: []string{"teacher", "add", "-name", "Isaac Newton", "-subject", physics.ID}, wantOut: "Isaac Newton (Physics)"},
		{name: "add: unknown subject", args: []string{"teacher", "add", "-name", "Nobody", "-subject", "Latin"}, wantErr: teacher.ErrInvalidSubject},
		{name: "add: no subject", args: []string{"teacher", "add", "-name", "Nobody"}, wantErrStr: "subject_id: this field is required"},
		{name: "list: by subject", args: []string{"teacher", "list", "-subject", "Physics"}, wantOut: "Isaac Newton (Physics)"},
		{name: "list: bad ordering", args: []string{"teacher", "list", "-ordering", "name"}, wantErrStr: `ordering: cannot order by "name"`},
		{name: "update: no id", args: []string{"teacher", "update"}, wantErr: errHelp},
		{name: "update: not found", args: []string{"teacher", "update", "-id", "lol", "-name", "X"}, wantErr: teacher.ErrNotFound},
		{name: "update: unknown subject", args: []string{"teacher", "update", "-id", tchr.ID, "-subject", "Latin"}, wantErr: teacher.ErrInvalidSubject},
		{name: "update", args: []string{"teacher", "update", "-id", tchr.ID, "-subject", "Physics"}, wantOut: "Marie Curie (Physics)"},
		{name: "delete: not found", args: []string{"teacher", "delete", "-id", "lol"}, wantErr: teacher.ErrNotFound},
		{name: "delete", args: []string{"teacher", "delete", "-id", tchr.ID}, wantOut: "deleted teacher Marie Curie (Physics)"},
	})

	cnt, err := teacherRepo.CountTeachers(context.Background(), &teacher.QueryFilter{SubjectID: physics.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, cnt)
}

func Test_commandLine_classAndStudent(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, out, []cliTest{
		{name: "class add", args: []string{"class", "add", "-name", "5A"}, wantOut: "5A"},
		{name: "class add: too long", args: []string{"class", "add", "-name", strings.Repeat("x", schoolclass.NameMaxLen+1)}, wantErrStr: "name: name must be a maximum of 20 characters in length"},
		{name: "class add: duplicate", args: []string{"class", "add", "-name", "5A"}, wantErr: schoolclass.ErrNameExists},
		{name: "class update", args: []string{"class", "update", "-id", "5A", "-name", "5B"}, wantOut: "5B"},
		{name: "student add", args: []string{"student", "add", "-name", "Jane Doe", "-class", "5B"}, wantOut: "Jane Doe – 5B"},
		{name: "student add: unknown class", args: []string{"student", "add", "-name", "John Doe", "-class", "5A"}, wantErr: student.ErrInvalidClass},
		{name: "student list", args: []string{"student", "list", "-class", "5B", "-ordering", "-full_name"}, wantOut: "Jane Doe – 5B"},
		{name: "class delete", args: []string{"class", "delete", "-id", "5B"}, wantOut: `deleted class "5B" and 1 student(s)`},
	})

	cnt, err := studentRepo.CountStudents(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, cnt)
}

func Test_commandLine_deleteConfirmation(t *testing.T) {
	type extra struct {
		answer string
	}
	tests := []struct {
		name     string
		terminal bool
		yes      bool
		extra    *extra
		wantErr  error
	}{
		{name: "terminal: declined", terminal: true, extra: &extra{answer: "n"}, wantErr: errAborted},
		{name: "terminal: empty answer", terminal: true, extra: &extra{answer: ""}, wantErr: errAborted},
		{name: "terminal: accepted", terminal: true, extra: &extra{answer: "y"}},
		{name: "terminal: -yes", terminal: true, yes: true},
		{name: "not a terminal", terminal: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, _ := setup(t)
			maths := testutil.CreateSubject(t, subjRepo, "Maths")
			testutil.CreateTeacher(t, teacherRepo, "Ada Lovelace", maths.ID)
			class := testutil.CreateClass(t, classRepo, "5A")
			testutil.CreateStudent(t, studentRepo, "Jane Doe", class.ID)

			isTerminalFunc = func(fd int) bool { return tt.terminal }
			readConfirmFunc = func() (string, error) {
				if tt.extra == nil {
					t.Error("confirmation should not be asked")
					return "", nil
				}
				return tt.extra.answer, nil
			}

			for _, args := range [][]string{
				{"admin", "subject", "delete", "-id", "Maths"},
				{"admin", "class", "delete", "-id", "5A"},
			} {
				if tt.yes {
					args = append(args, "-yes")
				}
				err := cli.run(args)
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("cli.run(%v) error = %v, wantErr %v", args, err, tt.wantErr)
				}
			}

			ctx := context.Background()
			teachers, err := teacherRepo.CountTeachers(ctx, nil)
			require.NoError(t, err)
			students, err := studentRepo.CountStudents(ctx, nil)
			require.NoError(t, err)
			if tt.wantErr != nil {
				assert.Equal(t, 1, teachers)
				assert.Equal(t, 1, students)
			} else {
				assert.Zero(t, teachers)
				assert.Zero(t, students)
			}
		})
	}
}

func writeRoster(t *testing.T, teachers, students [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	require.NoError(t, f.SetSheetName("Sheet1", "Teachers"))
	_, err := f.NewSheet("Students")
	require.NoError(t, err)

	for sheet, rows := range map[string][][]interface{}{"Teachers": teachers, "Students": students} {
		for i, row := range rows {
			row := row
			require.NoError(t, f.SetSheetRow(sheet, "A"+strconv.Itoa(i+1), &row))
		}
	}

	path := filepath.Join(t.TempDir(), "roster.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func Test_commandLine_import(t *testing.T) {
	cli, out := setup(t)
	ctx := context.Background()

	testutil.CreateSubject(t, subjRepo, "Maths")
	path := writeRoster(t,
		[][]interface{}{
			{"Full name", "Subject"},
			{"Ada Lovelace", "Maths"},
			{"Isaac Newton", "Physics"},
			{"Marie Curie", "Physics"},
			{},
			{"No Subject", ""},
			{"", "Chemistry"},
		},
		[][]interface{}{
			{"Full name", "Class"},
			{"Jane Doe", "5A"},
			{"", "5A"},
			{"John Doe", "5B"},
		},
	)

	err := cli.run([]string{"admin", "import", "-file", path})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "imported 3 teacher(s) and 2 student(s), created 1 subject(s) and 2 class(es)")
	assert.Contains(t, out.String(), "Teachers row 6: name: this field is required")
	assert.Contains(t, out.String(), "Teachers row 7: full_name: this field is required")
	assert.Contains(t, out.String(), "Students row 3: full_name: this field is required")

	// a rejected row does not leave its subject behind
	_, err = subjRepo.GetSubject(ctx, subject.GetFilter{Name: "Chemistry"})
	assert.ErrorIs(t, err, subject.ErrNotFound)

	physics, err := subjRepo.GetSubject(ctx, subject.GetFilter{Name: "Physics"})
	require.NoError(t, err)
	cnt, err := teacherRepo.CountTeachers(ctx, &teacher.QueryFilter{SubjectID: physics.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, cnt)

	classes, err := classRepo.QueryClasses(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, classes, 2)

	t.Run("missing sheet", func(t *testing.T) {
		out.Reset()
		err := cli.run([]string{"admin", "import", "-file", path, "-sheet-students", "Pupils"})
		require.NoError(t, err)
		assert.Contains(t, out.String(), `sheet "Pupils" not found`)
	})

	t.Run("missing file", func(t *testing.T) {
		err := cli.run([]string{"admin", "import", "-file", filepath.Join(t.TempDir(), "lol.xlsx")})
		assert.Error(t, err)
	})
}

func Test_commandLine_reportError(t *testing.T) {
	cli, out := setup(t)

	cli.reportError(errors.New("boom"))
	assert.Equal(t, "\nerror: boom\n", out.String())

	out.Reset()
	cli.reportError(core.NewValidationError(
		errors.New("invalid"),
		core.FieldError{Field: "subject_id", Error: "subject does not exist"},
		core.FieldError{Field: "full_name", Error: "this field is required"},
	))
	assert.Equal(t, "\nerror: full_name: this field is required; subject_id: subject does not exist\n", out.String())
}

type unreachableSubjects struct {
	subject.Repository
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

func (unreachableSubjects) GetSubject(context.Context, subject.GetFilter) (subject.Subject, error) {
	return subject.Subject{}, errConnRefused
}

func Test_commandLine_importStoreFailure(t *testing.T) {
	cli, out := setup(t)
	cli.subjects = subject.NewService(unreachableSubjects{subjRepo}, core.NewValidator(core.NewTranslator()))

	path := writeRoster(t,
		[][]interface{}{
			{"Full name", "Subject"},
			{"Ada Lovelace", "Maths"},
			{"Isaac Newton", "Physics"},
			{"Marie Curie", "Physics"},
		},
		[][]interface{}{
			{"Full name", "Class"},
			{"Jane Doe", "5A"},
		},
	)

	err := cli.run([]string{"admin", "import", "-file", path})
	require.Error(t, err)
	assert.True(t, core.IsShutdown(err), "error = %v", err)
	assert.ErrorIs(t, err, errConnRefused)
	assert.Contains(t, err.Error(), "importing Teachers row 2")
	assert.NotContains(t, out.String(), "imported")

	// the students sheet is never reached
	classes, err := classRepo.QueryClasses(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, classes)
}
