package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schoolclass"
	"github.com/trezcool/ratiba/core/student"
	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/teacher"
)

// importReport sums up a roster import. Row errors do not stop the import, store failures do.
type importReport struct {
	Subjects int // created on first sight
	Classes  int // created on first sight
	Teachers int
	Students int
	Errors   []string
}

func (cli *commandLine) importCmd(ctx context.Context, args []string) error {
	importCmd := cli.newFlagSet("import")
	file := importCmd.String("file", "", "Path to the .xlsx roster.")
	teachersSheet := importCmd.String("sheet-teachers", cli.conf.Import.TeachersSheet, "Sheet of `full name | subject` rows.")
	studentsSheet := importCmd.String("sheet-students", cli.conf.Import.StudentsSheet, "Sheet of `full name | class` rows.")
	if err := parseFlags(importCmd, args); err != nil {
		return err
	}
	if *file == "" {
		importCmd.Usage()
		return errHelp
	}

	report, err := cli.importRoster(ctx, *file, *teachersSheet, *studentsSheet)
	if core.IsShutdown(err) {
		cli.logger.Error("roster import aborted", err, report.extras(*file))
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "imported %d teacher(s) and %d student(s), created %d subject(s) and %d class(es)\n",
		report.Teachers, report.Students, report.Subjects, report.Classes)
	for _, msg := range report.Errors {
		fmt.Fprintf(cli.out, "  %s\n", msg)
	}
	cli.logger.Info("roster imported", report.extras(*file), report.Errors)
	return nil
}

func (r importReport) extras(file string) map[string]interface{} {
	return map[string]interface{}{
		"file":             file,
		"subjects_created": r.Subjects,
		"classes_created":  r.Classes,
		"teachers":         r.Teachers,
		"students":         r.Students,
		"row_errors":       len(r.Errors),
	}
}

// isRowError tells whether `err` is confined to the row being imported.
func (cli *commandLine) isRowError(err error) bool {
	if core.FieldErrors(err, cli.translator) != nil {
		return true
	}
	for _, target := range []error{
		subject.ErrNameExists,
		schoolclass.ErrNameExists,
		teacher.ErrInvalidSubject,
		student.ErrInvalidClass,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// importRoster reads `full name | parent name` rows from both sheets. The first row of a sheet is a header.
func (cli *commandLine) importRoster(ctx context.Context, path, teachersSheet, studentsSheet string) (importReport, error) {
	var report importReport

	f, err := excelize.OpenFile(path)
	if err != nil {
		return report, errors.Wrap(err, "opening roster")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	readSheet := func(sheet string, importRow func(fullName, parentName string) error) error {
		if !slices.Contains(sheets, sheet) {
			report.Errors = append(report.Errors, fmt.Sprintf("sheet %q not found", sheet))
			return nil
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return errors.Wrapf(err, "reading sheet %q", sheet)
		}
		for i, row := range rows {
			if i == 0 || isBlankRow(row) {
				continue
			}
			if err := importRow(cell(row, 0), cell(row, 1)); err != nil {
				if !cli.isRowError(err) {
					return core.NewShutdownError(err, fmt.Sprintf("importing %s row %d", sheet, i+1))
				}
				report.Errors = append(report.Errors, fmt.Sprintf("%s row %d: %s", sheet, i+1, cli.errorText(err)))
			}
		}
		return nil
	}

	err = readSheet(teachersSheet, func(fullName, subjectName string) error {
		if err := cli.teachers.CheckFullName(fullName); err != nil {
			return err
		}
		subj, created, err := cli.subjects.GetOrCreate(ctx, subjectName)
		if err != nil {
			return err
		}
		if created {
			report.Subjects++
		}
		if _, err = cli.teachers.Create(ctx, teacher.NewTeacher{FullName: fullName, SubjectID: subj.ID}); err != nil {
			return err
		}
		report.Teachers++
		return nil
	})
	if err != nil {
		return report, err
	}

	err = readSheet(studentsSheet, func(fullName, className string) error {
		if err := cli.students.CheckFullName(fullName); err != nil {
			return err
		}
		class, created, err := cli.classes.GetOrCreate(ctx, className)
		if err != nil {
			return err
		}
		if created {
			report.Classes++
		}
		if _, err = cli.students.Create(ctx, student.NewStudent{FullName: fullName, SchoolClassID: class.ID}); err != nil {
			return err
		}
		report.Students++
		return nil
	})
	return report, err
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
