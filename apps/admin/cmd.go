package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	ut "github.com/go-playground/universal-translator"
	"go.uber.org/dig"
	"golang.org/x/term"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schoolclass"
	"github.com/trezcool/ratiba/core/student"
	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/teacher"
)

var (
	readConfirmFunc = readLine        // mockable
	isTerminalFunc  = term.IsTerminal // mockable

	errHelp    = errors.New("help provided")
	errAborted = errors.New("aborted")
)

type commandLine struct {
	db         *sql.DB
	conf       *core.Config
	logger     core.Logger
	translator ut.Translator
	subjects   *subject.Service
	teachers   *teacher.Service
	classes    *schoolclass.Service
	students   *student.Service
	out        io.Writer
}

type commandLineParams struct {
	dig.In

	DB         *sql.DB
	Conf       *core.Config
	Logger     core.Logger
	Translator ut.Translator
	Subjects   *subject.Service
	Teachers   *teacher.Service
	Classes    *schoolclass.Service
	Students   *student.Service
}

func newCommandLine(p commandLineParams) *commandLine {
	return &commandLine{
		db:         p.DB,
		conf:       p.Conf,
		logger:     p.Logger,
		translator: p.Translator,
		subjects:   p.Subjects,
		teachers:   p.Teachers,
		classes:    p.Classes,
		students:   p.Students,
		out:        os.Stdout,
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                                - run a goose command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  subject add -name NAME [-description TEXT]            - add a subject")
	fmt.Fprintln(cli.out, "  subject list [-search TEXT] [-ordering FIELDS]        - list subjects")
	fmt.Fprintln(cli.out, "  subject update -id ID|NAME [-name NAME] [-description TEXT]")
	fmt.Fprintln(cli.out, "  subject delete -id ID|NAME [-yes]                     - delete a subject and its teachers")
	fmt.Fprintln(cli.out, "  teacher add -name NAME -subject ID|NAME               - add a teacher")
	fmt.Fprintln(cli.out, "  teacher list [-subject ID|NAME] [-search TEXT] [-ordering FIELDS]")
	fmt.Fprintln(cli.out, "  teacher update -id ID [-name NAME] [-subject ID|NAME]")
	fmt.Fprintln(cli.out, "  teacher delete -id ID")
	fmt.Fprintln(cli.out, "  class add -name NAME                                  - add a class")
	fmt.Fprintln(cli.out, "  class list [-search TEXT] [-ordering FIELDS]          - list classes")
	fmt.Fprintln(cli.out, "  class update -id ID|NAME -name NAME")
	fmt.Fprintln(cli.out, "  class delete -id ID|NAME [-yes]                       - delete a class and its students")
	fmt.Fprintln(cli.out, "  student add -name NAME -class ID|NAME                 - add a student")
	fmt.Fprintln(cli.out, "  student list [-class ID|NAME] [-search TEXT] [-ordering FIELDS]")
	fmt.Fprintln(cli.out, "  student update -id ID [-name NAME] [-class ID|NAME]")
	fmt.Fprintln(cli.out, "  student delete -id ID")
	fmt.Fprintln(cli.out, "  import -file FILE.xlsx [-sheet-teachers NAME] [-sheet-students NAME]")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	ctx := context.Background()
	switch args[1] {
	case "migrate":
		return cli.migrate(ctx, args[2:])
	case "subject":
		return cli.subjectCmd(ctx, args[2:])
	case "teacher":
		return cli.teacherCmd(ctx, args[2:])
	case "class":
		return cli.classCmd(ctx, args[2:])
	case "student":
		return cli.studentCmd(ctx, args[2:])
	case "import":
		return cli.importCmd(ctx, args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}
	return nil
}

// isFlagSet reports whether flag `name` was given on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	var found bool
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// confirm prompts the operator when stdin is a terminal; anything but "y" aborts.
func (cli *commandLine) confirm(prompt string) error {
	if !isTerminalFunc(int(os.Stdin.Fd())) {
		return nil
	}
	fmt.Fprintf(cli.out, "%s [y/N]: ", prompt)
	answer, err := readConfirmFunc()
	if err != nil {
		return err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return nil
	}
	return errAborted
}

func readLine() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// printTable prints one "ID<TAB>String()" line per item.
func printTable[T fmt.Stringer](w io.Writer, items []T, id func(T) string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\n", id(item), item)
	}
	return tw.Flush()
}

// errorText renders validation errors field by field, in field order.
func (cli *commandLine) errorText(err error) string {
	fldErrs := core.FieldErrors(err, cli.translator)
	if fldErrs == nil {
		return err.Error()
	}
	fields := make([]string, 0, len(fldErrs))
	for fld := range fldErrs {
		fields = append(fields, fld)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, fld := range fields {
		msgs = append(msgs, fld+": "+fldErrs[fld])
	}
	return strings.Join(msgs, "; ")
}

func (cli *commandLine) reportError(err error) {
	fmt.Fprintf(cli.out, "\nerror: %s\n", cli.errorText(err))
}
