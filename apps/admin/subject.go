package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/teacher"
)

func subjectID(s subject.Subject) string { return s.ID }

func (cli *commandLine) subjectCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}

	switch args[0] {
	case "add":
		addCmd := cli.newFlagSet("subject add")
		name := addCmd.String("name", "", "The subject's name.")
		description := addCmd.String("description", "", "An optional description.")
		if err := parseFlags(addCmd, args[1:]); err != nil {
			return err
		}
		subj, err := cli.subjects.Create(ctx, subject.NewSubject{Name: *name, Description: *description})
		if err != nil {
			return err
		}
		return printTable(cli.out, []subject.Subject{subj}, subjectID)

	case "list":
		listCmd := cli.newFlagSet("subject list")
		search := listCmd.String("search", "", "Only list subjects whose name contains this text.")
		ordering := listCmd.String("ordering", "", `Fields to order by, eg. "-name" (one of: id, name).`)
		if err := parseFlags(listCmd, args[1:]); err != nil {
			return err
		}
		subjects, err := cli.subjects.Query(ctx, &subject.QueryFilter{Search: *search}, core.ParseOrdering(*ordering))
		if err != nil {
			return err
		}
		return printTable(cli.out, subjects, subjectID)

	case "update":
		updateCmd := cli.newFlagSet("subject update")
		ref := updateCmd.String("id", "", "The subject's ID or name.")
		name := updateCmd.String("name", "", "The new name.")
		description := updateCmd.String("description", "", "The new description.")
		if err := parseFlags(updateCmd, args[1:]); err != nil {
			return err
		}
		if *ref == "" {
			updateCmd.Usage()
			return errHelp
		}
		subj, err := cli.subjects.GetByIDOrName(ctx, *ref)
		if err != nil {
			return err
		}

		var us subject.UpdateSubject
		if isFlagSet(updateCmd, "name") {
			us.Name = name
		}
		if isFlagSet(updateCmd, "description") {
			us.Description = description
		}
		if subj, err = cli.subjects.Update(ctx, subj.ID, us); err != nil {
			return err
		}
		return printTable(cli.out, []subject.Subject{subj}, subjectID)

	case "delete":
		deleteCmd := cli.newFlagSet("subject delete")
		ref := deleteCmd.String("id", "", "The subject's ID or name.")
		yes := deleteCmd.Bool("yes", false, "Do not ask for confirmation.")
		if err := parseFlags(deleteCmd, args[1:]); err != nil {
			return err
		}
		if *ref == "" {
			deleteCmd.Usage()
			return errHelp
		}
		return cli.deleteSubject(ctx, *ref, *yes)

	default:
		cli.printUsage()
		return errHelp
	}
}

// deleteSubject deletes a subject and, by cascade, its teachers.
func (cli *commandLine) deleteSubject(ctx context.Context, ref string, yes bool) error {
	subj, err := cli.subjects.GetByIDOrName(ctx, ref)
	if err != nil {
		return err
	}
	cnt, err := cli.teachers.Count(ctx, &teacher.QueryFilter{SubjectID: subj.ID})
	if err != nil {
		return errors.Wrap(err, "counting teachers")
	}
	if cnt > 0 && !yes {
		prompt := fmt.Sprintf("Deleting subject %q also deletes %d teacher(s). Continue?", subj.Name, cnt)
		if err = cli.confirm(prompt); err != nil {
			return err
		}
	}

	if _, err = cli.subjects.Delete(ctx, subj.ID); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "deleted subject %q and %d teacher(s)\n", subj.Name, cnt)
	return nil
}

// resolveSubjectID turns an ID or name into a subject ID. Unknown refs are returned as is,
// so the teacher service reports them as invalid.
func (cli *commandLine) resolveSubjectID(ctx context.Context, ref string) (string, error) {
	subj, err := cli.subjects.GetByIDOrName(ctx, ref)
	if err != nil {
		if errors.Is(err, subject.ErrNotFound) {
			return ref, nil
		}
		return "", err
	}
	return subj.ID, nil
}
