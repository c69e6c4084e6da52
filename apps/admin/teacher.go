package main

import (
	"context"
	"fmt"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/teacher"
)

func teacherID(t teacher.Teacher) string { return t.ID }

func (cli *commandLine) teacherCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}

	switch args[0] {
	case "add":
		addCmd := cli.newFlagSet("teacher add")
		name := addCmd.String("name", "", "The teacher's full name.")
		subjectRef := addCmd.String("subject", "", "The taught subject's ID or name.")
		if err := parseFlags(addCmd, args[1:]); err != nil {
			return err
		}
		subjID, err := cli.resolveSubjectID(ctx, *subjectRef)
		if err != nil {
			return err
		}
		t, err := cli.teachers.Create(ctx, teacher.NewTeacher{FullName: *name, SubjectID: subjID})
		if err != nil {
			return err
		}
		return printTable(cli.out, []teacher.Teacher{t}, teacherID)

	case "list":
		listCmd := cli.newFlagSet("teacher list")
		subjectRef := listCmd.String("subject", "", "Only list teachers of this subject (ID or name).")
		search := listCmd.String("search", "", "Only list teachers whose name contains this text.")
		ordering := listCmd.String("ordering", "", `Fields to order by, eg. "subject,-full_name" (one of: id, full_name, subject).`)
		if err := parseFlags(listCmd, args[1:]); err != nil {
			return err
		}
		filter := &teacher.QueryFilter{Search: *search}
		if *subjectRef != "" {
			subjID, err := cli.resolveSubjectID(ctx, *subjectRef)
			if err != nil {
				return err
			}
			filter.SubjectID = subjID
		}
		teachers, err := cli.teachers.Query(ctx, filter, core.ParseOrdering(*ordering))
		if err != nil {
			return err
		}
		return printTable(cli.out, teachers, teacherID)

	case "update":
		updateCmd := cli.newFlagSet("teacher update")
		id := updateCmd.String("id", "", "The teacher's ID.")
		name := updateCmd.String("name", "", "The new full name.")
		subjectRef := updateCmd.String("subject", "", "The new subject's ID or name.")
		if err := parseFlags(updateCmd, args[1:]); err != nil {
			return err
		}
		if *id == "" {
			updateCmd.Usage()
			return errHelp
		}

		var ut teacher.UpdateTeacher
		if isFlagSet(updateCmd, "name") {
			ut.FullName = name
		}
		if isFlagSet(updateCmd, "subject") {
			subjID, err := cli.resolveSubjectID(ctx, *subjectRef)
			if err != nil {
				return err
			}
			ut.SubjectID = &subjID
		}
		t, err := cli.teachers.Update(ctx, *id, ut)
		if err != nil {
			return err
		}
		return printTable(cli.out, []teacher.Teacher{t}, teacherID)

	case "delete":
		deleteCmd := cli.newFlagSet("teacher delete")
		id := deleteCmd.String("id", "", "The teacher's ID.")
		if err := parseFlags(deleteCmd, args[1:]); err != nil {
			return err
		}
		if *id == "" {
			deleteCmd.Usage()
			return errHelp
		}
		t, err := cli.teachers.GetByID(ctx, *id)
		if err != nil {
			return err
		}
		if _, err = cli.teachers.Delete(ctx, t.ID); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "deleted teacher %s\n", t)
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}
