package main

import (
	"context"
	"fmt"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/student"
)

func studentID(s student.Student) string { return s.ID }

func (cli *commandLine) studentCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}

	switch args[0] {
	case "add":
		addCmd := cli.newFlagSet("student add")
		name := addCmd.String("name", "", "The student's full name.")
		classRef := addCmd.String("class", "", "The student's class ID or name.")
		if err := parseFlags(addCmd, args[1:]); err != nil {
			return err
		}
		clsID, err := cli.resolveClassID(ctx, *classRef)
		if err != nil {
			return err
		}
		s, err := cli.students.Create(ctx, student.NewStudent{FullName: *name, SchoolClassID: clsID})
		if err != nil {
			return err
		}
		return printTable(cli.out, []student.Student{s}, studentID)

	case "list":
		listCmd := cli.newFlagSet("student list")
		classRef := listCmd.String("class", "", "Only list students of this class (ID or name).")
		search := listCmd.String("search", "", "Only list students whose name contains this text.")
		ordering := listCmd.String("ordering", "", `Fields to order by, eg. "school_class,-full_name" (one of: id, full_name, school_class).`)
		if err := parseFlags(listCmd, args[1:]); err != nil {
			return err
		}
		filter := &student.QueryFilter{Search: *search}
		if *classRef != "" {
			clsID, err := cli.resolveClassID(ctx, *classRef)
			if err != nil {
				return err
			}
			filter.SchoolClassID = clsID
		}
		students, err := cli.students.Query(ctx, filter, core.ParseOrdering(*ordering))
		if err != nil {
			return err
		}
		return printTable(cli.out, students, studentID)

	case "update":
		updateCmd := cli.newFlagSet("student update")
		id := updateCmd.String("id", "", "The student's ID.")
		name := updateCmd.String("name", "", "The new full name.")
		classRef := updateCmd.String("class", "", "The new class's ID or name.")
		if err := parseFlags(updateCmd, args[1:]); err != nil {
			return err
		}
		if *id == "" {
			updateCmd.Usage()
			return errHelp
		}

		var us student.UpdateStudent
		if isFlagSet(updateCmd, "name") {
			us.FullName = name
		}
		if isFlagSet(updateCmd, "class") {
			clsID, err := cli.resolveClassID(ctx, *classRef)
			if err != nil {
				return err
			}
			us.SchoolClassID = &clsID
		}
		s, err := cli.students.Update(ctx, *id, us)
		if err != nil {
			return err
		}
		return printTable(cli.out, []student.Student{s}, studentID)

	case "delete":
		deleteCmd := cli.newFlagSet("student delete")
		id := deleteCmd.String("id", "", "The student's ID.")
		if err := parseFlags(deleteCmd, args[1:]); err != nil {
			return err
		}
		if *id == "" {
			deleteCmd.Usage()
			return errHelp
		}
		s, err := cli.students.GetByID(ctx, *id)
		if err != nil {
			return err
		}
		if _, err = cli.students.Delete(ctx, s.ID); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "deleted student %s\n", s)
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}
