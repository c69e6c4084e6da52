package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schoolclass"
	"github.com/trezcool/ratiba/core/student"
)

func classID(c schoolclass.SchoolClass) string { return c.ID }

func (cli *commandLine) classCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}

	switch args[0] {
	case "add":
		addCmd := cli.newFlagSet("class add")
		name := addCmd.String("name", "", "The class's name, eg. 5A.")
		if err := parseFlags(addCmd, args[1:]); err != nil {
			return err
		}
		class, err := cli.classes.Create(ctx, schoolclass.NewClass{Name: *name})
		if err != nil {
			return err
		}
		return printTable(cli.out, []schoolclass.SchoolClass{class}, classID)

	case "list":
		listCmd := cli.newFlagSet("class list")
		search := listCmd.String("search", "", "Only list classes whose name contains this text.")
		ordering := listCmd.String("ordering", "", `Fields to order by, eg. "-name" (one of: id, name).`)
		if err := parseFlags(listCmd, args[1:]); err != nil {
			return err
		}
		classes, err := cli.classes.Query(ctx, &schoolclass.QueryFilter{Search: *search}, core.ParseOrdering(*ordering))
		if err != nil {
			return err
		}
		return printTable(cli.out, classes, classID)

	case "update":
		updateCmd := cli.newFlagSet("class update")
		ref := updateCmd.String("id", "", "The class's ID or name.")
		name := updateCmd.String("name", "", "The new name.")
		if err := parseFlags(updateCmd, args[1:]); err != nil {
			return err
		}
		if *ref == "" {
			updateCmd.Usage()
			return errHelp
		}
		class, err := cli.classes.GetByIDOrName(ctx, *ref)
		if err != nil {
			return err
		}

		var uc schoolclass.UpdateClass
		if isFlagSet(updateCmd, "name") {
			uc.Name = name
		}
		if class, err = cli.classes.Update(ctx, class.ID, uc); err != nil {
			return err
		}
		return printTable(cli.out, []schoolclass.SchoolClass{class}, classID)

	case "delete":
		deleteCmd := cli.newFlagSet("class delete")
		ref := deleteCmd.String("id", "", "The class's ID or name.")
		yes := deleteCmd.Bool("yes", false, "Do not ask for confirmation.")
		if err := parseFlags(deleteCmd, args[1:]); err != nil {
			return err
		}
		if *ref == "" {
			deleteCmd.Usage()
			return errHelp
		}
		return cli.deleteClass(ctx, *ref, *yes)

	default:
		cli.printUsage()
		return errHelp
	}
}

// deleteClass deletes a class and, by cascade, its students.
func (cli *commandLine) deleteClass(ctx context.Context, ref string, yes bool) error {
	class, err := cli.classes.GetByIDOrName(ctx, ref)
	if err != nil {
		return err
	}
	cnt, err := cli.students.Count(ctx, &student.QueryFilter{SchoolClassID: class.ID})
	if err != nil {
		return errors.Wrap(err, "counting students")
	}
	if cnt > 0 && !yes {
		prompt := fmt.Sprintf("Deleting class %q also deletes %d student(s). Continue?", class.Name, cnt)
		if err = cli.confirm(prompt); err != nil {
			return err
		}
	}

	if _, err = cli.classes.Delete(ctx, class.ID); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "deleted class %q and %d student(s)\n", class.Name, cnt)
	return nil
}

func (cli *commandLine) resolveClassID(ctx context.Context, ref string) (string, error) {
	class, err := cli.classes.GetByIDOrName(ctx, ref)
	if err != nil {
		if errors.Is(err, schoolclass.ErrNotFound) {
			return ref, nil
		}
		return "", err
	}
	return class.ID, nil
}
