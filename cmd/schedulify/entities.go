package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/schedulify/schedulify-cli/internal/controller"
	"github.com/schedulify/schedulify-cli/internal/gateway"
	"github.com/schedulify/schedulify-cli/internal/models"
)

func (a *app) cmdEntity(name string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%s requires a subcommand: list, create, update or delete", name)
	}
	sub, rest := args[0], args[1:]

	switch name {
	case "teachers":
		return a.teachersCmd(sub, rest)
	case "subjects":
		return a.subjectsCmd(sub, rest)
	case "classes":
		return a.classesCmd(sub, rest)
	case "labs":
		return a.labsCmd(sub, rest)
	case "class-subjects":
		return a.classSubjectsCmd(sub, rest)
	default:
		return fmt.Errorf("unknown entity %q", name)
	}
}

// newController wires one entity collection to the shared list controller.
func newController[E any](a *app, path, label string) *controller.List[E] {
	endpoint := gateway.NewCollection[E](a.client, path)
	return controller.NewList[E](endpoint, a.sessions, label, a.confirm, a.logger)
}

// mutate loads the collection, runs one mutation and echoes the banner.
func mutate[E any](ctl *controller.List[E], op func(ctx context.Context) error) error {
	ctx := context.Background()
	if err := ctl.Load(ctx); err != nil {
		return err
	}
	if err := op(ctx); err != nil {
		return err
	}
	if banner := ctl.Banner(); banner != nil {
		fmt.Println(banner.Message)
	}
	return nil
}

func (a *app) teachersCmd(sub string, args []string) error {
	ctl := newController[models.Teacher](a, gateway.PathTeachers, "Teacher")

	fs := flag.NewFlagSet("teachers "+sub, flag.ContinueOnError)
	id := fs.String("id", "", "teacher id")
	name := fs.String("name", "", "teacher name")
	subjects := fs.String("subjects", "", "comma-separated subject ids")
	classGroups := fs.String("class-groups", "", "comma-separated class group ids")
	maxPeriods := fs.Int("max-periods", 20, "maximum periods per week")
	if err := fs.Parse(args); err != nil {
		return err
	}

	draft := func() models.Teacher {
		return models.Teacher{
			ID:                *id,
			Name:              *name,
			SubjectIDs:        splitList(*subjects),
			ClassGroupIDs:     splitList(*classGroups),
			MaxPeriodsPerWeek: *maxPeriods,
		}
	}

	switch sub {
	case "list":
		if err := ctl.Load(context.Background()); err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tSUBJECTS\tMAX/WEEK")
		for _, t := range ctl.Items() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", t.ID, t.Name, strings.Join(t.SubjectIDs, ","), t.MaxPeriodsPerWeek)
		}
		return w.Flush()
	case "create":
		d := draft()
		if d.ID == "" {
			d.ID = models.NewID()
		}
		return mutate(ctl, func(ctx context.Context) error { return ctl.Create(ctx, d) })
	case "update":
		if *id == "" {
			return fmt.Errorf("update requires -id")
		}
		return mutate(ctl, func(ctx context.Context) error { return ctl.Update(ctx, *id, draft()) })
	case "delete":
		if *id == "" {
			return fmt.Errorf("delete requires -id")
		}
		return mutate(ctl, func(ctx context.Context) error { return ctl.Remove(ctx, *id) })
	default:
		return fmt.Errorf("unknown subcommand %q", sub)
	}
}

func (a *app) subjectsCmd(sub string, args []string) error {
	ctl := newController[models.Subject](a, gateway.PathSubjects, "Subject")

	fs := flag.NewFlagSet("subjects "+sub, flag.ContinueOnError)
	id := fs.String("id", "", "subject id")
	name := fs.String("name", "", "subject name")
	code := fs.String("code", "", "subject code")
	roomType := fs.String("room-type", "CLASSROOM", "required room type")
	consecutive := fs.Bool("consecutive", false, "requires consecutive periods")
	consecutiveSize := fs.Int("consecutive-size", 2, "consecutive block size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	draft := func() models.Subject {
		size := 0
		if *consecutive {
			size = *consecutiveSize
		}
		return models.Subject{
			ID:                  *id,
			Name:                *name,
			Code:                *code,
			RoomType:            *roomType,
			RequiresConsecutive: *consecutive,
			ConsecutiveSize:     size,
		}
	}

	switch sub {
	case "list":
		if err := ctl.Load(context.Background()); err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tCODE\tROOM\tCONSECUTIVE")
		for _, s := range ctl.Items() {
			consecutiveCol := "-"
			if s.RequiresConsecutive {
				consecutiveCol = fmt.Sprintf("blocks of %d", s.ConsecutiveSize)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Code, s.RoomType, consecutiveCol)
		}
		return w.Flush()
	case "create":
		d := draft()
		if d.ID == "" {
			d.ID = models.NewID()
		}
		return mutate(ctl, func(ctx context.Context) error { return ctl.Create(ctx, d) })
	case "update":
		if *id == "" {
			return fmt.Errorf("update requires -id")
		}
		return mutate(ctl, func(ctx context.Context) error { return ctl.Update(ctx, *id, draft()) })
	case "delete":
		if *id == "" {
			return fmt.Errorf("delete requires -id")
		}
		return mutate(ctl, func(ctx context.Context) error { return ctl.Remove(ctx, *id) })
	default:
		return fmt.Errorf("unknown subcommand %q", sub)
	}
}

func (a *app) classesCmd(sub string, args []string) error {
	ctl := newController[models.ClassGroup](a, gateway.PathClasses, "Class")

	fs := flag.NewFlagSet("classes "+sub, flag.ContinueOnError)
	id := fs.String("id", "", "class group id")
	name := fs.String("name", "", "class name")
	sections := fs.String("sections", "", "comma-separated section ids")
	subjects := fs.String("subjects", "", "comma-separated subject ids")
	if err := fs.Parse(args); err != nil {
		return err
	}

	draft := func() models.ClassGroup {
		return models.ClassGroup{
			ID:         *id,
			Name:       *name,
			SectionIDs: splitList(*sections),
			SubjectIDs: splitList(*subjects),
		}
	}

	switch sub {
	case "list":
		if err := ctl.Load(context.Background()); err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tSECTIONS")
		for _, c := range ctl.Items() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, strings.Join(c.SectionIDs, ","))
		}
		return w.Flush()
	case "create":
		d := draft()
		if d.ID == "" {
			d.ID = models.NewID()
		}
		return mutate(ctl, func(ctx context.Context) error { return ctl.Create(ctx, d) })
	case "update":
		if *id == "" {
			return fmt.Errorf("update requires -id")
		}
		return mutate(ctl, func(ctx context.Context) error { return ctl.Update(ctx, *id, draft()) })
	case "delete":
		if *id == "" {
			return fmt.Errorf("delete requires -id")
		}
		return mutate(ctl, func(ctx context.Context) error { return ctl.Remove(ctx, *id) })
	default:
		return fmt.Errorf("unknown subcommand %q", sub)
	}
}

func (a *app) labsCmd(sub string, args []string) error {
	ctl := newController[models.LabRoom](a, gateway.PathLabs, "Lab room")

	fs := flag.NewFlagSet("labs "+sub, flag.ContinueOnError)
	id := fs.String("id", "", "lab room id")
	name := fs.String("name", "", "lab room name")
	capacity := fs.Int("capacity", 30, "room capacity")
	if err := fs.Parse(args); err != nil {
		return err
	}

	draft := func() models.LabRoom {
		return models.LabRoom{ID: *id, Name: *name, Capacity: *capacity}
	}

	switch sub {
	case "list":
		if err := ctl.Load(context.Background()); err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tCAPACITY")
		for _, l := range ctl.Items() {
			fmt.Fprintf(w, "%s\t%s\t%d\n", l.ID, l.Name, l.Capacity)
		}
		return w.Flush()
	case "create":
		d := draft()
		if d.ID == "" {
			d.ID = models.NewID()
		}
		return mutate(ctl, func(ctx context.Context) error { return ctl.Create(ctx, d) })
	case "update":
		if *id == "" {
			return fmt.Errorf("update requires -id")
		}
		return mutate(ctl, func(ctx context.Context) error { return ctl.Update(ctx, *id, draft()) })
	case "delete":
		if *id == "" {
			return fmt.Errorf("delete requires -id")
		}
		return mutate(ctl, func(ctx context.Context) error { return ctl.Remove(ctx, *id) })
	default:
		return fmt.Errorf("unknown subcommand %q", sub)
	}
}

func (a *app) classSubjectsCmd(sub string, args []string) error {
	ctl := newController[models.ClassSubjectAssignment](a, gateway.PathClassSubjects, "Assignment")

	fs := flag.NewFlagSet("class-subjects "+sub, flag.ContinueOnError)
	id := fs.String("id", "", "assignment id")
	classGroup := fs.String("class", "", "class group id")
	subject := fs.String("subject", "", "subject id")
	teacher := fs.String("teacher", "", "teacher id")
	periods := fs.Int("periods", 4, "periods per week")
	roomType := fs.String("room-type", "CLASSROOM", "required room type")
	consecutive := fs.Bool("consecutive", false, "requires consecutive periods")
	consecutiveSize := fs.Int("consecutive-size", 2, "consecutive block size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	draft := func() models.ClassSubjectAssignment {
		size := 0
		if *consecutive {
			size = *consecutiveSize
		}
		return models.ClassSubjectAssignment{
			ID:                  *id,
			ClassGroupID:        *classGroup,
			SubjectID:           *subject,
			TeacherID:           *teacher,
			PeriodsPerWeek:      *periods,
			RoomType:            *roomType,
			RequiresConsecutive: *consecutive,
			ConsecutiveSize:     size,
		}
	}

	switch sub {
	case "list":
		if err := ctl.Load(context.Background()); err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tCLASS\tSUBJECT\tTEACHER\tPERIODS/WEEK")
		for _, cs := range ctl.Items() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", cs.ID, cs.ClassGroupID, cs.SubjectID, cs.TeacherID, cs.PeriodsPerWeek)
		}
		return w.Flush()
	case "create":
		return mutate(ctl, func(ctx context.Context) error { return ctl.Create(ctx, draft()) })
	case "update":
		if *id == "" {
			return fmt.Errorf("update requires -id")
		}
		return mutate(ctl, func(ctx context.Context) error { return ctl.Update(ctx, *id, draft()) })
	case "delete":
		if *id == "" {
			return fmt.Errorf("delete requires -id")
		}
		return mutate(ctl, func(ctx context.Context) error { return ctl.Remove(ctx, *id) })
	default:
		return fmt.Errorf("unknown subcommand %q", sub)
	}
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
