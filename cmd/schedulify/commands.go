package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/schedulify/schedulify-cli/internal/gateway"
	"github.com/schedulify/schedulify-cli/internal/models"
	"github.com/schedulify/schedulify-cli/internal/session"
	"github.com/schedulify/schedulify-cli/internal/timetable"
	"github.com/schedulify/schedulify-cli/pkg/export"
)

func (a *app) cmdRegister(args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "school name")
	code := fs.String("code", "", "school code")
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "admin password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a.nav.NavigateTo(gateway.RouteAdminLogin)
	err := a.client.RegisterSchool(context.Background(), models.RegisterSchoolRequest{
		Name:       *name,
		SchoolCode: *code,
		Email:      *email,
		Password:   *password,
	})
	if err != nil {
		return err
	}
	fmt.Println("School registered successfully! Please login.")
	return nil
}

func (a *app) cmdLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "admin password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a.nav.NavigateTo(gateway.RouteAdminLogin)
	res, err := a.client.AdminLogin(context.Background(), models.AdminLoginRequest{
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		return err
	}
	a.nav.NavigateTo(gateway.RouteDashboard)
	fmt.Printf("Logged in to school %s\n", res.SchoolID)
	return nil
}

func (a *app) cmdTeacherLogin(args []string) error {
	fs := flag.NewFlagSet("teacher-login", flag.ContinueOnError)
	code := fs.String("school-code", "", "school code")
	teacherID := fs.String("teacher-id", "", "teacher id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a.nav.NavigateTo(gateway.RouteTeacherLogin)
	res, err := a.client.TeacherLogin(context.Background(), models.TeacherLoginRequest{
		SchoolCode: *code,
		TeacherID:  *teacherID,
	})
	if err != nil {
		return err
	}
	a.nav.NavigateTo(gateway.RouteTeacherTimetable)
	fmt.Printf("Logged in as teacher %s (school %s)\n", res.TeacherID, res.SchoolID)
	return nil
}

func (a *app) cmdLogout() error {
	if err := a.client.Logout(); err != nil {
		return err
	}
	a.nav.NavigateTo(gateway.RouteAdminLogin)
	fmt.Println("Logged out.")
	return nil
}

func (a *app) cmdWhoami() error {
	identity := a.sessions.Identity()
	switch identity.Role {
	case session.RoleAdmin:
		fmt.Printf("Admin for school %s\n", identity.SchoolID)
	case session.RoleTeacher:
		fmt.Printf("Teacher %s at school %s\n", identity.TeacherID, identity.SchoolID)
	default:
		fmt.Println("Not logged in.")
	}
	return nil
}

func (a *app) cmdSettings(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("settings requires a subcommand: get, set or reset")
	}
	schoolID, err := a.requireAdmin()
	if err != nil {
		return err
	}

	switch args[0] {
	case "get":
		settings, err := a.client.Settings(context.Background(), schoolID)
		if err != nil {
			return err
		}
		fmt.Printf("Period duration:   %d min\n", settings.PeriodDuration)
		fmt.Printf("Periods per day:   %d\n", settings.PeriodsPerDay)
		fmt.Printf("Working days:      %d\n", settings.WorkingDays)
		fmt.Printf("Assembly period:   %d\n", settings.MorningAssemblyPeriod)
		fmt.Printf("Start time:        %s\n", settings.StartTime)
		return nil

	case "set":
		fs := flag.NewFlagSet("settings set", flag.ContinueOnError)
		duration := fs.Int("period-duration", 45, "period duration in minutes")
		periods := fs.Int("periods-per-day", models.DefaultPeriodsPerDay, "periods per day")
		days := fs.Int("working-days", 5, "working days per week")
		assembly := fs.Int("assembly-period", 0, "morning assembly period")
		start := fs.String("start-time", "08:00", "first period start time")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		err := a.client.UpdateSettings(context.Background(), schoolID, models.SchoolSettings{
			PeriodDuration:        *duration,
			PeriodsPerDay:         *periods,
			WorkingDays:           *days,
			MorningAssemblyPeriod: *assembly,
			StartTime:             *start,
		})
		if err != nil {
			return err
		}
		fmt.Println("Settings updated successfully!")
		return nil

	case "reset":
		if !a.confirm("Reset settings to server defaults?") {
			return nil
		}
		if err := a.client.ResetSettings(context.Background(), schoolID); err != nil {
			return err
		}
		fmt.Println("Settings reset to defaults.")
		return nil

	default:
		return fmt.Errorf("unknown settings subcommand %q", args[0])
	}
}

func (a *app) cmdGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	a.assumeYes = a.assumeYes || *yes

	schoolID, err := a.requireAdmin()
	if err != nil {
		return err
	}
	if !a.confirm("This will generate timetables for all classes and may take a few minutes. Continue?") {
		return nil
	}

	fmt.Println("Generating timetable...")
	message, err := a.client.Generate(context.Background(), schoolID)
	if err != nil {
		return err
	}
	if message == "" {
		message = "Timetable generated successfully!"
	}
	fmt.Println(message)
	return nil
}

func (a *app) cmdUpload(args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	path := fs.String("file", "", "master workbook (sheets: Teachers, Subjects, Classes, LabRooms)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("upload requires -file")
	}
	schoolID, err := a.requireAdmin()
	if err != nil {
		return err
	}

	file, err := os.Open(*path)
	if err != nil {
		return err
	}
	defer file.Close() //nolint:errcheck

	message, err := a.client.UploadMaster(context.Background(), schoolID, *path, file)
	if err != nil {
		return err
	}
	if message == "" {
		message = "Upload complete."
	}
	fmt.Println(message)
	return nil
}

func (a *app) cmdTimetable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("timetable requires a subcommand: class or teacher")
	}

	fs := flag.NewFlagSet("timetable", flag.ContinueOnError)
	classID := fs.String("class", "", "class group id")
	sectionID := fs.String("section", "", "section id")
	teacherID := fs.String("teacher", "", "teacher id (defaults to the logged-in teacher)")
	pdfOut := fs.Bool("pdf", false, "also export the grid to a local PDF")
	csvOut := fs.Bool("csv", false, "also export the grid to a local CSV")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	identity := a.sessions.Identity()
	if identity.Role == session.RoleUnauthenticated {
		return fmt.Errorf("please log in first")
	}
	schoolID := identity.SchoolID

	ctx := context.Background()
	var (
		week  models.Week
		view  timetable.View
		title string
		err   error
	)

	switch args[0] {
	case "class":
		if *classID == "" || *sectionID == "" {
			return fmt.Errorf("timetable class requires -class and -section")
		}
		week, err = a.client.ClassTimetable(ctx, schoolID, *classID, *sectionID)
		view = timetable.ClassView
		title = fmt.Sprintf("Class %s %s", *classID, *sectionID)
	case "teacher":
		id := *teacherID
		if id == "" {
			id = identity.TeacherID
		}
		if id == "" {
			return fmt.Errorf("timetable teacher requires -teacher for admin sessions")
		}
		week, err = a.client.TeacherTimetable(ctx, schoolID, id)
		view = timetable.TeacherView
		title = fmt.Sprintf("Teacher %s", id)
	default:
		return fmt.Errorf("unknown timetable subcommand %q", args[0])
	}
	if err != nil {
		return err
	}

	meta, err := a.client.Metadata(ctx, schoolID)
	if err != nil {
		return err
	}

	periods := models.DefaultPeriodsPerDay
	if identity.Role == session.RoleAdmin {
		if settings, err := a.client.Settings(ctx, schoolID); err == nil && settings.PeriodsPerDay > 0 {
			periods = settings.PeriodsPerDay
		}
	}

	grid := timetable.Project(week, models.WeekDays, periods, meta, view)
	printGrid(grid, title)

	if *pdfOut {
		data, err := export.NewPDFExporter().Render(grid, title)
		if err != nil {
			return err
		}
		path, err := a.files.Save(title+".pdf", data)
		if err != nil {
			return err
		}
		fmt.Println("Saved", path)
	}
	if *csvOut {
		data, err := export.NewCSVExporter().Render(grid)
		if err != nil {
			return err
		}
		path, err := a.files.Save(title+".csv", data)
		if err != nil {
			return err
		}
		fmt.Println("Saved", path)
	}
	return nil
}

func (a *app) cmdDownload(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("download requires a subcommand: class-pdf, teacher-pdf or teacher-csv")
	}

	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	classID := fs.String("class", "", "class group id")
	sectionID := fs.String("section", "", "section id")
	teacherID := fs.String("teacher", "", "teacher id")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	identity := a.sessions.Identity()
	if identity.Role == session.RoleUnauthenticated {
		return fmt.Errorf("please log in first")
	}
	schoolID := identity.SchoolID
	if *teacherID == "" {
		*teacherID = identity.TeacherID
	}

	ctx := context.Background()
	var (
		name string
		data []byte
		err  error
	)

	switch args[0] {
	case "class-pdf":
		if *classID == "" || *sectionID == "" {
			return fmt.Errorf("download class-pdf requires -class and -section")
		}
		name, data, err = a.client.ClassPDF(ctx, schoolID, *classID, *sectionID)
	case "teacher-pdf":
		if *teacherID == "" {
			return fmt.Errorf("download teacher-pdf requires -teacher")
		}
		name, data, err = a.client.TeacherPDF(ctx, schoolID, *teacherID)
	case "teacher-csv":
		if *teacherID == "" {
			return fmt.Errorf("download teacher-csv requires -teacher")
		}
		name, data, err = a.client.TeacherCSV(ctx, schoolID, *teacherID)
	default:
		return fmt.Errorf("unknown download subcommand %q", args[0])
	}
	if err != nil {
		return err
	}

	path, err := a.files.Save(name, data)
	if err != nil {
		return err
	}
	fmt.Println("Saved", path)
	return nil
}

// requireAdmin gates admin commands the way the browser client gated admin
// routes: a teacher session is invalidated outright.
func (a *app) requireAdmin() (string, error) {
	identity := a.sessions.Identity()
	switch identity.Role {
	case session.RoleAdmin:
		return identity.SchoolID, nil
	case session.RoleTeacher:
		if err := a.sessions.Clear(); err != nil {
			a.logger.Warn("failed to clear session")
		}
		return "", fmt.Errorf("this command requires a school administrator account")
	default:
		return "", fmt.Errorf("please log in first")
	}
}

func printGrid(grid timetable.Grid, title string) {
	fmt.Println(title)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprint(w, "Period")
	for _, day := range grid.Days {
		fmt.Fprintf(w, "\t%s", day)
	}
	fmt.Fprintln(w)

	for period := 0; period < grid.Periods; period++ {
		fmt.Fprintf(w, "%d", period+1)
		for _, day := range grid.Days {
			cell := grid.Cell(day, period)
			if cell.Free() {
				fmt.Fprint(w, "\t-")
				continue
			}
			text := cell.Subject
			if cell.Detail != "" {
				text += " / " + cell.Detail
			}
			if cell.LabRoom != "" {
				text += " (Lab: " + cell.LabRoom + ")"
			}
			fmt.Fprintf(w, "\t%s", text)
		}
		fmt.Fprintln(w)
	}
	w.Flush() //nolint:errcheck
}
