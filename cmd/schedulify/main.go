package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/schedulify/schedulify-cli/internal/gateway"
	"github.com/schedulify/schedulify-cli/internal/session"
	"github.com/schedulify/schedulify-cli/pkg/config"
	"github.com/schedulify/schedulify-cli/pkg/logger"
	"github.com/schedulify/schedulify-cli/pkg/storage"
)

const usage = `schedulify - school timetable client

Usage: schedulify <command> [flags]

Auth:
  register        register a new school admin account
  login           log in as a school administrator
  teacher-login   log in as a teacher
  logout          clear the stored session
  whoami          show the current session role

Entities (admin):
  teachers | subjects | classes | labs | class-subjects
                  subcommands: list, create, update, delete

School (admin):
  settings        get, set or reset generation settings
  generate        run server-side timetable generation
  upload          import the master data workbook

Timetables:
  timetable       show a class or teacher week grid
  download        fetch server-rendered PDF/CSV exports
`

// navigator tracks the virtual screen location the transport consults when a
// request is rejected.
type navigator struct {
	location string
}

func (n *navigator) Location() string        { return n.location }
func (n *navigator) NavigateTo(route string) { n.location = route }

type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	sessions  *session.Store
	client    *gateway.Client
	nav       *navigator
	files     *storage.LocalStorage
	stdin     *bufio.Reader
	assumeYes bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	sessions, err := session.Open(cfg.Session.DBPath, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open session store", "error", err)
	}
	defer sessions.Close() //nolint:errcheck

	files, err := storage.NewLocalStorage(cfg.Download.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare download directory", "error", err)
	}

	nav := &navigator{location: startLocation(sessions)}
	client := gateway.New(cfg.API, sessions, nav, logr)

	a := &app{
		cfg:      cfg,
		logger:   logr,
		sessions: sessions,
		client:   client,
		nav:      nav,
		files:    files,
		stdin:    bufio.NewReader(os.Stdin),
	}

	if err := a.run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if nav.Location() == gateway.RouteAdminLogin && startLocation(sessions) != gateway.RouteAdminLogin {
			fmt.Fprintln(os.Stderr, "Your session is no longer valid. Please log in again.")
		}
		os.Exit(1)
	}
}

// startLocation maps the stored role onto the screen the browser client
// would open on.
func startLocation(sessions *session.Store) string {
	switch sessions.Identity().Role {
	case session.RoleAdmin:
		return gateway.RouteDashboard
	case session.RoleTeacher:
		return gateway.RouteTeacherTimetable
	default:
		return gateway.RouteAdminLogin
	}
}

func (a *app) run(args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return a.cmdRegister(rest)
	case "login":
		return a.cmdLogin(rest)
	case "teacher-login":
		return a.cmdTeacherLogin(rest)
	case "logout":
		return a.cmdLogout()
	case "whoami":
		return a.cmdWhoami()
	case "teachers", "subjects", "classes", "labs", "class-subjects":
		return a.cmdEntity(cmd, rest)
	case "settings":
		return a.cmdSettings(rest)
	case "generate":
		return a.cmdGenerate(rest)
	case "upload":
		return a.cmdUpload(rest)
	case "timetable":
		return a.cmdTimetable(rest)
	case "download":
		return a.cmdDownload(rest)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// confirm asks the user to approve an action. --yes flags flip assumeYes.
func (a *app) confirm(prompt string) bool {
	if a.assumeYes {
		return true
	}
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	line, err := a.stdin.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
