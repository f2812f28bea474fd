package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/insanusapp/planner/internal/cli"
	"github.com/insanusapp/planner/internal/db"
	"github.com/insanusapp/planner/internal/repository"
	"github.com/insanusapp/planner/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.insanus/planner.db
	dbPath := os.Getenv("PLANNER_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".insanus", "planner.db")
	}

	userID := os.Getenv("PLANNER_USER")
	if userID == "" {
		userID = "local"
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	planRepo := repository.NewSQLitePlanRepo(database)
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)
	profileRepo := repository.NewSQLiteProfileRepo(database)
	simuladoRepo := repository.NewSQLiteSimuladoRepo(database)
	studyLogRepo := repository.NewSQLiteStudyLogRepo(database)
	curriculumRepo := repository.NewSQLiteCurriculumRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	// Use-case telemetry goes to stderr when debugging is on.
	var observerOut io.Writer
	if os.Getenv("PLANNER_DEBUG") != "" {
		observerOut = os.Stderr
	}
	observer := service.NewLogUseCaseObserver(observerOut)

	rescheduleSvc := service.NewRescheduleService(scheduleRepo, profileRepo, simuladoRepo, uow, observer)

	app := &cli.App{
		Plans:        service.NewPlanService(planRepo),
		Schedule:     service.NewScheduleService(planRepo, scheduleRepo, profileRepo, simuladoRepo, uow, logger),
		Reschedule:   rescheduleSvc,
		Study:        service.NewStudyService(scheduleRepo, studyLogRepo, curriculumRepo, profileRepo, uow, rescheduleSvc, logger),
		Anticipation: service.NewAnticipationService(scheduleRepo, profileRepo, uow, rescheduleSvc),
		Simulados:    service.NewSimuladoService(planRepo, scheduleRepo, simuladoRepo, rescheduleSvc, logger),
		Profile:      service.NewProfileService(profileRepo),
		Import:       service.NewImportService(uow),

		UserID: userID,
	}

	// Interactive surfaces only when stdin is a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

func logLevel() slog.Level {
	if os.Getenv("PLANNER_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
