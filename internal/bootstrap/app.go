package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"compliance-backend/internal/extraction"
	"compliance-backend/internal/projects"
	"compliance-backend/internal/shared/config"
	"compliance-backend/internal/shared/server"
	"compliance-backend/internal/shared/storage/db"
	"compliance-backend/internal/shared/telemetry"
	"compliance-backend/internal/submissions"
	"compliance-backend/internal/validation"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	ProjectsRepo    projects.Repo
	SubmissionsRepo submissions.Repo
	ValidationRepo  validation.Repo

	ProjectsService    *projects.Service
	ExtractionService  *extraction.Service
	SubmissionsService *submissions.Service
	ValidationService  *validation.Service

	ProjectsHandler    *projects.Handler
	ExtractionHandler  *extraction.Handler
	SubmissionsHandler *submissions.Handler
	ValidationHandler  *validation.Handler
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		ProjectHandler:    app.ProjectsHandler,
		ExtractionHandler: app.ExtractionHandler,
		SubmissionHandler: app.SubmissionsHandler,
		ValidationHandler: app.ValidationHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory_fallback", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory_fallback", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	dialect := db.Dialect(db.DriverFor(cfg.DatabaseURL))
	if err := db.RunMigrations(ctx, sqlDB, dialect); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

func buildServices(app *App) {
	var projectsRepo projects.Repo
	var submissionsRepo submissions.Repo
	var validationRepo validation.Repo

	if app.DB != nil {
		projectsRepo = &projects.SQLRepo{DB: app.DB}
		submissionsRepo = &submissions.SQLRepo{DB: app.DB}
		validationRepo = &validation.SQLRepo{DB: app.DB}
	} else {
		projectsRepo = projects.NewMemoryRepo()
		memSubmissions := submissions.NewMemoryRepo()
		submissionsRepo = memSubmissions
		validationRepo = validation.NewMemoryRepo(submissionAdapter{repo: memSubmissions})
	}

	adapter := submissionAdapter{repo: submissionsRepo}

	projectsSvc := &projects.Service{
		Repo:    projectsRepo,
		DataDir: app.Config.DataDir,
	}
	extractionSvc := &extraction.Service{
		Projects: projectsRepo,
		Launcher: extraction.ExecLauncher{},
		Bin:      app.Config.ExtractorBin,
	}
	submissionsSvc := &submissions.Service{Repo: submissionsRepo}
	validationSvc := &validation.Service{
		Repo:        validationRepo,
		Assessments: adapter,
		Submissions: adapter,
	}

	app.ProjectsRepo = projectsRepo
	app.SubmissionsRepo = submissionsRepo
	app.ValidationRepo = validationRepo
	app.ProjectsService = projectsSvc
	app.ExtractionService = extractionSvc
	app.SubmissionsService = submissionsSvc
	app.ValidationService = validationSvc
	app.ProjectsHandler = projects.NewHandler(projectsSvc)
	app.ExtractionHandler = extraction.NewHandler(extractionSvc)
	app.SubmissionsHandler = submissions.NewHandler(submissionsSvc)
	app.ValidationHandler = validation.NewHandler(validationSvc)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// submissionAdapter exposes the submissions repo through the narrow
// interfaces the validation engine depends on.
type submissionAdapter struct {
	repo submissions.Repo
}

func (a submissionAdapter) GetAssessment(ctx context.Context, assessmentID string) (validation.AssessmentRecord, error) {
	assessment, err := a.repo.GetAssessment(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, submissions.ErrAssessmentNotFound) {
			return validation.AssessmentRecord{}, validation.ErrAssessmentNotFound
		}
		return validation.AssessmentRecord{}, err
	}
	return validation.AssessmentRecord{
		ID:           assessment.ID,
		SubmissionID: assessment.SubmissionID,
		Tier:         string(assessment.Tier),
	}, nil
}

func (a submissionAdapter) GetSubmission(ctx context.Context, submissionID string) (validation.SubmissionRecord, error) {
	sub, err := a.repo.GetSubmission(ctx, submissionID)
	if err != nil {
		if errors.Is(err, submissions.ErrNotFound) {
			return validation.SubmissionRecord{}, validation.ErrSubmissionNotFound
		}
		return validation.SubmissionRecord{}, err
	}
	return validation.SubmissionRecord{
		ID:         sub.ID,
		TotalItems: sub.TotalItems,
	}, nil
}
