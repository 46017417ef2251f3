package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"

	"cvision-backend/cv/render"
	"cvision-backend/internal/attachments"
	googleauth "cvision-backend/internal/auth"
	"cvision-backend/internal/cvs"
	"cvision-backend/internal/shared/config"
	"cvision-backend/internal/shared/server"
	"cvision-backend/internal/shared/storage/db"
	"cvision-backend/internal/shared/storage/object"
	localstore "cvision-backend/internal/shared/storage/object/local"
	s3store "cvision-backend/internal/shared/storage/object/s3"
	"cvision-backend/internal/users"
)

const (
	presignDefaultRegion = "us-east-1"
	presignDefaultPrefix = "attachments/"
)

// App holds shared dependencies.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Store              object.ObjectStore
	CVRepo             cvs.Repo
	AttachmentsRepo    attachments.Repo
	UsersRepo          users.Repo
	CVService          *cvs.Service
	AttachmentsService *attachments.Service
	UsersService       *users.Service
	CVHandler          *cvs.Handler
	AttachmentsHandler *attachments.Handler
	PresignHandler     *attachments.PresignHandler
	UsersHandler       *users.Handler
	GoogleAuth         *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	presign, err := buildPresign(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:         cfg,
		DB:             sqlDB,
		Store:          store,
		PresignHandler: presign,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		CVHandler:         app.CVHandler,
		AttachmentHandler: app.AttachmentsHandler,
		PresignHandler:    app.PresignHandler,
		UserHandler:       app.UsersHandler,
		GoogleAuth:        app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildPresign(ctx context.Context) (*attachments.PresignHandler, error) {
	bucket := strings.TrimSpace(os.Getenv("UPLOADS_S3_BUCKET"))
	if bucket == "" {
		return nil, nil
	}

	region := strings.TrimSpace(os.Getenv("AWS_REGION"))
	if region == "" {
		region = presignDefaultRegion
	}
	prefix := strings.TrimSpace(os.Getenv("UPLOADS_S3_PREFIX"))
	if prefix == "" {
		prefix = presignDefaultPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &attachments.PresignHandler{
		Presign: s3.NewPresignClient(client),
		Bucket:  bucket,
		Prefix:  prefix,
	}, nil
}

func buildServices(app *App) {
	var cvRepo cvs.Repo
	var attRepo attachments.Repo
	var userRepo users.Repo

	if app.DB != nil {
		cvRepo = &cvs.PGRepo{DB: app.DB}
		attRepo = &attachments.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		cvRepo = cvs.NewMemoryRepo()
		attRepo = attachments.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	cvSvc := &cvs.Service{
		Repo:   cvRepo,
		Engine: render.NewEngine(),
	}
	attSvc := &attachments.Service{
		Store:           app.Store,
		Repo:            attRepo,
		StorageProvider: app.Config.ObjectStoreType,
	}
	userSvc := users.NewService(userRepo)

	app.CVRepo = cvRepo
	app.AttachmentsRepo = attRepo
	app.UsersRepo = userRepo
	app.CVService = cvSvc
	app.AttachmentsService = attSvc
	app.UsersService = userSvc
	app.CVHandler = cvs.NewHandler(cvSvc)
	app.AttachmentsHandler = attachments.NewHandler(attSvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
