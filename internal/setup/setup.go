package setup

import (
	"context"

	"github.com/hoaxify/hoaxify-api/internal/config"
	"github.com/hoaxify/hoaxify-api/internal/email"
	"github.com/hoaxify/hoaxify-api/internal/handler"
	"github.com/hoaxify/hoaxify-api/internal/i18n"
	"github.com/hoaxify/hoaxify-api/internal/middleware"
	"github.com/hoaxify/hoaxify-api/internal/service"
	"github.com/hoaxify/hoaxify-api/internal/storage/fs"
	"github.com/hoaxify/hoaxify-api/internal/storage/sqlite"
	"github.com/hoaxify/hoaxify-api/internal/utils"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Config         *config.Config
	Storage        *sqlite.Storage
	Files          *fs.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
}

// SetupDependencies wires storage, services, handlers and middleware, and
// starts the background sweeps on ctx.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := sqlite.Open(cfg.Public.DbPath)
	if err != nil {
		return nil, err
	}

	files, err := fs.New(cfg.Public.UploadDir, cfg.Public.ProfileDir, cfg.Public.AttachmentDir)
	if err != nil {
		storage.Close()
		return nil, err
	}

	catalog, err := i18n.New()
	if err != nil {
		storage.Close()
		return nil, err
	}

	mailer := email.New(&cfg.Private.Email)

	fileSvc := service.NewFile(storage, files, cfg.AttachmentRetention())
	hoaxSvc := service.NewHoax(storage, fileSvc)
	userSvc := service.NewUser(storage, fileSvc, mailer, cfg.Public.MaxProfileImageSize, utils.RandomString)
	authSvc := service.NewAuth(storage, cfg.TokenTTL(), utils.RandomString)

	fileSvc.StartBackgroundCleanup(ctx, cfg.AttachmentSweepInterval())
	authSvc.StartTokenCleanup(ctx, cfg.TokenSweepInterval())

	h := handler.New(hoaxSvc, fileSvc, userSvc, authSvc, files, catalog, cfg)
	authMw := middleware.NewAuth(storage, cfg.TokenTTL())

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Files:          files,
		Handler:        h,
		AuthMiddleware: authMw,
	}, nil
}
