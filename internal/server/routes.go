package server

import (
	"time"

	"github.com/fekuna/omnipos-dashboard/internal/auth"
	"github.com/fekuna/omnipos-dashboard/internal/subscription"
	"github.com/fekuna/omnipos-dashboard/pkg/database"
	"github.com/fekuna/omnipos-dashboard/pkg/i18n"

	catH "github.com/fekuna/omnipos-dashboard/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-dashboard/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-dashboard/internal/category/usecase"

	invH "github.com/fekuna/omnipos-dashboard/internal/inventory/handler"
	invRepoPkg "github.com/fekuna/omnipos-dashboard/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-dashboard/internal/inventory/usecase"

	prodH "github.com/fekuna/omnipos-dashboard/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-dashboard/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-dashboard/internal/product/usecase"

	reportH "github.com/fekuna/omnipos-dashboard/internal/report/handler"
	reportRepoPkg "github.com/fekuna/omnipos-dashboard/internal/report/repository"
	reportUCPkg "github.com/fekuna/omnipos-dashboard/internal/report/usecase"

	saleH "github.com/fekuna/omnipos-dashboard/internal/sale/handler"
	saleRepoPkg "github.com/fekuna/omnipos-dashboard/internal/sale/repository"
	saleUCPkg "github.com/fekuna/omnipos-dashboard/internal/sale/usecase"

	subH "github.com/fekuna/omnipos-dashboard/internal/subscription/handler"
	subRepoPkg "github.com/fekuna/omnipos-dashboard/internal/subscription/repository"
	subUCPkg "github.com/fekuna/omnipos-dashboard/internal/subscription/usecase"

	userH "github.com/fekuna/omnipos-dashboard/internal/user/handler"
	userRepoPkg "github.com/fekuna/omnipos-dashboard/internal/user/repository"
	userUCPkg "github.com/fekuna/omnipos-dashboard/internal/user/usecase"
)

func (s *Server) registerRoutes(tr *i18n.Translator, loc *time.Location) {
	db := s.deps.DB
	tx := database.NewTransactor(db)
	tokens := auth.NewTokenManager(s.cfg.JWT.SecretKey, s.cfg.JWT.TTL)
	authMW := auth.Middleware(tokens)

	// Repositories
	userRepo := userRepoPkg.NewPGRepository(db)
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	saleRepo := saleRepoPkg.NewPGRepository(db)
	subRepo := subRepoPkg.NewPGRepository(db)
	reportRepo := reportRepoPkg.NewPGRepository(db)

	// UseCases
	userUC := userUCPkg.NewUserUseCase(userRepo, tokens, s.deps.Mailer, s.cfg.Server.AppURL, s.logger)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, s.logger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, invRepo, tx, s.deps.Cache, s.logger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, s.deps.Cache, s.logger)
	saleUC := saleUCPkg.NewSaleUseCase(saleRepo, prodRepo, invRepo, tx, s.deps.Events, s.deps.Cache, s.logger)
	subUC := subUCPkg.NewSubscriptionUseCase(subRepo, s.deps.Provider, tx, s.cfg.Subscription, s.logger)
	reportUC := reportUCPkg.NewReportUseCase(reportRepo, loc, s.logger)

	s.app.Get("/health", s.healthCheck)

	api := s.app.Group("/api")

	// Public and self-authenticating routes are registered first: the gated
	// group below adds middleware to every later /api route.
	userH.NewUserHandler(userUC, tr, s.logger).RegisterRoutes(api.Group("/auth"), authMW)
	subH.NewSubscriptionHandler(subUC, s.cfg.Server.AppURL, s.cfg.Subscription.EnableTestCreate, s.logger).
		RegisterRoutes(api, authMW)

	gated := api.Group("", authMW, subscription.RequireSubscription(subUC, s.cfg.Subscription.Required))
	prodH.NewProductHandler(prodUC, s.logger).RegisterRoutes(gated)
	catH.NewCategoryHandler(catUC, s.logger).RegisterRoutes(gated)
	invH.NewInventoryHandler(invUC, s.logger).RegisterRoutes(gated)
	saleH.NewSaleHandler(saleUC, s.logger).RegisterRoutes(gated)
	reportH.NewReportHandler(reportUC, s.logger).RegisterRoutes(gated)
}
