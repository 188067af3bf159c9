package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/cache"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/config"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/contacts"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/db"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/deals"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/events"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/handlers"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/middleware"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/notifications"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/relationships"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/tasks"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/teams"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/touchpoints"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/transfer"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/validation"
)

// contactDirectory adapts the contacts service to the lookup interface the
// touchpoints service needs for follow-up reminders.
type contactDirectory struct {
	svc *contacts.Service
}

func (d contactDirectory) ContactInfo(ctx context.Context, id string) (touchpoints.ContactInfo, bool, error) {
	c, err := d.svc.Get(ctx, id)
	if errors.Is(err, contacts.ErrNotFound) {
		return touchpoints.ContactInfo{}, false, nil
	}
	if err != nil {
		return touchpoints.ContactInfo{}, false, err
	}
	return touchpoints.ContactInfo{Name: c.Name, Email: c.Email}, true, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	bus := events.NewBus()

	// Any data mutation invalidates the derived dashboard views.
	bus.Subscribe("", func(evt events.Event) {
		invalidateCtx, invalidateCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer invalidateCancel()
		if err := cacheStore.DeletePrefix(invalidateCtx, "dashboard:"); err != nil {
			logger.Warn("dashboard cache invalidation failed",
				slog.String("event", evt.Name),
				slog.String("error", err.Error()),
			)
		}
	})

	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.BrevoSandbox)
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
	}

	server := &handlers.Server{
		Cfg:   cfg,
		Cols:  cols,
		Val:   validation.New(),
		Log:   logger,
		Cache: cacheStore,
		Bus:   bus,
	}

	teamsRepo := teams.NewRepository(cols.Teams, cols.TeamMembers)
	teamsService := teams.NewService(teamsRepo, cfg.Timezone, bus)
	teamsHandler := teams.NewHandler(teamsService, server.Val, logger)

	contactsRepo := contacts.NewRepository(cols.Contacts)
	contactsService := contacts.NewService(contactsRepo, cfg.Timezone, bus)
	contactsHandler := contacts.NewHandler(contactsService, server.Val, logger)

	dealsRepo := deals.NewRepository(cols.Deals)
	dealsService := deals.NewService(dealsRepo, cfg.Timezone, bus)
	dealsHandler := deals.NewHandler(dealsService, server.Val, logger)

	var touchpointNotifier touchpoints.Notifier
	if mailer != nil {
		touchpointNotifier = mailer
	}
	touchpointsRepo := touchpoints.NewRepository(cols.Touchpoints)
	touchpointsService := touchpoints.NewService(touchpointsRepo, cfg.Timezone, bus, contactDirectory{svc: contactsService}, touchpointNotifier)
	touchpointsHandler := touchpoints.NewHandler(touchpointsService, server.Val, logger)

	relationshipsRepo := relationships.NewRepository(cols.Relationships)
	relationshipsService := relationships.NewService(relationshipsRepo, cfg.Timezone, bus)
	relationshipsHandler := relationships.NewHandler(relationshipsService, server.Val, logger)

	tasksRepo := tasks.NewRepository(cols.Tasks)
	tasksService := tasks.NewService(tasksRepo, cfg.Timezone, bus)
	tasksHandler := tasks.NewHandler(tasksService, server.Val, logger)

	transferService := transfer.NewService(cols, cfg.Timezone, bus)
	transferHandler := transfer.NewHandler(transferService, logger)

	jwtManager := server.JWTManager()

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigin))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	importLimiter := middleware.NewRateLimiter(cfg.RateLimitImport, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", server.Health)

		api.Route("/admin", func(admin chi.Router) {
			admin.Post("/register", server.AdminRegister)
			admin.Post("/login", server.AdminLogin)
			admin.Post("/refresh", server.AdminRefresh)
			admin.Post("/logout", server.AdminLogout)

			// Important (chi): middlewares must be attached before defining routes.
			// Login/refresh/logout stay public; the rest goes through a sub-router.
			admin.Group(func(protected chi.Router) {
				protected.Use(middleware.AdminAuth(cfg.AdminAPIKey, jwtManager))
				protected.Post("/users", server.AdminCreateUser)
				protected.Patch("/users/{id}/password", server.AdminUpdateUserPassword)
			})
		})

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.AdminAuth(cfg.AdminAPIKey, jwtManager))

			protected.Get("/teams", teamsHandler.List)
			protected.Post("/teams", teamsHandler.Create)
			protected.Put("/teams/{id}", teamsHandler.Update)
			protected.Delete("/teams/{id}", teamsHandler.Delete)
			protected.Get("/teams/{id}/members", teamsHandler.ListMembers)
			protected.Post("/teams/{id}/members", teamsHandler.CreateMember)
			protected.Put("/teams/{id}/members/{memberId}", teamsHandler.UpdateMember)
			protected.Delete("/teams/{id}/members/{memberId}", teamsHandler.DeleteMember)

			protected.Get("/contacts", contactsHandler.List)
			protected.Post("/contacts", contactsHandler.Create)
			protected.Get("/contacts/{id}", contactsHandler.Get)
			protected.Put("/contacts/{id}", contactsHandler.Update)
			protected.Delete("/contacts/{id}", contactsHandler.Delete)

			protected.Get("/deals", dealsHandler.List)
			protected.Post("/deals", dealsHandler.Create)
			protected.Get("/deals/{id}", dealsHandler.Get)
			protected.Put("/deals/{id}", dealsHandler.Update)
			protected.Patch("/deals/{id}/stage", dealsHandler.ChangeStage)
			protected.Delete("/deals/{id}", dealsHandler.Delete)

			protected.Get("/touchpoints", touchpointsHandler.List)
			protected.Post("/touchpoints", touchpointsHandler.Create)
			protected.Put("/touchpoints/{id}", touchpointsHandler.Update)
			protected.Delete("/touchpoints/{id}", touchpointsHandler.Delete)

			protected.Get("/relationships", relationshipsHandler.List)
			protected.Post("/relationships", relationshipsHandler.Create)
			protected.Put("/relationships/{id}", relationshipsHandler.Update)
			protected.Delete("/relationships/{id}", relationshipsHandler.Delete)

			protected.Get("/tasks", tasksHandler.List)
			protected.Post("/tasks", tasksHandler.Create)
			protected.Put("/tasks/{id}", tasksHandler.Update)
			protected.Delete("/tasks/{id}", tasksHandler.Delete)

			protected.Get("/dashboard/pipeline", server.GetPipeline)
			protected.Get("/dashboard/relationships", server.GetRelationships)
			protected.Get("/dashboard/attribution", server.GetAttribution)

			protected.Get("/settings", server.GetSettings)
			protected.Put("/settings", server.UpdateSettings)

			protected.Get("/export", transferHandler.Export)
			protected.Get("/export/csv", transferHandler.ExportCSV)
			protected.With(importLimiter.Middleware).Post("/import", transferHandler.Import)
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
