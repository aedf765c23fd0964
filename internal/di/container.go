package di

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	auditRepo "github.com/reshetovitsme/posbon/internal/modules/audit/repository"
	auditService "github.com/reshetovitsme/posbon/internal/modules/audit/service"
	captchaService "github.com/reshetovitsme/posbon/internal/modules/captcha/service"
	"github.com/reshetovitsme/posbon/internal/modules/flood/countstore"
	floodService "github.com/reshetovitsme/posbon/internal/modules/flood/service"
	groupRepo "github.com/reshetovitsme/posbon/internal/modules/group/repository"
	groupService "github.com/reshetovitsme/posbon/internal/modules/group/service"
	moderationService "github.com/reshetovitsme/posbon/internal/modules/moderation/service"
	policyRepo "github.com/reshetovitsme/posbon/internal/modules/policy/repository"
	policyService "github.com/reshetovitsme/posbon/internal/modules/policy/service"
	punishService "github.com/reshetovitsme/posbon/internal/modules/punish/service"
	warnRepo "github.com/reshetovitsme/posbon/internal/modules/warn/repository"
	warnService "github.com/reshetovitsme/posbon/internal/modules/warn/service"
	"github.com/reshetovitsme/posbon/internal/shared/config"
	"github.com/reshetovitsme/posbon/internal/shared/database"
	"github.com/reshetovitsme/posbon/internal/shared/i18n"
	httpServer "github.com/reshetovitsme/posbon/internal/transport/http"
	"github.com/reshetovitsme/posbon/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
	"gorm.io/gorm"
)

const policyCacheSize = 4096

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	do.Provide(injector, func(i do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return database.Open(cfg.DatabaseURL)
	})

	// Repositories
	do.Provide(injector, func(i do.Injector) (policyRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		storage, err := policyRepo.NewGormStorage(do.MustInvoke[*gorm.DB](i))
		if err != nil {
			return nil, oops.With("context", "failed to initialize policy repository").Wrap(err)
		}
		return policyRepo.NewCachedRepository(storage, policyCacheSize, cfg.PolicyCacheDuration()), nil
	})

	do.Provide(injector, func(i do.Injector) (warnRepo.Repository, error) {
		repo, err := warnRepo.NewGormStorage(do.MustInvoke[*gorm.DB](i))
		if err != nil {
			return nil, oops.With("context", "failed to initialize warn repository").Wrap(err)
		}
		return repo, nil
	})

	do.Provide(injector, func(i do.Injector) (groupRepo.Repository, error) {
		repo, err := groupRepo.NewGormStorage(do.MustInvoke[*gorm.DB](i))
		if err != nil {
			return nil, oops.With("context", "failed to initialize group repository").Wrap(err)
		}
		return repo, nil
	})

	do.Provide(injector, func(i do.Injector) (auditRepo.Repository, error) {
		repo, err := auditRepo.NewGormStorage(do.MustInvoke[*gorm.DB](i))
		if err != nil {
			return nil, oops.With("context", "failed to initialize audit repository").Wrap(err)
		}
		return repo, nil
	})

	do.Provide(injector, func(i do.Injector) (countstore.CountStore, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.RedisURL == "" {
			slog.Info("Using in-memory flood counters")
			return countstore.NewMemCountStore(), nil
		}
		store, err := countstore.NewRedisCountStore(cfg.RedisURL)
		if err != nil {
			return nil, oops.With("context", "failed to connect flood counter store").Wrap(err)
		}
		return store, nil
	})

	// Services
	do.Provide(injector, func(i do.Injector) (*policyService.Service, error) {
		return policyService.New(do.MustInvoke[policyRepo.Repository](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*groupService.Service, error) {
		return groupService.New(do.MustInvoke[groupRepo.Repository](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*floodService.Detector, error) {
		return floodService.NewDetector(do.MustInvoke[countstore.CountStore](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*warnService.Ledger, error) {
		return warnService.New(do.MustInvoke[warnRepo.Repository](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*i18n.Localizer, error) {
		return i18n.New()
	})

	do.Provide(injector, func(i do.Injector) (*auditService.Sink, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return auditService.NewSink(do.MustInvoke[auditRepo.Repository](i), cfg.AuditBuffer), nil
	})

	do.Provide(injector, func(i do.Injector) (*auditService.FeedService, error) {
		return auditService.NewFeedService(do.MustInvoke[auditRepo.Repository](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*telegram.Client, error) {
		return telegram.NewClient(), nil
	})

	do.Provide(injector, func(i do.Injector) (*punishService.Executor, error) {
		return punishService.NewExecutor(do.MustInvoke[*telegram.Client](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*captchaService.Workflow, error) {
		return captchaService.NewWorkflow(
			do.MustInvoke[*telegram.Client](i),
			do.MustInvoke[*punishService.Executor](i),
			do.MustInvoke[*i18n.Localizer](i),
			do.MustInvoke[*auditService.Sink](i),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*moderationService.Orchestrator, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return moderationService.New(moderationService.Deps{
			Client:           do.MustInvoke[*telegram.Client](i),
			Policies:         do.MustInvoke[*policyService.Service](i),
			Groups:           do.MustInvoke[*groupService.Service](i),
			Flood:            do.MustInvoke[*floodService.Detector](i),
			Warns:            do.MustInvoke[*warnService.Ledger](i),
			Punisher:         do.MustInvoke[*punishService.Executor](i),
			Captcha:          do.MustInvoke[*captchaService.Workflow](i),
			Recorder:         do.MustInvoke[*auditService.Sink](i),
			Localizer:        do.MustInvoke[*i18n.Localizer](i),
			FloodMuteMinutes: cfg.FloodMuteMinutes,
		}), nil
	})

	// Transports
	do.Provide(injector, func(i do.Injector) (*telegram.Handler, error) {
		return telegram.New(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*moderationService.Orchestrator](i),
			do.MustInvoke[*auditService.FeedService](i),
			do.MustInvoke[*groupService.Service](i),
			do.MustInvoke[*i18n.Localizer](i),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		server := httpServer.New(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*policyService.Service](i),
			do.MustInvoke[*groupService.Service](i),
			do.MustInvoke[*auditService.FeedService](i),
		)
		server.SetLogger(slog.Default())
		return server, nil
	})

	// The bot is created last, once the handler it dispatches to is ready
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegram.Handler](i)

		opts := []bot.Option{
			bot.WithDefaultHandler(handler.HandleUpdate),
			bot.WithServerURL(cfg.TelegramAPIURL),
			bot.WithAllowedUpdates(bot.AllowedUpdates{
				"message",
				"callback_query",
			}),
		}

		b, err := bot.New(cfg.TelegramBotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		handler.RegisterCommands(b)
		do.MustInvoke[*telegram.Client](i).SetBot(b)

		return b, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(ctx context.Context, injector do.Injector) error {
	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Failed to stop HTTP server", "error", err)
		}
	}

	if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
		b.Close(ctx)
	}

	if workflow, err := do.Invoke[*captchaService.Workflow](injector); err == nil && workflow != nil {
		workflow.Stop()
	}

	// stopped after everything that records, so queued events are flushed
	if sink, err := do.Invoke[*auditService.Sink](injector); err == nil && sink != nil {
		sink.Stop()
	}

	if store, err := do.Invoke[countstore.CountStore](injector); err == nil {
		if closer, ok := store.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				slog.Error("Failed to close flood counter store", "error", err)
			}
		}
	}

	if db, err := do.Invoke[*gorm.DB](injector); err == nil && db != nil {
		if err := database.Close(db); err != nil {
			return oops.With("context", "failed to close database").Wrap(err)
		}
	}

	return nil
}
