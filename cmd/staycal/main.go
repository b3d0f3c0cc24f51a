package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staycal/internal/app/auth"
	"staycal/internal/app/commands"
	availabilityapp "staycal/internal/app/handlers/availability"
	bookingapp "staycal/internal/app/handlers/booking"
	propertiesapp "staycal/internal/app/handlers/properties"
	usersapp "staycal/internal/app/handlers/users"
	"staycal/internal/app/policies"
	"staycal/internal/app/queries"
	domainproperty "staycal/internal/domain/property"
	domainuser "staycal/internal/domain/user"
	"staycal/internal/infra/broker/kafka"
	"staycal/internal/infra/config"
	mongodb "staycal/internal/infra/db/mongo"
	ginserver "staycal/internal/infra/http/gin"
	"staycal/internal/infra/obs"
	"staycal/internal/infra/security"
	"staycal/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	properties, users, ready, err := buildStorage(cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}

	notifier, closeNotifier, err := buildNotifier(cfg, logger)
	if err != nil {
		logger.Error("kafka init failed", "error", err)
		os.Exit(1)
	}
	if closeNotifier != nil {
		defer closeNotifier()
	}

	handlers := buildHandlers(properties, users, notifier, logger)
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: ready}, handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func buildStorage(cfg config.Config, logger *slog.Logger) (domainproperty.Repository, domainuser.Repository, func() error, error) {
	if cfg.StorageMode == "memory" {
		logger.Warn("using in-memory storage, data will not survive restarts")
		return memory.NewPropertyRepository(), memory.NewUserRepository(), func() error { return nil }, nil
	}
	client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB, cfg.MongoTimeout)
	if err != nil {
		return nil, nil, nil, err
	}
	ready := func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return client.Ping(pingCtx)
	}
	return mongodb.NewPropertyRepository(client.DB), mongodb.NewUserRepository(client.DB), ready, nil
}

func buildNotifier(cfg config.Config, logger *slog.Logger) (policies.Notifier, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("kafka disabled, events will be logged only")
		return logNotifier{logger}, nil, nil
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if err := producer.Close(); err != nil {
			logger.Error("kafka producer close failed", "error", err)
		}
	}
	return &kafka.Notifier{Producer: producer, TopicPrefix: cfg.KafkaTopicPrefix}, closer, nil
}

func buildHandlers(properties domainproperty.Repository, users domainuser.Repository, notifier policies.Notifier, logger *slog.Logger) ginserver.Handlers {
	commandBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()

	mutateDays := &availabilityapp.MutateDaysHandler{Properties: properties, Notifier: notifier, Logger: logger}
	mutateDays.Register(commandBus)
	propertyCrud := &propertiesapp.CrudHandler{Properties: properties, Logger: logger}
	propertyCrud.Register(commandBus)
	userAdmin := &usersapp.AdminHandler{Users: users, Hasher: security.BcryptHasher{}, Logger: logger}
	userAdmin.Register(commandBus)
	commands.RegisterHandler[bookingapp.RequestBookingCommand, bookingapp.Receipt](
		commandBus,
		bookingapp.RequestBookingCommand{}.Key(),
		&bookingapp.RequestBookingHandler{Properties: properties, Notifier: notifier, Logger: logger},
	)

	queries.RegisterHandler(queryBus, availabilityapp.GetRecordQuery{}.Key(), &availabilityapp.GetRecordHandler{Properties: properties})
	queries.RegisterHandler(queryBus, availabilityapp.CalendarIndexQuery{}.Key(), &availabilityapp.CalendarIndexHandler{Properties: properties})
	queries.RegisterHandler(queryBus, availabilityapp.AvailabilityMapQuery{}.Key(), &availabilityapp.AvailabilityMapHandler{Properties: properties})
	queries.RegisterHandler(queryBus, availabilityapp.SearchAvailableQuery{}.Key(), &availabilityapp.SearchAvailableHandler{Properties: properties})
	queries.RegisterHandler(queryBus, propertiesapp.ListQuery{}.Key(), &propertiesapp.ListHandler{Properties: properties})
	queries.RegisterHandler(queryBus, propertiesapp.GetQuery{}.Key(), &propertiesapp.GetHandler{Properties: properties})
	queries.RegisterHandler(queryBus, usersapp.ListQuery{}.Key(), &usersapp.ListHandler{Users: users})

	authMW := ginserver.AuthMiddleware{Verifier: buildVerifier(logger), Logger: logger}

	return ginserver.Handlers{
		Availability:   ginserver.AvailabilityHandler{Commands: commandBus, Queries: queryBus},
		Property:       ginserver.PropertyHandler{Commands: commandBus, Queries: queryBus},
		Booking:        ginserver.BookingHandler{Commands: commandBus},
		Users:          ginserver.UserHandler{Commands: commandBus, Queries: queryBus},
		AuthMiddleware: authMW.Handle,
	}
}

// buildVerifier stands in for the platform auth service. Static tokens from
// the environment grant the two staff roles; without them a one-run admin
// token is minted and written to the log.
func buildVerifier(logger *slog.Logger) auth.Verifier {
	verifier := memory.NewTokenVerifier()
	granted := 0
	if token := os.Getenv("ADMIN_TOKEN"); token != "" {
		verifier.Grant(token, auth.Identity{UserID: "env-admin", Role: domainuser.RoleAdmin})
		granted++
	}
	if token := os.Getenv("MANAGER_TOKEN"); token != "" {
		verifier.Grant(token, auth.Identity{UserID: "env-manager", Role: domainuser.RoleManager})
		granted++
	}
	if granted == 0 {
		token, err := security.RandomTokenGenerator{}.NewToken()
		if err != nil {
			logger.Warn("no staff tokens configured, all write endpoints will reject", "error", err)
			return verifier
		}
		verifier.Grant(token, auth.Identity{UserID: "bootstrap-admin", Role: domainuser.RoleAdmin})
		logger.Warn("no staff tokens configured, minted a one-run admin token", "token", token)
	}
	return verifier
}

type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Send(_ context.Context, event string, data any) error {
	n.logger.Info("event", "type", event, "data", data)
	return nil
}
