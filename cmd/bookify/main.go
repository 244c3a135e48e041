package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"bookify/internal/app/commands"
	bookingapp "bookify/internal/app/handlers/booking"
	userapp "bookify/internal/app/handlers/user"
	"bookify/internal/app/middleware"
	"bookify/internal/app/notify"
	appoutbox "bookify/internal/app/outbox"
	"bookify/internal/app/queries"
	"bookify/internal/app/uow"
	domainapartment "bookify/internal/domain/apartment"
	domainbooking "bookify/internal/domain/booking"
	"bookify/internal/domain/shared/money"
	domainuser "bookify/internal/domain/user"
	"bookify/internal/infra/broker/kafka"
	"bookify/internal/infra/config"
	mongodb "bookify/internal/infra/db/mongo"
	"bookify/internal/infra/email"
	ginserver "bookify/internal/infra/http/gin"
	"bookify/internal/infra/obs"
	infraoutbox "bookify/internal/infra/outbox"
	"bookify/internal/infra/storage/memory"
	redisstore "bookify/internal/infra/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	fixturesPath := cfg.FixturesPath
	if fixturesPath == "" {
		fixturesPath = defaultApartmentFixturesPath()
	}
	if err := app.loadApartmentFixtures(ctx, fixturesPath, logger); err != nil {
		logger.Warn("apartment fixtures load failed", "error", err, "path", fixturesPath)
	}

	for _, run := range app.background {
		run := run
		go func() {
			if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("background worker stopped", "error", err)
			}
		}()
	}

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

type application struct {
	handlers   ginserver.Handlers
	background []func(context.Context) error
	ready      func() error
	apartments domainapartment.Repository
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	dispatcher := notify.NewDispatcher(logger)

	var (
		uowFactory    uow.Factory
		outboxStore   appoutbox.Outbox
		apartments    domainapartment.Repository
		bookings      domainbooking.Repository
		users         domainuser.Repository
		background    []func(context.Context) error
		dispatchAfter middleware.CommandMiddleware
	)
	ready := func() error { return nil }

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, fmt.Errorf("mongo connect: %w", err)
		}
		bookingRepo := mongodb.NewBookingRepository(client.DB)
		userRepo := mongodb.NewUserRepository(client.DB)
		apartmentRepo := mongodb.NewApartmentRepository(client.DB)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			return application{}, fmt.Errorf("mongo indexes: %w", err)
		}
		store := infraoutbox.NewStore(client.DB)

		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, fmt.Errorf("kafka producer: %w", err)
		}
		worker := &infraoutbox.Worker{
			Store:       store,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, nil, &kafka.NotificationHandler{
			Dispatcher: dispatcher,
			Logger:     logger,
		})
		if err != nil {
			return application{}, fmt.Errorf("kafka consumer: %w", err)
		}

		bookings, users, apartments = bookingRepo, userRepo, apartmentRepo
		uowFactory = mongodb.Factory{
			DB:            client.DB,
			BookingRepo:   bookingRepo,
			UserRepo:      userRepo,
			ApartmentRepo: apartmentRepo,
		}
		outboxStore = store
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		background = append(background,
			worker.Run,
			func(ctx context.Context) error {
				defer consumer.Close()
				return consumer.Run(ctx, []string{topicName(cfg.KafkaTopicPrefix, "booking")})
			},
		)
	default:
		bookingRepo := memory.NewBookingRepository()
		userRepo := memory.NewUserRepository()
		apartmentRepo := memory.NewApartmentRepository()
		box := memory.NewOutbox()

		bookings, users, apartments = bookingRepo, userRepo, apartmentRepo
		uowFactory = memory.Factory{
			BookingRepo:   bookingRepo,
			UserRepo:      userRepo,
			ApartmentRepo: apartmentRepo,
		}
		outboxStore = box
		dispatchAfter = middleware.DispatchEvents(box, dispatcher)
	}

	dispatcher.Register("booking.reserved", &notify.BookingReservedHandler{
		Bookings: bookings,
		Users:    users,
		Email:    email.LogSender{Logger: logger},
	})

	var idStore middleware.IdempotencyStore
	if cfg.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		idStore = redisstore.NewIdempotencyStore(client, cfg.IdempotencyTTL)
	} else {
		idStore = memory.NewIdempotencyStore()
	}

	encoder := appoutbox.JSONEventEncoder{}
	commandBus := commands.NewInMemoryBus()
	reserveHandler := &bookingapp.ReserveBookingHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	}
	commands.RegisterHandler(commandBus, bookingapp.ReserveBookingCommand{}.Key(), reserveHandler)
	transitions := &bookingapp.TransitionHandlers{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	}
	commands.RegisterHandler(commandBus, bookingapp.ConfirmBookingCommand{}.Key(), transitions.Confirm())
	commands.RegisterHandler(commandBus, bookingapp.RejectBookingCommand{}.Key(), transitions.Reject())
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), transitions.Cancel())
	commands.RegisterHandler(commandBus, bookingapp.CompleteBookingCommand{}.Key(), transitions.Complete())
	registerHandler := &userapp.RegisterUserHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	}
	commands.RegisterHandler(commandBus, userapp.RegisterUserCommand{}.Key(), registerHandler)

	queryBus := queries.NewInMemoryBus()
	getBookingHandler := &bookingapp.GetBookingHandler{UoWFactory: uowFactory}
	queries.RegisterHandler(queryBus, bookingapp.GetBookingQuery{}.Key(), getBookingHandler)

	commandMWs := []middleware.CommandMiddleware{middleware.Idempotency(idStore, nil)}
	if dispatchAfter != nil {
		commandMWs = append(commandMWs, dispatchAfter)
	}
	commandMWs = append(commandMWs, middleware.Transaction(uowFactory, nil))
	commandBusWithMiddleware := middleware.ChainCommands(commandBus, commandMWs...)

	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	return application{
		handlers: ginserver.Handlers{
			Booking: ginserver.BookingHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
			},
			User: ginserver.UserHandler{
				Commands: commandBusWithMiddleware,
			},
		},
		background: background,
		ready:      ready,
		apartments: apartments,
	}, nil
}

func topicName(prefix, aggregate string) string {
	return prefix + aggregate + ".events.v1"
}

func (a application) loadApartmentFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("apartment fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("apartment fixtures file empty", "path", path)
		return nil
	}

	var fixtures []apartmentFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	for _, fx := range fixtures {
		currency, err := money.FromCode(fx.Currency)
		if err != nil {
			logger.Error("fixture invalid", "apartment_id", fx.ID, "error", err)
			continue
		}
		amenities := make([]domainapartment.Amenity, 0, len(fx.Amenities))
		for _, am := range fx.Amenities {
			amenities = append(amenities, domainapartment.Amenity(am))
		}
		apt := &domainapartment.Apartment{
			ID:          domainapartment.ID(fx.ID),
			Name:        domainapartment.Name(fx.Name),
			Description: domainapartment.Description(fx.Description),
			Address: domainapartment.Address{
				Country: fx.Address.Country,
				State:   fx.Address.State,
				ZipCode: fx.Address.ZipCode,
				City:    fx.Address.City,
				Street:  fx.Address.Street,
			},
			Price:       money.New(fx.PriceCents, currency),
			CleaningFee: money.New(fx.CleaningFeeCents, currency),
			Amenities:   amenities,
		}
		if err := a.apartments.Save(ctx, apt); err != nil {
			logger.Error("cannot store fixture apartment", "apartment_id", fx.ID, "error", err)
			continue
		}
		logger.Info("apartment fixture imported", "apartment_id", apt.ID)
	}
	return nil
}

type apartmentFixture struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	Address          fixtureAddress `json:"address"`
	PriceCents       int64          `json:"price_cents"`
	CleaningFeeCents int64          `json:"cleaning_fee_cents"`
	Currency         string         `json:"currency"`
	Amenities        []string       `json:"amenities"`
}

type fixtureAddress struct {
	Country string `json:"country"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	City    string `json:"city"`
	Street  string `json:"street"`
}

func defaultApartmentFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "apartments.json"),
		filepath.Join("..", "data", "apartments.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
