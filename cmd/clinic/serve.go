package main

import (
	blogHandler "clinic/internal/blogs/handler"
	blogRepository "clinic/internal/blogs/repository"
	blogService "clinic/internal/blogs/service"
	blogValidator "clinic/internal/blogs/validator"
	bookingHandler "clinic/internal/bookings/handler"
	bookingRepository "clinic/internal/bookings/repository"
	bookingService "clinic/internal/bookings/service"
	"clinic/internal/bookings/slots"
	bookingValidator "clinic/internal/bookings/validator"
	doctorHandler "clinic/internal/doctors/handler"
	doctorRepository "clinic/internal/doctors/repository"
	doctorService "clinic/internal/doctors/service"
	doctorValidator "clinic/internal/doctors/validator"
	"clinic/internal/health"
	userHandler "clinic/internal/users/handler"
	userRepository "clinic/internal/users/repository"
	userService "clinic/internal/users/service"
	userValidator "clinic/internal/users/validator"
	"clinic/pkg/app"
	"clinic/pkg/auth"
	"clinic/pkg/clock"
	"clinic/pkg/config"
	"clinic/pkg/events"
	"clinic/pkg/kafka"
	kafka_config "clinic/pkg/kafka/config"
	kafka_middleware "clinic/pkg/kafka/middleware"

	"github.com/spf13/cobra"
)

const ServiceName = "clinic-api"

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.Log.Info("Starting clinic API")

	catalog, err := slots.NewCatalog(cfg.SlotDayStart, cfg.SlotDayEnd, cfg.SlotGranularityMin)
	if err != nil {
		return err
	}

	publisher, metrics, closePublisher, err := newPublisher(cfg)
	if err != nil {
		return err
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL, clock.System)
	guard := auth.NewGuard(tokens)

	doctorRepo := doctorRepository.NewMongoDoctorRepository(cfg)
	doctors := doctorService.NewDoctorService(doctorRepo, doctorValidator.NewDoctorValidator(cfg.Log), clock.System, cfg)
	blogs := blogService.NewBlogService(
		blogRepository.NewMongoBlogRepository(cfg),
		blogValidator.NewBlogValidator(cfg.Log),
		clock.System,
		cfg,
	)
	users := userService.NewUserService(
		userRepository.NewMongoUserRepository(cfg),
		userValidator.NewUserValidator(cfg.Log),
		tokens,
		clock.System,
		cfg,
	)
	guard.WithRoleLookup(users)
	bookings := bookingService.NewBookingService(bookingService.Dependencies{
		Repo:      bookingRepository.NewMongoBookingRepository(cfg),
		LockRepo:  bookingRepository.NewSlotLockRepository(cfg),
		Providers: doctorRepo,
		Validator: bookingValidator.NewBookingValidator(cfg.Log, catalog, cfg.PhoneRegion),
		Catalog:   catalog,
		Publisher: publisher,
		Clock:     clock.System,
		Config:    cfg,
	})
	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName, "slots", len(catalog.AllSlots()))

	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown(closePublisher)
	serverApp.SetApp(
		health.NewHandler(cfg.Client.Mongo, metrics, cfg.Log),
		guard,
		bookingHandler.NewBookingHandler(bookings, guard, cfg.Log),
		doctorHandler.NewDoctorHandler(doctors, guard, cfg.Log),
		blogHandler.NewBlogHandler(blogs, guard, cfg.Log),
		userHandler.NewUserHandler(users, guard, cfg.Log),
	)
	serverApp.Run()
	return nil
}

// newPublisher returns the Kafka publisher when events are enabled and a no-op
// otherwise. Metrics are nil when events are disabled.
func newPublisher(cfg *config.Config) (events.Publisher, *kafka_middleware.Metrics, func(), error) {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Booking events disabled")
		return events.Nop{}, nil, func() {}, nil
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	kafkaCfg.LogConfiguration(cfg.Log)
	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log, kafkaCfg.BookingEventsTopic, kafkaCfg.BookingEventsDLQTopic)
	if err != nil {
		return nil, nil, nil, err
	}

	metrics := &kafka_middleware.Metrics{}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}
	producer.Use(metrics.ProducerMiddleware())

	cfg.Log.Info("Booking events enabled", "topic", kafkaCfg.BookingEventsTopic, "brokers", kafkaCfg.Brokers)
	return events.NewKafkaPublisher(producer), metrics, func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close event producer", "error", err)
		}
	}, nil
}
