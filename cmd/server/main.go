package main

import (
	availabilityhandler "slotbook/internal/availability/handler"
	availabilityservice "slotbook/internal/availability/service"
	bookinghandler "slotbook/internal/bookings/handler"
	bookingrepo "slotbook/internal/bookings/repository"
	bookingservice "slotbook/internal/bookings/service"
	"slotbook/internal/bookings/validator"
	resourcehandler "slotbook/internal/resources/handler"
	resourcerepo "slotbook/internal/resources/repository"
	resourceservice "slotbook/internal/resources/service"
	tenantrepo "slotbook/internal/tenants/repository"
	tenantservice "slotbook/internal/tenants/service"
	"slotbook/pkg/app"
	"slotbook/pkg/config"
	"slotbook/pkg/contracts"
	"slotbook/pkg/kafka"
	kafka_config "slotbook/pkg/kafka/config"
)

const ServiceName = "slotbook"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting slotbook server")

	tenants, handlers, producer := initServices(cfg)
	if producer != nil {
		defer producer.Close()
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(tenants, handlers...)
	serverApp.Run()
}

func initServices(cfg *config.Config) (tenantservice.TenantService, []contracts.Handler, *kafka.Producer) {
	tenantRepo := tenantrepo.NewMongoTenantRepository(cfg)
	tenants := tenantservice.NewTenantService(tenantRepo, cfg)

	resourceRepo := resourcerepo.NewMongoResourceRepository(cfg)
	resources := resourceservice.NewResourceService(resourceRepo, cfg)

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingrepo.NewBookingLockRepository(cfg)
	auditRepo := bookingrepo.NewMongoAuditRepository(cfg)

	producer := initProducer(cfg)
	var publisher bookingservice.EventPublisher
	if producer != nil {
		publisher = producer
	}

	bookings := bookingservice.NewBookingService(
		bookingRepo,
		lockRepo,
		auditRepo,
		resourceRepo,
		bookingValidator,
		publisher,
		cfg,
	)

	availability := availabilityservice.NewAvailabilityService(
		bookingRepo,
		resourceRepo,
		tenants,
		cfg,
	)

	handlers := []contracts.Handler{
		bookinghandler.NewBookingHandler(bookings, cfg.Log),
		resourcehandler.NewResourceHandler(resources, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availability, cfg.Log),
	}

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)
	return tenants, handlers, producer
}

func initProducer(cfg *config.Config) *kafka.Producer {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, booking events will not be published")
		return nil
	}

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Kafka producer initialized", "topic", cfg.BookingEventsTopic)
	return producer
}
