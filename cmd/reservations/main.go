package main

import (
	cataloghandler "fieldbook/internal/catalog/handler"
	catalogrepo "fieldbook/internal/catalog/repository"
	catalogservice "fieldbook/internal/catalog/service"
	meetingrepo "fieldbook/internal/meetings/repository"
	meetingservice "fieldbook/internal/meetings/service"
	reservationhandler "fieldbook/internal/reservations/handler"
	reservationrepo "fieldbook/internal/reservations/repository"
	reservationservice "fieldbook/internal/reservations/service"
	reservationvalidator "fieldbook/internal/reservations/validator"
	"fieldbook/pkg/app"
	"fieldbook/pkg/auth"
	"fieldbook/pkg/config"
	dbmongo "fieldbook/pkg/db/mongo"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reservations service")

	caps := auth.NewStaticProvider(cfg.ManagerTeams)

	resourceRepo := catalogrepo.NewMongoResourceRepository(cfg)
	catalogService := catalogservice.NewCatalogService(resourceRepo, caps, cfg)

	meetingResolver := meetingservice.NewMeetingResolver(
		meetingrepo.NewMongoMeetingRepository(cfg),
		cfg,
	)

	reservationRepo := reservationrepo.NewMongoReservationRepository(cfg)
	lockRepo := reservationrepo.NewMongoReservationLockRepository(cfg)
	engine := reservationservice.NewAvailabilityEngine(reservationRepo)

	notifier, err := reservationservice.NewNotifier(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event notifier", "error", err)
	}
	defer notifier.Close()

	bookingService := reservationservice.NewBookingService(
		reservationRepo,
		lockRepo,
		resourceRepo,
		meetingResolver,
		engine,
		dbmongo.NewTransactionManager(cfg.Client.Mongo.Client),
		notifier,
		caps,
		reservationvalidator.NewBookingValidator(cfg.Log),
		cfg,
	)
	availabilityService := reservationservice.NewAvailabilityService(resourceRepo, engine)

	cfg.Log.Info("Reservation services initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		cataloghandler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		cataloghandler.NewResourceHandler(catalogService, cfg.Log),
		reservationhandler.NewReservationHandler(bookingService, cfg.Log),
		reservationhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
	)
	serverApp.Run()
}
