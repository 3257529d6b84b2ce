package main

import (
	bookinghandler "swapstay/internal/bookings/handler"
	bookingrepository "swapstay/internal/bookings/repository"
	bookingservice "swapstay/internal/bookings/service"
	bookingvalidator "swapstay/internal/bookings/validator"
	directoryhandler "swapstay/internal/directory/handler"
	directoryrepository "swapstay/internal/directory/repository"
	directoryservice "swapstay/internal/directory/service"
	directoryvalidator "swapstay/internal/directory/validator"
	"swapstay/internal/events"
	exchangehandler "swapstay/internal/exchanges/handler"
	exchangerepository "swapstay/internal/exchanges/repository"
	exchangeservice "swapstay/internal/exchanges/service"
	exchangevalidator "swapstay/internal/exchanges/validator"
	historyhandler "swapstay/internal/history/handler"
	historyrepository "swapstay/internal/history/repository"
	historyservice "swapstay/internal/history/service"
	"swapstay/pkg/app"
	"swapstay/pkg/config"
	"swapstay/pkg/contracts"
)

const ServiceName = "swapstay-api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetPostgres()
	cfg.SetKafkaProducer()
	if cfg.Kafka.Enabled {
		// History is only written when events flow.
		cfg.SetMongo()
	}

	cfg.Log.Info("Starting SwapStay API")
	publisher := events.NewPublisher(cfg.Client.Producer, ServiceName, cfg.Log)
	handlers := initHandlers(cfg, publisher)

	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown(publisher.Close)
	serverApp.SetApp(app.NewHealthHandler(cfg.Client.Postgres, cfg.Log), handlers...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, publisher events.Publisher) []contracts.Handler {

	directoryRepo := directoryrepository.NewPostgresDirectoryRepository(cfg)
	bookingRepo := bookingrepository.NewPostgresBookingRepository(cfg)
	exchangeRepo := exchangerepository.NewPostgresExchangeRepository(cfg)

	directorySvc := directoryservice.NewDirectoryService(
		directoryRepo,
		directoryvalidator.NewObjectValidator(),
		cfg,
	)
	bookingSvc := bookingservice.NewBookingService(
		bookingRepo,
		directoryRepo,
		directorySvc,
		bookingvalidator.NewBookingValidator(),
		publisher,
		cfg,
	)
	exchangeSvc := exchangeservice.NewExchangeService(
		exchangeRepo,
		bookingRepo,
		directoryRepo,
		exchangevalidator.NewExchangeValidator(),
		publisher,
		cfg,
	)

	handlers := []contracts.Handler{
		bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
		exchangehandler.NewExchangeHandler(exchangeSvc, cfg.Log),
		directoryhandler.NewDirectoryHandler(directorySvc, cfg.Log),
	}

	if cfg.Client.Mongo != nil {
		historyRepo := historyrepository.NewMongoHistoryRepository(cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.MongoConnTimeout)
		handlers = append(handlers, historyhandler.NewHistoryHandler(historyservice.NewHistoryService(historyRepo, cfg), cfg.Log))
	}

	cfg.Log.Info("Services initialized", "handlers", len(handlers))
	return handlers
}
