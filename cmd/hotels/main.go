package main

import (
	"innkeep/internal/health"
	hotelshandler "innkeep/internal/hotels/handler"
	hotelsrepo "innkeep/internal/hotels/repository"
	hotelsservice "innkeep/internal/hotels/service"
	hotelsvalidator "innkeep/internal/hotels/validator"
	"innkeep/pkg/app"
	"innkeep/pkg/config"
)

const ServiceName = "hotels"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Hotels service")

	serverApp := app.NewApplication()
	serverApp.OnShutdown(cfg.GracefulShutdown)

	serverApp.SetApp(cfg, initHandler(cfg), health.NewHealthHandler(cfg.Client.Mongo, cfg.Log))
	serverApp.Run()
}

func initHandler(cfg *config.Config) *hotelshandler.HotelHandler {
	v := hotelsvalidator.NewHotelValidator(cfg.Log)
	hotelRepo := hotelsrepo.NewMongoHotelRepository(cfg)
	roomRepo := hotelsrepo.NewMongoRoomRepository(cfg)
	imageRepo := hotelsrepo.NewMongoImageRepository(cfg)

	hotels := hotelsservice.NewHotelService(hotelRepo, v, cfg)
	rooms := hotelsservice.NewRoomService(roomRepo, hotelRepo, v, cfg)
	images := hotelsservice.NewImageService(imageRepo, rooms, hotels, cfg)

	cfg.Log.Info("Hotel services initialized", "database", cfg.MongoDatabaseName)
	return hotelshandler.NewHotelHandler(hotels, rooms, images, cfg.Log)
}
