package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"innkeep/internal/hotels/service"
	apperrors "innkeep/pkg/errors"
	httputil "innkeep/pkg/http"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

type HotelHandler struct {
	hotels service.HotelService
	rooms  service.RoomService
	images service.ImageService
	log    *logger.Logger
}

func NewHotelHandler(
	hotels service.HotelService,
	rooms service.RoomService,
	images service.ImageService,
	log *logger.Logger,
) *HotelHandler {
	return &HotelHandler{
		hotels: hotels,
		rooms:  rooms,
		images: images,
		log:    log,
	}
}

func (h *HotelHandler) CreateHotel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var hotel model.Hotel
	if err := json.NewDecoder(r.Body).Decode(&hotel); err != nil {
		h.writeError(w, "CreateHotel", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.hotels.Create(r.Context(), &hotel); err != nil {
		h.writeError(w, "CreateHotel", err)
		return
	}

	if err := httputil.WriteCreated(w, hotel); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateHotel", "error", err)
	}
}

func (h *HotelHandler) GetHotel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hotel, err := h.hotels.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetHotel", err)
		return
	}

	if err := httputil.WriteSuccess(w, hotel); err != nil {
		h.log.Error("failed to write success response", "handler", "GetHotel", "error", err)
	}
}

func (h *HotelHandler) ListHotels(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, "ListHotels", err)
		return
	}

	hotels, total, err := h.hotels.GetAll(r.Context(), page, limit)
	if err != nil {
		h.writeError(w, "ListHotels", err)
		return
	}

	p := httputil.NewPagination(page, limit, len(hotels), total)
	if err := httputil.WritePaginated(w, hotels, p); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListHotels", "error", err)
	}
}

func (h *HotelHandler) UpdateHotel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.HotelUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "UpdateHotel", apperrors.InvalidInput("Invalid request body"))
		return
	}

	hotel, err := h.hotels.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "UpdateHotel", err)
		return
	}

	if err := httputil.WriteSuccess(w, hotel); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateHotel", "error", err)
	}
}

func (h *HotelHandler) DeleteHotel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.hotels.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "DeleteHotel", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *HotelHandler) CreateRoom(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var room model.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		h.writeError(w, "CreateRoom", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.rooms.Create(r.Context(), &room); err != nil {
		h.writeError(w, "CreateRoom", err)
		return
	}

	if err := httputil.WriteCreated(w, room); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateRoom", "error", err)
	}
}

func (h *HotelHandler) GetRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.rooms.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetRoom", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "GetRoom", "error", err)
	}
}

func (h *HotelHandler) ListHotelRooms(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, "ListHotelRooms", err)
		return
	}

	rooms, total, err := h.rooms.GetByHotel(r.Context(), ps.ByName("id"), page, limit)
	if err != nil {
		h.writeError(w, "ListHotelRooms", err)
		return
	}

	p := httputil.NewPagination(page, limit, len(rooms), total)
	if err := httputil.WritePaginated(w, rooms, p); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListHotelRooms", "error", err)
	}
}

func (h *HotelHandler) UpdateRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.RoomUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "UpdateRoom", apperrors.InvalidInput("Invalid request body"))
		return
	}

	room, err := h.rooms.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "UpdateRoom", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateRoom", "error", err)
	}
}

func (h *HotelHandler) DeleteRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.rooms.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "DeleteRoom", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *HotelHandler) RoomImages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	images, err := h.images.ImagesForRoom(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "RoomImages", err)
		return
	}

	if err := httputil.WriteSuccess(w, images); err != nil {
		h.log.Error("failed to write success response", "handler", "RoomImages", "error", err)
	}
}

func (h *HotelHandler) HotelImages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	images, err := h.images.ImagesForHotel(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "HotelImages", err)
		return
	}

	if err := httputil.WriteSuccess(w, images); err != nil {
		h.log.Error("failed to write success response", "handler", "HotelImages", "error", err)
	}
}

func (h *HotelHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *HotelHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/hotels", h.CreateHotel)
	router.GET("/api/v1/hotels", h.ListHotels)
	router.GET("/api/v1/hotels/id/:id", h.GetHotel)
	router.PATCH("/api/v1/hotels/id/:id", h.UpdateHotel)
	router.DELETE("/api/v1/hotels/id/:id", h.DeleteHotel)
	router.GET("/api/v1/hotels/id/:id/rooms", h.ListHotelRooms)
	router.GET("/api/v1/hotels/id/:id/images", h.HotelImages)

	router.POST("/api/v1/rooms", h.CreateRoom)
	router.GET("/api/v1/rooms/id/:id", h.GetRoom)
	router.PATCH("/api/v1/rooms/id/:id", h.UpdateRoom)
	router.DELETE("/api/v1/rooms/id/:id", h.DeleteRoom)
	router.GET("/api/v1/rooms/id/:id/images", h.RoomImages)
}
