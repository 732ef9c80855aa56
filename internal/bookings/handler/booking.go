package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"innkeep/internal/bookings/repository"
	"innkeep/internal/bookings/service"
	apperrors "innkeep/pkg/errors"
	httputil "innkeep/pkg/http"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

type BookingHandler struct {
	bookings     service.BookingService
	availability service.AvailabilityService
	reports      service.ReportService
	log          *logger.Logger
}

func NewBookingHandler(
	bookings service.BookingService,
	availability service.AvailabilityService,
	reports service.ReportService,
	log *logger.Logger,
) *BookingHandler {
	return &BookingHandler{
		bookings:     bookings,
		availability: availability,
		reports:      reports,
		log:          log,
	}
}

type bookingRequest struct {
	RoomID    string `json:"room_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type bookingResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	RoomID    string `json:"room_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func toBookingResponse(b *model.Booking) bookingResponse {
	return bookingResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		RoomID:    b.RoomID,
		StartDate: b.StartDate.Format(model.DateLayout),
		EndDate:   b.EndDate.Format(model.DateLayout),
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.Format(model.DateTimeLayout),
	}
}

type roomSummary struct {
	ID       string         `json:"id"`
	HotelID  string         `json:"hotel_id"`
	Number   string         `json:"number"`
	Type     string         `json:"type"`
	Capacity int            `json:"capacity"`
	Price    float64        `json:"price"`
	Status   string         `json:"status"`
	Images   []*model.Image `json:"images"`
}

type hotelSummary struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	City    string         `json:"city"`
	Country string         `json:"country"`
	Images  []*model.Image `json:"images"`
}

type bookingViewResponse struct {
	bookingResponse
	Room  *roomSummary `json:"room,omitempty"`
	Hotel *hotelSummary `json:"hotel,omitempty"`
}

func toViewResponse(v *service.BookingView) bookingViewResponse {
	resp := bookingViewResponse{bookingResponse: toBookingResponse(v.Booking)}
	if v.Room != nil {
		resp.Room = &roomSummary{
			ID:       v.Room.ID,
			HotelID:  v.Room.HotelID,
			Number:   v.Room.Number,
			Type:     v.Room.Type,
			Capacity: v.Room.Capacity,
			Price:    v.Room.Price,
			Status:   string(v.Room.Status),
			Images:   v.RoomImages,
		}
	}
	if v.Hotel != nil {
		resp.Hotel = &hotelSummary{
			ID:      v.Hotel.ID,
			Name:    v.Hotel.Name,
			City:    v.Hotel.City,
			Country: v.Hotel.Country,
			Images:  v.HotelImages,
		}
	}
	return resp
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.bookings.Create(r.Context(), req.RoomID, req.StartDate, req.EndDate)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, toBookingResponse(booking)); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.bookings.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, toBookingResponse(booking)); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.bookings.Update(r.Context(), ps.ByName("id"), req.StartDate, req.EndDate)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, toBookingResponse(booking)); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.bookings.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) ListAvailableRooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	rng, err := model.ParseDateRange(query.Get("start_date"), query.Get("end_date"))
	if err != nil {
		h.writeError(w, "ListAvailableRooms", apperrors.InvalidInput(err.Error()))
		return
	}

	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, "ListAvailableRooms", err)
		return
	}

	rooms, total, err := h.availability.ListAvailableRooms(r.Context(), rng, page, limit)
	if err != nil {
		h.writeError(w, "ListAvailableRooms", err)
		return
	}

	p := httputil.NewPagination(page, limit, len(rooms), total)
	if err := httputil.WritePaginated(w, rooms, p); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListAvailableRooms", "error", err)
	}
}

func (h *BookingHandler) Report(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bucket, err := repository.ParseBucket(ps.ByName("bucket"))
	if err != nil {
		h.writeError(w, "Report", apperrors.InvalidInput(err.Error()))
		return
	}

	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, "Report", err)
		return
	}

	views, total, err := h.reports.Report(r.Context(), bucket, time.Now().UTC(), page, limit)
	if err != nil {
		h.writeError(w, "Report", err)
		return
	}

	data := make([]bookingViewResponse, 0, len(views))
	for _, v := range views {
		data = append(data, toViewResponse(v))
	}

	p := httputil.NewPagination(page, limit, len(data), total)
	if err := httputil.WritePaginated(w, data, p); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Report", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id", h.Update)
	router.DELETE("/api/v1/bookings/id/:id", h.Delete)
	router.GET("/api/v1/bookings/reports/:bucket", h.Report)
	router.GET("/api/v1/rooms/available", h.ListAvailableRooms)
}
