package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/reservation"
	"github.com/Domenick1991/flightdesk/internal/ticket"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service reservation.ReservationUseCase
}

type createBookingRequest struct {
	FlightCode string `json:"flight_code"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Seat       string `json:"seat"`
}

type bookingResponse struct {
	ID         string `json:"id"`
	FlightCode string `json:"flight_code"`
	Route      string `json:"route"`
	Date       string `json:"date"`
	DepartTime string `json:"depart_time"`
	ArriveTime string `json:"arrive_time"`
	Passenger  string `json:"passenger"`
	Phone      string `json:"phone"`
	Seat       string `json:"seat"`
	Fare       string `json:"fare"`
	CreatedAt  string `json:"created_at"`
}

func NewBookingHandler(service reservation.ReservationUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), reservation.CreateBookingInput{
		FlightCode: req.FlightCode,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Seat:       req.Seat,
	})
	if err != nil {
		c.JSON(bookingStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) get(c *gin.Context) {
	booking, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(bookingStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking": toBookingResponse(booking),
		"ticket":  ticket.Render(booking),
	})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	booking, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(bookingStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	f := b.Flight
	return bookingResponse{
		ID:         b.ID,
		FlightCode: f.Code,
		Route:      f.Route(),
		Date:       f.Date.Format(time.DateOnly),
		DepartTime: f.DepartTime,
		ArriveTime: f.ArriveTime,
		Passenger:  b.FullName(),
		Phone:      b.Phone,
		Seat:       string(b.Seat),
		Fare:       domain.FormatFare(f.FareCents),
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}

func bookingStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSeatTaken), errors.Is(err, domain.ErrNoCapacity):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoSeatSelected), errors.Is(err, domain.ErrInvalidPassenger):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInconsistency):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
