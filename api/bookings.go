package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/airbook-dev/airbook/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register wires the booking routes. The whole group runs behind
// authRequired; every operation is scoped to the authenticated user.
func (h *BookingHandler) Register(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	router.Use(authRequired)
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("/:id/create-order", h.createOrder)
	router.POST("/:id/verify-payment", h.verifyPayment)
	router.POST("/:id/cancel", h.cancel)
	router.DELETE("/:id", h.delete)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	detail, err := h.service.CreateBooking(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, detail, "booking created")
}

func (h *BookingHandler) list(c *gin.Context) {
	details, err := h.service.ListUserBookings(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, details, "bookings fetched")
}

func (h *BookingHandler) get(c *gin.Context) {
	detail, err := h.service.GetBooking(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, detail, "booking fetched")
}

func (h *BookingHandler) createOrder(c *gin.Context) {
	order, err := h.service.CreateOrder(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, order, "payment order created")
}

func (h *BookingHandler) verifyPayment(c *gin.Context) {
	var req booking.VerifyPaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	detail, err := h.service.VerifyPayment(c.Request.Context(), c.Param("id"), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, detail, "payment verified, booking confirmed")
}

func (h *BookingHandler) cancel(c *gin.Context) {
	detail, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, detail, "booking cancelled")
}

func (h *BookingHandler) delete(c *gin.Context) {
	b, err := h.service.DeleteBooking(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, b, "booking deleted")
}
