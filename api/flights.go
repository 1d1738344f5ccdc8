package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/airbook-dev/airbook/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/seats", h.seats)
	router.POST("", authRequired, h.create)
}

func (h *FlightHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("", h.listRoutes)
}

func (h *FlightHandler) list(c *gin.Context) {
	input := flights.ListFlightsInput{
		DepartureCity: c.Query("departure_city"),
		ArrivalCity:   c.Query("arrival_city"),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "date must be YYYY-MM-DD"})
			return
		}
		input.Date = &date
	}
	input.Page, _ = strconv.Atoi(c.Query("page"))
	input.PageSize, _ = strconv.Atoi(c.Query("page_size"))

	list, total, err := h.service.ListFlights(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"flights": list, "total": total}, "flights fetched")
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid flight id"})
		return
	}

	flight, err := h.service.GetFlight(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, flight, "flight fetched")
}

func (h *FlightHandler) seats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid flight id"})
		return
	}

	flight, err := h.service.GetFlight(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	seats, err := h.service.GetSeats(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"flight": flight, "seats": seats}, "seat map fetched")
}

func (h *FlightHandler) create(c *gin.Context) {
	var req flights.AddFlightInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	flight, seatsAdded, err := h.service.AddFlight(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"flight": flight, "seats_added": seatsAdded}, "flight created")
}

func (h *FlightHandler) listRoutes(c *gin.Context) {
	routes, err := h.service.ListRoutes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, routes, "routes fetched")
}
