package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/airbook-dev/airbook/internal/domain"
	"github.com/airbook-dev/airbook/internal/service/auth"
	"github.com/airbook-dev/airbook/internal/service/booking"
)

type AuthHandler struct {
	service  auth.AuthUseCase
	bookings booking.BookingUseCase
}

func NewAuthHandler(service auth.AuthUseCase, bookings booking.BookingUseCase) *AuthHandler {
	return &AuthHandler{service: service, bookings: bookings}
}

func (h *AuthHandler) Register(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.GET("/profile", authRequired, h.profile)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req auth.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, user, "user registered")
}

func (h *AuthHandler) login(c *gin.Context) {
	var req auth.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"token": token, "user": user}, "login successful")
}

func (h *AuthHandler) profile(c *gin.Context) {
	userID := currentUserID(c)

	user, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	bookings, err := h.bookings.ListUserBookings(c.Request.Context(), userID)
	if err != nil && domain.KindOf(err) != domain.KindNotFound {
		respondError(c, err)
		return
	}
	if bookings == nil {
		bookings = []domain.BookingDetail{}
	}

	respond(c, http.StatusOK, gin.H{"user": user, "bookings": bookings}, "profile fetched")
}
