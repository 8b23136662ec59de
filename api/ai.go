package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/staybook/internal/ai"
	"github.com/zvrva/staybook/internal/domain"
)

type AIHandler struct {
	client *ai.Client
}

func NewAIHandler(client *ai.Client) *AIHandler {
	return &AIHandler{client: client}
}

func (h *AIHandler) Register(router *gin.RouterGroup, rateLimit gin.HandlerFunc) {
	router.POST("/itinerary", rateLimit, h.itinerary)
}

type itineraryRequest struct {
	HotelName string `json:"hotelName"`
	City      string `json:"city"`
	CheckIn   string `json:"checkIn"`
	CheckOut  string `json:"checkOut"`
	Guests    int    `json:"guests"`
	RoomType  string `json:"roomType"`
}

func (h *AIHandler) itinerary(c *gin.Context) {
	var req itineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidation("All fields are required"))
		return
	}
	if req.City == "" || req.CheckIn == "" || req.CheckOut == "" {
		respondError(c, domain.NewValidation("All fields are required"))
		return
	}

	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		respondError(c, domain.NewValidation("Invalid check-in date"))
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		respondError(c, domain.NewValidation("Invalid check-out date"))
		return
	}

	itinerary, err := h.client.Generate(c.Request.Context(), ai.ItineraryRequest{
		HotelName: req.HotelName,
		City:      req.City,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    req.Guests,
		RoomType:  req.RoomType,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "itinerary": itinerary.Raw, "days": itinerary.Days})
}
