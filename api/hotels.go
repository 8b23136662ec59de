package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/staybook/internal/domain"
	"github.com/zvrva/staybook/internal/service/hotels"
)

type HotelHandler struct {
	service hotels.HotelUseCase
}

func NewHotelHandler(service hotels.HotelUseCase) *HotelHandler {
	return &HotelHandler{service: service}
}

func (h *HotelHandler) Register(router *gin.RouterGroup, auth, ownerOnly gin.HandlerFunc) {
	router.POST("/", auth, h.register)
	router.GET("/owner", auth, ownerOnly, h.listOwned)
}

type registerHotelRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Contact string `json:"contact"`
	City    string `json:"city"`
}

type hotelResponse struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Contact   string    `json:"contact"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"createdAt"`
}

func toHotelResponse(h domain.Hotel) hotelResponse {
	return hotelResponse{
		ID:        h.ID,
		Owner:     h.OwnerID,
		Name:      h.Name,
		Address:   h.Address,
		Contact:   h.Contact,
		City:      h.City,
		CreatedAt: h.CreatedAt,
	}
}

func (h *HotelHandler) register(c *gin.Context) {
	var req registerHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidation("Please provide all required fields: name, address, contact, and city"))
		return
	}

	hotel, err := h.service.RegisterHotel(c.Request.Context(), hotels.RegisterHotelInput{
		OwnerID: currentUserID(c),
		Name:    req.Name,
		Address: req.Address,
		Contact: req.Contact,
		City:    req.City,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Hotel Registered Successfully",
		"hotel":   toHotelResponse(*hotel),
	})
}

func (h *HotelHandler) listOwned(c *gin.Context) {
	owned, err := h.service.ListOwnerHotels(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]hotelResponse, 0, len(owned))
	for _, hotel := range owned {
		out = append(out, toHotelResponse(hotel))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "hotels": out})
}
