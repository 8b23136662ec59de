package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/staybook/internal/domain"
	"github.com/zvrva/staybook/internal/service/hotels"
)

type RoomHandler struct {
	service hotels.HotelUseCase
}

func NewRoomHandler(service hotels.HotelUseCase) *RoomHandler {
	return &RoomHandler{service: service}
}

func (h *RoomHandler) Register(router *gin.RouterGroup, auth, ownerOnly gin.HandlerFunc) {
	router.GET("/", h.list)
	router.POST("/", auth, ownerOnly, h.create)
	router.GET("/owner", auth, ownerOnly, h.listOwned)
	router.POST("/toggle-availability", auth, ownerOnly, h.toggleAvailability)
}

type roomResponse struct {
	ID            string    `json:"id"`
	Hotel         string    `json:"hotel"`
	RoomType      string    `json:"roomType"`
	PricePerNight int64     `json:"pricePerNight"`
	Amenities     []string  `json:"amenities"`
	Images        []string  `json:"images"`
	IsAvailable   bool      `json:"isAvailable"`
	CreatedAt     time.Time `json:"createdAt"`
}

type roomWithHotelResponse struct {
	roomResponse
	HotelData hotelResponse `json:"hotelData"`
}

func toRoomResponse(r domain.Room) roomResponse {
	return roomResponse{
		ID:            r.ID,
		Hotel:         r.HotelID,
		RoomType:      r.RoomType,
		PricePerNight: r.PricePerNight,
		Amenities:     r.Amenities,
		Images:        r.Images,
		IsAvailable:   r.IsAvailable,
		CreatedAt:     r.CreatedAt,
	}
}

func (h *RoomHandler) list(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]roomWithHotelResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, roomWithHotelResponse{
			roomResponse: toRoomResponse(r.Room),
			HotelData:    toHotelResponse(r.Hotel),
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rooms": out})
}

// create takes a multipart form: roomType, pricePerNight (minor units),
// amenities (JSON array), hotelId, plus one or more image files.
func (h *RoomHandler) create(c *gin.Context) {
	roomType := c.PostForm("roomType")
	hotelID := c.PostForm("hotelId")
	priceStr := c.PostForm("pricePerNight")
	amenitiesStr := c.PostForm("amenities")

	if roomType == "" || hotelID == "" || priceStr == "" || amenitiesStr == "" {
		respondError(c, domain.NewValidation("All fields are required including hotel selection"))
		return
	}

	price, err := strconv.ParseInt(priceStr, 10, 64)
	if err != nil || price <= 0 {
		respondError(c, domain.NewValidation("Invalid price"))
		return
	}

	var amenities []string
	if err := json.Unmarshal([]byte(amenitiesStr), &amenities); err != nil {
		respondError(c, domain.NewValidation("Invalid amenities format"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		respondError(c, domain.NewValidation("At least one image is required"))
		return
	}

	images := make([][]byte, 0, len(form.File["images"]))
	for _, fh := range form.File["images"] {
		f, err := fh.Open()
		if err != nil {
			respondError(c, domain.NewValidation("Failed to read image"))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respondError(c, domain.NewValidation("Failed to read image"))
			return
		}
		images = append(images, data)
	}

	room, err := h.service.CreateRoom(c.Request.Context(), hotels.CreateRoomInput{
		OwnerID:       currentUserID(c),
		HotelID:       hotelID,
		RoomType:      roomType,
		PricePerNight: price,
		Amenities:     amenities,
		Images:        images,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Room created successfully",
		"room":    toRoomResponse(*room),
	})
}

func (h *RoomHandler) listOwned(c *gin.Context) {
	rooms, err := h.service.ListOwnerRooms(c.Request.Context(), c.Query("hotelId"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]roomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, toRoomResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rooms": out})
}

func (h *RoomHandler) toggleAvailability(c *gin.Context) {
	var req struct {
		RoomID string `json:"roomId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RoomID == "" {
		respondError(c, domain.NewValidation("Room ID is required"))
		return
	}

	if err := h.service.ToggleRoomAvailability(c.Request.Context(), req.RoomID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Room availability updated"})
}
