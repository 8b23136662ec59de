package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/staybook/internal/domain"
	"github.com/zvrva/staybook/internal/service/users"
)

type UserHandler struct {
	service users.UserUseCase
}

func NewUserHandler(service users.UserUseCase) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/", auth, h.profile)
	router.POST("/recent-searched-cities", auth, h.storeRecentCity)
	router.POST("/role", auth, h.updateRole)
}

func (h *UserHandler) profile(c *gin.Context) {
	user, err := h.service.Profile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"role":                 user.Role,
		"recentSearchedCities": user.RecentSearchedCities,
	})
}

func (h *UserHandler) storeRecentCity(c *gin.Context) {
	var req struct {
		RecentSearchedCity string `json:"recentSearchedCity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RecentSearchedCity == "" {
		respondError(c, domain.NewValidation("City name is required"))
		return
	}

	if err := h.service.AddRecentCity(c.Request.Context(), currentUserID(c), req.RecentSearchedCity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "City added"})
}

func (h *UserHandler) updateRole(c *gin.Context) {
	var req struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidation("Invalid role"))
		return
	}

	role, err := h.service.UpdateRole(c.Request.Context(), currentUserID(c), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Role updated", "role": role})
}
