package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hafiz229/doctors-portal-server/internal/models"
	"github.com/hafiz229/doctors-portal-server/internal/users"
	"github.com/hafiz229/doctors-portal-server/pkg/middleware"
)

// PromoteRequest names the user to grant the admin role to.
type PromoteRequest struct {
	Email string `json:"email" binding:"required"`
}

// UserHandler serves user registration, profile upsert and admin management.
type UserHandler struct {
	svc *users.Service
}

func NewUserHandler(svc *users.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Register(r gin.IRoutes) {
	r.GET("/users/:email", h.IsAdmin)
	r.POST("/users", h.Create)
	r.PUT("/users", h.Upsert)
	r.PUT("/users/admin", h.Promote)
}

func (h *UserHandler) IsAdmin(c *gin.Context) {
	admin, err := h.svc.IsAdmin(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": admin})
}

// Create registers the user in the body. Profile fields beyond email and
// displayName are stored as sent; role and store-managed fields are not.
func (h *UserHandler) Create(c *gin.Context) {
	var req models.User
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *UserHandler) Upsert(c *gin.Context) {
	var req models.User
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.SaveProfile(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Promote grants the admin role to the user in the body. The requester must
// carry a verified identity of an existing admin; anything else is a 403.
func (h *UserHandler) Promote(c *gin.Context) {
	requester, ok := middleware.RequesterEmail(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	var req PromoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.Promote(c.Request.Context(), requester, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
