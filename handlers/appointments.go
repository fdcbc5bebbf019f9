package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hafiz229/doctors-portal-server/internal/appointments"
	"github.com/hafiz229/doctors-portal-server/internal/models"
	"github.com/hafiz229/doctors-portal-server/pkg/logger"
	"github.com/hafiz229/doctors-portal-server/pkg/middleware"
)

// AppointmentHandler serves booking and payment attachment.
type AppointmentHandler struct {
	svc *appointments.Service
}

func NewAppointmentHandler(svc *appointments.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func (h *AppointmentHandler) Register(r gin.IRoutes) {
	r.GET("/appointments", h.List)
	r.GET("/appointments/:id", h.Get)
	r.POST("/appointments", h.Book)
	r.PUT("/appointments/:id", h.AttachPayment)
}

// List returns the appointments of ?email= on ?date=. A verified identity is
// not required.
func (h *AppointmentHandler) List(c *gin.Context) {
	email := c.Query("email")
	if requester, ok := middleware.RequesterEmail(c); ok && !strings.EqualFold(requester, email) {
		logger.Debugf("appointments: %s listed appointments of %s", requester, email)
	}
	list, err := h.svc.ListForPatient(c.Request.Context(), email, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	a, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req models.Appointment
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.Book(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *AppointmentHandler) AttachPayment(c *gin.Context) {
	var req models.Payment
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.AttachPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
