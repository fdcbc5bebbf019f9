package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hafiz229/doctors-portal-server/internal/doctors"
	"github.com/hafiz229/doctors-portal-server/internal/models"
)

// DefaultMaxImageBytes caps doctor image uploads when no limit is configured.
const DefaultMaxImageBytes = 5 << 20

// multipartOverhead is allowed on top of the image for the other form parts.
const multipartOverhead = 64 << 10

// DoctorHandler serves the doctor directory.
type DoctorHandler struct {
	svc      *doctors.Service
	maxBytes int64
}

func NewDoctorHandler(svc *doctors.Service, maxImageBytes int64) *DoctorHandler {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}
	return &DoctorHandler{svc: svc, maxBytes: maxImageBytes}
}

// Register mounts the routes. guard protects POST /doctors.
func (h *DoctorHandler) Register(r gin.IRoutes, guard gin.HandlerFunc) {
	r.GET("/doctors", h.List)
	r.POST("/doctors", guard, h.Add)
}

func (h *DoctorHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Add accepts a multipart form with name, email and an image file.
func (h *DoctorHandler) Add(c *gin.Context) {
	if c.Request.ContentLength > h.maxBytes+multipartOverhead {
		h.tooLarge(c)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.tooLarge(c)
			return
		}
		badRequest(c, fmt.Errorf("image file is required: %w", err))
		return
	}
	if fh.Size > h.maxBytes {
		h.tooLarge(c)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, err)
		return
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	d := models.Doctor{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		Image:       data,
		ContentType: contentType,
	}
	res, err := h.svc.Add(c.Request.Context(), d, fh.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *DoctorHandler) tooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("image exceeds %d bytes", h.maxBytes)})
}
