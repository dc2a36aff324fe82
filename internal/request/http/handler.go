package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sergey-oreshkin/shareit/internal/auth"
	"github.com/sergey-oreshkin/shareit/internal/pkg/pagination"
	"github.com/sergey-oreshkin/shareit/internal/pkg/response"
	"github.com/sergey-oreshkin/shareit/internal/request"
)

type Handler struct {
	service request.Service
}

func NewHandler(service request.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), body.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewRequestResponse(req))
}

// ListOwn returns the authenticated user's own requests.
func (h *Handler) ListOwn(c *gin.Context) {
	requests, err := h.service.ListOwn(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RequestResponse, len(requests))
	for i, req := range requests {
		items[i] = NewRequestResponse(req)
	}
	c.JSON(http.StatusOK, items)
}

// ListOthers handles GET /requests/all.
func (h *Handler) ListOthers(c *gin.Context) {
	page, err := pagination.FromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	requests, err := h.service.ListOthers(c.Request.Context(), auth.GetUserID(c), page)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RequestResponse, len(requests))
	for i, req := range requests {
		items[i] = NewRequestResponse(req)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, page.Offset, page.Limit))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	req, err := h.service.GetByID(c.Request.Context(), auth.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewRequestResponse(req))
}
