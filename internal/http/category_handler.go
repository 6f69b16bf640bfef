package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/raffreitas/blog/internal/service"
)

// CategoryHandler mantiene dependencias para endpoints de categorias.
type CategoryHandler struct {
	logger       *zap.Logger
	categoryServ *service.CategoryService
}

func NewCategoryHandler(logger *zap.Logger, categoryServ *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		logger:       logger,
		categoryServ: categoryServ,
	}
}

// List maneja GET /v1/categories.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryServ.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list categories failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errResult(internalErrorMessage))
		return
	}
	c.JSON(http.StatusOK, okResult(categories))
}

// GetByID maneja GET /v1/categories/:id.
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	category, err := h.categoryServ.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, errResult("category not found"))
			return
		}
		h.logger.Error("get category failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errResult(internalErrorMessage))
		return
	}
	c.JSON(http.StatusOK, okResult(category))
}

// Create maneja POST /v1/categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
		Slug string `json:"slug" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create category request", zap.Error(err))
		c.JSON(http.StatusBadRequest, errResult("invalid request"))
		return
	}

	category, err := h.categoryServ.Create(c.Request.Context(), req.Name, req.Slug)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, errResult("invalid request"))
			return
		}
		h.logger.Error("create category failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errResult(internalErrorMessage))
		return
	}
	c.JSON(http.StatusCreated, okResult(category))
}

// Update maneja PUT /v1/categories/:id.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
		Slug string `json:"slug" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update category request", zap.Error(err))
		c.JSON(http.StatusBadRequest, errResult("invalid request"))
		return
	}

	category, err := h.categoryServ.Update(c.Request.Context(), id, req.Name, req.Slug)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, errResult("invalid request"))
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, errResult("category not found"))
		default:
			h.logger.Error("update category failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, errResult(internalErrorMessage))
		}
		return
	}
	c.JSON(http.StatusOK, okResult(category))
}

// Delete maneja DELETE /v1/categories/:id.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	category, err := h.categoryServ.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, errResult("category not found"))
			return
		}
		h.logger.Error("delete category failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errResult(internalErrorMessage))
		return
	}
	c.JSON(http.StatusOK, okResult(category))
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errResult("invalid id"))
		return 0, false
	}
	return id, true
}
