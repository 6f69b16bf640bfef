package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/raffreitas/blog/internal/service"
)

// AccountHandler mantiene dependencias para endpoints de cuentas.
type AccountHandler struct {
	logger      *zap.Logger
	accountServ *service.AccountService
}

// NewAccountHandler crea una instancia de AccountHandler con dependencias necesarias.
func NewAccountHandler(logger *zap.Logger, accountServ *service.AccountService) *AccountHandler {
	return &AccountHandler{
		logger:      logger,
		accountServ: accountServ,
	}
}

// Register maneja POST /v1/accounts.
func (h *AccountHandler) Register(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, errResult("invalid request"))
		return
	}

	user, err := h.accountServ.Register(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, errResult("invalid request"))
		case errors.Is(err, service.ErrDuplicateEmail):
			c.JSON(http.StatusBadRequest, errResult("email already registered"))
		default:
			h.logger.Error("register failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, errResult(internalErrorMessage))
		}
		return
	}

	// La contraseña generada viaja solo por el correo de bienvenida,
	// nunca en la respuesta.
	c.JSON(http.StatusCreated, okResult(gin.H{"user": user.Email}))
}

// Login maneja POST /v1/accounts/login.
func (h *AccountHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, errResult("invalid request"))
		return
	}

	_, token, err := h.accountServ.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, errResult("invalid email or password"))
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, errResult("too many attempts"))
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, errResult(internalErrorMessage))
		}
		return
	}

	c.JSON(http.StatusOK, okResult(token))
}

// UploadImage maneja POST /v1/accounts/upload-image.
func (h *AccountHandler) UploadImage(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errResult("missing token"))
		return
	}

	var req struct {
		Base64Image string `json:"base64_image" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid upload image request", zap.Error(err))
		c.JSON(http.StatusBadRequest, errResult("invalid request"))
		return
	}

	imageURL, err := h.accountServ.UploadImage(c.Request.Context(), claims.UserID, req.Base64Image)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, errResult("invalid request"))
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, errResult("user not found"))
		default:
			h.logger.Error("upload image failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, errResult(internalErrorMessage))
		}
		return
	}

	c.JSON(http.StatusOK, okResult(gin.H{"image": imageURL}))
}
