package handlers

import (
	"github.com/gin-gonic/gin"

	"pricecraft/internal/core/apperror"
	appctx "pricecraft/internal/core/context"
	"pricecraft/internal/core/id"
	"pricecraft/internal/domain/auth"
	"pricecraft/internal/infrastructure/http/v1/dto"
	"pricecraft/internal/infrastructure/http/v1/middleware"
)

// AuthHandler serves authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires auth endpoints. Login is public; me requires a
// valid token; register is admin-only.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/login", h.Login)
	protected.POST("/register", middleware.RequireAdmin(), h.Register)
	protected.GET("/me", h.Me)
}

// Login verifies credentials and returns an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.LoginResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		User:        dto.NewUserResponse(result.User),
	})
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	role := auth.Role(req.Role)
	if role == "" {
		role = auth.RoleUser
	}

	user, err := h.service.Register(c.Request.Context(), req.Email, req.Name, req.Password, role)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, user.ID.String())
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(c *gin.Context) {
	userCtx := appctx.GetUser(c.Request.Context())
	if userCtx == nil {
		h.Error(c, apperror.NewUnauthorized("not authenticated"))
		return
	}

	userID, err := id.Parse(userCtx.UserID)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("invalid token subject"))
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewUserResponse(user))
}
