package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/familyrecipes/backend/internal/logging"
	"github.com/familyrecipes/backend/internal/middleware"
	"github.com/familyrecipes/backend/internal/service"
	"github.com/familyrecipes/backend/internal/types"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	authService  service.IAuthService
	cooking      *service.CookingService
	sessionTTL   time.Duration
	secureCookie bool
}

func NewAuthHandler(authService service.IAuthService, cooking *service.CookingService, sessionTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cooking:      cooking,
		sessionTTL:   sessionTTL,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/countries", h.Countries)
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)
}

// LoginResponse is returned on successful login. The token is also set as
// the session cookie.
type LoginResponse struct {
	MessageResponse
	Token string `json:"token"`
}

func (h *AuthHandler) Countries(c *gin.Context) {
	countries, err := h.authService.Countries(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, countries)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	logging.Ctx(c.Request.Context()).Info().Int64("user_id", user.ID).Msg("user registered")
	c.JSON(http.StatusCreated, MessageResponse{
		Message:  "user created, please login",
		Success:  true,
		Redirect: "/login",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.sessionTTL.Seconds()), "/", "", h.secureCookie, true)

	logging.Ctx(c.Request.Context()).Info().Int64("user_id", user.ID).Msg("user logged in")
	c.JSON(http.StatusOK, LoginResponse{
		MessageResponse: MessageResponse{Message: "login succeeded", Success: true, Redirect: "/recipes"},
		Token:           token,
	})
}

// Logout ends the session. Cooking progress of the session is dropped.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID := middleware.SessionID(c); sessionID != "" {
		if err := h.cooking.EndSession(c.Request.Context(), sessionID); err != nil {
			logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("failed to clear cooking progress")
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, MessageResponse{Message: "logout succeeded", Success: true, Redirect: "/recipes"})
}
