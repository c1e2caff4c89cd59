package handler

import (
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/restaurant-booking/internal/config"     // app configuration
	"github.com/iliyamo/restaurant-booking/internal/middleware" // role names
	"github.com/iliyamo/restaurant-booking/internal/utils"      // hashing and token issuing
)

// AuthHandler issues admin access tokens. There is a single operator
// account configured through ADMIN_USER and ADMIN_PASSWORD_HASH.
type AuthHandler struct {
	Cfg config.Config
}

func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{Cfg: cfg}
}

// ----- DTOs -----

type tokenReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type tokenResp struct {
	Username string    `json:"username"`
	Role     string    `json:"role"`
	Access   tokenPart `json:"access"`
}

// Token: verify the operator credentials and return an access token.
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}
	if h.Cfg.AdminPasswordHash == "" || h.Cfg.JWTSecret == "" {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "admin login not configured"})
	}
	// compare the password even for an unknown user so both paths cost a bcrypt round
	okPass := utils.VerifyPassword(h.Cfg.AdminPasswordHash, req.Password)
	if req.Username != h.Cfg.AdminUser || !okPass {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, req.Username, middleware.RoleAdmin, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{
		Username: req.Username,
		Role:     middleware.RoleAdmin,
		Access:   tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Me returns the identity stored by the JWT middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"username": c.Get("user_id"),
		"role":     c.Get("role"),
	})
}
