package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

// AuthHandler handles registration, login and account management.
type AuthHandler struct {
	service   ports.AuthService
	maxUpload int64
}

func NewAuthHandler(service ports.AuthService, maxUpload int64) *AuthHandler {
	return &AuthHandler{service: service, maxUpload: maxUpload}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=student teacher admin"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token,omitempty"`
	User    *domain.User `json:"user,omitempty"`
}

type resetTokenResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"reset_token"`
}

// Register handles POST /api/users/signup.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users/signup [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	token, user, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{
		Message: "user registered successfully",
		Token:   token,
		User:    user,
	})
}

// Login handles POST /api/users/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	token, user, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Message: "login successful",
		Token:   token,
		User:    user,
	})
}

// ForgotPassword handles POST /api/users/forget-password. The reset token is
// returned in the response body; mail delivery is out of scope.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	token, err := h.service.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resetTokenResponse{
		Message:    "reset link generated",
		ResetToken: token,
	})
}

// ResetPassword handles POST /api/users/reset-password/:token.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.service.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password reset successful"})
}

// Profile handles GET /api/users/profile.
func (h *AuthHandler) Profile(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.service.Profile(c.Request().Context(), ident.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/users/profile — multipart form with
// optional profile fields and an optional avatar image.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	input := ports.UpdateProfileInput{
		FirstName: formString(c, "firstName"),
		LastName:  formString(c, "lastName"),
		Bio:       formString(c, "bio"),
		Phone:     formString(c, "phone"),
	}

	if fh, err := c.FormFile("avatar"); err == nil {
		upload, closeFn, err := openUpload(fh, h.maxUpload, imageTypes)
		if err != nil {
			return err
		}
		defer closeFn()
		input.Avatar = upload
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), ident.UserID, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// DashboardStats handles GET /api/users/dashboard/stats (admin only).
func (h *AuthHandler) DashboardStats(c echo.Context) error {
	stats, err := h.service.DashboardStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{
		"total_users":  stats.TotalUsers,
		"active_users": stats.ActiveUsers,
		"teachers":     stats.Teachers,
		"students":     stats.Students,
	})
}

// ListUsers handles GET /api/users (admin only).
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
