package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/domain"
	"github.com/yokitheyo/mediacatalog/internal/dto"
)

type AuthHandler struct {
	auth domain.AuthService
}

func NewAuthHandler(auth domain.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) RegisterRoutes(public gin.IRoutes) {
	public.POST("/auth/login", h.Login)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *ginext.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to bind login request")
		respondError(c, loginValidationError(err))
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

var loginMessages = map[string]string{
	"Email":    "Please include a valid email",
	"Password": "Password is required",
}

func loginValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewValidationError(domain.FieldIssue{Msg: "Invalid request body"})
	}

	issues := make([]domain.FieldIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := loginMessages[fe.Field()]
		if !ok {
			msg = fe.Error()
		}
		issues = append(issues, domain.FieldIssue{Field: jsonField(fe.Field()), Msg: msg})
	}
	return domain.NewValidationError(issues...)
}

func jsonField(name string) string {
	switch name {
	case "Email":
		return "email"
	case "Password":
		return "password"
	default:
		return name
	}
}
