package http

import (
	"errors"
	"net/http"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/domain"
	"github.com/yokitheyo/mediacatalog/internal/dto"
)

const msgServerError = "Server error"

// respondError maps a usecase error to its HTTP status and body. Anything
// unrecognised is logged and answered without internal detail.
func respondError(c *ginext.Context, err error) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, validationResponse(validation.Issues))
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Msg:    "Invalid Credentials",
			Errors: []domain.FieldIssue{{Msg: "Invalid Credentials"}},
		})
	case errors.Is(err, domain.ErrInvalidFormat):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Msg: "Invalid image format"})
	case errors.Is(err, domain.ErrInvalidCategory):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Msg: "Invalid category"})
	case errors.Is(err, domain.ErrDuplicateImage):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Msg: "Image already exists"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Msg: "No token, authorization denied"})
	case errors.Is(err, domain.ErrImageNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Msg: "Image not found"})
	case errors.Is(err, domain.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Msg: "File too large"})
	default:
		zlog.Logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Msg: msgServerError})
	}
}

// A single issue doubles as the top-level message.
func validationResponse(issues []domain.FieldIssue) dto.ErrorResponse {
	if len(issues) == 1 {
		return dto.ErrorResponse{Msg: issues[0].Msg, Errors: issues}
	}
	return dto.ErrorResponse{Msg: "Validation failed", Errors: issues}
}
