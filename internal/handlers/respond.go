package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/clinical-data-api/internal/contract"
	apierrors "github.com/yukikurage/clinical-data-api/internal/errors"
	"github.com/yukikurage/clinical-data-api/internal/services"
)

// respond writes body as JSON after checking it against the type the route
// registers for status.
func respond(c *gin.Context, route contract.Route, status int, body any) {
	if err := route.Conforms(status, body); err != nil {
		slog.ErrorContext(c.Request.Context(), "response violates contract",
			slog.String("route", route.Name),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(status, body)
}

// bindJSON binds the request body into dst. With allowEmpty an absent body
// leaves dst at its zero value.
func bindJSON(c *gin.Context, dst any, allowEmpty bool) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	if allowEmpty && errors.Is(err, io.EOF) {
		return true
	}
	respondBindError(c, err)
	return false
}

func respondBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &validationErrs) && len(validationErrs) > 0:
		details := make([]string, len(validationErrs))
		for i, fe := range validationErrs {
			details[i] = fe.Field() + ": " + fe.Tag()
		}
		apierrors.ValidationFailed(c, validationErrs[0].Field(), details)
	case errors.As(err, &typeErr):
		apierrors.ValidationFailed(c, typeErr.Field, nil)
	default:
		apierrors.BadRequest(c, "Invalid request body")
	}
}

// pathID parses the :id path parameter, answering 400 when it is not a
// positive integer.
func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return id, true
}

// respondServiceError maps service errors onto API errors.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAccountDisabled):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrDatasetNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, err.Error())
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(c, "Internal server error")
	}
}
