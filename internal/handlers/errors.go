package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/SscSPs/balance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

var statusCodes = map[apperrors.StatusClass]int{
	apperrors.StatusNotFound:         http.StatusNotFound,
	apperrors.StatusBadInput:         http.StatusBadRequest,
	apperrors.StatusBusinessRule:     http.StatusUnprocessableEntity,
	apperrors.StatusConflict:         http.StatusConflict,
	apperrors.StatusTransientFailure: http.StatusServiceUnavailable,
	apperrors.StatusInternal:         http.StatusInternalServerError,
}

// HTTPStatusFor maps an error to the HTTP status code returned to callers.
func HTTPStatusFor(err error) int {
	if code, ok := statusCodes[apperrors.StatusOf(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// respondError writes the error body. Internal errors get fallbackMsg so
// causes are not leaked to clients.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	kind := apperrors.KindOf(err)
	status := apperrors.StatusOf(err)
	code := HTTPStatusFor(err)

	msg := fallbackMsg
	var appErr *apperrors.AppError
	switch {
	case status == apperrors.StatusInternal:
		kind = apperrors.KindInternal
	case errors.As(err, &appErr):
		msg = appErr.Message
	default:
		msg = err.Error()
	}

	if code >= http.StatusInternalServerError {
		logger.Error(fallbackMsg, slog.String("error", err.Error()), slog.String("error_kind", string(kind)))
	} else {
		logger.Warn(fallbackMsg, slog.String("error", err.Error()), slog.String("error_kind", string(kind)))
	}

	c.JSON(code, dto.ErrorResponse{
		ErrorKind:      string(kind),
		Message:        msg,
		Status:         string(status),
		OutcomeUnknown: apperrors.IsOutcomeUnknown(err),
		RequestID:      middleware.GetRequestIDFromCtx(c.Request.Context()),
	})
}

func respondBadRequest(c *gin.Context, logger *slog.Logger, msg string, err error) {
	if err != nil {
		logger.Warn(msg, slog.String("error", err.Error()))
		msg = msg + ": " + err.Error()
	} else {
		logger.Warn(msg)
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		ErrorKind: string(apperrors.KindInvalidInput),
		Message:   msg,
		Status:    string(apperrors.StatusBadInput),
		RequestID: middleware.GetRequestIDFromCtx(c.Request.Context()),
	})
}
