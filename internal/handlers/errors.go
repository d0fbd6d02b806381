package handlers

import (
	"context"
	"errors"
	"net/http"

	"justdo/internal/dto"
	"justdo/internal/service"
	"justdo/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	codeDBConn         = "e_db_conn"
	codeInvalidData    = "e_invalid_data"
	codeObjectNotFound = "e_object_not_found"
	codeCancelled      = "e_cancelled"
	codeUnknown        = "e_unknown"
)

// StatusClientClosedRequest is reported when the caller went away mid-request.
const StatusClientClosedRequest = 499

func abortWith(c *gin.Context, status int, errs ...dto.ErrorResponse) {
	c.AbortWithStatusJSON(status, dto.ErrorsResponse{Errors: errs})
}

func badRequest(c *gin.Context, errs ...dto.ErrorResponse) {
	abortWith(c, http.StatusBadRequest, errs...)
}

// fail maps a service error to a response. Store and unexpected errors are
// logged and reported without detail.
func fail(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		abortWith(c, http.StatusNotFound, dto.ErrorResponse{Error: codeObjectNotFound, Message: "Cannot find todo with ID [" + c.Param("id") + "]"})
	case errors.Is(err, service.ErrEmptyName):
		badRequest(c, invalidData("name", err.Error()))
	case errors.Is(err, context.Canceled):
		log.Info("request cancelled", zap.String("path", c.FullPath()))
		abortWith(c, StatusClientClosedRequest, dto.ErrorResponse{Error: codeCancelled, Message: "Request cancelled"})
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("request deadline exceeded", zap.String("path", c.FullPath()))
		abortWith(c, http.StatusGatewayTimeout, dto.ErrorResponse{Error: codeCancelled, Message: "Request timed out"})
	case utils.IsDBError(err):
		log.Error("db error", zap.String("path", c.FullPath()), zap.Error(err))
		abortWith(c, http.StatusInternalServerError, dto.ErrorResponse{Error: codeDBConn, Message: "DB Error"})
	default:
		log.Error("unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
		abortWith(c, http.StatusInternalServerError, dto.ErrorResponse{Error: codeUnknown, Message: "Unexpected error"})
	}
}
