package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zillusion/capsule/errors"
	"github.com/zillusion/capsule/logger"
)

// RespondWithError writes err as an ErrorResponse. Unknown errors become 500s.
// Server errors are logged with their cause; client errors are not.
func RespondWithError(c *gin.Context, log *logger.Logger, err error) {
	appErr := errors.Wrap(err)
	if appErr.IsServerError() {
		fields := logger.Fields(logger.FieldStatus, appErr.HTTPStatus, "code", string(appErr.Code))
		for k, v := range appErr.Details {
			fields[k] = v
		}
		log.WithContext(c.Request.Context()).WithError(appErr.Cause).Error(appErr.Message, fields)
	}
	_ = c.Error(appErr)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK writes body as JSON with status 200.
func RespondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// RespondAccepted writes body as JSON with status 202.
func RespondAccepted(c *gin.Context, body any) {
	c.JSON(http.StatusAccepted, body)
}
