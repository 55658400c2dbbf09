package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrlokans/locallibrary/internal/database/catalog"
	"github.com/mrlokans/locallibrary/internal/entities"
	"github.com/mrlokans/locallibrary/internal/integrity"
)

// NotFoundError is a missing record, reported with a user-facing message.
// It matches catalog.ErrNotFound under errors.Is.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func (e *NotFoundError) Is(target error) bool {
	return target == catalog.ErrNotFound
}

// ConflictError is a delete refused because other records still reference
// the target. Controllers render it themselves; it is only logged.
type ConflictError struct {
	Kind       entities.Kind
	ID         string
	Dependents integrity.Dependents
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s is referenced by %d records", e.Kind, e.ID, e.Dependents.Count())
}

// ErrorHandler renders the generic error page for errors attached to the
// context by a handler that wrote no response. Missing records become 404,
// everything else 500. Error detail is only shown in development.
func ErrorHandler(logger *zap.Logger, development bool) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}
		err := last.Err

		status := http.StatusInternalServerError
		message := "Internal Server Error"

		var nf *NotFoundError
		switch {
		case errors.As(err, &nf):
			status, message = http.StatusNotFound, nf.Message
		case errors.Is(err, catalog.ErrNotFound):
			status, message = http.StatusNotFound, "Not Found"
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		}
		if status == http.StatusNotFound {
			logger.Debug("record not found", fields...)
		} else {
			logger.Error("request failed", fields...)
		}

		page := ErrorPage{
			Page:    Page{Title: message},
			Status:  status,
			Message: message,
		}
		if development {
			page.Detail = fmt.Sprintf("%+v", err)
		}
		c.HTML(status, "error", page)
	}
}

// NoRoute renders the 404 page for unknown paths.
func NoRoute(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error", ErrorPage{
		Page:    Page{Title: "Not Found"},
		Status:  http.StatusNotFound,
		Message: "Not Found",
	})
}
