package http

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrlokans/locallibrary/internal/audit"
	"github.com/mrlokans/locallibrary/internal/database/catalog"
	"github.com/mrlokans/locallibrary/internal/entities"
	"github.com/mrlokans/locallibrary/internal/integrity"
	"github.com/mrlokans/locallibrary/internal/middleware"
)

// Deps are the collaborators shared by every catalog controller.
// Any of them may be nil.
type Deps struct {
	Audit    AuditLogger
	Sessions *middleware.SessionManager
	Metrics  *middleware.Metrics
	Logger   *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// page builds the fields every view reads. Rendering a page consumes the
// pending flash message.
func (d Deps) page(c *gin.Context, title string) Page {
	return Page{
		Title:     title,
		CSRFToken: middleware.CSRFToken(c),
		Flash:     d.Sessions.PopFlash(c.Request),
	}
}

func (d Deps) flash(c *gin.Context, message string) {
	d.Sessions.Flash(c.Request, message)
}

// fail hands err to ErrorHandler. A missing record is reported with
// notFound as its message.
func (d Deps) fail(c *gin.Context, err error, notFound string) {
	if errors.Is(err, catalog.ErrNotFound) {
		err = &NotFoundError{Message: notFound}
	}
	_ = c.Error(err)
	c.Abort()
}

var outcomes = map[entities.AuditEventType]string{
	entities.AuditEventCreate: "created",
	entities.AuditEventUpdate: "updated",
	entities.AuditEventDelete: "deleted",
}

// record audits a persisted (or failed) mutation and counts it.
func (d Deps) record(c *gin.Context, m audit.Mutation) {
	m.ClientIP = c.ClientIP()
	if d.Audit != nil {
		d.Audit.LogMutation(m)
	}

	outcome := outcomes[m.Type]
	if m.Err != nil {
		outcome = "failed"
	}
	d.Metrics.Mutation(string(m.Kind), string(m.Type), outcome)
}

// invalid counts a submission rejected by validation.
func (d Deps) invalid(kind entities.Kind, op entities.AuditEventType) {
	d.Metrics.Mutation(string(kind), string(op), "invalid")
}

// conflict logs and counts a delete refused by the integrity guard.
func (d Deps) conflict(kind entities.Kind, id string, deps integrity.Dependents) {
	err := &ConflictError{Kind: kind, ID: id, Dependents: deps}
	d.logger().Info("delete refused", zap.Error(err))
	d.Metrics.Mutation(string(kind), string(entities.AuditEventDelete), "conflict")
}

// formValues returns the submitted form body. A malformed body yields
// whatever could be parsed, as gin's PostForm does.
func formValues(c *gin.Context) url.Values {
	_ = c.Request.ParseForm()
	return c.Request.PostForm
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// checkedGenres marks the submitted or stored genre ids for the form.
func checkedGenres(ids []string) map[string]bool {
	checked := make(map[string]bool, len(ids))
	for _, id := range ids {
		checked[id] = true
	}
	return checked
}
