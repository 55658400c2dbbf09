package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/locallibrary/internal/entities"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// AuditEventsResponse is the JSON form of the change history.
type AuditEventsResponse struct {
	Events  []entities.AuditEvent `json:"events"`
	Total   int64                 `json:"total"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
	HasMore bool                  `json:"has_more"`
}

type AuditController struct {
	Deps
	events AuditReader
}

func NewAuditController(events AuditReader, deps Deps) *AuditController {
	return &AuditController{Deps: deps, events: events}
}

// List renders the most recent catalog changes, newest first. Requests
// accepting JSON get AuditEventsResponse.
// GET /catalog/audit?kind=book&limit=50&offset=0
func (ac *AuditController) List(c *gin.Context) {
	kind := auditKind(c.Query("kind"))
	limit := queryInt(c, "limit", defaultAuditLimit)
	if limit <= 0 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	events, total, err := ac.events.GetEvents(c.Request.Context(), kind, limit, offset)
	if err != nil {
		ac.fail(c, err, "")
		return
	}

	next := offset + len(events)
	hasMore := int64(next) < total

	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, AuditEventsResponse{
			Events:  events,
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
		})
		return
	}

	page := AuditPage{
		Page:   ac.page(c, "Change History"),
		Events: events,
		Total:  total,
		Kind:   kind,
		Limit:  limit,
		Offset: offset,
	}
	if hasMore {
		page.Next = next
	}
	c.HTML(http.StatusOK, "audit_list", page)
}

// auditKind accepts only known entity kinds; anything else means all kinds.
func auditKind(raw string) entities.Kind {
	switch kind := entities.Kind(raw); kind {
	case entities.KindAuthor, entities.KindGenre, entities.KindBook, entities.KindBookInstance:
		return kind
	default:
		return ""
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
