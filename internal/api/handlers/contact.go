package handlers

import (
	"net/http"

	"github.com/osa911/formrelay/internal/api/constants"
	"github.com/osa911/formrelay/internal/api/dto/common"
	"github.com/osa911/formrelay/internal/api/middleware"
	"github.com/osa911/formrelay/internal/metrics"
	"github.com/osa911/formrelay/internal/service"
	"github.com/osa911/formrelay/internal/tenant"
	"github.com/osa911/formrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

// Notifier fans an accepted submission out to its destinations
type Notifier interface {
	Notify(n service.Notification) int
}

type ContactHandler struct {
	notifier Notifier
	metrics  *metrics.Metrics
}

func NewContactHandler(notifier Notifier, m *metrics.Metrics) *ContactHandler {
	return &ContactHandler{
		notifier: notifier,
		metrics:  m,
	}
}

// Submit accepts a validated submission. The response is written and
// flushed before any notification is scheduled.
func (h *ContactHandler) Submit(c *gin.Context) {
	// Set by the tenant and validation middleware
	app, ok := middleware.GetApp(c)
	if !ok {
		utils.HandleAPIError(c, nil, http.StatusInternalServerError, common.ErrCodeInternalServer, "App not found in context")
		return
	}
	req, ok := middleware.GetContactRequest(c)
	if !ok {
		utils.HandleAPIError(c, nil, http.StatusInternalServerError, common.ErrCodeInternalServer, "Contact data not found in context")
		return
	}

	notification := service.Notification{
		App:        app,
		Submission: req.ToSubmission(),
		Locale:     middleware.GetLocale(c),
		Domain:     tenant.Hostname(c.Request.Host),
		RequestID:  c.GetString(constants.ContextKeyRequestID),
	}

	h.metrics.ObserveSubmission(app.ID, metrics.OutcomeAccepted)
	utils.HandleAccepted(c)

	h.notifier.Notify(notification)
}
