package client

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/dealdesk/internal/resilience"
	"github.com/MrJamesThe3rd/dealdesk/internal/sideeffect"
)

// Settings locates the audit and activity collaborators. An empty URL sends
// that collaborator's entries to the log instead. A positive FlushTimeout
// delivers in the background, off the request path.
type Settings struct {
	AuditURL     string
	ActivityURL  string
	Token        string
	Timeout      time.Duration
	Retry        resilience.Config
	FlushTimeout time.Duration
}

// NewDispatcher builds a dispatcher over HTTP clients for the configured
// collaborators, each behind its own circuit breaker.
func NewDispatcher(s Settings, failures sideeffect.FailureRecorder, logger *zap.Logger) *sideeffect.Dispatcher {
	var (
		sink       = NewLogSink(logger)
		httpClient = &http.Client{Timeout: s.Timeout}
	)

	var audit sideeffect.AuditLogger = sink
	if s.AuditURL != "" {
		audit = NewAuditClient(httpClient, s.AuditURL, s.Token, resilience.NewCircuitBreaker("audit"), s.Retry)
	}

	var feed sideeffect.ActivityFeed = sink
	if s.ActivityURL != "" {
		feed = NewActivityClient(httpClient, s.ActivityURL, s.Token, resilience.NewCircuitBreaker("activity"), s.Retry)
	}

	var opts []sideeffect.Option
	if s.FlushTimeout > 0 {
		opts = append(opts, sideeffect.InBackground(s.FlushTimeout))
	}

	return sideeffect.NewDispatcher(audit, feed, failures, logger, opts...)
}
