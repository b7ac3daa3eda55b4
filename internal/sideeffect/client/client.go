// Package client delivers side effects to the audit and activity
// collaborators over HTTP, or to the log when no collaborator is configured.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/MrJamesThe3rd/dealdesk/internal/resilience"
	"github.com/MrJamesThe3rd/dealdesk/internal/sideeffect"
)

var tracer = otel.Tracer("sideeffect/client")

// poster sends JSON documents to a single collaborator endpoint.
type poster struct {
	name       string
	httpClient *http.Client
	url        string
	token      string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

func (p *poster) post(ctx context.Context, doc any) error {
	ctx, span := tracer.Start(ctx, p.name+".post")
	defer span.End()
	span.SetAttributes(attribute.String("collaborator.url", p.url))

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", p.name, err)
	}

	err = resilience.Guard(ctx, p.cb, p.cfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("%w: creating request: %w", resilience.ErrPermanent, err)
		}

		req.Header.Set("Content-Type", "application/json")

		if p.token != "" {
			req.Header.Set("Authorization", "Bearer "+p.token)
		}

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%s returned status %d", p.name, resp.StatusCode)
		case resp.StatusCode >= 400:
			return fmt.Errorf("%w: %s returned status %d", resilience.ErrPermanent, p.name, resp.StatusCode)
		}

		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return fmt.Errorf("posting to %s: %w", p.name, err)
	}

	return nil
}

// AuditClient implements sideeffect.AuditLogger.
type AuditClient struct {
	p *poster
}

func NewAuditClient(httpClient *http.Client, url, token string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *AuditClient {
	return &AuditClient{p: &poster{name: "audit", httpClient: httpClient, url: url, token: token, cb: cb, cfg: cfg}}
}

func (c *AuditClient) Log(ctx context.Context, entry sideeffect.AuditEntry) error {
	return c.p.post(ctx, entry)
}

// ActivityClient implements sideeffect.ActivityFeed.
type ActivityClient struct {
	p *poster
}

func NewActivityClient(httpClient *http.Client, url, token string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *ActivityClient {
	return &ActivityClient{p: &poster{name: "activity", httpClient: httpClient, url: url, token: token, cb: cb, cfg: cfg}}
}

func (c *ActivityClient) Record(ctx context.Context, activity sideeffect.Activity) error {
	return c.p.post(ctx, activity)
}
