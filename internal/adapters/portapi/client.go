package portapi

import (
	"bytes"
	"context"
	"dock-rebalance-service/internal/api/dto"
	"dock-rebalance-service/internal/domain"
	"dock-rebalance-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the planning service over its HTTP contract. It implements
// ports.DockUpdater and ports.ReassignmentLogStore so the apply workflow can
// run on the officer's side, and is safe for concurrent use.
type Client struct {
	session     *http.Client
	baseURL     string
	token       string
	maxAttempts int
	backoff     time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.session = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithRetry sets the attempt count and initial backoff for idempotent calls.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if backoff > 0 {
			c.backoff = backoff
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("port api base url is empty")
	}

	c := &Client{
		session:     &http.Client{Timeout: 10 * time.Second},
		baseURL:     baseURL,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Plan fetches the day's plan and its fingerprint (ETag).
func (c *Client) Plan(ctx context.Context, day string) (_ domain.RebalancePlan, fingerprint string, err error) {
	defer obs.Time(ctx, "portapi.Plan")(&err)

	path := "/api/rebalance/docks/plan?day=" + url.QueryEscape(day)
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, path, nil)
	})
	if err != nil {
		return domain.RebalancePlan{}, "", fmt.Errorf("get plan day=%s: %w", day, classify(err))
	}
	defer resp.Body.Close()

	var body dto.PlanResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.RebalancePlan{}, "", fmt.Errorf("get plan: decode response: %w", err)
	}

	return body.Plan(), strings.Trim(resp.Header.Get("ETag"), `"`), nil
}

func (c *Client) UpdateDock(ctx context.Context, vvnID string, dock string) (err error) {
	defer obs.Time(ctx, "portapi.UpdateDock")(&err)

	payload, err := json.Marshal(dto.UpdateDockRequest{Dock: dock})
	if err != nil {
		return fmt.Errorf("update dock: marshal: %w", err)
	}

	path := "/api/vessel-visit-notifications/" + url.PathEscape(vvnID) + "/dock"
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPatch, path, bytes.NewReader(payload))
	})
	if err != nil {
		return fmt.Errorf("update dock vvn_id=%s: %w", vvnID, classify(err))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return nil
}

// Append posts one audit record. It is not retried: a lost response would
// otherwise duplicate the record.
func (c *Client) Append(ctx context.Context, entry domain.DockReassignmentLog) (_ domain.DockReassignmentLog, err error) {
	defer obs.Time(ctx, "portapi.Append")(&err)

	payload, err := json.Marshal(dto.NewReassignmentLogDTO(entry))
	if err != nil {
		return domain.DockReassignmentLog{}, fmt.Errorf("append log: marshal: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/dock-reassignment-log", bytes.NewReader(payload))
	if err != nil {
		return domain.DockReassignmentLog{}, fmt.Errorf("append log: %w", err)
	}
	resp, err := c.do(req)
	if err != nil {
		return domain.DockReassignmentLog{}, fmt.Errorf("append log vvn_id=%s: %w", entry.VvnID, classify(err))
	}
	defer resp.Body.Close()

	var stored dto.DockReassignmentLogDTO
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return domain.DockReassignmentLog{}, fmt.Errorf("append log: decode response: %w", err)
	}

	return stored.Log(), nil
}

func (c *Client) ListAll(ctx context.Context) (_ []domain.DockReassignmentLog, err error) {
	defer obs.Time(ctx, "portapi.ListAll")(&err)

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, "/api/dock-reassignment-log", nil)
	})
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", classify(err))
	}
	defer resp.Body.Close()

	var body []dto.DockReassignmentLogDTO
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("list logs: decode response: %w", err)
	}

	out := make([]domain.DockReassignmentLog, 0, len(body))
	for _, d := range body {
		out = append(out, d.Log())
	}
	return out, nil
}

// ApplyOnServer asks the service to apply the entries itself. A non-empty
// fingerprint is sent as If-Match; ports.ErrStalePlan reports a mismatch.
func (c *Client) ApplyOnServer(
	ctx context.Context,
	day string,
	officerID string,
	entries []domain.RebalanceResultEntry,
	fingerprint string,
) (_ domain.ApplyOutcome, err error) {
	defer obs.Time(ctx, "portapi.ApplyOnServer")(&err)

	payload, err := json.Marshal(dto.ApplyRequest{
		Day:       day,
		OfficerID: officerID,
		Entries:   dto.NewApplyEntries(entries),
	})
	if err != nil {
		return domain.ApplyOutcome{}, fmt.Errorf("apply on server: marshal: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/rebalance/docks/apply", bytes.NewReader(payload))
	if err != nil {
		return domain.ApplyOutcome{}, fmt.Errorf("apply on server: %w", err)
	}
	if fingerprint != "" {
		req.Header.Set("If-Match", `"`+fingerprint+`"`)
	}

	resp, err := c.do(req)
	if err != nil {
		return domain.ApplyOutcome{}, fmt.Errorf("apply on server day=%s: %w", day, classify(err))
	}
	defer resp.Body.Close()

	var body dto.ApplyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.ApplyOutcome{}, fmt.Errorf("apply on server: decode response: %w", err)
	}

	return body.Outcome(), nil
}
