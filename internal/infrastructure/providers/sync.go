package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/catsec/phoneinfo/internal/domain"
	"golang.org/x/time/rate"
)

// syncKeys is the full canonical key set of the SYNC provider.
var syncKeys = []string{
	"sync.name", "sync.first_name", "sync.last_name",
	"sync.is_potential_spam", "sync.is_business", "sync.job_hint",
	"sync.company_hint", "sync.website_domain", "sync.company_domain",
	"sync.api_call_time",
}

// syncResponse is the wire shape of a SYNC lookup response. The interesting
// payload lives under results.
type syncResponse struct {
	Results struct {
		Name            flexString `json:"name"`
		IsPotentialSpam flexString `json:"is_potential_spam"`
		IsBusiness      flexString `json:"is_business"`
		JobHint         flexString `json:"job_hint"`
		CompanyHint     flexString `json:"company_hint"`
		WebsiteDomain   flexString `json:"website_domain"`
		CompanyDomain   flexString `json:"company_domain"`
	} `json:"results"`
}

// SyncClient is the caller-ID style lookup source. It returns a single
// display name plus spam/business hints.
type SyncClient struct {
	httpClient *http.Client
	apiURL     string
	token      string
	limiter    *rate.Limiter
}

func NewSyncClient(apiURL, token string) *SyncClient {
	return &SyncClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     apiURL,
		token:      token,
		limiter:    rate.NewLimiter(rate.Limit(5), 10),
	}
}

func (c *SyncClient) ID() string          { return "sync" }
func (c *SyncClient) DisplayName() string { return "SYNC" }

func (c *SyncClient) Configured() bool {
	return c.apiURL != "" && c.token != ""
}

// Call performs one SYNC lookup. The service reports "no such record" as
// 404, invalid input as 400 and quota exhaustion as 403.
func (c *SyncClient) Call(ctx context.Context, phone string) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, domain.ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := json.Marshal(map[string]string{
		"access_token": c.token,
		"phone_number": phone,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding SYNC request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating SYNC request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling SYNC API: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading SYNC response: %w", err)
		}
		return body, nil
	case http.StatusNotFound:
		return nil, domain.ErrNotFound
	case http.StatusBadRequest:
		return nil, &domain.APIError{
			Provider: c.DisplayName(),
			Status:   resp.StatusCode,
			Reason:   "invalid input",
		}
	case http.StatusForbidden:
		return nil, &domain.APIError{
			Provider: c.DisplayName(),
			Status:   resp.StatusCode,
			Reason:   "rate limit exceeded",
		}
	default:
		return nil, &domain.APIError{
			Provider: c.DisplayName(),
			Status:   resp.StatusCode,
			Reason:   fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}
}

// Flatten converts a raw SYNC response into the canonical key set. The
// combined name splits into first name and remainder.
func (c *SyncClient) Flatten(raw json.RawMessage) map[string]string {
	var r syncResponse
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &r)
	}

	first, last := splitDisplayName(r.Results.Name.String())
	return map[string]string{
		"sync.name":              r.Results.Name.String(),
		"sync.first_name":        first,
		"sync.last_name":         last,
		"sync.is_potential_spam": r.Results.IsPotentialSpam.String(),
		"sync.is_business":       r.Results.IsBusiness.String(),
		"sync.job_hint":          r.Results.JobHint.String(),
		"sync.company_hint":      r.Results.CompanyHint.String(),
		"sync.website_domain":    r.Results.WebsiteDomain.String(),
		"sync.company_domain":    r.Results.CompanyDomain.String(),
		"sync.api_call_time":     "",
	}
}

// splitDisplayName splits a combined display name into the first word and
// everything after it.
func splitDisplayName(name string) (first, last string) {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "", ""
	}
	if len(words) == 1 {
		return words[0], ""
	}
	return words[0], strings.Join(words[1:], " ")
}

func (c *SyncClient) PrimaryNameKey() string {
	return "sync.first_name"
}

func (c *SyncClient) NameKeys() domain.NameKeys {
	return domain.NameKeys{
		First: "sync.first_name",
		Last:  "sync.last_name",
	}
}
