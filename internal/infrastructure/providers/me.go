// Package providers implements the external identity-lookup sources and the
// registry that holds them. Each provider owns its API call, its response
// flattening and its canonical key set.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/catsec/phoneinfo/internal/domain"
	"golang.org/x/time/rate"
)

// meKeys is the full canonical key set of the ME provider. Flatten always
// returns every one of these.
var meKeys = []string{
	"me.common_name", "me.profile_name", "me.result_strength",
	"me.profile_picture", "me.first_name", "me.last_name", "me.email",
	"me.email_confirmed", "me.gender", "me.is_verified", "me.slogan",
	"me.social.facebook", "me.social.twitter", "me.social.spotify",
	"me.social.instagram", "me.social.linkedin", "me.social.pinterest",
	"me.social.tiktok", "me.whitelist", "me.api_call_time",
}

// meResponse is the wire shape of an ME lookup response.
type meResponse struct {
	CommonName     flexString `json:"common_name"`
	ProfileName    flexString `json:"me_profile_name"`
	ResultStrength flexString `json:"result_strength"`
	Whitelist      flexString `json:"whitelist"`
	User           struct {
		ProfilePicture flexString `json:"profile_picture"`
		FirstName      flexString `json:"first_name"`
		LastName       flexString `json:"last_name"`
		Email          flexString `json:"email"`
		EmailConfirmed flexString `json:"email_confirmed"`
		Gender         flexString `json:"gender"`
		IsVerified     flexString `json:"is_verified"`
		Slogan         flexString `json:"slogan"`
		SocialProfiles struct {
			Facebook  flexString `json:"facebook"`
			Twitter   flexString `json:"twitter"`
			Spotify   flexString `json:"spotify"`
			Instagram flexString `json:"instagram"`
			LinkedIn  flexString `json:"linkedin"`
			Pinterest flexString `json:"pinterest"`
			TikTok    flexString `json:"tiktok"`
		} `json:"social_profiles"`
	} `json:"user"`
}

// MEClient is the profile-rich lookup source: it returns the owner's name
// plus social/profile metadata.
type MEClient struct {
	httpClient *http.Client
	apiURL     string
	sid        string
	token      string
	limiter    *rate.Limiter
}

// NewMEClient creates an ME provider. Empty credentials leave the provider
// unconfigured; it is then registered but skipped by callers.
func NewMEClient(apiURL, sid, token string) *MEClient {
	return &MEClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     apiURL,
		sid:        sid,
		token:      token,
		limiter:    rate.NewLimiter(rate.Limit(5), 10),
	}
}

func (c *MEClient) ID() string          { return "me" }
func (c *MEClient) DisplayName() string { return "ME" }

func (c *MEClient) Configured() bool {
	return c.apiURL != "" && c.sid != "" && c.token != ""
}

// Call performs one ME lookup. A 404 from the service means "no such
// record" and maps to ErrNotFound; every other non-200 status is an
// APIError.
func (c *MEClient) Call(ctx context.Context, phone string) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, domain.ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("phone_number", phone)
	params.Set("sid", c.sid)
	params.Set("token", c.token)
	reqURL := fmt.Sprintf("%s?%s", c.apiURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating ME request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ME API: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading ME response: %w", err)
		}
		return body, nil
	case http.StatusNotFound:
		return nil, domain.ErrNotFound
	default:
		return nil, &domain.APIError{
			Provider: c.DisplayName(),
			Status:   resp.StatusCode,
			Reason:   fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}
}

// Flatten converts a raw ME response into the full canonical key set.
// Nil or malformed input yields every key with an empty value.
func (c *MEClient) Flatten(raw json.RawMessage) map[string]string {
	var r meResponse
	if len(raw) > 0 {
		// Decoding failures fall through to the zero value: absent data and
		// bad data flatten identically.
		_ = json.Unmarshal(raw, &r)
	}

	fields := map[string]string{
		"me.common_name":      r.CommonName.String(),
		"me.profile_name":     r.ProfileName.String(),
		"me.result_strength":  r.ResultStrength.String(),
		"me.profile_picture":  r.User.ProfilePicture.String(),
		"me.first_name":       r.User.FirstName.String(),
		"me.last_name":        r.User.LastName.String(),
		"me.email":            r.User.Email.String(),
		"me.email_confirmed":  r.User.EmailConfirmed.String(),
		"me.gender":           r.User.Gender.String(),
		"me.is_verified":      r.User.IsVerified.String(),
		"me.slogan":           r.User.Slogan.String(),
		"me.social.facebook":  r.User.SocialProfiles.Facebook.String(),
		"me.social.twitter":   r.User.SocialProfiles.Twitter.String(),
		"me.social.spotify":   r.User.SocialProfiles.Spotify.String(),
		"me.social.instagram": r.User.SocialProfiles.Instagram.String(),
		"me.social.linkedin":  r.User.SocialProfiles.LinkedIn.String(),
		"me.social.pinterest": r.User.SocialProfiles.Pinterest.String(),
		"me.social.tiktok":    r.User.SocialProfiles.TikTok.String(),
		"me.whitelist":        r.Whitelist.String(),
		"me.api_call_time":    "",
	}
	return fields
}

func (c *MEClient) PrimaryNameKey() string {
	return "me.common_name"
}

func (c *MEClient) NameKeys() domain.NameKeys {
	return domain.NameKeys{
		First:  "me.first_name",
		Last:   "me.last_name",
		Common: "me.common_name",
	}
}
