package domain

import (
	"context"
	"encoding/json"
)

// Provider is one external identity-lookup source. Implementations own the
// request/response shape of their API and the canonical key set of their
// flattened results.
type Provider interface {
	// ID is the short identifier used as the flat-key prefix and cache
	// table owner (e.g. "me", "sync").
	ID() string

	// DisplayName is the human-facing name used in audit output.
	DisplayName() string

	// Configured reports whether credentials are present. An unconfigured
	// provider must never be called.
	Configured() bool

	// Call performs one API call for a phone number in canonical
	// international format. Returns ErrNotFound when the remote service has
	// no record, or an *APIError for any other non-success response.
	Call(ctx context.Context, phone string) (json.RawMessage, error)

	// Flatten converts a raw API response into the provider's full
	// canonical key set. It is total: given nil or malformed input it still
	// returns every key with empty-string values.
	Flatten(raw json.RawMessage) map[string]string

	// PrimaryNameKey is the flat key checked for error/not-in-cache
	// sentinels.
	PrimaryNameKey() string

	// NameKeys reports where the provider's name fields live in the flat
	// map.
	NameKeys() NameKeys
}

// CacheStore persists one CacheRecord per (provider, phone) with
// last-write-wins upsert semantics.
type CacheStore interface {
	Get(ctx context.Context, provider, phone string) (*CacheRecord, error)
	Put(ctx context.Context, provider string, rec CacheRecord) error
	// UpdateClaimedName rewrites only the stored claimed name, preserving
	// the record's fetch timestamp.
	UpdateClaimedName(ctx context.Context, provider, phone, claimedName string) error
}

// NicknameStore expands a name into its equivalence class. Expand always
// includes the queried name itself, even when nothing is stored for it.
type NicknameStore interface {
	Expand(ctx context.Context, name string) ([]string, error)
}
