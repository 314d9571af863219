package domain

import "time"

// NotInCache is the sentinel written into a provider's primary name field
// when a cache-only lookup finds no cached record. Presentation layers key
// off this exact value, so it must not change.
const NotInCache = "NOT IN CACHE"

// CacheRecord is the persisted result of one provider call for one phone
// number. There is at most one record per (provider, phone); writes are
// full overwrites, never merges.
type CacheRecord struct {
	PhoneNumber string
	ClaimedName string
	Fields      map[string]string
	FetchedAt   time.Time // zero when the stored record has no timestamp
}

// CanonicalResult is the flattened outcome of a single lookup. Fields always
// carries the provider's complete key set ("{provider}.{field}") with empty
// strings for absent data, so consumers can treat "no data" and "some data"
// uniformly.
type CanonicalResult struct {
	PhoneNumber string
	ClaimedName string
	Provider    string
	Fields      map[string]string
	FromCache   bool
	CalledAPI   bool
}

// NameFields are the name components a provider exposes for scoring.
// Common is empty for providers that return no display name.
type NameFields struct {
	First  string
	Last   string
	Common string
}

// NameKeys are the flat-map keys under which a provider stores its name
// fields. Common is empty when the provider has no display-name field.
type NameKeys struct {
	First  string
	Last   string
	Common string
}
