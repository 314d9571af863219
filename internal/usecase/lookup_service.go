// Package usecase implements the lookup pipeline and the name-match scoring
// engine on top of the domain interfaces.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/catsec/phoneinfo/internal/domain"
)

// LookupOptions control the cache-or-call decision for one lookup.
type LookupOptions struct {
	// RefreshDays is the cache freshness window in whole days. Zero treats
	// every cached record as stale.
	RefreshDays int

	// CacheOnly suppresses API calls entirely. A cache miss then yields the
	// NOT IN CACHE sentinel instead of data.
	CacheOnly bool

	// UseCache enables reading from and writing to the cache. When false
	// every lookup hits the API and nothing is persisted.
	UseCache bool
}

// LookupService resolves a phone number through one provider, consulting the
// cache first and calling the API only when the cached record is missing or
// stale.
type LookupService struct {
	cache  domain.CacheStore
	logger *slog.Logger
	now    func() time.Time
}

func NewLookupService(cache domain.CacheStore, logger *slog.Logger) *LookupService {
	return &LookupService{
		cache:  cache,
		logger: logger.With("component", "lookup"),
		now:    time.Now,
	}
}

// Lookup runs the cache-or-call pipeline for one provider. The phone number
// must already be in canonical international format.
//
// A fresh cached record is returned as-is, except that a changed claimed
// name is written through without touching the fetch timestamp. A stale or
// missing record triggers an API call whose flattened result replaces the
// cached one. ErrNotFound from the provider is absorbed: the empty flattened
// shape is cached and returned so the miss is not re-queried.
func (s *LookupService) Lookup(ctx context.Context, p domain.Provider, phone, claimedName string, opts LookupOptions) (*domain.CanonicalResult, error) {
	if opts.UseCache {
		rec, err := s.cache.Get(ctx, p.ID(), phone)
		switch {
		case err == nil:
			if s.fresh(rec, opts) {
				if claimedName != "" && claimedName != rec.ClaimedName {
					if err := s.cache.UpdateClaimedName(ctx, p.ID(), phone, claimedName); err != nil {
						return nil, fmt.Errorf("updating claimed name: %w", err)
					}
					rec.ClaimedName = claimedName
				}
				s.logger.Debug("cache hit", "provider", p.ID(), "phone", phone)
				return &domain.CanonicalResult{
					PhoneNumber: phone,
					ClaimedName: rec.ClaimedName,
					Provider:    p.ID(),
					Fields:      rec.Fields,
					FromCache:   true,
				}, nil
			}
			s.logger.Debug("cache stale", "provider", p.ID(), "phone", phone)
		case errors.Is(err, domain.ErrCacheMiss):
			// fall through to the API path
		default:
			return nil, fmt.Errorf("reading cache: %w", err)
		}
	}

	if opts.CacheOnly {
		fields := p.Flatten(nil)
		fields[p.PrimaryNameKey()] = domain.NotInCache
		return &domain.CanonicalResult{
			PhoneNumber: phone,
			ClaimedName: claimedName,
			Provider:    p.ID(),
			Fields:      fields,
		}, nil
	}

	return s.callAndCache(ctx, p, phone, claimedName, opts)
}

func (s *LookupService) callAndCache(ctx context.Context, p domain.Provider, phone, claimedName string, opts LookupOptions) (*domain.CanonicalResult, error) {
	callTime := s.now()

	raw, err := p.Call(ctx, phone)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Info("no record at provider", "provider", p.ID(), "phone", phone)
		raw = nil
	}

	fields := p.Flatten(raw)
	fields[p.ID()+".api_call_time"] = callTime.Format(time.RFC3339)

	if opts.UseCache {
		rec := domain.CacheRecord{
			PhoneNumber: phone,
			ClaimedName: claimedName,
			Fields:      fields,
			FetchedAt:   callTime,
		}
		if err := s.cache.Put(ctx, p.ID(), rec); err != nil {
			return nil, fmt.Errorf("writing cache: %w", err)
		}
	}

	s.logger.Info("api call completed", "provider", p.ID(), "phone", phone)
	return &domain.CanonicalResult{
		PhoneNumber: phone,
		ClaimedName: claimedName,
		Provider:    p.ID(),
		Fields:      fields,
		CalledAPI:   true,
	}, nil
}

// fresh reports whether a cached record is still inside the freshness
// window. Age is elapsed whole days, so a record fetched late yesterday is
// still day zero this morning. Cache-only mode treats every record as
// fresh. A zero refresh window or a record without a timestamp is always
// stale.
func (s *LookupService) fresh(rec *domain.CacheRecord, opts LookupOptions) bool {
	if opts.CacheOnly {
		return true
	}
	if opts.RefreshDays == 0 {
		return false
	}
	if rec.FetchedAt.IsZero() {
		return false
	}
	ageDays := int(s.now().Sub(rec.FetchedAt).Hours() / 24)
	return ageDays < opts.RefreshDays
}
