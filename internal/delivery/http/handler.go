// Package http exposes the lookup pipeline and scoring engine over a REST
// API.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/catsec/phoneinfo/internal/domain"
	"github.com/catsec/phoneinfo/internal/infrastructure/providers"
	"github.com/catsec/phoneinfo/internal/infrastructure/store"
	"github.com/catsec/phoneinfo/internal/usecase"
)

// Handler wires the HTTP endpoints to the lookup and scoring services.
type Handler struct {
	registry  *providers.Registry
	lookup    *usecase.LookupService
	engine    *usecase.ScoreEngine
	nicknames *store.NicknameStore
	opts      usecase.LookupOptions
	logger    *slog.Logger
}

func NewHandler(registry *providers.Registry, lookup *usecase.LookupService, engine *usecase.ScoreEngine, nicknames *store.NicknameStore, opts usecase.LookupOptions, logger *slog.Logger) *Handler {
	return &Handler{
		registry:  registry,
		lookup:    lookup,
		engine:    engine,
		nicknames: nicknames,
		opts:      opts,
		logger:    logger.With("component", "http"),
	}
}

type lookupRequest struct {
	PhoneNumber string   `json:"phone_number" binding:"required"`
	ClaimedName string   `json:"claimed_name"`
	Providers   []string `json:"providers"`
	CacheOnly   bool     `json:"cache_only"`
	NoCache     bool     `json:"no_cache"`
}

type lookupResponse struct {
	PhoneNumber string                   `json:"phone_number"`
	ClaimedName string                   `json:"claimed_name"`
	Fields      map[string]string        `json:"fields"`
	Score       *domain.MultiScoreResult `json:"score,omitempty"`
}

// Lookup resolves one phone number through the requested providers,
// annotates each result with match scores and merges the flat fields. A
// provider API failure does not abort the request: that provider's primary
// name field carries an ERROR marker instead.
func (h *Handler) Lookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	phone, err := domain.NormalizePhone(req.PhoneNumber)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	selected, err := h.selectProviders(req.Providers)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := h.opts
	opts.CacheOnly = req.CacheOnly
	if req.NoCache {
		opts.UseCache = false
	}

	merged := make(map[string]string)
	var scorable []*domain.CanonicalResult
	for _, p := range selected {
		res, err := h.lookup.Lookup(c.Request.Context(), p, phone, req.ClaimedName, opts)
		if err != nil {
			var apiErr *domain.APIError
			if errors.As(err, &apiErr) {
				h.logger.Warn("provider call failed", "provider", p.ID(), "error", err)
				fields := p.Flatten(nil)
				fields[p.PrimaryNameKey()] = "ERROR: " + apiErr.Error()
				fields[p.ID()+".source"] = "error"
				for k, v := range fields {
					merged[k] = v
				}
				continue
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		h.engine.Annotate(c.Request.Context(), p, res)
		res.Fields[p.ID()+".source"] = sourceOf(res)
		for k, v := range res.Fields {
			merged[k] = v
		}
		if res.Fields[p.PrimaryNameKey()] != domain.NotInCache {
			scorable = append(scorable, res)
		}
	}

	resp := lookupResponse{
		PhoneNumber: phone,
		ClaimedName: req.ClaimedName,
		Fields:      merged,
	}
	if req.ClaimedName != "" && len(scorable) > 0 {
		multi := h.engine.ScoreAll(c.Request.Context(), req.ClaimedName, scorable)
		resp.Score = &multi
	}
	c.JSON(http.StatusOK, resp)
}

type scoreRequest struct {
	ClaimedName string `json:"claimed_name" binding:"required"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CommonName  string `json:"common_name"`
	Source      string `json:"source"`
}

// Score runs the match engine directly on caller-supplied name fields,
// without any provider call.
func (h *Handler) Score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	source := req.Source
	if source == "" {
		source = "manual"
	}
	result := h.engine.Score(c.Request.Context(), req.ClaimedName, req.FirstName, req.LastName, req.CommonName, source)
	c.JSON(http.StatusOK, result)
}

// ListNicknames returns every stored equivalence class.
func (h *Handler) ListNicknames(c *gin.Context) {
	entries, err := h.nicknames.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []store.NicknameEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"nicknames": entries})
}

type nicknameRequest struct {
	FormalName string `json:"formal_name" binding:"required"`
	AllNames   string `json:"all_names" binding:"required"`
}

// AddNickname stores a new equivalence class.
func (h *Handler) AddNickname(c *gin.Context) {
	var req nicknameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	id, err := h.nicknames.Add(c.Request.Context(), req.FormalName, req.AllNames)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// DeleteNickname removes an equivalence class by id.
func (h *Handler) DeleteNickname(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid nickname id"})
		return
	}
	if err := h.nicknames.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// Health reports service liveness and the configured providers.
func (h *Handler) Health(c *gin.Context) {
	var configured []string
	for _, p := range h.registry.Configured() {
		configured = append(configured, p.ID())
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"providers": configured,
	})
}

// selectProviders resolves the requested provider ids, defaulting to every
// configured provider when none are named. An unconfigured provider is
// never called: naming one explicitly skips it rather than failing the
// request.
func (h *Handler) selectProviders(ids []string) ([]domain.Provider, error) {
	if len(ids) == 0 {
		return h.registry.Configured(), nil
	}
	out := make([]domain.Provider, 0, len(ids))
	for _, id := range ids {
		p, err := h.registry.Get(id)
		if err != nil {
			return nil, err
		}
		if !p.Configured() {
			h.logger.Warn("skipping unconfigured provider", "provider", p.ID())
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func sourceOf(res *domain.CanonicalResult) string {
	if res.CalledAPI {
		return "api"
	}
	return "cache"
}
