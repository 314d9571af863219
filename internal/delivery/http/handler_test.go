package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catsec/phoneinfo/config"
	"github.com/catsec/phoneinfo/internal/infrastructure/providers"
	"github.com/catsec/phoneinfo/internal/infrastructure/store"
	"github.com/catsec/phoneinfo/internal/translit"
	"github.com/catsec/phoneinfo/internal/usecase"
)

func testScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		MatchScores: config.MatchScores{
			Exact:                    100,
			Nickname:                 90,
			TransliterationExact:     95,
			TransliterationFuzzyHigh: 80,
			FuzzyHigh:                75,
			FuzzyMedium:              50,
			FuzzyLow:                 25,
		},
		FuzzyThresholds: config.FuzzyThresholds{High: 85, Medium: 65, Low: 45},
		Weights:         config.Weights{LastName: 0.65, FirstName: 0.35},
		RiskTiers: []config.RiskTier{
			{Min: 85, Label: "HIGH"},
			{Min: 60, Label: "MEDIUM"},
			{Min: 35, Label: "LOW"},
			{Min: 0, Label: "VERY LOW"},
		},
		ExactBothBonus:     5,
		AgreementBonus:     5,
		SurnameMissPenalty: 10,
	}
}

// setupTestRouter builds a full router over a real sqlite store and an ME
// provider pointed at the given stub API.
func setupTestRouter(t *testing.T, meURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	cacheStore := store.NewCacheStore(db)
	require.NoError(t, cacheStore.InitProvider(ctx, "me"))
	require.NoError(t, cacheStore.InitProvider(ctx, "sync"))

	nicknameStore := store.NewNicknameStore(db)
	require.NoError(t, nicknameStore.Init(ctx))

	normalizer := translit.NewNormalizer(map[string]string{
		"david": "דוד",
		"cohen": "כהן",
	})
	engine := usecase.NewScoreEngine(testScoringConfig(), normalizer, nicknameStore)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lookupService := usecase.NewLookupService(cacheStore, logger)

	registry := providers.NewRegistry(
		providers.NewMEClient(meURL, "sid", "token"),
		providers.NewSyncClient("", ""),
	)

	handler := NewHandler(registry, lookupService, engine, nicknameStore, usecase.LookupOptions{
		RefreshDays: 30,
		UseCache:    true,
	}, logger)
	return SetupRouter(handler, []string{"*"}, "test")
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLookupEndpoint(t *testing.T) {
	meAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"common_name": "David Cohen",
			"user": {"first_name": "David", "last_name": "Cohen"}
		}`))
	}))
	defer meAPI.Close()

	router := setupTestRouter(t, meAPI.URL)

	body := map[string]any{
		"phone_number": "050-123-4567",
		"claimed_name": "דוד כהן",
		"providers":    []string{"me"},
	}

	w := doJSON(router, http.MethodPost, "/api/v1/lookup", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		PhoneNumber string            `json:"phone_number"`
		Fields      map[string]string `json:"fields"`
		Score       *struct {
			FinalScore int    `json:"final_score"`
			RiskTier   string `json:"risk_tier"`
			BestSource string `json:"best_source"`
		} `json:"score"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "972501234567", resp.PhoneNumber)
	assert.Equal(t, "David", resp.Fields["me.first_name"])
	assert.Equal(t, "api", resp.Fields["me.source"])
	assert.Equal(t, "100", resp.Fields["me.matching"])
	assert.Equal(t, "HIGH", resp.Fields["me.risk_tier"])
	assert.NotEmpty(t, resp.Fields["me.translated"])
	require.NotNil(t, resp.Score)
	assert.Equal(t, 100, resp.Score.FinalScore)
	assert.Equal(t, "me", resp.Score.BestSource)

	// The second lookup must come from the cache.
	w = doJSON(router, http.MethodPost, "/api/v1/lookup", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cache", resp.Fields["me.source"])
}

func TestLookupEndpointInvalidPhone(t *testing.T) {
	router := setupTestRouter(t, "http://unused.example")

	w := doJSON(router, http.MethodPost, "/api/v1/lookup", map[string]any{
		"phone_number": "not-a-number",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLookupEndpointProviderErrorIsolated(t *testing.T) {
	meAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer meAPI.Close()

	router := setupTestRouter(t, meAPI.URL)

	w := doJSON(router, http.MethodPost, "/api/v1/lookup", map[string]any{
		"phone_number": "0501234567",
		"claimed_name": "דוד כהן",
		"providers":    []string{"me"},
	})
	require.Equal(t, http.StatusOK, w.Code, "a provider failure must not fail the request")

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields["me.common_name"], "ERROR:")
	assert.Equal(t, "error", resp.Fields["me.source"])
}

func TestLookupEndpointUnconfiguredProviderSkipped(t *testing.T) {
	meAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user": {"first_name": "David", "last_name": "Cohen"}}`))
	}))
	defer meAPI.Close()

	// The sync provider has no credentials in the test setup; naming it
	// must skip it, not fail the request.
	router := setupTestRouter(t, meAPI.URL)

	w := doJSON(router, http.MethodPost, "/api/v1/lookup", map[string]any{
		"phone_number": "0501234567",
		"providers":    []string{"me", "sync"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "David", resp.Fields["me.first_name"])
	_, hasSync := resp.Fields["sync.name"]
	assert.False(t, hasSync, "unconfigured provider must contribute no fields")
}

func TestLookupEndpointUnknownProvider(t *testing.T) {
	router := setupTestRouter(t, "http://unused.example")

	w := doJSON(router, http.MethodPost, "/api/v1/lookup", map[string]any{
		"phone_number": "0501234567",
		"providers":    []string{"nope"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoreEndpoint(t *testing.T) {
	router := setupTestRouter(t, "http://unused.example")

	w := doJSON(router, http.MethodPost, "/api/v1/score", map[string]any{
		"claimed_name": "דוד כהן",
		"first_name":   "David",
		"last_name":    "Cohen",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		FinalScore int    `json:"final_score"`
		RiskTier   string `json:"risk_tier"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 100, resp.FinalScore)
	assert.Equal(t, "HIGH", resp.RiskTier)
}

func TestNicknameEndpoints(t *testing.T) {
	router := setupTestRouter(t, "http://unused.example")

	w := doJSON(router, http.MethodPost, "/api/v1/nicknames", map[string]any{
		"formal_name": "דוד",
		"all_names":   "דוד, דודי",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, http.MethodGet, "/api/v1/nicknames", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Nicknames []store.NicknameEntry `json:"nicknames"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Nicknames, 1)
	assert.Equal(t, "דוד", listed.Nicknames[0].FormalName)

	w = doJSON(router, http.MethodDelete, "/api/v1/nicknames/"+strconv.FormatInt(created.ID, 10), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/nicknames", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Empty(t, listed.Nicknames)
}

func TestHealthEndpoint(t *testing.T) {
	router := setupTestRouter(t, "http://me.example")

	w := doJSON(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status    string   `json:"status"`
		Providers []string `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, []string{"me"}, resp.Providers)
}
