package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/config"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db/model"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/services"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/types"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/testutil"
)

// stubDB serves canned reads; writes are accepted and ignored except for the
// snapshot, which /api/stats/refresh reads back.
type stubDB struct {
	positions map[string]*model.UserPosition
	txs       []model.Transaction
	snapshot  *model.PoolStats
}

var _ db.DbInterface = (*stubDB)(nil)

func (s *stubDB) Ping(ctx context.Context) error                                  { return nil }
func (s *stubDB) SaveTransaction(ctx context.Context, tx *model.Transaction) error { return nil }

func (s *stubDB) GetUserTransactions(ctx context.Context, userAddress string, limit int) ([]model.Transaction, error) {
	out := make([]model.Transaction, 0)
	for _, tx := range s.txs {
		if tx.UserAddress == userAddress && len(out) < limit {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *stubDB) GetRecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error) {
	if limit > len(s.txs) {
		limit = len(s.txs)
	}
	out := make([]model.Transaction, 0, limit)
	out = append(out, s.txs[:limit]...)
	return out, nil
}

func (s *stubDB) ApplyDeposit(ctx context.Context, userAddress, amountMotes, sharesMotes string) error {
	return nil
}
func (s *stubDB) ApplyWithdrawal(ctx context.Context, userAddress, sharesMotes string) error {
	return nil
}

func (s *stubDB) GetUserPosition(ctx context.Context, userAddress string) (*model.UserPosition, error) {
	pos, ok := s.positions[userAddress]
	if !ok {
		return nil, &db.NotFoundError{Key: userAddress, Message: "user position not found"}
	}
	return pos, nil
}

func (s *stubDB) CalculatePoolStats(ctx context.Context) (*model.PoolStats, error) {
	return &model.PoolStats{Tvl: "500", TotalUsers: 2, TotalDeposits: "600", TotalWithdrawals: "100"}, nil
}

func (s *stubDB) SavePoolStats(ctx context.Context, stats *model.PoolStats) error {
	s.snapshot = stats
	return nil
}

func (s *stubDB) GetLatestPoolStats(ctx context.Context) (*model.PoolStats, error) {
	if s.snapshot == nil {
		return nil, &db.NotFoundError{Key: "pool_stats", Message: "no pool stats snapshot published yet"}
	}
	return s.snapshot, nil
}

func newTestServer(t *testing.T, store *stubDB) http.Handler {
	t.Helper()
	cfg := &config.ServerConfig{Port: 3001}
	require.NoError(t, cfg.Validate())

	service := services.NewService(nil, store, nil, nil)
	return New(cfg, service).routes(cfg)
}

func doRequest(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	h := newTestServer(t, &stubDB{})

	rec := doRequest(t, h, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
		Service   string `json:"service"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "casper-yield-indexer", body.Service)

	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)
}

func TestHandleRoot(t *testing.T) {
	h := newTestServer(t, &stubDB{})

	rec := doRequest(t, h, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Service   string   `json:"service"`
		Endpoints []string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "casper-yield-indexer", body.Service)
	assert.NotEmpty(t, body.Endpoints)
}

func TestHandleStats_DefaultBeforeFirstSnapshot(t *testing.T) {
	h := newTestServer(t, &stubDB{})

	rec := doRequest(t, h, http.MethodGet, "/api/stats")
	assert.Equal(t, http.StatusOK, rec.Code)

	var stats model.PoolStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "0", stats.Tvl)
	assert.Equal(t, uint64(0), stats.TotalUsers)
}

func TestHandleStatsRefresh(t *testing.T) {
	h := newTestServer(t, &stubDB{})

	rec := doRequest(t, h, http.MethodPost, "/api/stats/refresh")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool            `json:"success"`
		Stats   model.PoolStats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "500", body.Stats.Tvl)
	assert.Equal(t, uint64(2), body.Stats.TotalUsers)
	assert.Equal(t, 12.5, body.Stats.AvgApy)
}

func TestHandlePosition(t *testing.T) {
	known, err := testutil.RandomCasperAddress()
	require.NoError(t, err)
	unknown, err := testutil.RandomCasperAddress()
	require.NoError(t, err)

	store := &stubDB{positions: map[string]*model.UserPosition{
		known: {UserAddress: known, TotalShares: "110", TotalDeposited: "150", LastUpdate: time.Now().UTC()},
	}}
	h := newTestServer(t, store)

	t.Run("known user", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/position/"+known)
		assert.Equal(t, http.StatusOK, rec.Code)

		var pos model.UserPosition
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pos))
		assert.Equal(t, "110", pos.TotalShares)
		assert.Equal(t, "150", pos.TotalDeposited)
	})

	t.Run("unknown user gets zero default", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/position/"+unknown)
		assert.Equal(t, http.StatusOK, rec.Code)

		var pos model.UserPosition
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pos))
		assert.Equal(t, unknown, pos.UserAddress)
		assert.Equal(t, "0", pos.TotalShares)
		assert.Equal(t, "0", pos.TotalDeposited)
	})

	t.Run("opaque address gets zero default, never an error", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/position/u-does-not-exist")
		assert.Equal(t, http.StatusOK, rec.Code)

		var pos model.UserPosition
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pos))
		assert.Equal(t, "u-does-not-exist", pos.UserAddress)
		assert.Equal(t, "0", pos.TotalShares)
		assert.Equal(t, "0", pos.TotalDeposited)
	})

	t.Run("system address is queryable", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/position/"+types.SystemAddress)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHandleHistory(t *testing.T) {
	user, err := testutil.RandomCasperAddress()
	require.NoError(t, err)

	txs := make([]model.Transaction, 0, 3)
	for i := 0; i < 3; i++ {
		hash, err := testutil.RandomDeployHash()
		require.NoError(t, err)
		txs = append(txs, model.Transaction{
			DeployHash:  hash,
			UserAddress: user,
			Type:        types.EventTypeDeposit,
			Amount:      "100",
			Status:      types.TxStatusSuccess,
		})
	}
	h := newTestServer(t, &stubDB{txs: txs})

	t.Run("all", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/history/"+user)
		assert.Equal(t, http.StatusOK, rec.Code)

		var got []model.Transaction
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 3)
	})

	t.Run("limit respected", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/history/"+user+"?limit=2")
		assert.Equal(t, http.StatusOK, rec.Code)

		var got []model.Transaction
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("bogus limit falls back to default", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/history/"+user+"?limit=banana")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("opaque address returns empty history", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/history/u-does-not-exist")
		assert.Equal(t, http.StatusOK, rec.Code)

		var got []model.Transaction
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Empty(t, got)
	})
}

func TestHandleRecentTransactions_EmptyIsArray(t *testing.T) {
	h := newTestServer(t, &stubDB{})

	rec := doRequest(t, h, http.MethodGet, "/api/transactions/recent")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, &stubDB{})

	rec := doRequest(t, h, http.MethodPost, "/api/stats")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error":"method not allowed"}`, rec.Body.String())
}

func TestNotFound(t *testing.T) {
	h := newTestServer(t, &stubDB{})

	rec := doRequest(t, h, http.MethodGet, "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSHeaders(t *testing.T) {
	h := newTestServer(t, &stubDB{})

	rec := doRequest(t, h, http.MethodOptions, "/api/stats")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
