package api

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rxtech-lab/split-indexer/internal/models"
	"github.com/rxtech-lab/split-indexer/internal/services"
)

func setupTestServer(t *testing.T) (*APIServer, services.LedgerService, services.PoolService) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "Failed to connect to in-memory database")

	err = db.AutoMigrate(
		&models.UserActivity{}, &models.Split{}, &models.Spending{},
		&models.Debt{}, &models.DebtPayment{}, &models.Transaction{},
		&models.Token{}, &models.Pool{}, &models.PoolManager{},
		&models.Bundle{}, &models.HookStats{},
	)
	require.NoError(t, err, "Failed to run migrations")

	ledger := services.NewLedgerService(db)
	pools := services.NewPoolService(db)
	return NewAPIServer(ledger, pools, prometheus.NewRegistry()), ledger, pools
}

func TestAPIServer_Splits(t *testing.T) {
	server, ledger, _ := setupTestServer(t)

	require.NoError(t, ledger.SaveSplit(&models.Split{
		ID:      "1",
		ChainID: 1,
		Creator: "0xaaa",
		Members: models.AddressList{"0xaaa", "0xbbb"},
	}))
	require.NoError(t, ledger.SaveDebt(&models.Debt{
		ID:       models.DebtKey("1", "0xbbb", "0xaaa"),
		SplitID:  "1",
		Debtor:   "0xbbb",
		Creditor: "0xaaa",
	}))

	t.Run("list", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/splits", nil)
		resp, err := server.App().Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Splits []models.Split `json:"splits"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.Splits, 1)
		assert.Equal(t, "1", body.Splits[0].ID)
	})

	t.Run("get_with_debts", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/splits/1", nil)
		resp, err := server.App().Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Split models.Split  `json:"split"`
			Debts []models.Debt `json:"debts"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "0xaaa", body.Split.Creator)
		assert.Len(t, body.Debts, 1)
	})

	t.Run("not_found", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/splits/999", nil)
		resp, err := server.App().Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAPIServer_Users(t *testing.T) {
	server, ledger, _ := setupTestServer(t)

	require.NoError(t, ledger.SaveUserActivity(&models.UserActivity{
		ID:               "0xaaa",
		ChainID:          1,
		TransactionCount: 3,
	}))

	t.Run("case_insensitive_lookup", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/users/0xAAA", nil)
		resp, err := server.App().Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var activity models.UserActivity
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&activity))
		assert.Equal(t, uint64(3), activity.TransactionCount)
	})

	t.Run("unknown_user", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/users/0xnobody", nil)
		resp, err := server.App().Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("transactions", func(t *testing.T) {
		require.NoError(t, ledger.SaveTransaction(&models.Transaction{
			ID:      "0xhash-0",
			ChainID: 1,
			Type:    models.TransactionTypeCreateSplit,
			From:    "0xaaa",
		}))

		req, _ := http.NewRequest(http.MethodGet, "/api/users/0xaaa/transactions", nil)
		resp, err := server.App().Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Transactions []models.Transaction `json:"transactions"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Len(t, body.Transactions, 1)
	})
}

func TestAPIServer_Pools(t *testing.T) {
	server, _, pools := setupTestServer(t)

	require.NoError(t, pools.SavePool(&models.Pool{
		ID:      "0xpool",
		ChainID: 1,
		Token0:  "0xaaa",
		Token1:  "0xbbb",
	}))

	req, _ := http.NewRequest(http.MethodGet, "/api/pools/0xPOOL", nil)
	resp, err := server.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var pool models.Pool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pool))
	assert.Equal(t, "0xpool", pool.ID)
}

func TestAPIServer_Metrics(t *testing.T) {
	server, _, _ := setupTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := server.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = io.ReadAll(resp.Body)
	assert.NoError(t, err)
}
