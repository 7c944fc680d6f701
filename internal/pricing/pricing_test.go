package pricing

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rxtech-lab/split-indexer/internal/chains"
	"github.com/rxtech-lab/split-indexer/internal/models"
	"github.com/rxtech-lab/split-indexer/internal/services"
)

const (
	testWETH = "0x000000000000000000000000000000000000aaaa"
	testUSDC = "0x000000000000000000000000000000000000bbbb"
	testTKN  = "0x000000000000000000000000000000000000cccc"
)

func setupTestStore(t *testing.T) services.PoolService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "Failed to connect to in-memory database")

	err = db.AutoMigrate(&models.Pool{}, &models.Token{}, &models.Bundle{})
	require.NoError(t, err, "Failed to run migrations")

	return services.NewPoolService(db)
}

func testChainConfig() chains.Config {
	return chains.Config{
		ChainID:                       31337,
		WrappedNativeAddress:          testWETH,
		StablecoinAddresses:           []string{testUSDC},
		WhitelistTokens:               []string{testWETH, testUSDC},
		MinimumNativeLocked:           decimal.RequireFromString("20"),
		StablecoinWrappedNativePoolID: "0xrefpool",
		StablecoinIsToken0:            true,
	}
}

func TestSqrtPriceX96ToTokenPrices(t *testing.T) {
	q96 := new(big.Int).Lsh(big.NewInt(1), 96)

	t.Run("unit_price_equal_decimals", func(t *testing.T) {
		price0, price1 := SqrtPriceX96ToTokenPrices(q96, 18, 18)
		assert.True(t, price1.Equal(decimal.New(1, 0)), "price1 = %s", price1)
		assert.True(t, price0.Equal(decimal.New(1, 0)), "price0 = %s", price0)
	})

	t.Run("decimal_adjustment", func(t *testing.T) {
		// Same raw ratio, token0 with 6 decimals vs token1 with 18.
		price0, price1 := SqrtPriceX96ToTokenPrices(q96, 6, 18)
		assert.True(t, price1.Equal(decimal.RequireFromString("0.000000000001")), "price1 = %s", price1)
		assert.True(t, price0.Equal(decimal.RequireFromString("1000000000000")), "price0 = %s", price0)
	})

	t.Run("double_sqrt_price", func(t *testing.T) {
		// sqrtPrice of 2 means a raw ratio of 4.
		price0, price1 := SqrtPriceX96ToTokenPrices(new(big.Int).Mul(q96, big.NewInt(2)), 18, 18)
		assert.True(t, price1.Equal(decimal.New(4, 0)), "price1 = %s", price1)
		assert.True(t, price0.Equal(decimal.RequireFromString("0.25")), "price0 = %s", price0)
	})

	t.Run("zero_sqrt_price", func(t *testing.T) {
		price0, price1 := SqrtPriceX96ToTokenPrices(big.NewInt(0), 18, 18)
		assert.True(t, price1.IsZero())
		assert.True(t, price0.IsZero(), "inverse of zero must stay zero")
	})

	t.Run("nil_sqrt_price", func(t *testing.T) {
		price0, price1 := SqrtPriceX96ToTokenPrices(nil, 18, 18)
		assert.True(t, price0.IsZero())
		assert.True(t, price1.IsZero())
	})
}

func TestGetNativePriceInUSD(t *testing.T) {
	store := setupTestStore(t)
	cfg := testChainConfig()

	t.Run("reference_pool_not_indexed", func(t *testing.T) {
		assert.True(t, GetNativePriceInUSD(store, cfg).IsZero())
	})

	t.Run("stablecoin_is_token0", func(t *testing.T) {
		require.NoError(t, store.SavePool(&models.Pool{
			ID:          "0xrefpool",
			Token0:      testUSDC,
			Token1:      testWETH,
			Token0Price: decimal.RequireFromString("2000"),
			Token1Price: decimal.RequireFromString("0.0005"),
		}))
		assert.Equal(t, "2000", GetNativePriceInUSD(store, cfg).String())
	})

	t.Run("stablecoin_is_token1", func(t *testing.T) {
		flipped := cfg
		flipped.StablecoinIsToken0 = false
		assert.Equal(t, "0.0005", GetNativePriceInUSD(store, flipped).String())
	})
}

func TestFindNativePerToken(t *testing.T) {
	cfg := testChainConfig()

	t.Run("wrapped_native_is_one", func(t *testing.T) {
		store := setupTestStore(t)
		token := &models.Token{ID: testWETH, Decimals: 18}
		assert.Equal(t, "1", FindNativePerToken(store, token, cfg).String())
	})

	t.Run("stablecoin_uses_bundle_inverse", func(t *testing.T) {
		store := setupTestStore(t)
		require.NoError(t, store.SaveBundle(&models.Bundle{
			ID:          "31337",
			ETHPriceUSD: decimal.RequireFromString("2000"),
		}))
		token := &models.Token{ID: testUSDC, Decimals: 6}
		assert.Equal(t, "0.0005", FindNativePerToken(store, token, cfg).String())
	})

	t.Run("no_pools_returns_zero", func(t *testing.T) {
		store := setupTestStore(t)
		token := &models.Token{ID: testTKN, Decimals: 18}
		assert.True(t, FindNativePerToken(store, token, cfg).IsZero())
	})

	t.Run("qualifying_pool_wins", func(t *testing.T) {
		store := setupTestStore(t)
		weth := &models.Token{ID: testWETH, Decimals: 18, DerivedETH: decimal.New(1, 0)}
		require.NoError(t, store.SaveToken(weth))
		require.NoError(t, store.SavePool(&models.Pool{
			ID:                     "0xpool1",
			Token0:                 testTKN,
			Token1:                 testWETH,
			Liquidity:              models.NewBigInt(big.NewInt(1)),
			Token1Price:            decimal.RequireFromString("0.5"),
			TotalValueLockedToken1: decimal.RequireFromString("100"),
		}))

		token := &models.Token{
			ID:             testTKN,
			Decimals:       18,
			WhitelistPools: models.AddressList{"0xpool1"},
		}
		assert.Equal(t, "0.5", FindNativePerToken(store, token, cfg).String())
	})

	t.Run("thin_pool_ignored", func(t *testing.T) {
		store := setupTestStore(t)
		weth := &models.Token{ID: testWETH, Decimals: 18, DerivedETH: decimal.New(1, 0)}
		require.NoError(t, store.SaveToken(weth))
		require.NoError(t, store.SavePool(&models.Pool{
			ID:                     "0xthin",
			Token0:                 testTKN,
			Token1:                 testWETH,
			Liquidity:              models.NewBigInt(big.NewInt(1)),
			Token1Price:            decimal.RequireFromString("99"),
			TotalValueLockedToken1: decimal.RequireFromString("5"), // below the 20 native minimum
		}))

		token := &models.Token{
			ID:             testTKN,
			Decimals:       18,
			WhitelistPools: models.AddressList{"0xthin"},
		}
		assert.True(t, FindNativePerToken(store, token, cfg).IsZero())
	})

	t.Run("deepest_qualifying_pool_preferred", func(t *testing.T) {
		store := setupTestStore(t)
		weth := &models.Token{ID: testWETH, Decimals: 18, DerivedETH: decimal.New(1, 0)}
		require.NoError(t, store.SaveToken(weth))
		require.NoError(t, store.SavePool(&models.Pool{
			ID:                     "0xshallow",
			Token0:                 testTKN,
			Token1:                 testWETH,
			Liquidity:              models.NewBigInt(big.NewInt(1)),
			Token1Price:            decimal.RequireFromString("0.4"),
			TotalValueLockedToken1: decimal.RequireFromString("30"),
		}))
		require.NoError(t, store.SavePool(&models.Pool{
			ID:                     "0xdeep",
			Token0:                 testWETH,
			Token1:                 testTKN,
			Liquidity:              models.NewBigInt(big.NewInt(1)),
			Token0Price:            decimal.RequireFromString("0.6"),
			TotalValueLockedToken0: decimal.RequireFromString("200"),
		}))

		token := &models.Token{
			ID:             testTKN,
			Decimals:       18,
			WhitelistPools: models.AddressList{"0xshallow", "0xdeep"},
		}
		assert.Equal(t, "0.6", FindNativePerToken(store, token, cfg).String())
	})
}

func TestGetTrackedAmountUSD(t *testing.T) {
	cfg := testChainConfig()
	ethPrice := decimal.RequireFromString("2000")

	weth := &models.Token{ID: testWETH, DerivedETH: decimal.New(1, 0)}
	usdc := &models.Token{ID: testUSDC, DerivedETH: decimal.RequireFromString("0.0005")}
	unknown := &models.Token{ID: testTKN, DerivedETH: decimal.Zero}

	t.Run("both_whitelisted_averages", func(t *testing.T) {
		// 1 WETH ($2000) against 1900 USDC ($1900) averages to $1950.
		got := GetTrackedAmountUSD(decimal.New(1, 0), weth, decimal.RequireFromString("1900"), usdc, ethPrice, cfg)
		assert.Equal(t, "1950", got.String())
	})

	t.Run("single_side_doubled", func(t *testing.T) {
		got := GetTrackedAmountUSD(decimal.New(1, 0), weth, decimal.RequireFromString("500"), unknown, ethPrice, cfg)
		assert.Equal(t, "4000", got.String())

		got = GetTrackedAmountUSD(decimal.RequireFromString("500"), unknown, decimal.New(1, 0), weth, ethPrice, cfg)
		assert.Equal(t, "4000", got.String())
	})

	t.Run("neither_whitelisted_zero", func(t *testing.T) {
		got := GetTrackedAmountUSD(decimal.New(5, 0), unknown, decimal.New(7, 0), unknown, ethPrice, cfg)
		assert.True(t, got.IsZero())
	})
}
