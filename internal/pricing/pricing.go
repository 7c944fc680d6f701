// Package pricing derives token prices in the chain's native asset and USD
// valuations from whitelisted reference pools, without any external oracle
// call on the event path.
package pricing

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/split-indexer/internal/chains"
	"github.com/rxtech-lab/split-indexer/internal/constants"
	"github.com/rxtech-lab/split-indexer/internal/models"
	"github.com/rxtech-lab/split-indexer/internal/numeric"
)

// Store is the read side of the entity store the pricing engine needs. Any
// lookup error is treated as "not indexed yet" by the callers here.
type Store interface {
	GetPool(id string) (*models.Pool, error)
	GetToken(id string) (*models.Token, error)
	GetBundle(id string) (*models.Bundle, error)
}

// SqrtPriceX96ToTokenPrices converts a 96-bit fixed-point square-root price
// into human-scale token prices, adjusted for each token's decimal count.
// price1 is token1 per token0; price0 is its safe inverse.
func SqrtPriceX96ToTokenPrices(sqrtPriceX96 *big.Int, decimals0, decimals1 int32) (price0, price1 decimal.Decimal) {
	if sqrtPriceX96 == nil {
		return decimal.Zero, decimal.Zero
	}
	num := decimal.NewFromBigInt(new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96), 0)
	denom := decimal.NewFromBigInt(constants.Q192, 0)

	price1 = numeric.SafeDiv(num, denom).
		Mul(numeric.ExponentToBigDecimal(decimals0)).
		Div(numeric.ExponentToBigDecimal(decimals1))
	price0 = numeric.SafeDiv(numeric.One, price1)
	return price0, price1
}

// GetNativePriceInUSD reads the native asset's USD price from the chain's
// designated stablecoin/wrapped-native pool. Returns zero until that pool is
// indexed.
func GetNativePriceInUSD(s Store, cfg chains.Config) decimal.Decimal {
	pool, err := s.GetPool(cfg.StablecoinWrappedNativePoolID)
	if err != nil || pool == nil {
		return decimal.Zero
	}
	if cfg.StablecoinIsToken0 {
		return pool.Token0Price
	}
	return pool.Token1Price
}

// FindNativePerToken derives the token's price in the native asset by
// scanning its whitelist pools. Pools whose native-side locked value is below
// cfg.MinimumNativeLocked are ignored so thin pools cannot skew the price;
// among qualifying pools the one with the most native liquidity wins.
// Returns zero when no pool qualifies.
func FindNativePerToken(s Store, token *models.Token, cfg chains.Config) decimal.Decimal {
	if token == nil {
		return decimal.Zero
	}
	id := strings.ToLower(token.ID)
	if id == cfg.WrappedNativeAddress {
		return numeric.One
	}

	// Stablecoins are by definition worth 1 USD, i.e. 1/nativeUSD native.
	if cfg.IsStablecoin(id) {
		bundle, err := s.GetBundle(chainKey(cfg.ChainID))
		if err != nil || bundle == nil {
			return decimal.Zero
		}
		return numeric.SafeDiv(numeric.One, bundle.ETHPriceUSD)
	}

	largestNativeLocked := cfg.MinimumNativeLocked
	price := decimal.Zero

	for _, poolID := range token.WhitelistPools {
		pool, err := s.GetPool(poolID)
		if err != nil || pool == nil {
			continue
		}
		if pool.Liquidity.Sign() <= 0 {
			continue
		}

		if pool.Token0 == id {
			other, err := s.GetToken(pool.Token1)
			if err != nil || other == nil {
				continue
			}
			nativeLocked := pool.TotalValueLockedToken1.Mul(other.DerivedETH)
			if nativeLocked.GreaterThan(largestNativeLocked) {
				largestNativeLocked = nativeLocked
				// token1 per token0 times native per token1
				price = pool.Token1Price.Mul(other.DerivedETH)
			}
		} else if pool.Token1 == id {
			other, err := s.GetToken(pool.Token0)
			if err != nil || other == nil {
				continue
			}
			nativeLocked := pool.TotalValueLockedToken0.Mul(other.DerivedETH)
			if nativeLocked.GreaterThan(largestNativeLocked) {
				largestNativeLocked = nativeLocked
				price = pool.Token0Price.Mul(other.DerivedETH)
			}
		}
	}
	return price
}

// GetTrackedAmountUSD values a swap for volume accounting. Both sides
// whitelisted: the average of both USD values. One side whitelisted: that
// side doubled, extrapolating the untracked side. Neither: zero.
func GetTrackedAmountUSD(amount0 decimal.Decimal, token0 *models.Token, amount1 decimal.Decimal, token1 *models.Token, ethPriceUSD decimal.Decimal, cfg chains.Config) decimal.Decimal {
	price0USD := token0.DerivedETH.Mul(ethPriceUSD)
	price1USD := token1.DerivedETH.Mul(ethPriceUSD)

	wl0 := cfg.IsWhitelisted(token0.ID)
	wl1 := cfg.IsWhitelisted(token1.ID)

	switch {
	case wl0 && wl1:
		return amount0.Mul(price0USD).Add(amount1.Mul(price1USD)).Div(two)
	case wl0:
		return amount0.Mul(price0USD).Mul(two)
	case wl1:
		return amount1.Mul(price1USD).Mul(two)
	default:
		return decimal.Zero
	}
}

var two = decimal.New(2, 0)

func chainKey(chainID uint64) string {
	return strconv.FormatUint(chainID, 10)
}
