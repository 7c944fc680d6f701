// Package chains holds per-chain static configuration for the pricing engine:
// reference pools, token whitelists, and liquidity thresholds.
package chains

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TokenDetails describes the chain's native asset for pseudo-token handling.
type TokenDetails struct {
	Symbol   string
	Name     string
	Decimals int32
}

// Config is everything the aggregator needs to know about one chain.
type Config struct {
	ChainID              uint64
	WrappedNativeAddress string
	NativeToken          TokenDetails
	// StablecoinAddresses are priced as the inverse of the native USD price.
	StablecoinAddresses []string
	// WhitelistTokens are eligible for tracked volume accounting.
	WhitelistTokens []string
	// MinimumNativeLocked is the native-side liquidity a pool must hold before
	// its spot price is trusted for derivation.
	MinimumNativeLocked decimal.Decimal
	// StablecoinWrappedNativePoolID is the designated reference pool for the
	// native asset's USD price; StablecoinIsToken0 says which side the
	// stablecoin occupies.
	StablecoinWrappedNativePoolID string
	StablecoinIsToken0            bool
	// PoolsToSkip are ignored entirely by the swap handler.
	PoolsToSkip []string
}

var registry = map[uint64]Config{}

func init() {
	Register(Config{
		ChainID:              1,
		WrappedNativeAddress: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		NativeToken:          TokenDetails{Symbol: "ETH", Name: "Ether", Decimals: 18},
		StablecoinAddresses: []string{
			"0x6b175474e89094c44da98b954eedeac495271d0f", // DAI
			"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", // USDC
			"0xdac17f958d2ee523a2206206994597c13d831ec7", // USDT
		},
		WhitelistTokens: []string{
			"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", // WETH
			"0x6b175474e89094c44da98b954eedeac495271d0f", // DAI
			"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", // USDC
			"0xdac17f958d2ee523a2206206994597c13d831ec7", // USDT
			"0x2260fac5e5542a773aa44fbcfedf7c193bc2c599", // WBTC
		},
		MinimumNativeLocked:           decimal.RequireFromString("20"),
		StablecoinWrappedNativePoolID: "0x21c67e77068de97969ba93d4aab21826d33ca12bb9f565d8496e8fda8a82ca27",
		StablecoinIsToken0:            true,
	})
}

// Register installs or replaces a chain configuration. Addresses and pool ids
// are normalized to lower case.
func Register(cfg Config) {
	cfg.WrappedNativeAddress = strings.ToLower(cfg.WrappedNativeAddress)
	cfg.StablecoinWrappedNativePoolID = strings.ToLower(cfg.StablecoinWrappedNativePoolID)
	for i, a := range cfg.StablecoinAddresses {
		cfg.StablecoinAddresses[i] = strings.ToLower(a)
	}
	for i, a := range cfg.WhitelistTokens {
		cfg.WhitelistTokens[i] = strings.ToLower(a)
	}
	for i, p := range cfg.PoolsToSkip {
		cfg.PoolsToSkip[i] = strings.ToLower(p)
	}
	registry[cfg.ChainID] = cfg
}

// ForChain returns the configuration for chainID.
func ForChain(chainID uint64) (Config, bool) {
	cfg, ok := registry[chainID]
	return cfg, ok
}

// ShouldSkipPool reports whether poolID is on the chain's skip-list.
func (c Config) ShouldSkipPool(poolID string) bool {
	poolID = strings.ToLower(poolID)
	for _, p := range c.PoolsToSkip {
		if p == poolID {
			return true
		}
	}
	return false
}

// IsWhitelisted reports whether the token address is eligible for tracked
// volume.
func (c Config) IsWhitelisted(token string) bool {
	token = strings.ToLower(token)
	for _, t := range c.WhitelistTokens {
		if t == token {
			return true
		}
	}
	return false
}

// IsStablecoin reports whether the token address is a configured stablecoin.
func (c Config) IsStablecoin(token string) bool {
	token = strings.ToLower(token)
	for _, t := range c.StablecoinAddresses {
		if t == token {
			return true
		}
	}
	return false
}
