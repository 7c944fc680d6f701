package models

import "github.com/shopspring/decimal"

// Token is an indexed ERC-20 (or the native pseudo-token) with its derived
// native-asset price and running swap totals.
type Token struct {
	ID                  string          `gorm:"primaryKey" json:"id"` // lower-cased address
	ChainID             uint64          `gorm:"index" json:"chain_id"`
	Symbol              string          `json:"symbol"`
	Name                string          `json:"name"`
	Decimals            int32           `json:"decimals"`
	DerivedETH          decimal.Decimal `gorm:"type:text" json:"derived_eth"`
	Volume              decimal.Decimal `gorm:"type:text" json:"volume"`
	VolumeUSD           decimal.Decimal `gorm:"type:text" json:"volume_usd"`
	UntrackedVolumeUSD  decimal.Decimal `gorm:"type:text" json:"untracked_volume_usd"`
	FeesUSD             decimal.Decimal `gorm:"type:text" json:"fees_usd"`
	TotalValueLocked    decimal.Decimal `gorm:"type:text" json:"total_value_locked"`
	TotalValueLockedUSD decimal.Decimal `gorm:"type:text" json:"total_value_locked_usd"`
	TxCount             uint64          `json:"tx_count"`
	// WhitelistPools lists pools pairing this token with a whitelisted token,
	// candidates for deriving its native-asset price.
	WhitelistPools AddressList `gorm:"type:text" json:"whitelist_pools"`
}

// Pool holds one liquidity pool's running totals.
type Pool struct {
	ID                     string          `gorm:"primaryKey" json:"id"`
	ChainID                uint64          `gorm:"index" json:"chain_id"`
	PoolManager            string          `gorm:"index" json:"pool_manager"`
	Token0                 string          `gorm:"not null" json:"token0"`
	Token1                 string          `gorm:"not null" json:"token1"`
	FeeTier                BigInt          `gorm:"type:text" json:"fee_tier"` // hundredths of a bip (ppm)
	Hooks                  string          `json:"hooks"`
	Liquidity              BigInt          `gorm:"type:text" json:"liquidity"`
	SqrtPrice              BigInt          `gorm:"type:text" json:"sqrt_price"`
	Tick                   int64           `json:"tick"`
	Token0Price            decimal.Decimal `gorm:"type:text" json:"token0_price"`
	Token1Price            decimal.Decimal `gorm:"type:text" json:"token1_price"`
	VolumeToken0           decimal.Decimal `gorm:"type:text" json:"volume_token0"`
	VolumeToken1           decimal.Decimal `gorm:"type:text" json:"volume_token1"`
	VolumeUSD              decimal.Decimal `gorm:"type:text" json:"volume_usd"`
	UntrackedVolumeUSD     decimal.Decimal `gorm:"type:text" json:"untracked_volume_usd"`
	FeesUSD                decimal.Decimal `gorm:"type:text" json:"fees_usd"`
	CollectedFeesToken0    decimal.Decimal `gorm:"type:text" json:"collected_fees_token0"`
	CollectedFeesToken1    decimal.Decimal `gorm:"type:text" json:"collected_fees_token1"`
	CollectedFeesUSD       decimal.Decimal `gorm:"type:text" json:"collected_fees_usd"`
	TotalValueLockedToken0 decimal.Decimal `gorm:"type:text" json:"total_value_locked_token0"`
	TotalValueLockedToken1 decimal.Decimal `gorm:"type:text" json:"total_value_locked_token1"`
	TotalValueLockedETH    decimal.Decimal `gorm:"type:text" json:"total_value_locked_eth"`
	TotalValueLockedUSD    decimal.Decimal `gorm:"type:text" json:"total_value_locked_usd"`
	TxCount                uint64          `json:"tx_count"`
	CreatedAtTimestamp     uint64          `json:"created_at_timestamp"`
	CreatedAtBlockNumber   uint64          `json:"created_at_block_number"`
}

// PoolManager is the manager-wide rollup across all pools on one chain,
// maintained incrementally (never recomputed by scanning pools).
type PoolManager struct {
	ID                  string          `gorm:"primaryKey" json:"id"` // lower-cased manager contract address
	ChainID             uint64          `gorm:"index" json:"chain_id"`
	PoolCount           uint64          `json:"pool_count"`
	TxCount             uint64          `json:"tx_count"`
	NumberOfSwaps       uint64          `json:"number_of_swaps"`
	TotalVolumeUSD      decimal.Decimal `gorm:"type:text" json:"total_volume_usd"`
	TotalVolumeETH      decimal.Decimal `gorm:"type:text" json:"total_volume_eth"`
	UntrackedVolumeUSD  decimal.Decimal `gorm:"type:text" json:"untracked_volume_usd"`
	TotalFeesUSD        decimal.Decimal `gorm:"type:text" json:"total_fees_usd"`
	TotalFeesETH        decimal.Decimal `gorm:"type:text" json:"total_fees_eth"`
	TotalValueLockedETH decimal.Decimal `gorm:"type:text" json:"total_value_locked_eth"`
	TotalValueLockedUSD decimal.Decimal `gorm:"type:text" json:"total_value_locked_usd"`
}

// Bundle holds the chain's native-asset USD price, keyed by chain id. It is a
// stored entity rather than an in-memory global so every transition
// reads-modifies-writes it like any other row.
type Bundle struct {
	ID          string          `gorm:"primaryKey" json:"id"` // decimal chain id
	ETHPriceUSD decimal.Decimal `gorm:"type:text" json:"eth_price_usd"`
}

// HookStats is the per-hook-contract swap/volume/fee rollup.
type HookStats struct {
	ID                  string          `gorm:"primaryKey" json:"id"` // lower-cased hooks address
	ChainID             uint64          `gorm:"index" json:"chain_id"`
	NumberOfPools       uint64          `json:"number_of_pools"`
	NumberOfSwaps       uint64          `json:"number_of_swaps"`
	TotalVolumeUSD      decimal.Decimal `gorm:"type:text" json:"total_volume_usd"`
	UntrackedVolumeUSD  decimal.Decimal `gorm:"type:text" json:"untracked_volume_usd"`
	TotalFeesUSD        decimal.Decimal `gorm:"type:text" json:"total_fees_usd"`
	TotalValueLockedUSD decimal.Decimal `gorm:"type:text" json:"total_value_locked_usd"`
	FirstPoolCreatedAt  uint64          `json:"first_pool_created_at"`
}
