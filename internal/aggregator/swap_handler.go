package aggregator

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/rxtech-lab/split-indexer/internal/chains"
	"github.com/rxtech-lab/split-indexer/internal/constants"
	"github.com/rxtech-lab/split-indexer/internal/events"
	"github.com/rxtech-lab/split-indexer/internal/metrics"
	"github.com/rxtech-lab/split-indexer/internal/models"
	"github.com/rxtech-lab/split-indexer/internal/numeric"
	"github.com/rxtech-lab/split-indexer/internal/pricing"
)

var (
	two = decimal.New(2, 0)
	ppm = decimal.New(1_000_000, 0) // fee tier is expressed in parts per million
)

// handleSwap is the read-heavy multi-entity transition. Pool, pool manager and
// both tokens must already be indexed; otherwise the event is dropped without
// error so later events keep flowing.
func (a *Aggregator) handleSwap(e *events.Swap) error {
	cfg, ok := chains.ForChain(e.ChainID)
	if !ok {
		a.skip(e.Kind(), metrics.ReasonUnknownChain, logrus.Fields{"chain_id": e.ChainID})
		return nil
	}

	poolID := strings.ToLower(e.PoolID)
	if cfg.ShouldSkipPool(poolID) {
		a.skip(e.Kind(), metrics.ReasonSkipList, logrus.Fields{"pool": poolID})
		return nil
	}

	pool, err := a.pools.GetPool(poolID)
	if isNotFound(err) {
		a.skip(e.Kind(), metrics.ReasonMissingEntity, logrus.Fields{"pool": poolID})
		return nil
	} else if err != nil {
		return err
	}

	managerID := pool.PoolManager
	if managerID == "" {
		managerID = lower(e.Contract)
	}
	manager, err := a.pools.GetPoolManager(managerID)
	if isNotFound(err) {
		a.skip(e.Kind(), metrics.ReasonMissingEntity, logrus.Fields{"pool_manager": managerID})
		return nil
	} else if err != nil {
		return err
	}

	token0, err := a.pools.GetToken(pool.Token0)
	if isNotFound(err) {
		a.skip(e.Kind(), metrics.ReasonMissingEntity, logrus.Fields{"token": pool.Token0})
		return nil
	} else if err != nil {
		return err
	}
	token1, err := a.pools.GetToken(pool.Token1)
	if isNotFound(err) {
		a.skip(e.Kind(), metrics.ReasonMissingEntity, logrus.Fields{"token": pool.Token1})
		return nil
	} else if err != nil {
		return err
	}

	bundleID := strconv.FormatUint(e.ChainID, 10)
	bundle, err := a.pools.GetBundle(bundleID)
	if isNotFound(err) {
		bundle = &models.Bundle{ID: bundleID}
	} else if err != nil {
		return err
	}

	hasHooks := pool.Hooks != "" && pool.Hooks != constants.AddressZero
	var hookStats *models.HookStats
	if hasHooks {
		hookStats, err = a.pools.GetHookStats(pool.Hooks)
		if isNotFound(err) {
			hookStats = &models.HookStats{ID: pool.Hooks, ChainID: e.ChainID, FirstPoolCreatedAt: e.BlockTimestamp}
		} else if err != nil {
			return err
		}
	}

	// Preload is a dry run: the reads above prime the framework's entity
	// cache, everything below is skipped.
	if a.preload {
		a.skip(e.Kind(), metrics.ReasonPreload, logrus.Fields{"pool": poolID})
		return nil
	}

	token0.DerivedETH = pricing.FindNativePerToken(a.pools, token0, cfg)
	token1.DerivedETH = pricing.FindNativePerToken(a.pools, token1, cfg)
	bundle.ETHPriceUSD = pricing.GetNativePriceInUSD(a.pools, cfg)

	// The pool event's sign convention is pool-relative (negative = paid out
	// to the trader), opposite of the valuation convention, hence the
	// inversion.
	amount0 := numeric.ConvertTokenToDecimal(e.Amount0, token0.Decimals).Neg()
	amount1 := numeric.ConvertTokenToDecimal(e.Amount1, token1.Decimals).Neg()
	amount0Abs := amount0.Abs()
	amount1Abs := amount1.Abs()

	amount0ETH := amount0Abs.Mul(token0.DerivedETH)
	amount1ETH := amount1Abs.Mul(token1.DerivedETH)
	amount0USD := amount0ETH.Mul(bundle.ETHPriceUSD)
	amount1USD := amount1ETH.Mul(bundle.ETHPriceUSD)

	trackedUSD := pricing.GetTrackedAmountUSD(amount0Abs, token0, amount1Abs, token1, bundle.ETHPriceUSD, cfg)
	trackedETH := numeric.SafeDiv(trackedUSD, bundle.ETHPriceUSD)
	untrackedUSD := amount0USD.Add(amount1USD).Div(two)

	feeRate := decimal.NewFromBigInt(new(big.Int).Set(&pool.FeeTier.Int), 0).Div(ppm)
	feesUSD := trackedUSD.Mul(feeRate)
	feesETH := trackedETH.Mul(feeRate)

	// Prior contributions, captured before the pool totals move, so the
	// parent aggregates can be maintained as deltas instead of O(pools)
	// rescans.
	prevPoolTVLETH := pool.TotalValueLockedETH
	prevPoolTVLUSD := pool.TotalValueLockedUSD

	pool.TxCount++
	pool.SqrtPrice = models.NewBigInt(e.SqrtPriceX96)
	pool.Liquidity = models.NewBigInt(e.Liquidity)
	pool.Tick = e.Tick
	pool.Token0Price, pool.Token1Price = pricing.SqrtPriceX96ToTokenPrices(e.SqrtPriceX96, token0.Decimals, token1.Decimals)
	pool.TotalValueLockedToken0 = pool.TotalValueLockedToken0.Add(amount0)
	pool.TotalValueLockedToken1 = pool.TotalValueLockedToken1.Add(amount1)
	pool.VolumeToken0 = pool.VolumeToken0.Add(amount0Abs)
	pool.VolumeToken1 = pool.VolumeToken1.Add(amount1Abs)
	pool.VolumeUSD = pool.VolumeUSD.Add(trackedUSD)
	pool.UntrackedVolumeUSD = pool.UntrackedVolumeUSD.Add(untrackedUSD)
	pool.FeesUSD = pool.FeesUSD.Add(feesUSD)
	pool.CollectedFeesToken0 = pool.CollectedFeesToken0.Add(amount0Abs.Mul(feeRate))
	pool.CollectedFeesToken1 = pool.CollectedFeesToken1.Add(amount1Abs.Mul(feeRate))
	pool.CollectedFeesUSD = pool.CollectedFeesUSD.Add(feesUSD)
	pool.TotalValueLockedETH = pool.TotalValueLockedToken0.Mul(token0.DerivedETH).
		Add(pool.TotalValueLockedToken1.Mul(token1.DerivedETH))
	pool.TotalValueLockedUSD = pool.TotalValueLockedETH.Mul(bundle.ETHPriceUSD)

	token0.Volume = token0.Volume.Add(amount0Abs)
	token0.VolumeUSD = token0.VolumeUSD.Add(trackedUSD)
	token0.UntrackedVolumeUSD = token0.UntrackedVolumeUSD.Add(untrackedUSD)
	token0.FeesUSD = token0.FeesUSD.Add(feesUSD)
	token0.TotalValueLocked = token0.TotalValueLocked.Add(amount0)
	token0.TotalValueLockedUSD = token0.TotalValueLocked.Mul(token0.DerivedETH).Mul(bundle.ETHPriceUSD)
	token0.TxCount++

	token1.Volume = token1.Volume.Add(amount1Abs)
	token1.VolumeUSD = token1.VolumeUSD.Add(trackedUSD)
	token1.UntrackedVolumeUSD = token1.UntrackedVolumeUSD.Add(untrackedUSD)
	token1.FeesUSD = token1.FeesUSD.Add(feesUSD)
	token1.TotalValueLocked = token1.TotalValueLocked.Add(amount1)
	token1.TotalValueLockedUSD = token1.TotalValueLocked.Mul(token1.DerivedETH).Mul(bundle.ETHPriceUSD)
	token1.TxCount++

	manager.TxCount++
	manager.NumberOfSwaps++
	manager.TotalVolumeUSD = manager.TotalVolumeUSD.Add(trackedUSD)
	manager.TotalVolumeETH = manager.TotalVolumeETH.Add(trackedETH)
	manager.UntrackedVolumeUSD = manager.UntrackedVolumeUSD.Add(untrackedUSD)
	manager.TotalFeesUSD = manager.TotalFeesUSD.Add(feesUSD)
	manager.TotalFeesETH = manager.TotalFeesETH.Add(feesETH)
	manager.TotalValueLockedETH = manager.TotalValueLockedETH.Sub(prevPoolTVLETH).Add(pool.TotalValueLockedETH)
	manager.TotalValueLockedUSD = manager.TotalValueLockedETH.Mul(bundle.ETHPriceUSD)

	if hasHooks {
		hookStats.NumberOfSwaps++
		hookStats.TotalVolumeUSD = hookStats.TotalVolumeUSD.Add(trackedUSD)
		hookStats.UntrackedVolumeUSD = hookStats.UntrackedVolumeUSD.Add(untrackedUSD)
		hookStats.TotalFeesUSD = hookStats.TotalFeesUSD.Add(feesUSD)
		hookStats.TotalValueLockedUSD = hookStats.TotalValueLockedUSD.Sub(prevPoolTVLUSD).Add(pool.TotalValueLockedUSD)
		if err := a.pools.SaveHookStats(hookStats); err != nil {
			return err
		}
	}

	if err := a.pools.SaveToken(token0); err != nil {
		return err
	}
	if err := a.pools.SaveToken(token1); err != nil {
		return err
	}
	if err := a.pools.SavePool(pool); err != nil {
		return err
	}
	if err := a.pools.SavePoolManager(manager); err != nil {
		return err
	}
	return a.pools.SaveBundle(bundle)
}
