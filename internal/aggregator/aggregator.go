// Package aggregator maintains the derived aggregate entities — user
// activity, split ledger, debt ledger, liquidity-pool statistics — from a
// strictly ordered stream of blockchain events. Each event type is one
// transition function over the current entity snapshot; lookups on
// possibly-absent entities are soft failures that skip the affected mutation
// rather than halting the stream.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/rxtech-lab/split-indexer/internal/events"
	"github.com/rxtech-lab/split-indexer/internal/metrics"
	"github.com/rxtech-lab/split-indexer/internal/models"
	"github.com/rxtech-lab/split-indexer/internal/services"
)

type Aggregator struct {
	ledger  services.LedgerService
	pools   services.PoolService
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	preload bool
}

// New wires an aggregator over the entity store. metrics may be nil.
func New(ledger services.LedgerService, pools services.PoolService, log logrus.FieldLogger, m *metrics.Metrics) *Aggregator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Aggregator{
		ledger:  ledger,
		pools:   pools,
		log:     log,
		metrics: m,
	}
}

// SetPreload toggles the dry-run phase the hosting framework uses to prefetch
// dependent entities. While enabled, handlers perform the entity reads needed
// for prefetching and skip all mutations.
func (a *Aggregator) SetPreload(on bool) {
	a.preload = on
}

// Apply runs exactly one event transition. Events must arrive in block/log
// order; Apply never runs concurrently with itself. Only store I/O failures
// return an error — missing dependencies are skips, not failures.
func (a *Aggregator) Apply(ctx context.Context, evt events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var err error
	switch e := evt.(type) {
	case *events.SplitCreated:
		err = a.handleSplitCreated(e)
	case *events.MemberAdded:
		err = a.handleMemberAdded(e)
	case *events.MemberRemoved:
		err = a.handleMemberRemoved(e)
	case *events.SpendingAdded:
		err = a.handleSpendingAdded(e)
	case *events.DebtPaid:
		err = a.handleDebtPaid(e)
	case *events.Swap:
		err = a.handleSwap(e)
	default:
		a.skip(evt.Kind(), "unknown_kind", logrus.Fields{})
		return nil
	}

	if err != nil {
		return fmt.Errorf("apply %s: %w", evt.Kind(), err)
	}
	a.metrics.Processed(string(evt.Kind()))
	return nil
}

func (a *Aggregator) skip(kind events.Kind, reason string, fields logrus.Fields) {
	fields["event"] = string(kind)
	fields["reason"] = reason
	a.log.WithFields(fields).Debug("event skipped")
	a.metrics.Skipped(string(kind), reason)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func lower(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}

// userActivity loads the cumulative counters for an address, creating a fresh
// row on first reference.
func (a *Aggregator) userActivity(id string, chainID uint64) (*models.UserActivity, error) {
	activity, err := a.ledger.GetUserActivity(id)
	if isNotFound(err) {
		return &models.UserActivity{ID: id, ChainID: chainID}, nil
	}
	if err != nil {
		return nil, err
	}
	return activity, nil
}

func (a *Aggregator) recordTransaction(meta events.Meta, txType models.TransactionType, from, to string, amount *big.Int, token, splitID string) error {
	tx := &models.Transaction{
		ID:        models.TransactionKey(meta.TxHash.Hex(), meta.LogIndex),
		ChainID:   meta.ChainID,
		Type:      txType,
		From:      from,
		To:        to,
		Amount:    models.NewBigInt(amount),
		Token:     token,
		GasUsed:   models.NewBigInt(meta.GasUsed),
		GasPrice:  models.NewBigInt(meta.GasPrice),
		Timestamp: meta.BlockTimestamp,
		SplitID:   splitID,
	}
	return a.ledger.SaveTransaction(tx)
}
