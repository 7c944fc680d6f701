// Package events defines the closed set of blockchain events the aggregator
// consumes. The hosting runtime delivers them strictly ordered by block number
// then log index; dispatch happens through a single entry point per event.
package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type Kind string

const (
	KindSplitCreated  Kind = "split_created"
	KindMemberAdded   Kind = "member_added"
	KindMemberRemoved Kind = "member_removed"
	KindSpendingAdded Kind = "spending_added"
	KindDebtPaid      Kind = "debt_paid"
	KindSwap          Kind = "swap"
)

// Meta carries the envelope every event shares: source contract, position in
// the chain, and gas accounting for the enclosing transaction.
type Meta struct {
	ChainID        uint64
	Contract       common.Address
	TxHash         common.Hash
	LogIndex       uint
	BlockNumber    uint64
	BlockTimestamp uint64
	GasUsed        *big.Int
	GasPrice       *big.Int
}

// Raw returns the event envelope. Embedding Meta gives every event type the
// Event interface's accessor.
func (m Meta) Raw() Meta { return m }

// GasCost is gasUsed * gasPrice in wei. Missing fields count as zero.
func (m Meta) GasCost() *big.Int {
	if m.GasUsed == nil || m.GasPrice == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(m.GasUsed, m.GasPrice)
}

// Event is the tagged union over all event kinds.
type Event interface {
	Kind() Kind
	Raw() Meta
}

type SplitCreated struct {
	Meta
	SplitID        string
	Creator        common.Address
	InitialMembers []common.Address
	DefaultToken   common.Address
}

func (SplitCreated) Kind() Kind { return KindSplitCreated }

type MemberAdded struct {
	Meta
	SplitID string
	Member  common.Address
}

func (MemberAdded) Kind() Kind { return KindMemberAdded }

type MemberRemoved struct {
	Meta
	SplitID string
	Member  common.Address
}

func (MemberRemoved) Kind() Kind { return KindMemberRemoved }

type SpendingAdded struct {
	Meta
	SplitID    string
	SpendingID string
	Title      string
	Payer      common.Address
	Amount     *big.Int
	ForWho     []common.Address
	Token      common.Address
}

func (SpendingAdded) Kind() Kind { return KindSpendingAdded }

type DebtPaid struct {
	Meta
	SplitID  string
	Debtor   common.Address
	Creditor common.Address
	Amount   *big.Int
	Token    common.Address
}

func (DebtPaid) Kind() Kind { return KindDebtPaid }

// Swap carries pool-relative signed amounts: negative means the pool paid the
// amount out to the trader.
type Swap struct {
	Meta
	PoolID       string
	Sender       common.Address
	Amount0      *big.Int
	Amount1      *big.Int
	SqrtPriceX96 *big.Int
	Liquidity    *big.Int
	Tick         int64
}

func (Swap) Kind() Kind { return KindSwap }
