package events

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// wireEvent is the flat JSON envelope the hosting runtime delivers. Integer
// amounts travel as decimal strings so they stay exact.
type wireEvent struct {
	Kind           Kind   `json:"kind"`
	ChainID        uint64 `json:"chain_id"`
	Contract       string `json:"contract"`
	TxHash         string `json:"tx_hash"`
	LogIndex       uint   `json:"log_index"`
	BlockNumber    uint64 `json:"block_number"`
	BlockTimestamp uint64 `json:"block_timestamp"`
	GasUsed        string `json:"gas_used,omitempty"`
	GasPrice       string `json:"gas_price,omitempty"`

	SplitID    string   `json:"split_id,omitempty"`
	Creator    string   `json:"creator,omitempty"`
	Members    []string `json:"members,omitempty"`
	Member     string   `json:"member,omitempty"`
	SpendingID string   `json:"spending_id,omitempty"`
	Title      string   `json:"title,omitempty"`
	Payer      string   `json:"payer,omitempty"`
	Amount     string   `json:"amount,omitempty"`
	ForWho     []string `json:"for_who,omitempty"`
	Debtor     string   `json:"debtor,omitempty"`
	Creditor   string   `json:"creditor,omitempty"`
	Token      string   `json:"token,omitempty"`

	PoolID       string `json:"pool_id,omitempty"`
	Sender       string `json:"sender,omitempty"`
	Amount0      string `json:"amount0,omitempty"`
	Amount1      string `json:"amount1,omitempty"`
	SqrtPriceX96 string `json:"sqrt_price_x96,omitempty"`
	Liquidity    string `json:"liquidity,omitempty"`
	Tick         int64  `json:"tick,omitempty"`
}

// Decode parses one JSON-encoded event.
func Decode(data []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}

	meta := Meta{
		ChainID:        w.ChainID,
		Contract:       common.HexToAddress(w.Contract),
		TxHash:         common.HexToHash(w.TxHash),
		LogIndex:       w.LogIndex,
		BlockNumber:    w.BlockNumber,
		BlockTimestamp: w.BlockTimestamp,
	}
	var err error
	if meta.GasUsed, err = parseBigInt(w.GasUsed); err != nil {
		return nil, err
	}
	if meta.GasPrice, err = parseBigInt(w.GasPrice); err != nil {
		return nil, err
	}

	switch w.Kind {
	case KindSplitCreated:
		return &SplitCreated{
			Meta:           meta,
			SplitID:        w.SplitID,
			Creator:        common.HexToAddress(w.Creator),
			InitialMembers: parseAddresses(w.Members),
			DefaultToken:   common.HexToAddress(w.Token),
		}, nil
	case KindMemberAdded:
		return &MemberAdded{Meta: meta, SplitID: w.SplitID, Member: common.HexToAddress(w.Member)}, nil
	case KindMemberRemoved:
		return &MemberRemoved{Meta: meta, SplitID: w.SplitID, Member: common.HexToAddress(w.Member)}, nil
	case KindSpendingAdded:
		amount, err := parseBigInt(w.Amount)
		if err != nil {
			return nil, err
		}
		return &SpendingAdded{
			Meta:       meta,
			SplitID:    w.SplitID,
			SpendingID: w.SpendingID,
			Title:      w.Title,
			Payer:      common.HexToAddress(w.Payer),
			Amount:     amount,
			ForWho:     parseAddresses(w.ForWho),
			Token:      common.HexToAddress(w.Token),
		}, nil
	case KindDebtPaid:
		amount, err := parseBigInt(w.Amount)
		if err != nil {
			return nil, err
		}
		return &DebtPaid{
			Meta:     meta,
			SplitID:  w.SplitID,
			Debtor:   common.HexToAddress(w.Debtor),
			Creditor: common.HexToAddress(w.Creditor),
			Amount:   amount,
			Token:    common.HexToAddress(w.Token),
		}, nil
	case KindSwap:
		amount0, err := parseBigInt(w.Amount0)
		if err != nil {
			return nil, err
		}
		amount1, err := parseBigInt(w.Amount1)
		if err != nil {
			return nil, err
		}
		sqrtPrice, err := parseBigInt(w.SqrtPriceX96)
		if err != nil {
			return nil, err
		}
		liquidity, err := parseBigInt(w.Liquidity)
		if err != nil {
			return nil, err
		}
		return &Swap{
			Meta:         meta,
			PoolID:       w.PoolID,
			Sender:       common.HexToAddress(w.Sender),
			Amount0:      amount0,
			Amount1:      amount1,
			SqrtPriceX96: sqrtPrice,
			Liquidity:    liquidity,
			Tick:         w.Tick,
		}, nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", w.Kind)
	}
}

func parseBigInt(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer amount %q", s)
	}
	return v, nil
}

func parseAddresses(in []string) []common.Address {
	out := make([]common.Address, 0, len(in))
	for _, a := range in {
		out = append(out, common.HexToAddress(a))
	}
	return out
}
