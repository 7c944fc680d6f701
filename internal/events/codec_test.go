package events

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("split_created", func(t *testing.T) {
		data := []byte(`{
			"kind": "split_created",
			"chain_id": 1,
			"contract": "0x00000000000000000000000000000000000000ff",
			"tx_hash": "0x01",
			"log_index": 3,
			"block_number": 100,
			"block_timestamp": 1700000000,
			"gas_used": "21000",
			"gas_price": "2",
			"split_id": "1",
			"creator": "0xa1",
			"members": ["0xb2", "0xc3"],
			"token": "0x00"
		}`)

		evt, err := Decode(data)
		require.NoError(t, err)

		created, ok := evt.(*SplitCreated)
		require.True(t, ok)
		assert.Equal(t, KindSplitCreated, evt.Kind())
		assert.Equal(t, "1", created.SplitID)
		assert.Equal(t, common.HexToAddress("0xa1"), created.Creator)
		assert.Len(t, created.InitialMembers, 2)
		assert.Equal(t, uint64(1), created.ChainID)
		assert.Equal(t, uint(3), created.LogIndex)
		assert.Equal(t, "42000", created.GasCost().String())
	})

	t.Run("spending_added", func(t *testing.T) {
		data := []byte(`{
			"kind": "spending_added",
			"chain_id": 1,
			"split_id": "1",
			"spending_id": "5",
			"title": "dinner",
			"payer": "0xa1",
			"amount": "300",
			"for_who": ["0xa1", "0xb2"]
		}`)

		evt, err := Decode(data)
		require.NoError(t, err)

		spending, ok := evt.(*SpendingAdded)
		require.True(t, ok)
		assert.Equal(t, "dinner", spending.Title)
		assert.Equal(t, "300", spending.Amount.String())
		assert.Len(t, spending.ForWho, 2)
	})

	t.Run("swap", func(t *testing.T) {
		data := []byte(`{
			"kind": "swap",
			"chain_id": 1,
			"pool_id": "0xpool",
			"amount0": "-1000000000000000000",
			"amount1": "2000000000000000000",
			"sqrt_price_x96": "79228162514264337593543950336",
			"liquidity": "12345",
			"tick": -887220
		}`)

		evt, err := Decode(data)
		require.NoError(t, err)

		swap, ok := evt.(*Swap)
		require.True(t, ok)
		assert.Equal(t, "0xpool", swap.PoolID)
		assert.Equal(t, "-1000000000000000000", swap.Amount0.String())
		assert.Equal(t, int64(-887220), swap.Tick)
	})

	t.Run("missing_gas_defaults_to_zero", func(t *testing.T) {
		evt, err := Decode([]byte(`{"kind": "member_added", "split_id": "1", "member": "0xb2"}`))
		require.NoError(t, err)
		assert.Equal(t, "0", evt.Raw().GasCost().String())
	})

	t.Run("unknown_kind", func(t *testing.T) {
		_, err := Decode([]byte(`{"kind": "pool_drained"}`))
		assert.ErrorContains(t, err, "unknown event kind")
	})

	t.Run("invalid_amount", func(t *testing.T) {
		_, err := Decode([]byte(`{"kind": "debt_paid", "amount": "1.5"}`))
		assert.ErrorContains(t, err, "invalid integer amount")
	})

	t.Run("malformed_json", func(t *testing.T) {
		_, err := Decode([]byte(`{"kind":`))
		assert.Error(t, err)
	})
}
