package models

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigInt_Value(t *testing.T) {
	tests := []struct {
		name     string
		input    BigInt
		expected string
	}{
		{
			name:     "zero_value",
			input:    ZeroBigInt(),
			expected: "0",
		},
		{
			name:     "positive_amount",
			input:    NewBigInt(big.NewInt(123456789)),
			expected: "123456789",
		},
		{
			name:     "negative_amount",
			input:    NewBigInt(big.NewInt(-42)),
			expected: "-42",
		},
		{
			name: "wei_scale_amount",
			input: func() BigInt {
				v, _ := new(big.Int).SetString("1000000000000000000000000", 10)
				return NewBigInt(v)
			}(),
			expected: "1000000000000000000000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := tt.input.Value()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestBigInt_Scan(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
		wantErr  bool
	}{
		{name: "nil_input", input: nil, expected: "0"},
		{name: "empty_string", input: "", expected: "0"},
		{name: "string_value", input: "987654321", expected: "987654321"},
		{name: "byte_value", input: []byte("-1000"), expected: "-1000"},
		{name: "int64_value", input: int64(77), expected: "77"},
		{name: "invalid_value", input: "not-a-number", wantErr: true},
		{name: "unsupported_type", input: 3.14, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b BigInt
			err := b.Scan(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, b.String())
			}
		})
	}
}

func TestBigInt_RoundTrip(t *testing.T) {
	original := NewBigInt(big.NewInt(31337))

	value, err := original.Value()
	require.NoError(t, err)

	var scanned BigInt
	require.NoError(t, scanned.Scan(value))
	assert.Zero(t, original.Cmp(&scanned.Int))
}

func TestNewBigInt_Copies(t *testing.T) {
	src := big.NewInt(100)
	b := NewBigInt(src)
	src.SetInt64(999)
	assert.Equal(t, "100", b.String())
}

func TestAddressList_ValueAndScan(t *testing.T) {
	list := AddressList{"0xaaa", "0xbbb", "0xccc"}

	value, err := list.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["0xaaa","0xbbb","0xccc"]`, value.(string))

	var scanned AddressList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, list, scanned)

	t.Run("nil_list", func(t *testing.T) {
		var empty AddressList
		value, err := empty.Value()
		require.NoError(t, err)
		assert.Equal(t, "[]", value)
	})

	t.Run("nil_input", func(t *testing.T) {
		var l AddressList
		require.NoError(t, l.Scan(nil))
		assert.Nil(t, l)
	})

	t.Run("unsupported_type", func(t *testing.T) {
		var l AddressList
		assert.Error(t, l.Scan(123))
	})
}

func TestAddressList_Contains(t *testing.T) {
	list := AddressList{"0xaaa", "0xbbb"}
	assert.True(t, list.Contains("0xaaa"))
	assert.False(t, list.Contains("0xccc"))
	assert.False(t, AddressList(nil).Contains("0xaaa"))
}

func TestAddressList_Remove(t *testing.T) {
	list := AddressList{"0xaaa", "0xbbb", "0xccc"}

	removed := list.Remove("0xbbb")
	assert.Equal(t, AddressList{"0xaaa", "0xccc"}, removed)

	// order is preserved and missing ids are a no-op
	assert.Equal(t, AddressList{"0xaaa", "0xccc"}, removed.Remove("0xzzz"))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "1-5", SpendingKey("1", "5"))
	assert.Equal(t, "1-0xb-0xa", DebtKey("1", "0xb", "0xa"))
	assert.Equal(t, "0xhash-3", DebtPaymentKey("0xhash", 3))
	assert.Equal(t, "0xhash-7", TransactionKey("0xhash", 7))
}
