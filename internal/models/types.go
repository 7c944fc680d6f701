package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math/big"
)

// BigInt stores an exact integer amount (token wei units) as a decimal string column.
// Monetary amounts never touch floating point.
type BigInt struct {
	big.Int
}

// NewBigInt copies i into a BigInt. A nil input yields zero.
func NewBigInt(i *big.Int) BigInt {
	var b BigInt
	if i != nil {
		b.Set(i)
	}
	return b
}

// ZeroBigInt returns a zero-valued amount.
func ZeroBigInt() BigInt {
	return BigInt{}
}

// Implement the driver.Valuer interface for BigInt type
func (b BigInt) Value() (driver.Value, error) {
	return b.String(), nil
}

// Implement the sql.Scanner interface for BigInt type
func (b *BigInt) Scan(value interface{}) error {
	if value == nil {
		b.SetInt64(0)
		return nil
	}

	var s string
	switch v := value.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	case int64:
		b.SetInt64(v)
		return nil
	default:
		return errors.New("type assertion for big integer column failed")
	}

	if s == "" {
		b.SetInt64(0)
		return nil
	}

	if _, ok := b.SetString(s, 10); !ok {
		return errors.New("invalid big integer column value: " + s)
	}
	return nil
}

func (BigInt) GormDataType() string {
	return "text"
}

// AddressList is an ordered set of lower-cased identifiers (addresses or split ids)
// stored as a JSON array column.
type AddressList []string

// Implement the driver.Valuer interface for AddressList type
func (l AddressList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Implement the sql.Scanner interface for AddressList type
func (l *AddressList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	if len(bytes) == 0 {
		*l = nil
		return nil
	}

	return json.Unmarshal(bytes, l)
}

func (AddressList) GormDataType() string {
	return "text"
}

// Contains reports whether the list already holds id.
func (l AddressList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Remove returns the list with every occurrence of id removed, order preserved.
func (l AddressList) Remove(id string) AddressList {
	out := make(AddressList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
