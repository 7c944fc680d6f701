package models

import "fmt"

type TransactionType string

const (
	TransactionTypeCreateSplit  TransactionType = "create_split"
	TransactionTypeAddMember    TransactionType = "add_member"
	TransactionTypeRemoveMember TransactionType = "remove_member"
	TransactionTypeAddSpending  TransactionType = "add_spending"
	TransactionTypePayDebt      TransactionType = "pay_debt"
)

// UserActivity holds cumulative per-address counters. Created on first event
// referencing the address, mutated additively, never deleted.
type UserActivity struct {
	ID               string      `gorm:"primaryKey" json:"id"` // lower-cased address
	ChainID          uint64      `gorm:"index" json:"chain_id"`
	TotalSpentETH    BigInt      `gorm:"type:text" json:"total_spent_eth"`
	TotalSpentUSD    BigInt      `gorm:"type:text" json:"total_spent_usd"`
	TotalReceivedETH BigInt      `gorm:"type:text" json:"total_received_eth"`
	TotalReceivedUSD BigInt      `gorm:"type:text" json:"total_received_usd"`
	TotalGasSpent    BigInt      `gorm:"type:text" json:"total_gas_spent"`
	TransactionCount uint64      `json:"transaction_count"`
	Splits           AddressList `gorm:"type:text" json:"splits"`
}

// Split is a group of participants sharing a running debt ledger.
type Split struct {
	ID           string      `gorm:"primaryKey" json:"id"`
	ChainID      uint64      `gorm:"index" json:"chain_id"`
	Creator      string      `gorm:"not null" json:"creator"`
	Members      AddressList `gorm:"type:text" json:"members"`
	DefaultToken string      `gorm:"not null" json:"default_token"`
	TotalDebt    BigInt      `gorm:"type:text" json:"total_debt"`
	Timestamp    uint64      `json:"timestamp"`
	TxHash       string      `json:"tx_hash"`
}

// Spending is one immutable recorded expense within a split.
type Spending struct {
	ID         string      `gorm:"primaryKey" json:"id"` // <splitID>-<spendingID>
	SplitID    string      `gorm:"index;not null" json:"split_id"`
	SpendingID string      `gorm:"not null" json:"spending_id"`
	Title      string      `json:"title"`
	Payer      string      `gorm:"not null" json:"payer"`
	Amount     BigInt      `gorm:"type:text" json:"amount"`
	ForWho     AddressList `gorm:"type:text" json:"for_who"`
	Token      string      `json:"token"`
	Timestamp  uint64      `json:"timestamp"`
	TxHash     string      `json:"tx_hash"`
}

// Debt is the outstanding balance debtor owes creditor within one split.
// The amount is not clamped at zero: an overpayment leaves a negative residual.
type Debt struct {
	ID        string `gorm:"primaryKey" json:"id"` // <splitID>-<debtor>-<creditor>
	SplitID   string `gorm:"index;not null" json:"split_id"`
	Debtor    string `gorm:"not null" json:"debtor"`
	Creditor  string `gorm:"not null" json:"creditor"`
	Amount    BigInt `gorm:"type:text" json:"amount"`
	IsPaid    bool   `gorm:"default:false" json:"is_paid"`
	PaidAt    uint64 `json:"paid_at,omitempty"`
	SettledTx string `json:"settled_tx,omitempty"`
}

// DebtPayment is one immutable payment event linked to a Debt. It is recorded
// even when no matching Debt row exists.
type DebtPayment struct {
	ID        string `gorm:"primaryKey" json:"id"` // <txHash>-<logIndex>
	DebtID    string `gorm:"index" json:"debt_id"`
	SplitID   string `gorm:"index;not null" json:"split_id"`
	Debtor    string `gorm:"not null" json:"debtor"`
	Creditor  string `gorm:"not null" json:"creditor"`
	Amount    BigInt `gorm:"type:text" json:"amount"`
	Token     string `json:"token"`
	Timestamp uint64 `json:"timestamp"`
	TxHash    string `json:"tx_hash"`
}

// Transaction is a generic ledger row tagged with the business event that
// produced it.
type Transaction struct {
	ID        string          `gorm:"primaryKey" json:"id"` // tx hash, or hash-suffix for multi-event txs
	ChainID   uint64          `gorm:"index" json:"chain_id"`
	Type      TransactionType `gorm:"not null" json:"type"`
	From      string          `gorm:"column:from_address;not null" json:"from"`
	To        string          `gorm:"column:to_address" json:"to"`
	Amount    BigInt          `gorm:"type:text" json:"amount"`
	Token     string          `json:"token"`
	GasUsed   BigInt          `gorm:"type:text" json:"gas_used"`
	GasPrice  BigInt          `gorm:"type:text" json:"gas_price"`
	Timestamp uint64          `json:"timestamp"`
	SplitID   string          `gorm:"index" json:"split_id,omitempty"`
}

// SpendingKey builds the composite Spending primary key.
func SpendingKey(splitID, spendingID string) string {
	return fmt.Sprintf("%s-%s", splitID, spendingID)
}

// DebtKey builds the composite Debt primary key.
func DebtKey(splitID, debtor, creditor string) string {
	return fmt.Sprintf("%s-%s-%s", splitID, debtor, creditor)
}

// DebtPaymentKey builds the composite DebtPayment primary key.
func DebtPaymentKey(txHash string, logIndex uint) string {
	return fmt.Sprintf("%s-%d", txHash, logIndex)
}

// TransactionKey builds the Transaction primary key. The log index suffix
// keeps rows distinct when one transaction emits several business events.
func TransactionKey(txHash string, logIndex uint) string {
	return fmt.Sprintf("%s-%d", txHash, logIndex)
}
