package services

import (
	"github.com/rxtech-lab/split-indexer/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerService is the entity-store boundary for the split ledger aggregates.
// Lookups are always by exact key; absent rows surface gorm.ErrRecordNotFound
// and are soft-handled by callers. Saves are upserts; nothing is ever deleted.
type LedgerService interface {
	GetUserActivity(id string) (*models.UserActivity, error)
	SaveUserActivity(activity *models.UserActivity) error

	GetSplit(id string) (*models.Split, error)
	SaveSplit(split *models.Split) error
	ListSplits(skip, limit int) ([]models.Split, error)

	GetSpending(id string) (*models.Spending, error)
	SaveSpending(spending *models.Spending) error
	ListSpendingsBySplit(splitID string) ([]models.Spending, error)

	GetDebt(id string) (*models.Debt, error)
	SaveDebt(debt *models.Debt) error
	ListDebtsBySplit(splitID string) ([]models.Debt, error)

	GetDebtPayment(id string) (*models.DebtPayment, error)
	SaveDebtPayment(payment *models.DebtPayment) error

	GetTransaction(id string) (*models.Transaction, error)
	SaveTransaction(tx *models.Transaction) error
	ListTransactionsByUser(address string, skip, limit int) ([]models.Transaction, error)
}

type ledgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) LedgerService {
	return &ledgerService{db: db}
}

func upsert(db *gorm.DB, entity interface{}) error {
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(entity).Error
}

func (l *ledgerService) GetUserActivity(id string) (*models.UserActivity, error) {
	var activity models.UserActivity
	err := l.db.Where("id = ?", id).First(&activity).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (l *ledgerService) SaveUserActivity(activity *models.UserActivity) error {
	return upsert(l.db, activity)
}

func (l *ledgerService) GetSplit(id string) (*models.Split, error) {
	var split models.Split
	err := l.db.Where("id = ?", id).First(&split).Error
	if err != nil {
		return nil, err
	}
	return &split, nil
}

func (l *ledgerService) SaveSplit(split *models.Split) error {
	return upsert(l.db, split)
}

func (l *ledgerService) ListSplits(skip, limit int) ([]models.Split, error) {
	var splits []models.Split
	err := l.db.Offset(skip).Limit(limit).Find(&splits).Error
	if err != nil {
		return nil, err
	}
	return splits, nil
}

func (l *ledgerService) GetSpending(id string) (*models.Spending, error) {
	var spending models.Spending
	err := l.db.Where("id = ?", id).First(&spending).Error
	if err != nil {
		return nil, err
	}
	return &spending, nil
}

func (l *ledgerService) SaveSpending(spending *models.Spending) error {
	return upsert(l.db, spending)
}

func (l *ledgerService) ListSpendingsBySplit(splitID string) ([]models.Spending, error) {
	var spendings []models.Spending
	err := l.db.Where("split_id = ?", splitID).Find(&spendings).Error
	if err != nil {
		return nil, err
	}
	return spendings, nil
}

func (l *ledgerService) GetDebt(id string) (*models.Debt, error) {
	var debt models.Debt
	err := l.db.Where("id = ?", id).First(&debt).Error
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

func (l *ledgerService) SaveDebt(debt *models.Debt) error {
	return upsert(l.db, debt)
}

func (l *ledgerService) ListDebtsBySplit(splitID string) ([]models.Debt, error) {
	var debts []models.Debt
	err := l.db.Where("split_id = ?", splitID).Find(&debts).Error
	if err != nil {
		return nil, err
	}
	return debts, nil
}

func (l *ledgerService) GetDebtPayment(id string) (*models.DebtPayment, error) {
	var payment models.DebtPayment
	err := l.db.Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (l *ledgerService) SaveDebtPayment(payment *models.DebtPayment) error {
	return upsert(l.db, payment)
}

func (l *ledgerService) GetTransaction(id string) (*models.Transaction, error) {
	var tx models.Transaction
	err := l.db.Where("id = ?", id).First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (l *ledgerService) SaveTransaction(tx *models.Transaction) error {
	return upsert(l.db, tx)
}

func (l *ledgerService) ListTransactionsByUser(address string, skip, limit int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := l.db.Where("from_address = ? OR to_address = ?", address, address).
		Offset(skip).Limit(limit).Order("timestamp desc").Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}
