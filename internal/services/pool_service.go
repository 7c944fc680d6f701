package services

import (
	"github.com/rxtech-lab/split-indexer/internal/models"
	"gorm.io/gorm"
)

// PoolService is the entity-store boundary for the liquidity-pool aggregates.
// It satisfies pricing.Store.
type PoolService interface {
	GetPool(id string) (*models.Pool, error)
	SavePool(pool *models.Pool) error
	ListPools(skip, limit int) ([]models.Pool, error)

	GetToken(id string) (*models.Token, error)
	SaveToken(token *models.Token) error

	GetBundle(id string) (*models.Bundle, error)
	SaveBundle(bundle *models.Bundle) error

	GetPoolManager(id string) (*models.PoolManager, error)
	SavePoolManager(manager *models.PoolManager) error

	GetHookStats(id string) (*models.HookStats, error)
	SaveHookStats(stats *models.HookStats) error
}

type poolService struct {
	db *gorm.DB
}

func NewPoolService(db *gorm.DB) PoolService {
	return &poolService{db: db}
}

func (p *poolService) GetPool(id string) (*models.Pool, error) {
	var pool models.Pool
	err := p.db.Where("id = ?", id).First(&pool).Error
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

func (p *poolService) SavePool(pool *models.Pool) error {
	return upsert(p.db, pool)
}

func (p *poolService) ListPools(skip, limit int) ([]models.Pool, error) {
	var pools []models.Pool
	err := p.db.Offset(skip).Limit(limit).Find(&pools).Error
	if err != nil {
		return nil, err
	}
	return pools, nil
}

func (p *poolService) GetToken(id string) (*models.Token, error) {
	var token models.Token
	err := p.db.Where("id = ?", id).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (p *poolService) SaveToken(token *models.Token) error {
	return upsert(p.db, token)
}

func (p *poolService) GetBundle(id string) (*models.Bundle, error) {
	var bundle models.Bundle
	err := p.db.Where("id = ?", id).First(&bundle).Error
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (p *poolService) SaveBundle(bundle *models.Bundle) error {
	return upsert(p.db, bundle)
}

func (p *poolService) GetPoolManager(id string) (*models.PoolManager, error) {
	var manager models.PoolManager
	err := p.db.Where("id = ?", id).First(&manager).Error
	if err != nil {
		return nil, err
	}
	return &manager, nil
}

func (p *poolService) SavePoolManager(manager *models.PoolManager) error {
	return upsert(p.db, manager)
}

func (p *poolService) GetHookStats(id string) (*models.HookStats, error) {
	var stats models.HookStats
	err := p.db.Where("id = ?", id).First(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (p *poolService) SaveHookStats(stats *models.HookStats) error {
	return upsert(p.db, stats)
}
