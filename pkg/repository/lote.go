package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tonelero/pkg/model"
)

var (
	ErrLoteNotFound = errors.New("lote not found")
	ErrLoteActivo   = errors.New("tonel already has an active lote")
)

type LoteRepository interface {
	AddLote(ctx context.Context, lote model.LoteProduccion) (*model.LoteProduccion, error)
	GetLotes(ctx context.Context, tonelID *uint) ([]*model.LoteProduccion, error)
	GetLoteByID(ctx context.Context, loteID uint) (*model.LoteProduccion, error)
	UpdateLote(ctx context.Context, lote *model.LoteProduccion) (*model.LoteProduccion, error)
	DeleteLote(ctx context.Context, loteID uint) error
}

// AddLote creates a lote, holding the one-active-lote-per-tonel invariant
// inside a transaction.
func (r *Repository) AddLote(ctx context.Context, lote model.LoteProduccion) (*model.LoteProduccion, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if lote.Status.Active() {
			var active int64

			result := tx.Model(&model.LoteProduccion{}).
				Where("tonel_id = ? AND status <> ?", lote.TonelID, model.LoteCompletado).
				Count(&active)
			if result.Error != nil {
				return result.Error
			}

			if active > 0 {
				return ErrLoteActivo
			}
		}

		if result := tx.Create(&lote); result.Error != nil {
			return result.Error
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &lote, nil
}

func (r *Repository) GetLotes(ctx context.Context, tonelID *uint) ([]*model.LoteProduccion, error) {
	var lotes []*model.LoteProduccion

	query := r.DB.WithContext(ctx).Order("id")

	if tonelID != nil {
		query = query.Where("tonel_id = ?", *tonelID)
	}

	if result := query.Find(&lotes); result.Error != nil {
		return nil, result.Error
	}

	return lotes, nil
}

func (r *Repository) GetLoteByID(ctx context.Context, loteID uint) (*model.LoteProduccion, error) {
	var lote model.LoteProduccion

	result := r.DB.WithContext(ctx).First(&lote, loteID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrLoteNotFound
		}

		return nil, result.Error
	}

	return &lote, nil
}

func (r *Repository) UpdateLote(ctx context.Context, lote *model.LoteProduccion) (*model.LoteProduccion, error) {
	if result := r.DB.WithContext(ctx).Save(lote); result.Error != nil {
		return nil, result.Error
	}

	return lote, nil
}

func (r *Repository) DeleteLote(ctx context.Context, loteID uint) error {
	result := r.DB.WithContext(ctx).Delete(&model.LoteProduccion{}, loteID)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrLoteNotFound
	}

	return nil
}
