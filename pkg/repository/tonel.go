package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tonelero/pkg/model"
)

var (
	ErrTonelNotFound = errors.New("tonel not found")
	ErrTonelEnUso    = errors.New("tonel still referenced by lotes")
)

type TonelRepository interface {
	AddTonel(ctx context.Context, tonel model.Tonel) (*model.Tonel, error)
	GetToneles(ctx context.Context) ([]*model.Tonel, error)
	GetTonelByID(ctx context.Context, tonelID uint) (*model.Tonel, error)
	UpdateTonel(ctx context.Context, tonel *model.Tonel) (*model.Tonel, error)
	UpdateTonelStatusLocation(ctx context.Context, tonel *model.Tonel, evento model.EventoTonel) (*model.Tonel, error)
	DeleteTonel(ctx context.Context, tonelID uint) error
}

func (r *Repository) AddTonel(ctx context.Context, tonel model.Tonel) (*model.Tonel, error) {
	if result := r.DB.WithContext(ctx).Create(&tonel); result.Error != nil {
		return nil, result.Error
	}

	return &tonel, nil
}

func (r *Repository) GetToneles(ctx context.Context) ([]*model.Tonel, error) {
	var toneles []*model.Tonel

	result := r.DB.WithContext(ctx).
		Preload("Lotes", "status <> ?", model.LoteCompletado).
		Order("toneles.id").
		Find(&toneles)
	if result.Error != nil {
		r.Logger.Error("error listing toneles", zap.Error(result.Error))

		return nil, result.Error
	}

	return toneles, nil
}

func (r *Repository) GetTonelByID(ctx context.Context, tonelID uint) (*model.Tonel, error) {
	var tonel model.Tonel

	result := r.DB.WithContext(ctx).
		Preload("Lotes", "status <> ?", model.LoteCompletado).
		First(&tonel, tonelID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTonelNotFound
		}

		return nil, result.Error
	}

	return &tonel, nil
}

func (r *Repository) UpdateTonel(ctx context.Context, tonel *model.Tonel) (*model.Tonel, error) {
	if result := r.DB.WithContext(ctx).Omit("Lotes").Save(tonel); result.Error != nil {
		return nil, result.Error
	}

	return tonel, nil
}

// UpdateTonelStatusLocation persists a status/location change and its audit
// event in a single transaction. Either both land or neither does.
func (r *Repository) UpdateTonelStatusLocation(ctx context.Context, tonel *model.Tonel, evento model.EventoTonel) (*model.Tonel, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Omit("Lotes").Save(tonel); result.Error != nil {
			return result.Error
		}

		evento.TonelID = tonel.ID

		if result := tx.Create(&evento); result.Error != nil {
			return result.Error
		}

		return nil
	})
	if err != nil {
		r.Logger.Error("error updating tonel status", zap.Uint("tonel_id", tonel.ID), zap.Error(err))

		return nil, err
	}

	return tonel, nil
}

func (r *Repository) DeleteTonel(ctx context.Context, tonelID uint) error {
	var lotes int64

	if result := r.DB.WithContext(ctx).Model(&model.LoteProduccion{}).Where("tonel_id = ?", tonelID).Count(&lotes); result.Error != nil {
		return result.Error
	}

	if lotes > 0 {
		return ErrTonelEnUso
	}

	result := r.DB.WithContext(ctx).Delete(&model.Tonel{}, tonelID)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrTonelNotFound
	}

	return nil
}
