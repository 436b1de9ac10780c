package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tonelero/pkg/model"
)

var ErrMttoNotFound = errors.New("maintenance task not found")

type MttoTonelRepository interface {
	AddMttoTonel(ctx context.Context, mtto model.MttoTonel) (*model.MttoTonel, error)
	GetMttosTonel(ctx context.Context, tonelID *uint) ([]*model.MttoTonel, error)
	GetMttoTonelByID(ctx context.Context, mttoID uint) (*model.MttoTonel, error)
	UpdateMttoTonel(ctx context.Context, mtto *model.MttoTonel) (*model.MttoTonel, error)
	DeleteMttoTonel(ctx context.Context, mttoID uint) error
}

type MttoDispensadorRepository interface {
	AddMttoDispensador(ctx context.Context, mtto model.MttoDispensador) (*model.MttoDispensador, error)
	GetMttosDispensador(ctx context.Context, dispensadorID *uint) ([]*model.MttoDispensador, error)
	GetMttoDispensadorByID(ctx context.Context, mttoID uint) (*model.MttoDispensador, error)
	UpdateMttoDispensador(ctx context.Context, mtto *model.MttoDispensador) (*model.MttoDispensador, error)
	DeleteMttoDispensador(ctx context.Context, mttoID uint) error
}

func (r *Repository) AddMttoTonel(ctx context.Context, mtto model.MttoTonel) (*model.MttoTonel, error) {
	if result := r.DB.WithContext(ctx).Create(&mtto); result.Error != nil {
		return nil, result.Error
	}

	return &mtto, nil
}

func (r *Repository) GetMttosTonel(ctx context.Context, tonelID *uint) ([]*model.MttoTonel, error) {
	var mttos []*model.MttoTonel

	query := r.DB.WithContext(ctx).Order("id")

	if tonelID != nil {
		query = query.Where("tonel_id = ?", *tonelID)
	}

	if result := query.Find(&mttos); result.Error != nil {
		return nil, result.Error
	}

	return mttos, nil
}

func (r *Repository) GetMttoTonelByID(ctx context.Context, mttoID uint) (*model.MttoTonel, error) {
	var mtto model.MttoTonel

	result := r.DB.WithContext(ctx).First(&mtto, mttoID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMttoNotFound
		}

		return nil, result.Error
	}

	return &mtto, nil
}

func (r *Repository) UpdateMttoTonel(ctx context.Context, mtto *model.MttoTonel) (*model.MttoTonel, error) {
	if result := r.DB.WithContext(ctx).Save(mtto); result.Error != nil {
		return nil, result.Error
	}

	return mtto, nil
}

func (r *Repository) DeleteMttoTonel(ctx context.Context, mttoID uint) error {
	result := r.DB.WithContext(ctx).Delete(&model.MttoTonel{}, mttoID)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrMttoNotFound
	}

	return nil
}

func (r *Repository) AddMttoDispensador(ctx context.Context, mtto model.MttoDispensador) (*model.MttoDispensador, error) {
	if result := r.DB.WithContext(ctx).Create(&mtto); result.Error != nil {
		return nil, result.Error
	}

	return &mtto, nil
}

func (r *Repository) GetMttosDispensador(ctx context.Context, dispensadorID *uint) ([]*model.MttoDispensador, error) {
	var mttos []*model.MttoDispensador

	query := r.DB.WithContext(ctx).Order("id")

	if dispensadorID != nil {
		query = query.Where("dispensador_id = ?", *dispensadorID)
	}

	if result := query.Find(&mttos); result.Error != nil {
		return nil, result.Error
	}

	return mttos, nil
}

func (r *Repository) GetMttoDispensadorByID(ctx context.Context, mttoID uint) (*model.MttoDispensador, error) {
	var mtto model.MttoDispensador

	result := r.DB.WithContext(ctx).First(&mtto, mttoID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMttoNotFound
		}

		return nil, result.Error
	}

	return &mtto, nil
}

func (r *Repository) UpdateMttoDispensador(ctx context.Context, mtto *model.MttoDispensador) (*model.MttoDispensador, error) {
	if result := r.DB.WithContext(ctx).Save(mtto); result.Error != nil {
		return nil, result.Error
	}

	return mtto, nil
}

func (r *Repository) DeleteMttoDispensador(ctx context.Context, mttoID uint) error {
	result := r.DB.WithContext(ctx).Delete(&model.MttoDispensador{}, mttoID)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrMttoNotFound
	}

	return nil
}
