package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tonelero/pkg/model"
)

var ErrDispensadorNotFound = errors.New("dispensador not found")

type DispensadorRepository interface {
	AddDispensador(ctx context.Context, dispensador model.Dispensador) (*model.Dispensador, error)
	GetDispensadores(ctx context.Context) ([]*model.Dispensador, error)
	GetDispensadorByID(ctx context.Context, dispensadorID uint) (*model.Dispensador, error)
	UpdateDispensador(ctx context.Context, dispensador *model.Dispensador) (*model.Dispensador, error)
	DeleteDispensador(ctx context.Context, dispensadorID uint) error
}

func (r *Repository) AddDispensador(ctx context.Context, dispensador model.Dispensador) (*model.Dispensador, error) {
	if result := r.DB.WithContext(ctx).Create(&dispensador); result.Error != nil {
		return nil, result.Error
	}

	return &dispensador, nil
}

func (r *Repository) GetDispensadores(ctx context.Context) ([]*model.Dispensador, error) {
	var dispensadores []*model.Dispensador

	if result := r.DB.WithContext(ctx).Order("id").Find(&dispensadores); result.Error != nil {
		return nil, result.Error
	}

	return dispensadores, nil
}

func (r *Repository) GetDispensadorByID(ctx context.Context, dispensadorID uint) (*model.Dispensador, error) {
	var dispensador model.Dispensador

	result := r.DB.WithContext(ctx).First(&dispensador, dispensadorID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrDispensadorNotFound
		}

		return nil, result.Error
	}

	return &dispensador, nil
}

func (r *Repository) UpdateDispensador(ctx context.Context, dispensador *model.Dispensador) (*model.Dispensador, error) {
	if result := r.DB.WithContext(ctx).Save(dispensador); result.Error != nil {
		return nil, result.Error
	}

	return dispensador, nil
}

func (r *Repository) DeleteDispensador(ctx context.Context, dispensadorID uint) error {
	result := r.DB.WithContext(ctx).Delete(&model.Dispensador{}, dispensadorID)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrDispensadorNotFound
	}

	return nil
}
