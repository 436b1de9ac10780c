package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tonelero/pkg/model"
)

var ErrLocationNotFound = errors.New("location not found")

type LocationRepository interface {
	AddLocation(ctx context.Context, location model.Location) (*model.Location, error)
	GetLocations(ctx context.Context) ([]*model.Location, error)
	GetLocationByID(ctx context.Context, locationID uint) (*model.Location, error)
	UpdateLocation(ctx context.Context, location *model.Location) (*model.Location, error)
	DeleteLocation(ctx context.Context, locationID uint) error
}

func (r *Repository) AddLocation(ctx context.Context, location model.Location) (*model.Location, error) {
	if result := r.DB.WithContext(ctx).Create(&location); result.Error != nil {
		return nil, result.Error
	}

	return &location, nil
}

func (r *Repository) GetLocations(ctx context.Context) ([]*model.Location, error) {
	var locations []*model.Location

	if result := r.DB.WithContext(ctx).Order("name").Find(&locations); result.Error != nil {
		return nil, result.Error
	}

	return locations, nil
}

func (r *Repository) GetLocationByID(ctx context.Context, locationID uint) (*model.Location, error) {
	var location model.Location

	result := r.DB.WithContext(ctx).First(&location, locationID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}

		return nil, result.Error
	}

	return &location, nil
}

func (r *Repository) UpdateLocation(ctx context.Context, location *model.Location) (*model.Location, error) {
	if result := r.DB.WithContext(ctx).Save(location); result.Error != nil {
		return nil, result.Error
	}

	return location, nil
}

func (r *Repository) DeleteLocation(ctx context.Context, locationID uint) error {
	result := r.DB.WithContext(ctx).Delete(&model.Location{}, locationID)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrLocationNotFound
	}

	return nil
}
