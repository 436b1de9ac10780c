package repository

import (
	"context"

	"tonelero/pkg/model"
)

// EventoRepository is intentionally append-only: events can be created and
// listed, never updated or deleted.
type EventoRepository interface {
	AddEvento(ctx context.Context, evento model.EventoTonel) (*model.EventoTonel, error)
	GetEventos(ctx context.Context, tonelID *uint) ([]*model.EventoTonel, error)
}

func (r *Repository) AddEvento(ctx context.Context, evento model.EventoTonel) (*model.EventoTonel, error) {
	if result := r.DB.WithContext(ctx).Create(&evento); result.Error != nil {
		return nil, result.Error
	}

	return &evento, nil
}

// GetEventos lists events most recent first.
func (r *Repository) GetEventos(ctx context.Context, tonelID *uint) ([]*model.EventoTonel, error) {
	var eventos []*model.EventoTonel

	query := r.DB.WithContext(ctx).Order("fecha_evento DESC")

	if tonelID != nil {
		query = query.Where("tonel_id = ?", *tonelID)
	}

	if result := query.Find(&eventos); result.Error != nil {
		return nil, result.Error
	}

	return eventos, nil
}
