// Package lifecycle holds the status state machines for toneles and
// dispensadores and the date gating rules for lotes and maintenance tasks.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"tonelero/pkg/model"
)

var (
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidDates      = errors.New("invalid dates")
	ErrInvalidValue      = errors.New("invalid value")
)

// Allowed tonel transitions. A same-status update (pure relocation) is always
// legal and not listed here.
var tonelTransitions = map[model.TonelStatus][]model.TonelStatus{
	model.TonelVacio:         {model.TonelLleno, model.TonelMantenimiento, model.TonelFueraServicio},
	model.TonelLleno:         {model.TonelAsignado, model.TonelVacio, model.TonelMantenimiento, model.TonelFueraServicio},
	model.TonelAsignado:      {model.TonelVacio, model.TonelMantenimiento, model.TonelFueraServicio},
	model.TonelMantenimiento: {model.TonelVacio, model.TonelFueraServicio},
	model.TonelFueraServicio: {model.TonelMantenimiento},
}

var dispensadorTransitions = map[model.DispensadorStatus][]model.DispensadorStatus{
	model.DispensadorAsignado:      {model.DispensadorMantenimiento, model.DispensadorFueraServicio},
	model.DispensadorMantenimiento: {model.DispensadorAsignado, model.DispensadorFueraServicio},
	model.DispensadorFueraServicio: {model.DispensadorMantenimiento},
}

func ValidateTonelTransition(from, to model.TonelStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}

	if from == to {
		return nil
	}

	for _, allowed := range tonelTransitions[from] {
		if allowed == to {
			return nil
		}
	}

	return fmt.Errorf("%w: %q -> %q", ErrInvalidTransition, from, to)
}

func ValidateDispensadorTransition(from, to model.DispensadorStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}

	if from == to {
		return nil
	}

	for _, allowed := range dispensadorTransitions[from] {
		if allowed == to {
			return nil
		}
	}

	return fmt.Errorf("%w: %q -> %q", ErrInvalidTransition, from, to)
}

// MttoTonelAcceptsFin reports whether a tonel maintenance task in this status
// carries an end date. Only completed tonel tasks do; a cancelled tonel task
// keeps no end date.
func MttoTonelAcceptsFin(status model.MttoStatus) bool {
	return status == model.MttoCompletado
}

// MttoDispensadorAcceptsFin reports whether a dispensador maintenance task in
// this status carries an end date.
func MttoDispensadorAcceptsFin(status model.MttoStatus) bool {
	return status == model.MttoCompletado || status == model.MttoCancelado
}

// ValidateMttoDates enforces that fechafin is present exactly when the status
// accepts one and never precedes fechaini.
func ValidateMttoDates(acceptsFin bool, fechaini time.Time, fechafin *time.Time) error {
	if fechafin == nil {
		return nil
	}

	if !acceptsFin {
		return fmt.Errorf("%w: fechafin only allowed on a finished task", ErrInvalidDates)
	}

	if fechafin.Before(fechaini) {
		return fmt.Errorf("%w: fechafin precedes fechaini", ErrInvalidDates)
	}

	return nil
}

// ResolveMttoFin strips an end date the status does not accept and defaults a
// missing end date to today when the task has finished. Days are reckoned in
// UTC, like all wire dates.
func ResolveMttoFin(acceptsFin bool, fechafin *time.Time, now time.Time) *time.Time {
	if !acceptsFin {
		return nil
	}

	if fechafin == nil {
		today := now.UTC().Truncate(24 * time.Hour)

		return &today
	}

	return fechafin
}

// ValidateLote checks the cross-field rules of a production lote: positive
// volume and the salprod-iff-packaged invariant.
func ValidateLote(lote *model.LoteProduccion) error {
	var err error

	if !lote.Style.Valid() {
		err = multierr.Append(err, fmt.Errorf("%w: style %q", ErrInvalidStatus, lote.Style))
	}

	if !lote.Status.Valid() {
		err = multierr.Append(err, fmt.Errorf("%w: %q", ErrInvalidStatus, lote.Status))

		return err
	}

	if lote.Volumen <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: volumen must be positive", ErrInvalidValue))
	}

	if lote.Status.RequiresSalProd() && lote.SalProd == nil {
		err = multierr.Append(err, fmt.Errorf("%w: salprod required for status %q", ErrInvalidDates, lote.Status))
	}

	if !lote.Status.RequiresSalProd() && lote.SalProd != nil {
		err = multierr.Append(err, fmt.Errorf("%w: salprod not allowed for status %q", ErrInvalidDates, lote.Status))
	}

	if lote.SalProd != nil && lote.SalProd.Before(lote.EntProd) {
		err = multierr.Append(err, fmt.Errorf("%w: salprod precedes entprod", ErrInvalidDates))
	}

	return err
}
