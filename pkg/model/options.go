package model

import "strings"

// SelectOption is a value/label pair for UI dropdowns. The option tables below
// are built once from the enum value lists.
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var (
	TonelStatusOptions         = options(TonelStatusValues())
	DispensadorStatusOptions   = options(DispensadorStatusValues())
	LoteStyleOptions           = options(LoteStyleValues())
	LoteStatusOptions          = options(LoteStatusValues())
	MttoStatusOptions          = options(MttoStatusValues())
	MttoTonelTipoOptions       = options(MttoTonelTipoValues())
	MttoDispensadorTipoOptions = options(MttoDispensadorTipoValues())
	EventoTonelTipoOptions     = options(EventoTonelTipoValues())
)

func options[T ~string](values []T) []SelectOption {
	opts := make([]SelectOption, 0, len(values))
	for _, v := range values {
		opts = append(opts, SelectOption{Value: string(v), Label: capitalize(string(v))})
	}

	return opts
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
