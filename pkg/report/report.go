// Package report derives dashboard aggregates from the full collections.
package report

import (
	"sort"

	"tonelero/pkg/model"
	"tonelero/pkg/query"
)

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type StatusLocationCount struct {
	Status   string `json:"status"`
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// CountTonelesByStatus buckets toneles per status in domain order. Zero-count
// buckets are dropped once the collection is non-empty; for an empty
// collection every status is reported with a zero so "no data" reads
// differently from "no matches".
func CountTonelesByStatus(toneles []model.Tonel) []StatusCount {
	counts := make(map[model.TonelStatus]int, len(model.TonelStatusValues()))
	for _, t := range toneles {
		counts[t.Status]++
	}

	result := make([]StatusCount, 0, len(model.TonelStatusValues()))

	for _, status := range model.TonelStatusValues() {
		if counts[status] == 0 && len(toneles) > 0 {
			continue
		}

		result = append(result, StatusCount{Status: string(status), Count: counts[status]})
	}

	return result
}

func CountDispensadoresByStatus(dispensadores []model.Dispensador) []StatusCount {
	counts := make(map[model.DispensadorStatus]int, len(model.DispensadorStatusValues()))
	for _, d := range dispensadores {
		counts[d.Status]++
	}

	result := make([]StatusCount, 0, len(model.DispensadorStatusValues()))

	for _, status := range model.DispensadorStatusValues() {
		if counts[status] == 0 && len(dispensadores) > 0 {
			continue
		}

		result = append(result, StatusCount{Status: string(status), Count: counts[status]})
	}

	return result
}

// CountTonelesByStatusLocation breaks toneles down per status x location.
// Only populated buckets appear; rows come out in domain status order with
// locations collated within each status.
func CountTonelesByStatusLocation(toneles []model.Tonel) []StatusLocationCount {
	type bucket struct {
		status   model.TonelStatus
		location string
	}

	counts := make(map[bucket]int)
	for _, t := range toneles {
		counts[bucket{t.Status, t.Location}]++
	}

	result := make([]StatusLocationCount, 0, len(counts))
	for b, count := range counts {
		result = append(result, StatusLocationCount{Status: string(b.status), Location: b.location, Count: count})
	}

	order := statusOrder(model.TonelStatusValues())
	sort.Slice(result, func(i, j int) bool {
		if order[result[i].Status] != order[result[j].Status] {
			return order[result[i].Status] < order[result[j].Status]
		}

		return query.CompareStrings(result[i].Location, result[j].Location) < 0
	})

	return result
}

func CountDispensadoresByStatusLocation(dispensadores []model.Dispensador) []StatusLocationCount {
	type bucket struct {
		status   model.DispensadorStatus
		location string
	}

	counts := make(map[bucket]int)
	for _, d := range dispensadores {
		counts[bucket{d.Status, d.Location}]++
	}

	result := make([]StatusLocationCount, 0, len(counts))
	for b, count := range counts {
		result = append(result, StatusLocationCount{Status: string(b.status), Location: b.location, Count: count})
	}

	order := statusOrder(model.DispensadorStatusValues())
	sort.Slice(result, func(i, j int) bool {
		if order[result[i].Status] != order[result[j].Status] {
			return order[result[i].Status] < order[result[j].Status]
		}

		return query.CompareStrings(result[i].Location, result[j].Location) < 0
	})

	return result
}

func statusOrder[T ~string](values []T) map[string]int {
	order := make(map[string]int, len(values))
	for i, v := range values {
		order[string(v)] = i
	}

	return order
}

// LoteConTonel is a lote row joined with its owning tonel's serial.
type LoteConTonel struct {
	Lote    model.LoteProduccion
	NSerial string
}

// JoinLotesConTonel resolves each lote's owning tonel serial through an
// id-keyed index. A lote whose tonel is gone keeps an empty serial.
func JoinLotesConTonel(lotes []model.LoteProduccion, toneles []model.Tonel) []LoteConTonel {
	serials := make(map[uint]string, len(toneles))
	for _, t := range toneles {
		serials[t.ID] = t.NSerial
	}

	result := make([]LoteConTonel, 0, len(lotes))
	for _, lote := range lotes {
		result = append(result, LoteConTonel{Lote: lote, NSerial: serials[lote.TonelID]})
	}

	return result
}

// MttoRanking is an equipment row with its total maintenance count.
type MttoRanking struct {
	ID        uint   `json:"id"`
	NSerial   string `json:"nserial"`
	MttoCount int    `json:"mttoCount"`
}

// TopTonelesByMtto counts tasks per tonel, merges the counts into the tonel
// list, sorts descending and truncates to topN.
func TopTonelesByMtto(mttos []model.MttoTonel, toneles []model.Tonel, topN int) []MttoRanking {
	counts := make(map[uint]int, len(toneles))
	for _, mtto := range mttos {
		counts[mtto.TonelID]++
	}

	ranking := make([]MttoRanking, 0, len(toneles))
	for _, t := range toneles {
		ranking = append(ranking, MttoRanking{ID: t.ID, NSerial: t.NSerial, MttoCount: counts[t.ID]})
	}

	sort.SliceStable(ranking, func(i, j int) bool { return ranking[i].MttoCount > ranking[j].MttoCount })

	if len(ranking) > topN {
		ranking = ranking[:topN]
	}

	return ranking
}

func TopDispensadoresByMtto(mttos []model.MttoDispensador, dispensadores []model.Dispensador, topN int) []MttoRanking {
	counts := make(map[uint]int, len(dispensadores))
	for _, mtto := range mttos {
		counts[mtto.DispensadorID]++
	}

	ranking := make([]MttoRanking, 0, len(dispensadores))
	for _, d := range dispensadores {
		ranking = append(ranking, MttoRanking{ID: d.ID, NSerial: d.NSerial, MttoCount: counts[d.ID]})
	}

	sort.SliceStable(ranking, func(i, j int) bool { return ranking[i].MttoCount > ranking[j].MttoCount })

	if len(ranking) > topN {
		ranking = ranking[:topN]
	}

	return ranking
}

// MttoTonelByTipo groups task counts per tonel id and maintenance type.
func MttoTonelByTipo(mttos []model.MttoTonel) map[uint]map[string]int {
	result := make(map[uint]map[string]int)

	for _, mtto := range mttos {
		if result[mtto.TonelID] == nil {
			result[mtto.TonelID] = make(map[string]int)
		}

		result[mtto.TonelID][string(mtto.TipoMtto)]++
	}

	return result
}

// MttoTonelByFecha groups task counts per tonel id and start date (day).
func MttoTonelByFecha(mttos []model.MttoTonel) map[uint]map[string]int {
	result := make(map[uint]map[string]int)

	for _, mtto := range mttos {
		if result[mtto.TonelID] == nil {
			result[mtto.TonelID] = make(map[string]int)
		}

		result[mtto.TonelID][mtto.FechaIni.Format("2006-01-02")]++
	}

	return result
}

func MttoDispensadorByTipo(mttos []model.MttoDispensador) map[uint]map[string]int {
	result := make(map[uint]map[string]int)

	for _, mtto := range mttos {
		if result[mtto.DispensadorID] == nil {
			result[mtto.DispensadorID] = make(map[string]int)
		}

		result[mtto.DispensadorID][string(mtto.TipoMtto)]++
	}

	return result
}

func MttoDispensadorByFecha(mttos []model.MttoDispensador) map[uint]map[string]int {
	result := make(map[uint]map[string]int)

	for _, mtto := range mttos {
		if result[mtto.DispensadorID] == nil {
			result[mtto.DispensadorID] = make(map[string]int)
		}

		result[mtto.DispensadorID][mtto.FechaIni.Format("2006-01-02")]++
	}

	return result
}
