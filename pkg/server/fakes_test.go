package server_test

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"tonelero/pkg/model"
	"tonelero/pkg/repository"
)

// In-memory repository fakes. Each one honours the same sentinel errors and
// ordering rules as the real gorm-backed repository.

type fakeTonelRepo struct {
	toneles map[uint]*model.Tonel
	eventos []model.EventoTonel
	enUso   map[uint]bool
	nextID  uint
}

func newFakeTonelRepo(toneles ...model.Tonel) *fakeTonelRepo {
	repo := &fakeTonelRepo{toneles: make(map[uint]*model.Tonel), enUso: make(map[uint]bool)}

	for i := range toneles {
		tonel := toneles[i]
		if tonel.ID == 0 {
			tonel.ID = repo.nextID + 1
		}

		if tonel.ID > repo.nextID {
			repo.nextID = tonel.ID
		}

		repo.toneles[tonel.ID] = &tonel
	}

	return repo
}

func (f *fakeTonelRepo) AddTonel(_ context.Context, tonel model.Tonel) (*model.Tonel, error) {
	f.nextID++
	tonel.ID = f.nextID
	f.toneles[tonel.ID] = &tonel

	return &tonel, nil
}

func (f *fakeTonelRepo) GetToneles(_ context.Context) ([]*model.Tonel, error) {
	result := make([]*model.Tonel, 0, len(f.toneles))
	for _, tonel := range f.toneles {
		result = append(result, tonel)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (f *fakeTonelRepo) GetTonelByID(_ context.Context, tonelID uint) (*model.Tonel, error) {
	tonel, ok := f.toneles[tonelID]
	if !ok {
		return nil, repository.ErrTonelNotFound
	}

	return tonel, nil
}

func (f *fakeTonelRepo) UpdateTonel(_ context.Context, tonel *model.Tonel) (*model.Tonel, error) {
	f.toneles[tonel.ID] = tonel

	return tonel, nil
}

func (f *fakeTonelRepo) UpdateTonelStatusLocation(_ context.Context, tonel *model.Tonel, evento model.EventoTonel) (*model.Tonel, error) {
	f.toneles[tonel.ID] = tonel
	evento.TonelID = tonel.ID
	f.eventos = append(f.eventos, evento)

	return tonel, nil
}

func (f *fakeTonelRepo) DeleteTonel(_ context.Context, tonelID uint) error {
	if f.enUso[tonelID] {
		return repository.ErrTonelEnUso
	}

	if _, ok := f.toneles[tonelID]; !ok {
		return repository.ErrTonelNotFound
	}

	delete(f.toneles, tonelID)

	return nil
}

type fakeLoteRepo struct {
	lotes  map[uint]*model.LoteProduccion
	nextID uint
}

func newFakeLoteRepo(lotes ...model.LoteProduccion) *fakeLoteRepo {
	repo := &fakeLoteRepo{lotes: make(map[uint]*model.LoteProduccion)}

	for i := range lotes {
		lote := lotes[i]
		if lote.ID == 0 {
			lote.ID = repo.nextID + 1
		}

		if lote.ID > repo.nextID {
			repo.nextID = lote.ID
		}

		repo.lotes[lote.ID] = &lote
	}

	return repo
}

func (f *fakeLoteRepo) AddLote(_ context.Context, lote model.LoteProduccion) (*model.LoteProduccion, error) {
	if lote.Status.Active() {
		for _, existing := range f.lotes {
			if existing.TonelID == lote.TonelID && existing.Status.Active() {
				return nil, repository.ErrLoteActivo
			}
		}
	}

	f.nextID++
	lote.ID = f.nextID
	f.lotes[lote.ID] = &lote

	return &lote, nil
}

func (f *fakeLoteRepo) GetLotes(_ context.Context, tonelID *uint) ([]*model.LoteProduccion, error) {
	result := make([]*model.LoteProduccion, 0, len(f.lotes))
	for _, lote := range f.lotes {
		if tonelID == nil || lote.TonelID == *tonelID {
			result = append(result, lote)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (f *fakeLoteRepo) GetLoteByID(_ context.Context, loteID uint) (*model.LoteProduccion, error) {
	lote, ok := f.lotes[loteID]
	if !ok {
		return nil, repository.ErrLoteNotFound
	}

	return lote, nil
}

func (f *fakeLoteRepo) UpdateLote(_ context.Context, lote *model.LoteProduccion) (*model.LoteProduccion, error) {
	f.lotes[lote.ID] = lote

	return lote, nil
}

func (f *fakeLoteRepo) DeleteLote(_ context.Context, loteID uint) error {
	if _, ok := f.lotes[loteID]; !ok {
		return repository.ErrLoteNotFound
	}

	delete(f.lotes, loteID)

	return nil
}

type fakeDispensadorRepo struct {
	dispensadores map[uint]*model.Dispensador
	nextID        uint
}

func newFakeDispensadorRepo(dispensadores ...model.Dispensador) *fakeDispensadorRepo {
	repo := &fakeDispensadorRepo{dispensadores: make(map[uint]*model.Dispensador)}

	for i := range dispensadores {
		dispensador := dispensadores[i]
		if dispensador.ID == 0 {
			dispensador.ID = repo.nextID + 1
		}

		if dispensador.ID > repo.nextID {
			repo.nextID = dispensador.ID
		}

		repo.dispensadores[dispensador.ID] = &dispensador
	}

	return repo
}

func (f *fakeDispensadorRepo) AddDispensador(_ context.Context, dispensador model.Dispensador) (*model.Dispensador, error) {
	f.nextID++
	dispensador.ID = f.nextID
	f.dispensadores[dispensador.ID] = &dispensador

	return &dispensador, nil
}

func (f *fakeDispensadorRepo) GetDispensadores(_ context.Context) ([]*model.Dispensador, error) {
	result := make([]*model.Dispensador, 0, len(f.dispensadores))
	for _, dispensador := range f.dispensadores {
		result = append(result, dispensador)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (f *fakeDispensadorRepo) GetDispensadorByID(_ context.Context, dispensadorID uint) (*model.Dispensador, error) {
	dispensador, ok := f.dispensadores[dispensadorID]
	if !ok {
		return nil, repository.ErrDispensadorNotFound
	}

	return dispensador, nil
}

func (f *fakeDispensadorRepo) UpdateDispensador(_ context.Context, dispensador *model.Dispensador) (*model.Dispensador, error) {
	f.dispensadores[dispensador.ID] = dispensador

	return dispensador, nil
}

func (f *fakeDispensadorRepo) DeleteDispensador(_ context.Context, dispensadorID uint) error {
	if _, ok := f.dispensadores[dispensadorID]; !ok {
		return repository.ErrDispensadorNotFound
	}

	delete(f.dispensadores, dispensadorID)

	return nil
}

type fakeMttoTonelRepo struct {
	mttos  map[uint]*model.MttoTonel
	nextID uint
}

func newFakeMttoTonelRepo(mttos ...model.MttoTonel) *fakeMttoTonelRepo {
	repo := &fakeMttoTonelRepo{mttos: make(map[uint]*model.MttoTonel)}

	for i := range mttos {
		mtto := mttos[i]
		if mtto.ID == 0 {
			mtto.ID = repo.nextID + 1
		}

		if mtto.ID > repo.nextID {
			repo.nextID = mtto.ID
		}

		repo.mttos[mtto.ID] = &mtto
	}

	return repo
}

func (f *fakeMttoTonelRepo) AddMttoTonel(_ context.Context, mtto model.MttoTonel) (*model.MttoTonel, error) {
	f.nextID++
	mtto.ID = f.nextID
	f.mttos[mtto.ID] = &mtto

	return &mtto, nil
}

func (f *fakeMttoTonelRepo) GetMttosTonel(_ context.Context, tonelID *uint) ([]*model.MttoTonel, error) {
	result := make([]*model.MttoTonel, 0, len(f.mttos))
	for _, mtto := range f.mttos {
		if tonelID == nil || mtto.TonelID == *tonelID {
			result = append(result, mtto)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (f *fakeMttoTonelRepo) GetMttoTonelByID(_ context.Context, mttoID uint) (*model.MttoTonel, error) {
	mtto, ok := f.mttos[mttoID]
	if !ok {
		return nil, repository.ErrMttoNotFound
	}

	return mtto, nil
}

func (f *fakeMttoTonelRepo) UpdateMttoTonel(_ context.Context, mtto *model.MttoTonel) (*model.MttoTonel, error) {
	f.mttos[mtto.ID] = mtto

	return mtto, nil
}

func (f *fakeMttoTonelRepo) DeleteMttoTonel(_ context.Context, mttoID uint) error {
	if _, ok := f.mttos[mttoID]; !ok {
		return repository.ErrMttoNotFound
	}

	delete(f.mttos, mttoID)

	return nil
}

type fakeMttoDispensadorRepo struct {
	mttos  map[uint]*model.MttoDispensador
	nextID uint
}

func newFakeMttoDispensadorRepo(mttos ...model.MttoDispensador) *fakeMttoDispensadorRepo {
	repo := &fakeMttoDispensadorRepo{mttos: make(map[uint]*model.MttoDispensador)}

	for i := range mttos {
		mtto := mttos[i]
		if mtto.ID == 0 {
			mtto.ID = repo.nextID + 1
		}

		if mtto.ID > repo.nextID {
			repo.nextID = mtto.ID
		}

		repo.mttos[mtto.ID] = &mtto
	}

	return repo
}

func (f *fakeMttoDispensadorRepo) AddMttoDispensador(_ context.Context, mtto model.MttoDispensador) (*model.MttoDispensador, error) {
	f.nextID++
	mtto.ID = f.nextID
	f.mttos[mtto.ID] = &mtto

	return &mtto, nil
}

func (f *fakeMttoDispensadorRepo) GetMttosDispensador(_ context.Context, dispensadorID *uint) ([]*model.MttoDispensador, error) {
	result := make([]*model.MttoDispensador, 0, len(f.mttos))
	for _, mtto := range f.mttos {
		if dispensadorID == nil || mtto.DispensadorID == *dispensadorID {
			result = append(result, mtto)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (f *fakeMttoDispensadorRepo) GetMttoDispensadorByID(_ context.Context, mttoID uint) (*model.MttoDispensador, error) {
	mtto, ok := f.mttos[mttoID]
	if !ok {
		return nil, repository.ErrMttoNotFound
	}

	return mtto, nil
}

func (f *fakeMttoDispensadorRepo) UpdateMttoDispensador(_ context.Context, mtto *model.MttoDispensador) (*model.MttoDispensador, error) {
	f.mttos[mtto.ID] = mtto

	return mtto, nil
}

func (f *fakeMttoDispensadorRepo) DeleteMttoDispensador(_ context.Context, mttoID uint) error {
	if _, ok := f.mttos[mttoID]; !ok {
		return repository.ErrMttoNotFound
	}

	delete(f.mttos, mttoID)

	return nil
}

type fakeEventoRepo struct {
	eventos []*model.EventoTonel
	nextID  uint
}

func newFakeEventoRepo(eventos ...model.EventoTonel) *fakeEventoRepo {
	repo := &fakeEventoRepo{}

	for i := range eventos {
		evento := eventos[i]
		repo.nextID++

		if evento.ID == 0 {
			evento.ID = repo.nextID
		}

		repo.eventos = append(repo.eventos, &evento)
	}

	return repo
}

func (f *fakeEventoRepo) AddEvento(_ context.Context, evento model.EventoTonel) (*model.EventoTonel, error) {
	f.nextID++
	evento.ID = f.nextID
	f.eventos = append(f.eventos, &evento)

	return &evento, nil
}

// GetEventos mirrors the real ordering: most recent first.
func (f *fakeEventoRepo) GetEventos(_ context.Context, tonelID *uint) ([]*model.EventoTonel, error) {
	result := make([]*model.EventoTonel, 0, len(f.eventos))
	for _, evento := range f.eventos {
		if tonelID == nil || evento.TonelID == *tonelID {
			result = append(result, evento)
		}
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].FechaEvento.After(result[j].FechaEvento) })

	return result, nil
}

type fakeLocationRepo struct {
	locations map[uint]*model.Location
	nextID    uint
}

func newFakeLocationRepo(locations ...model.Location) *fakeLocationRepo {
	repo := &fakeLocationRepo{locations: make(map[uint]*model.Location)}

	for i := range locations {
		location := locations[i]
		if location.ID == 0 {
			location.ID = repo.nextID + 1
		}

		if location.ID > repo.nextID {
			repo.nextID = location.ID
		}

		repo.locations[location.ID] = &location
	}

	return repo
}

func (f *fakeLocationRepo) AddLocation(_ context.Context, location model.Location) (*model.Location, error) {
	f.nextID++
	location.ID = f.nextID
	f.locations[location.ID] = &location

	return &location, nil
}

func (f *fakeLocationRepo) GetLocations(_ context.Context) ([]*model.Location, error) {
	result := make([]*model.Location, 0, len(f.locations))
	for _, location := range f.locations {
		result = append(result, location)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result, nil
}

func (f *fakeLocationRepo) GetLocationByID(_ context.Context, locationID uint) (*model.Location, error) {
	location, ok := f.locations[locationID]
	if !ok {
		return nil, repository.ErrLocationNotFound
	}

	return location, nil
}

func (f *fakeLocationRepo) UpdateLocation(_ context.Context, location *model.Location) (*model.Location, error) {
	f.locations[location.ID] = location

	return location, nil
}

func (f *fakeLocationRepo) DeleteLocation(_ context.Context, locationID uint) error {
	if _, ok := f.locations[locationID]; !ok {
		return repository.ErrLocationNotFound
	}

	delete(f.locations, locationID)

	return nil
}

func newTonel(id uint, nserial string, status model.TonelStatus, location string) model.Tonel {
	return model.Tonel{Model: gorm.Model{ID: id}, NSerial: nserial, Capacity: 50, Status: status, Location: location, VidaUtil: 10}
}
