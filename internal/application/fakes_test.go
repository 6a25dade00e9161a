package application

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	journeyDomain "github.com/tripcost/service-route/internal/domain/journey"
	placeDomain "github.com/tripcost/service-route/internal/domain/place"
	"github.com/tripcost/service-route/internal/domain/route"
	vehicleDomain "github.com/tripcost/service-route/internal/domain/vehicle"
	"github.com/tripcost/service-route/internal/platform/domain"
	"github.com/tripcost/service-route/internal/platform/kafka"
)

// --- journeys ---

type memJourneyRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*journeyDomain.StoredJourney
	err  error
}

func newMemJourneyRepo() *memJourneyRepo {
	return &memJourneyRepo{byID: map[uuid.UUID]*journeyDomain.StoredJourney{}}
}

func (r *memJourneyRepo) FindByID(_ context.Context, id uuid.UUID) (*journeyDomain.StoredJourney, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("Journey", id.String())
	}
	return j, nil
}

func (r *memJourneyRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID, favoritesOnly bool, page, limit int) ([]*journeyDomain.StoredJourney, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*journeyDomain.StoredJourney
	for _, j := range r.byID {
		if j.OwnerID() != ownerID || (favoritesOnly && !j.IsFavorite()) {
			continue
		}
		all = append(all, j)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].Label() < all[b].Label() })

	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r *memJourneyRepo) ExistsByLabel(_ context.Context, ownerID uuid.UUID, label string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	for _, j := range r.byID {
		if j.OwnerID() == ownerID && j.Label() == label {
			return true, nil
		}
	}
	return false, nil
}

func (r *memJourneyRepo) Save(_ context.Context, j *journeyDomain.StoredJourney) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[j.ID()] = j
	return nil
}

func (r *memJourneyRepo) Update(_ context.Context, j *journeyDomain.StoredJourney) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[j.ID()] = j
	return nil
}

func (r *memJourneyRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *memJourneyRepo) DeleteByOwnerID(_ context.Context, ownerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, j := range r.byID {
		if j.OwnerID() == ownerID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

// --- vehicles ---

type memVehicleRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*vehicleDomain.Vehicle
}

func newMemVehicleRepo() *memVehicleRepo {
	return &memVehicleRepo{byID: map[uuid.UUID]*vehicleDomain.Vehicle{}}
}

func (r *memVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*vehicleDomain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("Vehicle", id.String())
	}
	return v, nil
}

func (r *memVehicleRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID) ([]*vehicleDomain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*vehicleDomain.Vehicle
	for _, v := range r.byID {
		if v.OwnerID() == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memVehicleRepo) ExistsByPlate(_ context.Context, ownerID uuid.UUID, plate string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.byID {
		if v.OwnerID() == ownerID && v.Plate() == plate {
			return true, nil
		}
	}
	return false, nil
}

func (r *memVehicleRepo) Save(_ context.Context, v *vehicleDomain.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[v.ID()] = v
	return nil
}

func (r *memVehicleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *memVehicleRepo) DeleteByOwnerID(_ context.Context, ownerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, v := range r.byID {
		if v.OwnerID() == ownerID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

// --- interest points ---

type memPlaceRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*placeDomain.InterestPoint
}

func newMemPlaceRepo() *memPlaceRepo {
	return &memPlaceRepo{byID: map[uuid.UUID]*placeDomain.InterestPoint{}}
}

func (r *memPlaceRepo) Save(_ context.Context, p *placeDomain.InterestPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID()] = p
	return nil
}

func (r *memPlaceRepo) FindByID(_ context.Context, id uuid.UUID) (*placeDomain.InterestPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("InterestPoint", id.String())
	}
	return p, nil
}

func (r *memPlaceRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID) ([]*placeDomain.InterestPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*placeDomain.InterestPoint
	for _, p := range r.byID {
		if p.OwnerID() == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPlaceRepo) ExistsByName(_ context.Context, ownerID uuid.UUID, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.OwnerID() == ownerID && p.Name() == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPlaceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *memPlaceRepo) DeleteByOwnerID(_ context.Context, ownerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.byID {
		if p.OwnerID() == ownerID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

// --- collaborators ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type stubGeocoder struct {
	coords map[string]route.Coordinate
	calls  int
}

func (g *stubGeocoder) Geocode(_ context.Context, toponym string) (route.Coordinate, error) {
	g.calls++
	c, ok := g.coords[toponym]
	if !ok {
		return route.Coordinate{}, placeDomain.ErrInvalidToponym
	}
	return c, nil
}

type stubDirections struct {
	journey route.Journey
	err     error
	calls   int
	last    route.RouteRequest
}

func (d *stubDirections) Route(_ context.Context, origin, destination route.NamedPoint, pref route.RoutingPreference, vehicle route.Vehicle) (route.Journey, error) {
	d.calls++
	d.last = route.RouteRequest{Origin: origin, Destination: destination, Preference: pref, Vehicle: vehicle}
	return d.journey, d.err
}

type stubFuel struct{ price float64 }

func (f stubFuel) UnitPrice(context.Context, route.FuelKind, route.Coordinate) (float64, error) {
	return f.price, nil
}

type stubElectricity struct{ price float64 }

func (e stubElectricity) UnitPrice(context.Context) (float64, error) {
	return e.price, nil
}
