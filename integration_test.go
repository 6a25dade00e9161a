//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcost/service-route/internal/application"
	journeyDomain "github.com/tripcost/service-route/internal/domain/journey"
	"github.com/tripcost/service-route/internal/domain/route"
	"github.com/tripcost/service-route/internal/events"
	"github.com/tripcost/service-route/internal/repository"
)

var homeToWork = route.Journey{
	Coordinates: []route.Coordinate{
		{Latitude: 39.93333, Longitude: -0.1},
		{Latitude: 39.95, Longitude: -0.08},
		{Latitude: 39.98567, Longitude: -0.04935},
	},
	DistanceMeters:  10000,
	DurationSeconds: 720,
}

func f64(v float64) *float64 { return &v }

// TestSaveJourney_PersistsAndPublishes stores a journey, rejects a duplicate
// label and toggles the favourite flag through the optimistic update path.
func TestSaveJourney_PersistsAndPublishes(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupRouteStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	ctx := context.Background()
	ownerID := uuid.New()

	saved, err := stack.Journeys.SaveJourney(ctx, ownerID, application.SaveJourneyRequest{
		Label:   "Home to work",
		Journey: homeToWork,
		Cost:    &application.CostDTO{Amount: 0.987, Currency: "EUR"},
	})
	require.NoError(t, err)
	require.NotNil(t, saved.Cost)
	assert.Equal(t, 0.99, saved.Cost.Amount)

	_, err = stack.Journeys.SaveJourney(ctx, ownerID, application.SaveJourneyRequest{
		Label:   "Home to work",
		Journey: homeToWork,
	})
	assert.ErrorIs(t, err, journeyDomain.ErrJourneyAlreadyStored)

	toggled, err := stack.Journeys.ToggleFavorite(ctx, ownerID, saved.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsFavorite)
	assert.Equal(t, saved.Version+1, toggled.Version)

	page, err := stack.Journeys.ListJourneys(ctx, ownerID, true, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Len(t, page.Items[0].Coordinates, 3)

	ce := consumeOneEvent(t, infra.KafkaBrokers, journeyDomain.TopicJourneyEvents,
		journeyDomain.EventSaved, 15*time.Second)

	var evt journeyDomain.SavedEvent
	require.NoError(t, ce.ParseData(&evt))
	assert.Equal(t, saved.ID, evt.JourneyID)
	assert.Equal(t, ownerID, evt.OwnerID)
}

// TestUserDeleted_PurgesOwnedData verifies that a user.deleted event removes
// the user's journeys, vehicles and interest points and leaves other users alone.
func TestUserDeleted_PurgesOwnedData(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupRouteStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	ctx := context.Background()
	doomed, survivor := uuid.New(), uuid.New()

	for _, owner := range []uuid.UUID{doomed, survivor} {
		_, err := stack.Journeys.SaveJourney(ctx, owner, application.SaveJourneyRequest{Label: "Commute", Journey: homeToWork})
		require.NoError(t, err)
		_, err = stack.Vehicles.RegisterVehicle(ctx, owner, application.RegisterVehicleRequest{
			Brand: "Toyota", Model: "Corolla", Year: 2020, AverageConsumption: 5.5, Plate: "1171MSL", EnergyKind: "gasoline",
		})
		require.NoError(t, err)
		_, err = stack.Places.RegisterByCoordinates(ctx, owner, application.RegisterPlaceRequest{
			Name: "Home", Latitude: f64(39.93333), Longitude: f64(-0.1),
		})
		require.NoError(t, err)
	}

	consumerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(consumerCtx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	publishTestEvent(t, infra.KafkaBrokers, events.TopicUserEvents,
		"service-account", events.UserDeleted, events.UserDeletedEvent{UserID: doomed})

	require.Eventually(t, func() bool {
		return countOwned(t, infra.DB, &repository.JourneyModel{}, doomed) == 0 &&
			countOwned(t, infra.DB, &repository.VehicleModel{}, doomed) == 0 &&
			countOwned(t, infra.DB, &repository.InterestPointModel{}, doomed) == 0
	}, 15*time.Second, 200*time.Millisecond, "user data was not purged")

	assert.Equal(t, int64(1), countOwned(t, infra.DB, &repository.JourneyModel{}, survivor))
	assert.Equal(t, int64(1), countOwned(t, infra.DB, &repository.VehicleModel{}, survivor))
	assert.Equal(t, int64(1), countOwned(t, infra.DB, &repository.InterestPointModel{}, survivor))
}
