package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/api"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/models"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/service"
)

func manager() models.User {
	return models.User{ID: 2, Username: "manager", IsStaff: true}
}

func orderFixture() []models.Order {
	return []models.Order{
		{ID: 1, Status: models.OrderStatusPending, StatusDisplay: "Ожидает обработки", TotalCost: 350},
		{ID: 2, Status: models.OrderStatusConfirmed, StatusDisplay: "Подтвержден", TotalCost: 999},
	}
}

func TestListFailsFastWithoutCredential(t *testing.T) {
	f := newFixture(t)
	m := service.NewManagerService(f.client, zerolog.Nop())

	err := m.List(context.Background())

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, api.KindAuthorization, apiErr.Kind)
	assert.Zero(t, f.totalRequests(), "no round-trip without a credential")
	assert.Empty(t, m.Orders())
}

func TestListSuccess(t *testing.T) {
	f := newFixture(t)
	f.authenticate(t, manager())
	serveJSON(f, "/manager/", orderFixture())
	m := service.NewManagerService(f.client, zerolog.Nop())

	require.NoError(t, m.List(context.Background()))

	require.Len(t, m.Orders(), 2)
	assert.Equal(t, "Ожидает обработки", m.Orders()[0].StatusDisplay)
}

func TestSetStatusUpdatesLocalRecordOnSuccess(t *testing.T) {
	f := newFixture(t)
	f.authenticate(t, manager())
	serveJSON(f, "/manager/", orderFixture())
	f.mux.HandleFunc("/orders/1/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "in_progress", body["status"])
		w.WriteHeader(http.StatusOK)
	})
	m := service.NewManagerService(f.client, zerolog.Nop())
	require.NoError(t, m.List(context.Background()))

	require.NoError(t, m.SetStatus(context.Background(), 1, models.OrderStatusInProgress))

	assert.Equal(t, models.OrderStatusInProgress, m.Orders()[0].Status)
	assert.Equal(t, "В работе", m.Orders()[0].StatusDisplay)
	assert.Equal(t, models.OrderStatusConfirmed, m.Orders()[1].Status, "other orders untouched")
	assert.False(t, m.Updating(1))
}

func TestSetStatusFailureLeavesRecordUntouched(t *testing.T) {
	f := newFixture(t)
	f.authenticate(t, manager())
	serveJSON(f, "/manager/", orderFixture())
	f.mux.HandleFunc("/orders/1/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Недопустимый переход статуса."}`))
	})
	m := service.NewManagerService(f.client, zerolog.Nop())
	require.NoError(t, m.List(context.Background()))

	err := m.SetStatus(context.Background(), 1, models.OrderStatusCompleted)

	require.Error(t, err)
	assert.Equal(t, models.OrderStatusPending, m.Orders()[0].Status)
	assert.Equal(t, "Ожидает обработки", m.Orders()[0].StatusDisplay)
	assert.False(t, m.Updating(1), "a failed transition unlocks the order")
}

func TestSetStatusSkipsWhileUpdateInFlight(t *testing.T) {
	f := newFixture(t)
	f.authenticate(t, manager())
	serveJSON(f, "/manager/", orderFixture())

	release := make(chan struct{})
	entered := make(chan struct{})
	var once sync.Once
	f.mux.HandleFunc("/orders/1/", func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(entered) })
		<-release
		w.WriteHeader(http.StatusOK)
	})
	m := service.NewManagerService(f.client, zerolog.Nop())
	require.NoError(t, m.List(context.Background()))

	done := make(chan error, 1)
	go func() {
		done <- m.SetStatus(context.Background(), 1, models.OrderStatusConfirmed)
	}()
	<-entered
	require.True(t, m.Updating(1))

	// A second edit on the same order while the first is in flight is a no-op.
	require.NoError(t, m.SetStatus(context.Background(), 1, models.OrderStatusCancelled))
	assert.Equal(t, 1, f.requests("PATCH /orders/1/"))

	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, models.OrderStatusConfirmed, m.Orders()[0].Status)
	assert.False(t, m.Updating(1))
}

func TestSetStatusAfterCloseDropsResult(t *testing.T) {
	f := newFixture(t)
	f.authenticate(t, manager())
	serveJSON(f, "/manager/", orderFixture())
	f.mux.HandleFunc("/orders/1/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	m := service.NewManagerService(f.client, zerolog.Nop())
	require.NoError(t, m.List(context.Background()))

	m.Close()
	require.NoError(t, m.SetStatus(context.Background(), 1, models.OrderStatusCompleted))

	assert.Equal(t, models.OrderStatusPending, m.Orders()[0].Status)
}
