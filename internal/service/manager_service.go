package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/api"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/models"
)

// ManagerService backs the privileged order board: the full order list and
// remote status transitions. Status values are an open set; the server
// decides which transitions are legal, the client only relays them.
type ManagerService struct {
	mu       sync.Mutex
	orders   []models.Order
	updating map[int]bool
	closed   bool

	client *api.Client
	log    zerolog.Logger
}

func NewManagerService(client *api.Client, log zerolog.Logger) *ManagerService {
	return &ManagerService{
		updating: make(map[int]bool),
		client:   client,
		log:      log,
	}
}

// List fetches every order. With no credential the client fails fast before
// any network round-trip; a rejected credential surfaces as an
// authorization error for the page, not a modal.
func (m *ManagerService) List(ctx context.Context) error {
	orders, err := m.client.ManagerOrders(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("manager orders fetch failed")
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.orders = orders
	return nil
}

// SetStatus performs a remote status transition. The local record changes
// only after the server confirms; on failure it is left untouched. While a
// transition is in flight further edits on that order are ignored.
func (m *ManagerService) SetStatus(ctx context.Context, orderID int, status models.OrderStatus) error {
	m.mu.Lock()
	if m.updating[orderID] {
		m.mu.Unlock()
		return nil
	}
	m.updating[orderID] = true
	m.mu.Unlock()

	err := m.client.UpdateOrderStatus(ctx, orderID, status)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.updating, orderID)
	if m.closed {
		return nil
	}

	if err != nil {
		m.log.Warn().Err(err).Int("order_id", orderID).Msg("status update failed")
		return err
	}

	for i := range m.orders {
		if m.orders[i].ID == orderID {
			m.orders[i].Status = status
			m.orders[i].StatusDisplay = status.DisplayName()
			break
		}
	}
	return nil
}

func (m *ManagerService) Updating(orderID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updating[orderID]
}

func (m *ManagerService) Orders() []models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders
}

func (m *ManagerService) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}
