package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/api"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/forms"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/modal"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/models"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/session"
)

const FieldAddress = "address"

// ErrNoSelection is raised when ordering with an empty selection.
var ErrNoSelection = errors.New("Выберите хотя бы одну услугу для заказа")

// OrderService backs the service catalog: search, selection and the order
// dialog.
type OrderService struct {
	mu       sync.Mutex
	services []models.Service
	selected []int
	query    string
	form     *forms.State
	closed   bool

	client *api.Client
	gate   *session.Gate
	modals *modal.Controller
	log    zerolog.Logger
}

func NewOrderService(client *api.Client, gate *session.Gate, modals *modal.Controller, log zerolog.Logger) *OrderService {
	return &OrderService{
		form:   forms.New(),
		client: client,
		gate:   gate,
		modals: modals,
		log:    log,
	}
}

func (s *OrderService) FetchServices(ctx context.Context) error {
	services, err := s.client.Services(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("services fetch failed")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.services = services
	return nil
}

// Toggle flips a service in or out of the selection. A service appears at
// most once, so the total can never double-count.
func (s *OrderService) Toggle(serviceID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, id := range s.selected {
		if id == serviceID {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return
		}
	}
	s.selected = append(s.selected, serviceID)
}

func (s *OrderService) Selected() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.selected))
	copy(out, s.selected)
	return out
}

// TotalCost is the sum of the prices of the currently selected services.
func (s *OrderService) TotalCost() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

func (s *OrderService) totalLocked() float64 {
	var total float64
	for _, id := range s.selected {
		for _, svc := range s.services {
			if svc.ID == id {
				total += svc.Price
				break
			}
		}
	}
	return total
}

func (s *OrderService) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
}

// Filtered returns the services matching the search query by name or
// description, case-insensitive.
func (s *OrderService) Filtered() []models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.query == "" {
		return s.services
	}

	query := strings.ToLower(s.query)
	var out []models.Service
	for _, svc := range s.services {
		if strings.Contains(strings.ToLower(svc.Name), query) ||
			strings.Contains(strings.ToLower(svc.Description), query) {
			out = append(out, svc)
		}
	}
	return out
}

// BeginOrder opens the order dialog behind the access gate. An empty
// selection is rejected before the gate is even consulted.
func (s *OrderService) BeginOrder() error {
	s.mu.Lock()
	empty := len(s.selected) == 0
	s.mu.Unlock()
	if empty {
		return ErrNoSelection
	}

	s.gate.Guard(func() {
		s.mu.Lock()
		s.form.Reset()
		s.mu.Unlock()
		if err := s.modals.Open(modal.KindOrder, nil, nil); err != nil {
			s.log.Debug().Err(err).Msg("order modal not opened")
		}
	})
	return nil
}

// Create submits the order with the selection and the total computed at
// submission time.
func (s *OrderService) Create(ctx context.Context, address string) error {
	s.mu.Lock()
	violations := []string(nil)
	if strings.TrimSpace(address) == "" {
		violations = []string{"Поле «Адрес доставки» обязательно для заполнения"}
	}
	s.form.Set(FieldAddress, address)
	s.form.SetViolations(violations)
	if len(violations) > 0 || !s.form.BeginSubmit() {
		s.mu.Unlock()
		return nil
	}

	selected := make([]int, len(s.selected))
	copy(selected, s.selected)
	total := s.totalLocked()
	s.mu.Unlock()

	_, err := s.client.CreateOrder(ctx, api.CreateOrderRequest{
		Services:  selected,
		Address:   address,
		TotalCost: total,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}

	if err != nil {
		s.form.Fail(orderFailureMessage(err))
		return err
	}

	s.form.Succeed("Заказ успешно сформирован! С вами свяжутся в ближайшее время.")
	return nil
}

func (s *OrderService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *OrderService) Form() *forms.State {
	return s.form
}

func (s *OrderService) Services() []models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.services
}

func orderFailureMessage(err error) string {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind == api.KindConnection {
		return msgConnectionError
	}
	if apiErr.Detail != "" {
		return apiErr.Detail
	}
	return "Ошибка при создании заказа"
}
