package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/api"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/forms"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/modal"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/models"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/session"
)

const msgReviewFieldsRequired = "Все поля обязательны для заполнения"

// ReviewService backs the reviews screen: the combined reviews/services/
// ratings feed and the review composer dialog.
type ReviewService struct {
	mu       sync.Mutex
	reviews  []models.Review
	services []models.Service
	ratings  []models.Rating
	form     *forms.State
	closed   bool

	client *api.Client
	gate   *session.Gate
	modals *modal.Controller
	log    zerolog.Logger
}

func NewReviewService(client *api.Client, gate *session.Gate, modals *modal.Controller, log zerolog.Logger) *ReviewService {
	return &ReviewService{
		form:   forms.New(),
		client: client,
		gate:   gate,
		modals: modals,
		log:    log,
	}
}

// FetchAll loads reviews, services and ratings in parallel and fails as a
// group: either every list is applied in one step or none is.
func (s *ReviewService) FetchAll(ctx context.Context) error {
	var (
		reviews  []models.Review
		services []models.Service
		ratings  []models.Rating
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reviews, err = s.client.Reviews(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		services, err = s.client.Services(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ratings, err = s.client.Ratings(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Warn().Err(err).Msg("reviews fetch failed")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.reviews = reviews
	s.services = services
	s.ratings = ratings
	return nil
}

// OpenComposer shows the review dialog behind the access gate: an
// unauthenticated user gets the auth modal instead.
func (s *ReviewService) OpenComposer() {
	s.gate.Guard(func() {
		s.mu.Lock()
		s.form.Reset()
		s.mu.Unlock()
		if err := s.modals.Open(modal.KindReview, nil, nil); err != nil {
			s.log.Debug().Err(err).Msg("review modal not opened")
		}
	})
}

// Create submits a new review. All three inputs are required; local
// validation failure never reaches the network.
func (s *ReviewService) Create(ctx context.Context, serviceID, ratingID int, text string) error {
	s.mu.Lock()
	if serviceID == 0 || ratingID == 0 || text == "" {
		s.form.SetViolations([]string{msgReviewFieldsRequired})
		s.mu.Unlock()
		return nil
	}
	s.form.SetViolations(nil)
	if !s.form.BeginSubmit() {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	created, err := s.client.CreateReview(ctx, api.CreateReviewRequest{
		Service:     serviceID,
		Rating:      ratingID,
		Description: text,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}

	if err != nil {
		s.form.Fail(reviewFailureMessage(err))
		return err
	}

	// Optimistic local insertion; the list proper is refreshed by the next
	// FetchAll.
	s.reviews = append(s.reviews, created)
	s.form.Succeed("Отзыв успешно опубликован!")
	return nil
}

// Close marks the owning view gone; results of in-flight calls are dropped.
func (s *ReviewService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *ReviewService) Form() *forms.State {
	return s.form
}

func (s *ReviewService) Reviews() []models.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reviews
}

func (s *ReviewService) Services() []models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.services
}

func (s *ReviewService) Ratings() []models.Rating {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ratings
}

func reviewFailureMessage(err error) string {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind == api.KindConnection {
		return msgConnectionError
	}
	if apiErr.Detail != "" {
		return apiErr.Detail
	}
	return "Ошибка при создании отзыва"
}
