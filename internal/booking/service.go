// Package booking implements consultation booking: slot availability,
// submission, status transitions and the consultation history view.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sehat-sathi-server/internal/metrics"
	"sehat-sathi-server/internal/models"
	"sehat-sathi-server/internal/repository"
)

var bookingTracer = otel.Tracer("sehat.internal.booking")

// BookingRequest is the booking form submitted by a patient.
type BookingRequest struct {
	Date             string
	Time             string
	Type             models.ConsultationType
	Symptoms         string
	DoctorPreference string
	IsEmergency      bool
}

// Options wires the collaborators of a Service. Zero fields get defaults.
type Options struct {
	Assigner  Assigner
	Confirmer Confirmer
	Links     LinkGenerator
	Metrics   *metrics.BookingMetrics
	Logger    zerolog.Logger
	Location  *time.Location
	Now       func() time.Time
}

// Service books and manages consultations for users.
type Service struct {
	repo      repository.ConsultationRepository
	assigner  Assigner
	confirmer Confirmer
	links     LinkGenerator
	metrics   *metrics.BookingMetrics
	logger    zerolog.Logger
	loc       *time.Location
	now       func() time.Time
	locks     keyedMutex
}

// NewService creates a booking service over repo.
func NewService(repo repository.ConsultationRepository, opts Options) *Service {
	s := &Service{
		repo:      repo,
		assigner:  opts.Assigner,
		confirmer: opts.Confirmer,
		links:     opts.Links,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		loc:       opts.Location,
		now:       opts.Now,
	}
	if s.assigner == nil {
		s.assigner = FixedAssigner{EmergencyDoctor: "Dr. Emergency Smith", GeneralDoctor: "Dr. Available Jones"}
	}
	if s.confirmer == nil {
		s.confirmer = SimulatedConfirmer{Delay: 2 * time.Second}
	}
	if s.links == nil {
		s.links = RandomLinks{BaseURL: "https://meet.sehat-sathi.com"}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Book validates req, confirms it with the scheduling service and stores the
// new consultation. A slot already held by a scheduled consultation of the
// same user is rejected with ErrSlotUnavailable.
func (s *Service) Book(ctx context.Context, userID string, req BookingRequest) (*models.Consultation, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.book", trace.WithAttributes(
		attribute.String("consultation.type", string(req.Type)),
		attribute.Bool("consultation.emergency", req.IsEmergency),
	))
	defer span.End()

	c, err := s.book(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("consultation.id", c.ID))
	return c, nil
}

func (s *Service) book(ctx context.Context, userID string, req BookingRequest) (*models.Consultation, error) {
	symptoms := strings.TrimSpace(req.Symptoms)
	if err := s.validate(req.Date, req.Time, req.Type, symptoms); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load consultations: %w", err)
	}
	if !IsSlotAvailable(req.Date, req.Time, existing) {
		s.metrics.ObserveConflict()
		s.logger.Info().Str("user_id", userID).Str("date", req.Date).Str("time", req.Time).Msg("booking rejected: slot taken")
		return nil, ErrSlotUnavailable
	}

	c := &models.Consultation{
		BaseModel:        models.BaseModel{ID: uuid.NewString()},
		UserID:           userID,
		Date:             req.Date,
		Time:             req.Time,
		Type:             req.Type,
		Symptoms:         symptoms,
		DoctorPreference: strings.TrimSpace(req.DoctorPreference),
		IsEmergency:      req.IsEmergency,
		Status:           models.StatusScheduled,
	}

	started := time.Now()
	if err := s.confirmer.Confirm(ctx, c); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("booking not confirmed")
		return nil, fmt.Errorf("%w: %v", ErrNotConfirmed, err)
	}
	s.metrics.ObserveConfirmDuration(time.Since(started).Seconds())

	doctor, err := s.assigner.Assign(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("assign doctor: %w", err)
	}
	c.DoctorName = doctor
	c.MeetingLink = s.links.Generate(c.Type)

	now := s.now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := s.repo.Append(ctx, c); err != nil {
		return nil, fmt.Errorf("store consultation: %w", err)
	}

	s.metrics.ObserveBooked(string(c.Type), c.IsEmergency)
	s.logger.Info().
		Str("user_id", userID).
		Str("consultation_id", c.ID).
		Str("date", c.Date).
		Str("time", c.Time).
		Str("type", string(c.Type)).
		Bool("emergency", c.IsEmergency).
		Msg("consultation booked")
	return c, nil
}

func (s *Service) validate(date, slot string, t models.ConsultationType, symptoms string) error {
	day, err := time.ParseInLocation(DateLayout, date, s.loc)
	if err != nil {
		return ErrInvalidDate
	}
	if day.Before(s.today()) {
		return ErrDateInPast
	}
	if !IsKnownSlot(slot) {
		return ErrInvalidSlot
	}
	if !t.Valid() {
		return ErrInvalidType
	}
	if symptoms == "" {
		return ErrSymptomsRequired
	}
	return nil
}

func (s *Service) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

// Availability returns the slot grid for date. An empty date reports every
// slot as available without reading storage.
func (s *Service) Availability(ctx context.Context, userID, date string) ([]SlotAvailability, error) {
	if date == "" {
		return AvailabilityGrid("", nil), nil
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}
	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load consultations: %w", err)
	}
	return AvailabilityGrid(date, existing), nil
}

// List returns the user's consultations in booking order.
func (s *Service) List(ctx context.Context, userID string) ([]models.Consultation, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns one consultation of the user.
func (s *Service) Get(ctx context.Context, userID, id string) (*models.Consultation, error) {
	return s.repo.Get(ctx, userID, id)
}

// UpdateStatus moves a scheduled consultation to cancelled or completed.
// Completion is only accepted once the slot has started.
func (s *Service) UpdateStatus(ctx context.Context, userID, id string, status models.ConsultationStatus) (*models.Consultation, error) {
	if status != models.StatusCancelled && status != models.StatusCompleted {
		return nil, ErrInvalidTransition
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	c, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != models.StatusScheduled {
		return nil, ErrInvalidTransition
	}
	if status == models.StatusCompleted {
		start, err := SlotStart(c.Date, c.Time, s.loc)
		if err != nil || s.now().Before(start) {
			return nil, ErrInvalidTransition
		}
	}

	c.Status = status
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update consultation: %w", err)
	}
	s.metrics.ObserveTransition(string(status))
	s.logger.Info().Str("user_id", userID).Str("consultation_id", id).Str("status", string(status)).Msg("consultation status changed")
	return c, nil
}

// CompleteElapsed marks every scheduled consultation whose slot has ended as
// completed and returns how many were changed.
func (s *Service) CompleteElapsed(ctx context.Context) (int, error) {
	scheduled, err := s.repo.ListScheduled(ctx)
	if err != nil {
		return 0, fmt.Errorf("list scheduled: %w", err)
	}

	now := s.now()
	completed := 0
	for _, candidate := range scheduled {
		start, err := SlotStart(candidate.Date, candidate.Time, s.loc)
		if err != nil {
			s.logger.Warn().Str("consultation_id", candidate.ID).Msg("skipping consultation with unparseable slot")
			continue
		}
		if now.Before(start.Add(SlotDuration)) {
			continue
		}
		ok, err := s.completeIfScheduled(ctx, candidate.UserID, candidate.ID)
		if err != nil {
			return completed, err
		}
		if ok {
			completed++
		}
	}
	return completed, nil
}

func (s *Service) completeIfScheduled(ctx context.Context, userID, id string) (bool, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	c, err := s.repo.Get(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.Status != models.StatusScheduled {
		return false, nil
	}
	c.Status = models.StatusCompleted
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return false, fmt.Errorf("complete consultation: %w", err)
	}
	s.metrics.ObserveTransition(string(models.StatusCompleted))
	return true, nil
}

// Clear removes every consultation of the user.
func (s *Service) Clear(ctx context.Context, userID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.repo.Clear(ctx, userID)
}

// History returns the history projection filtered by search.
func (s *Service) History(ctx context.Context, userID, search string) ([]HistoryEntry, error) {
	consultations, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FilterHistory(BuildHistory(consultations), search), nil
}

// keyedMutex serializes work per key and forgets idle keys.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
