package service

import (
	"context"
	"errors"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateBooking inserts a WAITING booking. Overlapping bookings of the same
// item are not rejected here.
func (s *BookingService) CreateBooking(ctx context.Context, bookerID int64, create models.BookingCreate) (*models.Booking, error) {
	if err := requireUser(ctx, s.repo, bookerID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItemByID(ctx, create.ItemID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFoundf("item with id %d not found", create.ItemID)
	}
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, apperr.BadRequestf("item %d is not available", item.ID)
	}
	if item.OwnerID == bookerID {
		return nil, apperr.Forbiddenf("owner cannot book own item %d", item.ID)
	}

	booking := &models.Booking{
		Start:    create.Start,
		End:      create.End,
		ItemID:   create.ItemID,
		BookerID: bookerID,
		Status:   models.StatusWaiting,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	created, err := s.repo.GetBookingByID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingCreated, created)
	return created, nil
}

// ApproveBooking lets the item owner decide a waiting booking. A booking
// already decided conflicts regardless of who asks.
func (s *BookingService) ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.StatusWaiting {
		return nil, apperr.Conflictf("booking %d is not waiting for approval", bookingID)
	}
	if booking.Item.OwnerID != ownerID {
		return nil, apperr.Forbiddenf("user %d does not own the booked item", ownerID)
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	if err := s.repo.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	booking.Status = status

	s.publishEvent(eventType, booking)
	return booking, nil
}

// GetBooking is visible to the booker and the item owner only.
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BookerID != userID && booking.Item.OwnerID != userID {
		return nil, apperr.Forbiddenf("user %d has no access to booking %d", userID, bookingID)
	}
	return booking, nil
}

// GetBookingsByBooker lists the caller's bookings filtered by state.
// Pagination applies to the ALL state only.
func (s *BookingService) GetBookingsByBooker(ctx context.Context, bookerID int64, state models.BookingState, page, size int) ([]models.Booking, error) {
	if err := requireUser(ctx, s.repo, bookerID); err != nil {
		return nil, err
	}
	if size <= 0 {
		size = models.DefaultPageSize
	}
	if page < 0 {
		page = 0
	}

	bookings, err := s.repo.GetBookingsByBooker(ctx, bookerID, state, s.now(), size, page*size)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

// GetBookingsByOwner lists bookings of the caller's items, unpaginated.
func (s *BookingService) GetBookingsByOwner(ctx context.Context, ownerID int64, state models.BookingState) ([]models.Booking, error) {
	if err := requireUser(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}

	bookings, err := s.repo.GetBookingsByOwner(ctx, ownerID, state, s.now())
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

func (s *BookingService) getBooking(ctx context.Context, bookingID int64) (*models.Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFoundf("booking with id %d not found", bookingID)
	}
	return booking, err
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		BookerID:  booking.BookerID,
		Status:    booking.Status,
		Start:     booking.Start,
		End:       booking.End,
	}
	if booking.Item != nil {
		payload.OwnerID = booking.Item.OwnerID
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
