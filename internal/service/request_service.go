package service

import (
	"context"
	"errors"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	repo   domain.Repository
	logger *zerolog.Logger
	now    func() time.Time
}

func NewRequestService(repo domain.Repository, logger *zerolog.Logger) *RequestService {
	return &RequestService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, requesterID int64, create models.ItemRequestCreate) (*models.ItemRequest, error) {
	if err := requireUser(ctx, s.repo, requesterID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		Description: create.Description,
		RequesterID: requesterID,
		Created:     s.now(),
	}
	if err := s.repo.CreateItemRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// GetOwnRequests lists the caller's requests, newest first, each enriched
// with the items offered against it.
func (s *RequestService) GetOwnRequests(ctx context.Context, requesterID int64) ([]models.ItemRequest, error) {
	if err := requireUser(ctx, s.repo, requesterID); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetItemRequestsByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

// GetAllRequests pages through other users' requests. The offset snaps to a
// whole page: from/size truncated, then scaled back up.
func (s *RequestService) GetAllRequests(ctx context.Context, requesterID int64, from, size int) ([]models.ItemRequest, error) {
	if err := requireUser(ctx, s.repo, requesterID); err != nil {
		return nil, err
	}
	if size <= 0 {
		size = models.DefaultPageSize
	}
	if from < 0 {
		from = 0
	}
	offset := (from / size) * size

	requests, err := s.repo.GetItemRequestsExcluding(ctx, requesterID, size, offset)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

func (s *RequestService) GetRequest(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error) {
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	request, err := s.repo.GetItemRequestByID(ctx, requestID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFoundf("item request with id %d not found", requestID)
	}
	if err != nil {
		return nil, err
	}

	enriched, err := s.attachItems(ctx, []models.ItemRequest{*request})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

func (s *RequestService) attachItems(ctx context.Context, requests []models.ItemRequest) ([]models.ItemRequest, error) {
	if len(requests) == 0 {
		return []models.ItemRequest{}, nil
	}

	ids := make([]int64, len(requests))
	for i, request := range requests {
		ids[i] = request.ID
	}

	items, err := s.repo.GetItemsByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		requests[i].Items = items[requests[i].ID]
	}
	return requests, nil
}
