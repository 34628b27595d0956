package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	repo   domain.Repository
	logger *zerolog.Logger
	now    func() time.Time
}

func NewItemService(repo domain.Repository, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, create models.ItemCreate) (*models.Item, error) {
	if err := requireUser(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}
	if create.Available == nil {
		return nil, apperr.BadRequestf("available is required")
	}
	if create.RequestID != nil {
		_, err := s.repo.GetItemRequestByID(ctx, *create.RequestID)
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFoundf("item request with id %d not found", *create.RequestID)
		}
		if err != nil {
			return nil, err
		}
	}

	item := &models.Item{
		Name:        create.Name,
		Description: create.Description,
		OwnerID:     ownerID,
		Available:   *create.Available,
		RequestID:   create.RequestID,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return item, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, apperr.Forbiddenf("user %d does not own item %d", ownerID, itemID)
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem returns the item with its comments. The owner additionally sees
// the item's approved bookings.
func (s *ItemService) GetItem(ctx context.Context, userID, itemID int64) (*models.Item, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.GetCommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	item.Comments = comments

	if userID == item.OwnerID {
		bookings, err := s.repo.GetApprovedBookingsByItemIDs(ctx, []int64{itemID})
		if err != nil {
			return nil, err
		}
		item.Bookings = bookings[itemID]
	}
	return item, nil
}

// GetItemsByOwner lists the owner's items enriched with comments and
// approved bookings, batch-fetched to avoid per-item queries.
func (s *ItemService) GetItemsByOwner(ctx context.Context, ownerID int64) ([]models.Item, error) {
	if err := requireUser(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []models.Item{}, nil
	}

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	comments, err := s.repo.GetCommentsByItemIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.GetApprovedBookingsByItemIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Comments = comments[items[i].ID]
		items[i].Bookings = bookings[items[i].ID]
	}
	return items, nil
}

// SearchItems returns available items matching text. Blank text
// short-circuits to an empty list without hitting the store.
func (s *ItemService) SearchItems(ctx context.Context, text string) ([]models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []models.Item{}, nil
	}
	items, err := s.repo.SearchItems(ctx, text)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

// AddComment records post-rental feedback. The author must have a booking
// of the item that has already finished.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, create models.CommentCreate) (*models.Comment, error) {
	author, err := s.repo.GetUserByID(ctx, authorID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, userNotFound(authorID)
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.getItem(ctx, itemID); err != nil {
		return nil, err
	}

	bookings, err := s.repo.GetBookingsForItemAndBooker(ctx, itemID, authorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	finished := false
	for i := range bookings {
		if bookings[i].Finished(now) {
			finished = true
			break
		}
	}
	if !finished {
		return nil, apperr.BadRequestf("user %d has no finished booking of item %d", authorID, itemID)
	}

	comment := &models.Comment{
		Text:       create.Text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Created:    now,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *ItemService) GetComments(ctx context.Context, itemID int64) ([]models.Comment, error) {
	if _, err := s.getItem(ctx, itemID); err != nil {
		return nil, err
	}
	comments, err := s.repo.GetCommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

func (s *ItemService) getItem(ctx context.Context, itemID int64) (*models.Item, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFoundf("item with id %d not found", itemID)
	}
	return item, err
}
