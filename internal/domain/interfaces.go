// Package domain declares the seams between the service layer and its
// collaborators so services can be tested against mocks.
package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	GetAllUsers(ctx context.Context) ([]models.User, error)

	// Items
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemsByOwner(ctx context.Context, ownerID int64) ([]models.Item, error)
	SearchItems(ctx context.Context, text string) ([]models.Item, error)
	GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) (map[int64][]models.Item, error)

	// Item requests
	CreateItemRequest(ctx context.Context, request *models.ItemRequest) error
	GetItemRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetItemRequestsByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequest, error)
	GetItemRequestsExcluding(ctx context.Context, requesterID int64, limit, offset int) ([]models.ItemRequest, error)

	// Bookings
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) error
	GetBookingsByBooker(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, limit, offset int) ([]models.Booking, error)
	GetBookingsByOwner(ctx context.Context, ownerID int64, state models.BookingState, now time.Time) ([]models.Booking, error)
	GetBookingsForItemAndBooker(ctx context.Context, itemID, bookerID int64) ([]models.Booking, error)
	GetApprovedBookingsByItemIDs(ctx context.Context, itemIDs []int64) (map[int64][]models.Booking, error)

	// Comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error)
	GetCommentsByItemIDs(ctx context.Context, itemIDs []int64) (map[int64][]models.Comment, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// RateLimiter answers whether a caller identified by key may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
