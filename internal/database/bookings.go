package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

const bookingColumns = `b.id, b.start_date, b.end_date, b.item_id, b.booker_id, b.status,
       i.id, i.name, i.description, i.owner_id, i.available, i.request_id,
       u.id, u.name, u.email`

const bookingJoins = `FROM bookings b
       JOIN items i ON i.id = b.item_id
       JOIN users u ON u.id = b.booker_id`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (start_date, end_date, item_id, booker_id, status)
              VALUES (?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		booking.Start, booking.End, booking.ItemID, booking.BookerID, booking.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	return nil
}

// GetBookingByID loads the booking together with its item and booker, so the
// service layer can check ownership and render nested responses without
// further round trips.
func (db *DB) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` ` + bookingJoins + ` WHERE b.id = ?`

	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetBookingsByBooker lists a user's bookings newest-start first, filtered by
// state relative to now. Pagination applies to the ALL state only; the other
// filters return the full matching set.
func (db *DB) GetBookingsByBooker(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, limit, offset int) ([]models.Booking, error) {
	where, args := stateFilter(state, now)
	query := `SELECT ` + bookingColumns + ` ` + bookingJoins + `
              WHERE b.booker_id = ?` + where + ` ORDER BY b.start_date DESC`
	queryArgs := append([]any{bookerID}, args...)

	if state == models.StateAll {
		query += ` LIMIT ? OFFSET ?`
		queryArgs = append(queryArgs, limit, offset)
	}

	rows, err := db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by booker: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// GetBookingsByOwner lists bookings across all items the user owns,
// newest-start first. Owners see the full set regardless of state.
func (db *DB) GetBookingsByOwner(ctx context.Context, ownerID int64, state models.BookingState, now time.Time) ([]models.Booking, error) {
	where, args := stateFilter(state, now)
	query := `SELECT ` + bookingColumns + ` ` + bookingJoins + `
              WHERE i.owner_id = ?` + where + ` ORDER BY b.start_date DESC`
	queryArgs := append([]any{ownerID}, args...)

	rows, err := db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by owner: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// GetBookingsForItemAndBooker backs the comment gate: the service needs the
// user's bookings of an item to check for one that has finished.
func (db *DB) GetBookingsForItemAndBooker(ctx context.Context, itemID, bookerID int64) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` ` + bookingJoins + `
              WHERE b.item_id = ? AND b.booker_id = ? ORDER BY b.start_date DESC`
	rows, err := db.QueryContext(ctx, query, itemID, bookerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings for item and booker: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// GetApprovedBookingsByItemIDs batch-fetches approved bookings for the given
// items, grouped by item id. Used to attach last/next bookings when an owner
// lists their items.
func (db *DB) GetApprovedBookingsByItemIDs(ctx context.Context, itemIDs []int64) (map[int64][]models.Booking, error) {
	grouped := make(map[int64][]models.Booking)
	if len(itemIDs) == 0 {
		return grouped, nil
	}

	query := `SELECT ` + bookingColumns + ` ` + bookingJoins + `
              WHERE b.status = ? AND b.item_id IN (` + placeholders(len(itemIDs)) + `)
              ORDER BY b.start_date`
	args := make([]any, 0, len(itemIDs)+1)
	args = append(args, models.StatusApproved)
	for _, id := range itemIDs {
		args = append(args, id)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get approved bookings by item ids: %w", err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}
	for _, booking := range bookings {
		grouped[booking.ItemID] = append(grouped[booking.ItemID], booking)
	}
	return grouped, nil
}

// stateFilter translates a booking state into a SQL predicate on the joined
// booking row. ALL produces no predicate.
func stateFilter(state models.BookingState, now time.Time) (string, []any) {
	switch state {
	case models.StateCurrent:
		return ` AND b.start_date <= ? AND b.end_date >= ?`, []any{now, now}
	case models.StatePast:
		return ` AND b.end_date < ?`, []any{now}
	case models.StateFuture:
		return ` AND b.start_date > ?`, []any{now}
	case models.StateWaiting:
		return ` AND b.status = ?`, []any{models.StatusWaiting}
	case models.StateRejected:
		return ` AND b.status = ?`, []any{models.StatusRejected}
	default:
		return "", nil
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var booking models.Booking
	var item models.Item
	var booker models.User
	err := row.Scan(
		&booking.ID, &booking.Start, &booking.End, &booking.ItemID, &booking.BookerID, &booking.Status,
		&item.ID, &item.Name, &item.Description, &item.OwnerID, &item.Available, &item.RequestID,
		&booker.ID, &booker.Name, &booker.Email,
	)
	if err != nil {
		return nil, err
	}
	booking.Item = &item
	booking.Booker = &booker
	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}
