package database

import (
	"context"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	db     *DB
	owner  *models.User
	booker *models.User
	item   *models.Item
}

func setupBookingFixture(t *testing.T) bookingFixture {
	t.Helper()
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	booker := createTestUser(t, db, "booker@example.com")

	item := &models.Item{Name: "Drill", Description: "d", OwnerID: owner.ID, Available: true}
	require.NoError(t, db.CreateItem(ctx, item))

	return bookingFixture{db: db, owner: owner, booker: booker, item: item}
}

func (f bookingFixture) addBooking(t *testing.T, start, end time.Time, status string) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		Start:    start,
		End:      end,
		ItemID:   f.item.ID,
		BookerID: f.booker.ID,
		Status:   status,
	}
	require.NoError(t, f.db.CreateBooking(context.Background(), booking))
	return booking
}

func TestBookingCreateAndGet(t *testing.T) {
	f := setupBookingFixture(t)
	defer f.db.Close()

	ctx := context.Background()
	now := testTime(t, "2026-06-01T12:00:00Z")

	created := f.addBooking(t, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusWaiting)

	found, err := f.db.GetBookingByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, found.Status)

	// Item and booker come back joined in.
	require.NotNil(t, found.Item)
	assert.Equal(t, f.item.ID, found.Item.ID)
	assert.Equal(t, f.owner.ID, found.Item.OwnerID)
	require.NotNil(t, found.Booker)
	assert.Equal(t, f.booker.ID, found.Booker.ID)

	_, err = f.db.GetBookingByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateBookingStatus(t *testing.T) {
	f := setupBookingFixture(t)
	defer f.db.Close()

	ctx := context.Background()
	now := testTime(t, "2026-06-01T12:00:00Z")
	created := f.addBooking(t, now, now.Add(time.Hour), models.StatusWaiting)

	err := f.db.UpdateBookingStatus(ctx, created.ID, models.StatusApproved)
	require.NoError(t, err)

	found, _ := f.db.GetBookingByID(ctx, created.ID)
	assert.Equal(t, models.StatusApproved, found.Status)

	err = f.db.UpdateBookingStatus(ctx, 999, models.StatusApproved)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetBookingsByBookerStates(t *testing.T) {
	f := setupBookingFixture(t)
	defer f.db.Close()

	ctx := context.Background()
	now := testTime(t, "2026-06-01T12:00:00Z")

	past := f.addBooking(t, now.Add(-48*time.Hour), now.Add(-24*time.Hour), models.StatusApproved)
	current := f.addBooking(t, now.Add(-time.Hour), now.Add(time.Hour), models.StatusApproved)
	future := f.addBooking(t, now.Add(24*time.Hour), now.Add(48*time.Hour), models.StatusWaiting)
	rejected := f.addBooking(t, now.Add(72*time.Hour), now.Add(96*time.Hour), models.StatusRejected)

	cases := []struct {
		state models.BookingState
		want  []int64
	}{
		// Newest start first.
		{models.StateAll, []int64{rejected.ID, future.ID, current.ID, past.ID}},
		{models.StateCurrent, []int64{current.ID}},
		{models.StatePast, []int64{past.ID}},
		{models.StateFuture, []int64{rejected.ID, future.ID}},
		{models.StateWaiting, []int64{future.ID}},
		{models.StateRejected, []int64{rejected.ID}},
	}

	for _, tc := range cases {
		t.Run(string(tc.state), func(t *testing.T) {
			bookings, err := f.db.GetBookingsByBooker(ctx, f.booker.ID, tc.state, now, 10, 0)
			require.NoError(t, err)
			ids := make([]int64, len(bookings))
			for i, b := range bookings {
				ids[i] = b.ID
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestGetBookingsByBookerPagination(t *testing.T) {
	f := setupBookingFixture(t)
	defer f.db.Close()

	ctx := context.Background()
	now := testTime(t, "2026-06-01T12:00:00Z")

	for i := 0; i < 5; i++ {
		f.addBooking(t, now.Add(time.Duration(i)*time.Hour), now.Add(time.Duration(i+1)*time.Hour), models.StatusWaiting)
	}

	page, err := f.db.GetBookingsByBooker(ctx, f.booker.ID, models.StateAll, now, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestGetBookingsByOwner(t *testing.T) {
	f := setupBookingFixture(t)
	defer f.db.Close()

	ctx := context.Background()
	now := testTime(t, "2026-06-01T12:00:00Z")

	f.addBooking(t, now.Add(-2*time.Hour), now.Add(-time.Hour), models.StatusApproved)
	f.addBooking(t, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusWaiting)

	all, err := f.db.GetBookingsByOwner(ctx, f.owner.ID, models.StateAll, now)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	past, err := f.db.GetBookingsByOwner(ctx, f.owner.ID, models.StatePast, now)
	require.NoError(t, err)
	assert.Len(t, past, 1)

	// A user with no items sees nothing.
	none, err := f.db.GetBookingsByOwner(ctx, f.booker.ID, models.StateAll, now)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetBookingsForItemAndBooker(t *testing.T) {
	f := setupBookingFixture(t)
	defer f.db.Close()

	ctx := context.Background()
	now := testTime(t, "2026-06-01T12:00:00Z")

	f.addBooking(t, now.Add(-2*time.Hour), now.Add(-time.Hour), models.StatusApproved)

	bookings, err := f.db.GetBookingsForItemAndBooker(ctx, f.item.ID, f.booker.ID)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)

	bookings, err = f.db.GetBookingsForItemAndBooker(ctx, f.item.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestGetApprovedBookingsByItemIDs(t *testing.T) {
	f := setupBookingFixture(t)
	defer f.db.Close()

	ctx := context.Background()
	now := testTime(t, "2026-06-01T12:00:00Z")

	f.addBooking(t, now.Add(-2*time.Hour), now.Add(-time.Hour), models.StatusApproved)
	f.addBooking(t, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusApproved)
	f.addBooking(t, now.Add(3*time.Hour), now.Add(4*time.Hour), models.StatusWaiting)

	grouped, err := f.db.GetApprovedBookingsByItemIDs(ctx, []int64{f.item.ID})
	require.NoError(t, err)
	require.Len(t, grouped[f.item.ID], 2)

	// Sorted by start ascending for last/next scanning.
	assert.True(t, grouped[f.item.ID][0].Start.Before(grouped[f.item.ID][1].Start))

	empty, err := f.db.GetApprovedBookingsByItemIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
