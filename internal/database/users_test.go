package database

import (
	"context"
	"testing"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	user := &models.User{Name: "Alice", Email: "alice@example.com"}

	// Create
	err := db.CreateUser(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	// Get by ID
	found, err := db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", found.Name)
	assert.Equal(t, "alice@example.com", found.Email)

	// Get by email
	byEmail, err := db.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	// Update
	found.Name = "Alice B"
	err = db.UpdateUser(ctx, found)
	require.NoError(t, err)

	updated, _ := db.GetUserByID(ctx, user.ID)
	assert.Equal(t, "Alice B", updated.Name)

	// Delete
	err = db.DeleteUser(ctx, user.ID)
	require.NoError(t, err)

	_, err = db.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserEmailUnique(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	err := db.CreateUser(ctx, &models.User{Name: "A", Email: "same@example.com"})
	require.NoError(t, err)

	err = db.CreateUser(ctx, &models.User{Name: "B", Email: "same@example.com"})
	assert.Error(t, err)
}

func TestUserNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	_, err := db.GetUserByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	err = db.UpdateUser(ctx, &models.User{ID: 999, Name: "X", Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = db.DeleteUser(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAllUsers(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	require.NoError(t, db.CreateUser(ctx, &models.User{Name: "A", Email: "a@example.com"}))
	require.NoError(t, db.CreateUser(ctx, &models.User{Name: "B", Email: "b@example.com"}))

	users, err := db.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "A", users[0].Name)
	assert.Equal(t, "B", users[1].Name)
}
