package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/models"
)

func (db *DB) CreateItemRequest(ctx context.Context, request *models.ItemRequest) error {
	query := `INSERT INTO item_requests (description, requester_id, created) VALUES (?, ?, ?)`
	result, err := db.ExecContext(ctx, query, request.Description, request.RequesterID, request.Created)
	if err != nil {
		return fmt.Errorf("failed to create item request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	return nil
}

func (db *DB) GetItemRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	query := `SELECT id, description, requester_id, created FROM item_requests WHERE id = ?`

	var request models.ItemRequest
	err := db.QueryRowContext(ctx, query, id).Scan(
		&request.ID, &request.Description, &request.RequesterID, &request.Created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item request: %w", err)
	}
	return &request, nil
}

func (db *DB) GetItemRequestsByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequest, error) {
	query := `SELECT id, description, requester_id, created
              FROM item_requests WHERE requester_id = ? ORDER BY created DESC`
	rows, err := db.QueryContext(ctx, query, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item requests by requester: %w", err)
	}
	defer rows.Close()
	return scanItemRequests(rows)
}

// GetItemRequestsExcluding lists other users' requests, newest first,
// with limit/offset pagination.
func (db *DB) GetItemRequestsExcluding(ctx context.Context, requesterID int64, limit, offset int) ([]models.ItemRequest, error) {
	query := `SELECT id, description, requester_id, created
              FROM item_requests WHERE requester_id != ?
              ORDER BY created DESC LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, requesterID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get item requests: %w", err)
	}
	defer rows.Close()
	return scanItemRequests(rows)
}

func scanItemRequests(rows *sql.Rows) ([]models.ItemRequest, error) {
	var requests []models.ItemRequest
	for rows.Next() {
		var request models.ItemRequest
		err := rows.Scan(&request.ID, &request.Description, &request.RequesterID, &request.Created)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item request: %w", err)
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}
