package database

import (
	"context"
	"database/sql"
	"fmt"

	"shareit/internal/models"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		comment.Text, comment.ItemID, comment.AuthorID, comment.Created,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	return nil
}

// GetCommentsByItem returns an item's comments with the author name joined
// in, oldest first.
func (db *DB) GetCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error) {
	query := `SELECT c.id, c.text, c.item_id, c.author_id, u.name, c.created
              FROM comments c JOIN users u ON u.id = c.author_id
              WHERE c.item_id = ? ORDER BY c.created`
	rows, err := db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments by item: %w", err)
	}
	defer rows.Close()
	return scanComments(rows)
}

// GetCommentsByItemIDs batch-fetches comments for the given items, grouped by
// item id.
func (db *DB) GetCommentsByItemIDs(ctx context.Context, itemIDs []int64) (map[int64][]models.Comment, error) {
	grouped := make(map[int64][]models.Comment)
	if len(itemIDs) == 0 {
		return grouped, nil
	}

	query := `SELECT c.id, c.text, c.item_id, c.author_id, u.name, c.created
              FROM comments c JOIN users u ON u.id = c.author_id
              WHERE c.item_id IN (` + placeholders(len(itemIDs)) + `) ORDER BY c.created`
	args := make([]any, len(itemIDs))
	for i, id := range itemIDs {
		args[i] = id
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments by item ids: %w", err)
	}
	defer rows.Close()

	comments, err := scanComments(rows)
	if err != nil {
		return nil, err
	}
	for _, comment := range comments {
		grouped[comment.ItemID] = append(grouped[comment.ItemID], comment)
	}
	return grouped, nil
}

func scanComments(rows *sql.Rows) ([]models.Comment, error) {
	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID, &comment.Text, &comment.ItemID, &comment.AuthorID,
			&comment.AuthorName, &comment.Created,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
