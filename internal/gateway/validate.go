package gateway

import (
	"fmt"
	"strings"
	"time"

	"shareit/internal/models"
)

// Validators return one message per failed field so the caller can report
// them all at once.

func validateUserCreate(create models.UserCreate) []string {
	var errs []string
	if strings.TrimSpace(create.Name) == "" {
		errs = append(errs, "name must not be blank")
	}
	if strings.TrimSpace(create.Email) == "" {
		errs = append(errs, "email must not be blank")
	} else if !strings.Contains(create.Email, "@") {
		errs = append(errs, "email must be a valid email address")
	}
	return errs
}

func validateUserPatch(patch models.UserPatch) []string {
	var errs []string
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		errs = append(errs, "name must not be blank")
	}
	if patch.Email != nil {
		if strings.TrimSpace(*patch.Email) == "" {
			errs = append(errs, "email must not be blank")
		} else if !strings.Contains(*patch.Email, "@") {
			errs = append(errs, "email must be a valid email address")
		}
	}
	return errs
}

func validateItemCreate(create models.ItemCreate) []string {
	var errs []string
	if strings.TrimSpace(create.Name) == "" {
		errs = append(errs, "name must not be blank")
	}
	if strings.TrimSpace(create.Description) == "" {
		errs = append(errs, "description must not be blank")
	}
	if create.Available == nil {
		errs = append(errs, "available is required")
	}
	if create.RequestID != nil && *create.RequestID <= 0 {
		errs = append(errs, "requestId must be positive")
	}
	return errs
}

func validateBookingCreate(create models.BookingCreate, now time.Time) []string {
	var errs []string
	if create.ItemID <= 0 {
		errs = append(errs, "itemId must be positive")
	}
	if create.Start.IsZero() {
		errs = append(errs, "start is required")
	} else if create.Start.Before(now) {
		errs = append(errs, "start must not be in the past")
	}
	if create.End.IsZero() {
		errs = append(errs, "end is required")
	} else if create.End.Before(now) {
		errs = append(errs, "end must not be in the past")
	}
	if !create.Start.IsZero() && !create.End.IsZero() && !create.End.After(create.Start) {
		errs = append(errs, "end must be after start")
	}
	return errs
}

func validateRequestCreate(create models.ItemRequestCreate) []string {
	var errs []string
	if strings.TrimSpace(create.Description) == "" {
		errs = append(errs, "description must not be blank")
	} else if len(create.Description) > models.MaxRequestDescriptionLen {
		errs = append(errs, fmt.Sprintf("description must not exceed %d characters", models.MaxRequestDescriptionLen))
	}
	return errs
}

func validateCommentCreate(create models.CommentCreate) []string {
	var errs []string
	if strings.TrimSpace(create.Text) == "" {
		errs = append(errs, "text must not be blank")
	}
	return errs
}
