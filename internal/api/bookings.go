package api

import (
	"fmt"
	"net/http"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/export"
	"shareit/internal/models"
)

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	bookerID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var create models.BookingCreate
	if err := decodeBody(r, &create); err != nil {
		writeError(w, err)
		return
	}

	booking, err := s.bookings.CreateBooking(r.Context(), bookerID, create)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleApproveBooking(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var approved bool
	switch r.URL.Query().Get("approved") {
	case "true":
		approved = true
	case "false":
		approved = false
	default:
		writeError(w, apperr.BadRequestf("approved must be true or false"))
		return
	}

	booking, err := s.bookings.ApproveBooking(r.Context(), ownerID, bookingID, approved)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	booking, err := s.bookings.GetBooking(r.Context(), userID, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleGetBookingsByBooker(w http.ResponseWriter, r *http.Request) {
	bookerID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	state, err := parseState(r)
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := queryInt(r, "page", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	size, err := queryInt(r, "size", models.DefaultPageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	bookings, err := s.bookings.GetBookingsByBooker(r.Context(), bookerID, state, page, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleGetBookingsByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	state, err := parseState(r)
	if err != nil {
		writeError(w, err)
		return
	}

	bookings, err := s.bookings.GetBookingsByOwner(r.Context(), ownerID, state)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleExportOwnerBookings(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	state, err := parseState(r)
	if err != nil {
		writeError(w, err)
		return
	}

	bookings, err := s.bookings.GetBookingsByOwner(r.Context(), ownerID, state)
	if err != nil {
		writeError(w, err)
		return
	}

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	if err := export.WriteOwnerBookings(w, bookings); err != nil {
		s.log.Error().Err(err).Int64("owner_id", ownerID).Msg("export error")
	}
}

func parseState(r *http.Request) (models.BookingState, error) {
	state, err := models.ParseBookingState(r.URL.Query().Get("state"))
	if err != nil {
		return "", apperr.BadRequestf("%s", err)
	}
	return state, nil
}
