package api

import (
	"net/http"

	"shareit/internal/models"
)

func (s *HTTPServer) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	requesterID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var create models.ItemRequestCreate
	if err := decodeBody(r, &create); err != nil {
		writeError(w, err)
		return
	}

	request, err := s.requests.CreateRequest(r.Context(), requesterID, create)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

func (s *HTTPServer) handleGetOwnRequests(w http.ResponseWriter, r *http.Request) {
	requesterID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	requests, err := s.requests.GetOwnRequests(r.Context(), requesterID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *HTTPServer) handleGetAllRequests(w http.ResponseWriter, r *http.Request) {
	requesterID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	from, err := queryInt(r, "from", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	size, err := queryInt(r, "size", models.DefaultPageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	requests, err := s.requests.GetAllRequests(r.Context(), requesterID, from, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *HTTPServer) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	request, err := s.requests.GetRequest(r.Context(), userID, requestID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}
