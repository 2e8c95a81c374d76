package main

import "luggagetracker/internal/luggage"

// CreateItemRequest is the payload for creating a new luggage item.
type CreateItemRequest struct {
	Name        string `json:"name"`
	Destination string `json:"destination"`
}

// listResponse is the body of GET /api/luggage.
type listResponse struct {
	Items []luggage.Item `json:"items"`
}

// itemResponse is the body of a successful POST /api/luggage.
type itemResponse struct {
	Item luggage.Item `json:"item"`
}

// deleteResponse is the body of a successful DELETE /api/luggage/{id}.
type deleteResponse struct {
	Success bool `json:"success"`
}

// errorResponse carries a human-readable error message.
type errorResponse struct {
	Error string `json:"error"`
}
