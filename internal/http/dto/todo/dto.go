// Package todo holds the wire shapes of the todo endpoints.
package todo

import (
	"time"

	"github.com/todolabs/todolist/internal/domain"
)

// CreateRequest is the POST body for a new task.
type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// UpdateRequest is a partial update; absent fields are untouched.
type UpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// TodoResponse is the public task shape.
type TodoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromDomain maps a domain todo to its wire shape.
func FromDomain(t *domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ListFromDomain maps a slice of domain todos.
func ListFromDomain(ts []domain.Todo) []TodoResponse {
	out := make([]TodoResponse, 0, len(ts))
	for i := range ts {
		out = append(out, FromDomain(&ts[i]))
	}
	return out
}
