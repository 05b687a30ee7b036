// Package todo contains the controllers of the task endpoints. All routes
// sit behind RequireAuth, so the user ID is always in the context.
package todo

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/todolabs/todolist/internal/domain"
	dto "github.com/todolabs/todolist/internal/http/dto/todo"
	httperrors "github.com/todolabs/todolist/internal/http/errors"
	"github.com/todolabs/todolist/internal/http/helpers"
	"github.com/todolabs/todolist/internal/http/middlewares"
	svctodo "github.com/todolabs/todolist/internal/http/services/todo"
)

// Controller handles the todo CRUD endpoints.
type Controller struct {
	todos svctodo.Service
}

// NewController creates a new todo Controller.
func NewController(todos svctodo.Service) *Controller {
	return &Controller{todos: todos}
}

func mapTodoError(err error) *httperrors.AppError {
	switch {
	case errors.Is(err, svctodo.ErrTitleRequired):
		return httperrors.ErrBadRequest.WithDetail("title required")
	case domain.IsNotFound(err):
		return httperrors.ErrNotFound
	default:
		return httperrors.ErrInternal.WithCause(err)
	}
}

// List handles GET /api/todos.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	userID := middlewares.GetUserID(r.Context())

	list, err := c.todos.List(r.Context(), userID)
	if err != nil {
		httperrors.WriteError(w, mapTodoError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ListFromDomain(list))
}

// Create handles POST /api/todos.
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	userID := middlewares.GetUserID(r.Context())

	var req dto.CreateRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	created, err := c.todos.Create(r.Context(), userID, svctodo.CreateInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		httperrors.WriteError(w, mapTodoError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, dto.FromDomain(created))
}

// Get handles GET /api/todos/{id}.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	userID := middlewares.GetUserID(r.Context())

	t, err := c.todos.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, mapTodoError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromDomain(t))
}

// Update handles PATCH /api/todos/{id}.
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	userID := middlewares.GetUserID(r.Context())

	var req dto.UpdateRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	updated, err := c.todos.Update(r.Context(), userID, chi.URLParam(r, "id"), svctodo.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		httperrors.WriteError(w, mapTodoError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromDomain(updated))
}

// Delete handles DELETE /api/todos/{id}.
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middlewares.GetUserID(r.Context())

	if err := c.todos.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		httperrors.WriteError(w, mapTodoError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
