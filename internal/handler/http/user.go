package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type UserHandler interface {
	GetMe(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type UserHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &UserHandlerImpl{userService: userService}
}

// GetMe implements UserHandler.
func (u *UserHandlerImpl) GetMe(w http.ResponseWriter, r *http.Request) {
	me, err := u.userService.GetMe(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, me)
}

// List implements UserHandler.
func (u *UserHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	users, err := u.userService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, users)
}

// Create implements UserHandler.
func (u *UserHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create user decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := u.userService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("User created", "user_id", created.ID)
	response.Created(w, "User created successfully", created)
}

// Update implements UserHandler.
func (u *UserHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update user decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	if !validator.IsValidUUID(req.ID) {
		response.HandleError(w, user.ErrUserNotFound)
		return
	}

	updated, err := u.userService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "User updated successfully", updated)
}

// Delete implements UserHandler.
func (u *UserHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.HandleError(w, user.ErrUserNotFound)
		return
	}
	if err := u.userService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "User deleted successfully", nil)
}
