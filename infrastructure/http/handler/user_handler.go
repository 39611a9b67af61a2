package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fixora/accounts/application/port/inbound"
	"github.com/fixora/accounts/infrastructure/http/middleware"
	"github.com/fixora/accounts/infrastructure/http/response"
	apperror "github.com/fixora/accounts/pkg/error"
)

type UserHandler struct {
	userUseCase inbound.UserUseCase
}

func NewUserHandler(userUseCase inbound.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type userBody struct {
	User *inbound.UserResponse `json:"user"`
}

// Register creates an account. A logged-in caller is recorded as the actor.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	fields, err := bodyFields(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userUseCase.Register(r.Context(), middleware.GetPrincipal(r.Context()), inbound.RegisterRequest{
		Name:                 fields["name"],
		Email:                fields["email"],
		Password:             fields["password"],
		PasswordConfirmation: fields["password_confirmation"],
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, userBody{User: user})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	fields, err := bodyFields(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	token, err := h.userUseCase.Login(r.Context(), inbound.LoginRequest{
		Email:    fields["email"],
		Password: fields["password"],
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, token)
}

// Update changes the user named by "id", or the caller when no id is sent.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	fields, err := bodyFields(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	id, ok := optionalID(fields["id"])
	if !ok {
		response.Error(w, apperror.NewValidation(map[string][]string{"id": {"The id must be an integer."}}))
		return
	}

	user, err := h.userUseCase.Update(r.Context(), middleware.GetPrincipal(r.Context()), inbound.UpdateRequest{
		ID:    id,
		Name:  fields["name"],
		Email: fields["email"],
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, userBody{User: user})
}

func (h *UserHandler) Show(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUseCase.Show(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, userBody{User: user})
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.userUseCase.Logout(r.Context(), middleware.GetPrincipal(r.Context())); err != nil {
		response.Error(w, err)
		return
	}

	response.Message(w, http.StatusOK, "user logged out")
}

// Delete removes /delete/{id}, or the caller's own account on /delete.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := optionalID(mux.Vars(r)["id"])
	if !ok {
		response.NotFound(w, "user not found")
		return
	}

	if err := h.userUseCase.Delete(r.Context(), middleware.GetPrincipal(r.Context()), id); err != nil {
		response.Error(w, err)
		return
	}

	response.Message(w, http.StatusOK, "user is deleted")
}
