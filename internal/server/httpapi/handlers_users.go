package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/pantrykeeper/internal/server/models"
	"github.com/gorilla/mux"
)

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Verified *bool   `json:"isVerified"`
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"isVerified"`
}

// requireSelf enforces that path {id} matches the authenticated user.
// Cross-user profile access is never permitted.
func (s *Server) requireSelf(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no credentials")
		return "", false
	}
	id := mux.Vars(r)["id"]
	if id != claims.UserID {
		writeError(w, http.StatusForbidden, "forbidden")
		return "", false
	}
	return id, true
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireSelf(w, r)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email != nil && !validEmail(*req.Email) {
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	}

	user, err := s.users.Update(r.Context(), id, models.UserPatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Verified: req.Verified,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Verified: user.Verified,
	})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireSelf(w, r)
	if !ok {
		return
	}

	if err := s.users.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
