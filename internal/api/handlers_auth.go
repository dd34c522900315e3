package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/NElyse/FPA-Project/internal/auth"
	"github.com/NElyse/FPA-Project/internal/models"
	"github.com/NElyse/FPA-Project/internal/store"
)

const resetTokenTTL = time.Hour

// conflictMessages maps a colliding unique column to its user-facing error.
var conflictMessages = map[string]string{
	"email":    "email already exists",
	"username": "username already taken",
	"phone":    "phone already registered",
}

type registerRequest struct {
	FullNames string `json:"full_names"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"full_names", req.FullNames},
		{"email", req.Email},
		{"username", req.Username},
		{"phone", req.Phone},
		{"password", req.Password},
	} {
		if f.value == "" {
			missing = append(missing, f.name+" is required")
		}
	}
	if len(missing) > 0 {
		writeErrors(w, http.StatusBadRequest, missing)
		return
	}

	conflicts, err := s.store.FindUserConflicts(req.Email, req.Username, req.Phone, 0)
	if err != nil {
		log.Printf("api: check user conflicts: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}
	if len(conflicts) > 0 {
		msgs := make([]string, 0, len(conflicts))
		for _, c := range conflicts {
			msgs = append(msgs, conflictMessages[c])
		}
		writeErrors(w, http.StatusBadRequest, msgs)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("api: hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	role := req.Role
	if role == "" {
		role = "user"
	}
	u := &models.User{
		FullNames:    req.FullNames,
		Email:        req.Email,
		Username:     req.Username,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         role,
	}
	if _, err := s.store.CreateUser(u); err != nil {
		log.Printf("api: create user: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Identifier == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Identifier and password are required")
		return
	}

	u, err := s.store.GetUserByIdentifier(req.Identifier)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		log.Printf("api: look up user: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		log.Printf("api: issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": u})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	u, err := s.store.GetUserByEmail(req.Email)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Printf("api: look up user by email: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to process request")
		return
	}

	token, err := auth.NewResetToken()
	if err != nil {
		log.Printf("api: generate reset token: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to process request")
		return
	}
	now := time.Now().UTC()
	if _, err := s.store.CreateResetToken(u.ID, token, now, now.Add(resetTokenTTL)); err != nil {
		log.Printf("api: store reset token: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to process request")
		return
	}

	url := s.clientURL + "/reset-password/" + token
	if err := s.mailer.SendResetLink(r.Context(), u.Email, u.FullNames, url); err != nil {
		log.Printf("api: send reset email: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to send reset email")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Please check your email for the reset token."})
}

// lookupResetToken resolves a token from the URL and checks expiry. A missing
// or expired row is reported identically so the token cannot be probed.
func (s *Server) lookupResetToken(w http.ResponseWriter, r *http.Request) (*models.ResetToken, bool) {
	rt, err := s.store.LatestResetToken(r.PathValue("token"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "Invalid or expired token")
		return nil, false
	}
	if err != nil {
		log.Printf("api: look up reset token: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to process request")
		return nil, false
	}
	if time.Now().After(rt.ExpiresAt) {
		writeError(w, http.StatusBadRequest, "Invalid or expired token")
		return nil, false
	}
	return rt, true
}

func (s *Server) handleValidateResetToken(w http.ResponseWriter, r *http.Request) {
	rt, ok := s.lookupResetToken(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"userId": rt.UserID})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "New password is required")
		return
	}

	rt, ok := s.lookupResetToken(w, r)
	if !ok {
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		log.Printf("api: hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}
	if err := s.store.SetUserPassword(rt.UserID, hash); err != nil {
		log.Printf("api: set password: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}
	if err := s.store.DeleteResetToken(rt.Token); err != nil {
		log.Printf("api: delete reset token: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset successfully."})
}

type updateUserRequest struct {
	FullNames string `json:"full_names"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	upd := store.UserUpdate{
		FullNames: req.FullNames,
		Email:     req.Email,
		Username:  req.Username,
		Phone:     req.Phone,
	}
	if upd.Empty() {
		writeError(w, http.StatusBadRequest, "No fields provided to update")
		return
	}

	conflicts, err := s.store.FindUserConflicts(req.Email, req.Username, req.Phone, id)
	if err != nil {
		log.Printf("api: check user conflicts: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if len(conflicts) > 0 {
		msgs := make([]string, 0, len(conflicts))
		for _, c := range conflicts {
			msgs = append(msgs, conflictMessages[c])
		}
		writeErrors(w, http.StatusBadRequest, msgs)
		return
	}

	if err := s.store.UpdateUser(id, upd); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("api: update user: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	u, err := s.store.GetUserByID(id)
	if err != nil {
		log.Printf("api: reload user: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}
