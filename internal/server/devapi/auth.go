package devapi

import (
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.Registration
	if !decode(w, r, &req) {
		return
	}

	var missing []string
	if req.Email == "" {
		missing = append(missing, "email")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if req.FullName == "" {
		missing = append(missing, "full_name")
	}
	if len(missing) > 0 {
		writeMissing(w, missing...)
		return
	}

	s.mu.Lock()
	if _, taken := s.byEmail[req.Email]; taken {
		s.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	phone := ""
	if req.Phone != nil {
		phone = *req.Phone
	}
	user := s.addUserLocked(req.Email, req.Password, req.FullName, phone)
	pair, err := s.issueLocked(user.ID)
	s.mu.Unlock()
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, authResponse(pair, &user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	id, ok := s.byEmail[req.Email]
	var acc *account
	if ok {
		acc = s.accounts[id]
	}
	if acc == nil || acc.password != req.Password {
		s.mu.Unlock()
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	user := acc.user
	pair, err := s.issueLocked(id)
	s.mu.Unlock()
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, authResponse(pair, &user))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.refreshCalls.Add(1)

	s.mu.Lock()
	delay, status, gate := s.refreshDelay, s.refreshStatus, s.refreshGate
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if status != 0 {
		writeDetail(w, status, "Refresh token expired")
		return
	}

	var req models.RefreshRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	id, ok := s.refreshTokens[req.RefreshToken]
	if !ok {
		s.mu.Unlock()
		writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	delete(s.refreshTokens, req.RefreshToken)
	user := s.accounts[id].user
	pair, err := s.issueLocked(id)
	s.mu.Unlock()
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, authResponse(pair, &user))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	id := userID(r.Context())

	s.mu.Lock()
	for tok, owner := range s.refreshTokens {
		if owner == id {
			delete(s.refreshTokens, tok)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "user_id": userID(r.Context())})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.user(userID(r.Context())))
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var upd models.ProfileUpdate
	if !decode(w, r, &upd) {
		return
	}

	s.mu.Lock()
	acc := s.accounts[userID(r.Context())]
	for k, v := range upd {
		str, _ := v.(string)
		switch k {
		case "email":
			delete(s.byEmail, acc.user.Email)
			acc.user.Email = str
			s.byEmail[str] = acc.user.ID
		case "full_name":
			acc.user.FullName = str
		case "phone":
			acc.user.Phone = str
		case "avatar_url":
			acc.user.AvatarURL = str
		}
	}
	user := acc.user
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateName(w http.ResponseWriter, r *http.Request) {
	var req models.NameUpdate
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		writeMissing(w, "full_name")
		return
	}

	s.mu.Lock()
	acc := s.accounts[userID(r.Context())]
	acc.user.FullName = req.FullName
	user := acc.user
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeMissing(w, "file")
		return
	}
	_ = file.Close()

	id := userID(r.Context())
	s.mu.Lock()
	acc := s.accounts[id]
	acc.user.AvatarURL = "/uploads/avatars/" + strconv.FormatInt(id, 10) + "/" + path.Base(header.Filename)
	user := acc.user
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteAvatar(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	acc := s.accounts[userID(r.Context())]
	acc.user.AvatarURL = ""
	user := acc.user
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) user(id int64) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[id].user
}

func authResponse(pair models.TokenPair, user *models.User) models.AuthResponse {
	return models.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		User:         user,
	}
}
