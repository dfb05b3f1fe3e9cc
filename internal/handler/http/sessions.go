// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-session-keeper/internal/logger"
	"github.com/MKhiriev/go-session-keeper/internal/session"
	"github.com/MKhiriev/go-session-keeper/models"
)

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Sessions())
}

func (h *Handler) listReconnects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.PendingReconnects())
}

// connect starts a session for a stored account. The admin API has no
// interactive channel to the owner, so the attempt runs unattended; an
// account that needs a code must be started through the front end.
func (h *Handler) connect(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	name := chi.URLParam(r, "name")

	account, ok := h.manager.AccountByName(name)
	if !ok {
		http.Error(w, session.ErrUnknownAccount.Error(), http.StatusNotFound)
		return
	}

	if err := h.manager.Connect(r.Context(), account, nil); err != nil {
		log.Err(err).Str("account", name).Msg("connect failed")
		writeJSON(w, statusForClass(session.ClassOf(err)), map[string]string{
			"error": err.Error(),
			"class": string(session.ClassOf(err)),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "connected"})
}

func (h *Handler) disconnect(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	wasActive := h.manager.Disconnect(name)
	writeJSON(w, http.StatusOK, map[string]bool{"was_active": wasActive})
}

func (h *Handler) upsertAccount(w http.ResponseWriter, r *http.Request) {
	var account models.Account
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.manager.UpsertAccount(account); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "stored"})
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	name := chi.URLParam(r, "name")

	if err := h.manager.DeleteAccount(name); err != nil {
		if errors.Is(err, session.ErrUnknownAccount) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Err(err).Str("account", name).Msg("delete failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	name := chi.URLParam(r, "name")

	limit := uint64(50)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	events, err := h.manager.RecentEvents(r.Context(), name, limit)
	if err != nil {
		log.Err(err).Str("account", name).Msg("events query failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// statusForClass maps a connect failure class onto an HTTP status: remote
// rejections are the remote's verdict (502-ish conditions are not the admin
// caller's fault), bad credentials and guard problems need operator action.
func statusForClass(class session.Class) int {
	switch class {
	case session.ClassCredential, session.ClassGuard:
		return http.StatusConflict
	case session.ClassTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
