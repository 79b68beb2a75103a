package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"podbooker/internal/middleware"
	"podbooker/internal/models"
	"podbooker/pkg/tasks"
)

const maxGuestsPerEpisode = 20

type sendInvitationRequest struct {
	EpisodeID  string `json:"episodeId"`
	GuestName  string `json:"guestName"`
	GuestEmail string `json:"guestEmail"`
}

// PostSendInvitation creates the guest record and queues the invitation
// email. The guest row is committed before delivery is attempted; a
// delivery failure never rolls it back, the worker retries instead.
func (h *Handlers) PostSendInvitation(w http.ResponseWriter, r *http.Request) {
	host := r.Context().Value(middleware.HostContextKey).(*models.Host)

	var req sendInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	episode, status, err := h.episodeForHost(host, req.EpisodeID)
	if err != nil {
		writeJSONError(w, status, err.Error())
		return
	}

	guestID, status, err := h.dispatchInvitation(episode.ID, req.GuestName, req.GuestEmail)
	if err != nil {
		writeJSONError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "guestId": guestID})
}

type batchInvitationsRequest struct {
	Guests []struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"guests"`
}

type invitationResult struct {
	GuestID string `json:"guestId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PostEpisodeInvitations dispatches a batch of invitations concurrently.
// Each invitation is independent: one failure neither blocks nor rolls
// back the others, and every failure is reported back so the host sees a
// partial-failure warning.
func (h *Handlers) PostEpisodeInvitations(w http.ResponseWriter, r *http.Request) {
	host := r.Context().Value(middleware.HostContextKey).(*models.Host)
	episodeID := mux.Vars(r)["id"]

	var req batchInvitationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Guests) == 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	episode, status, err := h.episodeForHost(host, episodeID)
	if err != nil {
		writeJSONError(w, status, err.Error())
		return
	}

	results := make([]invitationResult, len(req.Guests))
	var wg sync.WaitGroup
	for i, g := range req.Guests {
		wg.Add(1)
		go func(i int, name, email string) {
			defer wg.Done()
			guestID, _, err := h.dispatchInvitation(episode.ID, name, email)
			if err != nil {
				results[i] = invitationResult{Error: err.Error()}
				return
			}
			results[i] = invitationResult{GuestID: guestID}
		}(i, g.Name, g.Email)
	}
	wg.Wait()

	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": failed == 0,
		"failed":  failed,
		"results": results,
	})
}

// episodeForHost loads an episode and checks ownership. A foreign episode
// reads as not found so guest ids and episode ids stay unguessable.
func (h *Handlers) episodeForHost(host *models.Host, episodeID string) (models.Episode, int, error) {
	if episodeID == "" {
		return models.Episode{}, http.StatusBadRequest, errors.New("episodeId is required")
	}
	episode, err := h.store.GetEpisodeByID(episodeID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && episode.HostID != host.ID) {
		return models.Episode{}, http.StatusNotFound, errors.New("episode not found")
	}
	if err != nil {
		log.Printf("Error getting episode %s: %v", episodeID, err)
		return models.Episode{}, http.StatusInternalServerError, errors.New("internal server error")
	}
	return episode, http.StatusOK, nil
}

func (h *Handlers) dispatchInvitation(episodeID, name, email string) (string, int, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return "", http.StatusBadRequest, errors.New("guest name and email are required")
	}

	count, err := h.store.CountGuestsByEpisodeID(episodeID)
	if err != nil {
		log.Printf("Error counting guests: %v", err)
		return "", http.StatusInternalServerError, errors.New("internal server error")
	}
	if count >= maxGuestsPerEpisode {
		return "", http.StatusForbidden, errors.New("guest limit reached for this episode")
	}

	guest, err := h.store.CreateGuest(episodeID, name, email)
	if err != nil {
		return "", http.StatusInternalServerError, errors.New("failed to create guest")
	}

	task, err := tasks.NewSendInvitationTask(guest.ID)
	if err != nil {
		log.Printf("Error creating task: %v", err)
		return "", http.StatusInternalServerError, errors.New("invitation created but could not be queued")
	}
	if _, err := h.asynqClient.Enqueue(task); err != nil {
		// The guest row stays; the host is warned and can retry the email.
		log.Printf("Error enqueuing invitation for guest %s: %v", guest.ID, err)
		return "", http.StatusInternalServerError, errors.New("invitation created but could not be queued")
	}

	return guest.ID, http.StatusOK, nil
}
