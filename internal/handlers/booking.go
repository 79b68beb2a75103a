package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"podbooker/internal/models"
	"podbooker/internal/notify"
)

type bookingPage struct {
	Guest   models.Guest
	Episode models.Episode
}

// GuestBooking serves the capability URL sent to a guest. The guest id in
// the path is the only credential; every query filters on that single id.
func (h *Handlers) GuestBooking(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		h.getBookingPage(w, r)
	case http.MethodPost:
		h.postBookingDecision(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
}

func (h *Handlers) getBookingPage(w http.ResponseWriter, r *http.Request) {
	guestID := mux.Vars(r)["guestId"]
	if _, err := uuid.Parse(guestID); err != nil {
		http.Error(w, "Invalid booking link", http.StatusBadRequest)
		return
	}

	guest, err := h.store.GetGuestByID(guestID)
	if errors.Is(err, sql.ErrNoRows) {
		// Renders with 200: the page loads fine, its content says the
		// invitation does not exist.
		h.renderBooking(w, "notfound.html", nil)
		return
	}
	if err != nil {
		log.Printf("Error getting guest %s: %v", guestID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	episode, err := h.store.GetEpisodeByID(guest.EpisodeID)
	if err != nil {
		log.Printf("Error getting episode %s: %v", guest.EpisodeID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	page := bookingPage{Guest: guest, Episode: episode}
	switch guest.Status {
	case models.StatusConfirmed:
		h.renderBooking(w, "confirmed.html", page)
	case models.StatusDeclined:
		h.renderBooking(w, "declined.html", page)
	default:
		h.renderBooking(w, "booking.html", page)
	}
}

func (h *Handlers) renderBooking(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error executing template %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

type bookingDecisionRequest struct {
	SelectedSlot  string `json:"selectedSlot"`
	Status        string `json:"status"`
	RejectionNote string `json:"rejectionNote"`
}

func (h *Handlers) postBookingDecision(w http.ResponseWriter, r *http.Request) {
	guestID := mux.Vars(r)["guestId"]
	if _, err := uuid.Parse(guestID); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid guest id")
		return
	}

	var req bookingDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	guest, err := h.store.GetGuestByID(guestID)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, http.StatusNotFound, "invitation not found")
		return
	}
	if err != nil {
		log.Printf("Error getting guest %s: %v", guestID, err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var decision models.Decision
	switch req.Status {
	case models.StatusConfirmed:
		decision, err = models.Confirm(req.SelectedSlot)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		episode, err := h.store.GetEpisodeByID(guest.EpisodeID)
		if err != nil {
			log.Printf("Error getting episode %s: %v", guest.EpisodeID, err)
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !episode.HasSlot(req.SelectedSlot) {
			writeJSONError(w, http.StatusBadRequest, "selected slot is not offered for this episode")
			return
		}
	case models.StatusDeclined:
		decision = models.Decline(req.RejectionNote)
	default:
		writeJSONError(w, http.StatusBadRequest, "status must be confirmed or declined")
		return
	}

	// A guest may change an earlier answer; the update is a plain
	// last-write-wins single-row write.
	if err := h.store.UpdateGuestDecision(guest.ID, decision); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to save your response")
		return
	}

	h.publishGuestChange(r.Context(), guest, decision)

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// publishGuestChange notifies open consoles. Best-effort: a dropped event
// only delays the console until its next full re-fetch.
func (h *Handlers) publishGuestChange(ctx context.Context, guest models.Guest, d models.Decision) {
	ev := notify.GuestEvent{
		GuestID:          guest.ID,
		EpisodeID:        guest.EpisodeID,
		Status:           d.Status,
		SelectedTimeSlot: d.Slot,
	}
	if err := h.broker.Publish(ctx, ev); err != nil {
		log.Printf("Error publishing guest change for %s: %v", guest.ID, err)
	}
}
