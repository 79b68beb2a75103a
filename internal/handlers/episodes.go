package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"podbooker/internal/middleware"
	"podbooker/internal/models"
)

func (h *Handlers) GetEpisodes(w http.ResponseWriter, r *http.Request) {
	host := r.Context().Value(middleware.HostContextKey).(*models.Host)

	episodes, err := h.store.ListEpisodesByHostID(host.ID)
	if err != nil {
		log.Printf("Error listing episodes: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	err = h.templates.ExecuteTemplate(w, "episodes.html", episodes)
	if err != nil {
		log.Printf("Error executing template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handlers) PostEpisode(w http.ResponseWriter, r *http.Request) {
	host := r.Context().Value(middleware.HostContextKey).(*models.Host)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	dateStr := r.FormValue("date")

	var slots []string
	for _, s := range r.Form["time_slots"] {
		if s = strings.TrimSpace(s); s != "" {
			slots = append(slots, s)
		}
	}

	fields := map[string]string{}
	if title == "" {
		fields["title"] = "Title is required"
	}
	if description == "" {
		fields["description"] = "Description is required"
	}
	if len(slots) == 0 {
		fields["time_slots"] = "At least one time slot is required"
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if dateStr == "" || err != nil {
		fields["date"] = "A valid date is required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": fields,
		})
		return
	}

	_, err = h.store.CreateEpisode(host.ID, title, description, date, slots)
	if err != nil {
		log.Printf("Error creating episode: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Return the refreshed episode list, same as the GET.
	h.GetEpisodes(w, r)
}
