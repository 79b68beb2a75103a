package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"podbooker/internal/feed"
)

// GetEpisodeFeed serves a host's public recording schedule as RSS, keyed
// by the host's feed UUID.
func (h *Handlers) GetEpisodeFeed(w http.ResponseWriter, r *http.Request) {
	feedUUID := mux.Vars(r)["uuid"]

	host, err := h.store.GetHostByFeedUUID(feedUUID)
	if err != nil {
		http.Error(w, "Feed not found", http.StatusNotFound)
		return
	}

	episodes, err := h.store.ListEpisodesByHostID(host.ID)
	if err != nil {
		log.Printf("Error getting episodes: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	rss, err := feed.GenerateRSS(&host, episodes, r)
	if err != nil {
		log.Printf("Error generating RSS: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	w.Write([]byte(rss))
}
