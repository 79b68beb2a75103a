package handlers

import (
	"encoding/json"
	"html/template"
	"net/http"

	"podbooker/internal/db"
	"podbooker/internal/notify"
	"podbooker/pkg/tasks"
)

type Handlers struct {
	templates   *template.Template
	store       *db.Store
	asynqClient tasks.TaskEnqueuer
	broker      notify.Broker
	baseURL     string
}

func New(templates *template.Template, store *db.Store, asynqClient tasks.TaskEnqueuer, broker notify.Broker, baseURL string) *Handlers {
	return &Handlers{
		templates:   templates,
		store:       store,
		asynqClient: asynqClient,
		broker:      broker,
		baseURL:     baseURL,
	}
}

func (h *Handlers) ServeWebApp(w http.ResponseWriter, r *http.Request) {
	err := h.templates.ExecuteTemplate(w, "index.html", nil)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
