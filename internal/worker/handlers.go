package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"podbooker/internal/db"
	"podbooker/internal/mailer"
	"podbooker/internal/models"
	"podbooker/pkg/tasks"
)

// Guests still pending after this long get a single reminder email.
const reminderAge = 72 * time.Hour

type TaskHandler struct {
	store   *db.Store
	mailer  mailer.Mailer
	baseURL string
}

func NewTaskHandler(store *db.Store, m mailer.Mailer, baseURL string) *TaskHandler {
	return &TaskHandler{store: store, mailer: m, baseURL: baseURL}
}

// HandleSendInvitationTask composes and delivers the booking-link email for
// one guest. The guest row was committed before this task was enqueued;
// delivery failures are returned so asynq retries them.
func (h *TaskHandler) HandleSendInvitationTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.SendInvitationTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	log.Printf("Sending invitation to guest: %s", p.GuestID)

	guest, err := h.store.GetGuestByID(p.GuestID)
	if err != nil {
		return fmt.Errorf("failed to get guest by id: %w", err)
	}

	episode, err := h.store.GetEpisodeByID(guest.EpisodeID)
	if err != nil {
		return fmt.Errorf("failed to get episode by id: %w", err)
	}

	msg := h.invitationMessage(guest, episode, "You're invited to record a podcast episode")
	if err := h.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}

	log.Printf("Invitation sent to %s for episode %s", guest.Email, episode.ID)
	return nil
}

// HandleRemindPendingTask emails every guest that has been pending for
// longer than reminderAge and was not reminded before. Each guest is
// independent; a failed send is logged and skipped, not retried here.
func (h *TaskHandler) HandleRemindPendingTask(ctx context.Context, t *asynq.Task) error {
	guests, err := h.store.ListPendingGuestsBefore(time.Now().Add(-reminderAge))
	if err != nil {
		return fmt.Errorf("failed to list pending guests: %w", err)
	}

	for _, guest := range guests {
		episode, err := h.store.GetEpisodeByID(guest.EpisodeID)
		if err != nil {
			log.Printf("failed to get episode %s for reminder: %v", guest.EpisodeID, err)
			continue
		}

		msg := h.invitationMessage(guest, episode, "Reminder: pick a time slot for your podcast recording")
		if err := h.mailer.Send(ctx, msg); err != nil {
			log.Printf("failed to send reminder to %s: %v", guest.Email, err)
			continue
		}

		if err := h.store.MarkGuestReminded(guest.ID); err != nil {
			log.Printf("failed to mark guest %s reminded: %v", guest.ID, err)
		}
	}

	return nil
}

func (h *TaskHandler) invitationMessage(guest models.Guest, episode models.Episode, subject string) mailer.Message {
	hostName := "Your host"
	if host, err := h.store.GetHostByID(episode.HostID); err == nil && host.DisplayName != "" {
		hostName = host.DisplayName
	}

	bookingURL := fmt.Sprintf("%s/guest-booking/%s", h.baseURL, guest.ID)

	text := fmt.Sprintf(
		"Hi %s,\n\n%s has invited you to record \"%s\" on %s.\n\n%s\n\nPick a time slot or decline here:\n%s\n",
		guest.Name, hostName, episode.Title, episode.Date.Format("January 2, 2006"),
		episode.Description, bookingURL,
	)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>%s has invited you to record <b>%s</b> on %s.</p><p>%s</p><p><a href=%q>Pick a time slot or decline</a></p>",
		guest.Name, hostName, episode.Title, episode.Date.Format("January 2, 2006"),
		episode.Description, bookingURL,
	)

	return mailer.Message{
		To:      guest.Email,
		ToName:  guest.Name,
		Subject: fmt.Sprintf("%s: %s", subject, episode.Title),
		Text:    text,
		HTML:    html,
	}
}
