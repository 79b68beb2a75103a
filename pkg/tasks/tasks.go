package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeSendInvitation = "invitation:send"
	TypeRemindPending  = "guests:remind"
)

type SendInvitationTaskPayload struct {
	GuestID string
}

func NewSendInvitationTask(guestID string) (*asynq.Task, error) {
	payload, err := json.Marshal(SendInvitationTaskPayload{GuestID: guestID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSendInvitation, payload), nil
}

func NewRemindPendingTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeRemindPending, nil), nil
}
