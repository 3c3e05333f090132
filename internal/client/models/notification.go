package models

import (
	"encoding/json"
	"fmt"
)

// Notification is a normalized server notification. Read is mutated locally
// on tap; the server is not informed (the API exposes no mark-read call).
type Notification struct {
	ID         string
	FromID     string
	FromName   string
	FromAvatar string
	Message    string
	PostID     string
	Read       bool
	CreatedAt  string
}

type rawNotification struct {
	ID               FlexString `json:"id"`
	FromUUID         FlexString `json:"from_uuid"`
	FromUsername     string     `json:"from_username"`
	FromProfilePhoto string     `json:"from_profile_photo"`
	Message          string     `json:"message"`
	PostID           FlexString `json:"post_id"`
	IsRead           FlexBool   `json:"is_read"`
	CreatedAt        string     `json:"created_at"`
}

func (r rawNotification) normalize() Notification {
	return Notification{
		ID:         string(r.ID),
		FromID:     string(r.FromUUID),
		FromName:   firstNonEmpty(r.FromUsername, "Someone"),
		FromAvatar: firstNonEmpty(r.FromProfilePhoto, DefaultAvatar),
		Message:    firstNonEmpty(r.Message, "sent you a notification"),
		PostID:     string(r.PostID),
		Read:       bool(r.IsRead),
		CreatedAt:  firstNonEmpty(r.CreatedAt, "Just now"),
	}
}

// DecodeNotifications parses a notifications response, accepting both a bare
// array and an object with a "notifications" key.
func DecodeNotifications(data []byte) ([]Notification, error) {
	var raws []rawNotification
	if err := json.Unmarshal(data, &raws); err != nil {
		var envelope struct {
			Notifications []rawNotification `json:"notifications"`
		}
		if err2 := json.Unmarshal(data, &envelope); err2 != nil {
			return nil, fmt.Errorf("decoding notifications: %w", err)
		}
		raws = envelope.Notifications
	}

	out := make([]Notification, 0, len(raws))
	for _, r := range raws {
		out = append(out, r.normalize())
	}
	return out, nil
}
