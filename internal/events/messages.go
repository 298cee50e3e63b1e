// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ErrInvalidActivity is returned for activity missing its required fields.
var ErrInvalidActivity = errors.New("invalid activity")

// ModelTrained announces a new artifact generation.
type ModelTrained struct {
	EventID    string    `json:"event_id"`
	Generation string    `json:"generation,omitempty"`
	TrainedAt  time.Time `json:"trained_at"`
	// Trigger is what started the cycle: schedule, startup, manual, external.
	Trigger string `json:"trigger"`
	Source  string `json:"source"`
}

// Activity is one user interaction with an article.
type Activity struct {
	EventID      string            `json:"event_id"`
	UserID       string            `json:"user_id,omitempty"`
	ArticleID    string            `json:"article_id"`
	ActivityType string            `json:"activity_type"`
	Timestamp    time.Time         `json:"timestamp"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Normalize fills defaults and checks required fields. A zero timestamp
// becomes now.
func (a *Activity) Normalize(now time.Time) error {
	if a.ArticleID == "" {
		return fmt.Errorf("%w: article_id is required", ErrInvalidActivity)
	}
	if a.ActivityType == "" {
		return fmt.Errorf("%w: activity_type is required", ErrInvalidActivity)
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = now.UTC()
	}
	if a.EventID == "" {
		a.EventID = uuid.NewString()
	}
	return nil
}

func newMessage(eventID string, v interface{}) (*message.Message, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	if eventID == "" {
		eventID = uuid.NewString()
	}
	msg := message.NewMessage(eventID, payload)
	msg.Metadata.Set("content_type", "application/json")
	return msg, nil
}

// DecodeModelTrained parses a models.trained payload. An empty payload is a
// valid bare trigger.
func DecodeModelTrained(payload []byte) (ModelTrained, error) {
	var ev ModelTrained
	if len(payload) == 0 {
		return ev, nil
	}
	if err := json.Unmarshal(payload, &ev); err != nil {
		return ev, fmt.Errorf("decode models.trained: %w", err)
	}
	return ev, nil
}

// DecodeActivity parses an activity payload.
func DecodeActivity(payload []byte) (Activity, error) {
	var a Activity
	if err := json.Unmarshal(payload, &a); err != nil {
		return a, fmt.Errorf("decode activity: %w", err)
	}
	return a, nil
}
