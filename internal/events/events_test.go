// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package events

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/newsxpress/internal/logging"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults disabled", func(c *Config) {}, false},
		{"enabled nats embedded", func(c *Config) { c.Enabled = true }, false},
		{"memory", func(c *Config) { c.Enabled = true; c.Transport = TransportMemory }, false},
		{"unknown transport", func(c *Config) { c.Enabled = true; c.Transport = "kafka" }, true},
		{"no url no embedded", func(c *Config) { c.Enabled = true; c.URL = ""; c.Embedded.Enabled = false }, true},
		{"empty topic", func(c *Config) { c.Enabled = true; c.TrainedTopic = "" }, true},
		{"negative interval", func(c *Config) { c.Enabled = true; c.ReloadInterval = -time.Second }, true},
		{"disabled ignores errors", func(c *Config) { c.Transport = "kafka" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestActivityNormalize(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	a := Activity{ArticleID: "a1", ActivityType: "click"}
	require.NoError(t, a.Normalize(now))
	assert.Equal(t, now, a.Timestamp)
	assert.NotEmpty(t, a.EventID)

	ts := now.Add(-time.Hour)
	b := Activity{ArticleID: "a1", ActivityType: "view", Timestamp: ts, EventID: "e1"}
	require.NoError(t, b.Normalize(now))
	assert.Equal(t, ts, b.Timestamp)
	assert.Equal(t, "e1", b.EventID)

	assert.ErrorIs(t, (&Activity{ActivityType: "view"}).Normalize(now), ErrInvalidActivity)
	assert.ErrorIs(t, (&Activity{ArticleID: "a1"}).Normalize(now), ErrInvalidActivity)
}

func TestDecodeModelTrained(t *testing.T) {
	ev, err := DecodeModelTrained(nil)
	require.NoError(t, err)
	assert.Empty(t, ev.Generation)

	ev, err = DecodeModelTrained([]byte(`{"generation":"g7","trigger":"schedule"}`))
	require.NoError(t, err)
	assert.Equal(t, "g7", ev.Generation)
	assert.Equal(t, "schedule", ev.Trigger)

	_, err = DecodeModelTrained([]byte(`{`))
	assert.Error(t, err)
}

type recordingPublisher struct {
	mu   sync.Mutex
	got  []Activity
	fail bool
}

func (p *recordingPublisher) PublishActivity(_ context.Context, a Activity) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.got = append(p.got, a)
	return nil
}

func TestActivityTrackerWritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "activity.jsonl")
	pub := &recordingPublisher{}
	tracker, err := NewActivityTracker(path, pub, logging.Nop())
	require.NoError(t, err)

	_, err = tracker.Track(context.Background(), Activity{UserID: "u1", ArticleID: "a1", ActivityType: "click"})
	require.NoError(t, err)
	_, err = tracker.Track(context.Background(), Activity{ArticleID: "a2", ActivityType: "view"})
	require.NoError(t, err)
	_, err = tracker.Track(context.Background(), Activity{UserID: "u1"})
	require.ErrorIs(t, err, ErrInvalidActivity)
	require.NoError(t, tracker.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []Activity
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var a Activity
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &a))
		lines = append(lines, a)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "a1", lines[0].ArticleID)
	assert.Equal(t, "u1", lines[0].UserID)
	assert.False(t, lines[1].Timestamp.IsZero())
	assert.Len(t, pub.got, 2)
}

func TestActivityTrackerPublishFailureIsNotFatal(t *testing.T) {
	tracker, err := NewActivityTracker("", &recordingPublisher{fail: true}, logging.Nop())
	require.NoError(t, err)

	got, err := tracker.Track(context.Background(), Activity{ArticleID: "a1", ActivityType: "share"})
	require.NoError(t, err)
	assert.Equal(t, "share", got.ActivityType)
	assert.NoError(t, tracker.Close())
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error { return errors.New("no route") }
func (failingPublisher) Close() error                              { return nil }

func TestPublisherBreakerOpens(t *testing.T) {
	p := NewPublisher(failingPublisher{}, DefaultConfig(), "test", logging.Nop())

	for i := 0; i < 5; i++ {
		require.Error(t, p.PublishModelTrained(context.Background(), ModelTrained{Trigger: "manual"}))
	}
	assert.Equal(t, "open", p.BreakerState())

	p.Close()
	assert.ErrorIs(t, p.PublishActivity(context.Background(), Activity{}), ErrPublisherClosed)
}

func TestPublisherStampsModelTrained(t *testing.T) {
	ch := NewMemoryPubSub(logging.NewWatermillLogger(logging.Nop()))
	defer ch.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	msgs, err := ch.Subscribe(ctx, TopicModelsTrained)
	require.NoError(t, err)

	p := NewPublisher(ch, DefaultConfig(), "recommender-1", logging.Nop())
	require.NoError(t, p.PublishModelTrained(ctx, ModelTrained{Generation: "g1", Trigger: "schedule"}))

	select {
	case msg := <-msgs:
		msg.Ack()
		ev, err := DecodeModelTrained(msg.Payload)
		require.NoError(t, err)
		assert.Equal(t, "g1", ev.Generation)
		assert.Equal(t, "recommender-1", ev.Source)
		assert.False(t, ev.TrainedAt.IsZero())
		assert.Equal(t, "application/json", msg.Metadata.Get("content_type"))
	case <-time.After(5 * time.Second):
		t.Fatal("message not delivered")
	}
}
