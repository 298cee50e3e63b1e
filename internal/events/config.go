// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package events

import (
	"fmt"
	"time"
)

// Default topic names.
const (
	TopicModelsTrained = "newsxpress.models.trained"
	TopicActivity      = "newsxpress.activity"
)

// Transport names.
const (
	TransportNATS   = "nats"
	TransportMemory = "memory"
)

// Config controls the event transport and the consumers built on it.
type Config struct {
	Enabled   bool
	Transport string

	// URL is the NATS server to connect to. Ignored when Embedded is set.
	URL           string
	Embedded      EmbeddedConfig
	MaxReconnects int
	ReconnectWait time.Duration

	// QueueGroup, when set, hands each event to one member of the group.
	// Leave it empty so every replica reloads its own snapshot.
	QueueGroup   string
	CloseTimeout time.Duration

	TrainedTopic  string
	ActivityTopic string

	// ReloadInterval is the minimum spacing between reloads triggered by
	// events; events arriving inside it are coalesced.
	ReloadInterval time.Duration

	// ActivityLogPath is the JSONL file activity is appended to. Empty
	// disables the file sink.
	ActivityLogPath string
}

// EmbeddedConfig configures an in-process NATS server.
type EmbeddedConfig struct {
	Enabled bool
	Host    string
	// Port -1 picks a random free port.
	Port int
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		Transport:      TransportNATS,
		URL:            "nats://127.0.0.1:4222",
		Embedded:       EmbeddedConfig{Enabled: true, Host: "127.0.0.1", Port: 4222},
		MaxReconnects:  -1,
		ReconnectWait:  2 * time.Second,
		CloseTimeout:   10 * time.Second,
		TrainedTopic:   TopicModelsTrained,
		ActivityTopic:  TopicActivity,
		ReloadInterval: 30 * time.Second,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Transport {
	case TransportNATS:
		if c.URL == "" && !c.Embedded.Enabled {
			return fmt.Errorf("events url is required when the embedded server is disabled")
		}
	case TransportMemory:
	default:
		return fmt.Errorf("events transport must be one of [%s %s], got %q", TransportNATS, TransportMemory, c.Transport)
	}
	if c.TrainedTopic == "" || c.ActivityTopic == "" {
		return fmt.Errorf("events topics must not be empty")
	}
	if c.ReloadInterval < 0 {
		return fmt.Errorf("events reload interval must not be negative, got %s", c.ReloadInterval)
	}
	return nil
}
