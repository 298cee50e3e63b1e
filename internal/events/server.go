// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package events

import (
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

const serverReadyTimeout = 10 * time.Second

// EmbeddedServer is an in-process NATS server for single-node deployments.
// Only core subjects are used, so JetStream stays off.
type EmbeddedServer struct {
	server    *server.Server
	clientURL string
}

// NewEmbeddedServer starts a NATS server and waits until it accepts clients.
func NewEmbeddedServer(cfg EmbeddedConfig) (*EmbeddedServer, error) {
	opts := &server.Options{
		ServerName: "newsxpress-events",
		Host:       cfg.Host,
		Port:       cfg.Port,
		JetStream:  false,
		NoLog:      true,
		NoSigs:     true,
		MaxPayload: 1024 * 1024,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(serverReadyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within %s", serverReadyTimeout)
	}

	return &EmbeddedServer{
		server:    ns,
		clientURL: ns.ClientURL(),
	}, nil
}

// ClientURL returns the URL clients connect to.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// IsRunning reports whether the server is up.
func (s *EmbeddedServer) IsRunning() bool {
	return s.server.Running()
}

// Shutdown stops the server and waits for it to exit.
func (s *EmbeddedServer) Shutdown() {
	s.server.Shutdown()
	s.server.WaitForShutdown()
}
