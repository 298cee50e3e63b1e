// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// mockService runs until canceled, optionally failing a fixed number of
// times first.
type mockService struct {
	name       string
	startCount atomic.Int32
	failures   atomic.Int32
	maxFails   int32
}

func newMockService(name string, maxFails int32) *mockService {
	return &mockService{name: name, maxFails: maxFails}
}

func (m *mockService) Serve(ctx context.Context) error {
	m.startCount.Add(1)
	if m.failures.Add(1) <= m.maxFails {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string { return m.name }
