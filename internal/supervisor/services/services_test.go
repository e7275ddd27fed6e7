// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package services

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ suture.Service = (*ConsumerService)(nil)
	_ suture.Service = (*RefreshService)(nil)
)

type mockHTTPServer struct {
	serveErr error
	served   atomic.Int32
	shutdown atomic.Int32
	stopCh   chan struct{}
}

func newMockHTTPServer(serveErr error) *mockHTTPServer {
	return &mockHTTPServer{serveErr: serveErr, stopCh: make(chan struct{})}
}

func (m *mockHTTPServer) Serve(l net.Listener) error {
	m.served.Add(1)
	defer l.Close()
	if m.serveErr != nil {
		return m.serveErr
	}
	<-m.stopCh
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	m.shutdown.Add(1)
	close(m.stopCh)
	return nil
}

func TestHTTPServerService(t *testing.T) {
	t.Run("graceful shutdown on cancel", func(t *testing.T) {
		server := newMockHTTPServer(nil)
		svc := NewHTTPServerService(server, "127.0.0.1:0", time.Second, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- svc.Serve(ctx) }()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return")
		}
		if server.shutdown.Load() != 1 {
			t.Errorf("Shutdown called %d times, want 1", server.shutdown.Load())
		}
	})

	t.Run("bind failure is returned before serving", func(t *testing.T) {
		server := newMockHTTPServer(nil)
		svc := NewHTTPServerService(server, "127.0.0.1:0", time.Second, zerolog.Nop())
		svc.listen = func(string, string) (net.Listener, error) {
			return nil, errors.New("address in use")
		}
		if err := svc.Serve(context.Background()); err == nil {
			t.Error("Serve() = nil, want listen error")
		}
		if server.served.Load() != 0 {
			t.Error("Serve called on the server after a bind failure")
		}
	})

	t.Run("serve failure is returned", func(t *testing.T) {
		svc := NewHTTPServerService(newMockHTTPServer(errors.New("accept failed")), "127.0.0.1:0", time.Second, zerolog.Nop())
		if err := svc.Serve(context.Background()); err == nil {
			t.Error("Serve() = nil, want serve error")
		}
	})

	t.Run("serves real handler", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("listen: %v", err)
		}
		addr := ln.Addr().String()
		_ = ln.Close()

		server := &http.Server{
			Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}),
			ReadHeaderTimeout: time.Second,
		}
		svc := NewHTTPServerService(server, addr, time.Second, zerolog.Nop())
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- svc.Serve(ctx) }()

		var resp *http.Response
		for i := 0; i < 50; i++ {
			resp, err = http.Get("http://" + addr)
			if err == nil {
				break
			}
			time.Sleep(10 * time.Millisecond)
		}
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("status = %d, want 204", resp.StatusCode)
		}

		cancel()
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	})

	t.Run("default shutdown timeout", func(t *testing.T) {
		svc := NewHTTPServerService(newMockHTTPServer(nil), ":0", 0, zerolog.Nop())
		if svc.shutdownTimeout != 10*time.Second {
			t.Errorf("shutdownTimeout = %v, want 10s", svc.shutdownTimeout)
		}
	})
}

type fakeConsumer struct {
	err   error
	block bool
}

func (f *fakeConsumer) Topic() string { return "stylist.interactions" }

func (f *fakeConsumer) Run(ctx context.Context) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func TestConsumerService(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name     string
		consumer *fakeConsumer
		ctx      context.Context
		want     error
	}{
		{"canceled", &fakeConsumer{block: true}, canceled, context.Canceled},
		{"subscribe failure", &fakeConsumer{err: errors.New("no stream")}, context.Background(), nil},
		{"subscription closed", &fakeConsumer{}, context.Background(), errSubscriptionClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewConsumerService(tt.consumer, zerolog.Nop())
			err := svc.Serve(tt.ctx)
			if err == nil {
				t.Fatal("Serve() = nil, want error so the supervisor restarts")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Serve() = %v, want %v", err, tt.want)
			}
		})
	}

	if got := NewConsumerService(&fakeConsumer{}, zerolog.Nop()).String(); got != "event-consumer:stylist.interactions" {
		t.Errorf("String() = %q", got)
	}
}

type fakeRefresher struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRefresher) Refresh(context.Context) error {
	f.calls.Add(1)
	return f.err
}

type fakePruner struct {
	calls atomic.Int32
}

func (f *fakePruner) PruneCaches() (profiles, products int) {
	f.calls.Add(1)
	return 1, 2
}

func TestRefreshService(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"success", nil},
		{"refresh failures keep running", errors.New("source down")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trends := &fakeRefresher{err: tt.err}
			pruner := &fakePruner{}
			svc := NewRefreshService(trends, pruner, 10*time.Millisecond, zerolog.Nop())

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() = %v, want deadline exceeded", err)
			}
			if trends.calls.Load() < 2 {
				t.Errorf("Refresh called %d times, want startup plus ticks", trends.calls.Load())
			}
			if pruner.calls.Load() < 1 {
				t.Error("PruneCaches never called")
			}
		})
	}

	t.Run("nil dependencies", func(t *testing.T) {
		svc := NewRefreshService(nil, nil, 5*time.Millisecond, zerolog.Nop())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve() = %v", err)
		}
	})
}
