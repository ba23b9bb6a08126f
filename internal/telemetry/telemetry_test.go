/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"visen/internal/script"
)

type recorder struct {
	mu      sync.Mutex
	events  [][]byte
	crashes [][]byte
}

func (r *recorder) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.events = append(r.events, b)
		r.mu.Unlock()
	})
	mux.HandleFunc("/crash", func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.crashes = append(r.crashes, b)
		r.mu.Unlock()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestBuildEventIsSent(t *testing.T) {
	var rec recorder
	srv := rec.server(t)

	c := New(Config{OptIn: true, EventsURL: srv.URL + "/events", Timeout: 2 * time.Second})
	defer c.Close()
	if !c.Enabled() {
		t.Fatal("expected client to be enabled")
	}

	c.Build(script.Build("# Secret Title\n\n```\nJOHN\nhi\n```\n"))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c.Flush(ctx)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 1 {
		t.Fatalf("events = %d, want 1", len(rec.events))
	}
	var ev Event
	if err := json.Unmarshal(rec.events[0], &ev); err != nil {
		t.Fatalf("bad event json: %v", err)
	}
	if ev.Name != "build" || ev.TS == "" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Props["dialogue_words"] != float64(1) {
		t.Fatalf("dialogue_words = %v", ev.Props["dialogue_words"])
	}
	for _, v := range ev.Props {
		if s, ok := v.(string); ok && s == "Secret Title" {
			t.Fatal("title leaked into telemetry")
		}
	}
}

func TestDisabledClientSendsNothing(t *testing.T) {
	var rec recorder
	srv := rec.server(t)

	c := New(Config{OptIn: false, EventsURL: srv.URL + "/events", CrashURL: srv.URL + "/crash"})
	defer c.Close()
	c.Event("build", nil)
	c.UploadCrash([]byte("stack"))
	c.Flush(context.Background())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 0 || len(rec.crashes) != 0 {
		t.Fatalf("disabled client sent data: %d events, %d crashes", len(rec.events), len(rec.crashes))
	}
}

func TestUploadCrash(t *testing.T) {
	var rec recorder
	srv := rec.server(t)

	c := New(Config{OptIn: true, CrashURL: srv.URL + "/crash"})
	defer c.Close()
	c.UploadCrash([]byte("STACKTRACE"))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.crashes) != 1 || string(rec.crashes[0]) != "STACKTRACE" {
		t.Fatalf("crash upload not received: %q", rec.crashes)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvOptIn, "yes")
	t.Setenv(EnvURL, " http://127.0.0.1:9/events ")
	t.Setenv(EnvCrashURL, "")
	t.Setenv(EnvTimeout, "2s 500ms")

	cfg := FromEnv()
	if !cfg.OptIn || cfg.EventsURL != "http://127.0.0.1:9/events" {
		t.Fatalf("FromEnv = %+v", cfg)
	}
	if cfg.Timeout != 2500*time.Millisecond {
		t.Fatalf("Timeout = %v", cfg.Timeout)
	}

	t.Setenv(EnvTimeout, "soon")
	if got := FromEnv().Timeout; got != defaultTimeout {
		t.Fatalf("bad timeout should fall back, got %v", got)
	}
}
