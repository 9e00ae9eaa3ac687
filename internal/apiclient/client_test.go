package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"mediabridge/internal/convert"
	"mediabridge/internal/formats"
)

func fastRetry() Option {
	return WithRetryWait(time.Millisecond, 5*time.Millisecond)
}

func TestClientConvertSendsTokenAndDecodes(t *testing.T) {
	var got convert.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/convert" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(convert.Response{Success: true, OutputFilePath: "/m/converted_videos/a_converted.mp4", Message: convert.SuccessMessage})
	}))
	defer srv.Close()

	client := New(srv.URL, "secret", fastRetry())
	resp, err := client.Convert(context.Background(), convert.Request{InputPath: "/m/a.webm", OutputFormat: "mp4", Quality: "high"})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !resp.Success || resp.OutputFilePath != "/m/converted_videos/a_converted.mp4" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if got.InputPath != "/m/a.webm" || got.OutputFormat != "mp4" || got.Quality != "high" {
		t.Fatalf("server received %+v", got)
	}
}

func TestClientConvertFailureIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(convert.Response{Error: "Input file not found: /x", ErrorKind: convert.KindInputNotFound})
	}))
	defer srv.Close()

	resp, err := New(srv.URL, "", fastRetry()).Convert(context.Background(), convert.Request{InputPath: "/x"})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if resp.Success || resp.ErrorKind != convert.KindInputNotFound {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one attempt, got %d", calls.Load())
	}
}

func TestClientConvertServerErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", fastRetry()).Convert(context.Background(), convert.Request{InputPath: "/x"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError || statusErr.Message != "boom" {
		t.Fatalf("expected status error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one attempt, got %d", calls.Load())
	}
}

func TestClientRetriesReads(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(formats.Enumerate())
	}))
	defer srv.Close()

	table, err := New(srv.URL, "", fastRetry()).Formats(context.Background())
	if err != nil {
		t.Fatalf("Formats: %v", err)
	}
	if !table.Success || len(table.Formats.Audio) == 0 {
		t.Fatalf("unexpected table: %+v", table)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestClientUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "wrong", fastRetry()).Encoder(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestNewAddsScheme(t *testing.T) {
	c := New("127.0.0.1:7591/", "")
	if c.baseURL != "http://127.0.0.1:7591" {
		t.Fatalf("baseURL = %q", c.baseURL)
	}
}
