package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/philosolog/mal-progress-box/internal/shared"
)

func TestGistService(t *testing.T) {
	t.Run("sends a PATCH replacing the named file", func(t *testing.T) {
		var (
			method, path, auth string
			payload            gistPatch
		)
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			path = r.URL.Path
			auth = r.Header.Get("Authorization")

			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &payload); err != nil {
				t.Errorf("failed to decode payload: %v", err)
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("{}"))
		}))
		defer ts.Close()

		svc := NewGistService("tok", nil, nil)
		svc.baseURL = ts.URL

		err := svc.Update(context.Background(), "abc123", "🍖 MAL anime I'm currently watching", "line one\nline two")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", method)
		}
		if path != "/gists/abc123" {
			t.Errorf("unexpected path %q", path)
		}
		if auth != "token tok" {
			t.Errorf("unexpected auth header %q", auth)
		}

		file, ok := payload.Files["🍖 MAL anime I'm currently watching"]
		if !ok {
			t.Fatalf("expected the named file in the payload, got %v", payload.Files)
		}
		if file.Content != "line one\nline two" {
			t.Errorf("unexpected content %q", file.Content)
		}
	})

	t.Run("401 reports a rejected token", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message": "Bad credentials"}`, http.StatusUnauthorized)
		}))
		defer ts.Close()

		svc := NewGistService("bad", nil, nil)
		svc.baseURL = ts.URL

		err := svc.Update(context.Background(), "abc123", "file", "content")
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("404 reports a missing gist", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
		}))
		defer ts.Close()

		svc := NewGistService("tok", nil, nil)
		svc.baseURL = ts.URL

		err := svc.Update(context.Background(), "missing", "file", "content")
		if !errors.Is(err, shared.ErrPublishFailed) {
			t.Errorf("expected ErrPublishFailed, got %v", err)
		}
	})

	t.Run("other failures surface the status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer ts.Close()

		svc := NewGistService("tok", nil, nil)
		svc.baseURL = ts.URL

		err := svc.Update(context.Background(), "abc123", "file", "content")
		if !errors.Is(err, shared.ErrPublishFailed) {
			t.Errorf("expected ErrPublishFailed, got %v", err)
		}
	})
}
