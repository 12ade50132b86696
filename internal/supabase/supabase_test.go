package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bryan-cox/launchledger/internal/model"
	"github.com/bryan-cox/launchledger/internal/store"
)

func TestList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/business_milestones" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("user_id"); got != "eq.user-1" {
			t.Errorf("user_id filter = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("apikey"); got != "secret" {
			t.Errorf("apikey = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id":"g0","user_id":"user-1","phase":"growth","milestone_name":"Break even","completed":false,"completed_date":null,"order_index":0},
			{"id":"i0","user_id":"user-1","phase":"idea","milestone_name":"Validate","completed":true,"completed_date":"2024-08-01T09:00:00Z","order_index":0}
		]`)
	}))
	defer server.Close()

	client := New(server.URL+"/", "secret")
	list, err := client.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 milestones, got %d", len(list))
	}
	if list[0].ID != "i0" || list[1].ID != "g0" {
		t.Errorf("milestones not in phase order: %s, %s", list[0].ID, list[1].ID)
	}
	if list[0].CompletedAt == nil || !list[0].CompletedAt.Equal(time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("completed_date not decoded: %v", list[0].CompletedAt)
	}
	if list[0].Name != "Validate" || list[0].Phase != model.PhaseIdea {
		t.Errorf("unexpected milestone: %+v", list[0])
	}
}

func TestUpdate(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if r.URL.Query().Get("id") == "eq.missing" {
			io.WriteString(w, `[]`)
			return
		}
		io.WriteString(w, `[{"id":"i0"}]`)
	}))
	defer server.Close()

	client := New(server.URL, "secret")
	ctx := context.Background()

	t.Run("completing sends a timestamp", func(t *testing.T) {
		stamp := time.Date(2024, 8, 2, 10, 0, 0, 0, time.UTC)
		if err := client.Update(ctx, "i0", true, &stamp); err != nil {
			t.Fatalf("Update returned error: %v", err)
		}
		if gotBody["completed"] != true || gotBody["completed_date"] != "2024-08-02T10:00:00Z" {
			t.Errorf("unexpected body: %v", gotBody)
		}
	})

	t.Run("reopening clears the timestamp", func(t *testing.T) {
		if err := client.Update(ctx, "i0", false, nil); err != nil {
			t.Fatalf("Update returned error: %v", err)
		}
		if v, ok := gotBody["completed_date"]; !ok || v != nil {
			t.Errorf("completed_date should be null, body: %v", gotBody)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		err := client.Update(ctx, "missing", true, nil)
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	err := New(server.URL, "bad").Insert(context.Background(), []model.Milestone{{ID: "x"}})
	if err == nil || !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("expected status error with message, got %v", err)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(KeyEnv, "")
	if _, err := NewFromEnv("https://example.supabase.co"); err == nil {
		t.Error("expected error when SUPABASE_KEY is unset")
	}
	t.Setenv(KeyEnv, "k")
	c, err := NewFromEnv("https://example.supabase.co/")
	if err != nil {
		t.Fatalf("NewFromEnv returned error: %v", err)
	}
	if c.BaseURL != "https://example.supabase.co" {
		t.Errorf("BaseURL = %q", c.BaseURL)
	}
}
