package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAdvertisingsCreate(t *testing.T) {
	var payload struct {
		Advertising Advertising `json:"advertising"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/breeders/b1/poultries/p1/advertisings" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON body, got %s", r.Header.Get("Content-Type"))
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		_, _ = w.Write([]byte(`{"ok":true,"advertising":{"id":"a1","price":250}}`))
	}))
	defer server.Close()

	out := newTestClient(server.URL).Advertisings().Create(context.Background(), "b1", "p1", "tok", Advertising{Price: 250})
	if !out.OK {
		t.Fatalf("expected success, got %v", out.Err())
	}
	if out.Value == nil || out.Value.ID != "a1" || out.Value.Price != 250 {
		t.Errorf("unexpected advertising %+v", out.Value)
	}
	if payload.Advertising.Price != 250 {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestAdvertisingsCreate_FailureIsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errorKind":"VALIDATION","message":"price must be positive"}`))
	}))
	defer server.Close()

	out := newTestClient(server.URL).Advertisings().Create(context.Background(), "b1", "p1", "tok", Advertising{Price: -1})
	if out.OK || out.Value != nil {
		t.Fatalf("expected nil failure, got %+v", out)
	}
	if out.Failure == nil || out.Failure.Message != "price must be positive" {
		t.Errorf("unexpected failure %+v", out.Failure)
	}
	if CodeOf(out.Err()) != ErrValidation {
		t.Errorf("CodeOf = %s, want %s", CodeOf(out.Err()), ErrValidation)
	}
}

func TestAdvertisingsRemove(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/v1/breeders/b1/poultries/p1/advertisings/a1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	out := newTestClient(server.URL).Advertisings().Remove(context.Background(), "b1", "p1", "a1", "tok")
	if !out.OK {
		t.Fatalf("expected success, got %v", out.Err())
	}
}

func TestAdvertisingsUpdatePrice(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/v1/breeders/b1/poultries/p1/advertisings/a1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	out := newTestClient(server.URL).Advertisings().UpdatePrice(context.Background(), "b1", "p1", "a1", "tok", 99.9)
	if !out.OK {
		t.Fatalf("expected success, got %v", out.Err())
	}
	if body != `{"price":99.9}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestAdvertisingsAnswerQuestion(t *testing.T) {
	var payload struct {
		Answer AdvertisingQuestionAnswer `json:"answer"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := "/v1/breeders/b1/poultries/p1/advertisings/a1/questions/q1/answers"
		if r.Method != http.MethodPost || r.URL.Path != want {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	out := newTestClient(server.URL).Advertisings().AnswerQuestion(context.Background(), "b1", "p1", "a1", "q1", "tok",
		AdvertisingQuestionAnswer{Content: "Yes, vaccinated"})
	if !out.OK {
		t.Fatalf("expected success, got %v", out.Err())
	}
	if payload.Answer.Content != "Yes, vaccinated" {
		t.Errorf("unexpected payload %+v", payload)
	}
}
