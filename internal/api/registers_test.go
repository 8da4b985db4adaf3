package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRegistersCreate(t *testing.T) {
	var register PoultryRegister
	var fileNames []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/breeders/b1/poultries/p1/registers" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("Failed to parse multipart form: %v", err)
		}
		_ = json.Unmarshal([]byte(r.MultipartForm.Value["register"][0]), &register)
		for _, fh := range r.MultipartForm.File["files"] {
			fileNames = append(fileNames, fh.Filename)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	out := newTestClient(server.URL).Registers().Create(context.Background(), "b1", "p1", "tok",
		PoultryRegister{RegisterType: RegisterTypeVaccination, Description: "dose 1"},
		[]File{{Name: "card.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}},
	)
	if !out.OK {
		t.Fatalf("expected success, got %v", out.Err())
	}
	if register.RegisterType != RegisterTypeVaccination || register.Description != "dose 1" {
		t.Errorf("unexpected register %+v", register)
	}
	if len(fileNames) != 1 || fileNames[0] != "card.pdf" {
		t.Errorf("unexpected files %v", fileNames)
	}
}

func TestRegistersCreate_WithoutFilesStillMultipart(t *testing.T) {
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	out := newTestClient(server.URL).Registers().Create(context.Background(), "b1", "p1", "tok", PoultryRegister{Description: "x"}, nil)
	if !out.OK {
		t.Fatalf("expected success, got %v", out.Err())
	}
	if contentType != "multipart/form-data; boundary=test-boundary" {
		t.Errorf("unexpected content type %q", contentType)
	}
}

func TestRegistersList(t *testing.T) {
	tests := []struct {
		name         string
		registerType string
		wantQuery    string
	}{
		{name: "no filter", registerType: "", wantQuery: ""},
		{name: "filter", registerType: RegisterTypeTournament, wantQuery: "registerType=TORNEIO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rawQuery string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				rawQuery = r.URL.RawQuery
				_, _ = w.Write([]byte(`{"ok":true,"registers":[{"id":"r1","type":"TORNEIO"},{"id":"r2","type":"TORNEIO"}]}`))
			}))
			defer server.Close()

			out := newTestClient(server.URL).Registers().List(context.Background(), "b1", "p1", "tok", tt.registerType)
			if !out.OK {
				t.Fatalf("expected success, got %v", out.Err())
			}
			if rawQuery != tt.wantQuery {
				t.Errorf("query = %q, want %q", rawQuery, tt.wantQuery)
			}
			if len(out.Value) != 2 || out.Value[0].ID != "r1" {
				t.Errorf("unexpected registers %+v", out.Value)
			}
		})
	}
}

func TestRegistersList_EmptyOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	for i := 0; i < 3; i++ {
		out := newTestClient(server.URL).Registers().List(context.Background(), "b1", "p1", "tok", "")
		if out.OK {
			t.Fatal("expected failure")
		}
		if out.Value == nil || len(out.Value) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", out.Value)
		}
	}
}

func TestRegistersList_MissingKeyIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	out := newTestClient(server.URL).Registers().List(context.Background(), "b1", "p1", "tok", "")
	if !out.OK || out.Value == nil {
		t.Errorf("expected empty non-nil slice on success, got %#v", out)
	}
}
