package bodhi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func TestNewClient(t *testing.T) {
	client := NewClient()

	if client.BaseURL != "https://bodhi.fedoraproject.org" {
		t.Errorf("Expected BaseURL https://bodhi.fedoraproject.org, got %s", client.BaseURL)
	}

	if client.HTTPClient == nil {
		t.Error("Expected HTTPClient to be set")
	}

	if client.RowsPerPage != 100 {
		t.Errorf("Expected RowsPerPage 100, got %d", client.RowsPerPage)
	}
}

func TestQueryTestingSinglePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/updates/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("releases") != "F41" {
			t.Errorf("expected releases=F41, got %s", q.Get("releases"))
		}
		if q.Get("status") != "testing" {
			t.Errorf("expected status=testing, got %s", q.Get("status"))
		}
		if q.Get("content_type") != "rpm" {
			t.Errorf("expected content_type=rpm, got %s", q.Get("content_type"))
		}

		json.NewEncoder(w).Encode(updatesPage{
			Updates: []Update{
				{Alias: "FEDORA-2026-aaa", User: User{Name: "alice"}},
			},
			Page:  1,
			Pages: 1,
			Total: 1,
		})
	}))
	defer server.Close()

	client := NewClient()
	client.BaseURL = server.URL

	updates, err := client.QueryTesting("F41")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(updates))
	}
	if updates[0].Alias != "FEDORA-2026-aaa" {
		t.Errorf("unexpected alias %s", updates[0].Alias)
	}
}

func TestQueryTestingPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))

		resp := updatesPage{Page: page, Pages: 3, Total: 3}
		resp.Updates = []Update{
			{Alias: "FEDORA-2026-page" + strconv.Itoa(page)},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient()
	client.BaseURL = server.URL

	updates, err := client.QueryTesting("F41")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updates) != 3 {
		t.Fatalf("expected 3 updates across pages, got %d", len(updates))
	}
	for i, u := range updates {
		expected := "FEDORA-2026-page" + strconv.Itoa(i+1)
		if u.Alias != expected {
			t.Errorf("update %d: expected %s, got %s", i, expected, u.Alias)
		}
	}
}

func TestQueryTestingServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient()
	client.BaseURL = server.URL

	_, err := client.QueryTesting("F41")
	if !errors.Is(err, ErrFeedRequest) {
		t.Errorf("expected ErrFeedRequest, got %v", err)
	}
}

func TestQueryTestingMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not json"))
	}))
	defer server.Close()

	client := NewClient()
	client.BaseURL = server.URL

	_, err := client.QueryTesting("F41")
	if !errors.Is(err, ErrFeedDecode) {
		t.Errorf("expected ErrFeedDecode, got %v", err)
	}
}

func TestQueryTestingConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient()
	client.BaseURL = server.URL

	_, err := client.QueryTesting("F41")
	if !errors.Is(err, ErrFeedRequest) {
		t.Errorf("expected ErrFeedRequest, got %v", err)
	}
}

func TestBuildNEVRA(t *testing.T) {
	build := Build{NVR: "firefox-128.0-1.fc41", Epoch: 0}

	nevra, err := build.NEVRA()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nevra.Name != "firefox" || nevra.Version != "128.0" || nevra.Release != "1.fc41" {
		t.Errorf("unexpected NEVRA: %+v", nevra)
	}
	if nevra.Arch != "src" {
		t.Errorf("build identities are source packages, got arch %q", nevra.Arch)
	}

	bad := Build{NVR: "garbage"}
	if _, err := bad.NEVRA(); err == nil {
		t.Error("expected error for unparseable NVR")
	}
}
