package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestListFolderChildren(t *testing.T) {
	var requested string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value": [
			{"id": "i1", "name": "cv.pdf", "file": {"mimeType": "application/pdf"}},
			{"id": "i2", "name": "subfolder", "folder": {"childCount": 3}}
		]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), zap.NewNop())
	client.APIURL = ts.URL

	items, err := client.ListFolderChildren(context.Background(), "drive-1", "folder-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requested != "/drives/drive-1/items/folder-1/children" {
		t.Fatalf("unexpected path: %s", requested)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	if !items[0].IsFile() {
		t.Fatalf("expected first item to be a file: %+v", items[0])
	}

	if items[1].IsFile() {
		t.Fatalf("expected second item to be a folder: %+v", items[1])
	}
}

func TestDownloadItem(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/drives/d/items/i/content" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("resume bytes"))
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), zap.NewNop())
	client.APIURL = ts.URL

	data, err := client.DownloadItem(context.Background(), "d", "i")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(data) != "resume bytes" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestGraphBadStatusIsAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), zap.NewNop())
	client.APIURL = ts.URL

	if _, err := client.ListFolderChildren(context.Background(), "d", "f"); err == nil {
		t.Fatalf("expected error on forbidden response")
	}
}
