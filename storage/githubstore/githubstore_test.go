package githubstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mhpenta/pinflow"
	"github.com/mhpenta/pinflow/datauri"
)

var creds = pinflow.RepoCredentials{Username: "alice", Repo: "pins-cdn", Token: "ghp_test"}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha"`
	Branch  string `json:"branch"`
}

// fakeGitHub serves the few contents API routes the store uses.
type fakeGitHub struct {
	mu       sync.Mutex
	archived bool
	files    map[string]string // path -> sha
	puts     []putRequest
	refs     []string
	auth     []string
	failGet  bool
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.auth = append(f.auth, r.Header.Get("Authorization"))
	w.Header().Set("Content-Type", "application/json")

	const contents = "/repos/alice/pins-cdn/contents/"
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/repos/alice/pins-cdn":
		json.NewEncoder(w).Encode(map[string]any{"name": "pins-cdn", "archived": f.archived})

	case r.Method == http.MethodGet && len(r.URL.Path) > len(contents) && r.URL.Path[:len(contents)] == contents:
		f.refs = append(f.refs, r.URL.Query().Get("ref"))
		if f.failGet {
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"message":"boom"}`)
			return
		}
		path := r.URL.Path[len(contents):]
		sha, ok := f.files[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"message":"Not Found"}`)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"type": "file", "path": path, "sha": sha})

	case r.Method == http.MethodPut && len(r.URL.Path) > len(contents) && r.URL.Path[:len(contents)] == contents:
		var req putRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		path := r.URL.Path[len(contents):]
		if _, exists := f.files[path]; exists && req.SHA == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			io.WriteString(w, `{"message":"sha wasn't supplied"}`)
			return
		}
		f.puts = append(f.puts, req)
		f.files[path] = "sha-" + path
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"content": map[string]any{"path": path}})

	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"Not Found"}`)
	}
}

func newStore(t *testing.T, f *fakeGitHub) *Store {
	t.Helper()
	if f.files == nil {
		f.files = make(map[string]string)
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return New(
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name     string
		archived bool
		creds    pinflow.RepoCredentials
		want     bool
		wantErr  bool
	}{
		{name: "active repo", creds: creds, want: true},
		{name: "archived repo", archived: true, creds: creds, want: false},
		{name: "missing repo", creds: pinflow.RepoCredentials{Username: "alice", Repo: "gone", Token: "t"}, want: false, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeGitHub{archived: tt.archived}
			got, err := newStore(t, f).Verify(context.Background(), tt.creds)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
			if f.auth[0] != "Bearer "+tt.creds.Token {
				t.Errorf("Authorization = %q", f.auth[0])
			}
		})
	}
}

func TestUploadCreatesThenUpdates(t *testing.T) {
	f := &fakeGitHub{}
	s := newStore(t, f)
	ctx := context.Background()
	uri := datauri.Encode("image/jpeg", []byte("jpeg-bytes"))

	link, err := s.Upload(ctx, uri, "pin-cozy-loft.jpg", creds)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	want := "https://raw.githubusercontent.com/alice/pins-cdn/main/pins/pin-cozy-loft.jpg"
	if link != want {
		t.Errorf("Upload() = %q, want %q", link, want)
	}

	if _, err := s.Upload(ctx, uri, "pin-cozy-loft.jpg", creds); err != nil {
		t.Fatalf("second Upload() error = %v", err)
	}

	if len(f.puts) != 2 {
		t.Fatalf("got %d PUTs, want 2", len(f.puts))
	}
	first, second := f.puts[0], f.puts[1]
	if first.SHA != "" || second.SHA != "sha-pins/pin-cozy-loft.jpg" {
		t.Errorf("SHAs = %q, %q", first.SHA, second.SHA)
	}
	if first.Message != "Add/Update pin for pin-cozy-loft.jpg" || first.Branch != "main" {
		t.Errorf("first PUT = %+v", first)
	}
	if first.Content != base64.StdEncoding.EncodeToString([]byte("jpeg-bytes")) {
		t.Errorf("content = %q, want the decoded image re-encoded once", first.Content)
	}
	for _, ref := range f.refs {
		if ref != "main" {
			t.Errorf("existing file read at ref %q", ref)
		}
	}
}

func TestUploadTreatsReadFailureAsCreate(t *testing.T) {
	f := &fakeGitHub{failGet: true}
	s := newStore(t, f)

	_, err := s.Upload(context.Background(), datauri.Encode("image/jpeg", []byte("x")), "pin-a.jpg", creds)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if len(f.puts) != 1 || f.puts[0].SHA != "" {
		t.Errorf("puts = %+v", f.puts)
	}
}

func TestUploadRejectsConflictsAndBadImages(t *testing.T) {
	f := &fakeGitHub{failGet: true, files: map[string]string{"pins/pin-a.jpg": "old"}}
	s := newStore(t, f)

	if _, err := s.Upload(context.Background(), datauri.Encode("image/jpeg", []byte("x")), "pin-a.jpg", creds); err == nil {
		t.Error("expected error when the write is rejected")
	}
	if _, err := s.Upload(context.Background(), "data:image/jpeg;base64,!!!", "pin-b.jpg", creds); err == nil {
		t.Error("expected error for undecodable image")
	}
}

func TestRawURL(t *testing.T) {
	got := RawURL(creds, "pin-x.jpg")
	if got != "https://raw.githubusercontent.com/alice/pins-cdn/main/pins/pin-x.jpg" {
		t.Errorf("RawURL() = %q", got)
	}
}
