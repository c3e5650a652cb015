// ABOUTME: Fake Lost & Found backend shared by command tests
// ABOUTME: Serves canned users, items, and requests over httptest

package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/lostfound/lostfound/internal/client"
	"github.com/lostfound/lostfound/internal/session"
)

var testUsers = map[string]client.User{
	"user-token":  {ID: 1, Username: "alice", Role: client.RoleUser},
	"staff-token": {ID: 2, Username: "sam", Role: client.RoleStaff},
	"admin-token": {ID: 3, Username: "root", Role: client.RoleAdmin},
}

var testPasswords = map[string]string{
	"alice": "user-token",
	"sam":   "staff-token",
	"root":  "admin-token",
}

type fakeBackend struct {
	*httptest.Server

	mu         sync.Mutex
	putStatus  int    // response code for PUT, 0 means 200
	claimed    string // CLAIMED list body, "" means a non-array response
	puts       []string
	created    []client.CreateRequestInput
	profileHit int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.Server = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.Close)
	return fb
}

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	user, authed := testUsers[token]

	switch {
	case r.URL.Path == "/auth/signin":
		var creds client.Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		tok, ok := testPasswords[creds.Username]
		if !ok || creds.Password != "pw" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Bad credentials"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(client.SigninResponse{Token: tok})

	case r.URL.Path == "/auth/signup":
		var input client.SignupInput
		json.NewDecoder(r.Body).Decode(&input)
		if input.Username == "taken" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Error: Username is already taken!"))
			return
		}
		w.Write([]byte("User registered successfully!"))

	case r.URL.Path == "/api/users/me":
		fb.profileHit++
		if !authed {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)

	case strings.HasPrefix(r.URL.Path, "/api/items/status/"):
		w.Header().Set("Content-Type", "application/json")
		switch strings.TrimPrefix(r.URL.Path, "/api/items/status/") {
		case "LOST":
			w.Write([]byte(`[{"id":1,"name":"Umbrella","description":"Black, left in room 101","status":"LOST","createdAt":"2024-03-01T10:00:00"}]`))
		case "FOUND":
			w.Write([]byte(`[{"id":2,"name":"Keys","status":"FOUND"}]`))
		case "CLAIMED":
			if fb.claimed != "" {
				w.Write([]byte(fb.claimed))
				return
			}
			w.Write([]byte(`{"error":"not a list"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}

	case r.URL.Path == "/api/requests" && r.Method == http.MethodPost:
		if !authed {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var input client.CreateRequestInput
		json.NewDecoder(r.Body).Decode(&input)
		fb.created = append(fb.created, input)
		if input.ItemID == 2 {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte("Request already exists"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":7,"status":"PENDING","user":{"username":"alice"},"item":{"id":1,"name":"Umbrella","status":"LOST"}}`))

	case r.URL.Path == "/api/requests" || r.URL.Path == "/api/requests/my":
		if !authed {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":42,"status":"PENDING","user":{"username":"alice"},"item":{"id":1,"name":"Umbrella","status":"LOST"}},
			{"id":43,"status":"APPROVED","user":{"username":"bob"},"item":{"id":2,"name":"Keys","status":"FOUND"}}
		]`))

	case strings.HasPrefix(r.URL.Path, "/api/requests/") && r.Method == http.MethodPut:
		fb.puts = append(fb.puts, r.URL.Path+"?"+r.URL.RawQuery)
		if fb.putStatus != 0 {
			w.WriteHeader(fb.putStatus)
			return
		}
		w.WriteHeader(http.StatusOK)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// useBackend points the command flags at server and a fresh config dir,
// and seeds the stored session with token
func useBackend(t *testing.T, server *httptest.Server, token string) string {
	t.Helper()
	t.Setenv("LOSTFOUND_API_URL", "")
	t.Setenv("LOSTFOUND_CONFIG_DIR", "")
	t.Setenv("LOSTFOUND_HTTP_TIMEOUT", "")

	dir := t.TempDir()
	apiURL = server.URL
	configDir = dir
	t.Cleanup(func() {
		apiURL = ""
		configDir = ""
		jsonOutput = false
	})

	if token != "" {
		if err := session.NewFileStore(dir).SetToken(token); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}
	return dir
}

func (fb *fakeBackend) profileHits() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.profileHit
}

func (fb *fakeBackend) putLog() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.puts...)
}

func (fb *fakeBackend) createdLog() []client.CreateRequestInput {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]client.CreateRequestInput(nil), fb.created...)
}
