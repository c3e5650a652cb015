// ABOUTME: Claim request lists for the requester and for reviewers
// ABOUTME: Holds the list per token and patches a request only after the backend accepts a decision

package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lostfound/lostfound/internal/client"
)

// Scope selects which requests a queue holds
type Scope int

const (
	// ScopeMine is the signed-in user's own requests
	ScopeMine Scope = iota
	// ScopeAll is every request, for staff and admins
	ScopeAll
)

func (s Scope) String() string {
	if s == ScopeAll {
		return "all"
	}
	return "mine"
}

// Lister fetches request lists
type Lister interface {
	MyRequests(ctx context.Context, token string) ([]client.Request, error)
	ListRequests(ctx context.Context, token string) ([]client.Request, error)
}

// Updater sends review decisions
type Updater interface {
	UpdateRequestStatus(ctx context.Context, token string, id int64, status client.RequestStatus) error
}

// CanList reports whether user may open the list for scope
func CanList(scope Scope, user *client.User) bool {
	if user == nil {
		return false
	}
	if scope == ScopeMine {
		return true
	}
	return user.Role == client.RoleStaff || user.Role == client.RoleAdmin
}

// CanReview reports whether user may approve or reject requests. Pass the
// freshly fetched profile, never a cached role.
func CanReview(user *client.User) bool {
	return user != nil && user.Role == client.RoleAdmin
}

// Actionable reports whether a decision can still be made on r
func Actionable(r client.Request) bool {
	return r.Status == client.RequestPending
}

// Fetch retrieves the list for scope
func Fetch(ctx context.Context, lister Lister, scope Scope, token string) ([]client.Request, error) {
	var (
		requests []client.Request
		err      error
	)
	if scope == ScopeAll {
		requests, err = lister.ListRequests(ctx, token)
	} else {
		requests, err = lister.MyRequests(ctx, token)
	}
	if err != nil {
		return nil, fmt.Errorf("list %s requests: %w", scope, err)
	}
	if requests == nil {
		requests = []client.Request{}
	}
	return requests, nil
}

// Submit sends a decision for request id
func Submit(ctx context.Context, updater Updater, token string, id int64, status client.RequestStatus) error {
	if err := updater.UpdateRequestStatus(ctx, token, id, status); err != nil {
		slog.Warn("Review decision rejected", "request_id", id, "status", status, "error", err)
		return fmt.Errorf("update request %d: %w", id, err)
	}
	slog.Info("Review decision recorded", "request_id", id, "status", status)
	return nil
}

// Queue is a request list loaded once per token value. Not safe for
// concurrent use; the TUI only touches it from Update.
type Queue struct {
	scope    Scope
	token    string
	loaded   bool
	requests []client.Request
}

// NewQueue creates an empty queue for scope
func NewQueue(scope Scope) *Queue {
	return &Queue{scope: scope}
}

// Scope returns the queue's scope
func (q *Queue) Scope() Scope {
	return q.scope
}

// NeedsLoad reports whether the list was never loaded for token
func (q *Queue) NeedsLoad(token string) bool {
	return !q.loaded || q.token != token
}

// Set stores requests as the list for token
func (q *Queue) Set(token string, requests []client.Request) {
	q.token = token
	q.loaded = true
	q.requests = append([]client.Request(nil), requests...)
}

// Reset forgets the loaded list
func (q *Queue) Reset() {
	q.token = ""
	q.loaded = false
	q.requests = nil
}

// Requests returns a copy of the list
func (q *Queue) Requests() []client.Request {
	return append([]client.Request(nil), q.requests...)
}

// Len returns the number of requests held
func (q *Queue) Len() int {
	return len(q.requests)
}

// Apply sets the status of request id. It reports whether the id was found.
// No other request or field changes.
func (q *Queue) Apply(id int64, status client.RequestStatus) bool {
	for i := range q.requests {
		if q.requests[i].ID == id {
			q.requests[i].Status = status
			return true
		}
	}
	return false
}

// Load fetches the list unless it is already held for token
func (q *Queue) Load(ctx context.Context, lister Lister, token string) error {
	if !q.NeedsLoad(token) {
		return nil
	}
	requests, err := Fetch(ctx, lister, q.scope, token)
	if err != nil {
		return err
	}
	q.Set(token, requests)
	return nil
}

// UpdateStatus submits a decision and patches the list on success. On
// failure the list is left exactly as it was.
func (q *Queue) UpdateStatus(ctx context.Context, updater Updater, id int64, status client.RequestStatus) error {
	if err := Submit(ctx, updater, q.token, id, status); err != nil {
		return err
	}
	q.Apply(id, status)
	return nil
}
