// ABOUTME: Tests for the request list component
// ABOUTME: Validates rendering per scope and reviewer gating

package requests

import (
	"strings"
	"testing"

	"github.com/lostfound/lostfound/internal/client"
	"github.com/lostfound/lostfound/internal/review"
	"github.com/lostfound/lostfound/internal/tui/icons"
)

func sampleQueue(scope review.Scope) *review.Queue {
	q := review.NewQueue(scope)
	q.Set("abc", []client.Request{
		{ID: 41, Status: client.RequestPending, User: client.RequestUser{Username: "alice"}, Item: client.Item{Name: "Umbrella", Status: client.ItemLost}},
		{ID: 42, Status: client.RequestApproved, User: client.RequestUser{Username: "bob"}, Item: client.Item{Name: "Keys", Status: client.ItemFound}},
	})
	return q
}

func TestListViewMine(t *testing.T) {
	l := New(sampleQueue(review.ScopeMine), 120, 20)
	view := l.View()

	for _, s := range []string{"My Requests", "Umbrella", "PENDING", "Keys", "APPROVED"} {
		if !strings.Contains(view, s) {
			t.Errorf("expected view to contain %q\nView:\n%s", s, view)
		}
	}
	if strings.Contains(view, "by alice") {
		t.Error("expected no requester column in my-requests")
	}
}

func TestListViewMarksPendingRows(t *testing.T) {
	l := New(sampleQueue(review.ScopeMine), 120, 20)
	view := l.View()

	if n := strings.Count(view, icons.Pending.String()); n != 1 {
		t.Errorf("expected the pending marker on one row, got %d\nView:\n%s", n, view)
	}
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, "APPROVED") && strings.Contains(line, icons.Pending.String()) {
			t.Errorf("expected no pending marker on an approved row: %q", line)
		}
	}
}

func TestListViewAllShowsRequester(t *testing.T) {
	l := New(sampleQueue(review.ScopeAll), 120, 20)
	view := l.View()

	if !strings.Contains(view, "All Requests") || !strings.Contains(view, "by alice") {
		t.Errorf("expected all-requests title and requester\nView:\n%s", view)
	}
	if strings.Contains(view, "Approve") {
		t.Error("expected no review actions for a non-reviewer")
	}
}

func TestListReviewerActions(t *testing.T) {
	l := New(sampleQueue(review.ScopeAll), 120, 20)
	l.SetReviewer(true)
	view := l.View()

	if strings.Count(view, "Approve") != 1 {
		t.Errorf("expected actions on the single pending request\nView:\n%s", view)
	}

	r, ok := l.CanDecide()
	if !ok || r.ID != 41 {
		t.Errorf("expected request 41 decidable, got %+v ok=%v", r, ok)
	}

	l.MoveDown()
	if _, ok := l.CanDecide(); ok {
		t.Error("expected approved request not to be decidable")
	}
}

func TestListReviewerIgnoredForMine(t *testing.T) {
	l := New(sampleQueue(review.ScopeMine), 120, 20)
	l.SetReviewer(true)

	if _, ok := l.CanDecide(); ok {
		t.Error("expected no decisions from my-requests")
	}
}

func TestListEmptyAndLoading(t *testing.T) {
	l := New(review.NewQueue(review.ScopeMine), 80, 10)
	if !strings.Contains(l.View(), "No requests found.") {
		t.Error("expected empty state")
	}

	l.SetLoading(true)
	if !strings.Contains(l.View(), "Loading requests") {
		t.Error("expected loading state")
	}
	if _, ok := l.Selected(); ok {
		t.Error("expected no selection in an empty list")
	}
}
