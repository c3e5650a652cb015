// ABOUTME: Tests for badge widgets
// ABOUTME: Validates status-to-color mapping and badge text

package widgets

import (
	"strings"
	"testing"

	"github.com/lostfound/lostfound/internal/client"
)

func TestItemLevel(t *testing.T) {
	tests := []struct {
		status   client.ItemStatus
		expected StatusLevel
	}{
		{client.ItemLost, StatusCritical},
		{client.ItemFound, StatusOK},
		{client.ItemClaimed, StatusInfo},
		{client.ItemStatus("OTHER"), StatusNeutral},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			if got := ItemLevel(tc.status); got != tc.expected {
				t.Errorf("ItemLevel(%s) = %d, want %d", tc.status, got, tc.expected)
			}
		})
	}
}

func TestRequestLevel(t *testing.T) {
	if RequestLevel(client.RequestPending) != StatusWarning {
		t.Error("expected PENDING to be a warning")
	}
	if RequestLevel(client.RequestApproved) != StatusOK {
		t.Error("expected APPROVED to be ok")
	}
	if RequestLevel(client.RequestRejected) != StatusCritical {
		t.Error("expected REJECTED to be critical")
	}
}

func TestBadgesContainText(t *testing.T) {
	if !strings.Contains(ItemBadge(client.ItemFound), "FOUND") {
		t.Error("expected item badge to contain FOUND")
	}
	if !strings.Contains(RequestBadge(client.RequestPending), "PENDING") {
		t.Error("expected request badge to contain PENDING")
	}
	if !strings.Contains(RoleBadge(client.RoleAdmin), "ADMIN") {
		t.Error("expected role badge to contain ADMIN")
	}
	if RoleBadge("") != "" {
		t.Error("expected no badge for an empty role")
	}
}

func TestStatusText(t *testing.T) {
	out := StatusText("Request submitted", StatusOK)
	if !strings.Contains(out, "Request submitted") {
		t.Errorf("expected text in output, got %q", out)
	}
}
