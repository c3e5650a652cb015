// ABOUTME: Tests for the item board component
// ABOUTME: Validates sections, empty states, claim markers, and cursor movement

package dashboard

import (
	"strings"
	"testing"

	"github.com/lostfound/lostfound/internal/catalog"
	"github.com/lostfound/lostfound/internal/client"
)

func testBoard(role client.Role) *catalog.Board {
	return &catalog.Board{
		User:     &client.User{ID: 1, Username: "alice", Role: role},
		Statuses: client.ItemStatuses,
		Items: map[client.ItemStatus][]client.Item{
			client.ItemLost:    {{ID: 1, Name: "Umbrella", Description: "Black, folding", Status: client.ItemLost}},
			client.ItemFound:   {{ID: 2, Name: "Keys", Status: client.ItemFound}},
			client.ItemClaimed: {},
		},
	}
}

func TestDashboardView(t *testing.T) {
	d := New(testBoard(client.RoleUser), 120, 30)
	view := d.View()

	expected := []string{
		"Lost Items (1)",
		"Found Items (1)",
		"Claimed Items (0)",
		"Umbrella",
		"Black, folding",
		"Keys",
		"No claimed items found.",
	}
	for _, s := range expected {
		if !strings.Contains(view, s) {
			t.Errorf("expected view to contain %q\nView:\n%s", s, view)
		}
	}
}

func TestDashboardNilBoard(t *testing.T) {
	d := New(nil, 80, 24)
	view := d.View()

	for _, s := range []string{"Loading lost items", "Loading found items", "Loading claimed items"} {
		if !strings.Contains(view, s) {
			t.Errorf("expected %q while loading", s)
		}
	}
	if _, ok := d.Selected(); ok {
		t.Error("expected no selection while loading")
	}
}

func TestDashboardRequestMarker(t *testing.T) {
	user := New(testBoard(client.RoleUser), 120, 30).View()
	if strings.Count(user, "Request") != 2 {
		t.Errorf("expected Request offered on two items for a USER\nView:\n%s", user)
	}

	staff := New(testBoard(client.RoleStaff), 120, 30).View()
	if strings.Contains(staff, "Request") {
		t.Error("expected no Request marker for STAFF")
	}
}

func TestDashboardClaimedNotRequestable(t *testing.T) {
	board := testBoard(client.RoleUser)
	board.Items[client.ItemLost] = nil
	board.Items[client.ItemFound] = nil
	board.Items[client.ItemClaimed] = []client.Item{{ID: 3, Name: "Phone", Status: client.ItemClaimed}}

	view := New(board, 120, 30).View()
	if strings.Contains(view, "Request") {
		t.Error("expected no Request marker on CLAIMED items")
	}
}

func TestDashboardCursor(t *testing.T) {
	d := New(testBoard(client.RoleUser), 120, 30)

	item, ok := d.Selected()
	if !ok || item.ID != 1 {
		t.Fatalf("expected first item selected, got %+v", item)
	}

	d.MoveDown()
	d.MoveDown() // past the end stays put
	if item, _ := d.Selected(); item.ID != 2 {
		t.Errorf("expected item 2, got %d", item.ID)
	}

	d.MoveUp()
	d.MoveUp()
	if item, _ := d.Selected(); item.ID != 1 {
		t.Errorf("expected item 1, got %d", item.ID)
	}
}

func TestDashboardSetBoardClampsCursor(t *testing.T) {
	d := New(testBoard(client.RoleUser), 120, 30)
	d.MoveDown()

	smaller := testBoard(client.RoleUser)
	smaller.Items[client.ItemFound] = nil
	d.SetBoard(smaller)

	if item, ok := d.Selected(); !ok || item.ID != 1 {
		t.Errorf("expected cursor clamped to item 1, got %+v", item)
	}
}
