// ABOUTME: Wire types for the Lost & Found backend API
// ABOUTME: Users, items, claim requests, and their status enums

package client

import (
	"encoding/json"
	"strings"
	"time"
)

// Role is a user's authorization role
type Role string

const (
	RoleUser  Role = "USER"
	RoleStaff Role = "STAFF"
	RoleAdmin Role = "ADMIN"
)

// Roles lists the roles offered at sign-up, in display order
var Roles = []Role{RoleUser, RoleAdmin, RoleStaff}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// ItemStatus is the lifecycle state of an item
type ItemStatus string

const (
	ItemLost    ItemStatus = "LOST"
	ItemFound   ItemStatus = "FOUND"
	ItemClaimed ItemStatus = "CLAIMED"
)

// ItemStatuses lists every item status in dashboard order
var ItemStatuses = []ItemStatus{ItemLost, ItemFound, ItemClaimed}

// ParseItemStatus parses a case-insensitive item status
func ParseItemStatus(s string) (ItemStatus, bool) {
	st := ItemStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case ItemLost, ItemFound, ItemClaimed:
		return st, true
	}
	return "", false
}

// RequestStatus is the review state of a claim request
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// User represents the /api/users/me response
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Item represents a tracked lost or found item
type Item struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      ItemStatus `json:"status,omitempty"`
	CreatedAt   Timestamp  `json:"createdAt"`
}

// RequestUser is the requester summary embedded in a Request
type RequestUser struct {
	Username string `json:"username"`
}

// Request represents a user's claim on an item
type Request struct {
	ID        int64         `json:"id"`
	Status    RequestStatus `json:"status"`
	CreatedAt Timestamp     `json:"createdAt"`
	User      RequestUser   `json:"user"`
	Item      Item          `json:"item"`
}

// Credentials is the signin request body
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupInput is the signup request body
type SignupInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// SigninResponse represents the /auth/signin response
type SigninResponse struct {
	Token string `json:"token"`
}

// CreateRequestInput is the POST /api/requests body
type CreateRequestInput struct {
	UserID int64 `json:"userId"`
	ItemID int64 `json:"itemId"`
}

// Timestamp decodes the backend's createdAt values, which may or may not
// carry a zone offset. Unparseable values decode to the zero time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// Date renders the timestamp as a local calendar date, or "-" when unknown
func (t Timestamp) Date() string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}
