package domain

import (
	"strings"
	"time"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// Actor identifies who is acting and on which tenant's books.
// It is passed explicitly to every ledger operation.
type Actor struct {
	TenantID string `json:"tenantID"`
	UserID   string `json:"userID"`
}

// Valid reports whether the actor names a tenant and a user.
func (a Actor) Valid() bool {
	return strings.TrimSpace(a.TenantID) != "" && strings.TrimSpace(a.UserID) != ""
}

// DateOf truncates t to its calendar day in UTC, keeping the wall-clock date of t.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
