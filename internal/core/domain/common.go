package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// SystemActor is recorded as the author of changes made by the network
// event pipeline and background jobs.
const SystemActor = "system"

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}

// StampCreated fills in creation and last-update audit data.
func StampCreated(a *AuditFields, actor string, now time.Time) {
	a.CreatedAt = now
	a.CreatedBy = actor
	a.LastUpdatedAt = now
	a.LastUpdatedBy = actor
}

// StampUpdated records a modification.
func StampUpdated(a *AuditFields, actor string, now time.Time) {
	a.LastUpdatedAt = now
	a.LastUpdatedBy = actor
}
