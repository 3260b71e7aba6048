package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions.
const (
	AuditCreate = "create"
	AuditUpdate = "update"
	AuditDelete = "delete"
)

// AuditLog represents a record to be stored in audit_logs.
type AuditLog struct {
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// AuditEntry is the persisted form of an AuditLog.
type AuditEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Subject    string    `gorm:"size:255;index"`
	Action     string    `gorm:"size:16;not null"`
	Entity     string    `gorm:"size:32;not null;index:idx_audit_entity"`
	EntityID   string    `gorm:"size:64;not null;index:idx_audit_entity"`
	Meta       string    `gorm:"type:text"`
	OccurredAt time.Time `gorm:"not null"`
}

// TableName pins the table name.
func (AuditEntry) TableName() string { return "audit_logs" }

// AuditLogger writes records into audit_logs.
type AuditLogger struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(db *gorm.DB) *AuditLogger {
	return &AuditLogger{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Record persists the log entry. The subject is taken from the request principal.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil || l.db == nil {
		return errors.New("audit logger not initialised")
	}
	if log.Action == "" || log.Entity == "" || log.EntityID == "" {
		return errors.New("audit log requires action/entity/entity_id")
	}
	metaJSON, err := json.Marshal(log.Meta)
	if err != nil {
		return err
	}
	at := log.At
	if at.IsZero() {
		at = l.now()
	}
	subject := ""
	if p, ok := PrincipalFromContext(ctx); ok {
		subject = p.Subject
	}
	entry := AuditEntry{
		ID:         uuid.New(),
		Subject:    subject,
		Action:     log.Action,
		Entity:     log.Entity,
		EntityID:   log.EntityID,
		Meta:       string(metaJSON),
		OccurredAt: at,
	}
	return l.db.WithContext(ctx).Create(&entry).Error
}
