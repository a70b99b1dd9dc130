package services

import (
	"log"

	"github.com/nodehq/node-admin-api/internal/models"
	"github.com/nodehq/node-admin-api/internal/repository"
)

// The sinks below are fire-and-forget collaborators notified after the
// authorizing state change commits. Their failures are logged and never
// propagate back into the transaction that triggered them.

// AuditEntry describes a tenant-scoped action for the audit trail.
type AuditEntry struct {
	NodeID  uint64
	ActorID uint64
	Action  string
	Crud    string
}

// AuditRecorder appends entries to the audit trail.
type AuditRecorder interface {
	Record(entry AuditEntry)
}

// Event is a tenant-scoped notification for external consumers.
type Event struct {
	NodeID  uint64
	Type    string
	Payload interface{}
}

// EventSink forwards events to an external delivery system.
type EventSink interface {
	Send(event Event)
}

// InvitationMail carries what the mailer needs to deliver an invite.
type InvitationMail struct {
	Email    string
	NodeName string
	Token    string
	Role     models.Role
}

// Mailer delivers invitation emails.
type Mailer interface {
	SendInvitation(mail InvitationMail)
}

// DBAuditRecorder persists audit entries through the audit log repository.
type DBAuditRecorder struct {
	auditRepo repository.AuditLogRepository
}

// NewDBAuditRecorder creates a new DBAuditRecorder.
func NewDBAuditRecorder(auditRepo repository.AuditLogRepository) *DBAuditRecorder {
	return &DBAuditRecorder{auditRepo: auditRepo}
}

// Record writes the entry; a write failure is logged and swallowed.
func (r *DBAuditRecorder) Record(entry AuditEntry) {
	err := r.auditRepo.Create(&models.AuditLog{
		NodeID:  entry.NodeID,
		ActorID: entry.ActorID,
		Action:  entry.Action,
		Crud:    entry.Crud,
	})
	if err != nil {
		log.Printf("audit: failed to record %s for node %d: %v", entry.Action, entry.NodeID, err)
	}
}

// LogEventSink logs events instead of delivering them. Stands in for a real
// delivery system in development and tests.
type LogEventSink struct{}

func (LogEventSink) Send(event Event) {
	log.Printf("event: node=%d type=%s", event.NodeID, event.Type)
}

// LogMailer logs invitation emails instead of sending them.
type LogMailer struct{}

func (LogMailer) SendInvitation(mail InvitationMail) {
	log.Printf("mail: invitation for %s to join %q as %s", mail.Email, mail.NodeName, mail.Role)
}
