package audit

import (
	"log"
	"sort"
	"time"

	"github.com/mrlokans/librarium/internal/entities"
)

// Service provides typed audit logging over an Auditor. A nil *Service
// is a no-op, so callers never need to branch on whether auditing is
// enabled. Write failures are logged, never propagated: the underlying
// operation already succeeded.
type Service struct {
	auditor *Auditor
}

func NewService(auditor *Auditor) *Service {
	return &Service{auditor: auditor}
}

func (s *Service) log(event entities.AuditEvent) {
	if s == nil {
		return
	}
	event.CreatedAt = time.Now().UTC()
	if _, err := s.auditor.Save(event); err != nil {
		log.Printf("Failed to write audit event %s: %v", event.Action, err)
	}
}

// LogLogin records a login attempt.
func (s *Service) LogLogin(actor string, err error) {
	event := entities.AuditEvent{
		EventType:   entities.AuditEventAuth,
		Action:      "login",
		Actor:       actor,
		Description: "login attempt for " + actor,
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = err.Error()
	}
	s.log(event)
}

// LogBookAdded records a catalogue addition.
func (s *Service) LogBookAdded(actor, isbn, title string) {
	s.log(entities.AuditEvent{
		EventType:   entities.AuditEventCatalogue,
		Action:      "book_add",
		Actor:       actor,
		EntityType:  "book",
		EntityID:    isbn,
		Description: "added book " + title,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogBookRemoved records a catalogue removal.
func (s *Service) LogBookRemoved(actor, isbn string) {
	s.log(entities.AuditEvent{
		EventType:   entities.AuditEventCatalogue,
		Action:      "book_remove",
		Actor:       actor,
		EntityType:  "book",
		EntityID:    isbn,
		Description: "removed book " + isbn,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogIssue records a book being lent out.
func (s *Service) LogIssue(actor, loanID, memberID, isbn string) {
	s.log(entities.AuditEvent{
		EventType:   entities.AuditEventLoan,
		Action:      "loan_issue",
		Actor:       actor,
		EntityType:  "loan",
		EntityID:    loanID,
		Description: "issued book " + isbn + " to member " + memberID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogReturn records a loan being closed.
func (s *Service) LogReturn(actor, loanID string) {
	s.log(entities.AuditEvent{
		EventType:   entities.AuditEventLoan,
		Action:      "loan_return",
		Actor:       actor,
		EntityType:  "loan",
		EntityID:    loanID,
		Description: "returned loan " + loanID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogRegistration records a new member registration.
func (s *Service) LogRegistration(actor, memberID, email string) {
	s.log(entities.AuditEvent{
		EventType:   entities.AuditEventMember,
		Action:      "member_register",
		Actor:       actor,
		EntityType:  "member",
		EntityID:    memberID,
		Description: "registered member " + memberID + " (" + email + ")",
		Status:      entities.AuditStatusSuccess,
	})
}

// Recent returns the newest n events, newest first.
func (s *Service) Recent(n int) ([]entities.AuditEvent, error) {
	if s == nil {
		return nil, nil
	}
	events, err := s.auditor.List()
	if err != nil {
		return nil, err
	}
	// List is oldest first; flip and trim.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	if n > 0 && len(events) > n {
		events = events[:n]
	}
	return events, nil
}

func sortEventsByTime(events []entities.AuditEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
}
