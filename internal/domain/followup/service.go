package followup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vasctrack/vasctrack/internal/domain/record"
)

type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

// NewService builds the follow-up scheduler. loc is the clinic's timezone;
// "today" is evaluated there, not in UTC.
func NewService(repo Repository, loc *time.Location) *Service {
	return &Service{repo: repo, loc: loc, now: time.Now}
}

func (s *Service) Schedule(ctx context.Context, fu *FollowUp) error {
	fu.PatientName = strings.TrimSpace(fu.PatientName)
	if fu.PatientName == "" {
		return fmt.Errorf("%w: patient name is required", record.ErrInvalid)
	}
	if fu.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", record.ErrInvalid)
	}
	// normalize to a bare date
	fu.DueDate = time.Date(fu.DueDate.Year(), fu.DueDate.Month(), fu.DueDate.Day(), 0, 0, 0, 0, time.UTC)
	return s.repo.Create(ctx, fu)
}

// DueToday lists follow-ups whose due date equals today's clinic-local
// calendar date. Strict equality: yesterday's reminders do not carry over.
func (s *Service) DueToday(ctx context.Context) ([]*FollowUp, error) {
	local := s.now().In(s.loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return s.repo.DueOn(ctx, today)
}
