package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/billing"
	domainmail "github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/mail"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/notification"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/student"

	"github.com/sirupsen/logrus"
)

// LookaheadDays bounds the tick's due-date window: charges due today
// through today+LookaheadDays (plus anything already overdue) are examined.
const LookaheadDays = 3

// NotificationService renders and dispatches the billing lifecycle emails
// and records every attempt in the notification log.
type NotificationService struct {
	charges     billing.ChargeRepository
	students    student.Repository
	plans       billing.PlanRepository
	records     notification.Repository
	sender      domainmail.Sender
	academyName string
	log         *logrus.Logger
}

func NewNotificationService(
	charges billing.ChargeRepository,
	students student.Repository,
	plans billing.PlanRepository,
	records notification.Repository,
	sender domainmail.Sender,
	academyName string,
	log *logrus.Logger,
) *NotificationService {
	return &NotificationService{
		charges:     charges,
		students:    students,
		plans:       plans,
		records:     records,
		sender:      sender,
		academyName: academyName,
		log:         log,
	}
}

// Send dispatches a single notification of the given kind for a charge.
// Used by the manual path; it never touches the per-cycle flags.
func (s *NotificationService) Send(ctx context.Context, chargeID int64, kind notification.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown notification kind: %s", kind)
	}
	charge, err := s.charges.GetByID(ctx, chargeID)
	if err != nil {
		return fmt.Errorf("failed to load recurring charge %d: %w", chargeID, err)
	}
	return s.dispatch(ctx, charge, kind)
}

// ProcessDueCharges is the daily tick body. It examines every active
// charge due within the lookahead window (or already past due), sends the
// notification matching the charge's boundary condition, and sets the
// per-cycle flag so repeated ticks on the same day do not double-send.
// Charges are processed independently: one failure is logged and does not
// abort the batch.
func (s *NotificationService) ProcessDueCharges(ctx context.Context, today time.Time) error {
	today = billing.DateOnly(today)
	cutoff := today.AddDate(0, 0, LookaheadDays)

	charges, err := s.charges.ListDueWithin(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list due recurring charges: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"today":   today.Format("2006-01-02"),
		"charges": len(charges),
	}).Info("Processing due recurring charges")

	for _, charge := range charges {
		if err := s.processCharge(ctx, charge, today); err != nil {
			s.log.WithFields(logrus.Fields{
				"charge_id":  charge.ID,
				"student_id": charge.StudentID,
			}).WithError(err).Error("Failed to process recurring charge; continuing with remaining charges")
		}
	}
	return nil
}

func (s *NotificationService) processCharge(ctx context.Context, charge *billing.RecurringCharge, today time.Time) error {
	days := billing.DaysUntil(today, charge.NextChargeDate)

	switch {
	case days == 3 && !charge.NotifiedUpcoming:
		if err := s.dispatch(ctx, charge, notification.KindThreeDaysBefore); err != nil {
			return err
		}
		charge.NotifiedUpcoming = true

	case days == 1 && !charge.NotifiedEve:
		if err := s.dispatch(ctx, charge, notification.KindOneDayBefore); err != nil {
			return err
		}
		charge.NotifiedEve = true

	case days == 0 && !charge.NotifiedDueToday:
		if err := s.dispatch(ctx, charge, notification.KindDueToday); err != nil {
			return err
		}
		charge.NotifiedDueToday = true

	case days < 0 && !charge.NotifiedOverdue:
		if err := s.dispatch(ctx, charge, notification.KindOverdue); err != nil {
			return err
		}
		charge.NotifiedOverdue = true
		charge.Status = billing.StatusDelinquent
		s.log.WithFields(logrus.Fields{
			"charge_id":  charge.ID,
			"student_id": charge.StudentID,
			"days_late":  -days,
		}).Warn("Recurring charge past due; marking delinquent")

	default:
		return nil
	}

	// The flag is persisted only after a successful send: a failed send
	// leaves it clear so the next tick retries while the boundary
	// condition still matches.
	if err := s.charges.Update(ctx, charge); err != nil {
		return fmt.Errorf("failed to persist notification flags for charge %d: %w", charge.ID, err)
	}
	return nil
}

// dispatch renders the kind's email, sends it, and appends a notification
// record with the outcome. The record write and the send are not coupled
// transactionally: at-most-once per flag, not exactly-once.
func (s *NotificationService) dispatch(ctx context.Context, charge *billing.RecurringCharge, kind notification.Kind) error {
	st, err := s.students.GetByID(ctx, charge.StudentID)
	if err != nil {
		return fmt.Errorf("failed to load student %d for charge %d: %w", charge.StudentID, charge.ID, err)
	}
	plan, err := s.plans.GetByID(ctx, charge.PlanID)
	if err != nil {
		return fmt.Errorf("failed to load plan %d for charge %d: %w", charge.PlanID, charge.ID, err)
	}

	subject, html, text, err := renderEmail(kind, emailData{
		AcademyName: s.academyName,
		StudentName: st.FullName,
		PlanName:    plan.Name,
		Amount:      charge.Amount.StringFixed(2),
		DueDate:     charge.NextChargeDate.Format("02/01/2006"),
	})
	if err != nil {
		return err
	}

	rec := &notification.Record{
		ChargeID:  charge.ID,
		Kind:      kind,
		Recipient: st.Email,
		Subject:   subject,
	}

	sendErr := s.sender.Send(ctx, domainmail.Message{
		To:       st.Email,
		ToName:   st.FullName,
		Subject:  subject,
		HTMLBody: html,
		TextBody: text,
	})
	if sendErr != nil {
		rec.Outcome = notification.OutcomeFailed
		rec.ErrorMessage = sql.NullString{String: sendErr.Error(), Valid: true}
		if err := s.records.Create(ctx, rec); err != nil {
			s.log.WithError(err).Error("Failed to record failed notification attempt")
		}
		return fmt.Errorf("failed to send %s notification for charge %d: %w", kind, charge.ID, sendErr)
	}

	rec.Outcome = notification.OutcomeSent
	if err := s.records.Create(ctx, rec); err != nil {
		// The email went out; losing the audit row is logged, not fatal.
		s.log.WithError(err).Error("Failed to record sent notification")
	}
	s.log.WithFields(logrus.Fields{
		"charge_id": charge.ID,
		"kind":      kind,
		"recipient": st.Email,
	}).Info("Notification sent")
	return nil
}
