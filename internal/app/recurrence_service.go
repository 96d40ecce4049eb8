package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/billing"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/student"
	idb "github.com/jonasbrito1/gbcidadenova-sub000/internal/infra/database"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Custom application-level errors for the recurrence configurator
var ErrPlanRequired = errors.New("an active plan is required to configure a recurring charge")
var ErrInvalidDueDay = errors.New("due day must be between 1 and 31")

// ConfigureInput describes a student's billing setup request.
type ConfigureInput struct {
	StudentID     int64
	PlanID        int64
	CustomAmount  decimal.Decimal // overrides the plan amount when positive
	DueDay        int
	IsScholarship bool
	StartDate     time.Time // zero value: now in the academy timezone
}

// RecurrenceService owns the recurring charge lifecycle: configuring a
// student's monthly charge and cancelling it.
type RecurrenceService struct {
	students      student.Repository
	plans         billing.PlanRepository
	charges       billing.ChargeRepository
	defaultAmount decimal.Decimal
	loc           *time.Location
	log           *logrus.Logger
}

func NewRecurrenceService(
	students student.Repository,
	plans billing.PlanRepository,
	charges billing.ChargeRepository,
	defaultAmount decimal.Decimal,
	loc *time.Location,
	log *logrus.Logger,
) *RecurrenceService {
	return &RecurrenceService{
		students:      students,
		plans:         plans,
		charges:       charges,
		defaultAmount: defaultAmount,
		loc:           loc,
		log:           log,
	}
}

// Configure creates or updates the student's recurring charge. Scholarship
// students never carry an active charge: any existing one is cancelled and
// (nil, nil) is returned. Updating an existing charge recomputes
// NextChargeDate and resets the per-cycle notification flags.
func (s *RecurrenceService) Configure(ctx context.Context, in ConfigureInput) (*billing.RecurringCharge, error) {
	st, err := s.students.GetByID(ctx, in.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student %d: %w", in.StudentID, err)
	}

	if in.IsScholarship || st.IsScholarship {
		// Idempotent: cancelling an already-cancelled (or absent) charge is a no-op.
		if err := s.Cancel(ctx, in.StudentID); err != nil {
			return nil, err
		}
		s.log.WithField("student_id", in.StudentID).Info("Scholarship student: recurring charge cancelled")
		return nil, nil
	}

	if in.DueDay < 1 || in.DueDay > 31 {
		return nil, ErrInvalidDueDay
	}

	// A plan is required; the caller decides which one. Falling back to an
	// arbitrary active plan here would mask a missing-field error.
	if in.PlanID == 0 {
		return nil, ErrPlanRequired
	}
	plan, err := s.plans.GetByID(ctx, in.PlanID)
	if err != nil {
		if errors.Is(err, idb.ErrPlanNotFound) {
			return nil, ErrPlanRequired
		}
		return nil, fmt.Errorf("failed to load plan %d: %w", in.PlanID, err)
	}
	if !plan.IsActive {
		return nil, ErrPlanRequired
	}

	amount := s.resolveAmount(in.CustomAmount, plan)

	start := in.StartDate
	if start.IsZero() {
		start = time.Now().In(s.loc)
	}
	nextChargeDate := billing.NextChargeDate(start, in.DueDay)

	existing, err := s.charges.GetActiveByStudent(ctx, in.StudentID)
	if err != nil && !errors.Is(err, idb.ErrChargeNotFound) {
		return nil, fmt.Errorf("failed to check existing recurring charge: %w", err)
	}

	if existing != nil {
		existing.PlanID = plan.ID
		existing.Amount = amount
		existing.DueDay = in.DueDay
		existing.NextChargeDate = nextChargeDate
		existing.Status = billing.StatusActive
		existing.ResetNotificationFlags() // new cycle, new flags
		if err := s.charges.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update recurring charge: %w", err)
		}
		s.log.WithFields(logrus.Fields{
			"student_id":       in.StudentID,
			"charge_id":        existing.ID,
			"next_charge_date": nextChargeDate.Format("2006-01-02"),
		}).Info("Recurring charge updated")
		return existing, nil
	}

	charge := &billing.RecurringCharge{
		StudentID:      in.StudentID,
		PlanID:         plan.ID,
		Amount:         amount,
		DueDay:         in.DueDay,
		NextChargeDate: nextChargeDate,
		Status:         billing.StatusActive,
	}
	if err := s.charges.Create(ctx, charge); err != nil {
		return nil, fmt.Errorf("failed to create recurring charge: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"student_id":       in.StudentID,
		"charge_id":        charge.ID,
		"next_charge_date": nextChargeDate.Format("2006-01-02"),
	}).Info("Recurring charge created")
	return charge, nil
}

// Cancel sets the student's non-cancelled charge to cancelled. No-op when
// none exists.
func (s *RecurrenceService) Cancel(ctx context.Context, studentID int64) error {
	charge, err := s.charges.GetActiveByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, idb.ErrChargeNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load recurring charge for student %d: %w", studentID, err)
	}
	charge.Status = billing.StatusCancelled
	if err := s.charges.Update(ctx, charge); err != nil {
		return fmt.Errorf("failed to cancel recurring charge %d: %w", charge.ID, err)
	}
	s.log.WithFields(logrus.Fields{
		"student_id": studentID,
		"charge_id":  charge.ID,
	}).Info("Recurring charge cancelled")
	return nil
}

func (s *RecurrenceService) resolveAmount(custom decimal.Decimal, plan *billing.Plan) decimal.Decimal {
	if custom.IsPositive() {
		return custom
	}
	if plan.MonthlyAmount.IsPositive() {
		return plan.MonthlyAmount
	}
	return s.defaultAmount
}
