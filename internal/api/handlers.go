package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/app"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/billing"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/notification"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type configureChargeRequest struct {
	StudentID     int64           `json:"student_id"`
	PlanID        int64           `json:"plan_id"`
	CustomAmount  decimal.Decimal `json:"custom_amount"`
	DueDay        int             `json:"due_day"`
	IsScholarship bool            `json:"is_scholarship"`
	StartDate     string          `json:"start_date"` // optional, "2006-01-02"
}

type chargeResponse struct {
	ID             int64  `json:"id"`
	StudentID      int64  `json:"student_id"`
	PlanID         int64  `json:"plan_id"`
	Amount         string `json:"amount"`
	DueDay         int    `json:"due_day"`
	NextChargeDate string `json:"next_charge_date"`
	Status         string `json:"status"`
}

func newChargeResponse(c *billing.RecurringCharge) chargeResponse {
	return chargeResponse{
		ID:             c.ID,
		StudentID:      c.StudentID,
		PlanID:         c.PlanID,
		Amount:         c.Amount.StringFixed(2),
		DueDay:         c.DueDay,
		NextChargeDate: c.NextChargeDate.Format("2006-01-02"),
		Status:         string(c.Status),
	}
}

func (s *Server) configureCharge(c echo.Context) error {
	var req configureChargeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	in := app.ConfigureInput{
		StudentID:     req.StudentID,
		PlanID:        req.PlanID,
		CustomAmount:  req.CustomAmount,
		DueDay:        req.DueDay,
		IsScholarship: req.IsScholarship,
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		}
		in.StartDate = start
	}

	charge, err := s.recurrence.Configure(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	if charge == nil { // scholarship: no active recurrence
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, newChargeResponse(charge))
}

func (s *Server) getCharge(c echo.Context) error {
	studentID, err := pathID(c, "studentID")
	if err != nil {
		return err
	}
	charge, err := s.charges.GetActiveByStudent(c.Request().Context(), studentID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, newChargeResponse(charge))
}

func (s *Server) cancelCharge(c echo.Context) error {
	studentID, err := pathID(c, "studentID")
	if err != nil {
		return err
	}
	if err := s.recurrence.Cancel(c.Request().Context(), studentID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type sendNotificationRequest struct {
	Kind string `json:"kind"`
}

func (s *Server) sendNotification(c echo.Context) error {
	chargeID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req sendNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	kind := notification.Kind(req.Kind)
	if !kind.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown notification kind")
	}

	if err := s.notifications.Send(c.Request().Context(), chargeID, kind); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusAccepted)
}

type notificationResponse struct {
	ID        int64  `json:"id"`
	ChargeID  int64  `json:"charge_id"`
	Kind      string `json:"kind"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Outcome   string `json:"outcome"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) listNotifications(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}

	records, err := s.records.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return httpError(err)
	}
	out := make([]notificationResponse, 0, len(records))
	for _, r := range records {
		out = append(out, notificationResponse{
			ID:        r.ID,
			ChargeID:  r.ChargeID,
			Kind:      string(r.Kind),
			Recipient: r.Recipient,
			Subject:   r.Subject,
			Outcome:   string(r.Outcome),
			Error:     r.ErrorMessage.String,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, out)
}

type backupResponse struct {
	ID         int64  `json:"id"`
	FileName   string `json:"file_name"`
	SizeBytes  int64  `json:"size_bytes"`
	DurationMs int64  `json:"duration_ms"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	StartedAt  string `json:"started_at"`
}

func (s *Server) runBackup(c echo.Context) error {
	b, err := s.backups.Run(c.Request().Context())
	if err != nil && b == nil {
		return httpError(err)
	}
	// A failed dump still yields a catalog record; surface it.
	status := http.StatusCreated
	if err != nil {
		status = http.StatusBadGateway
	}
	return c.JSON(status, backupResponse{
		ID:         b.ID,
		FileName:   b.FileName,
		SizeBytes:  b.SizeBytes,
		DurationMs: b.DurationMs,
		Status:     string(b.Status),
		Error:      b.ErrorMessage.String,
		StartedAt:  b.StartedAt.Format(time.RFC3339),
	})
}

func (s *Server) listBackups(c echo.Context) error {
	backups, err := s.backups.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	out := make([]backupResponse, 0, len(backups))
	for _, b := range backups {
		out = append(out, backupResponse{
			ID:         b.ID,
			FileName:   b.FileName,
			SizeBytes:  b.SizeBytes,
			DurationMs: b.DurationMs,
			Status:     string(b.Status),
			Error:      b.ErrorMessage.String,
			StartedAt:  b.StartedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) validateBackups(c echo.Context) error {
	issues, err := s.backups.Validate(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, issues)
}

func (s *Server) restoreBackup(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := s.backups.Restore(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) cleanupBackups(c echo.Context) error {
	removed, err := s.backups.Cleanup(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"removed": removed})
}

func (s *Server) dashboardSummary(c echo.Context) error {
	summary, err := s.dashboard.Summary(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"active_charges":           summary.ActiveCharges,
		"delinquent_charges":       summary.DelinquentCharges,
		"expected_monthly_revenue": summary.ExpectedMonthlyRevenue.StringFixed(2),
		"due_within_window":        summary.DueWithinWindow,
		"sent_this_month":          summary.SentThisMonth,
		"failed_this_month":        summary.FailedThisMonth,
	})
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return id, nil
}
