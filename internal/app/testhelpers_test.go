package app

import (
	"context"
	"sort"
	"time"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/backup"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/billing"
	domainmail "github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/mail"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/notification"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/student"
	idb "github.com/jonasbrito1/gbcidadenova-sub000/internal/infra/database"

	"github.com/sirupsen/logrus"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// --- in-memory student repository ---

type fakeStudentRepo struct {
	students map[int64]*student.Student
}

func newFakeStudentRepo(students ...*student.Student) *fakeStudentRepo {
	r := &fakeStudentRepo{students: make(map[int64]*student.Student)}
	for _, s := range students {
		r.students[s.ID] = s
	}
	return r
}

func (r *fakeStudentRepo) Create(_ context.Context, s *student.Student) error {
	s.ID = int64(len(r.students) + 1)
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id int64) (*student.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, idb.ErrStudentNotFound
	}
	return s, nil
}

func (r *fakeStudentRepo) Update(_ context.Context, s *student.Student) error {
	if _, ok := r.students[s.ID]; !ok {
		return idb.ErrStudentNotFound
	}
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) ListActive(_ context.Context) ([]*student.Student, error) {
	out := make([]*student.Student, 0)
	for _, s := range r.students {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

// --- in-memory plan repository ---

type fakePlanRepo struct {
	plans map[int64]*billing.Plan
}

func newFakePlanRepo(plans ...*billing.Plan) *fakePlanRepo {
	r := &fakePlanRepo{plans: make(map[int64]*billing.Plan)}
	for _, p := range plans {
		r.plans[p.ID] = p
	}
	return r
}

func (r *fakePlanRepo) GetByID(_ context.Context, id int64) (*billing.Plan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, idb.ErrPlanNotFound
	}
	return p, nil
}

func (r *fakePlanRepo) ListActive(_ context.Context) ([]*billing.Plan, error) {
	out := make([]*billing.Plan, 0)
	for _, p := range r.plans {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- in-memory recurring charge repository ---

// fakeChargeRepo stores copies so service-side mutations are only visible
// after an explicit Update, mirroring a real database.
type fakeChargeRepo struct {
	charges map[int64]billing.RecurringCharge
	nextID  int64
}

func newFakeChargeRepo() *fakeChargeRepo {
	return &fakeChargeRepo{charges: make(map[int64]billing.RecurringCharge), nextID: 1}
}

func (r *fakeChargeRepo) Create(_ context.Context, c *billing.RecurringCharge) error {
	c.ID = r.nextID
	r.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.charges[c.ID] = *c
	return nil
}

func (r *fakeChargeRepo) Update(_ context.Context, c *billing.RecurringCharge) error {
	if _, ok := r.charges[c.ID]; !ok {
		return idb.ErrChargeNotFound
	}
	c.UpdatedAt = time.Now()
	r.charges[c.ID] = *c
	return nil
}

func (r *fakeChargeRepo) GetByID(_ context.Context, id int64) (*billing.RecurringCharge, error) {
	c, ok := r.charges[id]
	if !ok {
		return nil, idb.ErrChargeNotFound
	}
	return &c, nil
}

func (r *fakeChargeRepo) GetActiveByStudent(_ context.Context, studentID int64) (*billing.RecurringCharge, error) {
	for _, c := range r.charges {
		if c.StudentID == studentID && c.Status != billing.StatusCancelled {
			c := c
			return &c, nil
		}
	}
	return nil, idb.ErrChargeNotFound
}

func (r *fakeChargeRepo) ListDueWithin(_ context.Context, cutoff time.Time) ([]*billing.RecurringCharge, error) {
	out := make([]*billing.RecurringCharge, 0)
	for _, c := range r.charges {
		if c.Status == billing.StatusActive && !c.NextChargeDate.After(cutoff) {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- in-memory notification log ---

type fakeNotificationRepo struct {
	records []*notification.Record
}

func (r *fakeNotificationRepo) Create(_ context.Context, rec *notification.Record) error {
	rec.ID = int64(len(r.records) + 1)
	rec.CreatedAt = time.Now()
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeNotificationRepo) ListByCharge(_ context.Context, chargeID int64) ([]*notification.Record, error) {
	out := make([]*notification.Record, 0)
	for _, rec := range r.records {
		if rec.ChargeID == chargeID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) ListRecent(_ context.Context, limit int) ([]*notification.Record, error) {
	if len(r.records) < limit {
		limit = len(r.records)
	}
	return r.records[len(r.records)-limit:], nil
}

// --- in-memory backup catalog ---

type fakeBackupRepo struct {
	backups map[int64]*backup.Backup
	nextID  int64
}

func newFakeBackupRepo() *fakeBackupRepo {
	return &fakeBackupRepo{backups: make(map[int64]*backup.Backup), nextID: 1}
}

func (r *fakeBackupRepo) Create(_ context.Context, b *backup.Backup) error {
	b.ID = r.nextID
	r.nextID++
	copied := *b
	r.backups[b.ID] = &copied
	return nil
}

func (r *fakeBackupRepo) Update(_ context.Context, b *backup.Backup) error {
	if _, ok := r.backups[b.ID]; !ok {
		return idb.ErrBackupNotFound
	}
	copied := *b
	r.backups[b.ID] = &copied
	return nil
}

func (r *fakeBackupRepo) GetByID(_ context.Context, id int64) (*backup.Backup, error) {
	b, ok := r.backups[id]
	if !ok {
		return nil, idb.ErrBackupNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBackupRepo) List(_ context.Context) ([]*backup.Backup, error) {
	out := make([]*backup.Backup, 0, len(r.backups))
	for _, b := range r.backups {
		copied := *b
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (r *fakeBackupRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.backups[id]; !ok {
		return idb.ErrBackupNotFound
	}
	delete(r.backups, id)
	return nil
}

// --- mail sender double ---

type fakeSender struct {
	sent    []domainmail.Message
	sendErr error // when set, Send fails
}

func (s *fakeSender) Send(_ context.Context, msg domainmail.Message) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, msg)
	return nil
}
