package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zaqqye/attendance_backend/internal/geo"
	"github.com/zaqqye/attendance_backend/internal/models"
	"github.com/zaqqye/attendance_backend/internal/store"
	"github.com/zaqqye/attendance_backend/internal/testutil"
	"github.com/zaqqye/attendance_backend/internal/utils"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(testutil.OpenDB(t))
}

func createSession(t *testing.T, s *store.Store, owner uint) *models.Session {
	t.Helper()
	sess := &models.Session{OwnerID: owner, Name: "Math", IsOpen: true}
	if err := s.CreateSession(context.Background(), sess); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return sess
}

func TestCreateSessionAssignsPin(t *testing.T) {
	s := newStore(t)
	a := createSession(t, s, 1)
	b := createSession(t, s, 1)
	if !utils.IsPIN(a.Pin) || !utils.IsPIN(b.Pin) {
		t.Fatalf("expected numeric pins, got %q %q", a.Pin, b.Pin)
	}
	if a.ID == 0 || a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %d %d", a.ID, b.ID)
	}
	found, err := s.FindSessionByPin(context.Background(), a.Pin)
	if err != nil {
		t.Fatalf("find by pin: %v", err)
	}
	if found == nil || found.ID != a.ID {
		t.Fatalf("expected session %d, got %+v", a.ID, found)
	}
}

func TestFindSessionByPinMissing(t *testing.T) {
	s := newStore(t)
	found, err := s.FindSessionByPin(context.Background(), "999999")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil session, got %+v", found)
	}
}

func TestSessionLocationRoundTrip(t *testing.T) {
	s := newStore(t)
	sess := &models.Session{OwnerID: 1, IsOpen: true}
	sess.SetLocation(&geo.Coordinate{Latitude: 24.7136, Longitude: 46.6753})
	if err := s.CreateSession(context.Background(), sess); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := s.GetSession(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	loc := got.Location()
	if loc == nil || loc.Latitude != 24.7136 || loc.Longitude != 46.6753 {
		t.Fatalf("unexpected location %+v", loc)
	}
	if got.Snapshot().Anchor == nil {
		t.Fatalf("expected snapshot anchor")
	}
}

func TestAttendanceCountTracksRecords(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	sess := createSession(t, s, 1)
	for i, id := range []string{"A", "B", "C"} {
		err := s.WithTx(ctx, func(tx *store.Store) error {
			rec := &models.AttendanceRecord{SessionID: sess.ID, SessionPin: sess.Pin, StudentID: id, StudentName: "n" + id, Timestamp: time.Now().UTC()}
			if err := tx.AppendAttendance(ctx, rec); err != nil {
				return err
			}
			return tx.IncrementAttendanceCount(ctx, sess.ID)
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	got, _ := s.GetSession(ctx, sess.ID)
	records, err := s.ListAttendance(ctx, sess.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got.AttendanceCount != 3 || len(records) != 3 {
		t.Fatalf("expected count 3 and 3 records, got %d and %d", got.AttendanceCount, len(records))
	}
}

func TestWithTxRollsBack(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	sess := createSession(t, s, 1)
	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.AppendAttendance(ctx, &models.AttendanceRecord{SessionID: sess.ID, StudentID: "X", Timestamp: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	records, _ := s.ListAttendance(ctx, sess.ID)
	if len(records) != 0 {
		t.Fatalf("expected rollback to drop the record, got %d", len(records))
	}
}

func TestIncrementUnknownSession(t *testing.T) {
	s := newStore(t)
	if err := s.IncrementAttendanceCount(context.Background(), 4242); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteSessionCascades(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	keep := createSession(t, s, 1)
	drop := createSession(t, s, 1)
	for _, sess := range []*models.Session{keep, drop} {
		if err := s.AppendAttendance(ctx, &models.AttendanceRecord{SessionID: sess.ID, StudentID: "S1", Timestamp: time.Now()}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := s.DeleteSession(ctx, drop.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetSession(ctx, drop.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected deleted session to be gone, got %v", err)
	}
	if recs, _ := s.ListAttendance(ctx, drop.ID); len(recs) != 0 {
		t.Fatalf("expected cascaded attendance delete, got %d", len(recs))
	}
	if recs, _ := s.ListAttendance(ctx, keep.ID); len(recs) != 1 {
		t.Fatalf("expected other session records kept, got %d", len(recs))
	}
	if err := s.DeleteSession(ctx, drop.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestUpdateSessionKeepsCounter(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	sess := createSession(t, s, 1)
	stale := *sess
	if err := s.IncrementAttendanceCount(ctx, sess.ID); err != nil {
		t.Fatalf("increment: %v", err)
	}
	stale.IsOpen = false
	stale.Name = "Closed"
	if err := s.UpdateSession(ctx, &stale, "name", "is_open", "updated_at"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := s.GetSession(ctx, sess.ID)
	if got.IsOpen || got.Name != "Closed" {
		t.Fatalf("expected update applied, got %+v", got)
	}
	if got.AttendanceCount != 1 {
		t.Fatalf("expected counter preserved, got %d", got.AttendanceCount)
	}
}

func TestEditAttendanceLocation(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	sess := createSession(t, s, 1)
	rec := &models.AttendanceRecord{SessionID: sess.ID, StudentID: "S1", Timestamp: time.Now()}
	if err := s.AppendAttendance(ctx, rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	got, err := s.EditAttendanceLocation(ctx, rec.ID, &geo.Coordinate{Latitude: 1, Longitude: 2}, now)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !got.LocationEdited || got.EditedAt == nil || !got.EditedAt.Equal(now) {
		t.Fatalf("expected edit flags, got %+v", got)
	}
	reloaded, _ := s.GetAttendance(ctx, rec.ID)
	if loc := reloaded.Location(); loc == nil || loc.Latitude != 1 || loc.Longitude != 2 {
		t.Fatalf("unexpected stored location %+v", loc)
	}
	if _, err := s.EditAttendanceLocation(ctx, 999, nil, now); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCloseExpiredSessions(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	expired := &models.Session{OwnerID: 1, IsOpen: true, ClosesAt: &past}
	later := &models.Session{OwnerID: 1, IsOpen: true, ClosesAt: &future}
	forever := &models.Session{OwnerID: 1, IsOpen: true}
	for _, sess := range []*models.Session{expired, later, forever} {
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	closed, err := s.CloseExpiredSessions(ctx, now)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(closed) != 1 || closed[0].ID != expired.ID || closed[0].IsOpen {
		t.Fatalf("expected only the expired session closed, got %+v", closed)
	}
	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalSessions != 3 || st.ActiveSessions != 2 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	st, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st.LocationRadius != 100 || !st.RequireLocation {
		t.Fatalf("unexpected defaults %+v", st)
	}
	st.RequireLocation = false
	st.LocationRadius = 42
	if err := s.SaveSettings(ctx, &st); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _ := s.GetSettings(ctx)
	if got.RequireLocation || got.LocationRadius != 42 {
		t.Fatalf("expected saved settings, got %+v", got)
	}
	if got.Policy().LocationRadius != 42 {
		t.Fatalf("expected policy radius 42")
	}
}

func TestCreateUserConflict(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	if err := s.CreateUser(ctx, &models.User{Username: "t1", Role: models.RoleTeacher, Active: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := s.CreateUser(ctx, &models.User{Username: "t1", Role: models.RoleTeacher})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	u, err := s.UserByUsername(ctx, "t1")
	if err != nil || u.Role != models.RoleTeacher {
		t.Fatalf("unexpected lookup %+v %v", u, err)
	}
	if _, err := s.UserByUsername(ctx, "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
