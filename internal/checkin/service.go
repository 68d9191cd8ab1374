// Package checkin runs a student check-in end to end: lock the session, load
// its state, ask the admission engine, then persist and announce the result.
package checkin

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/zaqqye/attendance_backend/internal/admission"
	"github.com/zaqqye/attendance_backend/internal/locks"
	"github.com/zaqqye/attendance_backend/internal/metrics"
	"github.com/zaqqye/attendance_backend/internal/models"
	"github.com/zaqqye/attendance_backend/internal/store"
	"github.com/zaqqye/attendance_backend/internal/ws"
)

// Result carries the verdict and, when accepted, the stored record.
type Result struct {
	Verdict admission.Verdict
	Record  *models.AttendanceRecord
	Session *models.Session
}

type Service struct {
	Store    *store.Store
	Locker   locks.Locker
	Hub      *ws.Hub
	LockWait time.Duration
	Now      func() time.Time
}

func New(st *store.Store, locker locks.Locker, hub *ws.Hub, lockWait time.Duration) *Service {
	if locker == nil {
		locker = locks.NewLocal()
	}
	return &Service{Store: st, Locker: locker, Hub: hub, LockWait: lockWait, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// CheckIn decides and, on acceptance, records req. The returned error is set
// only for storage or locking failures; rejections are reported in the Result.
func (s *Service) CheckIn(ctx context.Context, req admission.Request) (Result, error) {
	started := time.Now()
	res, err := s.decide(ctx, req)
	if err != nil {
		metrics.ObserveAdmission("error", time.Since(started))
		return Result{}, err
	}
	metrics.ObserveAdmission(res.Verdict.Label(), time.Since(started))
	s.audit(ctx, req, res)

	if res.Verdict.Accepted {
		s.Hub.Broadcast(res.Session.ID, ws.EventAttendanceRecorded, res.Record)
	}
	return res, nil
}

func (s *Service) decide(ctx context.Context, req admission.Request) (Result, error) {
	lockCtx := ctx
	if s.LockWait > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.LockWait)
		defer cancel()
	}
	release, err := s.Locker.Lock(lockCtx, req.SessionPin)
	if err != nil {
		return Result{}, fmt.Errorf("lock session %s: %w", req.SessionPin, err)
	}
	defer release()

	var res Result
	err = s.Store.WithTx(ctx, func(tx *store.Store) error {
		sess, err := tx.FindSessionByPin(ctx, req.SessionPin)
		if err != nil {
			return err
		}
		settings, err := tx.GetSettings(ctx)
		if err != nil {
			return err
		}
		var snapshot *admission.Session
		var existing []admission.Record
		if sess != nil {
			snapshot = sess.Snapshot()
			records, err := tx.ListAttendance(ctx, sess.ID)
			if err != nil {
				return err
			}
			existing = models.AdmissionRecords(records)
		}

		res = Result{Verdict: admission.Evaluate(req, snapshot, existing, settings.Policy()), Session: sess}
		if !res.Verdict.Accepted {
			return nil
		}

		rec := &models.AttendanceRecord{
			SessionID:   sess.ID,
			SessionPin:  req.SessionPin,
			StudentName: req.StudentName,
			StudentID:   req.StudentID,
			Timestamp:   s.now(),
		}
		rec.SetLocation(req.Location)
		if err := tx.AppendAttendance(ctx, rec); err != nil {
			return err
		}
		if err := tx.IncrementAttendanceCount(ctx, sess.ID); err != nil {
			return fmt.Errorf("increment attendance count: %w", err)
		}
		sess.AttendanceCount++
		res.Record = rec
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("check-in %s: %w", req.SessionPin, err)
	}
	return res, nil
}

type attemptPayload struct {
	StudentName string      `json:"student_name"`
	StudentID   string      `json:"student_id"`
	Location    interface{} `json:"location,omitempty"`
	Verdict     string      `json:"verdict"`
}

// audit writes a best-effort row describing the decision.
func (s *Service) audit(ctx context.Context, req admission.Request, res Result) {
	payload := attemptPayload{StudentName: req.StudentName, StudentID: req.StudentID, Verdict: res.Verdict.String()}
	if req.Location != nil {
		payload.Location = req.Location
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("checkin: marshal audit payload: %v", err)
		return
	}
	attempt := &models.CheckInAttempt{
		SessionPin: req.SessionPin,
		StudentID:  req.StudentID,
		Verdict:    res.Verdict.Label(),
		Payload:    raw,
	}
	if res.Session != nil {
		id := res.Session.ID
		attempt.SessionID = &id
	}
	if res.Verdict.Reason == admission.ReasonOutOfRange {
		d := res.Verdict.Distance
		attempt.Distance = &d
	}
	if err := s.Store.RecordAttempt(ctx, attempt); err != nil {
		log.Printf("checkin: %v", err)
	}
}
