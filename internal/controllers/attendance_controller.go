package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/attendance_backend/internal/admission"
	"github.com/zaqqye/attendance_backend/internal/checkin"
	"github.com/zaqqye/attendance_backend/internal/geo"
	"github.com/zaqqye/attendance_backend/internal/i18n"
	"github.com/zaqqye/attendance_backend/internal/locks"
	"github.com/zaqqye/attendance_backend/internal/middleware"
	"github.com/zaqqye/attendance_backend/internal/models"
	"github.com/zaqqye/attendance_backend/internal/store"
)

type AttendanceController struct {
	Store   *store.Store
	CheckIn *checkin.Service
}

type checkInRequest struct {
	SessionPin  FlexibleString  `json:"session_pin" binding:"required,max=64"`
	StudentName string          `json:"student_name" binding:"required,max=200"`
	StudentID   FlexibleString  `json:"student_id" binding:"required,max=64"`
	Location    *geo.Coordinate `json:"location"`
}

// rejection maps an admission verdict onto the response status and body.
func rejection(c *gin.Context, v admission.Verdict) (int, gin.H) {
	body := gin.H{"error": string(v.Reason)}
	switch v.Reason {
	case admission.ReasonSessionNotFound:
		body["message"] = message(c, i18n.KeySessionNotFound)
		return http.StatusNotFound, body
	case admission.ReasonSessionClosed:
		body["message"] = message(c, i18n.KeySessionClosed)
		return http.StatusForbidden, body
	case admission.ReasonDuplicate:
		body["message"] = message(c, i18n.KeyDuplicate)
		return http.StatusConflict, body
	case admission.ReasonOutOfRange:
		d := v.RoundedDistance()
		body["message"] = message(c, i18n.KeyOutOfRange, strconv.Itoa(d))
		body["distance"] = d
		return http.StatusForbidden, body
	}
	body["error"] = "rejected"
	return http.StatusBadRequest, body
}

// SubmitAttendance is the public check-in endpoint.
func (ac *AttendanceController) SubmitAttendance(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validLocation(c, req.Location) {
		return
	}

	res, err := ac.CheckIn.CheckIn(c.Request.Context(), admission.Request{
		SessionPin:  req.SessionPin.String(),
		StudentName: strings.TrimSpace(req.StudentName),
		StudentID:   req.StudentID.String(),
		Location:    req.Location,
	})
	if errors.Is(err, locks.ErrLockTimeout) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session busy, retry"})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	if !res.Verdict.Accepted {
		status, body := rejection(c, res.Verdict)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendance": res.Record, "message": message(c, i18n.KeyCheckedIn)})
}

func (ac *AttendanceController) ListSessionAttendance(c *gin.Context) {
	sess := ownedSession(c, ac.Store, "sessionId")
	if sess == nil {
		return
	}
	records, err := ac.Store.ListAttendance(c.Request.Context(), sess.ID)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendance": records, "total": len(records)})
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

// ExportSessionAttendance streams the session's records as CSV.
func (ac *AttendanceController) ExportSessionAttendance(c *gin.Context) {
	sess := ownedSession(c, ac.Store, "sessionId")
	if sess == nil {
		return
	}
	records, err := ac.Store.ListAttendance(c.Request.Context(), sess.ID)
	if err != nil {
		internalError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%s.csv"`, sess.Pin))
	c.Status(http.StatusOK)
	// BOM so spreadsheet apps read Arabic names as UTF-8
	c.Writer.WriteString("\ufeff")
	w := csv.NewWriter(c.Writer)
	w.Write([]string{"id", "student_id", "student_name", "timestamp", "latitude", "longitude", "location_edited"})
	for _, r := range records {
		w.Write([]string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.StudentID,
			r.StudentName,
			r.Timestamp.UTC().Format(time.RFC3339),
			formatCoord(r.LocationLatitude),
			formatCoord(r.LocationLongitude),
			strconv.FormatBool(r.LocationEdited),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		c.Error(err)
	}
}

type editLocationRequest struct {
	Location *geo.Coordinate `json:"location" binding:"required"`
}

// EditLocation lets the session owner correct a record's location.
func (ac *AttendanceController) EditLocation(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req editLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validLocation(c, req.Location) {
		return
	}

	ctx := c.Request.Context()
	settings, err := ac.Store.GetSettings(ctx)
	if err != nil {
		internalError(c, err)
		return
	}
	if !settings.AllowManualLocationEdit {
		c.JSON(http.StatusForbidden, gin.H{"error": "location_edit_disabled", "message": message(c, i18n.KeyLocationEditOff)})
		return
	}

	rec, err := ac.Store.GetAttendance(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": message(c, i18n.KeyRecordNotFound)})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	sess, err := ac.Store.GetSession(ctx, rec.SessionID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		internalError(c, err)
		return
	}
	user, _ := middleware.CurrentUser(c)
	if !canEditRecord(user, sess) {
		c.JSON(http.StatusForbidden, gin.H{"error": ErrForbidden.Error()})
		return
	}

	updated, err := ac.Store.EditAttendanceLocation(ctx, rec.ID, req.Location, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": message(c, i18n.KeyRecordNotFound)})
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendance": updated})
}

// canEditRecord allows admins always and owners while the session exists.
func canEditRecord(user models.User, sess *models.Session) bool {
	if user.IsAdmin() {
		return true
	}
	return sess != nil && canManage(user, sess)
}
