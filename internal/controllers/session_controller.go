package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/attendance_backend/internal/geo"
	"github.com/zaqqye/attendance_backend/internal/i18n"
	"github.com/zaqqye/attendance_backend/internal/middleware"
	"github.com/zaqqye/attendance_backend/internal/models"
	"github.com/zaqqye/attendance_backend/internal/store"
	"github.com/zaqqye/attendance_backend/internal/ws"
)

type SessionController struct {
	Store *store.Store
	Hub   *ws.Hub
}

type createSessionRequest struct {
	SessionName     string          `json:"session_name" binding:"max=200"`
	Location        *geo.Coordinate `json:"location"`
	DurationMinutes int             `json:"duration_minutes" binding:"gte=0,lte=1440"`
}

type updateSessionRequest struct {
	SessionName     *string         `json:"session_name" binding:"omitempty,max=200"`
	IsOpen          *bool           `json:"is_open"`
	Location        *geo.Coordinate `json:"location"`
	ClearLocation   bool            `json:"clear_location"`
	DurationMinutes *int            `json:"duration_minutes" binding:"omitempty,gte=0,lte=1440"`
}

// validLocation writes a 400 and returns false when loc is present but out of range.
func validLocation(c *gin.Context, loc *geo.Coordinate) bool {
	if loc == nil {
		return true
	}
	if err := loc.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": message(c, i18n.KeyInvalidCoordinate)})
		return false
	}
	return true
}

func (sc *SessionController) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validLocation(c, req.Location) {
		return
	}

	user, _ := middleware.CurrentUser(c)
	name := strings.TrimSpace(req.SessionName)
	if name == "" {
		name = message(c, i18n.KeyDefaultName)
	}
	sess := models.Session{
		OwnerID: user.ID,
		Name:    name,
		IsOpen:  true,
	}
	sess.SetLocation(req.Location)
	if req.DurationMinutes > 0 {
		closes := time.Now().UTC().Add(time.Duration(req.DurationMinutes) * time.Minute)
		sess.ClosesAt = &closes
	}
	if err := sc.Store.CreateSession(c.Request.Context(), &sess); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": sess})
}

func (sc *SessionController) ListSessions(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	owner := user.ID
	if user.IsAdmin() {
		owner = 0
	}
	sessions, err := sc.Store.ListSessions(c.Request.Context(), owner)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "total": len(sessions)})
}

func (sc *SessionController) GetSession(c *gin.Context) {
	sess := ownedSession(c, sc.Store, "id")
	if sess == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

func (sc *SessionController) UpdateSession(c *gin.Context) {
	var req updateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validLocation(c, req.Location) {
		return
	}
	sess := ownedSession(c, sc.Store, "id")
	if sess == nil {
		return
	}

	now := time.Now().UTC()
	columns := []string{"updated_at"}
	if req.SessionName != nil {
		if name := strings.TrimSpace(*req.SessionName); name != "" {
			sess.Name = name
			columns = append(columns, "name")
		}
	}
	if req.IsOpen != nil {
		sess.IsOpen = *req.IsOpen
		columns = append(columns, "is_open")
		// reopening past the deadline would be closed again by the expiry job
		if sess.IsOpen && sess.ClosesAt != nil && !sess.ClosesAt.After(now) && req.DurationMinutes == nil {
			sess.ClosesAt = nil
			columns = append(columns, "closes_at")
		}
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes == 0 {
			sess.ClosesAt = nil
		} else {
			closes := now.Add(time.Duration(*req.DurationMinutes) * time.Minute)
			sess.ClosesAt = &closes
		}
		columns = append(columns, "closes_at")
	}
	switch {
	case req.ClearLocation:
		sess.SetLocation(nil)
		columns = append(columns, "location_latitude", "location_longitude")
	case req.Location != nil:
		sess.SetLocation(req.Location)
		columns = append(columns, "location_latitude", "location_longitude")
	}
	sess.UpdatedAt = now

	ctx := c.Request.Context()
	if err := sc.Store.UpdateSession(ctx, sess, columns...); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": message(c, i18n.KeyUnknownSession)})
			return
		}
		internalError(c, err)
		return
	}
	// reload so the response carries the live attendance count
	fresh, err := sc.Store.GetSession(ctx, sess.ID)
	if err != nil {
		internalError(c, err)
		return
	}
	sc.Hub.Broadcast(fresh.ID, ws.EventSessionUpdated, fresh)
	c.JSON(http.StatusOK, gin.H{"session": fresh})
}

func (sc *SessionController) DeleteSession(c *gin.Context) {
	sess := ownedSession(c, sc.Store, "id")
	if sess == nil {
		return
	}
	if err := sc.Store.DeleteSession(c.Request.Context(), sess.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": message(c, i18n.KeyUnknownSession)})
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message(c, i18n.KeySessionDeleted)})
}

// Watch upgrades to a websocket streaming the session's live events.
func (sc *SessionController) Watch(c *gin.Context) {
	sess := ownedSession(c, sc.Store, "id")
	if sess == nil {
		return
	}
	ws.Serve(sc.Hub, c, sess.ID)
}
