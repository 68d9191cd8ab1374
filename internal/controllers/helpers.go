package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/attendance_backend/internal/i18n"
	"github.com/zaqqye/attendance_backend/internal/middleware"
	"github.com/zaqqye/attendance_backend/internal/models"
	"github.com/zaqqye/attendance_backend/internal/store"
)

var ErrForbidden = errors.New("forbidden")

func uintParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(n), true
}

// message renders key in the caller's language.
func message(c *gin.Context, key string, args ...interface{}) string {
	return i18n.T(middleware.LocaleFrom(c), key, args...)
}

func internalError(c *gin.Context, err error) {
	log.Printf("api: %s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// canManage reports whether user may read or change sess.
func canManage(user models.User, sess *models.Session) bool {
	return user.IsAdmin() || sess.OwnerID == user.ID
}

// ownedSession loads the session named by the id param and checks the caller
// may manage it. It writes the error response and returns nil otherwise.
func ownedSession(c *gin.Context, st *store.Store, param string) *models.Session {
	id, ok := uintParam(c, param)
	if !ok {
		return nil
	}
	user, _ := middleware.CurrentUser(c)
	sess, err := st.GetSession(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": message(c, i18n.KeyUnknownSession)})
		return nil
	}
	if err != nil {
		internalError(c, err)
		return nil
	}
	if !canManage(user, sess) {
		c.JSON(http.StatusForbidden, gin.H{"error": ErrForbidden.Error()})
		return nil
	}
	return sess
}
