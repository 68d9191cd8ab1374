package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/attendance_backend/internal/admission"
	"github.com/zaqqye/attendance_backend/internal/store"
)

type SettingsController struct {
	Store *store.Store
}

type updateSettingsRequest struct {
	LocationRadius          *float64 `json:"location_radius" binding:"omitempty,gte=0"`
	RequireLocation         *bool    `json:"require_location"`
	PreventDuplicate        *bool    `json:"prevent_duplicate"`
	AllowManualLocationEdit *bool    `json:"allow_manual_location_edit"`
	DuplicateMatch          *string  `json:"duplicate_match" binding:"omitempty,duplicate_match"`
}

func (sc *SettingsController) GetSettings(c *gin.Context) {
	st, err := sc.Store.GetSettings(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": st})
}

// UpdateSettings applies the fields present in the body and keeps the rest.
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	st, err := sc.Store.GetSettings(ctx)
	if err != nil {
		internalError(c, err)
		return
	}
	if req.LocationRadius != nil {
		st.LocationRadius = *req.LocationRadius
	}
	if req.RequireLocation != nil {
		st.RequireLocation = *req.RequireLocation
	}
	if req.PreventDuplicate != nil {
		st.PreventDuplicate = *req.PreventDuplicate
	}
	if req.AllowManualLocationEdit != nil {
		st.AllowManualLocationEdit = *req.AllowManualLocationEdit
	}
	if req.DuplicateMatch != nil {
		st.DuplicateMatch = *req.DuplicateMatch
		if st.DuplicateMatch == "" {
			st.DuplicateMatch = string(admission.MatchIDOrName)
		}
	}
	st.UpdatedAt = time.Now().UTC()
	if err := sc.Store.SaveSettings(ctx, &st); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": st})
}

func (sc *SettingsController) Stats(c *gin.Context) {
	stats, err := sc.Store.Stats(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
