package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/attendance_backend/internal/i18n"
	"github.com/zaqqye/attendance_backend/internal/qr"
)

type QRController struct {
	Options qr.Options
}

type qrURI struct {
	Pin string `uri:"pin" binding:"required,pin"`
}

func (qc *QRController) bindPin(c *gin.Context) (string, bool) {
	var uri qrURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pin"})
		return "", false
	}
	return uri.Pin, true
}

// DataURL returns the PIN's QR code as a base64 PNG data URL.
func (qc *QRController) DataURL(c *gin.Context) {
	pin, ok := qc.bindPin(c)
	if !ok {
		return
	}
	url, err := qr.DataURL(pin, qc.Options)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "message": message(c, i18n.KeyQRFailed)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"qr_code": url})
}

func (qc *QRController) PNG(c *gin.Context) {
	pin, ok := qc.bindPin(c)
	if !ok {
		return
	}
	png, err := qr.PNG(pin, qc.Options)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "message": message(c, i18n.KeyQRFailed)})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}
