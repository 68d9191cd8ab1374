package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/zaqqye/attendance_backend/internal/i18n"
)

const localeKey = "locale"

// Locale picks the response language from ?lang, then Accept-Language, then fallback.
func Locale(fallback language.Tag) gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := i18n.Resolve(c.Query("lang"), c.GetHeader("Accept-Language"), fallback)
		c.Set(localeKey, tag)
		c.Header("Content-Language", tag.String())
		c.Next()
	}
}

// LocaleFrom returns the tag chosen by Locale, or English when the middleware did not run.
func LocaleFrom(c *gin.Context) language.Tag {
	if v, ok := c.Get(localeKey); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return language.English
}
