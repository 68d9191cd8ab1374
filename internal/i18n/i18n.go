// Package i18n holds the user-facing messages in every supported language.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	KeySessionNotFound   = "checkin.session_not_found"
	KeySessionClosed     = "checkin.session_closed"
	KeyDuplicate         = "checkin.duplicate"
	KeyOutOfRange        = "checkin.out_of_range" // arg: rounded distance, preformatted
	KeyCheckedIn         = "checkin.recorded"
	KeyInvalidLogin      = "auth.invalid_credentials"
	KeyUserNotFound      = "auth.user_not_found"
	KeyWrongOldPassword  = "auth.wrong_old_password"
	KeyPasswordChanged   = "auth.password_changed"
	KeyUsernameTaken     = "users.username_taken"
	KeyUnknownSession    = "sessions.not_found"
	KeySessionDeleted    = "sessions.deleted"
	KeyDefaultName       = "sessions.default_name"
	KeyRecordNotFound    = "attendance.not_found"
	KeyLocationEditOff   = "attendance.location_edit_disabled"
	KeyQRFailed          = "qr.failed"
	KeyInvalidCoordinate = "geo.invalid_coordinate"
)

var supported = []language.Tag{language.English, language.Arabic}

var messages = map[language.Tag]map[string]string{
	language.English: {
		KeySessionNotFound:   "Invalid session PIN",
		KeySessionClosed:     "Sorry, this session is no longer accepting check-ins",
		KeyDuplicate:         "You have already checked in",
		KeyOutOfRange:        "You are outside the allowed area (%s m)",
		KeyCheckedIn:         "Attendance recorded",
		KeyInvalidLogin:      "Invalid username or password",
		KeyUserNotFound:      "User not found",
		KeyWrongOldPassword:  "The current password is incorrect",
		KeyPasswordChanged:   "Password changed",
		KeyUsernameTaken:     "Username already exists",
		KeyUnknownSession:    "Session not found",
		KeySessionDeleted:    "Session deleted",
		KeyDefaultName:       "New session",
		KeyRecordNotFound:    "Record not found",
		KeyLocationEditOff:   "Manual location edits are disabled",
		KeyQRFailed:          "Failed to generate QR code",
		KeyInvalidCoordinate: "Invalid location coordinates",
	},
	language.Arabic: {
		KeySessionNotFound:   "رقم الجلسة غير صحيح",
		KeySessionClosed:     "عذراً، الجلسة مغلقة حالياً",
		KeyDuplicate:         "لقد قمت بالتسجيل مسبقاً",
		KeyOutOfRange:        "أنت خارج نطاق الموقع المسموح (%s متر)",
		KeyCheckedIn:         "تم تسجيل الحضور بنجاح",
		KeyInvalidLogin:      "اسم المستخدم أو كلمة السر غير صحيحة",
		KeyUserNotFound:      "المستخدم غير موجود",
		KeyWrongOldPassword:  "كلمة السر القديمة غير صحيحة",
		KeyPasswordChanged:   "تم تغيير كلمة السر بنجاح",
		KeyUsernameTaken:     "اسم المستخدم موجود مسبقاً",
		KeyUnknownSession:    "الجلسة غير موجودة",
		KeySessionDeleted:    "تم حذف الجلسة بنجاح",
		KeyDefaultName:       "جلسة جديدة",
		KeyRecordNotFound:    "السجل غير موجود",
		KeyLocationEditOff:   "تعديل الموقع يدوياً غير مسموح",
		KeyQRFailed:          "خطأ في توليد QR Code",
		KeyInvalidCoordinate: "إحداثيات الموقع غير صحيحة",
	},
}

var (
	cat     = mustCatalog()
	matcher = language.NewMatcher(supported)
)

func mustCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Supported lists the languages messages exist for.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// ParseTag maps a user supplied language value onto a supported tag.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	return Match(tag)
}

// Match returns the closest supported tag. ok is false when nothing matched
// with at least low confidence.
func Match(tags ...language.Tag) (language.Tag, bool) {
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return supported[0], false
	}
	return supported[idx], true
}

// Resolve picks the response language from an explicit lang value, then the
// Accept-Language header, then fallback.
func Resolve(lang, acceptLanguage string, fallback language.Tag) language.Tag {
	if tag, ok := ParseTag(lang); ok {
		return tag
	}
	if acceptLanguage = strings.TrimSpace(acceptLanguage); acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			if tag, ok := Match(tags...); ok {
				return tag
			}
		}
	}
	return fallback
}

func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(cat))
}

// T formats the message stored under key for tag.
func T(tag language.Tag, key string, args ...interface{}) string {
	return Printer(tag).Sprintf(key, args...)
}
