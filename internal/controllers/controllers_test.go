package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/zaqqye/attendance_backend/internal/admission"
	"github.com/zaqqye/attendance_backend/internal/middleware"
	"github.com/zaqqye/attendance_backend/internal/models"
)

func testContext(tag language.Tag) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	middleware.Locale(tag)(c)
	return c
}

func TestRejectionStatus(t *testing.T) {
	c := testContext(language.English)
	cases := []struct {
		verdict admission.Verdict
		status  int
	}{
		{admission.Reject(admission.ReasonSessionNotFound), http.StatusNotFound},
		{admission.Reject(admission.ReasonSessionClosed), http.StatusForbidden},
		{admission.Reject(admission.ReasonDuplicate), http.StatusConflict},
		{admission.RejectOutOfRange(212.6), http.StatusForbidden},
	}
	for _, tc := range cases {
		status, body := rejection(c, tc.verdict)
		if status != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.verdict, tc.status, status)
		}
		if body["error"] != string(tc.verdict.Reason) || body["message"] == "" {
			t.Fatalf("%s: unexpected body %v", tc.verdict, body)
		}
	}
	_, body := rejection(c, admission.RejectOutOfRange(212.6))
	if body["distance"] != 213 {
		t.Fatalf("expected rounded distance 213, got %v", body["distance"])
	}
}

func TestRejectionMessageLocalized(t *testing.T) {
	c := testContext(language.Arabic)
	_, body := rejection(c, admission.Reject(admission.ReasonSessionClosed))
	if body["message"] != "عذراً، الجلسة مغلقة حالياً" {
		t.Fatalf("unexpected arabic message %v", body["message"])
	}
}

func TestFlexibleString(t *testing.T) {
	var payload struct {
		A FlexibleString `json:"a"`
		B FlexibleString `json:"b"`
		C FlexibleString `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":" S1 ","b":20231234,"c":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.A != "S1" || payload.B != "20231234" || payload.C != "" {
		t.Fatalf("unexpected values %+v", payload)
	}
	if err := json.Unmarshal([]byte(`{"a":{}}`), &payload); err == nil {
		t.Fatalf("expected error for object value")
	}
}

func TestCanManage(t *testing.T) {
	sess := &models.Session{OwnerID: 7}
	if !canManage(models.User{ID: 7, Role: models.RoleTeacher}, sess) {
		t.Fatalf("owner should manage")
	}
	if canManage(models.User{ID: 8, Role: models.RoleTeacher}, sess) {
		t.Fatalf("other teacher should not manage")
	}
	if !canManage(models.User{ID: 9, Role: models.RoleAdmin}, sess) {
		t.Fatalf("admin should manage")
	}
	if canEditRecord(models.User{ID: 7, Role: models.RoleTeacher}, nil) {
		t.Fatalf("orphaned records are admin only")
	}
}

func TestPinValidator(t *testing.T) {
	if err := RegisterValidators(); err != nil {
		t.Fatalf("register: %v", err)
	}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	qc := &QRController{}
	r.GET("/qr/:pin", qc.DataURL)
	for pin, want := range map[string]int{"123456": http.StatusOK, "12345": http.StatusBadRequest, "12345a": http.StatusBadRequest} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/qr/"+pin, nil))
		if w.Code != want {
			t.Fatalf("pin %q: expected %d, got %d", pin, want, w.Code)
		}
	}
}
