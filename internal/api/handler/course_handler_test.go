package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newFormContext(t *testing.T, values url.Values) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFormHelpersParseValues(t *testing.T) {
	c := newFormContext(t, url.Values{
		"totalPrice": {"99.5"},
		"duration":   {"120"},
	})

	total, err := formFloat(c, "totalPrice")
	if err != nil || total != 99.5 {
		t.Errorf("formFloat = (%v, %v), want 99.5", total, err)
	}
	duration, err := formInt(c, "duration")
	if err != nil || duration != 120 {
		t.Errorf("formInt = (%v, %v), want 120", duration, err)
	}

	totalPtr, err := formFloatPtr(c, "totalPrice")
	if err != nil || totalPtr == nil || *totalPtr != 99.5 {
		t.Errorf("formFloatPtr = (%v, %v), want 99.5", totalPtr, err)
	}
	durationPtr, err := formIntPtr(c, "duration")
	if err != nil || durationPtr == nil || *durationPtr != 120 {
		t.Errorf("formIntPtr = (%v, %v), want 120", durationPtr, err)
	}
}

func TestFormHelpersAbsentFields(t *testing.T) {
	c := newFormContext(t, url.Values{})

	if total, err := formFloat(c, "totalPrice"); err != nil || total != 0 {
		t.Errorf("formFloat = (%v, %v), want zero for an absent field", total, err)
	}
	if duration, err := formInt(c, "duration"); err != nil || duration != 0 {
		t.Errorf("formInt = (%v, %v), want zero for an absent field", duration, err)
	}
	if ptr, err := formFloatPtr(c, "totalPrice"); err != nil || ptr != nil {
		t.Errorf("formFloatPtr = (%v, %v), want nil for an absent field", ptr, err)
	}
	if ptr, err := formIntPtr(c, "duration"); err != nil || ptr != nil {
		t.Errorf("formIntPtr = (%v, %v), want nil for an absent field", ptr, err)
	}
}

func TestFormHelpersRejectMalformedNumbers(t *testing.T) {
	c := newFormContext(t, url.Values{
		"totalPrice": {"ninety"},
		"duration":   {"2h"},
	})

	assertBadRequest := func(name string, err error) {
		t.Helper()
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Errorf("%s: err = %v, want 400 for a malformed number", name, err)
		}
	}

	_, err := formFloat(c, "totalPrice")
	assertBadRequest("formFloat", err)
	_, err = formFloatPtr(c, "totalPrice")
	assertBadRequest("formFloatPtr", err)
	_, err = formInt(c, "duration")
	assertBadRequest("formInt", err)
	_, err = formIntPtr(c, "duration")
	assertBadRequest("formIntPtr", err)
}
