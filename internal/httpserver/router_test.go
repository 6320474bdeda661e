package httpserver

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"insurance-tracker/internal/auth"
	"insurance-tracker/internal/domain"
	filesvc "insurance-tracker/internal/service/file"
)

func newTestRouter(t *testing.T, d *testDeps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, d.deps())
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func do(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBuildRouterRequiresSecret(t *testing.T) {
	deps := newTestDeps().deps()
	deps.JWTSecret = ""
	if _, err := buildRouter(logDiscard(), nil, deps); err == nil {
		t.Fatalf("expected error without jwt secret")
	}
}

func TestHealthzIsOpen(t *testing.T) {
	rec := do(newTestRouter(t, newTestDeps()), http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestReadyz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for name, tc := range map[string]struct {
		db   Pinger
		want int
	}{
		"no db":   {nil, http.StatusServiceUnavailable},
		"db down": {stubPinger{err: errors.New("refused")}, http.StatusServiceUnavailable},
		"db up":   {stubPinger{}, http.StatusOK},
	} {
		router, err := buildRouter(logDiscard(), tc.db, newTestDeps().deps())
		if err != nil {
			t.Fatalf("build router: %v", err)
		}
		if rec := do(router, http.MethodGet, "/readyz", "", ""); rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", name, tc.want, rec.Code)
		}
	}
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t, newTestDeps())
	if rec := do(router, http.MethodGet, "/api/dashboard", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/api/dashboard", "Bearer nope", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/api/dashboard", tokenWith(auth.ChangeDefect), ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without view permission, got %d", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/api/dashboard", tokenWith(auth.ViewCustomer), ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCountersGatePendingRenewals(t *testing.T) {
	d := newTestDeps()
	router := newTestRouter(t, d)

	rec := do(router, http.MethodGet, "/api/notifications/counters", tokenWith(), "")
	if rec.Code != http.StatusOK || d.dashboard.lastManage {
		t.Fatalf("unexpected response %d manage=%v", rec.Code, d.dashboard.lastManage)
	}
	if !strings.Contains(rec.Body.String(), `"pendingRenewals":0`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	rec = do(router, http.MethodGet, "/api/notifications/counters", tokenWith(auth.ChangeInsurance), "")
	if !d.dashboard.lastManage || !strings.Contains(rec.Body.String(), `"pendingRenewals":1`) {
		t.Fatalf("expected renewal count for managers, body %s", rec.Body.String())
	}
}

func TestNotificationsListsItems(t *testing.T) {
	rec := do(newTestRouter(t, newTestDeps()), http.MethodGet, "/api/notifications", tokenWith(auth.ViewCustomer), "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"items":[`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestCustomerListPassesQueryAndZonedToday(t *testing.T) {
	d := newTestDeps()
	rec := do(newTestRouter(t, d), http.MethodGet, "/api/customers?q=sun&field=name&sort=-email&page=2", tokenWith(auth.ViewCustomer), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	q := d.customers.lastQuery
	if q.Search != "sun" || q.Field != "name" || q.Sort != "-email" || q.Page != "2" {
		t.Fatalf("unexpected query %+v", q)
	}
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !d.customers.lastToday.Equal(want) {
		t.Fatalf("expected today %v, got %v", want, d.customers.lastToday)
	}
}

func TestCreateInsuranceTakesCustomerFromPath(t *testing.T) {
	d := newTestDeps()
	body := `{"policyNo":"P-9","customerId":"ignored","endPeriod":"2025-01-01"}`
	rec := do(newTestRouter(t, d), http.MethodPost, "/api/customers/C-1/insurances", tokenWith(auth.ChangeInsurance), body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if d.insurance.lastInput.CustomerID != "C-1" {
		t.Fatalf("expected path customer, got %q", d.insurance.lastInput.CustomerID)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		want     int
		contains string
	}{
		{domain.Invalid("endPeriod", "must not be before startingPeriod"), http.StatusBadRequest, `"field":"endPeriod"`},
		{domain.ErrUnknownCustomer, http.StatusBadRequest, "customer not found"},
		{domain.ErrNotFound, http.StatusNotFound, "not found"},
		{domain.ErrAlreadyExists, http.StatusConflict, "already exists"},
		{errors.New("pq: connection reset"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		d := newTestDeps()
		d.insurance.err = tc.err
		rec := do(newTestRouter(t, d), http.MethodPost, "/api/customers/C-1/insurances", tokenWith(auth.ChangeInsurance), `{}`)
		if rec.Code != tc.want || !strings.Contains(rec.Body.String(), tc.contains) {
			t.Fatalf("%v: got %d %s", tc.err, rec.Code, rec.Body.String())
		}
		if strings.Contains(rec.Body.String(), "connection reset") {
			t.Fatalf("internal details leaked: %s", rec.Body.String())
		}
	}
}

func TestMalformedBodyAndIDs(t *testing.T) {
	router := newTestRouter(t, newTestDeps())
	tok := tokenWith(auth.ChangeCustomer, auth.ChangeWarranty)
	if rec := do(router, http.MethodPost, "/api/customers", tok, `{"id":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed json, got %d", rec.Code)
	}
	if rec := do(router, http.MethodPut, "/api/warranties/abc", tok, `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
}

func TestDeleteCustomerNeedsDeletePermission(t *testing.T) {
	router := newTestRouter(t, newTestDeps())
	if rec := do(router, http.MethodDelete, "/api/customers/C-1", tokenWith(auth.ChangeCustomer), ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if rec := do(router, http.MethodDelete, "/api/customers/C-1", tokenWith(auth.DeleteCustomer), ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestRenewalsRequireManagePermission(t *testing.T) {
	router := newTestRouter(t, newTestDeps())
	if rec := do(router, http.MethodGet, "/api/renewals", tokenWith(auth.ViewCustomer), ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	rec := do(router, http.MethodPost, "/api/renewals/7/dismiss", tokenWith(auth.ManageRenewals), "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "marked as complete") {
		t.Fatalf("unexpected dismiss response %d %s", rec.Code, rec.Body.String())
	}
}

func TestDefectRoutes(t *testing.T) {
	d := newTestDeps()
	d.defects.deadlines = map[string]time.Time{"C-1": time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)}
	router := newTestRouter(t, d)
	tok := tokenWith(auth.ChangeDefect, auth.ViewCustomer)

	rec := do(router, http.MethodGet, "/api/defects/deadlines", tok, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"C-1":"2025-06-30"`) {
		t.Fatalf("unexpected deadlines %d %s", rec.Code, rec.Body.String())
	}
	rec = do(router, http.MethodPost, "/api/defects/4/solve", tok, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"Solved"`) {
		t.Fatalf("unexpected solve %d %s", rec.Code, rec.Body.String())
	}
	rec = do(router, http.MethodPost, "/api/customers/C-1/defects", tok, `{"type":"Other"}`)
	if rec.Code != http.StatusCreated || d.defects.lastToday.Day() != 15 {
		t.Fatalf("unexpected create %d today=%v", rec.Code, d.defects.lastToday)
	}
	if rec := do(router, http.MethodGet, "/api/incidents", tok, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for incidents, got %d", rec.Code)
	}
}

func multipartUpload(t *testing.T, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("description", "site plan"); err != nil {
		t.Fatal(err)
	}
	part, err := w.CreateFormFile("file", "plan.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestUploadFile(t *testing.T) {
	d := newTestDeps()
	router := newTestRouter(t, d)
	body, ct := multipartUpload(t, "%PDF-1.7")

	req := httptest.NewRequest(http.MethodPost, "/api/customers/C-1/files", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", tokenWith(auth.ManageFiles))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if string(d.files.uploaded) != "%PDF-1.7" || d.files.last.Description != "site plan" || d.files.last.CustomerID != "C-1" {
		t.Fatalf("unexpected upload %+v %q", d.files.last, d.files.uploaded)
	}
}

func TestUploadWithoutStorage(t *testing.T) {
	d := newTestDeps()
	d.files.err = filesvc.ErrStorageDisabled
	router := newTestRouter(t, d)
	body, ct := multipartUpload(t, "x")

	req := httptest.NewRequest(http.MethodPost, "/api/customers/C-1/files", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", tokenWith(auth.ManageFiles))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestUploadMissingFile(t *testing.T) {
	rec := do(newTestRouter(t, newTestDeps()), http.MethodPost, "/api/customers/C-1/files", tokenWith(auth.ManageFiles), `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFileURL(t *testing.T) {
	rec := do(newTestRouter(t, newTestDeps()), http.MethodGet, "/api/files/3/url", tokenWith(auth.ViewCustomer), "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"expiresIn":3600`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}
