package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rafaelqueiroz/charges-backend/internal/charges"
	"github.com/rafaelqueiroz/charges-backend/internal/customers"
	"github.com/rafaelqueiroz/charges-backend/pkg/config"
	"github.com/rafaelqueiroz/charges-backend/pkg/db/models"
	"github.com/rafaelqueiroz/charges-backend/pkg/enums"
	pkgerrors "github.com/rafaelqueiroz/charges-backend/pkg/errors"
	"github.com/rafaelqueiroz/charges-backend/pkg/logger"
	"github.com/rafaelqueiroz/charges-backend/pkg/pagination"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubCustomersService struct{}

func (stubCustomersService) Create(ctx context.Context, input customers.CreateCustomerInput) (*models.Customer, error) {
	return &models.Customer{ID: 1, Name: input.Name, Email: input.Email, Document: input.Document, Phone: input.Phone}, nil
}

func (stubCustomersService) FindByID(ctx context.Context, id int64) (*models.Customer, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
}

func (stubCustomersService) FindAll(ctx context.Context) ([]models.Customer, error) {
	return nil, nil
}

func (stubCustomersService) Update(ctx context.Context, id int64, input customers.UpdateCustomerInput) (*models.Customer, error) {
	return &models.Customer{ID: id}, nil
}

func (stubCustomersService) Delete(ctx context.Context, id int64) (*models.Customer, error) {
	return &models.Customer{ID: id}, nil
}

type stubChargesService struct{}

func (stubChargesService) Create(ctx context.Context, input charges.CreateChargeInput) (*models.Charge, error) {
	return &models.Charge{ID: 1, Status: enums.ChargeStatusPending}, nil
}

func (stubChargesService) FindByID(ctx context.Context, id int64) (*models.Charge, error) {
	return &models.Charge{ID: id, Status: enums.ChargeStatusPending}, nil
}

func (stubChargesService) FindAll(ctx context.Context) ([]models.Charge, error) {
	return nil, nil
}

func (stubChargesService) FindByCustomer(ctx context.Context, customerID int64) ([]models.Charge, error) {
	return nil, nil
}

func (stubChargesService) FindPaginated(ctx context.Context, params pagination.Params) (*charges.Page, error) {
	return &charges.Page{Page: params.Page, Limit: params.Limit}, nil
}

func (stubChargesService) UpdateStatus(ctx context.Context, id int64, status enums.ChargeStatus) (*models.Charge, error) {
	return &models.Charge{ID: id, Status: status}, nil
}

func (stubChargesService) Delete(ctx context.Context, id int64) (*models.Charge, error) {
	return &models.Charge{ID: id}, nil
}

func (stubChargesService) ExpireOverdue(ctx context.Context) (*charges.ExpireResult, error) {
	return &charges.ExpireResult{ExpiredCount: 0, Message: "0 overdue boletos were expired"}, nil
}

func newTestRouter(t *testing.T, db Pinger) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	return NewRouter(cfg, logg, db, stubCustomersService{}, stubChargesService{})
}

func TestRouterRoutesAreMounted(t *testing.T) {
	router := newTestRouter(t, stubPinger{})

	cases := []struct {
		method string
		target string
		body   string
		status int
	}{
		{method: http.MethodGet, target: "/health/live", status: http.StatusOK},
		{method: http.MethodGet, target: "/health/ready", status: http.StatusOK},
		{method: http.MethodPost, target: "/api/customer", body: `{"name":"Ana","email":"ana@example.com","document":"12345678901","phone":"+5511999990000"}`, status: http.StatusCreated},
		{method: http.MethodGet, target: "/api/customer", status: http.StatusOK},
		{method: http.MethodGet, target: "/api/customer/42", status: http.StatusNotFound},
		{method: http.MethodGet, target: "/api/charge", status: http.StatusOK},
		{method: http.MethodGet, target: "/api/charge/1", status: http.StatusOK},
		{method: http.MethodGet, target: "/api/charge/customer/1", status: http.StatusOK},
		{method: http.MethodPatch, target: "/api/charge/1/status/PAID", status: http.StatusOK},
		{method: http.MethodDelete, target: "/api/charge/1", status: http.StatusOK},
		{method: http.MethodPost, target: "/api/charge/expire-overdue", status: http.StatusOK},
		{method: http.MethodPost, target: "/api/charge/paginated?page=1&limit=5", status: http.StatusOK},
	}

	for _, tc := range cases {
		var body io.Reader
		if tc.body != "" {
			body = strings.NewReader(tc.body)
		}
		req := httptest.NewRequest(tc.method, tc.target, body)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tc.status {
			t.Fatalf("%s %s: expected %d, got %d (%s)", tc.method, tc.target, tc.status, resp.Code, resp.Body.String())
		}
	}
}

func TestRouterReadyFailsWhenDBDown(t *testing.T) {
	router := newTestRouter(t, stubPinger{err: context.DeadlineExceeded})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestRouterAttachesRequestID(t *testing.T) {
	router := newTestRouter(t, stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected request id header")
	}
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(t, stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestRouterErrorEnvelopeShape(t *testing.T) {
	router := newTestRouter(t, stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/customer/42", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != "NOT_FOUND" || envelope.Error.Message != "customer not found" {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}
