package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rafaelqueiroz/charges-backend/api/responses"
	"github.com/rafaelqueiroz/charges-backend/api/validators"
	"github.com/rafaelqueiroz/charges-backend/internal/charges"
	"github.com/rafaelqueiroz/charges-backend/pkg/db/models"
	"github.com/rafaelqueiroz/charges-backend/pkg/enums"
	pkgerrors "github.com/rafaelqueiroz/charges-backend/pkg/errors"
	"github.com/rafaelqueiroz/charges-backend/pkg/logger"
	"github.com/rafaelqueiroz/charges-backend/pkg/pagination"
)

type chargeCreateRequest struct {
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	Currency       string          `json:"currency" validate:"required,len=3"`
	Method         string          `json:"method" validate:"required,oneof=PIX CREDIT_CARD BOLETO"`
	CustomerID     int64           `json:"customerId" validate:"required,gt=0"`
	IdempotencyKey string          `json:"idempotencyKey" validate:"required,min=1,max=255"`
	Installments   *int            `json:"installments,omitempty"`
	PixKey         *string         `json:"pixKey,omitempty"`
	QRCode         *string         `json:"qrCode,omitempty"`
	DueDate        *time.Time      `json:"dueDate,omitempty"`
}

type chargeResponse struct {
	ID             int64             `json:"id"`
	Amount         decimal.Decimal   `json:"amount"`
	Currency       string            `json:"currency"`
	Method         string            `json:"method"`
	CustomerID     int64             `json:"customerId"`
	Customer       *customerResponse `json:"customer,omitempty"`
	IdempotencyKey string            `json:"idempotencyKey"`
	Status         string            `json:"status"`
	Installments   *int              `json:"installments,omitempty"`
	PixKey         *string           `json:"pixKey,omitempty"`
	QRCode         *string           `json:"qrCode,omitempty"`
	DueDate        *time.Time        `json:"dueDate,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

type chargePageResponse struct {
	Data  []chargeResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Pages int              `json:"pages"`
}

type expireOverdueResponse struct {
	ExpiredCount int64  `json:"expiredCount"`
	Message      string `json:"message"`
}

func toChargeResponse(charge *models.Charge) chargeResponse {
	resp := chargeResponse{
		ID:             charge.ID,
		Amount:         charge.Amount,
		Currency:       charge.Currency,
		Method:         charge.Method.String(),
		CustomerID:     charge.CustomerID,
		IdempotencyKey: charge.IdempotencyKey,
		Status:         charge.Status.String(),
		Installments:   charge.Installments,
		PixKey:         charge.PixKey,
		QRCode:         charge.QRCode,
		DueDate:        charge.DueDate,
		CreatedAt:      charge.CreatedAt,
		UpdatedAt:      charge.UpdatedAt,
	}
	if charge.Customer != nil {
		customer := toCustomerResponse(charge.Customer)
		resp.Customer = &customer
	}
	return resp
}

func toChargeResponses(rows []models.Charge) []chargeResponse {
	out := make([]chargeResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toChargeResponse(&rows[i]))
	}
	return out
}

// ChargeCreate registers a new pending charge.
func ChargeCreate(svc charges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "charge service unavailable"))
			return
		}

		var payload chargeCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		created, err := svc.Create(r.Context(), charges.CreateChargeInput{
			Amount:         payload.Amount,
			Currency:       payload.Currency,
			Method:         method,
			CustomerID:     payload.CustomerID,
			IdempotencyKey: payload.IdempotencyKey,
			Installments:   payload.Installments,
			PixKey:         payload.PixKey,
			QRCode:         payload.QRCode,
			DueDate:        payload.DueDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toChargeResponse(created))
	}
}

// ChargeGet returns one charge by id.
func ChargeGet(svc charges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "charge service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		charge, err := svc.FindByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toChargeResponse(charge))
	}
}

// ChargeList returns every charge.
func ChargeList(svc charges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "charge service unavailable"))
			return
		}

		rows, err := svc.FindAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toChargeResponses(rows))
	}
}

// ChargeListByCustomer returns a customer's charges.
func ChargeListByCustomer(svc charges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "charge service unavailable"))
			return
		}

		customerID, err := validators.ParsePathID(chi.URLParam(r, "customerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.FindByCustomer(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toChargeResponses(rows))
	}
}

// ChargePaginated returns one page of charges, most recent first.
func ChargePaginated(svc charges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "charge service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", pagination.DefaultPage, 1, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.FindPaginated(r.Context(), pagination.Params{Page: page, Limit: limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, chargePageResponse{
			Data:  toChargeResponses(result.Data),
			Total: result.Total,
			Page:  result.Page,
			Limit: result.Limit,
			Pages: result.Pages,
		})
	}
}

// ChargeUpdateStatus moves a charge along its status lifecycle.
func ChargeUpdateStatus(svc charges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "charge service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseChargeStatus(chi.URLParam(r, "status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid charge status"))
			return
		}

		updated, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toChargeResponse(updated))
	}
}

// ChargeDelete removes a pending charge.
func ChargeDelete(svc charges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "charge service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		removed, err := svc.Delete(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toChargeResponse(removed))
	}
}

// ChargeExpireOverdue runs the overdue-boleto sweep on demand.
func ChargeExpireOverdue(svc charges.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "charge service unavailable"))
			return
		}

		result, err := svc.ExpireOverdue(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, expireOverdueResponse{
			ExpiredCount: result.ExpiredCount,
			Message:      result.Message,
		})
	}
}
