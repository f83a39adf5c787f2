package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/dtos"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/services"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/utils"
)

// BillingController receives the invoicing engine's notifications:
// commission/addon changes feeding the income recompute, payment events
// feeding eviction reconciliation, and eviction escalation requests.
type BillingController struct {
	commissionService *services.CommissionService
	evictionService   *services.EvictionService
	validate          *validator.Validate
}

func NewBillingController(commissionService *services.CommissionService, evictionService *services.EvictionService) *BillingController {
	return &BillingController{
		commissionService: commissionService,
		evictionService:   evictionService,
		validate:          validator.New(),
	}
}

// POST /api/v1/contracts/{contractId}/commissions
func (c *BillingController) CommissionChangeHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "CommissionChangeHandler")
	logger.Info("Request received")

	id, err := contractIDFromPath(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.CommissionChangeRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}

	entries, names, err := c.commissionService.RecomputeCommissionHistory(r.Context(), id, &req)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"updated_fields": names,
		"entries":        entries,
	})
}

// PUT /api/v1/contracts/{contractId}/addons
func (c *BillingController) AddonChangeHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "AddonChangeHandler")
	logger.Info("Request received")

	id, err := contractIDFromPath(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.AddonChangeRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}

	entries, names, err := c.commissionService.ApplyAddonChange(r.Context(), id, req.Addons)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"updated_fields": names,
		"entries":        entries,
	})
}

// POST /api/v1/contracts/{contractId}/payments
func (c *BillingController) PaymentEventHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "PaymentEventHandler")
	logger.Info("Request received")

	id, err := contractIDFromPath(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.PaymentEventRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}

	if err := c.evictionService.ReconcilePayment(r.Context(), id, req.InvoiceID, req.PaidAmountCents); err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "reconciled"})
}

// POST /api/v1/eviction-cases
func (c *BillingController) OpenEvictionCaseHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "OpenEvictionCaseHandler")
	logger.Info("Request received")

	var req dtos.OpenEvictionCaseRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}

	evictionCase, err := c.evictionService.OpenCaseForInvoice(r.Context(), req.InvoiceID)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("caseID", evictionCase.ID).Info("Eviction case opened")
	utils.RespondWithJSON(w, http.StatusCreated, evictionCase)
}

func (c *BillingController) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return false
	}
	if err := c.validate.Struct(req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			utils.RespondWithJSON(w, http.StatusBadRequest, formatValidationErrors(validationErrs))
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		}
		return false
	}
	return true
}
