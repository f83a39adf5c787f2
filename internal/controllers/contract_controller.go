package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/dtos"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/services"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/utils"
)

type ContractController struct {
	lifecycleService *services.ContractLifecycleService
	validate         *validator.Validate
}

func NewContractController(s *services.ContractLifecycleService) *ContractController {
	return &ContractController{
		lifecycleService: s,
		validate:         validator.New(),
	}
}

// POST /api/v1/contracts
func (c *ContractController) CreateAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "CreateAssignmentHandler")
	logger.Info("Request received")

	var req dtos.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			utils.RespondWithJSON(w, http.StatusBadRequest, formatValidationErrors(validationErrs))
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		}
		return
	}

	contract, err := c.lifecycleService.CreateAssignment(r.Context(), &req)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("contractID", contract.ID).Info("Contract created")
	utils.RespondWithJSON(w, http.StatusCreated, dtos.ContractResponse{Contract: contract})
}

// POST /api/v1/contracts/{contractId}/lease
func (c *ContractController) CreateLeaseHandler(w http.ResponseWriter, r *http.Request) {
	c.mutateWithBody(w, r, "CreateLeaseHandler", func() (any, func() (*models.Contract, error)) {
		req := &dtos.CreateLeaseRequest{}
		return req, func() (*models.Contract, error) {
			id, err := contractIDFromPath(r)
			if err != nil {
				return nil, err
			}
			return c.lifecycleService.CreateLease(r.Context(), id, req)
		}
	})
}

// POST /api/v1/contracts/{contractId}/lease/terminate
func (c *ContractController) TerminateLeaseHandler(w http.ResponseWriter, r *http.Request) {
	c.mutateWithBody(w, r, "TerminateLeaseHandler", func() (any, func() (*models.Contract, error)) {
		req := &dtos.TerminateLeaseRequest{}
		return req, func() (*models.Contract, error) {
			id, err := contractIDFromPath(r)
			if err != nil {
				return nil, err
			}
			return c.lifecycleService.TerminateLease(r.Context(), id, req)
		}
	})
}

// POST /api/v1/contracts/{contractId}/lease/cancel
func (c *ContractController) CancelLeaseHandler(w http.ResponseWriter, r *http.Request) {
	c.mutateWithBody(w, r, "CancelLeaseHandler", func() (any, func() (*models.Contract, error)) {
		req := &dtos.CancelLeaseRequest{}
		return req, func() (*models.Contract, error) {
			id, err := contractIDFromPath(r)
			if err != nil {
				return nil, err
			}
			return c.lifecycleService.CancelLease(r.Context(), id, req)
		}
	})
}

// POST /api/v1/contracts/{contractId}/lease/termination/cancel
func (c *ContractController) CancelTerminationHandler(w http.ResponseWriter, r *http.Request) {
	c.mutateWithBody(w, r, "CancelTerminationHandler", func() (any, func() (*models.Contract, error)) {
		req := &dtos.CancelTerminationRequest{}
		return req, func() (*models.Contract, error) {
			id, err := contractIDFromPath(r)
			if err != nil {
				return nil, err
			}
			return c.lifecycleService.CancelTermination(r.Context(), id, req)
		}
	})
}

// POST /api/v1/contracts/{contractId}/assignment/terminate
func (c *ContractController) TerminateAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "TerminateAssignmentHandler")
	logger.Info("Request received")

	id, err := contractIDFromPath(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	contract, err := c.lifecycleService.TerminateAssignment(r.Context(), id)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ContractResponse{Contract: contract})
}

// POST /api/v1/contracts/{contractId}/signing/events
//
// Ingests e-signing provider callbacks relayed by the documents service.
func (c *ContractController) SignerUpdateHandler(w http.ResponseWriter, r *http.Request) {
	c.mutateWithBody(w, r, "SignerUpdateHandler", func() (any, func() (*models.Contract, error)) {
		req := &dtos.SignerUpdateRequest{}
		return req, func() (*models.Contract, error) {
			id, err := contractIDFromPath(r)
			if err != nil {
				return nil, err
			}
			return c.lifecycleService.RecordSignerUpdate(r.Context(), id, req)
		}
	})
}

// GET /api/v1/contracts/{contractId}
func (c *ContractController) GetContractHandler(w http.ResponseWriter, r *http.Request) {
	id, err := contractIDFromPath(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	contract, signing, err := c.lifecycleService.GetContract(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ContractResponse{Contract: contract, Signing: signing})
}

// GET /api/v1/contracts/{contractId}/history?name=<field>
func (c *ContractController) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := contractIDFromPath(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Query parameter 'name' is required", nil)
		return
	}

	contract, _, err := c.lifecycleService.GetContract(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	entries := make([]models.HistoryEntry, 0)
	for _, entry := range contract.History {
		if entry.Name == name {
			entries = append(entries, entry)
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HistoryResponse{Name: name, Entries: entries})
}

// mutateWithBody factors the decode/validate/respond cycle shared by the
// transition endpoints.
func (c *ContractController) mutateWithBody(
	w http.ResponseWriter,
	r *http.Request,
	handlerName string,
	prepare func() (any, func() (*models.Contract, error)),
) {
	logger := utils.Logger.WithField("handler", handlerName)
	logger.Info("Request received")

	req, call := prepare()
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			utils.RespondWithJSON(w, http.StatusBadRequest, formatValidationErrors(validationErrs))
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		}
		return
	}

	contract, err := call()
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("contractID", contract.ID).Info("Service call successful")
	utils.RespondWithJSON(w, http.StatusOK, dtos.ContractResponse{Contract: contract})
}
