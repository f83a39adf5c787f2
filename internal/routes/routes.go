package routes

const (
	Health = "/health"

	Contracts                   = "/api/v1/contracts"
	Contract                    = "/api/v1/contracts/{contractId}"
	ContractHistory             = "/api/v1/contracts/{contractId}/history"
	ContractLease               = "/api/v1/contracts/{contractId}/lease"
	ContractLeaseTerminate      = "/api/v1/contracts/{contractId}/lease/terminate"
	ContractLeaseCancel         = "/api/v1/contracts/{contractId}/lease/cancel"
	ContractTerminationCancel   = "/api/v1/contracts/{contractId}/lease/termination/cancel"
	ContractAssignmentTerminate = "/api/v1/contracts/{contractId}/assignment/terminate"

	ContractSigningEvents = "/api/v1/contracts/{contractId}/signing/events"
	ContractCommissions   = "/api/v1/contracts/{contractId}/commissions"
	ContractAddons        = "/api/v1/contracts/{contractId}/addons"
	ContractPayments      = "/api/v1/contracts/{contractId}/payments"

	EvictionCases = "/api/v1/eviction-cases"
)
