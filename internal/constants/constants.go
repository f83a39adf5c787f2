package constants

import "time"

// Partner business defaults
const (
	DefaultPartnerTimezone = "Europe/Oslo"
	DefaultCurrency        = "NOK"
)

// EscalationReason standardizes the audit trail left when the scheduled
// jobs touch a contract, so reporting can distinguish operator actions
// from system actions.
const (
	ReasonEvictionScan         = "eviction_escalation_scan"
	ReasonTerminationFinalizer = "due_termination_finalizer"
	ReasonInvoiceNotEligible   = "invoice_not_eligible_for_eviction"
	ReasonCaseAlreadyOpen      = "eviction_case_already_open"
)

// History field names recorded by the contract core. Reporting filters the
// shared history array on these values, so they are part of the data contract.
const (
	HistoryFieldStatus        = "status"
	HistoryFieldLeaseStatus   = "lease_status"
	HistoryFieldMonthlyRent   = "monthly_rent_amount"
	HistoryFieldDepositAmount = "deposit_amount"
	HistoryFieldCommissions   = "commissions"
	HistoryFieldOtherIncome   = "other_income"
	HistoryFieldTotalIncome   = "total_income"
	HistoryFieldTerminatedBy  = "terminated_by"
	HistoryFieldCPIDate       = "next_cpi_date"
)

// Lease lifecycle business rules
const (
	// Minimum gap between a terminating lease's end date and the start of an
	// upcoming successor on the same property.
	SuccessorGapDays = 1

	// CPI adjustments are yearly.
	CPIIntervalMonths = 12
)

// Job scheduling and timeouts
const (
	EvictionScanCronSpec              = "0 7 * * *"    // 07:00 UTC daily
	TerminationFinalizerCronSpec      = "30 0 * * *"   // 00:30 UTC daily
	ShortEvictionScanCronSpec         = "*/15 * * * *" // every 15 minutes
	ShortTerminationFinalizerCronSpec = "*/15 * * * *"
	EvictionScanJobTimeout            = 10 * time.Minute
	TerminationFinalizerJobTimeout    = 10 * time.Minute
)
