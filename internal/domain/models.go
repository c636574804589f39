package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxAmounts holds the four GST tax heads for one invoice or note.
type TaxAmounts struct {
	IGST decimal.Decimal `json:"igst"`
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	Cess decimal.Decimal `json:"cess"`
}

// Total returns the sum of all four tax heads.
func (t TaxAmounts) Total() decimal.Decimal {
	return t.IGST.Add(t.CGST).Add(t.SGST).Add(t.Cess)
}

// ReturnEntry is one normalized line from an authority return (GSTR-2A/2B).
// Entries are immutable once produced; an amendment supersedes its original via
// the OriginalInvoiceNumber/Date link rather than mutating it.
type ReturnEntry struct {
	ID            uuid.UUID       `json:"id"`
	SupplierGSTIN string          `json:"supplier_gstin"`
	SupplierName  string          `json:"supplier_name"`
	ReturnPeriod  string          `json:"return_period"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	InvoiceValue  decimal.Decimal `json:"invoice_value"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
	Tax           TaxAmounts      `json:"tax"`
	ITCAvailable  bool            `json:"itc_available"`
	ITCReason     string          `json:"itc_reason,omitempty"`
	Kind          EntryKind       `json:"kind"`

	// Amendment link to the superseded entry, set only for amendment kinds.
	OriginalInvoiceNumber string     `json:"original_invoice_number,omitempty"`
	OriginalInvoiceDate   *time.Time `json:"original_invoice_date,omitempty"`

	// Bill of entry reference, set only for import kinds.
	BillOfEntryNumber string `json:"bill_of_entry_number,omitempty"`
	PortCode          string `json:"port_code,omitempty"`
}

// PurchaseLineItem is a single line on a purchase record.
type PurchaseLineItem struct {
	Description  string          `json:"description"`
	HSNSACCode   string          `json:"hsn_sac_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	Tax          TaxAmounts      `json:"tax"`
}

// ComplianceFlags are the four procedural conditions that gate any ITC claim,
// plus the payment date used by the 180-day reversal rule.
type ComplianceFlags struct {
	HasValidInvoice   bool       `json:"has_valid_invoice"`
	GoodsReceived     bool       `json:"goods_received"`
	SupplierTaxPaid   bool       `json:"supplier_tax_paid"`
	ReturnFiled       bool       `json:"return_filed"`
	PaymentDate       *time.Time `json:"payment_date,omitempty"`
	AnnualReturnDate  *time.Time `json:"annual_return_date,omitempty"`
}

// UsageProfile carries the category and usage attributes the eligibility
// evaluator dispatches on.
type UsageProfile struct {
	Category            ItemCategory    `json:"category"`
	BusinessPurpose     string          `json:"business_purpose,omitempty"`
	SeatingCapacity     int             `json:"seating_capacity,omitempty"`
	GoodsCarriage       bool            `json:"goods_carriage,omitempty"`
	StatutoryObligation bool            `json:"statutory_obligation,omitempty"`
	DeveloperSale       bool            `json:"developer_sale,omitempty"`
	PlantAndMachinery   bool            `json:"plant_and_machinery,omitempty"`
	BusinessUsePct      decimal.Decimal `json:"business_use_pct"`
	ExemptSupplyPct     decimal.Decimal `json:"exempt_supply_pct"`

	CapitalGoods   bool `json:"capital_goods,omitempty"`
	AssetLifeYears int  `json:"asset_life_years,omitempty"`

	GoodsImport     bool   `json:"goods_import,omitempty"`
	ServiceImport   bool   `json:"service_import,omitempty"`
	CustomsDutyPaid bool   `json:"customs_duty_paid,omitempty"`
	BillOfEntryRef  string `json:"bill_of_entry_ref,omitempty"`
	RCMSelfAssessed bool   `json:"rcm_self_assessed,omitempty"`
	RCMTaxPaid      bool   `json:"rcm_tax_paid,omitempty"`
}

// PurchaseRecord is the business's own record of a purchase. It is owned by the
// surrounding application; the engine only reads it.
type PurchaseRecord struct {
	ID            uuid.UUID          `json:"id"`
	VendorGSTIN   string             `json:"vendor_gstin"`
	VendorName    string             `json:"vendor_name"`
	InvoiceNumber string             `json:"invoice_number"`
	InvoiceDate   time.Time          `json:"invoice_date"`
	InvoiceValue  decimal.Decimal    `json:"invoice_value"`
	TaxableValue  decimal.Decimal    `json:"taxable_value"`
	Tax           TaxAmounts         `json:"tax"`
	Usage         UsageProfile       `json:"usage"`
	Compliance    ComplianceFlags    `json:"compliance"`
	LineItems     []PurchaseLineItem `json:"line_items,omitempty"`
}

// FieldMismatch records one field-level difference inside a match.
type FieldMismatch struct {
	Field       string           `json:"field"`
	ReturnValue string           `json:"return_value"`
	BookValue   string           `json:"book_value"`
	Tolerance   string           `json:"tolerance"`
	Severity    MismatchSeverity `json:"severity"`
}

// ReconciliationMatch pairs at most one return entry with at most one purchase
// record. PurchaseID is uuid.Nil for NO_MATCH outcomes. Within a reconciliation
// run each entry and each record participates in at most one match.
type ReconciliationMatch struct {
	ReturnEntryID uuid.UUID       `json:"return_entry_id"`
	PurchaseID    uuid.UUID       `json:"purchase_id,omitempty"`
	Type          MatchType       `json:"type"`
	Confidence    float64         `json:"confidence"`
	Mismatches    []FieldMismatch `json:"mismatches,omitempty"`
	AutoAccepted  bool            `json:"auto_accepted"`
}

// ClaimConditions mirrors the four statutory procedural conditions on a result.
type ClaimConditions struct {
	ValidInvoice      bool `json:"valid_invoice"`
	GoodsReceived     bool `json:"goods_received"`
	TaxPaidBySupplier bool `json:"tax_paid_by_supplier"`
	ReturnFiled       bool `json:"return_filed"`
}

// Met reports whether all four conditions hold.
func (c ClaimConditions) Met() bool {
	return c.ValidInvoice && c.GoodsReceived && c.TaxPaidBySupplier && c.ReturnFiled
}

// ITCEligibilityResult is the eligibility outcome for one purchase.
// EligibleAmount + BlockedAmount always equals the purchase's total GST.
type ITCEligibilityResult struct {
	PurchaseID       uuid.UUID       `json:"purchase_id"`
	EligibleAmount   decimal.Decimal `json:"eligible_amount"`
	BlockedAmount    decimal.Decimal `json:"blocked_amount"`
	Partial          bool            `json:"partial"`
	PartialAmount    decimal.Decimal `json:"partial_amount"`
	BlockedCategory  ItemCategory    `json:"blocked_category,omitempty"`
	BlockedReason    string          `json:"blocked_reason,omitempty"`
	ReductionFactors []string        `json:"reduction_factors,omitempty"`
	Conditions       ClaimConditions `json:"conditions"`
	WindowLapsed     bool            `json:"window_lapsed"`
}

// ITCReversal is an additive ledger event against a period's ITC register. It
// never represents a retroactive edit of the original eligibility result.
type ITCReversal struct {
	ID             uuid.UUID       `json:"id"`
	PurchaseID     uuid.UUID       `json:"purchase_id"`
	Reason         ReversalReason  `json:"reason"`
	ReversedAmount decimal.Decimal `json:"reversed_amount"`
	Interest       decimal.Decimal `json:"interest"`
	Note           string          `json:"note,omitempty"`
}

// Mismatch is one classified discrepancy between books and return.
type Mismatch struct {
	Kind          MismatchKind    `json:"kind"`
	VendorGSTIN   string          `json:"vendor_gstin"`
	InvoiceNumber string          `json:"invoice_number"`
	ReturnEntryID uuid.UUID       `json:"return_entry_id,omitempty"`
	PurchaseID    uuid.UUID       `json:"purchase_id,omitempty"`
	AmountDiff    decimal.Decimal `json:"amount_diff"`
	PctDiff       decimal.Decimal `json:"pct_diff"`
	DateGapDays   int             `json:"date_gap_days,omitempty"`
	Detail        string          `json:"detail"`
}

// DuplicateGroup reports a vendor+invoice+date combination appearing more than
// once within the same return document.
type DuplicateGroup struct {
	VendorGSTIN   string          `json:"vendor_gstin"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	Count         int             `json:"count"`
	CombinedValue decimal.Decimal `json:"combined_value"`
	EntryIDs      []uuid.UUID     `json:"entry_ids"`
}

// VendorMismatchStats aggregates mismatch counts and monetary impact per vendor.
type VendorMismatchStats struct {
	VendorGSTIN    string          `json:"vendor_gstin"`
	Count          int             `json:"count"`
	MonetaryImpact decimal.Decimal `json:"monetary_impact"`
}

// MismatchReport is the vendor-grouped classification output.
type MismatchReport struct {
	Mismatches []Mismatch            `json:"mismatches"`
	Duplicates []DuplicateGroup      `json:"duplicates"`
	ByVendor   []VendorMismatchStats `json:"by_vendor"`
}

// ActionItem is a generated follow-up attached to a vendor rollup.
type ActionItem struct {
	Kind          MismatchKind `json:"kind"`
	VendorGSTIN   string       `json:"vendor_gstin"`
	InvoiceNumber string       `json:"invoice_number"`
	Description   string       `json:"description"`
}

// VendorReconciliation is the per-vendor rollup for a period. Derived, never a
// source of truth.
type VendorReconciliation struct {
	VendorGSTIN     string          `json:"vendor_gstin"`
	VendorName      string          `json:"vendor_name"`
	EntryCount      int             `json:"entry_count"`
	RecordCount     int             `json:"record_count"`
	MatchedCount    int             `json:"matched_count"`
	MismatchedCount int             `json:"mismatched_count"`
	MissingInBooks  int             `json:"missing_in_books"`
	MissingInReturn int             `json:"missing_in_return"`
	MatchedITC      decimal.Decimal `json:"matched_itc"`
	MissingITC      decimal.Decimal `json:"missing_itc"`
	Status          VendorStatus    `json:"status"`
	ActionItems     []ActionItem    `json:"action_items,omitempty"`
}

// ReconciliationSummary is the period-level rollup. Derived, never a source of truth.
type ReconciliationSummary struct {
	Period            string          `json:"period"`
	ReturnEntryCount  int             `json:"return_entry_count"`
	PurchaseCount     int             `json:"purchase_count"`
	ExactMatches      int             `json:"exact_matches"`
	PartialMatches    int             `json:"partial_matches"`
	FuzzyMatches      int             `json:"fuzzy_matches"`
	UnmatchedEntries  int             `json:"unmatched_entries"`
	UnmatchedRecords  int             `json:"unmatched_records"`
	ITCAvailable      decimal.Decimal `json:"itc_available"`
	ITCClaimed        decimal.Decimal `json:"itc_claimed"`
	ITCPending        decimal.Decimal `json:"itc_pending"`
	ITCExcessClaimed  decimal.Decimal `json:"itc_excess_claimed"`
	ITCBlocked        decimal.Decimal `json:"itc_blocked"`
	ReversedTotal     decimal.Decimal `json:"reversed_total"`
	InterestAccrued   decimal.Decimal `json:"interest_accrued"`
}

// PeriodReport bundles everything the engine produces for one filing period.
type PeriodReport struct {
	Summary     ReconciliationSummary  `json:"summary"`
	Vendors     []VendorReconciliation `json:"vendors"`
	Matches     []ReconciliationMatch  `json:"matches"`
	Eligibility []ITCEligibilityResult `json:"eligibility"`
	Reversals   []ITCReversal          `json:"reversals"`
	Mismatches  MismatchReport         `json:"mismatch_report"`
}
