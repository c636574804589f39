package domain

// EntryKind identifies the section of the authority return an entry came from.
type EntryKind string

const (
	EntryKindOriginal    EntryKind = "original"
	EntryKindAmendment   EntryKind = "amendment"
	EntryKindCreditNote  EntryKind = "credit_note"
	EntryKindDebitNote   EntryKind = "debit_note"
	EntryKindGoodsImport EntryKind = "goods_import"
	EntryKindSEZImport   EntryKind = "sez_import"
)

// MatchType classifies the outcome of matching one return entry against purchase records.
type MatchType string

const (
	MatchExact   MatchType = "EXACT"
	MatchPartial MatchType = "PARTIAL"
	MatchFuzzy   MatchType = "FUZZY"
	MatchNone    MatchType = "NO_MATCH"
)

// MismatchSeverity grades a field-level mismatch.
type MismatchSeverity string

const (
	MismatchSeverityError   MismatchSeverity = "error"
	MismatchSeverityWarning MismatchSeverity = "warning"
)

// MismatchKind categorizes a reconciliation discrepancy.
type MismatchKind string

const (
	MismatchMissingInBooks  MismatchKind = "MISSING_IN_BOOKS"
	MismatchMissingInReturn MismatchKind = "MISSING_IN_RETURN"
	MismatchAmount          MismatchKind = "AMOUNT_MISMATCH"
	MismatchDate            MismatchKind = "DATE_MISMATCH"
	MismatchTax             MismatchKind = "TAX_MISMATCH"
	MismatchDuplicate       MismatchKind = "DUPLICATE_ENTRY"
)

// VendorStatus summarizes the reconciliation state of a single vendor for a period.
type VendorStatus string

const (
	VendorReconciled          VendorStatus = "RECONCILED"
	VendorPartiallyReconciled VendorStatus = "PARTIALLY_RECONCILED"
	VendorPending             VendorStatus = "PENDING"
	VendorDiscrepancies       VendorStatus = "DISCREPANCIES"
)

// ItemCategory is the statutory expense category of a purchase, used for
// Section 17(5) blocked-credit dispatch. Every declared category must have an
// explicit eligibility outcome; there is no default-allowed fallthrough.
type ItemCategory string

const (
	CategoryGeneral         ItemCategory = "general"
	CategoryMotorVehicle    ItemCategory = "motor_vehicle"
	CategoryFoodAndBeverage ItemCategory = "food_and_beverage"
	CategoryClubMembership  ItemCategory = "club_membership"
	CategoryLifeHealthIns   ItemCategory = "life_health_insurance"
	CategoryPropertyIns     ItemCategory = "property_insurance"
	CategoryWorksContract   ItemCategory = "works_contract"
	CategoryPersonalConsume ItemCategory = "personal_consumption"
)

// AllItemCategories lists every declared category; the eligibility rule table is
// tested for exhaustive coverage against this list.
var AllItemCategories = []ItemCategory{
	CategoryGeneral,
	CategoryMotorVehicle,
	CategoryFoodAndBeverage,
	CategoryClubMembership,
	CategoryLifeHealthIns,
	CategoryPropertyIns,
	CategoryWorksContract,
	CategoryPersonalConsume,
}

// ReversalReason identifies why previously claimed ITC must be reversed.
type ReversalReason string

const (
	ReversalNonPayment180   ReversalReason = "NON_PAYMENT_180_DAYS"
	ReversalGoodsLost       ReversalReason = "GOODS_LOST_DESTROYED"
	ReversalPersonalUse     ReversalReason = "CHANGE_TO_PERSONAL_USE"
	ReversalCreditNote      ReversalReason = "CREDIT_NOTE_RECEIVED"
	ReversalExemptIncrease  ReversalReason = "EXEMPT_RATIO_INCREASE"
	ReversalCapitalDisposal ReversalReason = "CAPITAL_GOODS_DISPOSAL"
)
