package itc

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Riftal-Studios/TaxHive-sub007/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Evaluator determines the eligible/blocked ITC split for a purchase under the
// statutory rules. It is pure: "today" is always an explicit parameter.
type Evaluator struct {
	hints *HSNCategoryHints
}

// NewEvaluator builds an evaluator with the default HSN category hints.
func NewEvaluator() *Evaluator {
	return &Evaluator{hints: DefaultHSNCategoryHints()}
}

// Evaluate computes the eligibility result for one purchase as of the given
// date. EligibleAmount + BlockedAmount always equals the purchase's total GST.
func (ev *Evaluator) Evaluate(rec *domain.PurchaseRecord, asOf time.Time) domain.ITCEligibilityResult {
	total := rec.Tax.Total()
	res := domain.ITCEligibilityResult{
		PurchaseID: rec.ID,
		Conditions: domain.ClaimConditions{
			ValidInvoice:      rec.Compliance.HasValidInvoice,
			GoodsReceived:     rec.Compliance.GoodsReceived,
			TaxPaidBySupplier: rec.Compliance.SupplierTaxPaid,
			ReturnFiled:       rec.Compliance.ReturnFiled,
		},
		WindowLapsed: claimWindowLapsed(rec.InvoiceDate, rec.Compliance.AnnualReturnDate, asOf),
	}

	usage := rec.Usage
	if usage.Category == "" {
		if cat, ok := ev.hints.HintForRecord(rec); ok {
			usage.Category = cat
		} else {
			usage.Category = domain.CategoryGeneral
		}
	}

	// Category exclusions come first: a blocked category never yields credit,
	// whatever the usage split.
	if blocked, citation := blockedByCategory(&usage); blocked {
		return blockAll(res, total, usage.Category, citation)
	}

	// Import gates.
	if usage.GoodsImport && (!usage.CustomsDutyPaid || usage.BillOfEntryRef == "") {
		return blockAll(res, total, "", "customs integrated tax not paid against a bill of entry")
	}
	if usage.ServiceImport && (!usage.RCMSelfAssessed || !usage.RCMTaxPaid) {
		return blockAll(res, total, "", "imported service tax not self-assessed and paid under reverse charge")
	}

	// Procedural gates apply regardless of category outcome.
	if !res.Conditions.Met() {
		return blockAll(res, total, "", "procedural conditions not satisfied: invoice, receipt, supplier payment and return filing must all hold")
	}
	if res.WindowLapsed {
		return blockAll(res, total, "", fmt.Sprintf("claim window lapsed: %s",
			DescribeWindow(rec.InvoiceDate, rec.Compliance.AnnualReturnDate)))
	}

	// Mixed-use apportionment. An unset business-use percentage means fully
	// business use.
	businessUse := usage.BusinessUsePct
	if businessUse.IsZero() {
		businessUse = hundred
	}
	exempt := usage.ExemptSupplyPct

	eligible := total.Mul(businessUse).Div(hundred).Mul(hundred.Sub(exempt)).Div(hundred).Round(2)
	res.EligibleAmount = eligible
	res.BlockedAmount = total.Sub(eligible)

	if businessUse.LessThan(hundred) {
		res.ReductionFactors = append(res.ReductionFactors, "business_use")
	}
	if exempt.GreaterThan(decimal.Zero) {
		res.ReductionFactors = append(res.ReductionFactors, "exempt_supply")
	}
	if len(res.ReductionFactors) > 0 {
		res.Partial = true
		res.PartialAmount = eligible
	}
	return res
}

func blockAll(res domain.ITCEligibilityResult, total decimal.Decimal, cat domain.ItemCategory, reason string) domain.ITCEligibilityResult {
	res.EligibleAmount = decimal.Zero
	res.BlockedAmount = total
	res.BlockedCategory = cat
	res.BlockedReason = reason
	return res
}

// claimDeadline is the due date of the September return of the fiscal year
// following the invoice's fiscal year, or the annual-return filing date if
// that came first.
func claimDeadline(invoiceDate time.Time, annualReturnDate *time.Time) time.Time {
	fyEndYear := invoiceDate.Year()
	if invoiceDate.Month() >= time.April {
		fyEndYear++
	}
	// The September return of the following fiscal year is due 20 October.
	deadline := time.Date(fyEndYear, time.October, 20, 0, 0, 0, 0, time.UTC)
	if annualReturnDate != nil && annualReturnDate.Before(deadline) {
		deadline = *annualReturnDate
	}
	return deadline
}

func claimWindowLapsed(invoiceDate time.Time, annualReturnDate *time.Time, asOf time.Time) bool {
	return asOf.After(claimDeadline(invoiceDate, annualReturnDate))
}

// DescribeWindow renders the effective claim deadline for an invoice date, for
// blocked reasons and report annotations.
func DescribeWindow(invoiceDate time.Time, annualReturnDate *time.Time) string {
	return fmt.Sprintf("claim by %s", claimDeadline(invoiceDate, annualReturnDate).Format("02-01-2006"))
}
