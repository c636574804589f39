package itc

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Riftal-Studios/TaxHive-sub007/internal/config"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/domain"
)

// reversalNamespace seeds deterministic reversal IDs for idempotent runs.
var reversalNamespace = uuid.MustParse("f3c1a7d9-2e48-4b06-9d1c-5a8e4b7f0c21")

// ReversalContext carries the reason-specific inputs for one reversal.
type ReversalContext struct {
	AsOf        time.Time
	InvoiceDate time.Time

	LossPct        decimal.Decimal
	PersonalUsePct decimal.Decimal
	CreditNoteTax  decimal.Decimal

	OriginalExemptPct decimal.Decimal
	NewExemptPct      decimal.Decimal

	AssetLifeYears int
	DisposalYear   int
}

// Calculator computes ITC reversals. Every reversal is an additive ledger
// event; the original eligibility result is never edited.
type Calculator struct {
	annualRatePct    decimal.Decimal
	paymentWindow    int
	capitalLifeYears int
}

// NewCalculator builds a calculator from the statutory configuration.
func NewCalculator(cfg config.EligibilityConfig) *Calculator {
	c := &Calculator{
		annualRatePct:    decimal.NewFromFloat(cfg.InterestRatePct),
		paymentWindow:    cfg.PaymentWindowDays,
		capitalLifeYears: cfg.CapitalGoodsLifeYears,
	}
	if c.paymentWindow <= 0 {
		c.paymentWindow = 180
	}
	if c.capitalLifeYears <= 0 {
		c.capitalLifeYears = 5
	}
	return c
}

// Reverse computes the reversal for one claim under the given reason.
func (c *Calculator) Reverse(claim domain.ITCEligibilityResult, reason domain.ReversalReason, rctx ReversalContext) (domain.ITCReversal, error) {
	rev := domain.ITCReversal{
		ID:         uuid.NewSHA1(reversalNamespace, []byte(claim.PurchaseID.String()+"|"+string(reason))),
		PurchaseID: claim.PurchaseID,
		Reason:     reason,
	}

	switch reason {
	case domain.ReversalNonPayment180:
		rev.ReversedAmount = claim.EligibleAmount
		overdue := daysSince(rctx.InvoiceDate, rctx.AsOf) - c.paymentWindow
		if overdue < 0 {
			overdue = 0
		}
		// Simple interest at the statutory annual rate, pro-rated daily for the
		// days beyond the payment window.
		rev.Interest = claim.EligibleAmount.
			Mul(c.annualRatePct).Div(hundred).
			Mul(decimal.NewFromInt(int64(overdue))).Div(decimal.NewFromInt(365)).
			Round(2)
		rev.Note = fmt.Sprintf("supplier unpaid %d days past the %d-day window", overdue, c.paymentWindow)

	case domain.ReversalGoodsLost:
		rev.ReversedAmount = claim.EligibleAmount.Mul(rctx.LossPct).Div(hundred).Round(2)
		rev.Note = fmt.Sprintf("%s%% of goods lost or destroyed", rctx.LossPct.String())

	case domain.ReversalPersonalUse:
		rev.ReversedAmount = claim.EligibleAmount.Mul(rctx.PersonalUsePct).Div(hundred).Round(2)
		rev.Note = fmt.Sprintf("usage changed to %s%% personal", rctx.PersonalUsePct.String())

	case domain.ReversalCreditNote:
		rev.ReversedAmount = rctx.CreditNoteTax
		rev.Note = "tax component of credit note received"

	case domain.ReversalExemptIncrease:
		delta := rctx.NewExemptPct.Sub(rctx.OriginalExemptPct)
		if delta.LessThanOrEqual(decimal.Zero) {
			return domain.ITCReversal{}, domain.ErrNothingToReverse
		}
		rev.ReversedAmount = claim.EligibleAmount.Mul(delta).Div(hundred).Round(2)
		rev.Note = fmt.Sprintf("exempt-supply ratio increased from %s%% to %s%%", rctx.OriginalExemptPct.String(), rctx.NewExemptPct.String())

	case domain.ReversalCapitalDisposal:
		life := rctx.AssetLifeYears
		if life <= 0 {
			life = c.capitalLifeYears
		}
		if rctx.DisposalYear <= 0 || rctx.DisposalYear > life {
			return domain.ITCReversal{}, domain.ErrNothingToReverse
		}
		remaining := decimal.NewFromInt(int64(life - rctx.DisposalYear))
		// The remaining-life fraction applies to the asset's full original GST.
		base := claim.EligibleAmount.Add(claim.BlockedAmount)
		rev.ReversedAmount = base.Mul(remaining).Div(decimal.NewFromInt(int64(life))).Round(2)
		rev.Note = fmt.Sprintf("disposed in year %d of a %d-year life", rctx.DisposalYear, life)

	default:
		return domain.ITCReversal{}, fmt.Errorf("%w: %s", domain.ErrUnknownReason, reason)
	}

	return rev, nil
}

// PaymentWindowDays exposes the configured non-payment window.
func (c *Calculator) PaymentWindowDays() int { return c.paymentWindow }

func daysSince(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
