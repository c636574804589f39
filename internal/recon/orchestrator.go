package recon

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Riftal-Studios/TaxHive-sub007/internal/config"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/domain"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/gstr"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/itc"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/matching"
)

// ReversalEvent is a caller-reported reversal trigger for one purchase.
type ReversalEvent struct {
	PurchaseID uuid.UUID             `json:"purchase_id"`
	Reason     domain.ReversalReason `json:"reason"`
	Context    itc.ReversalContext   `json:"context"`
}

// Input is everything one reconciliation run consumes. Either a raw return
// document or pre-normalized entries may be supplied.
type Input struct {
	Period    string
	Document  *gstr.ReturnDocument
	Entries   []domain.ReturnEntry
	Purchases []domain.PurchaseRecord
	AsOf      time.Time
	Events    []ReversalEvent
}

// Reconciler composes the normalizer, matcher, classifier, eligibility
// evaluator and reversal calculator into per-period reports. It holds no
// mutable state; re-running with the same inputs yields the same report.
type Reconciler struct {
	opts       matching.Options
	engine     *matching.Engine
	evaluator  *itc.Evaluator
	calculator *itc.Calculator
}

// New builds a reconciler from loaded configuration.
func New(cfg *config.Config) *Reconciler {
	opts := matching.OptionsFromConfig(cfg.Matching)
	return &Reconciler{
		opts:       opts,
		engine:     matching.NewEngine(opts),
		evaluator:  itc.NewEvaluator(),
		calculator: itc.NewCalculator(cfg.Eligibility),
	}
}

// Run executes one reconciliation over a filing period.
func (r *Reconciler) Run(in Input) (*domain.PeriodReport, error) {
	entries := in.Entries
	if in.Document != nil {
		normalized, err := gstr.Normalize(in.Document)
		if err != nil {
			return nil, fmt.Errorf("normalizing return document: %w", err)
		}
		entries = normalized
		if in.Period == "" {
			in.Period = in.Document.ReturnPeriod
		}
	}

	matches := r.engine.MatchAll(entries, in.Purchases)
	mismatches := matching.Classify(matches, entries, in.Purchases, r.opts)

	eligibility := make([]domain.ITCEligibilityResult, 0, len(in.Purchases))
	claimByID := make(map[uuid.UUID]domain.ITCEligibilityResult, len(in.Purchases))
	for i := range in.Purchases {
		res := r.evaluator.Evaluate(&in.Purchases[i], in.AsOf)
		eligibility = append(eligibility, res)
		claimByID[res.PurchaseID] = res
	}

	reversals, err := r.reversals(in, claimByID)
	if err != nil {
		return nil, err
	}

	report := &domain.PeriodReport{
		Matches:     matches,
		Eligibility: eligibility,
		Reversals:   reversals,
		Mismatches:  mismatches,
	}
	report.Vendors = r.vendorRollups(entries, in.Purchases, matches, mismatches)
	report.Summary = r.summary(in.Period, entries, in.Purchases, matches, mismatches, eligibility, reversals)

	log.Printf("recon.Reconciler: period %s reconciled: entries=%d purchases=%d matched=%d mismatches=%d reversals=%d",
		report.Summary.Period, len(entries), len(in.Purchases),
		report.Summary.ExactMatches+report.Summary.PartialMatches+report.Summary.FuzzyMatches,
		len(mismatches.Mismatches), len(reversals))
	return report, nil
}

// reversals combines the automatic 180-day non-payment check with
// caller-reported reversal events.
func (r *Reconciler) reversals(in Input, claims map[uuid.UUID]domain.ITCEligibilityResult) ([]domain.ITCReversal, error) {
	var out []domain.ITCReversal

	window := time.Duration(r.calculator.PaymentWindowDays()) * 24 * time.Hour
	for i := range in.Purchases {
		p := &in.Purchases[i]
		claim, ok := claims[p.ID]
		if !ok || !claim.EligibleAmount.IsPositive() {
			continue
		}
		paidInTime := p.Compliance.PaymentDate != nil && p.Compliance.PaymentDate.Sub(p.InvoiceDate) <= window
		if paidInTime || !in.AsOf.After(p.InvoiceDate.Add(window)) {
			continue
		}
		if p.Compliance.PaymentDate != nil {
			// Paid, but late: the credit was restored on payment and no longer
			// stands reversed as of the run date.
			continue
		}
		rev, err := r.calculator.Reverse(claim, domain.ReversalNonPayment180, itc.ReversalContext{
			AsOf:        in.AsOf,
			InvoiceDate: p.InvoiceDate,
		})
		if err != nil {
			return nil, fmt.Errorf("computing non-payment reversal for purchase %s: %w", p.ID, err)
		}
		out = append(out, rev)
	}

	for _, ev := range in.Events {
		claim, ok := claims[ev.PurchaseID]
		if !ok {
			return nil, fmt.Errorf("reversal event references unknown purchase %s", ev.PurchaseID)
		}
		rctx := ev.Context
		if rctx.AsOf.IsZero() {
			rctx.AsOf = in.AsOf
		}
		rev, err := r.calculator.Reverse(claim, ev.Reason, rctx)
		if err != nil {
			if errors.Is(err, domain.ErrNothingToReverse) {
				continue
			}
			return nil, fmt.Errorf("computing %s reversal for purchase %s: %w", ev.Reason, ev.PurchaseID, err)
		}
		out = append(out, rev)
	}

	return out, nil
}

func (r *Reconciler) vendorRollups(entries []domain.ReturnEntry, purchases []domain.PurchaseRecord, matches []domain.ReconciliationMatch, mismatches domain.MismatchReport) []domain.VendorReconciliation {
	vendors := make(map[string]*domain.VendorReconciliation)
	var order []string
	vendor := func(gstin, name string) *domain.VendorReconciliation {
		v, ok := vendors[gstin]
		if !ok {
			v = &domain.VendorReconciliation{VendorGSTIN: gstin, VendorName: name}
			vendors[gstin] = v
			order = append(order, gstin)
		}
		if v.VendorName == "" {
			v.VendorName = name
		}
		return v
	}

	entryByID := make(map[uuid.UUID]*domain.ReturnEntry, len(entries))
	for i := range entries {
		e := &entries[i]
		entryByID[e.ID] = e
		if e.SupplierGSTIN == "" {
			continue // customs imports carry no supplier GSTIN
		}
		vendor(e.SupplierGSTIN, e.SupplierName).EntryCount++
	}
	for i := range purchases {
		p := &purchases[i]
		vendor(p.VendorGSTIN, p.VendorName).RecordCount++
	}

	for _, m := range matches {
		if m.Type == domain.MatchNone {
			continue
		}
		e := entryByID[m.ReturnEntryID]
		if e == nil || e.SupplierGSTIN == "" {
			continue
		}
		v := vendor(e.SupplierGSTIN, e.SupplierName)
		v.MatchedCount++
		v.MatchedITC = v.MatchedITC.Add(e.Tax.Total())
	}

	dupVendors := make(map[string]bool)
	for _, d := range mismatches.Duplicates {
		dupVendors[d.VendorGSTIN] = true
	}

	for _, mm := range mismatches.Mismatches {
		if mm.VendorGSTIN == "" {
			continue
		}
		v := vendor(mm.VendorGSTIN, "")
		switch mm.Kind {
		case domain.MismatchMissingInBooks:
			v.MissingInBooks++
			v.MissingITC = v.MissingITC.Add(mm.AmountDiff)
			v.ActionItems = append(v.ActionItems, domain.ActionItem{
				Kind:          mm.Kind,
				VendorGSTIN:   mm.VendorGSTIN,
				InvoiceNumber: mm.InvoiceNumber,
				Description:   fmt.Sprintf("Record invoice %s from vendor %s: reported in the return but missing in purchase books", mm.InvoiceNumber, mm.VendorGSTIN),
			})
		case domain.MismatchMissingInReturn:
			v.MissingInReturn++
			v.ActionItems = append(v.ActionItems, domain.ActionItem{
				Kind:          mm.Kind,
				VendorGSTIN:   mm.VendorGSTIN,
				InvoiceNumber: mm.InvoiceNumber,
				Description:   fmt.Sprintf("Follow up with vendor %s for invoice %s: not reported in their return filing", mm.VendorGSTIN, mm.InvoiceNumber),
			})
		default:
			v.MismatchedCount++
			v.ActionItems = append(v.ActionItems, domain.ActionItem{
				Kind:          mm.Kind,
				VendorGSTIN:   mm.VendorGSTIN,
				InvoiceNumber: mm.InvoiceNumber,
				Description:   fmt.Sprintf("Verify invoice %s with vendor %s: %s", mm.InvoiceNumber, mm.VendorGSTIN, mm.Detail),
			})
		}
	}

	sort.Strings(order)
	out := make([]domain.VendorReconciliation, 0, len(order))
	for _, g := range order {
		v := vendors[g]
		v.Status = vendorStatus(v, dupVendors[g])
		out = append(out, *v)
	}
	return out
}

func vendorStatus(v *domain.VendorReconciliation, hasDuplicates bool) domain.VendorStatus {
	switch {
	case v.MismatchedCount > 0 || hasDuplicates:
		return domain.VendorDiscrepancies
	case v.MatchedCount == 0:
		return domain.VendorPending
	case v.MissingInBooks > 0 || v.MissingInReturn > 0:
		return domain.VendorPartiallyReconciled
	default:
		return domain.VendorReconciled
	}
}

func (r *Reconciler) summary(period string, entries []domain.ReturnEntry, purchases []domain.PurchaseRecord, matches []domain.ReconciliationMatch, mismatches domain.MismatchReport, eligibility []domain.ITCEligibilityResult, reversals []domain.ITCReversal) domain.ReconciliationSummary {
	s := domain.ReconciliationSummary{
		Period:           period,
		ReturnEntryCount: len(entries),
		PurchaseCount:    len(purchases),
	}

	matchedPurchases := 0
	for _, m := range matches {
		switch m.Type {
		case domain.MatchExact:
			s.ExactMatches++
			matchedPurchases++
		case domain.MatchPartial:
			s.PartialMatches++
			matchedPurchases++
		case domain.MatchFuzzy:
			s.FuzzyMatches++
			matchedPurchases++
		default:
			s.UnmatchedEntries++
		}
	}
	s.UnmatchedRecords = len(purchases) - matchedPurchases

	for i := range entries {
		e := &entries[i]
		if !e.ITCAvailable {
			continue
		}
		if e.Kind == domain.EntryKindCreditNote {
			s.ITCAvailable = s.ITCAvailable.Sub(e.Tax.Total())
		} else {
			s.ITCAvailable = s.ITCAvailable.Add(e.Tax.Total())
		}
	}

	for _, res := range eligibility {
		s.ITCClaimed = s.ITCClaimed.Add(res.EligibleAmount)
		s.ITCBlocked = s.ITCBlocked.Add(res.BlockedAmount)
	}

	unmatchedEligible := make(map[uuid.UUID]decimal.Decimal, len(eligibility))
	for _, res := range eligibility {
		unmatchedEligible[res.PurchaseID] = res.EligibleAmount
	}
	for _, mm := range mismatches.Mismatches {
		switch mm.Kind {
		case domain.MismatchMissingInBooks:
			s.ITCPending = s.ITCPending.Add(mm.AmountDiff)
		case domain.MismatchMissingInReturn:
			s.ITCExcessClaimed = s.ITCExcessClaimed.Add(unmatchedEligible[mm.PurchaseID])
		}
	}

	for _, rev := range reversals {
		s.ReversedTotal = s.ReversedTotal.Add(rev.ReversedAmount)
		s.InterestAccrued = s.InterestAccrued.Add(rev.Interest)
	}
	return s
}
