package matching

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Riftal-Studios/TaxHive-sub007/internal/config"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/domain"
)

// Options are the tunable matching parameters.
type Options struct {
	AmountTolerancePct  float64
	DateToleranceDays   int
	FuzzyThreshold      float64
	AutoAcceptExact     bool
	InvoiceNumberWeight float64
	DateWeight          float64
	AmountWeight        float64
}

// DefaultOptions returns the empirically chosen default parameters.
func DefaultOptions() Options {
	return Options{
		AmountTolerancePct:  1.0,
		DateToleranceDays:   7,
		FuzzyThreshold:      0.75,
		AutoAcceptExact:     true,
		InvoiceNumberWeight: 0.5,
		DateWeight:          0.25,
		AmountWeight:        0.25,
	}
}

// OptionsFromConfig maps loaded configuration onto matching options.
func OptionsFromConfig(cfg config.MatchingConfig) Options {
	return Options{
		AmountTolerancePct:  cfg.AmountTolerancePct,
		DateToleranceDays:   cfg.DateToleranceDays,
		FuzzyThreshold:      cfg.FuzzyThreshold,
		AutoAcceptExact:     cfg.AutoAcceptExact,
		InvoiceNumberWeight: cfg.InvoiceNumberWeight,
		DateWeight:          cfg.DateWeight,
		AmountWeight:        cfg.AmountWeight,
	}
}

// Engine matches return entries against purchase records. It is a pure
// computation: it holds no mutable state and persists nothing.
type Engine struct {
	opts    Options
	strSim  StringSimilarity
	dateSim DateProximity
	amtSim  AmountProximity
}

// NewEngine builds an engine with the default scoring strategies.
func NewEngine(opts Options) *Engine {
	if opts.InvoiceNumberWeight+opts.DateWeight+opts.AmountWeight <= 0 {
		def := DefaultOptions()
		opts.InvoiceNumberWeight = def.InvoiceNumberWeight
		opts.DateWeight = def.DateWeight
		opts.AmountWeight = def.AmountWeight
	}
	return &Engine{
		opts:    opts,
		strSim:  LevenshteinSimilarity{},
		dateSim: LinearDateDecay{ToleranceDays: opts.DateToleranceDays},
		amtSim:  PercentageAmountDecay{TolerancePct: opts.AmountTolerancePct},
	}
}

// NewEngineWithScorers builds an engine with caller-supplied scoring strategies.
func NewEngineWithScorers(opts Options, s StringSimilarity, d DateProximity, a AmountProximity) *Engine {
	e := NewEngine(opts)
	if s != nil {
		e.strSim = s
	}
	if d != nil {
		e.dateSim = d
	}
	if a != nil {
		e.amtSim = a
	}
	return e
}

type scored struct {
	record     *domain.PurchaseRecord
	score      float64
	mismatches []domain.FieldMismatch
	dateGap    int
}

// Match finds the best-matching purchase record for one return entry. Vendor
// GSTIN equality is a hard gate: candidates with a different GSTIN are excluded
// from scoring entirely, never matched fuzzily.
func (e *Engine) Match(entry *domain.ReturnEntry, candidates []*domain.PurchaseRecord) domain.ReconciliationMatch {
	var best *scored
	for _, cand := range candidates {
		if cand.VendorGSTIN != entry.SupplierGSTIN {
			continue
		}
		s := e.score(entry, cand)
		if best == nil || s.score > best.score ||
			(s.score == best.score && s.dateGap < best.dateGap) {
			best = s
		}
	}

	if best == nil {
		return domain.ReconciliationMatch{
			ReturnEntryID: entry.ID,
			Type:          domain.MatchNone,
		}
	}
	return e.classify(entry, best)
}

func (e *Engine) score(entry *domain.ReturnEntry, cand *domain.PurchaseRecord) *scored {
	s := &scored{record: cand, dateGap: daysBetween(entry.InvoiceDate, cand.InvoiceDate)}

	numScore := e.strSim.Score(entry.InvoiceNumber, cand.InvoiceNumber)
	dateScore := e.dateSim.Score(entry.InvoiceDate, cand.InvoiceDate)
	amtScore := e.amtSim.Score(entry.InvoiceValue, cand.InvoiceValue)

	weightSum := e.opts.InvoiceNumberWeight + e.opts.DateWeight + e.opts.AmountWeight
	s.score = (e.opts.InvoiceNumberWeight*numScore +
		e.opts.DateWeight*dateScore +
		e.opts.AmountWeight*amtScore) / weightSum

	s.mismatches = e.fieldMismatches(entry, cand)
	return s
}

// fieldMismatches records every field-level difference; tolerance decides the
// severity, not whether the difference is reported.
func (e *Engine) fieldMismatches(entry *domain.ReturnEntry, cand *domain.PurchaseRecord) []domain.FieldMismatch {
	var out []domain.FieldMismatch

	if entry.InvoiceNumber != cand.InvoiceNumber {
		out = append(out, domain.FieldMismatch{
			Field:       "invoice_number",
			ReturnValue: entry.InvoiceNumber,
			BookValue:   cand.InvoiceNumber,
			Tolerance:   "exact",
			Severity:    domain.MismatchSeverityError,
		})
	}

	if gap := daysBetween(entry.InvoiceDate, cand.InvoiceDate); gap > 0 {
		sev := domain.MismatchSeverityWarning
		if gap > e.opts.DateToleranceDays {
			sev = domain.MismatchSeverityError
		}
		out = append(out, domain.FieldMismatch{
			Field:       "invoice_date",
			ReturnValue: entry.InvoiceDate.Format("2006-01-02"),
			BookValue:   cand.InvoiceDate.Format("2006-01-02"),
			Tolerance:   fmt.Sprintf("%d days", e.opts.DateToleranceDays),
			Severity:    sev,
		})
	}

	if !entry.InvoiceValue.Equal(cand.InvoiceValue) {
		sev := domain.MismatchSeverityWarning
		if pctDiff(entry.InvoiceValue, cand.InvoiceValue) > e.opts.AmountTolerancePct {
			sev = domain.MismatchSeverityError
		}
		out = append(out, domain.FieldMismatch{
			Field:       "invoice_value",
			ReturnValue: entry.InvoiceValue.StringFixed(2),
			BookValue:   cand.InvoiceValue.StringFixed(2),
			Tolerance:   fmt.Sprintf("%.2f%%", e.opts.AmountTolerancePct),
			Severity:    sev,
		})
	}

	if !entry.Tax.Total().Equal(cand.Tax.Total()) {
		sev := domain.MismatchSeverityWarning
		if pctDiff(entry.Tax.Total(), cand.Tax.Total()) > e.opts.AmountTolerancePct {
			sev = domain.MismatchSeverityError
		}
		out = append(out, domain.FieldMismatch{
			Field:       "tax_total",
			ReturnValue: entry.Tax.Total().StringFixed(2),
			BookValue:   cand.Tax.Total().StringFixed(2),
			Tolerance:   fmt.Sprintf("%.2f%%", e.opts.AmountTolerancePct),
			Severity:    sev,
		})
	}

	return out
}

func (e *Engine) classify(entry *domain.ReturnEntry, best *scored) domain.ReconciliationMatch {
	m := domain.ReconciliationMatch{
		ReturnEntryID: entry.ID,
		Confidence:    best.score,
	}

	invoiceNumberMismatch := false
	for _, fm := range best.mismatches {
		if fm.Field == "invoice_number" {
			invoiceNumberMismatch = true
			break
		}
	}

	switch {
	case best.score >= 1.0 && len(best.mismatches) == 0:
		m.Type = domain.MatchExact
		m.AutoAccepted = e.opts.AutoAcceptExact
	case best.score >= e.opts.FuzzyThreshold && !invoiceNumberMismatch:
		m.Type = domain.MatchPartial
	case best.score >= e.opts.FuzzyThreshold && invoiceNumberMismatch:
		m.Type = domain.MatchFuzzy
	default:
		m.Type = domain.MatchNone
		return m
	}

	m.PurchaseID = best.record.ID
	m.Mismatches = best.mismatches
	return m
}

// MatchAll matches every entry against the purchase set, pre-partitioned by
// vendor GSTIN so scoring stays O(entries x candidates-per-vendor). All pairs
// are scored first, then assigned greedily by descending score, so a weaker
// earlier entry can never take a record away from a stronger later one. Each
// entry and each record is used in at most one match; ITC is never double
// counted.
func (e *Engine) MatchAll(entries []domain.ReturnEntry, purchases []domain.PurchaseRecord) []domain.ReconciliationMatch {
	byVendor := make(map[string][]int, len(purchases))
	for i := range purchases {
		g := purchases[i].VendorGSTIN
		byVendor[g] = append(byVendor[g], i)
	}

	type pair struct {
		entry   int
		record  int
		score   float64
		dateGap int
	}
	var pairs []pair
	for i := range entries {
		for _, idx := range byVendor[entries[i].SupplierGSTIN] {
			s := e.score(&entries[i], &purchases[idx])
			if s.score < e.opts.FuzzyThreshold {
				continue // can never classify as a match
			}
			pairs = append(pairs, pair{entry: i, record: idx, score: s.score, dateGap: s.dateGap})
		}
	}
	// Highest score first, nearest date on ties; the stable sort keeps input
	// order for full ties so runs stay deterministic.
	sort.SliceStable(pairs, func(a, b int) bool {
		if pairs[a].score != pairs[b].score {
			return pairs[a].score > pairs[b].score
		}
		return pairs[a].dateGap < pairs[b].dateGap
	})

	assigned := make(map[int]int, len(entries))
	usedRecords := make(map[int]bool, len(purchases))
	for _, p := range pairs {
		if _, ok := assigned[p.entry]; ok || usedRecords[p.record] {
			continue
		}
		assigned[p.entry] = p.record
		usedRecords[p.record] = true
	}

	out := make([]domain.ReconciliationMatch, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		if idx, ok := assigned[i]; ok {
			out = append(out, e.classify(entry, e.score(entry, &purchases[idx])))
			continue
		}
		// Unassigned entries still report their best remaining candidate's
		// confidence, without consuming the record.
		var candidates []*domain.PurchaseRecord
		for _, idx := range byVendor[entry.SupplierGSTIN] {
			if !usedRecords[idx] {
				candidates = append(candidates, &purchases[idx])
			}
		}
		out = append(out, e.Match(entry, candidates))
	}
	return out
}

func pctDiff(base, other decimal.Decimal) float64 {
	if base.IsZero() {
		if other.IsZero() {
			return 0
		}
		return 100
	}
	pct, _ := base.Sub(other).Abs().Div(base.Abs()).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}
