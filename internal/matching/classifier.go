package matching

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Riftal-Studios/TaxHive-sub007/internal/domain"
)

// Classify derives the discrepancy report from a completed matching run plus
// the raw entry and record sets. It performs no scoring of its own.
func Classify(matches []domain.ReconciliationMatch, entries []domain.ReturnEntry, purchases []domain.PurchaseRecord, opts Options) domain.MismatchReport {
	entryByID := make(map[uuid.UUID]*domain.ReturnEntry, len(entries))
	for i := range entries {
		entryByID[entries[i].ID] = &entries[i]
	}
	purchaseByID := make(map[uuid.UUID]*domain.PurchaseRecord, len(purchases))
	for i := range purchases {
		purchaseByID[purchases[i].ID] = &purchases[i]
	}

	matchedEntries := make(map[uuid.UUID]bool, len(matches))
	matchedPurchases := make(map[uuid.UUID]bool, len(matches))

	var report domain.MismatchReport

	// Paired discrepancies beyond tolerance.
	for _, m := range matches {
		if m.Type == domain.MatchNone {
			continue
		}
		matchedEntries[m.ReturnEntryID] = true
		matchedPurchases[m.PurchaseID] = true

		entry := entryByID[m.ReturnEntryID]
		rec := purchaseByID[m.PurchaseID]
		if entry == nil || rec == nil {
			continue
		}

		if diff := entry.InvoiceValue.Sub(rec.InvoiceValue).Abs(); !diff.IsZero() {
			if pct := pctDiff(entry.InvoiceValue, rec.InvoiceValue); pct > opts.AmountTolerancePct {
				report.Mismatches = append(report.Mismatches, domain.Mismatch{
					Kind:          domain.MismatchAmount,
					VendorGSTIN:   entry.SupplierGSTIN,
					InvoiceNumber: entry.InvoiceNumber,
					ReturnEntryID: entry.ID,
					PurchaseID:    rec.ID,
					AmountDiff:    diff,
					PctDiff:       decimal.NewFromFloat(pct).Round(4),
					Detail: fmt.Sprintf("invoice value differs by %s (%.2f%%): return %s vs books %s",
						diff.StringFixed(2), pct, entry.InvoiceValue.StringFixed(2), rec.InvoiceValue.StringFixed(2)),
				})
			}
		}

		if gap := daysBetween(entry.InvoiceDate, rec.InvoiceDate); gap > opts.DateToleranceDays {
			report.Mismatches = append(report.Mismatches, domain.Mismatch{
				Kind:          domain.MismatchDate,
				VendorGSTIN:   entry.SupplierGSTIN,
				InvoiceNumber: entry.InvoiceNumber,
				ReturnEntryID: entry.ID,
				PurchaseID:    rec.ID,
				DateGapDays:   gap,
				Detail: fmt.Sprintf("invoice date differs by %d days: return %s vs books %s",
					gap, entry.InvoiceDate.Format("2006-01-02"), rec.InvoiceDate.Format("2006-01-02")),
			})
		}

		if taxDiff := entry.Tax.Total().Sub(rec.Tax.Total()).Abs(); !taxDiff.IsZero() {
			if pct := pctDiff(entry.Tax.Total(), rec.Tax.Total()); pct > opts.AmountTolerancePct {
				report.Mismatches = append(report.Mismatches, domain.Mismatch{
					Kind:          domain.MismatchTax,
					VendorGSTIN:   entry.SupplierGSTIN,
					InvoiceNumber: entry.InvoiceNumber,
					ReturnEntryID: entry.ID,
					PurchaseID:    rec.ID,
					AmountDiff:    taxDiff,
					PctDiff:       decimal.NewFromFloat(pct).Round(4),
					Detail: fmt.Sprintf("tax total differs by %s: return %s vs books %s",
						taxDiff.StringFixed(2), entry.Tax.Total().StringFixed(2), rec.Tax.Total().StringFixed(2)),
				})
			}
		}
	}

	// Entries with no purchase record behind them.
	for i := range entries {
		e := &entries[i]
		if matchedEntries[e.ID] {
			continue
		}
		report.Mismatches = append(report.Mismatches, domain.Mismatch{
			Kind:          domain.MismatchMissingInBooks,
			VendorGSTIN:   e.SupplierGSTIN,
			InvoiceNumber: e.InvoiceNumber,
			ReturnEntryID: e.ID,
			AmountDiff:    e.Tax.Total(),
			Detail:        fmt.Sprintf("invoice %s reported by supplier but not found in purchase books", e.InvoiceNumber),
		})
	}

	// Purchase records the supplier never reported.
	for i := range purchases {
		p := &purchases[i]
		if matchedPurchases[p.ID] {
			continue
		}
		report.Mismatches = append(report.Mismatches, domain.Mismatch{
			Kind:          domain.MismatchMissingInReturn,
			VendorGSTIN:   p.VendorGSTIN,
			InvoiceNumber: p.InvoiceNumber,
			PurchaseID:    p.ID,
			AmountDiff:    p.Tax.Total(),
			Detail:        fmt.Sprintf("invoice %s recorded in books but absent from the supplier's return", p.InvoiceNumber),
		})
	}

	report.Duplicates = findDuplicates(entries)
	report.ByVendor = vendorStats(report)
	return report
}

// findDuplicates groups return entries appearing more than once for the same
// vendor + invoice number + invoice date within one return document.
func findDuplicates(entries []domain.ReturnEntry) []domain.DuplicateGroup {
	type key struct {
		gstin, number, date string
	}
	groups := make(map[key][]*domain.ReturnEntry)
	var order []key
	for i := range entries {
		e := &entries[i]
		k := key{e.SupplierGSTIN, e.InvoiceNumber, e.InvoiceDate.Format("2006-01-02")}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], e)
	}

	var out []domain.DuplicateGroup
	for _, k := range order {
		g := groups[k]
		if len(g) < 2 {
			continue
		}
		dup := domain.DuplicateGroup{
			VendorGSTIN:   k.gstin,
			InvoiceNumber: k.number,
			InvoiceDate:   g[0].InvoiceDate,
			Count:         len(g),
		}
		for _, e := range g {
			dup.CombinedValue = dup.CombinedValue.Add(e.InvoiceValue)
			dup.EntryIDs = append(dup.EntryIDs, e.ID)
		}
		out = append(out, dup)
	}
	return out
}

func vendorStats(report domain.MismatchReport) []domain.VendorMismatchStats {
	byVendor := make(map[string]*domain.VendorMismatchStats)
	var order []string
	add := func(gstin string, impact decimal.Decimal) {
		s, ok := byVendor[gstin]
		if !ok {
			s = &domain.VendorMismatchStats{VendorGSTIN: gstin}
			byVendor[gstin] = s
			order = append(order, gstin)
		}
		s.Count++
		s.MonetaryImpact = s.MonetaryImpact.Add(impact)
	}

	for _, m := range report.Mismatches {
		add(m.VendorGSTIN, m.AmountDiff)
	}
	for _, d := range report.Duplicates {
		// Excess value beyond a single occurrence.
		excess := d.CombinedValue.Sub(d.CombinedValue.Div(decimal.NewFromInt(int64(d.Count))))
		add(d.VendorGSTIN, excess)
	}

	sort.Strings(order)
	out := make([]domain.VendorMismatchStats, 0, len(order))
	for _, g := range order {
		out = append(out, *byVendor[g])
	}
	return out
}
