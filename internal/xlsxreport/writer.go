package xlsxreport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Riftal-Studios/TaxHive-sub007/internal/domain"
)

const (
	sheetSummary    = "Summary"
	sheetVendors    = "Vendors"
	sheetMismatches = "Mismatches"
)

var vendorColumns = []interface{}{
	"Vendor GSTIN", "Vendor Name", "Return Entries", "Purchase Records",
	"Matched", "Mismatched", "Missing In Books", "Missing In Return",
	"Matched ITC", "Missing ITC", "Status",
}

var mismatchColumns = []interface{}{
	"Kind", "Vendor GSTIN", "Invoice Number", "Amount Diff", "Pct Diff", "Date Gap (days)", "Detail",
}

// Write renders a period report as a three-sheet workbook.
func Write(report *domain.PeriodReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("renaming summary sheet: %w", err)
	}
	if err := writeSummary(f, &report.Summary); err != nil {
		return nil, err
	}
	if err := writeVendors(f, report.Vendors); err != nil {
		return nil, err
	}
	if err := writeMismatches(f, &report.Mismatches); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteTo renders the workbook and streams it to w.
func WriteTo(report *domain.PeriodReport, w io.Writer) error {
	f, err := Write(report)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, s *domain.ReconciliationSummary) error {
	rows := [][]interface{}{
		{"Period", s.Period},
		{"Return Entries", s.ReturnEntryCount},
		{"Purchase Records", s.PurchaseCount},
		{"Exact Matches", s.ExactMatches},
		{"Partial Matches", s.PartialMatches},
		{"Fuzzy Matches", s.FuzzyMatches},
		{"Unmatched Entries", s.UnmatchedEntries},
		{"Unmatched Records", s.UnmatchedRecords},
		{"ITC Available", s.ITCAvailable.StringFixed(2)},
		{"ITC Claimed", s.ITCClaimed.StringFixed(2)},
		{"ITC Pending", s.ITCPending.StringFixed(2)},
		{"ITC Excess Claimed", s.ITCExcessClaimed.StringFixed(2)},
		{"ITC Blocked", s.ITCBlocked.StringFixed(2)},
		{"Reversed Total", s.ReversedTotal.StringFixed(2)},
		{"Interest Accrued", s.InterestAccrued.StringFixed(2)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return fmt.Errorf("writing summary row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeVendors(f *excelize.File, vendors []domain.VendorReconciliation) error {
	if _, err := f.NewSheet(sheetVendors); err != nil {
		return fmt.Errorf("creating vendors sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetVendors, "A1", &vendorColumns); err != nil {
		return err
	}
	for i, v := range vendors {
		row := []interface{}{
			v.VendorGSTIN, v.VendorName, v.EntryCount, v.RecordCount,
			v.MatchedCount, v.MismatchedCount, v.MissingInBooks, v.MissingInReturn,
			v.MatchedITC.StringFixed(2), v.MissingITC.StringFixed(2), string(v.Status),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetVendors, cell, &row); err != nil {
			return fmt.Errorf("writing vendor row %d: %w", i+2, err)
		}
	}
	return nil
}

func writeMismatches(f *excelize.File, report *domain.MismatchReport) error {
	if _, err := f.NewSheet(sheetMismatches); err != nil {
		return fmt.Errorf("creating mismatches sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetMismatches, "A1", &mismatchColumns); err != nil {
		return err
	}
	rowNum := 2
	for _, m := range report.Mismatches {
		row := []interface{}{
			string(m.Kind), m.VendorGSTIN, m.InvoiceNumber,
			m.AmountDiff.StringFixed(2), m.PctDiff.String(), m.DateGapDays, m.Detail,
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetMismatches, cell, &row); err != nil {
			return fmt.Errorf("writing mismatch row %d: %w", rowNum, err)
		}
		rowNum++
	}
	for _, d := range report.Duplicates {
		row := []interface{}{
			string(domain.MismatchDuplicate), d.VendorGSTIN, d.InvoiceNumber,
			d.CombinedValue.StringFixed(2), "", 0,
			fmt.Sprintf("appears %d times on %s", d.Count, d.InvoiceDate.Format("2006-01-02")),
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetMismatches, cell, &row); err != nil {
			return fmt.Errorf("writing duplicate row %d: %w", rowNum, err)
		}
		rowNum++
	}
	return nil
}
