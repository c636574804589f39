package gstr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Riftal-Studios/TaxHive-sub007/internal/domain"
)

var periodPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])\d{4}$`)

// returnDateLayout is the authority's day-month-year textual date format.
const returnDateLayout = "02-01-2006"

// entryNamespace seeds deterministic entry IDs so that re-normalizing the same
// document yields the same entries.
var entryNamespace = uuid.MustParse("6b1d5a52-9c3f-4e0b-a6d4-0f2b7c9e1a33")

// ParseReturnDate parses the authority's dd-mm-yyyy date text. A value that
// does not resolve to a real calendar date is an error, never clamped.
func ParseReturnDate(s string) (time.Time, error) {
	t, err := time.Parse(returnDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable return date %q: %w", s, err)
	}
	return t, nil
}

// Normalize validates the document structure and produces one ReturnEntry per
// invoice, note, and import line. The first row-level failure aborts the run;
// use ValidateOnly for a complete error report.
func Normalize(doc *ReturnDocument) ([]domain.ReturnEntry, error) {
	if err := checkStructure(doc); err != nil {
		return nil, err
	}
	entries, rowErrs := walk(doc, true)
	if len(rowErrs) > 0 {
		return nil, &rowErrs[0]
	}
	return entries, nil
}

// ValidateOnly walks every row of the document collecting all row-level errors
// instead of failing on the first, so a caller can present a complete report in
// one round trip. Structural failures are still returned alone: downstream
// components assume a normalized shape.
func ValidateOnly(doc *ReturnDocument) []domain.ValidationError {
	if err := checkStructure(doc); err != nil {
		var se *domain.StructuralError
		if errors.As(err, &se) {
			return []domain.ValidationError{{Section: "document", Field: se.Field, Value: se.Value, Reason: se.Reason}}
		}
		return []domain.ValidationError{{Section: "document", Reason: err.Error()}}
	}
	_, rowErrs := walk(doc, false)
	return rowErrs
}

func checkStructure(doc *ReturnDocument) error {
	if doc == nil {
		return &domain.StructuralError{Field: "document", Reason: "document is nil"}
	}
	if !ValidGSTIN(doc.RecipientGSTIN) {
		return &domain.StructuralError{Field: "gstin", Value: doc.RecipientGSTIN, Reason: "not a valid GSTIN", Err: domain.ErrInvalidGSTIN}
	}
	if !periodPattern.MatchString(doc.ReturnPeriod) {
		return &domain.StructuralError{Field: "ret_period", Value: doc.ReturnPeriod, Reason: "period must be MMYYYY", Err: domain.ErrInvalidPeriod}
	}
	for i, s := range doc.B2B {
		if s.SupplierGSTIN == "" {
			return &domain.StructuralError{Field: fmt.Sprintf("b2b[%d].ctin", i), Reason: "supplier GSTIN missing"}
		}
		if s.Invoices == nil {
			return &domain.StructuralError{Field: fmt.Sprintf("b2b[%d].inv", i), Value: s.SupplierGSTIN, Reason: "invoice collection missing"}
		}
	}
	for i, s := range doc.Notes {
		if s.SupplierGSTIN == "" {
			return &domain.StructuralError{Field: fmt.Sprintf("cdn[%d].ctin", i), Reason: "supplier GSTIN missing"}
		}
		if s.Notes == nil {
			return &domain.StructuralError{Field: fmt.Sprintf("cdn[%d].nt", i), Value: s.SupplierGSTIN, Reason: "note collection missing"}
		}
	}
	return nil
}

// walk produces entries and collects row errors. With failFast set it stops at
// the first error; otherwise it visits every row.
func walk(doc *ReturnDocument, failFast bool) ([]domain.ReturnEntry, []domain.ValidationError) {
	w := &walker{doc: doc, failFast: failFast}
	w.invoices("b2b", doc.B2B, domain.EntryKindOriginal)
	w.invoices("b2ba", doc.B2BAmendments, domain.EntryKindAmendment)
	w.notes("cdn", doc.Notes, false)
	w.notes("cdna", doc.NoteAmendments, true)
	w.imports("impg", "", "", doc.GoodsImports)
	for i, s := range doc.SEZImports {
		w.importsSEZ(fmt.Sprintf("impg_sez[%d]", i), s)
	}
	return w.entries, w.errs
}

type walker struct {
	doc      *ReturnDocument
	failFast bool
	entries  []domain.ReturnEntry
	errs     []domain.ValidationError
}

func (w *walker) stop() bool { return w.failFast && len(w.errs) > 0 }

func (w *walker) fail(section string, row int, field, value, reason string) {
	w.errs = append(w.errs, domain.ValidationError{Section: section, Row: row, Field: field, Value: value, Reason: reason})
}

func (w *walker) entryID(parts ...string) uuid.UUID {
	return uuid.NewSHA1(entryNamespace, []byte(strings.Join(parts, "|")))
}

func (w *walker) invoices(section string, groups []SupplierInvoices, kind domain.EntryKind) {
	for gi, g := range groups {
		if w.stop() {
			return
		}
		sec := fmt.Sprintf("%s[%d]", section, gi)
		if !ValidGSTIN(g.SupplierGSTIN) {
			w.fail(sec, 0, "ctin", g.SupplierGSTIN, "not a valid GSTIN")
			continue
		}
		for ri, inv := range g.Invoices {
			if w.stop() {
				return
			}
			if inv.Number == "" {
				w.fail(sec, ri, "inum", "", "invoice number missing")
				continue
			}
			dt, err := ParseReturnDate(inv.Date)
			if err != nil {
				w.fail(sec, ri, "idt", inv.Date, "not a real calendar date")
				continue
			}
			e := domain.ReturnEntry{
				ID:            w.entryID(string(kind), sec, fmt.Sprint(ri), g.SupplierGSTIN, inv.Number),
				SupplierGSTIN: g.SupplierGSTIN,
				SupplierName:  g.SupplierName,
				ReturnPeriod:  w.doc.ReturnPeriod,
				InvoiceNumber: inv.Number,
				InvoiceDate:   dt,
				InvoiceValue:  inv.Value,
				TaxableValue:  inv.TaxableValue,
				Tax:           domain.TaxAmounts{IGST: inv.IGST, CGST: inv.CGST, SGST: inv.SGST, Cess: inv.Cess},
				ITCAvailable:  parseITCFlag(inv.ITCAvailable),
				ITCReason:     inv.Reason,
				Kind:          kind,
			}
			if kind == domain.EntryKindAmendment && inv.OriginalNumber != "" {
				e.OriginalInvoiceNumber = inv.OriginalNumber
				if inv.OriginalDate != "" {
					odt, oerr := ParseReturnDate(inv.OriginalDate)
					if oerr != nil {
						w.fail(sec, ri, "oidt", inv.OriginalDate, "not a real calendar date")
						continue
					}
					e.OriginalInvoiceDate = &odt
				}
			}
			w.entries = append(w.entries, e)
		}
	}
}

func (w *walker) notes(section string, groups []SupplierNotes, amended bool) {
	for gi, g := range groups {
		if w.stop() {
			return
		}
		sec := fmt.Sprintf("%s[%d]", section, gi)
		if !ValidGSTIN(g.SupplierGSTIN) {
			w.fail(sec, 0, "ctin", g.SupplierGSTIN, "not a valid GSTIN")
			continue
		}
		for ri, nt := range g.Notes {
			if w.stop() {
				return
			}
			if nt.Number == "" {
				w.fail(sec, ri, "nt_num", "", "note number missing")
				continue
			}
			kind, err := noteKind(nt.NoteType)
			if err != nil {
				w.fail(sec, ri, "ntty", nt.NoteType, "note type must be C or D")
				continue
			}
			dt, err := ParseReturnDate(nt.Date)
			if err != nil {
				w.fail(sec, ri, "nt_dt", nt.Date, "not a real calendar date")
				continue
			}
			e := domain.ReturnEntry{
				ID:            w.entryID(string(kind), sec, fmt.Sprint(ri), g.SupplierGSTIN, nt.Number),
				SupplierGSTIN: g.SupplierGSTIN,
				SupplierName:  g.SupplierName,
				ReturnPeriod:  w.doc.ReturnPeriod,
				InvoiceNumber: nt.Number,
				InvoiceDate:   dt,
				InvoiceValue:  nt.Value,
				TaxableValue:  nt.TaxableValue,
				Tax:           domain.TaxAmounts{IGST: nt.IGST, CGST: nt.CGST, SGST: nt.SGST, Cess: nt.Cess},
				ITCAvailable:  parseITCFlag(nt.ITCAvailable),
				ITCReason:     nt.Reason,
				Kind:          kind,
			}
			if amended && nt.OriginalNumber != "" {
				e.OriginalInvoiceNumber = nt.OriginalNumber
				if nt.OriginalDate != "" {
					odt, oerr := ParseReturnDate(nt.OriginalDate)
					if oerr != nil {
						w.fail(sec, ri, "ont_dt", nt.OriginalDate, "not a real calendar date")
						continue
					}
					e.OriginalInvoiceDate = &odt
				}
			}
			w.entries = append(w.entries, e)
		}
	}
}

func (w *walker) imports(section, gstin, name string, lines []ImportLine) {
	kind := domain.EntryKindGoodsImport
	if gstin != "" {
		kind = domain.EntryKindSEZImport
	}
	for ri, imp := range lines {
		if w.stop() {
			return
		}
		if imp.BillOfEntryNumber == "" {
			w.fail(section, ri, "boe_num", "", "bill of entry number missing")
			continue
		}
		dt, err := ParseReturnDate(imp.BillOfEntryDate)
		if err != nil {
			w.fail(section, ri, "boe_dt", imp.BillOfEntryDate, "not a real calendar date")
			continue
		}
		tax := domain.TaxAmounts{IGST: imp.IGST, Cess: imp.Cess}
		w.entries = append(w.entries, domain.ReturnEntry{
			ID:                w.entryID(string(kind), section, fmt.Sprint(ri), gstin, imp.BillOfEntryNumber),
			SupplierGSTIN:     gstin,
			SupplierName:      name,
			ReturnPeriod:      w.doc.ReturnPeriod,
			InvoiceNumber:     imp.BillOfEntryNumber,
			InvoiceDate:       dt,
			InvoiceValue:      imp.TaxableValue.Add(tax.Total()),
			TaxableValue:      imp.TaxableValue,
			Tax:               tax,
			ITCAvailable:      parseITCFlag(imp.ITCAvailable),
			Kind:              kind,
			BillOfEntryNumber: imp.BillOfEntryNumber,
			PortCode:          imp.PortCode,
		})
	}
}

func (w *walker) importsSEZ(section string, g SupplierImports) {
	if !ValidGSTIN(g.SupplierGSTIN) {
		w.fail(section, 0, "ctin", g.SupplierGSTIN, "not a valid GSTIN")
		return
	}
	w.imports(section, g.SupplierGSTIN, g.SupplierName, g.Imports)
}

func noteKind(ntty string) (domain.EntryKind, error) {
	switch strings.ToUpper(ntty) {
	case "C":
		return domain.EntryKindCreditNote, nil
	case "D":
		return domain.EntryKindDebitNote, nil
	}
	return "", fmt.Errorf("unknown note type %q", ntty)
}

func parseITCFlag(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "Y")
}
