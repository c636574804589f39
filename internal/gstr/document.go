package gstr

import "github.com/shopspring/decimal"

// ReturnDocument is one authority return (GSTR-2A/2B shape) for one recipient
// and one filing period. Each entry kind has its own collection, nested under
// the supplier GSTIN that reported it.
type ReturnDocument struct {
	RecipientGSTIN string `json:"gstin"`
	ReturnPeriod   string `json:"ret_period"`

	B2B            []SupplierInvoices `json:"b2b"`
	B2BAmendments  []SupplierInvoices `json:"b2ba"`
	Notes          []SupplierNotes    `json:"cdn"`
	NoteAmendments []SupplierNotes    `json:"cdna"`
	GoodsImports   []ImportLine       `json:"impg"`
	SEZImports     []SupplierImports  `json:"impg_sez"`
}

// SupplierInvoices groups invoice lines under one supplier GSTIN.
type SupplierInvoices struct {
	SupplierGSTIN string        `json:"ctin"`
	SupplierName  string        `json:"trdnm,omitempty"`
	Invoices      []InvoiceLine `json:"inv"`
}

// InvoiceLine is one invoice row as the authority reports it. Dates are
// day-month-year text.
type InvoiceLine struct {
	Number       string          `json:"inum"`
	Date         string          `json:"idt"`
	Value        decimal.Decimal `json:"val"`
	TaxableValue decimal.Decimal `json:"txval"`
	IGST         decimal.Decimal `json:"igst"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	Cess         decimal.Decimal `json:"cess"`
	ITCAvailable string          `json:"itc_avl"`
	Reason       string          `json:"rsn,omitempty"`

	// Set on amendment rows only: the invoice being superseded.
	OriginalNumber string `json:"oinum,omitempty"`
	OriginalDate   string `json:"oidt,omitempty"`
}

// SupplierNotes groups credit/debit note lines under one supplier GSTIN.
type SupplierNotes struct {
	SupplierGSTIN string     `json:"ctin"`
	SupplierName  string     `json:"trdnm,omitempty"`
	Notes         []NoteLine `json:"nt"`
}

// NoteLine is one credit or debit note row. NoteType is "C" or "D".
type NoteLine struct {
	NoteType     string          `json:"ntty"`
	Number       string          `json:"nt_num"`
	Date         string          `json:"nt_dt"`
	Value        decimal.Decimal `json:"val"`
	TaxableValue decimal.Decimal `json:"txval"`
	IGST         decimal.Decimal `json:"igst"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	Cess         decimal.Decimal `json:"cess"`
	ITCAvailable string          `json:"itc_avl"`
	Reason       string          `json:"rsn,omitempty"`

	OriginalNumber string `json:"ont_num,omitempty"`
	OriginalDate   string `json:"ont_dt,omitempty"`
}

// SupplierImports groups SEZ import lines under the SEZ supplier GSTIN.
type SupplierImports struct {
	SupplierGSTIN string       `json:"ctin"`
	SupplierName  string       `json:"trdnm,omitempty"`
	Imports       []ImportLine `json:"imp"`
}

// ImportLine is one goods-import row keyed by bill of entry. Customs imports
// carry no supplier GSTIN.
type ImportLine struct {
	BillOfEntryNumber string          `json:"boe_num"`
	BillOfEntryDate   string          `json:"boe_dt"`
	PortCode          string          `json:"port_code,omitempty"`
	TaxableValue      decimal.Decimal `json:"txval"`
	IGST              decimal.Decimal `json:"igst"`
	Cess              decimal.Decimal `json:"cess"`
	ITCAvailable      string          `json:"itc_avl"`
}
