package recon_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riftal-Studios/TaxHive-sub007/internal/config"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/domain"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/gstr"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/itc"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/recon"
)

const (
	vendorA = "27AAPFU0939F1ZV"
	vendorB = "29AAGCB7383J1Z4"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testConfig() *config.Config {
	return &config.Config{
		Matching: config.MatchingConfig{
			AmountTolerancePct:  1.0,
			DateToleranceDays:   7,
			FuzzyThreshold:      0.75,
			AutoAcceptExact:     true,
			InvoiceNumberWeight: 0.5,
			DateWeight:          0.25,
			AmountWeight:        0.25,
		},
		Eligibility: config.EligibilityConfig{
			InterestRatePct:       18.0,
			CapitalGoodsLifeYears: 5,
			PaymentWindowDays:     180,
		},
	}
}

func entry(gstin, number string, dt time.Time, value string, tax domain.TaxAmounts) domain.ReturnEntry {
	return domain.ReturnEntry{
		ID:            uuid.NewSHA1(uuid.NameSpaceOID, []byte("entry|"+gstin+"|"+number)),
		SupplierGSTIN: gstin,
		ReturnPeriod:  "042025",
		InvoiceNumber: number,
		InvoiceDate:   dt,
		InvoiceValue:  dec(value),
		Tax:           tax,
		ITCAvailable:  true,
		Kind:          domain.EntryKindOriginal,
	}
}

func purchase(gstin, number string, dt time.Time, value string, tax domain.TaxAmounts) domain.PurchaseRecord {
	return domain.PurchaseRecord{
		ID:            uuid.NewSHA1(uuid.NameSpaceOID, []byte("purchase|"+gstin+"|"+number)),
		VendorGSTIN:   gstin,
		InvoiceNumber: number,
		InvoiceDate:   dt,
		InvoiceValue:  dec(value),
		Tax:           tax,
		Usage:         domain.UsageProfile{Category: domain.CategoryGeneral},
		Compliance: domain.ComplianceFlags{
			HasValidInvoice: true,
			GoodsReceived:   true,
			SupplierTaxPaid: true,
			ReturnFiled:     true,
		},
	}
}

func igst(s string) domain.TaxAmounts {
	return domain.TaxAmounts{IGST: dec(s)}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRun_FullReconciliation(t *testing.T) {
	r := recon.New(testConfig())
	asOf := date(2025, time.November, 5)

	e1 := entry(vendorA, "INV001", date(2025, time.April, 15), "11800", igst("1800"))
	e2 := entry(vendorB, "INV777", date(2025, time.April, 20), "5900", igst("900"))

	p1 := purchase(vendorA, "INV001", date(2025, time.April, 15), "11800", igst("1800"))
	paid := date(2025, time.May, 1)
	p1.Compliance.PaymentDate = &paid

	// Unpaid and past the 180-day window as of the run date.
	p2 := purchase(vendorB, "INV555", date(2025, time.April, 10), "23600", igst("3600"))

	report, err := r.Run(recon.Input{
		Period:    "042025",
		Entries:   []domain.ReturnEntry{e1, e2},
		Purchases: []domain.PurchaseRecord{p1, p2},
		AsOf:      asOf,
	})
	require.NoError(t, err)

	s := report.Summary
	assert.Equal(t, "042025", s.Period)
	assert.Equal(t, 2, s.ReturnEntryCount)
	assert.Equal(t, 2, s.PurchaseCount)
	assert.Equal(t, 1, s.ExactMatches)
	assert.Equal(t, 1, s.UnmatchedEntries)
	assert.Equal(t, 1, s.UnmatchedRecords)

	assert.True(t, s.ITCAvailable.Equal(dec("2700")), "got %s", s.ITCAvailable)
	assert.True(t, s.ITCClaimed.Equal(dec("5400")))
	assert.True(t, s.ITCBlocked.IsZero())
	assert.True(t, s.ITCPending.Equal(dec("900")))
	assert.True(t, s.ITCExcessClaimed.Equal(dec("3600")))

	// The unpaid purchase triggers the automatic non-payment reversal.
	require.Len(t, report.Reversals, 1)
	rev := report.Reversals[0]
	assert.Equal(t, p2.ID, rev.PurchaseID)
	assert.Equal(t, domain.ReversalNonPayment180, rev.Reason)
	assert.True(t, rev.ReversedAmount.Equal(dec("3600")))
	assert.True(t, rev.Interest.IsPositive())
	assert.True(t, s.ReversedTotal.Equal(dec("3600")))
	assert.True(t, s.InterestAccrued.Equal(rev.Interest))

	require.Len(t, report.Vendors, 2)
	va, vb := report.Vendors[0], report.Vendors[1]
	assert.Equal(t, vendorA, va.VendorGSTIN)
	assert.Equal(t, domain.VendorReconciled, va.Status)
	assert.Equal(t, 1, va.MatchedCount)
	assert.True(t, va.MatchedITC.Equal(dec("1800")))

	assert.Equal(t, vendorB, vb.VendorGSTIN)
	assert.Equal(t, domain.VendorPending, vb.Status)
	assert.Equal(t, 1, vb.MissingInBooks)
	assert.Equal(t, 1, vb.MissingInReturn)
	assert.Len(t, vb.ActionItems, 2)
}

func TestRun_FromReturnDocument(t *testing.T) {
	r := recon.New(testConfig())

	doc := &gstr.ReturnDocument{
		RecipientGSTIN: "07AABCU9603R1ZP",
		ReturnPeriod:   "042025",
		B2B: []gstr.SupplierInvoices{
			{
				SupplierGSTIN: vendorA,
				Invoices: []gstr.InvoiceLine{
					{Number: "INV001", Date: "15-04-2025", Value: dec("11800"), TaxableValue: dec("10000"), IGST: dec("1800"), ITCAvailable: "Y"},
				},
			},
		},
	}
	p := purchase(vendorA, "INV001", date(2025, time.April, 15), "11800", igst("1800"))
	paid := date(2025, time.May, 1)
	p.Compliance.PaymentDate = &paid

	report, err := r.Run(recon.Input{
		Document:  doc,
		Purchases: []domain.PurchaseRecord{p},
		AsOf:      date(2025, time.June, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, "042025", report.Summary.Period)
	assert.Equal(t, 1, report.Summary.ExactMatches)
	assert.Empty(t, report.Reversals)
}

func TestRun_BadDocumentFails(t *testing.T) {
	r := recon.New(testConfig())
	doc := &gstr.ReturnDocument{RecipientGSTIN: "garbage", ReturnPeriod: "042025"}

	_, err := r.Run(recon.Input{Document: doc, AsOf: date(2025, time.June, 1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "normalizing return document")
}

func TestRun_Idempotent(t *testing.T) {
	r := recon.New(testConfig())
	asOf := date(2025, time.November, 5)

	entries := []domain.ReturnEntry{
		entry(vendorA, "INV001", date(2025, time.April, 15), "11800", igst("1800")),
		entry(vendorB, "INV777", date(2025, time.April, 20), "5900", igst("900")),
	}
	purchases := []domain.PurchaseRecord{
		purchase(vendorA, "INV001", date(2025, time.April, 15), "11800", igst("1800")),
		purchase(vendorB, "INV555", date(2025, time.April, 10), "23600", igst("3600")),
	}

	in := recon.Input{Period: "042025", Entries: entries, Purchases: purchases, AsOf: asOf}
	first, err := r.Run(in)
	require.NoError(t, err)
	second, err := r.Run(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_LatePaymentIsNotAutoReversed(t *testing.T) {
	r := recon.New(testConfig())

	p := purchase(vendorA, "INV009", date(2025, time.January, 10), "11800", igst("1800"))
	// Paid 200 days after the invoice: the credit stood reversed for a while
	// but was restored on payment.
	paid := p.InvoiceDate.AddDate(0, 0, 200)
	p.Compliance.PaymentDate = &paid

	report, err := r.Run(recon.Input{
		Period:    "012025",
		Purchases: []domain.PurchaseRecord{p},
		AsOf:      date(2025, time.September, 1),
	})
	require.NoError(t, err)
	assert.Empty(t, report.Reversals)
}

func TestRun_ExplicitReversalEvents(t *testing.T) {
	r := recon.New(testConfig())

	p := purchase(vendorA, "INV010", date(2025, time.April, 15), "11800", igst("1800"))
	paid := date(2025, time.May, 1)
	p.Compliance.PaymentDate = &paid

	t.Run("goods_lost_event", func(t *testing.T) {
		report, err := r.Run(recon.Input{
			Period:    "042025",
			Purchases: []domain.PurchaseRecord{p},
			AsOf:      date(2025, time.June, 1),
			Events: []recon.ReversalEvent{
				{PurchaseID: p.ID, Reason: domain.ReversalGoodsLost, Context: itc.ReversalContext{LossPct: dec("25")}},
			},
		})
		require.NoError(t, err)
		require.Len(t, report.Reversals, 1)
		assert.True(t, report.Reversals[0].ReversedAmount.Equal(dec("450")))
	})

	t.Run("unknown_purchase_fails", func(t *testing.T) {
		_, err := r.Run(recon.Input{
			Period:    "042025",
			Purchases: []domain.PurchaseRecord{p},
			AsOf:      date(2025, time.June, 1),
			Events: []recon.ReversalEvent{
				{PurchaseID: uuid.New(), Reason: domain.ReversalGoodsLost},
			},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown purchase")
	})

	t.Run("nothing_to_reverse_is_skipped", func(t *testing.T) {
		report, err := r.Run(recon.Input{
			Period:    "042025",
			Purchases: []domain.PurchaseRecord{p},
			AsOf:      date(2025, time.June, 1),
			Events: []recon.ReversalEvent{
				{PurchaseID: p.ID, Reason: domain.ReversalCapitalDisposal, Context: itc.ReversalContext{DisposalYear: 9}},
			},
		})
		require.NoError(t, err)
		assert.Empty(t, report.Reversals)
	})
}

func TestRun_CreditNoteReducesAvailableITC(t *testing.T) {
	r := recon.New(testConfig())

	inv := entry(vendorA, "INV001", date(2025, time.April, 15), "11800", igst("1800"))
	cn := entry(vendorA, "CN-9", date(2025, time.April, 18), "590", igst("90"))
	cn.Kind = domain.EntryKindCreditNote

	report, err := r.Run(recon.Input{
		Period:  "042025",
		Entries: []domain.ReturnEntry{inv, cn},
		AsOf:    date(2025, time.June, 1),
	})
	require.NoError(t, err)

	assert.True(t, report.Summary.ITCAvailable.Equal(dec("1710")), "got %s", report.Summary.ITCAvailable)
}
