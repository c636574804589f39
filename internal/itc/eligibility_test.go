package itc_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riftal-Studios/TaxHive-sub007/internal/domain"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/itc"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var asOf = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

// record builds a purchase with all procedural conditions satisfied and a
// recent invoice date, so tests only vary the usage profile under scrutiny.
func record(taxTotal string, usage domain.UsageProfile) *domain.PurchaseRecord {
	return &domain.PurchaseRecord{
		ID:          uuid.New(),
		VendorGSTIN: "27AAPFU0939F1ZV",
		InvoiceDate: time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC),
		Tax:         domain.TaxAmounts{IGST: dec(taxTotal)},
		Usage:       usage,
		Compliance: domain.ComplianceFlags{
			HasValidInvoice: true,
			GoodsReceived:   true,
			SupplierTaxPaid: true,
			ReturnFiled:     true,
		},
	}
}

func TestEvaluate_FullyEligible(t *testing.T) {
	ev := itc.NewEvaluator()
	rec := record("1800", domain.UsageProfile{Category: domain.CategoryGeneral})

	res := ev.Evaluate(rec, asOf)

	assert.True(t, res.EligibleAmount.Equal(dec("1800")))
	assert.True(t, res.BlockedAmount.IsZero())
	assert.False(t, res.Partial)
	assert.False(t, res.WindowLapsed)
	assert.True(t, res.Conditions.Met())
}

func TestEvaluate_EligiblePlusBlockedEqualsTotal(t *testing.T) {
	ev := itc.NewEvaluator()
	profiles := []domain.UsageProfile{
		{Category: domain.CategoryGeneral},
		{Category: domain.CategoryGeneral, BusinessUsePct: dec("70"), ExemptSupplyPct: dec("30")},
		{Category: domain.CategoryClubMembership},
		{Category: domain.CategoryMotorVehicle, SeatingCapacity: 5},
		{Category: domain.CategoryGeneral, BusinessUsePct: dec("33.33")},
	}
	for _, u := range profiles {
		rec := record("18543.17", u)
		res := ev.Evaluate(rec, asOf)
		assert.True(t, res.EligibleAmount.Add(res.BlockedAmount).Equal(rec.Tax.Total()),
			"eligible %s + blocked %s != total for %s", res.EligibleAmount, res.BlockedAmount, u.Category)
	}
}

func TestEvaluate_MotorVehicleRules(t *testing.T) {
	ev := itc.NewEvaluator()

	t.Run("small_passenger_vehicle_blocked", func(t *testing.T) {
		rec := record("50000", domain.UsageProfile{
			Category:        domain.CategoryMotorVehicle,
			SeatingCapacity: 5,
			BusinessPurpose: "office use",
		})
		res := ev.Evaluate(rec, asOf)
		assert.True(t, res.EligibleAmount.IsZero())
		assert.Equal(t, domain.CategoryMotorVehicle, res.BlockedCategory)
		assert.Equal(t, itc.CitationMotorVehicle, res.BlockedReason)
	})

	t.Run("goods_carriage_allowed", func(t *testing.T) {
		rec := record("50000", domain.UsageProfile{
			Category:      domain.CategoryMotorVehicle,
			GoodsCarriage: true,
		})
		res := ev.Evaluate(rec, asOf)
		assert.True(t, res.EligibleAmount.Equal(dec("50000")))
	})

	t.Run("bus_over_13_seats_allowed", func(t *testing.T) {
		rec := record("90000", domain.UsageProfile{
			Category:        domain.CategoryMotorVehicle,
			SeatingCapacity: 40,
		})
		res := ev.Evaluate(rec, asOf)
		assert.True(t, res.BlockedAmount.IsZero())
	})

	t.Run("passenger_transport_business_allowed", func(t *testing.T) {
		rec := record("50000", domain.UsageProfile{
			Category:        domain.CategoryMotorVehicle,
			SeatingCapacity: 5,
			BusinessPurpose: "passenger transport fleet",
		})
		res := ev.Evaluate(rec, asOf)
		assert.True(t, res.BlockedAmount.IsZero())
	})
}

func TestEvaluate_BlockedCategories(t *testing.T) {
	ev := itc.NewEvaluator()

	t.Run("club_membership_always_blocked", func(t *testing.T) {
		rec := record("9000", domain.UsageProfile{
			Category:            domain.CategoryClubMembership,
			StatutoryObligation: true,
		})
		res := ev.Evaluate(rec, asOf)
		assert.True(t, res.EligibleAmount.IsZero())
		assert.Equal(t, itc.CitationClub, res.BlockedReason)
	})

	t.Run("canteen_under_statutory_obligation_allowed", func(t *testing.T) {
		rec := record("5400", domain.UsageProfile{
			Category:            domain.CategoryFoodAndBeverage,
			StatutoryObligation: true,
		})
		res := ev.Evaluate(rec, asOf)
		assert.True(t, res.BlockedAmount.IsZero())
	})

	t.Run("catering_without_obligation_blocked", func(t *testing.T) {
		rec := record("5400", domain.UsageProfile{Category: domain.CategoryFoodAndBeverage})
		res := ev.Evaluate(rec, asOf)
		assert.Equal(t, itc.CitationFoodBeverage, res.BlockedReason)
	})

	t.Run("life_insurance_blocked_property_insurance_allowed", func(t *testing.T) {
		life := ev.Evaluate(record("3600", domain.UsageProfile{Category: domain.CategoryLifeHealthIns}), asOf)
		assert.Equal(t, itc.CitationLifeHealthIns, life.BlockedReason)

		prop := ev.Evaluate(record("3600", domain.UsageProfile{Category: domain.CategoryPropertyIns}), asOf)
		assert.True(t, prop.BlockedAmount.IsZero())
	})

	t.Run("works_contract_for_plant_and_machinery_allowed", func(t *testing.T) {
		blocked := ev.Evaluate(record("72000", domain.UsageProfile{Category: domain.CategoryWorksContract}), asOf)
		assert.Equal(t, itc.CitationWorksContract, blocked.BlockedReason)

		allowed := ev.Evaluate(record("72000", domain.UsageProfile{
			Category:          domain.CategoryWorksContract,
			PlantAndMachinery: true,
		}), asOf)
		assert.True(t, allowed.BlockedAmount.IsZero())
	})

	t.Run("personal_consumption_blocked", func(t *testing.T) {
		res := ev.Evaluate(record("100", domain.UsageProfile{Category: domain.CategoryPersonalConsume}), asOf)
		assert.Equal(t, itc.CitationPersonal, res.BlockedReason)
	})
}

func TestEvaluate_CategoryTableIsExhaustive(t *testing.T) {
	ev := itc.NewEvaluator()

	// Every declared category resolves to a definite outcome with the
	// eligible/blocked split still summing to the total.
	for _, cat := range domain.AllItemCategories {
		rec := record("1000", domain.UsageProfile{Category: cat})
		res := ev.Evaluate(rec, asOf)
		assert.True(t, res.EligibleAmount.Add(res.BlockedAmount).Equal(dec("1000")), "category %s", cat)
		if res.EligibleAmount.IsZero() {
			assert.NotEmpty(t, res.BlockedReason, "category %s blocked without a citation", cat)
		}
	}

	// An undeclared category withholds credit instead of falling through.
	res := ev.Evaluate(record("1000", domain.UsageProfile{Category: "hoverboard"}), asOf)
	assert.True(t, res.EligibleAmount.IsZero())
	assert.Equal(t, itc.CitationUnknown, res.BlockedReason)
}

func TestEvaluate_MixedUseApportionment(t *testing.T) {
	ev := itc.NewEvaluator()
	rec := record("10000", domain.UsageProfile{
		Category:        domain.CategoryGeneral,
		BusinessUsePct:  dec("70"),
		ExemptSupplyPct: dec("30"),
	})

	res := ev.Evaluate(rec, asOf)

	assert.True(t, res.EligibleAmount.Equal(dec("4900")), "got %s", res.EligibleAmount)
	assert.True(t, res.BlockedAmount.Equal(dec("5100")))
	assert.True(t, res.Partial)
	assert.True(t, res.PartialAmount.Equal(res.EligibleAmount))
	assert.ElementsMatch(t, []string{"business_use", "exempt_supply"}, res.ReductionFactors)
}

func TestEvaluate_UnsetBusinessUseMeansFullyBusiness(t *testing.T) {
	ev := itc.NewEvaluator()
	rec := record("1800", domain.UsageProfile{Category: domain.CategoryGeneral})

	res := ev.Evaluate(rec, asOf)
	assert.True(t, res.EligibleAmount.Equal(dec("1800")))
	assert.Empty(t, res.ReductionFactors)
}

func TestEvaluate_ProceduralGate(t *testing.T) {
	ev := itc.NewEvaluator()
	rec := record("1800", domain.UsageProfile{Category: domain.CategoryGeneral})
	rec.Compliance.ReturnFiled = false

	res := ev.Evaluate(rec, asOf)

	assert.True(t, res.EligibleAmount.IsZero())
	assert.True(t, res.BlockedAmount.Equal(dec("1800")))
	assert.False(t, res.Conditions.Met())
	assert.Contains(t, res.BlockedReason, "procedural conditions")
}

func TestEvaluate_ClaimWindow(t *testing.T) {
	ev := itc.NewEvaluator()

	t.Run("lapsed_after_september_return_due_date", func(t *testing.T) {
		rec := record("1800", domain.UsageProfile{Category: domain.CategoryGeneral})
		rec.InvoiceDate = time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)

		res := ev.Evaluate(rec, time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC))
		assert.True(t, res.WindowLapsed)
		assert.True(t, res.EligibleAmount.IsZero())
		assert.Contains(t, res.BlockedReason, "claim window lapsed")
		assert.Contains(t, res.BlockedReason, "claim by 20-10-2025")
	})

	t.Run("open_until_the_deadline", func(t *testing.T) {
		rec := record("1800", domain.UsageProfile{Category: domain.CategoryGeneral})
		rec.InvoiceDate = time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)

		res := ev.Evaluate(rec, time.Date(2025, time.October, 20, 0, 0, 0, 0, time.UTC))
		assert.False(t, res.WindowLapsed)
		assert.True(t, res.EligibleAmount.Equal(dec("1800")))
	})

	t.Run("earlier_annual_return_shortens_the_window", func(t *testing.T) {
		rec := record("1800", domain.UsageProfile{Category: domain.CategoryGeneral})
		rec.InvoiceDate = time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)
		annual := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
		rec.Compliance.AnnualReturnDate = &annual

		res := ev.Evaluate(rec, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC))
		assert.True(t, res.WindowLapsed)
	})
}

func TestDescribeWindow(t *testing.T) {
	invoiced := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "claim by 20-10-2025", itc.DescribeWindow(invoiced, nil))

	// Pre-April invoices belong to the fiscal year ending that same year.
	january := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "claim by 20-10-2025", itc.DescribeWindow(january, nil))

	annual := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "claim by 01-08-2025", itc.DescribeWindow(invoiced, &annual))
}

func TestEvaluate_ImportGates(t *testing.T) {
	ev := itc.NewEvaluator()

	t.Run("goods_import_needs_duty_paid_against_bill_of_entry", func(t *testing.T) {
		unpaid := record("9000", domain.UsageProfile{
			Category:    domain.CategoryGeneral,
			GoodsImport: true,
		})
		res := ev.Evaluate(unpaid, asOf)
		assert.True(t, res.EligibleAmount.IsZero())
		assert.Contains(t, res.BlockedReason, "bill of entry")

		paid := record("9000", domain.UsageProfile{
			Category:        domain.CategoryGeneral,
			GoodsImport:     true,
			CustomsDutyPaid: true,
			BillOfEntryRef:  "BOE7781",
		})
		res = ev.Evaluate(paid, asOf)
		assert.True(t, res.EligibleAmount.Equal(dec("9000")))
	})

	t.Run("service_import_needs_reverse_charge_self_assessment", func(t *testing.T) {
		rec := record("3600", domain.UsageProfile{
			Category:        domain.CategoryGeneral,
			ServiceImport:   true,
			RCMSelfAssessed: true,
		})
		res := ev.Evaluate(rec, asOf)
		assert.True(t, res.EligibleAmount.IsZero())
		assert.Contains(t, res.BlockedReason, "reverse charge")

		rec.Usage.RCMTaxPaid = true
		res = ev.Evaluate(rec, asOf)
		assert.True(t, res.EligibleAmount.Equal(dec("3600")))
	})
}

func TestEvaluate_HSNHintClassifiesUncategorized(t *testing.T) {
	ev := itc.NewEvaluator()
	rec := record("50000", domain.UsageProfile{SeatingCapacity: 5})
	rec.LineItems = []domain.PurchaseLineItem{
		{Description: "Sedan", HSNSACCode: "87032291", TaxableValue: dec("250000")},
	}

	res := ev.Evaluate(rec, asOf)

	assert.True(t, res.EligibleAmount.IsZero())
	assert.Equal(t, domain.CategoryMotorVehicle, res.BlockedCategory)
}

func TestHSNCategoryHints(t *testing.T) {
	h := itc.DefaultHSNCategoryHints()

	cat, ok := h.Hint("9963")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryFoodAndBeverage, cat)

	// Longer codes fall back to shorter prefixes; six-digit headings win over
	// four-digit chapters.
	cat, ok = h.Hint("99713245")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryLifeHealthIns, cat)

	cat, ok = h.Hint("99713410")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryPropertyIns, cat)

	_, ok = h.Hint("1234")
	assert.False(t, ok)
	_, ok = h.Hint("")
	assert.False(t, ok)
}
