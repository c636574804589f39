package itc

import (
	"strings"

	"github.com/Riftal-Studios/TaxHive-sub007/internal/domain"
)

// Statutory citations attached to blocked outcomes. These come from the fixed
// rule table, never free text.
const (
	CitationMotorVehicle  = "Section 17(5)(a): motor vehicles for transport of persons with approved seating capacity of not more than 13"
	CitationFoodBeverage  = "Section 17(5)(b)(i): food and beverages, outdoor catering"
	CitationClub          = "Section 17(5)(b)(ii): membership of a club, health and fitness centre"
	CitationLifeHealthIns = "Section 17(5)(b)(iii): life insurance and health insurance"
	CitationWorksContract = "Section 17(5)(c),(d): works contract services and construction of immovable property"
	CitationPersonal      = "Section 17(5)(g): goods or services used for personal consumption"
	CitationUnknown       = "Section 17(5): unclassified category, credit withheld pending classification"
)

// blockedByCategory applies the Section 17(5) rule table. The switch covers
// every declared ItemCategory; an unknown category blocks credit rather than
// silently falling through to allowed.
func blockedByCategory(u *domain.UsageProfile) (bool, string) {
	switch u.Category {
	case domain.CategoryGeneral, "":
		return false, ""

	case domain.CategoryMotorVehicle:
		if u.GoodsCarriage {
			return false, ""
		}
		if u.SeatingCapacity > 13 {
			return false, ""
		}
		if transportOrTrainingPurpose(u.BusinessPurpose) {
			return false, ""
		}
		return true, CitationMotorVehicle

	case domain.CategoryFoodAndBeverage:
		if u.StatutoryObligation {
			return false, ""
		}
		return true, CitationFoodBeverage

	case domain.CategoryClubMembership:
		return true, CitationClub

	case domain.CategoryLifeHealthIns:
		if u.StatutoryObligation {
			return false, ""
		}
		return true, CitationLifeHealthIns

	case domain.CategoryPropertyIns:
		return false, ""

	case domain.CategoryWorksContract:
		if u.DeveloperSale {
			return false, ""
		}
		if u.PlantAndMachinery {
			return false, ""
		}
		return true, CitationWorksContract

	case domain.CategoryPersonalConsume:
		return true, CitationPersonal
	}

	return true, CitationUnknown
}

// transportOrTrainingPurpose recognizes the further-supply, passenger
// transport, and driver training purposes that lift the motor vehicle block.
func transportOrTrainingPurpose(purpose string) bool {
	p := strings.ToLower(purpose)
	return strings.Contains(p, "transport") || strings.Contains(p, "training") || strings.Contains(p, "driving school")
}
