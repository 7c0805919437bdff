package checkout

import (
	"fmt"

	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/pricing"
)

// SummaryBuilder derives the priced line items for a checkout session from
// the period's price catalog. The summary is recomputed wholesale on every
// relevant selection change, never patched incrementally.
//
// Items priced at zero are dropped silently so the UI never renders a 0-value
// row; traveler count floors (at least one adult) are enforced where the
// counts are set, not here.
type SummaryBuilder struct {
	catalog *pricing.Catalog
}

func NewSummaryBuilder(catalog *pricing.Catalog) *SummaryBuilder {
	return &SummaryBuilder{catalog: catalog}
}

var ageGroups = []string{pricing.AgeGroupAdult, pricing.AgeGroupChild, pricing.AgeGroupInfant}

// Build produces the ordered line item list plus subtotal and total.
// Subtotal sums only non-negative items; total includes discount items.
func (b *SummaryBuilder) Build(s *CheckoutSession) Summary {
	var items []LineItem

	items = append(items, b.baseItems(s)...)
	items = append(items, b.roomItems(s)...)
	items = append(items, b.activityItems(s)...)
	items = append(items, b.flightItems(s)...)
	items = append(items, b.insuranceItems(s)...)
	items = append(items, discountItems(s)...)

	summary := Summary{LineItems: items}
	for _, item := range items {
		amount := float64(item.Quantity) * item.Value
		summary.Total += amount
		if item.Value >= 0 {
			summary.Subtotal += amount
		}
	}

	return summary
}

// baseItems prices the trip itself: one item per non-empty age group, whose
// unit value is the base product price plus the period supplement.
func (b *SummaryBuilder) baseItems(s *CheckoutSession) []LineItem {
	var items []LineItem

	for _, ag := range ageGroups {
		count := countByAgeGroup(s.Counts, ag)
		if count <= 0 {
			continue
		}

		value := b.catalog.Price(s.TourID, ag) + b.catalog.Price(s.PeriodID, ag)
		if value <= 0 {
			continue
		}

		items = append(items, LineItem{
			Description: fmt.Sprintf("%s (%s)", s.TourName, ag),
			Quantity:    count,
			Value:       value,
		})
	}

	return items
}

func (b *SummaryBuilder) roomItems(s *CheckoutSession) []LineItem {
	var items []LineItem

	for _, room := range s.Rooms {
		if room.Quantity <= 0 || room.Price == 0 {
			continue
		}

		items = append(items, LineItem{
			Description: fmt.Sprintf("Suplemento habitación %s", room.Name),
			Quantity:    room.Quantity,
			Value:       room.Price,
		})
	}

	return items
}

// activityItems emits a single combined adult+child item when both tiers
// share the same price, otherwise one item per tier when its count and price
// are both positive. The infant item follows the same count-and-price rule.
func (b *SummaryBuilder) activityItems(s *CheckoutSession) []LineItem {
	var items []LineItem

	for _, activity := range s.Activities {
		adultPrice := b.catalog.Price(activity.ID, pricing.AgeGroupAdult)
		childPrice := b.catalog.Price(activity.ID, pricing.AgeGroupChild)
		infantPrice := b.catalog.Price(activity.ID, pricing.AgeGroupInfant)

		if adultPrice == childPrice {
			if qty := s.Counts.Adults + s.Counts.Children; qty > 0 && adultPrice > 0 {
				items = append(items, LineItem{
					Description: fmt.Sprintf("Actividad %s", activity.Name),
					Quantity:    qty,
					Value:       adultPrice,
				})
			}
		} else {
			if s.Counts.Adults > 0 && adultPrice > 0 {
				items = append(items, LineItem{
					Description: fmt.Sprintf("Actividad %s (%s)", activity.Name, pricing.AgeGroupAdult),
					Quantity:    s.Counts.Adults,
					Value:       adultPrice,
				})
			}
			if s.Counts.Children > 0 && childPrice > 0 {
				items = append(items, LineItem{
					Description: fmt.Sprintf("Actividad %s (%s)", activity.Name, pricing.AgeGroupChild),
					Quantity:    s.Counts.Children,
					Value:       childPrice,
				})
			}
		}

		if s.Counts.Infants > 0 && infantPrice > 0 {
			items = append(items, LineItem{
				Description: fmt.Sprintf("Actividad %s (%s)", activity.Name, pricing.AgeGroupInfant),
				Quantity:    s.Counts.Infants,
				Value:       infantPrice,
			})
		}
	}

	return items
}

// flightItems prices the selected flight. Provider offers are segmented per
// age group; manual flights use the flat price with the catalog as fallback.
func (b *SummaryBuilder) flightItems(s *CheckoutSession) []LineItem {
	if s.Flight == nil || s.Flight.IsNoFlight() {
		return nil
	}

	var items []LineItem

	if s.Flight.Provider && len(s.Flight.PricePerAge) > 0 {
		for _, ag := range ageGroups {
			count := countByAgeGroup(s.Counts, ag)
			price := s.Flight.PricePerAge[ag]
			if count <= 0 || price <= 0 {
				continue
			}

			items = append(items, LineItem{
				Description: fmt.Sprintf("Vuelo %s (%s)", s.Flight.Name, ag),
				Quantity:    count,
				Value:       price,
			})
		}

		return items
	}

	price := s.Flight.Price
	if price == 0 {
		price = b.catalog.FlatPrice(s.Flight.ID)
	}
	if price == 0 {
		return nil
	}

	items = append(items, LineItem{
		Description: fmt.Sprintf("Vuelo %s", s.Flight.Name),
		Quantity:    s.Counts.Total(),
		Value:       price,
	})

	return items
}

func (b *SummaryBuilder) insuranceItems(s *CheckoutSession) []LineItem {
	var items []LineItem

	for _, insurance := range s.Insurances {
		if insurance.Quantity <= 0 || insurance.Price == 0 {
			continue
		}

		items = append(items, LineItem{
			Description: fmt.Sprintf("Seguro %s", insurance.Name),
			Quantity:    insurance.Quantity,
			Value:       insurance.Price,
		})
	}

	return items
}

// discountItems emits one negative valued item per active discount, quantity
// always one. Coupon sourced discounts are prefixed so they read apart from
// campaign discounts.
func discountItems(s *CheckoutSession) []LineItem {
	var items []LineItem

	for _, discount := range s.Discounts {
		description := discount.Description
		if discount.Coupon {
			description = fmt.Sprintf("Cupón %s", description)
		}

		items = append(items, LineItem{
			Description: description,
			Quantity:    1,
			Value:       -discount.Amount,
		})
	}

	return items
}
