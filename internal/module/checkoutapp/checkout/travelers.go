package checkout

import "github.com/differentroads/dr-checkout/internal/module/checkoutapp/pricing"

// RegenerateTravelers reconciles the traveler list against new counts.
// Existing entries are preserved by positional index within their age group
// bucket, new slots get a default tagged empty record, surplus slots are
// dropped. The lead flag always sits on the first adult.
func RegenerateTravelers(existing []Traveler, counts TravelerCounts) []Traveler {
	buckets := map[string][]Traveler{}
	for _, t := range existing {
		ag := t.TravelerData.AgeGroup
		buckets[ag] = append(buckets[ag], t)
	}

	regenerate := func(ageGroup string, count int64) []Traveler {
		out := make([]Traveler, 0, count)
		bucket := buckets[ageGroup]

		for i := int64(0); i < count; i++ {
			if i < int64(len(bucket)) {
				out = append(out, bucket[i])
				continue
			}

			out = append(out, Traveler{
				TravelerData: TravelerData{AgeGroup: ageGroup},
			})
		}

		return out
	}

	travelers := regenerate(pricing.AgeGroupAdult, counts.Adults)
	travelers = append(travelers, regenerate(pricing.AgeGroupChild, counts.Children)...)
	travelers = append(travelers, regenerate(pricing.AgeGroupInfant, counts.Infants)...)

	for i := range travelers {
		travelers[i].Lead = false
	}
	if len(travelers) > 0 {
		travelers[0].Lead = true
	}

	return travelers
}
