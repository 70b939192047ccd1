package pharmacy

import (
	"cmp"
	"fmt"
	"slices"

	"sehat-sathi-server/internal/models"
)

// Directory returns the fixed pharmacy listing with its default distances.
func Directory() []models.Pharmacy {
	return []models.Pharmacy{
		{
			ID:                    "1",
			Name:                  "Apollo Pharmacy",
			Address:               "123 Main Street, Downtown",
			Distance:              0.5,
			Rating:                4.5,
			Phone:                 "+91 9876543210",
			Hours:                 "24/7",
			IsOpen:                true,
			Lat:                   28.6139,
			Lng:                   77.209,
			Services:              []string{"Prescription", "OTC Medicines", "Health Checkup", "Home Delivery"},
			HasDelivery:           true,
			EstimatedDeliveryTime: "30-45 mins",
		},
		{
			ID:                    "2",
			Name:                  "MedPlus",
			Address:               "456 Park Avenue, Central",
			Distance:              1.2,
			Rating:                4.3,
			Phone:                 "+91 9876543211",
			Hours:                 "8 AM - 10 PM",
			IsOpen:                true,
			Lat:                   28.6129,
			Lng:                   77.2295,
			Services:              []string{"Prescription", "OTC Medicines", "Medical Equipment"},
			HasDelivery:           true,
			EstimatedDeliveryTime: "45-60 mins",
		},
		{
			ID:          "3",
			Name:        "Wellness Pharmacy",
			Address:     "789 Health Street, Medical District",
			Distance:    2.1,
			Rating:      4.7,
			Phone:       "+91 9876543212",
			Hours:       "9 AM - 9 PM",
			IsOpen:      false,
			Lat:         28.6219,
			Lng:         77.2419,
			Services:    []string{"Prescription", "OTC Medicines", "Wellness Products", "Consultation"},
			HasDelivery: false,
		},
		{
			ID:                    "4",
			Name:                  "Care Pharmacy",
			Address:               "321 Medicine Lane, Hospital Area",
			Distance:              2.8,
			Rating:                4.2,
			Phone:                 "+91 9876543213",
			Hours:                 "7 AM - 11 PM",
			IsOpen:                true,
			Lat:                   28.6304,
			Lng:                   77.2177,
			Services:              []string{"Prescription", "OTC Medicines", "Emergency Medicines"},
			HasDelivery:           true,
			EstimatedDeliveryTime: "60-90 mins",
		},
	}
}

// SortMode orders a pharmacy listing.
type SortMode string

const (
	SortByDistance SortMode = "distance"
	SortByRating   SortMode = "rating"
)

// ParseSortMode accepts "distance", "rating" or empty (distance).
func ParseSortMode(raw string) (SortMode, error) {
	switch SortMode(raw) {
	case "", SortByDistance:
		return SortByDistance, nil
	case SortByRating:
		return SortByRating, nil
	}
	return "", fmt.Errorf("unknown sort mode %q", raw)
}

// Sort returns a sorted copy: nearest first, or best rated first. Ties keep
// directory order.
func Sort(pharmacies []models.Pharmacy, mode SortMode) []models.Pharmacy {
	out := slices.Clone(pharmacies)
	slices.SortStableFunc(out, func(a, b models.Pharmacy) int {
		if mode == SortByRating {
			return cmp.Compare(b.Rating, a.Rating)
		}
		return cmp.Compare(a.Distance, b.Distance)
	})
	return out
}

// WithDistancesFrom recomputes every distance from (lat, lng).
func WithDistancesFrom(pharmacies []models.Pharmacy, lat, lng float64) []models.Pharmacy {
	out := slices.Clone(pharmacies)
	for i := range out {
		out[i].Distance = Distance(lat, lng, out[i].Lat, out[i].Lng)
	}
	return out
}

// DirectionsURL links to turn-by-turn directions to the pharmacy.
func DirectionsURL(p models.Pharmacy) string {
	return fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%v,%v", p.Lat, p.Lng)
}
