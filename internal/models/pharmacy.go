package models

// Pharmacy is an entry of the pharmacy directory.
type Pharmacy struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Address               string   `json:"address"`
	Distance              float64  `json:"distance"`
	Rating                float64  `json:"rating"`
	Phone                 string   `json:"phone"`
	Hours                 string   `json:"hours"`
	IsOpen                bool     `json:"isOpen"`
	Lat                   float64  `json:"lat"`
	Lng                   float64  `json:"lng"`
	Services              []string `json:"services"`
	HasDelivery           bool     `json:"hasDelivery"`
	EstimatedDeliveryTime string   `json:"estimatedDeliveryTime,omitempty"`
}
