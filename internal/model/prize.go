package model

// PrizeID uniquely identifies a catalog prize
type PrizeID string

// Prize is a catalog entry redeemable for points
type Prize struct {
	ID          PrizeID `json:"id"`
	ImageURL    string  `json:"image_url"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        int     `json:"cost"`
	ProductURL  string  `json:"product_url,omitempty"`
}
