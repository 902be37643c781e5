package dto

type CreateProductRequest struct {
	CategoryID    string  `json:"categoryId"`
	Name          string  `json:"name"`
	Image         string  `json:"image"`
	Location      string  `json:"location"`
	Condition     string  `json:"condition"`
	OriginalPrice float64 `json:"originalPrice"`
	ResalePrice   float64 `json:"resalePrice"`
	YearsOfUse    int     `json:"yearsOfUse"`
	Phone         string  `json:"phone"`
	Description   string  `json:"description"`
}

type BookingStatusResponse struct {
	IsBooked bool `json:"isBooked"`
}
