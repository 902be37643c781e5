package dto

type BookOrderRequest struct {
	ProductName string  `json:"productName"`
	BuyerName   string  `json:"name"`
	Phone       string  `json:"phone"`
	Location    string  `json:"location"`
	Price       float64 `json:"price"`
}
