package dto

type PaymentIntentRequest struct {
	ProductID string `json:"productId"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type PaymentRequest struct {
	ProductID     string `json:"productId"`
	TransactionID string `json:"transactionId"`
}
