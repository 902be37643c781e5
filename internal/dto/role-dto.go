package dto

type IsAdminResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

type IsSellerResponse struct {
	IsSeller bool `json:"isSeller"`
}

type IsBuyerResponse struct {
	IsBuyer bool `json:"isBuyer"`
}

type IsVerifiedResponse struct {
	IsVerified bool `json:"isVerified"`
}

type VerifySellerResponse struct {
	Email            string `json:"email"`
	Verified         bool   `json:"verified"`
	ProductsVerified int64  `json:"productsVerified"`
}
