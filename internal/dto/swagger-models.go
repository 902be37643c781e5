package dto

// ===== Common responses =====

type APIError struct {
	ErrorCode string `json:"errorCode" example:"FORBIDDEN"`
	Message   string `json:"message" example:"forbidden"`
}

type APISuccessAny struct {
	Data interface{} `json:"data"`
}

type APISuccessString struct {
	Data string `json:"data" example:"ok"`
}

type APISuccessToken struct {
	Data TokenResponse `json:"data"`
}
