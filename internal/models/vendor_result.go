package models

// VendorResult is the normalized outcome of one vendor call.
type VendorResult struct {
	HTTPStatus       int    `json:"status"`
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	VendorStatus     string `json:"bmsStatus"`
	VendorMessage    string `json:"bmsMessage"`
	VendorStatusCode string `json:"bmsStatusCode"`
	ContentType      string `json:"contentType"`
	Data             any    `json:"data"`
}
