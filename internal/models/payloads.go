package models

// These structs define the JSON payloads of the callable and HTTP functions.
// Callable requests arrive wrapped as {"data": ...} and responses leave as
// {"result": ...}; see handlers.Callable.

// IssueCodeRequest is the input of sendVerificationCode.
type IssueCodeRequest struct {
	Email    string `json:"email" validate:"required"`
	DeviceID string `json:"deviceID" validate:"required"`
	IsGuest  bool   `json:"isGuest"`
	UserType string `json:"userType"`
}

// VerifyCodeRequest is the input of verifyCodeV2.
type VerifyCodeRequest struct {
	Email    string `json:"email"`
	DeviceID string `json:"deviceID"`
	Code     string `json:"code"`
}

// LatestOrderRequest is the input of getLatestOrderCode.
type LatestOrderRequest struct {
	Email string `json:"email"`
}

// LatestOrderResponse is the output of getLatestOrderCode.
type LatestOrderResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	OrderCode string `json:"orderCode,omitempty"`
	FullOrder string `json:"fullOrder,omitempty"`
}

// ZipRequest is the input of getCityStateByZip.
type ZipRequest struct {
	Zip string `json:"zip"`
}

// ZipResponse is the output of getCityStateByZip.
type ZipResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
}

// CheckoutRequest is the input of createCheckoutSession.
type CheckoutRequest struct {
	Email       string `json:"email" validate:"required"`
	OrderNumber string `json:"orderNumber" validate:"required"`
}

// CheckoutResponse is the output of createCheckoutSession.
type CheckoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// LoginCodeRequest is the input of sendVerificationEmailV2.
type LoginCodeRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
	Name  string `json:"name"`
}

// SuccessResponse is a bare success flag.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// StudioFilter optionally scopes getMyStudioOrders to uploads where Field == Equals.
type StudioFilter struct {
	Field  string      `json:"field"`
	Equals interface{} `json:"equals"`
}

// StudioOrdersRequest is the input of getMyStudioOrders.
type StudioOrdersRequest struct {
	Email        string        `json:"email"`
	StudioFilter *StudioFilter `json:"studioFilter,omitempty"`
}

// StudioOrdersResponse is the output of getMyStudioOrders. Each item is the
// upload's fields plus its document id under "id".
type StudioOrdersResponse struct {
	Items []map[string]interface{} `json:"items"`
}

// CleanupRequest is the input of the avg_score_percent cleanup functions.
type CleanupRequest struct {
	Confirm string `json:"confirm"`
}

// CleanupResponse is the output of the avg_score_percent cleanup functions.
type CleanupResponse struct {
	OK           bool `json:"ok"`
	RemovedCount int  `json:"removedCount"`
}

// WebhookAck acknowledges a payment provider webhook.
type WebhookAck struct {
	Received bool `json:"received"`
}

// GCSEvent is the subset of a storage object event the thumbnailer needs.
type GCSEvent struct {
	Bucket      string `json:"bucket"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}
