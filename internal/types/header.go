package types

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderAuthorization = "Authorization"
	HeaderSessionToken  = "X-Session-Token"
	HeaderCustomerID    = "X-Customer-ID"
)
