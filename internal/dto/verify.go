package dto

// VerifyRequest asks for a verification code to be sent to an email.
type VerifyRequest struct {
	Email string `json:"email"`
}

// VerifyCheckRequest submits a code for verification.
type VerifyCheckRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}
