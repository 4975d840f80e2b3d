package dto

type ConfirmVerificationRequest struct {
	Token   string `json:"token" validate:"required"`
	Approve bool   `json:"approve"`
	Note    string `json:"note" validate:"max=1000"`
}

type VerificationRequested struct {
	VerificationID string `json:"verificationId"`
	Status         string `json:"status"`
}

// Email is a transactional message handed to the mail client.
type Email struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

// VerificationResult is returned to the supervisor; it omits the student's identifiers.
type VerificationResult struct {
	VerificationID string `json:"verificationId"`
	ActivityName   string `json:"activityName"`
	Status         string `json:"status"`
}
