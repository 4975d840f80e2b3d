package dto

type OrganizationRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Description  string `json:"description" validate:"max=2000"`
	Category     string `json:"category" validate:"max=100"`
	Website      string `json:"website" validate:"omitempty,url"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
}

// ReviewRequest is shared by organization and verification reviews.
type ReviewRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note" validate:"max=1000"`
}
