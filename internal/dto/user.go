package dto

type CreateUserRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

type UpdateUserRequest struct {
	FirstName      *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName       *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	School         *string `json:"school" validate:"omitempty,max=200"`
	GraduationYear *int    `json:"graduationYear" validate:"omitempty,min=1900,max=2100"`
}

type ExternalHoursRequest struct {
	Hours float64 `json:"hours" validate:"gte=0"`
}
