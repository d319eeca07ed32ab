package handler

// leadRequest is a single marketing-site lead submission.
type leadRequest struct {
	Name            string `json:"name"   validate:"required"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"  validate:"omitempty,email"`
	Source          string `json:"source" validate:"required"`
	RequirementType string `json:"requirement_type,omitempty" validate:"omitempty,oneof=rent sale lease"`
	PropertyType    string `json:"property_type,omitempty"`
	Location        string `json:"location,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// acceptedResponse acknowledges asynchronous intake.
type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}
