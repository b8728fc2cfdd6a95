package domain

import "time"

// Scam types. Each report carries exactly one identifier field, the one
// matching its type.
const (
	ScamTypePhone    = "phone"
	ScamTypeEmail    = "email"
	ScamTypeBusiness = "business"
)

type ScamReport struct {
	ReportID     string     `json:"id" dynamodbav:"report_id"`
	ScamType     string     `json:"scam_type" dynamodbav:"scam_type"`
	PhoneNumber  *string    `json:"phone_number,omitempty" dynamodbav:"phone_number"`
	Email        *string    `json:"email,omitempty" dynamodbav:"email"`
	BusinessName *string    `json:"business_name,omitempty" dynamodbav:"business_name"`
	IncidentDate string     `json:"incident_date" dynamodbav:"incident_date"` // YYYY-MM-DD
	Location     string     `json:"location" dynamodbav:"location"`
	Description  string     `json:"description" dynamodbav:"description"`
	ReportedBy   string     `json:"reported_by" dynamodbav:"reported_by"`
	ReportedAt   time.Time  `json:"reported_at" dynamodbav:"reported_at"`
	IsVerified   bool       `json:"is_verified" dynamodbav:"is_verified"`
	VerifiedBy   *string    `json:"verified_by,omitempty" dynamodbav:"verified_by"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty" dynamodbav:"verified_at"`
}

// Identifier returns the raw identifier matching the report's scam type,
// or "" when the field for that type is missing.
func (r *ScamReport) Identifier() string {
	switch r.ScamType {
	case ScamTypePhone:
		if r.PhoneNumber != nil {
			return *r.PhoneNumber
		}
	case ScamTypeEmail:
		if r.Email != nil {
			return *r.Email
		}
	case ScamTypeBusiness:
		if r.BusinessName != nil {
			return *r.BusinessName
		}
	}
	return ""
}

type CreateScamReportRequest struct {
	ScamType     string  `json:"scam_type" validate:"required,oneof=phone email business"`
	PhoneNumber  *string `json:"phone_number"`
	Email        *string `json:"email" validate:"omitempty,email"`
	BusinessName *string `json:"business_name"`
	IncidentDate string  `json:"incident_date" validate:"omitempty,datetime=2006-01-02"`
	Location     string  `json:"location" validate:"max=200"`
	Description  string  `json:"description" validate:"required,max=5000"`
}
