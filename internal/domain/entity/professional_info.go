package entity

import "time"

type LicenseType string

const (
	LicenseRealEstateAgent  LicenseType = "REAL_ESTATE_AGENT"
	LicenseRealEstateBroker LicenseType = "REAL_ESTATE_BROKER"
	LicensePropertyManager  LicenseType = "PROPERTY_MANAGER"
	LicenseContractor       LicenseType = "CONTRACTOR"
	LicenseBusiness         LicenseType = "BUSINESS_LICENSE"
	LicenseProfessional     LicenseType = "PROFESSIONAL_LICENSE"
	LicenseOther            LicenseType = "OTHER"
)

func (t LicenseType) Valid() bool {
	switch t {
	case LicenseRealEstateAgent, LicenseRealEstateBroker, LicensePropertyManager,
		LicenseContractor, LicenseBusiness, LicenseProfessional, LicenseOther:
		return true
	}
	return false
}

// ProfessionalStatus is the review state of a credential submission.
type ProfessionalStatus string

const (
	ProfessionalPending  ProfessionalStatus = "PENDING"
	ProfessionalVerified ProfessionalStatus = "VERIFIED"
	ProfessionalRejected ProfessionalStatus = "REJECTED"
)

func (s ProfessionalStatus) Valid() bool {
	switch s {
	case ProfessionalPending, ProfessionalVerified, ProfessionalRejected:
		return true
	}
	return false
}

// ProfessionalInfo holds a user's submitted credentials. One per user.
type ProfessionalInfo struct {
	ID     string `json:"id" firestore:"id"`
	UserID string `json:"user_id" firestore:"userId"`

	LicenseType   LicenseType `json:"license_type" firestore:"licenseType"`
	LicenseNumber string      `json:"license_number" firestore:"licenseNumber"`
	LicenseExpiry time.Time   `json:"license_expiry" firestore:"licenseExpiry"`
	Jurisdiction  string      `json:"jurisdiction" firestore:"jurisdiction"`

	CompanyName    string `json:"company_name,omitempty" firestore:"companyName,omitempty"`
	CompanyAddress string `json:"company_address,omitempty" firestore:"companyAddress,omitempty"`
	TaxID          string `json:"tax_id,omitempty" firestore:"taxId,omitempty"`
	InsuranceInfo  string `json:"insurance_info,omitempty" firestore:"insuranceInfo,omitempty"`

	VerificationDocuments []string `json:"verification_documents" firestore:"verificationDocuments"`

	Status          ProfessionalStatus `json:"status" firestore:"status"`
	SubmittedAt     time.Time          `json:"submitted_at" firestore:"submittedAt"`
	VerifiedAt      *time.Time         `json:"verified_at" firestore:"verifiedAt"`
	VerifiedBy      *string            `json:"verified_by" firestore:"verifiedBy"`
	RejectionReason *string            `json:"rejection_reason" firestore:"rejectionReason"`

	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// LicenseExpired reports whether the license expiry lies strictly before now.
func (p *ProfessionalInfo) LicenseExpired(now time.Time) bool {
	return p != nil && p.LicenseExpiry.Before(now)
}

// VerificationView is the admin listing projection of a submission.
type VerificationView struct {
	*ProfessionalInfo
	User *UserSummary `json:"user,omitempty"`
}
