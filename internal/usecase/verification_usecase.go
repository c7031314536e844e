package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"greia/internal/domain/entity"
	"greia/internal/domain/policy"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
	"greia/pkg/logger"
)

type VerificationUseCase struct {
	verificationRepo repository.VerificationRepository
	userRepo         repository.UserRepository
	notifications    *NotificationUseCase
	now              Clock
}

func NewVerificationUseCase(
	verificationRepo repository.VerificationRepository,
	userRepo repository.UserRepository,
	notifications *NotificationUseCase,
	now Clock,
) *VerificationUseCase {
	if now == nil {
		now = time.Now
	}
	return &VerificationUseCase{
		verificationRepo: verificationRepo,
		userRepo:         userRepo,
		notifications:    notifications,
		now:              now,
	}
}

type SubmitVerificationInput struct {
	LicenseType           entity.LicenseType
	LicenseNumber         string
	LicenseExpiry         time.Time
	Jurisdiction          string
	CompanyName           string
	CompanyAddress        string
	TaxID                 string
	InsuranceInfo         string
	VerificationDocuments []string
}

func (in SubmitVerificationInput) validate() error {
	var missing []string
	if in.LicenseType == "" {
		missing = append(missing, "license_type")
	}
	if strings.TrimSpace(in.LicenseNumber) == "" {
		missing = append(missing, "license_number")
	}
	if in.LicenseExpiry.IsZero() {
		missing = append(missing, "license_expiry")
	}
	if strings.TrimSpace(in.Jurisdiction) == "" {
		missing = append(missing, "jurisdiction")
	}
	if len(in.VerificationDocuments) == 0 {
		missing = append(missing, "verification_documents")
	}
	if len(missing) > 0 {
		return errors.Validation("Missing required fields: " + strings.Join(missing, ", "))
	}
	if !in.LicenseType.Valid() {
		return errors.Validation("Invalid license type")
	}
	return nil
}

// Submit records (or replaces) the caller's credentials and puts them back
// into review. Resubmission after a decision is allowed.
func (uc *VerificationUseCase) Submit(ctx context.Context, userID string, input SubmitVerificationInput) (*entity.ProfessionalInfo, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := uc.now()
	info := &entity.ProfessionalInfo{
		UserID:                userID,
		LicenseType:           input.LicenseType,
		LicenseNumber:         strings.TrimSpace(input.LicenseNumber),
		LicenseExpiry:         input.LicenseExpiry,
		Jurisdiction:          strings.TrimSpace(input.Jurisdiction),
		CompanyName:           input.CompanyName,
		CompanyAddress:        input.CompanyAddress,
		TaxID:                 input.TaxID,
		InsuranceInfo:         input.InsuranceInfo,
		VerificationDocuments: input.VerificationDocuments,
		Status:                entity.ProfessionalPending,
		SubmittedAt:           now,
		UpdatedAt:             now,
	}

	stored, err := uc.verificationRepo.Submit(ctx, info)
	if err != nil {
		logger.Error("SubmitVerification Error: user=%s: %v", userID, err)
		return nil, err
	}

	name := userID
	if user, err := uc.userRepo.GetByID(ctx, userID); err == nil {
		name = user.Name
	}
	uc.notifications.NotifyAdmins(ctx, &entity.Notification{
		SenderID: userID,
		Type:     entity.NotificationVerificationSubmitted,
		Title:    "New verification request",
		Content:  fmt.Sprintf("%s submitted %s credentials for review.", name, humanize(string(stored.LicenseType))),
		Data:     map[string]string{"verificationId": stored.ID, "userId": userID},
	})

	return stored, nil
}

type DecideVerificationInput struct {
	Status          entity.ProfessionalStatus
	RejectionReason string
}

// Decide approves or rejects a pending submission. The record and the user's
// role are written together; a record that is no longer pending is a Conflict.
func (uc *VerificationUseCase) Decide(ctx context.Context, adminID, verificationID string, input DecideVerificationInput) (*entity.ProfessionalInfo, error) {
	admin, err := uc.userRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("Unknown caller", err)
		}
		return nil, err
	}
	if !policy.IsAdmin(admin.Role) {
		return nil, errors.Forbidden("Admin access required", nil)
	}

	reason := strings.TrimSpace(input.RejectionReason)
	switch input.Status {
	case entity.ProfessionalVerified:
	case entity.ProfessionalRejected:
		if reason == "" {
			return nil, errors.Validation("Rejection reason is required")
		}
	default:
		return nil, errors.Validation("Status must be VERIFIED or REJECTED")
	}

	now := uc.now()
	info, user, err := uc.verificationRepo.Decide(ctx, verificationID, func(info *entity.ProfessionalInfo, user *entity.User) error {
		if info.Status != entity.ProfessionalPending {
			return errors.Conflict("Verification has already been decided")
		}
		info.Status = input.Status
		info.UpdatedAt = now
		user.UpdatedAt = now

		if input.Status == entity.ProfessionalVerified {
			at, by := now, adminID
			info.VerifiedAt = &at
			info.VerifiedBy = &by
			info.RejectionReason = nil
			user.Role = policy.RoleForLicense(info.LicenseType)
			user.VerificationStatus = entity.VerificationVerified
			return nil
		}

		info.RejectionReason = &reason
		info.VerifiedAt = nil
		info.VerifiedBy = nil
		user.Role = entity.RoleUser
		user.VerificationStatus = entity.VerificationRejected
		return nil
	})
	if err != nil {
		if errors.StatusOf(err) >= 500 {
			logger.Error("DecideVerification Error: id=%s: %v", verificationID, err)
		}
		return nil, err
	}

	content := "Your professional verification has been approved! You can now create listings."
	if info.Status == entity.ProfessionalRejected {
		content = "Your professional verification was rejected. Reason: " + reason
	}
	uc.notifications.Notify(ctx, &entity.Notification{
		UserID:   user.ID,
		SenderID: adminID,
		Type:     entity.NotificationVerificationDecided,
		Title:    "Verification " + strings.ToLower(string(info.Status)),
		Content:  content,
		Data:     map[string]string{"verificationId": info.ID, "status": string(info.Status)},
	})

	return info, nil
}

// List returns submissions for the admin review queue.
func (uc *VerificationUseCase) List(ctx context.Context, status entity.ProfessionalStatus) ([]*entity.VerificationView, error) {
	infos, err := uc.verificationRepo.List(ctx, status)
	if err != nil {
		logger.Error("ListVerifications Error: %v", err)
		return nil, err
	}

	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.UserID)
	}
	users, err := uc.userRepo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*entity.VerificationView, 0, len(infos))
	for _, info := range infos {
		views = append(views, &entity.VerificationView{ProfessionalInfo: info, User: users[info.UserID].Summary()})
	}
	return views, nil
}

func (uc *VerificationUseCase) GetMine(ctx context.Context, userID string) (*entity.ProfessionalInfo, error) {
	return uc.verificationRepo.GetByUserID(ctx, userID)
}

// humanize turns an enum value like BOOKING_REQUEST into "booking request".
func humanize(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", " ")
}
