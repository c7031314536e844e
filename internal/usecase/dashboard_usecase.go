package usecase

import (
	"context"

	"greia/internal/domain/entity"
	"greia/internal/domain/policy"
	"greia/internal/domain/repository"
	"greia/pkg/logger"
)

type DashboardUseCase struct {
	userRepo         repository.UserRepository
	listingRepo      repository.ListingRepository
	inquiryRepo      repository.InquiryRepository
	transactionRepo  repository.TransactionRepository
	verificationRepo repository.VerificationRepository
}

func NewDashboardUseCase(
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	inquiryRepo repository.InquiryRepository,
	transactionRepo repository.TransactionRepository,
	verificationRepo repository.VerificationRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		userRepo:         userRepo,
		listingRepo:      listingRepo,
		inquiryRepo:      inquiryRepo,
		transactionRepo:  transactionRepo,
		verificationRepo: verificationRepo,
	}
}

type DashboardStats struct {
	Role entity.Role `json:"role"`

	ActiveListings    *int64   `json:"active_listings,omitempty"`
	TotalListings     *int64   `json:"total_listings,omitempty"`
	InquiriesReceived *int64   `json:"inquiries_received,omitempty"`
	PendingInquiries  *int64   `json:"pending_inquiries,omitempty"`
	CompletedRevenue  *float64 `json:"completed_revenue,omitempty"`

	InquiriesSent      *int64                `json:"inquiries_sent,omitempty"`
	RecentTransactions []*entity.Transaction `json:"recent_transactions,omitempty"`

	Transactions         int64  `json:"transactions"`
	PendingVerifications *int64 `json:"pending_verifications,omitempty"`
}

// Stats returns the caller's dashboard counters. Professionals see their
// selling side, everyone else their buying side.
func (uc *DashboardUseCase) Stats(ctx context.Context, userID string) (*DashboardStats, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{Role: user.Role}
	if stats.Transactions, err = uc.transactionRepo.CountForUser(ctx, userID); err != nil {
		return nil, uc.fail(userID, err)
	}

	if policy.IsProfessional(user.Role) {
		active, err := uc.listingRepo.Count(ctx, entity.ListingFilter{OwnerID: userID, Status: entity.ListingActive})
		if err != nil {
			return nil, uc.fail(userID, err)
		}
		total, err := uc.listingRepo.Count(ctx, entity.ListingFilter{OwnerID: userID})
		if err != nil {
			return nil, uc.fail(userID, err)
		}
		received, err := uc.inquiryRepo.Count(ctx, repository.InquiryCount{ReceiverID: userID})
		if err != nil {
			return nil, uc.fail(userID, err)
		}
		pending, err := uc.inquiryRepo.Count(ctx, repository.InquiryCount{ReceiverID: userID, Status: entity.InquiryPending})
		if err != nil {
			return nil, uc.fail(userID, err)
		}
		revenue, err := uc.transactionRepo.SumAmount(ctx, userID, entity.TransactionCompleted)
		if err != nil {
			return nil, uc.fail(userID, err)
		}
		stats.ActiveListings, stats.TotalListings = &active, &total
		stats.InquiriesReceived, stats.PendingInquiries = &received, &pending
		stats.CompletedRevenue = &revenue
	} else {
		sent, err := uc.inquiryRepo.Count(ctx, repository.InquiryCount{CreatorID: userID})
		if err != nil {
			return nil, uc.fail(userID, err)
		}
		recent, err := uc.transactionRepo.ListForUser(ctx, userID, 5)
		if err != nil {
			return nil, uc.fail(userID, err)
		}
		stats.InquiriesSent = &sent
		stats.RecentTransactions = nonNil(recent)
	}

	if policy.IsAdmin(user.Role) {
		pending, err := uc.verificationRepo.CountByStatus(ctx, entity.ProfessionalPending)
		if err != nil {
			return nil, uc.fail(userID, err)
		}
		stats.PendingVerifications = &pending
	}
	return stats, nil
}

func (uc *DashboardUseCase) fail(userID string, err error) error {
	logger.Error("DashboardStats Error: user=%s: %v", userID, err)
	return err
}
