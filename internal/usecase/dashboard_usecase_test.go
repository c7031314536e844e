package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	listing := saleListing(t, f, "B")
	f.addUser(t, "A", entity.RoleUser, entity.VerificationUnverified)

	res, err := f.inquiries.CreateInquiry(f.ctx, "A", usecase.CreateInquiryInput{
		Type: entity.InquiryPurchaseIntent, Message: "Buy", ListingID: listing.ID, ReceiverID: "B",
	})
	require.NoError(t, err)
	_, err = f.inquiries.CreateInquiry(f.ctx, "A", usecase.CreateInquiryInput{
		Type: entity.InquiryInformation, Message: "HOA fees?", ListingID: listing.ID, ReceiverID: "B",
	})
	require.NoError(t, err)

	_, err = f.transactions.UpdateTransactionStatus(f.ctx, "B", res.Transaction.ID, entity.TransactionConfirmed)
	require.NoError(t, err)
	_, err = f.transactions.UpdateTransactionStatus(f.ctx, "B", res.Transaction.ID, entity.TransactionCompleted)
	require.NoError(t, err)

	seller, err := f.dashboard.Stats(f.ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBroker, seller.Role)
	assert.Equal(t, int64(1), *seller.ActiveListings)
	assert.Equal(t, int64(1), *seller.TotalListings)
	assert.Equal(t, int64(2), *seller.InquiriesReceived)
	assert.Equal(t, int64(1), *seller.PendingInquiries)
	assert.Equal(t, 500000.0, *seller.CompletedRevenue)
	assert.Equal(t, int64(1), seller.Transactions)
	assert.Nil(t, seller.InquiriesSent)

	buyer, err := f.dashboard.Stats(f.ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, int64(2), *buyer.InquiriesSent)
	assert.Len(t, buyer.RecentTransactions, 1)
	assert.Nil(t, buyer.ActiveListings)
	assert.Nil(t, buyer.PendingVerifications)

	f.addUser(t, "C", entity.RoleUser, entity.VerificationUnverified)
	_, err = f.verification.Submit(f.ctx, "C", f.submission(entity.LicenseContractor))
	require.NoError(t, err)

	admin, err := f.dashboard.Stats(f.ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, admin.PendingVerifications)
	assert.Equal(t, int64(1), *admin.PendingVerifications)
}
