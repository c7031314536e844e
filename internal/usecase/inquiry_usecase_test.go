package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
)

func saleListing(t *testing.T, f *fixture, owner string) *entity.Listing {
	t.Helper()
	f.verifiedProfessional(t, owner, entity.LicenseRealEstateBroker)
	listing, err := f.listings.Create(f.ctx, owner, usecase.ListingInput{
		Type:     entity.ListingSale,
		Title:    "Family home",
		Price:    price(500000),
		Currency: "USD",
		Location: "Denver",
	})
	require.NoError(t, err)
	return listing
}

func TestCreateInquiry_PurchaseIntentConverts(t *testing.T) {
	f := newFixture(t)
	listing := saleListing(t, f, "B")
	f.addUser(t, "A", entity.RoleUser, entity.VerificationUnverified)

	res, err := f.inquiries.CreateInquiry(f.ctx, "A", usecase.CreateInquiryInput{
		Type:       entity.InquiryPurchaseIntent,
		Message:    "I'd like to buy",
		ListingID:  listing.ID,
		ReceiverID: "B",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.InquiryConverted, res.Inquiry.Status)
	require.NotNil(t, res.Transaction)
	assert.Equal(t, entity.TransactionSale, res.Transaction.Type)
	assert.Equal(t, 500000.0, res.Transaction.Amount)
	assert.Equal(t, "USD", res.Transaction.Currency)
	assert.Equal(t, entity.TransactionPending, res.Transaction.Status)
	assert.Equal(t, res.Inquiry.ID, res.Transaction.InquiryID)
	assert.Equal(t, res.Transaction.ID, res.Inquiry.TransactionID)

	txns, err := f.transactions.ListTransactions(f.ctx, "A", 0)
	require.NoError(t, err)
	assert.Len(t, txns, 1, "exactly one transaction")

	items, _, err := f.notifications.List(f.ctx, "B", false, 10)
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Equal(t, `New purchase intent for "Family home" from User A`, items[0].Content)
}

func TestCreateInquiry_InformationStaysPending(t *testing.T) {
	f := newFixture(t)
	listing := saleListing(t, f, "B")
	f.addUser(t, "A", entity.RoleUser, entity.VerificationUnverified)

	res, err := f.inquiries.CreateInquiry(f.ctx, "A", usecase.CreateInquiryInput{
		Type: entity.InquiryInformation, Message: "Is parking included?", ListingID: listing.ID, ReceiverID: "B",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.InquiryPending, res.Inquiry.Status)
	assert.Nil(t, res.Transaction)
}

func TestCreateInquiry_UnknownListingDoesNotConvert(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "A", entity.RoleUser, entity.VerificationUnverified)
	f.addUser(t, "B", entity.RoleUser, entity.VerificationUnverified)

	res, err := f.inquiries.CreateInquiry(f.ctx, "A", usecase.CreateInquiryInput{
		Type: entity.InquiryBookingRequest, Message: "Book it", ListingID: "gone", ReceiverID: "B",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.InquiryPending, res.Inquiry.Status)
	assert.Nil(t, res.Transaction)
}

func TestCreateInquiry_IdempotencyKey(t *testing.T) {
	f := newFixture(t)
	listing := saleListing(t, f, "B")
	f.addUser(t, "A", entity.RoleUser, entity.VerificationUnverified)

	in := usecase.CreateInquiryInput{
		Type: entity.InquiryPurchaseIntent, Message: "Buy", ListingID: listing.ID, ReceiverID: "B", IdempotencyKey: "k-1",
	}
	first, err := f.inquiries.CreateInquiry(f.ctx, "A", in)
	require.NoError(t, err)
	second, err := f.inquiries.CreateInquiry(f.ctx, "A", in)
	require.NoError(t, err)

	assert.Equal(t, first.Inquiry.ID, second.Inquiry.ID)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)

	txns, err := f.transactions.ListTransactions(f.ctx, "A", 0)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
	items, _, err := f.notifications.List(f.ctx, "B", false, 10)
	require.NoError(t, err)
	inquiryNotes := 0
	for _, n := range items {
		if n.Type == entity.NotificationInquiryReceived {
			inquiryNotes++
		}
	}
	assert.Equal(t, 1, inquiryNotes, "retry does not notify twice")
}

func TestCreateInquiry_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.inquiries.CreateInquiry(f.ctx, "A", usecase.CreateInquiryInput{Type: entity.InquiryViewing})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestRespondToInquiry(t *testing.T) {
	f := newFixture(t)
	listing := saleListing(t, f, "B")
	f.addUser(t, "A", entity.RoleUser, entity.VerificationUnverified)
	res, err := f.inquiries.CreateInquiry(f.ctx, "A", usecase.CreateInquiryInput{
		Type: entity.InquiryViewing, Message: "Saturday?", ListingID: listing.ID, ReceiverID: "B",
	})
	require.NoError(t, err)

	_, err = f.inquiries.RespondToInquiry(f.ctx, "A", res.Inquiry.ID, entity.InquiryAccepted)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	accepted, err := f.inquiries.RespondToInquiry(f.ctx, "B", res.Inquiry.ID, entity.InquiryAccepted)
	require.NoError(t, err)
	assert.Equal(t, entity.InquiryAccepted, accepted.Status)

	_, err = f.inquiries.RespondToInquiry(f.ctx, "B", res.Inquiry.ID, entity.InquiryRejected)
	assert.True(t, errors.Is(err, "CONFLICT"))

	mine, err := f.inquiries.ListInquiries(f.ctx, "A", entity.InquiryFilter{Type: entity.InquiryViewing})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestUpdateTransactionStatus(t *testing.T) {
	f := newFixture(t)
	listing := saleListing(t, f, "B")
	f.addUser(t, "A", entity.RoleUser, entity.VerificationUnverified)
	f.addUser(t, "C", entity.RoleUser, entity.VerificationUnverified)
	res, err := f.inquiries.CreateInquiry(f.ctx, "A", usecase.CreateInquiryInput{
		Type: entity.InquiryPurchaseIntent, Message: "Buy", ListingID: listing.ID, ReceiverID: "B",
	})
	require.NoError(t, err)
	id := res.Transaction.ID

	_, err = f.transactions.GetTransaction(f.ctx, "C", id)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = f.transactions.UpdateTransactionStatus(f.ctx, "A", id, entity.TransactionConfirmed)
	assert.True(t, errors.Is(err, "CONFLICT"), "buyer cannot confirm")

	txn, err := f.transactions.UpdateTransactionStatus(f.ctx, "B", id, entity.TransactionConfirmed)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionConfirmed, txn.Status)

	txn, err = f.transactions.UpdateTransactionStatus(f.ctx, "B", id, entity.TransactionCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionCompleted, txn.Status)

	_, err = f.transactions.UpdateTransactionStatus(f.ctx, "A", id, entity.TransactionCancelled)
	assert.True(t, errors.Is(err, "CONFLICT"))

	stats, err := f.dashboard.Stats(f.ctx, "B")
	require.NoError(t, err)
	require.NotNil(t, stats.CompletedRevenue)
	assert.Equal(t, 500000.0, *stats.CompletedRevenue)
	assert.Equal(t, int64(1), *stats.InquiriesReceived)
	assert.Equal(t, int64(1), *stats.ActiveListings)

	buyer, err := f.dashboard.Stats(f.ctx, "A")
	require.NoError(t, err)
	assert.Nil(t, buyer.ActiveListings)
	assert.Equal(t, int64(1), *buyer.InquiriesSent)
	assert.Len(t, buyer.RecentTransactions, 1)
}
