package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
)

func TestVerificationSubmit_RequiresFields(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u1", entity.RoleUser, entity.VerificationUnverified)

	in := f.submission(entity.LicenseRealEstateAgent)
	in.VerificationDocuments = nil
	_, err := f.verification.Submit(f.ctx, "u1", in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
	assert.Contains(t, err.Error(), "verification_documents")

	assert.Equal(t, entity.VerificationUnverified, f.user(t, "u1").VerificationStatus)
}

func TestVerificationSubmit_NotifiesEveryAdmin(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "a1", entity.RoleAdmin, entity.VerificationVerified)
	f.addUser(t, "a2", entity.RoleAdmin, entity.VerificationVerified)
	f.addUser(t, "u1", entity.RoleUser, entity.VerificationUnverified)

	info, err := f.verification.Submit(f.ctx, "u1", f.submission(entity.LicenseContractor))
	require.NoError(t, err)
	assert.Equal(t, entity.ProfessionalPending, info.Status)
	assert.Equal(t, entity.VerificationPending, f.user(t, "u1").VerificationStatus)

	for _, admin := range []string{"a1", "a2"} {
		items, _, err := f.notifications.List(f.ctx, admin, false, 10)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, entity.NotificationVerificationSubmitted, items[0].Type)
		assert.Equal(t, info.ID, items[0].Data["verificationId"])
	}
}

func TestVerificationDecide_ApproveBrokerPromotesRole(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "admin", entity.RoleAdmin, entity.VerificationVerified)
	f.addUser(t, "u", entity.RoleUser, entity.VerificationUnverified)

	info, err := f.verification.Submit(f.ctx, "u", f.submission(entity.LicenseRealEstateBroker))
	require.NoError(t, err)

	decided, err := f.verification.Decide(f.ctx, "admin", info.ID, usecase.DecideVerificationInput{Status: entity.ProfessionalVerified})
	require.NoError(t, err)
	assert.Equal(t, entity.ProfessionalVerified, decided.Status)
	require.NotNil(t, decided.VerifiedBy)
	assert.Equal(t, "admin", *decided.VerifiedBy)
	assert.NotNil(t, decided.VerifiedAt)
	assert.Nil(t, decided.RejectionReason)

	u := f.user(t, "u")
	assert.Equal(t, entity.RoleBroker, u.Role)
	assert.Equal(t, entity.VerificationVerified, u.VerificationStatus)

	items, _, err := f.notifications.List(f.ctx, "u", false, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, entity.NotificationVerificationDecided, items[0].Type)
	assert.Contains(t, items[0].Content, "approved")
}

func TestVerificationDecide_RoleMapping(t *testing.T) {
	cases := map[entity.LicenseType]entity.Role{
		entity.LicenseRealEstateAgent: entity.RoleAgent,
		entity.LicensePropertyManager: entity.RolePropertyManager,
		entity.LicenseBusiness:        entity.RoleServiceProvider,
	}
	for license, role := range cases {
		t.Run(string(license), func(t *testing.T) {
			f := newFixture(t)
			u := f.verifiedProfessional(t, "pro", license)
			assert.Equal(t, role, u.Role)
			assert.Equal(t, entity.VerificationVerified, u.VerificationStatus)
		})
	}
}

func TestVerificationDecide_RejectWithoutReasonChangesNothing(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "admin", entity.RoleAdmin, entity.VerificationVerified)
	f.addUser(t, "u", entity.RoleUser, entity.VerificationUnverified)
	info, err := f.verification.Submit(f.ctx, "u", f.submission(entity.LicenseRealEstateAgent))
	require.NoError(t, err)

	_, err = f.verification.Decide(f.ctx, "admin", info.ID, usecase.DecideVerificationInput{Status: entity.ProfessionalRejected, RejectionReason: "  "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	stored, err := f.repos.Verifications.GetByID(f.ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProfessionalPending, stored.Status)
	assert.Equal(t, entity.VerificationPending, f.user(t, "u").VerificationStatus)
	assert.Equal(t, entity.RoleUser, f.user(t, "u").Role)
}

func TestVerificationDecide_RejectThenResubmit(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "admin", entity.RoleAdmin, entity.VerificationVerified)
	f.addUser(t, "u", entity.RoleUser, entity.VerificationUnverified)
	info, err := f.verification.Submit(f.ctx, "u", f.submission(entity.LicenseRealEstateAgent))
	require.NoError(t, err)

	rejected, err := f.verification.Decide(f.ctx, "admin", info.ID, usecase.DecideVerificationInput{
		Status:          entity.ProfessionalRejected,
		RejectionReason: "License number does not match registry",
	})
	require.NoError(t, err)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, entity.RoleUser, f.user(t, "u").Role)
	assert.Equal(t, entity.VerificationRejected, f.user(t, "u").VerificationStatus)

	resubmitted, err := f.verification.Submit(f.ctx, "u", f.submission(entity.LicenseRealEstateAgent))
	require.NoError(t, err)
	assert.Equal(t, info.ID, resubmitted.ID, "submission is keyed by user")
	assert.Equal(t, entity.ProfessionalPending, resubmitted.Status)
	assert.Nil(t, resubmitted.RejectionReason)
	assert.Nil(t, resubmitted.VerifiedAt)
	assert.Nil(t, resubmitted.VerifiedBy)
	assert.Equal(t, entity.VerificationPending, f.user(t, "u").VerificationStatus)

	items, _, err := f.notifications.List(f.ctx, "u", false, 10)
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Contains(t, items[0].Content, "Reason: License number does not match registry")
}

func TestVerificationDecide_Guards(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "admin", entity.RoleAdmin, entity.VerificationVerified)
	f.addUser(t, "u", entity.RoleUser, entity.VerificationUnverified)
	info, err := f.verification.Submit(f.ctx, "u", f.submission(entity.LicenseRealEstateAgent))
	require.NoError(t, err)

	_, err = f.verification.Decide(f.ctx, "u", info.ID, usecase.DecideVerificationInput{Status: entity.ProfessionalVerified})
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = f.verification.Decide(f.ctx, "admin", "missing", usecase.DecideVerificationInput{Status: entity.ProfessionalVerified})
	assert.True(t, errors.IsNotFound(err))

	_, err = f.verification.Decide(f.ctx, "admin", info.ID, usecase.DecideVerificationInput{Status: entity.ProfessionalVerified})
	require.NoError(t, err)

	// A second decision on the same submission loses.
	_, err = f.verification.Decide(f.ctx, "admin", info.ID, usecase.DecideVerificationInput{Status: entity.ProfessionalRejected, RejectionReason: "late"})
	assert.True(t, errors.Is(err, "CONFLICT"))
	assert.Equal(t, entity.RoleAgent, f.user(t, "u").Role)
}

func TestVerificationList(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "a", entity.RoleUser, entity.VerificationUnverified)
	f.addUser(t, "b", entity.RoleUser, entity.VerificationUnverified)
	_, err := f.verification.Submit(f.ctx, "a", f.submission(entity.LicenseOther))
	require.NoError(t, err)
	_, err = f.verification.Submit(f.ctx, "b", f.submission(entity.LicenseOther))
	require.NoError(t, err)

	views, err := f.verification.List(f.ctx, entity.ProfessionalPending)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "b", views[0].UserID, "newest first")
	require.NotNil(t, views[0].User)
	assert.Equal(t, "User b", views[0].User.Name)

	views, err = f.verification.List(f.ctx, entity.ProfessionalVerified)
	require.NoError(t, err)
	assert.Empty(t, views)
}
