package service_test

import (
	"context"
	"testing"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_BasicPublishesImmediately(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.submissions.Submit(ctx, application(domain.PlanBasic))
	require.NoError(t, err)
	require.NotNil(t, res.Provider)
	assert.Nil(t, res.Submission)

	providers, err := e.store.ListProviders(ctx)
	require.NoError(t, err)
	require.Len(t, providers, 1)
	p := providers[0]
	assert.Equal(t, "Ravi Electricals", p.Name)
	assert.Equal(t, "Shop 4, Link Road, Malad", p.Location)
	assert.Zero(t, p.Rating)
	assert.Zero(t, p.Reviews)
	assert.False(t, p.Featured)
	assert.Equal(t, domain.AvatarURL("Ravi Electricals"), p.ImageURL)
	assert.Equal(t, "9876543210", p.PhoneNumber)

	subs, err := e.store.ListSubmissions(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSubmit_FeaturedCreatesPendingSubmission(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.submissions.Submit(ctx, application(domain.PlanFeatured))
	require.NoError(t, err)
	require.NotNil(t, res.Submission)
	assert.Nil(t, res.Provider)

	sub := res.Submission
	assert.Equal(t, domain.StatusPending, sub.Status)
	assert.Equal(t, 199, sub.Amount)
	assert.Equal(t, "Featured", sub.PlanSelected)
	assert.Equal(t, "Ravi Kumar", sub.ApplicantName)
	assert.False(t, sub.SubmitDate.IsZero())

	subs, err := e.store.ListSubmissions(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	providers, err := e.store.ListProviders(ctx)
	require.NoError(t, err)
	assert.Empty(t, providers)
}

func TestSubmit_AmountIsZeroWithoutActivePlan(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	plans, err := e.moderation.ListPlans(ctx)
	require.NoError(t, err)
	for _, p := range plans {
		if p.Name == "Premium" {
			_, err := e.moderation.TogglePlan(ctx, p.ID)
			require.NoError(t, err)
		}
	}

	res, err := e.submissions.Submit(ctx, application(domain.PlanPremium))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Submission.Amount)
}

func TestSubmit_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	missing := application(domain.PlanBasic)
	missing.PhoneNumber = ""
	_, err := e.submissions.Submit(ctx, missing)
	var ve *domain.ErrValidation
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "phone_number", ve.Field)

	unknown := application(domain.PlanBasic)
	unknown.Category = "Astrologer"
	_, err = e.submissions.Submit(ctx, unknown)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "category", ve.Field)

	badPlan := application("gold")
	_, err = e.submissions.Submit(ctx, badPlan)
	require.ErrorAs(t, err, &ve)

	providers, err := e.store.ListProviders(ctx)
	require.NoError(t, err)
	assert.Empty(t, providers)
}

func TestApprove_PublishesFeaturedProviderOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.submissions.Submit(ctx, application(domain.PlanPremium))
	require.NoError(t, err)

	approved, err := e.submissions.Approve(ctx, res.Submission.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Submission.Status)
	assert.True(t, approved.Provider.Featured)
	assert.Equal(t, approved.Provider.ID, approved.Submission.ProviderID)

	_, err = e.submissions.Approve(ctx, res.Submission.ID)
	var it *domain.ErrInvalidTransition
	require.ErrorAs(t, err, &it)
	assert.Equal(t, domain.StatusApproved, it.From)

	providers, err := e.store.ListProviders(ctx)
	require.NoError(t, err)
	assert.Len(t, providers, 1)

	home := e.catalog.Home(ctx)
	require.Len(t, home.Featured, 1)
	assert.Equal(t, "Ravi Electricals", home.Featured[0].Name)
}

func TestReject_StoresNotesAndIsTerminal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.submissions.Submit(ctx, application(domain.PlanFeatured))
	require.NoError(t, err)

	rejected, err := e.submissions.Reject(ctx, res.Submission.ID, "payment screenshot unreadable")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)
	assert.Equal(t, "payment screenshot unreadable", rejected.Notes)

	_, err = e.submissions.Approve(ctx, res.Submission.ID)
	var it *domain.ErrInvalidTransition
	assert.ErrorAs(t, err, &it)
	_, err = e.submissions.Reject(ctx, res.Submission.ID, "again")
	assert.ErrorAs(t, err, &it)

	providers, err := e.store.ListProviders(ctx)
	require.NoError(t, err)
	assert.Empty(t, providers)
}

func TestApprove_UnknownSubmission(t *testing.T) {
	e := newEnv(t)

	_, err := e.submissions.Approve(context.Background(), "nope")
	var nf *domain.ErrNotFound
	assert.ErrorAs(t, err, &nf)
}

func TestListSubmissions_FiltersByStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.submissions.Submit(ctx, application(domain.PlanFeatured))
	require.NoError(t, err)
	_, err = e.submissions.Submit(ctx, application(domain.PlanPremium))
	require.NoError(t, err)
	_, err = e.submissions.Reject(ctx, first.Submission.ID, "no")
	require.NoError(t, err)

	all, err := e.submissions.List(ctx, "All")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := e.submissions.List(ctx, "Pending")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Premium", pending[0].PlanSelected)

	count, err := e.submissions.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = e.submissions.List(ctx, "Archived")
	var ve *domain.ErrValidation
	assert.ErrorAs(t, err, &ve)
}

func TestProviderIDsAreNeverReused(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.submissions.Submit(ctx, application(domain.PlanBasic))
	require.NoError(t, err)
	require.NoError(t, e.moderation.DeleteListing(ctx, first.Provider.ID))

	second, err := e.submissions.Submit(ctx, application(domain.PlanBasic))
	require.NoError(t, err)
	assert.Greater(t, second.Provider.ID, first.Provider.ID)
}
