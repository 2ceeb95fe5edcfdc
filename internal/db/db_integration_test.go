package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests run against a real PostgreSQL instance.
// Set TEST_DATABASE_URL to run them.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	database, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(database.Close)

	_, err = database.Migrate(ctx)
	require.NoError(t, err)
	return database
}

func createTestUser(t *testing.T, database *DB) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	email := "test-" + uuid.NewString()[:8] + "@example.com"
	id, err := database.CreateUser(ctx, "Test User", email, "Agência Teste", "hash")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.DeleteUser(context.Background(), id) })
	return id
}

func TestIntegration_Migrate_Idempotent(t *testing.T) {
	database := setupTestDB(t)

	applied, err := database.Migrate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestIntegration_Users(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	id := createTestUser(t, database)

	user, err := database.GetUser(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, user)

	exists, err := database.CheckEmailExists(ctx, "  "+user.Email+" ")
	require.NoError(t, err)
	assert.True(t, exists)

	byEmail, err := database.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, id, byEmail.ID)

	missing, err := database.GetUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIntegration_ProposalLifecycle(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	userID := createTestUser(t, database)

	valid := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
	p, err := database.CreateProposal(ctx, userID, ProposalInput{
		Template:          "flash",
		Title:             "Site Institucional",
		Payload:           []byte(`{"proposalData":{}}`),
		ProjectValidUntil: &valid,
	})
	require.NoError(t, err)
	assert.Contains(t, p.Slug, "site-institucional-")
	assert.False(t, p.Published)

	n, err := database.CountProposalsByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Unpublished proposals are not reachable by slug.
	hidden, err := database.GetPublishedProposalBySlug(ctx, p.Slug)
	require.NoError(t, err)
	assert.Nil(t, hidden)

	published, err := database.SetPublished(ctx, p.ID, true)
	require.NoError(t, err)
	require.NotNil(t, published)
	assert.True(t, published.Published)

	bySlug, err := database.GetPublishedProposalBySlug(ctx, p.Slug)
	require.NoError(t, err)
	require.NotNil(t, bySlug)
	assert.Equal(t, p.ID, bySlug.ID)

	updated, err := database.UpdateProposal(ctx, p.ID, ProposalInput{Template: "prime", Title: "Novo título"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "prime", updated.Template)
	assert.Equal(t, p.Slug, updated.Slug)
	assert.JSONEq(t, `{}`, string(updated.Payload))

	list, err := database.ListProposalsByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	deleted, err := database.DeleteProposal(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = database.DeleteProposal(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestIntegration_Subscriptions(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	userID := createTestUser(t, database)
	customer := "cus_" + uuid.NewString()[:12]
	end := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)

	require.NoError(t, database.UpsertSubscription(ctx, Subscription{
		UserID:               userID,
		StripeCustomerID:     customer,
		StripeSubscriptionID: "sub_123",
		Status:               SubscriptionActive,
		PriceID:              "price_pro",
		CurrentPeriodEnd:     &end,
	}))

	// A later event without subscription details keeps the known IDs.
	require.NoError(t, database.UpsertSubscription(ctx, Subscription{
		UserID:           userID,
		StripeCustomerID: customer,
		Status:           "canceled",
	}))

	sub, err := database.GetSubscriptionByCustomer(ctx, customer)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "sub_123", sub.StripeSubscriptionID)
	assert.Equal(t, "price_pro", sub.PriceID)
	assert.Equal(t, "canceled", sub.Status)
	assert.False(t, sub.Active(time.Now()))

	byUser, err := database.GetSubscriptionByUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, byUser)
	assert.Equal(t, customer, byUser.StripeCustomerID)
}
