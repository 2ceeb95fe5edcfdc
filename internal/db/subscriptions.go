package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const subscriptionColumns = `user_id, stripe_customer_id, stripe_subscription_id, status, price_id, current_period_end, updated_at`

func scanSubscription(row pgx.Row) (*Subscription, error) {
	var s Subscription
	err := row.Scan(&s.UserID, &s.StripeCustomerID, &s.StripeSubscriptionID, &s.Status,
		&s.PriceID, &s.CurrentPeriodEnd, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertSubscription writes the billing state of an account. Empty subscription
// and price IDs never overwrite known values.
func (db *DB) UpsertSubscription(ctx context.Context, s Subscription) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO subscriptions (user_id, stripe_customer_id, stripe_subscription_id, status, price_id, current_period_end)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE SET
		   stripe_customer_id = EXCLUDED.stripe_customer_id,
		   stripe_subscription_id = COALESCE(NULLIF(EXCLUDED.stripe_subscription_id, ''), subscriptions.stripe_subscription_id),
		   status = EXCLUDED.status,
		   price_id = COALESCE(NULLIF(EXCLUDED.price_id, ''), subscriptions.price_id),
		   current_period_end = COALESCE(EXCLUDED.current_period_end, subscriptions.current_period_end),
		   updated_at = NOW()`,
		s.UserID, s.StripeCustomerID, s.StripeSubscriptionID, s.Status, s.PriceID, s.CurrentPeriodEnd,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}

// GetSubscriptionByUser returns the billing state of an account, or nil.
func (db *DB) GetSubscriptionByUser(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	s, err := scanSubscription(db.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return s, nil
}

// GetSubscriptionByCustomer returns the billing state linked to a Stripe customer, or nil.
func (db *DB) GetSubscriptionByCustomer(ctx context.Context, customerID string) (*Subscription, error) {
	s, err := scanSubscription(db.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE stripe_customer_id = $1`, customerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription by customer: %w", err)
	}
	return s, nil
}
