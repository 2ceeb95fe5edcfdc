// Package billing keeps subscription rows in sync with Stripe webhooks.
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"
	"go.uber.org/zap"

	"github.com/jonathan/proposal-pages/internal/db"
	"github.com/jonathan/proposal-pages/internal/observability"
)

// MetadataUserID is the Checkout and Subscription metadata key carrying the account ID.
const MetadataUserID = "user_id"

// Store is the subset of storage the syncer writes to.
type Store interface {
	UpsertSubscription(ctx context.Context, s db.Subscription) error
	GetSubscriptionByCustomer(ctx context.Context, customerID string) (*db.Subscription, error)
}

// Result describes how an event was applied.
type Result struct {
	EventID string    `json:"event_id"`
	Type    string    `json:"type"`
	Handled bool      `json:"handled"`
	UserID  uuid.UUID `json:"user_id,omitempty"`
}

// Syncer verifies webhook deliveries and applies them to the store.
type Syncer struct {
	store  Store
	secret string
	logger *zap.Logger
	opts   webhook.ConstructEventOptions
}

// NewSyncer creates a Syncer verifying signatures with secret.
func NewSyncer(store Store, secret string, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		store:  store,
		secret: secret,
		logger: logger,
		opts:   webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	}
}

// HandleWebhook verifies payload against signatureHeader and applies the event.
// Unknown event types are acknowledged without changes.
func (s *Syncer) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) (*Result, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, s.secret, s.opts)
	if err != nil {
		observability.WebhookEventsTotal.WithLabelValues("unknown", "rejected").Inc()
		return nil, &SignatureError{Err: err}
	}

	res := &Result{EventID: event.ID, Type: string(event.Type)}
	log := s.logger.With(zap.String("event_id", event.ID), zap.String("type", res.Type))

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		err = s.checkoutCompleted(ctx, event, res)
	case stripe.EventTypeCustomerSubscriptionCreated,
		stripe.EventTypeCustomerSubscriptionUpdated,
		stripe.EventTypeCustomerSubscriptionDeleted:
		err = s.subscriptionChanged(ctx, event, res)
	default:
		log.Debug("webhook event ignored")
		observability.WebhookEventsTotal.WithLabelValues(res.Type, "ignored").Inc()
		return res, nil
	}

	if err != nil {
		log.Warn("webhook event failed", zap.Error(err))
		observability.WebhookEventsTotal.WithLabelValues(res.Type, "error").Inc()
		return res, err
	}
	res.Handled = true
	log.Info("webhook event applied", zap.Stringer("user_id", res.UserID))
	observability.WebhookEventsTotal.WithLabelValues(res.Type, "handled").Inc()
	return res, nil
}

func (s *Syncer) checkoutCompleted(ctx context.Context, event stripe.Event, res *Result) error {
	var session stripe.CheckoutSession
	if err := decodeObject(event, &session); err != nil {
		return err
	}

	ref := session.ClientReferenceID
	if ref == "" {
		ref = session.Metadata[MetadataUserID]
	}
	userID, err := uuid.Parse(ref)
	if err != nil {
		return &EventError{EventID: event.ID, Reason: "checkout session has no account reference"}
	}
	if session.Customer == nil || session.Customer.ID == "" {
		return &EventError{EventID: event.ID, Reason: "checkout session has no customer"}
	}

	sub := db.Subscription{
		UserID:           userID,
		StripeCustomerID: session.Customer.ID,
		Status:           db.SubscriptionActive,
	}
	if session.Subscription != nil {
		applySubscription(&sub, session.Subscription)
	}

	res.UserID = userID
	return s.store.UpsertSubscription(ctx, sub)
}

func (s *Syncer) subscriptionChanged(ctx context.Context, event stripe.Event, res *Result) error {
	var stripeSub stripe.Subscription
	if err := decodeObject(event, &stripeSub); err != nil {
		return err
	}
	if stripeSub.Customer == nil || stripeSub.Customer.ID == "" {
		return &EventError{EventID: event.ID, Reason: "subscription has no customer"}
	}
	customerID := stripeSub.Customer.ID

	userID, err := s.resolveUser(ctx, customerID, stripeSub.Metadata)
	if err != nil {
		return err
	}

	sub := db.Subscription{UserID: userID, StripeCustomerID: customerID}
	applySubscription(&sub, &stripeSub)
	if event.Type == stripe.EventTypeCustomerSubscriptionDeleted {
		sub.Status = string(stripe.SubscriptionStatusCanceled)
	}

	res.UserID = userID
	return s.store.UpsertSubscription(ctx, sub)
}

func (s *Syncer) resolveUser(ctx context.Context, customerID string, metadata map[string]string) (uuid.UUID, error) {
	existing, err := s.store.GetSubscriptionByCustomer(ctx, customerID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to look up customer: %w", err)
	}
	if existing != nil {
		return existing.UserID, nil
	}
	if id, err := uuid.Parse(metadata[MetadataUserID]); err == nil {
		return id, nil
	}
	return uuid.Nil, &UnlinkedCustomerError{CustomerID: customerID}
}

// applySubscription copies the fields of an expanded Stripe subscription.
func applySubscription(dst *db.Subscription, src *stripe.Subscription) {
	dst.StripeSubscriptionID = src.ID
	if src.Status != "" {
		dst.Status = string(src.Status)
	}
	if src.CurrentPeriodEnd > 0 {
		end := time.Unix(src.CurrentPeriodEnd, 0).UTC()
		dst.CurrentPeriodEnd = &end
	}
	if src.Items != nil {
		for _, item := range src.Items.Data {
			if item != nil && item.Price != nil && item.Price.ID != "" {
				dst.PriceID = item.Price.ID
				break
			}
		}
	}
}

func decodeObject(event stripe.Event, v any) error {
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return &EventError{EventID: event.ID, Reason: "event has no data object"}
	}
	if err := json.Unmarshal(event.Data.Raw, v); err != nil {
		return &EventError{EventID: event.ID, Reason: "malformed data object: " + err.Error()}
	}
	return nil
}
