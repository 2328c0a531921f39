package services

import (
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v79"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"practicelog/internal/identity"
	"practicelog/internal/models/db_models"
	"practicelog/internal/models/request_models"
	"practicelog/pkg/utils"
)

var billingCfg = BillingConfig{SecretKey: "sk_test", PriceIDPro: "price_pro", FrontendURL: "https://app.example.com/"}

func TestBuildCheckoutParams(t *testing.T) {
	state := identity.State{
		User:        &identity.User{ID: "u1", Email: "coach@example.com"},
		Profile:     &db_models.Profile{ID: "u1"},
		AccessToken: "at",
	}
	params := buildCheckoutParams(billingCfg, state, "/settings")

	assert.Equal(t, string(stripe.CheckoutSessionModeSubscription), *params.Mode)
	require.Len(t, params.LineItems, 1)
	assert.Equal(t, "price_pro", *params.LineItems[0].Price)
	assert.Equal(t, int64(1), *params.LineItems[0].Quantity)
	assert.Equal(t, "u1", *params.ClientReferenceID)
	assert.Equal(t, "https://app.example.com/settings?billing=success", *params.SuccessURL)
	assert.Equal(t, "https://app.example.com/settings?billing=cancel", *params.CancelURL)
	assert.Equal(t, "coach@example.com", *params.CustomerEmail)
	assert.Nil(t, params.Customer)

	customer := "cus_123"
	state.Profile.StripeCustomerID = &customer
	params = buildCheckoutParams(billingCfg, state, "")
	assert.Equal(t, "cus_123", *params.Customer)
	assert.Nil(t, params.CustomerEmail)
	assert.Equal(t, "https://app.example.com?billing=success", *params.SuccessURL)
}

func TestCheckoutNotConfigured(t *testing.T) {
	svc := NewBillingService(BillingConfig{}, zap.NewNop())
	_, err := svc.Checkout(t.Context(), nil, request_models.CheckoutRequest{})
	assert.ErrorIs(t, err, utils.ErrBillingNotConfigured)
}

func TestCheckout(t *testing.T) {
	env := newServiceEnv(t)
	ws := env.signedIn(t, false)

	var got *stripe.CheckoutSessionParams
	svc := &BillingService{cfg: billingCfg, logger: zap.NewNop(), create: func(p *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		got = p
		return &stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/c/cs_1"}, nil
	}}

	view, err := svc.Checkout(t.Context(), ws, request_models.CheckoutRequest{ReturnPath: "/"})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_1", view.URL)
	assert.Equal(t, ws.Identity.State().UserID(), *got.ClientReferenceID)

	svc.create = func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		return nil, errors.New("card declined")
	}
	_, err = svc.Checkout(t.Context(), ws, request_models.CheckoutRequest{})
	assert.EqualError(t, err, "card declined")
}

func TestCheckoutAlreadyPro(t *testing.T) {
	env := newServiceEnv(t)
	ws := env.signedIn(t, true)
	svc := &BillingService{cfg: billingCfg, logger: zap.NewNop(), create: func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		t.Fatal("stripe must not be called")
		return nil, nil
	}}
	_, err := svc.Checkout(t.Context(), ws, request_models.CheckoutRequest{})
	assert.ErrorIs(t, err, utils.ErrAlreadyPro)
}
