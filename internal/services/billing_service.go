package services

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"

	"practicelog/internal/identity"
	"practicelog/internal/models/request_models"
	"practicelog/internal/models/response_models"
	"practicelog/internal/workspace"
	"practicelog/pkg/utils"
)

type BillingConfig struct {
	SecretKey   string
	PriceIDPro  string
	FrontendURL string
}

func (c BillingConfig) Enabled() bool {
	return c.SecretKey != "" && c.PriceIDPro != "" && c.FrontendURL != ""
}

type BillingServiceInterface interface {
	Checkout(ctx context.Context, ws *workspace.Workspace, req request_models.CheckoutRequest) (*response_models.CheckoutView, error)
}

// checkoutCreator is the one Stripe call we make, swapped out in tests.
type checkoutCreator func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)

type BillingService struct {
	cfg    BillingConfig
	create checkoutCreator
	logger *zap.Logger
}

func NewBillingService(cfg BillingConfig, logger *zap.Logger) BillingServiceInterface {
	b := &BillingService{cfg: cfg, logger: logger}
	if cfg.Enabled() {
		sc := &client.API{}
		sc.Init(cfg.SecretKey, nil)
		b.create = sc.CheckoutSessions.New
	}
	return b
}

// Checkout starts a subscription checkout for the Pro plan. The profile flips
// to Pro on the backend once Stripe reports the payment; the client then
// calls the profile refresh.
func (b *BillingService) Checkout(ctx context.Context, ws *workspace.Workspace, req request_models.CheckoutRequest) (*response_models.CheckoutView, error) {
	if !b.cfg.Enabled() || b.create == nil {
		return nil, utils.ErrBillingNotConfigured
	}
	state := ws.Identity.State()
	if !state.SignedIn() {
		return nil, utils.ErrUnauthenticated
	}
	if ws.Entitlement().Pro {
		return nil, utils.ErrAlreadyPro
	}

	params := buildCheckoutParams(b.cfg, state, req.ReturnPath)
	params.Context = ctx
	sess, err := b.create(params)
	if err != nil {
		b.logger.Error("stripe checkout session failed", zap.String("user_id", state.UserID()), zap.Error(err))
		return nil, err
	}
	return &response_models.CheckoutView{URL: sess.URL, SessionID: sess.ID}, nil
}

func buildCheckoutParams(cfg BillingConfig, state identity.State, returnPath string) *stripe.CheckoutSessionParams {
	base := strings.TrimRight(cfg.FrontendURL, "/") + returnPath
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(cfg.PriceIDPro),
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(state.UserID()),
		SuccessURL:        stripe.String(base + sep + "billing=success"),
		CancelURL:         stripe.String(base + sep + "billing=cancel"),
		Metadata:          map[string]string{"user_id": state.UserID()},
	}
	if state.Profile != nil && state.Profile.StripeCustomerID != nil && *state.Profile.StripeCustomerID != "" {
		params.Customer = state.Profile.StripeCustomerID
	} else if state.User != nil && state.User.Email != "" {
		params.CustomerEmail = stripe.String(state.User.Email)
	}
	return params
}
