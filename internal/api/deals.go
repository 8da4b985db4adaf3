package api

import (
	"context"
	"net/http"
)

const dealPath = "/v1/breeders/%s/poultries/%s/advertisings/%s/deals/%s"

// DealRef addresses a deal through its breeder, poultry and advertising.
type DealRef struct {
	BreederID     string
	PoultryID     string
	AdvertisingID string
	DealID        string
}

func (d DealRef) path(r PathResolver, action string) string {
	return r.resourcePath(dealPath+"/"+action, d.BreederID, d.PoultryID, d.AdvertisingID, d.DealID)
}

// Confirm accepts a deal on the seller's side.
func (s DealsService) Confirm(ctx context.Context, deal DealRef, token string) Outcome[Ack] {
	return transitionDeal(ctx, s, deal, "confirm", token, nil)
}

// Cancel cancels a deal, recording why.
func (s DealsService) Cancel(ctx context.Context, deal DealRef, token, reason string) Outcome[Ack] {
	return transitionDeal(ctx, s, deal, "cancel", token, NewFieldMap().Set("reason", reason))
}

// Finish marks a deal as completed.
func (s DealsService) Finish(ctx context.Context, deal DealRef, token string) Outcome[Ack] {
	return transitionDeal(ctx, s, deal, "finish", token, nil)
}

func transitionDeal(ctx context.Context, r Requester, deal DealRef, action, token string, fields *FieldMap) Outcome[Ack] {
	return call(ctx, r, Request{
		Method: http.MethodPost,
		Path:   deal.path(r, action),
		Token:  token,
		Fields: fields,
	}, Ack{})
}
