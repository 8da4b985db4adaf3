package api

import (
	"context"
	"net/http"
)

const (
	advertisingsPath = "/v1/breeders/%s/poultries/%s/advertisings"
	advertisingPath  = "/v1/breeders/%s/poultries/%s/advertisings/%s"
)

type advertisingResponse struct {
	OK          bool        `json:"ok"`
	Advertising Advertising `json:"advertising"`
}

// Create puts a bird up for sale and returns the new advertising.
func (s AdvertisingsService) Create(ctx context.Context, breederID, poultryID, token string, advertising Advertising) Outcome[*Advertising] {
	return createAdvertising(ctx, s, breederID, poultryID, token, advertising)
}

func createAdvertising(ctx context.Context, r Requester, breederID, poultryID, token string, advertising Advertising) Outcome[*Advertising] {
	o := call[*advertisingResponse](ctx, r, Request{
		Method: http.MethodPost,
		Path:   r.resourcePath(advertisingsPath, breederID, poultryID),
		Token:  token,
		Fields: NewFieldMap().Set("advertising", advertising),
	}, nil)
	return mapOutcome(o, func(res *advertisingResponse) *Advertising {
		if res == nil {
			return nil
		}
		return &res.Advertising
	}, nil)
}

// Remove deletes an advertising.
func (s AdvertisingsService) Remove(ctx context.Context, breederID, poultryID, advertisingID, token string) Outcome[Ack] {
	return removeAdvertising(ctx, s, breederID, poultryID, advertisingID, token)
}

func removeAdvertising(ctx context.Context, r Requester, breederID, poultryID, advertisingID, token string) Outcome[Ack] {
	return call(ctx, r, Request{
		Method: http.MethodDelete,
		Path:   r.resourcePath(advertisingPath, breederID, poultryID, advertisingID),
		Token:  token,
	}, Ack{})
}

// UpdatePrice changes an advertising's price.
func (s AdvertisingsService) UpdatePrice(ctx context.Context, breederID, poultryID, advertisingID, token string, price float64) Outcome[Ack] {
	return updateAdvertisingPrice(ctx, s, breederID, poultryID, advertisingID, token, price)
}

func updateAdvertisingPrice(ctx context.Context, r Requester, breederID, poultryID, advertisingID, token string, price float64) Outcome[Ack] {
	return call(ctx, r, Request{
		Method: http.MethodPatch,
		Path:   r.resourcePath(advertisingPath, breederID, poultryID, advertisingID),
		Token:  token,
		Fields: NewFieldMap().Set("price", price),
	}, Ack{})
}

// AnswerQuestion answers a buyer's question on an advertising.
func (s AdvertisingsService) AnswerQuestion(ctx context.Context, breederID, poultryID, advertisingID, questionID, token string, answer AdvertisingQuestionAnswer) Outcome[Ack] {
	return answerAdvertisingQuestion(ctx, s, breederID, poultryID, advertisingID, questionID, token, answer)
}

func answerAdvertisingQuestion(ctx context.Context, r Requester, breederID, poultryID, advertisingID, questionID, token string, answer AdvertisingQuestionAnswer) Outcome[Ack] {
	return call(ctx, r, Request{
		Method: http.MethodPost,
		Path:   r.resourcePath(advertisingPath+"/questions/%s/answers", breederID, poultryID, advertisingID, questionID),
		Token:  token,
		Fields: NewFieldMap().Set("answer", answer),
	}, Ack{})
}
