package api

import (
	"context"
	"net/http"
	"strings"
)

const breederPath = "/v1/breeders/%s"

// BreederUpdate holds the changes sent by Breeders.Update.
type BreederUpdate struct {
	// Breeder carries the changed fields; zero fields are not sent.
	Breeder           Breeder
	NewImages         []File
	RemovedImageIDs   []string
	RemovedContactIDs []string
	Contacts          []BreederContact
}

// Get retrieves a breeder with its images and contacts.
func (s BreedersService) Get(ctx context.Context, breederID, token string) Outcome[*GetBreederResponse] {
	return getBreeder(ctx, s, breederID, token)
}

func getBreeder(ctx context.Context, r Requester, breederID, token string) Outcome[*GetBreederResponse] {
	return call[*GetBreederResponse](ctx, r, Request{
		Method: http.MethodGet,
		Path:   r.resourcePath(breederPath, breederID),
		Token:  token,
	}, nil)
}

// Update patches a breeder. The endpoint always takes multipart form-data.
func (s BreedersService) Update(ctx context.Context, breederID, token string, update BreederUpdate) Outcome[Ack] {
	return updateBreeder(ctx, s, breederID, token, update)
}

func updateBreeder(ctx context.Context, r Requester, breederID, token string, update BreederUpdate) Outcome[Ack] {
	fields, err := FieldsOf(update.Breeder)
	if err != nil {
		panic(err)
	}
	fields.Set("newImages", update.NewImages)
	if len(update.RemovedImageIDs) > 0 {
		fields.Set("deletedImages", strings.Join(update.RemovedImageIDs, ","))
	}
	if len(update.RemovedContactIDs) > 0 {
		fields.Set("deletedContacts", strings.Join(update.RemovedContactIDs, ","))
	}
	if len(update.Contacts) > 0 {
		fields.Set("contacts", update.Contacts)
	}

	return call(ctx, r, Request{
		Method:   http.MethodPatch,
		Path:     r.resourcePath(breederPath, breederID),
		Token:    token,
		Fields:   fields,
		Encoding: EncodeMultipart,
	}, Ack{})
}
