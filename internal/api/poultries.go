package api

import (
	"context"
	"net/http"
	"strings"
)

const (
	poultriesPath = "/v1/breeders/%s/poultries"
	poultryPath   = "/v1/breeders/%s/poultries/%s"
)

// PoultryUpdate holds the changes sent by Poultries.Update.
type PoultryUpdate struct {
	Poultry         Poultry
	Images          []File
	DeletedImageIDs []string
}

// Create adds a bird to a breeder's flock, uploading images as "files".
func (s PoultriesService) Create(ctx context.Context, breederID, token string, poultry Poultry, images []File) Outcome[*PostPoultryResponse] {
	return createPoultry(ctx, s, breederID, token, poultry, images)
}

func createPoultry(ctx context.Context, r Requester, breederID, token string, poultry Poultry, images []File) Outcome[*PostPoultryResponse] {
	fields := NewFieldMap().
		Set("poultry", poultry).
		Set("files", images)
	return call[*PostPoultryResponse](ctx, r, Request{
		Method:   http.MethodPost,
		Path:     r.resourcePath(poultriesPath, breederID),
		Token:    token,
		Fields:   fields,
		Encoding: EncodeMultipart,
	}, nil)
}

// List retrieves a breeder's flock grouped by category. On failure every
// group is empty, never nil.
func (s PoultriesService) List(ctx context.Context, breederID, token string) Outcome[PoultryGroups] {
	return listPoultries(ctx, s, breederID, token)
}

func listPoultries(ctx context.Context, r Requester, breederID, token string) Outcome[PoultryGroups] {
	o := call[poultriesResponse](ctx, r, Request{
		Method: http.MethodGet,
		Path:   r.resourcePath(poultriesPath, breederID),
		Token:  token,
	}, poultriesResponse{})
	return mapOutcome(o, func(res poultriesResponse) PoultryGroups {
		return nonNilGroups(res.PoultryGroups)
	}, emptyPoultryGroups())
}

func nonNilGroups(g PoultryGroups) PoultryGroups {
	empty := emptyPoultryGroups()
	if g.Reproductives == nil {
		g.Reproductives = empty.Reproductives
	}
	if g.Matrix == nil {
		g.Matrix = empty.Matrix
	}
	if g.Male == nil {
		g.Male = empty.Male
	}
	if g.Female == nil {
		g.Female = empty.Female
	}
	return g
}

// Get retrieves one bird with its images, registers and advertisings.
func (s PoultriesService) Get(ctx context.Context, breederID, poultryID, token string) Outcome[*GetPoultryResponse] {
	return getPoultry(ctx, s, breederID, poultryID, token)
}

func getPoultry(ctx context.Context, r Requester, breederID, poultryID, token string) Outcome[*GetPoultryResponse] {
	return call[*GetPoultryResponse](ctx, r, Request{
		Method: http.MethodGet,
		Path:   r.resourcePath(poultryPath, breederID, poultryID),
		Token:  token,
	}, nil)
}

// Update patches a bird. The endpoint always takes multipart form-data.
func (s PoultriesService) Update(ctx context.Context, breederID, poultryID, token string, update PoultryUpdate) Outcome[Ack] {
	return updatePoultry(ctx, s, breederID, poultryID, token, update)
}

func updatePoultry(ctx context.Context, r Requester, breederID, poultryID, token string, update PoultryUpdate) Outcome[Ack] {
	fields := NewFieldMap().
		Set("poultry", update.Poultry).
		Set("files", update.Images)
	if len(update.DeletedImageIDs) > 0 {
		fields.Set("deletedImages", strings.Join(update.DeletedImageIDs, ","))
	}
	return call(ctx, r, Request{
		Method:   http.MethodPatch,
		Path:     r.resourcePath(poultryPath, breederID, poultryID),
		Token:    token,
		Fields:   fields,
		Encoding: EncodeMultipart,
	}, Ack{})
}

// Transfer moves a bird to another breeder.
func (s PoultriesService) Transfer(ctx context.Context, breederID, poultryID, targetBreederID, token string) Outcome[Ack] {
	return transferPoultry(ctx, s, breederID, poultryID, targetBreederID, token)
}

func transferPoultry(ctx context.Context, r Requester, breederID, poultryID, targetBreederID, token string) Outcome[Ack] {
	return call(ctx, r, Request{
		Method: http.MethodPost,
		Path:   r.resourcePath(poultryPath+"/transfer", breederID, poultryID),
		Token:  token,
		Fields: NewFieldMap().Set("breederId", targetBreederID),
	}, Ack{})
}
