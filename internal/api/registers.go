package api

import (
	"context"
	"net/http"
	"net/url"
)

const registersPath = "/v1/breeders/%s/poultries/%s/registers"

type registersResponse struct {
	OK        bool              `json:"ok"`
	Registers []PoultryRegister `json:"registers"`
}

// Create records a register for a bird, uploading attachments as "files".
func (s RegistersService) Create(ctx context.Context, breederID, poultryID, token string, register PoultryRegister, files []File) Outcome[Ack] {
	return createRegister(ctx, s, breederID, poultryID, token, register, files)
}

func createRegister(ctx context.Context, r Requester, breederID, poultryID, token string, register PoultryRegister, files []File) Outcome[Ack] {
	fields := NewFieldMap().
		Set("register", register).
		Set("files", files)
	return call(ctx, r, Request{
		Method:   http.MethodPost,
		Path:     r.resourcePath(registersPath, breederID, poultryID),
		Token:    token,
		Fields:   fields,
		Encoding: EncodeMultipart,
	}, Ack{})
}

// List retrieves a bird's registers, optionally filtered by register type.
// On failure the slice is empty, never nil.
func (s RegistersService) List(ctx context.Context, breederID, poultryID, token, registerType string) Outcome[[]PoultryRegister] {
	return listRegisters(ctx, s, breederID, poultryID, token, registerType)
}

func listRegisters(ctx context.Context, r Requester, breederID, poultryID, token, registerType string) Outcome[[]PoultryRegister] {
	var query url.Values
	if registerType != "" {
		query = url.Values{"registerType": {registerType}}
	}
	o := call(ctx, r, Request{
		Method: http.MethodGet,
		Path:   r.resourcePath(registersPath, breederID, poultryID),
		Query:  query,
		Token:  token,
	}, registersResponse{})
	return mapOutcome(o, func(res registersResponse) []PoultryRegister {
		if res.Registers == nil {
			return []PoultryRegister{}
		}
		return res.Registers
	}, []PoultryRegister{})
}
