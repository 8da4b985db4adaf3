package dryrun

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsEnabled(ctx))
	assert.True(t, IsEnabled(WithDryRun(ctx, true)))
	assert.False(t, IsEnabled(WithDryRun(ctx, false)))
}

func TestDescribe_JSON(t *testing.T) {
	req, err := http.NewRequest(http.MethodPost, "http://bff/v1/deals/d-1/cancel", strings.NewReader(`{"reason":"x"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	p, err := Describe(req)
	require.NoError(t, err)
	assert.Equal(t, `{"reason":"x"}`, p.Body)
	assert.Empty(t, p.Parts)
	assert.True(t, p.DryRun)
}

func TestDescribe_Multipart(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("name", "Farm A"))
	fw, err := w.CreateFormFile("newImages", "a.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("12345"))
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPatch, "http://bff/v1/breeders/b-1", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())

	p, err := Describe(req)
	require.NoError(t, err)
	assert.Equal(t, []Part{
		{Name: "name", Value: "Farm A"},
		{Name: "newImages", FileName: "a.png", Size: 5},
	}, p.Parts)

	var out bytes.Buffer
	p.Write(&out)
	assert.Contains(t, out.String(), "[DRY-RUN] Would PATCH http://bff/v1/breeders/b-1")
	assert.Contains(t, out.String(), "newImages: a.png (5 bytes)")
	assert.Contains(t, out.String(), "No changes made")
}

func TestTransport(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var previews []*Preview
	client := &http.Client{Transport: &Transport{Emit: func(p *Preview) error {
		previews = append(previews, p)
		return nil
	}}}

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()

	_, err = client.Post(server.URL, "application/json", strings.NewReader(`{}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSkipped))

	assert.Equal(t, 1, hits)
	require.Len(t, previews, 1)
	assert.Equal(t, http.MethodPost, previews[0].Method)
}
