package cmd

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adsPath = "/v1/breeders/b-1/poultries/p-1/advertisings"

func TestAdvertisingsCreate(t *testing.T) {
	rh := newRouteHandler().On("POST", adsPath,
		jsonResponse(200, `{"ok":true,"advertising":{"id":"ad-1","price":250}}`))
	setupTestEnv(t, rh)

	res := run(t, "advertisings", "create", "b-1", "p-1", "--price", "250", "--external-id", "ext-1")
	require.NoError(t, res.err)
	assert.Equal(t, "Created advertising ad-1\n", res.stdout)

	req := rh.last(t)
	assert.Equal(t, "application/json", req.ContentType)
	assert.JSONEq(t, `{"advertising":{"externalId":"ext-1","price":250}}`, string(req.Body))

	res = run(t, "ads", "create", "b-1", "p-1", "--price", "250", "-o", "json")
	require.NoError(t, res.err)
	assert.Equal(t, "ad-1", decodeJSON(t, res.stdout)["id"])
}

func TestAdvertisingsCreate_RejectsNegativePrice(t *testing.T) {
	rh := newRouteHandler()
	setupTestEnv(t, rh)

	res := run(t, "advertisings", "create", "b-1", "p-1", "--price=-1")
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))
	assert.Empty(t, rh.Requests())
}

func TestAdvertisingsUpdatePrice(t *testing.T) {
	rh := newRouteHandler().On("PATCH", adsPath+"/ad-1", jsonResponse(200, `{"ok":true}`))
	setupTestEnv(t, rh)

	res := run(t, "advertisings", "update-price", "b-1", "p-1", "ad-1", "--price", "99.9")
	require.NoError(t, res.err)
	assert.Equal(t, "Updated price of advertising ad-1 to 99.90\n", res.stdout)
	assert.JSONEq(t, `{"price":99.9}`, string(rh.last(t).Body))
}

func TestAdvertisingsAnswer(t *testing.T) {
	rh := newRouteHandler().On("POST", adsPath+"/ad-1/questions/q-1/answers", jsonResponse(200, `{"ok":true}`))
	setupTestEnv(t, rh)

	res := run(t, "advertisings", "answer", "b-1", "p-1", "ad-1", "q-1", "--answer", "  Yes, still available ")
	require.NoError(t, res.err)
	assert.Equal(t, "Answered question q-1\n", res.stdout)
	assert.JSONEq(t, `{"answer":{"content":"Yes, still available"}}`, string(rh.last(t).Body))

	res = run(t, "advertisings", "answer", "b-1", "p-1", "ad-1", "q-1", "--content", " ")
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))
}

func TestAdvertisingsRemove_Single(t *testing.T) {
	rh := newRouteHandler().On("DELETE", adsPath+"/ad-1", jsonResponse(200, `{"ok":true}`))
	setupTestEnv(t, rh)

	res := run(t, "advertisings", "rm", "b-1", "p-1", "ad-1")
	require.NoError(t, res.err)
	assert.Equal(t, "Removed advertising ad-1\n", res.stdout)
	assert.Equal(t, http.MethodDelete, rh.last(t).Method)
}

func TestAdvertisingsRemove_PartialFailure(t *testing.T) {
	rh := newRouteHandler().
		On("DELETE", adsPath+"/ad-1", jsonResponse(200, `{"ok":true}`)).
		On("DELETE", adsPath+"/ad-2", jsonResponse(403, `{"errorKind":"FORBIDDEN","message":"not yours"}`)).
		On("DELETE", adsPath+"/ad-3", jsonResponse(200, `{"ok":true}`))
	setupTestEnv(t, rh)

	res := run(t, "advertisings", "remove", "b-1", "p-1", "ad-1", "ad-2", "ad-3", "--concurrency", "2")
	require.Error(t, res.err)
	assert.Equal(t, exitForbidden, ExitCode(res.err))
	assert.Equal(t, "Removed advertising ad-1\nRemoved advertising ad-3\n", res.stdout)
	assert.Contains(t, res.stderr, "Failed to remove advertising ad-2")
	assert.Contains(t, res.stderr, "BFF FORBIDDEN (HTTP 403): not yours")
	assert.Contains(t, res.err.Error(), "removed 2 of 3 advertisings")
	assert.Len(t, rh.Requests(), 3)
}

func TestAdvertisingsRemove_JSONResults(t *testing.T) {
	setupTestEnv(t, newRouteHandler().On("DELETE", adsPath+"/ad-1", jsonResponse(200, `{"ok":true}`)))

	res := run(t, "advertisings", "remove", "b-1", "p-1", "ad-1", "ad-2", "-o", "json", "--compact")
	require.Error(t, res.err)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `{"id":"ad-1","success":true}`)
	assert.Contains(t, lines[0], `"id":"ad-2","success":false`)
}
