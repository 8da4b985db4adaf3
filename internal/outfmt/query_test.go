package outfmt

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetQuery(ctx))
	assert.Equal(t, ".ok", GetQuery(WithQuery(ctx, ".ok")))
}

type sample struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestApplyQuery(t *testing.T) {
	got, err := ApplyQuery(sample{Name: "Galo", Price: 150.5}, ".price")
	require.NoError(t, err)
	assert.Equal(t, 150.5, got)

	same, err := ApplyQuery(sample{Name: "Galo"}, "")
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "Galo"}, same)
}

func TestWriteJSONFiltered_InvalidQuery(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJSONFiltered(&buf, sample{}, ".[[[", false)
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestWriteJSONFiltered(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONFiltered(&buf, []sample{{Name: "a"}, {Name: "b"}}, "[.[].name]", true))
	assert.Equal(t, "[\"a\",\"b\"]\n", buf.String())
}
