package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMeta(t *testing.T) {
	params := &Params{Page: 2, Limit: 20, Offset: 20}
	meta := GetMeta(params, 45)

	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, int64(45), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	meta = GetMeta(&Params{Page: 1, Limit: 20}, 40)
	assert.Equal(t, 2, meta.TotalPages)

	meta = GetMeta(&Params{Page: 1, Limit: 20}, 0)
	assert.Equal(t, 0, meta.TotalPages)
}

func TestBounds(t *testing.T) {
	params := &Params{Page: 1, Limit: 10, Offset: 0}
	start, end := params.Bounds(25)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)

	params = &Params{Page: 3, Limit: 10, Offset: 20}
	start, end = params.Bounds(25)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	// Past the end of the list yields an empty window.
	params = &Params{Page: 9, Limit: 10, Offset: 80}
	start, end = params.Bounds(25)
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)

	start, end = (&Params{Page: 1, Limit: 10}).Bounds(0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}
