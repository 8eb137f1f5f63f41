// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/laureate/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		params pagination.Params
		offset int
	}{
		{"defaults", "", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}, 0},
		{"third_page_of_ten", "page=3&limit=10", pagination.Params{Page: 3, Limit: 10}, 20},
		{"negative_page", "page=-1&limit=10", pagination.Params{Page: 1, Limit: 10}, 0},
		{"limit_capped", "page=2&limit=500", pagination.Params{Page: 2, Limit: pagination.MaxLimit}, pagination.MaxLimit},
		{"garbage", "page=two&limit=ten", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := pagination.FromRequest(httptest.NewRequest("GET", "/admin/nominations?"+tt.query, nil))
			assert.Equal(t, tt.params, params)
			assert.Equal(t, tt.offset, params.Offset())
		})
	}
}

func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(1, 25, 51)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)

	last := pagination.NewMeta(3, 25, 51)
	assert.False(t, last.HasNext)

	empty := pagination.NewMeta(1, 0, 51)
	assert.Zero(t, empty.TotalPages)
	assert.False(t, empty.HasNext)
}

func TestMeta_JSON(t *testing.T) {
	encoded, err := json.Marshal(pagination.NewMeta(2, 25, 30))
	require.NoError(t, err)
	assert.JSONEq(t, `{"page":2,"limit":25,"total":30,"totalPages":2,"hasNext":false}`, string(encoded))
}
