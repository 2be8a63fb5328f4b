package api_test

import (
	"net/url"
	"testing"

	"github.com/devantler-tech/apidelta/pkg/client/api"
	"github.com/devantler-tech/apidelta/pkg/structural"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    url.Values
	}{
		{
			name:    "scalars arrays and nulls",
			payload: `{"page":2,"tags":["a","b"],"q":null}`,
			want:    url.Values{"page": {"2"}, "tags": {"a", "b"}},
		},
		{
			name:    "booleans and fractions",
			payload: `{"active":true,"ratio":1.5,"neg":-3}`,
			want:    url.Values{"active": {"true"}, "ratio": {"1.5"}, "neg": {"-3"}},
		},
		{
			name:    "nested values become compact json",
			payload: `{"filter":{"b":2,"a":1},"ids":[1,[2,3],null]}`,
			want:    url.Values{"filter": {`{"a":1,"b":2}`}, "ids": {"1", "[2,3]"}},
		},
		{
			name:    "empty array contributes nothing",
			payload: `{"tags":[]}`,
			want:    url.Values{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			payload, err := structural.ParseObject([]byte(tt.payload))
			require.NoError(t, err)

			assert.Equal(t, tt.want, api.QueryParams(payload))
		})
	}
}

func TestQueryParams_EncodeOrder(t *testing.T) {
	t.Parallel()

	payload, err := structural.ParseObject([]byte(`{"page":2,"tags":["a","b"],"q":null}`))
	require.NoError(t, err)

	assert.Equal(t, "page=2&tags=a&tags=b", api.QueryParams(payload).Encode())
}
