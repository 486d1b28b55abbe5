package queryapi

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagFilterFromQueryMergesRepeatedAndJSON(t *testing.T) {
	q, err := url.ParseQuery(`tag=a:1&tag=b:2&tags={"c":"3"}`)
	require.NoError(t, err)

	filter, err := tagFilterFromQuery(q)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, filter)
}

func TestTagFilterFromQueryInvalidPair(t *testing.T) {
	q, err := url.ParseQuery("tag=noseparator")
	require.NoError(t, err)

	_, err = tagFilterFromQuery(q)
	assert.Error(t, err)
}

func TestPredicateParamsRequiresService(t *testing.T) {
	q, err := url.ParseQuery("operation=op")
	require.NoError(t, err)

	_, err = predicateParamsFromQuery(q)
	assert.Error(t, err)
}

func TestPredicateParamsDefaultsLimitAndWindow(t *testing.T) {
	q, err := url.ParseQuery("service=svc")
	require.NoError(t, err)

	params, err := predicateParamsFromQuery(q)
	require.NoError(t, err)
	assert.Equal(t, "svc", params.Service)
	assert.Equal(t, defaultLimit, params.Limit)
	assert.True(t, params.Start.Before(params.End))
}

func TestIsPredicateQueryDetectsServiceParam(t *testing.T) {
	q, err := url.ParseQuery("service=svc")
	require.NoError(t, err)
	assert.True(t, isPredicateQuery(q))

	q, err = url.ParseQuery("traceID=abc")
	require.NoError(t, err)
	assert.False(t, isPredicateQuery(q))
}
