package handling

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductFilter(t *testing.T) {
	categoryID := uuid.New()
	r := httptest.NewRequest("GET", "/api/products?categoryId="+categoryID.String()+"&isFeatured=true&search=%20linen%20", nil)

	filter, err := ParseProductFilter(r)
	require.NoError(t, err)
	require.NotNil(t, filter.CategoryID)
	assert.Equal(t, categoryID, *filter.CategoryID)
	require.NotNil(t, filter.IsFeatured)
	assert.True(t, *filter.IsFeatured)
	assert.Nil(t, filter.IsActive)
	assert.Equal(t, "linen", filter.Search)
}

func TestParseProductFilterRejectsBadValues(t *testing.T) {
	_, err := ParseProductFilter(httptest.NewRequest("GET", "/api/products?categoryId=nope", nil))
	assert.Error(t, err)

	_, err = ParseProductFilter(httptest.NewRequest("GET", "/api/products?isActive=maybe", nil))
	assert.Error(t, err)
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/reviews/random?limit=7&tree=true", nil)
	assert.Equal(t, 7, QueryInt(r, "limit", 3))
	assert.Equal(t, 3, QueryInt(r, "missing", 3))
	assert.True(t, QueryBool(r, "tree"))
	assert.False(t, QueryBool(r, "missing"))
}
