package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromQuery_Defaults(t *testing.T) {
	p := FromQuery(url.Values{})
	assert.Equal(t, DefaultParams(), p)
}

func TestFromQuery_CustomAndInvalid(t *testing.T) {
	p := FromQuery(url.Values{"page": {"3"}, "per_page": {"5"}})
	assert.Equal(t, Params{Page: 3, PerPage: 5, Offset: 10}, p)

	p = FromQuery(url.Values{"page": {"-1"}, "per_page": {"1000"}})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)

	p = FromQuery(url.Values{"page": {"abc"}})
	assert.Equal(t, 1, p.Page)
}

func TestPaginate(t *testing.T) {
	all := []int{1, 2, 3, 4, 5, 6, 7}

	r := Paginate(all, FromQuery(url.Values{"page": {"2"}, "per_page": {"3"}}))
	assert.Equal(t, []int{4, 5, 6}, r.Data)
	assert.Equal(t, 7, r.TotalCount)
	assert.Equal(t, 3, r.TotalPages)
	assert.True(t, r.HasNext)
	assert.True(t, r.HasPrev)

	r = Paginate(all, FromQuery(url.Values{"page": {"3"}, "per_page": {"3"}}))
	assert.Equal(t, []int{7}, r.Data)
	assert.False(t, r.HasNext)
}

func TestPaginate_PastEnd(t *testing.T) {
	r := Paginate([]string{"a"}, FromQuery(url.Values{"page": {"9"}}))
	assert.Empty(t, r.Data)
	assert.NotNil(t, r.Data)
	assert.Equal(t, 1, r.TotalCount)
}

func TestNewResult_NilData(t *testing.T) {
	r := NewResult[int](nil, 0, DefaultParams())
	assert.NotNil(t, r.Data)
	assert.Equal(t, 0, r.TotalPages)
	assert.False(t, r.HasNext)
}

func TestFromQuery_HugePageDoesNotOverflow(t *testing.T) {
	p := FromQuery(url.Values{"page": {"922337203685477581"}, "per_page": {"100"}})
	assert.Equal(t, MaxPage, p.Page)
	assert.GreaterOrEqual(t, p.Offset, 0)

	res := Paginate([]int{1, 2, 3}, p)
	assert.Empty(t, res.Data)
	assert.Equal(t, 3, res.TotalCount)
	assert.False(t, res.HasNext)
}

func TestBounds_NegativeOffset(t *testing.T) {
	start, end := Params{Page: 1, PerPage: 2, Offset: -16}.Bounds(5)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)
}
