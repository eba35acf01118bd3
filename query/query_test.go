package query

import (
	"testing"

	"github.com/Itish41/portfolio-cms/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterBuilderDoesNotShareState(t *testing.T) {
	base := Where().Eq("schedule_id", "s1").IsNull("date_deleted")
	filtered := base.Contains("standard_name", "Safety").Eq("is_active", true)
	other := base.Contains("standard_code", "")

	assert.Len(t, base.Predicates(), 2)
	assert.Len(t, filtered.Predicates(), 4)
	assert.Len(t, other.Predicates(), 2, "empty needle is ignored")
	assert.Equal(t, OpContains, filtered.Predicates()[2].Op)
	assert.Equal(t, "Safety", filtered.Predicates()[2].Value)
}

func TestFilterAnd(t *testing.T) {
	f := Where().Eq("a", 1).And(Where().In("id", []string{"x", "y"}).ContainsAny([]string{"title", "content"}, "go"))

	preds := f.Predicates()
	require.Len(t, preds, 3)
	assert.Equal(t, OpIn, preds[1].Op)
	assert.Equal(t, []string{"title", "content"}, preds[2].Fields)
	assert.True(t, Where().Empty())
}

func TestParseSort(t *testing.T) {
	allowed := map[string]string{"standardName": "standard_name", "createdAt": "created_at"}

	keys, err := ParseSort([]string{"standardName:desc", "createdAt", "createdAt:ASC", "standardName:whatever", "createdAt:descending"}, allowed)
	require.NoError(t, err)
	assert.Equal(t, []SortKey{
		{Field: "standard_name", Desc: true},
		{Field: "created_at"},
		{Field: "created_at"},
		{Field: "standard_name", Desc: true},
		{Field: "created_at", Desc: true},
	}, keys)

	_, err = ParseSort([]string{"password:asc"}, allowed)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        Window
		offset      int
	}{
		{"defaults", 0, 0, Window{Page: 1, Limit: 10}, 0},
		{"third page", 3, 5, Window{Page: 3, Limit: 5}, 10},
		{"capped", 2, 1000, Window{Page: 2, Limit: MaxLimit}, MaxLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(tt.page, tt.limit)
			assert.Equal(t, tt.want, w)
			assert.Equal(t, tt.offset, w.Offset())
		})
	}
}

func TestOrderingNumberRestartsPerPage(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.Equal(t, i+1, OrderingNumber(i))
	}
}
