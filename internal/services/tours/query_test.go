package tours

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestBuildFilter(t *testing.T) {
	t.Run("plain equality", func(t *testing.T) {
		f := buildFilter(map[string]string{"difficulty": "easy"})
		assert.Equal(t, bson.M{"difficulty": "easy"}, f)
	})

	t.Run("comparison operator from key", func(t *testing.T) {
		f := buildFilter(map[string]string{"duration[gte]": "5"})
		assert.Equal(t, bson.M{"duration": bson.M{"$gte": int64(5)}}, f)
	})

	t.Run("operator word inside a value stays a value", func(t *testing.T) {
		f := buildFilter(map[string]string{"name": "gte"})
		assert.Equal(t, bson.M{"name": "gte"}, f)
	})

	t.Run("two operators on one field merge", func(t *testing.T) {
		f := buildFilter(map[string]string{
			"price[gt]": "100",
			"price[lt]": "500",
		})
		assert.Equal(t, bson.M{"price": bson.M{"$gt": int64(100), "$lt": int64(500)}}, f)
	})

	t.Run("camelCase maps to stored key", func(t *testing.T) {
		f := buildFilter(map[string]string{"maxGroupSize[lte]": "12"})
		assert.Equal(t, bson.M{"max_group_size": bson.M{"$lte": int64(12)}}, f)
	})

	t.Run("unknown field dropped", func(t *testing.T) {
		f := buildFilter(map[string]string{"$where": "1", "secretAdmin": "true"})
		assert.Empty(t, f)
	})

	t.Run("unknown operator dropped", func(t *testing.T) {
		f := buildFilter(map[string]string{"price[ne]": "100"})
		assert.Empty(t, f)
	})

	t.Run("control params are not filters", func(t *testing.T) {
		f := buildFilter(map[string]string{
			"page":  "2",
			"limit": "10",
			"sort":  "price",
			"field": "name",
		})
		assert.Empty(t, f)
	})
}

func TestSplitFilterKey(t *testing.T) {
	cases := []struct {
		key      string
		wantName string
		wantOp   string
	}{
		{"price[gt]", "price", "gt"},
		{"price", "price", ""},
		{"[gt]", "[gt]", ""},
		{"price[gt", "price[gt", ""},
		{"price[]", "price", ""},
	}
	for _, tc := range cases {
		name, op := splitFilterKey(tc.key)
		assert.Equal(t, tc.wantName, name, tc.key)
		assert.Equal(t, tc.wantOp, op, tc.key)
	}
}

func TestCoerceValue(t *testing.T) {
	assert.Equal(t, int64(42), coerceValue("42"))
	assert.Equal(t, 4.5, coerceValue("4.5"))
	assert.Equal(t, true, coerceValue("true"))
	assert.Equal(t, "medium", coerceValue("medium"))
}

func TestBuildSort(t *testing.T) {
	t.Run("default is newest first with id tiebreak", func(t *testing.T) {
		want := bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
		assert.Equal(t, want, buildSort(""))
	})

	t.Run("comma separated with descending prefix", func(t *testing.T) {
		got := buildSort("price,-ratingsAverage")
		want := bson.D{{Key: "price", Value: 1}, {Key: "ratings_average", Value: -1}}
		assert.Equal(t, want, got)
	})

	t.Run("unknown sort fields fall back to default", func(t *testing.T) {
		assert.Equal(t, defaultSort(), buildSort("bogus,-alsoBogus"))
	})
}

func TestBuildProjection(t *testing.T) {
	t.Run("empty means all fields", func(t *testing.T) {
		assert.Nil(t, buildProjection(""))
	})

	t.Run("selected fields map to stored keys", func(t *testing.T) {
		got := buildProjection("name,price,maxGroupSize")
		want := bson.M{"name": 1, "price": 1, "max_group_size": 1}
		assert.Equal(t, want, got)
	})

	t.Run("only unknown fields means all fields", func(t *testing.T) {
		assert.Nil(t, buildProjection("password,__v"))
	})
}

func TestBuildPage(t *testing.T) {
	cases := []struct {
		name      string
		page      string
		limit     string
		wantSkip  int64
		wantLimit int64
	}{
		{"defaults", "", "", 0, DefaultLimit},
		{"explicit page and limit", "3", "10", 20, 10},
		{"limit clamped to cap", "1", "100000", 0, MaxLimit},
		{"junk falls back to defaults", "abc", "-5", 0, DefaultLimit},
		{"zero page treated as first", "0", "10", 0, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			skip, limit := buildPage(tc.page, tc.limit)
			assert.Equal(t, tc.wantSkip, skip)
			assert.Equal(t, tc.wantLimit, limit)
		})
	}
}

func TestBuildQuery(t *testing.T) {
	q := BuildQuery(map[string]string{
		"difficulty": "easy",
		"price[lt]":  "1000",
		"sort":       "price",
		"field":      "name,price",
		"page":       "2",
		"limit":      "5",
	})

	require.NotNil(t, q.Filter)
	assert.Equal(t, bson.M{
		"difficulty": "easy",
		"price":      bson.M{"$lt": int64(1000)},
	}, q.Filter)
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, q.Sort)
	assert.Equal(t, bson.M{"name": 1, "price": 1}, q.Projection)
	assert.Equal(t, int64(5), q.Skip)
	assert.Equal(t, int64(5), q.Limit)
}
