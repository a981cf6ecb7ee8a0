package tours

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DefaultLimit is the page size used when the request does not specify one.
const DefaultLimit = 100

// MaxLimit caps the page size; requests asking for more are clamped rather
// than rejected, keeping result sets bounded.
const MaxLimit = 100

// Query is a fully-specified descriptor for one tour collection read.
type Query struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Skip       int64
	Limit      int64
}

// reservedKeys are control parameters, never filters.
var reservedKeys = map[string]bool{
	"page":  true,
	"limit": true,
	"sort":  true,
	"field": true,
}

// fieldToBSON whitelists the API field names allowed in filters, sorts and
// projections and maps them to their stored keys. Unknown keys are dropped,
// which doubles as query sanitization: nothing a client sends reaches the
// store unmapped.
var fieldToBSON = map[string]string{
	"name":            "name",
	"slug":            "slug",
	"duration":        "duration",
	"difficulty":      "difficulty",
	"price":           "price",
	"maxGroupSize":    "max_group_size",
	"summary":         "summary",
	"description":     "description",
	"imageCover":      "image_cover",
	"ratingsAverage":  "ratings_average",
	"ratingsQuantity": "ratings_quantity",
	"createdAt":       "created_at",
	"updatedAt":       "updated_at",
}

var comparisonOps = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
}

// BuildQuery translates a flat request query into a Query descriptor.
// It is a pure function pipeline: filter, sort, projection and page specs
// are each derived independently from the raw params.
func BuildQuery(params map[string]string) Query {
	q := Query{
		Filter:     buildFilter(params),
		Sort:       buildSort(params["sort"]),
		Projection: buildProjection(params["field"]),
	}
	q.Skip, q.Limit = buildPage(params["page"], params["limit"])
	return q
}

// buildFilter turns the non-reserved params into equality and comparison
// filters. Operators are recognized from the parsed key only ("price[gt]"),
// so values containing operator words are never rewritten.
func buildFilter(params map[string]string) bson.M {
	filter := bson.M{}

	for key, value := range params {
		if reservedKeys[key] {
			continue
		}

		name, op := splitFilterKey(key)
		bsonKey, ok := fieldToBSON[name]
		if !ok {
			continue
		}

		if op == "" {
			filter[bsonKey] = coerceValue(value)
			continue
		}

		mongoOp, ok := comparisonOps[op]
		if !ok {
			continue
		}

		// Multiple operators on the same field merge: price[gt]=100&price[lt]=500
		if existing, ok := filter[bsonKey].(bson.M); ok {
			existing[mongoOp] = coerceValue(value)
		} else {
			filter[bsonKey] = bson.M{mongoOp: coerceValue(value)}
		}
	}

	return filter
}

// splitFilterKey splits "price[gt]" into ("price", "gt"); plain keys return
// an empty operator.
func splitFilterKey(key string) (string, string) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	return key[:open], key[open+1 : len(key)-1]
}

// coerceValue converts a raw query value into the most specific scalar it
// parses as, so numeric comparisons compare numbers and not strings.
func coerceValue(raw string) any {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

// buildSort parses a comma-separated field list, "-" prefix meaning
// descending. Default is newest-first with a stable _id tiebreak.
func buildSort(raw string) bson.D {
	if raw == "" {
		return defaultSort()
	}

	var sort bson.D
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		dir := 1
		if strings.HasPrefix(field, "-") {
			dir = -1
			field = field[1:]
		}
		key, ok := fieldToBSON[field]
		if !ok {
			continue
		}
		sort = append(sort, bson.E{Key: key, Value: dir})
	}

	if len(sort) == 0 {
		return defaultSort()
	}
	return sort
}

func defaultSort() bson.D {
	return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
}

// buildProjection parses the comma-separated allow-list of fields to return.
// Empty means no projection (all fields).
func buildProjection(raw string) bson.M {
	if raw == "" {
		return nil
	}

	projection := bson.M{}
	for _, field := range strings.Split(raw, ",") {
		if key, ok := fieldToBSON[strings.TrimSpace(field)]; ok {
			projection[key] = 1
		}
	}

	if len(projection) == 0 {
		return nil
	}
	return projection
}

// buildPage combines page (default 1) and limit (default 100, capped at
// MaxLimit) into a skip/limit pair. Unparsable values fall back to the
// defaults rather than failing the request.
func buildPage(rawPage, rawLimit string) (skip, limit int64) {
	page, err := strconv.ParseInt(rawPage, 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err = strconv.ParseInt(rawLimit, 10, 64)
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return (page - 1) * limit, limit
}
