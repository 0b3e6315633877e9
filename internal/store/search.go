package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/erazemk/gearbox/internal/model"
)

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// SearchParams holds a parsed gear search request.
type SearchParams struct {
	// Filters maps filter keys (see SearchFilterKeys) to raw values. Empty
	// values are ignored.
	Filters   map[string]string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// SearchResult is one page of search results.
type SearchResult struct {
	Items       []model.GearItem `json:"items"`
	TotalItems  int              `json:"totalItems"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
}

// predicateFunc turns a raw filter value into a SQL predicate.
type predicateFunc func(value string) (squirrel.Sqlizer, error)

// searchFilters is the registry of recognized filter keys.
var searchFilters = map[string]predicateFunc{
	"query":    textPredicate,
	"category": equalPredicate("g.category_id"),
	"status":   equalPredicate("g.status"),
	"minValue": valuePredicate("minValue", func(v float64) squirrel.Sqlizer {
		return squirrel.GtOrEq{"g.current_value": v}
	}),
	"maxValue": valuePredicate("maxValue", func(v float64) squirrel.Sqlizer {
		return squirrel.LtOrEq{"g.current_value": v}
	}),
}

// searchableColumns are matched by the free-text query.
var searchableColumns = []string{"g.name", "g.brand", "g.model", "g.description"}

// sortColumns maps accepted sortBy values to columns.
var sortColumns = map[string]string{
	"createdAt":       "g.created_at",
	"updatedAt":       "g.updated_at",
	"name":            "g.name",
	"brand":           "g.brand",
	"model":           "g.model",
	"currentValue":    "g.current_value",
	"purchasePrice":   "g.purchase_price",
	"purchaseDate":    "g.purchase_date",
	"conditionRating": "g.condition_rating",
	"status":          "g.status",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchFilterKeys returns the recognized filter keys in application order.
func SearchFilterKeys() []string {
	keys := make([]string, 0, len(searchFilters))
	for k := range searchFilters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BuildSearchFilter combines the owner scope with every non-empty recognized
// filter. Filters are ANDed; unknown keys are ignored.
func BuildSearchFilter(userID string, filters map[string]string) (squirrel.And, error) {
	pred := squirrel.And{squirrel.Eq{"g.user_id": userID}}
	for _, key := range SearchFilterKeys() {
		value := strings.TrimSpace(filters[key])
		if value == "" {
			continue
		}
		p, err := searchFilters[key](value)
		if err != nil {
			return nil, err
		}
		pred = append(pred, p)
	}
	return pred, nil
}

// SortClause returns the ORDER BY expression for a search. Without sortBy the
// newest items come first; with it the direction is descending only when
// sortOrder is "desc".
func SortClause(sortBy, sortOrder string) (string, error) {
	if sortBy == "" {
		return "g.created_at DESC", nil
	}
	col, ok := sortColumns[sortBy]
	if !ok {
		return "", invalid("cannot sort by %q", sortBy)
	}
	if strings.EqualFold(sortOrder, "desc") {
		return col + " DESC", nil
	}
	return col + " ASC", nil
}

// NormalizePage applies defaults and bounds to page and limit.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// SearchGearItems returns one page of the user's items matching params, each
// with category and images.
func SearchGearItems(ctx context.Context, db *sql.DB, userID string, params SearchParams) (*SearchResult, error) {
	pred, err := BuildSearchFilter(userID, params.Filters)
	if err != nil {
		return nil, err
	}
	order, err := SortClause(params.SortBy, params.SortOrder)
	if err != nil {
		return nil, err
	}
	page, limit := NormalizePage(params.Page, params.Limit)

	countQuery, countArgs, err := builder.Select("COUNT(*)").From("gear_items g").Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building count query: %w", err)
	}
	var total int
	if err := db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting gear items: %w", err)
	}

	result := &SearchResult{
		Items:       []model.GearItem{},
		TotalItems:  total,
		TotalPages:  (total + limit - 1) / limit,
		CurrentPage: page,
	}
	// Pages past the end are empty. Checking first also keeps the offset
	// below total, so it cannot overflow.
	if page > result.TotalPages {
		return result, nil
	}

	items, err := queryGear(ctx, db, gearQuery().
		Where(pred).
		OrderBy(order, "g.id").
		Limit(uint64(limit)).
		Offset(uint64(page-1)*uint64(limit)))
	if err != nil {
		return nil, fmt.Errorf("searching gear items: %w", err)
	}
	if err := attachImages(ctx, db, items); err != nil {
		return nil, err
	}
	result.Items = items

	return result, nil
}

// textPredicate matches value as a substring of any searchable column,
// ignoring case for all of Unicode (casefold is registered in package db).
func textPredicate(value string) (squirrel.Sqlizer, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
	or := squirrel.Or{}
	for _, col := range searchableColumns {
		or = append(or, squirrel.Expr("casefold("+col+`) LIKE ? ESCAPE '\'`, pattern))
	}
	return or, nil
}

func equalPredicate(column string) predicateFunc {
	return func(value string) (squirrel.Sqlizer, error) {
		return squirrel.Eq{column: value}, nil
	}
}

func valuePredicate(key string, build func(float64) squirrel.Sqlizer) predicateFunc {
	return func(value string) (squirrel.Sqlizer, error) {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, invalid("%s must be a number", key)
		}
		return build(v), nil
	}
}
