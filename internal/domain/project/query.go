package project

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// MaxPage keeps the page offset within an int32.
const MaxPage = math.MaxInt32 / MaxLimit

type SortField string

const (
	SortID           SortField = "id"
	SortTitle        SortField = "title"
	SortDescription  SortField = "description"
	SortTechnologies SortField = "technologies"
	SortCreatedAt    SortField = "createdAt"
	SortUpdatedAt    SortField = "updatedAt"
)

var sortAliases = map[string]SortField{
	"id":           SortID,
	"_id":          SortID,
	"title":        SortTitle,
	"description":  SortDescription,
	"technologies": SortTechnologies,
	"techStack":    SortTechnologies,
	"createdAt":    SortCreatedAt,
	"updatedAt":    SortUpdatedAt,
}

type Sort struct {
	Field SortField
	Desc  bool
}

// ListQuery is a normalized list request. Sort is nil when the store's
// natural order should be used.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
	Sort   *Sort
}

// Skip is the offset of the first record on the page.
func (q ListQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}

// NewListQuery builds a ListQuery from raw query-string values, falling back
// to defaults for anything missing or unparsable.
func NewListQuery(page, limit, search, sort string) ListQuery {
	q := ListQuery{
		Page:   parsePositive(page, DefaultPage),
		Limit:  parsePositive(limit, DefaultLimit),
		Search: strings.TrimSpace(search),
		Sort:   ParseSort(sort),
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	return q
}

// ParseSort reads "field" or "field:direction". Unknown fields yield nil.
func ParseSort(raw string) *Sort {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	name, dir, _ := strings.Cut(raw, ":")
	field, ok := sortAliases[strings.TrimSpace(name)]
	if !ok {
		return nil
	}
	return &Sort{
		Field: field,
		Desc:  strings.EqualFold(strings.TrimSpace(dir), "desc"),
	}
}

func parsePositive(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}
