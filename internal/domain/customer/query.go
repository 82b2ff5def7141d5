package customer

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Sort orders understood by the directory
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// DefaultPageSize is used when no page size is configured
const DefaultPageSize = 10

// MaxOffset bounds the rows a page may skip. Larger pages are clamped to the
// last page that still fits, so the offset can never wrap around.
const MaxOffset = math.MaxInt32

// DirectoryParams are the raw listing parameters exactly as the caller sent them
type DirectoryParams struct {
	SearchType string `form:"searchType"`
	Search     string `form:"search"`
	Sort       string `form:"sort"`
	Order      string `form:"order"`
	Page       string `form:"page"`
}

// RecognizedColumns maps directory keys to storage column names.
// Only keys present here may be searched or sorted on.
type RecognizedColumns map[string]string

// Column returns the storage column for key
func (rc RecognizedColumns) Column(key string) (string, bool) {
	col, ok := rc[strings.TrimSpace(key)]
	return col, ok
}

// DefaultRecognizedColumns returns the searchable and sortable customer columns
func DefaultRecognizedColumns() RecognizedColumns {
	return RecognizedColumns{
		"id":          "id",
		"firstName":   "first_name",
		"lastName":    "last_name",
		"email":       "email",
		"phoneNumber": "phone_number",
		"companyName": "company_name",
		"displayName": "display_name",
		"gstin":       "gstin",
		"city":        "city",
		"createdAt":   "created_at",
		"updatedAt":   "updated_at",
	}
}

// SearchFilter is a substring match on a single column
type SearchFilter struct {
	Field  string
	Column string
	Text   string
}

// SortSpec orders results by a single column
type SortSpec struct {
	Field  string
	Column string
	Order  string
}

// NormalizedDirectoryQuery is what the persistence layer receives for listing.
// Filter and Sort are nil when the caller asked for none or asked for something unknown.
type NormalizedDirectoryQuery struct {
	Filter   *SearchFilter
	Sort     *SortSpec
	Order    string
	Page     int
	PageSize int
}

// Offset returns the number of rows to skip for the page
func (q NormalizedDirectoryQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Planner normalizes directory parameters against a fixed column set
type Planner struct {
	columns  RecognizedColumns
	pageSize int
}

// NewPlanner creates a planner. A non-positive pageSize falls back to DefaultPageSize.
func NewPlanner(columns RecognizedColumns, pageSize int) *Planner {
	if columns == nil {
		columns = DefaultRecognizedColumns()
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Planner{columns: columns, pageSize: pageSize}
}

// Plan normalizes params. It never fails; bad input degrades to defaults.
func (p *Planner) Plan(params DirectoryParams) NormalizedDirectoryQuery {
	q := PlanQuery(params, p.columns)
	q.PageSize = p.pageSize
	q.Page = clampPage(q.Page, q.PageSize)
	return q
}

// PlanQuery normalizes params with the default page size
func PlanQuery(params DirectoryParams, columns RecognizedColumns) NormalizedDirectoryQuery {
	q := NormalizedDirectoryQuery{
		Order:    NormalizeSortOrder(params.Order),
		Page:     clampPage(NormalizePage(params.Page), DefaultPageSize),
		PageSize: DefaultPageSize,
	}

	if text := strings.TrimSpace(params.Search); text != "" {
		if col, ok := columns.Column(params.SearchType); ok {
			q.Filter = &SearchFilter{
				Field:  strings.TrimSpace(params.SearchType),
				Column: col,
				Text:   text,
			}
		}
	}

	if col, ok := columns.Column(params.Sort); ok {
		q.Sort = &SortSpec{
			Field:  strings.TrimSpace(params.Sort),
			Column: col,
			Order:  q.Order,
		}
	}

	return q
}

// NormalizeSortOrder returns "asc" or "desc"; anything unrecognized is "asc"
func NormalizeSortOrder(order string) string {
	if strings.EqualFold(strings.TrimSpace(order), SortDesc) {
		return SortDesc
	}
	return SortAsc
}

// NormalizePage parses a 1-based page number; non-numeric or < 1 is 1.
// Numbers too large for an int saturate at math.MaxInt32.
func NormalizePage(page string) int {
	n, err := strconv.ParseInt(strings.TrimSpace(page), 10, 64)
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		return math.MaxInt32
	}
	if err != nil || n < 1 {
		return 1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// clampPage keeps (page-1)*pageSize within MaxOffset
func clampPage(page, pageSize int) int {
	if pageSize <= 0 {
		return page
	}
	if last := MaxOffset/pageSize + 1; page > last {
		return last
	}
	return page
}
