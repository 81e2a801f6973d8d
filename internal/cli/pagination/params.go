package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Limits and defaults.
const (
	DefaultPageSize = 20
	MaxPageSize     = 1000
	DefaultPage     = 1
	SortOrderAsc    = "asc"
	SortOrderDesc   = "desc"
)

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// Validation errors.
var (
	ErrInvalidPage       = errors.New("page must be >= 1")
	ErrInvalidPageSize   = errors.New("page-size must be between 1 and 1000")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'rows:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// Params holds paging and sorting flags.
type Params struct {
	Page      int
	PageSize  int
	SortField string
	SortOrder string
}

// NewParams returns the first page in the natural order.
func NewParams() *Params {
	return &Params{
		Page:      DefaultPage,
		PageSize:  DefaultPageSize,
		SortOrder: SortOrderDesc,
	}
}

// Bind registers --page, --page-size and --sort on cmd. The sort flag is
// parsed by Parse.
func (p *Params) Bind(cmd *cobra.Command, sort *string) {
	cmd.Flags().IntVar(&p.Page, "page", p.Page, "page number, starting at 1")
	cmd.Flags().IntVar(&p.PageSize, "page-size", p.PageSize, "results per page (1-1000)")
	cmd.Flags().StringVar(sort, "sort", "", "sort as field or field:order, e.g. rows:desc")
}

// Parse applies a sort expression to p and validates the result.
func (p *Params) Parse(sortExpr string) error {
	field, order, err := ParseSort(sortExpr)
	if err != nil {
		return err
	}
	if field != "" {
		p.SortField, p.SortOrder = field, order
	}
	return p.Validate()
}

// Validate checks the page bounds.
func (p Params) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	return nil
}

// Offset returns the index of the first item on the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParseSort parses "field" or "field:order". An empty string selects no
// field. A bare field sorts descending.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	if strings.TrimSpace(sortStr) == "" {
		return "", SortOrderDesc, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = SortOrderDesc
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}

// Apply returns the page of items selected by p. A page past the end is
// capped to the last page.
func Apply[T any](items []T, p Params) []T {
	if len(items) == 0 || p.PageSize < 1 {
		return items
	}

	offset := p.Offset()
	if offset >= len(items) {
		offset = ((len(items) - 1) / p.PageSize) * p.PageSize
	}
	end := min(offset+p.PageSize, len(items))
	return items[offset:end]
}
