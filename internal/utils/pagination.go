package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/constants"
)

// LastPage asks for the final page, whatever its number turns out to be.
const LastPage = -1

// ErrInvalidPage is returned for a page that is not a positive integer or
// lies past the last page.
var ErrInvalidPage = errors.New("invalid page")

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// NewPaginationParams computes the offset for a 1-based page.
func NewPaginationParams(page, limit int) PaginationParams {
	if page < constants.MinPage {
		page = constants.MinPage
	}
	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Page describes one page of a paginated listing.
type Page struct {
	Number     int   `json:"page"`
	Size       int   `json:"page_size"`
	Total      int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

func (p Page) HasPrevious() bool { return p.Number > 1 }
func (p Page) HasNext() bool     { return p.Number < p.TotalPages }
func (p Page) Previous() int     { return p.Number - 1 }
func (p Page) Next() int         { return p.Number + 1 }

// ParsePage interprets the raw "page" query value. Empty means the first page
// and "last" means LastPage.
func ParsePage(raw string) (int, error) {
	switch raw {
	case "":
		return constants.MinPage, nil
	case "last":
		return LastPage, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < constants.MinPage {
		return 0, ErrInvalidPage
	}
	return page, nil
}

// GetPage extracts the requested page number from the query string.
func GetPage(c *gin.Context) (int, error) {
	return ParsePage(c.Query("page"))
}

// TotalPages returns the number of pages needed for total items; an empty
// listing still has one (empty) page.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	pages := int(total) / size
	if int(total)%size > 0 {
		pages++
	}
	return pages
}

// Paginate runs fetch for the requested page and validates the page against
// the total it reports. LastPage is resolved to a concrete page number, which
// may require a second fetch.
func Paginate[T any](page, size int, fetch func(PaginationParams) ([]T, int64, error)) ([]T, Page, error) {
	number := page
	if number == LastPage {
		number = constants.MinPage
	}

	items, total, err := fetch(NewPaginationParams(number, size))
	if err != nil {
		return nil, Page{}, err
	}

	totalPages := TotalPages(total, size)
	if page == LastPage && totalPages != number {
		number = totalPages
		items, total, err = fetch(NewPaginationParams(number, size))
		if err != nil {
			return nil, Page{}, err
		}
		totalPages = TotalPages(total, size)
	}

	if number > totalPages {
		return nil, Page{}, ErrInvalidPage
	}

	return items, Page{
		Number:     number,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}
