package request

import (
	"net/http"
	"time"

	"github.com/itemshare/backend/internal/item"
	"github.com/itemshare/backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "request not found")
	ErrDescriptionRequired = apperror.New(http.StatusBadRequest, "request description is required")
	ErrInvalidPagination   = apperror.New(http.StatusBadRequest, "from must be >= 0 and size must be > 0")
)

// ItemRequest is a wish for an item that nobody has listed yet. Owners answer
// it by creating items that reference the request.
type ItemRequest struct {
	ID          string // UUID
	Description string
	RequesterID string
	Created     time.Time
}

// WithItems pairs a request with the items offered in answer to it.
type WithItems struct {
	ItemRequest
	Items []*item.Item
}
