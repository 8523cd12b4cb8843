// Package remote wraps the document service's REST resource. The client is
// stateless: it never retries and never caches — retry policy belongs to
// the sync coordinator.
package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dkarpov/papersync/internal/models"
)

// Client describes the operations of the remote document resource.
type Client interface {
	// List fetches all remote documents.
	List(ctx context.Context) ([]models.DocumentDTO, error)

	// Create posts a new document. The response, not the input, is
	// authoritative for server-populated fields.
	Create(ctx context.Context, doc models.DocumentDTO) (*models.DocumentDTO, error)

	// Update replaces the full document with the given id.
	Update(ctx context.Context, id string, doc models.DocumentDTO) (*models.DocumentDTO, error)

	// Delete removes the document with the given id. Any 2xx is success.
	Delete(ctx context.Context, id string) error

	// Ping probes service reachability. Used by the connectivity monitor.
	Ping(ctx context.Context) error
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d", e.Code)
}

// NotFound reports whether the status was 404.
func (e *StatusError) NotFound() bool {
	return e.Code == http.StatusNotFound
}
