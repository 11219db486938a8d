package gateway

import (
	"context"
	"fmt"
	"net/http"
)

// Collection paths under the API root. Every request is scoped by school id.
const (
	PathTeachers      = "teachers"
	PathSubjects      = "subjects"
	PathClasses       = "classes"
	PathLabs          = "labs"
	PathClassSubjects = "class-subjects"
)

// Collection is the one endpoint group shared by all five entity types. The
// per-entity screens differ only in payload type and path.
type Collection[E any] struct {
	client *Client
	path   string
}

// NewCollection binds an entity type to its collection path.
func NewCollection[E any](client *Client, path string) *Collection[E] {
	return &Collection[E]{client: client, path: path}
}

// List fetches every entity in the school's collection.
func (c *Collection[E]) List(ctx context.Context, schoolID string) ([]E, error) {
	var items []E
	if err := c.client.doJSON(ctx, http.MethodGet, fmt.Sprintf("/%s/%s", c.path, schoolID), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Create adds an entity to the collection.
func (c *Collection[E]) Create(ctx context.Context, schoolID string, entity E) error {
	return c.client.doJSON(ctx, http.MethodPost, fmt.Sprintf("/%s/%s", c.path, schoolID), entity, nil)
}

// Update replaces the entity with the given id.
func (c *Collection[E]) Update(ctx context.Context, schoolID, id string, entity E) error {
	return c.client.doJSON(ctx, http.MethodPut, fmt.Sprintf("/%s/%s/%s", c.path, schoolID, id), entity, nil)
}

// Delete removes the entity with the given id.
func (c *Collection[E]) Delete(ctx context.Context, schoolID, id string) error {
	return c.client.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/%s/%s/%s", c.path, schoolID, id), nil, nil)
}
