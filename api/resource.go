package api

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dwoolworth/tagger"
	"github.com/gofiber/fiber/v2"
)

// Store is the data access a Resource exposes. *tagger.Repository satisfies it.
type Store[T any] interface {
	New() *T
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, entity *T) error
	Replace(ctx context.Context, id string, entity *T) (bool, error)
	Remove(ctx context.Context, id string) (bool, error)
	Populate(ctx context.Context, entity *T) error
}

// idParam only matches identifiers of exactly 24 characters. Anything else
// never reaches a handler and falls through to the router's 404.
const idParam = "/:id<len(24)>"

// Resource exposes one Store over HTTP under /{Name}.
type Resource[T any] struct {
	Name  string
	store Store[T]
}

// NewResource returns a Resource serving store at the path segment name.
func NewResource[T any](name string, store Store[T]) *Resource[T] {
	return &Resource[T]{Name: name, store: store}
}

// Mount registers the five CRUD routes on router.
//
//	GET    /{name}       list all        200
//	GET    /{name}/{id}  get one         200 | 404
//	POST   /{name}       create          201 + Location
//	PUT    /{name}/{id}  replace         204 | 404
//	DELETE /{name}/{id}  delete          204 | 404
func (r *Resource[T]) Mount(router fiber.Router) {
	base := "/" + r.Name
	router.Get(base, r.list)
	router.Get(base+idParam, r.get)
	router.Post(base, r.create)
	router.Put(base+idParam, r.replace)
	router.Delete(base+idParam, r.remove)
}

func (r *Resource[T]) list(c *fiber.Ctx) error {
	ctx := c.UserContext()
	items, err := r.store.List(ctx)
	if err != nil {
		return err
	}

	if c.QueryBool("populate") {
		for i := range items {
			if err := r.store.Populate(ctx, &items[i]); err != nil {
				return err
			}
		}
	}
	return c.JSON(items)
}

func (r *Resource[T]) get(c *fiber.Ctx) error {
	ctx := c.UserContext()
	item, err := r.store.Get(ctx, c.Params("id"))
	if errors.Is(err, tagger.ErrNotFound) {
		return empty(c, fiber.StatusNotFound)
	}
	if err != nil {
		return err
	}

	if c.QueryBool("populate") {
		if err := r.store.Populate(ctx, item); err != nil {
			return err
		}
	}
	return c.JSON(item)
}

func (r *Resource[T]) create(c *fiber.Ctx) error {
	item, err := r.decode(c)
	if err != nil {
		return err
	}

	if err := r.store.Create(c.UserContext(), item); err != nil {
		return err
	}

	id, err := tagger.IDOf(item)
	if err != nil {
		return err
	}
	c.Location(strings.TrimSuffix(c.BaseURL()+c.Path(), "/") + "/" + id)
	return c.Status(fiber.StatusCreated).JSON(item)
}

// replace writes first and branches on the match count, so a 204 always means
// the document existed when it was overwritten.
func (r *Resource[T]) replace(c *fiber.Ctx) error {
	item, err := r.decode(c)
	if err != nil {
		return err
	}

	found, err := r.store.Replace(c.UserContext(), c.Params("id"), item)
	if err != nil {
		return err
	}
	if !found {
		return empty(c, fiber.StatusNotFound)
	}
	return empty(c, fiber.StatusNoContent)
}

func (r *Resource[T]) remove(c *fiber.Ctx) error {
	found, err := r.store.Remove(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if !found {
		return empty(c, fiber.StatusNotFound)
	}
	return empty(c, fiber.StatusNoContent)
}

// decode parses the request body over a freshly constructed entity, so fields
// the body omits keep their construction defaults. The identifier is always
// chosen by the store or the path, so any id in the body is dropped unread.
func (r *Resource[T]) decode(c *fiber.Ctx) (*T, error) {
	if c.Is("json") {
		if err := dropBodyID(c); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
		}
	}

	item := r.store.New()
	if err := c.BodyParser(item); err != nil {
		if errors.Is(err, fiber.ErrUnprocessableEntity) {
			return nil, err
		}
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return item, nil
}

// dropBodyID removes every key of a JSON object body that would decode into
// the ID field. encoding/json matches keys case-insensitively, so "ID" counts.
func dropBodyID(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}

	cfg := c.App().Config()
	var fields map[string]json.RawMessage
	if err := cfg.JSONDecoder(body, &fields); err != nil {
		return err
	}

	dropped := false
	for k := range fields {
		if strings.EqualFold(k, "id") {
			delete(fields, k)
			dropped = true
		}
	}
	if !dropped {
		return nil
	}

	stripped, err := cfg.JSONEncoder(fields)
	if err != nil {
		return err
	}
	c.Request().SetBody(stripped)
	return nil
}

// empty answers with status and no body.
func empty(c *fiber.Ctx, status int) error {
	c.Status(status)
	return c.Send(nil)
}
