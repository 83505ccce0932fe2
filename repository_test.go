package tagger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// --- unit tests (no DB) ---

func TestNewRepository_Unregistered(t *testing.T) {
	unregisterTestModels()

	_, err := NewRepository[testCar](nil)
	assert.Error(t, err)
}

func TestRepository_New(t *testing.T) {
	registerTestModels()
	defer unregisterTestModels()

	repo, err := NewRepository[testCar](nil)
	require.NoError(t, err)

	before := time.Now().UTC()
	c := repo.New()

	assert.True(t, c.ID.IsZero())
	assert.True(t, c.Active)
	assert.Equal(t, 2020, c.Year)
	assert.Equal(t, time.UTC, c.CreatedAt.Location())
	assert.WithinDuration(t, before, c.CreatedAt, time.Second)
	assert.Equal(t, c.CreatedAt.Truncate(time.Millisecond), c.CreatedAt, "stored precision")
}

func TestParseID(t *testing.T) {
	id := bson.NewObjectID()
	got, err := ParseID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	// 24 characters but not hex
	_, err = ParseID("zzzzzzzzzzzzzzzzzzzzzzzz")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = ParseID("abc")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestIDOf(t *testing.T) {
	c := &testCar{}
	_, err := IDOf(c)
	assert.ErrorIs(t, err, ErrNotFound)

	id := bson.NewObjectID()
	setModelID(c, id)
	got, err := IDOf(c)
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), got)

	_, err = IDOf(&struct{ Name string }{})
	assert.Error(t, err)

	_, err = IDOf(&struct{ ID string }{ID: "x"})
	assert.Error(t, err)
}

func TestGetDB_NilFallback(t *testing.T) {
	dbMu.Lock()
	saved := globalDB
	globalDB = nil
	dbMu.Unlock()
	defer func() {
		dbMu.Lock()
		globalDB = saved
		dbMu.Unlock()
	}()

	_, err := getDB(nil)
	assert.ErrorIs(t, err, ErrNoDatabase)

	registerTestModels()
	defer unregisterTestModels()
	repo, err := NewRepository[testCar](nil)
	require.NoError(t, err)

	_, err = repo.List(context.Background())
	assert.ErrorIs(t, err, ErrNoDatabase)
}

// Malformed identifiers never reach the store, so these pass without a database.
func TestRepository_MalformedIDIsNotFound(t *testing.T) {
	registerTestModels()
	defer unregisterTestModels()

	repo, err := NewRepository[testCar](nil)
	require.NoError(t, err)
	ctx := context.Background()
	bad := "zzzzzzzzzzzzzzzzzzzzzzzz"

	_, err = repo.Get(ctx, bad)
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := repo.Replace(ctx, bad, &testCar{})
	require.NoError(t, err)
	assert.False(t, found)

	found, err = repo.Remove(ctx, bad)
	require.NoError(t, err)
	assert.False(t, found)
}

// --- integration tests (require MongoDB) ---

func TestCreateGet_Integration(t *testing.T) {
	ctx, db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := NewRepository[testCar](db)
	require.NoError(t, err)

	supplied := bson.NewObjectID()
	c := repo.New()
	c.ID = supplied
	c.Plate = "34ABC123"
	c.Tags = []string{"a", "b"}
	c.Score = 1.5
	require.NoError(t, repo.Create(ctx, c))

	assert.False(t, c.ID.IsZero())
	assert.NotEqual(t, supplied, c.ID, "caller-supplied id must be replaced")

	got, err := repo.Get(ctx, c.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "34ABC123", got.Plate)
	assert.Equal(t, []string{"a", "b"}, got.Tags)
	assert.Equal(t, 1.5, got.Score)
	assert.True(t, got.Active)
	assert.True(t, c.CreatedAt.Equal(got.CreatedAt), "createdAt reads back unchanged")
}

func TestCreate_NotIdempotent_Integration(t *testing.T) {
	ctx, db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := NewRepository[testCar](db)
	require.NoError(t, err)

	a := &testCar{Plate: "same"}
	b := &testCar{Plate: "same"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	assert.NotEqual(t, a.ID, b.ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreate_KeepsCreatedAt_Integration(t *testing.T) {
	ctx, db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := NewRepository[testCar](db)
	require.NoError(t, err)

	c := &testCar{Plate: "old", Model: Model{CreatedAt: fixedTime}}
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.Get(ctx, c.ID.Hex())
	require.NoError(t, err)
	assert.True(t, fixedTime.Equal(got.CreatedAt))
}

func TestGet_Missing_Integration(t *testing.T) {
	ctx, db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := NewRepository[testCar](db)
	require.NoError(t, err)

	_, err = repo.Get(ctx, bson.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_Integration(t *testing.T) {
	ctx, db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := NewRepository[testCar](db)
	require.NoError(t, err)

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	const n, m = 5, 2
	var ids []string
	for i := 0; i < n; i++ {
		c := repo.New()
		c.Year = 2000 + i
		require.NoError(t, repo.Create(ctx, c))
		ids = append(ids, c.ID.Hex())
	}
	for _, id := range ids[:m] {
		found, err := repo.Remove(ctx, id)
		require.NoError(t, err)
		require.True(t, found)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n-m)
}

func TestReplace_FullOverwrite_Integration(t *testing.T) {
	ctx, db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := NewRepository[testCar](db)
	require.NoError(t, err)

	c := repo.New()
	c.Plate = "34ABC123"
	c.Tags = []string{"x"}
	c.ColorID = bson.NewObjectID().Hex()
	require.NoError(t, repo.Create(ctx, c))
	id := c.ID.Hex()

	// The replacement carries a different id and omits most fields.
	next := &testCar{Plate: "06XYZ987"}
	next.ID = bson.NewObjectID()
	found, err := repo.Replace(ctx, id, next)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, next.ID.Hex(), "identifier is forced to the target id")

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "06XYZ987", got.Plate)
	assert.Empty(t, got.Tags)
	assert.Empty(t, got.ColorID)
	assert.False(t, got.Active)
	assert.True(t, got.CreatedAt.IsZero())
}

func TestReplace_Missing_Integration(t *testing.T) {
	ctx, db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := NewRepository[testCar](db)
	require.NoError(t, err)

	found, err := repo.Replace(ctx, "000000000000000000000000", &testCar{Plate: "ghost"})
	require.NoError(t, err)
	assert.False(t, found)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "a missed replace must not insert")
}

func TestRemove_Idempotent_Integration(t *testing.T) {
	ctx, db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := NewRepository[testCar](db)
	require.NoError(t, err)

	c := repo.New()
	require.NoError(t, repo.Create(ctx, c))

	found, err := repo.Remove(ctx, c.ID.Hex())
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Remove(ctx, c.ID.Hex())
	require.NoError(t, err)
	assert.False(t, found)

	_, err = repo.Get(ctx, c.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Middleware_Integration(t *testing.T) {
	ctx, db, cleanup := setupTestDB(t)
	defer cleanup()

	var ops []OpInfo
	Use(func(ctx context.Context, op *OpInfo, next func(context.Context) error) error {
		err := next(ctx)
		ops = append(ops, *op)
		return err
	})

	repo, err := NewRepository[testCar](db)
	require.NoError(t, err)

	c := repo.New()
	require.NoError(t, repo.Create(ctx, c))
	_, err = repo.Get(ctx, c.ID.Hex())
	require.NoError(t, err)

	require.Len(t, ops, 2)
	assert.Equal(t, OpCreate, ops[0].Operation)
	assert.Equal(t, c.ID.Hex(), ops[0].ID, "create reports the generated id")
	assert.Equal(t, "test_cars", ops[0].Collection)
	assert.Equal(t, OpGet, ops[1].Operation)
	assert.Equal(t, "testCar", ops[1].ModelName)
}

func TestRepository_StoreErrorPropagates_Integration(t *testing.T) {
	ctx, db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := NewRepository[testCar](db)
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	_, err = repo.List(cancelled)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
