package db

import (
	"context"
	"testing"

	"goc-notion-bidsheet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(id, title string, vec ...float32) *models.Document {
	return &models.Document{
		ID:      id,
		Title:   title,
		Content: "항목: " + title,
		Vector:  vec,
		Meta:    map[string]string{"work_type": "水電"},
	}
}

func TestStoreSearch(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore()
	require.NoError(t, err)

	require.NoError(t, store.AddDocuments(ctx, []*models.Document{
		doc("a", "給水管", 1, 0, 0),
		doc("b", "天花板", 0, 1, 0),
		doc("c", "排水管", 0.8, 0.6, 0),
	}))
	assert.Equal(t, 3, store.Count())

	// topK가 문서 수보다 커도 오류 없이 동작
	got, err := store.Search(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "給水管", got[0].Title)
	assert.Equal(t, "水電", got[0].Meta["work_type"])
	assert.Equal(t, "c", got[1].ID)

	store.SetMinSimilarity(0)
	got, err = store.Search(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestStoreReplace(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore()
	require.NoError(t, err)

	require.NoError(t, store.AddDocuments(ctx, []*models.Document{doc("a", "old", 1, 0)}))
	require.NoError(t, store.Replace(ctx, []*models.Document{doc("b", "new", 0, 1), doc("c", "new2", 1, 0)}))
	assert.Equal(t, 2, store.Count())

	got, err := store.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)

	_, err = store.GetByID(ctx, "a")
	assert.Error(t, err)
}

func TestStoreRejectsMissingVector(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	err = store.AddDocuments(context.Background(), []*models.Document{doc("a", "x")})
	assert.Error(t, err)

	_, err = store.Search(context.Background(), nil, 3)
	assert.Error(t, err)
}

func TestStoreSearchEmpty(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	got, err := store.Search(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPersistentStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.AddDocuments(context.Background(), []*models.Document{doc("a", "x", 1, 0)}))
	assert.True(t, Exists(dir))

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Count())
}
