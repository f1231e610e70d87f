package server

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-filter-mcp/internal/filter"
	"github.com/ironsheep/image-filter-mcp/internal/imaging"
)

func newTestPipeline() *filter.Pipeline {
	img := imaging.FromImage(image.NewNRGBA(image.Rect(0, 0, 4, 4)))
	return filter.New(filter.Wrap(img), imaging.PNG)
}

func TestSessionStore_Lifecycle(t *testing.T) {
	store := newSessionStore(2)
	p := newTestPipeline()

	id, err := store.add("/a.png", p)
	require.NoError(t, err)
	assert.Len(t, id, 36)
	assert.Equal(t, 1, store.len())

	sess, err := store.get(id)
	require.NoError(t, err)
	assert.Same(t, p, sess.p)
	assert.Equal(t, "/a.png", sess.path)

	require.NoError(t, store.remove(id))
	assert.True(t, p.Released())
	assert.Zero(t, store.len())

	_, err = store.get(id)
	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.ErrorIs(t, store.remove(id), ErrUnknownSession)
}

func TestSessionStore_Limit(t *testing.T) {
	store := newSessionStore(1)
	_, err := store.add("/a.png", newTestPipeline())
	require.NoError(t, err)

	p := newTestPipeline()
	_, err = store.add("/b.png", p)
	assert.Error(t, err)
	assert.False(t, p.Released(), "the caller keeps ownership on failure")
}

func TestSessionStore_CloseAll(t *testing.T) {
	store := newSessionStore(0)
	ps := []*filter.Pipeline{newTestPipeline(), newTestPipeline(), newTestPipeline()}
	for _, p := range ps {
		_, err := store.add("/x.png", p)
		require.NoError(t, err)
	}

	store.closeAll()
	assert.Zero(t, store.len())
	for i, p := range ps {
		assert.True(t, p.Released(), "pipeline %d", i)
	}
}
