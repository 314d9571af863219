package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catsec/phoneinfo/internal/domain"
)

func TestRegistry(t *testing.T) {
	me := NewMEClient("http://me.example", "sid", "token")
	sync := NewSyncClient("", "")
	r := NewRegistry(me, sync)

	got, err := r.Get("me")
	require.NoError(t, err)
	assert.Equal(t, "me", got.ID())

	_, err = r.Get("unknown")
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "me", all[0].ID())
	assert.Equal(t, "sync", all[1].ID())

	configured := r.Configured()
	require.Len(t, configured, 1)
	assert.Equal(t, "me", configured[0].ID())
}
