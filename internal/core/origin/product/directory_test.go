package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/originverifier/pkg/types"
)

func TestDirectory_Register(t *testing.T) {
	d := New("ADMIN")

	p, err := d.Register("ALICE", types.ProductRegistration{ID: "P1", Name: "咖啡豆", OriginCountry: "ET"}, 3)
	require.NoError(t, err)
	assert.True(t, p.Active)
	assert.False(t, p.OriginVerified)
	assert.Equal(t, types.BlockNumber(3), p.RegisteredAt)

	t.Run("重复ID注册失败", func(t *testing.T) {
		_, err := d.Register("BOB", types.ProductRegistration{ID: "P1"}, 4)
		require.ErrorIs(t, err, types.ErrProductAlreadyExists)
	})

	t.Run("空ID注册失败", func(t *testing.T) {
		_, err := d.Register("BOB", types.ProductRegistration{}, 4)
		require.ErrorIs(t, err, types.ErrInvalidClaimData)
	})

	t.Run("返回值为副本", func(t *testing.T) {
		got, ok := d.Get("P1")
		require.True(t, ok)
		got.Active = false
		again, _ := d.Get("P1")
		assert.True(t, again.Active)
	})
}

func TestDirectory_SetActive(t *testing.T) {
	d := New("ADMIN")
	_, err := d.Register("ALICE", types.ProductRegistration{ID: "P1"}, 0)
	require.NoError(t, err)

	require.ErrorIs(t, d.SetActive("BOB", "P1", false), types.ErrNotProductOwner)
	require.ErrorIs(t, d.SetActive("ALICE", "P9", false), types.ErrProductNotFound)

	require.NoError(t, d.SetActive("ALICE", "P1", false))
	p, _ := d.Get("P1")
	assert.False(t, p.Active)

	require.NoError(t, d.SetActive("ADMIN", "P1", true))
	p, _ = d.Get("P1")
	assert.True(t, p.Active)
}

func TestDirectory_SetOriginVerified(t *testing.T) {
	d := New("ADMIN")
	_, err := d.Register("ALICE", types.ProductRegistration{ID: "P1"}, 0)
	require.NoError(t, err)

	changed, err := d.SetOriginVerified("P1", true)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = d.SetOriginVerified("P1", true)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = d.SetOriginVerified("P2", true)
	require.ErrorIs(t, err, types.ErrProductNotFound)
}

func TestDirectory_LoadKeepsOrder(t *testing.T) {
	d := New("ADMIN")
	d.Load([]*types.Product{{ID: "B"}, {ID: "A"}, nil, {ID: "B"}})

	list := d.List()
	require.Len(t, list, 2)
	assert.Equal(t, types.ProductID("B"), list[0].ID)
	assert.Equal(t, types.ProductID("A"), list[1].ID)
}
