package access_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/internal/access"
	"github.com/musee-dezental/frame-core/internal/entity"
	"github.com/musee-dezental/frame-core/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin    = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	stranger = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

func newService(t *testing.T) access.Service {
	b, err := store.Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	return access.NewService(b, store.NewAccessRepository(), admin)
}

func TestService_RequireAdmin(t *testing.T) {
	svc := newService(t)

	assert.NoError(t, svc.RequireAdmin(admin))
	assert.ErrorIs(t, svc.RequireAdmin(stranger), access.ErrOnlyOwner)
}

func TestService_SaleStatus(t *testing.T) {
	svc := newService(t)

	status, err := svc.SaleStatus()
	require.NoError(t, err)
	assert.Equal(t, entity.SaleOff, status)

	assert.ErrorIs(t, svc.SetSaleStatus(stranger, entity.SalePublic), access.ErrOnlyOwner)

	require.NoError(t, svc.SetSaleStatus(admin, entity.SalePresale))

	status, err = svc.SaleStatus()
	require.NoError(t, err)
	assert.Equal(t, entity.SalePresale, status)
}

func TestService_PresaleRole(t *testing.T) {
	svc := newService(t)

	granted, err := svc.HasPresaleRole(stranger)
	require.NoError(t, err)
	assert.False(t, granted)

	assert.ErrorIs(t, svc.GrantPresaleRole(stranger, stranger), access.ErrOnlyOwner)

	require.NoError(t, svc.GrantPresaleRole(admin, stranger))

	granted, err = svc.HasPresaleRole(stranger)
	require.NoError(t, err)
	assert.True(t, granted)
}
