package exhibit_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/internal/collectible"
	"github.com/musee-dezental/frame-core/internal/entity"
	"github.com/musee-dezental/frame-core/internal/event"
	"github.com/musee-dezental/frame-core/internal/exhibit"
	"github.com/musee-dezental/frame-core/internal/ledger"
	"github.com/musee-dezental/frame-core/internal/store"
	"github.com/musee-dezental/frame-core/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner  = common.HexToAddress("0x1111111111111111111111111111111111111111")
	renter = common.HexToAddress("0x2222222222222222222222222222222222222222")
	other  = common.HexToAddress("0x3333333333333333333333333333333333333333")

	erc721Addr  = common.HexToAddress("0x7211111111111111111111111111111111111111")
	erc1155Addr = common.HexToAddress("0x1155111111111111111111111111111111111111")
	brokenAddr  = common.HexToAddress("0xdead111111111111111111111111111111111111")
)

// mockErc721 tracks a single owner per token id.
type mockErc721 struct {
	owners map[uint64]common.Address
}

func (m mockErc721) SupportsInterface(interfaceId uint32) (bool, error) {
	return interfaceId == frame.InterfaceERC721, nil
}

func (m mockErc721) OwnerOf(tokenId uint64) (common.Address, error) {
	o, ok := m.owners[tokenId]
	if !ok {
		return common.Address{}, fmt.Errorf("owner query for nonexistent token")
	}
	return o, nil
}

func (m mockErc721) TokenURI(tokenId uint64) (string, error) {
	return fmt.Sprintf("ipfs://ERC721Mock/%d", tokenId), nil
}

// mockErc1155 tracks balances per holder and id.
type mockErc1155 struct {
	balances map[common.Address]map[uint64]uint64
}

func (m mockErc1155) SupportsInterface(interfaceId uint32) (bool, error) {
	return interfaceId == frame.InterfaceERC1155, nil
}

func (m mockErc1155) BalanceOf(holder common.Address, tokenId uint64) (uint64, error) {
	return m.balances[holder][tokenId], nil
}

func (m mockErc1155) URI(tokenId uint64) (string, error) {
	return fmt.Sprintf("ipfs://ERC1155Mock/%d", tokenId), nil
}

// brokenContract answers no capability query at all.
type brokenContract struct{}

func (brokenContract) SupportsInterface(interfaceId uint32) (bool, error) {
	return false, collectible.ErrUnrecognizedCall
}

type fixture struct {
	badger   *store.Badger
	frames   store.FrameRepository
	registry exhibit.Registry
	clock    *ledger.ManualClock
}

func newFixture(t *testing.T) fixture {
	b, err := store.Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	frameRepo := store.NewFrameRepository()
	clock := ledger.NewManualClock(1000)

	resolver := collectible.NewRegistry()
	resolver.Register(erc721Addr, mockErc721{owners: map[uint64]common.Address{
		1: owner,
		2: renter,
	}})
	resolver.Register(erc1155Addr, mockErc1155{balances: map[common.Address]map[uint64]uint64{
		owner: {7: 3},
	}})
	resolver.Register(brokenAddr, brokenContract{})

	registry := exhibit.NewRegistry(b, frameRepo, resolver, clock)

	return fixture{b, frameRepo, registry, clock}
}

func (f fixture) saveFrame(t *testing.T, fr entity.Frame) {
	err := f.badger.Update(func(txn *badger.Txn) error {
		return f.frames.SaveFrame(txn, fr)
	})
	require.NoError(t, err)
}

func TestRegistry_SetExhibitErc721(t *testing.T) {
	f := newFixture(t)
	f.saveFrame(t, entity.Frame{TokenId: 181, Owner: owner})

	require.NoError(t, f.registry.SetExhibit(owner, 181, erc721Addr, 1))

	e, err := f.registry.GetExhibit(181)
	require.NoError(t, err)
	assert.Equal(t, erc721Addr, e.Contract)
	assert.Equal(t, uint64(1), e.TokenId)

	uri, err := f.registry.GetExhibitTokenURI(181)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://ERC721Mock/1", uri)
}

func TestRegistry_SetExhibitErc1155(t *testing.T) {
	f := newFixture(t)
	f.saveFrame(t, entity.Frame{TokenId: 181, Owner: owner})

	require.NoError(t, f.registry.SetExhibit(owner, 181, erc1155Addr, 7))

	uri, err := f.registry.GetExhibitTokenURI(181)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://ERC1155Mock/7", uri)
}

func TestRegistry_SetExhibitRequiresHolding(t *testing.T) {
	f := newFixture(t)
	f.saveFrame(t, entity.Frame{TokenId: 181, Owner: owner})

	// Token 2 belongs to someone else.
	err := f.registry.SetExhibit(owner, 181, erc721Addr, 2)
	assert.ErrorIs(t, err, exhibit.ErrExhibitInvalid)

	// Zero balance under 1155 semantics.
	err = f.registry.SetExhibit(owner, 181, erc1155Addr, 99)
	assert.ErrorIs(t, err, exhibit.ErrExhibitInvalid)
}

func TestRegistry_SetExhibitNonCompliantContract(t *testing.T) {
	f := newFixture(t)
	f.saveFrame(t, entity.Frame{TokenId: 181, Owner: owner})

	// The capability probe's own failure surfaces verbatim.
	err := f.registry.SetExhibit(owner, 181, brokenAddr, 1)
	assert.ErrorIs(t, err, collectible.ErrUnrecognizedCall)
}

func TestRegistry_SetExhibitUnknownContract(t *testing.T) {
	f := newFixture(t)
	f.saveFrame(t, entity.Frame{TokenId: 181, Owner: owner})

	err := f.registry.SetExhibit(owner, 181, other, 1)
	assert.ErrorIs(t, err, collectible.ErrUnknownContract)
}

func TestRegistry_ControllerRule(t *testing.T) {
	f := newFixture(t)
	f.saveFrame(t, entity.Frame{
		TokenId:             181,
		Owner:               owner,
		RentalPricePerBlock: frame.Wei(1),
		Rental:              &entity.Rental{Renter: renter, ExpiryBlock: 2000},
	})

	// During the rental the renter controls the exhibit, not the owner.
	err := f.registry.SetExhibit(owner, 181, erc721Addr, 1)
	assert.ErrorIs(t, err, exhibit.ErrNotController)

	require.NoError(t, f.registry.SetExhibit(renter, 181, erc721Addr, 2))

	// Control reverts to the owner at expiry.
	f.clock.SetBlock(2000)
	err = f.registry.SetExhibit(renter, 181, erc721Addr, 2)
	assert.ErrorIs(t, err, exhibit.ErrNotController)

	require.NoError(t, f.registry.SetExhibit(owner, 181, erc721Addr, 1))
}

func TestRegistry_ExhibitEvents(t *testing.T) {
	f := newFixture(t)
	f.saveFrame(t, entity.Frame{TokenId: 181, Owner: owner})

	events := make(chan entity.ExhibitSetEvent, 8)
	event.AddEventListener(event.ExhibitSetEvent, func(msg interface{}) {
		if e, ok := msg.(entity.ExhibitSetEvent); ok {
			events <- e
		}
	})

	require.NoError(t, f.registry.SetExhibit(owner, 181, erc721Addr, 1))

	e := waitForExhibitEvent(t, events)
	assert.Equal(t, uint64(181), e.FrameId)
	assert.Equal(t, erc721Addr, e.Contract)
	assert.Equal(t, uint64(1), e.TokenId)

	// Clearing announces the zero pointer so downstream consumers can
	// drop the exhibit without a second lookup.
	require.NoError(t, f.registry.ClearExhibit(owner, 181))

	e = waitForExhibitEvent(t, events)
	assert.Equal(t, uint64(181), e.FrameId)
	assert.Equal(t, common.Address{}, e.Contract)
	assert.Equal(t, uint64(0), e.TokenId)
}

func waitForExhibitEvent(t *testing.T, events chan entity.ExhibitSetEvent) entity.ExhibitSetEvent {
	t.Helper()
	select {
	case e := <-events:
		return e
	case <-time.After(time.Second):
		t.Fatal("exhibit event not delivered")
		return entity.ExhibitSetEvent{}
	}
}

func TestRegistry_ClearExhibit(t *testing.T) {
	f := newFixture(t)
	f.saveFrame(t, entity.Frame{TokenId: 181, Owner: owner})

	require.NoError(t, f.registry.SetExhibit(owner, 181, erc721Addr, 1))

	err := f.registry.ClearExhibit(other, 181)
	assert.ErrorIs(t, err, exhibit.ErrNotController)

	require.NoError(t, f.registry.ClearExhibit(owner, 181))

	e, err := f.registry.GetExhibit(181)
	require.NoError(t, err)
	assert.True(t, e.IsZero())

	uri, err := f.registry.GetExhibitTokenURI(181)
	require.NoError(t, err)
	assert.Empty(t, uri)
}
