package collectible_test

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/internal/collectible"
	"github.com/musee-dezental/frame-core/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type declaringContract struct {
	interfaces map[uint32]bool
	err        error
}

func (c declaringContract) SupportsInterface(interfaceId uint32) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	return c.interfaces[interfaceId], nil
}

func TestProbe(t *testing.T) {
	capability, err := collectible.Probe(declaringContract{interfaces: map[uint32]bool{frame.InterfaceERC721: true}})
	require.NoError(t, err)
	assert.Equal(t, collectible.Erc721Like, capability)

	capability, err = collectible.Probe(declaringContract{interfaces: map[uint32]bool{frame.InterfaceERC1155: true}})
	require.NoError(t, err)
	assert.Equal(t, collectible.Erc1155Like, capability)
}

func TestProbe_NeitherCapability(t *testing.T) {
	capability, err := collectible.Probe(declaringContract{interfaces: map[uint32]bool{}})
	assert.ErrorIs(t, err, collectible.ErrUnrecognizedCall)
	assert.Equal(t, collectible.Unsupported, capability)
}

func TestProbe_CallFailure(t *testing.T) {
	callErr := errors.New("function selector was not recognized")

	_, err := collectible.Probe(declaringContract{err: callErr})
	assert.ErrorIs(t, err, callErr)
}

func TestRegistry_Resolve(t *testing.T) {
	registry := collectible.NewRegistry()
	addr := common.HexToAddress("0x1234567890123456789012345678901234567890")

	_, err := registry.Resolve(addr)
	assert.ErrorIs(t, err, collectible.ErrUnknownContract)

	c := declaringContract{interfaces: map[uint32]bool{frame.InterfaceERC721: true}}
	registry.Register(addr, c)

	resolved, err := registry.Resolve(addr)
	require.NoError(t, err)
	assert.Equal(t, c, resolved)
}
