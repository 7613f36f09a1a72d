package collectible

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/pkg/frame"
)

var (
	// ErrUnrecognizedCall is the probe call itself failing: the contract
	// does not answer the capability query at all. Deliberately not a
	// typed business error, so "not a compliant collectible" stays
	// distinguishable from "compliant but not owned".
	ErrUnrecognizedCall = errors.New("function selector was not recognized")

	ErrUnknownContract = errors.New("unknown collectible contract")
)

// Capability tags the token standard a probed contract declared.
type Capability string

const (
	Erc721Like  Capability = "erc721"
	Erc1155Like Capability = "erc1155"
	Unsupported Capability = "unsupported"
)

// Contract is the minimal surface of an external collectible contract.
type Contract interface {
	SupportsInterface(interfaceId uint32) (bool, error)
}

// Erc721 exposes sole-ownership semantics and per-token URIs.
type Erc721 interface {
	Contract
	OwnerOf(tokenId uint64) (common.Address, error)
	TokenURI(tokenId uint64) (string, error)
}

// Erc1155 exposes balance semantics and the substitution-style URI.
type Erc1155 interface {
	Contract
	BalanceOf(owner common.Address, tokenId uint64) (uint64, error)
	URI(tokenId uint64) (string, error)
}

// Probe runs the capability query against a contract. A probe error is
// returned verbatim; a contract declaring neither recognized capability
// fails the same way a missing selector does.
func Probe(c Contract) (Capability, error) {
	ok, err := c.SupportsInterface(frame.InterfaceERC721)
	if err != nil {
		return Unsupported, err
	}
	if ok {
		return Erc721Like, nil
	}

	ok, err = c.SupportsInterface(frame.InterfaceERC1155)
	if err != nil {
		return Unsupported, err
	}
	if ok {
		return Erc1155Like, nil
	}

	return Unsupported, ErrUnrecognizedCall
}

// Resolver finds the contract behind an address.
type Resolver interface {
	Resolve(addr common.Address) (Contract, error)
}

// Registry is an in-process resolver populated by deployment tooling.
type Registry struct {
	mu        sync.RWMutex
	contracts map[common.Address]Contract
}

func NewRegistry() *Registry {
	return &Registry{contracts: make(map[common.Address]Contract)}
}

func (r *Registry) Register(addr common.Address, c Contract) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.contracts[addr] = c
}

func (r *Registry) Resolve(addr common.Address) (Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contracts[addr]
	if !ok {
		return nil, ErrUnknownContract
	}

	return c, nil
}
