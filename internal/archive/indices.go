package archive

import (
	"fmt"

	"github.com/musee-dezental/frame-core/internal/config"
)

type Indices string

var (
	MintRequestIndex   Indices = "mintrequest"
	MintFulfilledIndex Indices = "mintfulfilled"
	ExhibitIndex       Indices = "exhibit"
	RentalIndex        Indices = "rental"
	WithdrawalIndex    Indices = "withdrawal"
	AuditErrorIndex    Indices = "auditerror"
)

// Get prefixes the index with the network and collection name.
func (i *Indices) Get() string {
	return fmt.Sprintf("%s.%s.%s", config.Get().Network, config.Get().Index, string(*i))
}
