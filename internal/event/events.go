package event

type Type string

const (
	MintRequestedEvent      Type = "MintRequestedEvent"
	MintFulfilledEvent      Type = "MintFulfilledEvent"
	ExhibitSetEvent         Type = "ExhibitSetEvent"
	RenterSetEvent          Type = "RenterSetEvent"
	RentalFeeCollectedEvent Type = "RentalFeeCollectedEvent"
	EtherWithdrawnEvent     Type = "EtherWithdrawnEvent"
	LinkWithdrawnEvent      Type = "LinkWithdrawnEvent"
)
