package repositories

// RepositoryProvider bundles the concrete repositories handed to the service
// layer at startup.
type RepositoryProvider struct {
	RequestRepo  RequestRepositoryFacade
	DocumentRepo DocumentRepositoryWithTx
	SequenceRepo SequenceAllocator
	ResidentRepo ResidentReader
}
