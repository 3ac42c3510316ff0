package store

// Key identifies one aggregation bucket. Service and Status are empty
// strings when the caller did not supply them; normalization happens at
// the ingestion boundary, never inside the store.
type Key struct {
	Event   string
	Service string
	Status  string
}
