// Package services implements the driving port interfaces.
// Services contain the core retrieval logic and orchestrate
// calls to driven ports (adapters).
//
// The retrieval engine lives here: it serialises builds behind a
// mutex and publishes immutable index snapshots through an atomic
// pointer, so queries never block on a rebuild.
package services
