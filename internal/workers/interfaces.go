// Package workers provides the client's background workers: the periodic
// sync ticker and the server reachability probe. Workers run until their
// context is cancelled; the Workers aggregate starts and stops them as a
// unit.
package workers

import "context"

// Worker is implemented by any background worker. Run blocks until ctx is
// cancelled.
type Worker interface {
	Run(ctx context.Context)
}
