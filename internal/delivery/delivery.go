// Package delivery holds the entry points that expose the application to the outside world.
package delivery

import "context"

// Delivery is a long-running server started by the application. Serve blocks
// until the server stops; shutdown is driven by the fx lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
