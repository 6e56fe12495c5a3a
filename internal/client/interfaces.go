package client

import "context"

// Client runs one command of the API client.
type Client interface {
	Run(ctx context.Context, args []string) error
}
