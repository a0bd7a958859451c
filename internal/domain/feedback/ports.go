package feedback

import "context"

type Sender interface {
	Send(ctx context.Context, email Email) error
}

// Publisher hands a message to a worker instead of mailing it in the
// request.
type Publisher interface {
	Publish(ctx context.Context, message Message) error
}
