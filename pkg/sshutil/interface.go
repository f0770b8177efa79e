package sshutil

import "context"

// Runner runs a command over SSH and returns its stdout.
// *Client satisfies it; tests substitute a fake.
type Runner interface {
	Exec(ctx context.Context, cmd string) ([]byte, error)
	Close() error
	Host() string
}

// Dialer opens a Runner for host.
type Dialer func(ctx context.Context, host string) (Runner, error)

// DialRunner is the default Dialer.
func DialRunner(ctx context.Context, host string) (Runner, error) {
	c, err := Dial(ctx, host)
	if err != nil {
		return nil, err
	}
	return c, nil
}
