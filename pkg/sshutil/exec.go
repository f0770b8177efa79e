package sshutil

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/rileyhilliard/gapview/internal/errors"
	"golang.org/x/crypto/ssh"
)

// Exec runs cmd on the remote host and returns its stdout. A non-zero exit
// status is an error carrying the command's stderr. Cancelling ctx closes
// the session.
func (c *Client) Exec(ctx context.Context, cmd string) ([]byte, error) {
	session, err := c.conn.NewSession()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			"Failed to create SSH session",
			"Connection may have been closed. Try again.")
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- session.Run(cmd) }()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGTERM)
		session.Close()
		return nil, errors.WrapWithCode(ctx.Err(), errors.ErrExec,
			fmt.Sprintf("'%s' on %s didn't finish in time", cmd, c.host),
			"Raise source.timeout or make the command cheaper.")
	case err = <-done:
	}

	if err != nil {
		var exitErr *ssh.ExitError
		if stderrors.As(err, &exitErr) {
			return nil, errors.WrapWithCode(err, errors.ErrExec,
				fmt.Sprintf("'%s' exited with status %d on %s", cmd, exitErr.ExitStatus(), c.host),
				stderrHint(stderr.String()))
		}
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Failed to run '%s' on %s", cmd, c.host),
			"Check the command exists on the remote host.")
	}

	return stdout.Bytes(), nil
}

func stderrHint(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return "Run the command over plain ssh to see what went wrong."
	}
	if len(stderr) > 300 {
		stderr = stderr[:300] + "..."
	}
	return "Remote said: " + stderr
}
