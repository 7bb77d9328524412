//go:build windows

package player

import (
	"context"
	"net"
	"time"

	"gopkg.in/natefinch/npipe.v2"
)

// dial connects to the mpv IPC named pipe
func dial(ctx context.Context, path string) (net.Conn, error) {
	var (
		conn *npipe.PipeConn
		err  error
	)
	if deadline, ok := ctx.Deadline(); ok {
		conn, err = npipe.DialTimeout(path, time.Until(deadline))
	} else {
		conn, err = npipe.Dial(path)
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// socketReady always reports true on Windows: a named pipe can only be probed by dialing it
func socketReady(string) bool {
	return true
}

// removeSocket is a no-op on Windows, named pipes disappear with their server
func removeSocket(string) {}
