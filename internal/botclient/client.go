// Package botclient is a minimal terminal client for the EcoBot socket
// server. It relays server output to the terminal and terminal lines to
// the server until either side closes.
package botclient

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
)

// quit words end the chat from the client side; the server closes the
// session when it sees them.
var quitWords = map[string]bool{
	"salir": true,
	"exit":  true,
	"quit":  true,
}

// Client holds one open connection to the server.
type Client struct {
	conn net.Conn
}

// Dial connects to the server at addr.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the connection. Safe to call after Run returned.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Run pumps the conversation: server bytes go to out as they arrive,
// lines read from in go to the server. It returns when the server
// closes the connection, the input reaches EOF, or a quit word is sent.
func (c *Client) Run(in io.Reader, out io.Writer) error {
	var wg sync.WaitGroup
	wg.Add(1)

	serverClosed := make(chan struct{})
	go func() {
		defer wg.Done()
		_, _ = io.Copy(out, c.conn)
		close(serverClosed)
	}()

	sentQuit := false
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
			break
		}
		if quitWords[strings.ToLower(strings.TrimSpace(line))] {
			sentQuit = true
			break
		}
		select {
		case <-serverClosed:
		default:
			continue
		}
		break
	}

	// After a quit word the server sends its goodbye and closes; wait
	// for that so the farewell reaches the terminal.
	if sentQuit {
		<-serverClosed
	}
	_ = c.conn.Close()
	wg.Wait()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}
