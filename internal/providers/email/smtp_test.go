package email

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_RejectsEmptyRecipients(t *testing.T) {
	p := NewSMTP(Config{Host: "127.0.0.1", Port: 2525, From: "billing@solo.test"})

	err := p.Send(context.Background(), Message{Subject: "x", HTML: "<p>x</p>"})
	assert.Error(t, err)
}

func TestSend_HonorsContextDeadline(t *testing.T) {
	// A server that accepts the connection and never sends a greeting. The
	// deadline from the context must unblock the session.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		io.Copy(io.Discard, conn)
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	p := NewSMTP(Config{Host: "127.0.0.1", Port: port, From: "billing@solo.test"})

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = p.Send(ctx, Message{
		To:   []string{"client@acme.test"},
		HTML: "<p>hello</p>",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnect)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSend_CancelledContextFailsFast(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	p := NewSMTP(Config{Host: "127.0.0.1", Port: port, From: "billing@solo.test"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.Send(ctx, Message{
		To:   []string{"client@acme.test"},
		HTML: "<p>hello</p>",
	})
	assert.Error(t, err)
}
