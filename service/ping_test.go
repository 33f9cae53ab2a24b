package service

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
)

// PingConn dials the address count times. A nil tlsConfig means a plain
// tcp connection.
func PingConn(addr string, count int, timeout time.Duration, tlsConfig *tls.Config) error {

	for i := 0; i < count; i++ {
		dialer := &net.Dialer{Timeout: timeout}

		var (
			conn net.Conn
			err  error
		)
		if tlsConfig != nil {
			conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
		} else {
			conn, err = dialer.Dial("tcp", addr)
		}
		if err != nil {
			return err
		}

		if err := conn.Close(); err != nil {
			return err
		}
	}

	return nil
}

// PingGRPC opens count grpc connections and waits until they are ready
func PingGRPC(ctx context.Context, addr string, count int, opts ...grpc.DialOption) error {

	for i := 0; i < count; i++ {
		if err := pingGRPC(ctx, addr, opts...); err != nil {
			return err
		}
	}

	return nil
}

func pingGRPC(ctx context.Context, addr string, opts ...grpc.DialOption) error {

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return err
	}
	defer conn.Close()

	conn.Connect()
	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			return nil
		}

		if !conn.WaitForStateChange(ctx, state) {
			return ctx.Err()
		}
	}
}
