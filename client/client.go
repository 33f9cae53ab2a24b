// Package client calls the IOService with the messages of the embedded
// service description.
package client

import (
	"context"

	"github.com/dialogs/dialog-io-service/schema"
	pkgerr "github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// A Client of the IOService
type Client struct {
	conn   grpc.ClientConnInterface
	closer func() error
	schema *schema.Schema
}

// Dial creates a client of the service at addr. Without options the
// connection is not encrypted.
func Dial(ctx context.Context, addr string, opts ...grpc.DialOption) (*Client, error) {

	s, err := schema.Load(ctx)
	if err != nil {
		return nil, err
	}

	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, pkgerr.Wrap(err, "new grpc client")
	}

	c := New(conn, s)
	c.closer = conn.Close

	return c, nil
}

// New creates a client on the connection. Close does not close conn.
func New(conn grpc.ClientConnInterface, s *schema.Schema) *Client {
	return &Client{
		conn:   conn,
		closer: func() error { return nil },
		schema: s,
	}
}

// Close closes the connection created by Dial
func (c *Client) Close() error {
	return c.closer()
}

// Ping returns the echo of message
func (c *Client) Ping(ctx context.Context, message string, opts ...grpc.CallOption) (string, error) {

	resp, err := c.invoke(ctx, "Ping", map[string]protoreflect.Value{
		schema.FieldMessage: protoreflect.ValueOfString(message),
	}, opts...)
	if err != nil {
		return "", err
	}

	return resp.Get(resp.Descriptor().Fields().ByName(schema.FieldMessage)).String(), nil
}

// ReadFile returns the content of the remote file
func (c *Client) ReadFile(ctx context.Context, path string, opts ...grpc.CallOption) (string, error) {

	resp, err := c.invoke(ctx, "ReadFile", map[string]protoreflect.Value{
		schema.FieldPath: protoreflect.ValueOfString(path),
	}, opts...)
	if err != nil {
		return "", err
	}

	return resp.Get(resp.Descriptor().Fields().ByName(schema.FieldContent)).String(), nil
}

// WriteFile creates or truncates the remote file and writes content to it
func (c *Client) WriteFile(ctx context.Context, path, content string, opts ...grpc.CallOption) (bool, error) {

	resp, err := c.invoke(ctx, "WriteFile", map[string]protoreflect.Value{
		schema.FieldPath:    protoreflect.ValueOfString(path),
		schema.FieldContent: protoreflect.ValueOfString(content),
	}, opts...)
	if err != nil {
		return false, err
	}

	return resp.Get(resp.Descriptor().Fields().ByName(schema.FieldSuccess)).Bool(), nil
}

func (c *Client) invoke(ctx context.Context, method string, fields map[string]protoreflect.Value, opts ...grpc.CallOption) (*dynamicpb.Message, error) {

	md := c.schema.Method(method)
	if md == nil {
		return nil, pkgerr.Errorf("unknown method %s", method)
	}

	req := dynamicpb.NewMessage(md.Input())
	for name, val := range fields {
		fd := md.Input().Fields().ByName(protoreflect.Name(name))
		if fd == nil {
			return nil, pkgerr.Errorf("field %s not found in %s", name, md.Input().FullName())
		}
		req.Set(fd, val)
	}

	resp := dynamicpb.NewMessage(md.Output())
	if err := c.conn.Invoke(ctx, c.schema.FullMethod(method), req, resp, opts...); err != nil {
		return nil, err
	}

	return resp, nil
}
