package rpc

import (
	"context"
	"errors"

	iogrpc "github.com/dialogs/dialog-io-service/grpc"
	"github.com/dialogs/dialog-io-service/schema"
	pkgerr "github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// ErrInvalidConfiguration is returned when the handlers do not match the
// methods of the service
var ErrInvalidConfiguration = errors.New("invalid rpc configuration")

// Server binds the handlers to the methods of the compiled service
type Server struct {
	schema *schema.Schema
	desc   grpc.ServiceDesc
	log    *zap.Logger
}

// NewServer checks that every method of the service has a handler and every
// handler has a method in the service
func NewServer(s *schema.Schema, handlers map[Method]Handler, log *zap.Logger) (*Server, error) {

	if log == nil {
		log = zap.NewNop()
	}

	srv := &Server{
		schema: s,
		log:    log,
	}

	srv.desc = grpc.ServiceDesc{
		ServiceName: s.ServiceName(),
		HandlerType: (*interface{})(nil),
		Methods:     make([]grpc.MethodDesc, 0, len(handlers)),
		Streams:     []grpc.StreamDesc{},
		Metadata:    schema.FileName,
	}

	for _, name := range s.MethodNames() {
		md := s.Method(name)
		if md.IsStreamingClient() || md.IsStreamingServer() {
			return nil, pkgerr.Wrapf(ErrInvalidConfiguration, "streaming method %s", name)
		}

		method, ok := ParseMethod(name)
		if !ok {
			return nil, pkgerr.Wrapf(ErrInvalidConfiguration, "unknown method %s", name)
		}

		h := handlers[method]
		if h == nil {
			return nil, pkgerr.Wrapf(ErrInvalidConfiguration, "method %s has no handler", name)
		}

		srv.desc.Methods = append(srv.desc.Methods, grpc.MethodDesc{
			MethodName: name,
			Handler:    srv.unaryHandler(md, h),
		})
	}

	for method := range handlers {
		if s.Method(method.String()) == nil {
			return nil, pkgerr.Wrapf(ErrInvalidConfiguration, "handler %s has no method in %s", method, s.ServiceName())
		}
	}

	return srv, nil
}

// ServiceDesc returns the description used for the registration
func (s *Server) ServiceDesc() *grpc.ServiceDesc {
	return &s.desc
}

// Register adds the service to svr
func (s *Server) Register(svr *grpc.Server) {
	svr.RegisterService(&s.desc, s)
}

// ServerOptions returns the options the grpc server has to be created with
func (s *Server) ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.UnknownServiceHandler(s.unknown),
	}
}

func (s *Server) unaryHandler(md protoreflect.MethodDescriptor, h Handler) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {

	info := &grpc.UnaryServerInfo{
		Server:     s,
		FullMethod: s.schema.FullMethod(string(md.Name())),
	}

	call := func(ctx context.Context, req interface{}) (interface{}, error) {

		in, ok := req.(*dynamicpb.Message)
		if !ok {
			return nil, iogrpc.ErrInvalidRequest
		}

		out := dynamicpb.NewMessage(md.Output())
		if err := h(ctx, in, out); err != nil {
			return nil, iogrpc.ToStatus(err)
		}

		return out, nil
	}

	return func(_ interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {

		in := dynamicpb.NewMessage(md.Input())
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return call(ctx, in)
		}

		return interceptor(ctx, in, info, call)
	}
}

// unknown handles the calls of the methods which are not registered
func (s *Server) unknown(_ interface{}, stream grpc.ServerStream) error {

	fullMethod, _ := grpc.MethodFromServerStream(stream)
	s.log.Debug("unknown method", zap.String("method", fullMethod))

	return iogrpc.Unimplemented(fullMethod)
}
