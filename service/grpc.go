package service

import (
	"net"

	pkgerr "github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// A GRPC service
type GRPC struct {
	*service
	svr *grpc.Server
}

// NewGRPC create grpc service
func NewGRPC(opts ...grpc.ServerOption) *GRPC {
	return &GRPC{
		service: newService(),
		svr:     grpc.NewServer(opts...),
	}
}

// RegisterService add new service to the grpc server
func (g *GRPC) RegisterService(fn func(svr *grpc.Server)) {
	fn(g.svr)
}

// ListenAndServeAddr listens on the TCP network address and
// accepts incoming connections on the listener
func (g *GRPC) ListenAndServeAddr(addr string) error {
	g.SetAddr(addr)
	return g.ListenAndServe()
}

// ListenAndServe listens on the TCP network address and
// accepts incoming connections on the listener
func (g *GRPC) ListenAndServe() error {

	l, err := net.Listen("tcp", g.GetAddr())
	if err != nil {
		return pkgerr.Wrap(err, "new grpc listener")
	}

	addr := l.Addr().String()
	g.SetAddr(addr)

	run := func(retval chan<- error) {
		retval <- g.svr.Serve(l)
	}

	stop := func(*zap.Logger) {
		g.svr.GracefulStop()
	}

	return g.serve("grpc service", addr, run, stop)
}
