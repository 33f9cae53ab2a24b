package rpc

import (
	"context"
	"testing"
	"time"

	iogrpc "github.com/dialogs/dialog-io-service/grpc"
	"github.com/dialogs/dialog-io-service/ioservice"
	"github.com/dialogs/dialog-io-service/logger/memory"
	"github.com/dialogs/dialog-io-service/metric"
	"github.com/dialogs/dialog-io-service/qosmetrics"
	"github.com/dialogs/dialog-io-service/schema"
	"github.com/dialogs/dialog-io-service/service"
	"github.com/dialogs/dialog-io-service/worker"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

type testEnv struct {
	conn   *grpc.ClientConn
	schema *schema.Schema
	reg    *prometheus.Registry
	logs   *memory.Buffer
}

func newTestEnv(t *testing.T, fs ioservice.FileSystem) *testEnv {
	t.Helper()

	ctx := context.Background()

	s, err := schema.Load(ctx)
	require.NoError(t, err)

	log, logs, err := memory.New(nil)
	require.NoError(t, err)

	pool := worker.NewDispatcher(4)
	pool.Run()
	t.Cleanup(func() { require.NoError(t, pool.Close()) })

	reg, m := newMetrics(t)

	srv, err := NewServer(s, NewIOService(ioservice.New(fs, pool, log), m), log)
	require.NoError(t, err)

	opts := append(srv.ServerOptions(), grpc.UnaryInterceptor(iogrpc.UnaryServerInterceptor(log)))
	svc := service.NewGRPC(opts...)
	svc.RegisterService(srv.Register)

	chErr := make(chan error, 1)
	go func() {
		chErr <- svc.ListenAndServeAddr("127.0.0.1:0")
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !svc.Ready() {
		require.True(t, time.Now().Before(deadline), "grpc service is not ready")
		time.Sleep(time.Millisecond)
	}

	conn, err := grpc.NewClient(svc.GetAddr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, conn.Close())
		require.NoError(t, svc.Close())
		require.NoError(t, <-chErr)
	})

	return &testEnv{
		conn:   conn,
		schema: s,
		reg:    reg,
		logs:   logs,
	}
}

func (e *testEnv) invoke(ctx context.Context, method string, fields map[string]interface{}, opts ...grpc.CallOption) (*dynamicpb.Message, error) {

	md := e.schema.Method(method)
	if md == nil {
		// unknown methods are called with the ping messages
		md = e.schema.Method(MethodPing.String())
	}

	req := dynamicpb.NewMessage(md.Input())
	for name, val := range fields {
		fd := md.Input().Fields().ByName(protoreflect.Name(name))
		req.Set(fd, protoreflect.ValueOf(val))
	}

	resp := dynamicpb.NewMessage(md.Output())
	if err := e.conn.Invoke(ctx, e.schema.FullMethod(method), req, resp, opts...); err != nil {
		return nil, err
	}

	return resp, nil
}

func (e *testEnv) invokePath(ctx context.Context, fullMethod string) error {

	md := e.schema.Method(MethodPing.String())
	return e.conn.Invoke(ctx, fullMethod, dynamicpb.NewMessage(md.Input()), dynamicpb.NewMessage(md.Output()))
}

func get(msg *dynamicpb.Message, name string) protoreflect.Value {
	return msg.Get(msg.Descriptor().Fields().ByName(protoreflect.Name(name)))
}

func newMetrics(t *testing.T) (*prometheus.Registry, *qosmetrics.RequestMetrics) {
	t.Helper()

	reg := metric.NewRegistry()
	m, err := qosmetrics.New(reg, MethodNames()...)
	require.NoError(t, err)

	return reg, m
}

func findMetric(t *testing.T, reg prometheus.Gatherer, name, method string) *dto.Metric {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}

		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == qosmetrics.LabelMethod && label.GetValue() == method {
					return m
				}
			}
		}
	}

	t.Fatalf("metric %s{method=%q} not found", name, method)
	return nil
}

func counterValue(t *testing.T, reg prometheus.Gatherer, method string) float64 {
	t.Helper()
	return findMetric(t, reg, qosmetrics.RequestsTotalName, method).GetCounter().GetValue()
}

func histogramCount(t *testing.T, reg prometheus.Gatherer, method string) uint64 {
	t.Helper()
	return findMetric(t, reg, qosmetrics.RequestDurationName, method).GetHistogram().GetSampleCount()
}
