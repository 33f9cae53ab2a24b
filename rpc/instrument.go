package rpc

import (
	"context"
	"time"

	"github.com/dialogs/dialog-io-service/qosmetrics"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Handler processes a request and fills resp, the message of the method
// output type
type Handler func(ctx context.Context, req, resp *dynamicpb.Message) error

// Instrument counts every call of h and observes its latency.
// The result of h is returned as is.
func Instrument(method Method, m qosmetrics.IRequestMetric, h Handler) Handler {

	name := method.String()

	return func(ctx context.Context, req, resp *dynamicpb.Message) error {
		m.IncRequest(name)

		start := time.Now()
		defer m.ObserveLatency(name, start)

		return h(ctx, req, resp)
	}
}
