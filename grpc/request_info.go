package grpc

import (
	"context"
	"time"

	"github.com/dialogs/dialog-io-service/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// HeaderRequestID is the metadata key of the request id
const HeaderRequestID = "x-request-id"

type RequestInfo struct {
	RequestID   string
	Metadata    metadata.MD
	RequestName string
	Logger      *zap.Logger
}

type requestInfoKey struct{}

// WithRequestInfo returns the context carrying ri
func WithRequestInfo(ctx context.Context, ri *RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, ri)
}

// RequestInfoFromContext returns the request info of the call
func RequestInfoFromContext(ctx context.Context) (*RequestInfo, bool) {
	ri, ok := ctx.Value(requestInfoKey{}).(*RequestInfo)
	return ri, ok
}

// GetRequestInfo collects the request info from the incoming metadata.
// A request id is generated if the client did not send one.
func GetRequestInfo(ctx context.Context, requestName string, log *zap.Logger) *RequestInfo {

	md, found := metadata.FromIncomingContext(ctx)
	if !found {
		md = metadata.MD{}
	}

	ri := &RequestInfo{
		Metadata:    md,
		RequestName: requestName,
	}

	if vals := md.Get(HeaderRequestID); len(vals) > 0 && vals[0] != "" {
		ri.RequestID = vals[0]
	} else {
		ri.RequestID = uuid.NewString()
	}

	ri.Logger = log.With(
		zap.String("method", requestName),
		zap.String("request_id", ri.RequestID))

	return ri
}

// UnaryServerInterceptor attaches the request info and the request logger
// to the context, returns
// the request id in the response header and logs the call result
func UnaryServerInterceptor(log *zap.Logger) gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (interface{}, error) {

		ri := GetRequestInfo(ctx, info.FullMethod, log)
		if err := gogrpc.SetHeader(ctx, metadata.Pairs(HeaderRequestID, ri.RequestID)); err != nil {
			ri.Logger.Debug("failed to set request id header", zap.Error(err))
		}

		start := time.Now()
		ctx = logger.WithContext(WithRequestInfo(ctx, ri), ri.Logger)
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.Duration("duration", time.Since(start)),
			zap.Stringer("code", status.Code(err)),
		}

		if err != nil {
			ri.Logger.Warn("request failed", append(fields, zap.Error(err))...)
		} else {
			ri.Logger.Debug("request completed", fields...)
		}

		return resp, err
	}
}
