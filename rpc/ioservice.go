package rpc

import (
	"context"

	"github.com/dialogs/dialog-io-service/ioservice"
	"github.com/dialogs/dialog-io-service/qosmetrics"
	"github.com/dialogs/dialog-io-service/schema"
	pkgerr "github.com/pkg/errors"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// NewIOService returns the instrumented handlers of the service methods
func NewIOService(svc *ioservice.Service, m qosmetrics.IRequestMetric) map[Method]Handler {
	return map[Method]Handler{
		MethodPing:      Instrument(MethodPing, m, ping(svc)),
		MethodReadFile:  Instrument(MethodReadFile, m, readFile(svc)),
		MethodWriteFile: Instrument(MethodWriteFile, m, writeFile(svc)),
	}
}

func ping(svc *ioservice.Service) Handler {
	return func(ctx context.Context, req, resp *dynamicpb.Message) error {

		message, err := getString(req, schema.FieldMessage)
		if err != nil {
			return err
		}

		return set(resp, schema.FieldMessage, protoreflect.ValueOfString(svc.Ping(ctx, message)))
	}
}

func readFile(svc *ioservice.Service) Handler {
	return func(ctx context.Context, req, resp *dynamicpb.Message) error {

		path, err := getString(req, schema.FieldPath)
		if err != nil {
			return err
		}

		content, err := svc.ReadFile(ctx, path)
		if err != nil {
			return err
		}

		return set(resp, schema.FieldContent, protoreflect.ValueOfString(content))
	}
}

func writeFile(svc *ioservice.Service) Handler {
	return func(ctx context.Context, req, resp *dynamicpb.Message) error {

		path, err := getString(req, schema.FieldPath)
		if err != nil {
			return err
		}

		content, err := getString(req, schema.FieldContent)
		if err != nil {
			return err
		}

		ok, err := svc.WriteFile(ctx, path, content)
		if err != nil {
			return err
		}

		return set(resp, schema.FieldSuccess, protoreflect.ValueOfBool(ok))
	}
}

func field(msg *dynamicpb.Message, name string) (protoreflect.FieldDescriptor, error) {

	fd := msg.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		return nil, pkgerr.Errorf("field %s not found in %s", name, msg.Descriptor().FullName())
	}

	return fd, nil
}

func getString(msg *dynamicpb.Message, name string) (string, error) {

	fd, err := field(msg, name)
	if err != nil {
		return "", err
	}

	if fd.Kind() != protoreflect.StringKind {
		return "", pkgerr.Errorf("field %s is not a string", fd.FullName())
	}

	return msg.Get(fd).String(), nil
}

func set(msg *dynamicpb.Message, name string, val protoreflect.Value) error {

	fd, err := field(msg, name)
	if err != nil {
		return err
	}

	msg.Set(fd, val)
	return nil
}
