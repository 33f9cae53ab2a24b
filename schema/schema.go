// Package schema compiles the IOService interface description into
// protobuf descriptors at runtime.
package schema

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/bufbuild/protocompile"
	pkgerr "github.com/pkg/errors"
	"google.golang.org/protobuf/reflect/protoreflect"
)

const (
	FileName    = "io_service.proto"
	ServiceName = "aiswa.IOService"
)

// Field names of the messages
const (
	FieldMessage = "message"
	FieldPath    = "path"
	FieldContent = "content"
	FieldSuccess = "success"
)

//go:embed io_service.proto
var source string

// ErrServiceNotFound is returned when the compiled file has no IOService
var ErrServiceNotFound = errors.New("service not found")

// A Schema is the compiled IOService description
type Schema struct {
	file    protoreflect.FileDescriptor
	service protoreflect.ServiceDescriptor
}

// Load compiles the embedded description
func Load(ctx context.Context) (*Schema, error) {
	return Compile(ctx, source)
}

// Compile compiles src as the IOService description
func Compile(ctx context.Context, src string) (*Schema, error) {

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(map[string]string{
				FileName: src,
			}),
		}),
	}

	files, err := compiler.Compile(ctx, FileName)
	if err != nil {
		return nil, pkgerr.Wrap(err, "compile "+FileName)
	}

	file := files[0]

	svc := file.Services().ByName(protoreflect.FullName(ServiceName).Name())
	if svc == nil || string(svc.FullName()) != ServiceName {
		return nil, pkgerr.Wrap(ErrServiceNotFound, ServiceName)
	}

	return &Schema{
		file:    file,
		service: svc,
	}, nil
}

// File returns the compiled file descriptor
func (s *Schema) File() protoreflect.FileDescriptor {
	return s.file
}

// Service returns the service descriptor
func (s *Schema) Service() protoreflect.ServiceDescriptor {
	return s.service
}

// ServiceName returns the fully qualified service name
func (s *Schema) ServiceName() string {
	return string(s.service.FullName())
}

// Method returns the method descriptor by name, nil if there is no method
func (s *Schema) Method(name string) protoreflect.MethodDescriptor {
	return s.service.Methods().ByName(protoreflect.Name(name))
}

// MethodNames returns the method names in declaration order
func (s *Schema) MethodNames() []string {

	methods := s.service.Methods()

	names := make([]string, 0, methods.Len())
	for i := 0; i < methods.Len(); i++ {
		names = append(names, string(methods.Get(i).Name()))
	}

	return names
}

// FullMethod returns the rpc path of the method: /package.Service/Method
func (s *Schema) FullMethod(name string) string {
	return fmt.Sprintf("/%s/%s", s.ServiceName(), name)
}
