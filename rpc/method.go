package rpc

import (
	"fmt"

	"github.com/dialogs/dialog-io-service/enum"
)

// Method is a rpc method of the IOService
type Method int

const (
	MethodPing Method = iota + 1
	MethodReadFile
	MethodWriteFile
)

var methods = enum.New[Method]().
	Add(MethodPing, "Ping").
	Add(MethodReadFile, "ReadFile").
	Add(MethodWriteFile, "WriteFile")

func (m Method) String() string {
	if name, ok := methods.GetByIndex(m); ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Methods returns the declared methods
func Methods() []Method {
	return methods.Values()
}

// MethodNames returns the names of the declared methods. They are the only
// values of the metric label.
func MethodNames() []string {
	return methods.StringKeys()
}

// ParseMethod returns the method by name
func ParseMethod(name string) (Method, bool) {
	return methods.GetByString(name)
}
