package ioservice

// IOFailure is returned when a file system operation failed.
// The message is the text of the original error.
type IOFailure struct {
	Op   string
	Path string
	Err  error
}

func (e *IOFailure) Error() string {
	return e.Err.Error()
}

func (e *IOFailure) Unwrap() error {
	return e.Err
}

func newIOFailure(op, path string, err error) *IOFailure {
	return &IOFailure{Op: op, Path: path, Err: err}
}
