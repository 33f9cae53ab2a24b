package info

import (
	"runtime"
	"time"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

// Build values, set by the linker:
// -ldflags "-X github.com/dialogs/dialog-io-service/service/info.Version=..."
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// A Info of the service
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"goVersion"`
	BuildDate string `json:"buildDate"`
}

// New returns the info of the current build
func New(name string) *Info {
	return &Info{
		Name:      name,
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		BuildDate: BuildDate,
	}
}

// A Health is the liveness report of the service
type Health struct {
	Status string `json:"status"`
	// Uptime in seconds
	Uptime float64 `json:"uptime"`
}

const StatusOK = "ok"

// NewHealth returns the report for a process started at startedAt
func NewHealth(startedAt time.Time) *Health {
	return &Health{
		Status: StatusOK,
		Uptime: time.Since(startedAt).Seconds(),
	}
}

var (
	_ easyjson.Marshaler   = (*Info)(nil)
	_ easyjson.Unmarshaler = (*Info)(nil)
	_ easyjson.Marshaler   = (*Health)(nil)
	_ easyjson.Unmarshaler = (*Health)(nil)
)

// MarshalJSON supports json.Marshaler interface
func (i Info) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	i.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}

// MarshalEasyJSON supports easyjson.Marshaler interface
func (i Info) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"name":`)
	w.String(i.Name)
	w.RawString(`,"version":`)
	w.String(i.Version)
	w.RawString(`,"commit":`)
	w.String(i.Commit)
	w.RawString(`,"goVersion":`)
	w.String(i.GoVersion)
	w.RawString(`,"buildDate":`)
	w.String(i.BuildDate)
	w.RawByte('}')
}

// UnmarshalJSON supports json.Unmarshaler interface
func (i *Info) UnmarshalJSON(data []byte) error {
	r := jlexer.Lexer{Data: data}
	i.UnmarshalEasyJSON(&r)
	return r.Error()
}

// UnmarshalEasyJSON supports easyjson.Unmarshaler interface
func (i *Info) UnmarshalEasyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "name":
			i.Name = in.String()
		case "version":
			i.Version = in.String()
		case "commit":
			i.Commit = in.String()
		case "goVersion":
			i.GoVersion = in.String()
		case "buildDate":
			i.BuildDate = in.String()
		default:
			in.SkipRecursive()
		}
	})
}

// MarshalJSON supports json.Marshaler interface
func (h Health) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	h.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}

// MarshalEasyJSON supports easyjson.Marshaler interface
func (h Health) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"status":`)
	w.String(h.Status)
	w.RawString(`,"uptime":`)
	w.Float64(h.Uptime)
	w.RawByte('}')
}

// UnmarshalJSON supports json.Unmarshaler interface
func (h *Health) UnmarshalJSON(data []byte) error {
	r := jlexer.Lexer{Data: data}
	h.UnmarshalEasyJSON(&r)
	return r.Error()
}

// UnmarshalEasyJSON supports easyjson.Unmarshaler interface
func (h *Health) UnmarshalEasyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "status":
			h.Status = in.String()
		case "uptime":
			h.Uptime = in.Float64()
		default:
			in.SkipRecursive()
		}
	})
}

// decodeObject walks the fields of a json object. field must consume the value.
func decodeObject(in *jlexer.Lexer, field func(key string)) {

	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}

	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeString()
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}

		field(key)
		in.WantComma()
	}
	in.Delim('}')

	if isTopLevel {
		in.Consumed()
	}
}
