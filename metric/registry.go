package metric

import (
	"bytes"
	"net/http"

	pkgerr "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"
)

// NewRegistry creates the process registry with the go runtime and
// process collectors attached
func NewRegistry() *prometheus.Registry {

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

// Render returns a text snapshot of all metrics of the gatherer.
// Families are sorted by name, series inside a family by label values.
func Render(g prometheus.Gatherer) (string, error) {

	families, gatherErr := g.Gather()

	buf := bytes.NewBuffer(nil)
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(buf, mf); err != nil {
			return "", pkgerr.Wrap(err, "render metric family "+mf.GetName())
		}
	}

	if gatherErr != nil {
		return buf.String(), pkgerr.Wrap(gatherErr, "gather metrics")
	}

	return buf.String(), nil
}

// Handler returns the exposition http handler of the gatherer
func Handler(g prometheus.Gatherer, l *zap.Logger) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{
		ErrorLog:      zap.NewStdLog(l),
		ErrorHandling: promhttp.ContinueOnError,
	})
}
