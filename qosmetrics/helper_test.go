package qosmetrics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/require"
)

func gatherHistogram(t *testing.T, m *RequestMetrics, method string) *dto.MetricFamily {
	t.Helper()

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(m.latencyHisto))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)

	mf := families[0]
	metrics := mf.Metric[:0]
	for _, metric := range mf.Metric {
		for _, label := range metric.GetLabel() {
			if label.GetName() == LabelMethod && label.GetValue() == method {
				metrics = append(metrics, metric)
			}
		}
	}
	mf.Metric = metrics

	return mf
}

func collectBuckets(t *testing.T, m *RequestMetrics, method string) string {
	t.Helper()

	buf := bytes.NewBuffer(nil)
	_, err := expfmt.MetricFamilyToText(buf, gatherHistogram(t, m, method))
	require.NoError(t, err)

	return bucketLines(buf.String())
}

func histogramCount(t *testing.T, m *RequestMetrics, method string) uint64 {
	t.Helper()

	mf := gatherHistogram(t, m, method)
	require.Len(t, mf.Metric, 1)

	return mf.Metric[0].GetHistogram().GetSampleCount()
}

func bucketLines(src string) string {

	lines := make([]string, 0)
	for _, line := range strings.Split(src, "\n") {
		if strings.Contains(line, "_bucket{") {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}
