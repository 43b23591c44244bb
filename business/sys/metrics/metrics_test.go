package metrics_test

import (
	"strings"
	"testing"

	"github.com/ardanlabs/starnotary/business/sys/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestLedgerMetrics(t *testing.T) {
	metrics.AddRecord(7)
	metrics.AddRejection("expired")
	metrics.AddRejection("expired")

	exp := `
# HELP notary_chain_height Height of the latest block in the chain.
# TYPE notary_chain_height gauge
notary_chain_height 7
# HELP notary_records_rejected_total Total record submissions rejected by reason.
# TYPE notary_records_rejected_total counter
notary_records_rejected_total{reason="expired"} 2
`
	err := testutil.GatherAndCompare(prometheus.DefaultGatherer, strings.NewReader(exp),
		"notary_chain_height", "notary_records_rejected_total")
	require.NoError(t, err)
}
