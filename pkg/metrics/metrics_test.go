package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordFetch(t *testing.T) {
	before := testutil.ToFloat64(RecordsReturned.WithLabelValues("test", "leads"))

	RecordFetch("test", "leads", OutcomeOK, 3)
	RecordFetch("test", "leads", OutcomeEmpty, 0)

	assert.Equal(t, before+3, testutil.ToFloat64(RecordsReturned.WithLabelValues("test", "leads")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(EntityFetches.WithLabelValues("test", "leads", OutcomeEmpty)), 1.0)
}

func TestObserveHTTP(t *testing.T) {
	ObserveHTTP("test", "GET", 0, time.Millisecond)
	ObserveHTTP("test", "GET", 200, time.Millisecond)

	assert.GreaterOrEqual(t, testutil.ToFloat64(HTTPRequests.WithLabelValues("test", "GET", "error")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(HTTPRequests.WithLabelValues("test", "GET", "200")), 1.0)
}

func TestSetConnectionState(t *testing.T) {
	states := []string{"closed", "open"}
	SetConnectionState("test", "open", states)

	assert.Equal(t, 1.0, testutil.ToFloat64(ConnectionState.WithLabelValues("test", "open")))
	assert.Equal(t, 0.0, testutil.ToFloat64(ConnectionState.WithLabelValues("test", "closed")))
}
