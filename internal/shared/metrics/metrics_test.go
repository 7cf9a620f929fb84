package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(analysesTotal.WithLabelValues("cv", StatusCompleted))
	IncAnalysis("cv", StatusCompleted)
	assert.Equal(t, before+1, testutil.ToFloat64(analysesTotal.WithLabelValues("cv", StatusCompleted)))

	beforeMissing := testutil.ToFloat64(missingFields.WithLabelValues("jd", "critical"))
	AddMissingFields("jd", "critical", 3)
	AddMissingFields("jd", "critical", 0)
	assert.Equal(t, beforeMissing+3, testutil.ToFloat64(missingFields.WithLabelValues("jd", "critical")))

	beforeUnknown := testutil.ToFloat64(analysesTotal.WithLabelValues("unknown", StatusFailed))
	IncAnalysis("", StatusFailed)
	assert.Equal(t, beforeUnknown+1, testutil.ToFloat64(analysesTotal.WithLabelValues("unknown", StatusFailed)))
}

func TestHandlerExposesCollectors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	IncWorkerJob("completed")
	ObserveScore("cv", 80)
	ObserveAnalysisDuration("cv", 2*time.Millisecond)

	r := gin.New()
	r.GET("/metrics", Handler())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, name := range []string{
		"completeness_worker_jobs_total",
		"completeness_score_bucket",
		"completeness_analysis_duration_seconds_count",
	} {
		assert.True(t, strings.Contains(body, name), "missing %s", name)
	}
}
