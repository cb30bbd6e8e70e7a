// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package metrics

import (
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordRecommendation tests outcome labelling for recommendation queries
func TestRecordRecommendation(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		returned int
		outcome  string
	}{
		{name: "similar with results", strategy: "similar", returned: 5, outcome: "ok"},
		{name: "genre with no match", strategy: "genre", returned: 0, outcome: "empty"},
		{name: "random sample", strategy: "random", returned: 10, outcome: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := RecommendRequests.WithLabelValues(tt.strategy, tt.outcome)
			before := testutil.ToFloat64(counter)

			RecordRecommendation(tt.strategy, tt.returned, time.Millisecond)

			if got := testutil.ToFloat64(counter); got != before+1 {
				t.Errorf("recommend_requests_total{%s,%s} = %v, want %v", tt.strategy, tt.outcome, got, before+1)
			}
		})
	}
}

// TestRecordModelLoad tests success and failure labelling
func TestRecordModelLoad(t *testing.T) {
	ok := ModelLoads.WithLabelValues("cache", "success")
	failed := ModelLoads.WithLabelValues("build", "failure")
	okBefore := testutil.ToFloat64(ok)
	failedBefore := testutil.ToFloat64(failed)

	RecordModelLoad("cache", nil)
	RecordModelLoad("build", errors.New("ratings empty"))

	if got := testutil.ToFloat64(ok); got != okBefore+1 {
		t.Errorf("cache success = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(failed); got != failedBefore+1 {
		t.Errorf("build failure = %v, want %v", got, failedBefore+1)
	}
}

func TestRecordModelBuild(t *testing.T) {
	RecordModelBuild(2*time.Second, 9742)

	if got := testutil.ToFloat64(ModelMovies); got != 9742 {
		t.Errorf("similarity_model_movies = %v, want 9742", got)
	}
}

func TestRecordDatasetLoad(t *testing.T) {
	RecordDatasetLoad("csv", "ratings", 100836, 300*time.Millisecond)

	if got := testutil.ToFloat64(DatasetRows.WithLabelValues("ratings")); got != 100836 {
		t.Errorf("dataset_rows{ratings} = %v, want 100836", got)
	}
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{
			name:       "successful similar lookup",
			method:     "GET",
			endpoint:   "/api/v1/recommendations/similar",
			statusCode: "200",
			duration:   25 * time.Millisecond,
		},
		{
			name:       "bad request",
			method:     "GET",
			endpoint:   "/api/v1/recommendations/random",
			statusCode: "400",
			duration:   time.Millisecond,
		},
		{
			name:       "not found",
			method:     "GET",
			endpoint:   "/api/v1/movies/{movieID}",
			statusCode: "404",
			duration:   2 * time.Millisecond,
		},
		{
			name:       "rate limited request",
			method:     "POST",
			endpoint:   "/api/v1/browse",
			statusCode: "429",
			duration:   time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode)
			before := testutil.ToFloat64(counter)

			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)

			if got := testutil.ToFloat64(counter); got != before+1 {
				t.Errorf("api_requests_total = %v, want %v", got, before+1)
			}
		})
	}
}

func TestRecordDetailsRequest(t *testing.T) {
	for _, result := range []string{"success", "error", "disabled"} {
		counter := DetailsRequests.WithLabelValues(result)
		before := testutil.ToFloat64(counter)

		RecordDetailsRequest(result, 10*time.Millisecond)

		if got := testutil.ToFloat64(counter); got != before+1 {
			t.Errorf("tmdb_requests_total{%s} = %v, want %v", result, got, before+1)
		}
	}
}

// TestTrackActiveRequest tests the active request gauge
func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+2 {
		t.Errorf("after two increments = %v, want %v", got, before+2)
	}

	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after two decrements = %v, want %v", got, before)
	}
}

// TestConcurrentMetricRecording tests thread safety of metric recording
func TestConcurrentMetricRecording(t *testing.T) {
	const goroutines = 50
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordRecommendation("similar", 10, time.Microsecond)
			RecordAPIRequest("GET", "/concurrent", "200", time.Millisecond)
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()
}

// TestMetricsRegistration tests that all metrics can be described
func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		RecommendRequests,
		RecommendDuration,
		RecommendResultSize,
		ModelBuildDuration,
		ModelLoads,
		ModelMovies,
		CatalogMovies,
		DatasetRows,
		DatasetLoadDuration,
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		DetailsRequests,
		DetailsDuration,
		CacheHits,
		CacheMisses,
		CacheSize,
		CacheEvictions,
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerConsecutiveFailures,
		CircuitBreakerTransitions,
		AppInfo,
		AppUptime,
	}

	for _, m := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		m.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("Metric has no descriptors")
		}
	}
}

func TestRecordAppInfo(t *testing.T) {
	RecordAppInfo("1.2.3")
	if got := testutil.ToFloat64(AppInfo.WithLabelValues("1.2.3", runtime.Version())); got != 1 {
		t.Errorf("app_info = %v, want 1", got)
	}
}

func TestRecordUptime(t *testing.T) {
	RecordUptime(time.Now().Add(-time.Minute))
	if got := testutil.ToFloat64(AppUptime); got < 60 {
		t.Errorf("app_uptime_seconds = %v, want >= 60", got)
	}
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	RecordAPIRequest("GET", "/test", "200", time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}

func BenchmarkRecordRecommendation(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordRecommendation("similar", 10, 50*time.Microsecond)
	}
}

func BenchmarkRecordAPIRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAPIRequest("GET", "/api/v1/recommendations/similar", "200", 25*time.Millisecond)
	}
}
