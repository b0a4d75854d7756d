package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/growthops/lead-intake/pkg/logging"
)

const (
	submissionsFamily        = "leadintake_submissions_total"
	validationFailuresFamily = "leadintake_submissions_validation_failures_total"
	storeWritesFamily        = "leadintake_store_writes_total"
)

// StatsHandler serves a JSON snapshot of the intake counters for the
// marketing team's dashboard. It reads the same registry /metrics exposes,
// so the numbers always agree.
type StatsHandler struct {
	gatherer prometheus.Gatherer
	logger   *logging.Logger
}

func NewStatsHandler(gatherer prometheus.Gatherer, logger *logging.Logger) *StatsHandler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsHandler{
		gatherer: gatherer,
		logger:   logger,
	}
}

// StatsSnapshot is the response body for GET /api/stats.
type StatsSnapshot struct {
	Submissions        map[string]uint64 `json:"submissions"`
	ValidationFailures map[string]uint64 `json:"validationFailures"`
	StoreWrites        map[string]uint64 `json:"storeWrites"`
	GeneratedAt        time.Time         `json:"generatedAt"`
}

// GetStats returns current intake counters grouped by label.
// GET /api/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	mfs, err := h.gatherer.Gather()
	if err != nil {
		h.logger.Error("failed to gather metrics", "error", err)
		http.Error(w, "failed to gather metrics", http.StatusInternalServerError)
		return
	}

	snapshot := StatsSnapshot{
		Submissions:        counterByLabel(mfs, submissionsFamily, "outcome"),
		ValidationFailures: counterByLabel(mfs, validationFailuresFamily, "field"),
		StoreWrites:        counterByLabel(mfs, storeWritesFamily, "outcome"),
		GeneratedAt:        time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(snapshot)
}

// counterByLabel folds one counter family into a label-value keyed map.
// A family that has not been observed yet folds to an empty map.
func counterByLabel(mfs []*dto.MetricFamily, familyName, labelName string) map[string]uint64 {
	out := map[string]uint64{}

	var family *dto.MetricFamily
	for _, mf := range mfs {
		if mf != nil && mf.GetName() == familyName {
			family = mf
			break
		}
	}
	if family == nil {
		return out
	}

	for _, metric := range family.Metric {
		if metric == nil {
			continue
		}
		counter := metric.GetCounter()
		if counter == nil {
			continue
		}
		out[labelValue(metric, labelName)] += uint64(counter.GetValue())
	}
	return out
}

func labelValue(metric *dto.Metric, name string) string {
	for _, lp := range metric.Label {
		if lp == nil {
			continue
		}
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return "unlabeled"
}
