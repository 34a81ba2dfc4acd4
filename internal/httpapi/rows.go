package httpapi

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/pingme/internal/domain"
)

const statusUnknown = "unknown"

// statusRow is one target as shown to operators.
type statusRow struct {
	Name         string     `json:"name"`
	URL          string     `json:"url"`
	Status       string     `json:"status"` // ok, no or unknown
	Code         string     `json:"code,omitempty"`
	ObservedAt   *time.Time `json:"observed_at,omitempty"`
	ResponseTime string     `json:"response_time,omitempty"`
	Slow         bool       `json:"slow"`
}

// buildRows joins the registry with the stored statuses, sorted by
// (status, name). Targets without a readable status yet are "unknown".
func buildRows(targets, statuses map[string]string, slow time.Duration, log *zap.Logger) []statusRow {
	rows := make([]statusRow, 0, len(targets))
	for _, t := range domain.SortedTargets(targets) {
		row := statusRow{Name: t.Name, URL: t.URL, Status: statusUnknown}
		if raw, ok := statuses[t.Name]; ok {
			st, err := domain.DecodeStatus(raw)
			if err != nil {
				log.Warn("status_decode_error", zap.String("target", t.Name), zap.Error(err))
			} else {
				at := st.ObservedAt
				row.Status = st.Label()
				row.Code = st.Code()
				row.ObservedAt = &at
				row.ResponseTime = st.ResponseTimeText()
				row.Slow = (st.Kind == domain.KindOK || st.Kind == domain.KindHTTP) && st.ResponseTime > slow
			}
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Status != rows[j].Status {
			return rows[i].Status < rows[j].Status
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// countStatuses counts stored rows; anything not decodable as ok is offline.
// Rows for targets that were since deleted are counted too.
func countStatuses(statuses map[string]string) (online, offline int) {
	for _, raw := range statuses {
		if st, err := domain.DecodeStatus(raw); err == nil && st.OK() {
			online++
		} else {
			offline++
		}
	}
	return online, offline
}
