package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"consultdesk/internal/models"
)

type revenueRow struct {
	Month string `json:"month"`
	Total int64  `json:"total"`
}

// RevenueSummary aggregates booked revenue by month. Executive-only;
// the role gate lives in the router.
func RevenueSummary(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rows []revenueRow
		err := db.Model(&models.RevenueRecord{}).
			Select("month, sum(amount) as total").
			Group("month").
			Order("month asc").
			Scan(&rows).Error
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if rows == nil {
			rows = []revenueRow{}
		}
		respondData(w, http.StatusOK, rows)
	}
}
