package handlers

import (
	"net/http"
	"sync"

	"gorm.io/gorm"

	"consultdesk/internal/models"
)

// Dashboard shapes the landing-page numbers. The two datasets are
// independent and come from different domain stores, so they are
// fetched concurrently before the response is assembled.
func Dashboard(projectDB, timesheetDB *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			wg           sync.WaitGroup
			activeCount  int64
			pendingCount int64
			projectErr   error
			timesheetErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			projectErr = projectDB.Model(&models.Project{}).
				Where("status = ?", "active").Count(&activeCount).Error
		}()
		go func() {
			defer wg.Done()
			timesheetErr = timesheetDB.Model(&models.TimesheetEntry{}).
				Where("status = ?", "submitted").Count(&pendingCount).Error
		}()
		wg.Wait()
		if projectErr != nil {
			respondError(w, http.StatusInternalServerError, projectErr.Error())
			return
		}
		if timesheetErr != nil {
			respondError(w, http.StatusInternalServerError, timesheetErr.Error())
			return
		}
		respondData(w, http.StatusOK, map[string]int64{
			"activeProjects":   activeCount,
			"pendingApprovals": pendingCount,
		})
	}
}
