package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"consultdesk/internal/parasol"
)

func GetPageDefinition(store *parasol.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ucID := chi.URLParam(r, "useCaseId")
		page, err := store.PageDefinitionByUseCase(ucID)
		if errors.Is(err, parasol.ErrNotFound) {
			respondError(w, http.StatusNotFound, "ページ定義が見つかりません")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, page)
	}
}

func PutPageDefinition(store *parasol.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ucID := chi.URLParam(r, "useCaseId")
		var req struct {
			DisplayName string `json:"displayName"`
			Content     string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			respondError(w, http.StatusBadRequest, msgContentRequired)
			return
		}
		page, created, err := store.UpsertPageDefinition(ucID, req.DisplayName, req.Content)
		if errors.Is(err, parasol.ErrNotFound) {
			respondError(w, http.StatusNotFound, msgUseCaseNotFound)
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lg.Infow("page definition saved", "useCase", ucID, "created", created)
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		respondData(w, status, page)
	}
}

// DuplicatePageNames reports display names shared by multiple page
// definitions. A data-quality signal for editors, nothing is blocked.
func DuplicatePageNames(store *parasol.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := store.DuplicatePageNames()
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, map[string]interface{}{"duplicates": names})
	}
}

type robustnessReq struct {
	UseCaseID string `json:"useCaseId"`
	Content   string `json:"content"`
}

// UpsertRobustness creates (201) or updates (200) the diagram for a use
// case. The 1:1 invariant holds because the row is always addressed by
// useCaseId, never by its own id.
func UpsertRobustness(store *parasol.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req robustnessReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.UseCaseID) == "" {
			respondError(w, http.StatusBadRequest, msgUseCaseIDRequired)
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			respondError(w, http.StatusBadRequest, msgContentRequired)
			return
		}
		d, created, err := store.UpsertRobustnessDiagram(req.UseCaseID, req.Content)
		if errors.Is(err, parasol.ErrNotFound) {
			respondError(w, http.StatusNotFound, msgUseCaseNotFound)
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lg.Infow("robustness diagram saved", "useCase", req.UseCaseID, "created", created)
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		respondData(w, status, d)
	}
}

// GetRobustness lists all diagrams joined with their use case names, or
// fetches one when ?useCaseId= is present.
func GetRobustness(store *parasol.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ucID := r.URL.Query().Get("useCaseId"); ucID != "" {
			d, err := store.RobustnessDiagramByUseCase(ucID)
			if errors.Is(err, parasol.ErrNotFound) {
				respondError(w, http.StatusNotFound, "ロバストネス図が見つかりません")
				return
			}
			if err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}
			respondData(w, http.StatusOK, d)
			return
		}
		items, err := store.ListRobustnessDiagrams()
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, items)
	}
}
