package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"consultdesk/internal/parasol"
)

// The Parasol editor is a Japanese-language internal tool; its error
// messages are part of the published wire contract.
const (
	msgContentRequired   = "コンテンツが必要です"
	msgUseCaseIDRequired = "ユースケースIDが必要です"
	msgUseCaseNotFound   = "ユースケースが見つかりません"
)

func msgServiceNotFound(name string) string {
	return fmt.Sprintf("サービス '%s' が見つかりません", name)
}

func ListServices(store *parasol.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services, err := store.ListServices()
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, services)
	}
}

func CreateService(store *parasol.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name        string `json:"name"`
			DisplayName string `json:"displayName"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			respondError(w, http.StatusBadRequest, "サービス名が必要です")
			return
		}
		svc, err := store.CreateService(req.Name, req.DisplayName, req.Description)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lg.Infow("parasol service created", "service", svc.ID, "name", svc.Name)
		respondData(w, http.StatusCreated, svc)
	}
}

func GetService(store *parasol.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "serviceName")
		svc, err := store.ServiceByName(name)
		if errors.Is(err, parasol.ErrNotFound) {
			respondError(w, http.StatusNotFound, msgServiceNotFound(name))
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, svc)
	}
}

func ListCapabilities(store *parasol.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "serviceName")
		svc, err := store.ServiceByName(name)
		if errors.Is(err, parasol.ErrNotFound) {
			respondError(w, http.StatusNotFound, msgServiceNotFound(name))
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		caps, err := store.ListCapabilities(svc.ID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, caps)
	}
}

func CreateCapability(store *parasol.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "serviceName")
		svc, err := store.ServiceByName(name)
		if errors.Is(err, parasol.ErrNotFound) {
			respondError(w, http.StatusNotFound, msgServiceNotFound(name))
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		var req struct {
			Name        string `json:"name"`
			Category    string `json:"category"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			respondError(w, http.StatusBadRequest, "ケーパビリティ名が必要です")
			return
		}
		if req.Category == "" {
			req.Category = "Core"
		}
		cap, err := store.CreateCapability(svc.ID, req.Name, req.Category, req.Description)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lg.Infow("parasol capability created", "capability", cap.ID, "service", svc.ID)
		respondData(w, http.StatusCreated, cap)
	}
}

func ListOperations(store *parasol.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		capID := chi.URLParam(r, "capabilityId")
		if _, err := store.CapabilityByID(capID); errors.Is(err, parasol.ErrNotFound) {
			respondError(w, http.StatusNotFound, "ケーパビリティが見つかりません")
			return
		} else if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		ops, err := store.ListOperations(capID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, ops)
	}
}

func CreateOperation(store *parasol.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		capID := chi.URLParam(r, "capabilityId")
		var req struct {
			Name    string `json:"name"`
			Pattern string `json:"pattern"`
			Design  string `json:"design"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			respondError(w, http.StatusBadRequest, "オペレーション名が必要です")
			return
		}
		op, err := store.CreateOperation(capID, req.Name, req.Pattern, req.Design)
		if errors.Is(err, parasol.ErrNotFound) {
			respondError(w, http.StatusNotFound, "ケーパビリティが見つかりません")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lg.Infow("parasol operation created", "operation", op.ID, "capability", capID)
		respondData(w, http.StatusCreated, op)
	}
}

func ListUseCases(store *parasol.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opID := chi.URLParam(r, "operationId")
		if _, err := store.OperationByID(opID); errors.Is(err, parasol.ErrNotFound) {
			respondError(w, http.StatusNotFound, "オペレーションが見つかりません")
			return
		} else if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		ucs, err := store.ListUseCases(opID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, ucs)
	}
}

func CreateUseCase(store *parasol.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opID := chi.URLParam(r, "operationId")
		var req struct {
			Name         string `json:"name"`
			Description  string `json:"description"`
			DisplayOrder int    `json:"displayOrder"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			respondError(w, http.StatusBadRequest, "ユースケース名が必要です")
			return
		}
		uc, err := store.CreateUseCase(opID, req.Name, req.Description, req.DisplayOrder)
		if errors.Is(err, parasol.ErrNotFound) {
			respondError(w, http.StatusNotFound, "オペレーションが見つかりません")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lg.Infow("parasol use case created", "useCase", uc.ID, "operation", opID)
		respondData(w, http.StatusCreated, uc)
	}
}
