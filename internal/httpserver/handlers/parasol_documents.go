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

// Specification-document endpoints share one contract: resolve the
// owning service by name from the path, 404 naming the missing service,
// 400 when the PUT body has no content, upsert by service id otherwise.
// The domain-language endpoint is the deliberate exception and resolves
// by surrogate id.

func GetAPISpecification(store *parasol.Store) http.HandlerFunc {
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
		view, err := store.GetAPISpecification(svc.ID)
		if errors.Is(err, parasol.ErrNotFound) {
			respondError(w, http.StatusNotFound, "API仕様書が見つかりません")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, view)
	}
}

func PutAPISpecification(store *parasol.Store, lg *zap.SugaredLogger) http.HandlerFunc {
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
		var in parasol.APISpecInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(in.Content) == "" {
			respondError(w, http.StatusBadRequest, msgContentRequired)
			return
		}
		spec, created, err := store.UpsertAPISpecification(svc.ID, in)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lg.Infow("api specification saved", "service", svc.ID, "created", created)
		respondData(w, http.StatusOK, map[string]interface{}{
			"id":        spec.ID,
			"serviceId": spec.ServiceID,
			"updatedAt": spec.UpdatedAt,
		})
	}
}

func GetDatabaseDesign(store *parasol.Store) http.HandlerFunc {
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
		view, err := store.GetDatabaseDesign(svc.ID)
		if errors.Is(err, parasol.ErrNotFound) {
			respondError(w, http.StatusNotFound, "データベース設計書が見つかりません")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, view)
	}
}

func PutDatabaseDesign(store *parasol.Store, lg *zap.SugaredLogger) http.HandlerFunc {
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
		var in parasol.DatabaseDesignInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(in.Content) == "" {
			respondError(w, http.StatusBadRequest, msgContentRequired)
			return
		}
		d, created, err := store.UpsertDatabaseDesign(svc.ID, in)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lg.Infow("database design saved", "service", svc.ID, "created", created)
		respondData(w, http.StatusOK, map[string]interface{}{
			"id":        d.ID,
			"serviceId": d.ServiceID,
			"updatedAt": d.UpdatedAt,
		})
	}
}

func GetIntegrationSpecification(store *parasol.Store) http.HandlerFunc {
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
		respondData(w, http.StatusOK, map[string]interface{}{
			"serviceId": svc.ID,
			"content":   svc.IntegrationSpecification,
			"updatedAt": svc.UpdatedAt,
		})
	}
}

func PutIntegrationSpecification(store *parasol.Store, lg *zap.SugaredLogger) http.HandlerFunc {
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
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			respondError(w, http.StatusBadRequest, msgContentRequired)
			return
		}
		updated, err := store.UpdateIntegrationSpecification(svc.ID, req.Content)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lg.Infow("integration specification saved", "service", svc.ID)
		respondData(w, http.StatusOK, map[string]interface{}{
			"serviceId": updated.ID,
			"updatedAt": updated.UpdatedAt,
		})
	}
}

func GetDomainLanguage(store *parasol.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// This endpoint addresses the service by surrogate id, not by
		// name like its siblings; editors depend on the asymmetry.
		id := chi.URLParam(r, "serviceName")
		svc, err := store.ServiceByID(id)
		if errors.Is(err, parasol.ErrNotFound) {
			respondError(w, http.StatusNotFound, msgServiceNotFound(id))
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		view, err := store.GetDomainLanguage(svc.ID)
		if errors.Is(err, parasol.ErrNotFound) {
			respondError(w, http.StatusNotFound, "ドメイン言語定義が見つかりません")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondData(w, http.StatusOK, view)
	}
}

func PutDomainLanguage(store *parasol.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "serviceName")
		svc, err := store.ServiceByID(id)
		if errors.Is(err, parasol.ErrNotFound) {
			respondError(w, http.StatusNotFound, msgServiceNotFound(id))
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		var in parasol.DomainLanguageInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(in.Content) == "" {
			respondError(w, http.StatusBadRequest, msgContentRequired)
			return
		}
		d, created, err := store.UpsertDomainLanguage(svc.ID, in)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lg.Infow("domain language saved", "service", svc.ID, "created", created)
		respondData(w, http.StatusOK, map[string]interface{}{
			"id":        d.ID,
			"serviceId": d.ServiceID,
			"updatedAt": d.UpdatedAt,
		})
	}
}
