package handler

import (
	"net/http"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Admin submissions: /v1/admin/submissions
// ============================================================

func listSubmissionsHandler(submissions *service.SubmissionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/submissions")
		defer span.End()

		list, err := submissions.List(ctx, r.URL.Query().Get("status"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func approveSubmissionHandler(submissions *service.SubmissionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/submissions/{id}/approve")
		defer span.End()

		res, err := submissions.Approve(ctx, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func rejectSubmissionHandler(submissions *service.SubmissionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/submissions/{id}/reject")
		defer span.End()

		var req domain.RejectRequest
		if r.ContentLength != 0 {
			if err := decodeJSON(w, r, &req); err != nil {
				handleServiceError(w, err, logger)
				return
			}
		}

		sub, err := submissions.Reject(ctx, chi.URLParam(r, "id"), req.Notes)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

// ============================================================
// Admin owners: /v1/admin/owners
// ============================================================

func listOwnersHandler(owners *service.OwnerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/owners")
		defer span.End()

		list, err := owners.List(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func createOwnerHandler(owners *service.OwnerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/owners")
		defer span.End()

		var in domain.OwnerInput
		if err := decodeJSON(w, r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		owner, err := owners.Create(ctx, &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, owner)
	}
}

func unlinkedProvidersHandler(owners *service.OwnerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/owners/unlinked-providers")
		defer span.End()

		providers, err := owners.UnlinkedProviders(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, providers)
	}
}

func resetOwnerPasswordHandler(owners *service.OwnerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/owners/{id}/password")
		defer span.End()

		var req domain.PasswordResetRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		id := chi.URLParam(r, "id")
		if err := owners.ResetPassword(ctx, id, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "password updated", ID: id})
	}
}

func deleteOwnerHandler(owners *service.OwnerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/admin/owners/{id}")
		defer span.End()

		if err := owners.Delete(ctx, chi.URLParam(r, "id")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
