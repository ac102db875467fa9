package controllers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gelvpress/gelv-backend/api/middleware"
	"github.com/gelvpress/gelv-backend/api/responses"
	"github.com/gelvpress/gelv-backend/internal/catalog"
	"github.com/gelvpress/gelv-backend/pkg/config"
	"github.com/gelvpress/gelv-backend/pkg/db/models"
	pkgerrors "github.com/gelvpress/gelv-backend/pkg/errors"
	"github.com/gelvpress/gelv-backend/pkg/logger"
)

// OwnershipService answers which issues the user may download.
type OwnershipService interface {
	OwnedIssues(ctx context.Context, userID uuid.UUID) ([]models.Issue, error)
	Owns(ctx context.Context, userID uuid.UUID, issueID int64) (bool, error)
}

// IssueGetter resolves a single catalog issue.
type IssueGetter interface {
	GetIssue(ctx context.Context, id int64) (*models.Issue, error)
}

// LibraryList returns every issue the authenticated user owns.
func LibraryList(svc OwnershipService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		issues, err := svc.OwnedIssues(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]libraryIssueResponse, len(issues))
		for i, issue := range issues {
			out[i] = libraryIssueResponse{
				ID:           issue.ID,
				Number:       issue.Number,
				Label:        catalog.IssueLabel(issue),
				Downloadable: issue.FilePath != nil,
			}
		}
		responses.WriteSuccess(w, out)
	}
}

// IssueDownload streams an owned issue file. The ownership check runs before
// any byte leaves the server.
func IssueDownload(svc OwnershipService, issues IssueGetter, storage config.StorageConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		issueID, err := strconv.ParseInt(chi.URLParam(r, "issueId"), 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid issue id"))
			return
		}

		issue, err := issues.GetIssue(r.Context(), issueID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		owns, err := svc.Owns(r.Context(), userID, issueID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve ownership"))
			return
		}
		if !owns {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "issue not owned"))
			return
		}

		if issue.FilePath == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "issue has no file"))
			return
		}

		path := filepath.Join(storage.IssueFilesDir, filepath.FromSlash(*issue.FilePath))
		if _, err := os.Stat(path); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "issue file missing"))
			return
		}

		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
		http.ServeFile(w, r, path)
	}
}

type libraryIssueResponse struct {
	ID           int64  `json:"id"`
	Number       int    `json:"number"`
	Label        string `json:"label"`
	Downloadable bool   `json:"downloadable"`
}

func authedUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}
