package controllers

import (
	"context"
	"net/http"

	"github.com/gelvpress/gelv-backend/api/responses"
	"github.com/gelvpress/gelv-backend/internal/catalog"
	"github.com/gelvpress/gelv-backend/pkg/db/models"
	"github.com/gelvpress/gelv-backend/pkg/logger"
)

// CatalogueService lists the storefront products.
type CatalogueService interface {
	ListJournals(ctx context.Context) ([]models.Journal, error)
}

// CatalogueList renders every journal with its active issues and offers.
func CatalogueList(svc CatalogueService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		journals, err := svc.ListJournals(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]journalResponse, len(journals))
		for i, journal := range journals {
			out[i] = newJournalResponse(journal)
		}
		responses.WriteSuccess(w, out)
	}
}

type journalResponse struct {
	ID            int64                  `json:"id"`
	Name          string                 `json:"name"`
	Frequency     int                    `json:"frequency"`
	Issues        []issueResponse        `json:"issues"`
	Subscriptions []subscriptionResponse `json:"subscriptions"`
}

type issueResponse struct {
	ID           int64  `json:"id"`
	Number       int    `json:"number"`
	Label        string `json:"label"`
	Description  string `json:"description,omitempty"`
	Price        string `json:"price"`
	Downloadable bool   `json:"downloadable"`
}

type subscriptionResponse struct {
	ID       int64  `json:"id"`
	Duration int    `json:"duration"`
	Price    string `json:"price"`
}

func newJournalResponse(journal models.Journal) journalResponse {
	issues := make([]issueResponse, len(journal.Issues))
	for i, issue := range journal.Issues {
		issue.Journal = journal
		issues[i] = issueResponse{
			ID:           issue.ID,
			Number:       issue.Number,
			Label:        catalog.IssueLabel(issue),
			Description:  issue.Description,
			Price:        issue.CurrentPrice().StringFixed(2),
			Downloadable: issue.FilePath != nil,
		}
	}

	subs := make([]subscriptionResponse, len(journal.Subscriptions))
	for i, sub := range journal.Subscriptions {
		subs[i] = subscriptionResponse{
			ID:       sub.ID,
			Duration: sub.Duration,
			Price:    sub.CurrentPrice().StringFixed(2),
		}
	}

	return journalResponse{
		ID:            journal.ID,
		Name:          journal.Name,
		Frequency:     journal.IssuesPerYear(),
		Issues:        issues,
		Subscriptions: subs,
	}
}
