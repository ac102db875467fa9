package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gelvpress/gelv-backend/pkg/db/models"
)

type stubCatalogue struct {
	journals []models.Journal
	err      error
}

func (s *stubCatalogue) ListJournals(context.Context) ([]models.Journal, error) {
	return s.journals, s.err
}

func TestCatalogueList(t *testing.T) {
	discounted := decimal.RequireFromString("4.50")
	filePath := "bilance_65.pdf"
	svc := &stubCatalogue{journals: []models.Journal{
		{
			ID: 1, Name: "Bilance", Frequency: 12,
			Issues: []models.Issue{
				{
					ID: 10, JournalID: 1, Number: 65,
					FilePath: &filePath,
					Pricing: models.Pricing{
						Price:           decimal.RequireFromString("5.00"),
						DiscountedPrice: &discounted,
					},
				},
			},
			Subscriptions: []models.Subscription{
				{
					ID: 20, JournalID: 1, Duration: 12,
					Pricing: models.Pricing{Price: decimal.RequireFromString("48.00")},
				},
			},
		},
	}}

	resp := httptest.NewRecorder()
	CatalogueList(svc, nil)(resp, httptest.NewRequest(http.MethodGet, "/catalogue", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data []journalResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)

	journal := envelope.Data[0]
	require.Equal(t, "Bilance", journal.Name)
	require.Equal(t, 12, journal.Frequency)

	require.Len(t, journal.Issues, 1)
	issue := journal.Issues[0]
	require.Equal(t, "Bilance 6/2015", issue.Label)
	require.Equal(t, "4.50", issue.Price)
	require.True(t, issue.Downloadable)

	require.Len(t, journal.Subscriptions, 1)
	require.Equal(t, "48.00", journal.Subscriptions[0].Price)
}

func TestCatalogueListError(t *testing.T) {
	svc := &stubCatalogue{err: notFoundErr("boom")}

	resp := httptest.NewRecorder()
	CatalogueList(svc, nil)(resp, httptest.NewRequest(http.MethodGet, "/catalogue", nil))
	require.Equal(t, http.StatusNotFound, resp.Code)
}
