package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/gelvpress/gelv-backend/pkg/db/models"
	pkgerrors "github.com/gelvpress/gelv-backend/pkg/errors"
	"github.com/gelvpress/gelv-backend/pkg/logger"
	"gorm.io/gorm"
)

// Service wraps the catalog repository with not-found semantics and display
// helpers.
type Service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds the catalog service.
func NewService(repo *Repository, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &Service{repo: repo, logg: logg}, nil
}

// ListJournals returns the full storefront catalogue.
func (s *Service) ListJournals(ctx context.Context) ([]models.Journal, error) {
	return s.repo.ListJournals(ctx)
}

// GetIssue resolves an issue or fails with a coded not-found error.
func (s *Service) GetIssue(ctx context.Context, id int64) (*models.Issue, error) {
	issue, err := s.repo.FindIssueByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "issue not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load issue")
	}
	return issue, nil
}

// GetSubscription resolves a subscription or fails with a coded not-found
// error.
func (s *Service) GetSubscription(ctx context.Context, id int64) (*models.Subscription, error) {
	sub, err := s.repo.FindSubscriptionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load subscription")
	}
	return sub, nil
}

// LatestIssueNumber returns the highest published number of the journal, or
// -1 for a journal with no issues.
func (s *Service) LatestIssueNumber(ctx context.Context, journalID int64) (int, error) {
	return s.repo.LatestIssueNumber(ctx, journalID)
}

// IssueLabel renders the storefront display title of an issue, e.g.
// "Gramatvediba 5/2015". The journal association must be loaded.
func IssueLabel(issue models.Issue) string {
	number := IssueNumberFor(issue.Number, issue.Journal.IssuesPerYear())
	return fmt.Sprintf("%s %s", issue.Journal.Name, number)
}
