package menu

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// Service builds menu trees for navigation and administration.
type Service struct {
	repo   Repository
	logger *slog.Logger
	flight singleflight.Group
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// UserTree returns the navigation tree for one user: the merged, enabled
// rows across all roles, with action rows removed since they represent
// permission points rather than navigable entries.
func (s *Service) UserTree(ctx context.Context, userID int64) ([]*Node, error) {
	if userID == 0 {
		s.logger.Warn("user tree requested without user id")
		return []*Node{}, nil
	}

	records, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		s.logger.Info("user has no menu grants", slog.Int64("user_id", userID))
		return []*Node{}, nil
	}

	navigable := make([]Menu, 0, len(records))
	for _, record := range records {
		if record.Type == TypeAction {
			continue
		}
		navigable = append(navigable, record)
	}

	roots, orphans := BuildTree(navigable)
	s.reportOrphans(orphans)
	if roots == nil {
		roots = []*Node{}
	}
	return roots, nil
}

// FullTree returns the unfiltered menu tree for administration screens:
// every type including actions, enabled or not. Concurrent identical
// requests collapse into one repository query.
func (s *Service) FullTree(ctx context.Context) ([]*Node, error) {
	result, err, _ := s.flight.Do("full-tree", func() (any, error) {
		records, err := s.repo.ListAll(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		roots, orphans := BuildTree(records)
		s.reportOrphans(orphans)
		if roots == nil {
			roots = []*Node{}
		}
		return roots, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*Node), nil
}

// reportOrphans logs dangling parent references. The affected rows are
// retained as roots so nothing is lost; this is an operability signal, not
// a failure.
func (s *Service) reportOrphans(orphans []int64) {
	for _, id := range orphans {
		s.logger.Warn("menu row references missing parent, keeping as root", slog.Int64("menu_id", id))
	}
}
