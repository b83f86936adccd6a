package kiosk

import (
	"context"

	"github.com/erazemk/gearkiosk/internal/checkout"
	"github.com/erazemk/gearkiosk/internal/model"
	"github.com/erazemk/gearkiosk/internal/store"
)

// Logs returns the classroom's recent activity, newest first, narrowed by a
// free-text query over item code, item name and student.
func (s *Service) Logs(ctx context.Context, classroomID int64, query string) ([]model.LogEntry, error) {
	if _, err := classroom(ctx, s.DB, classroomID); err != nil {
		return nil, err
	}

	logs, err := store.ListRecentLogs(ctx, s.DB, classroomID, model.RecentLogLimit)
	if err != nil {
		return nil, err
	}
	items, err := store.ListItems(ctx, s.DB, classroomID)
	if err != nil {
		return nil, err
	}

	logs = checkout.FilterLogs(logs, items, query)
	if logs == nil {
		logs = []model.LogEntry{}
	}
	return logs, nil
}
