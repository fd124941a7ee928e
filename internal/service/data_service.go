package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "focustimer/internal/errors"
	"focustimer/internal/model"
	"focustimer/internal/validation"
)

// DataService produces and consumes portable export documents.
type DataService struct {
	settings   *SettingsService
	sessions   *SessionLog
	statistics *StatisticsService
	now        func() time.Time
}

func NewDataService(settings *SettingsService, sessions *SessionLog, statistics *StatisticsService) *DataService {
	return &DataService{
		settings:   settings,
		sessions:   sessions,
		statistics: statistics,
		now:        time.Now,
	}
}

func (s *DataService) Export(includeSettings bool) model.ExportData {
	data := model.ExportData{
		Version:    model.ExportVersion,
		ExportDate: s.now().UTC(),
		Statistics: s.statistics.Current(),
		Sessions:   s.sessions.All(),
	}
	if includeSettings {
		current := s.settings.Current()
		data.Settings = &current
	}
	return data
}

// Import replaces the session history with the document's sessions and
// rebuilds statistics from them. Settings in the document are applied
// through the normal validation path.
func (s *DataService) Import(ctx context.Context, data model.ExportData) error {
	if !strings.HasPrefix(data.Version, "1.") {
		return apperrors.Validation("version", fmt.Sprintf("unsupported export version %q", data.Version))
	}
	for i, session := range data.Sessions {
		if session.ID == "" || !session.Type.Valid() || !session.Finalized() {
			return apperrors.Validation("sessions", fmt.Sprintf("session %d is not a finalized session record", i))
		}
		if session.Completed && session.Interrupted {
			return apperrors.Validation("sessions", fmt.Sprintf("session %d is both completed and interrupted", i))
		}
	}
	if data.Settings != nil {
		if err := validation.ValidateSettings(*data.Settings); err != nil {
			return err
		}
	}

	if err := s.sessions.Replace(ctx, data.Sessions); err != nil {
		return err
	}
	if err := s.statistics.Rebuild(ctx); err != nil {
		return err
	}
	if data.Settings != nil {
		if _, err := s.settings.Update(ctx, validation.PatchFrom(*data.Settings)); err != nil {
			return err
		}
	}
	return nil
}
