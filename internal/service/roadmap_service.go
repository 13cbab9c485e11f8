package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/careerpath/internal/config"
	"github.com/stemsi/careerpath/internal/curriculum"
	"github.com/stemsi/careerpath/internal/logger"
	"github.com/stemsi/careerpath/internal/model"
	"github.com/stemsi/careerpath/internal/roadmap"
	"github.com/stemsi/careerpath/internal/store"
)

// RoadmapService stores education profiles and builds career roadmaps.
type RoadmapService struct {
	kv       store.KV
	progress *ProgressService
	catalog  []roadmap.CareerFieldDefinition
	log      zerolog.Logger
}

// NewRoadmapService creates a new RoadmapService on the built-in catalog.
func NewRoadmapService(kv store.KV, progress *ProgressService, log zerolog.Logger) *RoadmapService {
	return &RoadmapService{
		kv:       kv,
		progress: progress,
		catalog:  roadmap.DefaultCatalog(),
		log:      logger.Component(log, "roadmap_service"),
	}
}

// Profile returns the stored profile of a user, zero when none is stored.
func (s *RoadmapService) Profile(ctx context.Context, userID string) model.StudentProfile {
	var p model.StudentProfile
	if err := store.GetJSON(ctx, s.kv, config.CacheKey.ProfileKey(userID), &p); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.log.Warn().Err(err).Msg("Profile unreadable, using empty profile")
		return model.StudentProfile{}
	}
	return p
}

// SaveProfile stores the profile and the academic total it implies.
func (s *RoadmapService) SaveProfile(ctx context.Context, userID string, p model.StudentProfile) ([]string, error) {
	if err := store.SetJSON(ctx, s.kv, config.CacheKey.ProfileKey(userID), p, 0); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	tests := curriculum.AcademicTests(p)
	if err := s.progress.SetAcademicTotal(ctx, userID, len(tests)); err != nil {
		return nil, err
	}
	if tests == nil {
		tests = []string{}
	}
	return tests, nil
}

// Analyze builds the roadmap of a user from stored progress and profile.
func (s *RoadmapService) Analyze(ctx context.Context, userID string) roadmap.Analysis {
	tests := s.progress.Load(ctx, userID).Tests()
	return roadmap.Analyze(tests, s.Profile(ctx, userID), s.catalog)
}
