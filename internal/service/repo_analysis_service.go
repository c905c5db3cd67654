package service

import (
	"context"
	"fmt"

	"ai-compliance-be/internal/dto"
	"ai-compliance-be/internal/repository/specification"
	"ai-compliance-be/internal/repository/unitofwork"
	"ai-compliance-be/pkg/docstate"
	"ai-compliance-be/pkg/events"
	pktNats "ai-compliance-be/pkg/nats"
	"ai-compliance-be/pkg/repoanalysis"
	"ai-compliance-be/pkg/schema"
	"ai-compliance-be/pkg/tracker"

	"github.com/google/uuid"
)

type IRepoAnalysisService interface {
	Analyze(ctx context.Context, userId uuid.UUID, req *dto.AnalyzeRepositoryRequest) (*dto.AnalyzeRepositoryResponse, error)
}

type repoAnalysisService struct {
	uowFactory unitofwork.RepositoryFactory
	client     *repoanalysis.Client
	registry   *schema.Registry
	store      *docstate.Store
	trk        *tracker.Tracker
	publisher  *pktNats.Publisher
}

func NewRepoAnalysisService(
	uowFactory unitofwork.RepositoryFactory,
	client *repoanalysis.Client,
	registry *schema.Registry,
	store *docstate.Store,
	trk *tracker.Tracker,
	publisher *pktNats.Publisher,
) IRepoAnalysisService {
	return &repoAnalysisService{
		uowFactory: uowFactory,
		client:     client,
		registry:   registry,
		store:      store,
		trk:        trk,
		publisher:  publisher,
	}
}

// Analyze scans a repository through the n8n workflow and merges whatever
// fields the scan produced into the session's document.
func (s *repoAnalysisService) Analyze(ctx context.Context, userId uuid.UUID, req *dto.AnalyzeRepositoryRequest) (*dto.AnalyzeRepositoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := uow.DocumentSessionRepository().FindOne(ctx,
		sessionOwnedSpecs(userId, req.SessionId)...,
	)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrSessionNotFound
	}

	analysis, err := s.client.Analyze(ctx, req.RepoURL)
	if err != nil {
		return nil, fmt.Errorf("repository analysis failed: %w", err)
	}

	updates := analysis.FieldUpdates()

	var result *tracker.Result
	live, err := s.store.Update(record.Id.String(), record.DocumentType, func(sess *docstate.Session) error {
		var applyErr error
		result, applyErr = s.trk.ApplyUpdates(sess, updates)
		return applyErr
	})
	if err != nil {
		return nil, err
	}

	record.FieldValues = map[string]any(live.Values)
	if err := uow.DocumentSessionRepository().Update(ctx, record); err != nil {
		return nil, err
	}

	docSchema, err := s.registry.Get(record.DocumentType)
	if err != nil {
		return nil, err
	}

	rejected := map[string]bool{}
	for _, r := range result.Rejected {
		rejected[r.Path] = true
	}

	resp := &dto.AnalyzeRepositoryResponse{
		SessionId:  record.Id,
		Completion: result.Summary.Percentage,
	}
	var mergedPaths []string
	for _, u := range updates {
		if rejected[u.Path] {
			continue
		}
		mergedPaths = append(mergedPaths, u.Path)
		label := u.Path
		if spec, ok := docSchema.Field(u.Path); ok {
			label = spec.Label
		}
		resp.MergedFields = append(resp.MergedFields, dto.MergedFieldDTO{Path: u.Path, Label: label})
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.NewRepositoryAnalyzed(record.Id.String(), req.RepoURL, len(mergedPaths)))
	}
	return resp, nil
}

func sessionOwnedSpecs(userId, sessionId uuid.UUID) []specification.Specification {
	return []specification.Specification{
		specification.ByID{ID: sessionId},
		specification.ByUserID{UserID: userId},
	}
}
