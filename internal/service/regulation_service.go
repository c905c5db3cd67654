package service

import (
	"context"

	"ai-compliance-be/internal/dto"
	"ai-compliance-be/internal/repository/unitofwork"
	"ai-compliance-be/pkg/regulation"
)

type IRegulationService interface {
	Ask(ctx context.Context, req *dto.AskRegulationRequest) (*dto.AskRegulationResponse, error)
	Reindex(ctx context.Context) (*dto.ReindexResponse, error)
}

type regulationService struct {
	uowFactory unitofwork.RepositoryFactory
	answerer   *regulation.Answerer
	indexQueue IPublisherService
	topK       int
}

func NewRegulationService(
	uowFactory unitofwork.RepositoryFactory,
	answerer *regulation.Answerer,
	indexQueue IPublisherService,
	topK int,
) IRegulationService {
	return &regulationService{
		uowFactory: uowFactory,
		answerer:   answerer,
		indexQueue: indexQueue,
		topK:       topK,
	}
}

func (s *regulationService) Ask(ctx context.Context, req *dto.AskRegulationRequest) (*dto.AskRegulationResponse, error) {
	answer, err := s.answerer.Ask(ctx, req.Question, s.topK)
	if err != nil {
		return nil, err
	}
	return &dto.AskRegulationResponse{
		Answer:    answer.Text,
		Citations: answer.Citations,
	}, nil
}

// Reindex queues every stored article for re-embedding.
func (s *regulationService) Reindex(ctx context.Context) (*dto.ReindexResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	articles, err := uow.ArticleRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	queued := 0
	for _, article := range articles {
		if err := s.indexQueue.PublishIndexArticle(article.Number); err != nil {
			return nil, err
		}
		queued++
	}
	return &dto.ReindexResponse{Queued: queued}, nil
}
