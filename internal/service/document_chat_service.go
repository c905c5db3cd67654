package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-compliance-be/internal/dto"
	"ai-compliance-be/internal/entity"
	"ai-compliance-be/internal/repository/specification"
	"ai-compliance-be/internal/repository/unitofwork"
	"ai-compliance-be/pkg/composer"
	"ai-compliance-be/pkg/docstate"
	"ai-compliance-be/pkg/events"
	"ai-compliance-be/pkg/extraction"
	"ai-compliance-be/pkg/llm"
	pktNats "ai-compliance-be/pkg/nats"
	"ai-compliance-be/pkg/schema"
	"ai-compliance-be/pkg/tracker"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var ErrSessionNotFound = errors.New("session not found")

// historyWindow caps the conversation context passed to the extractor.
const historyWindow = 10

type IDocumentChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	ConfirmFields(ctx context.Context, userId uuid.UUID, req *dto.ConfirmFieldsRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type documentChatService struct {
	uowFactory unitofwork.RepositoryFactory
	registry   *schema.Registry
	store      *docstate.Store
	trk        *tracker.Tracker
	extractor  extraction.Extractor
	publisher  *pktNats.Publisher
	threshold  float64
	// Low-confidence proposals held back per session until the user confirms.
	pending *cache.Cache
}

func NewDocumentChatService(
	uowFactory unitofwork.RepositoryFactory,
	registry *schema.Registry,
	store *docstate.Store,
	trk *tracker.Tracker,
	extractor extraction.Extractor,
	publisher *pktNats.Publisher,
	threshold float64,
) IDocumentChatService {
	return &documentChatService{
		uowFactory: uowFactory,
		registry:   registry,
		store:      store,
		trk:        trk,
		extractor:  extractor,
		publisher:  publisher,
		threshold:  threshold,
		pending:    cache.New(24*time.Hour, time.Hour),
	}
}

func (s *documentChatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	docSchema, err := s.registry.Get(req.DocumentType)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = docSchema.Title
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session := &entity.DocumentSession{
		UserId:       userId,
		Title:        title,
		DocumentType: req.DocumentType,
		FieldValues:  map[string]any{},
	}
	if err := uow.DocumentSessionRepository().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	live := s.store.GetOrCreate(session.Id.String(), req.DocumentType)
	live.UserID = userId.String()
	s.store.Save(live)

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.NewSessionCreated(session.Id.String(), userId.String(), req.DocumentType))
	}

	resp := &dto.CreateSessionResponse{
		Id:           session.Id,
		DocumentType: req.DocumentType,
		Title:        title,
	}
	if next, err := s.trk.NextField(live); err == nil && next != nil {
		resp.FirstPrompt = next.Prompt
	}
	return resp, nil
}

func (s *documentChatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]dto.GetAllSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.DocumentSessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.GetAllSessionsResponse, 0, len(sessions))
	for _, sess := range sessions {
		completion := 0.0
		if live, err := s.loadLiveSession(sess); err == nil {
			if summary, err := s.trk.Summary(live); err == nil {
				completion = summary.Percentage
			}
		}
		out = append(out, dto.GetAllSessionsResponse{
			Id:           sess.Id,
			Title:        sess.Title,
			DocumentType: sess.DocumentType,
			Completion:   completion,
			CreatedAt:    sess.CreatedAt,
			UpdatedAt:    sess.UpdatedAt,
		})
	}
	return out, nil
}

func (s *documentChatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]dto.GetChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.ownedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	messages, err := uow.DocumentMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.GetChatHistoryResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Chat:      msg.Content,
			Intent:    msg.Intent,
			CreatedAt: msg.CreatedAt,
		})
	}
	return out, nil
}

func (s *documentChatService) SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := s.ownedSession(ctx, uow, userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	live, err := s.loadLiveSession(record)
	if err != nil {
		return nil, err
	}

	history, err := s.recentHistory(ctx, uow, req.SessionId)
	if err != nil {
		return nil, err
	}

	summary, err := s.trk.Summary(live)
	if err != nil {
		return nil, err
	}

	snapshot := extraction.Snapshot{
		SessionID:    record.Id.String(),
		DocumentType: record.DocumentType,
		Filled:       live.Values,
		Outstanding:  summary.Outstanding,
		History:      history,
	}

	result, err := s.extractor.Extract(ctx, &snapshot, req.Chat)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	proposals := result.Proposals
	// A bare affirmative merges the proposals held back on the previous turn.
	if len(proposals) == 0 && isAffirmative(req.Chat) {
		proposals = s.takePending(record.Id.String(), nil)
	}

	var updates []tracker.Update
	var lowConf []extraction.FieldProposal
	for _, p := range proposals {
		if p.Confidence >= s.threshold {
			updates = append(updates, tracker.Update{Path: p.Path, Value: p.Value})
		} else {
			lowConf = append(lowConf, p)
		}
	}
	if len(lowConf) > 0 {
		s.storePending(record.Id.String(), lowConf)
	}

	resp, err := s.applyAndCompose(ctx, uow, record, result.Intent, req.Chat, updates, lowConf)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *documentChatService) ConfirmFields(ctx context.Context, userId uuid.UUID, req *dto.ConfirmFieldsRequest) (*dto.SendChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := s.ownedSession(ctx, uow, userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	confirmed := s.takePending(record.Id.String(), req.Paths)
	var updates []tracker.Update
	for _, p := range confirmed {
		updates = append(updates, tracker.Update{Path: p.Path, Value: p.Value})
	}

	return s.applyAndCompose(ctx, uow, record, extraction.IntentProvideInfo, "", updates, nil)
}

// applyAndCompose runs the serialized merge, persists the updated record and
// conversation turn, emits events and builds the reply.
func (s *documentChatService) applyAndCompose(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	record *entity.DocumentSession,
	intent extraction.Intent,
	userText string,
	updates []tracker.Update,
	lowConf []extraction.FieldProposal,
) (*dto.SendChatResponse, error) {
	docSchema, err := s.registry.Get(record.DocumentType)
	if err != nil {
		return nil, err
	}

	wasReady := false
	if before, err := s.loadLiveSession(record); err == nil {
		if sum, err := s.trk.Summary(before); err == nil {
			wasReady = sum.ReadyForExport
		}
	}

	var mergeResult *tracker.Result
	live, err := s.store.Update(record.Id.String(), record.DocumentType, func(sess *docstate.Session) error {
		var applyErr error
		mergeResult, applyErr = s.trk.ApplyUpdates(sess, updates)
		return applyErr
	})
	if err != nil {
		return nil, fmt.Errorf("merge failed: %w", err)
	}
	summary := mergeResult.Summary

	var mergedPaths []string
	rejectedByPath := map[string]bool{}
	for _, r := range mergeResult.Rejected {
		rejectedByPath[r.Path] = true
	}
	for _, u := range updates {
		if !rejectedByPath[u.Path] {
			mergedPaths = append(mergedPaths, u.Path)
		}
	}

	// Persist the durable copy of the live values.
	record.FieldValues = map[string]any(live.Values)
	if err := uow.DocumentSessionRepository().Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	if userText != "" {
		userMsg := &entity.DocumentMessage{
			SessionId: record.Id,
			Role:      "user",
			Content:   userText,
			Intent:    string(intent),
		}
		if err := uow.DocumentMessageRepository().Create(ctx, userMsg); err != nil {
			return nil, err
		}
	}

	next, err := s.trk.NextField(live)
	if err != nil {
		return nil, err
	}

	reply := composer.Compose(composer.Input{
		Session:    live,
		Schema:     docSchema,
		Summary:    summary,
		Intent:     intent,
		Merged:     mergedPaths,
		Rejected:   mergeResult.Rejected,
		LowConf:    lowConf,
		NextField:  next,
		ExportHint: fmt.Sprintf("/api/document/v1/%s/export", record.Id),
	})

	assistantMsg := &entity.DocumentMessage{
		SessionId: record.Id,
		Role:      "assistant",
		Content:   reply,
	}
	if err := uow.DocumentMessageRepository().Create(ctx, assistantMsg); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if len(mergedPaths) > 0 {
			_ = s.publisher.Publish(ctx, events.NewFieldsMerged(record.Id.String(), mergedPaths, summary.Percentage))
		}
		if !wasReady && summary.ReadyForExport {
			_ = s.publisher.Publish(ctx, events.NewDocumentCompleted(record.Id.String(), record.UserId.String(), record.DocumentType))
		}
	}

	resp := &dto.SendChatResponse{
		SessionId:     record.Id,
		Reply:         reply,
		Intent:        string(intent),
		Completion:    summary.Percentage,
		ReadyToExport: summary.ReadyForExport,
	}
	for _, p := range mergedPaths {
		label := p
		if spec, ok := docSchema.Field(p); ok {
			label = spec.Label
		}
		resp.MergedFields = append(resp.MergedFields, dto.MergedFieldDTO{Path: p, Label: label})
	}
	for _, r := range mergeResult.Rejected {
		if r.Reason == tracker.ReasonInvalidValue {
			resp.Rejected = append(resp.Rejected, dto.RejectedFieldDTO{Path: r.Path, Reason: r.Reason, Detail: r.Detail})
		}
	}
	for _, p := range lowConf {
		label := p.Path
		if spec, ok := docSchema.Field(p.Path); ok {
			label = spec.Label
		}
		resp.PendingFields = append(resp.PendingFields, dto.PendingFieldDTO{
			Path:       p.Path,
			Label:      label,
			Value:      p.Value,
			Confidence: p.Confidence,
		})
	}
	if next != nil {
		resp.NextField = next.Path
	}
	return resp, nil
}

func (s *documentChatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := s.ownedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentMessageRepository().DeleteBySessionId(ctx, record.Id); err != nil {
		return err
	}
	if err := uow.DocumentSessionRepository().Delete(ctx, record.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.store.Delete(sessionId.String())
	s.pending.Delete(sessionId.String())
	return nil
}

// ownedSession loads the session record and enforces ownership.
func (s *documentChatService) ownedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.DocumentSession, error) {
	record, err := uow.DocumentSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrSessionNotFound
	}
	return record, nil
}

// loadLiveSession returns the in-memory document state, rehydrating it from
// the persisted record after a restart or cache eviction.
func (s *documentChatService) loadLiveSession(record *entity.DocumentSession) (*docstate.Session, error) {
	live, err := s.store.Get(record.Id.String())
	if err == nil {
		return live, nil
	}
	if !errors.Is(err, docstate.ErrUnknownSession) {
		return nil, err
	}

	live = s.store.GetOrCreate(record.Id.String(), record.DocumentType)
	live.UserID = record.UserId.String()
	for path, v := range record.FieldValues {
		live.Values[path] = docstate.NormalizeValue(v)
	}
	s.store.Save(live)
	return live, nil
}

func (s *documentChatService) recentHistory(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]llm.Message, error) {
	messages, err := uow.DocumentMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: historyWindow, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	// Reverse to chronological order.
	out := make([]llm.Message, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		out = append(out, llm.Message{Role: messages[i].Role, Content: messages[i].Content})
	}
	return out, nil
}

func (s *documentChatService) storePending(sessionID string, proposals []extraction.FieldProposal) {
	s.pending.Set(sessionID, proposals, cache.DefaultExpiration)
}

// takePending removes and returns pending proposals. With a non-empty paths
// filter only those are taken, the rest stay pending.
func (s *documentChatService) takePending(sessionID string, paths []string) []extraction.FieldProposal {
	raw, found := s.pending.Get(sessionID)
	if !found {
		return nil
	}
	all := raw.([]extraction.FieldProposal)
	if len(paths) == 0 {
		s.pending.Delete(sessionID)
		return all
	}

	wanted := map[string]bool{}
	for _, p := range paths {
		wanted[p] = true
	}
	var taken, remaining []extraction.FieldProposal
	for _, p := range all {
		if wanted[p.Path] {
			taken = append(taken, p)
		} else {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) > 0 {
		s.pending.Set(sessionID, remaining, cache.DefaultExpiration)
	} else {
		s.pending.Delete(sessionID)
	}
	return taken
}

func isAffirmative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(strings.TrimRight(text, ".!"))) {
	case "yes", "y", "confirm", "confirmed", "correct", "that's right", "ok", "okay", "sure", "yep":
		return true
	}
	return false
}
