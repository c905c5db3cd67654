package service

import (
	"context"
	"errors"
	"fmt"

	"ai-compliance-be/internal/dto"
	"ai-compliance-be/internal/entity"
	"ai-compliance-be/internal/pkg/mailer"
	"ai-compliance-be/internal/repository/specification"
	"ai-compliance-be/internal/repository/unitofwork"
	"ai-compliance-be/pkg/docstate"
	"ai-compliance-be/pkg/events"
	pktNats "ai-compliance-be/pkg/nats"
	"ai-compliance-be/pkg/render"
	"ai-compliance-be/pkg/schema"
	"ai-compliance-be/pkg/tracker"

	"github.com/google/uuid"
)

// ErrDocumentIncomplete gates the export path until every required field is set.
var ErrDocumentIncomplete = errors.New("document is not complete")

type ExportResult struct {
	FileName  string
	MediaType string
	Content   []byte
	Emailed   bool
}

type IDocumentService interface {
	Status(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.DocumentStatusResponse, error)
	Export(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.ExportRequest) (*ExportResult, error)
	Templates(ctx context.Context) ([]dto.TemplateResponse, error)
	Template(ctx context.Context, documentType string) (*dto.TemplateResponse, error)
}

type documentService struct {
	uowFactory unitofwork.RepositoryFactory
	registry   *schema.Registry
	store      *docstate.Store
	trk        *tracker.Tracker
	renderer   *render.Renderer
	mail       mailer.IEmailService
	publisher  *pktNats.Publisher
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	registry *schema.Registry,
	store *docstate.Store,
	trk *tracker.Tracker,
	renderer *render.Renderer,
	mail mailer.IEmailService,
	publisher *pktNats.Publisher,
) IDocumentService {
	return &documentService{
		uowFactory: uowFactory,
		registry:   registry,
		store:      store,
		trk:        trk,
		renderer:   renderer,
		mail:       mail,
		publisher:  publisher,
	}
}

func (s *documentService) Status(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.DocumentStatusResponse, error) {
	live, record, err := s.liveSession(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	docSchema, err := s.registry.Get(record.DocumentType)
	if err != nil {
		return nil, err
	}

	summary, err := s.trk.Summary(live)
	if err != nil {
		return nil, err
	}

	resp := &dto.DocumentStatusResponse{
		SessionId:     sessionId,
		DocumentType:  record.DocumentType,
		Completion:    summary.Percentage,
		Outstanding:   summary.Outstanding,
		ReadyToExport: summary.ReadyForExport,
	}

	missingBySection := map[string][]string{}
	for _, path := range summary.Outstanding {
		if spec, ok := docSchema.Field(path); ok {
			name := sectionOf(path)
			missingBySection[name] = append(missingBySection[name], spec.Label)
		}
	}
	for _, sec := range summary.Sections {
		resp.Sections = append(resp.Sections, dto.SectionStatusDTO{
			Name:      sec.Name,
			Label:     sec.Label,
			Filled:    sec.RequiredFilled,
			Required:  sec.RequiredTotal,
			Missing:   missingBySection[sec.Name],
			Completed: sec.RequiredFilled == sec.RequiredTotal,
		})
	}
	return resp, nil
}

func (s *documentService) Export(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.ExportRequest) (*ExportResult, error) {
	format, err := render.ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}

	live, record, err := s.liveSession(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	docSchema, err := s.registry.Get(record.DocumentType)
	if err != nil {
		return nil, err
	}

	summary, err := s.trk.Summary(live)
	if err != nil {
		return nil, err
	}
	if !summary.ReadyForExport {
		return nil, fmt.Errorf("%w: %d required fields outstanding", ErrDocumentIncomplete, len(summary.Outstanding))
	}

	content, err := s.renderer.Render(docSchema, live.Values, format)
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}

	result := &ExportResult{
		FileName:  exportFileName(record.DocumentType, format),
		MediaType: format.MediaType(),
		Content:   content,
	}

	if req.Email != "" {
		if err := s.mail.SendDocument(req.Email, record.Title, result.FileName, result.MediaType, content); err != nil {
			return nil, fmt.Errorf("failed to email document: %w", err)
		}
		result.Emailed = true
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.NewDocumentExported(
			record.Id.String(), userId.String(), record.DocumentType, string(format)))
	}
	return result, nil
}

func (s *documentService) Templates(ctx context.Context) ([]dto.TemplateResponse, error) {
	var out []dto.TemplateResponse
	for _, docType := range s.registry.Types() {
		t, err := s.Template(ctx, docType)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

func (s *documentService) Template(_ context.Context, documentType string) (*dto.TemplateResponse, error) {
	docSchema, err := s.registry.Get(documentType)
	if err != nil {
		return nil, err
	}

	resp := &dto.TemplateResponse{
		DocumentType: documentType,
		Title:        docSchema.Title,
	}
	for _, section := range docSchema.Sections {
		secDTO := dto.TemplateSectionDTO{Name: section.Name, Label: section.Label}
		for _, field := range section.Fields {
			secDTO.Fields = append(secDTO.Fields, dto.TemplateFieldDTO{
				Path:     field.Path,
				Label:    field.Label,
				Type:     string(field.Type),
				Required: field.Required,
				Options:  field.Options,
			})
		}
		resp.Sections = append(resp.Sections, secDTO)
	}
	return resp, nil
}

func (s *documentService) liveSession(ctx context.Context, userId, sessionId uuid.UUID) (*docstate.Session, *entity.DocumentSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := uow.DocumentSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, nil, err
	}
	if record == nil {
		return nil, nil, ErrSessionNotFound
	}

	live, err := s.store.Get(sessionId.String())
	if errors.Is(err, docstate.ErrUnknownSession) {
		live = s.store.GetOrCreate(sessionId.String(), record.DocumentType)
		live.UserID = userId.String()
		for path, v := range record.FieldValues {
			live.Values[path] = docstate.NormalizeValue(v)
		}
		s.store.Save(live)
	} else if err != nil {
		return nil, nil, err
	}

	return live, record, nil
}

func sectionOf(path string) string {
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}

func exportFileName(documentType string, format render.Format) string {
	return documentType + format.Extension()
}
