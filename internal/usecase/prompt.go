package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"genai-camera/internal/domain"
)

// DefaultPromptID is the prompt the analyzer falls back to when no selection
// has been stored.
const DefaultPromptID = "default"

type PromptStore interface {
	List(ctx context.Context) ([]domain.Prompt, error)
	UpdateText(ctx context.Context, id, text string) error
	Selection(ctx context.Context) (string, bool, error)
	Select(ctx context.Context, id string) error
	CreateIfAbsent(ctx context.Context, p domain.Prompt) (bool, error)
	InitSelection(ctx context.Context, id string) (bool, error)
}

// PromptService lists and edits prompt templates and the selection pointer.
type PromptService struct {
	store     PromptStore
	defaultID string
}

func NewPromptService(store PromptStore, defaultID string) (*PromptService, error) {
	if store == nil {
		return nil, errors.New("usecase: prompt store must not be nil")
	}
	defaultID = strings.TrimSpace(defaultID)
	if defaultID == "" {
		defaultID = DefaultPromptID
	}
	return &PromptService{store: store, defaultID: defaultID}, nil
}

func (s *PromptService) List(ctx context.Context) (domain.PromptList, error) {
	prompts, err := s.store.List(ctx)
	if err != nil {
		return domain.PromptList{}, newError(ErrorInternal, "dynamodb_scan_error", err)
	}
	selected, found, err := s.store.Selection(ctx)
	if err != nil {
		return domain.PromptList{}, newError(ErrorInternal, "dynamodb_selection_error", err)
	}
	if !found || strings.TrimSpace(selected) == "" {
		selected = s.defaultID
	}
	if prompts == nil {
		prompts = []domain.Prompt{}
	}
	return domain.PromptList{Prompts: prompts, SelectedID: selected}, nil
}

// Put edits the prompt text when req.ID is set, then moves the selection to
// req.SelectedID. The normalized request is returned as the echo.
func (s *PromptService) Put(ctx context.Context, req domain.PutPromptRequest) (domain.PutPromptRequest, error) {
	req.ID = strings.TrimSpace(req.ID)
	req.SelectedID = strings.TrimSpace(req.SelectedID)
	if req.SelectedID == "" {
		return domain.PutPromptRequest{}, newError(ErrorInvalidInput, "missing_selected_id", nil)
	}
	if req.ID != "" && strings.TrimSpace(req.Prompt) == "" {
		return domain.PutPromptRequest{}, newError(ErrorInvalidInput, "empty_prompt", nil)
	}

	if req.ID != "" {
		if err := s.store.UpdateText(ctx, req.ID, req.Prompt); err != nil {
			return domain.PutPromptRequest{}, newError(ErrorInternal, "dynamodb_prompt_write_error", err)
		}
	}
	if err := s.store.Select(ctx, req.SelectedID); err != nil {
		return domain.PutPromptRequest{}, newError(ErrorInternal, "dynamodb_selection_write_error", err)
	}

	log.Ctx(ctx).Info().
		Str("promptId", req.ID).
		Str("selectedId", req.SelectedID).
		Msg("Prompt selection updated")
	return req, nil
}

// Seed creates the given templates and the selection pointer without touching
// values that already exist. It returns the ids of the prompts it created.
func (s *PromptService) Seed(ctx context.Context, templates map[string]string) ([]string, error) {
	ids := make([]string, 0, len(templates))
	for id := range templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	created := []string{}
	for _, id := range ids {
		text := templates[id]
		if strings.TrimSpace(id) == "" || strings.TrimSpace(text) == "" {
			continue
		}
		ok, err := s.store.CreateIfAbsent(ctx, domain.Prompt{ID: id, Prompt: text})
		if err != nil {
			return created, newError(ErrorInternal, "dynamodb_seed_error", err)
		}
		if ok {
			created = append(created, id)
		}
	}

	if _, err := s.store.InitSelection(ctx, s.defaultID); err != nil {
		return created, newError(ErrorInternal, "dynamodb_seed_selection_error", err)
	}
	return created, nil
}
