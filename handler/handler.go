package handler

import (
	"context"
	"errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"genai-camera/internal/domain"
)

type CaptionUseCase interface {
	Latest(ctx context.Context) (domain.Classification, bool, error)
}

type PromptUseCase interface {
	List(ctx context.Context) (domain.PromptList, error)
	Put(ctx context.Context, req domain.PutPromptRequest) (domain.PutPromptRequest, error)
}

type CameraUseCase interface {
	Upload(ctx context.Context, req domain.UploadImageRequest) (domain.UploadResult, error)
}

// Services selects the route groups to mount. Nil members are skipped, so a
// function deployed for a single route only serves that route.
type Services struct {
	Caption CaptionUseCase
	Prompts PromptUseCase
	Camera  CameraUseCase
}

func (s Services) empty() bool {
	return s.Caption == nil && s.Prompts == nil && s.Camera == nil
}

// Handler serves API Gateway HTTP API (payload v2) events through the router.
type Handler struct {
	adapter *httpadapter.HandlerAdapterV2
}

func NewHandler(svc Services, opts Options) (*Handler, error) {
	if svc.empty() {
		return nil, errors.New("handler: at least one service is required")
	}
	router, err := NewRouter(svc, opts)
	if err != nil {
		return nil, err
	}
	return &Handler{adapter: httpadapter.NewV2(router)}, nil
}

func (h *Handler) Handle(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return h.adapter.ProxyWithContext(ctx, event)
}
