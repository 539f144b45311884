package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roomvana/designhub/internal/gemini"
)

type DesignGenerator interface {
	Generate(ctx context.Context, imageDataURI, userPrompt, styleID string) (string, error)
}

// UpstreamObserver records timing/outcome of one model call.
type UpstreamObserver interface {
	ObserveUpstream(model string, fn func() error) error
}

type DesignsHandler struct {
	generator DesignGenerator
	model     string
	observer  UpstreamObserver
}

func NewDesignsHandler(generator DesignGenerator, model string, observer UpstreamObserver) *DesignsHandler {
	return &DesignsHandler{
		generator: generator,
		model:     model,
		observer:  observer,
	}
}

type GenerateDesignRequest struct {
	Image  string `json:"image" binding:"required"`
	Prompt string `json:"prompt" binding:"required,max=2000"`
	Style  string `json:"style" binding:"required,max=80"`
}

// GenerateDesign proxies one synchronous image-model call. No retries:
// a transient upstream failure surfaces directly to the caller.
func (h *DesignsHandler) GenerateDesign(ctx *gin.Context) {
	var req GenerateDesignRequest

	if !BindJSON(ctx, &req) {
		return
	}

	var generated string

	call := func() error {
		var err error
		// the request context carries the deadline; the client adds
		// its own transport timeout on top
		generated, err = h.generator.Generate(ctx.Request.Context(), req.Image, req.Prompt, req.Style)
		return err
	}

	var err error

	if h.observer != nil {
		err = h.observer.ObserveUpstream(h.model, call)
	} else {
		err = call()
	}

	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "design generation failed", "err", err)

		if errors.Is(err, gemini.ErrNoAPIKey) {
			RespondServiceUnavailable(ctx, "not_configured", "Image generation is not configured.")
			return
		}

		var ue *gemini.UpstreamError

		if errors.As(err, &ue) {
			msg := "The model did not return an image."
			if ue.ModelText != "" {
				msg += " It said: " + ue.ModelText
			}

			RespondBadGateway(ctx, "upstream_error", msg)
			return
		}

		RespondBadGateway(ctx, "upstream_error", "Image generation failed.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"image": generated})
}

// ListStyles exposes the preset table so clients stay in sync with the
// server's canonical descriptions.
func (h *DesignsHandler) ListStyles(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"items": gemini.InteriorStyles})
}
