package api

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/ignite/internal/render"
	"github.com/okian/ignite/pkg/logger"
	"github.com/okian/ignite/pkg/metrics"
)

// RocketHandler serves the progress image.
type RocketHandler struct {
	eval   Evaluator
	req    requestReader
	logger logger.Logger
	image  []render.Option
}

// NewRocketHandler creates a new rocket image handler.
func NewRocketHandler(eval Evaluator, req requestReader, l logger.Logger, opts ...render.Option) *RocketHandler {
	return &RocketHandler{eval: eval, req: req, logger: l, image: opts}
}

// HandleRocket handles GET|POST /rocket.png. It accepts the same parameters
// as /evaluate and answers with image/png.
func (h *RocketHandler) HandleRocket(w http.ResponseWriter, r *http.Request) {
	const op = "api.rocket"
	if !allowRead(w, r) {
		return
	}

	settings, in, release, err := h.req.read(w, r)
	defer release()
	if err != nil {
		code, kind := status(err)
		writeError(w, code, kind, WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.eval.Evaluate(r.Context(), settings, in)
	if err != nil {
		code, kind := status(err)
		writeError(w, code, kind, WrapKind(op, ErrInvalidInput, err))
		return
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := render.WritePNG(&buf, render.Rocket(res.Progress, h.image...)); err != nil {
		h.logger.Error(r.Context(), "render failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
		return
	}
	metrics.RecordRenderDuration(msSince(start))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Progress-Percent", strconv.Itoa(res.Percent))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
