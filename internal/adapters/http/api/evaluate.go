package api

import (
	"net/http"

	"github.com/okian/ignite/pkg/logger"
)

// EvaluateHandler handles evaluation requests.
type EvaluateHandler struct {
	eval   Evaluator
	req    requestReader
	logger logger.Logger
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(eval Evaluator, req requestReader, l logger.Logger) *EvaluateHandler {
	return &EvaluateHandler{eval: eval, req: req, logger: l}
}

// HandleEvaluate handles GET|POST /evaluate and returns the full result.
func (h *EvaluateHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluate"
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
		if code >= http.StatusInternalServerError {
			h.logger.Error(r.Context(), "evaluation failed", logger.Error(err))
		}
		writeError(w, code, kind, WrapKind(op, ErrInvalidInput, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
