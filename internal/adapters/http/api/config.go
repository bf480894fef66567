package api

import (
	"net/http"

	"github.com/okian/ignite/internal/app"
	"github.com/okian/ignite/internal/domain/period"
)

type configResponse struct {
	Mode       period.Mode    `json:"mode"`
	GoalPoints int            `json:"goal_points"`
	Weights    map[string]int `json:"weights"`
	Actions    []string       `json:"actions"`
	SourceURL  string         `json:"source_url,omitempty"`
	Timezone   string         `json:"timezone"`
}

// ConfigHandler reports the server's default settings.
type ConfigHandler struct {
	defaults   func() app.Settings
	defaultURL string
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(defaults func() app.Settings, defaultURL string) *ConfigHandler {
	return &ConfigHandler{defaults: defaults, defaultURL: defaultURL}
}

// HandleConfig handles GET /config.
func (h *ConfigHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	s := h.defaults()
	writeJSON(w, http.StatusOK, configResponse{
		Mode:       s.Mode,
		GoalPoints: s.GoalPoints,
		Weights:    s.Weights.Map(),
		Actions:    s.Weights.Actions(),
		SourceURL:  h.defaultURL,
		Timezone:   period.Zone,
	})
}
