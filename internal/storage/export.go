package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/circles/internal/scene"
)

type ExportData struct {
	ID          string             `json:"id"`
	Scene       string             `json:"scene"`
	Fingerprint string             `json:"fingerprint"`
	Steps       int                `json:"steps"`
	Frames      []scene.Frame      `json:"frames"`
	Metrics     map[string]float64 `json:"metrics"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, frames []scene.Frame) error {
	data := ExportData{
		ID:          meta.ID,
		Scene:       meta.Scene,
		Fingerprint: meta.Fingerprint,
		Steps:       meta.Steps,
		Frames:      frames,
		Metrics:     meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
