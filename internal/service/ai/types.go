package ai

import "strings"

// ModelPreset represents the sampling preset of one remote operation
type ModelPreset string

const (
	PresetRefine    ModelPreset = "refine"    // varied but coherent prompt writing
	PresetDescribe  ModelPreset = "describe"  // faithful description of media
	PresetTranslate ModelPreset = "translate" // literal translation
)

// ModelConfig holds sampling parameters. Zero TopP, TopK or MaxOutputTokens leave the
// provider default in place.
type ModelConfig struct {
	Temperature     float32
	TopP            float32
	TopK            int
	MaxOutputTokens int
}

// GetPresetConfig returns the configuration for a preset
func GetPresetConfig(preset ModelPreset) ModelConfig {
	switch preset {
	case PresetRefine:
		return ModelConfig{
			Temperature: 0.7,
			TopP:        0.95,
			TopK:        64,
		}
	case PresetDescribe:
		return ModelConfig{
			Temperature: 0.6,
			TopP:        0.95,
			TopK:        64,
		}
	case PresetTranslate:
		return ModelConfig{
			Temperature: 0.3,
		}
	default:
		return GetPresetConfig(PresetRefine)
	}
}

// Part is one piece of a user message: either text or inline media bytes.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

func (p Part) IsMedia() bool {
	return len(p.Data) > 0
}

// GenerateRequest is a single-turn generation call.
type GenerateRequest struct {
	SystemInstruction string
	Parts             []Part
	Config            ModelConfig
	Multimodal        bool
}

// HasVideo reports whether any part carries a video payload.
func (r GenerateRequest) HasVideo() bool {
	for _, p := range r.Parts {
		if p.IsMedia() && strings.HasPrefix(p.MIMEType, "video/") {
			return true
		}
	}
	return false
}
