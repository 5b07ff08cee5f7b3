// Package costs estimates the upstream provider cost of a synthesis
// request before it is made.
package costs

import (
	"os"
	"strconv"
	"strings"
)

// Pricing constants (in cents per unit for precision).
// These are based on 2026 list prices and can be overridden via environment variables.
var (
	// Neural2CentsPerThousandChars is the cost per 1K characters for
	// Google Cloud TTS Neural2 voices.
	// Default: $16/1M chars = 1.6 cents/1K chars
	Neural2CentsPerThousandChars = getEnvFloat("COST_NEURAL2_CENTS_PER_1K_CHARS", 1.6)

	// StandardCentsPerThousandChars is the cost per 1K characters for
	// Google Cloud TTS Standard voices.
	// Default: $4/1M chars = 0.4 cents/1K chars
	StandardCentsPerThousandChars = getEnvFloat("COST_STANDARD_CENTS_PER_1K_CHARS", 0.4)
)

// SynthesisCostCents estimates the provider cost in cents for
// synthesizing the given number of characters with the given voice.
// Billing counts every character of the input, including SSML markup.
func SynthesisCostCents(voiceName string, characters int) float64 {
	rate := StandardCentsPerThousandChars
	if isNeural2(voiceName) {
		rate = Neural2CentsPerThousandChars
	}
	return float64(characters) / 1000.0 * rate
}

func isNeural2(voiceName string) bool {
	// Voice names embed the tier, e.g. "en-US-Neural2-D".
	return strings.Contains(voiceName, "Neural2")
}

// getEnvFloat returns an environment variable as float64, or the default if not set.
func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
