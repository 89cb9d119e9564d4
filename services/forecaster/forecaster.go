// Package forecaster integrates a calibrated forecasting model for
// probability estimates, served over the HuggingFace Inference API.
//
// The model (OpenForecaster-8B) is trained specifically for forecasting and
// is well-calibrated: when it says 70%, it is right about 70% of the time.
//
// Unavailability is a normal state, not an error. A missing token, an
// unreachable endpoint, or output with no extractable probability all
// resolve to "no calibrated estimate"; validation proceeds without one.
package forecaster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultModelID  = "nikhilchandak/OpenForecaster-8B"
	defaultEndpoint = "https://api-inference.huggingface.co/models/"
)

// Forecaster produces calibrated probability estimates for hypotheses.
// The ok return is false whenever no estimate is available; callers must
// not substitute a default number.
type Forecaster interface {
	Probability(ctx context.Context, hypothesis, background string) (float64, bool)
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
	DoSample     bool    `json:"do_sample"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

// HFForecaster calls the HuggingFace Inference API. A zero token disables
// the client silently; every method then reports unavailability.
type HFForecaster struct {
	httpClient *http.Client
	baseURL    string
	token      string
	modelID    string
}

// NewHFForecaster builds a forecaster from the environment. Missing
// credentials are not an error; the returned client simply reports
// unavailability.
func NewHFForecaster() *HFForecaster {
	token := os.Getenv("HUGGINGFACE_TOKEN")
	if token == "" {
		secretPath := "/run/secrets/huggingface_token"
		if content, err := os.ReadFile(secretPath); err == nil {
			token = strings.TrimSpace(string(content))
			slog.Info("Read HuggingFace token from Podman Secrets")
		}
	}
	if token == "" {
		slog.Info("HUGGINGFACE_TOKEN not set. Calibrated forecasting disabled.")
	}

	modelID := os.Getenv("FORECASTER_MODEL")
	if modelID == "" {
		modelID = defaultModelID
	}

	return &HFForecaster{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    defaultEndpoint,
		token:      token,
		modelID:    modelID,
	}
}

// Configured reports whether credentials are present.
func (f *HFForecaster) Configured() bool {
	return f.token != ""
}

// Probability asks the forecasting model for a calibrated probability that
// the hypothesis is true or will succeed. Any failure along the way
// (transport, status, decoding, no extractable token) degrades to ok=false.
func (f *HFForecaster) Probability(ctx context.Context, hypothesis, background string) (float64, bool) {
	raw, ok := f.generate(ctx, probabilityPrompt(hypothesis, background))
	if !ok {
		return 0, false
	}
	prob, ok := ExtractProbability(raw)
	if !ok {
		slog.Warn("Forecaster output contained no probability token", "model", f.modelID)
		return 0, false
	}
	return prob, true
}

// Reasoning returns the model's full chain of reasoning for a hypothesis.
// Debugging aid; same unavailability semantics as Probability.
func (f *HFForecaster) Reasoning(ctx context.Context, hypothesis, background string) (string, bool) {
	return f.generate(ctx, reasoningPrompt(hypothesis, background))
}

func (f *HFForecaster) generate(ctx context.Context, prompt string) (string, bool) {
	if f.token == "" {
		return "", false
	}

	payload := hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens: 1024,
			// Lower temp for more consistent probabilities.
			Temperature: 0.3,
			DoSample:    true,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal forecaster request", "error", err)
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, "POST", f.baseURL+f.modelID, bytes.NewBuffer(body))
	if err != nil {
		slog.Error("Failed to create forecaster request", "error", err)
		return "", false
	}
	req.Header.Set("Authorization", "Bearer "+f.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		slog.Warn("Forecaster call failed", "model", f.modelID, "error", err)
		return "", false
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		slog.Warn("Forecaster returned non-200 status",
			"model", f.modelID, "status", resp.StatusCode, "body_length", len(bodyBytes))
		return "", false
	}

	var generations []hfGeneration
	if err := json.Unmarshal(bodyBytes, &generations); err != nil || len(generations) == 0 {
		slog.Warn("Failed to decode forecaster response", "model", f.modelID, "error", err)
		return "", false
	}
	return generations[0].GeneratedText, true
}

func probabilityPrompt(hypothesis, background string) string {
	contextPart := ""
	if background != "" {
		contextPart = fmt.Sprintf("\n\nBackground: %s", background)
	}
	return fmt.Sprintf(`Question: What is the probability that the following hypothesis is true or will succeed?

Hypothesis: %s%s

Resolution Criteria: The hypothesis is considered resolved TRUE if the stated outcome occurs or the claim is validated.

Provide your probability estimate as a decimal between 0.0 and 1.0.
Think step by step about the factors that support and oppose this hypothesis.
End with your final probability on a new line as just the number.`, hypothesis, contextPart)
}

func reasoningPrompt(hypothesis, background string) string {
	contextPart := ""
	if background != "" {
		contextPart = fmt.Sprintf("\n\nBackground: %s", background)
	}
	return fmt.Sprintf(`Question: What is the probability that the following hypothesis is true or will succeed?

Hypothesis: %s%s

Think step by step about:
1. Key factors supporting this hypothesis
2. Key factors opposing this hypothesis
3. What information would change your assessment
4. Your final probability estimate (0.0 to 1.0)`, hypothesis, contextPart)
}
