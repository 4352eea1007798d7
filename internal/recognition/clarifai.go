package recognition

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/2beens/fitpulse/internal/nutrition"
	"github.com/2beens/fitpulse/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultFoodModel = "food-item-recognition"

type ClarifaiClient struct {
	baseURL    string // https://api.clarifai.com
	apiKey     string
	modelID    string
	httpClient *http.Client
}

func NewClarifaiClient(baseURL, apiKey, modelID string, httpClient *http.Client) *ClarifaiClient {
	if modelID == "" {
		modelID = DefaultFoodModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ClarifaiClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		modelID:    modelID,
		httpClient: httpClient,
	}
}

type outputsRequest struct {
	Inputs []outputsInput `json:"inputs"`
}

type outputsInput struct {
	Data struct {
		Image struct {
			Base64 string `json:"base64"`
		} `json:"image"`
	} `json:"data"`
}

type outputsResponse struct {
	Status struct {
		Code        int    `json:"code"`
		Description string `json:"description"`
	} `json:"status"`
	Outputs []struct {
		Data struct {
			Concepts []Concept `json:"concepts"`
		} `json:"data"`
	} `json:"outputs"`
}

// Concept is a single label returned by the model, Value is in [0, 1].
type Concept struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func (c *ClarifaiClient) Recognize(ctx context.Context, image []byte) (_ []nutrition.RecognizedFood, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "recognition.clarifai.recognize")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("image.size", len(image)))

	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: api key not set", ErrServiceMisconfigured)
	}

	var input outputsInput
	input.Data.Image.Base64 = base64.StdEncoding.EncodeToString(image)
	reqBody, err := json.Marshal(outputsRequest{Inputs: []outputsInput{input}})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/models/%s/outputs", c.baseURL, c.modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("%w: new request: %s", ErrTransientService, err)
	}
	req.Header.Set("Authorization", "Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: http client do: %s", ErrTransientService, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrServiceMisconfigured, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrTransientService, resp.StatusCode)
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %s", ErrTransientService, err)
	}

	var outputs outputsResponse
	if err := json.Unmarshal(respBytes, &outputs); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %s", ErrTransientService, err)
	}

	var concepts []Concept
	if len(outputs.Outputs) > 0 {
		concepts = outputs.Outputs[0].Data.Concepts
	}
	foods := FilterConcepts(concepts)

	log.Debugf("clarifai: %d concepts, %d kept", len(concepts), len(foods))
	span.SetAttributes(attribute.Int("foods.count", len(foods)))

	return foods, nil
}

// FilterConcepts keeps concepts scoring above MinConceptScore, converts the score to an
// integer percentage and returns at most MaxFoods of them, highest confidence first.
func FilterConcepts(concepts []Concept) []nutrition.RecognizedFood {
	foods := make([]nutrition.RecognizedFood, 0, len(concepts))
	for _, c := range concepts {
		if c.Value <= MinConceptScore || math.IsNaN(c.Value) {
			continue
		}
		foods = append(foods, nutrition.RecognizedFood{
			Name:       c.Name,
			Confidence: int(math.Round(c.Value * 100)),
		})
	}

	sort.SliceStable(foods, func(i, j int) bool {
		return foods[i].Confidence > foods[j].Confidence
	})
	if len(foods) > MaxFoods {
		foods = foods[:MaxFoods]
	}

	return foods
}

// IsTransient reports whether err should be answered by a stand-in result.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransientService)
}
