package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "github.com/lucasmv/triviarush/internal/errors"
	"github.com/lucasmv/triviarush/internal/logger"
	"github.com/lucasmv/triviarush/internal/models"
)

// Provider response codes, as documented by the Open Trivia DB API.
const (
	codeSuccess       = 0
	codeNoResults     = 1
	codeInvalidParam  = 2
	codeTokenNotFound = 3
	codeTokenEmpty    = 4
	codeRateLimited   = 5
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Default().WithPrefix("opentdb"),
	}
}

// QuestionRequest describes one question fetch. Amount is required;
// Difficulty and CategoryID narrow the pool when set.
type QuestionRequest struct {
	Amount     int
	Difficulty string
	CategoryID int
}

type questionsResp struct {
	ResponseCode int               `json:"response_code"`
	Results      []models.Question `json:"results"`
}

type categoriesResp struct {
	TriviaCategories []models.Category `json:"trivia_categories"`
}

// FetchQuestions requests multiple-choice questions matching the filters.
// It returns exactly req.Amount questions or an error: a transport failure
// or provider error code becomes a PROVIDER_ERROR, and the provider's
// "no results" code (not enough questions for the filter combination) a
// distinct NO_QUESTIONS error. Question text stays HTML-entity encoded;
// rounds decode it at presentation time.
func (c *Client) FetchQuestions(ctx context.Context, req QuestionRequest) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("opentdb").WithFields(map[string]any{
		"amount":     req.Amount,
		"difficulty": req.Difficulty,
	})

	params := url.Values{}
	params.Set("amount", strconv.Itoa(req.Amount))
	params.Set("type", "multiple")
	if req.Difficulty != "" {
		params.Set("difficulty", req.Difficulty)
	}
	if req.CategoryID > 0 {
		params.Set("category", strconv.Itoa(req.CategoryID))
	}
	reqURL := fmt.Sprintf("%s/api.php?%s", c.baseURL, params.Encode())

	log.Debug("fetching questions from: %s", reqURL)
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, apperrors.NewProviderError(err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error("failed to fetch questions: %v", err)
		return nil, apperrors.NewProviderError(err)
	}
	defer resp.Body.Close()

	log.Debug("questions response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("questions request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, apperrors.NewProviderError(fmt.Errorf("questions status %d: %s", resp.StatusCode, string(body)))
	}

	var out questionsResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode questions response: %v", err)
		return nil, apperrors.NewProviderError(err)
	}

	switch out.ResponseCode {
	case codeSuccess:
	case codeNoResults:
		log.Warn("provider has no results for this filter combination")
		return nil, apperrors.NewNoQuestionsError("not enough questions for the chosen category and difficulty")
	default:
		log.Error("provider returned error code %d", out.ResponseCode)
		return nil, apperrors.NewProviderError(fmt.Errorf("provider response code %d", out.ResponseCode))
	}

	// A success code with a short set still means the filter pool ran dry.
	if len(out.Results) != req.Amount {
		log.Warn("provider returned %d questions, wanted %d", len(out.Results), req.Amount)
		return nil, apperrors.NewNoQuestionsError("provider returned fewer questions than requested")
	}

	log.Info("fetched %d questions", len(out.Results))
	return out.Results, nil
}

// FetchCategories returns the provider's category list.
func (c *Client) FetchCategories(ctx context.Context) ([]models.Category, error) {
	log := logger.FromContext(ctx).WithPrefix("opentdb")
	reqURL := fmt.Sprintf("%s/api_category.php", c.baseURL)

	log.Debug("fetching categories from: %s", reqURL)
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, apperrors.NewProviderError(err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error("failed to fetch categories: %v", err)
		return nil, apperrors.NewProviderError(err)
	}
	defer resp.Body.Close()

	log.Debug("categories response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("categories request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, apperrors.NewProviderError(fmt.Errorf("categories status %d: %s", resp.StatusCode, string(body)))
	}

	var out categoriesResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode categories response: %v", err)
		return nil, apperrors.NewProviderError(err)
	}

	log.Info("fetched %d categories", len(out.TriviaCategories))
	return out.TriviaCategories, nil
}
