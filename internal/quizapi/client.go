package quizapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"quiz-client/internal/metrics"
	"quiz-client/internal/quiz"
)

const DefaultBaseURL = "http://localhost:8000/api"

var ErrServiceUnavailable = errors.New("quiz service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Is lets callers match 404 responses with errors.Is(err, quiz.ErrNotFound).
func (e *APIError) Is(target error) bool {
	return target == quiz.ErrNotFound && e.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
	metrics    *metrics.Metrics
}

type Option func(*Client)

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// errorResponse covers both {"detail": ...} and {"error": ...} bodies.
type errorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

type questionListResponse struct {
	QuizSetID          json.Number     `json:"quizset_id"`
	TotalQuestionCount int             `json:"total_question_count"`
	Questions          []quiz.Question `json:"questions"`
}

type submitAllRequest struct {
	Answers []quiz.AnswerEntry `json:"answers"`
}

func New(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListQuizSets(ctx context.Context) ([]quiz.QuizSet, error) {
	var sets []quiz.QuizSet
	if err := c.doJSON(ctx, http.MethodGet, "/quizsets/", "/quizsets/", nil, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

func (c *Client) GetQuizSet(ctx context.Context, id int64) (quiz.QuizSet, error) {
	var set quiz.QuizSet
	if err := c.doJSON(ctx, http.MethodGet, quizSetPath(id), "/quizsets/{id}/", nil, &set); err != nil {
		return quiz.QuizSet{}, err
	}
	return set, nil
}

func (c *Client) CreateQuizSet(ctx context.Context, input quiz.QuizSetInput) (quiz.QuizSet, error) {
	if err := input.Validate(); err != nil {
		return quiz.QuizSet{}, err
	}
	var set quiz.QuizSet
	if err := c.doJSON(ctx, http.MethodPost, "/quizsets/", "/quizsets/", input, &set); err != nil {
		return quiz.QuizSet{}, err
	}
	return set, nil
}

func (c *Client) UpdateQuizSet(ctx context.Context, id int64, input quiz.QuizSetInput) (quiz.QuizSet, error) {
	if err := input.Validate(); err != nil {
		return quiz.QuizSet{}, err
	}
	var set quiz.QuizSet
	if err := c.doJSON(ctx, http.MethodPut, quizSetPath(id), "/quizsets/{id}/", input, &set); err != nil {
		return quiz.QuizSet{}, err
	}
	return set, nil
}

func (c *Client) DeleteQuizSet(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, quizSetPath(id), "/quizsets/{id}/", nil, nil)
}

// ListQuestions fetches every question of a quiz set with its choices.
func (c *Client) ListQuestions(ctx context.Context, quizSetID int64) (quiz.QuestionList, error) {
	var payload questionListResponse
	path := quizSetPath(quizSetID) + "questions/"
	if err := c.doJSON(ctx, http.MethodGet, path, "/quizsets/{id}/questions/", nil, &payload); err != nil {
		return quiz.QuestionList{}, err
	}

	list := quiz.QuestionList{
		QuizSetID:          quizSetID,
		TotalQuestionCount: payload.TotalQuestionCount,
		Questions:          payload.Questions,
	}
	if payload.QuizSetID != "" {
		id, err := payload.QuizSetID.Int64()
		if err != nil {
			return quiz.QuestionList{}, fmt.Errorf("decode quizset_id %q: %w", payload.QuizSetID, err)
		}
		list.QuizSetID = id
	}
	if list.Questions == nil {
		list.Questions = []quiz.Question{}
	}
	return list, nil
}

// SubmitAll sends the full answer log for grading.
func (c *Client) SubmitAll(ctx context.Context, quizSetID int64, answers []quiz.AnswerEntry) (quiz.SubmissionResult, error) {
	var result quiz.SubmissionResult
	path := quizSetPath(quizSetID) + "submit_all/"
	request := submitAllRequest{Answers: answers}
	if request.Answers == nil {
		request.Answers = []quiz.AnswerEntry{}
	}
	if err := c.doJSON(ctx, http.MethodPost, path, "/quizsets/{id}/submit_all/", request, &result); err != nil {
		return quiz.SubmissionResult{}, err
	}
	return result, nil
}

func (c *Client) GetQuestion(ctx context.Context, id int64) (quiz.Question, error) {
	var question quiz.Question
	if err := c.doJSON(ctx, http.MethodGet, questionPath(id), "/questions/{id}/", nil, &question); err != nil {
		return quiz.Question{}, err
	}
	return question, nil
}

func (c *Client) CreateQuestion(ctx context.Context, input quiz.QuestionInput) (quiz.Question, error) {
	if err := input.Validate(); err != nil {
		return quiz.Question{}, err
	}
	var question quiz.Question
	if err := c.doJSON(ctx, http.MethodPost, "/questions/", "/questions/", input.Normalize(), &question); err != nil {
		return quiz.Question{}, err
	}
	return question, nil
}

func (c *Client) UpdateQuestion(ctx context.Context, id int64, input quiz.QuestionInput) (quiz.Question, error) {
	if err := input.Validate(); err != nil {
		return quiz.Question{}, err
	}
	var question quiz.Question
	if err := c.doJSON(ctx, http.MethodPut, questionPath(id), "/questions/{id}/", input.Normalize(), &question); err != nil {
		return quiz.Question{}, err
	}
	return question, nil
}

func (c *Client) DeleteQuestion(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, questionPath(id), "/questions/{id}/", nil, nil)
}

func quizSetPath(id int64) string {
	return "/quizsets/" + strconv.FormatInt(id, 10) + "/"
}

func questionPath(id int64) string {
	return "/questions/" + strconv.FormatInt(id, 10) + "/"
}

// doJSON performs one request. endpoint is the route template used for
// metric labels and logs.
func (c *Client) doJSON(ctx context.Context, method, path, endpoint string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.metrics.ObserveRequest(method, endpoint, 0, time.Since(start))
		c.log.Warn("quiz api unreachable",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()
	c.metrics.ObserveRequest(method, endpoint, response.StatusCode, time.Since(start))

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil {
			if msg := strings.TrimSpace(payload.Detail); msg != "" {
				apiErr.Message = msg
			} else if msg := strings.TrimSpace(payload.Error); msg != "" {
				apiErr.Message = msg
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		c.log.Warn("quiz api error",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", response.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return &apiErr
	}

	if responseBody == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(responseBody); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, endpoint, err)
	}
	return nil
}
