package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/logger"
)

// chatClient is the slice of the OpenAI client the analysis service
// uses. *openai.Client satisfies it.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// fallbackCategory receives records whose model-suggested category is
// not in the active category list.
const fallbackCategory = "Other"

// analysisService extracts structured expense and income data from free
// text via chat completions. Model output is never trusted as-is: every
// response is validated against the active category list and numeric
// constraints before it reaches the caller.
type analysisService struct {
	client     chatClient
	model      string
	categories ExpenseCategoryServicer
}

// NewAnalysisService creates a new AnalysisServicer using the given
// model name.
func NewAnalysisService(client chatClient, model string, categories ExpenseCategoryServicer) AnalysisServicer {
	return &analysisService{client: client, model: model, categories: categories}
}

// NewOpenAIClient builds the production chat client. baseURL overrides
// the API endpoint when non-empty, for proxies and compatible servers.
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// complete sends a system+user prompt pair and returns the raw response
// content. The request forces JSON output.
func (s *analysisService) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.WithMessage(apperrors.ErrUpstream, "model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// activeCategoryNames returns the allow-list used to constrain model
// output. An empty list disables the constraint rather than failing.
func (s *analysisService) activeCategoryNames() []string {
	categories, err := s.categories.ListActiveCategories()
	if err != nil {
		logger.With("analysis").Warnw("category list unavailable, skipping allow-list", "error", err)
		return nil
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

func normalizeCategory(category string, allowed []string) string {
	if len(allowed) == 0 {
		return category
	}
	for _, name := range allowed {
		if strings.EqualFold(name, category) {
			return name
		}
	}
	return fallbackCategory
}

// normalizeDate accepts the formats models commonly emit and falls back
// to today when nothing parses.
func normalizeDate(raw string) string {
	for _, layout := range []string{"2006-01-02", "02/01/2006", "01/02/2006", "02-01-2006", "Jan 2, 2006", "2 Jan 2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return time.Now().Format("2006-01-02")
}

// AnalyzeReceipt extracts merchant, amount, date and a category from
// receipt text.
func (s *analysisService) AnalyzeReceipt(ctx context.Context, text string) (*ReceiptAnalysis, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "receipt text is required")
	}

	allowed := s.activeCategoryNames()
	system := "You extract structured data from retail receipts. " +
		"Respond with a JSON object with keys: merchant (string), amount (number), " +
		"date (YYYY-MM-DD string), category (string), subcategory (string), payment_method (string)."
	if len(allowed) > 0 {
		system += " The category must be one of: " + strings.Join(allowed, ", ") + "."
	}

	content, err := s.complete(ctx, system, text)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Merchant      string  `json:"merchant"`
		Amount        float64 `json:"amount"`
		Date          string  `json:"date"`
		Category      string  `json:"category"`
		Subcategory   string  `json:"subcategory"`
		PaymentMethod string  `json:"payment_method"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrUpstream, "model returned malformed JSON")
	}
	if raw.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrUpstream, "model returned a non-positive amount")
	}

	return &ReceiptAnalysis{
		Merchant:      raw.Merchant,
		Amount:        decimal.NewFromFloat(raw.Amount).Round(2),
		Date:          normalizeDate(raw.Date),
		Category:      normalizeCategory(raw.Category, allowed),
		Subcategory:   raw.Subcategory,
		PaymentMethod: raw.PaymentMethod,
	}, nil
}

// SuggestCategory proposes a category for a free-text expense description.
func (s *analysisService) SuggestCategory(ctx context.Context, description string) (*CategorySuggestion, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}

	allowed := s.activeCategoryNames()
	system := "You categorize personal expenses. Respond with a JSON object with keys: " +
		"category (string), subcategory (string), confidence (number between 0 and 1)."
	if len(allowed) > 0 {
		system += " The category must be one of: " + strings.Join(allowed, ", ") + "."
	}

	content, err := s.complete(ctx, system, description)
	if err != nil {
		return nil, err
	}

	var suggestion CategorySuggestion
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrUpstream, "model returned malformed JSON")
	}

	suggestion.Category = normalizeCategory(suggestion.Category, allowed)
	if suggestion.Confidence < 0 {
		suggestion.Confidence = 0
	}
	if suggestion.Confidence > 1 {
		suggestion.Confidence = 1
	}
	return &suggestion, nil
}

// AnalyzeIncomeDocument extracts source, amount, date and recurrence
// from income document text such as a salary slip or invoice.
func (s *analysisService) AnalyzeIncomeDocument(ctx context.Context, text string) (*IncomeDocumentAnalysis, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "document text is required")
	}

	system := "You extract structured data from income documents such as salary slips and invoices. " +
		"Respond with a JSON object with keys: source (string), amount (number), " +
		"date (YYYY-MM-DD string), category (string), is_recurring (boolean)."

	content, err := s.complete(ctx, system, text)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Source      string  `json:"source"`
		Amount      float64 `json:"amount"`
		Date        string  `json:"date"`
		Category    string  `json:"category"`
		IsRecurring bool    `json:"is_recurring"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrUpstream, "model returned malformed JSON")
	}
	if raw.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrUpstream, "model returned a non-positive amount")
	}

	return &IncomeDocumentAnalysis{
		Source:      raw.Source,
		Amount:      decimal.NewFromFloat(raw.Amount).Round(2),
		Date:        normalizeDate(raw.Date),
		Category:    raw.Category,
		IsRecurring: raw.IsRecurring,
	}, nil
}
