// internal/services/ai_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/llm"
	"github.com/javajoker/kk-storefront/internal/models"
)

const (
	maxForwardedMessages  = 20
	catalogDescriptionLen = 60
	catalogProductLimit   = 50
)

var tracer = otel.Tracer("github.com/javajoker/kk-storefront/internal/services")

const chatPersona = `You are the shopping assistant of KK, a streetwear label.
Answer in the customer's language, keep replies short and friendly, and only
recommend items from the catalog below. If something is not in the catalog,
say so instead of inventing it.

Catalog:
%s`

const generatorPrompt = `You design products for KK, a streetwear label.
Reply with one JSON object and nothing else, using exactly these keys:
{"name": string, "category": string, "description": string, "story": string,
"price": number, "fit": string, "material": string, "sizes": [string], "stock": integer}`

type AIService struct {
	db     *gorm.DB
	client llm.Client
}

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=4000"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,max=30,dive"`
}

type GenerateProductRequest struct {
	Prompt   string `json:"prompt" validate:"required,max=2000"`
	Series   string `json:"series" validate:"omitempty,max=100"`
	Category string `json:"category" validate:"omitempty,max=100"`
}

type GeneratedProduct struct {
	Name        string   `json:"name"`
	Series      string   `json:"series,omitempty"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Story       string   `json:"story"`
	Price       float64  `json:"price"`
	Fit         string   `json:"fit"`
	Material    string   `json:"material"`
	Sizes       []string `json:"sizes"`
	Stock       int      `json:"stock"`
}

// NewAIService accepts a nil client; every call then fails with
// ErrAIUnavailable.
func NewAIService(db *gorm.DB, client llm.Client) *AIService {
	return &AIService{db: db, client: client}
}

func (s *AIService) Available() bool {
	return s != nil && s.client != nil
}

// Chat answers the conversation with the catalog as context. An empty
// string means the model returned no content.
func (s *AIService) Chat(ctx context.Context, req *ChatRequest) (string, error) {
	if s.client == nil {
		return "", ErrAIUnavailable
	}

	catalog, err := s.catalogSummary(ctx)
	if err != nil {
		return "", err
	}

	history := req.Messages
	if len(history) > maxForwardedMessages {
		history = history[len(history)-maxForwardedMessages:]
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: fmt.Sprintf(chatPersona, catalog)})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	ctx, span := tracer.Start(ctx, "ai.chat")
	defer span.End()
	span.SetAttributes(attribute.Int("chat.messages", len(messages)))

	reply, err := s.client.Complete(ctx, llm.Request{Messages: messages, Temperature: 0.7, MaxTokens: 600})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", nil
	}
	return reply, nil
}

// GenerateProduct asks the model for a product draft. Nothing is saved.
func (s *AIService) GenerateProduct(ctx context.Context, req *GenerateProductRequest) (*GeneratedProduct, error) {
	if s.client == nil {
		return nil, ErrAIUnavailable
	}

	var user strings.Builder
	user.WriteString(req.Prompt)
	if req.Series != "" {
		fmt.Fprintf(&user, "\nSeries: %s", req.Series)
	}
	if req.Category != "" {
		fmt.Fprintf(&user, "\nCategory: %s", req.Category)
	}

	ctx, span := tracer.Start(ctx, "ai.generate_product")
	defer span.End()

	raw, err := s.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: generatorPrompt},
			{Role: llm.RoleUser, Content: user.String()},
		},
		Temperature: 0.8,
		JSON:        true,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	product, err := ParseGeneratedProduct(raw)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if product.Series == "" {
		product.Series = req.Series
	}
	if product.Category == "" {
		product.Category = req.Category
	}
	return product, nil
}

// ParseGeneratedProduct decodes a model reply, tolerating a surrounding
// markdown code fence.
func ParseGeneratedProduct(raw string) (*GeneratedProduct, error) {
	body := stripCodeFence(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	var product GeneratedProduct
	if err := json.Unmarshal([]byte(body), &product); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if strings.TrimSpace(product.Name) == "" {
		return nil, fmt.Errorf("%w: missing name", ErrGenerationFailed)
	}
	if product.Price < 0 {
		product.Price = 0
	}
	if product.Stock < 0 {
		product.Stock = 0
	}
	if product.Sizes == nil {
		product.Sizes = []string{}
	}
	return &product, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop the info string, e.g. ```json
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func (s *AIService) catalogSummary(ctx context.Context) (string, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).
		Select("name", "category", "price", "description").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(catalogProductLimit).
		Find(&products).Error; err != nil {
		return "", fmt.Errorf("failed to load catalog: %w", err)
	}

	if len(products) == 0 {
		return "(no products listed)", nil
	}

	var b strings.Builder
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (%s) NT$%.0f: %s\n", p.Name, p.Category, p.Price, truncateRunes(p.Description, catalogDescriptionLen))
	}
	return b.String(), nil
}
