package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Quote is a motivational quote with a backing image
type Quote struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Theme  string `json:"theme"`
	Image  string `json:"image"`
}

var motivationalImages = []string{
	"https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=800&h=600&fit=crop&crop=entropy&auto=format&q=80",
	"https://images.unsplash.com/photo-1519904981063-b0cf448d479e?w=800&h=600&fit=crop&crop=entropy&auto=format&q=80",
	"https://images.unsplash.com/photo-1464822759844-d150baac0b37?w=800&h=600&fit=crop&crop=entropy&auto=format&q=80",
	"https://images.unsplash.com/photo-1470071459604-3b5ec3a7fe05?w=800&h=600&fit=crop&crop=entropy&auto=format&q=80",
	"https://images.unsplash.com/photo-1441974231531-c6227db76b6e?w=800&h=600&fit=crop&crop=entropy&auto=format&q=80",
	"https://images.unsplash.com/photo-1518837695005-2083093ee35b?w=800&h=600&fit=crop&crop=entropy&auto=format&q=80",
	"https://images.unsplash.com/photo-1447752875215-b2761acb3c5d?w=800&h=600&fit=crop&crop=entropy&auto=format&q=80",
}

var fallbackQuotes = []Quote{
	{Quote: "The only way to do great work is to love what you do.", Author: "Steve Jobs", Theme: "passion"},
	{Quote: "Success is not final, failure is not fatal: it is the courage to continue that counts.", Author: "Winston Churchill", Theme: "perseverance"},
	{Quote: "The future belongs to those who believe in the beauty of their dreams.", Author: "Eleanor Roosevelt", Theme: "dreams"},
	{Quote: "It is during our darkest moments that we must focus to see the light.", Author: "Aristotle", Theme: "hope"},
	{Quote: "Believe you can and you're halfway there.", Author: "Theodore Roosevelt", Theme: "confidence"},
}

// FallbackQuote returns a random quote from the fixed fallback list. Used when
// the upstream provider fails; callers never surface that failure.
func FallbackQuote() Quote {
	q := fallbackQuotes[rand.Intn(len(fallbackQuotes))]
	q.Image = motivationalImages[rand.Intn(len(motivationalImages))]
	return q
}

const quoteSystemPrompt = "You are a motivational quote generator. Generate inspiring, uplifting quotes that encourage perseverance, growth, and positivity. The quotes should be original and powerful. Respond with ONLY a JSON object containing 'quote', 'author' (can be 'Anonymous' or a real person), and 'theme' (one word describing the main theme like 'perseverance', 'growth', 'success', etc.)."

// MotivationalQuote generates a fresh quote; the model sometimes wraps its JSON
// in a markdown fence, which is stripped before parsing
func (c *Client) MotivationalQuote(ctx context.Context) (*Quote, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: quoteSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Generate a motivational quote about keeping going and never giving up."},
		},
		MaxTokens:   150,
		Temperature: 0.9,
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from provider")
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var quote Quote
	if err := json.Unmarshal([]byte(raw), &quote); err != nil {
		return nil, fmt.Errorf("invalid JSON response from provider: %w", err)
	}
	quote.Image = motivationalImages[rand.Intn(len(motivationalImages))]
	return &quote, nil
}
