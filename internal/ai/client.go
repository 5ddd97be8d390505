package ai

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// visionPrompts are the per-language analysis instructions for the vision model
var visionPrompts = map[string]string{
	"english": "Analyze this image and provide an interesting fun fact about what you see. Keep it engaging and informative, around 2-3 sentences.",
	"spanish": "Analiza esta imagen y proporciona un dato curioso e interesante sobre lo que ves. Manténlo atractivo e informativo, alrededor de 2-3 oraciones.",
	"turkish": "Bu görüntüyü analiz et ve gördüğün şey hakkında ilginç ve eğlenceli bir gerçek sun. İlgi çekici ve bilgilendirici olsun, yaklaşık 2-3 cümle.",
	"russian": "Проанализируй это изображение и предоставь интересный факт о том, что ты видишь. Сделай это увлекательным и информативным, около 2-3 предложений.",
}

// transcriptionLanguages maps supported language names to ISO codes
var transcriptionLanguages = map[string]string{
	"english": "en",
	"spanish": "es",
	"french":  "fr",
	"turkish": "tr",
}

// TranscriptionLanguageCode resolves a language name to its ISO code
func TranscriptionLanguageCode(language string) (string, bool) {
	code, ok := transcriptionLanguages[language]
	return code, ok
}

// GeneratedImage is the result of a single image generation
type GeneratedImage struct {
	URL           string
	RevisedPrompt string
}

// Client wraps the OpenAI API for image generation, vision analysis, audio
// transcription and quote generation
type Client struct {
	api *openai.Client
}

// NewClient creates a new Client
func NewClient(apiKey string) *Client {
	return &Client{api: openai.NewClient(apiKey)}
}

// GenerateImage generates one image with DALL-E 3 (the model only supports n=1)
func (c *Client) GenerateImage(ctx context.Context, prompt, size, style, quality string) (*GeneratedImage, error) {
	resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
		Model:          openai.CreateImageModelDallE3,
		Prompt:         prompt,
		Size:           size,
		Style:          style,
		Quality:        quality,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return nil, fmt.Errorf("no image URL received from provider")
	}
	return &GeneratedImage{
		URL:           resp.Data[0].URL,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
	}, nil
}

// AnalyzeImage asks the vision model for a fun fact about the image, in the
// requested language (english when unknown)
func (c *Client) AnalyzeImage(ctx context.Context, imageURL, language string) (string, error) {
	prompt, ok := visionPrompts[language]
	if !ok {
		prompt = visionPrompts["english"]
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4o,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: imageURL,
							// Low detail keeps analysis fast and cheap.
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
		MaxTokens:   150,
		Temperature: 0.7,
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no analysis received from provider")
	}
	return resp.Choices[0].Message.Content, nil
}

// TranscribeAudio transcribes the audio stream with Whisper and returns the
// transcription text and the resolved language code
func (c *Client) TranscribeAudio(ctx context.Context, filename string, audio io.Reader, language string) (string, string, error) {
	code, ok := TranscriptionLanguageCode(language)
	if !ok {
		return "", "", fmt.Errorf("unsupported language %q", language)
	}

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   audio,
		FilePath: filename,
		Language: code,
		Format:   openai.AudioResponseFormatJSON,
		// Lower temperature for more accurate transcription.
		Temperature: 0.2,
	})
	if err != nil {
		return "", "", classify(err)
	}
	if resp.Text == "" {
		return "", "", fmt.Errorf("no transcription received from provider")
	}
	return resp.Text, code, nil
}
