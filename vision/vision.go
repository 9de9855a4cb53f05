package vision

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"go-wildwatch/types"
)

const classifierPrompt = `You are an ecological field assistant. Classify the
species in the photo into exactly one category: invasive-plant,
invasive-insect, invasive-animal, native-plant, native-insect, native-animal,
or unknown. Respond with JSON: {"label": "<category>", "confidence": <0-1>,
"summary": "<one sentence>"}.`

// Classify sends one observation photo to the vision model and returns its
// label, confidence, and summary. This is the only call into the external
// classifier; everything downstream treats the result as read-only input.
func Classify(ctx context.Context, client *openai.Client, imageURL, notes string) (types.ClassificationResult, error) {
	var result types.ClassificationResult

	userParts := []openai.ChatMessagePart{
		{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: imageURL},
		},
	}
	if notes != "" {
		userParts = append(userParts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: "Observer notes: " + notes,
		})
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: classifierPrompt,
			},
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: userParts,
			},
		},
		MaxTokens: 200,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return result, fmt.Errorf("vision classification failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return result, fmt.Errorf("vision classification returned no choices")
	}

	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
		return result, fmt.Errorf("parsing vision classification: %w", err)
	}
	return result, nil
}
