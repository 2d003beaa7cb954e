// Package tokens estimates token counts for generated documents.
package tokens

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// NewCounter returns a Counter for the requested model. Models without a
// known tiktoken encoding fall back to cl100k_base.
func NewCounter(model string) (Counter, error) {
	model = strings.ToLower(strings.TrimSpace(model))
	if model == "" {
		model = defaultModel
	}

	encoding, err := tiktoken.EncodingForModel(model)
	if err == nil && encoding != nil {
		return openAICounter{encoding: encoding, name: model}, nil
	}

	fallback, fallbackErr := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackErr != nil {
		return nil, fmt.Errorf("initialize fallback tokenizer: %w", fallbackErr)
	}
	return openAICounter{encoding: fallback, name: defaultEncodingName}, nil
}

type openAICounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter openAICounter) Name() string {
	return counter.name
}

func (counter openAICounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("nil tiktoken encoder")
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(tokenIDs), nil
}
