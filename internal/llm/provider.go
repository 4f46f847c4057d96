// Package llm adapts third-party chat-completion APIs to one small interface.
package llm

import (
	"context"
	"io"
)

// Provider sends one chat exchange to a language model.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Close releases the client behind p when it holds one.
func Close(p Provider) error {
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Request describes what to send to the model.
type Request struct {
	// System is the system instruction for the exchange.
	System string

	// Messages is the conversation. Chat turns send exactly one user message.
	Messages []Message

	// JSON asks the provider for a JSON object reply when it supports it.
	JSON bool

	// MaxTokens caps the reply length. Zero leaves the provider default.
	MaxTokens int

	// Temperature controls randomness. Zero leaves the provider default.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserRequest builds the common two-message exchange: a system instruction
// and a single user message.
func UserRequest(system, user string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: user}},
	}
}

type Response struct {
	Text  string
	Model string
	Usage Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}
