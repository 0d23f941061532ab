// Package agent runs a tool-calling loop against a chat-completion model.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/elee1766/bookdesk/src/aisdk"
	"github.com/google/uuid"
)

// DefaultMaxSteps bounds the number of model calls in one Run.
const DefaultMaxSteps = 8

// ErrMaxSteps is returned when the model keeps requesting tools past MaxSteps.
var ErrMaxSteps = errors.New("agent did not produce an answer within the step limit")

type Agent struct {
	Model       aisdk.ModelClient
	Toolbox     *DefaultToolbox
	Temperature *float64
	MaxSteps    int
	Logger      *slog.Logger
}

// Result is the outcome of a Run.
type Result struct {
	Answer    string
	Steps     int
	ToolCalls int
	Usage     aisdk.Usage
}

// SendMessage sends the conversation, plus message if given, and returns the model's reply.
func (a *Agent) SendMessage(ctx context.Context, conversation *aisdk.Conversation, message *aisdk.Message) (*aisdk.Message, *aisdk.Usage, error) {
	messages := conversation.Messages
	if message != nil {
		messages = append(messages, message)
	}
	var chatTools []*aisdk.ChatTool
	if a.Toolbox != nil {
		chatTools = ToChatTools(a.Toolbox.Tools())
	}

	ccr := &aisdk.ChatCompletionRequest{
		Messages:    messages,
		Tools:       chatTools,
		Temperature: a.Temperature,
	}
	response, err := a.Model.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return nil, nil, err
	}
	if len(response.Choices) == 0 {
		return nil, nil, fmt.Errorf("no choices in response")
	}

	return &response.Choices[0].Message, &response.Usage, nil
}

// Run sends the conversation to the model and executes every tool call it requests,
// appending the calls and their results to the conversation, until the model replies
// without tool calls. The conversation holds the full exchange afterwards.
func (a *Agent) Run(ctx context.Context, conversation *aisdk.Conversation) (*Result, error) {
	maxSteps := a.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	logger := a.logger()

	result := &Result{}
	for result.Steps < maxSteps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Steps++

		reply, usage, err := a.SendMessage(ctx, conversation, nil)
		if err != nil {
			return nil, fmt.Errorf("model call failed: %w", err)
		}
		addUsage(&result.Usage, usage)

		reply.Role = aisdk.RoleAssistant
		for i := range reply.ToolCalls {
			if reply.ToolCalls[i].ID == "" {
				reply.ToolCalls[i].ID = "call_" + uuid.NewString()
			}
			if reply.ToolCalls[i].Type == "" {
				reply.ToolCalls[i].Type = "function"
			}
		}
		conversation.Append(reply)

		if len(reply.ToolCalls) == 0 {
			result.Answer = reply.Content
			logger.Debug("agent answered", "steps", result.Steps, "tool_calls", result.ToolCalls)
			return result, nil
		}

		for i := range reply.ToolCalls {
			call := &reply.ToolCalls[i]
			resp := a.executeTool(ctx, call)
			result.ToolCalls++
			conversation.Append(&aisdk.Message{
				Role:       aisdk.RoleTool,
				Name:       call.Function.Name,
				ToolCallID: call.ID,
				Content:    string(resp.Content),
			})
		}
	}

	logger.Warn("agent hit step limit", "max_steps", maxSteps, "tool_calls", result.ToolCalls)
	return nil, ErrMaxSteps
}

func (a *Agent) executeTool(ctx context.Context, call *aisdk.ToolCall) *aisdk.ToolResponse {
	if a.Toolbox == nil || !a.Toolbox.HasTool(call.Function.Name) {
		return ErrorResult(fmt.Sprintf("unknown tool %q", call.Function.Name))
	}
	resp, err := a.Toolbox.ExecuteTool(ctx, call)
	if err != nil {
		return ErrorResult(err.Error())
	}
	if resp == nil {
		return ErrorResult(fmt.Sprintf("tool %s returned no result", call.Function.Name))
	}
	return resp
}

func (a *Agent) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

func addUsage(total *aisdk.Usage, u *aisdk.Usage) {
	if u == nil {
		return
	}
	total.PromptTokens += u.PromptTokens
	total.CompletionTokens += u.CompletionTokens
	total.TotalTokens += u.TotalTokens
}
