package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/elee1766/bookdesk/src/aisdk"
	"github.com/go-playground/validator/v10"
	"github.com/swaggest/jsonschema-go"
)

// GenericTool is a type-safe tool. Arguments are decoded into TInput, checked against
// its `validate` tags, and passed to Handler; the output is returned as JSON.
type GenericTool[TInput any, TOutput any] struct {
	Type        string
	Name        string
	Description string
	Schema      *jsonschema.Schema
	Handler     GenericToolHandler[TInput, TOutput]

	validate *validator.Validate
}

// GenericToolHandler is a type-safe handler function
type GenericToolHandler[TInput any, TOutput any] func(ctx context.Context, input TInput) (TOutput, error)

func (gt *GenericTool[TInput, TOutput]) GetType() string {
	return gt.Type
}

func (gt *GenericTool[TInput, TOutput]) GetName() string {
	return gt.Name
}

func (gt *GenericTool[TInput, TOutput]) GetDescription() string {
	return gt.Description
}

func (gt *GenericTool[TInput, TOutput]) GetParameters() *jsonschema.Schema {
	return gt.Schema
}

// Execute decodes, validates and runs the call. Every failure becomes an error result
// of the form {"error": "..."} so the model can react to it.
func (gt *GenericTool[TInput, TOutput]) Execute(ctx context.Context, call *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
	args := call.Function.Arguments
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}

	var input TInput
	if err := json.Unmarshal(args, &input); err != nil {
		return ErrorResult(fmt.Sprintf("invalid arguments for %s: %v", gt.Name, err)), nil
	}

	if isStruct(reflect.TypeOf(input)) {
		if err := gt.validate.Struct(input); err != nil {
			return ErrorResult(ValidationMessage(err)), nil
		}
	}

	output, err := gt.Handler(ctx, input)
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	content, err := json.Marshal(output)
	if err != nil {
		return ErrorResult(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return &aisdk.ToolResponse{
		Type:    "success",
		Content: content,
	}, nil
}

// ErrorResult builds an error response whose content is {"error": msg}.
func ErrorResult(msg string) *aisdk.ToolResponse {
	content, _ := json.Marshal(map[string]string{"error": msg})
	return &aisdk.ToolResponse{
		Type:    "error",
		Content: content,
		IsError: true,
	}
}

// NewGenericTool creates a new generic tool with automatic schema generation.
// TInput must be a struct; its JSON schema is inlined into a single object schema.
func NewGenericTool[TInput any, TOutput any](name, description string, handler GenericToolHandler[TInput, TOutput]) (*GenericTool[TInput, TOutput], error) {
	var input TInput
	if !isStruct(reflect.TypeOf(input)) {
		return nil, fmt.Errorf("tool input type must be a struct, got %T", input)
	}

	reflector := jsonschema.Reflector{}
	schema, err := reflector.Reflect(input, jsonschema.InlineRefs)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}

	return &GenericTool[TInput, TOutput]{
		Type:        "function",
		Name:        name,
		Description: description,
		Schema:      &schema,
		Handler:     handler,
		validate:    NewValidator(),
	}, nil
}

// MustNewGenericTool creates a new generic tool and panics on error
func MustNewGenericTool[TInput any, TOutput any](name, description string, handler GenericToolHandler[TInput, TOutput]) *GenericTool[TInput, TOutput] {
	tool, err := NewGenericTool(name, description, handler)
	if err != nil {
		panic(fmt.Sprintf("failed to create generic tool: %v", err))
	}
	return tool
}

var _ Tool = (*GenericTool[struct{}, any])(nil)

func isStruct(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidationMessage renders validator errors as a short sentence using JSON field names.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "min":
		if k := fe.Kind(); k == reflect.Slice || k == reflect.Map || k == reflect.Array {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "ne":
		return fmt.Sprintf("%s must not be %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
