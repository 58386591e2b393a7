package invoker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/wagiedev/notebooklm-sdk-go/internal/errors"
	"github.com/wagiedev/notebooklm-sdk-go/internal/session"
)

// validateArgs checks args against the input schema the server advertises
// for name. Operations missing from the catalog are left to the server.
func (i *Invoker) validateArgs(ctx context.Context, sess *session.Session, name string, args map[string]any) error {
	tools, err := sess.Tools(ctx)
	if err != nil {
		return i.callError(ctx, sess, name, err)
	}

	tool, ok := tools[name]
	if !ok || tool.InputSchema == nil {
		return nil
	}

	resolved, err := resolveSchema(tool.InputSchema)
	if err != nil {
		i.log.Warn("Skipping argument validation", "operation", name, "error", err)

		return nil
	}

	// Validate expects JSON values; round-trip so Go types such as int or
	// structs are seen as their JSON counterparts.
	instance, err := toJSONValue(args)
	if err != nil {
		return i.logged(&errors.Error{
			Kind:      errors.KindValidation,
			Operation: name,
			Message:   "invalid arguments: " + err.Error(),
			Err:       err,
		})
	}

	if err := resolved.Validate(instance); err != nil {
		return i.logged(&errors.Error{
			Kind:      errors.KindValidation,
			Operation: name,
			Message:   "invalid arguments: " + err.Error(),
			Err:       err,
		})
	}

	return nil
}

func resolveSchema(raw any) (*jsonschema.Resolved, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal input schema: %w", err)
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("decode input schema: %w", err)
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve input schema: %w", err)
	}

	return resolved, nil
}

func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	return out, nil
}
