package relay

import (
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
)

// celFilter wraps a compiled CEL program evaluated per object during fan-out
// and replay. When disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("group", cel.UintType),
		cel.Variable("object", cel.UintType),
		cel.Variable("subgroup", cel.UintType),
		cel.Variable("publisher_priority", cel.IntType),
		cel.Variable("size", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against an object. Status markers
// always pass so windows clamp and groups close regardless of filters; the
// expression therefore only ever sees payload-bearing objects.
func (f celFilter) Eval(obj moq.Object) bool {
	if !f.enabled {
		return true
	}
	if obj.Status != moq.StatusNormal {
		return true
	}
	out, _, err := f.prog.Eval(map[string]any{
		"group":              obj.Location.Group,
		"object":             obj.Location.Object,
		"subgroup":           obj.Subgroup,
		"publisher_priority": int64(obj.PublisherPriority),
		"size":               int64(len(obj.Payload)),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
