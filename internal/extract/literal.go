package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
)

// literalTimeout bounds lenient evaluation of scraped literals.
const literalTimeout = 250 * time.Millisecond

// ErrLiteral is returned when a scraped literal can be parsed neither as JSON
// nor as a plain JavaScript value.
var ErrLiteral = errors.New("unparseable literal")

// DecodeJSONString decodes JSON string escapes (&, \", \/ ...) in a raw
// string body captured between quotes. Invalid input is returned unchanged.
func DecodeJSONString(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}
	var out string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &out); err != nil {
		return raw
	}
	return out
}

// ParseLiteral decodes an array or object literal scraped from a page into v.
// Strict JSON is tried first; on failure the literal is evaluated as a
// JavaScript expression in an isolated goja runtime and re-encoded as JSON,
// which tolerates single quotes, trailing commas, unquoted keys and \x escapes.
func ParseLiteral(literal string, v any) error {
	literal = strings.TrimSpace(literal)
	if literal == "" {
		return fmt.Errorf("%w: empty", ErrLiteral)
	}
	if err := json.Unmarshal([]byte(literal), v); err == nil {
		return nil
	}

	normalized, err := evalLiteral(literal)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLiteral, err)
	}
	if err := json.Unmarshal([]byte(normalized), v); err != nil {
		return fmt.Errorf("%w: %v", ErrLiteral, err)
	}
	return nil
}

func evalLiteral(literal string) (string, error) {
	vm := goja.New()
	timer := time.AfterFunc(literalTimeout, func() {
		vm.Interrupt("literal evaluation timeout")
	})
	defer timer.Stop()

	val, err := vm.RunString("JSON.stringify((" + literal + "\n))")
	if err != nil {
		return "", err
	}
	if goja.IsUndefined(val) || goja.IsNull(val) {
		return "", errors.New("literal evaluated to nothing")
	}
	return val.String(), nil
}
