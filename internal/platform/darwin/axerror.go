//go:build darwin

package darwin

import (
	"encoding/json"
	"fmt"
)

// AXError is a non-success AXError code returned by the accessibility API.
type AXError int

const (
	axErrFailure                  AXError = -25200
	axErrIllegalArgument          AXError = -25201
	axErrInvalidUIElement         AXError = -25202
	axErrCannotComplete           AXError = -25204
	axErrAttributeUnsupported     AXError = -25205
	axErrNotImplemented           AXError = -25208
	axErrAPIDisabled              AXError = -25211
	axErrNoValue                  AXError = -25212
	axErrParameterizedUnsupported AXError = -25213
)

var axErrorNames = map[AXError]string{
	axErrFailure:                  "failure",
	axErrIllegalArgument:          "illegal argument",
	axErrInvalidUIElement:         "invalid UI element",
	axErrCannotComplete:           "cannot complete",
	axErrAttributeUnsupported:     "attribute unsupported",
	axErrNotImplemented:           "not implemented",
	axErrAPIDisabled:              "accessibility API disabled",
	axErrNoValue:                  "no value",
	axErrParameterizedUnsupported: "parameterized attribute unsupported",
}

func (e AXError) Error() string {
	if name, ok := axErrorNames[e]; ok {
		return fmt.Sprintf("ax: %s (%d)", name, int(e))
	}
	return fmt.Sprintf("ax: error %d", int(e))
}

// opaqueValue carries the CoreFoundation description of a value with no Go
// counterpart. It prints and encodes as that description.
type opaqueValue string

func (v opaqueValue) String() string { return string(v) }

func (v opaqueValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v))
}
