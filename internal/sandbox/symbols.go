package sandbox

import (
	"reflect"

	"github.com/traefik/yaegi/interp"

	"dosedoc/internal/script"
)

// Symbols exposes the script context package to interpreted fragments.
// This is the whole host surface a script can reach.
var Symbols = interp.Exports{
	"dosedoc/internal/script/script": {
		"Context":      reflect.ValueOf((*script.Context)(nil)),
		"Element":      reflect.ValueOf((*script.Element)(nil)),
		"Runtime":      reflect.ValueOf((*script.Runtime)(nil)),
		"NewContext":   reflect.ValueOf(script.NewContext),
		"NewMock":      reflect.ValueOf(script.NewMock),
		"FormatNumber": reflect.ValueOf(script.FormatNumber),
	},
}
