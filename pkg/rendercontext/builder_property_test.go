// pkg/rendercontext/builder_property_test.go
// TEST TYPE: Property Tests
// DEPENDENCIES: gopter
// PURPOSE: Variables survive composition unchanged and isolated

package rendercontext_test

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/solitary-project/forge/pkg/rendercontext"
)

func TestBuild_VariablesRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("variables are exposed verbatim and never aliased", prop.ForAll(
		func(vars map[string]string) bool {
			in := make(map[string]interface{}, len(vars))
			for k, v := range vars {
				in[k] = v
			}
			rctx, err := rendercontext.Build(rendercontext.Input{Variables: in})
			if err != nil {
				return false
			}

			got := rctx.Data()["variables"].(map[string]interface{})
			if !reflect.DeepEqual(got, in) {
				return false
			}
			for k := range got {
				got[k] = "changed"
			}
			in["__extra"] = "x"
			return reflect.DeepEqual(rctx.Data()["variables"], mapOf(vars))
		},
		gen.MapOf(gen.Identifier(), gen.AlphaString()),
	))

	properties.TestingRun(t)
}

func mapOf(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
