package codec_test

import (
	"testing"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/codec"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/model"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_DecodePredicates(t *testing.T) {
	c := codec.New(testutils.TestLogger(t))

	t.Run("canonical bracketed form", func(t *testing.T) {
		specs := c.DecodePredicates("Path[pattern=/api/**],Method[methods=GET]")

		require.Len(t, specs, 2)
		assert.Equal(t, "Path", specs[0].Name)
		assert.Equal(t, []model.Arg{{Key: "pattern", Value: "/api/**"}}, specs[0].Args)
		assert.Equal(t, "Method", specs[1].Name)
		assert.Equal(t, []model.Arg{{Key: "methods", Value: "GET"}}, specs[1].Args)
	})

	t.Run("legacy Path= form", func(t *testing.T) {
		specs := c.DecodePredicates("Path=/api/v1/countries/**")

		require.Len(t, specs, 1)
		assert.Equal(t, "Path", specs[0].Name)
		assert.Equal(t, "/api/v1/countries/**", specs[0].Arg("pattern"))
	})

	t.Run("legacy Method= form", func(t *testing.T) {
		specs := c.DecodePredicates("Method=POST")

		require.Len(t, specs, 1)
		assert.Equal(t, "Method", specs[0].Name)
		assert.Equal(t, "POST", specs[0].Arg("methods"))
	})

	t.Run("unrecognized segment falls back to path pattern", func(t *testing.T) {
		specs := c.DecodePredicates("/bare/path/**")

		require.Len(t, specs, 1)
		assert.Equal(t, "Path", specs[0].Name)
		assert.Equal(t, "/bare/path/**", specs[0].Arg("pattern"))
	})

	t.Run("empty and whitespace input", func(t *testing.T) {
		assert.Empty(t, c.DecodePredicates(""))
		assert.Empty(t, c.DecodePredicates("   "))
	})

	t.Run("empty segments are dropped", func(t *testing.T) {
		specs := c.DecodePredicates(",Path=/a/**,,")
		require.Len(t, specs, 1)
	})
}

func TestCodec_EncodePredicates(t *testing.T) {
	c := codec.New(testutils.TestLogger(t))

	t.Run("canonical form with ordered args", func(t *testing.T) {
		specs := []model.PredicateSpec{
			{Name: "Path", Args: []model.Arg{{Key: "pattern", Value: "/api/**"}}},
			{Name: "Header", Args: []model.Arg{
				{Key: "header", Value: "X-Tenant"},
				{Key: "regexp", Value: "acme"},
			}},
		}

		encoded := c.EncodePredicates(specs)

		assert.Equal(t, "Path[pattern=/api/**],Header[header=X-Tenant;regexp=acme]", encoded)
	})

	t.Run("no args encodes empty brackets", func(t *testing.T) {
		encoded := c.EncodePredicates([]model.PredicateSpec{{Name: "After"}})
		assert.Equal(t, "After[]", encoded)
	})

	t.Run("round trip preserves structure", func(t *testing.T) {
		original := "Path[pattern=/api/**],Method[methods=GET]"
		specs := c.DecodePredicates(original)
		assert.Equal(t, original, c.EncodePredicates(specs))
	})
}

func TestCodec_DecodeFilters(t *testing.T) {
	c := codec.New(testutils.TestLogger(t))

	t.Run("canonical bracketed form", func(t *testing.T) {
		specs := c.DecodeFilters("StripPrefix[parts=2]")

		require.Len(t, specs, 1)
		assert.Equal(t, "StripPrefix", specs[0].Name)
		assert.Equal(t, "2", specs[0].Arg("parts"))
	})

	t.Run("legacy StripPrefix= form", func(t *testing.T) {
		specs := c.DecodeFilters("StripPrefix=1")

		require.Len(t, specs, 1)
		assert.Equal(t, "StripPrefix", specs[0].Name)
		assert.Equal(t, "1", specs[0].Arg("parts"))
	})

	t.Run("RewritePath consumes following segment as replacement", func(t *testing.T) {
		specs := c.DecodeFilters("RewritePath=/swagger-ui(?<segment>.*),/swagger-aggregator")

		require.Len(t, specs, 1)
		assert.Equal(t, "RewritePath", specs[0].Name)
		assert.Equal(t, "/swagger-ui(?<segment>.*)", specs[0].Arg("regexp"))
		assert.Equal(t, "/swagger-aggregator", specs[0].Arg("replacement"))
	})

	t.Run("RewritePath without replacement degrades to pass-through", func(t *testing.T) {
		specs := c.DecodeFilters("RewritePath=/only-regex")

		require.Len(t, specs, 1)
		assert.Equal(t, "StripPrefix", specs[0].Name)
		assert.Equal(t, "0", specs[0].Arg("parts"))
	})

	t.Run("RewritePath followed by another filter degrades", func(t *testing.T) {
		specs := c.DecodeFilters("RewritePath=/only-regex,StripPrefix=1")

		require.Len(t, specs, 2)
		assert.Equal(t, "StripPrefix", specs[0].Name)
		assert.Equal(t, "0", specs[0].Arg("parts"))
		assert.Equal(t, "StripPrefix", specs[1].Name)
		assert.Equal(t, "1", specs[1].Arg("parts"))
	})

	t.Run("bare aggregator path decodes as SetPath", func(t *testing.T) {
		specs := c.DecodeFilters("/swagger-aggregator")

		require.Len(t, specs, 1)
		assert.Equal(t, "SetPath", specs[0].Name)
		assert.Equal(t, "/swagger-aggregator", specs[0].Arg("template"))
	})

	t.Run("generic Name=Value form", func(t *testing.T) {
		specs := c.DecodeFilters("AddRequestHeader=X-Origin")

		require.Len(t, specs, 1)
		assert.Equal(t, "AddRequestHeader", specs[0].Name)
		assert.Equal(t, "X-Origin", specs[0].Arg("_value"))
	})

	t.Run("bare name decodes without args", func(t *testing.T) {
		specs := c.DecodeFilters("RemoveRequestHeader")

		require.Len(t, specs, 1)
		assert.Equal(t, "RemoveRequestHeader", specs[0].Name)
		assert.Empty(t, specs[0].Args)
	})

	t.Run("empty input decodes empty", func(t *testing.T) {
		assert.Empty(t, c.DecodeFilters(""))
	})
}

func TestCodec_EncodeFilters(t *testing.T) {
	c := codec.New(testutils.TestLogger(t))

	t.Run("filter with args joins values and drops arg names", func(t *testing.T) {
		specs := []model.FilterSpec{
			{Name: "StripPrefix", Args: []model.Arg{{Key: "parts", Value: "2"}}},
			{Name: "RewritePath", Args: []model.Arg{
				{Key: "regexp", Value: "/old/(?<rest>.*)"},
				{Key: "replacement", Value: "/new/${rest}"},
			}},
		}

		encoded := c.EncodeFilters(specs)

		assert.Equal(t, "StripPrefix=2,RewritePath=/old/(?<rest>.*),/new/${rest}", encoded)
	})

	t.Run("filter without args encodes bare name", func(t *testing.T) {
		encoded := c.EncodeFilters([]model.FilterSpec{{Name: "RemoveRequestHeader"}})
		assert.Equal(t, "RemoveRequestHeader", encoded)
	})

	t.Run("legacy round trip", func(t *testing.T) {
		original := "StripPrefix=2"
		specs := c.DecodeFilters(original)
		assert.Equal(t, original, c.EncodeFilters(specs))
	})
}
