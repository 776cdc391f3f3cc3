package cyto_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/syssam/cyto"
	"github.com/syssam/cyto/field"
)

func loadFile(t *testing.T, name string, opts ...cyto.Option) *cyto.Elements {
	t.Helper()
	e, err := cyto.FromFile(filepath.Join("testdata", name), opts...)
	require.NoError(t, err)
	return e
}

func TestFromFile(t *testing.T) {
	t.Parallel()

	e := loadFile(t, "init.json")
	assert.Equal(t, []string{"node1", "node2", "node3", "edge1", "edge2", "edge3"}, ids(e))

	// The file decodes to the same collection the Add calls build.
	assert.Equal(t, newTestElements(t), e)
}

func TestFromFileErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		_, err := cyto.FromFile(filepath.Join("testdata", "no_such.json"))
		require.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := cyto.FromJSON("[{")
		require.Error(t, err)
	})

	t.Run("unknown top-level field", func(t *testing.T) {
		_, err := cyto.FromJSON(`[{"group": "nodes", "bogus": 1}]`)
		require.Error(t, err)
		require.True(t, cyto.IsSchemaError(err))
		var se *cyto.SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "bogus", se.Field)
	})

	t.Run("unknown data field", func(t *testing.T) {
		_, err := cyto.FromJSON(`[{"data": {"id": "n1", "weight": "w"}}]`)
		require.Error(t, err)
		var se *cyto.SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "weight", se.Field)
	})

	t.Run("wrong value type", func(t *testing.T) {
		_, err := cyto.FromJSON(`[{"data": {"id": "n1"}, "selected": "yes"}]`)
		require.Error(t, err)
		var se *cyto.SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "selected", se.Field)
	})

	t.Run("data not an object", func(t *testing.T) {
		_, err := cyto.FromJSON(`[{"data": "n1"}]`)
		require.True(t, cyto.IsSchemaError(err))
	})

	t.Run("position on wrong variant", func(t *testing.T) {
		_, err := cyto.FromJSON(`[{"data": {"source": "a", "target": "b"}, "position": {"x": 1}}]`)
		require.True(t, cyto.IsSchemaError(err))
	})

	t.Run("source alone does not make an edge", func(t *testing.T) {
		_, err := cyto.FromJSON(`[{"data": {"id": "e1", "source": "a"}}]`)
		require.Error(t, err)
		var se *cyto.SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "source", se.Field)
	})
}

func TestDecodeClassesTokenSet(t *testing.T) {
	t.Parallel()

	// Duplicate tokens in wire input collapse into the token set.
	e, err := cyto.FromJSON(`[{"data": {"id": "n1"}, "classes": "a a  b a"}]`)
	require.NoError(t, err)
	n := e.Get(cyto.Attrs{}.String("id", "n1"))
	require.NotNil(t, n)
	assert.Equal(t, "a b", n.Classes())
}

func TestToJSON(t *testing.T) {
	t.Parallel()

	t.Run("empty collection yields empty string", func(t *testing.T) {
		e, err := cyto.NewElements()
		require.NoError(t, err)
		text, err := e.ToJSON()
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("defaults are omitted", func(t *testing.T) {
		e, err := cyto.NewElements()
		require.NoError(t, err)
		e.Add(cyto.Attrs{}.String("id", "n1"))
		text, err := e.ToJSON()
		require.NoError(t, err)
		assert.JSONEq(t, `[{"group": "nodes", "data": {"id": "n1"}}]`, text)
	})

	t.Run("hyphenated aliases", func(t *testing.T) {
		e, err := cyto.NewElements()
		require.NoError(t, err)
		e.Add(cyto.Attrs{}.
			String("id", "e1").
			String("source", "a").
			String("target", "b").
			String("source_label", "SL"))
		text, err := e.ToJSON()
		require.NoError(t, err)
		assert.Contains(t, text, `"source-label": "SL"`)
		assert.NotContains(t, text, "source_label")
	})

	t.Run("round trip", func(t *testing.T) {
		e := loadFile(t, "conversion.json")
		text, err := e.ToJSON()
		require.NoError(t, err)
		back, err := cyto.FromJSON(text)
		require.NoError(t, err)
		assert.Equal(t, e, back)
	})
}

func TestToDash(t *testing.T) {
	t.Parallel()

	t.Run("empty collection yields empty array", func(t *testing.T) {
		e, err := cyto.NewElements()
		require.NoError(t, err)
		assert.Empty(t, e.ToDash())
		assert.NotNil(t, e.ToDash())
	})

	t.Run("shape", func(t *testing.T) {
		e, err := cyto.NewElements()
		require.NoError(t, err)
		e.Add(cyto.Attrs{}.String("id", "n1").String("classes", "test").String("label", "n1_label"))
		assert.Equal(t, []map[string]any{{
			"group":   "nodes",
			"data":    map[string]any{"id": "n1", "label": "n1_label"},
			"classes": "test",
		}}, e.ToDash())
	})

	t.Run("round trip", func(t *testing.T) {
		e := loadFile(t, "conversion.json")
		back, err := cyto.FromDash(e.ToDash())
		require.NoError(t, err)
		assert.Equal(t, e, back)
	})
}

func TestYAML(t *testing.T) {
	t.Parallel()

	t.Run("from file", func(t *testing.T) {
		e, err := cyto.FromYAMLFile(filepath.Join("testdata", "init.yaml"))
		require.NoError(t, err)
		assert.Equal(t, loadFile(t, "init.json"), e, "YAML and JSON files decode identically")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := cyto.FromYAMLFile(filepath.Join("testdata", "no_such.yaml"))
		require.Error(t, err)
	})

	t.Run("empty collection yields empty string", func(t *testing.T) {
		e, err := cyto.NewElements()
		require.NoError(t, err)
		text, err := e.ToYAML()
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("round trip", func(t *testing.T) {
		e := loadFile(t, "conversion.json")
		text, err := e.ToYAML()
		require.NoError(t, err)
		var entries []map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(text), &entries))
		back, err := cyto.FromDash(entries)
		require.NoError(t, err)
		assert.Equal(t, e, back)
	})
}

func TestBinarySnapshot(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		e := loadFile(t, "conversion.json")
		b, err := e.MarshalBinary()
		require.NoError(t, err)

		back, err := cyto.NewElements()
		require.NoError(t, err)
		require.NoError(t, back.UnmarshalBinary(b))
		assert.Equal(t, e, back)
	})

	t.Run("replaces existing elements", func(t *testing.T) {
		e := loadFile(t, "init.json")
		b, err := e.MarshalBinary()
		require.NoError(t, err)

		back, err := cyto.NewElements()
		require.NoError(t, err)
		back.Add(cyto.Attrs{}.String("id", "stale"))
		require.NoError(t, back.UnmarshalBinary(b))
		assert.Equal(t, e, back)
	})

	t.Run("garbage input", func(t *testing.T) {
		e, err := cyto.NewElements()
		require.NoError(t, err)
		assert.Error(t, e.UnmarshalBinary([]byte("not msgpack")))
	})
}

func customOpts() []cyto.Option {
	return []cyto.Option{
		cyto.WithNodeFields(field.String("custom_str"), field.Strings("custom_list"), field.Set("custom_set")),
		cyto.WithEdgeFields(field.String("custom_str"), field.Strings("custom_list"), field.Set("custom_set")),
	}
}

func TestExtensionFieldsWire(t *testing.T) {
	t.Parallel()

	t.Run("decode", func(t *testing.T) {
		e := loadFile(t, "custom_init.json", customOpts()...)
		require.Equal(t, 2, e.Len())
		n := e.Get(cyto.Attrs{}.String("id", "node1"))
		require.NotNil(t, n)
		assert.True(t, n.IsMatch(cyto.Attrs{}.String("custom_str", "s1")))
		assert.True(t, n.IsMatch(cyto.Attrs{}.List("custom_list", "list1")))
		assert.True(t, n.IsMatch(cyto.Attrs{}.Set("custom_set", "set1")))
	})

	t.Run("unregistered fields are schema errors", func(t *testing.T) {
		_, err := cyto.FromFile(filepath.Join("testdata", "custom_init.json"))
		require.Error(t, err)
		assert.True(t, cyto.IsSchemaError(err))
	})

	t.Run("json round trip", func(t *testing.T) {
		e := loadFile(t, "custom_init.json", customOpts()...)
		text, err := e.ToJSON()
		require.NoError(t, err)
		assert.Contains(t, text, `"custom_list"`)
		back, err := cyto.FromJSON(text, customOpts()...)
		require.NoError(t, err)
		assert.Equal(t, e, back)
	})

	t.Run("binary round trip keeps registration", func(t *testing.T) {
		e := loadFile(t, "custom_init.json", customOpts()...)
		b, err := e.MarshalBinary()
		require.NoError(t, err)
		back, err := cyto.NewElements(customOpts()...)
		require.NoError(t, err)
		require.NoError(t, back.UnmarshalBinary(b))
		assert.Equal(t, e, back)
	})

	t.Run("merge then encode", func(t *testing.T) {
		e := loadFile(t, "custom_init.json", customOpts()...)
		e.Add(cyto.Attrs{}.String("id", "node1").List("custom_list", "list2", "list3").Set("custom_set", "set2", "set3"))
		e.Add(cyto.Attrs{}.String("source", "node1").String("target", "node2").String("custom_list", "list2").String("custom_set", "set2"))

		dash := e.ToDash()
		require.Len(t, dash, 3)
		assert.Equal(t, []string{"list1", "list2", "list3"}, dash[0]["custom_list"])
		assert.Equal(t, []string{"set1", "set2", "set3"}, dash[0]["custom_set"])
		assert.Equal(t, []string{"list2"}, dash[2]["custom_list"])
	})
}

func TestWirePositionAndScratch(t *testing.T) {
	t.Parallel()

	e := loadFile(t, "conversion.json")
	n := e.Get(cyto.Attrs{}.String("id", "node1")).(*cyto.Node)
	assert.Equal(t, 1.5, n.Position.X)
	assert.Equal(t, -2.0, n.Position.Y)
	assert.Equal(t, map[string]any{"k1": "v1", "k2": 2.5}, n.Scratch)
	assert.False(t, n.Selectable)
	assert.True(t, n.Pannable)

	ed := e.Get(cyto.Attrs{}.String("source", "node1").String("target", "node2")).(*cyto.Edge)
	assert.Equal(t, "SL", ed.Data.SourceLabel)
	assert.Equal(t, "TL", ed.Data.TargetLabel)
	assert.False(t, ed.Pannable, "non-default pannable survives the wire")
}
