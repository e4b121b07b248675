package script

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/achilleasa/passgraph/asset"
	"github.com/achilleasa/passgraph/graph"
	"github.com/achilleasa/passgraph/log"
	"gopkg.in/yaml.v3"
)

// Decode pass options. Booleans, integers and floats keep their YAML type;
// strings must be enum tags such as CullMode.CullBack.
func (o *OptionMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: pass options must be a mapping", node.Line)
	}

	opts := make(OptionMap, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		if valNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: option %q must be a scalar", valNode.Line, keyNode.Value)
		}

		var v graph.Value
		switch valNode.ShortTag() {
		case "!!bool":
			var b bool
			if err := valNode.Decode(&b); err != nil {
				return err
			}
			v = graph.BoolValue(b)
		case "!!int":
			var n int64
			if err := valNode.Decode(&n); err != nil {
				return err
			}
			v = graph.IntValue(n)
		case "!!float":
			var f float64
			if err := valNode.Decode(&f); err != nil {
				return err
			}
			v = graph.FloatValue(f)
		case "!!str":
			if !graph.IsEnumTag(valNode.Value) {
				return fmt.Errorf("line %d: option %q: %q is not an enum tag (expected Type.Member)", valNode.Line, keyNode.Value, valNode.Value)
			}
			v = graph.EnumValue(valNode.Value)
		default:
			return fmt.Errorf("line %d: option %q has unsupported type %s", valNode.Line, keyNode.Value, valNode.ShortTag())
		}

		if _, exists := opts[keyNode.Value]; exists {
			return fmt.Errorf("line %d: duplicate option %q", keyNode.Line, keyNode.Value)
		}
		opts[keyNode.Value] = v
	}

	*o = opts
	return nil
}

// Encode pass options with sorted keys and explicit scalar types.
func (o OptionMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range graph.Options(o).Keys() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			valueNode(o[key]),
		)
	}
	return node, nil
}

func valueNode(v graph.Value) *yaml.Node {
	node := &yaml.Node{Kind: yaml.ScalarNode}
	switch v.Kind() {
	case graph.KindBool:
		node.Tag = "!!bool"
		node.Value = fmt.Sprintf("%t", v.Bool())
	case graph.KindInt:
		node.Tag = "!!int"
		node.Value = v.String()
	case graph.KindFloat:
		node.Tag = "!!float"
		switch f := v.Float(); {
		case math.IsNaN(f):
			node.Value = ".nan"
		case math.IsInf(f, 1):
			node.Value = ".inf"
		case math.IsInf(f, -1):
			node.Value = "-.inf"
		default:
			node.Value = v.String()
		}
	default:
		node.Tag = "!!str"
		node.Value = v.String()
	}
	return node
}

type yamlScriptReader struct {
	logger log.Logger
}

func newYamlScriptReader() *yamlScriptReader {
	return &yamlScriptReader{
		logger: log.New("yaml script reader"),
	}
}

// Read a script from a YAML resource. Fields that are omitted keep the render
// host defaults; unknown fields are rejected.
func (r *yamlScriptReader) Read(res *asset.Resource) (*Script, error) {
	r.logger.Noticef(`parsing script from "%s"`, res.Path())
	start := time.Now()

	sc := Defaults()
	dec := yaml.NewDecoder(res)
	dec.KnownFields(true)
	if err := dec.Decode(sc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("[%s] error: %s", res.Path(), err.Error())
	}

	r.logger.Noticef("parsed script in %d ms", time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

type yamlScriptWriter struct{}

func (w *yamlScriptWriter) Write(sc *Script, out io.Writer) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := out.Write(buf.Bytes())
	return err
}
