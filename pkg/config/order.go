package config

import (
	"strings"

	"github.com/arthur-debert/homie/pkg/glob"
	"github.com/pelletier/go-toml/v2/unstable"
)

// strategyOrder returns the keys of the strategies table in the order they
// appear in the document. Both a [strategies] table and an inline
// strategies = { ... } value are understood; dotted keys under the table
// are joined back with ".".
func strategyOrder(data []byte) ([]string, error) {
	p := unstable.Parser{}
	p.Reset(data)

	var order []string
	inStrategies := false

	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			key := keyParts(expr.Key())
			inStrategies = expr.Kind == unstable.Table && len(key) == 1 && key[0] == "strategies"

		case unstable.KeyValue:
			key := keyParts(expr.Key())
			if inStrategies {
				order = append(order, strings.Join(key, "."))
				continue
			}
			// strategies = { "a" = "file", ... } at the top level
			if len(key) == 1 && key[0] == "strategies" {
				value := expr.Value()
				if value.Kind != unstable.InlineTable {
					continue
				}
				children := value.Children()
				for children.Next() {
					kv := children.Node()
					if kv.Kind != unstable.KeyValue {
						continue
					}
					order = append(order, strings.Join(keyParts(kv.Key()), "."))
				}
			}
			// strategies."x" = "file" at the top level
			if len(key) > 1 && key[0] == "strategies" {
				order = append(order, strings.Join(key[1:], "."))
			}
		}
	}
	if err := p.Error(); err != nil {
		return nil, err
	}
	return order, nil
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

func validatePattern(p string) error {
	_, err := glob.Compile(p)
	return err
}
