// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package render writes parsed trees out as text.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/shopspring/decimal"
	"github.com/tidwall/pretty"

	"gopkg.microglot.org/combinator.go/internal/exc"
	"gopkg.microglot.org/combinator.go/internal/idl"
)

type Format string

var (
	minInt = decimal.NewFromInt(math.MinInt64)
	maxInt = decimal.NewFromInt(math.MaxInt64)
)

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Extension returns the file extension used for output in this format.
func (f Format) Extension() string {
	return "." + string(f)
}

func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", exc.New(exc.Location{}, exc.CodeUnsupportedOutputFormat, fmt.Sprintf("unsupported output format %q", name))
	}
}

type Options struct {
	Format Format
	// Color adds terminal colour codes. Only JSON output is coloured.
	Color bool
}

// Render writes node in the requested format. Object members keep their
// source order.
func Render(node idl.Node, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatJSON, "":
		return JSON(node, opts.Color)
	case FormatYAML:
		return YAML(node)
	default:
		return nil, exc.New(exc.Location{}, exc.CodeUnsupportedOutputFormat, fmt.Sprintf("unsupported output format %q", opts.Format))
	}
}

// JSON renders node as indented JSON.
func JSON(node idl.Node, color bool) ([]byte, error) {
	var b bytes.Buffer
	if err := writeJSON(&b, node); err != nil {
		return nil, err
	}
	out := pretty.Pretty(b.Bytes())
	if color {
		out = pretty.Color(out, pretty.TerminalStyle)
	}
	return out, nil
}

func writeJSON(b *bytes.Buffer, node idl.Node) error {
	switch n := node.(type) {
	case idl.Null:
		b.WriteString("null")
	case idl.Bool:
		if n {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case idl.Number:
		if !n.InRange() {
			return outOfRange(n)
		}
		b.WriteString(n.Value.String())
	case idl.String:
		return writeJSONString(b, string(n))
	case idl.List:
		b.WriteByte('[')
		for x, item := range n {
			if x > 0 {
				b.WriteByte(',')
			}
			if err := writeJSON(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case idl.Object:
		b.WriteByte('{')
		for x, member := range n {
			if x > 0 {
				b.WriteByte(',')
			}
			if err := writeJSONString(b, member.Key); err != nil {
				return err
			}
			b.WriteByte(':')
			if err := writeJSON(b, member.Value); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	default:
		return exc.New(exc.Location{}, exc.CodeWrongVariant, fmt.Sprintf("cannot render %T", node))
	}
	return nil
}

func outOfRange(n idl.Number) error {
	return exc.New(exc.Location{}, exc.CodeInvalidNumber, fmt.Sprintf("number exponent %d is beyond %d", n.Value.Exponent(), idl.MaxExponent))
}

func writeJSONString(b *bytes.Buffer, s string) error {
	quoted, err := json.Marshal(s)
	if err != nil {
		return exc.WrapUnknown(exc.Location{}, err)
	}
	b.Write(quoted)
	return nil
}

// YAML renders node as a YAML document.
func YAML(node idl.Node) ([]byte, error) {
	v, err := yamlValue(node)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, exc.WrapUnknown(exc.Location{}, err)
	}
	return out, nil
}

func yamlValue(node idl.Node) (any, error) {
	switch n := node.(type) {
	case idl.Null:
		return nil, nil
	case idl.Bool:
		return bool(n), nil
	case idl.Number:
		if !n.InRange() {
			return nil, outOfRange(n)
		}
		if n.Value.IsInteger() && n.Value.GreaterThanOrEqual(minInt) && n.Value.LessThanOrEqual(maxInt) {
			return n.Value.IntPart(), nil
		}
		f, _ := n.Value.Float64()
		return f, nil
	case idl.String:
		return string(n), nil
	case idl.List:
		out := make([]any, 0, len(n))
		for _, item := range n {
			v, err := yamlValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case idl.Object:
		out := make(yaml.MapSlice, 0, len(n))
		for _, member := range n {
			v, err := yamlValue(member.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, yaml.MapItem{Key: member.Key, Value: v})
		}
		return out, nil
	default:
		return nil, exc.New(exc.Location{}, exc.CodeWrongVariant, fmt.Sprintf("cannot render %T", node))
	}
}
