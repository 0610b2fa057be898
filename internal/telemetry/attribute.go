package telemetry

import (
	"reflect"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/exp/slog"
)

// Attr is a telemetry attribute.
type Attr struct {
	typ attrType
	key string
	str string
	num uint64
}

// String returns a string attribute.
func String[T ~string](k string, v T) Attr {
	return Attr{
		typ: attrTypeString,
		key: k,
		str: string(v),
	}
}

// Type returns a string attribute set to the name of T.
func Type[T any](k string, v T) Attr {
	t := reflect.TypeOf(v)
	if t == nil {
		t = reflect.TypeOf((*T)(nil)).Elem()
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return String(k, t.String())
}

// Bool returns a boolean attribute.
func Bool[T ~bool](k string, v T) Attr {
	var n uint64
	if v {
		n = 1
	}

	return Attr{
		typ: attrTypeBool,
		key: k,
		num: n,
	}
}

// Duration returns a string attributing containing v in human readable format.
func Duration(k string, v time.Duration) Attr {
	return String(k, v.String())
}

func (a Attr) asAttrKeyValue() (attribute.KeyValue, bool) {
	switch a.typ {
	case attrTypeNone:
		return attribute.KeyValue{}, false
	case attrTypeString:
		return attribute.String(a.key, a.str), true
	case attrTypeBool:
		return attribute.Bool(a.key, a.num != 0), true
	default:
		panic("unknown attribute type")
	}
}

func (a Attr) asSlogAttr() (slog.Attr, bool) {
	switch a.typ {
	case attrTypeNone:
		return slog.Attr{}, false
	case attrTypeString:
		return slog.String(a.key, a.str), true
	case attrTypeBool:
		return slog.Bool(a.key, a.num != 0), true
	default:
		panic("unknown attribute type")
	}
}

type attrType uint8

const (
	attrTypeNone attrType = iota
	attrTypeString
	attrTypeBool
)

func asAttrKeyValues(attrs []Attr) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attrs))

	for _, attr := range attrs {
		if attr, ok := attr.asAttrKeyValue(); ok {
			kvs = append(kvs, attr)
		}
	}

	return kvs
}

func asSlogAttrs(attrs []Attr) []slog.Attr {
	kvs := make([]slog.Attr, 0, len(attrs))

	for _, attr := range attrs {
		if attr, ok := attr.asSlogAttr(); ok {
			kvs = append(kvs, attr)
		}
	}

	return kvs
}
