// Package tfexample serializes tensorflow.Example messages with the standard
// protocol buffer wire encoding. Only the small slice of the schema this tool
// emits is modeled: an Example holds a Features map, and each Feature is
// exactly one of a bytes list, a float list or an int64 list.
//
// Field numbers follow tensorflow/core/example/feature.proto and example.proto.
package tfexample

import (
	"math"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	// Feature.kind oneof
	fieldBytesList = 1
	fieldFloatList = 2
	fieldInt64List = 3
	// BytesList/FloatList/Int64List repeated value
	fieldListValue = 1
	// Features map<string, Feature> feature
	fieldFeatureMap = 1
	fieldMapKey     = 1
	fieldMapValue   = 2
	// Example.features
	fieldFeatures = 1
)

type kind uint8

const (
	kindBytes kind = iota + 1
	kindFloats
	kindInts
)

// Feature is a tagged value holding exactly one of the three list kinds.
// A scalar is represented as a one-element list.
type Feature struct {
	kind   kind
	bytes  [][]byte
	floats []float32
	ints   []int64
}

// BytesList creates a bytes-list feature.
func BytesList(values [][]byte) Feature {
	return Feature{kind: kindBytes, bytes: values}
}

// FloatList creates a float-list feature.
func FloatList(values []float32) Feature {
	return Feature{kind: kindFloats, floats: values}
}

// Int64List creates an int64-list feature.
func Int64List(values []int64) Feature {
	return Feature{kind: kindInts, ints: values}
}

// Bytes creates a one-element bytes-list feature.
func Bytes(value []byte) Feature {
	return BytesList([][]byte{value})
}

// Str creates a one-element bytes-list feature from a string.
func Str(value string) Feature {
	return Bytes([]byte(value))
}

// Int64 creates a one-element int64-list feature.
func Int64(value int64) Feature {
	return Int64List([]int64{value})
}

// appendTo appends the Feature message (list submessage wrapped in its oneof
// field) to b.
func (f Feature) appendTo(b []byte) []byte {
	var inner []byte
	var field protowire.Number

	switch f.kind {
	case kindBytes:
		field = fieldBytesList
		for _, v := range f.bytes {
			inner = protowire.AppendTag(inner, fieldListValue, protowire.BytesType)
			inner = protowire.AppendBytes(inner, v)
		}
	case kindFloats:
		field = fieldFloatList
		if len(f.floats) > 0 {
			var packed []byte
			for _, v := range f.floats {
				packed = protowire.AppendFixed32(packed, math.Float32bits(v))
			}
			inner = protowire.AppendTag(inner, fieldListValue, protowire.BytesType)
			inner = protowire.AppendBytes(inner, packed)
		}
	case kindInts:
		field = fieldInt64List
		if len(f.ints) > 0 {
			var packed []byte
			for _, v := range f.ints {
				packed = protowire.AppendVarint(packed, uint64(v))
			}
			inner = protowire.AppendTag(inner, fieldListValue, protowire.BytesType)
			inner = protowire.AppendBytes(inner, packed)
		}
	default:
		// Zero Feature: encode as an empty bytes list.
		field = fieldBytesList
	}

	b = protowire.AppendTag(b, field, protowire.BytesType)
	return protowire.AppendBytes(b, inner)
}

// Example is the attribute table of one record, keyed by feature name.
type Example map[string]Feature

// Marshal serializes the example (Features map wrapped in the Example
// message). Map entries are written in sorted key order so that identical
// examples always produce identical bytes.
func (e Example) Marshal() []byte {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var features []byte
	for _, k := range keys {
		var entry []byte
		entry = protowire.AppendTag(entry, fieldMapKey, protowire.BytesType)
		entry = protowire.AppendString(entry, k)
		entry = protowire.AppendTag(entry, fieldMapValue, protowire.BytesType)
		entry = protowire.AppendBytes(entry, e[k].appendTo(nil))

		features = protowire.AppendTag(features, fieldFeatureMap, protowire.BytesType)
		features = protowire.AppendBytes(features, entry)
	}

	var out []byte
	out = protowire.AppendTag(out, fieldFeatures, protowire.BytesType)
	return protowire.AppendBytes(out, features)
}
