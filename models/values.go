// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package models

import (
	"github.com/savekit/arksave/internal/nametable"
	"github.com/savekit/arksave/internal/props"
)

// objectLike is satisfied by *container.GameObject_t; kept as a local
// interface so the floatProp/intProp/stringProp helpers don't need to
// import container just to accept its pointer type.
type objectLike interface {
	Prop(name string) *props.Property_t
}

// numericValueOf widens any scalar numeric property value to float64. Non-
// numeric or nil values yield 0, matching the "missing properties are
// defaults" error-handling rule — model extraction never fails on a
// missing or mistyped stat.
func numericValueOf(v props.Value) float64 {
	switch t := v.(type) {
	case props.IntValue:
		return float64(t)
	case props.UInt32Value:
		return float64(t)
	case props.UInt64Value:
		return float64(t)
	case props.Int64Value:
		return float64(t)
	case props.FloatValue:
		return float64(t)
	case props.DoubleValue:
		return float64(t)
	case props.ByteValue:
		return float64(t.Raw)
	case props.BoolValue:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// intValueOf widens any scalar integer-like property value to int64.
func intValueOf(v props.Value) int64 {
	switch t := v.(type) {
	case props.IntValue:
		return int64(t)
	case props.UInt32Value:
		return int64(t)
	case props.UInt64Value:
		return int64(t)
	case props.Int64Value:
		return int64(t)
	default:
		return 0
	}
}

func stringValueOf(v props.Value) string {
	switch t := v.(type) {
	case props.StrValue:
		return string(t)
	case props.NameValue:
		return nametable.Ref(t).String()
	default:
		return ""
	}
}

func floatProp(o objectLike, name string) float64 {
	if o == nil {
		return 0
	}
	p := o.Prop(name)
	if p == nil {
		return 0
	}
	return numericValueOf(p.Value)
}

func intProp(o objectLike, name string) int64 {
	if o == nil {
		return 0
	}
	p := o.Prop(name)
	if p == nil {
		return 0
	}
	return intValueOf(p.Value)
}

func stringProp(o objectLike, name string) string {
	if o == nil {
		return ""
	}
	p := o.Prop(name)
	if p == nil {
		return ""
	}
	return stringValueOf(p.Value)
}

// arrayLen returns the element count of p's value when it is an
// ArrayProperty or SetProperty, else 0.
func arrayLen(p *props.Property_t) int {
	switch v := p.Value.(type) {
	case props.ArrayValue:
		return len(v.Items)
	case props.SetValue:
		return len(v.Items)
	default:
		return 0
	}
}

func boolProp(o objectLike, name string) bool {
	if o == nil {
		return false
	}
	p := o.Prop(name)
	if p == nil {
		return false
	}
	b, ok := p.Value.(props.BoolValue)
	return ok && bool(b)
}
