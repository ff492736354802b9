// Package model defines the value types the generator is built around:
// build conditions and the conditional source sets derived from them.
package model

import "sort"

// Wildcard is the attribute value standing for every supported value.
const Wildcard = "*"

// Attr identifies one axis of a build condition.
type Attr int

const (
	AttrArchitecture Attr = iota
	AttrTarget
	AttrPlatform
)

// AllAttrs lists the condition attributes in canonical order.
var AllAttrs = []Attr{AttrArchitecture, AttrTarget, AttrPlatform}

func (a Attr) String() string {
	switch a {
	case AttrArchitecture:
		return "architecture"
	case AttrTarget:
		return "target"
	case AttrPlatform:
		return "platform"
	}
	return "unknown"
}

// Condition names one build configuration by architecture, branding
// target, and platform. Any attribute may hold the Wildcard value, in
// which case the condition stands for every configuration the wildcard
// expands to. Conditions are comparable and usable as map keys.
type Condition struct {
	Architecture string
	Target       string
	Platform     string
}

// Cond is shorthand for constructing a Condition.
func Cond(arch, target, platform string) Condition {
	return Condition{Architecture: arch, Target: target, Platform: platform}
}

// Attr returns the value of the given attribute.
func (c Condition) Attr(a Attr) string {
	switch a {
	case AttrArchitecture:
		return c.Architecture
	case AttrTarget:
		return c.Target
	case AttrPlatform:
		return c.Platform
	}
	return ""
}

// WithAttr returns a copy of c with the given attribute set to value.
func (c Condition) WithAttr(a Attr, value string) Condition {
	switch a {
	case AttrArchitecture:
		c.Architecture = value
	case AttrTarget:
		c.Target = value
	case AttrPlatform:
		c.Platform = value
	}
	return c
}

// String renders the condition as "(architecture, target, platform)".
func (c Condition) String() string {
	return "(" + c.Architecture + ", " + c.Target + ", " + c.Platform + ")"
}

// Less orders conditions by architecture, then target, then platform.
func (c Condition) Less(o Condition) bool {
	if c.Architecture != o.Architecture {
		return c.Architecture < o.Architecture
	}
	if c.Target != o.Target {
		return c.Target < o.Target
	}
	return c.Platform < o.Platform
}

// SortConditions sorts conditions in place into canonical order.
func SortConditions(conds []Condition) {
	sort.Slice(conds, func(i, j int) bool { return conds[i].Less(conds[j]) })
}
