// Package support describes the build configuration space the generator
// reasons about: which architectures, branding targets and platforms exist,
// and which combinations of them are actually built.
package support

import (
	"github.com/ffbuild/gngen/internal/model"
)

// The full range of every condition attribute. Order matters: expansion and
// the resulting output stanzas follow it.
var (
	Architectures = []string{"ia32", "x64", "arm", "arm64", "arm-neon", "mipsel", "mips64el"}
	Targets       = []string{"Chromium", "Chrome", "ChromiumOS", "ChromeOS"}
	Platforms     = []string{"android", "linux", "win", "mac"}
)

// Values returns the full range of an attribute.
func Values(attr model.Attr) []string {
	switch attr {
	case model.AttrArchitecture:
		return Architectures
	case model.AttrTarget:
		return Targets
	case model.AttrPlatform:
		return Platforms
	}
	return nil
}

// ValidValues returns the values an attribute may take within the given
// condition. A concrete attribute contributes just its own value, a wildcard
// the attribute's full range. Either way the platform then narrows the
// outcome: the OS brandings only build on linux, win builds only the Intel
// architectures and mac only x64. The result can be empty when a concrete
// value contradicts the platform, such as arm on mac.
func ValidValues(attr model.Attr, cond model.Condition) []string {
	var values []string
	if v := cond.Attr(attr); v != model.Wildcard {
		values = []string{v}
	} else {
		values = append(values, Values(attr)...)
	}

	switch attr {
	case model.AttrTarget:
		if cond.Platform != model.Wildcard && cond.Platform != "linux" {
			values = exclude(values, "ChromiumOS", "ChromeOS")
		}
	case model.AttrArchitecture:
		switch cond.Platform {
		case "win":
			values = retain(values, "ia32", "x64")
		case "mac":
			values = retain(values, "x64")
		}
	}
	return values
}

// Expand enumerates every concrete condition the given condition stands for,
// as the product of the valid values of its attributes.
func Expand(cond model.Condition) []model.Condition {
	var out []model.Condition
	for _, arch := range ValidValues(model.AttrArchitecture, cond) {
		for _, target := range ValidValues(model.AttrTarget, cond) {
			for _, platform := range ValidValues(model.AttrPlatform, cond) {
				out = append(out, model.Cond(arch, target, platform))
			}
		}
	}
	return out
}

func exclude(values []string, drop ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		keep := true
		for _, d := range drop {
			if v == d {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, v)
		}
	}
	return out
}

func retain(values []string, allowed ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		for _, a := range allowed {
			if v == a {
				out = append(out, v)
				break
			}
		}
	}
	return out
}
