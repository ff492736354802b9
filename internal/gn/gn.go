// Package gn renders disjoint source sets as a GN include file, one stanza
// per set guarded by the GN translation of the set's conditions.
package gn

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ffbuild/gngen/internal/model"
)

const copyrightTmpl = `# Copyright %d The Chromium Authors. All rights reserved.
# Use of this source code is governed by a BSD-style license that can be
# found in the LICENSE file.

# NOTE: this file is autogenerated by gngen. Do not edit it by hand.

`

const header = `import("//build/config/arm.gni")
import("ffmpeg_options.gni")

# Declare empty versions of each variable for easier +=ing later.
ffmpeg_c_sources = []
ffmpeg_gas_sources = []
ffmpeg_yasm_sources = []

`

// Write emits the whole include file. Stanzas appear in reverse set order,
// which puts the intersection sets produced late in the decomposition ahead
// of the per configuration leftovers.
func Write(w io.Writer, sets []*model.SourceSet) error {
	var b strings.Builder
	fmt.Fprintf(&b, copyrightTmpl, time.Now().Year())
	b.WriteString(header)
	for i := len(sets) - 1; i >= 0; i-- {
		b.WriteString(Stanza(sets[i]))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFile writes the include file at path.
func WriteFile(path string, sets []*model.SourceSet) error {
	var b strings.Builder
	if err := Write(&b, sets); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// Stanza renders one source set. Sources are grouped into the C, gas and
// yasm lists by extension. A set whose only condition is fully wildcard
// renders without a conditional wrapper.
func Stanza(set *model.SourceSet) string {
	conjunctions := make([]string, 0, len(set.Conditions))
	for _, cond := range set.SortedConditions() {
		var parts []string
		if p := platformExpr(cond.Platform); p != "" {
			parts = append(parts, p)
		}
		if a := archExpr(cond.Architecture); a != "" {
			parts = append(parts, a)
		}
		if t := targetExpr(cond.Target); t != "" {
			parts = append(parts, t)
		}
		conjunctions = append(conjunctions, strings.Join(parts, " && "))
	}
	if len(conjunctions) > 1 {
		for i, c := range conjunctions {
			conjunctions[i] = "(" + c + ")"
		}
	}
	sort.Strings(conjunctions)
	condition := strings.Join(conjunctions, " || ")

	indent := ""
	var b strings.Builder
	if condition != "" {
		fmt.Fprintf(&b, "if (%s) {\n", condition)
		indent = "  "
	}

	sources := make([]string, 0, len(set.Sources))
	for src := range set.Sources {
		sources = append(sources, strings.ReplaceAll(src, "\\", "/"))
	}
	sort.Strings(sources)

	writeBucket(&b, indent, "ffmpeg_c_sources", sources, model.IsCFile)
	writeBucket(&b, indent, "ffmpeg_gas_sources", sources, model.IsGasFile)
	writeBucket(&b, indent, "ffmpeg_yasm_sources", sources, model.IsYasmFile)

	if condition != "" {
		b.WriteString("}\n\n")
	} else {
		b.WriteString("\n")
	}
	return b.String()
}

func writeBucket(b *strings.Builder, indent, name string, sources []string, match func(string) bool) {
	open := false
	for _, src := range sources {
		if !match(src) {
			continue
		}
		if !open {
			fmt.Fprintf(b, "%s%s += [\n", indent, name)
			open = true
		}
		fmt.Fprintf(b, "%s  %q,\n", indent, src)
	}
	if open {
		fmt.Fprintf(b, "%s]\n", indent)
	}
}

func archExpr(arch string) string {
	switch arch {
	case model.Wildcard:
		return ""
	case "arm-neon":
		return `current_cpu == "arm" && arm_use_neon`
	case "ia32":
		return `current_cpu == "x86"`
	default:
		return fmt.Sprintf("current_cpu == %q", arch)
	}
}

func targetExpr(target string) string {
	if target == model.Wildcard {
		return ""
	}
	return fmt.Sprintf("ffmpeg_branding == %q", target)
}

func platformExpr(platform string) string {
	if platform == model.Wildcard {
		return ""
	}
	return "is_" + platform
}
