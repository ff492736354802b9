package support

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ffbuild/gngen/internal/model"
)

// ============================================================
// ValidValues
// ============================================================

func TestValidValues_ConcreteAttributeIsSingleton(t *testing.T) {
	c := model.Cond("x64", "Chromium", "linux")

	if diff := cmp.Diff([]string{"x64"}, ValidValues(model.AttrArchitecture, c)); diff != "" {
		t.Errorf("architecture (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Chromium"}, ValidValues(model.AttrTarget, c)); diff != "" {
		t.Errorf("target (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"linux"}, ValidValues(model.AttrPlatform, c)); diff != "" {
		t.Errorf("platform (-want +got):\n%s", diff)
	}
}

func TestValidValues_WildcardCoversFullRange(t *testing.T) {
	c := model.Cond(model.Wildcard, model.Wildcard, model.Wildcard)

	if diff := cmp.Diff(Architectures, ValidValues(model.AttrArchitecture, c)); diff != "" {
		t.Errorf("architecture (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Targets, ValidValues(model.AttrTarget, c)); diff != "" {
		t.Errorf("target (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Platforms, ValidValues(model.AttrPlatform, c)); diff != "" {
		t.Errorf("platform (-want +got):\n%s", diff)
	}
}

func TestValidValues_OSBrandingsOnlyOnLinux(t *testing.T) {
	cases := []struct {
		platform string
		want     []string
	}{
		{"linux", []string{"Chromium", "Chrome", "ChromiumOS", "ChromeOS"}},
		{model.Wildcard, []string{"Chromium", "Chrome", "ChromiumOS", "ChromeOS"}},
		{"win", []string{"Chromium", "Chrome"}},
		{"mac", []string{"Chromium", "Chrome"}},
		{"android", []string{"Chromium", "Chrome"}},
	}
	for _, tc := range cases {
		c := model.Cond("x64", model.Wildcard, tc.platform)
		got := ValidValues(model.AttrTarget, c)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("platform %s: targets (-want +got):\n%s", tc.platform, diff)
		}
	}
}

func TestValidValues_PlatformRestrictsArchitecture(t *testing.T) {
	cases := []struct {
		platform string
		want     []string
	}{
		{"linux", Architectures},
		{"android", Architectures},
		{model.Wildcard, Architectures},
		{"win", []string{"ia32", "x64"}},
		{"mac", []string{"x64"}},
	}
	for _, tc := range cases {
		c := model.Cond(model.Wildcard, "Chromium", tc.platform)
		got := ValidValues(model.AttrArchitecture, c)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("platform %s: architectures (-want +got):\n%s", tc.platform, diff)
		}
	}
}

func TestValidValues_ConcreteValueAgainstPlatformIsEmpty(t *testing.T) {
	c := model.Cond("arm", "Chromium", "mac")
	if got := ValidValues(model.AttrArchitecture, c); len(got) != 0 {
		t.Errorf("ValidValues(architecture, %s) = %v, want empty", c, got)
	}
}

// ============================================================
// Expand
// ============================================================

func TestExpand_ConcreteConditionIsItself(t *testing.T) {
	c := model.Cond("x64", "Chromium", "linux")
	got := Expand(c)
	if diff := cmp.Diff([]model.Condition{c}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

// The expansion of an attribute is computed against the condition it appears
// in, not against the conditions being produced. A fully wildcard condition
// therefore covers the entire matrix, including combinations such as
// (arm, Chromium, win) that never build on their own.
func TestExpand_AllWildcardCoversWholeMatrix(t *testing.T) {
	c := model.Cond(model.Wildcard, model.Wildcard, model.Wildcard)
	got := Expand(c)

	want := len(Architectures) * len(Targets) * len(Platforms)
	if len(got) != want {
		t.Fatalf("len(Expand(%s)) = %d, want %d", c, len(got), want)
	}

	seen := map[model.Condition]bool{}
	for _, e := range got {
		seen[e] = true
	}
	if !seen[model.Cond("arm", "Chromium", "win")] {
		t.Error("expansion missing (arm, Chromium, win)")
	}
	if !seen[model.Cond("mips64el", "ChromeOS", "mac")] {
		t.Error("expansion missing (mips64el, ChromeOS, mac)")
	}
}

func TestExpand_WildcardTargetOnWin(t *testing.T) {
	c := model.Cond("x64", model.Wildcard, "win")
	got := Expand(c)

	want := []model.Condition{
		model.Cond("x64", "Chromium", "win"),
		model.Cond("x64", "Chrome", "win"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestExpand_WildcardArchOnMac(t *testing.T) {
	c := model.Cond(model.Wildcard, "Chromium", "mac")
	got := Expand(c)

	want := []model.Condition{model.Cond("x64", "Chromium", "mac")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestExpand_ImpossibleConditionIsEmpty(t *testing.T) {
	c := model.Cond("arm", "Chromium", "mac")
	if got := Expand(c); len(got) != 0 {
		t.Errorf("Expand(%s) = %v, want empty", c, got)
	}
}
