package career

import (
	"strings"
	"testing"
)

func TestCatalogIntegrity(t *testing.T) {
	all := All()
	if len(all) != 18 {
		t.Fatalf("expected 18 career paths, got %d", len(all))
	}

	// 每条记录的关键字段都不能为空
	for key, p := range all {
		if p.Name == "" {
			t.Errorf("%s: empty name", key)
		}
		if p.Description == "" {
			t.Errorf("%s: empty description", key)
		}
		if len(p.Skills) == 0 {
			t.Errorf("%s: no skills", key)
		}
		if len(p.WorkStyle) == 0 {
			t.Errorf("%s: no work style", key)
		}
		if p.SalaryRange == "" {
			t.Errorf("%s: empty salary range", key)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	delete(a, "dj")
	if _, ok := All()["dj"]; !ok {
		t.Fatal("mutating the returned map leaked into the catalog")
	}
}

func TestOrderedStable(t *testing.T) {
	a := Ordered()
	b := Ordered()
	if len(a) != len(b) {
		t.Fatalf("ordered length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			t.Fatalf("ordering not stable at %d: %s vs %s", i, a[i].Name, b[i].Name)
		}
	}
}

func TestByName(t *testing.T) {
	p, ok := ByName("Audio Engineer")
	if !ok || p.Name != "Audio Engineer" {
		t.Fatalf("exact match failed: %v %v", p, ok)
	}

	// 忽略大小写
	p, ok = ByName("audio engineer")
	if !ok || p.Name != "Audio Engineer" {
		t.Fatalf("case-insensitive match failed: %v %v", p, ok)
	}

	// 子串匹配
	p, ok = ByName("Influencer")
	if !ok || p.Name != "Content Creator / Influencer" {
		t.Fatalf("partial match failed: %v %v", p, ok)
	}

	if _, ok := ByName("Quantum Plumber"); ok {
		t.Fatal("expected no match for unknown career")
	}
}

func TestBySkillAndWorkStyle(t *testing.T) {
	got := BySkill("storytelling")
	if len(got) == 0 {
		t.Fatal("expected at least one storytelling career")
	}
	for _, p := range got {
		found := false
		for _, s := range p.Skills {
			if strings.Contains(strings.ToLower(s), "storytelling") {
				found = true
			}
		}
		if !found {
			t.Errorf("%s returned without matching skill", p.Name)
		}
	}

	if len(ByWorkStyle("independent")) == 0 {
		t.Fatal("expected independent work-style careers")
	}
}

func TestAllSkillsSortedUnique(t *testing.T) {
	skills := AllSkills()
	if len(skills) == 0 {
		t.Fatal("no skills collected")
	}
	for i := 1; i < len(skills); i++ {
		if skills[i-1] >= skills[i] {
			t.Fatalf("skills not sorted/unique at %d: %q >= %q", i, skills[i-1], skills[i])
		}
	}
}

