package agent

import (
	"errors"
	"testing"
)

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence with language", "```javascript\n[1,2]\n```", "[1,2]"},
		{"surrounding whitespace", "  \n```json\n{}\n```\n  ", "{}"},
		{"no closing fence", "```json\n{\"a\":1}", `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StripCodeFence(tc.in)
			if got != tc.want {
				t.Fatalf("StripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseProfileFenced(t *testing.T) {
	raw := "```json\n{\"interests\": [\"music\"], \"skills\": [\"mixing\"], \"work_style\": [], \"constraints\": []}\n```"
	p, err := ParseProfile(raw)
	if err != nil {
		t.Fatalf("ParseProfile failed: %v", err)
	}
	if len(p.Interests) != 1 || p.Interests[0] != "music" {
		t.Errorf("unexpected interests: %v", p.Interests)
	}
	if len(p.Skills) != 1 || p.Skills[0] != "mixing" {
		t.Errorf("unexpected skills: %v", p.Skills)
	}

	// 有无代码块包裹，解析结果应一致
	unfenced, err := ParseProfile(`{"interests": ["music"], "skills": ["mixing"], "work_style": [], "constraints": []}`)
	if err != nil {
		t.Fatalf("ParseProfile unfenced failed: %v", err)
	}
	if unfenced.Interests[0] != p.Interests[0] {
		t.Error("fenced and unfenced parses disagree")
	}
}

func TestParseProfileInvalid(t *testing.T) {
	_, err := ParseProfile("I think their interests are music and film.")
	if err == nil {
		t.Fatal("expected error for non-JSON content")
	}
	if !errors.Is(err, ErrMalformedOutput) {
		t.Errorf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestParseMatches(t *testing.T) {
	raw := "```json\n[{\"path\": \"Audio Engineer\", \"fit_score\": 0.92, \"reasoning\": \"good fit\", \"day_to_day\": \"studio work\"}]\n```"
	matches, err := ParseMatches(raw)
	if err != nil {
		t.Fatalf("ParseMatches failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Path != "Audio Engineer" || matches[0].FitScore != 0.92 {
		t.Errorf("unexpected match: %+v", matches[0])
	}

	if _, err := ParseMatches(`{"path": "not an array"}`); !errors.Is(err, ErrMalformedOutput) {
		t.Errorf("expected ErrMalformedOutput for non-array, got %v", err)
	}
}
