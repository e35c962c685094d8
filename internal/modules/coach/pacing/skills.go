package pacing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// RequiredSkill is one domain target of a goal. Order is significant: it
// breaks ties between equal gaps.
type RequiredSkill struct {
	Domain string  `json:"domain"`
	Target float64 `json:"target"`
}

type SkillGap struct {
	Domain       string  `json:"domain"`
	CurrentScore float64 `json:"current_score"`
	TargetScore  float64 `json:"target_score"`
	Gap          float64 `json:"gap"`
	Priority     int     `json:"priority"`
}

// DecodeRequiredSkills reads a JSON object of domain -> target score,
// keeping the object's key order.
func DecodeRequiredSkills(raw []byte) ([]RequiredSkill, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("required skills: expected object")
	}
	var out []RequiredSkill
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("required skills: expected key")
		}
		var target float64
		if err := dec.Decode(&target); err != nil {
			return nil, fmt.Errorf("required skills %q: %w", key, err)
		}
		out = append(out, RequiredSkill{Domain: key, Target: target})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeRequiredSkills writes skills back as a JSON object in slice order.
func EncodeRequiredSkills(skills []RequiredSkill) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range skills {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(s.Domain)
		v, _ := json.Marshal(s.Target)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// SkillGaps ranks required domains by how far the current score is below
// target. Unscored domains count as 0. Equal gaps keep input order.
func SkillGaps(required []RequiredSkill, current map[string]float64) []SkillGap {
	type ranked struct {
		gap SkillGap
		raw float64
	}
	rows := make([]ranked, 0, len(required))
	for _, r := range required {
		cur := current[r.Domain]
		raw := math.Max(0, r.Target-cur)
		rows = append(rows, ranked{
			gap: SkillGap{
				Domain:       r.Domain,
				CurrentScore: round1(cur),
				TargetScore:  r.Target,
				Gap:          round1(raw),
			},
			raw: raw,
		})
	}
	// Rank on the unrounded gap; rounding is for display only.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].raw > rows[j].raw })
	out := make([]SkillGap, len(rows))
	for i, r := range rows {
		out[i] = r.gap
		out[i].Priority = i + 1
	}
	return out
}

// Readiness averages min(100, current/target*100) over required domains.
// A non-positive target counts as fully met.
func Readiness(required []RequiredSkill, current map[string]float64) float64 {
	if len(required) == 0 {
		return 0
	}
	var sum float64
	for _, r := range required {
		if r.Target <= 0 {
			sum += 100
			continue
		}
		sum += math.Min(100, current[r.Domain]/r.Target*100)
	}
	return round1(sum / float64(len(required)))
}
