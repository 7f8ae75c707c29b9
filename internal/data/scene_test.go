package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const goblinScene = `
entities:
  - name: Goblin
    hit_points: 50
    listeners:
      attack: take_damage
    children:
      - name: Helmet
        armor: 5
        listeners:
          attack: block_attack
      - name: Skirt
        armor: 10
        listeners:
          attack: block_attack
`

func TestParseScene(t *testing.T) {
	s, err := ParseScene([]byte(goblinScene))
	if err != nil {
		t.Fatal(err)
	}
	if s.Count() != 3 {
		t.Errorf("Count = %d want 3", s.Count())
	}
	g := s.Entities[0]
	if g.HitPoints == nil || *g.HitPoints != 50 || g.Armor != nil {
		t.Errorf("goblin = %+v", g)
	}
	if g.Listeners["attack"] != "take_damage" {
		t.Errorf("goblin listeners = %v", g.Listeners)
	}
	var order []string
	s.Walk(func(d, parent *EntityDef) {
		p := "-"
		if parent != nil {
			p = parent.Name
		}
		order = append(order, d.Name+"<"+p)
	})
	if got := strings.Join(order, ","); got != "Goblin<-,Helmet<Goblin,Skirt<Goblin" {
		t.Errorf("walk order = %s", got)
	}
}

func TestParseSceneRejectsDuplicateListener(t *testing.T) {
	_, err := ParseScene([]byte(`
entities:
  - name: Helmet
    listeners:
      attack: block_attack
      attack: take_damage
`))
	if err == nil {
		t.Fatal("duplicate listener key accepted")
	}
}

func TestParseSceneValidation(t *testing.T) {
	for name, src := range map[string]string{
		"unnamed":       "entities:\n  - armor: 3\n",
		"unknown field": "entities:\n  - name: A\n    mana: 3\n",
		"empty cb":      "entities:\n  - name: A\n    listeners:\n      attack: \"\"\n",
	} {
		if _, err := ParseScene([]byte(src)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(goblinScene), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScene(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Entities) != 1 {
		t.Errorf("entities = %d", len(s.Entities))
	}
	if _, err := LoadScene(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file accepted")
	}
}
