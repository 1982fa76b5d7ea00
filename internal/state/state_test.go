package state

import (
	"math/rand"
	"testing"

	"github.com/apehub/apegen/internal/assets"
	"github.com/apehub/apegen/internal/geom"
)

func TestRandomizeRespectsLocks(t *testing.T) {
	c := Default()
	c.Text.Content = "GM"
	c.Locks = Locks{Background: true, Ape: true, Accessories: true, Text: true}

	before := c.Clone()
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		c.Randomize(rng)
	}

	if !c.Equal(before) {
		t.Errorf("fully locked composition changed:\n before %+v\n after  %+v", before, c)
	}
}

func TestRandomizeTouchesOnlyUnlockedLayers(t *testing.T) {
	c := Default()
	c.Locks = Locks{Ape: true, Text: true}

	before := c.Clone()
	rng := rand.New(rand.NewSource(1))

	backgroundChanged := false
	for i := 0; i < 100; i++ {
		c.Randomize(rng)
		if c.Ape != before.Ape {
			t.Fatalf("locked ape changed to %s", c.Ape)
		}
		if c.Text != before.Text {
			t.Fatalf("locked text changed to %+v", c.Text)
		}
		if c.Background != before.Background {
			backgroundChanged = true
		}
	}
	if !backgroundChanged {
		t.Error("unlocked background never changed across 100 randomizations")
	}
}

func TestRandomizeStaysInCatalog(t *testing.T) {
	valid := func(list []string, v string) bool {
		for _, x := range list {
			if x == v {
				return true
			}
		}
		return false
	}

	c := Default()
	rng := rand.New(rand.NewSource(7))
	sawHatNone := false
	for i := 0; i < 200; i++ {
		c.Randomize(rng)
		if !valid(assets.Backgrounds, c.Background) {
			t.Fatalf("background %q outside catalog", c.Background)
		}
		if !valid(assets.Characters, c.Ape) {
			t.Fatalf("ape %q outside catalog", c.Ape)
		}
		if !valid(assets.TextColors, c.Text.Color) {
			t.Fatalf("text color %q outside catalog", c.Text.Color)
		}
		if c.Accessories.Hat == assets.HatNone {
			sawHatNone = true
		}
	}
	if !sawHatNone {
		t.Error("randomize never produced hat=none; none must be a valid outcome")
	}
}

func TestRandomizeKeepsTextContent(t *testing.T) {
	c := Default()
	c.Text.Content = "GM frens"
	c.Randomize(rand.New(rand.NewSource(3)))
	if c.Text.Content != "GM frens" {
		t.Errorf("randomize rewrote text content to %q", c.Text.Content)
	}
}

func TestToggleLock(t *testing.T) {
	c := Default()

	c.ToggleLock("ape")
	if !c.Locks.Ape {
		t.Error("ape lock not set")
	}
	c.ToggleLock("ape")
	if c.Locks.Ape {
		t.Error("ape lock not cleared")
	}

	c.ToggleLock("nonsense")
	if c.Locks != (Locks{}) {
		t.Errorf("unknown layer mutated locks: %+v", c.Locks)
	}
}

func TestEqualComparesEveryField(t *testing.T) {
	base := Default()

	mutations := map[string]func(c *Composition){
		"mode":       func(c *Composition) { c.Mode = ModeBaked },
		"background": func(c *Composition) { c.Background = assets.Backgrounds[1] },
		"baked bg":   func(c *Composition) { c.UseBakedBackground = true },
		"ape":        func(c *Composition) { c.Ape = assets.Characters[1] },
		"hat":        func(c *Composition) { c.Accessories.Hat = assets.HatCrown },
		"text":       func(c *Composition) { c.Text.Content = "GM" },
		"lock":       func(c *Composition) { c.Locks.Ape = true },
		"debug":      func(c *Composition) { c.Debug = true },
		"offset":     func(c *Composition) { c.AnchorOffsets["ape1"] = geom.Point{X: 5} },
	}
	for name, mutate := range mutations {
		c := base.Clone()
		mutate(c)
		if c.Equal(base) {
			t.Errorf("%s: mutated composition compares equal", name)
		}
	}

	if !base.Clone().Equal(base) {
		t.Error("clone does not compare equal to original")
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := Default()
	clone := c.Clone()

	clone.Background = "bg8"
	off := c.AnchorOffsets["ape1"]
	off.X = 99
	clone.AnchorOffsets["ape1"] = off

	if c.Background != assets.Backgrounds[0] {
		t.Error("clone shares Background")
	}
	if c.AnchorOffsets["ape1"].X != 0 {
		t.Error("clone shares AnchorOffsets map")
	}
}
