package store

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/apehub/apegen/internal/bbox"
)

func TestRoundTrip(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "boxes.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, ok, err := s.GetBox("apes/ape1.png"); err != nil || ok {
		t.Fatalf("GetBox on empty store = ok:%v err:%v, want miss", ok, err)
	}

	want := bbox.Box{X: 12, Y: 34, Width: 100, Height: 50, CenterX: 62, CenterY: 59}
	if err := s.PutBox("apes/ape1.png", want); err != nil {
		t.Fatalf("PutBox: %v", err)
	}

	got, ok, err := s.GetBox("apes/ape1.png")
	if err != nil || !ok {
		t.Fatalf("GetBox = ok:%v err:%v, want hit", ok, err)
	}
	if got != want {
		t.Errorf("GetBox = %+v, want %+v", got, want)
	}

	// Upsert replaces.
	want2 := bbox.Box{X: 0, Y: 0, Width: 64, Height: 64, CenterX: 32, CenterY: 32}
	if err := s.PutBox("apes/ape1.png", want2); err != nil {
		t.Fatalf("PutBox (replace): %v", err)
	}
	got, _, _ = s.GetBox("apes/ape1.png")
	if got != want2 {
		t.Errorf("after replace GetBox = %+v, want %+v", got, want2)
	}
}

func TestStoreBacksCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxes.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	box := bbox.Box{X: 1, Y: 2, Width: 10, Height: 20, CenterX: 6, CenterY: 12}
	if err := s.PutBox("apes/ape2.png", box); err != nil {
		t.Fatalf("PutBox: %v", err)
	}
	s.Close()

	// A fresh session reads the persisted box without scanning.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	cache := bbox.NewCache(s2)
	got := cache.Get("apes/ape2.png", image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	if got != box {
		t.Errorf("cache.Get via store = %+v, want %+v", got, box)
	}
	if cache.Computes() != 0 {
		t.Error("cache scanned pixels despite persisted box")
	}
}
