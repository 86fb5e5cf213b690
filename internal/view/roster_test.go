package view

import (
	"testing"

	"github.com/kozaktomas/facedesk/internal/facerec"
)

func samplePersons() []facerec.Person {
	return []facerec.Person{
		{ID: 3, Name: "Jiří Dvořák", CreatedAt: "2025-11-02 18:04:11", Images: []facerec.Image{
			{ID: 30, Path: "/uploads/faceimages/jiri_1.jpg"},
			{ID: 31, Path: "/uploads/faceimages/jiri_2.jpg"},
		}},
		{ID: 1, Name: "Anna Nováková", CreatedAt: "2025-11-03 09:30:00", Images: []facerec.Image{
			{ID: 10, Path: "/uploads/faceimages/anna.png"},
		}},
		{ID: 2, Name: "Jan-Petr Šimek", CreatedAt: "2025-11-04 12:00:00"},
	}
}

func TestNewRoster_KeepsServerOrder(t *testing.T) {
	roster := NewRoster(samplePersons(), "", nil)

	if roster.Empty {
		t.Fatal("expected non-empty roster")
	}
	wantIDs := []int{3, 1, 2}
	if len(roster.Cards) != len(wantIDs) {
		t.Fatalf("expected %d cards, got %d", len(wantIDs), len(roster.Cards))
	}
	for i, id := range wantIDs {
		if roster.Cards[i].ID != id {
			t.Errorf("card %d: expected id %d, got %d", i, id, roster.Cards[i].ID)
		}
	}
}

func TestNewRoster_Empty(t *testing.T) {
	roster := NewRoster(nil, "", nil)

	if !roster.Empty {
		t.Fatal("expected empty roster")
	}
	if roster.EmptyTitle != "No persons in database" {
		t.Errorf("unexpected title %q", roster.EmptyTitle)
	}
	if roster.EmptyHint != "Add some people to get started" {
		t.Errorf("unexpected hint %q", roster.EmptyHint)
	}
	if len(roster.Cards) != 0 {
		t.Errorf("expected no cards, got %d", len(roster.Cards))
	}
}

func TestNewRoster_NoMatch(t *testing.T) {
	roster := NewRoster(samplePersons(), "zzz", nil)

	if !roster.Empty || roster.EmptyTitle != NoMatchTitle {
		t.Errorf("expected no-match placeholder, got %+v", roster)
	}
	if roster.Total != 3 {
		t.Errorf("expected total 3, got %d", roster.Total)
	}
}

func TestNewPersonCard(t *testing.T) {
	src := func(path string) string { return "http://faces.local" + path }
	card := NewPersonCard(samplePersons()[0], src)

	if card.Name != "Jiří Dvořák" || card.CreatedAt != "2025-11-02 18:04:11" {
		t.Errorf("unexpected card %+v", card)
	}
	if card.ImageCount != "2 images" {
		t.Errorf("unexpected image count %q", card.ImageCount)
	}
	if len(card.Images) != 2 {
		t.Fatalf("expected 2 tiles, got %d", len(card.Images))
	}
	tile := card.Images[1]
	if tile.ID != 31 || tile.Src != "http://faces.local/uploads/faceimages/jiri_2.jpg" || tile.Alt != "Jiří Dvořák" {
		t.Errorf("unexpected tile %+v", tile)
	}
}

func TestImageCountLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 images"},
		{1, "1 image"},
		{12, "12 images"},
	}
	for _, tc := range tests {
		if got := ImageCountLabel(tc.n); got != tc.want {
			t.Errorf("ImageCountLabel(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Jiří", "jiri"},
		{"ŠIMEK", "simek"},
		{"Jan-Petr", "jan petr"},
		{"  Anna   Nováková ", "anna novakova"},
		{"Nový-Kraus  Jiří", "novy kraus jiri"},
		{"Ångström", "angstrom"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := NormalizeName(tc.input); got != tc.expected {
				t.Errorf("NormalizeName(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestFilterPersons(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantIDs []int
	}{
		{"empty query", "", []int{3, 1, 2}},
		{"diacritics insensitive", "jiri", []int{3}},
		{"case insensitive", "NOVAK", []int{1}},
		{"query with diacritics", "Šim", []int{2}},
		{"dash as space", "jan petr", []int{2}},
		{"order preserved", "a", []int{3, 1, 2}},
		{"no match", "xyz", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterPersons(samplePersons(), tc.query)
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("expected %d persons, got %d", len(tc.wantIDs), len(got))
			}
			for i, id := range tc.wantIDs {
				if got[i].ID != id {
					t.Errorf("position %d: expected id %d, got %d", i, id, got[i].ID)
				}
			}
		})
	}
}
