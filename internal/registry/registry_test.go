package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/gamerunner/internal/core"
	"github.com/vovakirdan/gamerunner/internal/runner"
)

type nopGame struct{}

func (nopGame) Update(float64)        {}
func (nopGame) Draw(dst *core.Screen) {}

func testDescriptor(id, title string) runner.Descriptor {
	return runner.Descriptor{
		ID:    id,
		Title: title,
		New: func(*runner.Runner, core.Config) (runner.Game, error) {
			return nopGame{}, nil
		},
	}
}

func TestRegisterLookup(t *testing.T) {
	Register(testDescriptor("zz-test", "Zed"))
	Register(testDescriptor("aa-test", ""))
	defer unregister("zz-test")
	defer unregister("aa-test")

	if !Exists("zz-test") {
		t.Error("Exists() should report registered games")
	}

	d, err := Lookup("aa-test")
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if d.Title != "aa-test" {
		t.Errorf("Title = %q, expected id as fallback title", d.Title)
	}

	games := List()
	if len(games) < 2 {
		t.Fatalf("List() returned %d games, expected at least 2", len(games))
	}
	for i := 1; i < len(games); i++ {
		if games[i-1].ID > games[i].ID {
			t.Errorf("List() not sorted: %q before %q", games[i-1].ID, games[i].ID)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("does-not-exist"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Lookup() error = %v, expected ErrUnknownGame", err)
	}
	if Exists("does-not-exist") {
		t.Error("Exists() should be false for unknown ids")
	}
}

func TestRegisterPanics(t *testing.T) {
	Register(testDescriptor("dup-test", "Dup"))
	defer unregister("dup-test")

	tests := []struct {
		name string
		d    runner.Descriptor
	}{
		{"duplicate id", testDescriptor("dup-test", "Again")},
		{"missing id", testDescriptor("", "Nameless")},
		{"missing constructor", runner.Descriptor{ID: "no-ctor"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Register() should panic")
				}
			}()
			Register(tc.d)
		})
	}
}
