package level

import (
	"errors"
	"slices"
	"testing"
)

func TestRegistryAddFind(t *testing.T) {
	r := NewRegistry[int]("number")

	h, err := r.Add("one", 1)
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if !h.Valid() {
		t.Fatal("Add() returned invalid handle")
	}

	got, err := r.Find("one")
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if got != h {
		t.Errorf("Find() = %v, want %v", got, h)
	}
	if v := r.Get(got); v == nil || *v != 1 {
		t.Errorf("Get() = %v, want 1", v)
	}
}

func TestRegistryDuplicateRejected(t *testing.T) {
	r := NewRegistry[int]("number")
	r.Add("one", 1)

	_, err := r.Add("one", 2)
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	var dup *DuplicateNameError
	if !errors.As(err, &dup) || dup.Registry != "number" || dup.Name != "one" {
		t.Errorf("unexpected error detail: %v", err)
	}
	if v, _ := r.Lookup("one"); *v != 1 {
		t.Errorf("entry overwritten: %d", *v)
	}
}

func TestRegistryUnknownName(t *testing.T) {
	r := NewRegistry[int]("number")
	if _, err := r.Find("missing"); !errors.Is(err, ErrUnknownName) {
		t.Errorf("expected ErrUnknownName, got %v", err)
	}
	if r.Get(Handle[int]{}) != nil {
		t.Error("Get(zero handle) should be nil")
	}
}

func TestRegistrySortedIteration(t *testing.T) {
	r := NewRegistry[string]("word")
	for _, name := range []string{"delta", "alpha", "charlie", "bravo"} {
		r.Add(name, name)
	}

	want := []string{"alpha", "bravo", "charlie", "delta"}
	if got := r.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	var seen []string
	r.Each(func(name string, v *string) error {
		if name != *v {
			t.Errorf("Each() paired %q with %q", name, *v)
		}
		seen = append(seen, name)
		return nil
	})
	if !slices.Equal(seen, want) {
		t.Errorf("Each() order = %v, want %v", seen, want)
	}
}

func TestRegistryEachStops(t *testing.T) {
	r := NewRegistry[int]("number")
	r.Add("a", 1)
	r.Add("b", 2)
	r.Add("c", 3)

	stop := errors.New("stop")
	calls := 0
	err := r.Each(func(name string, _ *int) error {
		calls++
		if name == "b" {
			return stop
		}
		return nil
	})
	if err != stop {
		t.Errorf("Each() error = %v, want stop", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestRegistryGetIsStable(t *testing.T) {
	r := NewRegistry[int]("number")
	h, _ := r.Add("a", 1)
	r.Add("b", 2)

	*r.Get(h) = 10
	if v, _ := r.Lookup("a"); *v != 10 {
		t.Errorf("mutation through Get lost: %d", *v)
	}
}
