// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jstream"
	"github.com/google/go-cmp/cmp"
)

// step applies one operation to a machine and returns its error.
type step struct {
	name  string
	apply func(*jstream.Machine) error
}

func begin(c jstream.ContainerType) step {
	return step{"Begin " + c.String(), func(m *jstream.Machine) error { return m.Begin(c) }}
}
func property(name string) step {
	return step{"Property " + name, func(m *jstream.Machine) error { return m.Property(name) }}
}
func value(kind jstream.TokenType) step {
	return step{"Value " + kind.String(), func(m *jstream.Machine) error { return m.Value(kind) }}
}
func comment() step {
	return step{"Comment", func(m *jstream.Machine) error { return m.Comment() }}
}
func end(want jstream.ContainerType) step {
	return step{"End " + want.String(), func(m *jstream.Machine) error {
		_, err := m.End(want)
		return err
	}}
}

func TestMachineStates(t *testing.T) {
	tests := []struct {
		name  string
		steps []step
		want  []jstream.WriteState // state after each step
	}{
		{"TopScalar",
			[]step{value(jstream.String)},
			[]jstream.WriteState{jstream.StateStart}},

		{"EmptyObject",
			[]step{begin(jstream.ObjectContainer), end(jstream.ObjectContainer)},
			[]jstream.WriteState{jstream.StateObjectStart, jstream.StateStart}},

		{"ObjectMember",
			[]step{
				begin(jstream.ObjectContainer),
				property("a"),
				value(jstream.Integer),
				end(jstream.NoContainer),
			},
			[]jstream.WriteState{
				jstream.StateObjectStart,
				jstream.StateProperty,
				jstream.StateObject,
				jstream.StateStart,
			}},

		{"NestedArray",
			[]step{
				begin(jstream.ArrayContainer),
				value(jstream.Boolean),
				begin(jstream.ArrayContainer),
				end(jstream.ArrayContainer),
				end(jstream.ArrayContainer),
			},
			[]jstream.WriteState{
				jstream.StateArrayStart,
				jstream.StateArray,
				jstream.StateArrayStart,
				jstream.StateArray,
				jstream.StateStart,
			}},

		{"Constructor",
			[]step{
				begin(jstream.ConstructorContainer),
				value(jstream.Integer),
				value(jstream.Integer),
				end(jstream.ConstructorContainer),
			},
			[]jstream.WriteState{
				jstream.StateConstructorStart,
				jstream.StateConstructor,
				jstream.StateConstructor,
				jstream.StateStart,
			}},

		{"CommentsKeepState",
			[]step{
				comment(),
				begin(jstream.ObjectContainer),
				comment(),
				property("a"),
				value(jstream.Null),
				comment(),
				end(jstream.ObjectContainer),
			},
			[]jstream.WriteState{
				jstream.StateStart,
				jstream.StateObjectStart,
				jstream.StateObjectStart,
				jstream.StateProperty,
				jstream.StateObject,
				jstream.StateObject,
				jstream.StateStart,
			}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var m jstream.Machine
			var got []jstream.WriteState
			for _, s := range test.steps {
				if err := s.apply(&m); err != nil {
					t.Fatalf("%s: unexpected error: %v", s.name, err)
				}
				got = append(got, m.State())
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("States: (-want, +got)\n%s", diff)
			}
			if d := m.Depth(); d != 0 {
				t.Errorf("Depth: got %d, want 0", d)
			}
		})
	}
}

func TestMachineErrors(t *testing.T) {
	tests := []struct {
		name  string
		steps []step // all but the last must succeed; the last must fail
	}{
		{"PropertyAtTop", []step{property("a")}},
		{"PropertyInArray", []step{begin(jstream.ArrayContainer), property("a")}},
		{"ValueInObject", []step{begin(jstream.ObjectContainer), value(jstream.Integer)}},
		{"ObjectInObject", []step{begin(jstream.ObjectContainer), begin(jstream.ObjectContainer)}},
		{"PropertyAfterProperty", []step{
			begin(jstream.ObjectContainer), property("a"), property("b"),
		}},
		{"EndAtTop", []step{end(jstream.NoContainer)}},
		{"EndObjectAtTop", []step{end(jstream.ObjectContainer)}},
		{"EndArrayOfObject", []step{begin(jstream.ObjectContainer), end(jstream.ArrayContainer)}},
		{"EndObjectOfArray", []step{begin(jstream.ArrayContainer), end(jstream.ObjectContainer)}},
		{"EndDanglingProperty", []step{
			begin(jstream.ObjectContainer), property("a"), end(jstream.ObjectContainer),
		}},
		{"SecondTopValue", []step{value(jstream.Integer), value(jstream.Integer)}},
		{"SecondTopContainer", []step{
			begin(jstream.ArrayContainer), end(jstream.ArrayContainer),
			begin(jstream.ArrayContainer),
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var m jstream.Machine
			for i, s := range test.steps {
				err := s.apply(&m)
				if i < len(test.steps)-1 {
					if err != nil {
						t.Fatalf("%s: unexpected error: %v", s.name, err)
					}
					continue
				}
				if err == nil {
					t.Fatalf("%s: got nil, want error", s.name)
				}
				var werr *jstream.WriteStateError
				if !errors.As(err, &werr) {
					t.Fatalf("%s: error is %T, want *WriteStateError", s.name, err)
				}
				t.Logf("Got expected error: %v", err)
				if m.State() != jstream.StateError {
					t.Errorf("State after error: got %v, want %v", m.State(), jstream.StateError)
				}
			}
		})
	}
}

func TestMachineAfterError(t *testing.T) {
	var m jstream.Machine
	if err := m.Property("x"); err == nil {
		t.Fatal("Property: got nil, want error")
	}

	// All further tokens must be rejected once the machine has failed.
	if err := m.Begin(jstream.ObjectContainer); err == nil {
		t.Error("Begin: got nil, want error")
	}
	if err := m.Value(jstream.String); err == nil {
		t.Error("Value: got nil, want error")
	}
	if err := m.Comment(); err == nil {
		t.Error("Comment: got nil, want error")
	}
}

func TestMachineClosed(t *testing.T) {
	var m jstream.Machine
	if err := m.Value(jstream.Integer); err != nil {
		t.Fatalf("Value: unexpected error: %v", err)
	}
	m.Close()
	if got := m.State(); got != jstream.StateClosed {
		t.Errorf("State: got %v, want %v", got, jstream.StateClosed)
	}
	if err := m.Value(jstream.Integer); err == nil {
		t.Error("Value after Close: got nil, want error")
	}
}

func TestMachinePath(t *testing.T) {
	var m jstream.Machine

	check := func(want string) {
		t.Helper()
		if got := m.Path(); got != want {
			t.Errorf("Path: got %q, want %q", got, want)
		}
	}
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	mustEnd := func(want jstream.ContainerType) {
		t.Helper()
		if _, err := m.End(want); err != nil {
			t.Fatalf("End: unexpected error: %v", err)
		}
	}

	check("")
	must(m.Begin(jstream.ObjectContainer))
	check("")
	must(m.Property("list"))
	check("list")
	must(m.Begin(jstream.ArrayContainer))
	check("list")
	must(m.Value(jstream.Integer))
	check("list[0]")
	must(m.Value(jstream.Integer))
	check("list[1]")
	must(m.Begin(jstream.ObjectContainer))
	check("list[2]")
	must(m.Property("odd name"))
	check("list[2]['odd name']")
	must(m.Value(jstream.String))
	mustEnd(jstream.ObjectContainer)
	check("list[2]")
	mustEnd(jstream.ArrayContainer)
	check("list")
	mustEnd(jstream.ObjectContainer)
	check("")
}

func TestMachineMultipleValues(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		var m jstream.Machine
		if err := m.Value(jstream.Integer); err != nil {
			t.Fatalf("Value: unexpected error: %v", err)
		}
		if err := m.Value(jstream.Integer); err == nil {
			t.Error("Second value: got nil, want error")
		}
	})
	t.Run("Enabled", func(t *testing.T) {
		var m jstream.Machine
		m.AllowMultipleValues(true)
		for i := 0; i < 3; i++ {
			if err := m.Value(jstream.String); err != nil {
				t.Fatalf("Value: unexpected error: %v", err)
			}
		}
		if got := m.TopValues(); got != 3 {
			t.Errorf("TopValues: got %d, want 3", got)
		}
	})
}
