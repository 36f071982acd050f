// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package dom_test

import (
	"strings"
	"testing"
	"time"

	"github.com/creachadair/jstream"
	"github.com/creachadair/jstream/dom"
	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, input string, opts dom.ParseOptions) dom.Node {
	t.Helper()
	n, err := dom.ParseWith(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("Parse %#q: %v", input, err)
	}
	return n
}

func TestParse(t *testing.T) {
	const input = `{"name":"James","hobbies":["chess",{"hard":true}]}`
	root, ok := mustParse(t, input, dom.ParseOptions{}).(*dom.Object)
	if !ok {
		t.Fatalf("Parse: got %T, want *dom.Object", root)
	}

	if got, err := dom.AsString(root.Value("name")); err != nil || got != "James" {
		t.Errorf("name: got %q, %v; want James, nil", got, err)
	}
	hobbies, ok := root.Value("hobbies").(*dom.Array)
	if !ok {
		t.Fatalf("hobbies: got %T, want *dom.Array", root.Value("hobbies"))
	}
	if got, want := hobbies.At(0).Path(), "hobbies[0]"; got != want {
		t.Errorf("Path: got %q, want %q", got, want)
	}
	if got := dom.JSON(root); got != input {
		t.Errorf("JSON:\n got %s\nwant %s", got, input)
	}
}

func TestParseDuplicateKeys(t *testing.T) {
	// The last value of a repeated key wins, in the key's first position.
	root := mustParse(t, `{"x":1,"y":2,"x":3}`, dom.ParseOptions{}).(*dom.Object)
	if got := len(root.Properties()); got != 2 {
		t.Errorf("Properties: got %d, want 2", got)
	}
	if got := dom.JSON(root); got != `{"x":3,"y":2}` {
		t.Errorf("JSON: got %s, want {\"x\":3,\"y\":2}", got)
	}
}

func TestParseOptions(t *testing.T) {
	t.Run("Comments", func(t *testing.T) {
		const input = "[1, /* two */ 3]"
		plain := mustParse(t, input, dom.ParseOptions{}).(*dom.Array)
		if got := plain.Len(); got != 2 {
			t.Errorf("Len without comments: got %d, want 2", got)
		}
		kept := mustParse(t, input, dom.ParseOptions{Comments: true}).(*dom.Array)
		if got := kept.Len(); got != 3 {
			t.Errorf("Len with comments: got %d, want 3", got)
		}
		if got := kept.At(1).Kind(); got != dom.KindComment {
			t.Errorf("Kind: got %v, want %v", got, dom.KindComment)
		}
	})

	t.Run("TrailingCommas", func(t *testing.T) {
		if _, err := dom.Parse(strings.NewReader(`[1,]`)); err == nil {
			t.Error("Parse: got nil, want error")
		}
		n := mustParse(t, `[1,]`, dom.ParseOptions{TrailingCommas: true})
		if got := dom.JSON(n); got != `[1]` {
			t.Errorf("JSON: got %s, want [1]", got)
		}
	})

	t.Run("DateConstructors", func(t *testing.T) {
		n := mustParse(t, `new Date(976918263055)`, dom.ParseOptions{DateConstructors: true})
		if got := n.Kind(); got != dom.KindDate {
			t.Fatalf("Kind: got %v, want %v", got, dom.KindDate)
		}
		got, err := dom.AsTime(n)
		if err != nil {
			t.Fatalf("AsTime failed: %v", err)
		}
		if want := time.UnixMilli(976918263055).UTC(); !got.Equal(want) {
			t.Errorf("AsTime: got %v, want %v", got, want)
		}
	})
}

func TestParseLocations(t *testing.T) {
	const input = "{\n  \"a\": [5]\n}"
	root := mustParse(t, input, dom.ParseOptions{}).(*dom.Object)
	if got := root.Location().Line; got != 1 {
		t.Errorf("Root line: got %d, want 1", got)
	}
	arr := root.Value("a").(*dom.Array)
	if got := arr.Location().Line; got != 2 {
		t.Errorf("Array line: got %d, want 2", got)
	}
	if got := arr.At(0).Location().Line; got != 2 {
		t.Errorf("Element line: got %d, want 2", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, bad := range []string{"", `{`, `[1 2]`, `{"a"}`, `nope`} {
		if _, err := dom.Parse(strings.NewReader(bad)); err == nil {
			t.Errorf("Parse %#q: got nil, want error", bad)
		}
	}
}

func TestBuilder(t *testing.T) {
	b := dom.NewBuilder()
	b.WriteStartObject()
	b.WritePropertyName("x")
	b.WriteInt(1)
	b.WritePropertyName("y")
	b.WriteStartArray()
	b.WriteString("chess")
	b.WriteValue(2.5)
	b.WriteEndArray()
	b.WritePropertyName("x") // replaces the earlier value of x
	b.WriteInt(2)
	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	root, err := b.Result()
	if err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	if got := dom.JSON(root); got != `{"x":2,"y":["chess",2.5]}` {
		t.Errorf("JSON: got %s, want {\"x\":2,\"y\":[\"chess\",2.5]}", got)
	}
}

func TestBuilderErrors(t *testing.T) {
	t.Run("StateViolation", func(t *testing.T) {
		b := dom.NewBuilder()
		b.WriteStartObject()
		if err := b.WriteInt(1); err == nil {
			t.Fatal("WriteInt in object: got nil, want error")
		}
		// The failure is sticky.
		if _, err := b.Result(); err == nil {
			t.Error("Result after error: got nil, want error")
		}
	})

	t.Run("Empty", func(t *testing.T) {
		b := dom.NewBuilder()
		if err := b.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if _, err := b.Result(); err == nil {
			t.Error("Result of empty builder: got nil, want error")
		}
	})

	t.Run("DanglingProperty", func(t *testing.T) {
		b := dom.NewBuilder()
		b.WriteStartObject()
		b.WritePropertyName("a")
		if err := b.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		root, err := b.Result()
		if err != nil {
			t.Fatalf("Result failed: %v", err)
		}
		if got := dom.JSON(root); got != `{"a":null}` {
			t.Errorf("JSON: got %s, want {\"a\":null}", got)
		}
	})
}

func TestTreeReader(t *testing.T) {
	root := dom.NewObject()
	root.Set("name", dom.String("James"))
	root.Set("hobbies", dom.NewArray(dom.String("chess")))

	type rtok struct {
		Tok  jstream.TokenType
		Val  any
		Path string
	}
	var got []rtok
	r := dom.NewTreeReader(root)
	for r.Read() {
		got = append(got, rtok{r.Token(), r.Value(), r.Path()})
	}
	if err := r.Err(); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	want := []rtok{
		{jstream.StartObject, nil, ""},
		{jstream.PropertyName, "name", "name"},
		{jstream.String, "James", "name"},
		{jstream.PropertyName, "hobbies", "hobbies"},
		{jstream.StartArray, nil, "hobbies"},
		{jstream.String, "chess", "hobbies[0]"},
		{jstream.EndArray, nil, "hobbies"},
		{jstream.EndObject, nil, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokens: (-want, +got)\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []string{
		`null`,
		`[]`,
		`{"a":1,"b":[true,null,"x"],"c":{"d":2.5}}`,
		`new Point(1,2)`,
		`{"big":9999999990000000000000000000000000000000000}`,
	}
	for _, input := range tests {
		root := mustParse(t, input, dom.ParseOptions{})
		via := mustParse(t, dom.JSON(root), dom.ParseOptions{})
		if !dom.DeepEqual(root, via) {
			t.Errorf("Round trip of %#q changed the document", input)
		}
	}
}

func TestEncodeIndent(t *testing.T) {
	root := mustParse(t, `{"a":1,"b":[2,3]}`, dom.ParseOptions{})
	var sb strings.Builder
	if err := dom.EncodeIndent(&sb, root, "  "); err != nil {
		t.Fatalf("EncodeIndent failed: %v", err)
	}
	const want = `{
  "a": 1,
  "b": [
    2,
    3
  ]
}`
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("Output: (-want, +got)\n%s", diff)
	}
}

func TestEncodeTypedValues(t *testing.T) {
	root := dom.NewObject()
	root.Set("when", dom.Date(time.Date(2000, 1, 2, 3, 4, 5, 0, time.UTC)))
	root.Set("data", dom.Bytes([]byte("hi")))
	root.Set("wait", dom.Duration(90*time.Second))

	const want = `{"when":"2000-01-02T03:04:05Z","data":"aGk=","wait":"1m30s"}`
	if got := dom.JSON(root); got != want {
		t.Errorf("JSON:\n got %s\nwant %s", got, want)
	}
}
