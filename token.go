// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

// A TokenType identifies the kind of a structural token delivered by a
// [Reader] or consumed by a [Writer]. Structural tokens sit one level above
// the lexical tokens of the [Scanner]: a single structural token may span
// several lexical tokens (for example a property name and its colon, or the
// "new Name(" prefix of a constructor).
type TokenType byte

// Constants defining the valid TokenType values.
const (
	None             TokenType = iota // no token has been read
	StartObject                       // begin object: "{"
	EndObject                         // end object: "}"
	StartArray                        // begin array: "["
	EndArray                          // end array: "]"
	StartConstructor                  // begin constructor: "new Name("
	EndConstructor                    // end constructor: ")"
	PropertyName                      // object member key
	Comment                           // comment text
	Raw                               // raw (verbatim) value text
	Integer                           // integer value, arbitrary precision
	Float                             // floating-point value
	String                            // string value
	Boolean                           // true or false
	Null                              // null
	Undefined                         // undefined (non-standard)
	Date                              // date-time value
	Bytes                             // binary data (base64 text form)
)

var tokenTypeStr = [...]string{
	None:             "None",
	StartObject:      "StartObject",
	EndObject:        "EndObject",
	StartArray:       "StartArray",
	EndArray:         "EndArray",
	StartConstructor: "StartConstructor",
	EndConstructor:   "EndConstructor",
	PropertyName:     "PropertyName",
	Comment:          "Comment",
	Raw:              "Raw",
	Integer:          "Integer",
	Float:            "Float",
	String:           "String",
	Boolean:          "Boolean",
	Null:             "Null",
	Undefined:        "Undefined",
	Date:             "Date",
	Bytes:            "Bytes",
}

func (t TokenType) String() string {
	if int(t) >= len(tokenTypeStr) {
		return "invalid token"
	}
	return tokenTypeStr[t]
}

// IsValue reports whether t is a value token, meaning it occupies a value
// position in its container. Raw counts as a value; Comment does not.
func (t TokenType) IsValue() bool {
	return t == Raw || (t >= Integer && t <= Bytes)
}

// IsScalar reports whether t is a scalar value token (a value that is not
// the start of a container).
func (t TokenType) IsScalar() bool { return t.IsValue() }

// A ContainerType identifies the kind of an open container scope on a
// reader or writer nesting stack.
type ContainerType byte

// Constants defining the valid ContainerType values.
const (
	NoContainer ContainerType = iota
	ObjectContainer
	ArrayContainer
	ConstructorContainer
)

var containerTypeStr = [...]string{
	NoContainer:          "none",
	ObjectContainer:      "object",
	ArrayContainer:       "array",
	ConstructorContainer: "constructor",
}

func (c ContainerType) String() string {
	if int(c) >= len(containerTypeStr) {
		return "invalid container"
	}
	return containerTypeStr[c]
}

// start returns the token type that opens a container of kind c.
func (c ContainerType) start() TokenType {
	switch c {
	case ObjectContainer:
		return StartObject
	case ArrayContainer:
		return StartArray
	case ConstructorContainer:
		return StartConstructor
	}
	return None
}

// end returns the token type that closes a container of kind c.
func (c ContainerType) end() TokenType {
	switch c {
	case ObjectContainer:
		return EndObject
	case ArrayContainer:
		return EndArray
	case ConstructorContainer:
		return EndConstructor
	}
	return None
}
