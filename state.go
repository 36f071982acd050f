// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"fmt"

	"github.com/creachadair/jstream/internal/pathseg"
)

// A WriteState describes the position of a token writer within the document
// grammar. The state, together with the kind of the token being written,
// determines whether the write is legal and what separators or indentation
// must precede the token.
type WriteState byte

// Constants defining the valid WriteState values.
const (
	StateStart            WriteState = iota // at the beginning of the document
	StateProperty                           // a property name has been written, awaiting its value
	StateObjectStart                        // an object has been opened, no members written
	StateObject                             // inside an object with at least one member
	StateArrayStart                         // an array has been opened, no elements written
	StateArray                              // inside an array with at least one element
	StateConstructorStart                   // a constructor has been opened, no arguments written
	StateConstructor                        // inside a constructor with at least one argument
	StateClosed                             // the writer has been closed
	StateError                              // an illegal transition occurred

	numWriteStates = iota
)

var writeStateStr = [...]string{
	StateStart:            "Start",
	StateProperty:         "Property",
	StateObjectStart:      "ObjectStart",
	StateObject:           "Object",
	StateArrayStart:       "ArrayStart",
	StateArray:            "Array",
	StateConstructorStart: "ConstructorStart",
	StateConstructor:      "Constructor",
	StateClosed:           "Closed",
	StateError:            "Error",
}

func (s WriteState) String() string {
	if int(s) >= len(writeStateStr) {
		return "invalid state"
	}
	return writeStateStr[s]
}

// A WriteStateError reports an attempt to write a token that is not legal in
// the writer's current state. The error is fatal: once it occurs the writer
// remains in the Error state and rejects further tokens.
type WriteStateError struct {
	Token TokenType  // the token that was attempted
	State WriteState // the state it was attempted in
	Path  string     // the document path at the point of failure
}

func (e *WriteStateError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("token %v in state %v would result in invalid JSON", e.Token, e.State)
	}
	return fmt.Sprintf("token %v in state %v would result in invalid JSON (at %s)", e.Token, e.State, e.Path)
}

// action is the set of pre-token output obligations computed by a transition.
// The text writer realizes actions as bytes; tree writers ignore them.
type action byte

const (
	actDelim    action = 1 << iota // a value delimiter (comma) precedes the token
	actIndent                      // a newline and indentation precede the token
	actKeySpace                    // a space separates the token from its property colon
)

// Token classes for the transition table. End tokens are not classed: closing
// a container is validated against the scope stack rather than the table.
type tokenClass byte

const (
	clsBeginObject tokenClass = iota
	clsBeginArray
	clsBeginConstructor
	clsProperty
	clsValue
	clsComment

	numTokenClasses = iota
)

// classOf maps a token type to its transition class. End tokens and None
// report ok == false.
func classOf(kind TokenType) (tokenClass, bool) {
	switch kind {
	case StartObject:
		return clsBeginObject, true
	case StartArray:
		return clsBeginArray, true
	case StartConstructor:
		return clsBeginConstructor, true
	case PropertyName:
		return clsProperty, true
	case Comment:
		return clsComment, true
	default:
		if kind.IsValue() {
			return clsValue, true
		}
		return 0, false
	}
}

// stateTable maps (token class, current state) to the next state. StateError
// entries mark illegal transitions. Column order follows the WriteState
// constants.
var stateTable = [numTokenClasses][numWriteStates]WriteState{
	//                  Start             Property          ObjectStart  Object       ArrayStart        Array             ConstructorStart       Constructor            Closed      Error
	clsBeginObject:      {StateObjectStart, StateObjectStart, StateError, StateError, StateObjectStart, StateObjectStart, StateObjectStart, StateObjectStart, StateError, StateError},
	clsBeginArray:       {StateArrayStart, StateArrayStart, StateError, StateError, StateArrayStart, StateArrayStart, StateArrayStart, StateArrayStart, StateError, StateError},
	clsBeginConstructor: {StateConstructorStart, StateConstructorStart, StateError, StateError, StateConstructorStart, StateConstructorStart, StateConstructorStart, StateConstructorStart, StateError, StateError},
	clsProperty:         {StateError, StateError, StateProperty, StateProperty, StateError, StateError, StateError, StateError, StateError, StateError},
	clsValue:            {StateStart, StateObject, StateError, StateError, StateArray, StateArray, StateConstructor, StateConstructor, StateError, StateError},
	clsComment:          {StateStart, StateProperty, StateObjectStart, StateObject, StateArrayStart, StateArray, StateConstructorStart, StateConstructor, StateError, StateError},
}

// midState returns the "has children" state for an open container of kind c,
// or StateStart when there is no open container.
func midState(c ContainerType) WriteState {
	switch c {
	case ObjectContainer:
		return StateObject
	case ArrayContainer:
		return StateArray
	case ConstructorContainer:
		return StateConstructor
	}
	return StateStart
}

// A scope records one open container on a nesting stack, along with the
// position bookkeeping needed for document paths: the key of the most recent
// member (object scopes) or the count of completed elements (array and
// constructor scopes).
type scope struct {
	container ContainerType
	key       string // most recent property name, object scopes only
	n         int    // number of completed elements, array/constructor scopes
}

// renderPath formats the document path described by a scope stack.
// Each open scope is positioned by its parent; the innermost scope
// additionally contributes its own most recent key or element index.
func renderPath(stk []scope) string {
	var buf []byte
	for i := 1; i < len(stk); i++ {
		switch p := stk[i-1]; p.container {
		case ObjectContainer:
			buf = pathseg.AppendKey(buf, p.key)
		case ArrayContainer, ConstructorContainer:
			buf = pathseg.AppendIndex(buf, p.n)
		}
	}
	if len(stk) != 0 {
		switch in := stk[len(stk)-1]; in.container {
		case ObjectContainer:
			if in.key != "" {
				buf = pathseg.AppendKey(buf, in.key)
			}
		case ArrayContainer, ConstructorContainer:
			if in.n > 0 {
				buf = pathseg.AppendIndex(buf, in.n-1)
			}
		}
	}
	return string(buf)
}

// A Machine is the writer state machine: it validates each token against the
// current write state, tracks the stack of open containers, and maintains the
// document path for diagnostics. A zero Machine is ready for use. Machine
// performs no output of its own; [TextWriter] and the dom package's tree
// builder drive a Machine and realize its decisions.
type Machine struct {
	state WriteState
	stack []scope
	multi bool // permit multiple top-level values
	ntop  int  // top-level values completed
}

// State returns the current write state.
func (m *Machine) State() WriteState { return m.state }

// Depth returns the number of open containers.
func (m *Machine) Depth() int { return len(m.stack) }

// Container returns the kind of the innermost open container, or NoContainer.
func (m *Machine) Container() ContainerType {
	if len(m.stack) == 0 {
		return NoContainer
	}
	return m.stack[len(m.stack)-1].container
}

// Path returns the document path of the most recently written token.
func (m *Machine) Path() string { return renderPath(m.stack) }

// AllowMultipleValues configures whether the machine accepts more than one
// top-level value. By default a second top-level token is a state error.
func (m *Machine) AllowMultipleValues(ok bool) { m.multi = ok }

// TopValues reports the number of completed top-level values.
func (m *Machine) TopValues() int { return m.ntop }

// fail parks the machine in the error state and returns a *WriteStateError
// describing the rejected token.
func (m *Machine) fail(kind TokenType, in WriteState) error {
	m.state = StateError
	return &WriteStateError{Token: kind, State: in, Path: renderPath(m.stack)}
}

// advance validates writing kind in the current state, updates the state and
// scope stack, and returns the pre-token actions the transition requires.
// End tokens must go through end, not advance.
func (m *Machine) advance(kind TokenType) (action, error) {
	cls, ok := classOf(kind)
	if !ok {
		return 0, m.fail(kind, m.state)
	}
	cur := m.state
	next := stateTable[cls][cur]
	if next == StateError {
		return 0, m.fail(kind, cur)
	}

	// Reject a second top-level value unless configured otherwise.
	if cur == StateStart && cls != clsComment && m.ntop > 0 && !m.multi {
		return 0, m.fail(kind, cur)
	}

	act := preActions(cur, cls)
	m.state = next

	switch cls {
	case clsBeginObject:
		m.stack = append(m.stack, scope{container: ObjectContainer})
	case clsBeginArray:
		m.stack = append(m.stack, scope{container: ArrayContainer})
	case clsBeginConstructor:
		m.stack = append(m.stack, scope{container: ConstructorContainer})
	case clsValue:
		m.completeValue()
	}
	return act, nil
}

// Begin validates and records an opening token for a container of kind c.
func (m *Machine) Begin(c ContainerType) error {
	start := c.start()
	if start == None {
		return m.fail(None, m.state)
	}
	_, err := m.advance(start)
	return err
}

// Property validates and records a property name token.
func (m *Machine) Property(name string) error {
	if _, err := m.advance(PropertyName); err != nil {
		return err
	}
	m.stack[len(m.stack)-1].key = name
	return nil
}

// Value validates and records a scalar value token of the given kind.
func (m *Machine) Value(kind TokenType) error {
	if !kind.IsValue() {
		return m.fail(kind, m.state)
	}
	_, err := m.advance(kind)
	return err
}

// Comment validates and records a comment token.
func (m *Machine) Comment() error {
	_, err := m.advance(Comment)
	return err
}

// End validates and records the closing token for the innermost open
// container, which must be of kind want unless want is NoContainer. A
// dangling property (state Property) must be completed with a value before
// the container can close; writers do this by emitting a null.
func (m *Machine) End(want ContainerType) (ContainerType, error) {
	cur := m.Container()
	if cur == NoContainer || (want != NoContainer && cur != want) {
		end := want.end()
		if end == None {
			end = EndObject
		}
		return NoContainer, m.fail(end, m.state)
	}
	if m.state == StateProperty || m.state == StateClosed || m.state == StateError {
		return NoContainer, m.fail(cur.end(), m.state)
	}
	m.stack = m.stack[:len(m.stack)-1]
	m.state = midState(m.Container())
	m.completeValue()
	return cur, nil
}

// Close marks the machine closed. Closing with containers still open is the
// writer's concern; the machine only records the terminal state.
func (m *Machine) Close() { m.state = StateClosed }

// completeValue records the completion of a value in the current scope.
func (m *Machine) completeValue() {
	if len(m.stack) == 0 {
		m.ntop++
		return
	}
	top := &m.stack[len(m.stack)-1]
	if top.container != ObjectContainer {
		top.n++
	}
}

// preActions computes the output obligations owed before a token of class cls
// written in state st. The caller applies whichever actions its formatting
// mode realizes: compact output honors only actDelim, indented output honors
// all three.
func preActions(st WriteState, cls tokenClass) action {
	switch st {
	case StateProperty:
		if cls == clsComment {
			return 0
		}
		return actKeySpace
	case StateObject, StateArray, StateConstructor:
		if cls == clsComment {
			return actIndent
		}
		return actDelim | actIndent
	case StateObjectStart, StateArrayStart, StateConstructorStart:
		return actIndent
	}
	return 0
}

// closeActions computes the output obligations owed before the closing token
// of a container whose current state is st. A container with children takes a
// newline and indent before its closing bracket; an empty container closes
// immediately.
func closeActions(st WriteState) action {
	switch st {
	case StateObject, StateArray, StateConstructor:
		return actIndent
	}
	return 0
}
