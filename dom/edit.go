// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package dom

import (
	"errors"
	"fmt"
)

// ErrNotAttached is reported by edit operations on a node without a parent.
var ErrNotAttached = errors.New("node is not attached to a tree")

// itemsOf returns the child list of container p, or nil.
func itemsOf(p Node) *[]Node {
	switch t := p.(type) {
	case *Object:
		return &t.items
	case *Array:
		return &t.items
	case *Constructor:
		return &t.items
	}
	return nil
}

// checkChild reports whether n may become a direct child of container p:
// objects admit properties and comments, arrays and constructors admit
// anything except properties.
func checkChild(p, n Node) error {
	if _, ok := p.(*Object); ok {
		if _, isProp := n.(*Property); !isProp && n.Kind() != KindComment {
			return fmt.Errorf("cannot insert a %v node into an object", n.Kind())
		}
	} else if _, isProp := n.(*Property); isProp {
		return fmt.Errorf("cannot insert a property into a %v", p.Kind())
	}
	return nil
}

// Remove detaches n from its parent container. It reports ErrNotAttached if
// n has no parent, and an error if n is the value of a property, which
// cannot be removed without replacement.
func Remove(n Node) error {
	p := n.Parent()
	if p == nil {
		return ErrNotAttached
	}
	if _, ok := p.(*Property); ok {
		return errors.New("cannot remove the value of a property")
	}
	its := itemsOf(p)
	i := indexOf(p, n)
	*its = append((*its)[:i], (*its)[i+1:]...)
	detach(n)
	return nil
}

// InsertAfter inserts n as a sibling directly after sib. It reports
// ErrNotAttached if sib has no parent container.
func InsertAfter(sib, n Node) error { return insertAt(sib, n, 1) }

// InsertBefore inserts n as a sibling directly before sib. It reports
// ErrNotAttached if sib has no parent container.
func InsertBefore(sib, n Node) error { return insertAt(sib, n, 0) }

func insertAt(sib, n Node, offset int) error {
	p := sib.Parent()
	if p == nil {
		return ErrNotAttached
	}
	its := itemsOf(p)
	if its == nil {
		return errors.New("cannot insert a sibling for the value of a property")
	}
	if err := checkChild(p, n); err != nil {
		return err
	}
	attach(p, n)
	i := indexOf(p, sib) + offset
	*its = append(*its, nil)
	copy((*its)[i+1:], (*its)[i:])
	(*its)[i] = n
	return nil
}

// Replace substitutes n for old in the tree, at the same position. It
// reports ErrNotAttached if old has no parent.
func Replace(old, n Node) error {
	p := old.Parent()
	if p == nil {
		return ErrNotAttached
	}
	if prop, ok := p.(*Property); ok {
		if _, isProp := n.(*Property); isProp {
			return errors.New("cannot use a property as the value of a property")
		}
		prop.SetValue(n)
		return nil
	}
	if err := checkChild(p, n); err != nil {
		return err
	}
	its := itemsOf(p)
	i := indexOf(p, old)
	attach(p, n)
	(*its)[i] = n
	detach(old)
	return nil
}
