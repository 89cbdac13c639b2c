package decl

import (
	"fmt"

	"fortio.org/safecast"
)

// Classes stores all allocated classes in a compact slice-based arena.
type Classes struct {
	data []Class
}

// NewClasses creates an arena with optional capacity hint.
func NewClasses(capacity uint32) *Classes {
	if capacity == 0 {
		capacity = 16
	}
	return &Classes{
		data: make([]Class, 1, capacity+1), // index 0 reserved for NoClassID
	}
}

// New allocates a new class and returns its ID.
func (c *Classes) New(cls *Class) ClassID {
	if cls == nil {
		panic("decl.Classes.New: nil class")
	}
	value, err := safecast.Conv[uint32](len(c.data))
	if err != nil {
		panic(fmt.Errorf("class arena overflow: %w", err))
	}
	id := ClassID(value)
	c.data = append(c.data, *cls)
	return id
}

// Get returns the class pointer or nil if ID is invalid.
func (c *Classes) Get(id ClassID) *Class {
	if !id.IsValid() || int(id) >= len(c.data) {
		return nil
	}
	return &c.data[id]
}

// Len reports total number of classes excluding the sentinel.
func (c *Classes) Len() int { return len(c.data) - 1 }

// Data exposes the underlying slice without the sentinel.
func (c *Classes) Data() []Class {
	if len(c.data) <= 1 {
		return nil
	}
	return c.data[1:]
}

// Decls stores declarations in a compact arena.
type Decls struct {
	data []Decl
}

// NewDecls creates a declaration arena with optional capacity hint.
func NewDecls(capacity uint32) *Decls {
	if capacity == 0 {
		capacity = 64
	}
	return &Decls{
		data: make([]Decl, 1, capacity+1), // index 0 reserved for NoDeclID
	}
}

// New allocates a declaration in the arena and returns its ID.
func (d *Decls) New(dc *Decl) DeclID {
	if dc == nil {
		panic("decl.Decls.New: nil declaration")
	}
	value, err := safecast.Conv[uint32](len(d.data))
	if err != nil {
		panic(fmt.Errorf("declaration arena overflow: %w", err))
	}
	id := DeclID(value)
	d.data = append(d.data, *dc)
	return id
}

// Get returns a declaration pointer or nil for invalid ID.
func (d *Decls) Get(id DeclID) *Decl {
	if !id.IsValid() || int(id) >= len(d.data) {
		return nil
	}
	return &d.data[id]
}

// Len reports number of stored declarations excluding sentinel.
func (d *Decls) Len() int { return len(d.data) - 1 }

// Data exposes the arena storage without the sentinel.
func (d *Decls) Data() []Decl {
	if len(d.data) <= 1 {
		return nil
	}
	return d.data[1:]
}
