package decl

// ClassID identifies a class in the table arena.
type ClassID uint32

const (
	// NoClassID marks the absence of a class reference.
	NoClassID ClassID = 0
)

// IsValid reports whether the class ID refers to an allocated class.
func (id ClassID) IsValid() bool { return id != NoClassID }

// DeclID identifies a declaration inside the table arena.
type DeclID uint32

const (
	// NoDeclID marks the absence of a declaration reference.
	NoDeclID DeclID = 0
)

// IsValid reports whether the declaration ID refers to an allocated declaration.
func (id DeclID) IsValid() bool { return id != NoDeclID }
