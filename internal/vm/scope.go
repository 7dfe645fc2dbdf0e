package vm

// RefKind says how a resolved name is addressed at runtime.
type RefKind int

const (
	// RefBind resolves to a globally-unique label id plus the number of
	// runtime frames between the use site and the bind's defining frame
	// context, so the body runs against the frame it was compiled for.
	RefBind RefKind = iota
	// RefArg resolves to an argument slot plus the number of runtime frames
	// between the use site and the frame holding the slot.
	RefArg
)

// Ref is the result of resolving an identifier.
type Ref struct {
	Kind  RefKind
	Index int // bind id or argument index
	Depth int // frame hops to the defining frame context
}

type localRef struct {
	isArg bool
	idx   int
}

// Scope is one compile-time lexical frame. Only framed scopes (function and
// array-element bodies) correspond to a runtime argument frame; block and
// struct scopes are transparent and contribute nothing to depth. All scopes
// of a compilation unit share one bind counter so label ids never collide.
type Scope struct {
	names   map[string]localRef
	parent  *Scope
	framed  bool
	bindCnt *int
}

// NewScope creates the root scope of a compilation unit.
func NewScope() *Scope {
	cnt := 0
	return &Scope{
		names:   make(map[string]localRef),
		framed:  true,
		bindCnt: &cnt,
	}
}

// Fork creates a child scope with an empty local mapping, so argument names
// shadow outer names at depth 0. framed marks scopes whose declarations are
// argument slots of a runtime frame.
func (s *Scope) Fork(framed bool) *Scope {
	return &Scope{
		names:   make(map[string]localRef),
		parent:  s,
		framed:  framed,
		bindCnt: s.bindCnt,
	}
}

// DeclareBind registers a lazily-bound definition and returns its fresh id.
// Redeclaring a name in the same scope shadows the earlier id; the earlier
// label is still emitted but becomes unreachable by name.
func (s *Scope) DeclareBind(name string) int {
	id := *s.bindCnt
	*s.bindCnt++
	s.names[name] = localRef{idx: id}
	return id
}

// DeclareArg registers a positional call argument.
func (s *Scope) DeclareArg(name string, index int) {
	s.names[name] = localRef{isArg: true, idx: index}
}

// Resolve walks outward. Depth counts only framed scopes crossed on the way,
// which is exactly the number of parent hops the machine performs at runtime.
// Binds carry a depth too: a bind body was compiled against the frame context
// of its declaring scope, and forcing it from a deeper frame must first walk
// back to that context or argument loads inside the body read foreign slots.
func (s *Scope) Resolve(name string) (Ref, bool) {
	depth := 0
	for sc := s; sc != nil; sc = sc.parent {
		if r, ok := sc.names[name]; ok {
			if r.isArg {
				return Ref{Kind: RefArg, Index: r.idx, Depth: depth}, true
			}
			return Ref{Kind: RefBind, Index: r.idx, Depth: depth}, true
		}
		if sc.framed {
			depth++
		}
	}
	return Ref{}, false
}
