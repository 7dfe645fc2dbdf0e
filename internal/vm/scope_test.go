package vm

import "testing"

func TestScopeBindIdsGloballyUnique(t *testing.T) {
	root := NewScope()
	a := root.DeclareBind("a")

	child := root.Fork(false)
	b := child.DeclareBind("b")

	sibling := root.Fork(true)
	c := sibling.DeclareBind("c")

	seen := map[int]bool{a: true}
	for _, id := range []int{b, c} {
		if seen[id] {
			t.Errorf("bind id %d reused across scopes", id)
		}
		seen[id] = true
	}
}

func TestScopeResolveBind(t *testing.T) {
	root := NewScope()
	id := root.DeclareBind("x")

	inner := root.Fork(true).Fork(false)
	ref, ok := inner.Resolve("x")
	if !ok {
		t.Fatalf("x not resolved")
	}
	if ref.Kind != RefBind || ref.Index != id {
		t.Errorf("resolved to %+v, want bind %d", ref, id)
	}
	// One framed scope sits between the use site and the defining frame.
	if ref.Depth != 1 {
		t.Errorf("bind depth = %d, want 1", ref.Depth)
	}
}

func TestScopeArgDepthCountsFramedScopesOnly(t *testing.T) {
	root := NewScope()
	outer := root.Fork(true)
	outer.DeclareArg("a", 0)

	// A transparent block inside the function adds no depth.
	block := outer.Fork(false)
	ref, ok := block.Resolve("a")
	if !ok || ref.Kind != RefArg {
		t.Fatalf("a not resolved as arg: %+v", ref)
	}
	if ref.Depth != 0 {
		t.Errorf("depth through transparent scope = %d, want 0", ref.Depth)
	}

	// A nested function adds exactly one frame.
	inner := block.Fork(true)
	inner.DeclareArg("b", 0)
	ref, _ = inner.Resolve("a")
	if ref.Depth != 1 {
		t.Errorf("depth through one framed scope = %d, want 1", ref.Depth)
	}
	ref, _ = inner.Resolve("b")
	if ref.Depth != 0 {
		t.Errorf("local arg depth = %d, want 0", ref.Depth)
	}
}

func TestScopeArgShadowsOuterBind(t *testing.T) {
	root := NewScope()
	root.DeclareBind("x")

	fn := root.Fork(true)
	fn.DeclareArg("x", 3)

	ref, ok := fn.Resolve("x")
	if !ok {
		t.Fatalf("x not resolved")
	}
	if ref.Kind != RefArg || ref.Index != 3 || ref.Depth != 0 {
		t.Errorf("resolved to %+v, want local arg 3", ref)
	}
}

func TestScopeRedeclareShadows(t *testing.T) {
	root := NewScope()
	first := root.DeclareBind("x")
	second := root.DeclareBind("x")
	if first == second {
		t.Fatalf("redeclaration did not assign a fresh id")
	}
	ref, _ := root.Resolve("x")
	if ref.Index != second {
		t.Errorf("resolved to id %d, want latest id %d", ref.Index, second)
	}
}

func TestScopeUnresolved(t *testing.T) {
	root := NewScope()
	if _, ok := root.Fork(true).Resolve("ghost"); ok {
		t.Errorf("resolved a name that was never declared")
	}
}
