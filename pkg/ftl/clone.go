package ftl

// CloneState is the transient memo of one identifier-substitution pass. It
// maps source nodes to their clones so a subtree reached twice in the same
// pass is cloned once. It is discarded when the pass returns.
type CloneState struct {
	clones map[Node]Node
}

func NewCloneState() *CloneState {
	return &CloneState{clones: map[Node]Node{}}
}

// clone returns the memoized clone of src or builds one with build.
// A nil state disables memoization.
func (s *CloneState) clone(src Node, build func() Node) Node {
	if s == nil {
		return build()
	}
	if c, ok := s.clones[src]; ok {
		return c
	}
	c := build()
	s.clones[src] = c
	return c
}

// Len reports how many distinct subtrees the pass has cloned.
func (s *CloneState) Len() int {
	if s == nil {
		return 0
	}
	return len(s.clones)
}

func cloneExpr(e Expression, name string, repl Expression, s *CloneState) Expression {
	if e == nil {
		return nil
	}
	return e.CloneWithIdentifierReplaced(name, repl, s).(Expression)
}

func cloneStmt(st Statement, name string, repl Expression, s *CloneState) Statement {
	if st == nil {
		return nil
	}
	return st.CloneWithIdentifierReplaced(name, repl, s).(Statement)
}

// freshReplacement clones the replacement outside of the memo so that every
// occurrence of the identifier receives its own copy.
func freshReplacement(repl Expression) Expression {
	return cloneExpr(repl, "", nil, nil)
}

// ReplaceIdentifier clones n with every reference to name replaced by repl,
// using a fresh CloneState.
func ReplaceIdentifier[T Node](n T, name string, repl Expression) T {
	return n.CloneWithIdentifierReplaced(name, repl, NewCloneState()).(T)
}
