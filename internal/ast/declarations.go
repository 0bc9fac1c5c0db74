package ast

// VariableDeclaration declares a scalar val/var binding with an optional
// initializer. Globals and function-locals use the same node; the analyzer
// and the IR generator distinguish them by the scope that holds them.
type VariableDeclaration struct {
	Kind        VarKind
	Name        string
	Type        Type
	Initializer Expression // nil if absent
	Line        int
}

func (*VariableDeclaration) node() {}
func (*VariableDeclaration) stmt() {}

// ArrayDeclaration declares an array with a typed-literal initializer, e.g.
// `var x : [[int]] := [[1,2],[3,4]];`. Type.Shape carries the nesting depth
// ("array","array","int"); Initializer is a nested *ArrayLiteral tree whose
// shape is derived from its own nesting.
type ArrayDeclaration struct {
	Kind        VarKind
	Name        string
	Type        Type
	Initializer *ArrayLiteral
	Line        int
}

func (*ArrayDeclaration) node() {}
func (*ArrayDeclaration) stmt() {}

// ArrayAllocation declares a zero-initialized array of explicit shape, e.g.
// `var w : [3][4]int;`. Lengths holds one entry per dimension.
type ArrayAllocation struct {
	Kind    VarKind
	Name    string
	Type    Type
	Lengths []int
	Line    int
}

func (*ArrayAllocation) node() {}
func (*ArrayAllocation) stmt() {}

// ArrayLiteral is a (possibly nested) bracketed list of expressions used as
// an array initializer. Leaf elements are scalar Expressions; interior
// elements are themselves *ArrayLiteral nodes held as NestedElems.
type ArrayLiteral struct {
	Elems       []Expression   // populated at leaf level
	NestedElems []*ArrayLiteral // populated at every level above the leaves
	Line        int
}

func (*ArrayLiteral) node() {}
func (*ArrayLiteral) expr() {}

// Dimensions reports the shape of this literal, outermost dimension first.
func (a *ArrayLiteral) Dimensions() []int {
	if len(a.NestedElems) > 0 {
		return append([]int{len(a.NestedElems)}, a.NestedElems[0].Dimensions()...)
	}
	return []int{len(a.Elems)}
}
