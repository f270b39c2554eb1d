// Package ast defines the abstract syntax tree the parser builds and the
// code generator walks: a tagged node family with parent/child bookkeeping,
// fixed arity per node kind, and named-slot accessors.
package ast

// Kind tags the concrete type of a Node.
type Kind string

// The closed set of node kinds.
const (
	KindProgram             Kind = "Program"
	KindFunctionDefinition  Kind = "FunctionDefinition"
	KindBlock               Kind = "Block"
	KindReturnStatement     Kind = "ReturnStatement"
	KindVariableDeclaration Kind = "VariableDeclaration"
	KindVariableReference   Kind = "VariableReference"
	KindConstant            Kind = "Constant"
	KindUnaryOperator       Kind = "UnaryOperator"
	KindBinaryOperator      Kind = "BinaryOperator"
	KindLogicOperator       Kind = "LogicOperator"
	KindTernaryOperator     Kind = "TernaryOperator"
	KindCondition           Kind = "Condition"
	KindIfStatement         Kind = "IfStatement"
	KindElifStatement       Kind = "ElifStatement"
	KindElseStatement       Kind = "ElseStatement"
	KindWhileStatement      Kind = "WhileStatement"
	KindFunctionCall        Kind = "FunctionCall"
)

// Node is the common interface every AST node satisfies: a kind tag, a
// non-owning parent back-reference, an owning ordered child list, and a
// one-line description for dumping. setParent is unexported so that only
// types within this package may implement Node, which keeps the
// parent/child bookkeeping in one place.
type Node interface {
	Kind() Kind
	Parent() Node
	Children() []Node
	Describe() string
	setParent(Node)
}

// base is embedded by every concrete node type. It owns the forward child
// edges; the parent edge is a non-owning back-reference set on attach (see
// initFixed/appendChild). There is no detach operation: once attached, a
// child stays with its parent.
type base struct {
	kind     Kind
	parent   Node
	children []Node
}

func (b *base) Kind() Kind       { return b.kind }
func (b *base) Parent() Node     { return b.parent }
func (b *base) Children() []Node { return b.children }
func (b *base) setParent(p Node) { b.parent = p }

// initFixed sets up a node with exactly the children its kind prescribes.
// A nil entry is allowed for an optional child slot (e.g. Condition's
// ElseStatement) and is simply skipped when attaching parents.
func (b *base) initFixed(self Node, kind Kind, children ...Node) {
	b.kind = kind
	b.children = children
	for _, c := range children {
		if c != nil {
			c.setParent(self)
		}
	}
}

// initEmpty sets up a node whose children are appended incrementally
// (Program's functions, Block's statements, FunctionCall's arguments,
// Condition's elif clauses).
func (b *base) initEmpty(kind Kind) {
	b.kind = kind
}

// appendChild adds child to the owning list and attaches its parent
// back-reference.
func (b *base) appendChild(self Node, child Node) {
	b.children = append(b.children, child)
	child.setParent(self)
}

// Visit calls fn for n and then, recursively, for every descendant in
// pre-order.
func Visit(n Node, fn func(Node)) {
	fn(n)
	for _, c := range n.Children() {
		if c != nil {
			Visit(c, fn)
		}
	}
}
