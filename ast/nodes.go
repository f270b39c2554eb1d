package ast

import (
	"fmt"
	"strings"

	"github.com/skx/lang-compiler/token"
)

// Program is the root of every well-formed AST: an ordered list of function
// definitions, at least one of which must be named "main".
type Program struct {
	base
}

// NewProgram returns an empty Program; functions are attached with
// AddFunction in source order.
func NewProgram() *Program {
	p := &Program{}
	p.initEmpty(KindProgram)
	return p
}

// AddFunction appends fn as the next top-level function definition.
func (p *Program) AddFunction(fn *FunctionDefinition) {
	p.appendChild(p, fn)
}

// Functions returns the program's function definitions in source order.
func (p *Program) Functions() []*FunctionDefinition {
	out := make([]*FunctionDefinition, len(p.children))
	for i, c := range p.children {
		out[i] = c.(*FunctionDefinition)
	}
	return out
}

func (p *Program) Describe() string {
	return fmt.Sprintf("Program(%d functions)", len(p.children))
}

// FunctionDefinition names a function, its declared (but never lowered)
// parameter names, and its single Block body.
type FunctionDefinition struct {
	base
	Name       string
	Parameters []string
}

// NewFunctionDefinition builds a function definition over body.
func NewFunctionDefinition(name string, parameters []string, body *Block) *FunctionDefinition {
	f := &FunctionDefinition{Name: name, Parameters: parameters}
	f.initFixed(f, KindFunctionDefinition, body)
	return f
}

// Body returns the function's single statement block.
func (f *FunctionDefinition) Body() *Block {
	return f.children[0].(*Block)
}

func (f *FunctionDefinition) Describe() string {
	return fmt.Sprintf("FunctionDefinition(%s(%s))", f.Name, strings.Join(f.Parameters, ", "))
}

// Block is an ordered sequence of statements. CreatesScope distinguishes a
// function body (which introduces a fresh variable scope in the source
// language, though this implementation's single flat per-function variable
// map makes the distinction informational rather than load-bearing) from
// the body of an if/elif/else/while clause, which does not.
type Block struct {
	base
	CreatesScope bool
}

// NewBlock returns an empty Block; statements are attached with
// AddStatement in source order.
func NewBlock(createsScope bool) *Block {
	b := &Block{CreatesScope: createsScope}
	b.initEmpty(KindBlock)
	return b
}

// AddStatement appends stmt as the block's next statement.
func (b *Block) AddStatement(stmt Node) {
	b.appendChild(b, stmt)
}

// Statements returns the block's statements in source order.
func (b *Block) Statements() []Node {
	return b.children
}

func (b *Block) Describe() string {
	return fmt.Sprintf("Block(scope=%t, %d statements)", b.CreatesScope, len(b.children))
}

// ReturnStatement evaluates its expression and returns it from the
// enclosing function.
type ReturnStatement struct {
	base
}

// NewReturnStatement builds a return of expr.
func NewReturnStatement(expr Node) *ReturnStatement {
	r := &ReturnStatement{}
	r.initFixed(r, KindReturnStatement, expr)
	return r
}

// Expr returns the returned expression.
func (r *ReturnStatement) Expr() Node { return r.children[0] }

func (r *ReturnStatement) Describe() string { return "ReturnStatement" }

// VariableDeclaration introduces name, initialized by Init.
type VariableDeclaration struct {
	base
	Name string
}

// NewVariableDeclaration builds a declaration of name initialized by init.
func NewVariableDeclaration(name string, init Node) *VariableDeclaration {
	v := &VariableDeclaration{Name: name}
	v.initFixed(v, KindVariableDeclaration, init)
	return v
}

// Init returns the initializer expression.
func (v *VariableDeclaration) Init() Node { return v.children[0] }

func (v *VariableDeclaration) Describe() string {
	return fmt.Sprintf("VariableDeclaration(%s)", v.Name)
}

// VariableReference reads a previously declared variable.
type VariableReference struct {
	base
	Name string
}

// NewVariableReference builds a leaf reference to name.
func NewVariableReference(name string) *VariableReference {
	v := &VariableReference{Name: name}
	v.initFixed(v, KindVariableReference)
	return v
}

func (v *VariableReference) Describe() string {
	return fmt.Sprintf("VariableReference(%s)", v.Name)
}

// Constant is a literal value. ValueType is always "int": the source
// language has exactly one implicit type.
type Constant struct {
	base
	ValueType string
	Value     int32
}

// NewConstant builds a leaf int constant.
func NewConstant(value int32) *Constant {
	c := &Constant{ValueType: "int", Value: value}
	c.initFixed(c, KindConstant)
	return c
}

func (c *Constant) Describe() string {
	return fmt.Sprintf("Constant(%s, %d)", c.ValueType, c.Value)
}

// UnaryOperator applies Op (one of '-', '~', '!') to Operand.
type UnaryOperator struct {
	base
	Op token.Kind
}

// NewUnaryOperator builds a unary application of op to operand.
func NewUnaryOperator(op token.Kind, operand Node) *UnaryOperator {
	u := &UnaryOperator{Op: op}
	u.initFixed(u, KindUnaryOperator, operand)
	return u
}

// Operand returns the operator's single operand.
func (u *UnaryOperator) Operand() Node { return u.children[0] }

func (u *UnaryOperator) Describe() string {
	return fmt.Sprintf("UnaryOperator(%s)", u.Op)
}

// BinaryOperator applies Op (one of '+', '-', '*', '/', '=') to Left and
// Right. '=' is assignment; Left must be a VariableReference in that case
// (enforced by the parser).
type BinaryOperator struct {
	base
	Op token.Kind
}

// NewBinaryOperator builds a binary application of op to left and right.
func NewBinaryOperator(op token.Kind, left, right Node) *BinaryOperator {
	b := &BinaryOperator{Op: op}
	b.initFixed(b, KindBinaryOperator, left, right)
	return b
}

// Left returns the left-hand operand.
func (b *BinaryOperator) Left() Node { return b.children[0] }

// Right returns the right-hand operand.
func (b *BinaryOperator) Right() Node { return b.children[1] }

func (b *BinaryOperator) Describe() string {
	return fmt.Sprintf("BinaryOperator(%s)", b.Op)
}

// LogicOperator applies Op (a comparison or short-circuit and/or) to Left
// and Right.
type LogicOperator struct {
	base
	Op token.Kind
}

// NewLogicOperator builds a logic/comparison application of op to left and
// right.
func NewLogicOperator(op token.Kind, left, right Node) *LogicOperator {
	l := &LogicOperator{Op: op}
	l.initFixed(l, KindLogicOperator, left, right)
	return l
}

// Left returns the left-hand operand.
func (l *LogicOperator) Left() Node { return l.children[0] }

// Right returns the right-hand operand.
func (l *LogicOperator) Right() Node { return l.children[1] }

func (l *LogicOperator) Describe() string {
	return fmt.Sprintf("LogicOperator(%s)", l.Op)
}

// TernaryOperator evaluates Condition and yields TrueExpr or FalseExpr.
type TernaryOperator struct {
	base
}

// NewTernaryOperator builds a ternary with the given condition and branches.
func NewTernaryOperator(condition, trueExpr, falseExpr Node) *TernaryOperator {
	t := &TernaryOperator{}
	t.initFixed(t, KindTernaryOperator, condition, trueExpr, falseExpr)
	return t
}

// Condition returns the ternary's condition expression.
func (t *TernaryOperator) Condition() Node { return t.children[0] }

// TrueExpr returns the expression evaluated when Condition is truthy.
func (t *TernaryOperator) TrueExpr() Node { return t.children[1] }

// FalseExpr returns the expression evaluated when Condition is falsy.
func (t *TernaryOperator) FalseExpr() Node { return t.children[2] }

func (t *TernaryOperator) Describe() string { return "TernaryOperator" }

// IfStatement is the leading clause of a Condition.
type IfStatement struct {
	base
}

// NewIfStatement builds an if-clause.
func NewIfStatement(cond Node, trueBlock *Block) *IfStatement {
	i := &IfStatement{}
	i.initFixed(i, KindIfStatement, cond, trueBlock)
	return i
}

// Cond returns the if-clause's condition expression.
func (i *IfStatement) Cond() Node { return i.children[0] }

// TrueBlock returns the block executed when Cond is truthy.
func (i *IfStatement) TrueBlock() *Block { return i.children[1].(*Block) }

func (i *IfStatement) Describe() string { return "IfStatement" }

// ElifStatement is a subsequent if/elif/else clause.
type ElifStatement struct {
	base
}

// NewElifStatement builds an elif-clause.
func NewElifStatement(cond Node, trueBlock *Block) *ElifStatement {
	e := &ElifStatement{}
	e.initFixed(e, KindElifStatement, cond, trueBlock)
	return e
}

// Cond returns the elif-clause's condition expression.
func (e *ElifStatement) Cond() Node { return e.children[0] }

// TrueBlock returns the block executed when Cond is truthy.
func (e *ElifStatement) TrueBlock() *Block { return e.children[1].(*Block) }

func (e *ElifStatement) Describe() string { return "ElifStatement" }

// ElseStatement is the trailing, condition-less clause of a Condition.
type ElseStatement struct {
	base
}

// NewElseStatement builds an else-clause.
func NewElseStatement(falseBlock *Block) *ElseStatement {
	e := &ElseStatement{}
	e.initFixed(e, KindElseStatement, falseBlock)
	return e
}

// FalseBlock returns the block executed when every preceding clause's
// condition was falsy.
func (e *ElseStatement) FalseBlock() *Block { return e.children[0].(*Block) }

func (e *ElseStatement) Describe() string { return "ElseStatement" }

// Condition composites an if-clause, zero or more elif-clauses, and at most
// one else-clause into the full if/elif/else statement.
type Condition struct {
	base
}

// NewCondition builds a Condition whose leading clause is ifStmt. Elif
// clauses are attached with AddElif, and the else clause (if any) with
// SetElse, before the node is handed to the code generator.
func NewCondition(ifStmt *IfStatement) *Condition {
	c := &Condition{}
	c.initEmpty(KindCondition)
	c.appendChild(c, ifStmt)
	return c
}

// AddElif appends the next elif-clause in source order.
func (c *Condition) AddElif(elif *ElifStatement) {
	c.appendChild(c, elif)
}

// SetElse attaches the (single, optional) else-clause. It must be called at
// most once and after every AddElif call.
func (c *Condition) SetElse(els *ElseStatement) {
	c.appendChild(c, els)
}

// IfStatement returns the condition's leading if-clause.
func (c *Condition) IfStatement() *IfStatement {
	return c.children[0].(*IfStatement)
}

// Elifs returns the condition's elif-clauses in source order.
func (c *Condition) Elifs() []*ElifStatement {
	var out []*ElifStatement
	for _, child := range c.children[1:] {
		if elif, ok := child.(*ElifStatement); ok {
			out = append(out, elif)
		}
	}
	return out
}

// Else returns the condition's else-clause, or nil if there is none.
func (c *Condition) Else() *ElseStatement {
	if len(c.children) == 0 {
		return nil
	}
	if els, ok := c.children[len(c.children)-1].(*ElseStatement); ok {
		return els
	}
	return nil
}

func (c *Condition) Describe() string {
	return fmt.Sprintf("Condition(%d elif, else=%t)", len(c.Elifs()), c.Else() != nil)
}

// WhileStatement repeats Body for as long as Cond remains truthy.
type WhileStatement struct {
	base
}

// NewWhileStatement builds a while-loop over cond and body.
func NewWhileStatement(cond Node, body *Block) *WhileStatement {
	w := &WhileStatement{}
	w.initFixed(w, KindWhileStatement, cond, body)
	return w
}

// Cond returns the loop's condition expression.
func (w *WhileStatement) Cond() Node { return w.children[0] }

// Body returns the loop's body block.
func (w *WhileStatement) Body() *Block { return w.children[1].(*Block) }

func (w *WhileStatement) Describe() string { return "WhileStatement" }

// FunctionCall invokes Name with its argument expressions, in source order.
type FunctionCall struct {
	base
	Name string
}

// NewFunctionCall returns a call to name with no arguments yet attached;
// use AddArgument to attach them in source order.
func NewFunctionCall(name string) *FunctionCall {
	f := &FunctionCall{Name: name}
	f.initEmpty(KindFunctionCall)
	return f
}

// AddArgument appends the next argument expression in source order.
func (f *FunctionCall) AddArgument(arg Node) {
	f.appendChild(f, arg)
}

// Arguments returns the call's argument expressions in source order.
func (f *FunctionCall) Arguments() []Node {
	return f.children
}

func (f *FunctionCall) Describe() string {
	return fmt.Sprintf("FunctionCall(%s, %d args)", f.Name, len(f.children))
}
