// Package codegen walks a Program AST and emits GNU-syntax x86-64
// assembly. Lowering is a deterministic pre-order tree walk: the same AST
// always produces byte-identical output, since the only state that varies
// output is the label counter and the per-function variable-offset map,
// both of which are rebuilt the same way on every run.
package codegen

import (
	"fmt"

	"github.com/skx/lang-compiler/ast"
	"github.com/skx/lang-compiler/diag"
	"github.com/skx/lang-compiler/labels"
	"github.com/skx/lang-compiler/token"
)

// GenError reports an AST shape the generator cannot lower: an unexpected
// node in expression position, an unhandled operator, or a call with
// arguments (no calling convention is wired — see genCall). These indicate
// a bug upstream of code generation, not a user-facing source error.
type GenError struct {
	Message string
}

func (e *GenError) Error() string {
	return e.Message
}

// ToDiag renders e as a diag.Error for CLI presentation.
func (e *GenError) ToDiag() *diag.Error {
	return diag.New(diag.CodeGen, e.Message, 0, 0, "")
}

// Generate lowers program to assembly text.
func Generate(program *ast.Program) (string, error) {
	g := &Generator{emitter: NewEmitter(), labels: labels.New()}
	g.emitter.Global("main")

	var functions []*ast.FunctionDefinition
	collectFunctions(program, &functions)

	for _, fn := range functions {
		if err := g.genFunction(fn); err != nil {
			return "", err
		}
	}
	return g.emitter.String(), nil
}

// collectFunctions flattens program's top-level functions together with
// every "def" nested inside a function body, in source order. Nested
// definitions are accepted syntactically but, since this compiler never
// lowers a calling convention for arguments and has no notion of a closure,
// they are emitted as independent top-level functions rather than inline at
// their point of appearance — lowering one inline in the middle of another
// function's instruction stream would make the enclosing function fall
// through into the nested one's prologue.
func collectFunctions(program *ast.Program, out *[]*ast.FunctionDefinition) {
	for _, fn := range program.Functions() {
		*out = append(*out, fn)
		collectNested(fn.Body(), out)
	}
}

func collectNested(block *ast.Block, out *[]*ast.FunctionDefinition) {
	for _, stmt := range block.Statements() {
		switch s := stmt.(type) {
		case *ast.FunctionDefinition:
			*out = append(*out, s)
			collectNested(s.Body(), out)
		case *ast.WhileStatement:
			collectNested(s.Body(), out)
		case *ast.Condition:
			collectNested(s.IfStatement().TrueBlock(), out)
			for _, elif := range s.Elifs() {
				collectNested(elif.TrueBlock(), out)
			}
			if els := s.Else(); els != nil {
				collectNested(els.FalseBlock(), out)
			}
		}
	}
}

// Generator holds the emitter, the shared label allocator, and the
// per-function stack-index/variable-offset state that genFunction resets
// on every entry.
type Generator struct {
	emitter *Emitter
	labels  *labels.Allocator

	stackIndex int
	vars       map[string]int
}

func (g *Generator) genFunction(fn *ast.FunctionDefinition) error {
	g.stackIndex = 0
	g.vars = map[string]int{}

	g.emitter.EnterFunction(fn.Name)
	if err := g.genBlock(fn.Body()); err != nil {
		return err
	}
	g.emitter.ExitFunction()
	return nil
}

func (g *Generator) genBlock(block *ast.Block) error {
	for _, stmt := range block.Statements() {
		if err := g.genStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) genStatement(node ast.Node) error {
	switch n := node.(type) {
	case *ast.ReturnStatement:
		if err := g.genExpression(n.Expr()); err != nil {
			return err
		}
		g.emitter.EmitEpilogue()
		return nil

	case *ast.VariableDeclaration:
		if err := g.genExpression(n.Init()); err != nil {
			return err
		}
		g.emitter.PushStack("%rax")
		g.stackIndex -= 8
		g.vars[n.Name] = g.stackIndex
		return nil

	case *ast.WhileStatement:
		return g.genWhile(n)

	case *ast.Condition:
		return g.genCondition(n)

	case *ast.FunctionDefinition:
		// Already collected and emitted as a top-level function by
		// collectFunctions; skip it here.
		return nil

	default:
		return g.genExpression(node)
	}
}

func (g *Generator) genWhile(n *ast.WhileStatement) error {
	start := g.labels.Next(labels.LoopStart)
	// loop_end_N shares loop_start_N's index.
	end := string(labels.LoopEnd) + start[len(labels.LoopStart):]

	g.emitter.Label(start)
	if err := g.genExpression(n.Cond()); err != nil {
		return err
	}
	g.emitter.Instruction("cmpl", "$0", "%eax")
	g.emitter.Instruction("je", end)
	if err := g.genBlock(n.Body()); err != nil {
		return err
	}
	g.emitter.Instruction("jmp", start)
	g.emitter.Label(end)
	return nil
}

// genCondition lowers the if/elif*/else? chain. Every clause's true-block
// unconditionally jumps to postCond once lowered — including the last
// clause, which without an else would fall straight there anyway — since emitting that jump
// unconditionally keeps the lowering uniform and output deterministic.
func (g *Generator) genCondition(n *ast.Condition) error {
	type clause struct {
		cond  ast.Node
		block *ast.Block
	}

	clauses := []clause{{n.IfStatement().Cond(), n.IfStatement().TrueBlock()}}
	for _, elif := range n.Elifs() {
		clauses = append(clauses, clause{elif.Cond(), elif.TrueBlock()})
	}
	hasElse := n.Else() != nil

	postCond := g.labels.Next(labels.PostCond)
	var pendingCond string

	for i, c := range clauses {
		if i > 0 {
			g.emitter.Label(pendingCond)
		}

		if err := g.genExpression(c.cond); err != nil {
			return err
		}
		g.emitter.Instruction("cmpl", "$0", "%eax")

		isLast := i == len(clauses)-1
		if isLast && !hasElse {
			g.emitter.Instruction("je", postCond)
		} else {
			pendingCond = g.labels.Next(labels.Cond)
			g.emitter.Instruction("je", pendingCond)
		}

		if err := g.genBlock(c.block); err != nil {
			return err
		}
		g.emitter.Instruction("jmp", postCond)
	}

	if hasElse {
		g.emitter.Label(pendingCond)
		if err := g.genBlock(n.Else().FalseBlock()); err != nil {
			return err
		}
	}

	g.emitter.Label(postCond)
	return nil
}

func (g *Generator) genExpression(node ast.Node) error {
	switch n := node.(type) {
	case *ast.Constant:
		g.emitter.Instruction("mov", fmt.Sprintf("$%d", n.Value), "%eax")
		return nil

	case *ast.VariableReference:
		offset, ok := g.vars[n.Name]
		if !ok {
			return &GenError{Message: fmt.Sprintf("reference to undeclared variable %q", n.Name)}
		}
		g.emitter.Instruction("mov", fmt.Sprintf("%d(%%rbp)", offset), "%eax")
		return nil

	case *ast.UnaryOperator:
		return g.genUnary(n)

	case *ast.BinaryOperator:
		return g.genBinary(n)

	case *ast.LogicOperator:
		return g.genLogic(n)

	case *ast.TernaryOperator:
		return g.genTernary(n)

	case *ast.FunctionCall:
		return g.genCall(n)

	default:
		return &GenError{Message: fmt.Sprintf("unexpected node %s in expression position", node.Kind())}
	}
}

func (g *Generator) genUnary(n *ast.UnaryOperator) error {
	if err := g.genExpression(n.Operand()); err != nil {
		return err
	}
	switch n.Op {
	case token.Minus:
		g.emitter.Instruction("neg", "%eax")
	case token.Negation:
		g.emitter.Instruction("cmp", "$0", "%eax")
		g.emitter.Instruction("sete", "%al")
		g.emitter.Instruction("movzb", "%al", "%eax")
	case token.Tilde:
		g.emitter.Instruction("not", "%eax")
	default:
		return &GenError{Message: fmt.Sprintf("unhandled unary operator %s", n.Op)}
	}
	return nil
}

func (g *Generator) genBinary(n *ast.BinaryOperator) error {
	if n.Op == token.Assignment {
		return g.genAssignment(n)
	}

	switch n.Op {
	case token.Plus, token.Star:
		if err := g.genExpression(n.Left()); err != nil {
			return err
		}
		g.emitter.PushStack("%rax")
		if err := g.genExpression(n.Right()); err != nil {
			return err
		}
		g.emitter.PopStack("%rcx")
		if n.Op == token.Plus {
			g.emitter.Instruction("add", "%ecx", "%eax")
		} else {
			g.emitter.Instruction("imul", "%ecx", "%eax")
		}
		return nil

	case token.Minus, token.Slash:
		// Non-commutative: lower the right operand first and push
		// it, so that the left operand (minuend/dividend) ends up in
		// %eax and the right one is popped into %ecx.
		if err := g.genExpression(n.Right()); err != nil {
			return err
		}
		g.emitter.PushStack("%rax")
		if err := g.genExpression(n.Left()); err != nil {
			return err
		}
		g.emitter.PopStack("%rcx")
		if n.Op == token.Minus {
			g.emitter.Instruction("sub", "%ecx", "%eax")
		} else {
			g.emitter.Instruction("cdq")
			g.emitter.Instruction("idiv", "%ecx")
		}
		return nil

	default:
		return &GenError{Message: fmt.Sprintf("unhandled binary operator %s", n.Op)}
	}
}

func (g *Generator) genAssignment(n *ast.BinaryOperator) error {
	ref, ok := n.Left().(*ast.VariableReference)
	if !ok {
		return &GenError{Message: "assignment target must be a variable reference"}
	}
	offset, ok := g.vars[ref.Name]
	if !ok {
		return &GenError{Message: fmt.Sprintf("assignment to undeclared variable %q", ref.Name)}
	}
	if err := g.genExpression(n.Right()); err != nil {
		return err
	}
	g.emitter.Instruction("mov", "%eax", fmt.Sprintf("%d(%%rbp)", offset))
	return nil
}

func (g *Generator) genLogic(n *ast.LogicOperator) error {
	switch n.Op {
	case token.KeywordAnd:
		return g.genShortCircuitAnd(n)
	case token.KeywordOr:
		return g.genShortCircuitOr(n)
	default:
		return g.genComparison(n)
	}
}

func (g *Generator) genComparison(n *ast.LogicOperator) error {
	if err := g.genExpression(n.Left()); err != nil {
		return err
	}
	g.emitter.PushStack("%rax")
	if err := g.genExpression(n.Right()); err != nil {
		return err
	}
	g.emitter.PopStack("%rcx")
	g.emitter.Instruction("cmp", "%eax", "%ecx")
	g.emitter.Instruction("mov", "$0", "%eax")

	setOp, err := comparisonSetOp(n.Op)
	if err != nil {
		return err
	}
	g.emitter.Instruction(setOp, "%al")
	return nil
}

func comparisonSetOp(op token.Kind) (string, error) {
	switch op {
	case token.Equals:
		return "sete", nil
	case token.NotEquals:
		return "setne", nil
	case token.LessThanOrEqual:
		return "setle", nil
	case token.GreaterThanOrEqual:
		return "setge", nil
	case token.LessThan:
		return "setl", nil
	case token.GreaterThan:
		return "setg", nil
	default:
		return "", &GenError{Message: fmt.Sprintf("unhandled comparison operator %s", op)}
	}
}

func (g *Generator) genShortCircuitAnd(n *ast.LogicOperator) error {
	if err := g.genExpression(n.Left()); err != nil {
		return err
	}
	clause := g.labels.Next(labels.Clause)
	clauseEnd := clause + "_end"

	g.emitter.Instruction("cmp", "$0", "%eax")
	g.emitter.Instruction("jne", clause)
	g.emitter.Instruction("jmp", clauseEnd)
	g.emitter.Label(clause)
	if err := g.genExpression(n.Right()); err != nil {
		return err
	}
	g.emitter.Instruction("cmp", "$0", "%eax")
	g.emitter.Instruction("mov", "$0", "%eax")
	g.emitter.Instruction("setne", "%al")
	g.emitter.Label(clauseEnd)
	return nil
}

func (g *Generator) genShortCircuitOr(n *ast.LogicOperator) error {
	if err := g.genExpression(n.Left()); err != nil {
		return err
	}
	clause := g.labels.Next(labels.Clause)
	clauseEnd := clause + "_end"

	g.emitter.Instruction("cmp", "$0", "%eax")
	g.emitter.Instruction("je", clause)
	g.emitter.Instruction("mov", "$1", "%eax")
	g.emitter.Instruction("jmp", clauseEnd)
	g.emitter.Label(clause)
	if err := g.genExpression(n.Right()); err != nil {
		return err
	}
	g.emitter.Instruction("cmp", "$0", "%eax")
	g.emitter.Instruction("mov", "$0", "%eax")
	g.emitter.Instruction("setne", "%al")
	g.emitter.Label(clauseEnd)
	return nil
}

func (g *Generator) genTernary(n *ast.TernaryOperator) error {
	elseLabel := g.labels.Next(labels.Conditional)
	// post_conditional_N shares conditional_N's index.
	endLabel := string(labels.PostConditional) + elseLabel[len(labels.Conditional):]

	if err := g.genExpression(n.Condition()); err != nil {
		return err
	}
	g.emitter.Instruction("cmp", "$0", "%eax")
	g.emitter.Instruction("je", elseLabel)
	if err := g.genExpression(n.TrueExpr()); err != nil {
		return err
	}
	g.emitter.Instruction("jmp", endLabel)
	g.emitter.Label(elseLabel)
	if err := g.genExpression(n.FalseExpr()); err != nil {
		return err
	}
	g.emitter.Label(endLabel)
	return nil
}

// genCall lowers a zero-argument call to "call name". A call with
// arguments is rejected: no calling convention moves arguments into
// registers, so such a call could never run correctly (see DESIGN.md).
func (g *Generator) genCall(n *ast.FunctionCall) error {
	if len(n.Arguments()) > 0 {
		return &GenError{Message: fmt.Sprintf("call to %q has arguments, but no calling convention is implemented", n.Name)}
	}
	g.emitter.Instruction("call", n.Name)
	return nil
}
