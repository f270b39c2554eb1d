package ast

import (
	"testing"

	"github.com/skx/lang-compiler/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParentChildLinksAreConsistent(t *testing.T) {
	left := NewConstant(1)
	right := NewConstant(2)
	bin := NewBinaryOperator(token.Plus, left, right)

	assert.Same(t, bin, left.Parent())
	assert.Same(t, bin, right.Parent())
	require.Len(t, bin.Children(), 2)
	assert.Same(t, left, bin.Children()[0])
	assert.Same(t, right, bin.Children()[1])
}

func TestBlockAppendStatementSetsParent(t *testing.T) {
	block := NewBlock(true)
	ret := NewReturnStatement(NewConstant(1))
	block.AddStatement(ret)

	assert.Same(t, block, ret.Parent())
	assert.Equal(t, []Node{ret}, block.Statements())
}

func TestConditionAccessors(t *testing.T) {
	ifStmt := NewIfStatement(NewConstant(1), NewBlock(false))
	cond := NewCondition(ifStmt)

	elif := NewElifStatement(NewConstant(0), NewBlock(false))
	cond.AddElif(elif)

	els := NewElseStatement(NewBlock(false))
	cond.SetElse(els)

	assert.Same(t, ifStmt, cond.IfStatement())
	require.Len(t, cond.Elifs(), 1)
	assert.Same(t, elif, cond.Elifs()[0])
	assert.Same(t, els, cond.Else())
	assert.Same(t, cond, ifStmt.Parent())
	assert.Same(t, cond, elif.Parent())
	assert.Same(t, cond, els.Parent())
}

func TestConditionElseIsNilWhenAbsent(t *testing.T) {
	ifStmt := NewIfStatement(NewConstant(1), NewBlock(false))
	cond := NewCondition(ifStmt)

	assert.Nil(t, cond.Else())
	assert.Empty(t, cond.Elifs())
}

func TestVisitPreOrder(t *testing.T) {
	left := NewConstant(1)
	right := NewConstant(2)
	bin := NewBinaryOperator(token.Plus, left, right)
	ret := NewReturnStatement(bin)

	var seen []Node
	Visit(ret, func(n Node) { seen = append(seen, n) })

	assert.Equal(t, []Node{ret, bin, left, right}, seen)
}

func TestDumpString(t *testing.T) {
	ret := NewReturnStatement(NewConstant(42))
	out := DumpString(ret)
	assert.Contains(t, out, "ReturnStatement")
	assert.Contains(t, out, "  Constant(int, 42)")
}

func TestFunctionCallArguments(t *testing.T) {
	call := NewFunctionCall("f")
	call.AddArgument(NewConstant(1))
	call.AddArgument(NewConstant(2))

	require.Len(t, call.Arguments(), 2)
	assert.Equal(t, "FunctionCall(f, 2 args)", call.Describe())
}

func TestProgramFunctions(t *testing.T) {
	program := NewProgram()
	main := NewFunctionDefinition("main", nil, NewBlock(true))
	program.AddFunction(main)

	require.Len(t, program.Functions(), 1)
	assert.Equal(t, "main", program.Functions()[0].Name)
	assert.Same(t, program, main.Parent())
}
