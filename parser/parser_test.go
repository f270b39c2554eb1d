package parser

import (
	"testing"

	"github.com/skx/lang-compiler/ast"
	"github.com/skx/lang-compiler/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	toks, err := lexer.Tokenize(source)
	require.NoError(t, err)
	program, err := Parse(toks)
	require.NoError(t, err)
	return program
}

func mustFailParse(t *testing.T, source string) error {
	t.Helper()
	toks, err := lexer.Tokenize(source)
	require.NoError(t, err)
	_, err = Parse(toks)
	require.Error(t, err)
	return err
}

func findFunction(program *ast.Program, name string) *ast.FunctionDefinition {
	for _, fn := range program.Functions() {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

func TestParseBareReturnSynthesizesMain(t *testing.T) {
	program := mustParse(t, "return 42\n")

	main := findFunction(program, "main")
	require.NotNil(t, main)
	require.Len(t, main.Body().Statements(), 1)

	ret, ok := main.Body().Statements()[0].(*ast.ReturnStatement)
	require.True(t, ok)
	constant, ok := ret.Expr().(*ast.Constant)
	require.True(t, ok)
	assert.EqualValues(t, 42, constant.Value)
}

func TestParseArithmeticPrecedence(t *testing.T) {
	// "2 + 3 * 4" must parse as "2 + (3 * 4)", i.e. standard precedence.
	program := mustParse(t, "return 2 + 3 * 4\n")
	main := findFunction(program, "main")
	ret := main.Body().Statements()[0].(*ast.ReturnStatement)

	add, ok := ret.Expr().(*ast.BinaryOperator)
	require.True(t, ok)

	left, ok := add.Left().(*ast.Constant)
	require.True(t, ok)
	assert.EqualValues(t, 2, left.Value)

	mul, ok := add.Right().(*ast.BinaryOperator)
	require.True(t, ok)
	mulLeft := mul.Left().(*ast.Constant)
	mulRight := mul.Right().(*ast.Constant)
	assert.EqualValues(t, 3, mulLeft.Value)
	assert.EqualValues(t, 4, mulRight.Value)
}

func TestParseArithmeticPrecedenceFixesOriginalBug(t *testing.T) {
	// "2 * 3 + 4" must parse as "(2 * 3) + 4", NOT "2 * (3 + 4)".
	program := mustParse(t, "return 2 * 3 + 4\n")
	main := findFunction(program, "main")
	ret := main.Body().Statements()[0].(*ast.ReturnStatement)

	add, ok := ret.Expr().(*ast.BinaryOperator)
	require.True(t, ok)

	mul, ok := add.Left().(*ast.BinaryOperator)
	require.True(t, ok)
	assert.EqualValues(t, 2, mul.Left().(*ast.Constant).Value)
	assert.EqualValues(t, 3, mul.Right().(*ast.Constant).Value)
	assert.EqualValues(t, 4, add.Right().(*ast.Constant).Value)
}

func TestParseLeftAssociativeSameTierOperators(t *testing.T) {
	// "10 - 3 - 2" must parse as "(10 - 3) - 2".
	program := mustParse(t, "return 10 - 3 - 2\n")
	main := findFunction(program, "main")
	ret := main.Body().Statements()[0].(*ast.ReturnStatement)

	outer, ok := ret.Expr().(*ast.BinaryOperator)
	require.True(t, ok)
	inner, ok := outer.Left().(*ast.BinaryOperator)
	require.True(t, ok)

	assert.EqualValues(t, 10, inner.Left().(*ast.Constant).Value)
	assert.EqualValues(t, 3, inner.Right().(*ast.Constant).Value)
	assert.EqualValues(t, 2, outer.Right().(*ast.Constant).Value)
}

func TestParseComparisonDoesNotSwallowArithmeticChain(t *testing.T) {
	// "1 + 2 < 3" must parse as "(1 + 2) < 3".
	program := mustParse(t, "return 1 + 2 < 3\n")
	main := findFunction(program, "main")
	ret := main.Body().Statements()[0].(*ast.ReturnStatement)

	cmp, ok := ret.Expr().(*ast.LogicOperator)
	require.True(t, ok)
	add, ok := cmp.Left().(*ast.BinaryOperator)
	require.True(t, ok)
	assert.EqualValues(t, 1, add.Left().(*ast.Constant).Value)
	assert.EqualValues(t, 2, add.Right().(*ast.Constant).Value)
	assert.EqualValues(t, 3, cmp.Right().(*ast.Constant).Value)
}

func TestParseUnaryBindsTighterThanBinary(t *testing.T) {
	// "-a + b" must parse as "(-a) + b".
	program := mustParse(t, "a = 1\nb = 2\nreturn -a + b\n")
	main := findFunction(program, "main")
	stmts := main.Body().Statements()
	ret := stmts[2].(*ast.ReturnStatement)

	add, ok := ret.Expr().(*ast.BinaryOperator)
	require.True(t, ok)
	neg, ok := add.Left().(*ast.UnaryOperator)
	require.True(t, ok)
	ref, ok := neg.Operand().(*ast.VariableReference)
	require.True(t, ok)
	assert.Equal(t, "a", ref.Name)
}

func TestParseVariableDeclarationThenAssignment(t *testing.T) {
	program := mustParse(t, "a = 1\na = 2\nreturn a\n")
	main := findFunction(program, "main")
	stmts := main.Body().Statements()

	decl, ok := stmts[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, "a", decl.Name)

	assign, ok := stmts[1].(*ast.BinaryOperator)
	require.True(t, ok)
	ref, ok := assign.Left().(*ast.VariableReference)
	require.True(t, ok)
	assert.Equal(t, "a", ref.Name)
}

func TestParseIfElifElseGrouping(t *testing.T) {
	source := "a = 1\n" +
		"if a:\n" +
		"    return 1\n" +
		"elif a:\n" +
		"    return 2\n" +
		"else:\n" +
		"    return 3\n"
	program := mustParse(t, source)
	main := findFunction(program, "main")
	stmts := main.Body().Statements()

	cond, ok := stmts[1].(*ast.Condition)
	require.True(t, ok)
	require.Len(t, cond.Elifs(), 1)
	require.NotNil(t, cond.Else())
}

func TestParseTopLevelIfElifElseGrouping(t *testing.T) {
	source := "a = 1\n" +
		"if a:\n" +
		"    return 1\n" +
		"elif a:\n" +
		"    return 2\n"
	program := mustParse(t, source)
	main := findFunction(program, "main")
	stmts := main.Body().Statements()

	cond, ok := stmts[1].(*ast.Condition)
	require.True(t, ok)
	require.Len(t, cond.Elifs(), 1)
	require.Nil(t, cond.Else())
}

func TestParseWhileLoop(t *testing.T) {
	source := "i = 0\n" +
		"while i < 10:\n" +
		"    i = i + 1\n" +
		"return i\n"
	program := mustParse(t, source)
	main := findFunction(program, "main")
	stmts := main.Body().Statements()

	loop, ok := stmts[1].(*ast.WhileStatement)
	require.True(t, ok)
	require.Len(t, loop.Body().Statements(), 1)
}

func TestParseFunctionDefinitionAndCall(t *testing.T) {
	source := "def square(x):\n" +
		"    return x\n" +
		"return square()\n"
	program := mustParse(t, source)

	square := findFunction(program, "square")
	require.NotNil(t, square)
	assert.Equal(t, []string{"x"}, square.Parameters)

	main := findFunction(program, "main")
	ret := main.Body().Statements()[0].(*ast.ReturnStatement)
	call, ok := ret.Expr().(*ast.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "square", call.Name)
	assert.Empty(t, call.Arguments())
}

func TestParseTrailingCommaInParameterList(t *testing.T) {
	source := "def add(x, y,):\n" +
		"    return x\n" +
		"return 0\n"
	program := mustParse(t, source)
	add := findFunction(program, "add")
	require.NotNil(t, add)
	assert.Equal(t, []string{"x", "y"}, add.Parameters)
}

func TestParseTrailingCommaInArgumentList(t *testing.T) {
	source := "def f(x):\n" +
		"    return x\n" +
		"return f(1,)\n"
	program := mustParse(t, source)
	main := findFunction(program, "main")
	ret := main.Body().Statements()[0].(*ast.ReturnStatement)
	call := ret.Expr().(*ast.FunctionCall)
	require.Len(t, call.Arguments(), 1)
}

func TestParseTernaryExpression(t *testing.T) {
	program := mustParse(t, "a = 1\nreturn a ? 2 : 3\n")
	main := findFunction(program, "main")
	ret := main.Body().Statements()[1].(*ast.ReturnStatement)

	ternary, ok := ret.Expr().(*ast.TernaryOperator)
	require.True(t, ok)
	assert.EqualValues(t, 2, ternary.TrueExpr().(*ast.Constant).Value)
	assert.EqualValues(t, 3, ternary.FalseExpr().(*ast.Constant).Value)
}

func TestParseParenthesesOverridePrecedence(t *testing.T) {
	program := mustParse(t, "return (2 + 3) * 4\n")
	main := findFunction(program, "main")
	ret := main.Body().Statements()[0].(*ast.ReturnStatement)

	mul, ok := ret.Expr().(*ast.BinaryOperator)
	require.True(t, ok)
	add, ok := mul.Left().(*ast.BinaryOperator)
	require.True(t, ok)
	assert.EqualValues(t, 2, add.Left().(*ast.Constant).Value)
	assert.EqualValues(t, 3, add.Right().(*ast.Constant).Value)
	assert.EqualValues(t, 4, mul.Right().(*ast.Constant).Value)
}

func TestParseUndefinedVariableIsRejected(t *testing.T) {
	err := mustFailParse(t, "return a\n")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "undefined variable")
}

func TestParseCallToUnknownFunctionIsRejected(t *testing.T) {
	err := mustFailParse(t, "return f()\n")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "unknown function")
}

func TestParseUnbalancedParenthesesIsRejected(t *testing.T) {
	mustFailParse(t, "return (1 + 2\n")
}

func TestParseShallowerIndentationIsRejected(t *testing.T) {
	source := "a = 1\n" +
		"if a:\n" +
		"return 1\n"
	mustFailParse(t, source)
}

func TestParseMissingMainIsRejected(t *testing.T) {
	err := mustFailParse(t, "def helper():\n    return 1\n")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "main")
}

func TestParseExplicitMainSatisfiesMainInvariant(t *testing.T) {
	program := mustParse(t, "def main():\n    return 0\n")
	require.NotNil(t, findFunction(program, "main"))
}

func TestParseAndOrLogicOperators(t *testing.T) {
	program := mustParse(t, "a = 1\nb = 0\nreturn a and b or a\n")
	main := findFunction(program, "main")
	ret := main.Body().Statements()[2].(*ast.ReturnStatement)

	orNode, ok := ret.Expr().(*ast.LogicOperator)
	require.True(t, ok)
	assert.Equal(t, "OR", string(orNode.Op))

	andNode, ok := orNode.Left().(*ast.LogicOperator)
	require.True(t, ok)
	assert.Equal(t, "AND", string(andNode.Op))
}
