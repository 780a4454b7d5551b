package filter

import (
	"fmt"

	"tasklet/internal/task"
)

// Expression is a compiled filter: a tree ready for per-task evaluation,
// plus the sequence-only fast-path metadata spec.md §4.4 describes.
type Expression struct {
	root         Node
	sequenceOnly bool
	unfiltered   bool
	ranges       []IDRange
	uuids        []string
	cache        *regexCache
}

// Unfiltered reports whether this Expression was compiled from zero
// filter tokens — "touches all tasks", the case cmd/tasklet's safety
// rule (spec.md §7) requires explicit confirmation for before a mutation.
func (e *Expression) Unfiltered() bool { return e.unfiltered }

// SequenceOnly reports whether this filter consists solely of ID/UUID
// references combined with implicit AND — a whitelist the storage loader
// can use to short-circuit which records it reads.
func (e *Expression) SequenceOnly() bool { return e.sequenceOnly }

// Sequence returns the ID ranges and UUIDs a sequence-only filter
// matches. Only meaningful when SequenceOnly() is true.
func (e *Expression) Sequence() ([]IDRange, []string) { return e.ranges, e.uuids }

// Eval evaluates the compiled expression against one task. id is the
// task's ephemeral session ID (0 if the task hasn't been loaded into a
// session, e.g. freshly created).
func (e *Expression) Eval(t *task.Task, id int, resolver Resolver) (bool, error) {
	ctx := newEvalContext(t, id, resolver, e.cache)
	v, err := e.root.Eval(ctx)
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}

// Compile tokenizes args, splits off the leading filter clause (everything
// before the first token that names a recognized command in commands),
// and compiles that clause into an Expression. It returns the remaining
// args (the command plus its modifications) unconsumed.
//
// An empty filter (the first arg is already a command name, or args is
// empty) compiles to an always-true Expression — "no filter" in
// Taskwarrior means "every task", the case cmd/tasklet's safety rule
// treats specially.
func Compile(args []string, commands map[string]bool) (*Expression, []string, error) {
	var filterArgs, remainder []string
	for i, a := range args {
		if commands[a] {
			remainder = append(remainder, args[i:]...)
			break
		}
		filterArgs = append(filterArgs, a)
	}
	// If no command token was ever found, everything was the filter and
	// there is no remainder (e.g. a bare read-only filter probe).
	if len(remainder) == 0 && len(filterArgs) == len(args) {
		// fallthrough: filterArgs already holds everything; remainder stays nil.
	}

	if len(filterArgs) == 0 {
		return &Expression{root: &LiteralNode{Val: boolValue(true)}, unfiltered: true, cache: newRegexCache()}, remainder, nil
	}

	tokens := make([]Token, 0, len(filterArgs))
	for _, a := range filterArgs {
		tok, err := classify(a)
		if err != nil {
			return nil, nil, err
		}
		tokens = append(tokens, tok)
	}

	withAnd := insertImplicitAnd(tokens)

	postfix, err := shuntingYard(withAnd)
	if err != nil {
		return nil, nil, err
	}
	root, err := buildTree(postfix)
	if err != nil {
		return nil, nil, err
	}

	expr := &Expression{root: root, cache: newRegexCache()}
	if ranges, uuids, ok := detectSequenceOnly(withAnd); ok {
		expr.sequenceOnly = true
		expr.ranges = ranges
		expr.uuids = uuids
	}
	return expr, remainder, nil
}

// insertImplicitAnd threads an implicit TokAnd between any two adjacent
// clauses that aren't already joined by an explicit operator, per
// spec.md §4.4 step 2.
func insertImplicitAnd(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens)*2)
	prevEndsOperand := false
	for _, tok := range tokens {
		startsOperand := tok.Kind.IsOperand() || tok.Kind == TokLParen
		if prevEndsOperand && startsOperand {
			out = append(out, Token{Kind: TokAnd, Raw: "and"})
		}
		out = append(out, tok)
		prevEndsOperand = tok.Kind.IsOperand() || tok.Kind == TokRParen
	}
	return out
}

func precedence(k TokenKind) int {
	switch k {
	case TokNot, TokMatch, TokNMatch:
		return 5
	case TokPlus, TokMinus:
		return 4
	case TokLt, TokLe, TokEq, TokNe, TokGe, TokGt:
		return 3
	case TokAnd:
		return 2
	case TokXor:
		return 1
	case TokOr:
		return 0
	}
	return -1
}

// shuntingYard converts the infix token stream (with explicit parens and
// operators) to postfix, per the precedence table in spec.md §4.4 step 3:
// ! ~ > + - > relational > and > xor > or.
func shuntingYard(tokens []Token) ([]Token, error) {
	var output, opStack []Token
	for _, tok := range tokens {
		switch {
		case tok.Kind.IsOperand():
			output = append(output, tok)
		case tok.Kind == TokLParen:
			opStack = append(opStack, tok)
		case tok.Kind == TokRParen:
			found := false
			for len(opStack) > 0 {
				top := opStack[len(opStack)-1]
				opStack = opStack[:len(opStack)-1]
				if top.Kind == TokLParen {
					found = true
					break
				}
				output = append(output, top)
			}
			if !found {
				return nil, fmt.Errorf("unbalanced parentheses in filter expression")
			}
		default: // operator
			for len(opStack) > 0 {
				top := opStack[len(opStack)-1]
				if top.Kind == TokLParen {
					break
				}
				if precedence(top.Kind) >= precedence(tok.Kind) {
					output = append(output, top)
					opStack = opStack[:len(opStack)-1]
					continue
				}
				break
			}
			opStack = append(opStack, tok)
		}
	}
	for len(opStack) > 0 {
		top := opStack[len(opStack)-1]
		opStack = opStack[:len(opStack)-1]
		if top.Kind == TokLParen {
			return nil, fmt.Errorf("unbalanced parentheses in filter expression")
		}
		output = append(output, top)
	}
	return output, nil
}

// buildTree folds a postfix token stream into a single Node tree. TokNot
// is the only unary operator; every other operator is binary.
func buildTree(postfix []Token) (Node, error) {
	var stack []Node
	for _, tok := range postfix {
		if tok.Kind.IsOperand() {
			stack = append(stack, tok.Node)
			continue
		}
		if tok.Kind == TokNot {
			if len(stack) < 1 {
				return nil, fmt.Errorf("filter expression: '!' with no operand")
			}
			operand := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack = append(stack, &UnaryOpNode{Op: TokNot, Operand: operand})
			continue
		}
		if len(stack) < 2 {
			return nil, fmt.Errorf("filter expression: operator %q with too few operands", tok.Raw)
		}
		right := stack[len(stack)-1]
		left := stack[len(stack)-2]
		stack = stack[:len(stack)-2]
		stack = append(stack, &BinOpNode{Op: tok.Kind, Left: left, Right: right})
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("malformed filter expression")
	}
	return stack[0], nil
}

// detectSequenceOnly reports whether tokens (already implicit-AND
// expanded) consist solely of SequenceNode operands joined by TokAnd, and
// if so returns the merged ranges/UUIDs.
func detectSequenceOnly(tokens []Token) ([]IDRange, []string, bool) {
	var ranges []IDRange
	var uuids []string
	for _, tok := range tokens {
		switch tok.Kind {
		case TokAnd:
			continue
		case TokOperand:
			seq, ok := tok.Node.(*SequenceNode)
			if !ok {
				return nil, nil, false
			}
			ranges = append(ranges, seq.Ranges...)
			uuids = append(uuids, seq.UUIDs...)
		default:
			return nil, nil, false
		}
	}
	if len(ranges) == 0 && len(uuids) == 0 {
		return nil, nil, false
	}
	return ranges, uuids, true
}
