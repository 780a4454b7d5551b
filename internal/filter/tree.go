package filter

// Node is the algebraic sum type for a compiled filter tree (DESIGN Note
// "Filter tree as algebraic sum type"). Evaluation is a fold: Eval walks
// the tree and returns the clause's truth value for one task.
type Node interface {
	Eval(ctx *evalContext) (Value, error)
}

// IDRange is one `a` or `a-b` component of a Sequence token.
type IDRange struct {
	Lo, Hi int
}

// Contains reports whether id falls within this range (inclusive).
func (r IDRange) Contains(id int) bool { return id >= r.Lo && id <= r.Hi }

// SequenceNode matches by current integer ID or by UUID; a filter
// consisting solely of SequenceNodes (combined only by implicit AND) is
// "sequence-only" and enables the storage fast path (spec.md §4.4).
type SequenceNode struct {
	Ranges []IDRange
	UUIDs  []string
}

func (n *SequenceNode) Eval(ctx *evalContext) (Value, error) {
	for _, r := range n.Ranges {
		if r.Contains(ctx.id) {
			return boolValue(true), nil
		}
	}
	for _, u := range n.UUIDs {
		if u == ctx.uuid {
			return boolValue(true), nil
		}
	}
	return boolValue(false), nil
}

// TagNode matches +tag (Positive) or -tag (absence required).
type TagNode struct {
	Name     string
	Positive bool
}

func (n *TagNode) Eval(ctx *evalContext) (Value, error) {
	has := ctx.hasTag(n.Name)
	if n.Positive {
		return boolValue(has), nil
	}
	return boolValue(!has), nil
}

// AttrNode matches name[.modifier]:value, including the description/
// annotation fan-out handled specially in eval.go.
type AttrNode struct {
	Name     string
	Modifier string
	Value    string
}

func (n *AttrNode) Eval(ctx *evalContext) (Value, error) {
	return evalAttr(ctx, n)
}

// SubstringNode is a bare word matched as a case-sensitive substring
// against description and every annotation.
type SubstringNode struct {
	Word string
}

func (n *SubstringNode) Eval(ctx *evalContext) (Value, error) {
	return evalDescriptionLike(ctx, "has", n.Word)
}

// RegexNode matches /pattern/ against description.
type RegexNode struct {
	Pattern string
}

func (n *RegexNode) Eval(ctx *evalContext) (Value, error) {
	re, err := ctx.regex(n.Pattern)
	if err != nil {
		return Value{}, err
	}
	return boolValue(re.MatchString(ctx.description())), nil
}

// DOMNode resolves a dotted DOM path (e.g. "tags.count", "rc.color")
// through the Resolver rather than a direct task attribute.
type DOMNode struct {
	Path string
}

func (n *DOMNode) Eval(ctx *evalContext) (Value, error) {
	return ctx.resolveDOM(n.Path)
}

// LiteralNode is a constant operand; Compile uses it as the always-true
// root of an empty filter.
type LiteralNode struct {
	Val Value
}

func (n *LiteralNode) Eval(ctx *evalContext) (Value, error) { return n.Val, nil }

// BinOpNode applies a binary operator (and/or/xor, relational, +/-) to two
// already-compiled subtrees.
type BinOpNode struct {
	Op          TokenKind
	Left, Right Node
}

func (n *BinOpNode) Eval(ctx *evalContext) (Value, error) {
	return evalBinOp(ctx, n)
}

// UnaryOpNode applies logical negation (!) to a single subtree. The match
// operators ~ and !~ are binary and are handled by evalBinOp.
type UnaryOpNode struct {
	Op      TokenKind
	Operand Node
}

func (n *UnaryOpNode) Eval(ctx *evalContext) (Value, error) {
	v, err := n.Operand.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	if n.Op == TokNot {
		return boolValue(!v.Bool()), nil
	}
	return v, nil
}
