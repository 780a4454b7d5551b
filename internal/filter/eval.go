package filter

import (
	"fmt"
	"strconv"
	"strings"
)

var positiveModifiers = map[string]bool{
	"is": true, "has": true, "startswith": true, "endswith": true, "word": true,
	"before": true, "after": true, "under": true, "over": true, "above": true,
	"below": true, "any": true,
}

func isPositiveModifier(modifier string) bool { return positiveModifiers[modifier] }

// hasWord reports whether filterValue appears as a whole whitespace
// delimited word within value.
func hasWord(value, filterValue string) bool {
	for _, w := range strings.Fields(value) {
		if w == filterValue {
			return true
		}
	}
	return false
}

// matchModifier implements the single-candidate semantics of each
// relational modifier in spec.md §4.4's attribute clause grammar. has
// reports whether the attribute was present at all; value is "" when
// absent. none/any test presence alone, the ordered modifiers
// (before/after/under/over/above/below) fail on an absent attribute, and
// every other modifier compares against the empty value, so an absent
// attribute passes isnt, hasnt and noword.
func matchModifier(modifier, value string, has bool, filterValue string) (bool, error) {
	switch modifier {
	case "is":
		return value == filterValue, nil
	case "isnt":
		return value != filterValue, nil
	case "has":
		return strings.Contains(value, filterValue), nil
	case "hasnt":
		return !strings.Contains(value, filterValue), nil
	case "startswith":
		return strings.HasPrefix(value, filterValue), nil
	case "endswith":
		return strings.HasSuffix(value, filterValue), nil
	case "word":
		return hasWord(value, filterValue), nil
	case "noword":
		return !hasWord(value, filterValue), nil
	case "none":
		return !has, nil
	case "any":
		return has, nil
	case "before", "after", "under", "over", "above", "below":
		if !has {
			return false, nil
		}
		return compareOrdered(modifier, value, filterValue), nil
	default:
		return false, fmt.Errorf("unrecognized filter modifier %q", modifier)
	}
}

// compareOrdered compares value against filterValue numerically if both
// parse as numbers (covers epoch-seconds dates and plain numerics), else
// lexically.
func compareOrdered(modifier, value, filterValue string) bool {
	vNum, vErr := strconv.ParseFloat(value, 64)
	fNum, fErr := strconv.ParseFloat(filterValue, 64)
	var less, equal bool
	if vErr == nil && fErr == nil {
		less, equal = vNum < fNum, vNum == fNum
	} else {
		less, equal = value < filterValue, value == filterValue
	}
	switch modifier {
	case "before", "under", "below":
		return less
	case "after", "over", "above":
		return !less && !equal
	}
	return false
}

// evalAttr evaluates a name[.modifier]:value clause. "description" is
// special-cased through evalDescriptionLike for the annotation fan-out
// rule; every other attribute matches directly against the task's raw
// string value.
func evalAttr(ctx *evalContext, n *AttrNode) (Value, error) {
	if n.Name == "description" {
		return evalDescriptionLike(ctx, n.Modifier, n.Value)
	}
	value, has := ctx.t.GetOk(n.Name)
	pass, err := matchModifier(n.Modifier, value, has, n.Value)
	if err != nil {
		return Value{}, err
	}
	return boolValue(pass), nil
}

// evalDescriptionLike implements spec.md §4.4's description/annotation
// fan-out: filtering on description implicitly filters identically on
// every annotation. Positive modifiers pass if description OR any
// annotation matches; negative modifiers pass only if description AND
// every annotation matches (i.e. none fails).
func evalDescriptionLike(ctx *evalContext, modifier, filterValue string) (Value, error) {
	descPass, err := matchModifier(modifier, ctx.description(), true, filterValue)
	if err != nil {
		return Value{}, err
	}

	annoPassCount, annoFailCount := 0, 0
	for _, a := range ctx.t.Annotations() {
		pass, err := matchModifier(modifier, a.Text, true, filterValue)
		if err != nil {
			return Value{}, err
		}
		if pass {
			annoPassCount++
		} else {
			annoFailCount++
		}
	}

	if isPositiveModifier(modifier) {
		return boolValue(descPass || annoPassCount > 0), nil
	}
	return boolValue(descPass && annoFailCount == 0), nil
}

// evalBinOp applies a binary operator to two already-compiled subtrees,
// short-circuiting and/or the way a conventional boolean evaluator does.
func evalBinOp(ctx *evalContext, n *BinOpNode) (Value, error) {
	l, err := n.Left.Eval(ctx)
	if err != nil {
		return Value{}, err
	}

	switch n.Op {
	case TokAnd:
		if !l.Bool() {
			return boolValue(false), nil
		}
		r, err := n.Right.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		return boolValue(r.Bool()), nil

	case TokOr:
		if l.Bool() {
			return boolValue(true), nil
		}
		r, err := n.Right.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		return boolValue(r.Bool()), nil

	case TokXor:
		r, err := n.Right.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		return boolValue(l.Bool() != r.Bool()), nil

	case TokMatch, TokNMatch:
		pattern := ""
		if rn, ok := n.Right.(*RegexNode); ok {
			pattern = rn.Pattern
		} else {
			r, err := n.Right.Eval(ctx)
			if err != nil {
				return Value{}, err
			}
			pattern = r.String()
		}
		re, err := ctx.regex(pattern)
		if err != nil {
			return Value{}, err
		}
		matched := re.MatchString(l.String())
		if n.Op == TokNMatch {
			matched = !matched
		}
		return boolValue(matched), nil

	case TokPlus, TokMinus:
		r, err := n.Right.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		if n.Op == TokPlus {
			return numberValue(l.Number() + r.Number()), nil
		}
		return numberValue(l.Number() - r.Number()), nil

	case TokLt, TokLe, TokEq, TokNe, TokGe, TokGt:
		r, err := n.Right.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		return boolValue(compareValues(n.Op, l, r)), nil
	}

	return Value{}, fmt.Errorf("unsupported binary operator")
}

func compareValues(op TokenKind, l, r Value) bool {
	if l.Kind == ValNumber || r.Kind == ValNumber {
		ln, rn := l.Number(), r.Number()
		switch op {
		case TokLt:
			return ln < rn
		case TokLe:
			return ln <= rn
		case TokEq:
			return ln == rn
		case TokNe:
			return ln != rn
		case TokGe:
			return ln >= rn
		case TokGt:
			return ln > rn
		}
	}
	ls, rs := l.String(), r.String()
	switch op {
	case TokLt:
		return ls < rs
	case TokLe:
		return ls <= rs
	case TokEq:
		return ls == rs
	case TokNe:
		return ls != rs
	case TokGe:
		return ls >= rs
	case TokGt:
		return ls > rs
	}
	return false
}
