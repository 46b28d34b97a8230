package formula

// Expr = num | var | Neg | Plus | Add | Sub | Mul | Div | Pow | '(' Expr ')'
// Neg = '-' Expr
// Plus = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr
// Div = Expr '/' Expr
// Pow = Expr '^' Expr

// Expr is a parsed formula that can be evaluated with a context.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// ids is the list of variable ids used in the expression.
	ids []string
}

// Parse parses a token sequence so it can be evaluated with a context. The
// tokens are read directly; they are never joined into source text. If the
// sequence is not a valid arithmetic expression, the error is an InputError
// which matches ErrUnevaluable.
func Parse(toks []Token) (*Expr, error) {
	scan := lex(toks)
	ids := make(map[string]bool)
	n, err := parseterm(scan, ids, exprprec)
	if err != nil {
		return nil, err
	}
	if tok := scan.must(); tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, "")
	}
	ex := Expr{
		n:   n,
		ids: make([]string, 0, len(ids)),
	}
	for k := range ids {
		ex.ids = append(ex.ids, k)
	}
	sortstrs(ex.ids)
	return &ex, nil
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, which is either EOF or a close bracket.
func parseterm(scan *lexer, ids map[string]bool, until operator) (*node, error) {
	n, err := parselhs(scan, ids, until)
	if err != nil {
		return nil, err
	}
	for {
		tok := scan.next()
		switch tok.kind {
		case tokenNum, tokenVar, tokenOpen:
			// There is no implicit multiplication.
			text := tok.text
			if tok.kind == tokenVar {
				text = "#" + text
			}
			return nil, &OperandError{Col: tok.pos, Text: text}
		case tokenText:
			return nil, &TextError{Col: tok.pos, Text: tok.text}
		case tokenOp:
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, ids, prec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: prec.op, pos: tok.pos, left: n, right: rhs}
		case tokenClose, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("formula: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary and
// any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, ids map[string]bool, until operator) (*node, error) {
	tok := scan.next()
	var n *node
	switch tok.kind {
	case tokenNum:
		n = &node{kind: nodeNum, name: tok.text, num: tok.num, pos: tok.pos}
	case tokenVar:
		ids[tok.text] = true
		n = &node{kind: nodeVar, name: tok.text, num: tok.num, pos: tok.pos}
	case tokenText:
		return nil, &TextError{Col: tok.pos, Text: tok.text}
	case tokenOp:
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, ids, prec)
		if err != nil {
			return nil, err
		}
		n = &node{kind: prec.op, pos: tok.pos, left: rhs}
	case tokenOpen:
		rhs, err := parseterm(scan, ids, exprprec)
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if end.kind != tokenClose {
			return nil, itShouldNotHaveEndedThisWay(end, tok.text)
		}
		n = rhs
	case tokenClose:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("formula: unknown token: " + tok.String())
	}
	return n, nil
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. open is the bracket that the
// subexpression should have matched, or empty if none.
func itShouldNotHaveEndedThisWay(tok lexToken, open string) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: open, Right: ""}
	case tokenClose:
		return &BracketError{Col: tok.pos, Left: open, Right: tok.text}
	default:
		panic("formula: it really should not have ended this way: " + tok.String())
	}
}

// Vars returns the ids of the variables used in the expression.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.ids...)
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term. Variables are
// written as # followed by their ids.
func (e *Expr) String() string {
	return e.n.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, nodeNop}
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
