package glisp

import (
	"fmt"
)

// Status is the outcome of Parse
type Status int

const (
	Complete Status = iota
	Incomplete
	Failed
)

func (s Status) String() string {
	switch s {
	case Complete:
		return "complete"
	case Incomplete:
		return "incomplete"
	default:
		return "failed"
	}
}

// Parse reads every expression in text and evaluates it in env. Results are
// printed to the interpreter's output unless silent. Input with unclosed
// brackets or strings reports Incomplete so a REPL can ask for more.
func Parse(env *Env, text string, silent bool) (Status, Object, error) {
	status, err := CheckBalance(text)
	if status != Complete {
		return status, nil, err
	}
	exprs, err := ReadAll(text)
	if err != nil {
		return Failed, nil, err
	}
	var result Object = Empty
	for _, expr := range exprs {
		result, err = Eval(env, expr)
		if err != nil {
			return Failed, nil, err
		}
		if !silent {
			fmt.Fprintln(env.output(), Print(result))
		}
	}
	return Complete, result, nil
}

// ReadAll parses text into expressions without evaluating them
func ReadAll(text string) ([]Object, error) {
	p := &parser{lex: NewLexer(text)}
	var exprs []Object
	for {
		_, ok, err := p.lex.Peek(0)
		if err != nil {
			return nil, err
		}
		if !ok {
			return exprs, nil
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
}

// Read parses exactly one expression
func Read(text string) (Object, error) {
	exprs, err := ReadAll(text)
	if err != nil {
		return nil, err
	}
	if len(exprs) != 1 {
		return nil, &ParseError{Line: 1, Col: 1, Msg: fmt.Sprintf("expected one expression, found %d", len(exprs))}
	}
	return exprs[0], nil
}

type parser struct {
	lex *Lexer
}

func (p *parser) errorAt(tok Token, format string, args ...any) error {
	pending := make([]Token, len(p.lex.Pending()))
	copy(pending, p.lex.Pending())
	return &ParseError{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf(format, args...), Pending: pending}
}

func (p *parser) next() (Token, error) {
	return p.lex.Expect()
}

// peek returns the next token; running out of input is a parse error here
// because every caller is inside an open bracket.
func (p *parser) peek(open Token) (Token, error) {
	tok, ok, err := p.lex.Peek(0)
	if err != nil {
		return Token{}, err
	}
	if !ok {
		return Token{}, p.errorAt(open, "unexpected end of input, %q is never closed", open.Text)
	}
	return tok, nil
}

func (p *parser) expect(open Token, kind TokenKind, what string) (Token, error) {
	tok, err := p.peek(open)
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != kind {
		return Token{}, p.errorAt(tok, "expected %s, found %q", what, tok.Text)
	}
	p.lex.Consume()
	return tok, nil
}

func (p *parser) parseExpr() (Object, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case TokOpenParen:
		head, err := p.peek(tok)
		if err != nil {
			return nil, err
		}
		if head.Kind == TokKeyword {
			switch head.Text {
			case "if", "cond", "and", "or", "define", "lambda":
				p.lex.Consume()
				return p.parseForm(tok, head)
			}
		}
		return p.parseList(tok, TokCloseParen, false)
	case TokOpenBracket:
		return p.parseList(tok, TokCloseBracket, true)
	case TokOpenBrace:
		return p.parseEnv(tok)
	case TokQuote:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return Quote(inner), nil
	case TokBool, TokInt, TokDouble, TokString, TokRegex, TokSymbol:
		return tok.Value, nil
	case TokKeyword:
		if tok.Text == "nil" {
			return Nil, nil
		}
		return Symbol(tok.Text), nil
	default:
		return nil, p.errorAt(tok, "unexpected %q", tok.Text)
	}
}

func (p *parser) parseList(open Token, closer TokenKind, quoted bool) (Object, error) {
	l := &List{quoted: quoted}
	for {
		tok, err := p.peek(open)
		if err != nil {
			return nil, err
		}
		if tok.Kind == closer {
			p.lex.Consume()
			return l, nil
		}
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		l.Append(item)
	}
}

// parseUntilClose parses expressions up to and including ')'
func (p *parser) parseUntilClose(open Token) ([]Object, error) {
	var out []Object
	for {
		tok, err := p.peek(open)
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokCloseParen {
			p.lex.Consume()
			return out, nil
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
}

func (p *parser) parseForm(open, head Token) (Object, error) {
	switch head.Text {
	case "if":
		return p.parseIf(open)
	case "cond":
		return p.parseCond(open)
	case "and":
		conds, err := p.parseUntilClose(open)
		if err != nil {
			return nil, err
		}
		return &AndExpr{Conditions: conds}, nil
	case "or":
		conds, err := p.parseUntilClose(open)
		if err != nil {
			return nil, err
		}
		return &OrExpr{Conditions: conds}, nil
	case "define":
		return p.parseDefine(open)
	default:
		return p.parseLambda(open)
	}
}

func (p *parser) parseIf(open Token) (Object, error) {
	args, err := p.parseUntilClose(open)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 || len(args) > 3 {
		return nil, p.errorAt(open, "if takes a condition, a consequent and an optional alternative, found %d forms", len(args))
	}
	e := &IfExpr{Condition: args[0], Consequent: args[1]}
	if len(args) == 3 {
		e.Alternative = args[2]
	}
	return e, nil
}

func (p *parser) parseCond(open Token) (Object, error) {
	e := &CondExpr{}
	for {
		tok, err := p.peek(open)
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokCloseParen {
			p.lex.Consume()
			return e, nil
		}
		if len(e.Clauses) > 0 && e.Clauses[len(e.Clauses)-1].Else {
			return nil, p.errorAt(tok, "else must be the last cond clause")
		}
		clauseOpen, err := p.expect(open, TokOpenParen, "a cond clause")
		if err != nil {
			return nil, err
		}
		var clause CondClause
		first, err := p.peek(clauseOpen)
		if err != nil {
			return nil, err
		}
		if first.Kind == TokKeyword && first.Text == "else" {
			p.lex.Consume()
			clause.Else = true
			clause.Predicate = Symbol("else")
		} else {
			if clause.Predicate, err = p.parseExpr(); err != nil {
				return nil, err
			}
		}
		if clause.Body, err = p.parseUntilClose(clauseOpen); err != nil {
			return nil, err
		}
		e.Clauses = append(e.Clauses, clause)
	}
}

func (p *parser) parseDefine(open Token) (Object, error) {
	tok, err := p.peek(open)
	if err != nil {
		return nil, err
	}
	if tok.Kind == TokOpenParen {
		p.lex.Consume()
		name, err := p.expect(tok, TokSymbol, "a function name")
		if err != nil {
			return nil, err
		}
		params := p.parseParams()
		if _, err := p.expect(tok, TokCloseParen, "')' after parameters"); err != nil {
			return nil, err
		}
		lambda, err := p.parseLambdaBody(open, params)
		if err != nil {
			return nil, err
		}
		return &DefineExpr{Name: string(name.Value.(Symbol)), Value: lambda}, nil
	}

	name, err := p.expect(open, TokSymbol, "a symbol to define")
	if err != nil {
		return nil, err
	}
	args, err := p.parseUntilClose(open)
	if err != nil {
		return nil, err
	}
	if len(args) < 1 || len(args) > 2 {
		return nil, p.errorAt(open, "define takes a name, a value and an optional force flag")
	}
	e := &DefineExpr{Name: string(name.Value.(Symbol)), Value: args[0]}
	if len(args) == 2 {
		e.Force = args[1]
	}
	return e, nil
}

// parseParams collects parameter names, stopping at the first token that
// is not a symbol
func (p *parser) parseParams() []string {
	var params []string
	for {
		tok, ok, err := p.lex.Peek(0)
		if err != nil || !ok || tok.Kind != TokSymbol {
			return params
		}
		p.lex.Consume()
		params = append(params, string(tok.Value.(Symbol)))
	}
}

func (p *parser) parseLambda(open Token) (Object, error) {
	paramsOpen, err := p.expect(open, TokOpenParen, "a parameter list")
	if err != nil {
		return nil, err
	}
	params := p.parseParams()
	if _, err := p.expect(paramsOpen, TokCloseParen, "a parameter name or ')'"); err != nil {
		return nil, err
	}
	return p.parseLambdaBody(open, params)
}

// parseLambdaBody reads an optional doc string and the body up to ')'
func (p *parser) parseLambdaBody(open Token, params []string) (*LambdaExpr, error) {
	body, err := p.parseUntilClose(open)
	if err != nil {
		return nil, err
	}
	e := &LambdaExpr{Params: params}
	if len(body) > 1 {
		if doc, ok := body[0].(String); ok {
			e.Doc = string(doc)
			body = body[1:]
		}
	}
	e.Body = body
	return e, nil
}

func (p *parser) parseEnv(open Token) (Object, error) {
	e := &EnvExpr{}
	for {
		tok, err := p.peek(open)
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case TokCloseBrace:
			p.lex.Consume()
			return e, nil
		case TokSymbol:
			if e.Context != "" || len(e.Names) > 0 {
				return nil, p.errorAt(tok, "environment context must come first")
			}
			p.lex.Consume()
			e.Context = string(tok.Value.(Symbol))
		case TokOpenParen:
			p.lex.Consume()
			name, err := p.expect(tok, TokSymbol, "a field name")
			if err != nil {
				return nil, err
			}
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tok, TokCloseParen, "')' after field value"); err != nil {
				return nil, err
			}
			e.Names = append(e.Names, string(name.Value.(Symbol)))
			e.Values = append(e.Values, value)
		default:
			return nil, p.errorAt(tok, "expected a (name value) binding, found %q", tok.Text)
		}
	}
}
