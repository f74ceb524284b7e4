package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser parses HexiDirect rule source into abstract rules.
//
// The source is a sequence of rules separated by newlines or semicolons.
// Blank lines and # comments are ignored. A top-level | inside a rule
// splits it into sibling sources that share the rule's macro group id.
type Parser struct {
	input        string
	tokens       []Token
	pos          int
	currentToken Token
	peekToken    Token
	errors       *ErrorList
}

// NewParser creates a new parser. Preset lines (such as b3s23) are
// expanded into their rule text before tokenization.
func NewParser(input string) *Parser {
	input = ExpandPresets(input)

	lexer := NewLexer(input)
	p := &Parser{
		input:  input,
		tokens: lexer.TokenizeAll(),
		errors: &ErrorList{},
	}

	// Merge lexer errors
	for _, err := range lexer.Errors().Errors {
		p.errors.AddError(err)
	}

	// Initialize current and peek tokens
	p.nextToken()
	p.nextToken()

	return p
}

// nextToken advances to the next token
func (p *Parser) nextToken() {
	p.currentToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else {
		p.peekToken = Token{Type: TokenEOF, Literal: "", Pos: p.currentToken.Pos}
	}
}

// skipSeparators skips newlines, semicolons and comments between rules
func (p *Parser) skipSeparators() {
	for p.currentToken.Type == TokenNewline || p.currentToken.Type == TokenSemicolon || p.currentToken.Type == TokenComment {
		p.nextToken()
	}
}

// atRuleEnd reports whether the current token terminates a rule
func (p *Parser) atRuleEnd() bool {
	switch p.currentToken.Type {
	case TokenNewline, TokenSemicolon, TokenComment, TokenEOF:
		return true
	}
	return false
}

// Errors returns the accumulated error list
func (p *Parser) Errors() *ErrorList {
	return p.errors
}

// Parse parses the entire source. Each abstract rule carries its macro
// group id (its position in the returned list). On any error the whole
// parse fails with the error list, so the engine can fall back to its
// previous rule set.
func (p *Parser) Parse() ([]*Rule, error) {
	var rules []*Rule

	for p.currentToken.Type != TokenEOF {
		p.skipSeparators()
		if p.currentToken.Type == TokenEOF {
			break
		}

		rule := p.parseRule()
		if rule != nil {
			rule.Group = len(rules)
			rules = append(rules, rule)
		}

		// Recover to the next rule boundary after an error mid-rule
		for !p.atRuleEnd() {
			p.nextToken()
		}
	}

	if p.errors.HasErrors() {
		return nil, p.errors
	}

	return rules, nil
}

// parseRule parses: source { "|" source } "=>" target
func (p *Parser) parseRule() *Rule {
	startPos := p.currentToken.Pos

	rule := &Rule{Pos: startPos}

	src, ok := p.parseSource()
	if !ok {
		return nil
	}
	rule.Sources = append(rule.Sources, src)

	for p.currentToken.Type == TokenPipe {
		p.nextToken() // consume |
		sibling, ok := p.parseSource()
		if !ok {
			return nil
		}
		rule.Sources = append(rule.Sources, sibling)
	}

	if p.currentToken.Type != TokenArrow {
		p.addError(ErrorSyntax, fmt.Sprintf("expected '=>', got %s", p.currentToken.Type))
		return nil
	}
	p.nextToken() // consume =>

	tgt, ok := p.parseTarget()
	if !ok {
		return nil
	}
	rule.Target = tgt

	if !p.atRuleEnd() {
		p.addError(ErrorSyntax, fmt.Sprintf("unexpected %s after rule", p.currentToken.Type))
		return nil
	}

	rule.Text = p.ruleText(startPos)
	return rule
}

// ruleText recovers the source text of the rule starting at pos
func (p *Parser) ruleText(start Position) string {
	end := p.currentToken.Pos.Offset
	if p.currentToken.Type == TokenEOF {
		end = len(p.input)
	}
	if start.Offset < 0 || end > len(p.input) || start.Offset > end {
		return ""
	}
	return strings.TrimSpace(p.input[start.Offset:end])
}

// parseSource parses: state [ "%" | direction ] { bracket }
func (p *Parser) parseSource() (Source, bool) {
	var src Source

	state, ok := p.parseState()
	if !ok {
		return src, false
	}
	src.State = state

	switch p.currentToken.Type {
	case TokenPercent:
		src.DirKind = SrcDirAny
		p.nextToken()
	case TokenNumber:
		// A digit glued to the source state reads as part of the state
		// name, and states never contain digits.
		p.addError(ErrorInvalidState, fmt.Sprintf("digit in state %q", state+p.currentToken.Literal))
		return src, false
	}

	for p.currentToken.Type == TokenLBracket {
		group, ok := p.parseGroup()
		if !ok {
			return src, false
		}
		src.Groups = append(src.Groups, group)
	}

	return src, true
}

// parseGroup parses: "[" alt { "|" alt } "]" [ integer ]
func (p *Parser) parseGroup() (Group, bool) {
	group := Group{Repeat: 1}

	p.nextToken() // consume [

	alt, ok := p.parseAlt()
	if !ok {
		return group, false
	}
	group.Alts = append(group.Alts, alt)

	for p.currentToken.Type == TokenPipe {
		p.nextToken() // consume |
		alt, ok := p.parseAlt()
		if !ok {
			return group, false
		}
		group.Alts = append(group.Alts, alt)
	}

	if p.currentToken.Type != TokenRBracket {
		p.addError(ErrorSyntax, fmt.Sprintf("expected ']', got %s", p.currentToken.Type))
		return group, false
	}
	p.nextToken() // consume ]

	if p.currentToken.Type == TokenNumber {
		n, err := strconv.Atoi(p.currentToken.Literal)
		if err != nil || n < 1 || n > 6 {
			p.addError(ErrorInvalidRepeat, fmt.Sprintf("repeat count must be 1..6, got %s", p.currentToken.Literal))
			return group, false
		}
		group.Repeat = n
		p.nextToken()
	}

	return group, true
}

// parseAlt parses one bracket alternative: [ "-" ] [ direction ] state [ orient ]
func (p *Parser) parseAlt() (Condition, bool) {
	var cond Condition

	if p.currentToken.Type == TokenMinus {
		cond.Negated = true
		p.nextToken()
	}

	if p.currentToken.Type == TokenNumber {
		d, ok := p.parseDirection(p.currentToken.Literal)
		if !ok {
			return cond, false
		}
		cond.Pos = d
		p.nextToken()
	}

	if cond.Negated && cond.Pos == 0 {
		p.addError(ErrorNegationPosition, "negation requires an explicit position")
		return cond, false
	}

	state, ok := p.parseState()
	if !ok {
		return cond, false
	}
	cond.State = state

	switch p.currentToken.Type {
	case TokenDot:
		if cond.Pos != 0 {
			p.addError(ErrorOrientPosition, "pointing shorthand is only legal without an explicit position")
			return cond, false
		}
		cond.Orient = OrientToCenter
		p.nextToken()
	case TokenPercent:
		cond.Orient = OrientSomeDir
		p.nextToken()
	case TokenNumber:
		d, ok := p.parseDirection(p.currentToken.Literal)
		if !ok {
			return cond, false
		}
		cond.Orient = OrientDir
		cond.Dir = d
		p.nextToken()
	}

	return cond, true
}

// parseTarget parses: state [ "%" [ integer ] | "." [ integer ] | direction ]
func (p *Parser) parseTarget() (Target, bool) {
	var tgt Target

	state, ok := p.parseState()
	if !ok {
		return tgt, false
	}
	tgt.State = state

	switch p.currentToken.Type {
	case TokenPercent:
		tgt.Kind = TgtDirPersist
		p.nextToken()
		if p.currentToken.Type == TokenNumber {
			n, ok := p.parseRotation(p.currentToken.Literal)
			if !ok {
				return tgt, false
			}
			tgt.Rot = n
			p.nextToken()
		}
	case TokenDot:
		tgt.Kind = TgtDirTransfer
		p.nextToken()
		if p.currentToken.Type == TokenNumber {
			n, ok := p.parseRotation(p.currentToken.Literal)
			if !ok {
				return tgt, false
			}
			tgt.Rot = n
			p.nextToken()
		}
	case TokenNumber:
		d, ok := p.parseDirection(p.currentToken.Literal)
		if !ok {
			return tgt, false
		}
		tgt.Kind = TgtDirLiteral
		tgt.Dir = d
		p.nextToken()
	}

	return tgt, true
}

// parseState consumes and validates a state identifier
func (p *Parser) parseState() (string, bool) {
	if p.currentToken.Type != TokenIdent {
		p.addError(ErrorSyntax, fmt.Sprintf("expected state, got %s", p.currentToken.Type))
		return "", false
	}
	state := p.currentToken.Literal
	if !validState(state) {
		p.addError(ErrorInvalidState, fmt.Sprintf("invalid state %q", state))
		return "", false
	}
	p.nextToken()
	return state, true
}

// parseDirection validates a direction literal 1..6
func (p *Parser) parseDirection(lit string) (int, bool) {
	d, err := strconv.Atoi(lit)
	if err != nil || d < 1 || d > 6 {
		p.addError(ErrorInvalidDirection, fmt.Sprintf("direction must be 1..6, got %s", lit))
		return 0, false
	}
	return d, true
}

// parseRotation validates a rotation amount 0..5
func (p *Parser) parseRotation(lit string) (int, bool) {
	n, err := strconv.Atoi(lit)
	if err != nil || n < 0 || n > 5 {
		p.addError(ErrorInvalidRotation, fmt.Sprintf("rotation must be 0..5, got %s", lit))
		return 0, false
	}
	return n, true
}

func (p *Parser) addError(kind ErrorKind, message string) {
	p.errors.AddError(NewError(p.currentToken.Pos, kind, message))
}

// validState reports whether s is a legal state token: the empty sentinel
// or lowercase letters with underscores after the first character.
func validState(s string) bool {
	if s == "_" {
		return true
	}
	if len(s) == 0 || s[0] == '_' {
		return false
	}
	for _, ch := range s {
		if (ch < 'a' || ch > 'z') && ch != '_' {
			return false
		}
	}
	return true
}

// ParseRules is a convenience wrapper that parses source text in one call.
func ParseRules(input string) ([]*Rule, error) {
	return NewParser(input).Parse()
}
