package lexer

import "github.com/tangzhangming/jpy/internal/token"

// Stream 带有限前瞻的 Token 流
//
// Peek(0) 是当前 Token，Peek(k) 向前看 k 个；越界时返回末尾的 EOF。
// Consume 返回当前 Token 并前进，停留在 EOF 上不再前进。
type Stream struct {
	tokens []token.Token
	pos    int
}

// NewStream 从 Token 序列创建流
//
// 序列末尾缺少 EOF 时会自动补上。
func NewStream(tokens []token.Token) *Stream {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		var pos token.Position
		if len(tokens) > 0 {
			pos = tokens[len(tokens)-1].End()
		}
		tokens = append(tokens, token.Token{Type: token.EOF, Pos: pos})
	}
	return &Stream{tokens: tokens}
}

// Peek 向前查看第 k 个 Token（不消费）
func (s *Stream) Peek(k int) token.Token {
	i := s.pos + k
	if i < 0 {
		i = 0
	}
	if i >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1]
	}
	return s.tokens[i]
}

// Consume 消费并返回当前 Token
func (s *Stream) Consume() token.Token {
	tok := s.tokens[s.pos]
	if s.pos < len(s.tokens)-1 {
		s.pos++
	}
	return tok
}

// Len 返回 Token 总数（含 EOF）
func (s *Stream) Len() int {
	return len(s.tokens)
}
