package transcribe

import (
	"chapterize/internal/services"
)

// TokenStream hands out tokens one at a time. Consumers may stop early; a
// stream that ends with an error never yields a token past the failure
// point. Not safe for concurrent use.
type TokenStream struct {
	tokens []Token
	pos    int
	err    error
	prev   mark
}

type mark struct {
	set    bool
	millis int64
}

// NewTokenStream wraps an ordered token slice in the pull contract.
func NewTokenStream(tokens []Token) *TokenStream {
	return &TokenStream{tokens: tokens}
}

// FailedTokenStream yields nothing and reports err.
func FailedTokenStream(err error) *TokenStream {
	return &TokenStream{err: err}
}

// Next returns the next token. A false return means the stream is exhausted
// or failed; Err distinguishes the two.
func (s *TokenStream) Next() (Token, bool) {
	if s.err != nil || s.pos >= len(s.tokens) {
		return Token{}, false
	}
	token := s.tokens[s.pos]
	if s.prev.set && token.Start.Millis() < s.prev.millis {
		s.err = services.Wrap(services.ErrValidation, "transcribe", "stream",
			"engine produced out-of-order tokens", nil)
		return Token{}, false
	}
	s.prev = mark{set: true, millis: token.Start.Millis()}
	s.pos++
	return token, true
}

// Err reports the terminal error, if any, once Next has returned false.
func (s *TokenStream) Err() error {
	return s.err
}

// Collect drains the stream into a slice. Returns the stream error when the
// stream failed partway.
func (s *TokenStream) Collect() ([]Token, error) {
	var tokens []Token
	for {
		token, ok := s.Next()
		if !ok {
			return tokens, s.Err()
		}
		tokens = append(tokens, token)
	}
}
