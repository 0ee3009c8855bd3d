package app

import (
	"sync"
	"sync/atomic"
)

// Features that own a result panel.
const (
	FeatureItinerary = "itinerary"
	FeaturePacking   = "packing"
	FeaturePhrases   = "phrases"
	FeatureTransport = "transport"
)

type Token struct {
	Feature string
	Seq     uint64
}

// RequestTokens hands out a monotonically increasing token per feature so
// that a result computed for an older request can be recognised and dropped.
type RequestTokens struct {
	mu   sync.Mutex
	seqs map[string]*atomic.Uint64
}

func NewRequestTokens() *RequestTokens {
	return &RequestTokens{seqs: map[string]*atomic.Uint64{}}
}

func (t *RequestTokens) counter(feature string) *atomic.Uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.seqs[feature]
	if !ok {
		c = new(atomic.Uint64)
		t.seqs[feature] = c
	}
	return c
}

func (t *RequestTokens) Begin(feature string) Token {
	return Token{Feature: feature, Seq: t.counter(feature).Add(1)}
}

// Current reports whether no newer request for the same feature was begun.
func (t *RequestTokens) Current(tok Token) bool {
	return t.counter(tok.Feature).Load() == tok.Seq
}
