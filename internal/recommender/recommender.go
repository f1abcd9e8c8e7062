// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

// Package recommender obtains book recommendations from Gemini and turns
// every failure into displayable text.
package recommender

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/biblioteca/internal/config"
	"github.com/tomtom215/biblioteca/internal/logging"
	"github.com/tomtom215/biblioteca/internal/metrics"
)

// Fallback texts shown in place of recommendations.
const (
	EmptyResponseMessage = "Gemini no devolvió una respuesta válida."
	connectErrorFormat   = "Error al conectar con Gemini: %s"
)

// Kind classifies the outcome of a Recommend call.
type Kind string

// Outcome kinds.
const (
	KindSuccess     Kind = "success"
	KindEmpty       Kind = "empty"
	KindStatus      Kind = "status"
	KindCircuitOpen Kind = "circuit_open"
	KindTransport   Kind = "transport"
)

// Reply is the text to display plus how it was obtained.
type Reply struct {
	Text   string
	Failed bool
	Kind   Kind
}

// Recommender makes one Gemini call per prompt.
type Recommender struct {
	gen    Generator
	secret string
}

// New creates a Recommender over gen. secret is scrubbed from any error
// text before it is shown or logged.
func New(gen Generator, secret string) *Recommender {
	return &Recommender{gen: gen, secret: secret}
}

// NewFromConfig builds the production chain: REST client behind a circuit breaker.
func NewFromConfig(cfg *config.GeminiConfig) (*Recommender, *CircuitBreakerClient) {
	cb := NewCircuitBreakerClient(NewClient(cfg), cfg)
	return New(cb, cfg.APIKey), cb
}

// Recommend returns Gemini's answer for prompt. It never fails: errors are
// converted to a fallback text and Reply.Failed is set. There is no retry.
func (r *Recommender) Recommend(ctx context.Context, prompt string) Reply {
	start := time.Now()
	text, err := r.gen.Generate(ctx, prompt)

	reply := r.toReply(text, err)
	metrics.RecordRecommendation(string(reply.Kind), time.Since(start))

	if reply.Failed {
		logging.Ctx(ctx).Warn().
			Str("kind", string(reply.Kind)).
			Str("error", logging.RedactSecret(err.Error(), r.secret)).
			Dur("duration", time.Since(start)).
			Msg("Gemini recommendation failed")
	}
	return reply
}

func (r *Recommender) toReply(text string, err error) Reply {
	if err == nil {
		return Reply{Text: text, Kind: KindSuccess}
	}

	if errors.Is(err, ErrEmptyResponse) {
		return Reply{Text: EmptyResponseMessage, Failed: true, Kind: KindEmpty}
	}

	kind := KindTransport
	var se *StatusError
	switch {
	case errors.As(err, &se):
		kind = KindStatus
	case errors.Is(err, ErrCircuitOpen):
		kind = KindCircuitOpen
	}

	msg := logging.RedactSecret(err.Error(), r.secret)
	return Reply{Text: fmt.Sprintf(connectErrorFormat, msg), Failed: true, Kind: kind}
}
