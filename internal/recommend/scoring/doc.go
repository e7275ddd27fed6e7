// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

/*
Package scoring maps feature vectors to relevance probabilities in [0,1].

Two implementations satisfy Scorer:

  - WeightedSum: a deterministic weighted sum over a fixed set of dimensions.
    It always succeeds and serves as the fallback.
  - LearnedScorer: delegates to a pluggable Model under a timeout and a
    circuit breaker. Any model failure (timeout, error, open breaker, wrong
    output length, NaN or out-of-range predictions) is answered with the
    fallback scores and counted in stylist_scoring_fallbacks_total. Failures
    never reach the caller.

HTTPModel is a Model that posts batches to a remote prediction endpoint:

	POST {url}
	{"instances": [[0.1, 0.7, ...], ...]}

	200 OK
	{"predictions": [0.83, ...]}
*/
package scoring
