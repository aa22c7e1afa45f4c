package evaluation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/giantswarm/agent-eval/internal/llm"
)

// FailureCategory classifies why a question or operation failed.
// The set is closed; MapError folds everything else into CategoryUnknown.
type FailureCategory string

const (
	CategoryParsingError        FailureCategory = "parsing_error"
	CategoryTokenLimitExceeded  FailureCategory = "token_limit_exceeded"
	CategoryContentGuardrail    FailureCategory = "content_guardrail"
	CategoryModelRefusal        FailureCategory = "model_refusal"
	CategoryNetworkTimeout      FailureCategory = "network_timeout"
	CategoryRateLimitExceeded   FailureCategory = "rate_limit_exceeded"
	CategoryCreditLimitExceeded FailureCategory = "credit_limit_exceeded"
	CategoryAuthenticationError FailureCategory = "authentication_error"
	CategoryUnknown             FailureCategory = "unknown"
)

// ErrUnknownCategory is returned when constructing a FailureReason with a
// category outside the closed set.
var ErrUnknownCategory = errors.New("unknown failure category")

// ErrEmptyDescription is returned when constructing a FailureReason without
// a description.
var ErrEmptyDescription = errors.New("failure description must not be empty")

// Valid reports whether the category belongs to the closed set.
func (c FailureCategory) Valid() bool {
	switch c {
	case CategoryParsingError, CategoryTokenLimitExceeded, CategoryContentGuardrail,
		CategoryModelRefusal, CategoryNetworkTimeout, CategoryRateLimitExceeded,
		CategoryCreditLimitExceeded, CategoryAuthenticationError, CategoryUnknown:
		return true
	default:
		return false
	}
}

// FailureReason is a classified, recoverability-tagged description of a
// failure. It carries enough technical detail to reconstruct the original
// cause without retaining the error object across the domain boundary.
type FailureReason struct {
	Category         FailureCategory `json:"category"`
	Description      string          `json:"description"`
	TechnicalDetails string          `json:"technical_details,omitempty"`
	OccurredAt       time.Time       `json:"occurred_at"`
	Recoverable      bool            `json:"recoverable"`
}

// NewFailureReason validates and constructs a FailureReason.
func NewFailureReason(category FailureCategory, description, technicalDetails string, recoverable bool) (FailureReason, error) {
	if !category.Valid() {
		return FailureReason{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if strings.TrimSpace(description) == "" {
		return FailureReason{}, ErrEmptyDescription
	}
	return FailureReason{
		Category:         category,
		Description:      description,
		TechnicalDetails: technicalDetails,
		OccurredAt:       time.Now().UTC(),
		Recoverable:      recoverable,
	}, nil
}

// Keyword groups inspected on HTTP 400 bodies, in match order.
var (
	tokenLimitPhrases = []string{
		"maximum context length",
		"context length exceeded",
		"context_length_exceeded",
		"token limit",
		"too many tokens",
		"max_tokens",
	}
	guardrailPhrases = []string{
		"content management policy",
		"content policy",
		"content filter",
		"safety system",
		"flagged",
	}
	refusalPhrases = []string{
		"cannot provide",
		"cannot assist",
		"unable to assist",
		"unable to provide",
		"decline",
		"refuse",
	}
)

// MapError classifies an arbitrary error from the gateway or a strategy into
// a FailureReason. Dispatch follows a fixed priority: transport failures,
// then HTTP-style status errors by code, then decode failures, then unknown.
func MapError(err error) FailureReason {
	var transportErr *llm.TransportError
	if errors.As(err, &transportErr) {
		description := "network error communicating with the model backend"
		if transportErr.Timeout {
			description = "request to the model backend timed out"
		}
		return failureReason(CategoryNetworkTimeout, description, transportErr.Error(), true)
	}

	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) {
		return mapStatusError(statusErr)
	}

	var decodeErr *llm.DecodeError
	if errors.As(err, &decodeErr) {
		return failureReason(CategoryParsingError,
			"model response could not be parsed", decodeErr.Error(), false)
	}

	return failureReason(CategoryUnknown,
		"unclassified error", fmt.Sprintf("%T: %v", err, err), false)
}

func mapStatusError(err *llm.StatusError) FailureReason {
	details := err.Error()
	if err.Body != "" {
		details = fmt.Sprintf("%s (%s)", details, err.Body)
	}

	switch {
	case err.StatusCode == 429:
		return failureReason(CategoryRateLimitExceeded,
			"model backend rate limit exceeded", details, true)
	case err.StatusCode == 401:
		return failureReason(CategoryAuthenticationError,
			"authentication with the model backend failed", details, false)
	case err.StatusCode == 402:
		return failureReason(CategoryCreditLimitExceeded,
			"model backend credit limit exceeded", details, false)
	case err.StatusCode == 400:
		return mapBadRequest(err, details)
	case err.StatusCode >= 500:
		return failureReason(CategoryUnknown,
			"model backend server error", details, true)
	default:
		return failureReason(CategoryUnknown,
			fmt.Sprintf("model backend rejected the request (status %d)", err.StatusCode),
			details, false)
	}
}

// mapBadRequest inspects a 400 body for token-limit, guardrail, and refusal
// phrases, in that order.
func mapBadRequest(err *llm.StatusError, details string) FailureReason {
	message := strings.ToLower(err.Message + " " + err.Body)

	if containsAny(message, tokenLimitPhrases) {
		return failureReason(CategoryTokenLimitExceeded,
			"request exceeded the model's token limit", details, false)
	}
	if containsAny(message, guardrailPhrases) {
		return failureReason(CategoryContentGuardrail,
			"request was blocked by a content guardrail", details, false)
	}
	if containsAny(message, refusalPhrases) {
		return failureReason(CategoryModelRefusal,
			"model refused to answer the question", details, false)
	}
	return failureReason(CategoryUnknown,
		"model backend rejected the request (status 400)", details, false)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// failureReason builds a FailureReason from inputs known to be valid.
func failureReason(category FailureCategory, description, technicalDetails string, recoverable bool) FailureReason {
	return FailureReason{
		Category:         category,
		Description:      description,
		TechnicalDetails: technicalDetails,
		OccurredAt:       time.Now().UTC(),
		Recoverable:      recoverable,
	}
}
