// Package privacy provides types and helpers for writing query
// policies, and deals with their evaluation at runtime.
package privacy

import (
	"context"
	"errors"
	"fmt"
)

// Policy decision sentinel errors.
//
// These errors are used as return values from policy rules to indicate
// how the policy evaluation should proceed. Use errors.Is() to check
// for these values:
//
//	if errors.Is(err, privacy.Allow) { ... }
//	if errors.Is(err, privacy.Deny) { ... }
//	if errors.Is(err, privacy.Skip) { ... }
var (
	// Allow may be returned by rules to indicate that the policy
	// evaluation should terminate with an allow decision.
	// When returned from a policy, the query is permitted.
	Allow = errors.New("veloxdoc/privacy: allow rule")

	// Deny may be returned by rules to indicate that the policy
	// evaluation should terminate with a deny decision.
	// When returned from a policy, the query is rejected.
	Deny = errors.New("veloxdoc/privacy: deny rule")

	// Skip may be returned by rules to indicate that the policy
	// evaluation should continue to the next rule in the chain.
	// This allows rules to abstain from making a decision.
	Skip = errors.New("veloxdoc/privacy: skip rule")
)

// Allowf returns a formatted wrapped Allow decision.
// The returned error wraps Allow and can be checked with errors.Is(err, Allow).
func Allowf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Allow)...)
}

// Denyf returns a formatted wrapped Deny decision.
// The returned error wraps Deny and can be checked with errors.Is(err, Deny).
func Denyf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Deny)...)
}

// Skipf returns a formatted wrapped Skip decision.
// The returned error wraps Skip and can be checked with errors.Is(err, Skip).
func Skipf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Skip)...)
}

type (
	// Query is the read-only view of a compiled query that rules
	// evaluate. It carries what an access decision can depend on
	// without exposing the plan itself.
	Query interface {
		// Model returns the name of the queried model.
		Model() string

		// Table returns the store table the statement runs against.
		Table() string

		// Filtered reports whether the statement narrows the table
		// with a predicate. An unfiltered statement enumerates the
		// whole table.
		Filtered() bool
	}

	// QueryRule defines the interface deciding whether a query is
	// allowed to execute.
	QueryRule interface {
		EvalQuery(context.Context, Query) error
	}

	// QueryPolicy combines multiple query rules into a single policy.
	QueryPolicy []QueryRule
)

// QueryRuleFunc type is an adapter which allows the use of ordinary
// functions as query rules.
type QueryRuleFunc func(context.Context, Query) error

// EvalQuery returns f(ctx, q).
func (f QueryRuleFunc) EvalQuery(ctx context.Context, q Query) error {
	return f(ctx, q)
}

// EvalQuery evaluates the query against the policy rules in order. The
// first rule returning a decision other than Skip or nil settles it:
// Allow permits the query with a nil error and anything else rejects
// it. A policy whose rules all abstain permits the query. A decision
// planted with DecisionContext bypasses the rules entirely.
func (policy QueryPolicy) EvalQuery(ctx context.Context, q Query) error {
	if decision, ok := DecisionFromContext(ctx); ok {
		return decision
	}
	for _, rule := range policy {
		switch decision := rule.EvalQuery(ctx, q); {
		case decision == nil || errors.Is(decision, Skip):
		case errors.Is(decision, Allow):
			return nil
		default:
			return decision
		}
	}
	return nil
}

// AlwaysAllowRule returns a rule that always returns an Allow decision.
func AlwaysAllowRule() QueryRule {
	return fixedDecision{Allow}
}

// AlwaysDenyRule returns a rule that always returns a Deny decision.
func AlwaysDenyRule() QueryRule {
	return fixedDecision{Deny}
}

// ContextQueryRule creates a query rule from a context evaluation
// function. The provided function receives the context and should
// return Allow, Deny, Skip, or nil. Returning nil is equivalent to
// returning Skip.
func ContextQueryRule(eval func(context.Context) error) QueryRule {
	return contextDecision{eval}
}

// OnModel evaluates the given rule only for queries on the named model
// and skips all others.
func OnModel(rule QueryRule, model string) QueryRule {
	return QueryRuleFunc(func(ctx context.Context, q Query) error {
		if q.Model() == model {
			return rule.EvalQuery(ctx, q)
		}
		return Skip
	})
}

// DenyModelRule returns a rule denying every query on the named model.
func DenyModelRule(model string) QueryRule {
	rule := QueryRuleFunc(func(_ context.Context, q Query) error {
		return Denyf("veloxdoc/privacy: queries on model %s are not allowed", q.Model())
	})
	return OnModel(rule, model)
}

// DenyUnfilteredRule returns a rule denying statements that enumerate a
// table without a predicate. Full scans are the expensive path of a
// document store, and policies commonly fence them off.
func DenyUnfilteredRule() QueryRule {
	return QueryRuleFunc(func(_ context.Context, q Query) error {
		if q.Filtered() {
			return Skip
		}
		return Denyf("veloxdoc/privacy: unfiltered scan of table %s is not allowed", q.Table())
	})
}

type decisionCtxKey struct{}

// DecisionContext creates a new context from the given parent context
// with a policy decision attach to it.
func DecisionContext(parent context.Context, decision error) context.Context {
	if decision == nil || errors.Is(decision, Skip) {
		return parent
	}
	return context.WithValue(parent, decisionCtxKey{}, decision)
}

// DecisionFromContext retrieves the policy decision from the context.
func DecisionFromContext(ctx context.Context) (error, bool) {
	decision, ok := ctx.Value(decisionCtxKey{}).(error)
	if ok && errors.Is(decision, Allow) {
		decision = nil
	}
	return decision, ok
}

type fixedDecision struct {
	decision error
}

func (f fixedDecision) EvalQuery(context.Context, Query) error {
	return f.decision
}

type contextDecision struct {
	eval func(context.Context) error
}

func (c contextDecision) EvalQuery(ctx context.Context, _ Query) error {
	return c.eval(ctx)
}
