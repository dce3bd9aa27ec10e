// Package privacy provides policy types and rule implementations that
// decide whether compiled queries may execute.
//
// The privacy layer evaluates before a statement reaches the store.
// Rules never see parameter values or results, only a read-only view of
// the plan: the model, the table, and whether the statement carries a
// predicate.
//
// # Rule Evaluation
//
// A policy is an ordered list of rules evaluated until one returns a
// final decision:
//
//   - Allow: permits the query and stops evaluation
//   - Deny: rejects the query and stops evaluation
//   - Skip: abstains and continues to the next rule
//
// If all rules return Skip, the query is permitted. Install a trailing
// AlwaysDenyRule to flip the default.
//
// # Installing a Policy
//
// Policies attach to a client and guard every execution through it:
//
//	client := veloxdoc.NewClient(driver, veloxdoc.WithPolicy(
//	    privacy.DenyIfNoViewer(),
//	    privacy.HasRole("admin"),
//	    privacy.DenyUnfilteredRule(),
//	))
//
// # Viewer Interface
//
// The Viewer interface represents the authenticated user. It travels in
// the context and rules read it back out:
//
//	ctx := privacy.WithViewer(ctx, &privacy.SimpleViewer{
//	    UserID: "user-123",
//	    Roles:  []string{"user"},
//	})
//	users, err := compiled.All(ctx, nil)
//
// # Overriding a Decision
//
// DecisionContext plants a decision that bypasses rule evaluation, for
// internal calls that must run regardless of policy:
//
//	ctx := privacy.DecisionContext(ctx, privacy.Allow)
package privacy
