// Package changelog persists the history of rule saves and deletes made
// through the management API: who changed which rule, when, and between which
// content fingerprints. The log answers "when did this rule last change and
// what did it look like before" without reaching for the decision audit
// trail.
package changelog
