// Package binapi implements the binary-surface pass: visibility promotion
// for annotated declarations and accessor synthesis for references made by
// inlinable bodies.
//
// The pass runs in two phases over one compilation unit's declaration
// table. The Promoter widens @binaryAPI declarations (and overrides of
// binary-API declarations) to public and materializes @binaryAPIAccessor
// forwarders through the Registry. The Rewriter then walks every inlinable
// body and, for each reference that is not guaranteed accessible from an
// arbitrary future expansion site, routes it through a registered accessor
// or synthesizes an ad-hoc one. The Advisor observes the rewrite decisions
// and surfaces compatibility guidance.
//
// Accessor identities are deterministic (owner path + NameSep + simple
// name), so independent recompilations of unchanged sources produce
// byte-identical binary surfaces. A naming collision poisons the unit's
// registry: synthesis stops rather than silently overwriting an identity.
//
// Each unit owns its table and registry; nothing in this package is shared
// across units, which keeps units independently parallelizable.
package binapi
