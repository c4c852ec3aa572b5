// Package entitlements resolves and caches the entitlement sets that gate
// platform features: what a member may do given their subscription tier and
// their club or store roles.
//
// Resolution is expensive (it joins memberships, role tables and subscription
// state), so results live in a two-tier cache: a small in-process memory tier
// in front of a persistent key-value store. Reads check the memory tier, then
// the store, then fall through to a single shared computation per user;
// concurrent callers for the same user always share one computation. Writes
// go through both tiers; invalidation drops both and notifies registered
// listeners.
//
// The Service owns all of its state. Construct one per process (or per test),
// wire the calculator and store, and call Reset between tests for a pristine
// instance.
package entitlements
