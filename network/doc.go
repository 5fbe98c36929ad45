// Package network defines a managed security group construct whose
// ingress and egress rule lists are owned by an in-memory rule set:
// rules are de-duplicated on a description-excluded equality, and the
// egress side carries a default posture (allow-all or an explicit
// deny-all placeholder) until real rules take over. Groups imported by
// ID cannot carry inline rules and fall back to standalone rule
// resources.
package network
