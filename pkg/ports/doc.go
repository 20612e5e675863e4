/*
Package ports defines the driven ports (interfaces) of the intake engine.

These interfaces decouple the core sequencing logic from external
implementations: session persistence, config resolution, natural-language
rule evaluation, and distributed locking.

# Key Interfaces

  - SessionStore: durably persists wizard sessions keyed by thread ID.
  - ConfigRegistry: resolves wizard IDs to validated WizardConfigs.
  - RuleOracle: produces pass/fail verdicts for natural-language rules.
  - DistributedLocker: coordinates session access across replicas.
*/
package ports
