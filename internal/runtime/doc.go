// Package runtime implements the wizard step-sequencing core: the flow
// controller over init/respond/resume, the sequencer that picks the next
// eligible step from sort order and oracle verdicts, response enrichment,
// and the step payload projection.
package runtime
