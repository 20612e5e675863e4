/*
Package domain contains the core types of the intake wizard engine.

A WizardConfig is the immutable definition of a flow: ordered Steps, each
carrying zero or more Elements. A WizardSession is one principal's run
through a config; it accumulates enriched Responses and tracks the step
currently awaiting input. A StepPayload is the projection of the current
step that crosses the system boundary to the rendering client.

Types here are pure data. Sequencing logic lives in internal/runtime and
persistence behind the interfaces in pkg/ports.
*/
package domain
