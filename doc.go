/*
Package intake is a step-sequencing engine for conversational intake
wizards. It drives a user through an ordered series of steps defined in a
wizard config, persists progress per conversation thread, and uses a
language-model rule oracle to decide which conditional steps apply to a
given user.

# Concept

A wizard is a validated, immutable config: steps ordered by sort, each
carrying renderable elements (questions, info cards, documents). A session
records one user's run through a wizard on one conversation thread. After
every submitted answer batch the engine re-evaluates which later steps are
visible and presents the next one; when no step remains, the session
completes and a terminal sentinel payload is returned.

The architecture is hexagonal. The core engine depends only on ports
(SessionStore, ConfigRegistry, RuleOracle, DistributedLocker); adapters
supply in-memory, filesystem, Redis, and OpenAI-backed implementations,
plus HTTP and MCP front ends.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/peopleops/intake"
		"github.com/peopleops/intake/pkg/adapters/file"
		"github.com/peopleops/intake/pkg/adapters/openai"
	)

	func main() {
		registry, err := file.NewRegistry("./configs")
		if err != nil {
			log.Fatal(err)
		}

		oracle, err := openai.New(openai.Config{APIKey: "sk-..."})
		if err != nil {
			log.Fatal(err)
		}

		eng, err := intake.New(
			intake.WithRegistry(registry),
			intake.WithOracle(oracle),
		)
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		payload, err := eng.Init(ctx, "thread-1", "leave-intake", "emp-42")
		if err != nil {
			log.Fatal(err)
		}

		// Present payload.Step and payload.Elements to the user, collect
		// answers, then advance:
		payload, err = eng.Respond(ctx, "thread-1", payload.Step.StepID, nil)
		if err != nil {
			log.Fatal(err)
		}

		if payload.Terminal() {
			log.Println("intake complete")
		}
	}
*/
package intake
