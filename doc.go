/*
Package luckydraw is a sequential randomized configuration picker.

A flow is an ordered list of attribute steps (brand, series, CPU, battery...). For each
step the picker loads a list of candidates from an external text resource, draws one of
them uniformly at random and records it before moving on. A dynamic step computes its
resource identifier from an earlier pick through a lookup table, so the series offered
depends on the brand that was drawn.

# Concept

The state machine (internal/runtime) owns step progression, path resolution and the
at-most-one-draw-in-flight rule. Everything else is a port or an adapter: resources come
from a ports.Retriever (files, HTTP, Redis or memory), randomness from a ports.Randomizer,
and the host (CLI runner, HTTP server) drives the loop and renders the report.

# Usage

A data directory holds a flow.yaml and the resource files it references.

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/luckydraw"
	)

	func main() {
		picker, err := luckydraw.New("./examples/phone")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		for !picker.IsComplete() {
			if _, err := picker.Load(ctx); err != nil {
				log.Fatal(err)
			}
			pick, err := picker.Draw(ctx)
			if err != nil {
				log.Fatal(err)
			}
			if err := picker.Commit(ctx, pick.Value); err != nil {
				log.Fatal(err)
			}
		}

		for _, e := range picker.Snapshot() {
			fmt.Printf("%s: %s\n", e.Key, e.Value)
		}
	}

Flows can also be declared in Go with package dsl and passed with WithFlow.
*/
package luckydraw
