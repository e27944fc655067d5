package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/stosim/stosim/pkg/client"
)

func ExampleNewModel() {
	cfg := client.NewModel("decay").
		Species("A", 100).
		Species("B", 0).
		Reaction(client.NewReaction("decay").Consumes("A", 1).Produces("B", 1).Rate(1.0)).
		Build()

	fmt.Println(cfg.Name)
	fmt.Println(len(cfg.Species), len(cfg.Reactions))
	// Output:
	// decay
	// 2 1
}

// Registering a model and running an ensemble against a live server.
func ExampleClient_Run() {
	ctx := context.Background()
	c := client.New("http://localhost:8080")

	cfg := client.NewModel("dimerization").
		Species("M", 200).
		Species("D", 0).
		Reaction(client.NewReaction("dimerize").Consumes("M", 2).Produces("D", 1).Rate(0.5)).
		Reaction(client.NewReaction("dissociate").Consumes("D", 1).Produces("M", 2).Rate(0.1)).
		Volume(2.0).
		Build()
	if err := c.ApplyModel(ctx, "dimerization", cfg); err != nil {
		log.Fatal(err)
	}

	params := client.DefaultRunParams()
	params.MaxT = 10
	params.MaxIter = 1000
	params.Reps = 5
	params.Seed = 42

	results, err := c.Run(ctx, "dimerization", params)
	if err != nil {
		log.Fatal(err)
	}
	for _, run := range results.Runs {
		fmt.Printf("seed=%d status=%s t=%.3f\n", run.Seed, run.Status, run.Time)
	}
}
