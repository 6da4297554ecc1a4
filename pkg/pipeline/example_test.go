package pipeline_test

import (
	"fmt"

	"github.com/matzehuels/schemamap/pkg/pipeline"
	"github.com/matzehuels/schemamap/pkg/schema"
)

func ExampleCompute() {
	s, err := schema.ParseSDL(`
		type Query { user: User }
		type User { name: String, friend: User }
	`)
	if err != nil {
		panic(err)
	}

	opts := pipeline.DefaultOptions()
	opts.Root = "Query"
	m, _, err := pipeline.Compute(s.Types, opts)
	if err != nil {
		panic(err)
	}
	for _, n := range m.Nodes {
		fmt.Printf("%s depth=%d\n", n.Name, n.Depth)
	}
	for _, e := range m.Edges {
		fmt.Println(e.ID)
	}
	// Output:
	// Query depth=0
	// User depth=1
	// String depth=2
	// Query.user->User
	// User.name->String
	// User.friend->User
}
