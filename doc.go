/*
Package ucflow turns use-case descriptions into UML-style activity diagrams.

A use case is a named tree of sentences: plain steps, condition checks, if/else
chains, parallel blocks, loops, included and extended use cases, aborts and
resumes. The transform engine lowers that tree into an activity graph of
actions, decisions, merges, forks and joins wired by guarded control flows.

# Usage

By default the Engine reads use cases from a Loam repository (markdown documents
whose frontmatter holds the flows). Any ports.UseCaseLoader can be injected.

	eng, err := ucflow.New("./usecases", ucflow.WithMode(transform.Overview))
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.Transform(ctx, "UserLogin")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Graph.NodeCount(), res.Graph.EdgeCount())

The lower-level packages can be used on their own: pkg/usecase (model, parsing,
validation), pkg/activity (the graph), pkg/transform (lowering), pkg/export
(serializable documents) and pkg/dsl (a fluent builder).
*/
package ucflow
