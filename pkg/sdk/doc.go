// Package sdk embeds the helpdex answer pipeline in a Go program.
//
// A Client owns the corpus, the in-memory vector index and the graph store
// connection. Build it once and share it; Answer is safe for concurrent use.
//
//	client, err := sdk.New(ctx,
//	    sdk.WithCorpusFile("data.json"),
//	    sdk.WithNeo4j("bolt://localhost:7687", "neo4j", "password"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	ans, err := client.Answer(ctx, "customer forgot their password")
//	// ans.Procedure: ordered step titles
//	// ans.Article, ans.Script: nearest article and script texts
//
// Without WithEmbedder the client uses a deterministic offline hashing embedder.
// WithPathFinder replaces the graph store, e.g. with an in-memory map in tests.
package sdk
